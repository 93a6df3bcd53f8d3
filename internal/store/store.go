// Package store provides a durable string-keyed store backed by sqlite.
// Values are opaque bytes; callers are expected to serialize with JSON.
// The store has no expiry semantics — callers that need TTLs embed a
// timestamp in the payload and check it on read.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

type Store struct {
	readDB  *sql.DB
	writeDB *sql.DB
}

func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("creating store dir: %w", err)
	}

	writeDB, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening write db: %w", err)
	}
	writeDB.SetMaxOpenConns(1)

	readDB, err := sql.Open("sqlite", dbPath+"?mode=ro")
	if err != nil {
		writeDB.Close()
		return nil, fmt.Errorf("opening read db: %w", err)
	}

	s := &Store{readDB: readDB, writeDB: writeDB}
	if err := s.init(); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) init() error {
	_, err := s.writeDB.Exec(`
		CREATE TABLE IF NOT EXISTS kv (
			key        TEXT PRIMARY KEY,
			value      BLOB NOT NULL,
			updated_at DATETIME NOT NULL
		);
	`)
	if err != nil {
		return fmt.Errorf("initializing schema: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	var errs []error
	if s.readDB != nil {
		errs = append(errs, s.readDB.Close())
	}
	if s.writeDB != nil {
		errs = append(errs, s.writeDB.Close())
	}
	for _, e := range errs {
		if e != nil {
			return e
		}
	}
	return nil
}

// Get returns the value for key. The second return is false when the key
// is absent.
func (s *Store) Get(key string) ([]byte, bool, error) {
	var value []byte
	err := s.readDB.QueryRow("SELECT value FROM kv WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading key %q: %w", key, err)
	}
	return value, true, nil
}

// Set stores value under key, replacing any previous value.
func (s *Store) Set(key string, value []byte) error {
	_, err := s.writeDB.Exec(`
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at
	`, key, value, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("writing key %q: %w", key, err)
	}
	return nil
}

// DeleteByPrefix removes every key starting with prefix. Passing a full
// key deletes exactly that entry.
func (s *Store) DeleteByPrefix(prefix string) error {
	_, err := s.writeDB.Exec("DELETE FROM kv WHERE key >= ? AND key < ?", prefix, prefix+"￿")
	if err != nil {
		return fmt.Errorf("deleting prefix %q: %w", prefix, err)
	}
	return nil
}

// CountByPrefix reports how many keys start with prefix.
func (s *Store) CountByPrefix(prefix string) (int, error) {
	var n int
	err := s.readDB.QueryRow("SELECT COUNT(*) FROM kv WHERE key >= ? AND key < ?", prefix, prefix+"￿").Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting prefix %q: %w", prefix, err)
	}
	return n, nil
}
