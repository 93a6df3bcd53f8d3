// Package prefs persists the user's briefing selection in the shared
// durable store.
package prefs

import (
	"encoding/json"
	"fmt"

	"github.com/mimiwrp/crispnews/internal/news"
)

const selectionKey = "prefs/selection"

// Selection is the remembered category/duration pair.
type Selection struct {
	Category news.Category `json:"category"`
	Minutes  int           `json:"minutes"`
}

// DefaultSelection is used when nothing has been saved yet.
func DefaultSelection() Selection {
	return Selection{Category: news.CategoryHighlights, Minutes: 3}
}

// KV is the slice of the store this package needs.
type KV interface {
	Get(key string) ([]byte, bool, error)
	Set(key string, value []byte) error
}

type Store struct {
	kv KV
}

func New(kv KV) *Store {
	return &Store{kv: kv}
}

// Load returns the saved selection, or the default when absent or
// unreadable.
func (s *Store) Load() Selection {
	raw, ok, err := s.kv.Get(selectionKey)
	if err != nil || !ok {
		return DefaultSelection()
	}
	var sel Selection
	if err := json.Unmarshal(raw, &sel); err != nil {
		return DefaultSelection()
	}
	if !sel.Category.Valid() || sel.Minutes <= 0 {
		return DefaultSelection()
	}
	return sel
}

func (s *Store) Save(sel Selection) error {
	raw, err := json.Marshal(sel)
	if err != nil {
		return fmt.Errorf("encoding selection: %w", err)
	}
	return s.kv.Set(selectionKey, raw)
}
