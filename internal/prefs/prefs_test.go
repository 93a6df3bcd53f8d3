package prefs

import (
	"testing"

	"github.com/mimiwrp/crispnews/internal/news"
)

type memKV map[string][]byte

func (m memKV) Get(key string) ([]byte, bool, error) {
	v, ok := m[key]
	return v, ok, nil
}

func (m memKV) Set(key string, value []byte) error {
	m[key] = value
	return nil
}

func TestLoadDefaultWhenAbsent(t *testing.T) {
	s := New(memKV{})
	sel := s.Load()
	if sel.Category != news.CategoryHighlights || sel.Minutes != 3 {
		t.Errorf("unexpected default: %+v", sel)
	}
}

func TestSaveAndLoad(t *testing.T) {
	s := New(memKV{})

	want := Selection{Category: news.CategoryScience, Minutes: 5}
	if err := s.Save(want); err != nil {
		t.Fatalf("save: %v", err)
	}

	got := s.Load()
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestLoadRejectsCorruptValue(t *testing.T) {
	kv := memKV{"prefs/selection": []byte("not json")}
	got := New(kv).Load()
	if got != DefaultSelection() {
		t.Errorf("expected default for corrupt value, got %+v", got)
	}
}

func TestLoadRejectsInvalidCategory(t *testing.T) {
	kv := memKV{"prefs/selection": []byte(`{"category":"gossip","minutes":3}`)}
	got := New(kv).Load()
	if got != DefaultSelection() {
		t.Errorf("expected default for invalid category, got %+v", got)
	}
}
