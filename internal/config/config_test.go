package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := loadDefaults()
	if err != nil {
		t.Fatalf("loadDefaults: %v", err)
	}
	if cfg.News.Country != "us" {
		t.Errorf("expected default country us, got %q", cfg.News.Country)
	}
	if cfg.News.RequestsPerDay == 0 {
		t.Error("expected default daily rate limit")
	}
	if cfg.AI == nil || cfg.AI.Provider != "gemini" {
		t.Error("expected default gemini provider")
	}
	if cfg.Speech.Binary == "" {
		t.Error("expected default speech binary")
	}
}

func TestLoadMissingFileWritesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.News.Country != "us" {
		t.Errorf("expected defaults, got country %q", cfg.News.Country)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected defaults written to %s: %v", path, err)
	}
}

func TestLoadUserConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
news:
  api_key: abc123
  country: gb
ai:
  provider: openai
  api_key: xyz
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.NewsKey() != "abc123" {
		t.Errorf("expected news key from config, got %q", cfg.NewsKey())
	}
	if cfg.News.Country != "gb" {
		t.Errorf("expected country gb, got %q", cfg.News.Country)
	}
	if !cfg.AIEnabled() {
		t.Error("expected AI enabled with key present")
	}
}

func TestKeysFallBackToEnv(t *testing.T) {
	t.Setenv("CRISPNEWS_NEWS_KEY", "env-news")
	t.Setenv("CRISPNEWS_AI_KEY", "env-ai")

	cfg := &Config{AI: &AIConfig{Provider: "gemini"}}
	if cfg.NewsKey() != "env-news" {
		t.Errorf("expected env news key, got %q", cfg.NewsKey())
	}
	if cfg.AIKey() != "env-ai" {
		t.Errorf("expected env ai key, got %q", cfg.AIKey())
	}
	if !cfg.AIEnabled() {
		t.Error("expected AI enabled via env key")
	}
}

func TestAIDisabledWithoutKey(t *testing.T) {
	t.Setenv("CRISPNEWS_AI_KEY", "")
	cfg := &Config{AI: &AIConfig{Provider: "gemini"}}
	if cfg.AIEnabled() {
		t.Error("expected AI disabled without a key")
	}
}

func TestValidateRejectsUnknownProvider(t *testing.T) {
	err := validate(&Config{AI: &AIConfig{Provider: "bard"}})
	if err == nil {
		t.Error("expected error for unknown AI provider")
	}
}

func TestValidateSources(t *testing.T) {
	tests := []struct {
		name    string
		source  Source
		wantErr bool
	}{
		{"valid rss", Source{Name: "A", Type: "rss", URL: "https://a.com/feed"}, false},
		{"missing name", Source{Type: "rss", URL: "https://a.com/feed"}, true},
		{"missing url", Source{Name: "A", Type: "rss"}, true},
		{"bad scheme", Source{Name: "A", Type: "rss", URL: "ftp://a.com/feed"}, true},
		{"bad type", Source{Name: "A", Type: "json", URL: "https://a.com/feed"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validate(&Config{Sources: []Source{tt.source}})
			if (err != nil) != tt.wantErr {
				t.Errorf("validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestEnabledSources(t *testing.T) {
	cfg := &Config{
		Sources: []Source{
			{Name: "A", Enabled: true},
			{Name: "B", Enabled: false},
			{Name: "C", Enabled: true},
		},
	}
	got := cfg.EnabledSources()
	if len(got) != 2 {
		t.Fatalf("expected 2 enabled sources, got %d", len(got))
	}
	if got[0].Name != "A" || got[1].Name != "C" {
		t.Errorf("unexpected enabled sources: %v", got)
	}
}
