package config

import (
	"embed"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

//go:embed default_config.yaml
var defaultConfigFS embed.FS

// Source is a supplementary RSS/Atom feed merged into the Daily Highlights
// selection when enabled.
type Source struct {
	Name    string `yaml:"name"`
	Type    string `yaml:"type"`
	URL     string `yaml:"url"`
	Enabled bool   `yaml:"enabled"`
}

type NewsConfig struct {
	APIKey            string `yaml:"api_key,omitempty"`
	Country           string `yaml:"country,omitempty"`
	Language          string `yaml:"language,omitempty"`
	RequestsPerMinute int    `yaml:"requests_per_minute,omitempty"`
	RequestsPerDay    int    `yaml:"requests_per_day,omitempty"`
}

type AIConfig struct {
	Provider string `yaml:"provider"` // "gemini" or "openai"
	APIKey   string `yaml:"api_key,omitempty"`
	Model    string `yaml:"model,omitempty"`
}

type SpeechConfig struct {
	Binary          string   `yaml:"binary,omitempty"`
	PreferredVoices []string `yaml:"preferred_voices,omitempty"`
	Rate            float64  `yaml:"rate,omitempty"`
	Pitch           float64  `yaml:"pitch,omitempty"`
	Volume          float64  `yaml:"volume,omitempty"`
}

type Config struct {
	News     NewsConfig   `yaml:"news"`
	AI       *AIConfig    `yaml:"ai,omitempty"`
	Speech   SpeechConfig `yaml:"speech"`
	Sources  []Source     `yaml:"sources,omitempty"`
	LogLevel string       `yaml:"log_level,omitempty"`
}

// NewsKey returns the resolved news API key (config or env var).
func (c *Config) NewsKey() string {
	if c.News.APIKey != "" {
		return c.News.APIKey
	}
	return os.Getenv("CRISPNEWS_NEWS_KEY")
}

// AIKey returns the resolved generative-text API key (config or env var).
func (c *Config) AIKey() string {
	if c.AI != nil && c.AI.APIKey != "" {
		return c.AI.APIKey
	}
	return os.Getenv("CRISPNEWS_AI_KEY")
}

// AIEnabled reports whether synthesis can use a generative provider. When
// false, briefings fall back to joined headlines.
func (c *Config) AIEnabled() bool {
	return c.AI != nil && c.AIKey() != ""
}

// EnabledSources returns the RSS sources that are switched on.
func (c *Config) EnabledSources() []Source {
	var out []Source
	for _, s := range c.Sources {
		if s.Enabled {
			out = append(out, s)
		}
	}
	return out
}

func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, "crispnews", "config.yaml")
}

func StorePath() string {
	return filepath.Join(xdg.CacheHome, "crispnews", "crispnews.db")
}

func LogPath() string {
	return filepath.Join(xdg.StateHome, "crispnews", "crispnews.log")
}

func loadDefaults() (*Config, error) {
	data, err := defaultConfigFS.ReadFile("default_config.yaml")
	if err != nil {
		return nil, fmt.Errorf("reading embedded config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded config: %w", err)
	}
	return &cfg, nil
}

func Load(path string) (*Config, error) {
	// A local .env can carry the API keys; absence is fine.
	_ = godotenv.Load()

	defaults, err := loadDefaults()
	if err != nil {
		return nil, err
	}

	if path == "" {
		path = DefaultConfigPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Write defaults to config path on first run
			if err := writeDefaults(path); err != nil {
				// Non-fatal: just use embedded defaults
				return defaults, nil
			}
			return defaults, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func writeDefaults(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, _ := defaultConfigFS.ReadFile("default_config.yaml")
	return os.WriteFile(path, data, 0o644)
}

func validate(cfg *Config) error {
	if cfg.AI != nil {
		switch cfg.AI.Provider {
		case "gemini", "openai":
		default:
			return fmt.Errorf("ai: unknown provider %q (valid: gemini, openai)", cfg.AI.Provider)
		}
	}

	if cfg.News.RequestsPerMinute < 0 || cfg.News.RequestsPerDay < 0 {
		return fmt.Errorf("news: rate limits must not be negative")
	}

	validTypes := map[string]bool{"rss": true, "atom": true}
	for i, s := range cfg.Sources {
		if s.Name == "" {
			return fmt.Errorf("source %d: name is required", i)
		}
		if s.URL == "" {
			return fmt.Errorf("source %q: url is required", s.Name)
		}
		u, err := url.Parse(s.URL)
		if err != nil {
			return fmt.Errorf("source %q: invalid url: %w", s.Name, err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("source %q: url scheme must be http or https, got %q", s.Name, u.Scheme)
		}
		if !validTypes[s.Type] {
			return fmt.Errorf("source %q: unknown type %q (valid: rss, atom)", s.Name, s.Type)
		}
	}
	return nil
}
