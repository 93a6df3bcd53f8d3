package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/mimiwrp/crispnews/internal/briefing"
	"github.com/mimiwrp/crispnews/internal/config"
	"github.com/mimiwrp/crispnews/internal/logging"
	"github.com/mimiwrp/crispnews/internal/narrate"
	"github.com/mimiwrp/crispnews/internal/news"
	"github.com/mimiwrp/crispnews/internal/prefs"
	"github.com/mimiwrp/crispnews/internal/speech"
	"github.com/mimiwrp/crispnews/internal/store"
	"github.com/mimiwrp/crispnews/internal/synth"
	"github.com/mimiwrp/crispnews/internal/tui"
	"github.com/mimiwrp/crispnews/internal/update"
)

// appDeps is everything a command needs after wiring.
type appDeps struct {
	cfg      *config.Config
	store    *store.Store
	client   *news.Client
	orch     *briefing.Orchestrator
	log      zerolog.Logger
	logClose io.Closer
}

func (d *appDeps) Close() {
	if d.store != nil {
		d.store.Close()
	}
	if d.logClose != nil {
		d.logClose.Close()
	}
}

func buildApp() (*appDeps, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	logger, logClose, err := logging.New(config.LogPath(), cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("opening log: %w", err)
	}

	st, err := store.Open(config.StorePath())
	if err != nil {
		logClose.Close()
		return nil, fmt.Errorf("opening store: %w", err)
	}

	deps := &appDeps{cfg: cfg, store: st, log: logger, logClose: logClose}

	if cfg.NewsKey() == "" {
		deps.Close()
		return nil, errors.New("news API key required: set news.api_key in config or the CRISPNEWS_NEWS_KEY environment variable")
	}

	client, err := news.New(news.Config{
		APIKey:    cfg.NewsKey(),
		Country:   cfg.News.Country,
		Language:  cfg.News.Language,
		PerMinute: cfg.News.RequestsPerMinute,
		PerDay:    cfg.News.RequestsPerDay,
	}, st, logger)
	if err != nil {
		deps.Close()
		return nil, fmt.Errorf("building news client: %w", err)
	}
	deps.client = client

	var synthesizer *synth.Synthesizer
	if cfg.AIEnabled() {
		synthesizer, err = synth.New(cfg.AI, cfg.AIKey(), logger)
		if err != nil {
			deps.Close()
			return nil, fmt.Errorf("building synthesizer: %w", err)
		}
	} else {
		synthesizer = synth.NewFallbackOnly(logger)
	}

	narrator := narrate.New(speech.NewExecEngine(cfg.Speech.Binary), logger)
	pr := prefs.New(st)

	if err := applySelectionFlags(pr); err != nil {
		deps.Close()
		return nil, err
	}

	deps.orch = briefing.New(client, synthesizer, narrator, pr, cfg.EnabledSources(), logger)
	return deps, nil
}

// applySelectionFlags persists --category/--duration so the orchestrator
// starts from them.
func applySelectionFlags(pr *prefs.Store) error {
	if flagCategory == "" && flagDuration == 0 {
		return nil
	}

	sel := pr.Load()
	if flagCategory != "" {
		cat := news.Category(flagCategory)
		if !cat.Valid() {
			return fmt.Errorf("invalid category %q (valid: highlights, technology, business, science, sports)", flagCategory)
		}
		sel.Category = cat
	}
	if flagDuration != 0 {
		switch flagDuration {
		case 1, 3, 5:
			sel.Minutes = flagDuration
		default:
			return fmt.Errorf("invalid duration %d (valid: 1, 3, 5)", flagDuration)
		}
	}
	return pr.Save(sel)
}

func runTUI(cmd *cobra.Command, args []string) error {
	deps, err := buildApp()
	if err != nil {
		return err
	}
	defer deps.Close()

	if err := tui.Run(deps.cfg, deps.orch); err != nil {
		return fmt.Errorf("running TUI: %w", err)
	}

	if res := update.Check(context.Background(), version); res != nil {
		fmt.Printf("A new version is available: %s (current: %s)\n", res.LatestVersion, version)
	}
	return nil
}
