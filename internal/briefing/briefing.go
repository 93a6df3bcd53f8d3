// Package briefing coordinates fetching, synthesis and narration into a
// single current briefing. Only one generation runs at a time; a newer
// request supersedes any in-flight one.
package briefing

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mimiwrp/crispnews/internal/budget"
	"github.com/mimiwrp/crispnews/internal/config"
	"github.com/mimiwrp/crispnews/internal/feed"
	"github.com/mimiwrp/crispnews/internal/narrate"
	"github.com/mimiwrp/crispnews/internal/news"
	"github.com/mimiwrp/crispnews/internal/prefs"
)

var (
	// ErrSuperseded is returned when a newer generation started while
	// this one was still running. The newer result wins.
	ErrSuperseded = errors.New("briefing superseded by a newer request")

	// ErrNoBriefing is returned by Narrate when nothing has been
	// generated yet.
	ErrNoBriefing = errors.New("no briefing available")
)

// Fetcher retrieves the articles for a briefing of the given length.
type Fetcher interface {
	FetchTimeBasedBriefing(ctx context.Context, category news.Category, minutes int) ([]news.Article, error)
}

// Synthesizer turns articles into narration-ready prose. It never fails;
// on any upstream error it returns fallback text built from headlines.
type Synthesizer interface {
	Synthesize(ctx context.Context, articles []news.Article, category news.Category, minutes int) string
}

// Briefing is a generated narrative plus the articles it was built from.
type Briefing struct {
	Category    news.Category
	Minutes     int
	Articles    []news.Article
	Narrative   string
	GeneratedAt time.Time
}

// Orchestrator owns the current selection and briefing. All methods are
// safe for concurrent use.
type Orchestrator struct {
	fetcher    Fetcher
	synth      Synthesizer
	narrator   *narrate.Narrator
	prefs      *prefs.Store
	sources    []config.Source
	fetchFeeds func(context.Context, []config.Source) feed.FetchResult
	log        zerolog.Logger

	mu       sync.Mutex
	category news.Category
	minutes  int
	current  *Briefing
	inflight string
}

// New restores the persisted selection and returns an orchestrator with
// no briefing generated yet.
func New(fetcher Fetcher, synth Synthesizer, narrator *narrate.Narrator, pr *prefs.Store, sources []config.Source, log zerolog.Logger) *Orchestrator {
	sel := prefs.DefaultSelection()
	if pr != nil {
		sel = pr.Load()
	}
	return &Orchestrator{
		fetcher:    fetcher,
		synth:      synth,
		narrator:   narrator,
		prefs:      pr,
		sources:    sources,
		fetchFeeds: feed.FetchAll,
		log:        log,
		category:   sel.Category,
		minutes:    sel.Minutes,
	}
}

// Selection returns the active category and duration.
func (o *Orchestrator) Selection() (news.Category, int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.category, o.minutes
}

// Current returns the latest completed briefing, or nil.
func (o *Orchestrator) Current() *Briefing {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.current
}

// Narrator exposes the playback controller.
func (o *Orchestrator) Narrator() *narrate.Narrator {
	return o.narrator
}

// SetSelection updates the category and duration, persists them, and
// regenerates when the selection actually changed.
func (o *Orchestrator) SetSelection(ctx context.Context, category news.Category, minutes int) error {
	if !category.Valid() {
		return fmt.Errorf("%w: %q", news.ErrInvalidCategory, category)
	}

	o.mu.Lock()
	same := o.category == category && o.minutes == minutes
	o.category = category
	o.minutes = minutes
	o.mu.Unlock()

	if o.prefs != nil {
		if err := o.prefs.Save(prefs.Selection{Category: category, Minutes: minutes}); err != nil {
			o.log.Warn().Err(err).Msg("failed to persist selection")
		}
	}

	if same && o.Current() != nil {
		return nil
	}
	return o.Generate(ctx)
}

// Ensure generates a briefing only when none exists for the current
// selection.
func (o *Orchestrator) Ensure(ctx context.Context) error {
	o.mu.Lock()
	cur, cat, min := o.current, o.category, o.minutes
	o.mu.Unlock()

	if cur != nil && cur.Category == cat && cur.Minutes == min {
		return nil
	}
	return o.Generate(ctx)
}

// Generate builds a fresh briefing for the current selection. Any
// narration in progress is stopped first. If another Generate starts
// while this one is running, this one returns ErrSuperseded and leaves
// the current briefing to the newer call. Fetch errors propagate and
// leave the existing briefing untouched.
func (o *Orchestrator) Generate(ctx context.Context) error {
	token := uuid.NewString()

	o.mu.Lock()
	o.inflight = token
	category, minutes := o.category, o.minutes
	o.mu.Unlock()

	if o.narrator != nil {
		o.narrator.Stop()
	}

	o.log.Info().Str("category", string(category)).Int("minutes", minutes).Msg("generating briefing")

	articles, err := o.fetcher.FetchTimeBasedBriefing(ctx, category, minutes)
	if err != nil {
		o.mu.Lock()
		if o.inflight == token {
			o.inflight = ""
		}
		o.mu.Unlock()
		return fmt.Errorf("fetching briefing articles: %w", err)
	}
	articles = o.supplement(ctx, category, minutes, articles)

	narrative := o.synth.Synthesize(ctx, articles, category, minutes)

	o.mu.Lock()
	defer o.mu.Unlock()
	if o.inflight != token {
		o.log.Debug().Str("category", string(category)).Msg("discarding superseded briefing")
		return ErrSuperseded
	}
	o.inflight = ""
	o.current = &Briefing{
		Category:    category,
		Minutes:     minutes,
		Articles:    articles,
		Narrative:   narrative,
		GeneratedAt: time.Now(),
	}
	return nil
}

// supplement merges configured feed articles into a highlights briefing,
// trimmed back to the duration's article budget. Feed stories lead the
// merged list so the trim falls on provider articles, never on them.
// Other categories pass through unchanged.
func (o *Orchestrator) supplement(ctx context.Context, category news.Category, minutes int, articles []news.Article) []news.Article {
	if category != news.CategoryHighlights || len(o.sources) == 0 {
		return articles
	}

	result := o.fetchFeeds(ctx, o.sources)
	for _, err := range result.Errors {
		o.log.Warn().Err(err).Msg("feed fetch failed")
	}
	if len(result.Articles) == 0 {
		return articles
	}

	merged := make([]news.Article, 0, len(result.Articles)+len(articles))
	seen := make(map[string]bool, len(result.Articles)+len(articles))
	for _, a := range result.Articles {
		if !seen[a.ID] {
			merged = append(merged, a)
			seen[a.ID] = true
		}
	}
	for _, a := range articles {
		if !seen[a.ID] {
			merged = append(merged, a)
			seen[a.ID] = true
		}
	}

	limit := budget.Resolve(minutes).ArticleCount
	if len(merged) > limit {
		merged = merged[:limit]
	}
	return merged
}

// Narrate speaks the current briefing's narrative.
func (o *Orchestrator) Narrate(opts narrate.Options) error {
	cur := o.Current()
	if cur == nil {
		return ErrNoBriefing
	}
	if o.narrator == nil {
		return narrate.ErrUnsupported
	}
	return o.narrator.Speak(cur.Narrative, opts)
}
