package tui

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/mimiwrp/crispnews/internal/briefing"
	"github.com/mimiwrp/crispnews/internal/config"
	"github.com/mimiwrp/crispnews/internal/narrate"
	"github.com/mimiwrp/crispnews/internal/news"
	"github.com/mimiwrp/crispnews/internal/prefs"
)

type stubFetcher struct{}

func (stubFetcher) FetchTimeBasedBriefing(ctx context.Context, category news.Category, minutes int) ([]news.Article, error) {
	return []news.Article{{ID: "a", Title: "story"}}, nil
}

type stubSynth struct{}

func (stubSynth) Synthesize(ctx context.Context, articles []news.Article, category news.Category, minutes int) string {
	return "narrative"
}

type memKV map[string][]byte

func (m memKV) Get(key string) ([]byte, bool, error) {
	v, ok := m[key]
	return v, ok, nil
}

func (m memKV) Set(key string, value []byte) error {
	m[key] = value
	return nil
}

func testApp(t *testing.T) *App {
	t.Helper()
	narrator := narrate.New(nil, zerolog.Nop())
	orch := briefing.New(stubFetcher{}, stubSynth{}, narrator, prefs.New(memKV{}), nil, zerolog.Nop())
	return NewApp(&config.Config{}, orch)
}

func TestHandleSpaceStartsNarrationOffTheUpdatePath(t *testing.T) {
	a := testApp(t)
	if err := a.orch.Generate(context.Background()); err != nil {
		t.Fatalf("generate: %v", err)
	}

	cmd := a.handleSpace()
	if cmd == nil {
		t.Fatal("expected a command to start narration")
	}
	if a.err != nil {
		t.Fatalf("handleSpace set an error before the command ran: %v", a.err)
	}

	// No speech engine here, so the start fails; the failure must arrive
	// as a message, not a direct mutation.
	msg := cmd()
	em, ok := msg.(briefingErrMsg)
	if !ok {
		t.Fatalf("expected briefingErrMsg, got %T", msg)
	}
	if !errors.Is(em.err, narrate.ErrUnsupported) {
		t.Errorf("err = %v, want ErrUnsupported", em.err)
	}
}

func TestHandleSpaceWithoutBriefing(t *testing.T) {
	a := testApp(t)

	cmd := a.handleSpace()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	msg := cmd()
	em, ok := msg.(briefingErrMsg)
	if !ok {
		t.Fatalf("expected briefingErrMsg, got %T", msg)
	}
	if !errors.Is(em.err, briefing.ErrNoBriefing) {
		t.Errorf("err = %v, want ErrNoBriefing", em.err)
	}
}
