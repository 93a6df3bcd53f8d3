// Package tui is the interactive briefing interface: pick a category and
// duration, read the generated narrative, and control narration playback.
package tui

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mimiwrp/crispnews/internal/briefing"
	"github.com/mimiwrp/crispnews/internal/browser"
	"github.com/mimiwrp/crispnews/internal/budget"
	"github.com/mimiwrp/crispnews/internal/config"
	"github.com/mimiwrp/crispnews/internal/narrate"
	"github.com/mimiwrp/crispnews/internal/news"
)

type mode int

const (
	modeNormal mode = iota
	modeHelp
)

const generateTimeout = 60 * time.Second

type App struct {
	cfg  *config.Config
	orch *briefing.Orchestrator

	categories []news.Category
	durations  []int
	catIdx     int
	durIdx     int

	briefing  *briefing.Briefing
	cursor    int
	narration narrate.Status

	spinner    spinner.Model
	generating bool
	mode       mode
	err        error

	width  int
	height int
}

func NewApp(cfg *config.Config, orch *briefing.Orchestrator) *App {
	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = spinnerStyle

	a := &App{
		cfg:        cfg,
		orch:       orch,
		categories: news.Categories(),
		durations:  budget.Durations(),
		spinner:    sp,
		narration:  orch.Narrator().State(),
	}

	// Restore the persisted selection into the pickers.
	cat, minutes := orch.Selection()
	for i, c := range a.categories {
		if c == cat {
			a.catIdx = i
		}
	}
	for i, d := range a.durations {
		if d == minutes {
			a.durIdx = i
		}
	}
	return a
}

func (a *App) Init() tea.Cmd {
	a.generating = true
	return tea.Batch(a.ensureCmd(), a.spinner.Tick)
}

func (a *App) ensureCmd() tea.Cmd {
	orch := a.orch
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), generateTimeout)
		defer cancel()
		if err := orch.Ensure(ctx); err != nil {
			if errors.Is(err, briefing.ErrSuperseded) {
				return nil
			}
			return briefingErrMsg{err: err}
		}
		return briefingMsg{briefing: orch.Current()}
	}
}

func (a *App) selectCmd(category news.Category, minutes int) tea.Cmd {
	orch := a.orch
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), generateTimeout)
		defer cancel()
		if err := orch.SetSelection(ctx, category, minutes); err != nil {
			if errors.Is(err, briefing.ErrSuperseded) {
				return nil
			}
			return briefingErrMsg{err: err}
		}
		return briefingMsg{briefing: orch.Current()}
	}
}

func (a *App) regenerateCmd() tea.Cmd {
	orch := a.orch
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), generateTimeout)
		defer cancel()
		if err := orch.Generate(ctx); err != nil {
			if errors.Is(err, briefing.ErrSuperseded) {
				return nil
			}
			return briefingErrMsg{err: err}
		}
		return briefingMsg{briefing: orch.Current()}
	}
}

func openBrowserCmd(url string) tea.Cmd {
	return func() tea.Msg {
		if err := browser.Open(url); err != nil {
			return briefingErrMsg{err: err}
		}
		return nil
	}
}

func (a *App) narrateOptions() narrate.Options {
	return narrate.Options{
		PreferredVoices: a.cfg.Speech.PreferredVoices,
		Rate:            a.cfg.Speech.Rate,
		Pitch:           a.cfg.Speech.Pitch,
		Volume:          a.cfg.Speech.Volume,
	}
}

func (a *App) startSelection() tea.Cmd {
	a.generating = true
	a.err = nil
	a.cursor = 0
	return tea.Batch(a.selectCmd(a.categories[a.catIdx], a.durations[a.durIdx]), a.spinner.Tick)
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case tea.KeyMsg:
		a.err = nil
		return a.handleKey(msg)

	case briefingMsg:
		a.generating = false
		a.briefing = msg.briefing
		if a.briefing != nil && a.cursor >= len(a.briefing.Articles) {
			a.cursor = max(0, len(a.briefing.Articles)-1)
		}
		return a, nil

	case briefingErrMsg:
		a.generating = false
		a.err = msg.err
		return a, nil

	case narrationMsg:
		a.narration = a.orch.Narrator().State()
		if msg.event == narrationFailed {
			a.err = msg.err
		}
		return a, nil

	case spinner.TickMsg:
		if a.generating {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil
	}

	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return a, tea.Quit
	}

	if a.mode == modeHelp {
		if s := msg.String(); s == "?" || s == "esc" || s == "q" {
			a.mode = modeNormal
		}
		return a, nil
	}

	switch msg.String() {
	case "q":
		a.orch.Narrator().Stop()
		return a, tea.Quit

	case "tab", "c", "right", "l":
		a.catIdx = (a.catIdx + 1) % len(a.categories)
		return a, a.startSelection()
	case "shift+tab", "left", "h":
		a.catIdx = (a.catIdx - 1 + len(a.categories)) % len(a.categories)
		return a, a.startSelection()
	case "d":
		a.durIdx = (a.durIdx + 1) % len(a.durations)
		return a, a.startSelection()

	case "r", "g":
		if !a.generating {
			a.generating = true
			a.err = nil
			return a, tea.Batch(a.regenerateCmd(), a.spinner.Tick)
		}
		return a, nil

	case "j", "down":
		if a.briefing != nil && a.cursor < len(a.briefing.Articles)-1 {
			a.cursor++
		}
		return a, nil
	case "k", "up":
		if a.cursor > 0 {
			a.cursor--
		}
		return a, nil

	case "o", "enter":
		if a.briefing != nil && a.cursor < len(a.briefing.Articles) {
			return a, openBrowserCmd(a.briefing.Articles[a.cursor].URL)
		}
		return a, nil

	case " ":
		return a, a.handleSpace()
	case "s":
		a.orch.Narrator().Stop()
		a.narration = a.orch.Narrator().State()
		return a, nil

	case "?":
		a.mode = modeHelp
		return a, nil
	}

	return a, nil
}

// handleSpace toggles pause/resume, or starts narration when idle. The
// start goes through a command because Speak blocks on the cancel settle
// window; state catches up via the narration listeners.
func (a *App) handleSpace() tea.Cmd {
	n := a.orch.Narrator()
	st := n.State()
	if st.IsPlaying || st.IsPaused {
		n.Toggle()
		a.narration = n.State()
		return nil
	}

	orch := a.orch
	opts := a.narrateOptions()
	return func() tea.Msg {
		if err := orch.Narrate(opts); err != nil {
			return briefingErrMsg{err: err}
		}
		return nil
	}
}

// Run starts the TUI and wires narration events back into the program.
func Run(cfg *config.Config, orch *briefing.Orchestrator) error {
	app := NewApp(cfg, orch)
	p := tea.NewProgram(app, tea.WithAltScreen())

	orch.Narrator().SetListeners(narrate.Listeners{
		OnStart:  func() { p.Send(narrationMsg{event: narrationStarted}) },
		OnEnd:    func() { p.Send(narrationMsg{event: narrationEnded}) },
		OnPause:  func() { p.Send(narrationMsg{event: narrationPaused}) },
		OnResume: func() { p.Send(narrationMsg{event: narrationResumed}) },
		OnError:  func(err error) { p.Send(narrationMsg{event: narrationFailed, err: err}) },
	})

	_, err := p.Run()
	return err
}
