// Package narrate wraps a speech engine in an explicit playback state
// machine. At most one narration session exists; starting a new one always
// tears the previous one down first.
package narrate

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mimiwrp/crispnews/internal/speech"
)

type State int

const (
	StateIdle State = iota
	StateSpeaking
	StatePaused
)

func (s State) String() string {
	switch s {
	case StateSpeaking:
		return "speaking"
	case StatePaused:
		return "paused"
	default:
		return "idle"
	}
}

// Status is the externally visible playback state.
type Status struct {
	IsPlaying bool
	IsPaused  bool
	Supported bool
}

// Options tune one narration session.
type Options struct {
	PreferredVoices []string
	Rate            float64
	Pitch           float64
	Volume          float64
}

// Listeners receive state-transition events. Observers subscribe here
// instead of polling.
type Listeners struct {
	OnStart  func()
	OnEnd    func()
	OnPause  func()
	OnResume func()
	OnError  func(error)
}

var (
	ErrUnsupported = errors.New("speech synthesis is not available on this system")
	ErrEmptyText   = errors.New("nothing to narrate")
)

// settleDelay gives the engine time to act on a cancellation before the
// next utterance starts.
const settleDelay = 100 * time.Millisecond

type Narrator struct {
	engine speech.Engine
	log    zerolog.Logger
	settle time.Duration

	mu        sync.Mutex
	state     State
	session   string
	listeners Listeners
}

func New(engine speech.Engine, logger zerolog.Logger) *Narrator {
	return &Narrator{engine: engine, log: logger, settle: settleDelay}
}

func (n *Narrator) SetListeners(l Listeners) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.listeners = l
}

// Speak cancels any active session and starts narrating text. The session
// becomes Speaking when the engine reports it has started.
func (n *Narrator) Speak(text string, opts Options) error {
	if n.engine == nil || !n.engine.Available() {
		return ErrUnsupported
	}
	if strings.TrimSpace(text) == "" {
		return ErrEmptyText
	}

	n.mu.Lock()
	id := uuid.NewString()
	n.session = id
	n.state = StateIdle
	n.mu.Unlock()

	n.engine.Cancel()
	if n.settle > 0 {
		time.Sleep(n.settle)
	}

	// A Stop or newer Speak during the settle window wins.
	n.mu.Lock()
	if n.session != id {
		n.mu.Unlock()
		return nil
	}
	n.mu.Unlock()

	voice := n.resolveVoice(opts.PreferredVoices)
	n.log.Debug().Str("voice", voice.Name).Int("chars", len(text)).Msg("starting narration")

	u := speech.Utterance{
		Text:   text,
		Voice:  voice,
		Params: speech.Params{Rate: opts.Rate, Pitch: opts.Pitch, Volume: opts.Volume},
		Callbacks: speech.Callbacks{
			OnStart:  func() { n.transition(id, StateSpeaking, func(l Listeners) func() { return l.OnStart }) },
			OnEnd:    func() { n.transition(id, StateIdle, func(l Listeners) func() { return l.OnEnd }) },
			OnPause:  func() { n.transition(id, StatePaused, func(l Listeners) func() { return l.OnPause }) },
			OnResume: func() { n.transition(id, StateSpeaking, func(l Listeners) func() { return l.OnResume }) },
			OnError:  func(err error) { n.fail(id, err) },
		},
	}

	if err := n.engine.Speak(u); err != nil {
		n.mu.Lock()
		if n.session == id {
			n.session = ""
			n.state = StateIdle
		}
		n.mu.Unlock()
		return fmt.Errorf("starting narration: %w", err)
	}
	return nil
}

// transition moves to next if id is still the active session, then fires
// the matching listener outside the lock. Events from torn-down sessions
// are dropped.
func (n *Narrator) transition(id string, next State, pick func(Listeners) func()) {
	n.mu.Lock()
	if n.session != id {
		n.mu.Unlock()
		return
	}
	n.state = next
	if next == StateIdle {
		n.session = ""
	}
	fn := pick(n.listeners)
	n.mu.Unlock()

	if fn != nil {
		fn()
	}
}

func (n *Narrator) fail(id string, err error) {
	n.mu.Lock()
	if n.session != id {
		n.mu.Unlock()
		return
	}
	n.session = ""
	n.state = StateIdle
	fn := n.listeners.OnError
	n.mu.Unlock()

	n.log.Warn().Err(err).Msg("narration engine error")
	if fn != nil {
		fn(err)
	}
}

// Pause is valid only while Speaking; otherwise it is a no-op.
func (n *Narrator) Pause() {
	n.mu.Lock()
	speaking := n.state == StateSpeaking
	n.mu.Unlock()
	if !speaking {
		return
	}
	if err := n.engine.Pause(); err != nil {
		n.log.Debug().Err(err).Msg("pause ignored")
	}
}

// Resume is valid only while Paused; otherwise it is a no-op.
func (n *Narrator) Resume() {
	n.mu.Lock()
	paused := n.state == StatePaused
	n.mu.Unlock()
	if !paused {
		return
	}
	if err := n.engine.Resume(); err != nil {
		n.log.Debug().Err(err).Msg("resume ignored")
	}
}

// Stop unconditionally cancels narration and forces Idle. Safe to call in
// any state, any number of times.
func (n *Narrator) Stop() {
	n.mu.Lock()
	n.session = ""
	n.state = StateIdle
	n.mu.Unlock()

	if n.engine != nil {
		n.engine.Cancel()
	}
}

// Toggle pauses if Speaking and resumes if Paused. It never starts a new
// session; that is the caller's job via Speak.
func (n *Narrator) Toggle() {
	n.mu.Lock()
	state := n.state
	n.mu.Unlock()

	switch state {
	case StateSpeaking:
		n.Pause()
	case StatePaused:
		n.Resume()
	}
}

func (n *Narrator) State() Status {
	n.mu.Lock()
	defer n.mu.Unlock()
	return Status{
		IsPlaying: n.state == StateSpeaking,
		IsPaused:  n.state == StatePaused,
		Supported: n.engine != nil && n.engine.Available(),
	}
}

// resolveVoice picks from the preferred list, then any English voice, then
// whatever the engine has.
func (n *Narrator) resolveVoice(preferred []string) speech.Voice {
	voices := n.engine.Voices()
	if len(voices) == 0 {
		return speech.Voice{}
	}

	for _, want := range preferred {
		for _, v := range voices {
			if v.ID == want || strings.Contains(v.Name, want) {
				return v
			}
		}
	}
	for _, v := range voices {
		if strings.HasPrefix(v.Language, "en") {
			return v
		}
	}
	return voices[0]
}
