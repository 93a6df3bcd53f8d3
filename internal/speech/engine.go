// Package speech abstracts the platform speech-synthesis capability behind
// a small engine interface with lifecycle callbacks.
package speech

// Voice describes an available synthesis voice.
type Voice struct {
	ID       string
	Name     string
	Language string
}

// Params tune a single utterance. Values are multipliers on the engine's
// defaults; zero means "use the default".
type Params struct {
	Rate   float64
	Pitch  float64
	Volume float64
}

// Callbacks carry utterance lifecycle events. Any callback may be nil.
type Callbacks struct {
	OnStart  func()
	OnEnd    func()
	OnPause  func()
	OnResume func()
	OnError  func(error)
}

// Utterance is one piece of text to speak.
type Utterance struct {
	Text      string
	Voice     Voice
	Params    Params
	Callbacks Callbacks
}

// Engine is a platform speech backend. Speak returns once synthesis has
// been started; completion and failure arrive through the callbacks.
// Cancel must be safe to call at any time, including with nothing playing.
type Engine interface {
	Available() bool
	Voices() []Voice
	Speak(u Utterance) error
	Pause() error
	Resume() error
	Cancel()
}
