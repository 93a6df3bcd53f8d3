package tui

import "github.com/mimiwrp/crispnews/internal/briefing"

type briefingMsg struct {
	briefing *briefing.Briefing
}

type briefingErrMsg struct {
	err error
}

type narrationEvent int

const (
	narrationStarted narrationEvent = iota
	narrationEnded
	narrationPaused
	narrationResumed
	narrationFailed
)

// narrationMsg is pushed into the program by the narrator's listeners.
type narrationMsg struct {
	event narrationEvent
	err   error
}
