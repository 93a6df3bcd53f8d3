//go:build windows

package speech

import "errors"

// ExecEngine is unavailable on Windows: espeak-style binaries and the
// job-control signals used for pause/resume are not portable there.
type ExecEngine struct {
	binary string
}

func NewExecEngine(binary string) *ExecEngine {
	return &ExecEngine{binary: binary}
}

func (e *ExecEngine) Available() bool { return false }

func (e *ExecEngine) Voices() []Voice { return nil }

func (e *ExecEngine) Speak(u Utterance) error {
	return errors.New("speech synthesis is not supported on windows")
}

func (e *ExecEngine) Pause() error { return errors.New("speech synthesis is not supported on windows") }

func (e *ExecEngine) Resume() error {
	return errors.New("speech synthesis is not supported on windows")
}

func (e *ExecEngine) Cancel() {}
