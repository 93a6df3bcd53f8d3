//go:build !windows

package speech

import (
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"sync"
	"syscall"
)

// Default espeak parameters; Params values scale these.
const (
	baseRate   = 175 // words per minute
	basePitch  = 50
	baseVolume = 100
)

// ExecEngine speaks through an espeak-compatible binary. Pause and resume
// use job-control signals on the running process.
type ExecEngine struct {
	binary string

	mu  sync.Mutex
	cur *execSession
}

type execSession struct {
	cmd       *exec.Cmd
	callbacks Callbacks
	cancelled bool
	paused    bool
}

// NewExecEngine creates an engine for the given binary name or path.
// An empty binary defaults to espeak.
func NewExecEngine(binary string) *ExecEngine {
	if binary == "" {
		binary = "espeak"
	}
	return &ExecEngine{binary: binary}
}

func (e *ExecEngine) Available() bool {
	_, err := exec.LookPath(e.binary)
	return err == nil
}

// Voices lists the voices this engine exposes. espeak voice names double as
// their identifiers.
func (e *ExecEngine) Voices() []Voice {
	return []Voice{
		{ID: "en-us", Name: "english-us", Language: "en-US"},
		{ID: "en-gb", Name: "english-gb", Language: "en-GB"},
		{ID: "en", Name: "english", Language: "en"},
		{ID: "de", Name: "german", Language: "de"},
		{ID: "es", Name: "spanish", Language: "es"},
		{ID: "fr", Name: "french", Language: "fr"},
	}
}

func (e *ExecEngine) Speak(u Utterance) error {
	if !e.Available() {
		return fmt.Errorf("speech binary %q not found", e.binary)
	}

	e.Cancel()

	args := []string{}
	if u.Voice.ID != "" {
		args = append(args, "-v", u.Voice.ID)
	}
	args = append(args,
		"-s", strconv.Itoa(scaled(u.Params.Rate, baseRate)),
		"-p", strconv.Itoa(scaled(u.Params.Pitch, basePitch)),
		"-a", strconv.Itoa(scaled(u.Params.Volume, baseVolume)),
		u.Text,
	)

	cmd := exec.Command(e.binary, args...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("starting %s: %w", e.binary, err)
	}

	session := &execSession{cmd: cmd, callbacks: u.Callbacks}
	e.mu.Lock()
	e.cur = session
	e.mu.Unlock()

	if u.Callbacks.OnStart != nil {
		u.Callbacks.OnStart()
	}

	go func() {
		err := cmd.Wait()

		e.mu.Lock()
		cancelled := session.cancelled
		if e.cur == session {
			e.cur = nil
		}
		e.mu.Unlock()

		// A cancelled process fires nothing; the caller already moved on.
		if cancelled {
			return
		}
		if err != nil {
			if session.callbacks.OnError != nil {
				session.callbacks.OnError(fmt.Errorf("%s exited: %w", e.binary, err))
			}
			return
		}
		if session.callbacks.OnEnd != nil {
			session.callbacks.OnEnd()
		}
	}()

	return nil
}

func (e *ExecEngine) Pause() error {
	e.mu.Lock()
	session := e.cur
	if session == nil || session.paused {
		e.mu.Unlock()
		return errors.New("nothing speaking")
	}
	session.paused = true
	e.mu.Unlock()

	if err := session.cmd.Process.Signal(syscall.SIGSTOP); err != nil {
		return fmt.Errorf("pausing %s: %w", e.binary, err)
	}
	if session.callbacks.OnPause != nil {
		session.callbacks.OnPause()
	}
	return nil
}

func (e *ExecEngine) Resume() error {
	e.mu.Lock()
	session := e.cur
	if session == nil || !session.paused {
		e.mu.Unlock()
		return errors.New("nothing paused")
	}
	session.paused = false
	e.mu.Unlock()

	if err := session.cmd.Process.Signal(syscall.SIGCONT); err != nil {
		return fmt.Errorf("resuming %s: %w", e.binary, err)
	}
	if session.callbacks.OnResume != nil {
		session.callbacks.OnResume()
	}
	return nil
}

func (e *ExecEngine) Cancel() {
	e.mu.Lock()
	session := e.cur
	if session != nil {
		session.cancelled = true
		e.cur = nil
	}
	e.mu.Unlock()

	if session == nil {
		return
	}
	// A stopped process ignores SIGKILL until it runs again.
	session.cmd.Process.Signal(syscall.SIGCONT)
	session.cmd.Process.Kill()
}

func scaled(multiplier float64, base int) int {
	if multiplier <= 0 {
		multiplier = 1.0
	}
	v := int(multiplier * float64(base))
	if v < 1 {
		v = 1
	}
	return v
}
