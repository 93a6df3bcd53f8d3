// Package ratelimit bounds request volume over rolling minute and day
// windows. The daily counter never resets within the process lifetime;
// restarting is the only reset.
package ratelimit

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

// ErrRateLimited is the base error for both window variants; callers can
// match either with errors.Is.
var ErrRateLimited = errors.New("rate limit exceeded")

var (
	ErrMinuteLimit = fmt.Errorf("%w: too many requests this minute, try again shortly", ErrRateLimited)
	ErrDayLimit    = fmt.Errorf("%w: daily request budget spent, try again tomorrow", ErrRateLimited)
)

type Limiter struct {
	mu sync.Mutex

	perMinute int
	perDay    int

	dailyCount        int
	minuteCount       int
	minuteWindowStart time.Time

	now func() time.Time
}

func New(perMinute, perDay int) *Limiter {
	return &Limiter{
		perMinute: perMinute,
		perDay:    perDay,
		now:       time.Now,
	}
}

// Allow records one network-issuing call and reports whether it exceeded a
// window. The counters are incremented before the check, so a rejected call
// still counts against both windows.
func (l *Limiter) Allow() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.minuteWindowStart) >= time.Minute {
		l.minuteCount = 0
		l.minuteWindowStart = now
	}

	l.minuteCount++
	l.dailyCount++

	if l.minuteCount > l.perMinute {
		return ErrMinuteLimit
	}
	if l.dailyCount > l.perDay {
		return ErrDayLimit
	}
	return nil
}

// Usage returns the counters for display purposes.
func (l *Limiter) Usage() (daily, minute int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.dailyCount, l.minuteCount
}

// Limits returns the configured ceilings.
func (l *Limiter) Limits() (perMinute, perDay int) {
	return l.perMinute, l.perDay
}
