package ratelimit

import (
	"errors"
	"testing"
	"time"
)

func testLimiter(perMinute, perDay int) (*Limiter, *time.Time) {
	l := New(perMinute, perDay)
	now := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }
	return l, &now
}

func TestAllowWithinLimits(t *testing.T) {
	l, _ := testLimiter(5, 100)

	for i := 0; i < 5; i++ {
		if err := l.Allow(); err != nil {
			t.Fatalf("call %d: unexpected error: %v", i+1, err)
		}
	}
}

func TestMinuteLimit(t *testing.T) {
	l, _ := testLimiter(3, 100)

	for i := 0; i < 3; i++ {
		if err := l.Allow(); err != nil {
			t.Fatalf("call %d: unexpected error: %v", i+1, err)
		}
	}

	err := l.Allow()
	if !errors.Is(err, ErrMinuteLimit) {
		t.Errorf("expected ErrMinuteLimit, got %v", err)
	}
	if !errors.Is(err, ErrRateLimited) {
		t.Error("minute limit should match ErrRateLimited")
	}
}

func TestMinuteWindowResets(t *testing.T) {
	l, now := testLimiter(2, 100)

	l.Allow()
	l.Allow()
	if err := l.Allow(); !errors.Is(err, ErrMinuteLimit) {
		t.Fatalf("expected minute limit, got %v", err)
	}

	*now = now.Add(61 * time.Second)
	if err := l.Allow(); err != nil {
		t.Errorf("expected fresh window to allow, got %v", err)
	}
}

func TestDailyLimitNeverResets(t *testing.T) {
	l, now := testLimiter(100, 3)

	for i := 0; i < 3; i++ {
		if err := l.Allow(); err != nil {
			t.Fatalf("call %d: unexpected error: %v", i+1, err)
		}
	}

	// Advancing past the minute window must not clear the daily counter.
	*now = now.Add(2 * time.Minute)
	err := l.Allow()
	if !errors.Is(err, ErrDayLimit) {
		t.Errorf("expected ErrDayLimit, got %v", err)
	}
}

func TestRejectedCallStillCounts(t *testing.T) {
	l, _ := testLimiter(1, 100)

	l.Allow()
	l.Allow() // rejected, but counted

	daily, minute := l.Usage()
	if daily != 2 {
		t.Errorf("expected daily count 2, got %d", daily)
	}
	if minute != 2 {
		t.Errorf("expected minute count 2, got %d", minute)
	}
}
