package ratelimit

import (
	"context"
	"sync"
	"time"
)

// DefaultMaxEvents is the default admission count per window.
const DefaultMaxEvents = 60

// DefaultWindow is the default window length.
const DefaultWindow = time.Minute

// Limiter admits at most maxEvents operations within any trailing window.
// It is safe for concurrent use; the check-and-record sequence is serialized
// under a single mutex so contention cannot over-admit.
type Limiter struct {
	mu        sync.Mutex
	maxEvents int
	window    time.Duration
	events    []time.Time

	// nowFunc is used for testing; defaults to time.Now.
	nowFunc func() time.Time
	// sleepFunc is used for testing; defaults to a context-aware sleep.
	sleepFunc func(ctx context.Context, d time.Duration) error
}

// NewLimiter creates a limiter allowing maxEvents admissions per window.
// Non-positive arguments fall back to the defaults (60 per minute).
func NewLimiter(maxEvents int, window time.Duration) *Limiter {
	if maxEvents <= 0 {
		maxEvents = DefaultMaxEvents
	}
	if window <= 0 {
		window = DefaultWindow
	}
	return &Limiter{
		maxEvents: maxEvents,
		window:    window,
		nowFunc:   time.Now,
		sleepFunc: contextSleep,
	}
}

// SetNowFunc overrides the time source (for testing).
func (l *Limiter) SetNowFunc(fn func() time.Time) { l.nowFunc = fn }

// SetSleepFunc overrides the sleep function (for testing).
func (l *Limiter) SetSleepFunc(fn func(ctx context.Context, d time.Duration) error) {
	l.sleepFunc = fn
}

// contextSleep sleeps for d or until ctx is cancelled.
func contextSleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// prune removes events older than now - window. Must be called with mu held.
func (l *Limiter) prune(now time.Time) {
	cutoff := now.Add(-l.window)
	i := 0
	for i < len(l.events) && !l.events[i].After(cutoff) {
		i++
	}
	if i > 0 {
		l.events = append(l.events[:0:0], l.events[i:]...)
	}
}

// Wait blocks until an admission is available, then records it.
// Returns ctx.Err() if the context is cancelled while waiting.
func (l *Limiter) Wait(ctx context.Context) error {
	for {
		l.mu.Lock()
		now := l.nowFunc()
		l.prune(now)

		if len(l.events) < l.maxEvents {
			l.events = append(l.events, now)
			l.mu.Unlock()
			return nil
		}

		// Wait until the oldest event exits the window, then re-evaluate.
		waitDur := l.events[0].Add(l.window).Sub(now)
		l.mu.Unlock()

		const minWait = time.Millisecond
		if waitDur < minWait {
			waitDur = minWait
		}

		if err := l.sleepFunc(ctx, waitDur); err != nil {
			return err
		}
	}
}

// Allow reports whether an admission is available right now, recording it
// if so. It never blocks.
func (l *Limiter) Allow() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.nowFunc()
	l.prune(now)

	if len(l.events) >= l.maxEvents {
		return false
	}
	l.events = append(l.events, now)
	return true
}

// Pending returns the number of admissions currently inside the window.
func (l *Limiter) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.prune(l.nowFunc())
	return len(l.events)
}

// Reset clears all recorded admissions.
func (l *Limiter) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = nil
}
