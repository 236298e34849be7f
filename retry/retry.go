package retry

import (
	"context"
	"math"
	"math/rand/v2"
	"time"
)

// Default policy values, matching common API client practice.
const (
	DefaultMaxRetries   = 3
	DefaultInitialDelay = time.Second
	DefaultMaxDelay     = time.Minute
	DefaultMultiplier   = 2.0
)

// Policy configures retry behavior.
// The zero value is usable: fields default as documented.
type Policy struct {
	// MaxRetries is the number of retries after the first attempt.
	// A permanently failing operation runs MaxRetries+1 times total.
	// Default 3. Negative disables retries entirely.
	MaxRetries int

	// InitialDelay is the delay before the first retry. Default 1s.
	InitialDelay time.Duration

	// MaxDelay caps the computed delay. Default 1m.
	MaxDelay time.Duration

	// Multiplier is the exponential growth base. Default 2.
	Multiplier float64

	// Jitter scales each delay by a uniform random factor in [0.5, 1.0)
	// to avoid thundering herds. Disabled when false.
	Jitter bool

	// Retryable classifies errors. Nil retries every error.
	Retryable func(error) bool

	// sleepFunc is used for testing; defaults to a context-aware sleep.
	sleepFunc func(ctx context.Context, d time.Duration) error
	// randFunc returns a random float64 in [0,1); used for jitter.
	randFunc func() float64
}

// SetSleepFunc overrides the sleep function (for testing).
func (p *Policy) SetSleepFunc(fn func(ctx context.Context, d time.Duration) error) {
	p.sleepFunc = fn
}

// SetRandFunc overrides the random number generator (for testing).
func (p *Policy) SetRandFunc(fn func() float64) { p.randFunc = fn }

func (p Policy) withDefaults() Policy {
	if p.MaxRetries == 0 {
		p.MaxRetries = DefaultMaxRetries
	}
	if p.MaxRetries < 0 {
		p.MaxRetries = 0
	}
	if p.InitialDelay <= 0 {
		p.InitialDelay = DefaultInitialDelay
	}
	if p.MaxDelay <= 0 {
		p.MaxDelay = DefaultMaxDelay
	}
	if p.Multiplier <= 1 {
		p.Multiplier = DefaultMultiplier
	}
	if p.sleepFunc == nil {
		p.sleepFunc = contextSleep
	}
	if p.randFunc == nil {
		p.randFunc = rand.Float64
	}
	return p
}

// Delay returns the pre-jitter delay for the given zero-based attempt:
// InitialDelay * Multiplier^attempt, capped at MaxDelay. The sequence is
// non-decreasing and bounded above by MaxDelay.
func (p Policy) Delay(attempt int) time.Duration {
	p = p.withDefaults()
	d := time.Duration(float64(p.InitialDelay) * math.Pow(p.Multiplier, float64(attempt)))
	if d <= 0 || d > p.MaxDelay {
		// Negative means float overflow past the duration range.
		return p.MaxDelay
	}
	return d
}

// jittered applies the uniform [0.5, 1.0) jitter factor when enabled.
func (p Policy) jittered(d time.Duration) time.Duration {
	if !p.Jitter {
		return d
	}
	factor := 0.5 + p.randFunc()*0.5
	return time.Duration(float64(d) * factor)
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

// Do runs fn, retrying on retryable errors per the policy.
// The error from the final attempt is returned on exhaustion.
func Do(ctx context.Context, p Policy, fn func(ctx context.Context) error) error {
	_, err := DoValue(ctx, p, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	})
	return err
}

// DoValue runs fn, retrying on retryable errors per the policy, and returns
// the successful result. The error from the final attempt is returned on
// exhaustion; non-retryable errors propagate immediately.
func DoValue[T any](ctx context.Context, p Policy, fn func(ctx context.Context) (T, error)) (T, error) {
	p = p.withDefaults()

	var zero T
	var lastErr error
	for attempt := 0; attempt <= p.MaxRetries; attempt++ {
		v, err := fn(ctx)
		if err == nil {
			return v, nil
		}
		if p.Retryable != nil && !p.Retryable(err) {
			return zero, err
		}

		lastErr = err
		if attempt == p.MaxRetries {
			break
		}

		if sleepErr := p.sleepFunc(ctx, p.jittered(p.Delay(attempt))); sleepErr != nil {
			return zero, sleepErr
		}
	}
	return zero, lastErr
}
