package retry

import (
	"context"
	"errors"
	"testing"
	"time"
)

var errBoom = errors.New("boom")

func noSleep(sleeps *[]time.Duration) func(ctx context.Context, d time.Duration) error {
	return func(_ context.Context, d time.Duration) error {
		*sleeps = append(*sleeps, d)
		return nil
	}
}

func TestDo_SuccessFirstAttempt(t *testing.T) {
	calls := 0
	err := Do(context.Background(), Policy{MaxRetries: 3}, func(context.Context) error {
		calls++
		return nil
	})

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
}

func TestDo_PermanentFailureExhaustsRetries(t *testing.T) {
	tests := []struct {
		name       string
		maxRetries int
		wantCalls  int
	}{
		{name: "default retries", maxRetries: 0, wantCalls: DefaultMaxRetries + 1},
		{name: "one retry", maxRetries: 1, wantCalls: 2},
		{name: "five retries", maxRetries: 5, wantCalls: 6},
		{name: "retries disabled", maxRetries: -1, wantCalls: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var sleeps []time.Duration
			p := Policy{MaxRetries: tt.maxRetries}
			p.SetSleepFunc(noSleep(&sleeps))

			calls := 0
			err := Do(context.Background(), p, func(context.Context) error {
				calls++
				return errBoom
			})

			if !errors.Is(err, errBoom) {
				t.Errorf("expected final error %v, got %v", errBoom, err)
			}
			if calls != tt.wantCalls {
				t.Errorf("expected %d calls, got %d", tt.wantCalls, calls)
			}
			if len(sleeps) != tt.wantCalls-1 {
				t.Errorf("expected %d sleeps, got %d", tt.wantCalls-1, len(sleeps))
			}
		})
	}
}

func TestDoValue_SuccessOnAttemptK(t *testing.T) {
	var sleeps []time.Duration
	p := Policy{MaxRetries: 5}
	p.SetSleepFunc(noSleep(&sleeps))

	calls := 0
	v, err := DoValue(context.Background(), p, func(context.Context) (string, error) {
		calls++
		if calls < 3 {
			return "", errBoom
		}
		return "ok", nil
	})

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != "ok" {
		t.Errorf("expected result %q, got %q", "ok", v)
	}
	if calls != 3 {
		t.Errorf("expected exactly 3 calls, got %d", calls)
	}
}

func TestDo_NonRetryablePropagatesImmediately(t *testing.T) {
	fatal := errors.New("bad request")
	p := Policy{
		MaxRetries: 5,
		Retryable:  func(err error) bool { return !errors.Is(err, fatal) },
	}

	calls := 0
	err := Do(context.Background(), p, func(context.Context) error {
		calls++
		return fatal
	})

	if !errors.Is(err, fatal) {
		t.Errorf("expected %v, got %v", fatal, err)
	}
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
}

func TestPolicy_Delay_Sequence(t *testing.T) {
	p := Policy{
		InitialDelay: time.Second,
		MaxDelay:     10 * time.Second,
		Multiplier:   2,
	}

	want := []time.Duration{
		1 * time.Second,
		2 * time.Second,
		4 * time.Second,
		8 * time.Second,
		10 * time.Second, // capped
		10 * time.Second,
	}
	var prev time.Duration
	for attempt, expected := range want {
		d := p.Delay(attempt)
		if d != expected {
			t.Errorf("Delay(%d) = %v, expected %v", attempt, d, expected)
		}
		if d < prev {
			t.Errorf("Delay(%d) = %v decreased below %v", attempt, d, prev)
		}
		if d > p.MaxDelay {
			t.Errorf("Delay(%d) = %v exceeds MaxDelay %v", attempt, d, p.MaxDelay)
		}
		prev = d
	}
}

func TestPolicy_Delay_Overflow(t *testing.T) {
	p := Policy{InitialDelay: time.Second, MaxDelay: time.Minute, Multiplier: 10}

	// Large attempt counts overflow float math; the cap must hold.
	if d := p.Delay(400); d != time.Minute {
		t.Errorf("Delay(400) = %v, expected cap %v", d, time.Minute)
	}
}

func TestDo_JitterBounds(t *testing.T) {
	tests := []struct {
		name string
		rand float64
		want time.Duration
	}{
		{name: "low end", rand: 0, want: 500 * time.Millisecond},
		{name: "midpoint", rand: 0.5, want: 750 * time.Millisecond},
		{name: "high end", rand: 0.999, want: time.Duration(float64(time.Second) * (0.5 + 0.999*0.5))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var sleeps []time.Duration
			p := Policy{MaxRetries: 1, InitialDelay: time.Second, Jitter: true}
			p.SetSleepFunc(noSleep(&sleeps))
			p.SetRandFunc(func() float64 { return tt.rand })

			_ = Do(context.Background(), p, func(context.Context) error { return errBoom })

			if len(sleeps) != 1 {
				t.Fatalf("expected 1 sleep, got %d", len(sleeps))
			}
			if sleeps[0] != tt.want {
				t.Errorf("jittered delay = %v, expected %v", sleeps[0], tt.want)
			}
			if sleeps[0] < time.Second/2 || sleeps[0] >= time.Second {
				t.Errorf("jittered delay %v outside [0.5s, 1s)", sleeps[0])
			}
		})
	}
}

func TestDo_ContextCancelledDuringBackoff(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	p := Policy{MaxRetries: 3, InitialDelay: time.Hour}
	calls := 0
	errCh := make(chan error, 1)
	go func() {
		errCh <- Do(ctx, p, func(context.Context) error {
			calls++
			if calls == 1 {
				cancel()
			}
			return errBoom
		})
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Do did not return after cancellation")
	}
	if calls != 1 {
		t.Errorf("expected 1 call before cancellation, got %d", calls)
	}
}
