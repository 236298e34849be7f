package cost

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/mpeterson/aikit/pricing"
)

// ErrLimitExceeded indicates the session's hard cost limit has been reached.
// The call that crossed the limit was recorded; further work should stop.
var ErrLimitExceeded = errors.New("cost limit exceeded")

// Call is a single recorded API call.
type Call struct {
	Time             time.Time         `json:"timestamp"`
	Model            string            `json:"model"`
	PromptTokens     int               `json:"prompt_tokens"`
	CompletionTokens int               `json:"completion_tokens"`
	Cost             float64           `json:"cost"`
	Metadata         map[string]string `json:"metadata,omitempty"`
}

// TotalTokens returns the call's combined token count.
func (c Call) TotalTokens() int {
	return c.PromptTokens + c.CompletionTokens
}

// ModelStats aggregates calls for one model.
type ModelStats struct {
	Calls            int     `json:"calls"`
	Cost             float64 `json:"cost"`
	PromptTokens     int     `json:"prompt_tokens"`
	CompletionTokens int     `json:"completion_tokens"`
	TotalTokens      int     `json:"total_tokens"`
}

// Tracker accumulates call costs for a session.
// It is safe for concurrent use.
type Tracker struct {
	mu      sync.Mutex
	session string
	table   pricing.Table
	calls   []Call
	start   time.Time

	warnAt float64 // warn threshold in USD, 0 disables
	maxAt  float64 // hard limit in USD, 0 disables

	logger  *slog.Logger
	nowFunc func() time.Time
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithSession names the tracking session.
func WithSession(name string) Option {
	return func(t *Tracker) { t.session = name }
}

// WithWarnThreshold logs a warning whenever the session total is at or
// above the given USD amount. Zero disables the warning.
func WithWarnThreshold(usd float64) Option {
	return func(t *Tracker) { t.warnAt = usd }
}

// WithHardLimit makes Record return ErrLimitExceeded once the session total
// reaches the given USD amount. Zero disables the limit.
func WithHardLimit(usd float64) Option {
	return func(t *Tracker) { t.maxAt = usd }
}

// WithTrackerLogger sets the logger used for threshold warnings.
func WithTrackerLogger(l *slog.Logger) Option {
	return func(t *Tracker) { t.logger = l }
}

// NewTracker creates a tracker priced by the given table.
// A nil table uses pricing.DefaultTable.
func NewTracker(table pricing.Table, opts ...Option) *Tracker {
	if table == nil {
		table = pricing.DefaultTable()
	}
	t := &Tracker{
		table:   table,
		logger:  slog.Default(),
		nowFunc: time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.session == "" {
		t.session = "session_" + t.nowFunc().Format("20060102_150405")
	}
	t.start = t.nowFunc()
	return t
}

// SetNowFunc overrides the time source (for testing).
func (t *Tracker) SetNowFunc(fn func() time.Time) { t.nowFunc = fn }

// Session returns the session name.
func (t *Tracker) Session() string { return t.session }

// Record prices and records one call, returning its cost.
//
// An unknown model is a terminal error: nothing is recorded. Otherwise the
// call is always appended; if the session total has reached the hard limit
// the recorded cost is returned together with ErrLimitExceeded, and if only
// the warning threshold is crossed a warning is logged.
func (t *Tracker) Record(model string, promptTokens, completionTokens int) (float64, error) {
	return t.RecordCall(model, promptTokens, completionTokens, nil)
}

// RecordCall is Record with attached metadata.
func (t *Tracker) RecordCall(model string, promptTokens, completionTokens int, metadata map[string]string) (float64, error) {
	callCost, err := t.table.Cost(model, promptTokens, completionTokens)
	if err != nil {
		return 0, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.calls = append(t.calls, Call{
		Time:             t.nowFunc(),
		Model:            model,
		PromptTokens:     promptTokens,
		CompletionTokens: completionTokens,
		Cost:             callCost,
		Metadata:         metadata,
	})

	total := t.totalCostLocked()
	switch {
	case t.maxAt > 0 && total >= t.maxAt:
		return callCost, fmt.Errorf("%w: session cost $%.4f is at or above limit $%.2f", ErrLimitExceeded, total, t.maxAt)
	case t.warnAt > 0 && total >= t.warnAt:
		t.logger.Warn("session cost above warning threshold",
			"session", t.session,
			"total_usd", total,
			"warn_usd", t.warnAt,
		)
	}
	return callCost, nil
}

// CheckLimit returns ErrLimitExceeded if the session total has reached the
// hard limit. Use it to refuse new work after an overage.
func (t *Tracker) CheckLimit() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.maxAt > 0 && t.totalCostLocked() >= t.maxAt {
		return fmt.Errorf("%w: session cost $%.4f is at or above limit $%.2f", ErrLimitExceeded, t.totalCostLocked(), t.maxAt)
	}
	return nil
}

func (t *Tracker) totalCostLocked() float64 {
	var total float64
	for _, c := range t.calls {
		total += c.Cost
	}
	return total
}

// TotalCost returns the sum of all recorded call costs.
func (t *Tracker) TotalCost() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.totalCostLocked()
}

// TotalTokens returns the combined token count across all calls.
func (t *Tracker) TotalTokens() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	var total int
	for _, c := range t.calls {
		total += c.TotalTokens()
	}
	return total
}

// CallCount returns the number of recorded calls.
func (t *Tracker) CallCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.calls)
}

// Calls returns the recorded calls in insertion order.
func (t *Tracker) Calls() []Call {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]Call(nil), t.calls...)
}

// ByModel returns per-model aggregates.
func (t *Tracker) ByModel() map[string]ModelStats {
	t.mu.Lock()
	defer t.mu.Unlock()

	stats := make(map[string]ModelStats)
	for _, c := range t.calls {
		s := stats[c.Model]
		s.Calls++
		s.Cost += c.Cost
		s.PromptTokens += c.PromptTokens
		s.CompletionTokens += c.CompletionTokens
		s.TotalTokens += c.TotalTokens()
		stats[c.Model] = s
	}
	return stats
}

// Reset clears all recorded calls and restarts the session clock.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.calls = nil
	t.start = t.nowFunc()
}
