package cost

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"
)

// Report is a snapshot of a session's spend.
type Report struct {
	Session     string                `json:"session"`
	StartTime   time.Time             `json:"start_time"`
	EndTime     time.Time             `json:"end_time"`
	TotalCalls  int                   `json:"total_calls"`
	TotalCost   float64               `json:"total_cost"`
	TotalTokens int                   `json:"total_tokens"`
	ByModel     map[string]ModelStats `json:"by_model"`
	Calls       []Call                `json:"calls"`
}

// Report builds a snapshot of the session so far.
func (t *Tracker) Report() Report {
	t.mu.Lock()
	defer t.mu.Unlock()

	var (
		totalCost   float64
		totalTokens int
	)
	byModel := make(map[string]ModelStats)
	for _, c := range t.calls {
		totalCost += c.Cost
		totalTokens += c.TotalTokens()

		s := byModel[c.Model]
		s.Calls++
		s.Cost += c.Cost
		s.PromptTokens += c.PromptTokens
		s.CompletionTokens += c.CompletionTokens
		s.TotalTokens += c.TotalTokens()
		byModel[c.Model] = s
	}

	return Report{
		Session:     t.session,
		StartTime:   t.start,
		EndTime:     t.nowFunc(),
		TotalCalls:  len(t.calls),
		TotalCost:   totalCost,
		TotalTokens: totalTokens,
		ByModel:     byModel,
		Calls:       append([]Call(nil), t.calls...),
	}
}

// ExportJSON writes the session report as indented JSON.
func (t *Tracker) ExportJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(t.Report()); err != nil {
		return fmt.Errorf("export cost report: %w", err)
	}
	return nil
}

// ExportCSV writes one row per recorded call:
// timestamp, model, prompt_tokens, completion_tokens, total_tokens, cost.
func (t *Tracker) ExportCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"timestamp", "model", "prompt_tokens", "completion_tokens", "total_tokens", "cost"}); err != nil {
		return fmt.Errorf("export cost csv: %w", err)
	}

	for _, c := range t.Calls() {
		row := []string{
			c.Time.Format(time.RFC3339),
			c.Model,
			strconv.Itoa(c.PromptTokens),
			strconv.Itoa(c.CompletionTokens),
			strconv.Itoa(c.TotalTokens()),
			strconv.FormatFloat(c.Cost, 'f', -1, 64),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("export cost csv: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("export cost csv: %w", err)
	}
	return nil
}
