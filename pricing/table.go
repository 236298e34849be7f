package pricing

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownModel indicates the model has no entry in the price table.
var ErrUnknownModel = errors.New("no pricing for model")

// Price holds USD rates per 1,000 tokens for a single model.
type Price struct {
	// Prompt is the rate for prompt (input) tokens.
	Prompt float64 `json:"prompt" yaml:"prompt" toml:"prompt"`

	// Completion is the rate for completion (output) tokens.
	Completion float64 `json:"completion" yaml:"completion" toml:"completion"`
}

// Table maps model names to prices.
type Table map[string]Price

// DefaultTable returns the built-in price table.
// Rates are USD per 1K tokens, current as of early 2026.
func DefaultTable() Table {
	return Table{
		// GPT-4 family
		"gpt-4":               {Prompt: 0.03, Completion: 0.06},
		"gpt-4-32k":           {Prompt: 0.06, Completion: 0.12},
		"gpt-4-turbo":         {Prompt: 0.01, Completion: 0.03},
		"gpt-4-turbo-preview": {Prompt: 0.01, Completion: 0.03},

		// GPT-3.5 family
		"gpt-3.5-turbo":     {Prompt: 0.0005, Completion: 0.0015},
		"gpt-3.5-turbo-16k": {Prompt: 0.003, Completion: 0.004},

		// Embedding models
		"text-embedding-3-small": {Prompt: 0.00002},
		"text-embedding-3-large": {Prompt: 0.00013},
		"text-embedding-ada-002": {Prompt: 0.0001},

		// Legacy completions models
		"davinci-002": {Prompt: 0.002, Completion: 0.002},
		"babbage-002": {Prompt: 0.0004, Completion: 0.0004},
	}
}

// Lookup returns the price for a model. An exact match wins; otherwise the
// longest table key that is a prefix of the model name is used. Returns
// ErrUnknownModel when nothing matches.
func (t Table) Lookup(model string) (Price, error) {
	if p, ok := t[model]; ok {
		return p, nil
	}

	var (
		best    Price
		bestLen = -1
	)
	for name, p := range t {
		if strings.HasPrefix(model, name) && len(name) > bestLen {
			best = p
			bestLen = len(name)
		}
	}
	if bestLen < 0 {
		return Price{}, fmt.Errorf("%w: %s", ErrUnknownModel, model)
	}
	return best, nil
}

// Cost computes the USD cost of a call:
// (promptTokens/1000)*Prompt + (completionTokens/1000)*Completion.
func (t Table) Cost(model string, promptTokens, completionTokens int) (float64, error) {
	p, err := t.Lookup(model)
	if err != nil {
		return 0, err
	}
	return float64(promptTokens)/1000*p.Prompt + float64(completionTokens)/1000*p.Completion, nil
}

// Models returns the model names in the table, unordered.
func (t Table) Models() []string {
	names := make([]string, 0, len(t))
	for name := range t {
		names = append(names, name)
	}
	return names
}

// Clone returns an independent copy of the table.
func (t Table) Clone() Table {
	c := make(Table, len(t))
	for k, v := range t {
		c[k] = v
	}
	return c
}
