package tokens

import (
	"strings"
	"unicode/utf8"
)

// DefaultCharsPerToken is the default character-to-token ratio.
// Roughly 4 characters per token for English text.
const DefaultCharsPerToken = 4.0

// Counter estimates token counts for text.
type Counter interface {
	// Count estimates the number of tokens in the given text.
	Count(text string) int

	// FitsInLimit returns true if the text fits within the token limit.
	FitsInLimit(text string, limit int) bool
}

// EstimatingCounter estimates tokens from a character-to-token ratio.
type EstimatingCounter struct {
	// CharsPerToken is the average characters per token.
	// Default is 4, which works well for English text.
	CharsPerToken float64
}

// NewEstimatingCounter creates a counter with the default ratio.
func NewEstimatingCounter() *EstimatingCounter {
	return &EstimatingCounter{CharsPerToken: DefaultCharsPerToken}
}

// NewEstimatingCounterWithRatio creates a counter with a custom ratio.
// Non-positive ratios fall back to the default.
func NewEstimatingCounterWithRatio(charsPerToken float64) *EstimatingCounter {
	if charsPerToken <= 0 {
		charsPerToken = DefaultCharsPerToken
	}
	return &EstimatingCounter{CharsPerToken: charsPerToken}
}

// Count estimates the number of tokens in the given text.
// Counts runes rather than bytes so multi-byte text doesn't over-estimate.
func (c *EstimatingCounter) Count(text string) int {
	runes := utf8.RuneCountInString(text)
	return int(float64(runes)/c.CharsPerToken + 0.5)
}

// FitsInLimit returns true if the text fits within the token limit.
func (c *EstimatingCounter) FitsInLimit(text string, limit int) bool {
	return c.Count(text) <= limit
}

// CountAll estimates the combined token count of several texts.
func CountAll(c Counter, texts ...string) int {
	total := 0
	for _, t := range texts {
		total += c.Count(t)
	}
	return total
}

// EstimateTokens is a convenience function using the default estimator.
func EstimateTokens(text string) int {
	return NewEstimatingCounter().Count(text)
}

// DefaultContextLimit is the fallback context window for unknown models.
const DefaultContextLimit = 8192

// contextLimits holds context window sizes for common hosted models.
var contextLimits = map[string]int{
	// GPT-4 family
	"gpt-4":               8192,
	"gpt-4-32k":           32768,
	"gpt-4-turbo":         128000,
	"gpt-4-turbo-preview": 128000,

	// GPT-3.5 family
	"gpt-3.5-turbo":     16385,
	"gpt-3.5-turbo-16k": 16385,

	// Embedding models
	"text-embedding-3-small": 8191,
	"text-embedding-3-large": 8191,
	"text-embedding-ada-002": 8191,
}

// ContextLimit returns the context window for a model. An exact match wins;
// otherwise the longest known name that prefixes the model is used, and
// unknown models get DefaultContextLimit.
func ContextLimit(model string) int {
	if limit, ok := contextLimits[model]; ok {
		return limit
	}

	best := 0
	bestLen := -1
	for name, limit := range contextLimits {
		if strings.HasPrefix(model, name) && len(name) > bestLen {
			best = limit
			bestLen = len(name)
		}
	}
	if bestLen < 0 {
		return DefaultContextLimit
	}
	return best
}
