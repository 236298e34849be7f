package tokens

import (
	"strings"
	"testing"
)

func TestNewEstimatingCounterWithRatio(t *testing.T) {
	tests := []struct {
		name     string
		ratio    float64
		expected float64
	}{
		{name: "custom ratio", ratio: 3.0, expected: 3.0},
		{name: "zero ratio uses default", ratio: 0, expected: DefaultCharsPerToken},
		{name: "negative ratio uses default", ratio: -1, expected: DefaultCharsPerToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewEstimatingCounterWithRatio(tt.ratio)
			if c.CharsPerToken != tt.expected {
				t.Errorf("expected CharsPerToken %v, got %v", tt.expected, c.CharsPerToken)
			}
		})
	}
}

func TestEstimatingCounter_Count(t *testing.T) {
	c := NewEstimatingCounter()

	tests := []struct {
		name     string
		text     string
		expected int
	}{
		{name: "empty string", text: "", expected: 0},
		{name: "single character", text: "a", expected: 0}, // 1/4 rounds down
		{name: "four characters", text: "test", expected: 1},
		{name: "hello world", text: "Hello World", expected: 3}, // 11/4 = 2.75
		{name: "multi-byte runes", text: "héllo wörld", expected: 3},
		{name: "long text", text: strings.Repeat("word ", 20), expected: 25}, // 100 chars
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.Count(tt.text); got != tt.expected {
				t.Errorf("Count(%q) = %d, expected %d", tt.text, got, tt.expected)
			}
		})
	}
}

func TestEstimatingCounter_FitsInLimit(t *testing.T) {
	c := NewEstimatingCounter()
	text := "Hello World" // ~3 tokens

	if !c.FitsInLimit(text, 3) {
		t.Error("expected text to fit in limit 3")
	}
	if c.FitsInLimit(text, 2) {
		t.Error("expected text not to fit in limit 2")
	}
}

func TestCountAll(t *testing.T) {
	c := NewEstimatingCounter()

	got := CountAll(c, "test", "test", "Hello World")
	want := c.Count("test")*2 + c.Count("Hello World")
	if got != want {
		t.Errorf("CountAll = %d, expected %d", got, want)
	}
}

func TestContextLimit(t *testing.T) {
	tests := []struct {
		name     string
		model    string
		expected int
	}{
		{name: "exact match", model: "gpt-4", expected: 8192},
		{name: "turbo exact", model: "gpt-4-turbo", expected: 128000},
		{name: "dated variant via prefix", model: "gpt-3.5-turbo-0125", expected: 16385},
		{name: "longest prefix wins", model: "gpt-4-32k-0613", expected: 32768},
		{name: "unknown model gets default", model: "mystery-model", expected: DefaultContextLimit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ContextLimit(tt.model); got != tt.expected {
				t.Errorf("ContextLimit(%q) = %d, expected %d", tt.model, got, tt.expected)
			}
		})
	}
}
