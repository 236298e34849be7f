package llm

import (
	"context"
	"time"
)

// Role identifies the message sender.
type Role string

// Standard message roles.
const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// Valid reports whether the role is one of the standard roles.
func (r Role) Valid() bool {
	switch r {
	case RoleSystem, RoleUser, RoleAssistant, RoleTool:
		return true
	}
	return false
}

// Message is a single conversation turn.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// NewMessage creates a message.
func NewMessage(role Role, content string) Message {
	return Message{Role: role, Content: content}
}

// Request configures a completion call.
type Request struct {
	// Model is the backend-specific model name, e.g. "gpt-4-turbo".
	Model string `json:"model,omitempty"`

	// SystemPrompt guides the model's behavior. Backends that model the
	// system prompt as a message should prepend it themselves.
	SystemPrompt string `json:"system_prompt,omitempty"`

	// Messages is the conversation history to send.
	Messages []Message `json:"messages"`

	// MaxTokens limits the completion length. 0 uses the backend default.
	MaxTokens int `json:"max_tokens,omitempty"`

	// Temperature controls randomness (0.0 deterministic, 1.0 creative).
	Temperature float64 `json:"temperature,omitempty"`

	// Tools lists tools the model may invoke.
	Tools []Tool `json:"tools,omitempty"`
}

// Usage tracks token consumption for one call.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Add combines usage from another call.
func (u *Usage) Add(other Usage) {
	u.PromptTokens += other.PromptTokens
	u.CompletionTokens += other.CompletionTokens
	u.TotalTokens += other.TotalTokens
}

// Response is the output of a completion call.
type Response struct {
	// Content is the text response from the model.
	Content string `json:"content"`

	// Model is the model that actually served the request.
	Model string `json:"model"`

	// FinishReason indicates why generation stopped ("stop", "length", ...).
	FinishReason string `json:"finish_reason"`

	// Usage is the token consumption for this call.
	Usage Usage `json:"usage"`

	// Duration is the time taken for the completion.
	Duration time.Duration `json:"duration"`
}

// StreamChunk is a piece of a streaming response.
type StreamChunk struct {
	// Content is the text fragment in this chunk.
	Content string `json:"content,omitempty"`

	// Usage is the total token usage; set only on the final chunk.
	Usage *Usage `json:"usage,omitempty"`

	// Done indicates this is the final chunk.
	Done bool `json:"done"`

	// Error is non-nil if streaming failed mid-flight.
	Error error `json:"-"`
}

// Client is the interface to an LLM backend.
// Implementations must be safe for concurrent use.
type Client interface {
	// Complete sends a request and returns the full response.
	Complete(ctx context.Context, req Request) (*Response, error)

	// Stream sends a request and returns a channel of incremental chunks.
	// The channel is closed after the final chunk (Done true) or an error
	// chunk. Errors during streaming are delivered via StreamChunk.Error.
	Stream(ctx context.Context, req Request) (<-chan StreamChunk, error)

	// Provider returns the backend name, e.g. "openai" or "mock".
	Provider() string

	// Close releases any resources held by the client.
	Close() error
}

// Config holds backend-agnostic settings for constructing a Client.
type Config struct {
	// Provider names the registered backend factory.
	Provider string `json:"provider" yaml:"provider"`

	// Model is the default model for requests that don't set one.
	Model string `json:"model" yaml:"model"`

	// Timeout bounds each completion request. 0 uses the backend default.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// Options holds backend-specific settings.
	Options map[string]any `json:"options" yaml:"options"`
}
