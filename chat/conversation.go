package chat

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/mpeterson/aikit/llm"
	"github.com/mpeterson/aikit/tokens"
)

// DefaultSystemPrompt is used when no system prompt is given.
const DefaultSystemPrompt = "You are a helpful assistant."

// Conversation is an append-only message log anchored by a system prompt.
// It is safe for concurrent use.
type Conversation struct {
	mu       sync.Mutex
	messages []llm.Message // messages[0] is always the system prompt
}

// New creates a conversation with the given system prompt.
// An empty prompt falls back to DefaultSystemPrompt.
func New(systemPrompt string) *Conversation {
	if systemPrompt == "" {
		systemPrompt = DefaultSystemPrompt
	}
	return &Conversation{
		messages: []llm.Message{{Role: llm.RoleSystem, Content: systemPrompt}},
	}
}

// Append adds a message to the history.
func (c *Conversation) Append(role llm.Role, content string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = append(c.messages, llm.Message{Role: role, Content: content})
}

// AppendUser adds a user message.
func (c *Conversation) AppendUser(content string) { c.Append(llm.RoleUser, content) }

// AppendAssistant adds an assistant message.
func (c *Conversation) AppendAssistant(content string) { c.Append(llm.RoleAssistant, content) }

// Messages returns a copy of the full history, system prompt included,
// in insertion order.
func (c *Conversation) Messages() []llm.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]llm.Message(nil), c.messages...)
}

// SystemPrompt returns the system prompt.
func (c *Conversation) SystemPrompt() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.messages[0].Content
}

// Len returns the number of messages, system prompt included.
func (c *Conversation) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.messages)
}

// Clear removes all messages except the system prompt.
func (c *Conversation) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = c.messages[:1]
}

// DropLast removes the most recent message, never the system prompt.
// Useful to roll back a user message after a failed completion.
func (c *Conversation) DropLast() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.messages) > 1 {
		c.messages = c.messages[:len(c.messages)-1]
	}
}

// TokenCount estimates the token footprint of the whole conversation.
func (c *Conversation) TokenCount(counter tokens.Counter) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	total := 0
	for _, m := range c.messages {
		total += counter.Count(m.Content)
	}
	return total
}

// TrimToLimit drops the oldest non-system messages until the conversation
// fits within maxTokens, returning how many were removed. The system
// prompt and the most recent exchange (last two messages) are never
// dropped, so a conversation can exceed the limit if those alone do.
func (c *Conversation) TrimToLimit(counter tokens.Counter, maxTokens int) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for len(c.messages) > 3 && c.tokenCountLocked(counter) > maxTokens {
		c.messages = append(c.messages[:1], c.messages[2:]...)
		removed++
	}
	return removed
}

func (c *Conversation) tokenCountLocked(counter tokens.Counter) int {
	total := 0
	for _, m := range c.messages {
		total += counter.Count(m.Content)
	}
	return total
}

// snapshot is the JSON persistence format.
type snapshot struct {
	SavedAt  time.Time     `json:"saved_at"`
	Messages []llm.Message `json:"messages"`
}

// MarshalJSON serializes the conversation as its message list.
func (c *Conversation) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Messages())
}

// UnmarshalJSON restores a conversation from a message list.
func (c *Conversation) UnmarshalJSON(data []byte) error {
	var msgs []llm.Message
	if err := json.Unmarshal(data, &msgs); err != nil {
		return err
	}
	if err := validateMessages(msgs); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = msgs
	return nil
}

// Save writes the conversation to a JSON file.
func (c *Conversation) Save(path string) error {
	snap := snapshot{SavedAt: time.Now(), Messages: c.Messages()}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("save conversation: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("save conversation: %w", err)
	}
	return nil
}

// Load reads a conversation previously written by Save.
func Load(path string) (*Conversation, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load conversation: %w", err)
	}

	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("load conversation %s: %w", path, err)
	}
	if err := validateMessages(snap.Messages); err != nil {
		return nil, fmt.Errorf("load conversation %s: %w", path, err)
	}

	return &Conversation{messages: snap.Messages}, nil
}

// validateMessages checks the minimal shape of a restored history: at least
// the system prompt, every message with a known role and present content
// field, and the system prompt first.
func validateMessages(msgs []llm.Message) error {
	if len(msgs) == 0 {
		return fmt.Errorf("conversation has no messages")
	}
	if msgs[0].Role != llm.RoleSystem {
		return fmt.Errorf("first message has role %q, want %q", msgs[0].Role, llm.RoleSystem)
	}
	for i, m := range msgs {
		if !m.Role.Valid() {
			return fmt.Errorf("message %d has unknown role %q", i, m.Role)
		}
	}
	return nil
}
