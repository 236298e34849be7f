package llm

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/mpeterson/aikit/tokens"
)

// MockClient is a test double for Client.
// It supports fixed responses, sequential responses, error injection, and
// custom handlers, and records every request for assertions.
type MockClient struct {
	mu           sync.Mutex
	responses    []string
	responseIdx  int
	err          error
	completeFunc func(ctx context.Context, req Request) (*Response, error)

	// Calls tracks all requests for assertions.
	Calls []Request
}

// NewMockClient creates a mock that returns a fixed response.
func NewMockClient(response string) *MockClient {
	return &MockClient{responses: []string{response}}
}

// WithResponses configures sequential responses.
// Each Complete call returns the next response, cycling at the end.
func (m *MockClient) WithResponses(responses ...string) *MockClient {
	m.responses = responses
	return m
}

// WithError configures the mock to always return an error.
func (m *MockClient) WithError(err error) *MockClient {
	m.err = err
	return m
}

// WithCompleteFunc sets a custom handler for Complete calls.
// Takes precedence over fixed responses and configured errors.
func (m *MockClient) WithCompleteFunc(fn func(ctx context.Context, req Request) (*Response, error)) *MockClient {
	m.completeFunc = fn
	return m
}

// CallCount returns the number of recorded requests.
func (m *MockClient) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

func (m *MockClient) next(req Request) (string, func(ctx context.Context, req Request) (*Response, error), error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, req)

	if m.completeFunc != nil {
		return "", m.completeFunc, nil
	}
	if m.err != nil {
		return "", nil, m.err
	}

	response := ""
	if len(m.responses) > 0 {
		response = m.responses[m.responseIdx%len(m.responses)]
		m.responseIdx++
	}
	return response, nil, nil
}

// usageFor estimates mock token usage for a request/response pair.
func usageFor(req Request, response string) Usage {
	counter := tokens.NewEstimatingCounter()

	prompt := counter.Count(req.SystemPrompt)
	for _, msg := range req.Messages {
		prompt += counter.Count(msg.Content)
	}
	completion := counter.Count(response)

	return Usage{
		PromptTokens:     prompt,
		CompletionTokens: completion,
		TotalTokens:      prompt + completion,
	}
}

// Complete implements Client.
func (m *MockClient) Complete(ctx context.Context, req Request) (*Response, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	response, fn, err := m.next(req)
	if fn != nil {
		return fn(ctx, req)
	}
	if err != nil {
		return nil, err
	}

	model := req.Model
	if model == "" {
		model = "mock-model"
	}
	return &Response{
		Content:      response,
		Model:        model,
		FinishReason: "stop",
		Usage:        usageFor(req, response),
		Duration:     time.Millisecond,
	}, nil
}

// Stream implements Client. The scripted response is delivered word by
// word, followed by a final chunk carrying usage.
func (m *MockClient) Stream(ctx context.Context, req Request) (<-chan StreamChunk, error) {
	response, fn, err := m.next(req)
	if fn != nil {
		resp, err := fn(ctx, req)
		if err != nil {
			return nil, err
		}
		response = resp.Content
	} else if err != nil {
		return nil, err
	}

	ch := make(chan StreamChunk)
	go func() {
		defer close(ch)

		words := strings.SplitAfter(response, " ")
		for _, w := range words {
			if w == "" {
				continue
			}
			select {
			case <-ctx.Done():
				ch <- StreamChunk{Error: ctx.Err(), Done: true}
				return
			case ch <- StreamChunk{Content: w}:
			}
		}

		usage := usageFor(req, response)
		ch <- StreamChunk{Usage: &usage, Done: true}
	}()
	return ch, nil
}

// Provider implements Client.
func (m *MockClient) Provider() string { return "mock" }

// Close implements Client.
func (m *MockClient) Close() error { return nil }
