package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mpeterson/aikit/cost"
	"github.com/mpeterson/aikit/ratelimit"
	"github.com/mpeterson/aikit/retry"
)

// Middleware wraps a Client with a cross-cutting policy.
// Middleware replaces the decorator wrapping of dynamic languages: policies
// are explicit values composed around an explicit client.
type Middleware func(Client) Client

// Chain applies middleware so the first listed is outermost:
// Chain(c, retry, limit) retries around the rate limit.
func Chain(client Client, mws ...Middleware) Client {
	for i := len(mws) - 1; i >= 0; i-- {
		client = mws[i](client)
	}
	return client
}

// WithRetry retries failed completions per the policy. A nil
// Policy.Retryable defaults to IsRetryable, so only transient backend
// errors (rate limits, unavailability, timeouts) are retried.
//
// Streams are retried only while being established; once chunks are
// flowing, mid-stream errors surface to the caller.
func WithRetry(p retry.Policy) Middleware {
	if p.Retryable == nil {
		p.Retryable = IsRetryable
	}
	return func(inner Client) Client {
		return &retryClient{inner: inner, policy: p}
	}
}

type retryClient struct {
	inner  Client
	policy retry.Policy
}

func (c *retryClient) Complete(ctx context.Context, req Request) (*Response, error) {
	return retry.DoValue(ctx, c.policy, func(ctx context.Context) (*Response, error) {
		return c.inner.Complete(ctx, req)
	})
}

func (c *retryClient) Stream(ctx context.Context, req Request) (<-chan StreamChunk, error) {
	return retry.DoValue(ctx, c.policy, func(ctx context.Context) (<-chan StreamChunk, error) {
		return c.inner.Stream(ctx, req)
	})
}

func (c *retryClient) Provider() string { return c.inner.Provider() }
func (c *retryClient) Close() error     { return c.inner.Close() }

// WithRateLimit admits each call through the limiter before it reaches the
// backend. Callers block in Wait until capacity is available or their
// context is cancelled.
func WithRateLimit(l *ratelimit.Limiter) Middleware {
	return func(inner Client) Client {
		return &rateLimitedClient{inner: inner, limiter: l}
	}
}

type rateLimitedClient struct {
	inner   Client
	limiter *ratelimit.Limiter
}

func (c *rateLimitedClient) Complete(ctx context.Context, req Request) (*Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return c.inner.Complete(ctx, req)
}

func (c *rateLimitedClient) Stream(ctx context.Context, req Request) (<-chan StreamChunk, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return c.inner.Stream(ctx, req)
}

func (c *rateLimitedClient) Provider() string { return c.inner.Provider() }
func (c *rateLimitedClient) Close() error     { return c.inner.Close() }

// WithCostTracking records each response's token usage into the tracker.
//
// The call that crosses the tracker's hard limit still succeeds and is
// recorded; subsequent calls are refused before reaching the backend with
// cost.ErrLimitExceeded. Pricing failures (unknown model) never fail the
// response, only log.
func WithCostTracking(t *cost.Tracker) Middleware {
	return func(inner Client) Client {
		return &costTrackingClient{inner: inner, tracker: t, logger: slog.Default()}
	}
}

type costTrackingClient struct {
	inner   Client
	tracker *cost.Tracker
	logger  *slog.Logger
}

func (c *costTrackingClient) record(model string, usage Usage) {
	_, err := c.tracker.Record(model, usage.PromptTokens, usage.CompletionTokens)
	switch {
	case errors.Is(err, cost.ErrLimitExceeded):
		// The overage call itself is allowed; future calls get refused.
		c.logger.Warn("session cost limit reached", "model", model, "error", err)
	case err != nil:
		c.logger.Warn("could not track call cost", "model", model, "error", err)
	}
}

func (c *costTrackingClient) Complete(ctx context.Context, req Request) (*Response, error) {
	if err := c.tracker.CheckLimit(); err != nil {
		return nil, fmt.Errorf("refusing completion: %w", err)
	}

	resp, err := c.inner.Complete(ctx, req)
	if err != nil {
		return nil, err
	}

	c.record(resp.Model, resp.Usage)
	return resp, nil
}

func (c *costTrackingClient) Stream(ctx context.Context, req Request) (<-chan StreamChunk, error) {
	if err := c.tracker.CheckLimit(); err != nil {
		return nil, fmt.Errorf("refusing stream: %w", err)
	}

	inner, err := c.inner.Stream(ctx, req)
	if err != nil {
		return nil, err
	}

	// Forward chunks, recording usage from the final one.
	out := make(chan StreamChunk)
	go func() {
		defer close(out)
		for chunk := range inner {
			if chunk.Usage != nil {
				c.record(req.Model, *chunk.Usage)
			}
			out <- chunk
		}
	}()
	return out, nil
}

func (c *costTrackingClient) Provider() string { return c.inner.Provider() }
func (c *costTrackingClient) Close() error     { return c.inner.Close() }
