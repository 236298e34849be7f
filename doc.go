// Package aikit provides utilities for building applications on hosted
// LLM APIs.
//
// Each subpackage can be used independently:
//
//   - llm: Backend-agnostic client interface, registry, and policy middleware
//   - chat: Conversation history with token-aware trimming and persistence
//   - tokens: Heuristic token counting and context-window limits
//   - pricing: Per-model price tables with file loading and hot reload
//   - cost: Session cost tracking with thresholds and report export
//   - ratelimit: Sliding-window rate limiting
//   - retry: Exponential backoff with jitter
//
// # Quick Start
//
// Wrap any backend with retry, rate limiting, and cost tracking:
//
//	tracker := cost.NewTracker(pricing.DefaultTable())
//	client := llm.Chain(backend,
//	    llm.WithRetry(retry.Policy{MaxRetries: 3}),
//	    llm.WithRateLimit(ratelimit.NewLimiter(60, time.Minute)),
//	    llm.WithCostTracking(tracker),
//	)
//	resp, err := client.Complete(ctx, llm.Request{
//	    Model:    "gpt-4-turbo",
//	    Messages: []llm.Message{llm.NewMessage(llm.RoleUser, "Hello")},
//	})
//
// # Design Philosophy
//
//   - Each package usable independently
//   - No hidden process-wide state: trackers and limiters are explicit values
//   - Interfaces for extensibility, concrete types for simplicity
//   - The LLM backend is an injected collaborator, not a bundled vendor client
package aikit
