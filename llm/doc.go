// Package llm defines the interface between applications and hosted LLM
// backends, without bundling any vendor client.
//
// The backend is an injected collaborator: anything implementing Client can
// be plugged in, including the MockClient shipped here for tests. Concrete
// vendor clients register themselves through the factory registry:
//
//	client, err := llm.New("openai", llm.Config{Model: "gpt-4-turbo"})
//
// Cross-cutting policies (retry, rate limiting, cost tracking) compose as
// middleware around any Client:
//
//	client = llm.Chain(client,
//	    llm.WithRetry(retry.Policy{MaxRetries: 3}),
//	    llm.WithRateLimit(limiter),
//	    llm.WithCostTracking(tracker),
//	)
package llm
