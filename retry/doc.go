// Package retry provides exponential backoff for transient failures.
//
// A Policy describes how many times to retry, how delays grow, and which
// errors are worth retrying:
//
//	policy := retry.Policy{
//	    MaxRetries:   3,
//	    InitialDelay: time.Second,
//	    Retryable:    llm.IsRetryable,
//	}
//	err := retry.Do(ctx, policy, func(ctx context.Context) error {
//	    return callAPI(ctx)
//	})
//
// Delays follow InitialDelay * Multiplier^attempt capped at MaxDelay, with
// optional uniform jitter. A nil Retryable retries every error. Context
// cancellation aborts the wait between attempts; an attempt already in
// flight runs to completion.
package retry
