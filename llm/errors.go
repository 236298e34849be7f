package llm

import (
	"errors"
	"fmt"
)

// Sentinel errors for backend operations.
var (
	// ErrUnknownProvider indicates the requested backend is not registered.
	ErrUnknownProvider = errors.New("unknown provider")

	// ErrUnavailable indicates the backend is temporarily unavailable.
	ErrUnavailable = errors.New("backend unavailable")

	// ErrRateLimited indicates the backend rejected the call for rate limits.
	ErrRateLimited = errors.New("rate limited")

	// ErrTimeout indicates the request timed out.
	ErrTimeout = errors.New("request timed out")

	// ErrAuth indicates missing or rejected credentials.
	ErrAuth = errors.New("authentication failed")

	// ErrInvalidRequest indicates the request is malformed.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrContextTooLong indicates the input exceeds the context window.
	ErrContextTooLong = errors.New("context exceeds maximum length")
)

// Error wraps backend errors with context.
type Error struct {
	Provider  string // backend name
	Op        string // operation that failed ("complete", "stream")
	Err       error  // underlying error
	Retryable bool   // whether the failure is likely transient
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Provider != "" {
		return fmt.Sprintf("%s %s: %v", e.Provider, e.Op, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates a wrapped backend error.
func NewError(provider, op string, err error, retryable bool) *Error {
	return &Error{Provider: provider, Op: op, Err: err, Retryable: retryable}
}

// IsRetryable reports whether an error is likely transient and worth
// retrying. Rate limits, unavailability, and timeouts are transient;
// everything else (auth, invalid requests, unknown models) is terminal.
func IsRetryable(err error) bool {
	var wrapped *Error
	if errors.As(err, &wrapped) {
		return wrapped.Retryable
	}

	return errors.Is(err, ErrRateLimited) ||
		errors.Is(err, ErrUnavailable) ||
		errors.Is(err, ErrTimeout)
}

// IsAuthError reports whether an error is authentication-related.
func IsAuthError(err error) bool {
	return errors.Is(err, ErrAuth)
}
