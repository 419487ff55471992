package domain

import (
	"errors"
	"fmt"
	"time"
)

// Domain errors represent failures surfaced to tool callers.
// Every error crossing the tool boundary maps to exactly one Code.
var (
	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrTimeout indicates an operation exceeded its hard ceiling.
	ErrTimeout = errors.New("operation timed out")

	// ErrDriver indicates the browser automation failed
	// (browser crashed, navigation failed, selector not found).
	ErrDriver = errors.New("browser driver failure")

	// ErrNoContent indicates the fetch succeeded but carried no usable content.
	ErrNoContent = errors.New("no content")

	// ErrNotIndexed indicates the wiki site has no page for the repository yet.
	// It is a specialisation of ErrNoContent.
	ErrNotIndexed = fmt.Errorf("%w: repository not indexed", ErrNoContent)

	// ErrInputNotFound indicates the chat UI structure was not recognised.
	ErrInputNotFound = errors.New("chat input not found")

	// ErrRateLimited indicates the per-repository call quota was exceeded.
	ErrRateLimited = errors.New("rate limited")

	// ErrRetryExhausted indicates every attempt of a retried operation failed.
	ErrRetryExhausted = errors.New("retry attempts exhausted")

	// ErrNoMatch indicates a keyword search returned no candidate repositories.
	ErrNoMatch = errors.New("no matching repository")

	// ErrClosed indicates the browser runtime has been shut down.
	ErrClosed = errors.New("browser runtime closed")
)

// Code is the error taxonomy surfaced to every tool caller.
type Code string

// Error codes.
const (
	CodeValidation     Code = "VALIDATION"
	CodeTimeout        Code = "TIMEOUT"
	CodeDriver         Code = "DRIVER_ERROR"
	CodeNoContent      Code = "NO_CONTENT"
	CodeNotIndexed     Code = "NOT_INDEXED"
	CodeInputNotFound  Code = "INPUT_NOT_FOUND"
	CodeRateLimited    Code = "RATE_LIMITED"
	CodeRetryExhausted Code = "RETRY_EXHAUSTED"
	CodeInternal       Code = "INTERNAL"
)

// CodeOf maps err to its taxonomy code.
// Retry exhaustion wins over the wrapped cause; unknown errors are INTERNAL.
func CodeOf(err error) Code {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrRetryExhausted):
		return CodeRetryExhausted
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrNoMatch):
		return CodeValidation
	case errors.Is(err, ErrRateLimited):
		return CodeRateLimited
	case errors.Is(err, ErrTimeout):
		return CodeTimeout
	case errors.Is(err, ErrInputNotFound):
		return CodeInputNotFound
	case errors.Is(err, ErrNoContent):
		return CodeNoContent
	case errors.Is(err, ErrDriver), errors.Is(err, ErrClosed):
		return CodeDriver
	default:
		return CodeInternal
	}
}

// RateLimitError carries the quota that was exceeded.
type RateLimitError struct {
	Key    string
	Limit  int
	Window time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limit exceeded for %s: max %d calls per %s window, please wait before retrying",
		e.Key, e.Limit, e.Window)
}

// Unwrap lets errors.Is match ErrRateLimited.
func (e *RateLimitError) Unwrap() error {
	return ErrRateLimited
}

// RetryError wraps the last attempt's error once all attempts are spent.
type RetryError struct {
	Attempts int
	Last     error
}

func (e *RetryError) Error() string {
	return fmt.Sprintf("all %d attempts failed: %v", e.Attempts, e.Last)
}

// Unwrap exposes both the exhaustion marker and the last cause.
func (e *RetryError) Unwrap() []error {
	return []error{ErrRetryExhausted, e.Last}
}

// IsRetryable reports whether err is a transient condition worth retrying.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrTimeout) || errors.Is(err, ErrDriver) ||
		errors.Is(err, ErrInputNotFound) || errors.Is(err, ErrNoContent)
}
