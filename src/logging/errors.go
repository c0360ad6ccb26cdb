package logging

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel kinds for failures crossing package boundaries. Handlers map
// these onto HTTP statuses; everything else is a 500.
var (
	// ErrTransport marks a network or HTTP-status failure calling an upstream.
	ErrTransport = errors.New("transport error")
	// ErrMalformedResponse marks an upstream payload that could not be
	// parsed or violated its expected schema.
	ErrMalformedResponse = errors.New("malformed response")
	// ErrValidation marks caller input missing required fields.
	ErrValidation = errors.New("validation error")
	// ErrState marks a missing or expired OAuth state record.
	ErrState = errors.New("state error")
	// ErrNotFound marks an upstream resource (user, tweet) that does not exist.
	ErrNotFound = errors.New("not found")
	// ErrRetryExhausted wraps the last underlying error after all attempts fail.
	ErrRetryExhausted = errors.New("retry exhausted")
)

// Transport wraps err as a transport failure.
func Transport(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrTransport, fmt.Sprintf(format, args...))
}

// Malformed wraps err as a malformed-response failure.
func Malformed(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrMalformedResponse, fmt.Sprintf(format, args...))
}

// Validation builds a caller-input error.
func Validation(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// State builds an OAuth-state error.
func State(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrState, fmt.Sprintf(format, args...))
}

// RetryExhausted wraps the final error after attempts attempts.
func RetryExhausted(attempts int, err error) error {
	return fmt.Errorf("%w after %d attempts: %w", ErrRetryExhausted, attempts, err)
}

func IsRateLimit(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "rate_limit") || strings.Contains(msg, "429")
}
