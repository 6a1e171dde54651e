package errors

import (
	"errors"
	"fmt"
)

// Common application errors with proper types for error handling

var (
	// ErrInvalidInput indicates invalid input data
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnauthorized indicates a missing session
	ErrUnauthorized = errors.New("unauthorized")

	// ErrUpstreamUnavailable indicates the BookIt API could not be reached
	ErrUpstreamUnavailable = errors.New("upstream unavailable")

	// ErrSessionStore indicates session cookies could not be written
	ErrSessionStore = errors.New("session store unavailable")
)

// InvalidInputError creates an invalid input error with context
func InvalidInputError(field, reason string) error {
	return fmt.Errorf("%s: %s: %w", field, reason, ErrInvalidInput)
}

// UpstreamError wraps a transport failure for the given operation
func UpstreamError(operation string, err error) error {
	return fmt.Errorf("%s: %w: %w", operation, ErrUpstreamUnavailable, err)
}
