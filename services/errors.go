package services

import "errors"

// Error taxonomy shared by the delivery, match and notification services.
// Validation errors are returned before any state is mutated.
var (
	// ErrNotFound means the referenced user or record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidOperation covers self-likes and malformed identifiers.
	ErrInvalidOperation = errors.New("invalid operation")

	// ErrInternal wraps persistence failures that are fatal to the call.
	ErrInternal = errors.New("internal error")
)
