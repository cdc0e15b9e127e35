package ctxkit

import (
	"errors"
	"fmt"
)

// Common errors
var (
	// ErrInvalidMessageFormat is returned when a normalized sequence
	// violates a structural invariant. Fatal to the current turn: a
	// malformed sequence must never be sent to a model.
	ErrInvalidMessageFormat = errors.New("invalid message format")
)

// FormatError describes the first structural violation found while
// validating a normalized message sequence.
type FormatError struct {
	// Index is the position of the offending message.
	Index int

	// Reason describes the violated invariant.
	Reason string

	// Err is the underlying sentinel for errors.Is support.
	Err error
}

// Error implements the error interface.
func (e *FormatError) Error() string {
	return fmt.Sprintf("invalid message format at index %d: %s", e.Index, e.Reason)
}

// Unwrap returns the underlying error.
func (e *FormatError) Unwrap() error {
	return e.Err
}

// NewFormatError creates a FormatError wrapping ErrInvalidMessageFormat.
func NewFormatError(index int, reason string) *FormatError {
	return &FormatError{Index: index, Reason: reason, Err: ErrInvalidMessageFormat}
}
