// Package apperror defines the request-level failure taxonomy shared by
// handlers and the isolation middleware.
//
// Handlers signal failure by returning an error. Downstream failures
// (transport, request construction) arrive wrapped by the aggregator and are
// treated the same as ErrApplication: callers only ever see a generic 500.
package apperror

import (
	"errors"
	"fmt"
)

// ErrApplication is the generic, detail-free application error.
var ErrApplication = errors.New("unspecified application error")

// UnknownPanicDescription is used when a panic payload carries no text.
const UnknownPanicDescription = "unknown panic payload"

// PanicError is an abnormal termination caught inside a handler.
type PanicError struct {
	// Description is a human-readable rendering of the panic payload.
	Description string

	// Value is the raw value passed to panic.
	Value any

	// Stack is the goroutine stack at the point of recovery.
	Stack []byte
}

// Error implements the error interface.
func (e *PanicError) Error() string {
	return fmt.Sprintf("handler panicked: %s", e.Description)
}

// Unwrap returns the panic value when it is itself an error.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// NewPanicError builds a PanicError from a recovered value.
func NewPanicError(value any, stack []byte) *PanicError {
	return &PanicError{
		Description: Describe(value),
		Value:       value,
		Stack:       stack,
	}
}

// Describe extracts text from a panic payload. Strings, errors and Stringers
// are rendered directly; anything else gets UnknownPanicDescription.
func Describe(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case error:
		return v.Error()
	case fmt.Stringer:
		return v.String()
	default:
		return UnknownPanicDescription
	}
}

// AsPanic returns the PanicError in err's chain, if any.
func AsPanic(err error) (*PanicError, bool) {
	var pe *PanicError
	ok := errors.As(err, &pe)
	return pe, ok
}
