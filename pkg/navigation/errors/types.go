package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrAborted is the default abort reason when none is supplied.
var ErrAborted = errors.New("navigation aborted")

// InvalidStateError indicates an operation was attempted in a state that
// forbids it.
type InvalidStateError struct {
	Op      string
	Message string
}

// Error implements the error interface.
func (e *InvalidStateError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("invalid state: %s: %s", e.Op, e.Message)
	}
	return fmt.Sprintf("invalid state: %s", e.Message)
}

// InvalidState creates an invalid-state error.
func InvalidState(op, message string) *InvalidStateError {
	return &InvalidStateError{Op: op, Message: message}
}

// AbortError indicates the navigation was cancelled.
type AbortError struct {
	// Reason is the abort cause (e.g. superseded by a newer transition).
	Reason error
}

// Error implements the error interface.
func (e *AbortError) Error() string {
	if e.Reason == nil || e.Reason == ErrAborted {
		return ErrAborted.Error()
	}
	return fmt.Sprintf("%s: %v", ErrAborted, e.Reason)
}

// Unwrap returns the abort reason.
func (e *AbortError) Unwrap() error {
	if e.Reason == nil {
		return ErrAborted
	}
	return e.Reason
}

// Is matches ErrAborted so callers can test with errors.Is.
func (e *AbortError) Is(target error) bool {
	return target == ErrAborted
}

// Abort creates an abort error for the given reason.
// An existing AbortError is returned unchanged.
func Abort(reason error) *AbortError {
	var existing *AbortError
	if errors.As(reason, &existing) {
		return existing
	}
	return &AbortError{Reason: reason}
}

// AggregateError collects more than one failure from a single dispatch or
// wait. A single failure is never wrapped.
type AggregateError struct {
	Errors []error
}

// Error implements the error interface.
func (e *AggregateError) Error() string {
	msgs := make([]string, len(e.Errors))
	for i, err := range e.Errors {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("%d errors: [%s]", len(e.Errors), strings.Join(msgs, "; "))
}

// Unwrap returns the collected errors for errors.Is/As support.
func (e *AggregateError) Unwrap() []error {
	return e.Errors
}

// Join returns nil for no errors, the error itself for one, and an
// AggregateError otherwise. Nil entries are skipped.
func Join(errs ...error) error {
	var kept []error
	for _, err := range errs {
		if err != nil {
			kept = append(kept, err)
		}
	}
	switch len(kept) {
	case 0:
		return nil
	case 1:
		return kept[0]
	default:
		return &AggregateError{Errors: kept}
	}
}

// PanicError captures a panic raised by a listener or handler.
type PanicError struct {
	// Source names the listener type or handler that panicked.
	Source string
	// Value is the value passed to panic().
	Value any
	// Stack is the stack trace at the point of panic.
	Stack string
}

// Error implements the error interface.
func (e *PanicError) Error() string {
	return fmt.Sprintf("%s panicked: %v", e.Source, e.Value)
}
