// Package errors provides the navigation error taxonomy.
//
// Every failure surfaced by the engine falls into one of three categories:
//   - Invalid state: an operation was attempted in a state that forbids it
//   - Abort: a transition was cancelled by a newer one or explicitly
//   - Listener: an event listener or intercepting handler failed
//
// Only listener failures trigger automatic rollback of a committed transition.
package errors

import (
	"context"
	"errors"
	"fmt"
)

// Category represents how a navigation error should be handled.
type Category int

const (
	// CategoryListener indicates a listener or intercepting handler failed.
	// Rollback applies when the transition already committed.
	CategoryListener Category = iota

	// CategoryInvalidState indicates an operation was attempted in a state
	// that forbids it. Never rolls back.
	CategoryInvalidState

	// CategoryAbort indicates the transition was cancelled.
	// Surfaced only on the aborted transition's own outcomes.
	CategoryAbort
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryListener:
		return "listener"
	case CategoryInvalidState:
		return "invalid_state"
	case CategoryAbort:
		return "abort"
	default:
		return "unknown"
	}
}

// CategorizedError wraps an error with its category and the operation that
// produced it.
type CategorizedError struct {
	// Err is the underlying error.
	Err error

	// Category indicates how this error should be handled.
	Category Category

	// Op describes what was being attempted (e.g. "back", "rollback").
	Op string
}

// Error implements the error interface.
func (e *CategorizedError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("%s: %v (category: %s)", e.Op, e.Err, e.Category)
	}
	return fmt.Sprintf("%v (category: %s)", e.Err, e.Category)
}

// Unwrap returns the underlying error.
func (e *CategorizedError) Unwrap() error {
	return e.Err
}

// NewCategorized creates a new categorized error.
func NewCategorized(err error, category Category, op string) *CategorizedError {
	return &CategorizedError{
		Err:      err,
		Category: category,
		Op:       op,
	}
}

// Listener wraps a listener or handler failure.
func Listener(err error, op string) *CategorizedError {
	return NewCategorized(err, CategoryListener, op)
}

// Categorize determines how an error should be handled.
func Categorize(err error) Category {
	if err == nil {
		return CategoryListener
	}

	var catErr *CategorizedError
	if errors.As(err, &catErr) {
		return catErr.Category
	}

	var stateErr *InvalidStateError
	if errors.As(err, &stateErr) {
		return CategoryInvalidState
	}

	var abortErr *AbortError
	if errors.As(err, &abortErr) {
		return CategoryAbort
	}

	// context cancellation observed by a handler is an abort
	if errors.Is(err, context.Canceled) {
		return CategoryAbort
	}

	return CategoryListener
}

// IsAbort reports whether err is an abort.
func IsAbort(err error) bool {
	return err != nil && Categorize(err) == CategoryAbort
}

// IsInvalidState reports whether err is an invalid-state condition.
func IsInvalidState(err error) bool {
	return err != nil && Categorize(err) == CategoryInvalidState
}

// ShouldRollback reports whether err qualifies for automatic rollback.
// Invalid-state and abort errors never roll back.
func ShouldRollback(err error) bool {
	return err != nil && Categorize(err) == CategoryListener
}
