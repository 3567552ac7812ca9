package errors

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategory_String(t *testing.T) {
	tests := []struct {
		cat  Category
		want string
	}{
		{CategoryListener, "listener"},
		{CategoryInvalidState, "invalid_state"},
		{CategoryAbort, "abort"},
		{Category(99), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cat.String())
		})
	}
}

func TestCategorize(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Category
	}{
		{"plain error", errors.New("boom"), CategoryListener},
		{"invalid state", InvalidState("back", "no previous entry"), CategoryInvalidState},
		{"wrapped invalid state", fmt.Errorf("op: %w", InvalidState("", "x")), CategoryInvalidState},
		{"abort", Abort(nil), CategoryAbort},
		{"context canceled", context.Canceled, CategoryAbort},
		{"categorized", NewCategorized(errors.New("x"), CategoryAbort, "op"), CategoryAbort},
		{"listener wrapper", Listener(Abort(nil), "navigate"), CategoryListener},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Categorize(tt.err))
		})
	}
}

func TestShouldRollback(t *testing.T) {
	assert.True(t, ShouldRollback(errors.New("handler failed")))
	assert.False(t, ShouldRollback(nil))
	assert.False(t, ShouldRollback(InvalidState("rollback", "already rolled back")))
	assert.False(t, ShouldRollback(Abort(errors.New("superseded"))))
}

func TestAbortError(t *testing.T) {
	reason := errors.New("superseded")
	err := Abort(reason)

	assert.ErrorIs(t, err, ErrAborted)
	assert.ErrorIs(t, err, reason)
	assert.Contains(t, err.Error(), "superseded")

	// Abort of an abort returns the same value
	assert.Same(t, err, Abort(fmt.Errorf("wrapped: %w", err)))

	bare := Abort(nil)
	assert.Equal(t, ErrAborted.Error(), bare.Error())
	assert.ErrorIs(t, bare, ErrAborted)
}

func TestJoin(t *testing.T) {
	a := errors.New("a")
	b := errors.New("b")

	assert.NoError(t, Join())
	assert.NoError(t, Join(nil, nil))
	assert.Same(t, a, Join(nil, a))

	joined := Join(a, b)
	var agg *AggregateError
	require.ErrorAs(t, joined, &agg)
	assert.Len(t, agg.Errors, 2)
	assert.ErrorIs(t, joined, a)
	assert.ErrorIs(t, joined, b)
	assert.Equal(t, "2 errors: [a; b]", joined.Error())
}

func TestPanicError(t *testing.T) {
	err := &PanicError{Source: "navigate listener", Value: "oops"}
	assert.Equal(t, "navigate listener panicked: oops", err.Error())
}
