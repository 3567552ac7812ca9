package observability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNoopMetrics(t *testing.T) {
	m := NoopMetrics{}
	ctx := context.Background()

	assert.NotPanics(t, func() {
		m.RecordTransition(ctx, "push", OutcomeSuccess, time.Second)
		m.RecordRollback(ctx, "push")
		m.RecordDisposed(ctx, 3)
		m.RecordListenerError(ctx, "navigate")
	})
}

func TestNoopSpanManager(t *testing.T) {
	sm := NoopSpanManager{}
	ctx := context.Background()

	newCtx, span := sm.StartTransitionSpan(ctx, "tr-1", "push", "/a")
	assert.Equal(t, ctx, newCtx)
	assert.False(t, span.IsRecording())

	assert.NotPanics(t, func() {
		sm.AddSpanEvent(ctx, "event")
		sm.EndSpanWithError(span, errors.New("x"))
	})
}
