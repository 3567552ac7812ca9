package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// NoopMetrics is a MetricsRecorder that does nothing.
// Use when metrics are disabled to avoid overhead.
type NoopMetrics struct{}

// Compile-time interface check.
var _ MetricsRecorder = NoopMetrics{}

// RecordTransition does nothing.
func (NoopMetrics) RecordTransition(_ context.Context, _, _ string, _ time.Duration) {}

// RecordRollback does nothing.
func (NoopMetrics) RecordRollback(_ context.Context, _ string) {}

// RecordDisposed does nothing.
func (NoopMetrics) RecordDisposed(_ context.Context, _ int) {}

// RecordListenerError does nothing.
func (NoopMetrics) RecordListenerError(_ context.Context, _ string) {}

// NoopSpanManager is a SpanManager that does nothing.
// Use when tracing is disabled to avoid overhead.
type NoopSpanManager struct{}

// Compile-time interface check.
var _ SpanManager = NoopSpanManager{}

var noopSpan = noop.Span{}

// StartTransitionSpan returns the context unchanged and a no-op span.
func (NoopSpanManager) StartTransitionSpan(ctx context.Context, _, _, _ string) (context.Context, trace.Span) {
	return ctx, noopSpan
}

// EndSpanWithError does nothing.
func (NoopSpanManager) EndSpanWithError(_ trace.Span, _ error) {}

// AddSpanEvent does nothing.
func (NoopSpanManager) AddSpanEvent(_ context.Context, _ string, _ ...attribute.KeyValue) {}
