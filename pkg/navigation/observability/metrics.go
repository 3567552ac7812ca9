package observability

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Transition outcome labels used by RecordTransition.
const (
	OutcomeSuccess    = "success"
	OutcomeError      = "error"
	OutcomeAborted    = "aborted"
	OutcomeRolledBack = "rolled_back"
)

// MetricsRecorder records navigation metrics.
// Use NewMetricsRecorder() for OTel metrics or NoopMetrics{} when disabled.
type MetricsRecorder interface {
	// RecordTransition records a settled transition with its kind, outcome and duration.
	RecordTransition(ctx context.Context, kind, outcome string, duration time.Duration)

	// RecordRollback records an automatic rollback triggered by a failed transition.
	RecordRollback(ctx context.Context, kind string)

	// RecordDisposed records entries removed by a disposal pass.
	RecordDisposed(ctx context.Context, count int)

	// RecordListenerError records a listener failure for an event type.
	RecordListenerError(ctx context.Context, eventType string)
}

// otelMetrics implements MetricsRecorder using OpenTelemetry.
type otelMetrics struct {
	transitions       metric.Int64Counter
	transitionLatency metric.Float64Histogram
	rollbacks         metric.Int64Counter
	disposed          metric.Int64Counter
	listenerErrors    metric.Int64Counter
}

var (
	defaultMetrics     *otelMetrics
	defaultMetricsOnce sync.Once
	defaultMetricsErr  error
)

// getDefaultMetrics returns the default OTel metrics instance.
// Lazily initializes the metrics on first call.
func getDefaultMetrics() (*otelMetrics, error) {
	defaultMetricsOnce.Do(func() {
		defaultMetrics, defaultMetricsErr = newOtelMetrics()
	})
	return defaultMetrics, defaultMetricsErr
}

// newOtelMetrics creates a new OTel metrics instance.
func newOtelMetrics() (*otelMetrics, error) {
	meter := otel.Meter("navigation")

	transitions, err := meter.Int64Counter("navigation.transitions",
		metric.WithDescription("Number of settled navigation transitions"),
	)
	if err != nil {
		return nil, err
	}

	transitionLatency, err := meter.Float64Histogram("navigation.transition.latency_ms",
		metric.WithDescription("Transition latency from start to settle in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	rollbacks, err := meter.Int64Counter("navigation.rollbacks",
		metric.WithDescription("Number of automatic rollbacks"),
	)
	if err != nil {
		return nil, err
	}

	disposed, err := meter.Int64Counter("navigation.entries.disposed",
		metric.WithDescription("Number of disposed history entries"),
	)
	if err != nil {
		return nil, err
	}

	listenerErrors, err := meter.Int64Counter("navigation.listener.errors",
		metric.WithDescription("Number of listener failures"),
	)
	if err != nil {
		return nil, err
	}

	return &otelMetrics{
		transitions:       transitions,
		transitionLatency: transitionLatency,
		rollbacks:         rollbacks,
		disposed:          disposed,
		listenerErrors:    listenerErrors,
	}, nil
}

// NewMetricsRecorder returns a MetricsRecorder that uses OpenTelemetry.
// If metrics initialization fails, returns a no-op recorder.
//
// The recorder uses the global OTel meter provider. Configure the provider
// before calling this function:
//
//	import "go.opentelemetry.io/otel"
//	otel.SetMeterProvider(yourProvider)
func NewMetricsRecorder() MetricsRecorder {
	m, err := getDefaultMetrics()
	if err != nil {
		slog.Warn("metrics initialization failed, using no-op recorder",
			slog.String("error", err.Error()))
		return NoopMetrics{}
	}
	return m
}

// RecordTransition records a settled transition.
func (m *otelMetrics) RecordTransition(ctx context.Context, kind, outcome string, duration time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("kind", kind),
		attribute.String("outcome", outcome),
	)
	m.transitions.Add(ctx, 1, attrs)
	m.transitionLatency.Record(ctx, float64(duration.Milliseconds()), attrs)
}

// RecordRollback records an automatic rollback.
func (m *otelMetrics) RecordRollback(ctx context.Context, kind string) {
	m.rollbacks.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", kind)))
}

// RecordDisposed records disposed entries.
func (m *otelMetrics) RecordDisposed(ctx context.Context, count int) {
	if count <= 0 {
		return
	}
	m.disposed.Add(ctx, int64(count))
}

// RecordListenerError records a listener failure.
func (m *otelMetrics) RecordListenerError(ctx context.Context, eventType string) {
	m.listenerErrors.Add(ctx, 1, metric.WithAttributes(attribute.String("event_type", eventType)))
}
