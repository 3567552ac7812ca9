package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// tracer is the navigation tracer instance.
// Uses the global OTel tracer provider.
var tracer = otel.Tracer("navigation")

// SpanManager handles trace span lifecycle.
// Use NewSpanManager() for OTel tracing or NoopSpanManager{} when disabled.
type SpanManager interface {
	// StartTransitionSpan starts a span covering one transition from start
	// to settle. Returns the context with span and the span itself.
	StartTransitionSpan(ctx context.Context, transitionID, kind, url string) (context.Context, trace.Span)

	// EndSpanWithError completes a span, optionally recording an error.
	EndSpanWithError(span trace.Span, err error)

	// AddSpanEvent adds an event to the current span in context.
	AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue)
}

// otelSpanManager implements SpanManager using OpenTelemetry.
type otelSpanManager struct{}

// NewSpanManager returns a SpanManager that uses OpenTelemetry.
//
// The span manager uses the global OTel tracer provider. Configure the provider
// before calling this function:
//
//	import "go.opentelemetry.io/otel"
//	otel.SetTracerProvider(yourProvider)
func NewSpanManager() SpanManager {
	return &otelSpanManager{}
}

// StartTransitionSpan starts a span for a transition.
func (m *otelSpanManager) StartTransitionSpan(ctx context.Context, transitionID, kind, url string) (context.Context, trace.Span) {
	return StartTransitionSpan(ctx, transitionID, kind, url)
}

// EndSpanWithError completes a span, optionally recording an error.
func (m *otelSpanManager) EndSpanWithError(span trace.Span, err error) {
	EndSpanWithError(span, err)
}

// AddSpanEvent adds an event to the current span.
func (m *otelSpanManager) AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue) {
	AddSpanEvent(ctx, name, attrs...)
}

// Convenience functions that operate on the global tracer.
// These are useful for simple cases where you don't need the interface.

// StartTransitionSpan starts a span for a transition.
// Uses the global OTel tracer.
func StartTransitionSpan(ctx context.Context, transitionID, kind, url string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "navigation.transition."+kind,
		trace.WithAttributes(
			attribute.String("transition.id", transitionID),
			attribute.String("navigation.kind", kind),
			attribute.String("navigation.url", url),
		),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// EndSpanWithError completes a span, optionally recording an error.
func EndSpanWithError(span trace.Span, err error) {
	if span == nil {
		return
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// AddSpanEvent adds an event to the current span in context.
func AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue) {
	span := trace.SpanFromContext(ctx)
	if span == nil || !span.IsRecording() {
		return
	}
	span.AddEvent(name, trace.WithAttributes(attrs...))
}
