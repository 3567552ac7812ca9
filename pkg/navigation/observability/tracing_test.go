package observability

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// setupTracingTest installs an in-memory span exporter as the global provider.
func setupTracingTest(t *testing.T) *tracetest.InMemoryExporter {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))

	original := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	tracer = otel.Tracer("navigation")

	t.Cleanup(func() {
		otel.SetTracerProvider(original)
		tracer = otel.Tracer("navigation")
		if err := tp.Shutdown(context.Background()); err != nil {
			t.Logf("Error shutting down tracer provider: %v", err)
		}
	})
	return exporter
}

func TestStartTransitionSpan(t *testing.T) {
	exporter := setupTracingTest(t)

	_, span := NewSpanManager().StartTransitionSpan(context.Background(), "tr-1", "push", "https://example.com/a")
	require.NotNil(t, span)
	span.End()

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "navigation.transition.push", spans[0].Name)

	attrs := map[string]string{}
	for _, attr := range spans[0].Attributes {
		attrs[string(attr.Key)] = attr.Value.AsString()
	}
	assert.Equal(t, "tr-1", attrs["transition.id"])
	assert.Equal(t, "push", attrs["navigation.kind"])
	assert.Equal(t, "https://example.com/a", attrs["navigation.url"])
}

func TestEndSpanWithError(t *testing.T) {
	exporter := setupTracingTest(t)
	sm := NewSpanManager()

	t.Run("error status", func(t *testing.T) {
		exporter.Reset()
		_, span := sm.StartTransitionSpan(context.Background(), "tr-1", "push", "")
		sm.EndSpanWithError(span, errors.New("handler failed"))

		spans := exporter.GetSpans()
		require.Len(t, spans, 1)
		assert.Equal(t, codes.Error, spans[0].Status.Code)
		assert.Equal(t, "handler failed", spans[0].Status.Description)
		assert.NotEmpty(t, spans[0].Events, "error should be recorded as an event")
	})

	t.Run("ok status", func(t *testing.T) {
		exporter.Reset()
		_, span := sm.StartTransitionSpan(context.Background(), "tr-2", "reload", "")
		sm.EndSpanWithError(span, nil)

		spans := exporter.GetSpans()
		require.Len(t, spans, 1)
		assert.Equal(t, codes.Ok, spans[0].Status.Code)
	})

	t.Run("nil span", func(t *testing.T) {
		assert.NotPanics(t, func() { EndSpanWithError(nil, nil) })
	})
}

func TestAddSpanEvent(t *testing.T) {
	exporter := setupTracingTest(t)
	sm := NewSpanManager()

	ctx, span := sm.StartTransitionSpan(context.Background(), "tr-1", "push", "")
	sm.AddSpanEvent(ctx, "committed", attribute.Int("index", 2))
	span.End()

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	require.Len(t, spans[0].Events, 1)
	assert.Equal(t, "committed", spans[0].Events[0].Name)

	// No span in context is a no-op
	assert.NotPanics(t, func() { AddSpanEvent(context.Background(), "ignored") })
}
