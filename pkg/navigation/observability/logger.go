// Package observability provides structured logging, metrics, and tracing
// for the navigation engine.
//
// Features:
//   - Structured logging via slog (Go stdlib)
//   - Metrics via OpenTelemetry
//   - Tracing via OpenTelemetry
//
// All features are opt-in and have no-op implementations when disabled.
package observability

import (
	"context"
	"log/slog"
	"time"
)

// EnrichLogger adds transition context to a logger.
// Returns a new logger with transition_id and kind fields.
//
// Example:
//
//	enriched := EnrichLogger(logger, "tr-123", "push")
//	enriched.Info("doing work") // includes transition_id, kind
func EnrichLogger(logger *slog.Logger, transitionID, kind string) *slog.Logger {
	if logger == nil {
		return nil
	}
	return logger.With(
		slog.String("transition_id", transitionID),
		slog.String("kind", kind),
	)
}

// LogTransitionStart logs the start of a navigation transition.
func LogTransitionStart(logger *slog.Logger, transitionID, kind, url string) {
	if logger == nil {
		return
	}
	logger.Debug("transition starting",
		slog.String("transition_id", transitionID),
		slog.String("kind", kind),
		slog.String("url", url),
	)
}

// LogTransitionComplete logs a successful transition.
func LogTransitionComplete(logger *slog.Logger, transitionID, kind string, durationMs float64) {
	if logger == nil {
		return
	}
	logger.Info("transition finished",
		slog.String("transition_id", transitionID),
		slog.String("kind", kind),
		slog.Float64("duration_ms", durationMs),
	)
}

// LogTransitionError logs a failed or aborted transition.
// Aborts are logged at debug level since they are expected on supersession.
func LogTransitionError(logger *slog.Logger, transitionID, kind string, err error, aborted bool, durationMs float64) {
	if logger == nil {
		return
	}
	level := slog.LevelError
	msg := "transition failed"
	if aborted {
		level = slog.LevelDebug
		msg = "transition aborted"
	}
	logger.Log(context.Background(), level, msg,
		slog.String("transition_id", transitionID),
		slog.String("kind", kind),
		slog.String("error", err.Error()),
		slog.Float64("duration_ms", durationMs),
	)
}

// LogRollback logs an automatic rollback.
func LogRollback(logger *slog.Logger, transitionID string, cause error) {
	if logger == nil {
		return
	}
	logger.Warn("rolling back transition",
		slog.String("transition_id", transitionID),
		slog.String("error", cause.Error()),
	)
}

// LogEntryDisposed logs an entry leaving the history.
func LogEntryDisposed(logger *slog.Logger, entryKey, entryID string) {
	if logger == nil {
		return
	}
	logger.Debug("entry disposed",
		slog.String("entry_key", entryKey),
		slog.String("entry_id", entryID),
	)
}

// LogListenerError logs a failing event listener.
func LogListenerError(logger *slog.Logger, eventType string, err error) {
	if logger == nil {
		return
	}
	logger.Warn("listener failed",
		slog.String("event_type", eventType),
		slog.String("error", err.Error()),
	)
}

// LogStateWarning logs a non-fatal problem with entry state.
func LogStateWarning(logger *slog.Logger, entryKey, reason string) {
	if logger == nil {
		return
	}
	logger.Warn("entry state warning",
		slog.String("entry_key", entryKey),
		slog.String("reason", reason),
	)
}

// TimedOperation measures the duration of an operation.
// Returns a function that, when called, returns the elapsed time in milliseconds.
//
// Example:
//
//	done := TimedOperation()
//	// ... do work ...
//	durationMs := done()
func TimedOperation() func() float64 {
	start := time.Now()
	return func() float64 {
		return float64(time.Since(start).Milliseconds())
	}
}
