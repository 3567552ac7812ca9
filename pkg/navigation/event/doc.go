// Package event provides the listener registry and dispatcher that the
// navigation engine and its entries are built on.
//
// # Overview
//
// A Target holds listeners keyed by event type. Dispatch delivers an Event
// to every listener registered for its type plus every wildcard listener,
// in registration order:
//
//	target := event.NewTarget()
//	reg := target.AddListener("navigate", func(ctx context.Context, evt event.Event) error {
//	    return nil
//	})
//	defer reg.Remove()
//
//	err := target.Dispatch(ctx, event.New("navigate"))
//
// Use On to receive a concrete event type without a type switch:
//
//	target.AddListener("dispose", event.On(func(ctx context.Context, e *navigation.DisposeEvent) error {
//	    return nil
//	}))
//
// # Dispatch Modes
//
// Events select how their listeners run:
//
//   - ModeSequential (default): one listener at a time. The first failure
//     stops the dispatch and is returned. If the event's signal aborts, the
//     remaining listeners are skipped without error.
//   - ModeParallel: all listeners run concurrently. Failures are combined
//     into a single error (an *errors.AggregateError when more than one).
//
// Failures caused by the event's own abort are filtered in both modes.
// Dispatching an event whose signal has already aborted returns an abort
// error and invokes nothing.
//
// # Listener Sets
//
// The listener set is captured when a dispatch starts. Adding or removing
// listeners from inside a listener affects later dispatches only. Listeners
// registered with Once are removed before they run.
//
// SetHandler installs a property-style handler: at most one per type, kept in
// the position of the first assignment when replaced.
//
// # Middleware
//
// Middleware wraps every listener invocation:
//
//	target.Use(event.ErrorMiddleware(func(eventType string, err error) {
//	    logger.Warn("listener failed", "type", eventType, "error", err)
//	}))
//
// Listener panics are recovered and returned as *errors.PanicError.
package event
