/*
Package navigation provides a navigation transition engine: an ordered list
of history entries with a current position, and transitions that move
through it.

# Overview

A Navigation owns the entry list. Every operation (Navigate, Reload, Back,
Forward, TraverseTo, UpdateCurrentEntry) starts a Transition and returns a
*Result immediately. The result carries two outcomes:

  - Committed settles when the entry list has been updated.
  - Finished settles when every intercepting handler has completed.

Only one transition is active at a time. Starting another aborts the one in
flight; its outcomes reject with an abort error wrapping ErrSuperseded.

# Basic Usage

	nav := navigation.New(navigation.WithBaseURL("https://app.test/"))

	res := nav.Navigate(ctx, "/inbox", navigation.NavigateOptions{
	    State: map[string]any{"scroll": 0},
	})
	entry, err := res.Finished.Wait(ctx)
	if err != nil {
	    log.Fatal(err)
	}
	fmt.Println(entry.URL(), nav.CurrentIndex())

# Intercepting Navigations

Listeners of EventNavigate may take over a same-document navigation with
asynchronous work:

	nav.AddListener(navigation.EventNavigate, event.On(func(ctx context.Context, e *navigation.NavigateEvent) error {
	    if !e.CanIntercept {
	        return nil
	    }
	    _, err := e.Intercept(func(ctx context.Context) error {
	        return loadPage(ctx, e.Destination.URL)
	    })
	    return err
	}))

Handlers receive a context cancelled when the transition aborts. By default
the entry list is updated before handlers run (CommitImmediate); use
InterceptWith with CommitAfterTransition or CommitManual to defer the update.
PreventDefault cancels a navigation during the navigate dispatch.

# Failure and Rollback

If a committed push, replace, reload or traverse fails, the engine
dispatches one EventNavigateError and restores the entry list from the
snapshot taken when the transition started. Aborts do not roll back, and a
transition that never committed has nothing to restore.

# Entries

Entries have a unique ID and a Key naming their history slot. Reload,
traversal and replace produce a fresh ID under the same key. Entries whose
key leaves the list are disposed exactly once, with EventDispose fired on
the entry and on the Navigation.

# Events

Events are dispatched through package event. On a Navigation:

  - EventNavigate, before anything changes
  - EventEntriesChange, EventCurrentEntryChange at commit
  - EventNavigateSuccess or EventNavigateError when the transition settles
  - EventDispose, for every disposed entry

On an Entry: EventNavigateFrom, EventNavigateTo, EventFinish, EventDispose.

# Observability

WithLogger, WithMetrics and WithTracing attach slog logging and OpenTelemetry
metrics and spans. OptionsFromSettings builds them from config.Settings.
*/
package navigation
