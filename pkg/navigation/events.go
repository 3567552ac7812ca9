package navigation

import (
	"context"
	"net/url"
	"sync"

	naverrors "github.com/randalmurphal/navigation/pkg/navigation/errors"
	"github.com/randalmurphal/navigation/pkg/navigation/event"
)

// Event types dispatched on a Navigation.
const (
	EventNavigate           = "navigate"
	EventCurrentEntryChange = "currententrychange"
	EventNavigateSuccess    = "navigatesuccess"
	EventNavigateError      = "navigateerror"
	EventEntriesChange      = "entrieschange"
)

// Event types dispatched on an Entry. EventDispose is also mirrored on the
// owning Navigation.
const (
	EventNavigateTo   = "navigateto"
	EventNavigateFrom = "navigatefrom"
	EventFinish       = "finish"
	EventDispose      = "dispose"
)

// Destination describes where a navigation is going.
type Destination struct {
	URL          string
	Key          string
	ID           string
	Index        int
	SameDocument bool

	entry *Entry
}

// GetState returns a copy of the destination entry's state.
func (d Destination) GetState() any {
	if d.entry == nil {
		return nil
	}
	return d.entry.GetState()
}

// NavigateEvent is dispatched before a navigation commits. Listeners inspect
// the destination and may intercept the navigation with asynchronous work,
// or cancel it with PreventDefault.
//
// The event is one mutable command object shared by every listener of a
// dispatch; its state is exposed through DefaultPrevented and Intercepted.
type NavigateEvent struct {
	event.Base

	NavigationType Kind
	Destination    Destination
	CanIntercept   bool
	HashChange     bool
	FormData       url.Values
	Info           any
	UserInitiated  bool

	transition *Transition

	mu               sync.Mutex
	defaultPrevented bool
	intercepted      bool
}

// Transition returns the transition this event belongs to.
func (e *NavigateEvent) Transition() *Transition {
	return e.transition
}

// Intercept registers handler as intercepting work for the navigation. It
// is shorthand for InterceptWith with the default commit mode.
func (e *NavigateEvent) Intercept(handler func(ctx context.Context) error) (*Interception, error) {
	return e.InterceptWith(InterceptOptions{Handler: handler})
}

// InterceptChan registers an already running operation. The navigation
// finishes once ch yields a value (its error) or is closed (success).
func (e *NavigateEvent) InterceptChan(ch <-chan error) (*Interception, error) {
	if ch == nil {
		return nil, naverrors.InvalidState("intercept", "nil channel")
	}
	if err := e.checkIntercept(); err != nil {
		return nil, err
	}
	ic, err := e.transition.addInterception(newChanInterception(ch), "")
	if err == nil {
		e.markIntercepted()
	}
	return ic, err
}

// InterceptWith registers intercepting work with explicit options.
//
// Handler runs on its own goroutine with a context cancelled when the
// navigation is aborted. In CommitImmediate mode handlers start after the
// entry list is updated; in deferred modes they start as soon as the
// navigate dispatch completes. A nil Handler only marks the navigation as
// intercepted.
func (e *NavigateEvent) InterceptWith(opts InterceptOptions) (*Interception, error) {
	if err := e.checkIntercept(); err != nil {
		return nil, err
	}
	switch opts.Commit {
	case "", CommitImmediate, CommitAfterTransition, CommitManual:
	default:
		return nil, naverrors.InvalidState("intercept", "unknown commit mode "+string(opts.Commit))
	}

	ic, err := e.transition.addInterception(newHandlerInterception(opts.Handler), opts.Commit)
	if err == nil {
		e.markIntercepted()
	}
	return ic, err
}

func (e *NavigateEvent) checkIntercept() error {
	if !e.CanIntercept {
		return naverrors.InvalidState("intercept", "navigation cannot be intercepted")
	}
	if e.DefaultPrevented() {
		return naverrors.InvalidState("intercept", "navigation was prevented")
	}
	return nil
}

func (e *NavigateEvent) markIntercepted() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.intercepted = true
}

// Intercepted reports whether any listener intercepted the navigation.
func (e *NavigateEvent) Intercepted() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.intercepted
}

// PreventDefault cancels the navigation. It only has an effect while the
// navigate event is being dispatched; the navigation is then abandoned
// without touching the entry list.
func (e *NavigateEvent) PreventDefault() {
	if e.transition.navigateDispatched.Load() {
		return
	}
	e.mu.Lock()
	e.defaultPrevented = true
	e.mu.Unlock()
	e.transition.abort(ErrPrevented)
}

// DefaultPrevented reports whether PreventDefault was called.
func (e *NavigateEvent) DefaultPrevented() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.defaultPrevented
}

// Commit applies a CommitManual navigation's entry-list update early. It
// may be called once the navigate dispatch has completed, typically from an
// intercepting handler.
func (e *NavigateEvent) Commit(ctx context.Context) error {
	tr := e.transition
	if tr.commitMode() != CommitManual {
		return naverrors.InvalidState("commit", "commit mode is not manual")
	}
	if !tr.navigateDispatched.Load() {
		return naverrors.InvalidState("commit", "cannot commit during navigate dispatch")
	}
	return tr.nav.commit(ctx, tr)
}

// CurrentEntryChangeEvent is dispatched after the current entry changes.
type CurrentEntryChangeEvent struct {
	event.Base

	// From is the previous current entry, or nil for the first navigation.
	From           *Entry
	NavigationType Kind
}

// NavigateSuccessEvent is dispatched when a public navigation finishes.
type NavigateSuccessEvent struct {
	event.Base

	Entry          *Entry
	NavigationType Kind
}

// NavigateErrorEvent is dispatched once per failed or aborted transition.
type NavigateErrorEvent struct {
	event.Base

	Err            error
	Message        string
	NavigationType Kind
}

// EntriesChangeEvent reports how the entry list changed.
type EntriesChangeEvent struct {
	event.Base

	Added   []*Entry
	Removed []*Entry
	Updated []*Entry
}

// EntryEvent is dispatched on an entry for navigateto, navigatefrom and
// finish.
type EntryEvent struct {
	event.Base

	Entry          *Entry
	NavigationType Kind

	// Intercepted reports whether the navigation had intercepting work.
	Intercepted bool
}

// DisposeEvent is dispatched once per entry, on the entry and on its
// navigation, when the entry leaves the history.
type DisposeEvent struct {
	event.Base

	Entry *Entry
}
