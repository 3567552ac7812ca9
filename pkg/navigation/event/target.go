package event

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync"
	"sync/atomic"

	naverrors "github.com/randalmurphal/navigation/pkg/navigation/errors"
	"github.com/randalmurphal/navigation/pkg/navigation/signal"
)

// Registration is the handle returned by AddListener.
type Registration struct {
	id       uint64
	typ      string
	listener Listener
	once     bool
	property bool

	fired   atomic.Bool
	removed atomic.Bool
	target  *Target
}

// Type returns the event type the listener was registered for.
func (r *Registration) Type() string {
	return r.typ
}

// Once reports whether the listener is removed after its first invocation.
func (r *Registration) Once() bool {
	return r.once
}

// Remove unregisters the listener. Safe to call more than once and from
// within the listener itself.
func (r *Registration) Remove() {
	if r.target != nil {
		r.target.RemoveListener(r)
	}
}

// claim reports whether the listener may run for the current dispatch.
// Once-listeners are removed before they run so a failing callback cannot
// be invoked twice.
func (r *Registration) claim() bool {
	if !r.once {
		return true
	}
	if !r.fired.CompareAndSwap(false, true) {
		return false
	}
	r.Remove()
	return true
}

// ListenerOption configures a registration.
type ListenerOption func(*Registration)

// Once removes the listener before its first invocation.
func Once() ListenerOption {
	return func(r *Registration) {
		r.once = true
	}
}

// Target holds listeners and dispatches events to them.
// The zero value is not usable; create targets with NewTarget.
type Target struct {
	mu         sync.RWMutex
	regs       []*Registration // registration order across all types
	properties map[string]*Registration
	middleware []Middleware
	nextID     atomic.Uint64
}

// NewTarget creates an empty event target.
func NewTarget() *Target {
	return &Target{
		properties: make(map[string]*Registration),
	}
}

// Use adds middleware applied to every listener invocation, including
// listeners registered before the call.
func (t *Target) Use(mw Middleware) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.middleware = append(t.middleware, mw)
}

// AddListener registers a listener for an event type, or Wildcard for all
// types. Listeners run in registration order.
func (t *Target) AddListener(eventType string, l Listener, opts ...ListenerOption) *Registration {
	reg := &Registration{
		id:       t.nextID.Add(1),
		typ:      eventType,
		listener: l,
		target:   t,
	}
	for _, opt := range opts {
		opt(reg)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.regs = append(t.regs, reg)
	return reg
}

// RemoveListener unregisters a listener. Removing during dispatch does not
// affect the listener set already captured for that dispatch.
func (t *Target) RemoveListener(reg *Registration) {
	if reg == nil || !reg.removed.CompareAndSwap(false, true) {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	// copy-on-write so captured snapshots stay intact
	next := make([]*Registration, 0, len(t.regs))
	for _, r := range t.regs {
		if r != reg {
			next = append(next, r)
		}
	}
	t.regs = next

	if reg.property && t.properties[reg.typ] == reg {
		delete(t.properties, reg.typ)
	}
}

// SetHandler installs the single property-style listener for an event type,
// like assigning DOM "onnavigate". A replacement keeps the original position
// in the listener order. A nil listener removes the handler.
func (t *Target) SetHandler(eventType string, l Listener) {
	t.mu.Lock()
	existing := t.properties[eventType]

	if l == nil {
		t.mu.Unlock()
		if existing != nil {
			t.RemoveListener(existing)
		}
		return
	}

	reg := &Registration{
		id:       t.nextID.Add(1),
		typ:      eventType,
		listener: l,
		property: true,
		target:   t,
	}
	t.properties[eventType] = reg

	if existing == nil {
		t.regs = append(t.regs, reg)
		t.mu.Unlock()
		return
	}

	existing.removed.Store(true)
	next := make([]*Registration, len(t.regs))
	for i, r := range t.regs {
		if r == existing {
			next[i] = reg
		} else {
			next[i] = r
		}
	}
	t.regs = next
	t.mu.Unlock()
}

// Handler reports whether a property-style handler is installed.
func (t *Target) Handler(eventType string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.properties[eventType]
	return ok
}

// HasListener reports whether any listener (including wildcard listeners)
// would receive an event of the given type.
func (t *Target) HasListener(eventType string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	for _, r := range t.regs {
		if r.matches(eventType) {
			return true
		}
	}
	return false
}

// Has reports whether the registration is still active on this target.
func (t *Target) Has(reg *Registration) bool {
	if reg == nil || reg.removed.Load() {
		return false
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	for _, r := range t.regs {
		if r == reg {
			return true
		}
	}
	return false
}

// Len returns the number of registered listeners.
func (t *Target) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.regs)
}

func (r *Registration) matches(eventType string) bool {
	return r.typ == eventType || r.typ == Wildcard
}

// snapshot captures the listeners for a dispatch.
func (t *Target) snapshot(eventType string) ([]*Registration, []Middleware) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var regs []*Registration
	for _, r := range t.regs {
		if r.matches(eventType) {
			regs = append(regs, r)
		}
	}
	mw := make([]Middleware, len(t.middleware))
	copy(mw, t.middleware)
	return regs, mw
}

// Dispatch delivers evt to every matching listener.
//
// If the event's signal is already aborted, Dispatch returns an abort error
// without invoking any listener. In sequential mode a listener failure stops
// the dispatch and is returned, unless the signal was aborted and the failure
// is attributable to that abort. In parallel mode all listeners run and their
// failures are combined.
func (t *Target) Dispatch(ctx context.Context, evt Event) error {
	sig := evt.Signal()
	if sig.Aborted() {
		return sig.Err()
	}
	if err := ctx.Err(); err != nil {
		return naverrors.Abort(context.Cause(ctx))
	}

	regs, mw := t.snapshot(evt.Type())
	if len(regs) == 0 {
		return nil
	}

	if evt.Mode() == ModeParallel {
		return t.dispatchParallel(ctx, evt, regs, mw)
	}
	return t.dispatchSequential(ctx, evt, regs, mw)
}

func (t *Target) dispatchSequential(ctx context.Context, evt Event, regs []*Registration, mw []Middleware) error {
	sig := evt.Signal()
	for _, reg := range regs {
		if sig.Aborted() {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return naverrors.Abort(context.Cause(ctx))
		}
		if !reg.claim() {
			continue
		}

		if err := invoke(ctx, evt, reg, mw); err != nil {
			if abortNoise(sig, err) {
				return nil
			}
			return err
		}
	}
	return nil
}

func (t *Target) dispatchParallel(ctx context.Context, evt Event, regs []*Registration, mw []Middleware) error {
	sig := evt.Signal()
	errs := make([]error, len(regs))

	var wg sync.WaitGroup
	for i, reg := range regs {
		if !reg.claim() {
			continue
		}
		wg.Add(1)
		go func(i int, reg *Registration) {
			defer wg.Done()
			errs[i] = invoke(ctx, evt, reg, mw)
		}(i, reg)
	}
	wg.Wait()

	kept := errs[:0]
	for _, err := range errs {
		if err != nil && !abortNoise(sig, err) {
			kept = append(kept, err)
		}
	}
	return naverrors.Join(kept...)
}

// invoke runs one listener with panic recovery. The listener itself is
// recovered inside the middleware chain, so middleware sees its panic as an
// error; the outer recovery covers the middleware.
func invoke(ctx context.Context, evt Event, reg *Registration, mw []Middleware) (err error) {
	defer recoverListener(evt, &err)

	l := recovering(reg.listener)
	if len(mw) > 0 {
		l = chain(evt.Type(), l, mw)
	}
	return l(ctx, evt)
}

func recovering(l Listener) Listener {
	return func(ctx context.Context, evt Event) (err error) {
		defer recoverListener(evt, &err)
		return l(ctx, evt)
	}
}

func recoverListener(evt Event, err *error) {
	if r := recover(); r != nil {
		*err = &naverrors.PanicError{
			Source: fmt.Sprintf("%s listener", evt.Type()),
			Value:  r,
			Stack:  string(debug.Stack()),
		}
	}
}

// abortNoise reports whether err is explained by the event's own abort.
func abortNoise(sig *signal.Signal, err error) bool {
	if !sig.Aborted() {
		return false
	}
	if naverrors.IsAbort(err) {
		return true
	}
	reason := sig.Reason()
	return reason != nil && errors.Is(err, reason)
}
