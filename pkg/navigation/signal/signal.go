// Package signal provides abort controllers and signals for navigation
// transitions.
//
// Every transition owns a Controller. The controller's Signal is handed to
// event listeners and intercepting handlers so they can observe when the
// transition is superseded or cancelled. A Signal is also a context source:
// handlers receive a context.Context that is cancelled when the signal aborts,
// with the abort reason available via context.Cause.
//
// Design Influences:
//   - DOM AbortController / AbortSignal
//   - context.WithCancelCause
package signal

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	naverrors "github.com/randalmurphal/navigation/pkg/navigation/errors"
)

// Signal reports whether an operation has been aborted.
type Signal struct {
	id      string
	ctx     context.Context
	cancel  context.CancelCauseFunc
	mu      sync.Mutex
	abortAt time.Time
	fired   bool
	onAbort []func(reason error)
}

// Controller aborts its Signal.
type Controller struct {
	signal *Signal
}

// NewController creates a controller whose signal is derived from parent.
// Cancelling parent aborts the signal with the parent's cause.
func NewController(parent context.Context) *Controller {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancelCause(parent)
	s := &Signal{
		id:     uuid.New().String(),
		ctx:    ctx,
		cancel: cancel,
	}
	context.AfterFunc(ctx, s.fire)
	return &Controller{signal: s}
}

// Signal returns the controller's signal.
func (c *Controller) Signal() *Signal {
	return c.signal
}

// Abort aborts the signal with the given reason. A nil reason becomes
// naverrors.ErrAborted. Only the first call has any effect; it reports
// whether this call performed the abort.
func (c *Controller) Abort(reason error) bool {
	if reason == nil {
		reason = naverrors.ErrAborted
	}

	s := c.signal
	s.mu.Lock()
	if s.ctx.Err() != nil {
		s.mu.Unlock()
		return false
	}
	s.abortAt = time.Now()
	s.cancel(reason)
	s.fired = true
	callbacks := s.onAbort
	s.onAbort = nil
	s.mu.Unlock()

	// Callbacks have run by the time Abort returns.
	for _, fn := range callbacks {
		fn(reason)
	}
	return true
}

// fire runs OnAbort callbacks exactly once.
func (s *Signal) fire() {
	s.mu.Lock()
	if s.fired {
		s.mu.Unlock()
		return
	}
	s.fired = true
	callbacks := s.onAbort
	s.onAbort = nil
	s.mu.Unlock()

	reason := context.Cause(s.ctx)
	for _, fn := range callbacks {
		fn(reason)
	}
}

// ID returns the signal's unique identifier.
func (s *Signal) ID() string {
	return s.id
}

// Aborted reports whether the signal has been aborted.
func (s *Signal) Aborted() bool {
	return s != nil && s.ctx.Err() != nil
}

// Reason returns the abort reason, or nil if not aborted.
func (s *Signal) Reason() error {
	if s == nil || s.ctx.Err() == nil {
		return nil
	}
	return context.Cause(s.ctx)
}

// AbortedAt returns when the signal was aborted by its controller.
// It is zero if not aborted or if the parent context caused the abort.
func (s *Signal) AbortedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.abortAt
}

// Done returns a channel closed when the signal aborts.
func (s *Signal) Done() <-chan struct{} {
	return s.ctx.Done()
}

// Context returns a context cancelled when the signal aborts.
func (s *Signal) Context() context.Context {
	return s.ctx
}

// Err returns an AbortError wrapping the reason if aborted, nil otherwise.
func (s *Signal) Err() error {
	if !s.Aborted() {
		return nil
	}
	return naverrors.Abort(s.Reason())
}

// OnAbort registers fn to be called once with the reason when the signal
// aborts. If the signal has already fired, fn runs immediately.
func (s *Signal) OnAbort(fn func(reason error)) {
	s.mu.Lock()
	if s.fired {
		s.mu.Unlock()
		fn(context.Cause(s.ctx))
		return
	}
	s.onAbort = append(s.onAbort, fn)
	s.mu.Unlock()
}

// Any returns a signal that aborts as soon as any of the given signals
// aborts, carrying that signal's reason.
func Any(signals ...*Signal) *Signal {
	ctrl := NewController(context.Background())
	for _, s := range signals {
		if s != nil && s.Aborted() {
			ctrl.Abort(s.Reason())
			return ctrl.Signal()
		}
	}
	for _, s := range signals {
		if s == nil {
			continue
		}
		s.OnAbort(func(reason error) {
			ctrl.Abort(reason)
		})
	}
	return ctrl.Signal()
}
