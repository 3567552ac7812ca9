package navigation

import (
	"context"
	"sync"

	naverrors "github.com/randalmurphal/navigation/pkg/navigation/errors"
)

// Outcome is a result that settles exactly once, with either an entry or an
// error. It can be awaited any number of times from any goroutine.
type Outcome struct {
	once  sync.Once
	done  chan struct{}
	entry *Entry
	err   error
}

func newOutcome() *Outcome {
	return &Outcome{done: make(chan struct{})}
}

// resolve settles the outcome with entry. It reports whether this call
// settled it.
func (o *Outcome) resolve(entry *Entry) bool {
	settled := false
	o.once.Do(func() {
		o.entry = entry
		close(o.done)
		settled = true
	})
	return settled
}

// reject settles the outcome with err. It reports whether this call
// settled it.
func (o *Outcome) reject(err error) bool {
	settled := false
	o.once.Do(func() {
		o.err = err
		close(o.done)
		settled = true
	})
	return settled
}

// Done returns a channel closed once the outcome settles.
func (o *Outcome) Done() <-chan struct{} {
	return o.done
}

// Settled reports whether the outcome has settled.
func (o *Outcome) Settled() bool {
	select {
	case <-o.done:
		return true
	default:
		return false
	}
}

// Wait blocks until the outcome settles or ctx is done. Cancelling ctx
// abandons the wait only; it does not affect the navigation.
func (o *Outcome) Wait(ctx context.Context) (*Entry, error) {
	select {
	case <-o.done:
		return o.entry, o.err
	case <-ctx.Done():
		return nil, naverrors.Abort(context.Cause(ctx))
	}
}

// Result returns the settled value, or (nil, nil) if not yet settled.
func (o *Outcome) Result() (*Entry, error) {
	if !o.Settled() {
		return nil, nil
	}
	return o.entry, o.err
}

// Result is returned by every navigation operation.
//
// Committed settles when the entry list reflects the navigation. Finished
// settles when every intercepting handler has completed. Both reject with
// the same error when the navigation fails before committing; only
// Finished rejects when it fails afterwards.
type Result struct {
	Committed *Outcome
	Finished  *Outcome

	transition *Transition
}

// Transition returns the transition behind the result, or nil when the
// operation was rejected before one started.
func (r *Result) Transition() *Transition {
	return r.transition
}

// Wait waits for Finished.
func (r *Result) Wait(ctx context.Context) (*Entry, error) {
	return r.Finished.Wait(ctx)
}

// rejectedResult returns a result whose outcomes both fail with err.
func rejectedResult(err error) *Result {
	r := &Result{Committed: newOutcome(), Finished: newOutcome()}
	r.Committed.reject(err)
	r.Finished.reject(err)
	return r
}

// resolvedResult returns a result whose outcomes both hold entry.
func resolvedResult(entry *Entry) *Result {
	r := &Result{Committed: newOutcome(), Finished: newOutcome()}
	r.Committed.resolve(entry)
	r.Finished.resolve(entry)
	return r
}
