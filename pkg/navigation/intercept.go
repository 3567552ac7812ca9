package navigation

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync/atomic"

	naverrors "github.com/randalmurphal/navigation/pkg/navigation/errors"
)

// InterceptOptions configures NavigateEvent.InterceptWith.
type InterceptOptions struct {
	// Handler is the intercepting work. It receives a context cancelled
	// when the navigation aborts.
	Handler func(ctx context.Context) error

	// Commit selects when the entry list is updated. Default: CommitImmediate.
	Commit CommitMode
}

// Interception is one unit of intercepting work registered on a transition.
type Interception struct {
	handler func(ctx context.Context) error
	ch      <-chan error

	started atomic.Bool
	done    chan struct{}
	err     error
}

func newHandlerInterception(handler func(ctx context.Context) error) *Interception {
	return &Interception{handler: handler, done: make(chan struct{})}
}

func newChanInterception(ch <-chan error) *Interception {
	return &Interception{ch: ch, done: make(chan struct{})}
}

// start launches the work once. ctx is the transition's signal context.
func (ic *Interception) start(ctx context.Context) {
	if !ic.started.CompareAndSwap(false, true) {
		return
	}
	go func() {
		defer close(ic.done)
		ic.err = ic.run(ctx)
	}()
}

func (ic *Interception) run(ctx context.Context) (err error) {
	if ic.ch != nil {
		select {
		case err, ok := <-ic.ch:
			if !ok {
				return nil
			}
			return err
		case <-ctx.Done():
			return naverrors.Abort(context.Cause(ctx))
		}
	}
	if ic.handler == nil {
		return nil
	}

	defer func() {
		if r := recover(); r != nil {
			err = &naverrors.PanicError{
				Source: "intercept handler",
				Value:  r,
				Stack:  string(debug.Stack()),
			}
		}
	}()
	return ic.handler(ctx)
}

// Done returns a channel closed when the work completes.
func (ic *Interception) Done() <-chan struct{} {
	return ic.done
}

// Started reports whether the work has been launched.
func (ic *Interception) Started() bool {
	return ic.started.Load()
}

// Err returns the work's error once Done is closed, nil before.
func (ic *Interception) Err() error {
	select {
	case <-ic.done:
		return ic.err
	default:
		return nil
	}
}

func (ic *Interception) String() string {
	kind := "handler"
	if ic.ch != nil {
		kind = "channel"
	}
	return fmt.Sprintf("Interception{%s started=%t}", kind, ic.Started())
}
