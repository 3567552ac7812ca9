package navigation

import (
	"context"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	naverrors "github.com/randalmurphal/navigation/pkg/navigation/errors"
	"github.com/randalmurphal/navigation/pkg/navigation/signal"
)

// Transition is one navigation attempt.
//
// A transition is created by every navigation operation. It owns an abort
// signal, the intercepting work registered by navigate listeners, and the
// two outcomes returned to the caller. At most one transition is active on
// a Navigation; starting another aborts it.
type Transition struct {
	id          string
	kind        Kind
	nav         *Navigation
	entry       *Entry // nil only for a rollback to empty history
	from        *Entry
	targetIndex int
	info        any
	started     time.Time

	// navigate event payload
	hashChange    bool
	formData      url.Values
	userInitiated bool

	// KindUpdate applies state at commit.
	state any

	// entry list and known set before the attempt, for rollback
	snapshotEntries []*Entry
	snapshotIndex   int
	snapshotKnown   map[string]*Entry

	// KindRollback restores these.
	restoreEntries []*Entry
	restoreIndex   int

	ctx       context.Context // signal context handed to handlers
	ctrl      *signal.Controller
	committed *Outcome
	finished  *Outcome

	// predecessor aborted by Navigation.start
	replaces      *Transition
	replaceReason error

	navigateDispatched atomic.Bool
	isCommitted        atomic.Bool
	rolledBack         atomic.Bool
	commitOnce         sync.Once
	commitErr          error
	errOnce            sync.Once

	mu              sync.Mutex
	mode            CommitMode
	intercepts      []*Interception
	handlersStarted bool
	closed          bool
}

func newTransition(ctx context.Context, nav *Navigation, kind Kind, entry *Entry, targetIndex int) *Transition {
	ctrl := signal.NewController(ctx)
	return &Transition{
		id:          uuid.New().String(),
		kind:        kind,
		nav:         nav,
		entry:       entry,
		targetIndex: targetIndex,
		started:     nav.now(),
		ctx:         ctrl.Signal().Context(),
		ctrl:        ctrl,
		committed:   newOutcome(),
		finished:    newOutcome(),
	}
}

// ID returns the transition's unique identifier.
func (t *Transition) ID() string {
	return t.id
}

// Kind returns the navigation kind.
func (t *Transition) Kind() Kind {
	return t.kind
}

// From returns the entry that was current when the transition started, or
// nil for the first navigation.
func (t *Transition) From() *Entry {
	return t.from
}

// Entry returns the destination entry.
func (t *Transition) Entry() *Entry {
	return t.entry
}

// Info returns the caller-supplied info value.
func (t *Transition) Info() any {
	return t.info
}

// Signal returns the transition's abort signal.
func (t *Transition) Signal() *signal.Signal {
	return t.ctrl.Signal()
}

// Committed returns the outcome that settles when the entry list is updated.
func (t *Transition) Committed() *Outcome {
	return t.committed
}

// Finished returns the outcome that settles when all intercepting work has
// completed.
func (t *Transition) Finished() *Outcome {
	return t.finished
}

// IsCommitted reports whether the transition has updated the entry list.
func (t *Transition) IsCommitted() bool {
	return t.isCommitted.Load()
}

// Abort cancels the transition with reason. It reports whether this call
// performed the abort.
func (t *Transition) Abort(reason error) bool {
	return t.abort(reason)
}

func (t *Transition) abort(reason error) bool {
	return t.ctrl.Abort(reason)
}

// Intercept registers handler as intercepting work. Listeners of events
// after navigate (e.g. currententrychange) use it to extend the transition.
func (t *Transition) Intercept(handler func(ctx context.Context) error) (*Interception, error) {
	return t.addInterception(newHandlerInterception(handler), "")
}

func (t *Transition) addInterception(ic *Interception, mode CommitMode) (*Interception, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return nil, naverrors.InvalidState("intercept", "navigation already finished")
	}
	if mode.deferred() {
		if t.navigateDispatched.Load() {
			return nil, naverrors.InvalidState("intercept", "commit mode can only be chosen during navigate dispatch")
		}
		t.mode = mode
	}

	t.intercepts = append(t.intercepts, ic)
	if t.handlersStarted {
		ic.start(t.ctx)
	}
	return ic, nil
}

func (t *Transition) commitMode() CommitMode {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.mode == "" {
		return CommitImmediate
	}
	return t.mode
}

func (t *Transition) intercepted() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.intercepts) > 0
}

// startHandlers launches every registered interception; later ones start
// on registration.
func (t *Transition) startHandlers() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.handlersStarted = true
	for _, ic := range t.intercepts {
		ic.start(t.ctx)
	}
}

// Wait blocks until all intercepting work registered so far, and any
// registered while waiting, has completed. One failure is returned as-is;
// several are combined in an *errors.AggregateError. If the transition is
// aborted first, Wait returns the abort error.
func (t *Transition) Wait(ctx context.Context) error {
	return t.wait(ctx, false)
}

// wait implements Wait. The engine's own call closes the transition to new
// interceptions once the pending set is empty.
func (t *Transition) wait(ctx context.Context, final bool) error {
	if final {
		defer func() {
			t.mu.Lock()
			t.closed = true
			t.mu.Unlock()
		}()
	}

	sig := t.Signal()
	var errs []error
	next := 0
	for {
		t.mu.Lock()
		if next == len(t.intercepts) {
			if final {
				t.closed = true
			}
			t.mu.Unlock()
			break
		}
		batch := append([]*Interception(nil), t.intercepts[next:]...)
		next = len(t.intercepts)
		t.mu.Unlock()

		for _, ic := range batch {
			select {
			case <-ic.done:
				if ic.err != nil {
					errs = append(errs, ic.err)
				}
			case <-sig.Done():
				return sig.Err()
			case <-ctx.Done():
				return naverrors.Abort(context.Cause(ctx))
			}
		}
	}
	return naverrors.Join(errs...)
}

// Rollback reverts the entry list to its state before this transition by
// starting a rollback transition. It can be called once; later calls fail
// with an invalid-state error.
func (t *Transition) Rollback(ctx context.Context) (*Result, error) {
	if !t.rolledBack.CompareAndSwap(false, true) {
		return nil, naverrors.InvalidState("rollback", "transition already rolled back")
	}
	if t.snapshotEntries == nil {
		return nil, naverrors.InvalidState("rollback", "transition has no snapshot")
	}
	return t.nav.startRollback(ctx, t), nil
}

func (t *Transition) result() *Result {
	return &Result{Committed: t.committed, Finished: t.finished, transition: t}
}

func (t *Transition) url() string {
	if t.entry == nil {
		return ""
	}
	return t.entry.url
}
