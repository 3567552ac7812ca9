package navigation

import (
	"context"
	"slices"

	"go.opentelemetry.io/otel/attribute"

	naverrors "github.com/randalmurphal/navigation/pkg/navigation/errors"
	"github.com/randalmurphal/navigation/pkg/navigation/event"
	"github.com/randalmurphal/navigation/pkg/navigation/observability"
)

// run drives tr from start to settle.
func (n *Navigation) run(tr *Transition) {
	kind := string(tr.kind)
	ctx, span := n.spans.StartTransitionSpan(tr.ctx, tr.id, kind, tr.url())
	observability.LogTransitionStart(n.logger, tr.id, kind, tr.url())

	err := n.execute(ctx, tr)
	if sig := tr.Signal(); err != nil && sig.Aborted() {
		// handlers reacting to the abort report ctx errors; the reason wins
		err = sig.Err()
	}

	outcome := observability.OutcomeSuccess
	if err != nil {
		outcome = n.fail(ctx, tr, err)
	}

	duration := n.now().Sub(tr.started)
	durationMs := float64(duration.Milliseconds())
	n.metrics.RecordTransition(context.WithoutCancel(ctx), kind, outcome, duration)
	if err != nil {
		observability.LogTransitionError(n.logger, tr.id, kind, err, naverrors.IsAbort(err), durationMs)
	} else {
		observability.LogTransitionComplete(n.logger, tr.id, kind, durationMs)
	}
	n.spans.EndSpanWithError(span, err)
}

// execute runs the transition algorithm. Any error it returns is handled
// by fail.
func (n *Navigation) execute(ctx context.Context, tr *Transition) error {
	sig := tr.Signal()

	if tr.kind.dispatchesFrom() && tr.from != nil {
		evt := n.newEntryEvent(EventNavigateFrom, tr.from, tr)
		if err := tr.from.dispatch(ctx, evt); err != nil {
			return err
		}
	}
	if sig.Aborted() {
		return sig.Err()
	}

	if tr.kind.dispatchesNavigate() && tr.entry != nil {
		if err := n.dispatch(ctx, n.newNavigateEvent(tr)); err != nil {
			return err
		}
	}
	tr.navigateDispatched.Store(true)
	if sig.Aborted() {
		// prevented or superseded during navigate: nothing was mutated
		return sig.Err()
	}

	if !tr.commitMode().deferred() {
		if err := n.commit(ctx, tr); err != nil {
			return err
		}
	}
	tr.startHandlers()

	if err := tr.wait(ctx, true); err != nil {
		return err
	}

	// deferred modes commit here unless a handler already did
	if err := n.commit(ctx, tr); err != nil {
		return err
	}
	if sig.Aborted() {
		return sig.Err()
	}

	if tr.entry != nil {
		evt := n.newEntryEvent(EventFinish, tr.entry, tr)
		if err := tr.entry.dispatch(ctx, evt); err != nil {
			return err
		}
	}
	if tr.kind.Public() {
		evt := &NavigateSuccessEvent{
			Base:           n.newBase(EventNavigateSuccess),
			Entry:          tr.entry,
			NavigationType: tr.kind,
		}
		if err := n.dispatch(ctx, evt); err != nil {
			return err
		}
	}

	n.finishActive(tr)
	tr.finished.resolve(tr.entry)
	return nil
}

// commit applies tr's entry-list mutation once and fires the commit-time
// events: entrieschange, currententrychange, navigateto, then disposal.
// Later calls wait for the first and return its error.
func (n *Navigation) commit(ctx context.Context, tr *Transition) error {
	tr.commitOnce.Do(func() {
		tr.commitErr = n.applyAndNotify(ctx, tr)
	})
	return tr.commitErr
}

func (n *Navigation) applyAndNotify(ctx context.Context, tr *Transition) error {
	before, after, err := n.apply(tr)
	if err != nil {
		return err
	}
	tr.isCommitted.Store(true)
	tr.committed.resolve(tr.entry)
	n.spans.AddSpanEvent(ctx, "committed", attribute.Int("index", tr.targetIndex))

	// a committed change is announced even if the transition aborts meanwhile
	nctx := context.WithoutCancel(ctx)
	err = n.notifyCommit(nctx, tr, before, after)
	n.disposeUnreachable(nctx)
	return err
}

// apply mutates the entry list for tr. Only the active, non-aborted
// transition may commit.
func (n *Navigation) apply(tr *Transition) (before, after []*Entry, err error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	sig := tr.Signal()
	if sig.Aborted() {
		return nil, nil, sig.Err()
	}
	if n.active != tr {
		return nil, nil, naverrors.Abort(ErrSuperseded)
	}

	before = slices.Clone(n.entries)
	idx := tr.targetIndex

	switch tr.kind {
	case KindPush:
		if idx > len(n.entries) {
			return nil, nil, naverrors.InvalidState("commit", "push target beyond end of list")
		}
		n.entries = append(n.entries[:idx:idx], tr.entry)
		n.currentIndex = idx
	case KindReplace:
		if idx < 0 || idx >= len(n.entries) {
			return nil, nil, naverrors.InvalidState("commit", "replace target out of range")
		}
		n.entries = append(n.entries[:idx:idx], tr.entry)
		n.currentIndex = idx
	case KindTraverse, KindReload:
		if idx < 0 || idx >= len(n.entries) {
			return nil, nil, naverrors.InvalidState("commit", "traverse target out of range")
		}
		n.entries = slices.Clone(n.entries)
		n.entries[idx] = tr.entry
		n.currentIndex = idx
	case KindUpdate:
		if idx < 0 || idx >= len(n.entries) || n.entries[idx] != tr.entry {
			return nil, nil, naverrors.InvalidState("commit", "updated entry is no longer current")
		}
		tr.entry.setState(tr.state)
	case KindRollback:
		if tr.restoreEntries == nil {
			return nil, nil, naverrors.InvalidState("commit", "rollback without snapshot")
		}
		n.entries = slices.Clone(tr.restoreEntries)
		n.currentIndex = tr.restoreIndex
		for _, e := range n.entries {
			n.known[e.id] = e
		}
	default:
		return nil, nil, naverrors.InvalidState("commit", "unsupported kind "+string(tr.kind))
	}

	if tr.entry != nil {
		n.known[tr.entry.id] = tr.entry
	}
	return before, slices.Clone(n.entries), nil
}

func (n *Navigation) notifyCommit(ctx context.Context, tr *Transition, before, after []*Entry) error {
	diff := DiffEntries(before, after)
	if tr.kind == KindUpdate {
		diff = diff.withUpdated(tr.entry)
	}
	if !diff.Empty() {
		evt := &EntriesChangeEvent{
			Base:    n.newBase(EventEntriesChange),
			Added:   diff.Added,
			Removed: diff.Removed,
			Updated: diff.Updated,
		}
		if err := n.dispatch(ctx, evt); err != nil {
			return err
		}
	}

	if tr.entry == nil {
		return nil
	}
	if tr.entry.sameDocument {
		evt := &CurrentEntryChangeEvent{
			Base:           n.newBase(EventCurrentEntryChange),
			From:           tr.from,
			NavigationType: tr.kind,
		}
		if err := n.dispatch(ctx, evt); err != nil {
			return err
		}
	}
	if tr.kind.Public() {
		evt := n.newEntryEvent(EventNavigateTo, tr.entry, tr)
		if err := tr.entry.dispatch(ctx, evt); err != nil {
			return err
		}
	}
	return nil
}

// fail reports err for tr exactly once: navigateerror, automatic rollback
// when it applies, then rejection of both outcomes. It returns the outcome
// label for metrics.
func (n *Navigation) fail(ctx context.Context, tr *Transition, err error) string {
	outcome := observability.OutcomeError
	if naverrors.IsAbort(err) {
		outcome = observability.OutcomeAborted
	}

	tr.errOnce.Do(func() {
		dctx := context.WithoutCancel(ctx)

		evt := &NavigateErrorEvent{
			Base:           n.newBase(EventNavigateError),
			Err:            err,
			Message:        err.Error(),
			NavigationType: tr.kind,
		}
		// a failing navigateerror listener is reported by the error
		// middleware; the original error stands
		_ = n.dispatch(dctx, evt)

		if n.shouldRollback(tr, err) {
			outcome = observability.OutcomeRolledBack
			observability.LogRollback(n.logger, tr.id, err)
			n.metrics.RecordRollback(dctx, string(tr.kind))

			res, rbErr := tr.Rollback(dctx)
			if rbErr == nil {
				_, rbErr = res.Finished.Wait(dctx)
			}
			if rbErr != nil {
				observability.LogTransitionError(n.logger, tr.id, string(KindRollback), rbErr, naverrors.IsAbort(rbErr), 0)
			}
		}

		n.finishActive(tr)
		tr.committed.reject(err)
		tr.finished.reject(err)
	})
	return outcome
}

// shouldRollback reports whether a failure of tr reverts the entry list.
// Transitions that never committed have nothing to revert.
func (n *Navigation) shouldRollback(tr *Transition, err error) bool {
	return tr.IsCommitted() &&
		tr.kind.rollsBack() &&
		naverrors.ShouldRollback(err) &&
		n.isActive(tr)
}

func (n *Navigation) newNavigateEvent(tr *Transition) *NavigateEvent {
	e := tr.entry
	return &NavigateEvent{
		Base:           n.newBase(EventNavigate, event.WithSignal(tr.Signal())),
		NavigationType: tr.kind,
		Destination: Destination{
			URL:          e.url,
			Key:          e.key,
			ID:           e.id,
			Index:        tr.targetIndex,
			SameDocument: e.sameDocument,
			entry:        e,
		},
		CanIntercept:  e.sameDocument,
		HashChange:    tr.hashChange,
		FormData:      tr.formData,
		Info:          tr.info,
		UserInitiated: tr.userInitiated,
		transition:    tr,
	}
}

func (n *Navigation) newEntryEvent(eventType string, e *Entry, tr *Transition) *EntryEvent {
	return &EntryEvent{
		Base:           n.newBase(eventType),
		Entry:          e,
		NavigationType: tr.kind,
		Intercepted:    tr.intercepted(),
	}
}
