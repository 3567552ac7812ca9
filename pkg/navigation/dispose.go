package navigation

import (
	"cmp"
	"context"
	"slices"

	"github.com/randalmurphal/navigation/pkg/navigation/observability"
)

// disposeUnreachable removes known entries that are no longer in the entry
// list and dispatches one dispose event for each, on the entry and on the
// navigation. Entries are matched by identity: a clone taking over a slot
// (traverse, reload, replace) disposes the entry it displaced.
func (n *Navigation) disposeUnreachable(ctx context.Context) {
	n.mu.Lock()
	live := make(map[string]struct{}, len(n.entries))
	for _, e := range n.entries {
		live[e.id] = struct{}{}
	}
	var gone []*Entry
	for id, e := range n.known {
		if _, ok := live[id]; !ok {
			delete(n.known, id)
			gone = append(gone, e)
		}
	}
	n.mu.Unlock()

	if len(gone) == 0 {
		return
	}
	slices.SortFunc(gone, func(a, b *Entry) int { return cmp.Compare(a.seq, b.seq) })

	// disposal is terminal and must reach listeners even when the
	// transition has been aborted meanwhile
	ctx = context.WithoutCancel(ctx)

	count := 0
	for _, e := range gone {
		if !e.disposed.CompareAndSwap(false, true) {
			continue
		}
		count++

		// listener failures are reported by the error middleware and
		// cannot undo a disposal
		evt := &DisposeEvent{Base: n.newBase(EventDispose), Entry: e}
		_ = e.dispatch(ctx, evt)
		_ = n.dispatch(ctx, evt)
		observability.LogEntryDisposed(n.logger, e.key, e.id)
	}
	n.metrics.RecordDisposed(ctx, count)
}
