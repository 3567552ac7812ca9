package navigation

import (
	"context"
	"fmt"
	"net/url"

	naverrors "github.com/randalmurphal/navigation/pkg/navigation/errors"
)

// NavigateOptions configures Navigate.
type NavigateOptions struct {
	// State is the new entry's state.
	State any

	// History selects push or replace. Default: HistoryAuto.
	History History

	// Info is passed to listeners through NavigateEvent.Info.
	Info any

	// UserInitiated marks navigations triggered by user activation.
	UserInitiated bool

	// FormData carries submitted form fields, if any.
	FormData url.Values

	// CrossDocument marks the destination as leaving the current document.
	// Cross-document navigations cannot be intercepted and do not fire
	// currententrychange.
	CrossDocument bool
}

// ReloadOptions configures Reload.
type ReloadOptions struct {
	// State replaces the reloaded entry's state. Nil keeps the current state.
	State any
	Info  any
}

// TraverseOptions configures Back, Forward and TraverseTo.
type TraverseOptions struct {
	Info any
}

// UpdateOptions configures UpdateCurrentEntry.
type UpdateOptions struct {
	State any
}

// Navigate navigates to rawURL, resolved against the current entry's URL
// or the base URL.
func (n *Navigation) Navigate(ctx context.Context, rawURL string, opts NavigateOptions) *Result {
	n.mu.Lock()
	target, err := n.resolveURLLocked(rawURL)
	if err != nil {
		n.mu.Unlock()
		return rejectedResult(naverrors.InvalidState("navigate", fmt.Sprintf("invalid url %q: %v", rawURL, err)))
	}

	cur := n.currentLocked()
	kind := KindPush
	switch opts.History {
	case "", HistoryAuto:
		if cur != nil && cur.url == target {
			kind = KindReplace
		}
	case HistoryPush:
	case HistoryReplace:
		kind = KindReplace
	default:
		n.mu.Unlock()
		return rejectedResult(naverrors.InvalidState("navigate", fmt.Sprintf("unknown history mode %q", opts.History)))
	}
	if cur == nil {
		kind = KindPush
	}

	key := ""
	targetIndex := n.currentIndex + 1
	if kind == KindReplace {
		key = cur.key
		targetIndex = n.currentIndex
	}

	entry := newEntry(n, key, target, opts.State, !opts.CrossDocument)
	tr := n.newTransitionLocked(ctx, kind, entry, targetIndex, opts.Info)
	tr.formData = opts.FormData
	tr.userInitiated = opts.UserInitiated
	if cur != nil {
		tr.hashChange = hashChange(cur.url, target)
	}
	n.installLocked(tr, ErrSuperseded)
	n.mu.Unlock()

	return n.start(tr)
}

// Reload navigates to a fresh copy of the current entry: same key and URL,
// new identity.
func (n *Navigation) Reload(ctx context.Context, opts ReloadOptions) *Result {
	n.mu.Lock()
	cur := n.currentLocked()
	if cur == nil {
		n.mu.Unlock()
		return rejectedResult(naverrors.InvalidState("reload", "no current entry"))
	}

	entry := cur.clone()
	if opts.State != nil {
		entry.state = opts.State
	}
	tr := n.newTransitionLocked(ctx, KindReload, entry, n.currentIndex, opts.Info)
	n.installLocked(tr, ErrSuperseded)
	n.mu.Unlock()

	return n.start(tr)
}

// Back traverses to the previous entry.
func (n *Navigation) Back(ctx context.Context, opts TraverseOptions) *Result {
	n.mu.Lock()
	if n.currentIndex <= 0 {
		n.mu.Unlock()
		return rejectedResult(naverrors.InvalidState("back", "no previous entry"))
	}
	return n.traverseLocked(ctx, n.currentIndex-1, opts)
}

// Forward traverses to the next entry.
func (n *Navigation) Forward(ctx context.Context, opts TraverseOptions) *Result {
	n.mu.Lock()
	if n.currentIndex < 0 || n.currentIndex >= len(n.entries)-1 {
		n.mu.Unlock()
		return rejectedResult(naverrors.InvalidState("forward", "no next entry"))
	}
	return n.traverseLocked(ctx, n.currentIndex+1, opts)
}

// TraverseTo traverses to the entry with the given key. Traversing to the
// current entry settles immediately without a transition.
func (n *Navigation) TraverseTo(ctx context.Context, key string, opts TraverseOptions) *Result {
	n.mu.Lock()
	idx := n.indexOfKeyLocked(key)
	if idx < 0 {
		n.mu.Unlock()
		return rejectedResult(naverrors.InvalidState("traverseTo", fmt.Sprintf("no entry with key %q", key)))
	}
	if idx == n.currentIndex {
		cur := n.entries[idx]
		n.mu.Unlock()
		return resolvedResult(cur)
	}
	return n.traverseLocked(ctx, idx, opts)
}

// traverseLocked starts a traversal and releases n.mu.
func (n *Navigation) traverseLocked(ctx context.Context, idx int, opts TraverseOptions) *Result {
	entry := n.entries[idx].clone()
	tr := n.newTransitionLocked(ctx, KindTraverse, entry, idx, opts.Info)
	n.installLocked(tr, ErrSuperseded)
	n.mu.Unlock()

	return n.start(tr)
}

// UpdateCurrentEntry replaces the current entry's state in place. No
// navigate event fires; currententrychange and entrieschange (reporting the
// entry as updated) do.
func (n *Navigation) UpdateCurrentEntry(ctx context.Context, opts UpdateOptions) *Result {
	n.mu.Lock()
	cur := n.currentLocked()
	if cur == nil {
		n.mu.Unlock()
		return rejectedResult(naverrors.InvalidState("updateCurrentEntry", "no current entry"))
	}

	tr := n.newTransitionLocked(ctx, KindUpdate, cur, n.currentIndex, nil)
	tr.state = opts.State
	n.installLocked(tr, ErrSuperseded)
	n.mu.Unlock()

	return n.start(tr)
}

// startRollback starts a transition restoring failed's snapshot. Snapshot
// entries the failed attempt already disposed come back as clones, so the
// list never holds a disposed entry.
func (n *Navigation) startRollback(ctx context.Context, failed *Transition) *Result {
	n.mu.Lock()
	restore := make([]*Entry, len(failed.snapshotEntries))
	for i, e := range failed.snapshotEntries {
		_, wasKnown := failed.snapshotKnown[e.id]
		_, known := n.known[e.id]
		if wasKnown && !known {
			e = e.clone()
		}
		restore[i] = e
	}
	var target *Entry
	if failed.snapshotIndex >= 0 && failed.snapshotIndex < len(restore) {
		target = restore[failed.snapshotIndex]
	}

	tr := n.newTransitionLocked(ctx, KindRollback, target, failed.snapshotIndex, nil)
	tr.restoreEntries = restore
	tr.restoreIndex = failed.snapshotIndex
	n.installLocked(tr, ErrRolledBack)
	n.mu.Unlock()

	return n.start(tr)
}

// resolveURLLocked resolves raw against the current entry, falling back to
// the base URL.
func (n *Navigation) resolveURLLocked(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.IsAbs() {
		return u.String(), nil
	}

	base := n.baseURL
	if cur := n.currentLocked(); cur != nil {
		if b, err := url.Parse(cur.url); err == nil && b.IsAbs() {
			base = b
		}
	}
	if base == nil {
		return u.String(), nil
	}
	return base.ResolveReference(u).String(), nil
}

// hashChange reports whether to differs from from only by a new fragment.
func hashChange(from, to string) bool {
	a, err := url.Parse(from)
	if err != nil {
		return false
	}
	b, err := url.Parse(to)
	if err != nil {
		return false
	}
	if a.Fragment == b.Fragment || b.Fragment == "" {
		return false
	}
	a.Fragment, a.RawFragment = "", ""
	b.Fragment, b.RawFragment = "", ""
	return a.String() == b.String()
}
