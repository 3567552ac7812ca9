package navigation

import (
	"context"
	"log/slog"
	"maps"
	"net/url"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/randalmurphal/navigation/pkg/navigation/event"
	"github.com/randalmurphal/navigation/pkg/navigation/observability"
)

// Navigation owns a history entry list and runs transitions over it.
//
// All operations are safe for concurrent use. Each returns immediately with
// a *Result and runs its transition on a new goroutine; starting an
// operation aborts the transition in flight.
type Navigation struct {
	listeners

	mu           sync.Mutex
	entries      []*Entry
	currentIndex int               // -1 until the first navigation
	known        map[string]*Entry // by ID; superset of entries
	active       *Transition

	seq atomic.Uint64

	logger  *slog.Logger
	metrics observability.MetricsRecorder
	spans   observability.SpanManager
	clock   func() time.Time
	baseURL *url.URL

	initial      []EntryInit
	initialIndex int
}

// New creates an empty Navigation.
func New(opts ...Option) *Navigation {
	n := &Navigation{
		listeners:    newListeners(),
		currentIndex: -1,
		known:        make(map[string]*Entry),
		logger:       slog.Default(),
		metrics:      observability.NoopMetrics{},
		spans:        observability.NoopSpanManager{},
		clock:        time.Now,
	}
	for _, opt := range opts {
		opt(n)
	}
	n.Use(n.listenerErrors())
	n.seed()
	return n
}

func (n *Navigation) seed() {
	if len(n.initial) == 0 {
		return
	}
	for _, init := range n.initial {
		e := newEntry(n, init.Key, init.URL, init.State, !init.CrossDocument)
		n.entries = append(n.entries, e)
		n.known[e.id] = e
	}
	n.currentIndex = n.initialIndex
	if n.currentIndex < 0 || n.currentIndex >= len(n.entries) {
		n.currentIndex = len(n.entries) - 1
	}
	n.initial = nil
}

func (n *Navigation) now() time.Time {
	return n.clock()
}

func (n *Navigation) newBase(eventType string, opts ...event.Option) event.Base {
	return event.NewBase(eventType, append(opts, event.WithTimestamp(n.now()))...)
}

// Entries returns a copy of the entry list.
func (n *Navigation) Entries() []*Entry {
	n.mu.Lock()
	defer n.mu.Unlock()
	return slices.Clone(n.entries)
}

// CurrentEntry returns the current entry, or nil before the first
// navigation.
func (n *Navigation) CurrentEntry() *Entry {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.currentLocked()
}

func (n *Navigation) currentLocked() *Entry {
	if n.currentIndex < 0 || n.currentIndex >= len(n.entries) {
		return nil
	}
	return n.entries[n.currentIndex]
}

// CurrentIndex returns the current entry's index, or -1.
func (n *Navigation) CurrentIndex() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.currentIndex
}

// Transition returns the transition in flight, or nil.
func (n *Navigation) Transition() *Transition {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.active
}

// CanGoBack reports whether Back has an entry to go to.
func (n *Navigation) CanGoBack() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.currentIndex > 0
}

// CanGoForward reports whether Forward has an entry to go to.
func (n *Navigation) CanGoForward() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.currentIndex >= 0 && n.currentIndex < len(n.entries)-1
}

// EntryByKey returns the entry in the list with the given key.
func (n *Navigation) EntryByKey(key string) (*Entry, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if i := n.indexOfKeyLocked(key); i >= 0 {
		return n.entries[i], true
	}
	return nil, false
}

func (n *Navigation) indexOf(e *Entry) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return slices.Index(n.entries, e)
}

func (n *Navigation) indexOfKeyLocked(key string) int {
	return slices.IndexFunc(n.entries, func(e *Entry) bool { return e.key == key })
}

// newTransitionLocked builds a transition over the current state.
func (n *Navigation) newTransitionLocked(ctx context.Context, kind Kind, entry *Entry, targetIndex int, info any) *Transition {
	tr := newTransition(ctx, n, kind, entry, targetIndex)
	tr.info = info
	tr.from = n.currentLocked()
	tr.snapshotEntries = slices.Clone(n.entries)
	if tr.snapshotEntries == nil {
		tr.snapshotEntries = []*Entry{}
	}
	tr.snapshotIndex = n.currentIndex
	tr.snapshotKnown = maps.Clone(n.known)
	return tr
}

// installLocked makes tr the active transition. Its predecessor is aborted
// by start, outside n.mu, since abort callbacks may call back into n.
func (n *Navigation) installLocked(tr *Transition, reason error) {
	if prev := n.active; prev != nil && prev != tr {
		tr.replaces = prev
		tr.replaceReason = reason
	}
	n.active = tr
}

// isActive reports whether tr is still the active transition.
func (n *Navigation) isActive(tr *Transition) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.active == tr
}

// finishActive clears tr if it is still the active transition.
func (n *Navigation) finishActive(tr *Transition) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.active == tr {
		n.active = nil
	}
}

func (n *Navigation) start(tr *Transition) *Result {
	if prev := tr.replaces; prev != nil {
		tr.replaces = nil
		prev.abort(tr.replaceReason)
	}
	go n.run(tr)
	return tr.result()
}
