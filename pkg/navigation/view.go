package navigation

import "github.com/randalmurphal/navigation/pkg/navigation/event"

// View is a read-only handle on a Navigation. It exposes the entry list and
// event subscription but none of the operations, so it can be handed to
// observers such as persistence recorders.
type View struct {
	nav *Navigation
}

// View returns a read-only handle on n.
func (n *Navigation) View() View {
	return View{nav: n}
}

// Entries returns a copy of the entry list.
func (v View) Entries() []*Entry { return v.nav.Entries() }

// CurrentEntry returns the current entry, or nil.
func (v View) CurrentEntry() *Entry { return v.nav.CurrentEntry() }

// CurrentIndex returns the current index, or -1.
func (v View) CurrentIndex() int { return v.nav.CurrentIndex() }

// TransitionInfo describes a transition in flight without giving access to
// its abort, intercept or rollback controls.
type TransitionInfo struct {
	ID        string
	Kind      Kind
	From      *Entry
	Entry     *Entry
	Committed bool
}

// Transition describes the transition in flight. ok is false when there is
// none.
func (v View) Transition() (info TransitionInfo, ok bool) {
	tr := v.nav.Transition()
	if tr == nil {
		return TransitionInfo{}, false
	}
	return TransitionInfo{
		ID:        tr.ID(),
		Kind:      tr.Kind(),
		From:      tr.From(),
		Entry:     tr.Entry(),
		Committed: tr.IsCommitted(),
	}, true
}

func (v View) CanGoBack() bool    { return v.nav.CanGoBack() }
func (v View) CanGoForward() bool { return v.nav.CanGoForward() }

// EntryByKey returns the entry in the list with the given key.
func (v View) EntryByKey(key string) (*Entry, bool) { return v.nav.EntryByKey(key) }

// AddListener subscribes to events on the underlying Navigation.
func (v View) AddListener(eventType string, fn event.Listener, opts ...event.ListenerOption) *event.Registration {
	return v.nav.AddListener(eventType, fn, opts...)
}

// RemoveListener unregisters a listener returned by AddListener.
func (v View) RemoveListener(reg *event.Registration) {
	v.nav.RemoveListener(reg)
}
