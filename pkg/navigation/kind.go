package navigation

// Kind identifies what a transition does to the entry list.
type Kind string

// Public navigation kinds.
const (
	KindPush     Kind = "push"
	KindReplace  Kind = "replace"
	KindReload   Kind = "reload"
	KindTraverse Kind = "traverse"
)

// Internal kinds. They are visible on transitions and events but no public
// operation takes them as input.
const (
	// KindRollback restores a failed transition's pre-attempt snapshot.
	KindRollback Kind = "rollback"

	// KindUpdate replaces the current entry's state in place.
	KindUpdate Kind = "update"

	// KindUnset marks the absence of a navigation, e.g. entries seeded by
	// WithInitialEntries.
	KindUnset Kind = "unset"
)

// Public reports whether k is one of the four public navigation kinds.
func (k Kind) Public() bool {
	switch k {
	case KindPush, KindReplace, KindReload, KindTraverse:
		return true
	}
	return false
}

func (k Kind) String() string {
	return string(k)
}

// dispatchesFrom reports whether navigatefrom fires on the outgoing entry.
func (k Kind) dispatchesFrom() bool {
	return k.Public() || k == KindRollback
}

// dispatchesNavigate reports whether the engine-level navigate event fires.
func (k Kind) dispatchesNavigate() bool {
	return k != KindUpdate && k != KindUnset
}

// rollsBack reports whether a failure of this kind may be rolled back.
func (k Kind) rollsBack() bool {
	return k.Public()
}

// History selects how Navigate treats the current entry.
type History string

// History modes.
const (
	// HistoryAuto pushes, except that navigating to the current URL replaces.
	HistoryAuto History = "auto"

	// HistoryPush adds a new entry after the current one.
	HistoryPush History = "push"

	// HistoryReplace swaps out the current entry.
	HistoryReplace History = "replace"
)

// CommitMode selects when an intercepted navigation updates the entry list.
type CommitMode string

// Commit modes.
const (
	// CommitImmediate applies the entry-list update before intercepting
	// handlers run. This is the default.
	CommitImmediate CommitMode = "immediate"

	// CommitAfterTransition applies the update once every intercepting
	// handler has completed.
	CommitAfterTransition CommitMode = "after-transition"

	// CommitManual behaves like CommitAfterTransition, except that a handler
	// may apply the update early with NavigateEvent.Commit.
	CommitManual CommitMode = "manual"
)

func (m CommitMode) deferred() bool {
	return m == CommitAfterTransition || m == CommitManual
}
