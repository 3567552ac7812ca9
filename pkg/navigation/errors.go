package navigation

import (
	"errors"
)

// Sentinel errors. Operations report invalid-state conditions as
// *errors.InvalidStateError values that wrap nothing; these sentinels are the
// abort reasons and lookup failures callers can match with errors.Is.
var (
	// ErrSuperseded is the abort reason given to a transition when a newer
	// navigation starts.
	ErrSuperseded = errors.New("navigation superseded by a newer navigation")

	// ErrRolledBack is the abort reason given to a failing transition when
	// its rollback starts.
	ErrRolledBack = errors.New("navigation rolled back")

	// ErrPrevented is the abort reason used by NavigateEvent.PreventDefault.
	ErrPrevented = errors.New("navigation prevented")
)
