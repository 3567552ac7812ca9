package navigation

// EntriesDiff describes how an entry list changed.
//
// Entries are matched by identity. An entry that only moved keeps quiet; a
// clone taking over a slot (reload, traverse, replace) is reported as added
// and the entry it displaced as removed. Updated is filled only for
// in-place state updates.
type EntriesDiff struct {
	Added   []*Entry
	Removed []*Entry
	Updated []*Entry
}

// Empty reports whether nothing changed.
func (d EntriesDiff) Empty() bool {
	return len(d.Added) == 0 && len(d.Removed) == 0 && len(d.Updated) == 0
}

// DiffEntries compares two entry lists.
func DiffEntries(before, after []*Entry) EntriesDiff {
	prev := make(map[string]struct{}, len(before))
	for _, e := range before {
		prev[e.id] = struct{}{}
	}
	next := make(map[string]struct{}, len(after))

	var d EntriesDiff
	for _, e := range after {
		next[e.id] = struct{}{}
		if _, ok := prev[e.id]; !ok {
			d.Added = append(d.Added, e)
		}
	}
	for _, e := range before {
		if _, ok := next[e.id]; !ok {
			d.Removed = append(d.Removed, e)
		}
	}
	return d
}

// withUpdated adds e to Updated unless already reported.
func (d EntriesDiff) withUpdated(e *Entry) EntriesDiff {
	for _, u := range d.Updated {
		if u == e {
			return d
		}
	}
	d.Updated = append(d.Updated, e)
	return d
}
