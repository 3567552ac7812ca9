package navigation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDiffEntries(t *testing.T) {
	a := newEntry(nil, "a", "/a", nil, true)
	b := newEntry(nil, "b", "/b", nil, true)
	c := newEntry(nil, "c", "/c", nil, true)
	a2 := a.clone()

	tests := []struct {
		name    string
		before  []*Entry
		after   []*Entry
		added   []*Entry
		removed []*Entry
		updated []*Entry
	}{
		{name: "no change", before: []*Entry{a, b}, after: []*Entry{a, b}},
		{name: "push", before: []*Entry{a}, after: []*Entry{a, b}, added: []*Entry{b}},
		{name: "truncate and push", before: []*Entry{a, b}, after: []*Entry{a, c}, added: []*Entry{c}, removed: []*Entry{b}},
		{name: "clone in slot", before: []*Entry{a, b}, after: []*Entry{a2, b}, added: []*Entry{a2}, removed: []*Entry{a}},
		{name: "moved", before: []*Entry{a, b}, after: []*Entry{b, a}},
		{name: "to empty", before: []*Entry{a, b}, after: nil, removed: []*Entry{a, b}},
		{name: "from empty", before: nil, after: []*Entry{a}, added: []*Entry{a}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := DiffEntries(tt.before, tt.after)
			assert.Equal(t, tt.added, d.Added)
			assert.Equal(t, tt.removed, d.Removed)
			assert.Equal(t, tt.updated, d.Updated)
			assert.Equal(t, tt.added == nil && tt.removed == nil && tt.updated == nil, d.Empty())
		})
	}
}

func TestEntriesDiff_WithUpdated(t *testing.T) {
	a := newEntry(nil, "a", "/a", nil, true)

	d := EntriesDiff{}.withUpdated(a)
	assert.Equal(t, []*Entry{a}, d.Updated)

	d = d.withUpdated(a)
	assert.Len(t, d.Updated, 1)
}
