package navigation

import (
	"fmt"
	"log/slog"
	"reflect"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/randalmurphal/navigation/pkg/navigation/observability"
)

// Entry is one point in navigation history.
//
// ID is unique per Entry value and never reused. Key identifies the history
// slot and survives clones: reload, traversal and replace produce a new ID
// with the same Key.
//
// Entries are owned by the Navigation that created them. Observers read them
// and subscribe to their events (EventNavigateTo, EventNavigateFrom,
// EventFinish, EventDispose) but never mutate them.
type Entry struct {
	listeners

	id           string
	key          string
	url          string
	sameDocument bool
	seq          uint64 // creation order, used to order disposal
	nav          *Navigation

	mu    sync.RWMutex
	state any

	disposed atomic.Bool
}

func newEntry(nav *Navigation, key, url string, state any, sameDocument bool) *Entry {
	if key == "" {
		key = uuid.New().String()
	}
	e := &Entry{
		listeners:    newListeners(),
		id:           uuid.New().String(),
		key:          key,
		url:          url,
		sameDocument: sameDocument,
		nav:          nav,
		state:        state,
	}
	if nav != nil {
		e.seq = nav.seq.Add(1)
		e.Use(nav.listenerErrors())
	}
	return e
}

// clone returns a new identity for the same history slot.
func (e *Entry) clone() *Entry {
	return newEntry(e.nav, e.key, e.url, e.rawState(), e.sameDocument)
}

// ID returns the entry's unique identity.
func (e *Entry) ID() string {
	return e.id
}

// Key returns the history slot key shared by clones of this entry.
func (e *Entry) Key() string {
	return e.key
}

// URL returns the entry's URL. It is empty for cross-document entries
// created without one.
func (e *Entry) URL() string {
	return e.url
}

// SameDocument reports whether navigating to the entry stays within the
// current document.
func (e *Entry) SameDocument() bool {
	return e.sameDocument
}

// Index returns the entry's position in its navigation's entry list, or -1
// when the entry is not (or no longer) in the list.
func (e *Entry) Index() int {
	if e.nav == nil {
		return -1
	}
	return e.nav.indexOf(e)
}

// Disposed reports whether the entry has been disposed.
func (e *Entry) Disposed() bool {
	return e.disposed.Load()
}

// GetState returns the entry's state.
//
// Maps, slices and pointers to structs are returned as shallow copies, so
// two calls never share a reference and callers cannot modify the stored
// state. Other values are returned as-is. Function state is returned but
// logged as a warning, since it cannot survive serialization.
func (e *Entry) GetState() any {
	state := e.rawState()
	if state != nil && reflect.TypeOf(state).Kind() == reflect.Func {
		observability.LogStateWarning(e.logger(), e.key, "function state cannot be serialized")
		return state
	}
	return shallowCopy(state)
}

func (e *Entry) rawState() any {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.state
}

// setState replaces the state. Only the engine calls it.
func (e *Entry) setState(state any) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state = state
}

func (e *Entry) logger() *slog.Logger {
	if e.nav != nil && e.nav.logger != nil {
		return e.nav.logger
	}
	return slog.Default()
}

// String formats the entry for debugging.
func (e *Entry) String() string {
	return fmt.Sprintf("Entry{key=%s id=%s url=%q}", e.key, e.id, e.url)
}

// shallowCopy copies one level of a map, slice or pointed-to struct.
func shallowCopy(v any) any {
	if v == nil {
		return nil
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map:
		if rv.IsNil() {
			return v
		}
		out := reflect.MakeMapWithSize(rv.Type(), rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out.SetMapIndex(iter.Key(), iter.Value())
		}
		return out.Interface()
	case reflect.Slice:
		if rv.IsNil() {
			return v
		}
		out := reflect.MakeSlice(rv.Type(), rv.Len(), rv.Len())
		reflect.Copy(out, rv)
		return out.Interface()
	case reflect.Pointer:
		if rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
			return v
		}
		out := reflect.New(rv.Elem().Type())
		out.Elem().Set(rv.Elem())
		return out.Interface()
	default:
		return v
	}
}
