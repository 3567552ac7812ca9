package snapshot

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/randalmurphal/navigation/pkg/navigation"
)

// Version is the current snapshot format version.
// Increment when making breaking changes to the snapshot structure.
const Version = 1

// Snapshot is the persisted form of a navigation's entry list.
type Snapshot struct {
	Version   int           `json:"version"`
	SessionID string        `json:"session_id"`
	Index     int           `json:"index"`
	Entries   []EntryRecord `json:"entries"`
	SavedAt   time.Time     `json:"saved_at"`
}

// EntryRecord is one persisted entry. Entry IDs are not stored: a restored
// entry is a new identity for the same history slot.
type EntryRecord struct {
	Key           string          `json:"key"`
	URL           string          `json:"url"`
	State         json.RawMessage `json:"state,omitempty"`
	CrossDocument bool            `json:"cross_document,omitempty"`
}

// Capture records the view's current entry list.
//
// State is serialized with encoding/json; an entry whose state cannot be
// serialized (functions, channels) fails the capture.
func Capture(sessionID string, v navigation.View) (*Snapshot, error) {
	entries := v.Entries()
	s := &Snapshot{
		Version:   Version,
		SessionID: sessionID,
		Index:     v.CurrentIndex(),
		Entries:   make([]EntryRecord, 0, len(entries)),
		SavedAt:   time.Now().UTC(),
	}
	for _, e := range entries {
		rec := EntryRecord{
			Key:           e.Key(),
			URL:           e.URL(),
			CrossDocument: !e.SameDocument(),
		}
		if state := e.GetState(); state != nil {
			data, err := json.Marshal(state)
			if err != nil {
				return nil, fmt.Errorf("entry %s state: %w", e.Key(), err)
			}
			rec.State = data
		}
		s.Entries = append(s.Entries, rec)
	}
	return s, nil
}

// Marshal serializes a snapshot to JSON.
func (s *Snapshot) Marshal() ([]byte, error) {
	return json.Marshal(s)
}

// Unmarshal deserializes a snapshot from JSON.
func Unmarshal(data []byte) (*Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	if s.Version != Version {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrVersion, s.Version, Version)
	}
	return &s, nil
}

// Restore returns an option that seeds a new Navigation with the
// snapshot's entries. Keys are kept; state is decoded into generic JSON
// values (map[string]any, []any, float64, string, bool).
func (s *Snapshot) Restore() (navigation.Option, error) {
	inits := make([]navigation.EntryInit, len(s.Entries))
	for i, rec := range s.Entries {
		var state any
		if len(rec.State) > 0 {
			if err := json.Unmarshal(rec.State, &state); err != nil {
				return nil, fmt.Errorf("entry %s state: %w", rec.Key, err)
			}
		}
		inits[i] = navigation.EntryInit{
			URL:           rec.URL,
			Key:           rec.Key,
			State:         state,
			CrossDocument: rec.CrossDocument,
		}
	}
	return navigation.WithInitialEntries(inits, s.Index), nil
}
