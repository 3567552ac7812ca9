package snapshot

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"
)

// MemoryStore is an in-memory snapshot store for testing.
// Data is lost when the process exits.
type MemoryStore struct {
	mu     sync.RWMutex
	data   map[string]storedSnapshot
	closed bool
}

type storedSnapshot struct {
	data    []byte
	savedAt time.Time
}

// NewMemoryStore creates a new in-memory snapshot store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: make(map[string]storedSnapshot),
	}
}

// Save implements Store.
func (m *MemoryStore) Save(_ context.Context, sessionID string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrStoreClosed
	}

	// Copy data to avoid retaining caller's slice
	m.data[sessionID] = storedSnapshot{
		data:    slices.Clone(data),
		savedAt: time.Now().UTC(),
	}
	return nil
}

// Load implements Store.
func (m *MemoryStore) Load(_ context.Context, sessionID string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, ErrStoreClosed
	}

	s, ok := m.data[sessionID]
	if !ok {
		return nil, ErrNotFound
	}
	return slices.Clone(s.data), nil
}

// List implements Store.
func (m *MemoryStore) List(_ context.Context) ([]Info, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, ErrStoreClosed
	}

	infos := make([]Info, 0, len(m.data))
	for id, s := range m.data {
		infos = append(infos, Info{
			SessionID: id,
			SavedAt:   s.savedAt,
			Size:      int64(len(s.data)),
		})
	}
	sortInfos(infos)
	return infos, nil
}

func sortInfos(infos []Info) {
	slices.SortFunc(infos, func(a, b Info) int { return strings.Compare(a.SessionID, b.SessionID) })
}

// Delete implements Store.
func (m *MemoryStore) Delete(_ context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrStoreClosed
	}

	delete(m.data, sessionID)
	return nil
}

// Close implements Store.
func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	m.data = nil
	return nil
}
