// Package snapshot persists navigation entry lists so sessions can be
// restored.
//
// A Recorder watches a navigation.View and saves a Snapshot to a Store after
// every committed change. Snapshot.Restore turns a stored snapshot back into
// a navigation.Option for a new engine.
package snapshot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/randalmurphal/navigation/pkg/navigation/config"
)

// Store persists serialized snapshots by session.
// Implementations must be safe for concurrent use.
type Store interface {
	// Save stores the snapshot for a session, replacing any previous one.
	Save(ctx context.Context, sessionID string, data []byte) error

	// Load retrieves a session's snapshot.
	// Returns ErrNotFound if the session has none.
	Load(ctx context.Context, sessionID string) ([]byte, error)

	// List returns every stored session, ordered by session ID.
	// Returns empty slice (not error) if there are none.
	List(ctx context.Context) ([]Info, error)

	// Delete removes a session's snapshot.
	// Returns nil if it doesn't exist.
	Delete(ctx context.Context, sessionID string) error

	// Close releases any resources (connections, files).
	Close() error
}

// Info provides metadata without loading the snapshot.
type Info struct {
	SessionID string
	SavedAt   time.Time
	Size      int64
}

// Sentinel errors for snapshot operations.
var (
	// ErrNotFound indicates a session has no snapshot.
	ErrNotFound = errors.New("snapshot not found")

	// ErrStoreClosed indicates the store has been closed.
	ErrStoreClosed = errors.New("snapshot store closed")

	// ErrVersion indicates a snapshot written by an incompatible version.
	ErrVersion = errors.New("unsupported snapshot version")

	// ErrNoPersistence indicates the settings select no store.
	ErrNoPersistence = errors.New("persistence disabled")
)

// Open creates the store selected by p.
func Open(p config.Persistence) (Store, error) {
	switch p.Driver {
	case config.DriverNone:
		return nil, ErrNoPersistence
	case config.DriverMemory:
		return NewMemoryStore(), nil
	case config.DriverSQLite:
		return NewSQLiteStore(p.DSN)
	case config.DriverRedis:
		return NewRedisStore(p.DSN, WithPrefix(p.Prefix), WithTTL(p.TTL)), nil
	default:
		return nil, fmt.Errorf("%w: %q", config.ErrUnknownDriver, p.Driver)
	}
}

// SaveSnapshot serializes s and stores it under its session ID.
func SaveSnapshot(ctx context.Context, store Store, s *Snapshot) error {
	data, err := s.Marshal()
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	return store.Save(ctx, s.SessionID, data)
}

// LoadSnapshot loads and deserializes a session's snapshot.
func LoadSnapshot(ctx context.Context, store Store, sessionID string) (*Snapshot, error) {
	data, err := store.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	s, err := Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("decode snapshot %s: %w", sessionID, err)
	}
	return s, nil
}
