package snapshot

import (
	"context"
	"log/slog"
	"sync"

	"github.com/randalmurphal/navigation/pkg/navigation"
	"github.com/randalmurphal/navigation/pkg/navigation/event"
)

// Recorder saves a snapshot of a navigation after every committed change.
//
// It subscribes to currententrychange and entrieschange. Persistence
// failures are logged and kept in Err; they never fail the navigation.
type Recorder struct {
	store     Store
	sessionID string
	view      navigation.View
	logger    *slog.Logger

	mu      sync.Mutex
	regs    []*event.Registration
	saves   int
	lastErr error
}

// RecorderOption configures a Recorder.
type RecorderOption func(*Recorder)

// WithRecorderLogger sets the logger. Default: slog.Default().
func WithRecorderLogger(logger *slog.Logger) RecorderOption {
	return func(r *Recorder) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewRecorder creates a recorder for view. Call Start to begin recording.
func NewRecorder(store Store, sessionID string, view navigation.View, opts ...RecorderOption) *Recorder {
	r := &Recorder{
		store:     store,
		sessionID: sessionID,
		view:      view,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Start subscribes to the view. Calling Start twice has no effect.
func (r *Recorder) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.regs != nil {
		return
	}
	listener := func(ctx context.Context, _ event.Event) error {
		r.record(ctx)
		return nil
	}
	r.regs = []*event.Registration{
		r.view.AddListener(navigation.EventEntriesChange, listener),
		r.view.AddListener(navigation.EventCurrentEntryChange, listener),
	}
}

// Stop unsubscribes. Snapshots already saved are kept.
func (r *Recorder) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, reg := range r.regs {
		r.view.RemoveListener(reg)
	}
	r.regs = nil
}

// Save captures and stores a snapshot now.
func (r *Recorder) Save(ctx context.Context) error {
	s, err := Capture(r.sessionID, r.view)
	if err != nil {
		return err
	}
	return SaveSnapshot(ctx, r.store, s)
}

func (r *Recorder) record(ctx context.Context) {
	err := r.Save(ctx)

	r.mu.Lock()
	defer r.mu.Unlock()
	if err != nil {
		r.lastErr = err
		r.logger.Warn("snapshot save failed",
			slog.String("session_id", r.sessionID),
			slog.String("error", err.Error()),
		)
		return
	}
	r.saves++
}

// Saves returns the number of snapshots saved by listeners.
func (r *Recorder) Saves() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.saves
}

// Err returns the most recent save failure, if any.
func (r *Recorder) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastErr
}
