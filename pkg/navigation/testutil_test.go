package navigation

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/navigation/pkg/navigation/event"
	"github.com/randalmurphal/navigation/pkg/navigation/observability"
)

const testBase = "https://app.test/"

// testCtx returns a context that fails stuck tests instead of hanging them.
func testCtx(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func newTestNav(opts ...Option) *Navigation {
	base := []Option{
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithBaseURL(testBase),
	}
	return New(append(base, opts...)...)
}

// mustNavigate navigates and waits for the transition to finish.
func mustNavigate(t *testing.T, nav *Navigation, url string) *Entry {
	t.Helper()
	return mustFinish(t, nav.Navigate(testCtx(t), url, NavigateOptions{}))
}

func mustFinish(t *testing.T, res *Result) *Entry {
	t.Helper()
	entry, err := res.Finished.Wait(testCtx(t))
	require.NoError(t, err)
	return entry
}

func waitErr(t *testing.T, o *Outcome) error {
	t.Helper()
	select {
	case <-o.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("outcome did not settle")
	}
	_, err := o.Result()
	return err
}

func urls(entries []*Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = strings.TrimPrefix(e.URL(), testBase)
	}
	return out
}

func keys(entries []*Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Key()
	}
	return out
}

// recorder collects dispatched events.
type recorder struct {
	mu     sync.Mutex
	events []event.Event
}

func record(nav *Navigation, eventType string) *recorder {
	r := &recorder{}
	nav.AddListener(eventType, func(_ context.Context, evt event.Event) error {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.events = append(r.events, evt)
		return nil
	})
	return r
}

func (r *recorder) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	for i, evt := range r.events {
		out[i] = evt.Type()
	}
	return out
}

func (r *recorder) count(eventType string) int {
	n := 0
	for _, typ := range r.types() {
		if typ == eventType {
			n++
		}
	}
	return n
}

func (r *recorder) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}

func (r *recorder) entriesChanges() []*EntriesChangeEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*EntriesChangeEvent
	for _, evt := range r.events {
		if ec, ok := evt.(*EntriesChangeEvent); ok {
			out = append(out, ec)
		}
	}
	return out
}

// interceptURL intercepts navigations to any URL ending in suffix.
func interceptURL(nav *Navigation, suffix string, opts InterceptOptions) {
	nav.AddListener(EventNavigate, event.On(func(_ context.Context, e *NavigateEvent) error {
		if !strings.HasSuffix(e.Destination.URL, suffix) {
			return nil
		}
		_, err := e.InterceptWith(opts)
		return err
	}))
}

// syncBuffer is a bytes.Buffer safe for concurrent log writes.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// countingMetrics counts listener errors per event type.
type countingMetrics struct {
	observability.NoopMetrics

	mu             sync.Mutex
	listenerErrors map[string]int
}

func (m *countingMetrics) RecordListenerError(_ context.Context, eventType string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listenerErrors == nil {
		m.listenerErrors = make(map[string]int)
	}
	m.listenerErrors[eventType]++
}

func (m *countingMetrics) errors() map[string]int {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]int, len(m.listenerErrors))
	for k, v := range m.listenerErrors {
		out[k] = v
	}
	return out
}
