package event

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/randalmurphal/navigation/pkg/navigation/signal"
)

// Wildcard matches every event type.
const Wildcard = "*"

// Mode selects how a dispatch runs its listeners.
type Mode int

const (
	// ModeSequential runs listeners one at a time in registration order.
	ModeSequential Mode = iota

	// ModeParallel runs all listeners concurrently and waits for all.
	ModeParallel
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeSequential:
		return "sequential"
	case ModeParallel:
		return "parallel"
	default:
		return "unknown"
	}
}

// Event is the core interface for everything dispatched through a Target.
type Event interface {
	// ID is a unique identifier for this dispatch.
	ID() string

	// Type is the event type (e.g. "navigate", "dispose").
	Type() string

	// Timestamp is when the event was created.
	Timestamp() time.Time

	// Signal is the abort signal tied to the event, or nil.
	Signal() *signal.Signal

	// Mode selects sequential or parallel listener execution.
	Mode() Mode
}

// Base provides the common Event fields. Embed it in concrete events.
type Base struct {
	EventID      string
	EventType    string
	CreatedAt    time.Time
	AbortSignal  *signal.Signal
	DispatchMode Mode
}

// ID returns the event identifier.
func (b *Base) ID() string {
	return b.EventID
}

// Type returns the event type.
func (b *Base) Type() string {
	return b.EventType
}

// Timestamp returns when the event was created.
func (b *Base) Timestamp() time.Time {
	return b.CreatedAt
}

// Signal returns the abort signal, or nil.
func (b *Base) Signal() *signal.Signal {
	return b.AbortSignal
}

// Mode returns the dispatch mode.
func (b *Base) Mode() Mode {
	return b.DispatchMode
}

// Option configures a Base.
type Option func(*Base)

// WithSignal ties the event to an abort signal.
func WithSignal(s *signal.Signal) Option {
	return func(b *Base) {
		b.AbortSignal = s
	}
}

// WithMode sets the dispatch mode (default: ModeSequential).
func WithMode(m Mode) Option {
	return func(b *Base) {
		b.DispatchMode = m
	}
}

// WithTimestamp sets a specific creation time (default: time.Now()).
func WithTimestamp(t time.Time) Option {
	return func(b *Base) {
		b.CreatedAt = t
	}
}

// WithEventID sets a specific event ID (default: auto-generated UUID).
func WithEventID(id string) Option {
	return func(b *Base) {
		b.EventID = id
	}
}

// NewBase creates the common fields for an event of the given type.
func NewBase(eventType string, opts ...Option) Base {
	b := Base{
		EventID:   uuid.New().String(),
		EventType: eventType,
		CreatedAt: time.Now(),
	}
	for _, opt := range opts {
		opt(&b)
	}
	return b
}

// Simple is a payload-free event, useful for notifications such as
// "finish" and for tests.
type Simple struct {
	Base
}

// New creates a payload-free event.
func New(eventType string, opts ...Option) *Simple {
	return &Simple{Base: NewBase(eventType, opts...)}
}

// Listener handles a dispatched event. Returning an error fails the
// dispatch (sequential mode) or contributes to an aggregate (parallel mode).
type Listener func(ctx context.Context, evt Event) error

// On adapts a listener for a concrete event type. Events of other types are
// ignored, which makes On safe to combine with wildcard registration.
func On[E Event](fn func(ctx context.Context, evt E) error) Listener {
	return func(ctx context.Context, evt Event) error {
		typed, ok := evt.(E)
		if !ok {
			return nil
		}
		return fn(ctx, typed)
	}
}

// Middleware wraps listeners to add cross-cutting concerns.
type Middleware func(eventType string, next Listener) Listener

// chain applies middleware in order, with the first middleware outermost.
func chain(eventType string, l Listener, mw []Middleware) Listener {
	for i := len(mw) - 1; i >= 0; i-- {
		l = mw[i](eventType, l)
	}
	return l
}

// LoggingMiddleware reports each listener invocation.
func LoggingMiddleware(logFn func(eventType string, duration time.Duration, err error)) Middleware {
	return func(eventType string, next Listener) Listener {
		return func(ctx context.Context, evt Event) error {
			start := time.Now()
			err := next(ctx, evt)
			logFn(eventType, time.Since(start), err)
			return err
		}
	}
}

// ErrorMiddleware calls onError for every listener failure.
func ErrorMiddleware(onError func(eventType string, err error)) Middleware {
	return func(eventType string, next Listener) Listener {
		return func(ctx context.Context, evt Event) error {
			err := next(ctx, evt)
			if err != nil && onError != nil {
				onError(eventType, err)
			}
			return err
		}
	}
}
