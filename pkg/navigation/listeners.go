package navigation

import (
	"context"

	naverrors "github.com/randalmurphal/navigation/pkg/navigation/errors"
	"github.com/randalmurphal/navigation/pkg/navigation/event"
	"github.com/randalmurphal/navigation/pkg/navigation/observability"
)

// currentChangeAlias is the legacy name for EventCurrentEntryChange.
const currentChangeAlias = "currentchange"

// listeners gives Navigation and Entry their public subscription methods
// while keeping Dispatch private to the package.
type listeners struct {
	target *event.Target
}

func newListeners() listeners {
	return listeners{target: event.NewTarget()}
}

func canonicalType(eventType string) string {
	if eventType == currentChangeAlias {
		return EventCurrentEntryChange
	}
	return eventType
}

// AddListener registers fn for eventType (or event.Wildcard).
func (l listeners) AddListener(eventType string, fn event.Listener, opts ...event.ListenerOption) *event.Registration {
	return l.target.AddListener(canonicalType(eventType), fn, opts...)
}

// RemoveListener unregisters a listener returned by AddListener.
func (l listeners) RemoveListener(reg *event.Registration) {
	l.target.RemoveListener(reg)
}

// HasListener reports whether any listener would receive eventType.
func (l listeners) HasListener(eventType string) bool {
	return l.target.HasListener(canonicalType(eventType))
}

// SetHandler installs the property-style handler for eventType, like
// assigning onnavigate. A nil fn clears it.
func (l listeners) SetHandler(eventType string, fn event.Listener) {
	l.target.SetHandler(canonicalType(eventType), fn)
}

// Use adds dispatch middleware.
func (l listeners) Use(mw event.Middleware) {
	l.target.Use(mw)
}

func (l listeners) dispatch(ctx context.Context, evt event.Event) error {
	return l.target.Dispatch(ctx, evt)
}

// listenerErrors reports every failing listener of n and of its entries: a
// warning log and the listener-error metric. Aborts are not failures.
func (n *Navigation) listenerErrors() event.Middleware {
	return event.ErrorMiddleware(func(eventType string, err error) {
		if naverrors.IsAbort(err) {
			return
		}
		observability.LogListenerError(n.logger, eventType, err)
		n.metrics.RecordListenerError(context.Background(), eventType)
	})
}
