package navigation

import (
	"log/slog"
	"net/url"
	"time"

	"github.com/randalmurphal/navigation/pkg/navigation/config"
	"github.com/randalmurphal/navigation/pkg/navigation/observability"
)

// Option configures a Navigation.
type Option func(*Navigation)

// WithLogger sets the logger. Default: slog.Default().
// A nil logger disables logging.
func WithLogger(logger *slog.Logger) Option {
	return func(n *Navigation) {
		n.logger = logger
	}
}

// WithMetrics sets the metrics recorder. Default: observability.NoopMetrics{}.
//
// Example:
//
//	nav := navigation.New(navigation.WithMetrics(observability.NewMetricsRecorder()))
func WithMetrics(m observability.MetricsRecorder) Option {
	return func(n *Navigation) {
		if m != nil {
			n.metrics = m
		}
	}
}

// WithTracing sets the span manager. Default: observability.NoopSpanManager{}.
func WithTracing(s observability.SpanManager) Option {
	return func(n *Navigation) {
		if s != nil {
			n.spans = s
		}
	}
}

// WithClock sets the time source used for event timestamps and transition
// durations. Default: time.Now.
func WithClock(now func() time.Time) Option {
	return func(n *Navigation) {
		if now != nil {
			n.clock = now
		}
	}
}

// WithBaseURL sets the URL that relative navigations resolve against when
// the current entry has no absolute URL. Invalid URLs are ignored.
func WithBaseURL(base string) Option {
	return func(n *Navigation) {
		if u, err := url.Parse(base); err == nil && u.IsAbs() {
			n.baseURL = u
		}
	}
}

// EntryInit describes an entry seeded by WithInitialEntries.
type EntryInit struct {
	URL           string
	Key           string // empty generates a new key
	State         any
	CrossDocument bool
}

// WithInitialEntries seeds the entry list without firing any events, e.g.
// when restoring a persisted session. Every entry gets a new ID; keys are
// kept. An index outside the list selects the last entry.
func WithInitialEntries(entries []EntryInit, index int) Option {
	return func(n *Navigation) {
		n.initial = entries
		n.initialIndex = index
	}
}

// OptionsFromSettings translates loaded settings into engine options.
func OptionsFromSettings(s config.Settings, logger *slog.Logger) []Option {
	opts := []Option{WithLogger(logger)}
	if s.BaseURL != "" {
		opts = append(opts, WithBaseURL(s.BaseURL))
	}
	if s.Metrics {
		opts = append(opts, WithMetrics(observability.NewMetricsRecorder()))
	}
	if s.Tracing {
		opts = append(opts, WithTracing(observability.NewSpanManager()))
	}
	return opts
}
