package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"
)

// Persistence drivers understood by the snapshot package.
const (
	DriverNone   = ""
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
	DriverRedis  = "redis"
)

// ErrUnknownDriver indicates persistence.driver names no known store.
var ErrUnknownDriver = errors.New("unknown persistence driver")

// Settings is the typed view of a navigation config file.
type Settings struct {
	// LogLevel is the minimum slog level. Default: info.
	LogLevel slog.Level

	// LogFormat is "text" (default) or "json".
	LogFormat string

	// BaseURL resolves relative navigation URLs when there is no current entry.
	BaseURL string

	// Metrics enables OpenTelemetry metrics.
	Metrics bool

	// Tracing enables OpenTelemetry spans.
	Tracing bool

	// Persistence selects the snapshot store.
	Persistence Persistence
}

// Persistence configures snapshot storage.
type Persistence struct {
	// Driver is one of DriverNone, DriverMemory, DriverSQLite, DriverRedis.
	Driver string

	// DSN is the SQLite file path or the Redis address.
	DSN string

	// Prefix namespaces Redis keys. Default: "navigation".
	Prefix string

	// TTL expires Redis snapshots. Zero keeps them forever.
	TTL time.Duration
}

// Default returns the settings used when no config file is given.
func Default() Settings {
	return Settings{
		LogLevel:  slog.LevelInfo,
		LogFormat: "text",
		Persistence: Persistence{
			Prefix: "navigation",
		},
	}
}

// FromConfig builds Settings from a Config, validating enumerated values.
//
// Recognised keys:
//
//	log:
//	  level: debug|info|warn|error
//	  format: text|json
//	base_url: https://app.example/
//	metrics: true
//	tracing: true
//	persistence:
//	  driver: memory|sqlite|redis
//	  dsn: navigation.db
//	  prefix: navigation
//	  ttl: 24h
func FromConfig(cfg Config) (Settings, error) {
	s := Default()

	logCfg := cfg.Sub("log")
	if lvl := logCfg.String("level", ""); lvl != "" {
		if err := s.LogLevel.UnmarshalText([]byte(lvl)); err != nil {
			return Settings{}, fmt.Errorf("log.level: %w", err)
		}
	}
	s.LogFormat = strings.ToLower(logCfg.String("format", s.LogFormat))
	if s.LogFormat != "text" && s.LogFormat != "json" {
		return Settings{}, fmt.Errorf("log.format: unsupported format %q", s.LogFormat)
	}

	s.BaseURL = cfg.String("base_url", s.BaseURL)
	s.Metrics = cfg.Bool("metrics", s.Metrics)
	s.Tracing = cfg.Bool("tracing", s.Tracing)

	p := cfg.Sub("persistence")
	s.Persistence.Driver = strings.ToLower(p.String("driver", s.Persistence.Driver))
	s.Persistence.DSN = p.String("dsn", s.Persistence.DSN)
	s.Persistence.Prefix = p.String("prefix", s.Persistence.Prefix)
	s.Persistence.TTL = p.Duration("ttl", s.Persistence.TTL)

	switch s.Persistence.Driver {
	case DriverNone, DriverMemory, DriverSQLite, DriverRedis:
	default:
		return Settings{}, fmt.Errorf("%w: %q", ErrUnknownDriver, s.Persistence.Driver)
	}
	if (s.Persistence.Driver == DriverSQLite || s.Persistence.Driver == DriverRedis) && s.Persistence.DSN == "" {
		return Settings{}, fmt.Errorf("persistence.dsn required for driver %q", s.Persistence.Driver)
	}

	return s, nil
}

// Logger builds an slog logger writing to w according to the log settings.
func (s Settings) Logger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: s.LogLevel}
	if s.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
