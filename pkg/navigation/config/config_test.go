package config

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_Accessors(t *testing.T) {
	cfg := New(map[string]any{
		"name":     "nav",
		"enabled":  true,
		"count":    3,
		"whole":    float64(4),
		"fraction": 1.5,
		"timeout":  "30s",
		"seconds":  2,
		"section":  map[string]any{"key": "value"},
	})

	assert.Equal(t, "nav", cfg.String("name", "x"))
	assert.Equal(t, "x", cfg.String("enabled", "x"), "wrong type falls back")
	assert.True(t, cfg.Bool("enabled", false))
	assert.Equal(t, 3, cfg.Int("count", 0))
	assert.Equal(t, 4, cfg.Int("whole", 0))
	assert.Equal(t, 9, cfg.Int("fraction", 9), "fractional floats are rejected")
	assert.Equal(t, 30*time.Second, cfg.Duration("timeout", 0))
	assert.Equal(t, 2*time.Second, cfg.Duration("seconds", 0))
	assert.Equal(t, time.Minute, cfg.Duration("missing", time.Minute))
	assert.Equal(t, "value", cfg.Sub("section").String("key", ""))
	assert.False(t, cfg.Sub("missing").Has("key"))
	assert.True(t, cfg.Has("name"))
	assert.Equal(t, "fallback", cfg.Any("missing", "fallback"))
	assert.Len(t, cfg.Raw(), 8)
}

func TestNew_NilMap(t *testing.T) {
	cfg := New(nil)
	assert.NotNil(t, cfg.Raw())
	assert.False(t, cfg.Has("anything"))
}

func TestFromYAML_Settings(t *testing.T) {
	cfg, err := FromYAML([]byte(`
log:
  level: debug
  format: json
base_url: https://app.example/
metrics: true
tracing: true
persistence:
  driver: redis
  dsn: localhost:6379
  prefix: navsim
  ttl: 1h
`))
	require.NoError(t, err)

	s, err := FromConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, s.LogLevel)
	assert.Equal(t, "json", s.LogFormat)
	assert.Equal(t, "https://app.example/", s.BaseURL)
	assert.True(t, s.Metrics)
	assert.True(t, s.Tracing)
	assert.Equal(t, Persistence{Driver: DriverRedis, DSN: "localhost:6379", Prefix: "navsim", TTL: time.Hour}, s.Persistence)
}

func TestFromConfig_Defaults(t *testing.T) {
	s, err := FromConfig(New(nil))
	require.NoError(t, err)
	assert.Equal(t, Default(), s)
	assert.Equal(t, slog.LevelInfo, s.LogLevel)
	assert.Equal(t, "navigation", s.Persistence.Prefix)
}

func TestFromConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data map[string]any
	}{
		{"bad level", map[string]any{"log": map[string]any{"level": "loud"}}},
		{"bad format", map[string]any{"log": map[string]any{"format": "xml"}}},
		{"bad driver", map[string]any{"persistence": map[string]any{"driver": "postgres"}}},
		{"missing dsn", map[string]any{"persistence": map[string]any{"driver": "sqlite"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromConfig(New(tt.data))
			assert.Error(t, err)
		})
	}

	_, err := FromConfig(New(map[string]any{"persistence": map[string]any{"driver": "postgres"}}))
	assert.ErrorIs(t, err, ErrUnknownDriver)
}

func TestFromJSON(t *testing.T) {
	cfg, err := FromJSON([]byte(`{"metrics": true, "persistence": {"driver": "memory"}}`))
	require.NoError(t, err)

	s, err := FromConfig(cfg)
	require.NoError(t, err)
	assert.True(t, s.Metrics)
	assert.Equal(t, DriverMemory, s.Persistence.Driver)

	_, err = FromJSON([]byte(`{`))
	assert.Error(t, err)
}

func TestLoadSettings(t *testing.T) {
	dir := t.TempDir()

	yamlPath := filepath.Join(dir, "nav.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte("base_url: https://a.example/\n"), 0o600))
	s, err := LoadSettings(yamlPath)
	require.NoError(t, err)
	assert.Equal(t, "https://a.example/", s.BaseURL)

	txtPath := filepath.Join(dir, "nav.txt")
	require.NoError(t, os.WriteFile(txtPath, []byte("x"), 0o600))
	_, err = LoadSettings(txtPath)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	missing := filepath.Join(dir, "missing.yaml")
	_, err = LoadSettings(missing)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.ErrorContains(t, err, missing)
}

func TestLoadSettings_NoExtension(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "navrc")
	require.NoError(t, os.WriteFile(path, []byte(`{"metrics": true, "log": {"format": "json"}}`), 0o600))
	s, err := LoadSettings(path)
	require.NoError(t, err)
	assert.True(t, s.Metrics)
	assert.Equal(t, "json", s.LogFormat)
}

func TestLoadSettings_EmptyFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.yml")
	require.NoError(t, os.WriteFile(path, nil, 0o600))

	s, err := LoadSettings(path)
	require.NoError(t, err)
	assert.Equal(t, Default(), s)
}

func TestLoadSettings_InvalidValueNamesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nav.yaml")
	require.NoError(t, os.WriteFile(path, []byte("persistence:\n  driver: postgres\n"), 0o600))

	_, err := LoadSettings(path)
	assert.ErrorIs(t, err, ErrUnknownDriver)
	assert.ErrorContains(t, err, path)
}

func TestSettings_Logger(t *testing.T) {
	var buf bytes.Buffer

	s := Default()
	s.LogFormat = "json"
	s.Logger(&buf).Info("hello")
	assert.Contains(t, buf.String(), `"msg":"hello"`)

	buf.Reset()
	s = Default()
	s.Logger(&buf).Debug("hidden")
	assert.Empty(t, buf.String(), "debug is below the default level")
}
