package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrUnsupportedFormat indicates a settings file whose extension is neither
// YAML nor JSON.
var ErrUnsupportedFormat = errors.New("unsupported settings format")

// FromFile reads a navigation settings file. The format follows the
// extension: .yaml and .yml are YAML, .json is JSON. A file without an
// extension is read as YAML, which also accepts JSON documents.
func FromFile(path string) (Config, error) {
	var parse func([]byte) (Config, error)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml", "":
		parse = FromYAML
	case ".json":
		parse = FromJSON
	default:
		return Config{}, fmt.Errorf("settings %s: %w %q", path, ErrUnsupportedFormat, ext)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("settings %s: %w", path, err)
	}
	cfg, err := parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("settings %s: %w", path, err)
	}
	return cfg, nil
}

// FromYAML parses a YAML settings document. An empty document yields an
// empty Config, so every setting takes its default.
func FromYAML(data []byte) (Config, error) {
	var m map[string]any
	if err := yaml.Unmarshal(data, &m); err != nil {
		return Config{}, fmt.Errorf("decode yaml settings: %w", err)
	}
	return New(m), nil
}

// FromJSON parses a JSON settings document.
func FromJSON(data []byte) (Config, error) {
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return Config{}, fmt.Errorf("decode json settings: %w", err)
	}
	return New(m), nil
}

// LoadSettings reads the settings file at path and resolves it against the
// defaults. navsim calls it for --config.
func LoadSettings(path string) (Settings, error) {
	cfg, err := FromFile(path)
	if err != nil {
		return Settings{}, err
	}
	s, err := FromConfig(cfg)
	if err != nil {
		return Settings{}, fmt.Errorf("settings %s: %w", path, err)
	}
	return s, nil
}
