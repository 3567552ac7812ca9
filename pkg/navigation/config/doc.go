/*
Package config loads navigation settings from YAML or JSON.

# Overview

Config wraps a map[string]any and provides typed accessors that return a
default when a key is missing or has the wrong type:

	cfg := config.New(map[string]any{
	    "base_url": "https://app.example/",
	    "metrics":  true,
	})

	base := cfg.String("base_url", "")  // "https://app.example/"
	tracing := cfg.Bool("tracing", false) // false

Nested sections are read with Sub:

	ttl := cfg.Sub("persistence").Duration("ttl", 0)

# Settings

FromConfig validates a Config into Settings, the typed form consumed by the
navsim CLI and by navigation.OptionsFromSettings:

	settings, err := config.LoadSettings("navsim.yaml")
	if err != nil {
	    return err
	}
	logger := settings.Logger(os.Stderr)

# Thread Safety

Config is safe for concurrent read access. The underlying map is not
modified after creation.
*/
package config
