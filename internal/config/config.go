// Package config loads the optional lasermark.toml configuration file,
// which overrides the default point settings and the instrument-dialect
// column names.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"lasermark/internal/csvio"
	"lasermark/internal/point"
)

// FileName is the configuration file looked up in the working directory
// and under the user config directory.
const FileName = "lasermark.toml"

// Config holds everything the CLI reads from lasermark.toml.
type Config struct {
	Point      point.Settings         `toml:"point"`
	Instrument csvio.InstrumentFormat `toml:"instrument"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Point:      point.DefaultSettings(),
		Instrument: csvio.DefaultInstrumentFormat(),
	}
}

// Load reads the configuration at path. An empty path searches the
// working directory, then ~/.config/lasermark/. A missing file is not
// an error: the defaults apply.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = locate()
		if path == "" {
			return cfg, nil
		}
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, fmt.Errorf("open %s: %w", path, err)
		}
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}

	// Fold a hand-typed label spelling to its canonical form so points
	// built from these settings match label queries.
	label, err := point.ParseLabel(string(cfg.Point.Label))
	if err != nil {
		return cfg, fmt.Errorf("%s: point settings: %w", path, err)
	}
	cfg.Point.Label = label

	if err := cfg.Point.NewPoint(0, 0).Validate(); err != nil {
		return cfg, fmt.Errorf("%s: point settings: %w", path, err)
	}
	return cfg, nil
}

// locate finds the nearest configuration file, if any.
func locate() string {
	if _, err := os.Stat(FileName); err == nil {
		return FileName
	}

	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir = filepath.Join(os.Getenv("HOME"), ".config")
	}
	candidate := filepath.Join(configDir, "lasermark", FileName)
	if _, err := os.Stat(candidate); err == nil {
		return candidate
	}
	return ""
}
