// Package config loads the optional REPL cosmetics file, ~/.lox/config.yaml.
// Nothing in the language or CLI semantics depends on it; it only tweaks
// how the REPL presents itself.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// REPL holds the cosmetic settings a user can override from config.yaml.
type REPL struct {
	// Prompt is printed before each line read from an interactive terminal.
	// Defaults to "> " if empty.
	Prompt string `yaml:"prompt,omitempty"`

	// NoColor disables ANSI coloring of diagnostics, overriding the
	// terminal-detection default. Mirrors the --no-color flag, which always
	// wins over this setting.
	NoColor bool `yaml:"no_color,omitempty"`

	// NoBanner suppresses the startup banner normally printed when the REPL
	// attaches to an interactive terminal.
	NoBanner bool `yaml:"no_banner,omitempty"`
}

// Config is the full shape of config.yaml. It currently has a single
// section; the nesting leaves room for non-REPL settings later without an
// incompatible file format change.
type Config struct {
	REPL REPL `yaml:"repl,omitempty"`
}

// Default returns the configuration used when no config file exists.
func Default() Config {
	return Config{REPL: REPL{Prompt: "> "}}
}

// Load reads and parses the config file at path. A missing file is not an
// error: it returns Default() unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing %s: %w", path, err)
	}
	if cfg.REPL.Prompt == "" {
		cfg.REPL.Prompt = "> "
	}
	return cfg, nil
}

// DefaultPath returns ~/.lox/config.yaml, or "" if the home directory
// cannot be determined (in which case the caller should fall back to
// Default() without attempting to load a file).
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".lox", "config.yaml")
}
