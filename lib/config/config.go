// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"slices"

	"gopkg.in/yaml.v3"
)

// EnvironmentVariable names the variable [Load] reads the config path
// from.
const EnvironmentVariable = "PANELFORGE_CONFIG"

// ColorMode selects how the preview renders color.
type ColorMode string

const (
	// ColorAuto detects the terminal's color profile.
	ColorAuto ColorMode = "auto"
	// ColorAlways forces true color.
	ColorAlways ColorMode = "always"
	// ColorNever renders plain text.
	ColorNever ColorMode = "never"
)

// Config is the master configuration for panelforge.
type Config struct {
	// Paths configures file locations.
	Paths PathsConfig `yaml:"paths"`

	// Preview configures the interactive preview.
	Preview PreviewConfig `yaml:"preview"`

	// Log configures logging.
	Log LogConfig `yaml:"log"`
}

// PathsConfig configures file locations.
type PathsConfig struct {
	// Root is the base directory for panelforge data. Other paths may
	// refer to it as ${PANELFORGE_ROOT}.
	Root string `yaml:"root"`

	// Layout is the panel layout file (YAML, or JSONC when the
	// extension is .json or .jsonc).
	Layout string `yaml:"layout"`

	// State is where the preview persists its visibility snapshot.
	// Empty disables persistence.
	State string `yaml:"state"`
}

// PreviewConfig configures the interactive preview.
type PreviewConfig struct {
	// FrameRate is the redraw rate while fades are in flight.
	// Default: 60
	FrameRate int `yaml:"frame_rate"`

	// Color is one of auto, always, never.
	// Default: auto
	Color ColorMode `yaml:"color"`

	// Story, when set, renders only this panel ("name@group").
	Story string `yaml:"story"`
}

// LogConfig configures logging.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	// Default: info
	Level string `yaml:"level"`

	// Output is an optional file receiving JSON log records in
	// addition to the preview's status bar.
	Output string `yaml:"output"`
}

// Default returns the default configuration. Loaded files are decoded
// over it, so fields a file omits keep these values.
func Default() *Config {
	homeDir, _ := os.UserHomeDir()
	defaultRoot := filepath.Join(homeDir, ".cache", "panelforge")

	return &Config{
		Paths: PathsConfig{
			Root:   defaultRoot,
			Layout: "panels.yaml",
			State:  filepath.Join(defaultRoot, "state.cbor"),
		},
		Preview: PreviewConfig{
			FrameRate: 60,
			Color:     ColorAuto,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from the PANELFORGE_CONFIG environment
// variable. If the variable is not set, this fails.
func Load() (*Config, error) {
	configPath := os.Getenv(EnvironmentVariable)
	if configPath == "" {
		return nil, fmt.Errorf("%s environment variable not set; "+
			"set it to the path of your panelforge.yaml config file, or use --config flag", EnvironmentVariable)
	}

	return LoadFile(configPath)
}

// LoadFile loads configuration from a specific file path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}

	config := Default()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}

	config.expandVariables()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return config, nil
}

// expandVariables expands ${VAR} and ${VAR:-default} patterns in paths.
func (c *Config) expandVariables() {
	vars := map[string]string{
		"PANELFORGE_ROOT": c.Paths.Root,
		"HOME":            os.Getenv("HOME"),
	}

	c.Paths.Root = expandVars(c.Paths.Root, vars)
	vars["PANELFORGE_ROOT"] = c.Paths.Root // Update for dependent paths.

	c.Paths.Layout = expandVars(c.Paths.Layout, vars)
	c.Paths.State = expandVars(c.Paths.State, vars)
	c.Log.Output = expandVars(c.Log.Output, vars)
}

var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

// expandVars expands ${VAR} and ${VAR:-default} patterns. Names in vars
// take precedence over the environment.
func expandVars(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		name := parts[1]
		defaultValue := ""
		if len(parts) >= 3 {
			defaultValue = parts[2]
		}

		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		return defaultValue
	})
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	if c.Paths.Layout == "" {
		errs = append(errs, fmt.Errorf("paths.layout is required"))
	}

	if c.Preview.FrameRate < 1 || c.Preview.FrameRate > 240 {
		errs = append(errs, fmt.Errorf("preview.frame_rate must be between 1 and 240, got %d", c.Preview.FrameRate))
	}

	colorModes := []ColorMode{ColorAuto, ColorAlways, ColorNever}
	if !slices.Contains(colorModes, c.Preview.Color) {
		errs = append(errs, fmt.Errorf("preview.color must be one of: %v", colorModes))
	}

	if _, err := ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// ParseLevel converts a level name to a slog level.
func ParseLevel(name string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(name)); err != nil {
		return 0, fmt.Errorf("unknown log level %q", name)
	}
	return level, nil
}

// LogLevel returns the configured level. Call after [Config.Validate].
func (c *Config) LogLevel() slog.Level {
	level, _ := ParseLevel(c.Log.Level)
	return level
}

// EnsurePaths creates the directories that hold configured output
// files.
func (c *Config) EnsurePaths() error {
	for _, path := range []string{c.Paths.State, c.Log.Output} {
		if path == "" {
			continue
		}
		directory := filepath.Dir(path)
		if err := os.MkdirAll(directory, 0755); err != nil {
			return fmt.Errorf("creating %s: %w", directory, err)
		}
	}
	return nil
}
