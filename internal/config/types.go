// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/pkgplan/pkgplan/pkg/buildplan"
)

const (
	// LogLevelDebug logs loader and watcher details.
	LogLevelDebug LogLevel = "debug"
	// LogLevelInfo logs high-level progress.
	LogLevelInfo LogLevel = "info"
	// LogLevelWarn logs only problems. This is the default.
	LogLevelWarn LogLevel = "warn"
	// LogLevelError logs only failures.
	LogLevelError LogLevel = "error"

	// DefaultManifest is the manifest resolved when no path is given.
	DefaultManifest = "pkgplan.cue"
	// DefaultDebounce is the quiet period before a watch re-run.
	DefaultDebounce = 300 * time.Millisecond
)

var (
	// ErrInvalidLogLevel is the sentinel error wrapped by InvalidLogLevelError.
	ErrInvalidLogLevel = errors.New("invalid log level")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// LogLevel is the minimum level the CLI logger emits.
	LogLevel string

	// InvalidLogLevelError is returned for an unknown LogLevel.
	InvalidLogLevelError struct {
		Value LogLevel
	}

	// InvalidConfigError collects every invalid field of a Config.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config holds the application configuration.
	Config struct {
		// Manifest is the default manifest path.
		Manifest string `json:"manifest" mapstructure:"manifest"`
		// Output is the default plan encoding.
		Output buildplan.Format `json:"output" mapstructure:"output"`
		// LogLevel is the minimum level written to stderr.
		LogLevel LogLevel `json:"log_level" mapstructure:"log_level"`
		// UI holds presentation settings.
		UI UIConfig `json:"ui" mapstructure:"ui"`
		// Watch holds settings for --watch.
		Watch WatchConfig `json:"watch" mapstructure:"watch"`

		// Source is the file the configuration was read from, or "" when
		// only defaults and the environment apply.
		Source string `json:"-" mapstructure:"-"`
	}

	// UIConfig holds presentation settings.
	UIConfig struct {
		// Verbose adds issue guides and full error chains to failures.
		Verbose bool `json:"verbose" mapstructure:"verbose"`
		// Color enables styled output when the terminal supports it.
		Color bool `json:"color" mapstructure:"color"`
	}

	// WatchConfig holds settings for --watch.
	WatchConfig struct {
		// Debounce is the quiet period after the last change before re-resolving.
		Debounce time.Duration `json:"debounce" mapstructure:"debounce"`
	}
)

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		Manifest: DefaultManifest,
		Output:   buildplan.FormatText,
		LogLevel: LogLevelWarn,
		UI: UIConfig{
			Verbose: false,
			Color:   true,
		},
		Watch: WatchConfig{
			Debounce: DefaultDebounce,
		},
	}
}

func (l LogLevel) String() string { return string(l) }

// Validate returns nil if l is one of the four supported levels.
func (l LogLevel) Validate() error {
	switch l {
	case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
		return nil
	default:
		return &InvalidLogLevelError{Value: l}
	}
}

// Level maps l to a charmbracelet/log level, defaulting to warn.
func (l LogLevel) Level() log.Level {
	lvl, err := log.ParseLevel(string(l))
	if err != nil {
		return log.WarnLevel
	}
	return lvl
}

// Error implements the error interface.
func (e *InvalidLogLevelError) Error() string {
	return fmt.Sprintf("invalid log level %q (expected debug, info, warn or error)", e.Value)
}

// Unwrap returns ErrInvalidLogLevel.
func (e *InvalidLogLevelError) Unwrap() error { return ErrInvalidLogLevel }

// Validate checks values that may have bypassed the CUE schema through
// environment overrides.
func (c *Config) Validate() error {
	var errs []error
	if c.Manifest == "" {
		errs = append(errs, errors.New("manifest: must not be empty"))
	}
	if err := c.Output.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("output: %w", err))
	}
	if err := c.LogLevel.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("log_level: %w", err))
	}
	if c.Watch.Debounce < 0 {
		errs = append(errs, fmt.Errorf("watch.debounce: must not be negative, got %s", c.Watch.Debounce))
	}
	if len(errs) > 0 {
		return &InvalidConfigError{FieldErrors: errs}
	}
	return nil
}

// Error implements the error interface.
func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid config: %v", errors.Join(e.FieldErrors...))
}

// Unwrap returns ErrInvalidConfig together with the field errors.
func (e *InvalidConfigError) Unwrap() []error {
	return append([]error{ErrInvalidConfig}, e.FieldErrors...)
}
