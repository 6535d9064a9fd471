// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"github.com/pkgplan/pkgplan/internal/config"
	"github.com/pkgplan/pkgplan/pkg/manifest"
)

type (
	// App wires CLI services and shared dependencies. It is the composition
	// root for the CLI layer; every command handler receives it.
	App struct {
		Config ConfigProvider
		stdout io.Writer
		stderr io.Writer

		// Set by the root command before any subcommand runs.
		cfg    *config.Config
		logger *log.Logger
	}

	// Dependencies defines the injection points for building an App. Nil
	// fields are replaced with production defaults by NewApp.
	Dependencies struct {
		Config ConfigProvider
		Stdout io.Writer
		Stderr io.Writer
	}

	// ConfigProvider loads configuration using explicit options.
	ConfigProvider interface {
		Load(ctx context.Context, opts config.LoadOptions) (*config.Config, error)
	}

	rootFlagValues struct {
		configPath string
		verbose    bool
	}
)

// NewApp builds an App, filling nil dependencies with production defaults.
func NewApp(deps Dependencies) *App {
	app := &App{
		Config: deps.Config,
		stdout: deps.Stdout,
		stderr: deps.Stderr,
	}
	if app.Config == nil {
		app.Config = config.NewProvider()
	}
	if app.stdout == nil {
		app.stdout = os.Stdout
	}
	if app.stderr == nil {
		app.stderr = os.Stderr
	}
	return app
}

// setup loads configuration and builds the logger. Command-line verbosity
// wins over ui.verbose.
func (a *App) setup(ctx context.Context, flags *rootFlagValues) error {
	cfg, err := a.Config.Load(ctx, config.LoadOptions{ConfigFilePath: flags.configPath})
	if err != nil {
		return failure(err)
	}
	if !flags.verbose {
		flags.verbose = cfg.UI.Verbose
	}
	if !cfg.UI.Color {
		disableColor()
	}

	level := cfg.LogLevel.Level()
	if flags.verbose {
		level = log.DebugLevel
	}
	a.cfg = cfg
	a.logger = log.NewWithOptions(a.stderr, log.Options{
		Prefix: config.AppName,
		Level:  level,
	})
	a.logger.Debug("configuration loaded", "source", cfg.Source)
	return nil
}

// manifestPath returns the positional manifest argument or the configured
// default.
func (a *App) manifestPath(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return a.cfg.Manifest
}

// loadManifest reads and parses the manifest named by args.
func (a *App) loadManifest(args []string) (*manifest.Manifest, string, error) {
	path := a.manifestPath(args)
	m, err := manifest.Load(path, manifest.WithLogger(a.logger))
	if err != nil {
		return nil, path, manifestFailure("load manifest", path, err)
	}
	return m, path, nil
}
