// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for pkgplan.
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/pkgplan/pkgplan/pkg/types"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// newRootCommand builds the command tree around app. flags receives the
// persistent flag values so the error handler can read --verbose.
func newRootCommand(app *App, flags *rootFlagValues) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "pkgplan",
		Short: "Resolve binary-framework package manifests into link plans",
		Long: TitleStyle.Render("pkgplan") + SubtitleStyle.Render(" - resolve package manifests into link plans") + `

pkgplan reads a declarative package manifest (targets, products and platform
floors), validates it, orders targets so every dependency comes first, and
prints a deterministic build/link plan per product. It never builds anything.

Manifests may be written in CUE, JSON, YAML, TOML or HCL.

` + SubtitleStyle.Render("Examples:") + `
  pkgplan resolve                    Plan every product of ./pkgplan.cue
  pkgplan resolve Package.yaml -p Lynx -o json
  pkgplan validate                   Check the manifest and exit
  pkgplan graph | dot -Tsvg > deps.svg`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return app.setup(cmd.Context(), flags)
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "enable debug logs, issue guides and full error chains")
	rootCmd.PersistentFlags().StringVar(&flags.configPath, "config", "", "config file (default is $XDG_CONFIG_HOME/pkgplan/config.cue)")

	rootCmd.AddCommand(
		newResolveCommand(app),
		newValidateCommand(app),
		newOrderCommand(app),
		newProductsCommand(app),
		newGraphCommand(app),
		newConfigCommand(app),
	)

	return rootCmd
}

func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute runs the CLI and exits with 0 on success, 1 on a manifest or
// configuration failure and 2 on a usage error.
func Execute() {
	os.Exit(int(run(context.Background(), NewApp(Dependencies{}), os.Args[1:])))
}

func run(ctx context.Context, app *App, args []string) types.ExitCode {
	flags := &rootFlagValues{}
	rootCmd := newRootCommand(app, flags)
	rootCmd.SetArgs(args)
	rootCmd.SetOut(app.stdout)
	rootCmd.SetErr(app.stderr)

	err := fang.Execute(
		ctx,
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
		fang.WithErrorHandler(func(w io.Writer, styles fang.Styles, err error) {
			if exitCodeFor(err) == types.ExitFailure {
				reportFailure(w, app, err, flags.verbose)
				return
			}
			fang.DefaultErrorHandler(w, styles, err)
		}),
	)
	return exitCodeFor(err)
}
