// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pkgplan/pkgplan/internal/watch"
	"github.com/pkgplan/pkgplan/pkg/buildplan"
	"github.com/pkgplan/pkgplan/pkg/manifest"
)

type resolveFlagValues struct {
	products []string
	output   string
	watch    bool
}

func newResolveCommand(app *App) *cobra.Command {
	flags := &resolveFlagValues{}

	cmd := &cobra.Command{
		Use:   "resolve [manifest]",
		Short: "Print the build/link plan for every product or the selected ones",
		Long: `Resolve loads and validates a manifest, then prints one ordered link plan
per product. Every target appears after all of its dependencies.

The output format defaults to the 'output' configuration key.`,
		Example: `  pkgplan resolve
  pkgplan resolve Package.hcl -p LynxService -o yaml
  pkgplan resolve --watch`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format := app.cfg.Output
			if cmd.Flags().Changed("output") {
				if err := invalidFormat(flags.output); err != nil {
					return err
				}
				format = buildplan.Format(flags.output)
			}
			products := make([]manifest.ProductName, len(flags.products))
			for i, p := range flags.products {
				products[i] = manifest.ProductName(p)
			}

			if flags.watch {
				return runWatchMode(cmd, app, args, products, format)
			}
			return resolveOnce(cmd.OutOrStdout(), app, args, products, format)
		},
	}

	cmd.Flags().StringArrayVarP(&flags.products, "product", "p", nil, "plan only this product (repeatable)")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output format: text, json, yaml or toml")
	cmd.Flags().BoolVarP(&flags.watch, "watch", "w", false, "re-resolve whenever the manifest changes")

	return cmd
}

// resolveOnce builds a fresh Manifest and plan and writes the plan to w.
func resolveOnce(w io.Writer, app *App, args []string, products []manifest.ProductName, format buildplan.Format) error {
	m, path, err := app.loadManifest(args)
	if err != nil {
		return err
	}

	plan, err := buildplan.Build(m, products...)
	if err != nil {
		return manifestFailure("resolve manifest", path, err)
	}
	app.logger.Debug("plan built", "products", len(plan.Products), "digest", plan.Digest)

	if err := buildplan.Encode(w, plan, format); err != nil {
		return failure(fmt.Errorf("write plan: %w", err))
	}
	return nil
}

// runWatchMode resolves once, then again after every debounced change to the
// manifest file until the context is cancelled. Failed runs are reported and
// watching continues.
func runWatchMode(cmd *cobra.Command, app *App, args []string, products []manifest.ProductName, format buildplan.Format) error {
	path := app.manifestPath(args)
	stdout := cmd.OutOrStdout()
	stderr := cmd.ErrOrStderr()

	run := func() {
		if err := resolveOnce(stdout, app, []string{path}, products, format); err != nil {
			reportFailure(stderr, app, err, false)
		}
	}

	run()
	fmt.Fprintln(stderr, SubtitleStyle.Render("→ watching "+path+" for changes (Ctrl+C to stop)"))

	w, err := watch.New(watch.Config{
		BaseDir:  filepath.Dir(path),
		Patterns: []string{watch.Literal(filepath.Base(path))},
		Debounce: app.cfg.Watch.Debounce,
		Logger:   app.logger,
		OnChange: func(_ context.Context, _ []string) error {
			fmt.Fprintln(stderr, SubtitleStyle.Render("→ "+path+" changed, resolving"))
			run()
			return nil
		},
	})
	if err != nil {
		return failure(fmt.Errorf("start watcher: %w", err))
	}
	if err := w.Run(cmd.Context()); err != nil {
		return failure(err)
	}
	return nil
}
