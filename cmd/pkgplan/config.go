// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pkgplan/pkgplan/internal/config"
)

// newConfigCommand creates the `pkgplan config` command tree. The root
// command has already loaded the effective configuration into app.
func newConfigCommand(app *App) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect pkgplan configuration",
		Long: `Inspect pkgplan configuration.

Configuration is read from the --config file, else from:
  - Linux: ~/.config/pkgplan/config.cue
  - macOS: ~/Library/Application Support/pkgplan/config.cue
  - Windows: %APPDATA%\pkgplan\config.cue
and finally ./config.cue. PKGPLAN_* environment variables override any key.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			showConfig(cmd.OutOrStdout(), app.cfg)
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show the configuration file in use",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if app.cfg.Source != "" {
				fmt.Fprintln(cmd.OutOrStdout(), app.cfg.Source)
				return nil
			}
			dir, err := config.ConfigDir()
			if err != nil {
				return failure(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n",
				filepath.Join(dir, config.ConfigFileName+"."+config.ConfigFileExt),
				SubtitleStyle.Render("(not present, using defaults)"))
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create a default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, created, err := config.CreateDefaultConfig("")
			if err != nil {
				return failure(err)
			}
			if !created {
				fmt.Fprintf(cmd.OutOrStdout(), "%s already exists\n", path)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s created %s\n", SuccessStyle.Render("✓"), path)
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "dump",
		Short: "Output the effective configuration as CUE",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprint(cmd.OutOrStdout(), config.GenerateCUE(app.cfg))
			return nil
		},
	})

	return cfgCmd
}

func showConfig(w io.Writer, cfg *config.Config) {
	fmt.Fprintln(w, TitleStyle.Render("Current Configuration"))
	fmt.Fprintln(w)

	source := SubtitleStyle.Render("(using defaults)")
	if cfg.Source != "" {
		source = cfg.Source
	}
	fmt.Fprintf(w, "%s: %s\n\n", KeyStyle.Render("Config file"), source)

	rows := [][2]string{
		{"manifest", cfg.Manifest},
		{"output", cfg.Output.String()},
		{"log_level", cfg.LogLevel.String()},
		{"ui.verbose", fmt.Sprint(cfg.UI.Verbose)},
		{"ui.color", fmt.Sprint(cfg.UI.Color)},
		{"watch.debounce", cfg.Watch.Debounce.String()},
	}
	for _, r := range rows {
		fmt.Fprintf(w, "%s: %s\n", KeyStyle.Render(r[0]), SuccessStyle.Render(r[1]))
	}
}
