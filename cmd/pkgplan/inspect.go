// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pkgplan/pkgplan/pkg/buildplan"
)

func newValidateCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [manifest]",
		Short: "Check a manifest and report the first problem",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, path, err := app.loadManifest(args)
			if err != nil {
				return err
			}
			if err := m.Validate(); err != nil {
				return manifestFailure("validate manifest", path, err)
			}

			name := m.Name()
			if name == "" {
				name = path
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s is valid: %d targets, %d products\n",
				SuccessStyle.Render("✓"), KeyStyle.Render(name), len(m.TargetNames()), len(m.ProductNames()))
			return nil
		},
	}
}

func newOrderCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "order [manifest]",
		Short: "Print every target, dependencies first",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, path, err := app.loadManifest(args)
			if err != nil {
				return err
			}
			if err := m.Validate(); err != nil {
				return manifestFailure("order targets", path, err)
			}
			order, err := m.Order()
			if err != nil {
				return manifestFailure("order targets", path, err)
			}
			for _, name := range order {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}

func newProductsCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "products [manifest]",
		Short: "List products with the targets each one links",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, path, err := app.loadManifest(args)
			if err != nil {
				return err
			}
			if err := m.Validate(); err != nil {
				return manifestFailure("resolve products", path, err)
			}
			for _, p := range m.Products() {
				closure, err := m.ResolveProduct(p.Name())
				if err != nil {
					return manifestFailure("resolve products", path, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s (%s): %s\n",
					KeyStyle.Render(string(p.Name())), p.Type(), joinNames(closure, ", "))
			}
			return nil
		},
	}
}

func newGraphCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "graph [manifest]",
		Short: "Print the target graph in Graphviz DOT",
		Long: `Graph prints declared targets, dependency edges and products in Graphviz
DOT. The manifest is parsed but not validated, so cycles can be inspected.`,
		Example: "  pkgplan graph | dot -Tsvg > deps.svg",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, _, err := app.loadManifest(args)
			if err != nil {
				return err
			}
			if err := buildplan.WriteDOT(cmd.OutOrStdout(), m); err != nil {
				return failure(fmt.Errorf("write graph: %w", err))
			}
			return nil
		},
	}
}
