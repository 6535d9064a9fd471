// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"

	"github.com/pkgplan/pkgplan/internal/issue"
	"github.com/pkgplan/pkgplan/pkg/buildplan"
	"github.com/pkgplan/pkgplan/pkg/manifest"
)

// manifestFailure wraps a manifest or planning error with suggestions for
// its failure class and marks it as exit code 1. The manifest path is named
// once: read and decode errors already carry it.
func manifestFailure(operation, path string, err error) error {
	ctx := issue.NewErrorContext().
		WithOperation(operation).
		WithSuggestions(suggestionsFor(err)...).
		Wrap(err)
	if !strings.Contains(err.Error(), path) {
		ctx.WithResource(path)
	}
	return failure(ctx.BuildError())
}

func suggestionsFor(err error) []string {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return []string{
			"Check the manifest path",
			"Pass the manifest explicitly, e.g. 'pkgplan resolve path/to/pkgplan.cue'",
			"Set 'manifest' in config.cue or PKGPLAN_MANIFEST",
		}
	case errors.Is(err, manifest.ErrUnsupportedFormat):
		return []string{
			"Use one of the extensions .cue, .json, .yaml, .yml, .toml or .hcl",
		}
	case errors.Is(err, manifest.ErrMalformedManifest):
		return []string{
			"Fix the field named in the message",
			"Run with --verbose for a description of the manifest schema",
		}
	case errors.Is(err, manifest.ErrUnknownDependency):
		return []string{
			"Declare the missing target or remove it from 'dependencies'",
		}
	case errors.Is(err, manifest.ErrCyclicDependency):
		return []string{
			"Remove one of the dependencies along the listed path",
			"Run 'pkgplan graph' to inspect the dependency graph",
		}
	case errors.Is(err, manifest.ErrUnknownTarget):
		return []string{
			"Declare the target or remove it from the product",
		}
	case errors.Is(err, manifest.ErrUnknownProduct):
		return []string{
			"Run 'pkgplan products' to list declared products",
		}
	case errors.Is(err, manifest.ErrPlatformConstraint):
		return []string{
			"Raise the target's min_version or lower the floor it conflicts with",
		}
	default:
		return nil
	}
}

// reportFailure prints err to w. In verbose mode the issue guide for the
// failure class follows the full error chain.
func reportFailure(w io.Writer, app *App, err error, verbose bool) {
	fmt.Fprintln(w, ErrorStyle.Render("Error:")+" "+formatErrorForDisplay(err, verbose))
	if !verbose {
		return
	}

	guide := issue.ForError(err)
	if guide == nil {
		return
	}
	color := app.cfg == nil || app.cfg.UI.Color
	rendered, renderErr := guide.Render(guideStyle(color))
	if renderErr != nil {
		return
	}
	fmt.Fprint(w, rendered)
}

// formatErrorForDisplay formats an error for user display.
// ActionableErrors carry their own suggestions and, in verbose mode, the
// error chain.
func formatErrorForDisplay(err error, verbose bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verbose)
	}
	return err.Error()
}

// invalidFormat reports an unknown --output value as a usage error.
func invalidFormat(value string) error {
	err := buildplan.Format(value).Validate()
	if err == nil {
		return nil
	}
	return usageError(fmt.Errorf("--output: %w", err))
}

func joinNames[T ~string](names []T, sep string) string {
	parts := make([]string, len(names))
	for i, n := range names {
		parts[i] = string(n)
	}
	return strings.Join(parts, sep)
}
