// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"strings"
	"testing"

	"github.com/pkgplan/pkgplan/pkg/manifest"
)

func TestActionableError_Error(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      *ActionableError
		expected string
	}{
		{
			name:     "operation only",
			err:      &ActionableError{Operation: "load manifest"},
			expected: "failed to load manifest",
		},
		{
			name:     "operation with resource",
			err:      &ActionableError{Operation: "load manifest", Resource: "./pkgplan.cue"},
			expected: "failed to load manifest: ./pkgplan.cue",
		},
		{
			name: "full context",
			err: &ActionableError{
				Operation: "resolve product",
				Resource:  "Lynx",
				Cause:     &manifest.UnknownProductError{Product: "Lynx"},
			},
			expected: `failed to resolve product: Lynx: unknown product "Lynx"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestActionableError_Unwrap(t *testing.T) {
	t.Parallel()

	cause := &manifest.CyclicDependencyError{Cycle: []manifest.TargetName{"A", "B", "A"}}
	err := NewErrorContext().WithOperation("validate manifest").WithResource("pkgplan.cue").Wrap(cause).BuildError()

	if !errors.Is(err, manifest.ErrCyclicDependency) {
		t.Error("errors.Is should reach the manifest sentinel")
	}
	var cyc *manifest.CyclicDependencyError
	if !errors.As(err, &cyc) || len(cyc.Cycle) != 3 {
		t.Errorf("errors.As should reach the cycle error, got %v", cyc)
	}
	if (&ActionableError{Operation: "x"}).Unwrap() != nil {
		t.Error("Unwrap() should return nil when no cause")
	}
}

func TestActionableError_Format(t *testing.T) {
	t.Parallel()

	malformed := &manifest.MalformedManifestError{
		File:    "pkgplan.cue",
		Field:   "targets[0].kind",
		Message: "incomplete value",
		Err:     errors.New("targets.0.kind: incomplete value"),
	}

	tests := []struct {
		name     string
		err      *ActionableError
		verbose  bool
		contains []string
		excludes []string
	}{
		{
			name: "suggestions",
			err: &ActionableError{
				Operation:   "load manifest",
				Resource:    "./pkgplan.cue",
				Suggestions: []string{"Run 'pkgplan validate'", "Check the file extension"},
			},
			contains: []string{"failed to load manifest: ./pkgplan.cue\n\nhint: Run 'pkgplan validate'\nhint: Check the file extension"},
		},
		{
			name:     "no chain when not verbose",
			err:      &ActionableError{Operation: "load manifest", Cause: malformed},
			excludes: []string{"Error chain:"},
		},
		{
			name:    "verbose chain follows multi-error wrappers to the cause",
			err:     &ActionableError{Operation: "load manifest", Cause: malformed},
			verbose: true,
			contains: []string{
				"Error chain:",
				"1. malformed manifest pkgplan.cue: targets[0].kind: incomplete value",
				"2. targets.0.kind: incomplete value",
			},
		},
		{
			name: "nested actionable errors",
			err: &ActionableError{
				Operation: "watch manifest",
				Cause:     &ActionableError{Operation: "resolve manifest", Cause: errors.New("boom")},
			},
			verbose:  true,
			contains: []string{"1. failed to resolve manifest: boom", "2. boom"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := tt.err.Format(tt.verbose)
			for _, s := range tt.contains {
				if !strings.Contains(got, s) {
					t.Errorf("Format() missing %q\ngot:\n%s", s, got)
				}
			}
			for _, s := range tt.excludes {
				if strings.Contains(got, s) {
					t.Errorf("Format() should not contain %q\ngot:\n%s", s, got)
				}
			}
		})
	}
}

func TestErrorContext_Build(t *testing.T) {
	t.Parallel()

	if NewErrorContext().WithResource("some/path").Build() != nil {
		t.Error("Build() without operation should return nil")
	}
	if NewErrorContext().BuildError() != nil {
		t.Error("BuildError() without operation should return nil")
	}

	err := NewErrorContext().
		WithOperation("load config").
		WithResource("/etc/pkgplan/config.cue").
		WithSuggestion("Check syntax").
		WithSuggestions("Verify permissions", "Run 'pkgplan config path'").
		Wrap(errors.New("parse error")).
		Build()
	if err == nil {
		t.Fatal("Build() returned nil")
	}
	if err.Operation != "load config" || err.Resource != "/etc/pkgplan/config.cue" {
		t.Errorf("unexpected context %+v", err)
	}
	if len(err.Suggestions) != 3 {
		t.Errorf("Suggestions = %v", err.Suggestions)
	}
	if err.Cause == nil || err.Cause.Error() != "parse error" {
		t.Errorf("Cause = %v", err.Cause)
	}

	var ae *ActionableError
	if !errors.As(NewErrorContext().WithOperation("x").BuildError(), &ae) {
		t.Error("BuildError() should return *ActionableError")
	}
}

func TestErrorContext_Reuse(t *testing.T) {
	t.Parallel()

	ctx := NewErrorContext().WithOperation("resolve manifest").WithResource("pkgplan.cue")

	err1 := ctx.Wrap(errors.New("error 1")).Build()
	err2 := ctx.Wrap(errors.New("error 2")).Build()

	if err1.Cause.Error() == err2.Cause.Error() {
		t.Error("Reused context should allow different causes")
	}
	if err1.Operation != err2.Operation {
		t.Error("Reused context should preserve operation")
	}
}
