// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/pkgplan/pkgplan/pkg/buildplan"
	"github.com/pkgplan/pkgplan/pkg/manifest"
)

func TestId_Constants(t *testing.T) {
	t.Parallel()

	if ManifestNotFoundId != 1 {
		t.Errorf("ManifestNotFoundId = %d, want 1", ManifestNotFoundId)
	}

	values := Values()
	if len(values) != int(InvalidOutputFormatId) {
		t.Fatalf("Values() has %d issues, want %d", len(values), InvalidOutputFormatId)
	}
	for i, v := range values {
		if v.Id() != Id(i+1) {
			t.Errorf("Values()[%d].Id() = %d, want %d", i, v.Id(), i+1)
		}
		if strings.TrimSpace(string(v.MarkdownMsg())) == "" {
			t.Errorf("issue %d has an empty message", v.Id())
		}
	}
}

func TestGet(t *testing.T) {
	t.Parallel()

	cycle := Get(DependencyCycleId)
	if cycle == nil {
		t.Fatal("Get(DependencyCycleId) returned nil")
	}
	if !strings.Contains(string(cycle.MarkdownMsg()), "Dependency cycle detected") {
		t.Error("unexpected cycle guide")
	}
	if Get(Id(999)) != nil {
		t.Error("Get() with unknown id should return nil")
	}
}

func TestIssue_LinksAreCopies(t *testing.T) {
	t.Parallel()

	i := &Issue{id: 1, docLinks: []HttpLink{"https://example.com/a"}, extLinks: []HttpLink{"https://example.com/b"}}
	links := i.DocLinks()
	links[0] = "changed"
	if i.DocLinks()[0] != "https://example.com/a" {
		t.Error("DocLinks() must return a copy")
	}
	if len(i.ExtLinks()) != 1 {
		t.Error("ExtLinks() lost entries")
	}
}

func TestIssue_Render(t *testing.T) {
	t.Parallel()

	out, err := Get(PlatformConstraintId).Render("notty")
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !strings.Contains(out, "Platform floor violated") {
		t.Errorf("rendered guide missing title:\n%s", out)
	}

	linked := &Issue{id: 1, mdMsg: "# Title", docLinks: []HttpLink{"https://example.com/docs"}}
	out, err = linked.Render("notty")
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !strings.Contains(out, "See also") || !strings.Contains(out, "example.com/docs") {
		t.Errorf("rendered links missing:\n%s", out)
	}
}

func TestForError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want Id
	}{
		{"missing file", fmt.Errorf("read: %w", os.ErrNotExist), ManifestNotFoundId},
		{"malformed", &manifest.MalformedManifestError{Message: "x"}, MalformedManifestId},
		{
			"unsupported format",
			&manifest.MalformedManifestError{Message: "x", Err: fmt.Errorf("%w: .swift", manifest.ErrUnsupportedFormat)},
			UnsupportedFormatId,
		},
		{"unknown dependency", &manifest.UnknownDependencyError{Target: "A", Missing: "B"}, UnknownDependencyId},
		{"cycle", &manifest.CyclicDependencyError{Cycle: []manifest.TargetName{"A", "A"}}, DependencyCycleId},
		{"unknown target", &manifest.UnknownTargetError{Product: "P", Missing: "X"}, UnknownTargetId},
		{"unknown product", NewErrorContext().WithOperation("resolve").Wrap(&manifest.UnknownProductError{Product: "P"}).BuildError(), UnknownProductId},
		{"platform", &manifest.PlatformConstraintError{Target: "A"}, PlatformConstraintId},
		{"output format", &buildplan.InvalidFormatError{Value: "xml"}, InvalidOutputFormatId},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := ForError(tt.err)
			if got == nil || got.Id() != tt.want {
				t.Errorf("ForError() = %v, want issue %d", got, tt.want)
			}
		})
	}

	if ForError(nil) != nil || ForError(errors.New("other")) != nil {
		t.Error("ForError() should return nil for unclassified errors")
	}
}
