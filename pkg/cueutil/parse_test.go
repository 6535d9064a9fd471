// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"errors"
	"strings"
	"testing"
)

const testSchema = `
#Doc: close({
	name:  string & != ""
	count?: int & >=0
})
`

type testDoc struct {
	Name  string `json:"name"`
	Count int    `json:"count,omitempty"`
}

func TestDecode(t *testing.T) {
	t.Parallel()

	t.Run("valid CUE", func(t *testing.T) {
		t.Parallel()
		doc, err := Decode[testDoc](testSchema, []byte(`name: "a", count: 2`), "#Doc")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if doc.Name != "a" || doc.Count != 2 {
			t.Errorf("got %+v", doc)
		}
	})

	t.Run("JSON is accepted", func(t *testing.T) {
		t.Parallel()
		doc, err := Decode[testDoc](testSchema, []byte(`{"name": "b"}`), "#Doc")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if doc.Name != "b" {
			t.Errorf("got %+v", doc)
		}
	})

	t.Run("missing required field", func(t *testing.T) {
		t.Parallel()
		_, err := Decode[testDoc](testSchema, []byte(`count: 1`), "#Doc", WithFilename("doc.cue"))
		var schemaErr *SchemaError
		if !errors.As(err, &schemaErr) {
			t.Fatalf("expected *SchemaError, got %T: %v", err, err)
		}
		if schemaErr.File != "doc.cue" {
			t.Errorf("File = %q, want doc.cue", schemaErr.File)
		}
	})

	t.Run("closed schema rejects unknown field", func(t *testing.T) {
		t.Parallel()
		_, err := Decode[testDoc](testSchema, []byte(`name: "a", extra: true`), "#Doc")
		if err == nil {
			t.Fatal("expected error for unknown field")
		}
		if !strings.Contains(err.Error(), "extra") {
			t.Errorf("error should mention the field, got %v", err)
		}
	})

	t.Run("syntax error", func(t *testing.T) {
		t.Parallel()
		_, err := Decode[testDoc](testSchema, []byte(`name: "a`), "#Doc")
		if err == nil {
			t.Fatal("expected syntax error")
		}
	})

	t.Run("size limit", func(t *testing.T) {
		t.Parallel()
		_, err := Decode[testDoc](testSchema, []byte(`name: "abcdef"`), "#Doc", WithMaxFileSize(4))
		if err == nil || !strings.Contains(err.Error(), "exceeds maximum") {
			t.Fatalf("expected size error, got %v", err)
		}
	})

	t.Run("non-concrete allowed when requested", func(t *testing.T) {
		t.Parallel()
		if _, err := Unify(testSchema, []byte(`count: 1`), "#Doc", WithConcrete(false)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("unknown definition", func(t *testing.T) {
		t.Parallel()
		_, err := Decode[testDoc](testSchema, []byte(`name: "a"`), "#Missing")
		if err == nil || !strings.Contains(err.Error(), "internal error") {
			t.Fatalf("expected internal error, got %v", err)
		}
	})
}

const listSchema = `
#Doc: close({
	items?: [...close({
		kind:  "binary" | "aggregate"
		name?: string
	})]
})
`

func TestDecode_ViolationPaths(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		data     string
		wantPath string
		wantMsg  string
	}{
		{
			name:     "no branch of a disjunction matches",
			data:     `items: [{kind: "binray"}]`,
			wantPath: "items[0].kind",
			wantMsg:  "binray",
		},
		{
			name:     "field not allowed in a closed list element",
			data:     `items: [{kind: "binary"}, {kind: "binary", url: "x"}]`,
			wantPath: "items[1].url",
			wantMsg:  "not allowed",
		},
		{
			name:     "missing required field",
			data:     `items: [{name: "a"}]`,
			wantPath: "items[0].kind",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Decode[map[string]any](listSchema, []byte(tt.data), "#Doc", WithFilename("doc.cue"))
			var se *SchemaError
			if !errors.As(err, &se) {
				t.Fatalf("expected *SchemaError, got %T: %v", err, err)
			}
			if len(se.Violations) != 1 {
				t.Fatalf("expected one violation, got %+v", se.Violations)
			}
			v := se.Violations[0]
			if v.Path != tt.wantPath {
				t.Errorf("Path = %q, want %q", v.Path, tt.wantPath)
			}
			if strings.Contains(v.Message, "#Doc") || strings.Contains(v.Message, "items.") {
				t.Errorf("message repeats the path: %q", v.Message)
			}
			if strings.Contains(v.Message, "empty disjunction") {
				t.Errorf("message hides the failing branch: %q", v.Message)
			}
			if tt.wantMsg != "" && !strings.Contains(v.Message, tt.wantMsg) {
				t.Errorf("Message = %q, want it to contain %q", v.Message, tt.wantMsg)
			}
			if n := strings.Count(err.Error(), "items"); n != 1 {
				t.Errorf("path should appear once, got %d in %q", n, err.Error())
			}
		})
	}
}
