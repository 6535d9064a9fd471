// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	stderrors "errors"
	"fmt"
	"strings"

	"cuelang.org/go/cue/errors"
)

type (
	// Violation is a single schema violation at a field path.
	Violation struct {
		// Path is the field path in JSON-path notation (e.g. "targets[2].path").
		// Empty for document-level problems such as syntax errors.
		Path string
		// Message is the CUE message with any redundant path prefix removed.
		Message string
	}

	// SchemaError reports every violation CUE found in one document.
	SchemaError struct {
		File       string
		Violations []Violation
	}
)

// Error implements the error interface.
//
// One violation renders as "<file>: <path>: <message>"; several are listed
// one per line under "<file>: validation failed:".
func (e *SchemaError) Error() string {
	lines := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		lines = append(lines, v.String())
	}
	if len(lines) == 1 {
		return fmt.Sprintf("%s: %s", e.File, lines[0])
	}
	return fmt.Sprintf("%s: validation failed:\n  %s", e.File, strings.Join(lines, "\n  "))
}

// FirstPath returns the path of the first violation, or "".
func (e *SchemaError) FirstPath() string {
	if len(e.Violations) == 0 {
		return ""
	}
	return e.Violations[0].Path
}

func (v Violation) String() string {
	if v.Path == "" {
		return v.Message
	}
	return v.Path + ": " + v.Message
}

// FormatError converts a CUE error into a *SchemaError. Errors that do not
// come from CUE are wrapped with the filename so errors.Is still reaches them.
//
// Paths are reported relative to the document: the schema definition the
// data was unified with (e.g. #Manifest) is not part of them. A value that
// matches none of the branches of a disjunction is reported once, with the
// message of the first branch.
func FormatError(err error, filename string) error {
	if err == nil {
		return nil
	}

	var ce errors.Error
	if !stderrors.As(err, &ce) {
		return fmt.Errorf("%s: %w", filename, err)
	}

	var all []Violation
	for _, e := range errors.Errors(err) {
		all = append(all, Violation{
			Path:    formatPath(documentPath(errors.Path(e))),
			Message: violationMessage(e),
		})
	}
	return &SchemaError{File: filename, Violations: collapseDisjunctions(all)}
}

// collapseDisjunctions keeps one violation per path that failed a
// disjunction, placed where the path first appears. Its message is the
// first branch message, or the summary when CUE listed no branches.
func collapseDisjunctions(all []Violation) []Violation {
	branch := make(map[string]string)
	for _, v := range all {
		if isEmptyDisjunction(v.Message) {
			branch[v.Path] = v.Message
		}
	}
	for _, v := range all {
		if summary, ok := branch[v.Path]; ok && isEmptyDisjunction(summary) && !isEmptyDisjunction(v.Message) {
			branch[v.Path] = v.Message
		}
	}

	out := make([]Violation, 0, len(all))
	emitted := make(map[string]bool)
	for _, v := range all {
		msg, ok := branch[v.Path]
		if !ok {
			out = append(out, v)
			continue
		}
		if emitted[v.Path] {
			continue
		}
		emitted[v.Path] = true
		out = append(out, Violation{Path: v.Path, Message: msg})
	}
	return out
}

// documentPath drops leading definition selectors such as "#Manifest".
func documentPath(path []string) []string {
	for len(path) > 0 && strings.HasPrefix(path[0], "#") {
		path = path[1:]
	}
	return path
}

// violationMessage returns the message of e without the path CUE prefixes
// to Error().
func violationMessage(e errors.Error) string {
	format, args := e.Msg()
	if format != "" {
		return fmt.Sprintf(format, args...)
	}
	msg := e.Error()
	if prefix := strings.Join(errors.Path(e), "."); prefix != "" {
		if rest, ok := strings.CutPrefix(msg, prefix); ok {
			msg = strings.TrimSpace(strings.TrimPrefix(rest, ":"))
		}
	}
	return msg
}

func isEmptyDisjunction(msg string) bool {
	return strings.Contains(msg, "empty disjunction")
}

// formatPath turns CUE's flat selector list (["targets", "0", "path"]) into
// JSON-path notation ("targets[0].path").
func formatPath(path []string) string {
	var b strings.Builder
	for i, part := range path {
		if i > 0 && isIndex(part) {
			b.WriteString("[" + part + "]")
			continue
		}
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(part)
	}
	return b.String()
}

func isIndex(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// CheckFileSize rejects documents larger than maxSize bytes.
func CheckFileSize(data []byte, maxSize int64, filename string) error {
	if int64(len(data)) > maxSize {
		return fmt.Errorf("%s: file size %d bytes exceeds maximum %d bytes", filename, len(data), maxSize)
	}
	return nil
}
