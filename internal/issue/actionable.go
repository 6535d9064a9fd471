// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"fmt"
	"strings"
)

type (
	// ActionableError is what pkgplan prints when a command fails: the step
	// that failed, the manifest or config file it was working on, and hints
	// for getting past it.
	//
	//	failed to load manifest: open pkgplan.cue: no such file or directory
	//
	//	hint: Check the manifest path
	ActionableError struct {
		// Operation is a verb phrase such as "resolve manifest".
		Operation string
		// Resource is the file or product involved. Leave it empty when
		// Cause already names it.
		Resource string
		// Suggestions are printed one per "hint:" line.
		Suggestions []string
		// Cause is reachable through errors.Is and errors.As.
		Cause error
	}

	// ErrorContext accumulates the fields of an ActionableError. Each With*
	// call returns the same builder so calls chain.
	ErrorContext struct {
		err ActionableError
	}
)

// NewErrorContext starts an empty builder.
func NewErrorContext() *ErrorContext {
	return &ErrorContext{}
}

// Error renders "failed to <operation>[: <resource>][: <cause>]".
func (e *ActionableError) Error() string {
	parts := []string{"failed to " + e.Operation}
	if e.Resource != "" {
		parts = append(parts, e.Resource)
	}
	if e.Cause != nil {
		parts = append(parts, e.Cause.Error())
	}
	return strings.Join(parts, ": ")
}

// Unwrap returns Cause.
func (e *ActionableError) Unwrap() error {
	return e.Cause
}

// Format renders the message, a blank line and one "hint:" line per
// suggestion. verbose appends the numbered error chain below the hints.
func (e *ActionableError) Format(verbose bool) string {
	var b strings.Builder
	b.WriteString(e.Error())

	if len(e.Suggestions) > 0 {
		b.WriteString("\n")
		for _, s := range e.Suggestions {
			b.WriteString("\nhint: " + s)
		}
	}

	if verbose && e.Cause != nil {
		b.WriteString("\n\nError chain:")
		n := 1
		for err := e.Cause; err != nil; err = unwrapOne(err) {
			fmt.Fprintf(&b, "\n  %d. %s", n, err.Error())
			n++
		}
	}
	return b.String()
}

// unwrapOne steps one level down the chain. Multi-error wrappers in this
// module list their sentinel first and the cause last, so the last entry is
// followed.
func unwrapOne(err error) error {
	if next := errors.Unwrap(err); next != nil {
		return next
	}
	if multi, ok := err.(interface{ Unwrap() []error }); ok {
		if errs := multi.Unwrap(); len(errs) > 0 {
			return errs[len(errs)-1]
		}
	}
	return nil
}

func (c *ErrorContext) WithOperation(op string) *ErrorContext {
	c.err.Operation = op
	return c
}

func (c *ErrorContext) WithResource(res string) *ErrorContext {
	c.err.Resource = res
	return c
}

func (c *ErrorContext) WithSuggestion(s string) *ErrorContext {
	c.err.Suggestions = append(c.err.Suggestions, s)
	return c
}

func (c *ErrorContext) WithSuggestions(s ...string) *ErrorContext {
	c.err.Suggestions = append(c.err.Suggestions, s...)
	return c
}

// Wrap sets the cause. Calling it again replaces the previous cause.
func (c *ErrorContext) Wrap(err error) *ErrorContext {
	c.err.Cause = err
	return c
}

// Build returns a copy of the accumulated error, or nil when no operation
// was set.
func (c *ErrorContext) Build() *ActionableError {
	if c.err.Operation == "" {
		return nil
	}
	out := c.err
	out.Suggestions = append([]string(nil), c.err.Suggestions...)
	return &out
}

// BuildError is Build typed as error, so a missing operation yields an
// untyped nil rather than a nil *ActionableError.
func (c *ErrorContext) BuildError() error {
	if ae := c.Build(); ae != nil {
		return ae
	}
	return nil
}
