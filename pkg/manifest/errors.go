// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pkgplan/pkgplan/pkg/platform"
)

var (
	// ErrMalformedManifest is the sentinel error wrapped by MalformedManifestError.
	ErrMalformedManifest = errors.New("malformed manifest")
	// ErrUnknownDependency is the sentinel error wrapped by UnknownDependencyError.
	ErrUnknownDependency = errors.New("unknown dependency")
	// ErrUnknownTarget is the sentinel error wrapped by UnknownTargetError.
	ErrUnknownTarget = errors.New("unknown target")
	// ErrUnknownProduct is the sentinel error wrapped by UnknownProductError.
	ErrUnknownProduct = errors.New("unknown product")
	// ErrCyclicDependency is the sentinel error wrapped by CyclicDependencyError.
	ErrCyclicDependency = errors.New("cyclic dependency")
	// ErrPlatformConstraint is the sentinel error wrapped by PlatformConstraintError.
	ErrPlatformConstraint = errors.New("platform constraint violated")
)

type (
	// MalformedManifestError reports a structural problem in the declarative
	// input: a missing or ill-typed field, a duplicate name, or a document that
	// does not decode at all.
	MalformedManifestError struct {
		// File is the manifest path, empty when parsing an in-memory File.
		File string
		// Field is the offending field in JSON-path notation, e.g. "targets[1].path".
		Field string
		// Message describes the problem.
		Message string
		// Err is the underlying decoder or schema error, if any.
		Err error
	}

	// UnknownDependencyError is returned when a target depends on a name that
	// no target declares.
	UnknownDependencyError struct {
		Target  TargetName
		Missing TargetName
	}

	// UnknownTargetError is returned when a product exposes an undeclared target.
	UnknownTargetError struct {
		Product ProductName
		Missing TargetName
	}

	// UnknownProductError is returned when resolving a product that does not exist.
	UnknownProductError struct {
		Product ProductName
	}

	// CyclicDependencyError carries a witness cycle that starts and ends with
	// the same target, e.g. [A B A].
	CyclicDependencyError struct {
		Cycle []TargetName
	}

	// PlatformConstraintError is returned when a target deploys below a floor
	// it must honour: the package floor, or the effective floor of one of its
	// dependencies when Dependency is set.
	PlatformConstraintError struct {
		Target     TargetName
		Dependency TargetName
		Family     platform.Family
		Version    platform.Version
		Floor      platform.Version
	}
)

// Error implements the error interface.
func (e *MalformedManifestError) Error() string {
	var b strings.Builder
	b.WriteString("malformed manifest")
	if e.File != "" {
		b.WriteString(" " + e.File)
	}
	b.WriteString(": ")
	if e.Field != "" {
		b.WriteString(e.Field + ": ")
	}
	b.WriteString(e.Message)
	return b.String()
}

// Unwrap returns ErrMalformedManifest together with the underlying cause, so
// both errors.Is(err, ErrMalformedManifest) and errors.As on the cause work.
func (e *MalformedManifestError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrMalformedManifest}
	}
	return []error{ErrMalformedManifest, e.Err}
}

// Error implements the error interface.
func (e *UnknownDependencyError) Error() string {
	return fmt.Sprintf("target %q depends on undeclared target %q", e.Target, e.Missing)
}

// Unwrap returns ErrUnknownDependency.
func (e *UnknownDependencyError) Unwrap() error { return ErrUnknownDependency }

// Error implements the error interface.
func (e *UnknownTargetError) Error() string {
	return fmt.Sprintf("product %q exposes undeclared target %q", e.Product, e.Missing)
}

// Unwrap returns ErrUnknownTarget.
func (e *UnknownTargetError) Unwrap() error { return ErrUnknownTarget }

// Error implements the error interface.
func (e *UnknownProductError) Error() string {
	return fmt.Sprintf("unknown product %q", e.Product)
}

// Unwrap returns ErrUnknownProduct.
func (e *UnknownProductError) Unwrap() error { return ErrUnknownProduct }

// Error implements the error interface.
func (e *CyclicDependencyError) Error() string {
	names := make([]string, len(e.Cycle))
	for i, n := range e.Cycle {
		names[i] = string(n)
	}
	return "dependency cycle: " + strings.Join(names, " -> ")
}

// Unwrap returns ErrCyclicDependency.
func (e *CyclicDependencyError) Unwrap() error { return ErrCyclicDependency }

// Error implements the error interface.
func (e *PlatformConstraintError) Error() string {
	if e.Dependency == "" {
		return fmt.Sprintf("target %q deploys to %s %s, below the package floor %s",
			e.Target, e.Family, e.Version, platform.Constraint{Family: e.Family, MinVersion: e.Floor})
	}
	return fmt.Sprintf("target %q deploys to %s %s, below %s required by dependency %q",
		e.Target, e.Family, e.Version, platform.Constraint{Family: e.Family, MinVersion: e.Floor}, e.Dependency)
}

// Unwrap returns ErrPlatformConstraint.
func (e *PlatformConstraintError) Unwrap() error { return ErrPlatformConstraint }

func malformed(field, format string, args ...any) *MalformedManifestError {
	return &MalformedManifestError{Field: field, Message: fmt.Sprintf(format, args...)}
}
