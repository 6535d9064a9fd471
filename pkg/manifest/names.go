// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"errors"
	"fmt"
	"regexp"
)

const (
	// KindBinary is a prebuilt artifact at a declared path.
	KindBinary TargetKind = "binary"
	// KindAggregate is built from sources and links against its dependencies.
	KindAggregate TargetKind = "aggregate"

	// ProductAutomatic leaves the linkage decision to the consuming toolchain.
	ProductAutomatic ProductType = "automatic"
	// ProductStatic requests static linkage.
	ProductStatic ProductType = "static"
	// ProductDynamic requests dynamic linkage.
	ProductDynamic ProductType = "dynamic"
)

var (
	// ErrInvalidTargetName is the sentinel error wrapped by InvalidNameError for targets.
	ErrInvalidTargetName = errors.New("invalid target name")
	// ErrInvalidProductName is the sentinel error wrapped by InvalidNameError for products.
	ErrInvalidProductName = errors.New("invalid product name")
	// ErrInvalidTargetKind is the sentinel error wrapped by InvalidTargetKindError.
	ErrInvalidTargetKind = errors.New("invalid target kind")
	// ErrInvalidProductType is the sentinel error wrapped by InvalidProductTypeError.
	ErrInvalidProductType = errors.New("invalid product type")

	// namePattern matches target and product names: a letter, digit or
	// underscore followed by letters, digits, dots, underscores, pluses or
	// hyphens.
	namePattern = regexp.MustCompile(`^[A-Za-z0-9_][A-Za-z0-9._+-]*$`)
)

type (
	// TargetName identifies a target within one manifest.
	TargetName string

	// ProductName identifies a product within one manifest.
	ProductName string

	// TargetKind is either KindBinary or KindAggregate.
	TargetKind string

	// ProductType is the linkage a product requests. The zero value means
	// ProductAutomatic.
	ProductType string

	// InvalidNameError is returned when a target or product name is empty or
	// contains characters outside the allowed set.
	InvalidNameError struct {
		Value    string
		sentinel error
	}

	// InvalidTargetKindError is returned for an unknown TargetKind.
	InvalidTargetKindError struct {
		Value TargetKind
	}

	// InvalidProductTypeError is returned for an unknown ProductType.
	InvalidProductTypeError struct {
		Value ProductType
	}
)

func (n TargetName) String() string { return string(n) }

// Validate returns nil if n is a well-formed target name.
func (n TargetName) Validate() error {
	if !namePattern.MatchString(string(n)) {
		return &InvalidNameError{Value: string(n), sentinel: ErrInvalidTargetName}
	}
	return nil
}

func (n ProductName) String() string { return string(n) }

// Validate returns nil if n is a well-formed product name.
func (n ProductName) Validate() error {
	if !namePattern.MatchString(string(n)) {
		return &InvalidNameError{Value: string(n), sentinel: ErrInvalidProductName}
	}
	return nil
}

func (k TargetKind) String() string { return string(k) }

// Validate returns nil if k is KindBinary or KindAggregate.
func (k TargetKind) Validate() error {
	switch k {
	case KindBinary, KindAggregate:
		return nil
	default:
		return &InvalidTargetKindError{Value: k}
	}
}

// String returns the type name, reporting the zero value as "automatic".
func (t ProductType) String() string {
	if t == "" {
		return string(ProductAutomatic)
	}
	return string(t)
}

// Validate returns nil for the zero value and the three declared types.
func (t ProductType) Validate() error {
	switch t {
	case "", ProductAutomatic, ProductStatic, ProductDynamic:
		return nil
	default:
		return &InvalidProductTypeError{Value: t}
	}
}

// Error implements the error interface.
func (e *InvalidNameError) Error() string {
	what := "target"
	if e.sentinel == ErrInvalidProductName {
		what = "product"
	}
	if e.Value == "" {
		return fmt.Sprintf("%s name must not be empty", what)
	}
	return fmt.Sprintf("invalid %s name %q: must start with a letter, digit or underscore and contain only letters, digits, '.', '_', '+' or '-'", what, e.Value)
}

// Unwrap returns ErrInvalidTargetName or ErrInvalidProductName.
func (e *InvalidNameError) Unwrap() error { return e.sentinel }

// Error implements the error interface.
func (e *InvalidTargetKindError) Error() string {
	return fmt.Sprintf("invalid target kind %q (expected %q or %q)", e.Value, KindBinary, KindAggregate)
}

// Unwrap returns ErrInvalidTargetKind.
func (e *InvalidTargetKindError) Unwrap() error { return ErrInvalidTargetKind }

// Error implements the error interface.
func (e *InvalidProductTypeError) Error() string {
	return fmt.Sprintf("invalid product type %q (expected %q, %q or %q)", e.Value, ProductAutomatic, ProductStatic, ProductDynamic)
}

// Unwrap returns ErrInvalidProductType.
func (e *InvalidProductTypeError) Unwrap() error { return ErrInvalidProductType }
