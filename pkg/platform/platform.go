// SPDX-License-Identifier: MPL-2.0

package platform

import (
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strings"

	"golang.org/x/mod/semver"
)

// Supported platform families.
const (
	IOS         Family = "ios"
	MacOS       Family = "macos"
	TVOS        Family = "tvos"
	WatchOS     Family = "watchos"
	VisionOS    Family = "visionos"
	MacCatalyst Family = "maccatalyst"
)

var (
	// ErrInvalidFamily is the sentinel error wrapped by InvalidFamilyError.
	ErrInvalidFamily = errors.New("invalid platform family")
	// ErrInvalidVersion is the sentinel error wrapped by InvalidVersionError.
	ErrInvalidVersion = errors.New("invalid platform version")

	families = []Family{IOS, MacOS, TVOS, WatchOS, VisionOS, MacCatalyst}

	// versionPattern rejects forms semver would accept but manifests should
	// not carry: a "v" prefix, pre-release labels and build metadata.
	versionPattern = regexp.MustCompile(`^(0|[1-9][0-9]*)(\.(0|[1-9][0-9]*)){0,2}$`)
)

type (
	// Family is a platform family such as "ios".
	Family string

	// Version is a minimum deployment version such as "13.0".
	Version string

	// Constraint is a minimum-version requirement for one family.
	Constraint struct {
		Family     Family  `json:"family" yaml:"family" toml:"family"`
		MinVersion Version `json:"min_version" yaml:"min_version" toml:"min_version"`
	}

	// InvalidFamilyError is returned for an unsupported Family value.
	InvalidFamilyError struct {
		Value Family
	}

	// InvalidVersionError is returned for a malformed Version value.
	InvalidVersionError struct {
		Value Version
	}
)

// Families returns the supported families in canonical order.
func Families() []Family {
	return slices.Clone(families)
}

// Validate returns nil when f is a supported family.
func (f Family) Validate() error {
	if !slices.Contains(families, f) {
		return &InvalidFamilyError{Value: f}
	}
	return nil
}

func (f Family) String() string { return string(f) }

// Validate returns nil when v is a dotted numeric version.
func (v Version) Validate() error {
	if !versionPattern.MatchString(string(v)) {
		return &InvalidVersionError{Value: v}
	}
	return nil
}

func (v Version) String() string { return string(v) }

// Compare returns -1, 0 or +1 as v is lower than, equal to or higher than w.
// Invalid versions sort before valid ones, matching semver.Compare.
func (v Version) Compare(w Version) int {
	return semver.Compare(v.semver(), w.semver())
}

// AtLeast reports whether v >= floor.
func (v Version) AtLeast(floor Version) bool {
	return v.Compare(floor) >= 0
}

// semver maps "13.4" to "v13.4"; x/mod/semver accepts the short forms.
func (v Version) semver() string {
	if v.Validate() != nil {
		return ""
	}
	return "v" + string(v)
}

// Validate checks both the family and the version.
func (c Constraint) Validate() error {
	return errors.Join(c.Family.Validate(), c.MinVersion.Validate())
}

func (c Constraint) String() string {
	return fmt.Sprintf("%s >= %s", c.Family, c.MinVersion)
}

// Error implements the error interface.
func (e *InvalidFamilyError) Error() string {
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, string(f))
	}
	return fmt.Sprintf("invalid platform family %q (expected one of %s)", e.Value, strings.Join(names, ", "))
}

// Unwrap returns ErrInvalidFamily for errors.Is.
func (e *InvalidFamilyError) Unwrap() error { return ErrInvalidFamily }

// Error implements the error interface.
func (e *InvalidVersionError) Error() string {
	return fmt.Sprintf("invalid platform version %q (expected MAJOR[.MINOR[.PATCH]])", e.Value)
}

// Unwrap returns ErrInvalidVersion for errors.Is.
func (e *InvalidVersionError) Unwrap() error { return ErrInvalidVersion }

// Floors maps each family to its minimum version. Later constraints for the
// same family override earlier ones.
type Floors map[Family]Version

// NewFloors indexes constraints by family.
func NewFloors(cs []Constraint) Floors {
	f := make(Floors, len(cs))
	for _, c := range cs {
		f[c.Family] = c.MinVersion
	}
	return f
}

// Effective overlays own on top of inherited: a family declared in own wins,
// every other inherited family carries over.
func Effective(inherited, own Floors) Floors {
	out := make(Floors, len(inherited)+len(own))
	for fam, v := range inherited {
		out[fam] = v
	}
	for fam, v := range own {
		out[fam] = v
	}
	return out
}

// Sorted returns the floors as constraints in canonical family order.
func (f Floors) Sorted() []Constraint {
	out := make([]Constraint, 0, len(f))
	for _, fam := range families {
		if v, ok := f[fam]; ok {
			out = append(out, Constraint{Family: fam, MinVersion: v})
		}
	}
	return out
}
