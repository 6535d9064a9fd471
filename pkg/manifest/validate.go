// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"github.com/pkgplan/pkgplan/pkg/platform"
)

// Validate checks the cross-references of a parsed manifest, in this order:
//
//  1. every dependency names a declared target (*UnknownDependencyError)
//  2. the dependency relation is acyclic (*CyclicDependencyError)
//  3. every product exposes declared targets only (*UnknownTargetError)
//  4. no target deploys below the package floor or below the effective floor
//     of a dependency (*PlatformConstraintError)
//
// The first failure is returned.
func (m *Manifest) Validate() error {
	if err := m.validateDependencies(); err != nil {
		return err
	}
	if cycle := m.graph().FindCycle(); cycle != nil {
		return &CyclicDependencyError{Cycle: toTargetNames(cycle)}
	}
	if err := m.validateProducts(); err != nil {
		return err
	}
	return m.validatePlatforms()
}

func (m *Manifest) validateDependencies() error {
	for _, n := range m.targetOrder {
		for _, d := range m.targets[n].deps {
			if _, ok := m.targets[d]; !ok {
				return &UnknownDependencyError{Target: n, Missing: d}
			}
		}
	}
	return nil
}

func (m *Manifest) validateProducts() error {
	for _, pn := range m.productOrder {
		for _, t := range m.products[pn].targets {
			if _, ok := m.targets[t]; !ok {
				return &UnknownTargetError{Product: pn, Missing: t}
			}
		}
	}
	return nil
}

func (m *Manifest) validatePlatforms() error {
	effective := make(map[TargetName]platform.Floors, len(m.targetOrder))
	for _, n := range m.targetOrder {
		effective[n] = platform.Effective(m.platforms, m.targets[n].platforms)
	}

	for _, n := range m.targetOrder {
		own := effective[n]
		for _, c := range own.Sorted() {
			if floor, ok := m.platforms[c.Family]; ok && !c.MinVersion.AtLeast(floor) {
				return &PlatformConstraintError{Target: n, Family: c.Family, Version: c.MinVersion, Floor: floor}
			}
		}
		for _, d := range m.targets[n].deps {
			for _, dc := range effective[d].Sorted() {
				v, ok := own[dc.Family]
				if !ok {
					// The target does not deploy to this family at all.
					continue
				}
				if !v.AtLeast(dc.MinVersion) {
					return &PlatformConstraintError{Target: n, Dependency: d, Family: dc.Family, Version: v, Floor: dc.MinVersion}
				}
			}
		}
	}
	return nil
}
