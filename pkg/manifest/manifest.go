// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"slices"

	"github.com/pkgplan/pkgplan/pkg/platform"
)

type (
	// Target is one buildable or linkable unit. Values returned by a Manifest
	// are copies; their slices are cloned on every access.
	Target struct {
		name      TargetName
		kind      TargetKind
		path      string
		sources   []string
		deps      []TargetName
		platforms platform.Floors
	}

	// Product is a named, publicly exposed bundle of targets.
	Product struct {
		name    ProductName
		typ     ProductType
		targets []TargetName
	}

	// Manifest is the immutable description of one package. Build one with
	// Parse or Load; Validate checks the cross-references Parse leaves open.
	Manifest struct {
		name         string
		toolsVersion string
		source       string
		platforms    platform.Floors

		// targets is the arena every name lookup goes through.
		targets     map[TargetName]*Target
		targetOrder []TargetName

		products     map[ProductName]*Product
		productOrder []ProductName
	}
)

// Name returns the target name.
func (t Target) Name() TargetName { return t.name }

// Kind returns KindBinary or KindAggregate.
func (t Target) Kind() TargetKind { return t.kind }

// Path returns the artifact path of a binary target, or "" for aggregates.
func (t Target) Path() string { return t.path }

// Sources returns the source locations of an aggregate target.
func (t Target) Sources() []string { return slices.Clone(t.sources) }

// Dependencies returns the declared dependencies in declaration order.
func (t Target) Dependencies() []TargetName { return slices.Clone(t.deps) }

// Platforms returns the floors the target declares itself, in canonical
// family order. Use Manifest.EffectivePlatforms for the inherited view.
func (t Target) Platforms() []platform.Constraint { return t.platforms.Sorted() }

// Name returns the product name.
func (p Product) Name() ProductName { return p.name }

// Type returns the requested linkage, defaulting to ProductAutomatic.
func (p Product) Type() ProductType {
	if p.typ == "" {
		return ProductAutomatic
	}
	return p.typ
}

// Targets returns the exposed targets in declaration order.
func (p Product) Targets() []TargetName { return slices.Clone(p.targets) }

// Name returns the package name, or "" if the manifest declares none.
func (m *Manifest) Name() string { return m.name }

// ToolsVersion returns the declared tools version, or "".
func (m *Manifest) ToolsVersion() string { return m.toolsVersion }

// Source returns the file the manifest was loaded from, or "" when it was
// parsed from memory.
func (m *Manifest) Source() string { return m.source }

// Platforms returns the package floors in canonical family order.
func (m *Manifest) Platforms() []platform.Constraint { return m.platforms.Sorted() }

// TargetNames returns all target names in declaration order.
func (m *Manifest) TargetNames() []TargetName { return slices.Clone(m.targetOrder) }

// ProductNames returns all product names in declaration order.
func (m *Manifest) ProductNames() []ProductName { return slices.Clone(m.productOrder) }

// Target looks up a target by name.
func (m *Manifest) Target(name TargetName) (Target, bool) {
	t, ok := m.targets[name]
	if !ok {
		return Target{}, false
	}
	return t.clone(), true
}

// Targets returns all targets in declaration order.
func (m *Manifest) Targets() []Target {
	out := make([]Target, 0, len(m.targetOrder))
	for _, n := range m.targetOrder {
		out = append(out, m.targets[n].clone())
	}
	return out
}

// Product looks up a product by name.
func (m *Manifest) Product(name ProductName) (Product, bool) {
	p, ok := m.products[name]
	if !ok {
		return Product{}, false
	}
	return p.clone(), true
}

// Products returns all products in declaration order.
func (m *Manifest) Products() []Product {
	out := make([]Product, 0, len(m.productOrder))
	for _, n := range m.productOrder {
		out = append(out, m.products[n].clone())
	}
	return out
}

// EffectivePlatforms returns the floors that apply to a target: its own
// declaration per family, otherwise the package floor. The second result is
// false for an unknown target.
func (m *Manifest) EffectivePlatforms(name TargetName) ([]platform.Constraint, bool) {
	t, ok := m.targets[name]
	if !ok {
		return nil, false
	}
	return platform.Effective(m.platforms, t.platforms).Sorted(), true
}

func (t *Target) clone() Target {
	c := *t
	c.sources = slices.Clone(t.sources)
	c.deps = slices.Clone(t.deps)
	return c
}

func (p *Product) clone() Product {
	c := *p
	c.targets = slices.Clone(p.targets)
	return c
}
