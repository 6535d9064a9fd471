// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"fmt"
	"path"

	"github.com/pkgplan/pkgplan/pkg/platform"
)

// DefaultSourcesRoot is the directory under which an aggregate target without
// declared sources keeps them: Sources/<target name>.
const DefaultSourcesRoot = "Sources"

// Parse builds a Manifest from a decoded File.
//
// Parse checks only what can be judged locally: names are well formed and
// unique (targets and products are separate namespaces), kinds and product
// types are known, binaries have a path, products expose at least one
// target, and platform constraints are well formed. References between
// targets and products are left to Validate. Every failure is a
// *MalformedManifestError.
func Parse(f *File) (*Manifest, error) {
	if f == nil {
		return nil, malformed("", "no manifest content")
	}

	m := &Manifest{
		name:         f.Name,
		toolsVersion: f.ToolsVersion,
		targets:      make(map[TargetName]*Target, len(f.Targets)),
		targetOrder:  make([]TargetName, 0, len(f.Targets)),
		products:     make(map[ProductName]*Product, len(f.Products)),
		productOrder: make([]ProductName, 0, len(f.Products)),
	}

	floors, err := parsePlatforms(f.Platforms, "platforms")
	if err != nil {
		return nil, err
	}
	m.platforms = floors

	for i := range f.Targets {
		t, err := parseTarget(&f.Targets[i], fmt.Sprintf("targets[%d]", i))
		if err != nil {
			return nil, err
		}
		if _, dup := m.targets[t.name]; dup {
			return nil, malformed(fmt.Sprintf("targets[%d].name", i), "duplicate target name %q", t.name)
		}
		m.targets[t.name] = t
		m.targetOrder = append(m.targetOrder, t.name)
	}

	for i := range f.Products {
		p, err := parseProduct(&f.Products[i], fmt.Sprintf("products[%d]", i))
		if err != nil {
			return nil, err
		}
		if _, dup := m.products[p.name]; dup {
			return nil, malformed(fmt.Sprintf("products[%d].name", i), "duplicate product name %q", p.name)
		}
		m.products[p.name] = p
		m.productOrder = append(m.productOrder, p.name)
	}

	return m, nil
}

func parseTarget(spec *TargetSpec, field string) (*Target, error) {
	name := TargetName(spec.Name)
	if err := name.Validate(); err != nil {
		return nil, &MalformedManifestError{Field: field + ".name", Message: err.Error(), Err: err}
	}
	kind := TargetKind(spec.Kind)
	if err := kind.Validate(); err != nil {
		return nil, &MalformedManifestError{Field: field + ".kind", Message: err.Error(), Err: err}
	}

	t := &Target{name: name, kind: kind}

	switch kind {
	case KindBinary:
		if spec.Path == "" {
			return nil, malformed(field+".path", "binary target %q has no path", name)
		}
		if len(spec.Sources) > 0 {
			return nil, malformed(field+".sources", "binary target %q cannot declare sources", name)
		}
		t.path = spec.Path
	case KindAggregate:
		if spec.Path != "" {
			return nil, malformed(field+".path", "aggregate target %q cannot declare a path", name)
		}
		t.sources = make([]string, 0, len(spec.Sources))
		for i, src := range spec.Sources {
			if src == "" {
				return nil, malformed(fmt.Sprintf("%s.sources[%d]", field, i), "empty source location")
			}
			t.sources = append(t.sources, src)
		}
		if len(t.sources) == 0 {
			t.sources = []string{path.Join(DefaultSourcesRoot, string(name))}
		}
	}

	t.deps = make([]TargetName, 0, len(spec.Dependencies))
	for i, d := range spec.Dependencies {
		dep := TargetName(d)
		depField := fmt.Sprintf("%s.dependencies[%d]", field, i)
		if err := dep.Validate(); err != nil {
			return nil, &MalformedManifestError{Field: depField, Message: err.Error(), Err: err}
		}
		for _, seen := range t.deps {
			if seen == dep {
				return nil, malformed(depField, "duplicate dependency %q", dep)
			}
		}
		t.deps = append(t.deps, dep)
	}

	floors, err := parsePlatforms(spec.Platforms, field+".platforms")
	if err != nil {
		return nil, err
	}
	t.platforms = floors
	return t, nil
}

func parseProduct(spec *ProductSpec, field string) (*Product, error) {
	name := ProductName(spec.Name)
	if err := name.Validate(); err != nil {
		return nil, &MalformedManifestError{Field: field + ".name", Message: err.Error(), Err: err}
	}
	typ := ProductType(spec.Type)
	if err := typ.Validate(); err != nil {
		return nil, &MalformedManifestError{Field: field + ".type", Message: err.Error(), Err: err}
	}
	if len(spec.Targets) == 0 {
		return nil, malformed(field+".targets", "product %q exposes no targets", name)
	}

	p := &Product{name: name, typ: typ, targets: make([]TargetName, 0, len(spec.Targets))}
	for i, tn := range spec.Targets {
		target := TargetName(tn)
		tf := fmt.Sprintf("%s.targets[%d]", field, i)
		if err := target.Validate(); err != nil {
			return nil, &MalformedManifestError{Field: tf, Message: err.Error(), Err: err}
		}
		for _, seen := range p.targets {
			if seen == target {
				return nil, malformed(tf, "product %q lists target %q twice", name, target)
			}
		}
		p.targets = append(p.targets, target)
	}
	return p, nil
}

func parsePlatforms(specs []PlatformSpec, field string) (platform.Floors, error) {
	cs := make([]platform.Constraint, 0, len(specs))
	seen := make(map[platform.Family]bool, len(specs))
	for i, s := range specs {
		c := platform.Constraint{Family: platform.Family(s.Family), MinVersion: platform.Version(s.MinVersion)}
		pf := fmt.Sprintf("%s[%d]", field, i)
		if err := c.Validate(); err != nil {
			return nil, &MalformedManifestError{Field: pf, Message: err.Error(), Err: err}
		}
		if seen[c.Family] {
			return nil, malformed(pf+".family", "platform %q declared twice", c.Family)
		}
		seen[c.Family] = true
		cs = append(cs, c)
	}
	return platform.NewFloors(cs), nil
}
