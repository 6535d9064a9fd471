// SPDX-License-Identifier: MPL-2.0

package buildplan

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/pkgplan/pkgplan/pkg/manifest"
	"github.com/pkgplan/pkgplan/pkg/platform"
)

// DigestPrefix precedes the hex SHA-256 in Plan.Digest.
const DigestPrefix = "sha256:"

type (
	// Step is one target in a product's link sequence.
	Step struct {
		TargetName manifest.TargetName `json:"target_name" yaml:"target_name" toml:"target_name"`
		Kind       manifest.TargetKind `json:"kind" yaml:"kind" toml:"kind"`
		// ArtifactPath is the declared path of a binary target.
		ArtifactPath string `json:"artifact_path,omitempty" yaml:"artifact_path,omitempty" toml:"artifact_path,omitempty"`
		// LinkOrderIndex is the 0-based position within the product sequence.
		LinkOrderIndex int `json:"link_order_index" yaml:"link_order_index" toml:"link_order_index"`
		// LinkAgainst lists, for aggregates, every transitive dependency in link order.
		LinkAgainst []manifest.TargetName `json:"link_against,omitempty" yaml:"link_against,omitempty" toml:"link_against,omitempty"`
		// Sources lists the source locations of an aggregate.
		Sources []string `json:"sources,omitempty" yaml:"sources,omitempty" toml:"sources,omitempty"`
	}

	// ProductPlan is the ordered link sequence for one product.
	ProductPlan struct {
		Name  manifest.ProductName `json:"name" yaml:"name" toml:"name"`
		Type  manifest.ProductType `json:"type" yaml:"type" toml:"type"`
		Steps []Step               `json:"steps" yaml:"steps" toml:"steps"`
	}

	// Plan is the complete output for one manifest.
	Plan struct {
		Package   string                `json:"package,omitempty" yaml:"package,omitempty" toml:"package,omitempty"`
		Platforms []platform.Constraint `json:"platforms,omitempty" yaml:"platforms,omitempty" toml:"platforms,omitempty"`
		// Order is the global topological order of all targets.
		Order    []manifest.TargetName `json:"order" yaml:"order" toml:"order"`
		Products []ProductPlan         `json:"products" yaml:"products" toml:"products"`
		// Digest is DigestPrefix followed by the SHA-256 of every other field
		// in canonical JSON form.
		Digest string `json:"digest" yaml:"digest" toml:"digest"`
	}
)

// Build validates m and plans the named products, in the order given and
// without repeats. With no names, every product is planned in declaration
// order. Nothing is returned unless the whole plan succeeds.
func Build(m *manifest.Manifest, products ...manifest.ProductName) (*Plan, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	order, err := m.Order()
	if err != nil {
		return nil, err
	}

	if len(products) == 0 {
		products = m.ProductNames()
	}

	p := &Plan{
		Package:   m.Name(),
		Platforms: m.Platforms(),
		Order:     order,
		Products:  make([]ProductPlan, 0, len(products)),
	}
	for _, name := range products {
		if _, dup := p.Product(name); dup {
			continue
		}
		pp, err := planProduct(m, name)
		if err != nil {
			return nil, err
		}
		p.Products = append(p.Products, *pp)
	}

	digest, err := p.computeDigest()
	if err != nil {
		return nil, err
	}
	p.Digest = digest
	return p, nil
}

// BuildProduct validates m and plans a single product.
func BuildProduct(m *manifest.Manifest, name manifest.ProductName) (*ProductPlan, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return planProduct(m, name)
}

func planProduct(m *manifest.Manifest, name manifest.ProductName) (*ProductPlan, error) {
	targets, err := m.ResolveProduct(name)
	if err != nil {
		return nil, err
	}
	prod, _ := m.Product(name)

	pp := &ProductPlan{Name: name, Type: prod.Type(), Steps: make([]Step, 0, len(targets))}
	for i, tn := range targets {
		t, _ := m.Target(tn)
		step := Step{TargetName: tn, Kind: t.Kind(), LinkOrderIndex: i}
		switch t.Kind() {
		case manifest.KindBinary:
			step.ArtifactPath = t.Path()
		case manifest.KindAggregate:
			step.Sources = t.Sources()
			deps, err := m.TransitiveDependencies(tn)
			if err != nil {
				return nil, err
			}
			if len(deps) > 0 {
				step.LinkAgainst = deps
			}
		}
		pp.Steps = append(pp.Steps, step)
	}
	return pp, nil
}

// Product returns the plan for name, if it was built.
func (p *Plan) Product(name manifest.ProductName) (ProductPlan, bool) {
	for _, pp := range p.Products {
		if pp.Name == name {
			return pp, true
		}
	}
	return ProductPlan{}, false
}

// TargetNames returns the step targets in link order.
func (pp ProductPlan) TargetNames() []manifest.TargetName {
	out := make([]manifest.TargetName, len(pp.Steps))
	for i, s := range pp.Steps {
		out[i] = s.TargetName
	}
	return out
}

// Verify recomputes the digest and reports whether it matches p.Digest.
func (p *Plan) Verify() (bool, error) {
	digest, err := p.computeDigest()
	if err != nil {
		return false, err
	}
	return digest == p.Digest, nil
}

func (p *Plan) computeDigest() (string, error) {
	body := *p
	body.Digest = ""
	data, err := json.Marshal(&body)
	if err != nil {
		return "", fmt.Errorf("failed to encode plan for digest: %w", err)
	}
	sum := sha256.Sum256(data)
	return DigestPrefix + hex.EncodeToString(sum[:]), nil
}
