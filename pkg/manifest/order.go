// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"errors"

	"github.com/pkgplan/pkgplan/internal/dag"
)

// Order returns every target after all of its dependencies. Targets without
// an ordering constraint between them keep their declaration order, so the
// result is identical for identical input.
//
// Order does not rely on Validate having run: a cycle yields
// *CyclicDependencyError and a dangling dependency *UnknownDependencyError.
func (m *Manifest) Order() ([]TargetName, error) {
	order, err := m.graph().TopologicalSort()
	if err != nil {
		return nil, m.graphError(err)
	}
	return toTargetNames(order), nil
}

// ResolveProduct returns the de-duplicated transitive closure of the
// product's targets, in the global Order.
func (m *Manifest) ResolveProduct(name ProductName) ([]TargetName, error) {
	p, ok := m.products[name]
	if !ok {
		return nil, &UnknownProductError{Product: name}
	}
	for _, t := range p.targets {
		if _, ok := m.targets[t]; !ok {
			return nil, &UnknownTargetError{Product: name, Missing: t}
		}
	}
	return m.closure(p.targets)
}

// TransitiveDependencies returns everything a target depends on, directly
// or not, in the global Order and without the target itself.
func (m *Manifest) TransitiveDependencies(name TargetName) ([]TargetName, error) {
	t, ok := m.targets[name]
	if !ok {
		return nil, &UnknownDependencyError{Missing: name}
	}
	return m.closure(t.deps)
}

// closure filters the global order down to roots and their dependencies.
// Running the full sort first keeps cycle and unknown-name reporting
// identical to Order.
func (m *Manifest) closure(roots []TargetName) ([]TargetName, error) {
	g := m.graph()
	order, err := g.TopologicalSort()
	if err != nil {
		return nil, m.graphError(err)
	}
	reach, err := g.Closure(toStrings(roots)...)
	if err != nil {
		return nil, m.graphError(err)
	}

	in := make(map[string]bool, len(reach))
	for _, n := range reach {
		in[n] = true
	}
	out := make([]TargetName, 0, len(reach))
	for _, n := range order {
		if in[n] {
			out = append(out, TargetName(n))
		}
	}
	return out, nil
}

// graph mirrors the arena: nodes in declaration order, edges in declared
// dependency order.
func (m *Manifest) graph() *dag.Graph {
	g := dag.New()
	for _, n := range m.targetOrder {
		g.AddNode(string(n))
	}
	for _, n := range m.targetOrder {
		for _, d := range m.targets[n].deps {
			g.AddEdge(string(n), string(d))
		}
	}
	return g
}

func (m *Manifest) graphError(err error) error {
	var cycle *dag.CycleError
	if errors.As(err, &cycle) {
		return &CyclicDependencyError{Cycle: toTargetNames(cycle.Cycle)}
	}
	var unknown *dag.UnknownNodeError
	if errors.As(err, &unknown) {
		return &UnknownDependencyError{Target: TargetName(unknown.From), Missing: TargetName(unknown.To)}
	}
	return err
}

func toTargetNames(ss []string) []TargetName {
	out := make([]TargetName, len(ss))
	for i, s := range ss {
		out[i] = TargetName(s)
	}
	return out
}

func toStrings(ns []TargetName) []string {
	out := make([]string, len(ns))
	for i, n := range ns {
		out[i] = string(n)
	}
	return out
}
