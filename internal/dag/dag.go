// SPDX-License-Identifier: MPL-2.0

// Package dag provides the dependency graph behind manifest resolution:
// deterministic topological ordering, cycle witnesses and dependency closures.
//
// Edges point from a node to the nodes it depends on. Every traversal visits
// nodes in insertion order and dependencies in the order their edges were
// added, so results are reproducible for identical input.
package dag

import (
	"fmt"
	"slices"
	"strings"
)

const (
	white color = iota // unvisited
	gray               // on the current DFS path
	black              // finished
)

type (
	// CycleError indicates that the graph contains a cycle. Cycle is a witness
	// path that starts and ends with the same node, e.g. [A B A].
	CycleError struct {
		Cycle []string
	}

	// UnknownNodeError is returned when an edge points at a node that was
	// never added with AddNode.
	UnknownNodeError struct {
		From string
		To   string
	}

	// Graph is a directed graph keyed by node name.
	Graph struct {
		// deps maps each node to the nodes it depends on, in edge insertion order.
		deps map[string][]string
		// nodes tracks all nodes in insertion order for deterministic output.
		nodes []string
		// nodeSet provides O(1) lookup for node existence.
		nodeSet map[string]bool
	}

	color uint8
)

func (e *CycleError) Error() string {
	return fmt.Sprintf("dependency cycle detected: %s", strings.Join(e.Cycle, " -> "))
}

func (e *UnknownNodeError) Error() string {
	return fmt.Sprintf("%q depends on unknown node %q", e.From, e.To)
}

// New creates an empty Graph.
func New() *Graph {
	return &Graph{
		deps:    make(map[string][]string),
		nodeSet: make(map[string]bool),
	}
}

// AddNode adds a node to the graph. If the node already exists, this is a no-op.
func (g *Graph) AddNode(name string) {
	if g.nodeSet[name] {
		return
	}
	g.nodeSet[name] = true
	g.nodes = append(g.nodes, name)
}

// AddEdge records that from depends on to. Duplicate edges are ignored.
// Nodes are not added implicitly: an edge to a node that is never added makes
// every traversal fail with *UnknownNodeError.
func (g *Graph) AddEdge(from, to string) {
	if slices.Contains(g.deps[from], to) {
		return
	}
	g.deps[from] = append(g.deps[from], to)
}

// Has reports whether name was added as a node.
func (g *Graph) Has(name string) bool {
	return g.nodeSet[name]
}

// Nodes returns the nodes in insertion order.
func (g *Graph) Nodes() []string {
	return slices.Clone(g.nodes)
}

// Dependencies returns the direct dependencies of name in edge order.
func (g *Graph) Dependencies(name string) []string {
	return slices.Clone(g.deps[name])
}

// TopologicalSort returns every node after all of its dependencies.
// Nodes without an ordering constraint between them keep insertion order.
func (g *Graph) TopologicalSort() ([]string, error) {
	if len(g.nodes) == 0 {
		return nil, nil
	}
	w := g.newWalk()
	for _, n := range g.nodes {
		if err := w.visit(n, 0); err != nil {
			return nil, err
		}
	}
	return w.order, nil
}

// Closure returns roots and everything they transitively depend on, in
// topological order. Unknown roots yield *UnknownNodeError with an empty From.
func (g *Graph) Closure(roots ...string) ([]string, error) {
	w := g.newWalk()
	for _, r := range roots {
		if !g.nodeSet[r] {
			return nil, &UnknownNodeError{To: r}
		}
		if err := w.visit(r, 0); err != nil {
			return nil, err
		}
	}
	return w.order, nil
}

// FindCycle returns one cycle witness, or nil when the graph is acyclic.
// Edges to unknown nodes are skipped.
func (g *Graph) FindCycle() []string {
	colors := make(map[string]color, len(g.nodes))
	var stack []string

	var dfs func(n string) []string
	dfs = func(n string) []string {
		colors[n] = gray
		stack = append(stack, n)
		for _, d := range g.deps[n] {
			if !g.nodeSet[d] {
				continue
			}
			switch colors[d] {
			case gray:
				return cyclePath(stack, d)
			case white:
				if c := dfs(d); c != nil {
					return c
				}
			}
		}
		stack = stack[:len(stack)-1]
		colors[n] = black
		return nil
	}

	for _, n := range g.nodes {
		if colors[n] != white {
			continue
		}
		if c := dfs(n); c != nil {
			return c
		}
	}
	return nil
}

// walk is one post-order traversal. The depth bound keeps a corrupted graph
// from recursing without limit: no simple path is longer than the node count.
type walk struct {
	g        *Graph
	colors   map[string]color
	stack    []string
	order    []string
	maxDepth int
}

func (g *Graph) newWalk() *walk {
	return &walk{
		g:        g,
		colors:   make(map[string]color, len(g.nodes)),
		order:    make([]string, 0, len(g.nodes)),
		maxDepth: len(g.nodes),
	}
}

func (w *walk) visit(n string, depth int) error {
	switch w.colors[n] {
	case black:
		return nil
	case gray:
		return &CycleError{Cycle: cyclePath(w.stack, n)}
	}
	if depth >= w.maxDepth {
		return &CycleError{Cycle: append(slices.Clone(w.stack), n)}
	}

	w.colors[n] = gray
	w.stack = append(w.stack, n)
	for _, d := range w.g.deps[n] {
		if !w.g.nodeSet[d] {
			return &UnknownNodeError{From: n, To: d}
		}
		if err := w.visit(d, depth+1); err != nil {
			return err
		}
	}
	w.stack = w.stack[:len(w.stack)-1]
	w.colors[n] = black
	w.order = append(w.order, n)
	return nil
}

// cyclePath cuts the DFS stack at the first occurrence of back and closes the
// loop, so the witness starts and ends with back.
func cyclePath(stack []string, back string) []string {
	i := slices.Index(stack, back)
	out := slices.Clone(stack[i:])
	return append(out, back)
}
