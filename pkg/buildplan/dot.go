// SPDX-License-Identifier: MPL-2.0

package buildplan

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkgplan/pkgplan/pkg/manifest"
)

// WriteDOT renders the declared target graph of m in Graphviz DOT syntax.
// Targets appear in declaration order; each edge points from a target to a
// dependency. Products are drawn as notes linked to the targets they expose.
// m is not validated: cycles and dangling dependencies are drawn as declared.
func WriteDOT(w io.Writer, m *manifest.Manifest) error {
	targets := m.Targets()

	graphName := m.Name()
	if graphName == "" {
		graphName = "manifest"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "digraph %s {\n", strconv.Quote(graphName))
	b.WriteString("  rankdir=LR;\n")
	b.WriteString("  node [fontname=\"Helvetica\"];\n")

	for _, t := range targets {
		shape := "box"
		if t.Kind() == manifest.KindAggregate {
			shape = "ellipse"
		}
		fmt.Fprintf(&b, "  %s [shape=%s];\n", strconv.Quote(string(t.Name())), shape)
	}
	for _, t := range targets {
		for _, d := range t.Dependencies() {
			fmt.Fprintf(&b, "  %s -> %s;\n", strconv.Quote(string(t.Name())), strconv.Quote(string(d)))
		}
	}
	for _, p := range m.Products() {
		id := strconv.Quote("product:" + string(p.Name()))
		fmt.Fprintf(&b, "  %s [shape=note, label=%s];\n", id, strconv.Quote(string(p.Name())))
		for _, tn := range p.Targets() {
			fmt.Fprintf(&b, "  %s -> %s [style=dashed];\n", id, strconv.Quote(string(tn)))
		}
	}
	b.WriteString("}\n")

	_, err := io.WriteString(w, b.String())
	return err
}
