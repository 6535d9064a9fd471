// SPDX-License-Identifier: MPL-2.0

package buildplan

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/pkgplan/pkgplan/pkg/manifest"
)

// Output formats.
const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// ErrInvalidFormat is the sentinel error wrapped by InvalidFormatError.
var ErrInvalidFormat = errors.New("invalid output format")

type (
	// Format selects a plan encoding.
	Format string

	// InvalidFormatError is returned for an unknown Format value.
	InvalidFormatError struct {
		Value Format
	}
)

// Formats returns the supported output formats.
func Formats() []Format {
	return []Format{FormatText, FormatJSON, FormatYAML, FormatTOML}
}

func (f Format) String() string { return string(f) }

// Validate returns nil if f is a supported format.
func (f Format) Validate() error {
	switch f {
	case FormatText, FormatJSON, FormatYAML, FormatTOML:
		return nil
	default:
		return &InvalidFormatError{Value: f}
	}
}

// Error implements the error interface.
func (e *InvalidFormatError) Error() string {
	names := make([]string, 0, 4)
	for _, f := range Formats() {
		names = append(names, string(f))
	}
	return fmt.Sprintf("invalid output format %q (expected one of %s)", e.Value, strings.Join(names, ", "))
}

// Unwrap returns ErrInvalidFormat.
func (e *InvalidFormatError) Unwrap() error { return ErrInvalidFormat }

// Encode writes p to w in format f.
func Encode(w io.Writer, p *Plan, f Format) error {
	switch f {
	case FormatText:
		return encodeText(w, p)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(p)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(p); err != nil {
			return err
		}
		return enc.Close()
	case FormatTOML:
		enc := toml.NewEncoder(w)
		enc.SetIndentTables(true)
		return enc.Encode(p)
	default:
		return &InvalidFormatError{Value: f}
	}
}

// encodeText renders a header followed by one table per product:
//
//	package LynxSPM
//	platforms ios >= 13.0
//	...
//	product Lynx (automatic)
//	#  TARGET  KIND    ARTIFACT                     LINK AGAINST
//	0  PrimJS  binary  ./Sources/PrimJS.xcframework
func encodeText(w io.Writer, p *Plan) error {
	var b strings.Builder

	if p.Package != "" {
		fmt.Fprintf(&b, "package   %s\n", p.Package)
	}
	if len(p.Platforms) > 0 {
		cs := make([]string, len(p.Platforms))
		for i, c := range p.Platforms {
			cs[i] = c.String()
		}
		fmt.Fprintf(&b, "platforms %s\n", strings.Join(cs, ", "))
	}
	fmt.Fprintf(&b, "order     %s\n", joinNames(p.Order, " "))
	fmt.Fprintf(&b, "digest    %s\n", p.Digest)

	for _, pp := range p.Products {
		fmt.Fprintf(&b, "\nproduct %s (%s)\n", pp.Name, pp.Type)
		b.WriteString(stepTable(pp.Steps))
		b.WriteByte('\n')
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func stepTable(steps []Step) string {
	t := table.New().
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderHeader(false).
		BorderColumn(false).
		Headers("#", "TARGET", "KIND", "ARTIFACT", "LINK AGAINST")

	for _, s := range steps {
		artifact := s.ArtifactPath
		if s.Kind == manifest.KindAggregate {
			artifact = strings.Join(s.Sources, ",")
		}
		t.Row(strconv.Itoa(s.LinkOrderIndex), string(s.TargetName), string(s.Kind), artifact, joinNames(s.LinkAgainst, ","))
	}

	const lastCol = 4
	t.StyleFunc(func(_, col int) lipgloss.Style {
		if col == lastCol {
			return lipgloss.NewStyle()
		}
		return lipgloss.NewStyle().PaddingRight(2)
	})
	return t.String()
}

func joinNames(names []manifest.TargetName, sep string) string {
	ss := make([]string, len(names))
	for i, n := range names {
		ss[i] = string(n)
	}
	return strings.Join(ss, sep)
}
