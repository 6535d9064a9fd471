// SPDX-License-Identifier: MPL-2.0

// Package buildplan turns a validated manifest into per-product link plans
// for an external build toolchain, and renders them as text, JSON, YAML,
// TOML or a Graphviz graph.
//
// Plans are deterministic: the same manifest always yields byte-identical
// output in every format, and Plan.Digest lets callers check that cheaply.
package buildplan
