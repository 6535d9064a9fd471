// SPDX-License-Identifier: MPL-2.0

// Package manifest parses package manifests and resolves them into ordered
// target sequences.
//
// A manifest declares binary and aggregate targets, the products that expose
// them, and minimum platform versions. Load reads any supported format (CUE,
// JSON, YAML, TOML, HCL) through one embedded CUE schema and hands the result
// to Parse, which builds an immutable *Manifest. Validate, Order and
// ResolveProduct are pure functions of that value: a changed input produces a
// new Manifest rather than mutating an existing one.
//
// Targets reference each other by name only. The Manifest owns every Target in
// a name-keyed arena, so dependency lookups never follow pointers between
// targets.
package manifest
