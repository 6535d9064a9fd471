// SPDX-License-Identifier: MPL-2.0

// Package cueutil validates user documents against embedded CUE schemas.
//
// Every manifest format accepted by pkgplan, and the configuration file, goes
// through the same three steps:
//
//  1. Compile the embedded schema
//  2. Compile the user document and unify it with a schema definition
//  3. Validate the unified value and decode it into a Go struct
//
// JSON is valid CUE, so formats that are decoded by other libraries (YAML,
// TOML, HCL) are re-encoded as JSON and validated by the same schema.
//
// # Usage
//
//	//go:embed manifest_schema.cue
//	var schema string
//
//	file, err := cueutil.Decode[File](schema, data, "#Manifest",
//	    cueutil.WithFilename("pkgplan.cue"),
//	)
package cueutil
