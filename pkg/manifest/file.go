// SPDX-License-Identifier: MPL-2.0

package manifest

type (
	// File is the declarative manifest as written on disk. Every supported
	// format decodes into this shape before the CUE schema checks it; Parse
	// turns a checked File into a *Manifest.
	//
	// In HCL, platforms, products and targets are labelled blocks:
	//
	//	platform "ios" { min_version = "13.0" }
	//	product "Lynx" { targets = ["Lynx"] }
	//	target "PrimJS" {
	//	  kind = "binary"
	//	  path = "./Sources/PrimJS.xcframework"
	//	}
	File struct {
		Name         string         `json:"name,omitempty" yaml:"name,omitempty" toml:"name,omitempty" hcl:"name,optional"`
		ToolsVersion string         `json:"tools_version,omitempty" yaml:"tools_version,omitempty" toml:"tools_version,omitempty" hcl:"tools_version,optional"`
		Platforms    []PlatformSpec `json:"platforms,omitempty" yaml:"platforms,omitempty" toml:"platforms,omitempty" hcl:"platform,block"`
		Products     []ProductSpec  `json:"products,omitempty" yaml:"products,omitempty" toml:"products,omitempty" hcl:"product,block"`
		Targets      []TargetSpec   `json:"targets,omitempty" yaml:"targets,omitempty" toml:"targets,omitempty" hcl:"target,block"`
	}

	// PlatformSpec is a minimum version for one platform family.
	PlatformSpec struct {
		Family     string `json:"family" yaml:"family" toml:"family" hcl:"family,label"`
		MinVersion string `json:"min_version" yaml:"min_version" toml:"min_version" hcl:"min_version"`
	}

	// ProductSpec declares a product and the targets it exposes.
	ProductSpec struct {
		Name    string   `json:"name" yaml:"name" toml:"name" hcl:"name,label"`
		Type    string   `json:"type,omitempty" yaml:"type,omitempty" toml:"type,omitempty" hcl:"type,optional"`
		Targets []string `json:"targets" yaml:"targets" toml:"targets" hcl:"targets"`
	}

	// TargetSpec declares a binary or aggregate target.
	TargetSpec struct {
		Name         string         `json:"name" yaml:"name" toml:"name" hcl:"name,label"`
		Kind         string         `json:"kind" yaml:"kind" toml:"kind" hcl:"kind"`
		Path         string         `json:"path,omitempty" yaml:"path,omitempty" toml:"path,omitempty" hcl:"path,optional"`
		Sources      []string       `json:"sources,omitempty" yaml:"sources,omitempty" toml:"sources,omitempty" hcl:"sources,optional"`
		Dependencies []string       `json:"dependencies,omitempty" yaml:"dependencies,omitempty" toml:"dependencies,omitempty" hcl:"dependencies,optional"`
		Platforms    []PlatformSpec `json:"platforms,omitempty" yaml:"platforms,omitempty" toml:"platforms,omitempty" hcl:"platform,block"`
	}
)
