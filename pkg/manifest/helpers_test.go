// SPDX-License-Identifier: MPL-2.0

package manifest

import "testing"

func binary(name string, deps ...string) TargetSpec {
	return TargetSpec{Name: name, Kind: "binary", Path: "./Sources/" + name + ".xcframework", Dependencies: deps}
}

func aggregate(name string, deps ...string) TargetSpec {
	return TargetSpec{Name: name, Kind: "aggregate", Dependencies: deps}
}

func product(name string, targets ...string) ProductSpec {
	return ProductSpec{Name: name, Targets: targets}
}

// mustParse parses f and fails the test on error.
func mustParse(t *testing.T, f *File) *Manifest {
	t.Helper()
	m, err := Parse(f)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	return m
}

// lynxFile mirrors testdata/lynx.cue.
func lynxFile() *File {
	return &File{
		Name:         "LynxSPM",
		ToolsVersion: "5.5",
		Platforms:    []PlatformSpec{{Family: "ios", MinVersion: "13.0"}},
		Products: []ProductSpec{
			product("Lynx", "Lynx"),
			product("LynxService", "LynxService"),
		},
		Targets: []TargetSpec{
			binary("PrimJS"),
			binary("SDWebImageWebPCoder"),
			binary("SDWebImage"),
			binary("Lynx", "PrimJS"),
			binary("LynxService", "Lynx", "SDWebImage", "SDWebImageWebPCoder"),
		},
	}
}
