// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"errors"
	"slices"
	"testing"

	"github.com/pkgplan/pkgplan/pkg/platform"
)

func TestValidate_Lynx(t *testing.T) {
	t.Parallel()

	if err := mustParse(t, lynxFile()).Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
}

func TestValidate_UnknownDependency(t *testing.T) {
	t.Parallel()

	m := mustParse(t, &File{Targets: []TargetSpec{binary("A"), aggregate("B", "A", "C")}})

	err := m.Validate()
	var depErr *UnknownDependencyError
	if !errors.As(err, &depErr) {
		t.Fatalf("expected *UnknownDependencyError, got %T: %v", err, err)
	}
	if depErr.Target != "B" || depErr.Missing != "C" {
		t.Errorf("got %+v, want {B C}", depErr)
	}
	if !errors.Is(err, ErrUnknownDependency) {
		t.Error("error should wrap ErrUnknownDependency")
	}
}

func TestValidate_Cycle(t *testing.T) {
	t.Parallel()

	// A depends on B, B depends on A.
	m := mustParse(t, &File{Targets: []TargetSpec{aggregate("A", "B"), aggregate("B", "A")}})

	err := m.Validate()
	var cycErr *CyclicDependencyError
	if !errors.As(err, &cycErr) {
		t.Fatalf("expected *CyclicDependencyError, got %T: %v", err, err)
	}
	if !slices.Equal(cycErr.Cycle, []TargetName{"A", "B", "A"}) {
		t.Errorf("Cycle = %v, want [A B A]", cycErr.Cycle)
	}
	if err.Error() != "dependency cycle: A -> B -> A" {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestValidate_CycleWitnessNamesOnlyCycleMembers(t *testing.T) {
	t.Parallel()

	m := mustParse(t, &File{Targets: []TargetSpec{
		aggregate("App", "Net"),
		aggregate("Net", "TLS"),
		aggregate("TLS", "Crypto"),
		aggregate("Crypto", "Net"),
	}})

	var cycErr *CyclicDependencyError
	if err := m.Validate(); !errors.As(err, &cycErr) {
		t.Fatalf("expected *CyclicDependencyError, got %v", err)
	}
	want := []TargetName{"Net", "TLS", "Crypto", "Net"}
	if !slices.Equal(cycErr.Cycle, want) {
		t.Errorf("Cycle = %v, want %v", cycErr.Cycle, want)
	}
}

func TestValidate_UnknownTarget(t *testing.T) {
	t.Parallel()

	// Product P exposes X, which is not declared.
	m := mustParse(t, &File{
		Targets:  []TargetSpec{binary("A")},
		Products: []ProductSpec{product("P", "X")},
	})

	err := m.Validate()
	var tgtErr *UnknownTargetError
	if !errors.As(err, &tgtErr) {
		t.Fatalf("expected *UnknownTargetError, got %T: %v", err, err)
	}
	if tgtErr.Product != "P" || tgtErr.Missing != "X" {
		t.Errorf("got %+v, want {P X}", tgtErr)
	}
}

func TestValidate_CheckOrder(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		file *File
		want error
	}{
		{
			name: "unknown dependency before cycle",
			file: &File{Targets: []TargetSpec{aggregate("A", "B"), aggregate("B", "A", "Z")}},
			want: ErrUnknownDependency,
		},
		{
			name: "cycle before unknown product target",
			file: &File{
				Targets:  []TargetSpec{aggregate("A", "B"), aggregate("B", "A")},
				Products: []ProductSpec{product("P", "X")},
			},
			want: ErrCyclicDependency,
		},
		{
			name: "unknown product target before platforms",
			file: &File{
				Platforms: []PlatformSpec{{Family: "ios", MinVersion: "13"}},
				Targets:   []TargetSpec{{Name: "A", Kind: "binary", Path: "a", Platforms: []PlatformSpec{{Family: "ios", MinVersion: "12"}}}},
				Products:  []ProductSpec{product("P", "X")},
			},
			want: ErrUnknownTarget,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if err := mustParse(t, tt.file).Validate(); !errors.Is(err, tt.want) {
				t.Errorf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestValidate_Platforms(t *testing.T) {
	t.Parallel()

	withPlatforms := func(ts TargetSpec, ps ...PlatformSpec) TargetSpec {
		ts.Platforms = ps
		return ts
	}
	ios := func(v string) PlatformSpec { return PlatformSpec{Family: "ios", MinVersion: v} }
	macos := func(v string) PlatformSpec { return PlatformSpec{Family: "macos", MinVersion: v} }

	tests := []struct {
		name    string
		file    *File
		wantErr *PlatformConstraintError
	}{
		{
			name: "inherits package floor",
			file: &File{Platforms: []PlatformSpec{ios("13.0")}, Targets: []TargetSpec{binary("A"), aggregate("B", "A")}},
		},
		{
			name: "raises floor",
			file: &File{Platforms: []PlatformSpec{ios("13")}, Targets: []TargetSpec{withPlatforms(binary("A"), ios("15.2"))}},
		},
		{
			name: "equal floor written differently",
			file: &File{Platforms: []PlatformSpec{ios("13")}, Targets: []TargetSpec{withPlatforms(binary("A"), ios("13.0.0"))}},
		},
		{
			name:    "below package floor",
			file:    &File{Platforms: []PlatformSpec{ios("13.0")}, Targets: []TargetSpec{binary("A"), withPlatforms(binary("B"), ios("12.4"))}},
			wantErr: &PlatformConstraintError{Target: "B", Family: platform.IOS, Version: "12.4", Floor: "13.0"},
		},
		{
			name: "numeric not lexical comparison",
			file: &File{Platforms: []PlatformSpec{ios("9")}, Targets: []TargetSpec{withPlatforms(binary("A"), ios("10"))}},
		},
		{
			name: "below dependency floor",
			file: &File{
				Platforms: []PlatformSpec{ios("13.0")},
				Targets:   []TargetSpec{withPlatforms(binary("Core"), ios("15")), aggregate("App", "Core")},
			},
			wantErr: &PlatformConstraintError{Target: "App", Dependency: "Core", Family: platform.IOS, Version: "13.0", Floor: "15"},
		},
		{
			name: "dependency family the target does not deploy to",
			file: &File{Targets: []TargetSpec{withPlatforms(binary("Core"), macos("12")), withPlatforms(aggregate("App", "Core"), ios("14"))}},
		},
		{
			name: "target declares a family the package does not",
			file: &File{Platforms: []PlatformSpec{ios("13")}, Targets: []TargetSpec{withPlatforms(binary("A"), macos("10.15"))}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := mustParse(t, tt.file).Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("Validate() error = %v", err)
				}
				return
			}
			var pcErr *PlatformConstraintError
			if !errors.As(err, &pcErr) {
				t.Fatalf("expected *PlatformConstraintError, got %T: %v", err, err)
			}
			if *pcErr != *tt.wantErr {
				t.Errorf("got %+v, want %+v", pcErr, tt.wantErr)
			}
			if !errors.Is(err, ErrPlatformConstraint) {
				t.Error("error should wrap ErrPlatformConstraint")
			}
		})
	}
}

func TestPlatformConstraintError_Message(t *testing.T) {
	t.Parallel()

	pkg := &PlatformConstraintError{Target: "B", Family: platform.IOS, Version: "12.4", Floor: "13.0"}
	if want := `target "B" deploys to ios 12.4, below the package floor ios >= 13.0`; pkg.Error() != want {
		t.Errorf("Error() = %q, want %q", pkg.Error(), want)
	}

	dep := &PlatformConstraintError{Target: "App", Dependency: "Core", Family: platform.IOS, Version: "13.0", Floor: "15"}
	if want := `target "App" deploys to ios 13.0, below ios >= 15 required by dependency "Core"`; dep.Error() != want {
		t.Errorf("Error() = %q, want %q", dep.Error(), want)
	}
}

func TestEffectivePlatforms(t *testing.T) {
	t.Parallel()

	m := mustParse(t, &File{
		Platforms: []PlatformSpec{{Family: "ios", MinVersion: "13.0"}, {Family: "macos", MinVersion: "11"}},
		Targets: []TargetSpec{{
			Name: "Kit", Kind: "aggregate",
			Platforms: []PlatformSpec{{Family: "ios", MinVersion: "14.0"}},
		}},
	})

	got, ok := m.EffectivePlatforms("Kit")
	if !ok {
		t.Fatal("EffectivePlatforms(Kit) not found")
	}
	want := []platform.Constraint{{Family: platform.IOS, MinVersion: "14.0"}, {Family: platform.MacOS, MinVersion: "11"}}
	if !slices.Equal(got, want) {
		t.Errorf("EffectivePlatforms() = %v, want %v", got, want)
	}
	if _, ok := m.EffectivePlatforms("Nope"); ok {
		t.Error("unknown target reported as found")
	}
}
