// SPDX-License-Identifier: MPL-2.0

package buildplan

import (
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/pkgplan/pkgplan/pkg/manifest"
)

func lynxManifest(t *testing.T) *manifest.Manifest {
	t.Helper()
	bin := func(name string, deps ...string) manifest.TargetSpec {
		return manifest.TargetSpec{Name: name, Kind: "binary", Path: "./Sources/" + name + ".xcframework", Dependencies: deps}
	}
	m, err := manifest.Parse(&manifest.File{
		Name:      "LynxSPM",
		Platforms: []manifest.PlatformSpec{{Family: "ios", MinVersion: "13.0"}},
		Products: []manifest.ProductSpec{
			{Name: "Lynx", Targets: []string{"Lynx"}},
			{Name: "LynxService", Targets: []string{"LynxService"}},
		},
		Targets: []manifest.TargetSpec{
			bin("PrimJS"),
			bin("SDWebImageWebPCoder"),
			bin("SDWebImage"),
			bin("Lynx", "PrimJS"),
			bin("LynxService", "Lynx", "SDWebImage", "SDWebImageWebPCoder"),
		},
	})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	return m
}

func aggregateManifest(t *testing.T) *manifest.Manifest {
	t.Helper()
	m, err := manifest.Parse(&manifest.File{
		Targets: []manifest.TargetSpec{
			{Name: "A", Kind: "binary", Path: "./A.xcframework"},
			{Name: "C", Kind: "binary", Path: "./C.xcframework"},
			{Name: "B", Kind: "aggregate", Dependencies: []string{"A"}},
			{Name: "App", Kind: "aggregate", Sources: []string{"App/Sources"}, Dependencies: []string{"B", "C"}},
		},
		Products: []manifest.ProductSpec{
			{Name: "P", Targets: []string{"B"}},
			{Name: "Suite", Type: "dynamic", Targets: []string{"App"}},
		},
	})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	return m
}

func TestBuild_Lynx(t *testing.T) {
	t.Parallel()

	p, err := Build(lynxManifest(t))
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	if p.Package != "LynxSPM" {
		t.Errorf("Package = %q", p.Package)
	}
	if len(p.Products) != 2 {
		t.Fatalf("expected 2 products, got %d", len(p.Products))
	}

	lynx, ok := p.Product("Lynx")
	if !ok {
		t.Fatal("product Lynx missing")
	}
	want := []Step{
		{TargetName: "PrimJS", Kind: manifest.KindBinary, ArtifactPath: "./Sources/PrimJS.xcframework", LinkOrderIndex: 0},
		{TargetName: "Lynx", Kind: manifest.KindBinary, ArtifactPath: "./Sources/Lynx.xcframework", LinkOrderIndex: 1},
	}
	if len(lynx.Steps) != len(want) {
		t.Fatalf("Steps = %+v", lynx.Steps)
	}
	for i := range want {
		got := lynx.Steps[i]
		if got.TargetName != want[i].TargetName || got.Kind != want[i].Kind ||
			got.ArtifactPath != want[i].ArtifactPath || got.LinkOrderIndex != want[i].LinkOrderIndex {
			t.Errorf("Steps[%d] = %+v, want %+v", i, got, want[i])
		}
		if got.LinkAgainst != nil || got.Sources != nil {
			t.Errorf("binary step must not carry link_against or sources: %+v", got)
		}
	}
	if lynx.Type != manifest.ProductAutomatic {
		t.Errorf("Type = %q", lynx.Type)
	}

	svc, _ := p.Product("LynxService")
	wantNames := []manifest.TargetName{"PrimJS", "SDWebImageWebPCoder", "SDWebImage", "Lynx", "LynxService"}
	if got := svc.TargetNames(); !slices.Equal(got, wantNames) {
		t.Errorf("LynxService = %v, want %v", got, wantNames)
	}

	if !strings.HasPrefix(p.Digest, DigestPrefix) || len(p.Digest) != len(DigestPrefix)+64 {
		t.Errorf("unexpected digest %q", p.Digest)
	}
	if ok, err := p.Verify(); err != nil || !ok {
		t.Errorf("Verify() = %v, %v", ok, err)
	}
}

func TestBuild_Aggregates(t *testing.T) {
	t.Parallel()

	p, err := Build(aggregateManifest(t))
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	prod, _ := p.Product("P")
	if got := prod.TargetNames(); !slices.Equal(got, []manifest.TargetName{"A", "B"}) {
		t.Fatalf("P = %v, want [A B]", got)
	}
	b := prod.Steps[1]
	if b.Kind != manifest.KindAggregate || b.ArtifactPath != "" || b.LinkOrderIndex != 1 {
		t.Errorf("unexpected step %+v", b)
	}
	if !slices.Equal(b.LinkAgainst, []manifest.TargetName{"A"}) {
		t.Errorf("LinkAgainst = %v", b.LinkAgainst)
	}
	if !slices.Equal(b.Sources, []string{"Sources/B"}) {
		t.Errorf("Sources = %v", b.Sources)
	}

	suite, _ := p.Product("Suite")
	if suite.Type != manifest.ProductDynamic {
		t.Errorf("Type = %q", suite.Type)
	}
	app := suite.Steps[len(suite.Steps)-1]
	if app.TargetName != "App" || !slices.Equal(app.LinkAgainst, []manifest.TargetName{"A", "C", "B"}) {
		t.Errorf("App step = %+v", app)
	}
}

func TestBuild_SelectedProducts(t *testing.T) {
	t.Parallel()

	p, err := Build(lynxManifest(t), "LynxService", "Lynx", "LynxService")
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	names := make([]manifest.ProductName, len(p.Products))
	for i, pp := range p.Products {
		names[i] = pp.Name
	}
	if !slices.Equal(names, []manifest.ProductName{"LynxService", "Lynx"}) {
		t.Errorf("products = %v", names)
	}

	_, err = Build(lynxManifest(t), "Nope")
	if !errors.Is(err, manifest.ErrUnknownProduct) {
		t.Errorf("expected ErrUnknownProduct, got %v", err)
	}
}

func TestBuild_NoPartialPlan(t *testing.T) {
	t.Parallel()

	m, err := manifest.Parse(&manifest.File{
		Targets:  []manifest.TargetSpec{{Name: "A", Kind: "aggregate", Dependencies: []string{"B"}}, {Name: "B", Kind: "aggregate", Dependencies: []string{"A"}}},
		Products: []manifest.ProductSpec{{Name: "P", Targets: []string{"A"}}},
	})
	if err != nil {
		t.Fatal(err)
	}

	p, err := Build(m)
	if p != nil {
		t.Error("Build() returned a plan alongside an error")
	}
	var cyc *manifest.CyclicDependencyError
	if !errors.As(err, &cyc) {
		t.Fatalf("expected *CyclicDependencyError, got %v", err)
	}

	if pp, err := BuildProduct(m, "P"); pp != nil || !errors.Is(err, manifest.ErrCyclicDependency) {
		t.Errorf("BuildProduct() = %v, %v", pp, err)
	}
}

func TestBuildProduct(t *testing.T) {
	t.Parallel()

	pp, err := BuildProduct(lynxManifest(t), "Lynx")
	if err != nil {
		t.Fatalf("BuildProduct() error = %v", err)
	}
	if got := pp.TargetNames(); !slices.Equal(got, []manifest.TargetName{"PrimJS", "Lynx"}) {
		t.Errorf("TargetNames() = %v", got)
	}
}

func TestBuild_Deterministic(t *testing.T) {
	t.Parallel()

	first, err := Build(lynxManifest(t))
	if err != nil {
		t.Fatal(err)
	}
	for range 10 {
		again, err := Build(lynxManifest(t))
		if err != nil {
			t.Fatal(err)
		}
		if again.Digest != first.Digest {
			t.Fatalf("digest changed: %s vs %s", first.Digest, again.Digest)
		}
	}
}

func TestVerify_DetectsTampering(t *testing.T) {
	t.Parallel()

	p, err := Build(lynxManifest(t))
	if err != nil {
		t.Fatal(err)
	}
	p.Products[0].Steps[0].ArtifactPath = "./elsewhere"
	if ok, err := p.Verify(); err != nil || ok {
		t.Errorf("Verify() = %v, %v; want false", ok, err)
	}
}
