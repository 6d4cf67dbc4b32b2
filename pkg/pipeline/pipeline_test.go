package pipeline

import (
	"context"
	"testing"

	"github.com/chemdeck/chemdeck/pkg/cache"
	"github.com/chemdeck/chemdeck/pkg/errors"
	"github.com/chemdeck/chemdeck/pkg/filter"
	"github.com/chemdeck/chemdeck/pkg/layout"
)

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"json", false},
		{"png", false},
		{"dot", false},
		{"svg", false},
		{"invalid", true},
		{"PNG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"json", "png"}); err != nil {
		t.Errorf("valid formats should pass: %v", err)
	}
	if err := ValidateFormats([]string{"json", "invalid"}); err == nil {
		t.Error("invalid format should fail")
	}
	// Empty slice is valid, defaults fill it in later.
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("empty formats should pass: %v", err)
	}
}

func TestValidateMode(t *testing.T) {
	if err := ValidateMode("grid"); err != nil {
		t.Errorf("grid should be valid: %v", err)
	}
	if err := ValidateMode("mass-order"); err != nil {
		t.Errorf("mass-order should be valid: %v", err)
	}
	err := ValidateMode("cubist")
	if errors.GetCode(err) != errors.ErrCodeInvalidMode {
		t.Errorf("error code = %s", errors.GetCode(err))
	}
}

func TestOptionsDefaults(t *testing.T) {
	opts := Options{Category: "molecules"}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults: %v", err)
	}
	if opts.Mode != DefaultMode {
		t.Errorf("Mode = %s, want %s", opts.Mode, DefaultMode)
	}
	if opts.Width != DefaultWidth || opts.Height != DefaultHeight {
		t.Errorf("dimensions = %vx%v", opts.Width, opts.Height)
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != FormatJSON {
		t.Errorf("Formats = %v", opts.Formats)
	}
}

func TestOptionsMissingCategory(t *testing.T) {
	opts := Options{}
	err := opts.ValidateAndSetDefaults()
	if err == nil {
		t.Fatal("missing category should fail")
	}
}

func TestFilterFingerprint(t *testing.T) {
	opts := Options{Category: "molecules"}
	if got := opts.FilterFingerprint(); got != "" {
		t.Errorf("empty filters fingerprint = %q, want empty", got)
	}

	set := filter.NewSet()
	set.Select(filter.DimPolarity, []string{"Polar"})
	opts.Filters = &set
	fp1 := opts.FilterFingerprint()
	if fp1 == "" {
		t.Fatal("active filters should fingerprint")
	}

	set2 := filter.NewSet()
	set2.Select(filter.DimPolarity, []string{"Nonpolar"})
	opts.Filters = &set2
	if fp2 := opts.FilterFingerprint(); fp2 == fp1 {
		t.Error("different selections should fingerprint differently")
	}
}

func TestExecuteGridJSON(t *testing.T) {
	runner := NewRunner(nil, nil, nil, nil)
	defer runner.Close()

	result, err := runner.Execute(context.Background(), Options{
		Category: "molecules",
		Mode:     "grid",
		Formats:  []string{FormatJSON},
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if result.Stats.LoadedCount == 0 {
		t.Error("no entities loaded")
	}
	if result.Stats.PlacedCount != result.Stats.LoadedCount {
		t.Errorf("placed %d of %d entities", result.Stats.PlacedCount, result.Stats.LoadedCount)
	}
	if result.LayoutHash == "" {
		t.Error("missing layout hash")
	}

	data, ok := result.Artifacts[FormatJSON]
	if !ok {
		t.Fatal("missing json artifact")
	}
	decoded, err := layout.UnmarshalResult(data)
	if err != nil {
		t.Fatalf("json artifact invalid: %v", err)
	}
	if decoded.Mode != layout.ModeGrid {
		t.Errorf("artifact mode = %s", decoded.Mode)
	}
	if len(decoded.Placed) != result.Stats.PlacedCount {
		t.Errorf("artifact has %d cards, stats say %d", len(decoded.Placed), result.Stats.PlacedCount)
	}
}

func TestApplyFilters(t *testing.T) {
	runner := NewRunner(nil, nil, nil, nil)
	defer runner.Close()

	entities, err := runner.Load(context.Background(), Options{Category: "molecules"})
	if err != nil {
		t.Fatal(err)
	}

	// Nil and empty sets pass everything through untouched.
	if got := runner.ApplyFilters(context.Background(), entities, Options{Category: "molecules"}); len(got) != len(entities) {
		t.Errorf("nil filters kept %d of %d", len(got), len(entities))
	}
	empty := filter.NewSet()
	opts := Options{Category: "molecules", Filters: &empty}
	if got := runner.ApplyFilters(context.Background(), entities, opts); len(got) != len(entities) {
		t.Errorf("empty filters kept %d of %d", len(got), len(entities))
	}

	set := filter.NewSet()
	set.Select(filter.DimPolarity, []string{"Polar"})
	opts.Filters = &set
	got := runner.ApplyFilters(context.Background(), entities, opts)
	if len(got) == 0 || len(got) >= len(entities) {
		t.Errorf("polarity filter kept %d of %d", len(got), len(entities))
	}
	for _, e := range got {
		if e.Str("polarity", "") != "Polar" {
			t.Errorf("%s passed a Polar-only filter", e.Name())
		}
	}
}

func TestExecuteWithFilters(t *testing.T) {
	runner := NewRunner(nil, nil, nil, nil)
	defer runner.Close()

	baseline, err := runner.Execute(context.Background(), Options{Category: "molecules"})
	if err != nil {
		t.Fatal(err)
	}

	set := filter.NewSet()
	set.Select(filter.DimPolarity, []string{"Polar"})
	filtered, err := runner.Execute(context.Background(), Options{
		Category: "molecules",
		Filters:  &set,
	})
	if err != nil {
		t.Fatal(err)
	}

	if filtered.EntityCount == 0 {
		t.Error("polar filter removed everything")
	}
	if filtered.EntityCount >= baseline.EntityCount {
		t.Errorf("filter did not reduce: %d >= %d", filtered.EntityCount, baseline.EntityCount)
	}
}

func TestExecuteCacheHits(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	runner := NewRunner(nil, fc, nil, nil)
	defer runner.Close()

	opts := Options{Category: "particles", Mode: "circular", Formats: []string{FormatJSON}}

	first, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if first.CacheInfo.LoadHit || first.CacheInfo.LayoutHit || first.CacheInfo.RenderHit {
		t.Errorf("first run should miss everywhere: %+v", first.CacheInfo)
	}

	second, err := runner.Execute(context.Background(), Options{
		Category: "particles", Mode: "circular", Formats: []string{FormatJSON},
	})
	if err != nil {
		t.Fatal(err)
	}
	if !second.CacheInfo.LoadHit || !second.CacheInfo.LayoutHit || !second.CacheInfo.RenderHit {
		t.Errorf("second run should hit everywhere: %+v", second.CacheInfo)
	}
	if second.LayoutHash != first.LayoutHash {
		t.Error("cached run should produce the same layout hash")
	}
}

func TestExecuteRefreshSkipsCache(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	runner := NewRunner(nil, fc, nil, nil)
	defer runner.Close()

	if _, err := runner.Execute(context.Background(), Options{Category: "hadrons"}); err != nil {
		t.Fatal(err)
	}
	refreshed, err := runner.Execute(context.Background(), Options{Category: "hadrons", Refresh: true})
	if err != nil {
		t.Fatal(err)
	}
	if refreshed.CacheInfo.LoadHit || refreshed.CacheInfo.LayoutHit {
		t.Errorf("refresh should bypass cache: %+v", refreshed.CacheInfo)
	}
}

func TestExecuteDOTFormat(t *testing.T) {
	runner := NewRunner(nil, nil, nil, nil)
	defer runner.Close()

	result, err := runner.Execute(context.Background(), Options{
		Category: "particles",
		Mode:     "force-network",
		Formats:  []string{FormatDOT},
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	dot := string(result.Artifacts[FormatDOT])
	if len(dot) == 0 {
		t.Fatal("empty dot artifact")
	}
	if dot[:7] != "digraph" {
		t.Errorf("dot artifact does not start with digraph: %s", dot[:20])
	}
}

func TestExecutePNGFormat(t *testing.T) {
	runner := NewRunner(nil, nil, nil, nil)
	defer runner.Close()

	result, err := runner.Execute(context.Background(), Options{
		Category:     "molecules",
		Mode:         "mass-order",
		Formats:      []string{FormatPNG},
		FillProperty: "mass",
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	png := result.Artifacts[FormatPNG]
	if len(png) < 8 || png[1] != 'P' || png[2] != 'N' || png[3] != 'G' {
		t.Error("artifact is not a PNG")
	}
}

func TestExecuteInvalidMode(t *testing.T) {
	runner := NewRunner(nil, nil, nil, nil)
	defer runner.Close()

	_, err := runner.Execute(context.Background(), Options{
		Category: "molecules",
		Mode:     "cubist",
	})
	if err == nil {
		t.Fatal("invalid mode should fail")
	}
}

func TestComputeLayoutLinearSortProperty(t *testing.T) {
	runner := NewRunner(nil, nil, nil, nil)
	defer runner.Close()

	entities, err := runner.Load(context.Background(), Options{Category: "particles"})
	if err != nil {
		t.Fatal(err)
	}

	byMass, err := runner.ComputeLayout(context.Background(), entities, Options{
		Category: "particles", Mode: "linear", SortProperty: "mass",
	})
	if err != nil {
		t.Fatal(err)
	}
	byCharge, err := runner.ComputeLayout(context.Background(), entities, Options{
		Category: "particles", Mode: "linear", SortProperty: "charge",
	})
	if err != nil {
		t.Fatal(err)
	}

	if len(byMass.Placed) != len(byCharge.Placed) {
		t.Fatal("sort property must not change card count")
	}
	same := true
	for i := range byMass.Placed {
		if byMass.Placed[i].Entity.Name() != byCharge.Placed[i].Entity.Name() {
			same = false
			break
		}
	}
	if same {
		t.Error("different sort properties should order cards differently")
	}
}
