package cli

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/chemdeck/chemdeck/pkg/layout"
)

func testCLI(t *testing.T) *CLI {
	t.Helper()
	t.Setenv("XDG_DATA_HOME", t.TempDir())
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	return New(io.Discard, LogInfo)
}

func TestRootCommandStructure(t *testing.T) {
	c := testCLI(t)
	root := c.RootCommand()

	if root.Use != "chemdeck" {
		t.Errorf("Use = %q", root.Use)
	}

	want := []string{"layout", "render", "datasets", "cache", "serve", "browse", "completion"}
	for _, name := range want {
		found := false
		for _, cmd := range root.Commands() {
			if cmd.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("missing subcommand %q", name)
		}
	}
}

func TestLayoutCommandWritesResult(t *testing.T) {
	c := testCLI(t)
	output := filepath.Join(t.TempDir(), "out.json")

	root := c.RootCommand()
	root.SetArgs([]string{"layout", "molecules", "-m", "grid", "-o", output, "--no-cache"})
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)

	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("layout command: %v", err)
	}

	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	var result layout.Result
	if err := json.Unmarshal(data, &result); err != nil {
		t.Fatalf("parse output: %v", err)
	}
	if result.Mode != layout.ModeGrid {
		t.Errorf("mode = %s", result.Mode)
	}
	if len(result.Placed) == 0 {
		t.Error("no cards placed")
	}
}

func TestLayoutCommandRejectsBadMode(t *testing.T) {
	c := testCLI(t)
	root := c.RootCommand()
	root.SetArgs([]string{"layout", "molecules", "-m", "cubist", "--no-cache"})
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)

	if err := root.ExecuteContext(context.Background()); err == nil {
		t.Error("expected error for unknown mode")
	}
}

func TestParseFilterFlags(t *testing.T) {
	set, err := parseFilterFlags([]string{"polarity=Polar,Nonpolar"}, []string{"mass=10:50"})
	if err != nil {
		t.Fatalf("parseFilterFlags: %v", err)
	}
	if set == nil {
		t.Fatal("expected a filter set")
	}
	if got := set.Values["polarity"]; len(got) != 2 {
		t.Errorf("polarity selection = %v", got)
	}
	r, ok := set.Ranges["mass"]
	if !ok || !r.Active || r.Min != 10 || r.Max != 50 {
		t.Errorf("mass range = %+v", r)
	}
}

func TestParseFilterFlagsEmpty(t *testing.T) {
	set, err := parseFilterFlags(nil, nil)
	if err != nil {
		t.Fatalf("parseFilterFlags: %v", err)
	}
	if set != nil {
		t.Error("no flags should yield a nil set")
	}
}

func TestParseFilterFlagsInvalid(t *testing.T) {
	tests := [][]string{
		{"polarity"},
		{"=Polar"},
		{"polarity="},
	}
	for _, flags := range tests {
		if _, err := parseFilterFlags(flags, nil); err == nil {
			t.Errorf("parseFilterFlags(%v) should fail", flags)
		}
	}
	if _, err := parseFilterFlags(nil, []string{"mass=low:high"}); err == nil {
		t.Error("non-numeric range should fail")
	}
	if _, err := parseFilterFlags(nil, []string{"mass=10"}); err == nil {
		t.Error("range without colon should fail")
	}
}

func TestParseFormats(t *testing.T) {
	if got := parseFormats(""); len(got) != 1 || got[0] != "png" {
		t.Errorf("parseFormats(\"\") = %v", got)
	}
	if got := parseFormats("png,svg"); len(got) != 2 {
		t.Errorf("parseFormats = %v", got)
	}
}

func TestArtifactBase(t *testing.T) {
	tests := []struct {
		output   string
		category string
		formats  []string
		want     string
	}{
		{"", "molecules", []string{"png"}, "molecules"},
		{"out.png", "molecules", []string{"png", "svg"}, "out"},
		{"out", "molecules", []string{"png"}, "out"},
		{"out.backup", "molecules", []string{"png"}, "out.backup"},
	}
	for _, tt := range tests {
		if got := artifactBase(tt.output, tt.category, tt.formats); got != tt.want {
			t.Errorf("artifactBase(%q, %q, %v) = %q, want %q", tt.output, tt.category, tt.formats, got, tt.want)
		}
	}
}

func TestAnyModified(t *testing.T) {
	c := testCLI(t)
	store, err := newStore()
	if err != nil {
		t.Fatal(err)
	}
	if anyModified(store) {
		t.Error("fresh store should not be modified")
	}

	_, err = store.Add(context.Background(), "molecules", map[string]any{
		"Name":              "Ozone",
		"Formula":           "O3",
		"MolecularMass_amu": 47.997,
		"BondType":          "Covalent",
		"Geometry":          "Bent",
		"Polarity":          "Polar",
	})
	if err != nil {
		t.Fatal(err)
	}
	if !anyModified(store) {
		t.Error("store with an added record should be modified")
	}

	runner, err := c.newRunner(true)
	if err != nil {
		t.Fatal(err)
	}
	defer runner.Close()
	if runner.Fingerprint != "edited" {
		t.Errorf("fingerprint = %q, want edited", runner.Fingerprint)
	}
}
