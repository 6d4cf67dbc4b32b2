package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/chemdeck/chemdeck/pkg/entity"
	"github.com/chemdeck/chemdeck/pkg/errors"
	"github.com/chemdeck/chemdeck/pkg/layout"
)

var pngSignature = []byte{0x89, 'P', 'N', 'G'}

func card(name string, mass float64, x, y float64) layout.Placed {
	return layout.Placed{
		Entity: entity.New(map[string]any{"Name": name, "mass": mass}),
		X:      x,
		Y:      y,
		Width:  100,
		Height: 120,
	}
}

func sampleResult() layout.Result {
	return layout.Result{
		Mode:   layout.ModeGrid,
		Width:  400,
		Height: 300,
		Placed: []layout.Placed{
			card("Water", 18, 20, 20),
			card("Benzene", 78, 140, 20),
			card("Glucose", 180, 260, 20),
		},
	}
}

func TestRenderPNGSignature(t *testing.T) {
	data, err := RenderPNG(sampleResult(), Options{})
	if err != nil {
		t.Fatalf("RenderPNG: %v", err)
	}
	if !bytes.HasPrefix(data, pngSignature) {
		t.Errorf("output does not start with PNG signature: % x", data[:8])
	}
}

func TestRenderPNGFillProperty(t *testing.T) {
	data, err := RenderPNG(sampleResult(), Options{
		FillProperty: "mass",
		Category:     "molecules",
	})
	if err != nil {
		t.Fatalf("RenderPNG: %v", err)
	}
	if len(data) == 0 {
		t.Error("empty artifact")
	}
}

func TestRenderPNGSizeProperty(t *testing.T) {
	data, err := RenderPNG(sampleResult(), Options{
		SizeProperty: "mass",
		Category:     "molecules",
	})
	if err != nil {
		t.Fatalf("RenderPNG: %v", err)
	}
	if !bytes.HasPrefix(data, pngSignature) {
		t.Error("invalid PNG output")
	}
}

func TestRenderPNGStructureGlyph(t *testing.T) {
	res := sampleResult()
	res.Placed[0].Entity.Set("Bonds", []any{
		map[string]any{"Type": "Covalent"},
		map[string]any{"Type": "Covalent"},
	})
	data, err := RenderPNG(res, Options{})
	if err != nil {
		t.Fatalf("RenderPNG: %v", err)
	}
	if !bytes.HasPrefix(data, pngSignature) {
		t.Error("invalid PNG output")
	}
}

func TestRenderPNGScatterAxes(t *testing.T) {
	res := sampleResult()
	res.Mode = layout.ModePhase
	data, err := RenderPNG(res, Options{})
	if err != nil {
		t.Fatalf("RenderPNG: %v", err)
	}
	if !bytes.HasPrefix(data, pngSignature) {
		t.Error("invalid PNG output")
	}
}

func TestRenderPNGUnknownProperty(t *testing.T) {
	_, err := RenderPNG(sampleResult(), Options{
		FillProperty: "smell",
		Category:     "molecules",
	})
	if errors.GetCode(err) != errors.ErrCodeInvalidProperty {
		t.Errorf("error code = %s", errors.GetCode(err))
	}
}

func TestRenderPNGEmptyLayout(t *testing.T) {
	_, err := RenderPNG(layout.Result{Mode: layout.ModeGrid, Width: 100, Height: 100}, Options{})
	if errors.GetCode(err) != errors.ErrCodeInvalidInput {
		t.Errorf("error code = %s", errors.GetCode(err))
	}
}

func TestRenderPNGCenterAnchored(t *testing.T) {
	res := sampleResult()
	res.Placed = append(res.Placed, layout.Placed{
		Entity:      entity.New(map[string]any{"Name": "Photon"}),
		X:           200,
		Y:           600,
		DisplaySize: 50,
	})
	data, err := RenderPNG(res, Options{})
	if err != nil {
		t.Fatalf("RenderPNG: %v", err)
	}
	if !bytes.HasPrefix(data, pngSignature) {
		t.Error("invalid PNG output")
	}
}

func TestToDOTClusters(t *testing.T) {
	res := sampleResult()
	for i := range res.Placed {
		res.Placed[i].Group = "Covalent"
		res.Placed[i].GroupColor = "#4a90d9"
	}

	dot := ToDOT(res)
	if !strings.HasPrefix(dot, "digraph chemdeck {") {
		t.Errorf("missing digraph header: %s", dot[:30])
	}
	if !strings.Contains(dot, `label="Covalent"`) {
		t.Error("group cluster label missing")
	}
	if !strings.Contains(dot, `"Water"`) {
		t.Error("node for Water missing")
	}
	if !strings.Contains(dot, "subgraph cluster_0") {
		t.Error("cluster subgraph missing")
	}
}

func TestToDOTForceHubs(t *testing.T) {
	res := sampleResult()
	res.Placed[0].Extra = map[string]any{"cluster": "Strong"}
	res.Placed[1].Extra = map[string]any{"cluster": "Strong"}

	dot := ToDOT(res)
	if !strings.Contains(dot, `"force:Strong"`) {
		t.Error("force hub node missing")
	}
	if !strings.Contains(dot, `"force:Strong" -> "Water"`) {
		t.Error("hub edge missing")
	}
	if strings.Count(dot, "[shape=ellipse") != 1 {
		t.Error("hub should be emitted once per force")
	}
}

func TestToDOTUngroupedNodes(t *testing.T) {
	dot := ToDOT(sampleResult())
	if strings.Contains(dot, "subgraph") {
		t.Error("ungrouped layout should not emit clusters")
	}
	for _, name := range []string{"Water", "Benzene", "Glucose"} {
		if !strings.Contains(dot, `"`+name+`"`) {
			t.Errorf("node %s missing", name)
		}
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="100pt" height="50pt" viewBox="0.00 0.00 100.00 50.00"><g/></svg>`)
	out := normalizeViewBox(in)
	if !strings.Contains(string(out), `viewBox="0 0 100.00 50.00"`) {
		t.Errorf("viewBox not normalized: %s", out)
	}
	if !strings.Contains(string(out), `xmlns="http://www.w3.org/2000/svg"`) {
		t.Errorf("missing xmlns in rewritten tag: %s", out)
	}

	// Inputs without a viewBox pass through untouched.
	plain := []byte(`<svg><g/></svg>`)
	if string(normalizeViewBox(plain)) != string(plain) {
		t.Error("input without viewBox should be unchanged")
	}
}
