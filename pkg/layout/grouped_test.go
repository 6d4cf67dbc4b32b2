package layout

import (
	"testing"

	"github.com/chemdeck/chemdeck/pkg/entity"
)

func TestPolarityGroups(t *testing.T) {
	p := NewPolarity(DefaultConfig(), 1200, 800)
	entities := []entity.Entity{
		molecule("water", map[string]any{"polarity": "Polar"}),
		molecule("methane", map[string]any{"polarity": "Nonpolar"}),
		molecule("salt", map[string]any{"polarity": "Ionic"}),
		molecule("mystery", map[string]any{"polarity": "Zwitterionic"}),
		molecule("blank", nil),
	}

	placed := p.Layout(entities)
	if len(placed) != 5 {
		t.Fatalf("placed %d, want 5", len(placed))
	}

	groups := map[string]string{}
	for _, pl := range placed {
		groups[pl.Entity.Name()] = pl.Group
	}
	want := map[string]string{
		"water":   "Polar",
		"methane": "Nonpolar",
		"salt":    "Ionic",
		// Unrecognized and missing polarity both land in Nonpolar.
		"mystery": "Nonpolar",
		"blank":   "Nonpolar",
	}
	for name, group := range want {
		if groups[name] != group {
			t.Errorf("%s grouped as %q, want %q", name, groups[name], group)
		}
	}
}

func TestPolaritySectionOrder(t *testing.T) {
	p := NewPolarity(DefaultConfig(), 1200, 800)
	entities := []entity.Entity{
		molecule("salt", map[string]any{"polarity": "Ionic"}),
		molecule("methane", map[string]any{"polarity": "Nonpolar"}),
		molecule("water", map[string]any{"polarity": "Polar"}),
	}

	placed := p.Layout(entities)
	headers := p.GroupHeaders(placed)
	wantOrder := []string{"Polar", "Nonpolar", "Ionic"}
	if len(headers) != len(wantOrder) {
		t.Fatalf("got %d headers, want %d", len(headers), len(wantOrder))
	}
	prevY := -1.0
	for i, h := range headers {
		if h.Name != wantOrder[i] {
			t.Errorf("header %d = %s, want %s", i, h.Name, wantOrder[i])
		}
		if h.Y <= prevY {
			t.Errorf("header %s at y=%v does not descend", h.Name, h.Y)
		}
		prevY = h.Y
		if h.Color == "" {
			t.Errorf("header %s missing color", h.Name)
		}
	}
}

func TestGroupedRowsCentered(t *testing.T) {
	g := NewGeometry(DefaultConfig(), 1000, 800)
	entities := []entity.Entity{
		molecule("a", map[string]any{"geometry": "Bent"}),
		molecule("b", map[string]any{"geometry": "Bent"}),
	}

	placed := g.Layout(entities)
	left := placed[0].X
	right := placed[1].X + placed[1].Width
	if left != 1000-right {
		t.Errorf("two-card row not centered: left %v, right gap %v", left, 1000-right)
	}
}

func TestGroupedUnknownGroupsAppended(t *testing.T) {
	g := NewState(DefaultConfig(), 1200, 800)
	entities := []entity.Entity{
		molecule("plasma ball", map[string]any{"state": "Plasma"}),
		molecule("ice", map[string]any{"state": "Solid"}),
	}

	headers := g.GroupHeaders(g.Layout(entities))
	if len(headers) != 2 {
		t.Fatalf("got %d headers", len(headers))
	}
	if headers[0].Name != "Solid" || headers[1].Name != "Plasma" {
		t.Errorf("unknown states should trail the configured order, got %v", headers)
	}
}

func TestDipoleSections(t *testing.T) {
	d := NewDipole(DefaultConfig(), 1200, 800)
	entities := []entity.Entity{
		molecule("salt", map[string]any{"polarity": "Ionic", "dipole_moment": 9.0}),
		molecule("water", map[string]any{"polarity": "Polar", "dipole_moment": 1.85}),
		molecule("ammonia", map[string]any{"polarity": "Polar", "dipole_moment": 1.42}),
		molecule("methane", map[string]any{"polarity": "Nonpolar", "dipole_moment": 0.0}),
		molecule("co2", map[string]any{"polarity": "Nonpolar", "dipole_moment": 0.0}),
	}

	placed := d.Layout(entities)
	if len(placed) != 5 {
		t.Fatalf("placed %d, want 5", len(placed))
	}

	headers := d.GroupHeaders(placed)
	wantOrder := []string{"Nonpolar", "Polar", "Ionic"}
	for i, h := range headers {
		if h.Name != wantOrder[i] {
			t.Errorf("section %d = %s, want %s", i, h.Name, wantOrder[i])
		}
	}

	byName := map[string]Placed{}
	for _, p := range placed {
		byName[p.Entity.Name()] = p
	}

	// The horizontal position tracks the dipole moment within a section.
	if byName["ammonia"].X >= byName["water"].X {
		t.Errorf("ammonia (1.42 D) should sit left of water (1.85 D): %v vs %v",
			byName["ammonia"].X, byName["water"].X)
	}
	// Equal moments share a column and stack vertically instead.
	if byName["methane"].X != byName["co2"].X {
		t.Errorf("equal moments should align: %v vs %v", byName["methane"].X, byName["co2"].X)
	}
	if byName["methane"].Y == byName["co2"].Y {
		t.Error("equal moments should stack, not overlap")
	}
}

func TestDipoleEmpty(t *testing.T) {
	d := NewDipole(DefaultConfig(), 1200, 800)
	if placed := d.Layout(nil); placed != nil {
		t.Errorf("empty input should place nothing, got %d", len(placed))
	}
}

func TestChargeLabel(t *testing.T) {
	tests := []struct {
		q    float64
		want string
	}{
		{0, "0"},
		{1, "+1"},
		{-1, "-1"},
		{2, "+2"},
		{2.0 / 3.0, "+2/3"},
		{-1.0 / 3.0, "-1/3"},
	}

	for _, tt := range tests {
		if got := chargeLabel(tt.q); got != tt.want {
			t.Errorf("chargeLabel(%v) = %q, want %q", tt.q, got, tt.want)
		}
	}
}

func TestChargeSections(t *testing.T) {
	c := NewCharge(ConfigFor("particles"), 1200, 800)
	entities := []entity.Entity{
		molecule("electron", map[string]any{"Charge_e": -1.0, "Mass_MeVc2": 0.511}),
		molecule("up", map[string]any{"Charge_e": 2.0 / 3.0, "Mass_MeVc2": 2.2}),
		molecule("photon", map[string]any{"Charge_e": 0.0, "Mass_MeVc2": 0.0}),
		molecule("proton", map[string]any{"Charge_e": 1.0, "Mass_MeVc2": 938.3}),
	}

	headers := c.GroupHeaders(c.Layout(entities))
	wantOrder := []string{"+1", "0", "-1", "+2/3"}
	if len(headers) != len(wantOrder) {
		t.Fatalf("got %d headers: %v", len(headers), headers)
	}
	for i, h := range headers {
		if h.Name != wantOrder[i] {
			t.Errorf("section %d = %s, want %s", i, h.Name, wantOrder[i])
		}
	}
}

func TestChargeFractionalSectionOrder(t *testing.T) {
	c := NewCharge(ConfigFor("particles"), 1200, 800)
	entities := []entity.Entity{
		molecule("down", map[string]any{"Charge_e": -1.0 / 3.0, "Mass_MeVc2": 4.7}),
		molecule("up", map[string]any{"Charge_e": 2.0 / 3.0, "Mass_MeVc2": 2.2}),
		molecule("anti-up", map[string]any{"Charge_e": -2.0 / 3.0, "Mass_MeVc2": 2.2}),
		molecule("anti-down", map[string]any{"Charge_e": 1.0 / 3.0, "Mass_MeVc2": 4.7}),
		molecule("proton", map[string]any{"Charge_e": 1.0, "Mass_MeVc2": 938.3}),
		molecule("photon", map[string]any{"Charge_e": 0.0, "Mass_MeVc2": 0.0}),
	}

	headers := c.GroupHeaders(c.Layout(entities))
	// Integer sections lead; fractional sections follow numerically
	// descending, not by string comparison.
	wantOrder := []string{"+1", "0", "+2/3", "+1/3", "-1/3", "-2/3"}
	if len(headers) != len(wantOrder) {
		t.Fatalf("got %d headers: %v", len(headers), headers)
	}
	for i, h := range headers {
		if h.Name != wantOrder[i] {
			t.Errorf("section %d = %s, want %s", i, h.Name, wantOrder[i])
		}
	}
}

func TestChargeValue(t *testing.T) {
	tests := []struct {
		label string
		want  float64
	}{
		{"0", 0},
		{"+1", 1},
		{"-2", -2},
		{"+2/3", 2.0 / 3.0},
		{"-1/3", -1.0 / 3.0},
	}

	for _, tt := range tests {
		if got := chargeValue(tt.label); got != tt.want {
			t.Errorf("chargeValue(%q) = %v, want %v", tt.label, got, tt.want)
		}
	}
}

func TestChargeRowsStartAtMargin(t *testing.T) {
	cfg := ConfigFor("particles")
	c := NewCharge(cfg, 1200, 800)
	placed := c.Layout([]entity.Entity{
		molecule("proton", map[string]any{"Charge_e": 1.0, "Mass_MeVc2": 938.3}),
	})

	if placed[0].X != cfg.Margins.Left {
		t.Errorf("charge rows start at the left margin, got x=%v", placed[0].X)
	}
}

func TestStabilityBands(t *testing.T) {
	tests := []struct {
		name     string
		lifetime float64
		want     string
	}{
		{"proton", 0, bandStable},
		{"neutron", 880, bandLongLived},
		{"muon-like", 2.2e-6, bandLongLived},
		{"charged pion", 2.6e-8, bandShort},
		{"neutral pion", 8.5e-17, bandResonance},
		{"delta", 5.6e-24, bandResonance},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := molecule(tt.name, map[string]any{"Lifetime_s": tt.lifetime})
			if got := stabilityBand(e); got != tt.want {
				t.Errorf("stabilityBand(%v) = %q, want %q", tt.lifetime, got, tt.want)
			}
		})
	}
}

func TestStabilitySectionOrder(t *testing.T) {
	s := NewStability(ConfigFor("hadrons"), 1200, 800)
	entities := []entity.Entity{
		molecule("delta", map[string]any{"Lifetime_s": 5.6e-24}),
		molecule("proton", map[string]any{"Lifetime_s": 0.0}),
		molecule("pion", map[string]any{"Lifetime_s": 2.6e-8}),
	}

	headers := s.GroupHeaders(s.Layout(entities))
	want := []string{bandStable, bandShort, bandResonance}
	for i, h := range headers {
		if h.Name != want[i] {
			t.Errorf("band %d = %s, want %s", i, h.Name, want[i])
		}
	}
}

func TestCategoryAlphabetical(t *testing.T) {
	c := NewCategory(DefaultConfig(), 1200, 800)
	entities := []entity.Entity{
		molecule("water", map[string]any{"category": "Inorganic"}),
		molecule("methane", map[string]any{"category": "Organic"}),
		molecule("helium", map[string]any{"category": "Elemental"}),
	}

	headers := c.GroupHeaders(c.Layout(entities))
	want := []string{"Elemental", "Inorganic", "Organic"}
	for i, h := range headers {
		if h.Name != want[i] {
			t.Errorf("category %d = %s, want %s", i, h.Name, want[i])
		}
	}
}

func TestBaryonMesonSections(t *testing.T) {
	b := NewBaryonMeson(ConfigFor("hadrons"), 1200, 800)
	entities := []entity.Entity{
		molecule("pion", map[string]any{"is_meson": true, "Mass_MeVc2": 139.6}),
		molecule("proton", map[string]any{"is_baryon": true, "Mass_MeVc2": 938.3}),
		molecule("kaon", map[string]any{"is_meson": true, "Mass_MeVc2": 493.7}),
	}

	placed := b.Layout(entities)
	headers := b.GroupHeaders(placed)
	if len(headers) != 2 || headers[0].Name != "Baryons" || headers[1].Name != "Mesons" {
		t.Fatalf("headers = %v", headers)
	}

	// Mesons sort by mass inside their section.
	var mesons []Placed
	for _, p := range placed {
		if p.Group == "Mesons" {
			mesons = append(mesons, p)
		}
	}
	if mesons[0].Entity.Name() != "pion" || mesons[1].Entity.Name() != "kaon" {
		t.Errorf("meson order = %s, %s", mesons[0].Entity.Name(), mesons[1].Entity.Name())
	}
}
