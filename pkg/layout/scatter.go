package layout

import (
	"math"

	"github.com/chemdeck/chemdeck/pkg/entity"
)

// =============================================================================
// Phase scatter
// =============================================================================

// Phase plots molecules by melting point (x) against boiling point (y), with
// card size scaled by mass and cards colored by state.
type Phase struct {
	base
}

// NewPhase builds the phase diagram scatter strategy.
func NewPhase(cfg Config, width, height float64) *Phase {
	return &Phase{base: newBase(cfg, width, height)}
}

func (p *Phase) Mode() Mode { return ModePhase }

func (p *Phase) Layout(entities []entity.Entity) []Placed {
	if len(entities) == 0 {
		return nil
	}

	// Prefer entities with real phase data; if none qualify, plot everything
	// and let the defaults pile up rather than show an empty view.
	valid := make([]entity.Entity, 0, len(entities))
	for _, e := range entities {
		if e.Num("melting_point", 0) > 0 && e.Num("boiling_point", 0) > 0 {
			valid = append(valid, e)
		}
	}
	if len(valid) == 0 {
		valid = entities
	}

	mpLo, mpHi := numRange(valid, "melting_point", 0)
	bpLo, bpHi := numRange(valid, "boiling_point", 0)
	mLo, mHi := numRange(valid, "mass", 0)

	plotLeft := p.cfg.Padding + 60
	plotRight := p.width - p.cfg.Padding
	plotTop := p.cfg.Padding
	plotBottom := p.height - p.cfg.Padding - 60
	plotW := plotRight - plotLeft
	plotH := plotBottom - plotTop

	placed := make([]Placed, 0, len(valid))
	for _, e := range valid {
		px := plotLeft + normalize(e.Num("melting_point", 0), mpLo, mpHi)*plotW
		py := plotBottom - normalize(e.Num("boiling_point", 0), bpLo, bpHi)*plotH
		size := 60 + normalize(e.Num("mass", 0), mLo, mHi)*(140-60)

		state := e.Str("state", "Unknown")
		placed = append(placed, Placed{
			Entity:     e,
			X:          px - size/2,
			Y:          py - size/2,
			Width:      size,
			Height:     size,
			Group:      state,
			GroupColor: p.cfg.color(state),
		})
	}
	return placed
}

func (p *Phase) ContentHeight(placed []Placed) float64 {
	return math.Max(p.height, 600)
}

// Headers carry the state legend; the scatter has no header bands.
func (p *Phase) GroupHeaders(placed []Placed) []GroupHeader {
	return headersFromPlaced(placed)
}

// =============================================================================
// Density scatter
// =============================================================================

// Density plots molecules by mass (x) against density (y). Card size encodes
// packing, the density-to-mass ratio, so dense light compounds stand out.
type Density struct {
	base
}

// NewDensity builds the density scatter strategy.
func NewDensity(cfg Config, width, height float64) *Density {
	return &Density{base: newBase(cfg, width, height)}
}

func (d *Density) Mode() Mode { return ModeDensity }

func (d *Density) Layout(entities []entity.Entity) []Placed {
	if len(entities) == 0 {
		return nil
	}

	valid := make([]entity.Entity, 0, len(entities))
	for _, e := range entities {
		if e.Num("density", 0) > 0 && e.Num("mass", 0) > 0 {
			valid = append(valid, e)
		}
	}
	if len(valid) == 0 {
		valid = entities
	}

	mLo, mHi := numRange(valid, "mass", 0)
	dLo, dHi := numRange(valid, "density", 0)

	plotLeft := d.cfg.Padding + 60
	plotRight := d.width - d.cfg.Padding
	plotTop := d.cfg.Padding
	plotBottom := d.height - d.cfg.Padding - 60
	plotW := plotRight - plotLeft
	plotH := plotBottom - plotTop

	placed := make([]Placed, 0, len(valid))
	for _, e := range valid {
		px := plotLeft + normalize(e.Num("mass", 0), mLo, mHi)*plotW
		py := plotBottom - normalize(e.Num("density", 0), dLo, dHi)*plotH

		packing := e.Num("density", 0) / math.Max(e.Num("mass", 0), 1)
		size := clampF(70+packing*50*(130-70), 70, 130)

		category := e.Str("category", "Unknown")
		placed = append(placed, Placed{
			Entity:     e,
			X:          px - size/2,
			Y:          py - size/2,
			Width:      size,
			Height:     size,
			Group:      category,
			GroupColor: d.cfg.color(category),
		})
	}
	return placed
}

func (d *Density) ContentHeight(placed []Placed) float64 {
	return math.Max(d.height, 600)
}

// =============================================================================
// Charge-mass scatter
// =============================================================================

// ChargeMass plots particles by electric charge (x) against log-scaled mass
// (y). Overlapping cards are fanned out radially so quark triplets at the
// same charge stay distinguishable.
type ChargeMass struct {
	base
}

// NewChargeMass builds the charge versus mass scatter strategy.
func NewChargeMass(cfg Config, width, height float64) *ChargeMass {
	return &ChargeMass{base: newBase(cfg, width, height)}
}

func (c *ChargeMass) Mode() Mode { return ModeChargeMass }

func (c *ChargeMass) Layout(entities []entity.Entity) []Placed {
	if len(entities) == 0 {
		return nil
	}

	marginLeft := c.cfg.Margins.Left + 30
	marginRight := c.cfg.Margins.Right - 10
	marginTop := c.cfg.Margins.Top - 20
	marginBottom := c.cfg.Margins.Bottom + 50
	plotW := c.width - marginLeft - marginRight
	plotH := c.height - marginTop - marginBottom

	// Fixed charge axis covering the Standard Model range with headroom.
	const chargeMin, chargeMax = -1.2, 1.2

	logLo := math.Inf(1)
	logHi := math.Inf(-1)
	for _, e := range entities {
		lm := math.Log10(math.Max(e.Num("Mass_MeVc2", 0), 0.0001))
		if lm < logLo {
			logLo = lm
		}
		if lm > logHi {
			logHi = lm
		}
	}
	padding := (logHi - logLo) * 0.1
	logLo -= padding
	logHi += padding

	n := float64(len(entities))
	cell := clampF(plotW/math.Sqrt(n)*0.8, c.cfg.MinCell-10, c.cfg.MaxCell-10)

	placed := make([]Placed, 0, len(entities))
	cells := map[[2]int][]int{}
	gridSize := cell * 0.8
	for _, e := range entities {
		charge := e.Num("Charge_e", 0)
		lm := math.Log10(math.Max(e.Num("Mass_MeVc2", 0), 0.0001))

		x := marginLeft + normalize(charge, chargeMin, chargeMax)*plotW
		y := marginTop + (1-normalize(lm, logLo, logHi))*plotH

		key := [2]int{int(x / gridSize), int(y / gridSize)}
		cells[key] = append(cells[key], len(placed))

		placed = append(placed, Placed{
			Entity:      e,
			X:           x,
			Y:           y,
			DisplaySize: cell,
		})
	}

	// Fan out cards sharing a grid cell.
	for _, group := range cells {
		if len(group) < 2 {
			continue
		}
		for i, idx := range group {
			angle := 2 * math.Pi * float64(i) / float64(len(group))
			dist := cell * 0.4
			placed[idx].X += math.Cos(angle) * dist
			placed[idx].Y += math.Sin(angle) * dist
		}
	}
	return placed
}

func (c *ChargeMass) ContentHeight(placed []Placed) float64 {
	return c.height
}
