package layout

import (
	"math"

	"github.com/chemdeck/chemdeck/pkg/entity"
)

// Eightfold places hadrons on the eightfold-way diagram: isospin projection
// on the x axis against hypercharge (strangeness plus baryon number) on the
// y axis. Hadrons sharing a lattice site are nudged right so multiplets with
// identical quantum numbers stay readable.
type Eightfold struct {
	base
}

// NewEightfold builds the eightfold-way diagram strategy.
func NewEightfold(cfg Config, width, height float64) *Eightfold {
	return &Eightfold{base: newBase(cfg, width, height)}
}

func (e8 *Eightfold) Mode() Mode { return ModeEightfold }

func (e8 *Eightfold) Layout(entities []entity.Entity) []Placed {
	if len(entities) == 0 {
		return nil
	}

	cw := e8.cfg.CardWidth * 0.85
	ch := e8.cfg.CardHeight * 0.85

	hypercharge := func(e entity.Entity) float64 {
		return e.Num("Strangeness", 0) + e.Num("BaryonNumber_B", 0)
	}

	i3Lo, i3Hi := numRange(entities, "Isospin_I3", 0)
	yLo := math.Inf(1)
	yHi := math.Inf(-1)
	for _, e := range entities {
		y := hypercharge(e)
		if y < yLo {
			yLo = y
		}
		if y > yHi {
			yHi = y
		}
	}

	// The lattice never collapses below the canonical octet extent.
	i3Range := math.Max(i3Hi-i3Lo, 3)
	yRange := math.Max(yHi-yLo, 4)

	plotLeft := 150.0
	plotRight := e8.width - 100
	plotTop := 120.0
	plotW := plotRight - plotLeft
	plotH := 500.0

	placed := make([]Placed, 0, len(entities))
	occupied := map[[2]int]int{}
	for _, e := range entities {
		i3 := e.Num("Isospin_I3", 0)
		y := hypercharge(e)

		xNorm := (i3 - (i3Lo - 0.5)) / (i3Range + 1)
		yNorm := (y - (yLo - 0.5)) / (yRange + 1)
		px := plotLeft + xNorm*plotW
		py := plotTop + (1-yNorm)*plotH

		// Quantum numbers come in halves, so doubling gives integer keys.
		key := [2]int{int(math.Round(i3 * 2)), int(math.Round(y * 2))}
		px += float64(occupied[key]) * 25
		occupied[key]++

		p := Placed{
			Entity: e,
			X:      px - cw/2,
			Y:      py - ch/2,
			Width:  cw,
			Height: ch,
		}
		p.setExtra("isospin_i3", i3)
		p.setExtra("hypercharge", y)
		placed = append(placed, p)
	}
	return placed
}

func (e8 *Eightfold) ContentHeight(placed []Placed) float64 {
	return 700
}
