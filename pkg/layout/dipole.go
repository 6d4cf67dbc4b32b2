package layout

import (
	"math"

	"github.com/chemdeck/chemdeck/pkg/entity"
)

// dipoleAxisHeight reserves room above the first section for the shared
// dipole-moment scale.
const dipoleAxisHeight = 50.0

// Dipole charts molecules along a horizontal dipole-moment axis, sectioned by
// polarity from nonpolar to ionic. The horizontal position encodes the moment
// in Debye; molecules within half a Debye of each other stack vertically so
// the chart stays readable around zero.
type Dipole struct {
	base
}

// NewDipole builds the polarity/dipole-moment chart strategy.
func NewDipole(cfg Config, width, height float64) *Dipole {
	return &Dipole{base: newBase(cfg, width, height)}
}

func (d *Dipole) Mode() Mode { return ModeDipole }

func (d *Dipole) Layout(entities []entity.Entity) []Placed {
	if len(entities) == 0 {
		return nil
	}

	known := map[string]bool{"Polar": true, "Nonpolar": true, "Ionic": true}
	buckets := map[string][]entity.Entity{}
	for _, e := range entities {
		g := e.Str("polarity", "Nonpolar")
		if !known[g] {
			g = "Nonpolar"
		}
		buckets[g] = append(buckets[g], e)
	}

	_, maxDipole := numRange(entities, "dipole_moment", 0)
	if maxDipole <= 0 {
		maxDipole = 5
	}

	cw, ch := d.cfg.CardWidth, d.cfg.CardHeight
	sp := d.cfg.Spacing
	plotLeft := d.cfg.Margins.Left + 20
	plotWidth := d.width - d.cfg.Margins.Right - plotLeft

	currentY := d.cfg.GroupPadding + dipoleAxisHeight

	placed := make([]Placed, 0, len(entities))
	for _, name := range []string{"Nonpolar", "Polar", "Ionic"} {
		group := buckets[name]
		if len(group) == 0 {
			continue
		}
		group = sortByNum(group, "dipole_moment", 0)

		headerY := currentY
		currentY += d.cfg.HeaderHeight
		color := d.cfg.color(name)

		// Moments rounded to the nearest 0.5 D share a bin; each bin stacks
		// its cards downward instead of overlapping them.
		binRow := map[float64]int{}
		rows := 0
		for _, e := range group {
			moment := e.Num("dipole_moment", 0)
			bin := math.Round(moment*2) / 2
			row := binRow[bin]
			binRow[bin] = row + 1
			if row+1 > rows {
				rows = row + 1
			}

			placed = append(placed, Placed{
				Entity:       e,
				X:            plotLeft + normalize(moment, 0, maxDipole)*(plotWidth-cw),
				Y:            currentY + float64(row)*(ch+sp),
				Width:        cw,
				Height:       ch,
				Group:        name,
				GroupColor:   color,
				GroupHeaderY: headerY,
			})
		}

		currentY += float64(rows)*(ch+sp) + d.cfg.GroupSpacing
	}
	return placed
}
