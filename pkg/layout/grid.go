package layout

import (
	"math"

	"github.com/chemdeck/chemdeck/pkg/entity"
)

// Grid arranges cards in centered rows, in dataset order.
type Grid struct {
	base
}

// NewGrid builds the default grid strategy.
func NewGrid(cfg Config, width, height float64) *Grid {
	return &Grid{base: newBase(cfg, width, height)}
}

func (g *Grid) Mode() Mode { return ModeGrid }

func (g *Grid) Layout(entities []entity.Entity) []Placed {
	if len(entities) == 0 {
		return nil
	}

	cw, ch := g.cfg.CardWidth, g.cfg.CardHeight
	sp := g.cfg.Spacing
	pad := g.cfg.Padding

	cols := columnsFor(g.width-2*pad, cw, sp)
	gridWidth := float64(cols)*cw + float64(cols-1)*sp
	startX := (g.width - gridWidth) / 2

	placed := make([]Placed, 0, len(entities))
	for i, e := range entities {
		row := i / cols
		col := i % cols
		placed = append(placed, Placed{
			Entity: e,
			X:      startX + float64(col)*(cw+sp),
			Y:      pad + float64(row)*(ch+sp),
			Width:  cw,
			Height: ch,
		})
	}
	return placed
}

// ContentHeight is computed analytically from the row count, not from the
// lowest card, so an empty trailing row never shrinks the scroll range.
func (g *Grid) ContentHeight(placed []Placed) float64 {
	if len(placed) == 0 {
		return 0
	}
	cols := columnsFor(g.width-2*g.cfg.Padding, g.cfg.CardWidth, g.cfg.Spacing)
	rows := int(math.Ceil(float64(len(placed)) / float64(cols)))
	return 2*g.cfg.Padding + float64(rows)*(g.cfg.CardHeight+g.cfg.Spacing)
}
