package layout

import (
	"github.com/chemdeck/chemdeck/pkg/entity"
)

// MassOrder arranges cards in centered rows sorted by ascending mass, with
// card size scaled by relative mass so heavier entities read larger.
type MassOrder struct {
	base
}

// NewMassOrder builds the mass-ordered strategy.
func NewMassOrder(cfg Config, width, height float64) *MassOrder {
	return &MassOrder{base: newBase(cfg, width, height)}
}

func (m *MassOrder) Mode() Mode { return ModeMassOrder }

func (m *MassOrder) Layout(entities []entity.Entity) []Placed {
	if len(entities) == 0 {
		return nil
	}

	sorted := sortByNum(entities, "mass", 0)
	lo, hi := numRange(sorted, "mass", 0)

	pad := m.cfg.Padding
	sp := m.cfg.Spacing + 5
	ms := m.cfg.Mass

	placed := make([]Placed, 0, len(sorted))
	currentX := pad
	currentY := pad
	rowStart := 0
	rowMaxH := 0.0

	centerRow := func(from, to int, rowEndX float64) {
		rowWidth := rowEndX - sp - pad
		offset := (m.width - rowWidth - 2*pad) / 2
		for i := from; i < to; i++ {
			placed[i].X += offset
		}
	}

	for rank, e := range sorted {
		scale := ms.MinScale + (ms.MaxScale-ms.MinScale)*normalize(e.Num("mass", 0), lo, hi)
		cw := float64(int(ms.BaseWidth * scale))
		ch := float64(int(ms.BaseHeight * scale))

		if currentX+cw > m.width-pad && len(placed) > rowStart {
			centerRow(rowStart, len(placed), currentX)
			currentY += rowMaxH + sp
			currentX = pad
			rowStart = len(placed)
			rowMaxH = 0
		}

		p := Placed{
			Entity: e,
			X:      currentX,
			Y:      currentY,
			Width:  cw,
			Height: ch,
		}
		p.setExtra("mass_rank", rank+1)
		placed = append(placed, p)

		currentX += cw + sp
		if ch > rowMaxH {
			rowMaxH = ch
		}
	}
	centerRow(rowStart, len(placed), currentX)

	return placed
}
