package layout

import (
	"github.com/chemdeck/chemdeck/pkg/entity"
)

// Standard Model chart dimensions: three fermion generations plus the gauge
// boson column, over four rows.
const (
	smCols = 5
	smRows = 4
)

// StandardGrid places particles on the Standard Model chart using their
// sm_row and sm_col fields. Particles without chart coordinates go into a
// smaller strip below the chart.
type StandardGrid struct {
	base
}

// NewStandardGrid builds the Standard Model chart strategy.
func NewStandardGrid(cfg Config, width, height float64) *StandardGrid {
	return &StandardGrid{base: newBase(cfg, width, height)}
}

func (s *StandardGrid) Mode() Mode { return ModeStandardGrid }

func (s *StandardGrid) Layout(entities []entity.Entity) []Placed {
	if len(entities) == 0 {
		return nil
	}

	sp := s.cfg.Spacing
	availW := s.width - s.cfg.Margins.Left - s.cfg.Margins.Right
	availH := s.height - s.cfg.Margins.Top - s.cfg.Margins.Bottom

	cell := clampF(minF((availW-float64(smCols+1)*sp)/smCols,
		(availH-float64(smRows+1)*sp)/smRows), s.cfg.MinCell, s.cfg.MaxCell)

	chartWidth := smCols*cell + (smCols-1)*sp
	startX := (s.width-chartWidth)/2 + cell/2
	startY := s.cfg.Margins.Top + cell/2

	placed := make([]Placed, 0, len(entities))
	var overflow []entity.Entity
	for _, e := range entities {
		if !e.Has("sm_row") || !e.Has("sm_col") {
			overflow = append(overflow, e)
			continue
		}
		row := e.Num("sm_row", 0)
		col := e.Num("sm_col", 0)
		placed = append(placed, Placed{
			Entity:      e,
			X:           startX + col*(cell+sp),
			Y:           startY + row*(cell+sp),
			DisplaySize: cell,
		})
	}

	// Unplaceable particles line up below the chart at reduced size.
	small := cell * 0.8
	stripY := startY + smRows*(cell+sp) + s.cfg.SectionSpacing
	for i, e := range overflow {
		row := i / 6
		col := i % 6
		placed = append(placed, Placed{
			Entity:      e,
			X:           startX + float64(col)*(small+sp),
			Y:           stripY + float64(row)*(small+sp),
			DisplaySize: small,
		})
	}
	return placed
}

func minF(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
