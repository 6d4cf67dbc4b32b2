package layout

import (
	"math"
	"sort"

	"github.com/chemdeck/chemdeck/pkg/entity"
)

// Split separates particles into a fermion hemisphere and a boson hemisphere,
// each a compact centered mini-grid sorted by descending mass.
type Split struct {
	base
}

// NewSplit builds the fermion/boson split strategy.
func NewSplit(cfg Config, width, height float64) *Split {
	return &Split{base: newBase(cfg, width, height)}
}

func (s *Split) Mode() Mode { return ModeSplit }

// isFermion reports half-integer spin.
func isFermion(e entity.Entity) bool {
	return int(e.Num("Spin_hbar", 0)*2)%2 == 1
}

func (s *Split) Layout(entities []entity.Entity) []Placed {
	if len(entities) == 0 {
		return nil
	}

	var fermions, bosons []entity.Entity
	for _, e := range entities {
		if isFermion(e) {
			fermions = append(fermions, e)
		} else {
			bosons = append(bosons, e)
		}
	}
	byMassDesc := func(group []entity.Entity) {
		sort.SliceStable(group, func(i, j int) bool {
			return group[i].Num("Mass_MeVc2", 0) > group[j].Num("Mass_MeVc2", 0)
		})
	}
	byMassDesc(fermions)
	byMassDesc(bosons)

	maxCount := len(fermions)
	if len(bosons) > maxCount {
		maxCount = len(bosons)
	}

	availW := s.width - 100
	availH := s.height - 180
	hemWidth := (availW - 60) / 2

	colsFor := func(n int) int {
		cols := int(math.Sqrt(float64(n)) + 0.5)
		if cols < 2 {
			cols = 2
		}
		if cols > 5 {
			cols = 5
		}
		return cols
	}

	// The cell size is shared between hemispheres, sized for the larger one.
	maxCols := colsFor(maxCount)
	rows := math.Ceil(float64(maxCount) / float64(maxCols))
	cell := clampF(minF((hemWidth-40)/float64(maxCols), (availH-60)/(rows+1)), 40, 55)

	const gap = 8.0
	startY := 130 + cell/2

	placed := make([]Placed, 0, len(entities))
	place := func(group []entity.Entity, centerX float64, label string) {
		cols := colsFor(len(group))
		startX := centerX - (float64(cols)*cell+float64(cols-1)*gap)/2 + cell/2
		for i, e := range group {
			row := i / cols
			col := i % cols
			placed = append(placed, Placed{
				Entity:       e,
				X:            startX + float64(col)*(cell+gap),
				Y:            startY + float64(row)*(cell+gap),
				DisplaySize:  cell,
				Group:        label,
				GroupColor:   s.cfg.color(label),
				GroupHeaderY: 90,
			})
		}
	}
	place(fermions, 0.25*s.width, "Fermions")
	place(bosons, 0.75*s.width, "Bosons")

	return placed
}

// ContentHeight pins the split view to the viewport.
func (s *Split) ContentHeight(placed []Placed) float64 {
	return s.height
}
