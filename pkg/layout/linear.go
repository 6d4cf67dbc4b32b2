package layout

import (
	"sort"

	"github.com/chemdeck/chemdeck/pkg/entity"
)

// Orientation selects the axis of the linear strategy.
type Orientation int

const (
	Horizontal Orientation = iota
	Vertical
)

// linearSortKeys maps the user-facing sort property names to entity fields.
var linearSortKeys = map[string]string{
	"mass":       "Mass_MeVc2",
	"charge":     "Charge_e",
	"spin":       "Spin_hbar",
	"generation": "generation_num",
}

// Linear places all cards on a single centered row or column, sorted by one
// numeric property. Cards shrink to fit when the axis gets crowded.
type Linear struct {
	base
	property    string
	orientation Orientation
}

// NewLinear builds a linear strategy sorting by the given property. Unknown
// properties fall back to an alphabetical name sort.
func NewLinear(cfg Config, width, height float64, property string, orientation Orientation) *Linear {
	return &Linear{
		base:        newBase(cfg, width, height),
		property:    property,
		orientation: orientation,
	}
}

func (l *Linear) Mode() Mode { return ModeLinear }

// SetProperty changes the sort property for subsequent Layout calls.
func (l *Linear) SetProperty(property string) {
	l.property = property
}

func (l *Linear) Layout(entities []entity.Entity) []Placed {
	if len(entities) == 0 {
		return nil
	}

	sorted := l.sorted(entities)
	n := float64(len(sorted))
	sp := l.cfg.Spacing

	if l.orientation == Vertical {
		avail := l.height - l.cfg.Margins.Top - l.cfg.Margins.Bottom
		cell := clampF((avail-(n-1)*sp)/n, l.cfg.MinCell-10, l.cfg.MaxCell)
		total := n*cell + (n-1)*sp
		startY := (l.height-total)/2 + cell/2

		placed := make([]Placed, 0, len(sorted))
		for i, e := range sorted {
			placed = append(placed, Placed{
				Entity:      e,
				X:           l.width / 2,
				Y:           startY + float64(i)*(cell+sp),
				DisplaySize: cell,
			})
		}
		return placed
	}

	avail := l.width - l.cfg.Margins.Left - l.cfg.Margins.Right
	cell := clampF((avail-(n-1)*sp)/n, l.cfg.MinCell, l.cfg.MaxCell)
	total := n*cell + (n-1)*sp
	startX := (l.width-total)/2 + cell/2

	placed := make([]Placed, 0, len(sorted))
	for i, e := range sorted {
		placed = append(placed, Placed{
			Entity:      e,
			X:           startX + float64(i)*(cell+sp),
			Y:           l.height / 2,
			DisplaySize: cell,
		})
	}
	return placed
}

func (l *Linear) sorted(entities []entity.Entity) []entity.Entity {
	if key, ok := linearSortKeys[l.property]; ok {
		return sortByNum(entities, key, 0)
	}
	out := make([]entity.Entity, len(entities))
	copy(out, entities)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Name() < out[j].Name()
	})
	return out
}

// ContentHeight pins the linear view to the viewport; it never scrolls.
func (l *Linear) ContentHeight(placed []Placed) float64 {
	return l.height
}
