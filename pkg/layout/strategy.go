package layout

import (
	"math"
	"sort"

	"github.com/chemdeck/chemdeck/pkg/entity"
)

// Mode identifies a layout strategy.
type Mode string

// The closed set of layout modes.
const (
	ModeGrid         Mode = "grid"
	ModeMassOrder    Mode = "mass-order"
	ModeLinear       Mode = "linear"
	ModeStandardGrid Mode = "standard-grid"
	ModeSplit        Mode = "split"

	ModePolarity  Mode = "polarity"
	ModeGeometry  Mode = "geometry"
	ModeBondType  Mode = "bond-type"
	ModeState     Mode = "state"
	ModeCharge    Mode = "charge"
	ModeStability Mode = "stability"
	ModeCategory  Mode = "category"
	ModeDipole    Mode = "dipole"

	ModePhase      Mode = "phase"
	ModeDensity    Mode = "density"
	ModeChargeMass Mode = "charge-mass"

	ModeCircular     Mode = "circular"
	ModeMassSpiral   Mode = "mass-spiral"
	ModeForceNetwork Mode = "force-network"
	ModeEightfold    Mode = "eightfold"

	ModeBondComplexity Mode = "bond-complexity"
	ModeQuarkTree      Mode = "quark-tree"
	ModeBaryonMeson    Mode = "baryon-meson"
)

// AllModes lists every registered mode in display order.
func AllModes() []Mode {
	return []Mode{
		ModeGrid, ModeMassOrder, ModeLinear, ModeStandardGrid, ModeSplit,
		ModePolarity, ModeGeometry, ModeBondType, ModeState, ModeCharge,
		ModeStability, ModeCategory, ModeDipole,
		ModePhase, ModeDensity, ModeChargeMass,
		ModeCircular, ModeMassSpiral, ModeForceNetwork, ModeEightfold,
		ModeBondComplexity, ModeQuarkTree, ModeBaryonMeson,
	}
}

// Strategy computes card placements for one layout mode.
//
// Layout must be deterministic: identical entities and dimensions produce
// identical placements. Entities with missing fields are never dropped or
// rejected; strategies substitute defaults and keep going.
type Strategy interface {
	// Mode returns the strategy's identifier.
	Mode() Mode

	// UpdateDimensions sets the viewport size used by the next Layout call.
	UpdateDimensions(width, height float64)

	// Layout places all entities. The input slice is not modified.
	Layout(entities []entity.Entity) []Placed

	// EntityAt returns the first placed card containing the point, scanning
	// in placement order.
	EntityAt(x, y float64, placed []Placed) (*Placed, bool)

	// ContentHeight reports the scrollable height of the placement.
	ContentHeight(placed []Placed) float64

	// GroupHeaders returns header bands for grouped placements, deduplicated
	// in first-seen order. Ungrouped strategies return nil.
	GroupHeaders(placed []Placed) []GroupHeader
}

// base carries the state shared by all strategies: viewport dimensions and
// the immutable config.
type base struct {
	width, height float64
	cfg           Config
}

func newBase(cfg Config, width, height float64) base {
	return base{width: width, height: height, cfg: cfg}
}

func (b *base) UpdateDimensions(width, height float64) {
	b.width = width
	b.height = height
}

// EntityAt is the shared hit-test: linear scan, first card containing the
// point wins. Placed.Contains handles both anchor conventions.
func (b *base) EntityAt(x, y float64, placed []Placed) (*Placed, bool) {
	for i := range placed {
		if placed[i].Contains(x, y) {
			return &placed[i], true
		}
	}
	return nil, false
}

// ContentHeight is the shared scroll-height computation: the bottom edge of
// the lowest card plus outer padding. Strategies with fixed-height plots
// override this.
func (b *base) ContentHeight(placed []Placed) float64 {
	if len(placed) == 0 {
		return 0
	}
	maxY := 0.0
	for _, p := range placed {
		bottom := p.Y + p.Height
		if p.DisplaySize > 0 {
			bottom = p.Y + p.DisplaySize/2
		}
		if bottom > maxY {
			maxY = bottom
		}
	}
	return maxY + b.cfg.Padding
}

// GroupHeaders is the shared header extraction. Ungrouped strategies inherit
// it and naturally return nil.
func (b *base) GroupHeaders(placed []Placed) []GroupHeader {
	return headersFromPlaced(placed)
}

// =============================================================================
// Shared helpers
// =============================================================================

// columnsFor computes how many cards of the given width fit per row.
func columnsFor(available, cardWidth, spacing float64) int {
	cols := int(available / (cardWidth + spacing))
	if cols < 1 {
		cols = 1
	}
	return cols
}

// clampF bounds v to [lo, hi].
func clampF(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// sortByNum sorts entities ascending by a numeric field, missing values
// treated as def. The sort is stable so equal values keep dataset order.
func sortByNum(entities []entity.Entity, key string, def float64) []entity.Entity {
	out := make([]entity.Entity, len(entities))
	copy(out, entities)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Num(key, def) < out[j].Num(key, def)
	})
	return out
}

// numRange returns the min and max of a numeric field across entities.
// Returns (def, def) for an empty slice.
func numRange(entities []entity.Entity, key string, def float64) (float64, float64) {
	if len(entities) == 0 {
		return def, def
	}
	lo := math.Inf(1)
	hi := math.Inf(-1)
	for _, e := range entities {
		v := e.Num(key, def)
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}

// normalize maps v into [0, 1] over [lo, hi]. A degenerate range yields the
// midpoint 0.5 so every card still gets a position.
func normalize(v, lo, hi float64) float64 {
	if hi <= lo {
		return 0.5
	}
	return (v - lo) / (hi - lo)
}
