package layout

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/chemdeck/chemdeck/pkg/entity"
)

// grouped is the engine behind every sectioned layout: entities are bucketed
// by a key function, sections are stacked vertically with a header band, and
// each section is a mini-grid of rows.
type grouped struct {
	base
	mode Mode

	// key assigns an entity to its group.
	key func(entity.Entity) string

	// order fixes the section order given the groups actually present.
	order func(present []string) []string

	// sortGroup optionally reorders entities inside a section. Nil keeps
	// dataset order.
	sortGroup func([]entity.Entity)

	// centered rows are centered on the viewport; otherwise rows start at the
	// left margin.
	centered bool

	// sectionGap is the vertical gap appended after each section.
	sectionGap float64
}

func (g *grouped) Mode() Mode { return g.mode }

func (g *grouped) Layout(entities []entity.Entity) []Placed {
	if len(entities) == 0 {
		return nil
	}

	buckets := map[string][]entity.Entity{}
	var present []string
	for _, e := range entities {
		k := g.key(e)
		if _, ok := buckets[k]; !ok {
			present = append(present, k)
		}
		buckets[k] = append(buckets[k], e)
	}

	cw, ch := g.cfg.CardWidth, g.cfg.CardHeight
	sp := g.cfg.Spacing
	pad := g.cfg.GroupPadding
	header := g.cfg.HeaderHeight

	cols := columnsFor(g.width-2*pad, cw, sp)
	currentY := pad

	placed := make([]Placed, 0, len(entities))
	for _, name := range g.order(present) {
		group := buckets[name]
		if len(group) == 0 {
			continue
		}
		if g.sortGroup != nil {
			g.sortGroup(group)
		}

		currentY += header
		headerY := currentY - header
		color := g.cfg.color(name)

		for i, e := range group {
			row := i / cols
			col := i % cols

			var x float64
			if g.centered {
				itemsInRow := cols
				if remaining := len(group) - row*cols; remaining < cols {
					itemsInRow = remaining
				}
				rowWidth := float64(itemsInRow)*cw + float64(itemsInRow-1)*sp
				x = (g.width-rowWidth)/2 + float64(col)*(cw+sp)
			} else {
				x = g.cfg.Margins.Left + float64(col)*(cw+sp)
			}

			placed = append(placed, Placed{
				Entity:       e,
				X:            x,
				Y:            currentY + float64(row)*(ch+sp),
				Width:        cw,
				Height:       ch,
				Group:        name,
				GroupColor:   color,
				GroupHeaderY: headerY,
			})
		}

		rows := math.Ceil(float64(len(group)) / float64(cols))
		currentY += rows*(ch+sp) + g.sectionGap
	}
	return placed
}

func (g *grouped) ContentHeight(placed []Placed) float64 {
	if len(placed) == 0 {
		return 0
	}
	maxY := 0.0
	for _, p := range placed {
		if bottom := p.Y + p.Height; bottom > maxY {
			maxY = bottom
		}
	}
	return maxY + g.cfg.GroupPadding
}

// orderWith puts the preferred names first, then the remaining present groups
// alphabetically.
func orderWith(preferred []string) func([]string) []string {
	return func(present []string) []string {
		seen := map[string]bool{}
		for _, p := range present {
			seen[p] = true
		}
		var out []string
		used := map[string]bool{}
		for _, name := range preferred {
			if seen[name] {
				out = append(out, name)
				used[name] = true
			}
		}
		var rest []string
		for _, name := range present {
			if !used[name] {
				rest = append(rest, name)
			}
		}
		sort.Strings(rest)
		return append(out, rest...)
	}
}

// alphabetical orders present groups by name.
func alphabetical(present []string) []string {
	out := make([]string, len(present))
	copy(out, present)
	sort.Strings(out)
	return out
}

// groupField buckets on a string field with a default for missing values.
func groupField(field, def string) func(entity.Entity) string {
	return func(e entity.Entity) string {
		return e.Str(field, def)
	}
}

// =============================================================================
// Molecule groupings
// =============================================================================

// NewPolarity groups molecules by polarity. Unrecognized polarity values land
// in the Nonpolar section rather than a catch-all.
func NewPolarity(cfg Config, width, height float64) Strategy {
	known := map[string]bool{"Polar": true, "Nonpolar": true, "Ionic": true}
	return &grouped{
		base: newBase(cfg, width, height),
		mode: ModePolarity,
		key: func(e entity.Entity) string {
			v := e.Str("polarity", "Nonpolar")
			if !known[v] {
				return "Nonpolar"
			}
			return v
		},
		order:      orderWith(cfg.order("polarity")),
		centered:   true,
		sectionGap: cfg.GroupSpacing,
	}
}

// NewGeometry groups molecules by molecular geometry.
func NewGeometry(cfg Config, width, height float64) Strategy {
	return &grouped{
		base:       newBase(cfg, width, height),
		mode:       ModeGeometry,
		key:        groupField("geometry", "Unknown"),
		order:      orderWith(cfg.order("geometry")),
		centered:   true,
		sectionGap: cfg.GroupSpacing,
	}
}

// NewBondType groups molecules by their dominant bond type.
func NewBondType(cfg Config, width, height float64) Strategy {
	return &grouped{
		base:       newBase(cfg, width, height),
		mode:       ModeBondType,
		key:        groupField("bond_type", "Unknown"),
		order:      orderWith(cfg.order("bond_type")),
		centered:   true,
		sectionGap: cfg.GroupSpacing,
	}
}

// NewState groups molecules by their state at room temperature.
func NewState(cfg Config, width, height float64) Strategy {
	return &grouped{
		base:       newBase(cfg, width, height),
		mode:       ModeState,
		key:        groupField("state", "Unknown"),
		order:      orderWith(cfg.order("state")),
		centered:   true,
		sectionGap: cfg.GroupSpacing,
	}
}

// NewCategory groups entities by their category field, alphabetically.
func NewCategory(cfg Config, width, height float64) Strategy {
	return &grouped{
		base:       newBase(cfg, width, height),
		mode:       ModeCategory,
		key:        groupField("category", "Unknown"),
		order:      alphabetical,
		centered:   true,
		sectionGap: cfg.GroupSpacing,
	}
}

// =============================================================================
// Particle groupings
// =============================================================================

// chargeLabel formats a charge in units of e, preserving the thirds that
// quarks carry.
func chargeLabel(q float64) string {
	thirds := int(math.Round(q * 3))
	if thirds == 0 {
		return "0"
	}
	if thirds%3 == 0 {
		return fmt.Sprintf("%+d", thirds/3)
	}
	return fmt.Sprintf("%+d/3", thirds)
}

// chargeValue parses a chargeLabel back into units of e for ordering.
func chargeValue(label string) float64 {
	num := label
	denom := 1.0
	if head, _, ok := strings.Cut(label, "/"); ok {
		num = head
		denom = 3
	}
	n, _ := strconv.Atoi(num)
	return float64(n) / denom
}

// NewCharge groups particles by electric charge, positive sections first,
// mass-sorted inside each section. Rows start at the left margin so the
// sections read as a ledger.
func NewCharge(cfg Config, width, height float64) Strategy {
	preferred := []string{"+2", "+1", "0", "-1", "-2"}
	return &grouped{
		base: newBase(cfg, width, height),
		mode: ModeCharge,
		key: func(e entity.Entity) string {
			return chargeLabel(e.Num("Charge_e", 0))
		},
		order: func(present []string) []string {
			ordered := orderWith(preferred)(present)
			// Fractional charges follow the integers, numerically
			// descending: +2/3 before +1/3 before -1/3 before -2/3.
			head := 0
			for _, name := range ordered {
				if containsString(preferred, name) {
					head++
				}
			}
			tail := ordered[head:]
			sort.Slice(tail, func(i, j int) bool {
				return chargeValue(tail[i]) > chargeValue(tail[j])
			})
			return ordered
		},
		sortGroup: func(group []entity.Entity) {
			sort.SliceStable(group, func(i, j int) bool {
				return group[i].Num("Mass_MeVc2", 0) < group[j].Num("Mass_MeVc2", 0)
			})
		},
		centered:   false,
		sectionGap: cfg.SectionSpacing,
	}
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// Stability band names, ordered from longest-lived to shortest.
const (
	bandStable    = "Stable"
	bandLongLived = "Long-lived (>1 µs)"
	bandShort     = "Short-lived (1 ps to 1 µs)"
	bandResonance = "Resonances (<1 ps)"
)

// stabilityBand classifies a hadron by its mean lifetime in seconds. A
// missing or non-positive lifetime counts as stable.
func stabilityBand(e entity.Entity) string {
	lifetime := e.Num("Lifetime_s", 0)
	switch {
	case lifetime <= 0:
		return bandStable
	case lifetime > 1e-6:
		return bandLongLived
	case lifetime >= 1e-12:
		return bandShort
	default:
		return bandResonance
	}
}

// NewStability groups hadrons into decay-lifetime bands.
func NewStability(cfg Config, width, height float64) Strategy {
	return &grouped{
		base:       newBase(cfg, width, height),
		mode:       ModeStability,
		key:        stabilityBand,
		order:      orderWith([]string{bandStable, bandLongLived, bandShort, bandResonance}),
		centered:   true,
		sectionGap: cfg.GroupSpacing,
	}
}
