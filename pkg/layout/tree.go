package layout

import (
	"math"
	"sort"
	"strings"

	"github.com/chemdeck/chemdeck/pkg/entity"
)

// =============================================================================
// Bond complexity tree
// =============================================================================

// Complexity band names, simplest first.
const (
	bandSimple   = "Simple (0-1 bonds)"
	bandBasic    = "Basic (2-3 bonds)"
	bandModerate = "Moderate (4-5 bonds)"
	bandComplex  = "Complex (6+ bonds)"
)

// BondComplexity stacks molecules into complexity bands by bond count. Inside
// a band, molecules with more diverse bonding sit first and get indented
// sub-rows, and card size tracks atom count.
type BondComplexity struct {
	base
}

// NewBondComplexity builds the bond-complexity band strategy.
func NewBondComplexity(cfg Config, width, height float64) *BondComplexity {
	return &BondComplexity{base: newBase(cfg, width, height)}
}

func (b *BondComplexity) Mode() Mode { return ModeBondComplexity }

// bondStats derives the complexity inputs from the Bonds and Composition
// lists.
func bondStats(e entity.Entity) (bonds, diversity, atoms int) {
	types := map[string]bool{}
	bondList := e.Maps("Bonds")
	bonds = len(bondList)
	for _, b := range bondList {
		if t, ok := b["Type"].(string); ok {
			types[t] = true
		}
	}
	diversity = len(types)
	for _, c := range e.Maps("Composition") {
		switch n := c["Count"].(type) {
		case float64:
			atoms += int(n)
		case int:
			atoms += n
		}
	}
	return bonds, diversity, atoms
}

func complexityBand(bonds int) string {
	switch {
	case bonds <= 1:
		return bandSimple
	case bonds <= 3:
		return bandBasic
	case bonds <= 5:
		return bandModerate
	default:
		return bandComplex
	}
}

func (b *BondComplexity) Layout(entities []entity.Entity) []Placed {
	if len(entities) == 0 {
		return nil
	}

	const (
		pad    = 40.0
		sp     = 20.0
		header = 45.0
		indent = 40.0
	)

	type scored struct {
		e                       entity.Entity
		bonds, diversity, atoms int
		score                   int
	}

	minAtoms, maxAtoms := math.MaxInt32, 0
	bands := map[string][]scored{}
	for _, e := range entities {
		bonds, diversity, atoms := bondStats(e)
		s := scored{
			e:         e,
			bonds:     bonds,
			diversity: diversity,
			atoms:     atoms,
			score:     bonds*2 + diversity*3 + atoms,
		}
		if atoms < minAtoms {
			minAtoms = atoms
		}
		if atoms > maxAtoms {
			maxAtoms = atoms
		}
		band := complexityBand(bonds)
		bands[band] = append(bands[band], s)
	}

	cardWidth := func(atoms int) float64 {
		return 90 + normalize(float64(atoms), float64(minAtoms), float64(maxAtoms))*(160-90)
	}

	placed := make([]Placed, 0, len(entities))
	currentY := pad
	for _, band := range []string{bandSimple, bandBasic, bandModerate, bandComplex} {
		group := bands[band]
		if len(group) == 0 {
			continue
		}
		sort.SliceStable(group, func(i, j int) bool {
			if group[i].diversity != group[j].diversity {
				return group[i].diversity > group[j].diversity
			}
			return group[i].score > group[j].score
		})

		headerY := currentY
		currentY += header
		color := b.cfg.color(band)

		// Indented sub-rows per bond-diversity level, most diverse first.
		i := 0
		for i < len(group) {
			diversity := group[i].diversity
			startX := pad + float64(maxInt(diversity-1, 0))*indent
			x := startX
			rowMaxH := 0.0
			for i < len(group) && group[i].diversity == diversity {
				s := group[i]
				w := cardWidth(s.atoms)
				h := w * 1.1
				if x+w > b.width-pad && x > startX {
					currentY += rowMaxH + sp
					x = startX
					rowMaxH = 0
				}
				p := Placed{
					Entity:       s.e,
					X:            x,
					Y:            currentY,
					Width:        w,
					Height:       h,
					Group:        band,
					GroupColor:   color,
					GroupHeaderY: headerY,
				}
				p.setExtra("bond_count", s.bonds)
				p.setExtra("bond_diversity", s.diversity)
				p.setExtra("complexity_score", s.score)
				placed = append(placed, p)

				x += w + sp
				if h > rowMaxH {
					rowMaxH = h
				}
				i++
			}
			currentY += rowMaxH + sp
		}
		currentY += sp
	}
	return placed
}

func (b *BondComplexity) ContentHeight(placed []Placed) float64 {
	if len(placed) == 0 {
		return 0
	}
	maxY := 0.0
	for _, p := range placed {
		if bottom := p.Y + p.Height; bottom > maxY {
			maxY = bottom
		}
	}
	return maxY + 40
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// =============================================================================
// Quark content tree
// =============================================================================

// Tier names for the quark tree, lightest quark content first.
const (
	tierLight   = "Light quarks (u, d)"
	tierStrange = "Strange (+s quark)"
	tierCharm   = "Charm (+c quark)"
	tierBottom  = "Bottom (+b quark)"
)

var quarkTierOrder = []string{tierLight, tierStrange, tierCharm, tierBottom}

// Edge labels between consecutive tiers.
var quarkTierLabels = map[string]string{
	tierStrange: "+s quark",
	tierCharm:   "+c quark",
	tierBottom:  "+b quark",
}

// QuarkTree stacks hadrons into tiers by their heaviest constituent quark,
// light hadrons on top and bottom hadrons at the base. Each tier lists
// baryons first, then mesons, both sorted by mass.
type QuarkTree struct {
	base
}

// NewQuarkTree builds the quark-content tier strategy.
func NewQuarkTree(cfg Config, width, height float64) *QuarkTree {
	return &QuarkTree{base: newBase(cfg, width, height)}
}

func (q *QuarkTree) Mode() Mode { return ModeQuarkTree }

// quarkTier classifies by the heaviest quark flavor present in either the
// quark-content string or the composition list.
func quarkTier(e entity.Entity) string {
	content := strings.ToLower(e.Str("QuarkContent", ""))
	hasConstituent := func(name string) bool {
		for _, c := range e.Maps("Composition") {
			if s, ok := c["Constituent"].(string); ok && strings.Contains(strings.ToLower(s), name) {
				return true
			}
		}
		return false
	}
	switch {
	case strings.Contains(content, "b") || hasConstituent("bottom"):
		return tierBottom
	case strings.Contains(content, "c") || hasConstituent("charm"):
		return tierCharm
	case strings.Contains(content, "s") || hasConstituent("strange"):
		return tierStrange
	default:
		return tierLight
	}
}

func (q *QuarkTree) Layout(entities []entity.Entity) []Placed {
	if len(entities) == 0 {
		return nil
	}

	cw := float64(int(q.cfg.CardWidth * 0.93))
	ch := float64(int(q.cfg.CardHeight * 0.89))
	sp := q.cfg.Spacing
	marginLeft := q.cfg.Margins.Left
	header := q.cfg.HeaderHeight

	tiers := map[string][]entity.Entity{}
	for _, e := range entities {
		tier := quarkTier(e)
		tiers[tier] = append(tiers[tier], e)
	}

	availW := q.width - marginLeft - q.cfg.Margins.Right
	cols := columnsFor(availW, cw, sp)

	byMass := func(group []entity.Entity) {
		sort.SliceStable(group, func(i, j int) bool {
			return group[i].Num("mass", group[i].Num("Mass_MeVc2", 0)) <
				group[j].Num("mass", group[j].Num("Mass_MeVc2", 0))
		})
	}

	placed := make([]Placed, 0, len(entities))
	currentY := 30 + header + 60
	for _, tier := range quarkTierOrder {
		group := tiers[tier]
		if len(group) == 0 {
			continue
		}

		// Baryons lead, mesons follow, leftovers trail.
		var baryons, mesons, rest []entity.Entity
		for _, e := range group {
			switch {
			case e.Bool("is_baryon", false):
				baryons = append(baryons, e)
			case e.Bool("is_meson", false):
				mesons = append(mesons, e)
			default:
				rest = append(rest, e)
			}
		}
		byMass(baryons)
		byMass(mesons)
		byMass(rest)
		ordered := append(append(baryons, mesons...), rest...)

		headerY := currentY
		currentY += 40
		color := q.cfg.color(tier)
		label := quarkTierLabels[tier]

		rows := 0
		for i, e := range ordered {
			row := i / cols
			col := i % cols
			if row+1 > rows {
				rows = row + 1
			}
			p := Placed{
				Entity:       e,
				X:            marginLeft + float64(col)*(cw+sp),
				Y:            currentY + float64(row)*(ch+sp),
				Width:        cw,
				Height:       ch,
				Group:        tier,
				GroupColor:   color,
				GroupHeaderY: headerY,
			}
			p.setExtra("tier", tier)
			if label != "" {
				p.setExtra("tier_edge", label)
			}
			placed = append(placed, p)
		}

		levelHeight := float64(rows) * (ch + sp)
		currentY += levelHeight + q.cfg.LevelSpacing
	}
	return placed
}

func (q *QuarkTree) ContentHeight(placed []Placed) float64 {
	if len(placed) == 0 {
		return 0
	}
	maxY := 0.0
	for _, p := range placed {
		if bottom := p.Y + p.Height; bottom > maxY {
			maxY = bottom
		}
	}
	return math.Max(maxY+q.cfg.Padding, 800)
}

// =============================================================================
// Baryon and meson sections
// =============================================================================

// NewBaryonMeson splits hadrons into a baryon section and a meson section,
// each a mass-sorted centered mini-grid.
func NewBaryonMeson(cfg Config, width, height float64) Strategy {
	return &grouped{
		base: newBase(cfg, width, height),
		mode: ModeBaryonMeson,
		key: func(e entity.Entity) string {
			switch {
			case e.Bool("is_baryon", false):
				return "Baryons"
			case e.Bool("is_meson", false):
				return "Mesons"
			default:
				return "Other"
			}
		},
		order: orderWith([]string{"Baryons", "Mesons", "Other"}),
		sortGroup: func(group []entity.Entity) {
			sort.SliceStable(group, func(i, j int) bool {
				return group[i].Num("mass", group[i].Num("Mass_MeVc2", 0)) <
					group[j].Num("mass", group[j].Num("Mass_MeVc2", 0))
			})
		},
		centered:   true,
		sectionGap: cfg.SectionSpacing,
	}
}
