package layout

import (
	"math"
	"sort"
	"strings"

	"github.com/chemdeck/chemdeck/pkg/entity"
)

// =============================================================================
// Circular rings
// =============================================================================

// Ring radii as fractions of the maximum radius, by particle family.
const (
	ringGauge   = 0.25
	ringQuarks  = 0.55
	ringLeptons = 0.85
	ringOthers  = 1.05
)

// Circular arranges particles on concentric rings by family, with the Higgs
// boson alone at the center.
type Circular struct {
	base
}

// NewCircular builds the concentric-ring strategy.
func NewCircular(cfg Config, width, height float64) *Circular {
	return &Circular{base: newBase(cfg, width, height)}
}

func (c *Circular) Mode() Mode { return ModeCircular }

func ringFor(e entity.Entity) (string, float64) {
	switch strings.ToLower(e.Str("particle_type", "")) {
	case "gauge boson", "boson":
		return "gauge", ringGauge
	case "quark":
		return "quarks", ringQuarks
	case "lepton":
		return "leptons", ringLeptons
	default:
		return "others", ringOthers
	}
}

func (c *Circular) Layout(entities []entity.Entity) []Placed {
	if len(entities) == 0 {
		return nil
	}

	cx, cy := c.width/2, c.height/2
	maxR := math.Min(c.width, c.height)/2 - 60
	cell := math.Min(c.cfg.CellSize, maxR/5)

	rings := map[string][]entity.Entity{}
	var center []entity.Entity
	for _, e := range entities {
		if strings.Contains(strings.ToLower(e.Name()), "higgs") {
			center = append(center, e)
			continue
		}
		name, _ := ringFor(e)
		rings[name] = append(rings[name], e)
	}

	placed := make([]Placed, 0, len(entities))
	for _, e := range center {
		p := Placed{
			Entity:      e,
			X:           cx,
			Y:           cy,
			DisplaySize: cell * 1.2,
		}
		p.setExtra("ring", "center")
		placed = append(placed, p)
	}

	for _, name := range []string{"gauge", "quarks", "leptons", "others"} {
		group := rings[name]
		if len(group) == 0 {
			continue
		}
		var fraction float64
		switch name {
		case "gauge":
			fraction = ringGauge
		case "quarks":
			fraction = ringQuarks
		case "leptons":
			fraction = ringLeptons
		default:
			fraction = ringOthers
		}
		radius := maxR * fraction
		n := float64(len(group))
		for i, e := range group {
			angle := -math.Pi/2 + float64(i)*2*math.Pi/n
			p := Placed{
				Entity:      e,
				X:           cx + math.Cos(angle)*radius,
				Y:           cy + math.Sin(angle)*radius,
				DisplaySize: cell,
			}
			p.setExtra("ring", name)
			p.setExtra("angle", angle)
			p.setExtra("radius", radius)
			placed = append(placed, p)
		}
	}
	return placed
}

func (c *Circular) ContentHeight(placed []Placed) float64 {
	return c.height
}

// =============================================================================
// Mass spiral
// =============================================================================

// Angular sectors per particle generation; generation -1 collects everything
// without a generation number.
var generationAngles = map[int]float64{
	0:  -math.Pi / 2,
	1:  0,
	2:  2 * math.Pi / 3,
	3:  4 * math.Pi / 3,
	-1: math.Pi,
}

// MassSpiral places particles radially by log mass, fanned into angular
// sectors by generation. Heavier particles sit farther from the center.
type MassSpiral struct {
	base
}

// NewMassSpiral builds the logarithmic mass spiral strategy.
func NewMassSpiral(cfg Config, width, height float64) *MassSpiral {
	return &MassSpiral{base: newBase(cfg, width, height)}
}

func (m *MassSpiral) Mode() Mode { return ModeMassSpiral }

func (m *MassSpiral) Layout(entities []entity.Entity) []Placed {
	if len(entities) == 0 {
		return nil
	}

	cx, cy := m.width/2, m.height/2
	maxR := math.Min(m.width, m.height)/2 - 80

	logMass := func(e entity.Entity) float64 {
		return math.Log10(math.Max(e.Num("Mass_MeVc2", 0), 0.001))
	}
	lo := math.Inf(1)
	hi := math.Inf(-1)
	for _, e := range entities {
		lm := logMass(e)
		if lm < lo {
			lo = lm
		}
		if lm > hi {
			hi = lm
		}
	}

	generations := map[int][]entity.Entity{}
	var order []int
	for _, e := range entities {
		gen := int(e.Num("generation_num", -1))
		if _, ok := generationAngles[gen]; !ok {
			gen = -1
		}
		if _, ok := generations[gen]; !ok {
			order = append(order, gen)
		}
		generations[gen] = append(generations[gen], e)
	}
	sort.Ints(order)

	const spread = math.Pi / 3

	placed := make([]Placed, 0, len(entities))
	for _, gen := range order {
		group := generations[gen]
		sort.SliceStable(group, func(i, j int) bool {
			return group[i].Num("Mass_MeVc2", 0) < group[j].Num("Mass_MeVc2", 0)
		})
		baseAngle := generationAngles[gen]
		n := len(group)
		for i, e := range group {
			offset := 0.0
			if n > 1 {
				offset = (float64(i)/float64(n-1) - 0.5) * spread
			}
			angle := baseAngle + offset
			radius := maxR * (0.15 + 0.85*normalize(logMass(e), lo, hi))
			display := 50 * (0.7 + 0.6*math.Min(e.Num("Spin_hbar", 0), 1.5))

			p := Placed{
				Entity:      e,
				X:           cx + math.Cos(angle)*radius,
				Y:           cy + math.Sin(angle)*radius,
				DisplaySize: display,
			}
			p.setExtra("spiral_radius", radius)
			p.setExtra("spiral_angle", angle)
			p.setExtra("generation", gen)
			placed = append(placed, p)
		}
	}
	return placed
}

func (m *MassSpiral) ContentHeight(placed []Placed) float64 {
	return m.height
}
