package layout

import (
	"math"

	"github.com/chemdeck/chemdeck/pkg/entity"
)

// Force names in precedence order; a particle clusters under the strongest
// force it participates in.
var forcePrecedence = []string{"Strong", "Electromagnetic", "Weak", "Gravitational"}

// Normalized anchor positions for the four force clusters.
var forceAnchors = map[string][2]float64{
	"Strong":          {0.25, 0.3},
	"Electromagnetic": {0.75, 0.3},
	"Weak":            {0.25, 0.7},
	"Gravitational":   {0.75, 0.7},
}

// ForceNetwork clusters particles around four anchors, one per fundamental
// force, arranging each cluster on a ring sized to its population.
type ForceNetwork struct {
	base
}

// NewForceNetwork builds the force-cluster strategy.
func NewForceNetwork(cfg Config, width, height float64) *ForceNetwork {
	return &ForceNetwork{base: newBase(cfg, width, height)}
}

func (f *ForceNetwork) Mode() Mode { return ModeForceNetwork }

// dominantForce picks the strongest force a particle interacts through.
// Everything feels gravity, so that is the fallback.
func dominantForce(e entity.Entity) string {
	forces := e.Strings("InteractionForces")
	if len(forces) == 0 {
		return "Gravitational"
	}
	felt := map[string]bool{}
	for _, f := range forces {
		felt[f] = true
	}
	for _, name := range forcePrecedence {
		if felt[name] {
			return name
		}
	}
	return "Gravitational"
}

func (f *ForceNetwork) Layout(entities []entity.Entity) []Placed {
	if len(entities) == 0 {
		return nil
	}

	clusters := map[string][]entity.Entity{}
	for _, e := range entities {
		force := dominantForce(e)
		clusters[force] = append(clusters[force], e)
	}

	maxCluster := 1
	for _, group := range clusters {
		if len(group) > maxCluster {
			maxCluster = len(group)
		}
	}

	availW := f.width - 100
	availH := f.height - 150
	clusterR := math.Min(availW, availH) * 0.2
	cell := clampF(clusterR*1.5/math.Sqrt(float64(maxCluster)), 40, 55)

	placed := make([]Placed, 0, len(entities))
	for _, force := range forcePrecedence {
		group := clusters[force]
		if len(group) == 0 {
			continue
		}
		anchor := forceAnchors[force]
		centerX := f.width/2 + (anchor[0]-0.5)*availW*0.8
		centerY := 80 + anchor[1]*(availH-60)
		color := f.cfg.color(force)

		n := len(group)
		radius := math.Min(clusterR, cell*float64(n)/(2*math.Pi)+cell)
		for i, e := range group {
			x, y := centerX, centerY
			if n > 1 {
				angle := 2*math.Pi*float64(i)/float64(n) - math.Pi/2
				x = centerX + math.Cos(angle)*radius
				y = centerY + math.Sin(angle)*radius
			}
			p := Placed{
				Entity:      e,
				X:           x,
				Y:           y,
				DisplaySize: cell,
				Group:       force,
				GroupColor:  color,
			}
			p.setExtra("cluster", force)
			p.setExtra("cluster_x", centerX)
			p.setExtra("cluster_y", centerY)
			placed = append(placed, p)
		}
	}
	return placed
}

func (f *ForceNetwork) ContentHeight(placed []Placed) float64 {
	return f.height
}
