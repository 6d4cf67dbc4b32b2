// Package geom implements the 3D rotation and projection math used by the
// rotating layout views.
//
// Card positions live on a sphere around the view center. Rotation is applied
// in three sequential stages (pitch about X, then yaw about Y, then roll about
// Z), each stage operating on the previous stage's output. Projection is
// orthographic: the rotated x/y map straight to screen offsets and the rotated
// z only scales the card to fake depth.
package geom

import (
	"math"
	"sort"
)

// Point3 is a point in view space, origin at the view center.
type Point3 struct {
	X, Y, Z float64
}

// Projected is a screen-space position with a depth-derived display scale.
// Z is the rotated depth, kept for draw-order sorting.
type Projected struct {
	X, Y  float64
	Scale float64
	Z     float64
}

// ClampRange bounds the depth scale factor.
type ClampRange struct {
	Min, Max float64
}

// Depth scale clamp ranges. The wider band is used by the full-table rotating
// views, the narrower one by the structure diagrams.
var (
	DefaultDepthClamp = ClampRange{Min: 0.6, Max: 1.4}
	NarrowDepthClamp  = ClampRange{Min: 0.7, Max: 1.3}
)

// Rotate3D rotates p by the given angles in degrees: pitch about the X axis,
// then yaw about the Y axis applied to the pitched point, then roll about the
// Z axis applied to that result. The stages are sequential, not a single
// combined matrix, so the order is load-bearing.
func Rotate3D(p Point3, pitchDeg, yawDeg, rollDeg float64) Point3 {
	pitch := pitchDeg * math.Pi / 180
	yaw := yawDeg * math.Pi / 180
	roll := rollDeg * math.Pi / 180

	// Pitch: rotate about X
	cosP, sinP := math.Cos(pitch), math.Sin(pitch)
	y1 := p.Y*cosP - p.Z*sinP
	z1 := p.Y*sinP + p.Z*cosP
	x1 := p.X

	// Yaw: rotate about Y
	cosY, sinY := math.Cos(yaw), math.Sin(yaw)
	x2 := x1*cosY + z1*sinY
	z2 := -x1*sinY + z1*cosY
	y2 := y1

	// Roll: rotate about Z
	cosR, sinR := math.Cos(roll), math.Sin(roll)
	x3 := x2*cosR - y2*sinR
	y3 := x2*sinR + y2*cosR

	return Point3{X: x3, Y: y3, Z: z2}
}

// Project maps a rotated point to screen space centered on (cx, cy).
// The depth scale grows toward the viewer: 1 + z/(4*baseRadius), clamped to
// the given range. A non-positive baseRadius yields scale 1.
func Project(p Point3, cx, cy, baseRadius float64, clamp ClampRange) Projected {
	scale := 1.0
	if baseRadius > 0 {
		scale = 1 + p.Z/(4*baseRadius)
	}
	if scale < clamp.Min {
		scale = clamp.Min
	}
	if scale > clamp.Max {
		scale = clamp.Max
	}
	return Projected{
		X:     cx + p.X,
		Y:     cy + p.Y,
		Scale: scale,
		Z:     p.Z,
	}
}

// DepthOrder returns the indices of points sorted by ascending Z, so callers
// can draw far points first and near points on top. The sort is stable: equal
// depths keep their input order. An empty input yields an empty slice.
func DepthOrder(points []Projected) []int {
	order := make([]int, len(points))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return points[order[a]].Z < points[order[b]].Z
	})
	return order
}

// SpherePoint places index i of n evenly on a ring of the given radius,
// starting at the top (12 o'clock) position. Used by the rotating circular
// views to seed card positions before rotation.
func SpherePoint(i, n int, radius float64) Point3 {
	if n <= 0 {
		return Point3{}
	}
	angle := 2*math.Pi*float64(i)/float64(n) - math.Pi/2
	return Point3{
		X: radius * math.Cos(angle),
		Y: radius * math.Sin(angle),
		Z: 0,
	}
}
