// Package viewport holds the pan, zoom and scroll state applied between
// layout coordinates and the screen.
//
// Positions computed by a layout strategy are never mutated by the viewport;
// the transform is applied at paint and hit-test time. The zoom factor is
// clamped to a per-context range and zooming can anchor on the cursor so the
// point under it stays fixed.
package viewport

import "math"

// ZoomStep is the multiplicative step applied per scroll-wheel notch.
const ZoomStep = 1.1

// Bounds is an inclusive zoom range.
type Bounds struct {
	Min float64
	Max float64
}

// DefaultBounds is the zoom range for scrollable card views.
var DefaultBounds = Bounds{Min: 0.2, Max: 5.0}

// RadialBounds is the tighter range used by the radial views, where extreme
// zoom levels break the ring geometry.
var RadialBounds = Bounds{Min: 0.3, Max: 3.0}

// Transform is the mutable viewport state. The zero value is unusable; use
// New.
type Transform struct {
	Zoom    float64
	PanX    float64
	PanY    float64
	ScrollY float64

	bounds Bounds
}

// New returns an identity transform with the given zoom bounds.
func New(bounds Bounds) *Transform {
	return &Transform{Zoom: 1, bounds: bounds}
}

// Reset restores the identity transform. The bounds are kept.
func (t *Transform) Reset() {
	t.Zoom = 1
	t.PanX = 0
	t.PanY = 0
	t.ScrollY = 0
}

// Bounds returns the zoom range.
func (t *Transform) Bounds() Bounds {
	return t.bounds
}

// ScreenToLocal converts a screen point to layout-local coordinates,
// undoing pan, scroll and zoom.
func (t *Transform) ScreenToLocal(sx, sy float64) (float64, float64) {
	return (sx - t.PanX) / t.Zoom, (sy - t.PanY + t.ScrollY) / t.Zoom
}

// LocalToScreen converts a layout-local point to screen coordinates.
func (t *Transform) LocalToScreen(lx, ly float64) (float64, float64) {
	return lx*t.Zoom + t.PanX, ly*t.Zoom + t.PanY - t.ScrollY
}

// SetZoom clamps and stores an absolute zoom factor.
func (t *Transform) SetZoom(zoom float64) {
	t.Zoom = math.Min(math.Max(zoom, t.bounds.Min), t.bounds.Max)
}

// ZoomIn applies one zoom step toward the content.
func (t *Transform) ZoomIn() {
	t.SetZoom(t.Zoom * ZoomStep)
}

// ZoomOut applies one zoom step away from the content.
func (t *Transform) ZoomOut() {
	t.SetZoom(t.Zoom / ZoomStep)
}

// ZoomAt multiplies the zoom by factor while keeping the layout point under
// the cursor (mouseX, mouseY) fixed on screen. The pan compensates for the
// scale change, clamped factor included.
func (t *Transform) ZoomAt(mouseX, mouseY, factor float64) {
	before := t.Zoom
	t.SetZoom(t.Zoom * factor)
	applied := t.Zoom / before
	t.PanX = mouseX - (mouseX-t.PanX)*applied
	t.PanY = mouseY - (mouseY-t.PanY)*applied
}

// Pan shifts the view by a screen-space delta.
func (t *Transform) Pan(dx, dy float64) {
	t.PanX += dx
	t.PanY += dy
}

// Scroll adjusts the vertical scroll offset, clamped to [0, max]. The caller
// passes max = contentHeight - viewportHeight; a non-positive max pins the
// offset at zero.
func (t *Transform) Scroll(delta, max float64) {
	if max < 0 {
		max = 0
	}
	t.ScrollY = math.Min(math.Max(t.ScrollY+delta, 0), max)
}
