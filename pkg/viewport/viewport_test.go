package viewport

import (
	"math"
	"testing"
)

const eps = 1e-9

func approx(a, b float64) bool {
	return math.Abs(a-b) < eps
}

func TestScreenToLocalRoundTrip(t *testing.T) {
	tr := New(DefaultBounds)
	tr.Zoom = 1.5
	tr.PanX = 40
	tr.PanY = -25
	tr.ScrollY = 120

	lx, ly := tr.ScreenToLocal(300, 200)
	sx, sy := tr.LocalToScreen(lx, ly)
	if !approx(sx, 300) || !approx(sy, 200) {
		t.Errorf("round trip gave (%v, %v), want (300, 200)", sx, sy)
	}
}

func TestScreenToLocalIdentity(t *testing.T) {
	tr := New(DefaultBounds)
	lx, ly := tr.ScreenToLocal(123, 456)
	if !approx(lx, 123) || !approx(ly, 456) {
		t.Errorf("identity transform moved the point: (%v, %v)", lx, ly)
	}
}

func TestZoomClampIn(t *testing.T) {
	tr := New(DefaultBounds)
	for i := 0; i < 200; i++ {
		tr.ZoomIn()
	}
	if tr.Zoom > DefaultBounds.Max {
		t.Errorf("zoom %v exceeded max %v", tr.Zoom, DefaultBounds.Max)
	}
	if !approx(tr.Zoom, DefaultBounds.Max) {
		t.Errorf("zoom should saturate at max, got %v", tr.Zoom)
	}
}

func TestZoomClampOut(t *testing.T) {
	tr := New(DefaultBounds)
	for i := 0; i < 200; i++ {
		tr.ZoomOut()
	}
	if tr.Zoom < DefaultBounds.Min {
		t.Errorf("zoom %v went below min %v", tr.Zoom, DefaultBounds.Min)
	}
}

func TestRadialBoundsTighter(t *testing.T) {
	tr := New(RadialBounds)
	tr.SetZoom(10)
	if tr.Zoom != 3.0 {
		t.Errorf("radial max = %v, want 3.0", tr.Zoom)
	}
	tr.SetZoom(0.01)
	if tr.Zoom != 0.3 {
		t.Errorf("radial min = %v, want 0.3", tr.Zoom)
	}
}

func TestZoomAtKeepsCursorFixed(t *testing.T) {
	tr := New(DefaultBounds)
	tr.PanX = 50
	tr.PanY = 20

	// The layout point under the cursor before zooming...
	lx, ly := tr.ScreenToLocal(400, 300)

	tr.ZoomAt(400, 300, ZoomStep)

	// ...projects back to the same screen position afterwards.
	sx, sy := tr.LocalToScreen(lx, ly)
	if !approx(sx, 400) || !approx(sy, 300) {
		t.Errorf("cursor point drifted to (%v, %v)", sx, sy)
	}
}

func TestZoomAtClampedFactor(t *testing.T) {
	tr := New(DefaultBounds)
	tr.SetZoom(DefaultBounds.Max)
	lx, ly := tr.ScreenToLocal(100, 100)

	// Already at max: the zoom must not change and the anchor must hold.
	tr.ZoomAt(100, 100, 2.0)
	if tr.Zoom != DefaultBounds.Max {
		t.Errorf("zoom moved past max: %v", tr.Zoom)
	}
	sx, sy := tr.LocalToScreen(lx, ly)
	if !approx(sx, 100) || !approx(sy, 100) {
		t.Errorf("anchor drifted at clamp: (%v, %v)", sx, sy)
	}
}

func TestScrollClamps(t *testing.T) {
	tr := New(DefaultBounds)

	tr.Scroll(-100, 500)
	if tr.ScrollY != 0 {
		t.Errorf("scroll went negative: %v", tr.ScrollY)
	}

	tr.Scroll(10000, 500)
	if tr.ScrollY != 500 {
		t.Errorf("scroll exceeded max: %v", tr.ScrollY)
	}

	// Content shorter than the viewport pins the offset at zero.
	tr.Scroll(50, -200)
	if tr.ScrollY != 0 {
		t.Errorf("short content should pin scroll at 0, got %v", tr.ScrollY)
	}
}

func TestReset(t *testing.T) {
	tr := New(RadialBounds)
	tr.SetZoom(2.5)
	tr.Pan(30, -40)
	tr.Scroll(100, 1000)

	tr.Reset()
	if tr.Zoom != 1 || tr.PanX != 0 || tr.PanY != 0 || tr.ScrollY != 0 {
		t.Errorf("reset left state: %+v", tr)
	}

	// Bounds survive the reset.
	tr.SetZoom(10)
	if tr.Zoom != RadialBounds.Max {
		t.Errorf("bounds lost after reset: zoom = %v", tr.Zoom)
	}
}
