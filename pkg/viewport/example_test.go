package viewport_test

import (
	"fmt"

	"github.com/chemdeck/chemdeck/pkg/viewport"
)

func ExampleTransform_ZoomAt() {
	t := viewport.New(viewport.DefaultBounds)

	// Double the zoom while anchoring on the screen point (100, 100).
	t.ZoomAt(100, 100, 2)

	// The layout point that was under the cursor stays under it.
	lx, ly := t.ScreenToLocal(100, 100)
	fmt.Printf("zoom=%.1f anchor=(%.0f, %.0f)\n", t.Zoom, lx, ly)

	// Other points move away from the anchor.
	lx, ly = t.ScreenToLocal(200, 200)
	fmt.Printf("(200, 200) -> (%.0f, %.0f)\n", lx, ly)
	// Output:
	// zoom=2.0 anchor=(100, 100)
	// (200, 200) -> (150, 150)
}

func ExampleTransform_Scroll() {
	t := viewport.New(viewport.DefaultBounds)

	// Content is 2000 tall, the viewport 800, so 1200 remains scrollable.
	t.Scroll(1500, 1200)
	fmt.Println("scroll:", t.ScrollY)

	t.Scroll(-2000, 1200)
	fmt.Println("scroll:", t.ScrollY)
	// Output:
	// scroll: 1200
	// scroll: 0
}
