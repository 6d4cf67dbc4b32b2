package render

import (
	"bytes"

	"github.com/fogleman/gg"

	"github.com/chemdeck/chemdeck/pkg/encode"
	"github.com/chemdeck/chemdeck/pkg/entity"
	"github.com/chemdeck/chemdeck/pkg/errors"
	"github.com/chemdeck/chemdeck/pkg/geom"
	"github.com/chemdeck/chemdeck/pkg/layout"
)

const (
	defaultBackground = "#fafafa"
	defaultCardColor  = "#5b8dbe"
	cardCornerRadius  = 6.0
	canvasPadding     = 40.0

	// Glow ring width range in pixels.
	ringMin = 2.0
	ringMax = 10.0
)

// Options configures PNG rendering.
type Options struct {
	// FillProperty selects a numeric property to color cards by. Empty
	// keeps the group color, falling back to a neutral card color.
	FillProperty string

	// SizeProperty selects a numeric property to express as a glow ring
	// around each card, thicker toward the property maximum.
	SizeProperty string

	// Category names the dataset category, required when FillProperty is
	// set so the property table can be resolved.
	Category string

	// LowColor and HighColor override the fill gradient endpoints.
	LowColor  string
	HighColor string

	// Background overrides the canvas color.
	Background string
}

// RenderPNG rasterizes a layout result. The canvas matches the layout width
// and grows vertically to fit the content.
func RenderPNG(res layout.Result, opts Options) ([]byte, error) {
	if len(res.Placed) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "nothing to render: layout is empty")
	}

	fill, err := fillFunc(res, opts)
	if err != nil {
		return nil, err
	}
	ring, err := ringFunc(res, opts)
	if err != nil {
		return nil, err
	}

	width := int(res.Width)
	height := int(canvasHeight(res))
	dc := gg.NewContext(width, height)

	background := opts.Background
	if background == "" {
		background = defaultBackground
	}
	dc.SetHexColor(background)
	dc.Clear()

	drawAxes(dc, res)
	drawHeaders(dc, res)
	for _, p := range res.Placed {
		drawCard(dc, p, fill(p), ring(p))
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode png")
	}
	return buf.Bytes(), nil
}

// fillFunc resolves the card color function up front so property errors
// surface before any drawing happens.
func fillFunc(res layout.Result, opts Options) (func(layout.Placed) string, error) {
	if opts.FillProperty == "" {
		return func(p layout.Placed) string {
			if p.GroupColor != "" {
				return p.GroupColor
			}
			return defaultCardColor
		}, nil
	}

	prop, err := encode.PropertyFor(opts.Category, opts.FillProperty)
	if err != nil {
		return nil, err
	}

	low := opts.LowColor
	if low == "" {
		low = encode.DefaultLowColor
	}
	high := opts.HighColor
	if high == "" {
		high = encode.DefaultHighColor
	}
	enc, err := encode.NewEncoder(low, high)
	if err != nil {
		return nil, err
	}

	entities := make([]entity.Entity, len(res.Placed))
	for i, p := range res.Placed {
		entities[i] = p.Entity
	}
	scaled := prop.RangeFrom(entities)

	return func(p layout.Placed) string {
		return enc.ColorFor(p.Entity, scaled)
	}, nil
}

// ringFunc resolves the glow-ring width function. Zero width means no ring.
func ringFunc(res layout.Result, opts Options) (func(layout.Placed) float64, error) {
	if opts.SizeProperty == "" {
		return func(layout.Placed) float64 { return 0 }, nil
	}

	prop, err := encode.PropertyFor(opts.Category, opts.SizeProperty)
	if err != nil {
		return nil, err
	}

	entities := make([]entity.Entity, len(res.Placed))
	for i, p := range res.Placed {
		entities[i] = p.Entity
	}
	scaled := prop.RangeFrom(entities)

	enc := encode.DefaultEncoder()
	enc.SizeMin, enc.SizeMax = ringMin, ringMax
	return func(p layout.Placed) float64 {
		return enc.SizeFor(p.Entity, scaled)
	}, nil
}

// Scatter axis margins, matching the plot area the scatter strategies lay
// cards into.
const (
	axisMargin   = 60.0
	axisGridStep = 5
)

// drawAxes paints the axis frame and gridlines behind scatter layouts. Other
// modes get a plain background.
func drawAxes(dc *gg.Context, res layout.Result) {
	switch res.Mode {
	case layout.ModePhase, layout.ModeDensity, layout.ModeChargeMass:
	default:
		return
	}

	left := axisMargin
	bottom := res.Height - axisMargin
	right := res.Width - axisMargin/2
	top := axisMargin / 2

	dc.SetRGBA(0, 0, 0, 0.08)
	dc.SetLineWidth(1)
	for i := 1; i < axisGridStep; i++ {
		x := left + (right-left)*float64(i)/axisGridStep
		dc.DrawLine(x, top, x, bottom)
		dc.Stroke()
		y := top + (bottom-top)*float64(i)/axisGridStep
		dc.DrawLine(left, y, right, y)
		dc.Stroke()
	}

	dc.SetRGBA(0, 0, 0, 0.45)
	dc.SetLineWidth(1.5)
	dc.DrawLine(left, top, left, bottom)
	dc.Stroke()
	dc.DrawLine(left, bottom, right, bottom)
	dc.Stroke()
}

func drawHeaders(dc *gg.Context, res layout.Result) {
	for _, h := range res.Headers {
		color := h.Color
		if color == "" {
			color = "#969696"
		}
		dc.SetHexColor(color)
		dc.DrawRectangle(20, h.Y-4, 6, 22)
		dc.Fill()
		dc.DrawStringAnchored(h.Name, 34, h.Y+7, 0, 0.5)
	}
}

func drawCard(dc *gg.Context, p layout.Placed, fill string, ring float64) {
	x, y, w, h := cardRect(p)

	if ring > 0 {
		dc.SetRGBA(0, 0, 0, 0.12)
		dc.SetLineWidth(ring)
		dc.DrawRoundedRectangle(x-ring/2, y-ring/2, w+ring, h+ring, cardCornerRadius+ring/2)
		dc.Stroke()
	}

	dc.SetHexColor(fill)
	dc.DrawRoundedRectangle(x, y, w, h, cardCornerRadius)
	dc.FillPreserve()
	dc.SetRGBA(0, 0, 0, 0.25)
	dc.SetLineWidth(1)
	dc.Stroke()

	name := p.Entity.Name()
	if name != "" {
		dc.SetHexColor("#1a1a1a")
		dc.DrawStringAnchored(name, x+w/2, y+h/2, 0.5, 0.5)
	}

	drawStructure(dc, p.Entity, x, y, w, h)
}

// Structure glyph constants. The fixed tilt gives the flat ring a 3D look
// without any animation state.
const (
	structurePitch   = 28.0
	structureYaw     = 40.0
	structureMinSize = 56.0
	structureAtomPx  = 3.0
)

// drawStructure paints a small bond-structure glyph in the lower part of the
// card: one atom per bond on a tilted ring around a center atom, depth-scaled
// so nearer atoms render larger. Entities without bonds get no glyph, and
// small cards skip it to keep the name readable.
func drawStructure(dc *gg.Context, e entity.Entity, x, y, w, h float64) {
	bonds := e.Maps("Bonds")
	if len(bonds) == 0 || w < structureMinSize || h < structureMinSize {
		return
	}

	cx := x + w/2
	cy := y + h*0.78
	radius := h * 0.14
	if half := w/2 - 6; radius > half {
		radius = half
	}

	points := make([]geom.Projected, len(bonds))
	for i := range bonds {
		p := geom.SpherePoint(i, len(bonds), radius)
		p = geom.Rotate3D(p, structurePitch, structureYaw, 0)
		points[i] = geom.Project(p, cx, cy, radius, geom.NarrowDepthClamp)
	}

	dc.SetRGBA(0, 0, 0, 0.35)
	dc.SetLineWidth(1)
	for _, pt := range points {
		dc.DrawLine(cx, cy, pt.X, pt.Y)
		dc.Stroke()
	}

	dc.SetRGBA(0.1, 0.1, 0.1, 0.8)
	for _, i := range geom.DepthOrder(points) {
		pt := points[i]
		dc.DrawCircle(pt.X, pt.Y, structureAtomPx*pt.Scale)
		dc.Fill()
	}

	// Center atom on top.
	dc.SetRGBA(0.05, 0.05, 0.05, 0.9)
	dc.DrawCircle(cx, cy, structureAtomPx*1.3)
	dc.Fill()
}

// cardRect normalizes both anchoring conventions to a top-left rectangle.
func cardRect(p layout.Placed) (x, y, w, h float64) {
	if p.DisplaySize > 0 {
		half := p.DisplaySize / 2
		return p.X - half, p.Y - half, p.DisplaySize, p.DisplaySize
	}
	return p.X, p.Y, p.Width, p.Height
}

func canvasHeight(res layout.Result) float64 {
	bottom := res.Height
	for _, p := range res.Placed {
		_, y, _, h := cardRect(p)
		if y+h+canvasPadding > bottom {
			bottom = y + h + canvasPadding
		}
	}
	return bottom
}
