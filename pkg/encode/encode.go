// Package encode maps entity data fields to visual properties.
//
// The paint backend colors and sizes cards by a chosen field: color runs
// through an HCL gradient between two endpoint colors, size interpolates a
// pixel range. Both share the per-property metadata (field key, display
// name, value range) that filter sliders use.
package encode

import (
	"fmt"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/chemdeck/chemdeck/pkg/entity"
	"github.com/chemdeck/chemdeck/pkg/errors"
)

// Property describes one encodable data field.
type Property struct {
	Key     string  `json:"key"`
	Display string  `json:"display"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
}

// Built-in property tables per category. Min and Max are the slider extents;
// RangeFrom tightens them to the loaded data.
var propertyTables = map[string][]Property{
	"molecules": {
		{Key: "mass", Display: "Molar Mass", Min: 0, Max: 500},
		{Key: "melting_point", Display: "Melting Point", Min: 0, Max: 4000},
		{Key: "boiling_point", Display: "Boiling Point", Min: 0, Max: 6000},
		{Key: "density", Display: "Density", Min: 0, Max: 25},
	},
	"particles": {
		{Key: "Mass_MeVc2", Display: "Mass (MeV/c²)", Min: 0, Max: 180000},
		{Key: "Charge_e", Display: "Charge (e)", Min: -1, Max: 1},
		{Key: "Spin_hbar", Display: "Spin (ħ)", Min: 0, Max: 2},
	},
	"hadrons": {
		{Key: "Mass_MeVc2", Display: "Mass (MeV/c²)", Min: 0, Max: 12000},
		{Key: "Lifetime_s", Display: "Mean Lifetime (s)", Min: 0, Max: 900},
		{Key: "Strangeness", Display: "Strangeness", Min: -3, Max: 3},
	},
	"elements": {
		{Key: "mass", Display: "Atomic Mass", Min: 0, Max: 300},
		{Key: "density", Display: "Density", Min: 0, Max: 25},
	},
	"alloys": {
		{Key: "density", Display: "Density", Min: 0, Max: 25},
		{Key: "melting_point", Display: "Melting Point", Min: 0, Max: 4000},
	},
}

// PropertiesFor returns the encodable properties of a category.
func PropertiesFor(category string) ([]Property, error) {
	props, ok := propertyTables[category]
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidCategory, "no encodable properties for category: %s", category)
	}
	out := make([]Property, len(props))
	copy(out, props)
	return out, nil
}

// PropertyFor looks up one property of a category by field key.
func PropertyFor(category, key string) (Property, error) {
	props, err := PropertiesFor(category)
	if err != nil {
		return Property{}, err
	}
	for _, p := range props {
		if p.Key == key {
			return p, nil
		}
	}
	return Property{}, errors.New(errors.ErrCodeInvalidProperty, "unknown property %q for category %s", key, category)
}

// RangeFrom tightens the property range to the values actually present.
// With no data the configured extents are kept.
func (p Property) RangeFrom(entities []entity.Entity) Property {
	if len(entities) == 0 {
		return p
	}
	lo := entities[0].Num(p.Key, 0)
	hi := lo
	for _, e := range entities[1:] {
		v := e.Num(p.Key, 0)
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	p.Min, p.Max = lo, hi
	return p
}

// Normalize maps a value into [0, 1] over the property range. A degenerate
// range yields the midpoint so every entity still gets a color and size.
func (p Property) Normalize(v float64) float64 {
	if p.Max <= p.Min {
		return 0.5
	}
	t := (v - p.Min) / (p.Max - p.Min)
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}

// Gradient endpoint defaults: cool blue to warm red.
const (
	DefaultLowColor  = "#2c7fb8"
	DefaultHighColor = "#d7301f"
)

// Encoder turns normalized values into colors and sizes.
type Encoder struct {
	low  colorful.Color
	high colorful.Color

	SizeMin float64
	SizeMax float64
}

// NewEncoder builds an encoder with the given gradient endpoints as hex
// colors.
func NewEncoder(lowHex, highHex string) (*Encoder, error) {
	low, err := colorful.Hex(lowHex)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse gradient low color %q", lowHex)
	}
	high, err := colorful.Hex(highHex)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse gradient high color %q", highHex)
	}
	return &Encoder{low: low, high: high, SizeMin: 60, SizeMax: 140}, nil
}

// DefaultEncoder returns the blue-to-red encoder.
func DefaultEncoder() *Encoder {
	enc, err := NewEncoder(DefaultLowColor, DefaultHighColor)
	if err != nil {
		// The default hex constants always parse.
		panic(fmt.Sprintf("encode: default gradient: %v", err))
	}
	return enc
}

// ColorAt blends the gradient at t in [0, 1] through HCL space, which keeps
// perceived lightness even across the ramp. Out-of-range t is clamped.
func (e *Encoder) ColorAt(t float64) string {
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	return e.low.BlendHcl(e.high, t).Clamped().Hex()
}

// ColorFor encodes an entity's field value as a gradient color.
func (e *Encoder) ColorFor(ent entity.Entity, p Property) string {
	return e.ColorAt(p.Normalize(ent.Num(p.Key, 0)))
}

// SizeAt interpolates the size range at t in [0, 1].
func (e *Encoder) SizeAt(t float64) float64 {
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	return e.SizeMin + t*(e.SizeMax-e.SizeMin)
}

// SizeFor encodes an entity's field value as a pixel size.
func (e *Encoder) SizeFor(ent entity.Entity, p Property) float64 {
	return e.SizeAt(p.Normalize(ent.Num(p.Key, 0)))
}
