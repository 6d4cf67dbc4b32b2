package layout

import (
	"encoding/json"
	"fmt"

	"github.com/chemdeck/chemdeck/pkg/entity"
)

// Placed is an entity with a computed screen position.
//
// Rectangular strategies anchor cards at the top-left corner: the card covers
// [X, X+Width] x [Y, Y+Height]. Radial strategies anchor at the center and set
// DisplaySize; the card covers a DisplaySize-sided square around (X, Y).
type Placed struct {
	Entity entity.Entity `json:"entity"`

	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`

	// DisplaySize, when positive, marks a center-anchored square card.
	DisplaySize float64 `json:"display_size,omitempty"`

	// Group metadata, set by grouped and scatter strategies.
	Group        string  `json:"group,omitempty"`
	GroupColor   string  `json:"group_color,omitempty"`
	GroupHeaderY float64 `json:"group_header_y,omitempty"`

	// Extra carries strategy-specific annotations (mass_rank, spiral_radius,
	// cluster, connections...). Keys are stable per strategy.
	Extra map[string]any `json:"extra,omitempty"`
}

// Contains reports whether the point (x, y) falls inside the card.
func (p Placed) Contains(x, y float64) bool {
	if p.DisplaySize > 0 {
		half := p.DisplaySize / 2
		return p.X-half <= x && x <= p.X+half && p.Y-half <= y && y <= p.Y+half
	}
	return p.X <= x && x <= p.X+p.Width && p.Y <= y && y <= p.Y+p.Height
}

// setExtra stores a strategy annotation, allocating the map on first use.
func (p *Placed) setExtra(key string, value any) {
	if p.Extra == nil {
		p.Extra = map[string]any{}
	}
	p.Extra[key] = value
}

// GroupHeader is a band rendered above a group of cards.
type GroupHeader struct {
	Name  string  `json:"name"`
	Y     float64 `json:"y"`
	Color string  `json:"color"`
}

// Result bundles a computed placement with its headers, ready for rendering
// or serialization.
type Result struct {
	Mode    Mode          `json:"mode"`
	Width   float64       `json:"width"`
	Height  float64       `json:"height"`
	Placed  []Placed      `json:"placed"`
	Headers []GroupHeader `json:"headers,omitempty"`
}

// MarshalResult serializes a layout result to JSON.
func MarshalResult(r Result) ([]byte, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("marshal layout result: %w", err)
	}
	return data, nil
}

// UnmarshalResult deserializes a layout result and validates its basic shape.
func UnmarshalResult(data []byte) (Result, error) {
	var r Result
	if err := json.Unmarshal(data, &r); err != nil {
		return Result{}, fmt.Errorf("unmarshal layout result: %w", err)
	}
	if r.Mode == "" {
		return Result{}, fmt.Errorf("layout result missing mode")
	}
	return r, nil
}

// headersFromPlaced collects unique group headers in first-seen order.
// Cards without a group are skipped.
func headersFromPlaced(placed []Placed) []GroupHeader {
	var headers []GroupHeader
	seen := map[string]bool{}
	for _, p := range placed {
		if p.Group == "" || seen[p.Group] {
			continue
		}
		seen[p.Group] = true
		headers = append(headers, GroupHeader{
			Name:  p.Group,
			Y:     p.GroupHeaderY,
			Color: p.GroupColor,
		})
	}
	return headers
}
