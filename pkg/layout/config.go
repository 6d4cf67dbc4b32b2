package layout

import (
	"github.com/BurntSushi/toml"

	"github.com/chemdeck/chemdeck/pkg/errors"
)

// Margins are the outer margins of the drawing area.
type Margins struct {
	Left   float64 `toml:"left"`
	Right  float64 `toml:"right"`
	Top    float64 `toml:"top"`
	Bottom float64 `toml:"bottom"`
}

// MassScale controls card scaling in the mass-order strategy.
type MassScale struct {
	BaseWidth  float64 `toml:"base_width"`
	BaseHeight float64 `toml:"base_height"`
	MinScale   float64 `toml:"min_scale"`
	MaxScale   float64 `toml:"max_scale"`
}

// Config carries the tunable dimensions shared by all strategies. It is
// passed by value at construction; strategies never mutate it and there is no
// global config state.
type Config struct {
	// Rectangular card dimensions (grids, grouped layouts, trees).
	CardWidth  float64 `toml:"card_width"`
	CardHeight float64 `toml:"card_height"`

	// Square cell dimensions (radial and scatter layouts).
	CellSize float64 `toml:"cell_size"`
	MinCell  float64 `toml:"min_cell"`
	MaxCell  float64 `toml:"max_cell"`

	Spacing      float64 `toml:"spacing"`
	Padding      float64 `toml:"padding"`       // outer padding for grids and plots
	GroupPadding float64 `toml:"group_padding"` // tighter padding for grouped layouts

	HeaderHeight   float64 `toml:"header_height"`
	GroupSpacing   float64 `toml:"group_spacing"`
	SectionSpacing float64 `toml:"section_spacing"`
	LevelSpacing   float64 `toml:"level_spacing"` // vertical gap between tree tiers

	Margins Margins   `toml:"margins"`
	Mass    MassScale `toml:"mass"`

	// Orders fixes the group ordering per grouping dimension. Groups not in
	// the list are appended alphabetically.
	Orders map[string][]string `toml:"orders"`

	// Colors maps group names to hex colors for headers and card accents.
	Colors map[string]string `toml:"colors"`
}

// DefaultConfig returns the configuration used when no file overrides it.
// The values match the molecule card dimensions; ConfigFor adjusts them for
// other categories.
func DefaultConfig() Config {
	return Config{
		CardWidth:      150,
		CardHeight:     170,
		CellSize:       70,
		MinCell:        45,
		MaxCell:        120,
		Spacing:        15,
		Padding:        80,
		GroupPadding:   30,
		HeaderHeight:   40,
		GroupSpacing:   40,
		SectionSpacing: 60,
		LevelSpacing:   220,
		Margins:        Margins{Left: 50, Right: 50, Top: 100, Bottom: 50},
		Mass: MassScale{
			BaseWidth:  120,
			BaseHeight: 140,
			MinScale:   1.0,
			MaxScale:   1.5,
		},
		Orders: map[string][]string{
			"polarity":  {"Polar", "Nonpolar", "Ionic"},
			"geometry":  {"Linear", "Bent", "Trigonal Planar", "Trigonal Pyramidal", "Tetrahedral", "Octahedral"},
			"bond_type": {"Covalent", "Ionic", "Metallic"},
			"state":     {"Solid", "Liquid", "Gas"},
		},
		Colors: map[string]string{
			"Polar":     "#64B5F6",
			"Nonpolar":  "#81C784",
			"Ionic":     "#FFB74D",
			"Covalent":  "#9575CD",
			"Metallic":  "#90A4AE",
			"Solid":     "#A1887F",
			"Liquid":    "#4FC3F7",
			"Gas":       "#F06292",
			"Unknown":   "#9E9E9E",
			"Baryons":   "#667EEA",
			"Mesons":    "#F093FB",
			"Fermions":  "#4FC3F7",
			"Bosons":    "#FFB74D",
			"Strong":    "#FF6464",
			"Electromagnetic": "#6496FF",
			"Weak":            "#FFB464",
			"Gravitational":   "#64FF96",
		},
	}
}

// ConfigFor returns category-tuned defaults. Unknown categories fall back to
// the molecule dimensions.
func ConfigFor(category string) Config {
	cfg := DefaultConfig()
	switch category {
	case "particles":
		cfg.CardWidth = 70
		cfg.CardHeight = 70
	case "hadrons":
		cfg.CardWidth = 140
		cfg.CardHeight = 180
		cfg.Spacing = 20
	case "alloys":
		cfg.CardWidth = 160
		cfg.CardHeight = 180
	}
	return cfg
}

// LoadConfig reads TOML overrides from path on top of the defaults for the
// given category. Missing keys keep their defaults.
func LoadConfig(path, category string) (Config, error) {
	cfg := ConfigFor(category)
	if path == "" {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "load layout config %s", path)
	}
	return cfg, nil
}

// order returns the configured group ordering for a dimension, or nil.
func (c Config) order(dimension string) []string {
	if c.Orders == nil {
		return nil
	}
	return c.Orders[dimension]
}

// color returns the configured color for a group, or a neutral gray.
func (c Config) color(group string) string {
	if c.Colors != nil {
		if col, ok := c.Colors[group]; ok {
			return col
		}
	}
	return "#969696"
}
