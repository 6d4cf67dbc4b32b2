// Package pipeline provides the core visualization pipeline.
//
// This package implements the complete load → filter → layout → render
// pipeline shared by the CLI, the HTTP API, and the terminal browser. By
// centralizing this logic, every entry point behaves identically and caching
// works the same everywhere.
//
// # Architecture
//
// The pipeline consists of three cached stages:
//
//  1. Load: Read a dataset category from the configured source
//  2. Layout: Place the (optionally filtered) entities with a layout mode
//  3. Render: Produce artifacts in the requested formats (JSON, PNG, DOT, SVG)
//
// Filtering runs between load and layout; it is cheap enough that it is never
// cached on its own, but the filter fingerprint is part of the layout key.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(source, cache, nil, logger)
//	opts := pipeline.Options{
//	    Category: "molecules",
//	    Mode:     "polarity",
//	    Formats:  []string{"png"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	png := result.Artifacts["png"]
package pipeline

import (
	"encoding/json"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/chemdeck/chemdeck/pkg/cache"
	"github.com/chemdeck/chemdeck/pkg/dataset"
	"github.com/chemdeck/chemdeck/pkg/errors"
	"github.com/chemdeck/chemdeck/pkg/filter"
	"github.com/chemdeck/chemdeck/pkg/layout"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI, API, and Browser
// =============================================================================

const (
	// DefaultMode is the layout mode used when none is requested.
	DefaultMode = string(layout.ModeGrid)

	// DefaultWidth is the default viewport width in pixels.
	DefaultWidth = 1200.0

	// DefaultHeight is the default viewport height in pixels.
	DefaultHeight = 800.0
)

// Format constants for output formats.
const (
	FormatJSON = "json"
	FormatPNG  = "png"
	FormatDOT  = "dot"
	FormatSVG  = "svg"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatJSON: true,
	FormatPNG:  true,
	FormatDOT:  true,
	FormatSVG:  true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the visualization pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Load options
	Category string `json:"category"`
	Refresh  bool   `json:"refresh,omitempty"`

	// Filter options
	Filters *filter.Set `json:"filters,omitempty"`

	// Layout options
	Mode         string  `json:"mode,omitempty"`
	Width        float64 `json:"width,omitempty"`
	Height       float64 `json:"height,omitempty"`
	SortProperty string  `json:"sort_property,omitempty"` // linear mode sort key

	// Render options
	Formats      []string `json:"formats,omitempty"`
	FillProperty string   `json:"fill_property,omitempty"`
	SizeProperty string   `json:"size_property,omitempty"` // glow ring strength
	LowColor     string   `json:"low_color,omitempty"`
	HighColor    string   `json:"high_color,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger    `json:"-"`
	Config *layout.Config `json:"-"` // layout config override

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Entities is the filtered entity set the layout was computed from.
	EntityCount int

	// Layout is the computed placement.
	Layout layout.Result

	// LayoutHash is the content hash of the layout.
	LayoutHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	LoadedCount   int
	FilteredCount int
	PlacedCount   int
	LoadTime      time.Duration
	LayoutTime    time.Duration
	RenderTime    time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LoadHit   bool // Whether the dataset came from cache
	LayoutHit bool // Whether the layout came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: json, png, dot, svg)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateMode checks that a layout mode is registered.
func ValidateMode(mode string) error {
	if err := errors.ValidateModeName(mode); err != nil {
		return err
	}
	for _, m := range layout.AllModes() {
		if string(m) == mode {
			return nil
		}
	}
	return errors.New(errors.ErrCodeInvalidMode, "unknown layout mode: %s", mode)
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the
// full pipeline. This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForLoad(); err != nil {
		return err
	}
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForLoad checks required fields for loading a dataset.
func (o *Options) ValidateForLoad() error {
	if err := errors.ValidateCategoryName(o.Category); err != nil {
		return err
	}
	if !dataset.ValidCategory(o.Category) {
		return errors.New(errors.ErrCodeInvalidCategory, "unknown dataset category: %s", o.Category)
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// SetLayoutDefaults sets default values for layout computation.
func (o *Options) SetLayoutDefaults() {
	if o.Mode == "" {
		o.Mode = DefaultMode
	}
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForLayout validates and sets defaults for layout computation.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()
	return ValidateMode(o.Mode)
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatJSON}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetLayoutDefaults()
	o.SetRenderDefaults()
	if err := ValidateMode(o.Mode); err != nil {
		return err
	}
	return ValidateFormats(o.Formats)
}

// LayoutConfig resolves the layout config, falling back to the per-category
// defaults.
func (o *Options) LayoutConfig() layout.Config {
	if o.Config != nil {
		return *o.Config
	}
	return layout.ConfigFor(o.Category)
}

// FilterFingerprint encodes the active filters for cache keys. JSON map keys
// are emitted sorted, so the encoding is deterministic.
func (o *Options) FilterFingerprint() string {
	if o.Filters == nil || o.Filters.Empty() {
		return ""
	}
	data, _ := json.Marshal(o.Filters)
	return cache.Hash(data)
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		Mode:         o.Mode,
		Width:        o.Width,
		Height:       o.Height,
		Filters:      o.FilterFingerprint(),
		SortProperty: o.SortProperty,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:       format,
		FillProperty: o.FillProperty,
		SizeProperty: o.SizeProperty,
		LowColor:     o.LowColor,
		HighColor:    o.HighColor,
	}
}
