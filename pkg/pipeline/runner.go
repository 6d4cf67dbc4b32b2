package pipeline

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/chemdeck/chemdeck/pkg/cache"
	"github.com/chemdeck/chemdeck/pkg/dataset"
	"github.com/chemdeck/chemdeck/pkg/entity"
	"github.com/chemdeck/chemdeck/pkg/errors"
	"github.com/chemdeck/chemdeck/pkg/filter"
	"github.com/chemdeck/chemdeck/pkg/layout"
	"github.com/chemdeck/chemdeck/pkg/observability"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for its collaborators - it doesn't store
// pipeline results. Multiple goroutines can safely use the same Runner with
// different options.
type Runner struct {
	Source dataset.Source
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// Fingerprint distinguishes dataset snapshots in cache keys. Editable
	// stores should set this to something that changes with edits; the
	// default marks the shipped datasets.
	Fingerprint string
}

// NewRunner creates a runner with the given source, cache and keyer.
// If source is nil, the embedded datasets are used.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(src dataset.Source, c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if src == nil {
		src = dataset.NewEmbedded()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Source:      src,
		Cache:       c,
		Keyer:       keyer,
		Logger:      logger,
		Fingerprint: "embedded",
	}
}

// Execute runs the complete load → filter → layout → render pipeline with
// caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid options")
	}
	r.applyLogger(&opts)

	result := &Result{
		Artifacts: make(map[string][]byte),
	}

	// Stage 1: Load
	loadStart := time.Now()
	entities, loadHit, err := r.LoadWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, errors.Wrap(codeOf(err), err, "load")
	}
	result.Stats.LoadedCount = len(entities)
	result.Stats.LoadTime = time.Since(loadStart)
	result.CacheInfo.LoadHit = loadHit

	r.Logger.Info("loaded dataset",
		"category", opts.Category,
		"entities", len(entities),
		"duration", result.Stats.LoadTime)

	// Filter between load and layout. Cheap enough to never cache.
	entities = r.ApplyFilters(ctx, entities, opts)
	result.EntityCount = len(entities)
	result.Stats.FilteredCount = len(entities)

	// Stage 2: Layout
	layoutStart := time.Now()
	layoutResult, layoutHit, err := r.ComputeLayoutWithCacheInfo(ctx, entities, opts)
	if err != nil {
		return nil, errors.Wrap(codeOf(err), err, "layout")
	}
	result.Layout = layoutResult
	result.Stats.PlacedCount = len(layoutResult.Placed)
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.CacheInfo.LayoutHit = layoutHit

	if data, err := layout.MarshalResult(layoutResult); err == nil {
		result.LayoutHash = cache.Hash(data)
	}

	r.Logger.Info("computed layout",
		"mode", opts.Mode,
		"cards", len(layoutResult.Placed),
		"duration", result.Stats.LayoutTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, layoutResult, opts)
	if err != nil {
		return nil, errors.Wrap(codeOf(err), err, "render")
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// ApplyFilters runs the option filters over the entities and reports the
// reduction to the observability hooks. A nil or empty filter set passes
// everything through.
func (r *Runner) ApplyFilters(ctx context.Context, entities []entity.Entity, opts Options) []entity.Entity {
	if opts.Filters == nil || opts.Filters.Empty() {
		return entities
	}
	filtered := filter.Apply(entities, *opts.Filters)
	observability.Pipeline().OnFilterApplied(ctx, opts.Category, len(entities), len(filtered))
	r.Logger.Debug("applied filters",
		"category", opts.Category,
		"in", len(entities),
		"out", len(filtered))
	return filtered
}

// ComputeLayout is a convenience wrapper that discards the cache hit info.
func (r *Runner) ComputeLayout(ctx context.Context, entities []entity.Entity, opts Options) (layout.Result, error) {
	res, _, err := r.ComputeLayoutWithCacheInfo(ctx, entities, opts)
	return res, err
}

// Load is a convenience wrapper that discards the cache hit info.
func (r *Runner) Load(ctx context.Context, opts Options) ([]entity.Entity, error) {
	entities, _, err := r.LoadWithCacheInfo(ctx, opts)
	return entities, err
}

// Render is a convenience wrapper that discards the cache hit info.
func (r *Runner) Render(ctx context.Context, layoutResult layout.Result, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, layoutResult, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

// codeOf preserves the code of a wrapped stage error, defaulting to internal
// for uncoded errors.
func codeOf(err error) errors.Code {
	if code := errors.GetCode(err); code != "" {
		return code
	}
	return errors.ErrCodeInternal
}
