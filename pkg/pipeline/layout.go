package pipeline

import (
	"context"
	"encoding/json"
	"time"

	"github.com/chemdeck/chemdeck/pkg/cache"
	"github.com/chemdeck/chemdeck/pkg/entity"
	"github.com/chemdeck/chemdeck/pkg/layout"
	"github.com/chemdeck/chemdeck/pkg/observability"
)

// =============================================================================
// Layout Stage
// =============================================================================

// ComputeLayoutWithCacheInfo places the entities with the requested mode,
// with caching, and returns cache hit info. The cache key covers the entity
// set, the mode, the viewport and the filter fingerprint.
func (r *Runner) ComputeLayoutWithCacheInfo(ctx context.Context, entities []entity.Entity, opts Options) (layout.Result, bool, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return layout.Result{}, false, err
	}
	r.applyLogger(&opts)

	entityData, _ := json.Marshal(entities)
	datasetHash := cache.Hash(entityData)
	cacheKey := r.Keyer.LayoutKey(datasetHash, opts.LayoutKeyOpts())

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			cached, err := layout.UnmarshalResult(data)
			if err == nil {
				observability.Cache().OnCacheHit(ctx, "layout")
				return cached, true, nil
			}
			// Corrupt cached layout, fall through to recompute.
		}
		observability.Cache().OnCacheMiss(ctx, "layout")
	}

	start := time.Now()
	observability.Pipeline().OnLayoutStart(ctx, opts.Mode, len(entities))
	result, err := computeLayout(entities, opts)
	observability.Pipeline().OnLayoutComplete(ctx, opts.Mode, time.Since(start), err)
	if err != nil {
		return layout.Result{}, false, err
	}

	if data, err := layout.MarshalResult(result); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, cache.LayoutTTL); err == nil {
			observability.Cache().OnCacheSet(ctx, "layout", len(data))
		}
	}

	return result, false, nil
}

// computeLayout runs the strategy registry over the entities.
func computeLayout(entities []entity.Entity, opts Options) (layout.Result, error) {
	registry := layout.NewRegistry(opts.LayoutConfig(), opts.Width, opts.Height, opts.Logger)
	if err := registry.SetActive(layout.Mode(opts.Mode)); err != nil {
		return layout.Result{}, err
	}

	// The linear mode sorts by a configurable property.
	if opts.SortProperty != "" && layout.Mode(opts.Mode) == layout.ModeLinear {
		if s, err := registry.Strategy(layout.ModeLinear); err == nil {
			if linear, ok := s.(*layout.Linear); ok {
				linear.SetProperty(opts.SortProperty)
			}
		}
	}

	registry.Recompute(entities)
	return registry.Result(), nil
}
