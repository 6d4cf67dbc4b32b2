package pipeline

import (
	"context"
	"encoding/json"
	"time"

	"github.com/chemdeck/chemdeck/pkg/cache"
	"github.com/chemdeck/chemdeck/pkg/entity"
	"github.com/chemdeck/chemdeck/pkg/observability"
)

// LoadWithCacheInfo loads a dataset category with caching and returns cache
// hit info.
func (r *Runner) LoadWithCacheInfo(ctx context.Context, opts Options) ([]entity.Entity, bool, error) {
	if err := opts.ValidateForLoad(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	cacheKey := r.Keyer.DatasetKey(opts.Category, r.Fingerprint)

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			var entities []entity.Entity
			if err := json.Unmarshal(data, &entities); err == nil {
				observability.Cache().OnCacheHit(ctx, "dataset")
				return entities, true, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, "dataset")
	}

	start := time.Now()
	observability.Pipeline().OnLoadStart(ctx, opts.Category)
	entities, err := r.Source.LoadAll(ctx, opts.Category)
	observability.Pipeline().OnLoadComplete(ctx, opts.Category, len(entities), time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	// Cache the result
	if data, err := json.Marshal(entities); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, cache.DatasetTTL); err == nil {
			observability.Cache().OnCacheSet(ctx, "dataset", len(data))
		}
	}

	return entities, false, nil
}
