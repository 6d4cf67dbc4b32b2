package pipeline

import (
	"context"
	"time"

	"github.com/chemdeck/chemdeck/pkg/cache"
	"github.com/chemdeck/chemdeck/pkg/errors"
	"github.com/chemdeck/chemdeck/pkg/layout"
	"github.com/chemdeck/chemdeck/pkg/observability"
	"github.com/chemdeck/chemdeck/pkg/render"
)

// =============================================================================
// Render Stage
// =============================================================================

// RenderWithCacheInfo generates artifacts with caching and returns cache hit
// info. Formats are cached individually; a single missing format triggers a
// full re-render.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, layoutResult layout.Result, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	layoutData, err := layout.MarshalResult(layoutResult)
	if err != nil {
		return nil, false, errors.Wrap(errors.ErrCodeInternal, err, "serialize layout for cache key")
	}
	layoutHash := cache.Hash(layoutData)

	// Try to get all formats from cache
	allCached := true
	artifacts := make(map[string][]byte)

	if !opts.Refresh {
		for _, format := range opts.Formats {
			cacheKey := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
			if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
				artifacts[format] = data
			} else {
				allCached = false
				break
			}
		}
		if allCached && len(artifacts) == len(opts.Formats) {
			observability.Cache().OnCacheHit(ctx, "artifact")
			return artifacts, true, nil
		}
		observability.Cache().OnCacheMiss(ctx, "artifact")
	}

	start := time.Now()
	observability.Pipeline().OnRenderStart(ctx, opts.Formats)
	rendered, err := renderFormats(ctx, layoutResult, opts)
	observability.Pipeline().OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		cacheKey := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, cacheKey, data, cache.ArtifactTTL); err == nil {
			observability.Cache().OnCacheSet(ctx, "artifact", len(data))
		}
	}

	return rendered, false, nil
}

// renderFormats produces every requested format from the layout result.
func renderFormats(ctx context.Context, layoutResult layout.Result, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte)

	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatJSON:
			data, err = layout.MarshalResult(layoutResult)
		case FormatPNG:
			data, err = render.RenderPNG(layoutResult, render.Options{
				FillProperty: opts.FillProperty,
				SizeProperty: opts.SizeProperty,
				Category:     opts.Category,
				LowColor:     opts.LowColor,
				HighColor:    opts.HighColor,
			})
		case FormatDOT:
			data = []byte(render.ToDOT(layoutResult))
		case FormatSVG:
			data, err = render.RenderDOTSVG(ctx, render.ToDOT(layoutResult))
		default:
			return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported format: %s", format)
		}

		if err != nil {
			return nil, errors.Wrap(codeOf(err), err, "render %s", format)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}
