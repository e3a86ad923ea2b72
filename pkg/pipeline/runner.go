package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/pvlab/sunrack/pkg/cache"
	"github.com/pvlab/sunrack/pkg/export"
	"github.com/pvlab/sunrack/pkg/geom"
	"github.com/pvlab/sunrack/pkg/observability"
	"github.com/pvlab/sunrack/pkg/plan"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
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
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete plan → estimate → export pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	result := &Result{
		Artifacts: make(map[string][]byte),
		SiteHash:  SiteHash(opts.Site),
	}

	// Stage 1: Plan
	planStart := time.Now()
	observability.Plan().OnPlaceStart(ctx, result.SiteHash, opts.Site.Len())
	layout, planHit, err := r.PlanWithCacheInfo(ctx, opts)
	observability.Plan().OnPlaceComplete(ctx, result.SiteHash, moduleCount(layout), time.Since(planStart), err)
	if err != nil {
		return nil, fmt.Errorf("plan: %w", err)
	}
	result.Layout = layout
	result.Stats.PlanTime = time.Since(planStart)
	result.Stats.ModuleCount = layout.TotalModules
	result.Stats.RowCount = layout.Rows
	result.CacheInfo.PlanHit = planHit

	usable, err := plan.UsableArea(opts.Site, opts.Config.Margin)
	if err != nil {
		return nil, fmt.Errorf("usable area: %w", err)
	}
	result.Usable = usable

	r.Logger.Info("placed modules",
		"modules", layout.TotalModules,
		"rows", layout.Rows,
		"capacity_kwp", layout.CapacityKWp,
		"duration", result.Stats.PlanTime)

	// Stage 2: Estimate
	estimateStart := time.Now()
	observability.Plan().OnEstimateStart(ctx, usable.Area(), opts.TargetGCR)
	estimate, estimateHit, err := r.EstimateWithCacheInfo(ctx, usable.Area(), opts)
	observability.Plan().OnEstimateComplete(ctx, recommended(estimate), time.Since(estimateStart), err)
	if err != nil {
		return nil, fmt.Errorf("estimate: %w", err)
	}
	result.Estimate = estimate
	result.Stats.EstimateTime = time.Since(estimateStart)
	result.CacheInfo.EstimateHit = estimateHit

	r.Logger.Info("computed estimate",
		"recommended", estimate.RecommendedModules,
		"gcr", estimate.GCR,
		"duration", result.Stats.EstimateTime)

	// Stage 3: Export
	exportStart := time.Now()
	observability.Plan().OnExportStart(ctx, opts.Formats)
	artifacts, err := r.Export(opts.Site, usable, layout, opts)
	observability.Plan().OnExportComplete(ctx, opts.Formats, time.Since(exportStart), err)
	if err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.ExportTime = time.Since(exportStart)

	r.Logger.Info("exported outputs",
		"formats", opts.Formats,
		"duration", result.Stats.ExportTime)

	return result, nil
}

// PlanWithCacheInfo runs the placement stage with caching and returns
// cache hit info.
func (r *Runner) PlanWithCacheInfo(ctx context.Context, opts Options) (*plan.Result, bool, error) {
	if err := opts.ValidateForPlan(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	cacheKey := r.Keyer.LayoutKey(SiteHash(opts.Site), opts.LayoutKeyOpts())

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			var cached plan.Result
			if err := json.Unmarshal(data, &cached); err == nil {
				observability.Cache().OnCacheHit(ctx, "layout")
				return &cached, true, nil // Cache hit
			}
			// If deserialization fails, fall through to recompute
		}
		observability.Cache().OnCacheMiss(ctx, "layout")
	}

	layout, err := plan.Place(opts.Site, opts.Config)
	if err != nil {
		return nil, false, err
	}

	if data, err := json.Marshal(layout); err == nil {
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLLayout)
		observability.Cache().OnCacheSet(ctx, "layout", len(data))
	}

	return layout, false, nil // Cache miss
}

// Plan is a convenience wrapper that calls PlanWithCacheInfo and discards
// the cache hit info.
func (r *Runner) Plan(ctx context.Context, opts Options) (*plan.Result, error) {
	layout, _, err := r.PlanWithCacheInfo(ctx, opts)
	return layout, err
}

// EstimateWithCacheInfo runs the estimate stage with caching and returns
// cache hit info.
func (r *Runner) EstimateWithCacheInfo(ctx context.Context, siteArea float64, opts Options) (*plan.Estimate, bool, error) {
	opts.SetEstimateDefaults()
	r.applyLogger(&opts)

	cacheKey := r.Keyer.EstimateKey(opts.EstimateKeyOpts(siteArea))

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			var cached plan.Estimate
			if err := json.Unmarshal(data, &cached); err == nil {
				observability.Cache().OnCacheHit(ctx, "estimate")
				return &cached, true, nil // Cache hit
			}
		}
		observability.Cache().OnCacheMiss(ctx, "estimate")
	}

	estimate, err := plan.Optimize(siteArea, opts.ModuleDims(), opts.TargetGCR, opts.Config.Latitude, opts.Config.TiltAngle)
	if err != nil {
		return nil, false, err
	}

	if data, err := json.Marshal(estimate); err == nil {
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLEstimate)
		observability.Cache().OnCacheSet(ctx, "estimate", len(data))
	}

	return estimate, false, nil // Cache miss
}

// Estimate is a convenience wrapper that calls EstimateWithCacheInfo and
// discards the cache hit info.
func (r *Runner) Estimate(ctx context.Context, siteArea float64, opts Options) (*plan.Estimate, error) {
	estimate, _, err := r.EstimateWithCacheInfo(ctx, siteArea, opts)
	return estimate, err
}

// Export generates artifacts for the requested formats. Exports are
// plain serialization of an already computed layout, so they are not
// cached.
func (r *Runner) Export(site, usable geom.Polygon, layout *plan.Result, opts Options) (map[string][]byte, error) {
	opts.SetExportDefaults()
	if err := ValidateFormats(opts.Formats); err != nil {
		return nil, err
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		switch format {
		case FormatJSON:
			var buf bytes.Buffer
			if err := export.WriteJSON(layout, &buf); err != nil {
				return nil, err
			}
			artifacts[format] = buf.Bytes()
		case FormatCSV:
			var buf bytes.Buffer
			if err := export.WriteCSV(layout, &buf); err != nil {
				return nil, err
			}
			artifacts[format] = buf.Bytes()
		case FormatSVG:
			svgOpts := []export.SVGOption{}
			if opts.ShowUsable {
				svgOpts = append(svgOpts, export.WithUsableBoundary(usable))
			}
			if opts.ShowRowBands {
				svgOpts = append(svgOpts, export.WithRowShading())
			}
			if opts.ShowIDs {
				svgOpts = append(svgOpts, export.WithModuleIDs())
			}
			artifacts[format] = export.RenderSVG(site, layout, opts.Config, svgOpts...)
		}
	}
	return artifacts, nil
}

// SiteHash returns the content hash of a site polygon, used in cache
// keys and API responses.
func SiteHash(site geom.Polygon) string {
	data, _ := json.Marshal(site.Vertices)
	return cache.Hash(data)
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func moduleCount(r *plan.Result) int {
	if r == nil {
		return 0
	}
	return r.TotalModules
}

func recommended(e *plan.Estimate) int {
	if e == nil {
		return 0
	}
	return e.RecommendedModules
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
