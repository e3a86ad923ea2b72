// Package pipeline provides the core planning pipeline.
//
// This package implements the complete plan → estimate → export pipeline
// that can be used by CLI and API components. By centralizing this logic,
// we ensure consistent behavior across all entry points and avoid code
// duplication.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Plan: Erode the site boundary and place modules row by row
//  2. Estimate: Area-based module count and capacity recommendation
//  3. Export: Generate output in various formats (JSON, CSV, SVG)
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Site:    site,
//	    Config:  cfg,
//	    Formats: []string{"json", "svg"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/pvlab/sunrack/pkg/cache"
	"github.com/pvlab/sunrack/pkg/geom"
	"github.com/pvlab/sunrack/pkg/plan"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultTargetGCR is the target ground coverage ratio used by the
	// estimate stage when none is given.
	DefaultTargetGCR = 0.4
)

// Format constants for output formats.
const (
	FormatJSON = "json"
	FormatCSV  = "csv"
	FormatSVG  = "svg"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatJSON: true,
	FormatCSV:  true,
	FormatSVG:  true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the planning pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Plan options
	Site   geom.Polygon `json:"site"`
	Config plan.Config  `json:"config"`

	// Estimate options
	TargetGCR float64 `json:"target_gcr,omitempty"`

	// Export options
	Formats      []string `json:"formats,omitempty"`
	ShowUsable   bool     `json:"show_usable,omitempty"`   // draw eroded boundary in SVG
	ShowRowBands bool     `json:"show_row_bands,omitempty"` // alternate module shading per row
	ShowIDs      bool     `json:"show_ids,omitempty"`       // label modules in SVG

	// Refresh bypasses the cache and recomputes.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Layout is the computed placement result.
	Layout *plan.Result

	// Usable is the eroded site boundary the layout was placed in.
	Usable geom.Polygon

	// Estimate is the area-based recommendation for the same site.
	Estimate *plan.Estimate

	// SiteHash is the content hash of the site polygon.
	SiteHash string

	// Artifacts contains exported outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	ModuleCount  int
	RowCount     int
	PlanTime     time.Duration
	EstimateTime time.Duration
	ExportTime   time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	PlanHit     bool // Whether the layout came from cache
	EstimateHit bool // Whether the estimate came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return fmt.Errorf("invalid format: %q (must be one of: json, csv, svg)", format)
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

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for
// the full pipeline. This method is idempotent - calling it multiple
// times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForPlan(); err != nil {
		return err
	}
	o.SetEstimateDefaults()
	o.SetExportDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForPlan checks required fields for the plan stage.
func (o *Options) ValidateForPlan() error {
	if o.Site.Len() < 3 {
		return fmt.Errorf("site polygon with at least 3 vertices is required")
	}
	if err := o.Config.Validate(); err != nil {
		return err
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// SetEstimateDefaults sets default values for the estimate stage.
func (o *Options) SetEstimateDefaults() {
	if o.TargetGCR == 0 {
		o.TargetGCR = DefaultTargetGCR
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// SetExportDefaults sets default values for the export stage.
func (o *Options) SetExportDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatJSON}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// LayoutKeyOpts returns cache key options for the plan stage.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		Latitude:     o.Config.Latitude,
		ModuleLength: o.Config.ModuleLength,
		ModuleWidth:  o.Config.ModuleWidth,
		ModulePower:  o.Config.ModulePower,
		TiltAngle:    o.Config.TiltAngle,
		WalkwayWidth: o.Config.WalkwayWidth,
		Margin:       o.Config.Margin,
	}
}

// EstimateKeyOpts returns cache key options for the estimate stage.
func (o *Options) EstimateKeyOpts(siteArea float64) cache.EstimateKeyOpts {
	return cache.EstimateKeyOpts{
		SiteArea:  siteArea,
		Length:    o.Config.ModuleLength,
		Width:     o.Config.ModuleWidth,
		Power:     o.Config.ModulePower,
		TargetGCR: o.TargetGCR,
		Latitude:  o.Config.Latitude,
		TiltAngle: o.Config.TiltAngle,
	}
}

// ModuleDims returns the module dimensions for the estimate stage.
func (o *Options) ModuleDims() plan.ModuleDims {
	return plan.ModuleDims{
		Length: o.Config.ModuleLength,
		Width:  o.Config.ModuleWidth,
		Power:  o.Config.ModulePower,
	}
}
