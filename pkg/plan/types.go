package plan

import (
	"github.com/pvlab/sunrack/pkg/errors"
	"github.com/pvlab/sunrack/pkg/geom"
	"github.com/pvlab/sunrack/pkg/solar"
)

// =============================================================================
// Constants - Single Source of Truth
// =============================================================================

const (
	// ContainmentThreshold is the minimum fraction of a module footprint
	// that must lie inside the usable polygon for the module to be placed.
	// Candidates below the threshold are discarded, never clipped.
	ContainmentThreshold = 0.8

	// MinGCR and MaxGCR bound the target ground coverage ratio accepted
	// by the optimizer. Values outside the range are clamped.
	MinGCR = 0.2
	MaxGCR = 0.7

	// DefaultWalkwayWidth is the walkway between rows when unset, in meters.
	DefaultWalkwayWidth = 3.0
)

// =============================================================================
// Config - Layout Configuration
// =============================================================================

// Config holds the module and site parameters for a placement run.
// All fields are required; the struct is treated as immutable per run.
type Config struct {
	// Latitude of the site in degrees, -90..90.
	Latitude float64 `json:"latitude" bson:"latitude" toml:"latitude"`

	// ModuleLength is the module dimension along the tilt direction, meters.
	ModuleLength float64 `json:"module_length" bson:"module_length" toml:"module_length"`

	// ModuleWidth is the module dimension perpendicular to tilt, meters.
	ModuleWidth float64 `json:"module_width" bson:"module_width" toml:"module_width"`

	// ModulePower is the module power rating in watts.
	ModulePower float64 `json:"module_power" bson:"module_power" toml:"module_power"`

	// TiltAngle is the module tilt in degrees, 0..90.
	TiltAngle float64 `json:"tilt_angle" bson:"tilt_angle" toml:"tilt_angle"`

	// WalkwayWidth is the extra row-to-row clearance in meters, ≥ 0.
	WalkwayWidth float64 `json:"walkway_width" bson:"walkway_width" toml:"walkway_width"`

	// Margin is the perimeter setback applied to the site boundary, meters.
	Margin float64 `json:"margin" bson:"margin" toml:"margin"`
}

// Validate checks all configuration fields and returns the first
// validation failure, or nil if the configuration is usable.
func (c Config) Validate() error {
	if err := solar.ValidateLatitude(c.Latitude); err != nil {
		return err
	}
	if c.ModuleLength <= 0 {
		return errors.New(errors.ErrCodeInvalidModule,
			"module length must be positive, got %g", c.ModuleLength)
	}
	if c.ModuleWidth <= 0 {
		return errors.New(errors.ErrCodeInvalidModule,
			"module width must be positive, got %g", c.ModuleWidth)
	}
	if c.ModulePower <= 0 {
		return errors.New(errors.ErrCodeInvalidModule,
			"module power must be positive, got %g", c.ModulePower)
	}
	if err := ValidateTilt(c.TiltAngle); err != nil {
		return err
	}
	if c.WalkwayWidth < 0 {
		return errors.New(errors.ErrCodeInvalidConfig,
			"walkway width must be non-negative, got %g", c.WalkwayWidth)
	}
	if c.Margin < 0 {
		return errors.New(errors.ErrCodeInvalidConfig,
			"margin must be non-negative, got %g", c.Margin)
	}
	return nil
}

// ValidateTilt checks that a tilt angle is within [0, 90] degrees.
func ValidateTilt(tilt float64) error {
	if tilt < 0 || tilt > 90 {
		return errors.New(errors.ErrCodeInvalidTilt,
			"tilt angle must be between 0 and 90 degrees, got %g", tilt)
	}
	return nil
}

// =============================================================================
// Placement & Result - Layout Output
// =============================================================================

// Placement is one placed module. Created only by Place; never mutated.
type Placement struct {
	// ID is the sequence number, unique and monotonically increasing
	// within a layout.
	ID int `json:"id" bson:"id"`

	// Center is the footprint center in the site's planar frame, meters.
	Center geom.Point `json:"center" bson:"center"`

	// Row is the index of the (non-empty) row this module belongs to.
	Row int `json:"row" bson:"row"`

	// Rotation is the footprint rotation in degrees. The base algorithm
	// places axis-aligned modules only, so this is always 0.
	Rotation float64 `json:"rotation" bson:"rotation"`
}

// Result is the terminal output of a placement run. Consumers treat it
// as read-only.
type Result struct {
	Placements []Placement `json:"modules" bson:"modules"`

	TotalModules int     `json:"total_modules" bson:"total_modules"`
	Rows         int     `json:"rows" bson:"rows"`
	CapacityKWp  float64 `json:"capacity_kwp" bson:"capacity_kwp"`
	ActualGCR    float64 `json:"gcr_ratio" bson:"gcr_ratio"`

	// RowPitch is the non-shading row spacing in meters; RowSpacing adds
	// the walkway width on top.
	RowPitch   float64 `json:"row_pitch" bson:"row_pitch"`
	RowSpacing float64 `json:"row_spacing" bson:"row_spacing"`

	// UsableArea is the eroded site area in square meters.
	UsableArea float64 `json:"usable_area_sqm" bson:"usable_area_sqm"`

	// SolarElevation is the worst-case design elevation in degrees.
	SolarElevation float64 `json:"solar_elevation" bson:"solar_elevation"`
}

// ModuleDims describes a module for the area-based optimizer.
type ModuleDims struct {
	Length float64 `json:"length" bson:"length" toml:"length"` // meters, tilt direction
	Width  float64 `json:"width" bson:"width" toml:"width"`    // meters
	Power  float64 `json:"power" bson:"power" toml:"power"`    // watts
}

// Validate checks the module dimensions.
func (d ModuleDims) Validate() error {
	if d.Length <= 0 || d.Width <= 0 {
		return errors.New(errors.ErrCodeInvalidModule,
			"module dimensions must be positive, got %gx%g", d.Length, d.Width)
	}
	if d.Power <= 0 {
		return errors.New(errors.ErrCodeInvalidModule,
			"module power must be positive, got %g", d.Power)
	}
	return nil
}

// Area returns the module footprint area in square meters.
func (d ModuleDims) Area() float64 {
	return d.Length * d.Width
}

// Estimate is the optimizer's area-based recommendation. It never
// involves polygon geometry; see Optimize.
type Estimate struct {
	RecommendedModules int     `json:"recommended_modules" bson:"recommended_modules"`
	RowPitch           float64 `json:"row_pitch" bson:"row_pitch"`
	GCR                float64 `json:"gcr" bson:"gcr"`
	TargetGCR          float64 `json:"target_gcr" bson:"target_gcr"` // after clamping
	CapacityKWp        float64 `json:"capacity_kwp" bson:"capacity_kwp"`
	ModuleArea         float64 `json:"module_area" bson:"module_area"`
	TotalModuleArea    float64 `json:"total_module_area" bson:"total_module_area"`
	SolarElevation     float64 `json:"solar_elevation" bson:"solar_elevation"`
}
