// Package config loads site and layout definitions from TOML files.
//
// A site file pairs a boundary polygon with layout parameters:
//
//	[site]
//	name     = "Kutch Block A"
//	latitude = 23.0225
//	vertices = [[0, 0], [100, 0], [100, 100], [0, 100]]
//
//	[layout]
//	module_length = 2.278
//	module_width  = 1.134
//	module_power  = 545.0
//	tilt_angle    = 15.0
//	walkway_width = 3.0
//	margin        = 5.0
//
// Missing layout fields fall back to defaults suitable for a utility
// scale plant in western India.
package config

import (
	"os"

	"github.com/BurntSushi/toml"

	"github.com/pvlab/sunrack/pkg/errors"
	"github.com/pvlab/sunrack/pkg/geom"
	"github.com/pvlab/sunrack/pkg/plan"
)

// Default layout parameters, applied where the file is silent.
const (
	DefaultLatitude     = 23.0225
	DefaultModuleLength = 2.278
	DefaultModuleWidth  = 1.134
	DefaultModulePower  = 545.0
	DefaultTiltAngle    = 15.0
	DefaultMargin       = 0.0
)

// Site is a loaded site definition ready for planning.
type Site struct {
	Name     string
	Boundary geom.Polygon
	Config   plan.Config
}

type siteFile struct {
	Site struct {
		Name     string      `toml:"name"`
		Latitude *float64    `toml:"latitude"`
		Vertices [][]float64 `toml:"vertices"`
	} `toml:"site"`
	Layout struct {
		ModuleLength *float64 `toml:"module_length"`
		ModuleWidth  *float64 `toml:"module_width"`
		ModulePower  *float64 `toml:"module_power"`
		TiltAngle    *float64 `toml:"tilt_angle"`
		WalkwayWidth *float64 `toml:"walkway_width"`
		Margin       *float64 `toml:"margin"`
	} `toml:"layout"`
}

// Load reads and validates a site definition from a TOML file.
func Load(path string) (*Site, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read %s", path)
	}
	return Parse(data)
}

// Parse reads and validates a site definition from TOML bytes.
func Parse(data []byte) (*Site, error) {
	var f siteFile
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse site file")
	}

	if len(f.Site.Vertices) < 3 {
		return nil, errors.New(errors.ErrCodeInvalidPolygon,
			"site needs at least 3 vertices, got %d", len(f.Site.Vertices))
	}
	pts := make([]geom.Point, len(f.Site.Vertices))
	for i, v := range f.Site.Vertices {
		if len(v) != 2 {
			return nil, errors.New(errors.ErrCodeInvalidPolygon,
				"vertex %d needs exactly 2 coordinates, got %d", i, len(v))
		}
		pts[i] = geom.Pt(v[0], v[1])
	}

	cfg := plan.Config{
		Latitude:     orDefault(f.Site.Latitude, DefaultLatitude),
		ModuleLength: orDefault(f.Layout.ModuleLength, DefaultModuleLength),
		ModuleWidth:  orDefault(f.Layout.ModuleWidth, DefaultModuleWidth),
		ModulePower:  orDefault(f.Layout.ModulePower, DefaultModulePower),
		TiltAngle:    orDefault(f.Layout.TiltAngle, DefaultTiltAngle),
		WalkwayWidth: orDefault(f.Layout.WalkwayWidth, plan.DefaultWalkwayWidth),
		Margin:       orDefault(f.Layout.Margin, DefaultMargin),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Site{
		Name:     f.Site.Name,
		Boundary: geom.NewPolygon(pts...),
		Config:   cfg,
	}, nil
}

func orDefault(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}
