// Package pkg provides the core libraries for Sunrack PV layout planning.
//
// # Overview
//
// Sunrack turns a site boundary polygon into a buildable photovoltaic
// module layout. The pkg directory is organized into five main areas:
//
//  1. [geom] - Planar geometry (polygons, erosion, clipping)
//  2. [solar] - Sun position and worst-case design elevation
//  3. [plan] - Row pitch, module placement, and the area-based optimizer
//  4. [losses] - Shading and soiling loss models on top of a layout
//  5. [pipeline] - Orchestration (plan → estimate → export) with caching
//
// # Architecture
//
// The typical data flow through Sunrack:
//
//	Site boundary polygon + layout configuration
//	         ↓
//	    [geom] package (erode boundary by perimeter margin)
//	         ↓
//	    [solar] package (worst-case winter sun elevation)
//	         ↓
//	    [plan] package (row pitch + row-by-row placement)
//	         ↓
//	    JSON/CSV/SVG output
//
// # Quick Start
//
// Place modules inside a square site and render the layout:
//
//	import (
//	    "github.com/pvlab/sunrack/pkg/export"
//	    "github.com/pvlab/sunrack/pkg/geom"
//	    "github.com/pvlab/sunrack/pkg/plan"
//	)
//
//	site := geom.NewPolygon(
//	    geom.Pt(0, 0), geom.Pt(100, 0), geom.Pt(100, 100), geom.Pt(0, 100),
//	)
//	cfg := plan.Config{
//	    Latitude:     23.0225,
//	    ModuleLength: 2.278,
//	    ModuleWidth:  1.134,
//	    ModulePower:  545,
//	    TiltAngle:    15,
//	    WalkwayWidth: 3,
//	    Margin:       5,
//	}
//	result, _ := plan.Place(site, cfg)
//	_ = export.ExportJSON(result, "layout.json")
//
// # Main Packages
//
// ## Domain Logic
//
// [geom] - Points, polygons, and rectangles in the site's planar frame.
// Shoelace areas, ray-cast containment, Sutherland-Hodgman clipping, and
// inward polygon erosion for perimeter setbacks.
//
// [solar] - Solar declination, hour angle, elevation and azimuth, hourly
// sun paths, and the worst-case winter solstice elevation that drives row
// spacing.
//
// [plan] - The placement engine: non-shading row pitch, deterministic
// row-by-row sweeps with a containment threshold, and the area-based
// optimizer for quick what-if sizing.
//
// [losses] - Energy loss models layered on a computed layout: inter-row
// shading with bypass-diode electrical behavior, and regional soiling with
// seasonal rates and cleaning schedule comparison.
//
// ## Infrastructure
//
// [pipeline] - Complete planning pipeline (plan → estimate → export) used
// by CLI and API. Ensures consistent behavior across all entry points.
//
// [cache] - Content-addressed caching for layouts and estimates. File
// backend for the CLI, Redis for shared API deployments, null for tests.
//
// [store] - Project and layout persistence with in-memory and MongoDB
// backends.
//
// [config] - TOML site definition files (boundary vertices plus layout
// parameters with defaults).
//
// [export] - Output sinks: JSON record, CSV module schedule, SVG site plan.
//
// [errors] - Structured errors with machine-readable codes shared by CLI
// and API.
//
// [observability] - Optional instrumentation hooks with no-op defaults.
//
// [buildinfo] - Build-time version information injected via ldflags.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...          # All tests
//	go test ./pkg/plan/...     # Specific package
//
// [geom]: https://pkg.go.dev/github.com/pvlab/sunrack/pkg/geom
// [solar]: https://pkg.go.dev/github.com/pvlab/sunrack/pkg/solar
// [plan]: https://pkg.go.dev/github.com/pvlab/sunrack/pkg/plan
// [losses]: https://pkg.go.dev/github.com/pvlab/sunrack/pkg/losses
// [pipeline]: https://pkg.go.dev/github.com/pvlab/sunrack/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/pvlab/sunrack/pkg/cache
// [store]: https://pkg.go.dev/github.com/pvlab/sunrack/pkg/store
// [config]: https://pkg.go.dev/github.com/pvlab/sunrack/pkg/config
// [export]: https://pkg.go.dev/github.com/pvlab/sunrack/pkg/export
// [errors]: https://pkg.go.dev/github.com/pvlab/sunrack/pkg/errors
// [observability]: https://pkg.go.dev/github.com/pvlab/sunrack/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/pvlab/sunrack/pkg/buildinfo
package pkg
