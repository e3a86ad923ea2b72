// Package plan implements the PV plant layout engine.
//
// Given a site boundary polygon and a module configuration, the engine
// derives the minimum non-shading row pitch from the worst-case sun
// elevation, erodes the boundary by the operational margin, and tiles
// module footprints row by row inside the usable area. The result reports
// every placement plus the achieved ground coverage ratio and capacity.
//
// # Pipeline
//
//	site polygon ──erode──▶ usable polygon
//	latitude ──worst-case elevation──▶ row pitch
//	usable polygon + pitch ──sweep──▶ placements, GCR, capacity
//
// Everything in this package is a pure function of its inputs: no I/O,
// no shared state, deterministic output for identical arguments. Callers
// may run independent layouts concurrently without coordination.
//
// # Quick Start
//
//	site := geom.NewPolygon(geom.Pt(0, 0), geom.Pt(100, 0), geom.Pt(100, 100), geom.Pt(0, 100))
//	cfg := plan.Config{
//	    Latitude:     23.0225,
//	    ModuleLength: 2.278,
//	    ModuleWidth:  1.134,
//	    ModulePower:  545,
//	    TiltAngle:    15,
//	    WalkwayWidth: 3.0,
//	    Margin:       5.0,
//	}
//	result, err := plan.Place(site, cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("%d modules, %.1f kWp\n", result.TotalModules, result.CapacityKWp)
package plan
