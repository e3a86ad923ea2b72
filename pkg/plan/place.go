package plan

import (
	"github.com/pvlab/sunrack/pkg/errors"
	"github.com/pvlab/sunrack/pkg/geom"
	"github.com/pvlab/sunrack/pkg/solar"
)

// Place runs the placement algorithm for the given site boundary and
// configuration and returns the complete layout.
//
// The sweep is deterministic: rows advance south to north at row pitch
// plus walkway spacing, modules advance west to east at module width.
// A candidate footprint is accepted when its center lies inside the
// usable polygon and at least ContainmentThreshold of its area overlaps
// it; rejected candidates are discarded, never clipped. Because accepted
// modules sit on a fixed grid, footprints can never overlap.
//
// A usable area that erodes to nothing yields a zero-module Result, not
// an error: "no layout fits" is a legitimate design answer. Validation
// failures surface before any placement work happens.
func Place(site geom.Polygon, cfg Config) (*Result, error) {
	if site.Len() < 3 {
		return nil, errors.New(errors.ErrCodeInvalidPolygon,
			"site polygon must have at least 3 vertices, got %d", site.Len())
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	usable := geom.Erode(site, cfg.Margin)
	if usable.IsEmpty() {
		return &Result{Placements: []Placement{}}, nil
	}

	elevation, err := solar.WorstCaseElevation(cfg.Latitude)
	if err != nil {
		return nil, err
	}
	pitch, err := RowPitch(cfg.ModuleLength, cfg.TiltAngle, elevation)
	if err != nil {
		return nil, err
	}
	spacing := pitch + cfg.WalkwayWidth

	minP, maxP := usable.BoundingBox()

	placements := []Placement{}
	rows := 0
	id := 1

	// Rows sweep south→north; each row sweeps modules west→east. The
	// sweeps stop when the next footprint's leading edge would leave the
	// usable bounding extent.
	for y := minP.Y; y+cfg.ModuleLength <= maxP.Y; y += spacing {
		accepted := 0
		for x := minP.X; x+cfg.ModuleWidth <= maxP.X; x += cfg.ModuleWidth {
			footprint := geom.RectAt(x, y, cfg.ModuleWidth, cfg.ModuleLength)
			center := footprint.Center()
			if !usable.Contains(center) {
				continue
			}
			if geom.OverlapFraction(footprint, usable) < ContainmentThreshold {
				continue
			}
			placements = append(placements, Placement{
				ID:     id,
				Center: center,
				Row:    rows,
			})
			id++
			accepted++
		}
		if accepted > 0 {
			rows++
		}
	}

	return &Result{
		Placements:     placements,
		TotalModules:   len(placements),
		Rows:           rows,
		CapacityKWp:    float64(len(placements)) * cfg.ModulePower / 1000.0,
		ActualGCR:      GCR(cfg.ModuleLength, pitch),
		RowPitch:       pitch,
		RowSpacing:     spacing,
		UsableArea:     usable.Area(),
		SolarElevation: elevation,
	}, nil
}

// UsableArea erodes the site boundary by the margin and returns the
// usable polygon. Exposed separately so collaborators (visualization,
// export) can draw the eroded boundary without re-running placement.
func UsableArea(site geom.Polygon, margin float64) (geom.Polygon, error) {
	if site.Len() < 3 {
		return geom.Polygon{}, errors.New(errors.ErrCodeInvalidPolygon,
			"site polygon must have at least 3 vertices, got %d", site.Len())
	}
	if margin < 0 {
		return geom.Polygon{}, errors.New(errors.ErrCodeInvalidConfig,
			"margin must be non-negative, got %g", margin)
	}
	return geom.Erode(site, margin), nil
}
