package plan

import (
	"testing"

	"github.com/pvlab/sunrack/pkg/errors"
	"github.com/pvlab/sunrack/pkg/geom"
)

func squareSite(size float64) geom.Polygon {
	return geom.NewPolygon(
		geom.Pt(0, 0), geom.Pt(size, 0), geom.Pt(size, size), geom.Pt(0, size),
	)
}

func gujaratConfig() Config {
	return Config{
		Latitude:     23.0225,
		ModuleLength: 2.278,
		ModuleWidth:  1.134,
		ModulePower:  545,
		TiltAngle:    15,
		WalkwayWidth: 3,
		Margin:       5,
	}
}

func TestPlaceSquareSite(t *testing.T) {
	result, err := Place(squareSite(100), gujaratConfig())
	if err != nil {
		t.Fatal(err)
	}

	if result.TotalModules != 1264 {
		t.Errorf("TotalModules = %d, want 1264", result.TotalModules)
	}
	if result.Rows != 16 {
		t.Errorf("Rows = %d, want 16", result.Rows)
	}
	if !approx(result.CapacityKWp, 688.88, 0.01) {
		t.Errorf("CapacityKWp = %g, want 688.88", result.CapacityKWp)
	}
	if !approx(result.RowPitch, 2.822, 0.01) {
		t.Errorf("RowPitch = %g, want ~2.822", result.RowPitch)
	}
	if !approx(result.RowSpacing, result.RowPitch+3, 1e-9) {
		t.Errorf("RowSpacing = %g, want pitch + walkway", result.RowSpacing)
	}
	if !approx(result.UsableArea, 8100, 1e-6) {
		t.Errorf("UsableArea = %g, want 8100", result.UsableArea)
	}
	if !approx(result.SolarElevation, 43.4775, 1e-9) {
		t.Errorf("SolarElevation = %g, want 43.4775", result.SolarElevation)
	}
	if len(result.Placements) != result.TotalModules {
		t.Errorf("len(Placements) = %d, want %d", len(result.Placements), result.TotalModules)
	}
}

func TestPlaceIDsAndRows(t *testing.T) {
	result, err := Place(squareSite(100), gujaratConfig())
	if err != nil {
		t.Fatal(err)
	}
	for i, p := range result.Placements {
		if p.ID != i+1 {
			t.Fatalf("placement %d has ID %d, want sequential from 1", i, p.ID)
		}
		if p.Row < 0 || p.Row >= result.Rows {
			t.Fatalf("placement %d has row %d outside 0..%d", i, p.Row, result.Rows-1)
		}
		if p.Rotation != 0 {
			t.Fatalf("placement %d has rotation %g, want 0", i, p.Rotation)
		}
	}
}

func TestPlaceDeterministic(t *testing.T) {
	first, err := Place(squareSite(100), gujaratConfig())
	if err != nil {
		t.Fatal(err)
	}
	second, err := Place(squareSite(100), gujaratConfig())
	if err != nil {
		t.Fatal(err)
	}
	if len(first.Placements) != len(second.Placements) {
		t.Fatalf("module counts differ: %d vs %d", len(first.Placements), len(second.Placements))
	}
	for i := range first.Placements {
		if first.Placements[i] != second.Placements[i] {
			t.Fatalf("placement %d differs between runs: %+v vs %+v",
				i, first.Placements[i], second.Placements[i])
		}
	}
}

func TestPlaceContainment(t *testing.T) {
	// Every accepted module keeps its center inside the usable polygon
	// and at least the containment threshold of its footprint.
	site := geom.NewPolygon(
		geom.Pt(0, 0), geom.Pt(60, 0), geom.Pt(60, 30), geom.Pt(30, 30),
		geom.Pt(30, 60), geom.Pt(0, 60),
	)
	cfg := gujaratConfig()
	cfg.Margin = 2

	result, err := Place(site, cfg)
	if err != nil {
		t.Fatal(err)
	}
	if result.TotalModules == 0 {
		t.Fatal("L-shaped site should fit at least one module")
	}

	usable, err := UsableArea(site, cfg.Margin)
	if err != nil {
		t.Fatal(err)
	}
	for _, p := range result.Placements {
		if !usable.Contains(p.Center) {
			t.Errorf("module %d center %v is outside the usable area", p.ID, p.Center)
		}
		footprint := geom.RectAt(
			p.Center.X-cfg.ModuleWidth/2, p.Center.Y-cfg.ModuleLength/2,
			cfg.ModuleWidth, cfg.ModuleLength,
		)
		if frac := geom.OverlapFraction(footprint, usable); frac < ContainmentThreshold {
			t.Errorf("module %d overlap fraction = %g, want >= %g", p.ID, frac, ContainmentThreshold)
		}
	}
}

func TestPlaceHigherLatitudeFewerModules(t *testing.T) {
	equator := gujaratConfig()
	equator.Latitude = 0
	north := gujaratConfig()
	north.Latitude = 50

	low, err := Place(squareSite(100), equator)
	if err != nil {
		t.Fatal(err)
	}
	high, err := Place(squareSite(100), north)
	if err != nil {
		t.Fatal(err)
	}

	if high.RowPitch <= low.RowPitch {
		t.Errorf("pitch at lat 50 (%g) should exceed pitch at equator (%g)",
			high.RowPitch, low.RowPitch)
	}
	if high.TotalModules >= low.TotalModules {
		t.Errorf("modules at lat 50 (%d) should be fewer than at equator (%d)",
			high.TotalModules, low.TotalModules)
	}
}

func TestPlaceOverMarginedSite(t *testing.T) {
	// A margin past half the site width erodes the usable area to
	// nothing. That is a valid zero-module layout, not an error.
	cfg := gujaratConfig()
	cfg.Margin = 60

	result, err := Place(squareSite(100), cfg)
	if err != nil {
		t.Fatalf("over-margined site should not error: %v", err)
	}
	if result.TotalModules != 0 || result.Rows != 0 || len(result.Placements) != 0 {
		t.Errorf("expected empty layout, got %d modules in %d rows",
			result.TotalModules, result.Rows)
	}
	if result.CapacityKWp != 0 {
		t.Errorf("empty layout capacity = %g, want 0", result.CapacityKWp)
	}
}

func TestPlacePinchedSite(t *testing.T) {
	// Two lobes joined by a corridor narrower than twice the margin. The
	// eroded boundary pinches there, so the usable area collapses and no
	// module may be placed, least of all in the corridor band itself.
	site := geom.NewPolygon(
		geom.Pt(0, 0), geom.Pt(40, 0), geom.Pt(40, 18), geom.Pt(60, 18),
		geom.Pt(60, 0), geom.Pt(100, 0), geom.Pt(100, 40), geom.Pt(60, 40),
		geom.Pt(60, 22), geom.Pt(40, 22), geom.Pt(40, 40), geom.Pt(0, 40),
	)

	result, err := Place(site, gujaratConfig())
	if err != nil {
		t.Fatalf("pinched site should not error: %v", err)
	}
	if result.TotalModules != 0 || len(result.Placements) != 0 {
		t.Errorf("pinched site should place no modules, got %d", result.TotalModules)
	}
	for _, p := range result.Placements {
		if !site.Contains(geom.Pt(p.Center.X, p.Center.Y)) {
			t.Errorf("module %d at (%g, %g) sits outside the site boundary", p.ID, p.Center.X, p.Center.Y)
		}
	}
}

func TestPlaceValidation(t *testing.T) {
	degenerate := geom.NewPolygon(geom.Pt(0, 0), geom.Pt(10, 0))
	if _, err := Place(degenerate, gujaratConfig()); !errors.Is(err, errors.ErrCodeInvalidPolygon) {
		t.Errorf("2-vertex site should fail with INVALID_POLYGON, got %v", err)
	}

	cfg := gujaratConfig()
	cfg.Latitude = 100
	if _, err := Place(squareSite(100), cfg); !errors.Is(err, errors.ErrCodeInvalidLatitude) {
		t.Errorf("latitude 100 should fail with INVALID_LATITUDE, got %v", err)
	}

	cfg = gujaratConfig()
	cfg.ModuleWidth = 0
	if _, err := Place(squareSite(100), cfg); !errors.Is(err, errors.ErrCodeInvalidModule) {
		t.Errorf("zero width should fail with INVALID_MODULE, got %v", err)
	}

	cfg = gujaratConfig()
	cfg.WalkwayWidth = -1
	if _, err := Place(squareSite(100), cfg); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("negative walkway should fail with INVALID_CONFIG, got %v", err)
	}
}

func TestUsableArea(t *testing.T) {
	usable, err := UsableArea(squareSite(100), 5)
	if err != nil {
		t.Fatal(err)
	}
	if !approx(usable.Area(), 8100, 1e-6) {
		t.Errorf("usable area = %g, want 8100", usable.Area())
	}

	if _, err := UsableArea(squareSite(100), -1); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("negative margin should fail with INVALID_CONFIG, got %v", err)
	}
	if _, err := UsableArea(geom.Polygon{}, 1); !errors.Is(err, errors.ErrCodeInvalidPolygon) {
		t.Errorf("empty site should fail with INVALID_POLYGON, got %v", err)
	}
}
