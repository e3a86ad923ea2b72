// Package solar computes sun-position angles used for PV array design.
//
// The placement engine consumes a single scalar: the worst-case midday
// elevation at winter solstice, which fixes the inter-row shading
// constraint. The hourly position functions serve the shading analysis
// on top of the same declination/hour-angle model.
package solar

import (
	"math"
	"time"

	"github.com/pvlab/sunrack/pkg/errors"
)

// EarthTilt is the Earth's axial tilt in degrees.
const EarthTilt = 23.5

// solarNoon is the local solar noon hour used by the hour-angle model.
const solarNoon = 12.0

// WorstCaseElevation returns the midday sun elevation at winter solstice
// for the given latitude, in degrees. This is the minimum midday elevation
// across the year and the design condition for row spacing.
//
// Northern hemisphere: 90 − φ − 23.5. Southern: 90 + φ − 23.5.
// The result may be ≤ 0 at polar latitudes; callers resolve that with the
// capped-pitch policy rather than treating it as an error.
func WorstCaseElevation(latitude float64) (float64, error) {
	if err := ValidateLatitude(latitude); err != nil {
		return 0, err
	}
	if latitude >= 0 {
		return 90 - latitude - EarthTilt, nil
	}
	return 90 + latitude - EarthTilt, nil
}

// ValidateLatitude checks that a latitude is within [-90, 90] degrees.
func ValidateLatitude(latitude float64) error {
	if latitude < -90 || latitude > 90 {
		return errors.New(errors.ErrCodeInvalidLatitude,
			"latitude must be between -90 and 90 degrees, got %g", latitude)
	}
	return nil
}

// declination returns the solar declination in degrees for a day of year.
func declination(dayOfYear int) float64 {
	return 23.45 * math.Sin(rad((360.0/365.0)*(float64(dayOfYear)-81)))
}

// hourAngle returns the hour angle in degrees for a local clock hour.
func hourAngle(hour float64) float64 {
	return 15 * (hour - solarNoon)
}

// Elevation returns the sun elevation angle in degrees for the given
// location and local time, clamped to 0 when the sun is below the horizon.
func Elevation(latitude, longitude float64, t time.Time) (float64, error) {
	if err := ValidateLatitude(latitude); err != nil {
		return 0, err
	}
	_ = longitude // local clock time already encodes the longitude offset

	hour := float64(t.Hour()) + float64(t.Minute())/60.0
	latRad := rad(latitude)
	decRad := rad(declination(t.YearDay()))
	haRad := rad(hourAngle(hour))

	sinElev := math.Sin(latRad)*math.Sin(decRad) +
		math.Cos(latRad)*math.Cos(decRad)*math.Cos(haRad)
	elev := deg(math.Asin(clamp(sinElev, -1, 1)))
	return math.Max(0, elev), nil
}

// Azimuth returns the sun azimuth angle in degrees for the given location
// and local time (0 = north, 90 = east, 180 = south, 270 = west).
// Returns 180 (due south) when the sun is below the horizon.
func Azimuth(latitude, longitude float64, t time.Time) (float64, error) {
	if err := ValidateLatitude(latitude); err != nil {
		return 0, err
	}

	elev, err := Elevation(latitude, longitude, t)
	if err != nil {
		return 0, err
	}
	if elev <= 0 {
		return 180.0, nil
	}

	hour := float64(t.Hour()) + float64(t.Minute())/60.0
	latRad := rad(latitude)
	decRad := rad(declination(t.YearDay()))
	elevRad := rad(elev)

	cosAz := (math.Sin(decRad) - math.Sin(latRad)*math.Sin(elevRad)) /
		(math.Cos(latRad) * math.Cos(elevRad))
	az := deg(math.Acos(clamp(cosAz, -1, 1)))

	// Mirror into the afternoon half of the compass.
	if hourAngle(hour) > 0 {
		az = 360 - az
	}
	return az, nil
}

func rad(d float64) float64 { return d * math.Pi / 180 }

func deg(r float64) float64 { return r * 180 / math.Pi }

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
