package solar

import "time"

// SunPosition is one hourly sample of the sun's position.
type SunPosition struct {
	Hour      int     `json:"hour"`
	Elevation float64 `json:"elevation"`
	Azimuth   float64 `json:"azimuth"`
}

// SunPath returns the hourly sun positions (hours 0-23) for the given
// location and date. Hours with the sun below the horizon report zero
// elevation.
func SunPath(latitude, longitude float64, date time.Time) ([]SunPosition, error) {
	if err := ValidateLatitude(latitude); err != nil {
		return nil, err
	}

	path := make([]SunPosition, 0, 24)
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	for hour := 0; hour < 24; hour++ {
		t := day.Add(time.Duration(hour) * time.Hour)
		elev, err := Elevation(latitude, longitude, t)
		if err != nil {
			return nil, err
		}
		az, err := Azimuth(latitude, longitude, t)
		if err != nil {
			return nil, err
		}
		path = append(path, SunPosition{Hour: hour, Elevation: elev, Azimuth: az})
	}
	return path, nil
}

// WinterSolstice returns December 21 of the given year in UTC, the design
// date for worst-case shading analysis.
func WinterSolstice(year int) time.Time {
	return time.Date(year, time.December, 21, 0, 0, 0, 0, time.UTC)
}
