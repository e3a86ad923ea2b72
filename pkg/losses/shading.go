// Package losses models energy losses on top of a computed layout:
// inter-row shading with bypass-diode electrical behavior, and regional
// soiling with seasonal variation and tilt correction. These consume the
// layout engine's row pitch and the solar package's sun positions; the
// placement engine itself never depends on them.
package losses

import (
	"time"

	"github.com/pvlab/sunrack/pkg/errors"
	"github.com/pvlab/sunrack/pkg/plan"
	"github.com/pvlab/sunrack/pkg/solar"
)

// Critical hours for shading analysis: the window that dominates annual
// yield. Inclusive on both ends.
const (
	CriticalStartHour = 9
	CriticalEndHour   = 15
)

// DefaultBypassDiodes is the typical number of bypass diodes per module.
const DefaultBypassDiodes = 3

// ShadingFraction returns the geometric shading of one row on the next,
// from 0 (clear) to 1 (fully shaded), for a given sun altitude in degrees.
//
// The shadow cast by a row's raised back edge has length
// L·sin(β)/tan(altitude); the clear ground between rows is the pitch
// minus the module's horizontal footprint L·cos(β). Shading begins when
// the shadow exceeds the clear distance.
func ShadingFraction(rowPitch, moduleLength, tiltAngle, sunAltitude float64) (float64, error) {
	if sunAltitude <= 0 {
		return 1.0, nil
	}
	if sunAltitude >= 90 {
		return 0.0, nil
	}
	if rowPitch <= 0 || moduleLength <= 0 {
		return 0, errors.New(errors.ErrCodeInvalidInput,
			"row pitch and module length must be positive, got %g and %g", rowPitch, moduleLength)
	}
	if err := plan.ValidateTilt(tiltAngle); err != nil {
		return 0, err
	}

	shadow := moduleLength * sin(tiltAngle) / tan(sunAltitude)
	footprint := moduleLength * cos(tiltAngle)
	clear := rowPitch - footprint

	if shadow <= clear {
		return 0.0, nil
	}
	shaded := (shadow - clear) / moduleLength
	if shaded > 1 {
		shaded = 1
	}
	return shaded, nil
}

// ElectricalLoss converts a geometric shading fraction into an electrical
// power loss fraction using a bypass-diode model. Shading within a diode
// section knocks out the whole section, so losses step in increments of
// 1/diodes rather than scaling linearly:
//
//   - below 5% shading: linear loss, no diode activation
//   - within the first section: the full section is lost
//   - across sections: each affected section is lost in full
//   - all sections affected: total module loss
func ElectricalLoss(shadingFraction float64, bypassDiodes int) (float64, error) {
	if shadingFraction < 0 || shadingFraction > 1 {
		return 0, errors.New(errors.ErrCodeInvalidInput,
			"shading fraction must be between 0 and 1, got %g", shadingFraction)
	}
	if bypassDiodes <= 0 {
		return 0, errors.New(errors.ErrCodeInvalidInput,
			"bypass diodes must be positive, got %d", bypassDiodes)
	}

	sectionSize := 1.0 / float64(bypassDiodes)

	if shadingFraction < 0.05 {
		return shadingFraction, nil
	}
	if shadingFraction < sectionSize {
		return sectionSize, nil
	}

	bypassed := int(shadingFraction / sectionSize)
	if bypassed >= bypassDiodes {
		return 1.0, nil
	}

	loss := float64(bypassed) * sectionSize
	remainder := shadingFraction - float64(bypassed)*sectionSize
	if remainder > 0.05*sectionSize {
		loss += sectionSize
	}
	if loss > 1 {
		loss = 1
	}
	return loss, nil
}

// HourlyShading is one hour of a shading profile.
type HourlyShading struct {
	Hour            int     `json:"hour"`
	SunElevation    float64 `json:"sun_elevation"`
	ShadingFraction float64 `json:"shading_fraction"`
	ElectricalLoss  float64 `json:"electrical_loss"`
}

// HourlyShadingProfile computes shading and electrical losses for every
// daylight hour of the given date, using the layout's row pitch, module
// length and tilt angle.
func HourlyShadingProfile(rowPitch, moduleLength, tiltAngle, latitude, longitude float64, date time.Time) ([]HourlyShading, error) {
	path, err := solar.SunPath(latitude, longitude, date)
	if err != nil {
		return nil, err
	}

	var profile []HourlyShading
	for _, pos := range path {
		if pos.Elevation <= 0 {
			continue
		}
		shading, err := ShadingFraction(rowPitch, moduleLength, tiltAngle, pos.Elevation)
		if err != nil {
			return nil, err
		}
		loss, err := ElectricalLoss(shading, DefaultBypassDiodes)
		if err != nil {
			return nil, err
		}
		profile = append(profile, HourlyShading{
			Hour:            pos.Hour,
			SunElevation:    pos.Elevation,
			ShadingFraction: shading,
			ElectricalLoss:  loss,
		})
	}
	return profile, nil
}

// CriticalHoursLoss returns the average electrical loss over the critical
// window (09:00-15:00 inclusive) of the profile. Hours missing from the
// profile (sun below horizon) count as full loss.
func CriticalHoursLoss(profile []HourlyShading) float64 {
	byHour := make(map[int]HourlyShading, len(profile))
	for _, h := range profile {
		byHour[h.Hour] = h
	}

	total := 0.0
	count := 0
	for hour := CriticalStartHour; hour <= CriticalEndHour; hour++ {
		count++
		if h, ok := byHour[hour]; ok {
			total += h.ElectricalLoss
		} else {
			total += 1.0
		}
	}
	return total / float64(count)
}
