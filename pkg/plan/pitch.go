package plan

import (
	"math"

	"github.com/pvlab/sunrack/pkg/errors"
)

const (
	// lowSunThreshold is the elevation in degrees below which the pitch
	// formula's tangent term is no longer meaningful.
	lowSunThreshold = 0.5

	// pitchCapFactor bounds the pitch at low sun: the capped pitch is
	// pitchCapFactor × module length. Large enough that essentially a
	// single row fits on any realistic site, finite so downstream math
	// stays well-defined.
	pitchCapFactor = 100.0
)

// RowPitch returns the minimum row-to-row spacing in meters that avoids
// inter-row shading at the given design sun elevation:
//
//	R = L·cos(β) + L·sin(β)/tan(α)
//
// where L is the module length, β the tilt angle and α the sun elevation,
// all in degrees. The first term is the module's horizontal footprint;
// the second is the shadow cast by the raised back edge.
//
// When the elevation is at or below a small positive threshold (sun near
// or below the horizon at the design condition), RowPitch returns the
// capped pitch pitchCapFactor × L instead of dividing by a vanishing
// tangent. The result is always finite, so callers can still produce a
// degenerate low-density layout.
func RowPitch(moduleLength, tiltAngle, sunElevation float64) (float64, error) {
	if moduleLength <= 0 {
		return 0, errors.New(errors.ErrCodeInvalidModule,
			"module length must be positive, got %g", moduleLength)
	}
	if err := ValidateTilt(tiltAngle); err != nil {
		return 0, err
	}

	if sunElevation <= lowSunThreshold {
		return pitchCapFactor * moduleLength, nil
	}

	beta := tiltAngle * math.Pi / 180
	alpha := sunElevation * math.Pi / 180

	// Clamp against floating-point overshoot at tilt 0 or 90.
	sinBeta := clampUnit(math.Sin(beta))
	cosBeta := clampUnit(math.Cos(beta))

	footprint := moduleLength * cosBeta
	shadow := 0.0
	if sunElevation < 90 {
		shadow = moduleLength * sinBeta / math.Tan(alpha)
	}
	return footprint + shadow, nil
}

// GCR returns the ground coverage ratio for a module length and row pitch.
func GCR(moduleLength, rowPitch float64) float64 {
	if rowPitch <= 0 {
		return 0
	}
	return moduleLength / rowPitch
}

func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
