package plan

import (
	"math"

	"github.com/pvlab/sunrack/pkg/solar"
)

// Optimize recommends a module count and capacity from aggregate site
// area alone, without touching polygon geometry. It is the cheap what-if
// path used before committing to a full placement run.
//
// The target GCR is clamped into [MinGCR, MaxGCR] before use; the clamped
// value is reported in Estimate.TargetGCR. Clamping (rather than failing)
// is the chosen policy because the optimizer backs interactive
// exploration, where a hard error on an out-of-range slider value is
// unhelpful. The row pitch is the more conservative of the non-shading
// pitch (RowPitch) and the pitch implied by the target GCR, so the
// reported GCR never exceeds the target.
//
// Recommended modules = floor(siteArea × GCR / module area).
func Optimize(siteArea float64, dims ModuleDims, targetGCR, latitude, tiltAngle float64) (*Estimate, error) {
	if err := dims.Validate(); err != nil {
		return nil, err
	}
	target := clampGCR(targetGCR)

	elevation, err := solar.WorstCaseElevation(latitude)
	if err != nil {
		return nil, err
	}
	noShadingPitch, err := RowPitch(dims.Length, tiltAngle, elevation)
	if err != nil {
		return nil, err
	}

	// The target GCR may demand a wider pitch than shading does; take
	// the larger of the two.
	pitch := math.Max(noShadingPitch, dims.Length/target)
	gcr := GCR(dims.Length, pitch)

	modules := 0
	if siteArea > 0 {
		modules = int(siteArea * gcr / dims.Area())
	}

	return &Estimate{
		RecommendedModules: modules,
		RowPitch:           pitch,
		GCR:                gcr,
		TargetGCR:          target,
		CapacityKWp:        float64(modules) * dims.Power / 1000.0,
		ModuleArea:         dims.Area(),
		TotalModuleArea:    float64(modules) * dims.Area(),
		SolarElevation:     elevation,
	}, nil
}

// clampGCR clamps a target GCR into [MinGCR, MaxGCR].
func clampGCR(gcr float64) float64 {
	if gcr < MinGCR {
		return MinGCR
	}
	if gcr > MaxGCR {
		return MaxGCR
	}
	return gcr
}
