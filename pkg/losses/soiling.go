package losses

import (
	"github.com/pvlab/sunrack/pkg/errors"
)

// ClimateZone identifies a regional soiling profile.
type ClimateZone string

// ClimateGujarat is the only zone with calibrated rates so far.
const ClimateGujarat ClimateZone = "gujarat"

// SoilingRates holds seasonal soiling rates in percent per day.
type SoilingRates struct {
	PreMonsoon  float64 // March-May
	Monsoon     float64 // June-September, natural cleaning
	PostMonsoon float64 // October-February
}

// gujaratRates are field-calibrated for western India.
var gujaratRates = SoilingRates{
	PreMonsoon:  0.55,
	Monsoon:     0.10,
	PostMonsoon: 0.35,
}

// maxSoiling is the saturation cap in percent: beyond it wind and gravity
// remove as much dust as settles.
const maxSoiling = 15.0

// RegionalSoilingRates returns the seasonal rates for a climate zone.
func RegionalSoilingRates(zone ClimateZone) (SoilingRates, error) {
	if zone == ClimateGujarat {
		return gujaratRates, nil
	}
	return SoilingRates{}, errors.New(errors.ErrCodeUnsupported,
		"climate zone %q not supported", zone)
}

// season returns which seasonal rate applies on a day of year.
func (r SoilingRates) season(dayOfYear int) float64 {
	switch {
	case dayOfYear >= 60 && dayOfYear <= 151:
		return r.PreMonsoon
	case dayOfYear >= 152 && dayOfYear <= 273:
		return r.Monsoon
	default:
		return r.PostMonsoon
	}
}

// tiltCorrection returns the soiling multiplier for a tilt angle.
// Steeper panels shed dust; flat panels collect it.
func tiltCorrection(tiltAngle float64) float64 {
	switch {
	case tiltAngle < 10:
		return 1.8
	case tiltAngle < 20:
		return 1.3
	case tiltAngle < 30:
		return 1.0
	default:
		return 0.7
	}
}

// DailySoilingRate returns the soiling rate in percent per day for a
// given day of year and tilt angle.
func DailySoilingRate(dayOfYear int, tiltAngle float64, zone ClimateZone) (float64, error) {
	rates, err := RegionalSoilingRates(zone)
	if err != nil {
		return 0, err
	}
	return rates.season(dayOfYear) * tiltCorrection(tiltAngle), nil
}

// AnnualSoilingLoss simulates a year of soiling accumulation with
// periodic cleaning and returns the average daily loss in percent.
// Accumulation saturates as panels get dirtier; each cleaning event
// resets it to zero. cleaningsPerYear ≤ 0 means no cleaning.
func AnnualSoilingLoss(zone ClimateZone, tiltAngle float64, cleaningsPerYear int) (float64, error) {
	rates, err := RegionalSoilingRates(zone)
	if err != nil {
		return 0, err
	}

	const daysPerYear = 365
	daysBetweenCleaning := float64(daysPerYear)
	if cleaningsPerYear > 0 {
		daysBetweenCleaning = daysPerYear / float64(cleaningsPerYear)
	}

	total := 0.0
	soiling := 0.0
	sinceClean := 0
	for day := 1; day <= daysPerYear; day++ {
		rate := rates.season(day) * tiltCorrection(tiltAngle)

		saturation := 1.0 - soiling/maxSoiling
		soiling += rate * saturation
		if soiling > maxSoiling {
			soiling = maxSoiling
		}

		total += soiling

		if cleaningsPerYear > 0 {
			sinceClean++
			if float64(sinceClean) >= daysBetweenCleaning {
				soiling = 0
				sinceClean = 0
			}
		}
	}
	return total / daysPerYear, nil
}

// CleaningOption is one entry of a cleaning-schedule comparison.
type CleaningOption struct {
	CleaningsPerYear int     `json:"cleanings_per_year"`
	AnnualLoss       float64 `json:"annual_loss_percent"`
}

// CompareCleaningSchedules evaluates the annual soiling loss for a set of
// standard cleaning frequencies, from none up to twice weekly.
func CompareCleaningSchedules(zone ClimateZone, tiltAngle float64) ([]CleaningOption, error) {
	frequencies := []int{0, 4, 6, 12, 24, 52, 104}
	options := make([]CleaningOption, 0, len(frequencies))
	for _, freq := range frequencies {
		loss, err := AnnualSoilingLoss(zone, tiltAngle, freq)
		if err != nil {
			return nil, err
		}
		options = append(options, CleaningOption{CleaningsPerYear: freq, AnnualLoss: loss})
	}
	return options, nil
}
