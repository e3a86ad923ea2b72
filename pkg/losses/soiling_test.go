package losses

import (
	"testing"

	"github.com/pvlab/sunrack/pkg/errors"
)

func TestRegionalSoilingRates(t *testing.T) {
	rates, err := RegionalSoilingRates(ClimateGujarat)
	if err != nil {
		t.Fatal(err)
	}
	if rates.PreMonsoon != 0.55 || rates.Monsoon != 0.10 || rates.PostMonsoon != 0.35 {
		t.Errorf("unexpected rates: %+v", rates)
	}
	if rates.Monsoon >= rates.PostMonsoon || rates.PostMonsoon >= rates.PreMonsoon {
		t.Error("monsoon rains should clean, pre-monsoon dust should dominate")
	}

	if _, err := RegionalSoilingRates("sahara"); !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("unknown zone should fail with UNSUPPORTED, got %v", err)
	}
}

func TestSeasonBoundaries(t *testing.T) {
	r := gujaratRates
	tests := []struct {
		day  int
		want float64
	}{
		{1, r.PostMonsoon},   // January
		{59, r.PostMonsoon},  // end of February
		{60, r.PreMonsoon},   // March
		{151, r.PreMonsoon},  // end of May
		{152, r.Monsoon},     // June
		{273, r.Monsoon},     // end of September
		{274, r.PostMonsoon}, // October
		{365, r.PostMonsoon},
	}
	for _, tc := range tests {
		if got := r.season(tc.day); got != tc.want {
			t.Errorf("season(day %d) = %g, want %g", tc.day, got, tc.want)
		}
	}
}

func TestTiltCorrection(t *testing.T) {
	tests := []struct {
		tilt float64
		want float64
	}{
		{0, 1.8}, {9.99, 1.8},
		{10, 1.3}, {15, 1.3},
		{20, 1.0}, {29.9, 1.0},
		{30, 0.7}, {60, 0.7},
	}
	for _, tc := range tests {
		if got := tiltCorrection(tc.tilt); got != tc.want {
			t.Errorf("tiltCorrection(%g) = %g, want %g", tc.tilt, got, tc.want)
		}
	}
}

func TestDailySoilingRate(t *testing.T) {
	// Pre-monsoon day on a 15° panel: 0.55 × 1.3.
	got, err := DailySoilingRate(100, 15, ClimateGujarat)
	if err != nil {
		t.Fatal(err)
	}
	if !almostEqual(got, 0.55*1.3, 1e-9) {
		t.Errorf("DailySoilingRate = %g, want %g", got, 0.55*1.3)
	}

	if _, err := DailySoilingRate(100, 15, "mars"); err == nil {
		t.Error("unknown zone should fail")
	}
}

func TestAnnualSoilingLossCleaningHelps(t *testing.T) {
	// More frequent cleaning strictly reduces the average loss.
	prev := 101.0
	for _, freq := range []int{0, 4, 12, 52, 104} {
		loss, err := AnnualSoilingLoss(ClimateGujarat, 15, freq)
		if err != nil {
			t.Fatal(err)
		}
		if loss <= 0 || loss > maxSoiling {
			t.Fatalf("loss at %d cleanings = %g, want in (0, %g]", freq, loss, maxSoiling)
		}
		if loss >= prev {
			t.Errorf("loss at %d cleanings = %g, want < %g", freq, loss, prev)
		}
		prev = loss
	}
}

func TestAnnualSoilingLossTiltEffect(t *testing.T) {
	flat, err := AnnualSoilingLoss(ClimateGujarat, 5, 12)
	if err != nil {
		t.Fatal(err)
	}
	steep, err := AnnualSoilingLoss(ClimateGujarat, 35, 12)
	if err != nil {
		t.Fatal(err)
	}
	if steep >= flat {
		t.Errorf("steep panels (%g) should soil less than flat (%g)", steep, flat)
	}
}

func TestCompareCleaningSchedules(t *testing.T) {
	options, err := CompareCleaningSchedules(ClimateGujarat, 15)
	if err != nil {
		t.Fatal(err)
	}
	if len(options) != 7 {
		t.Fatalf("got %d options, want 7", len(options))
	}
	if options[0].CleaningsPerYear != 0 || options[len(options)-1].CleaningsPerYear != 104 {
		t.Errorf("schedule range = %d..%d, want 0..104",
			options[0].CleaningsPerYear, options[len(options)-1].CleaningsPerYear)
	}
	for i := 1; i < len(options); i++ {
		if options[i].AnnualLoss >= options[i-1].AnnualLoss {
			t.Errorf("loss at %d cleanings (%g) should be below %d cleanings (%g)",
				options[i].CleaningsPerYear, options[i].AnnualLoss,
				options[i-1].CleaningsPerYear, options[i-1].AnnualLoss)
		}
	}

	if _, err := CompareCleaningSchedules("atacama", 15); err == nil {
		t.Error("unknown zone should fail")
	}
}
