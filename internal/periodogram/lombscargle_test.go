package periodogram

import (
	"errors"
	"math"
	"testing"
)

func defaultParams() Params {
	return Params{
		MinPeriodDays:       0.5,
		MaxPeriodDays:       15,
		Oversample:          5,
		FAPThreshold:        0.01,
		BootstrapIterations: 200,
		Seed:                42,
	}
}

// sineCurve simulates a spot-modulated star: a clean sinusoid sampled every
// two hours over the given baseline.
func sineCurve(periodDays, amplitude, baselineDays float64) (t, y []float64) {
	step := 2.0 / 24.0
	for x := 0.0; x < baselineDays; x += step {
		t = append(t, x)
		y = append(y, 1.0+amplitude*math.Sin(2*math.Pi*x/periodDays))
	}
	return t, y
}

func TestCompute_FindsSinePeriod(t *testing.T) {
	tests := []struct {
		name   string
		period float64
	}{
		{"benchmark_3.638d", 3.638},
		{"short_rotator_1.2d", 1.2},
		{"slow_rotator_11d", 11.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			times, flux := sineCurve(tt.period, 0.01, 26)
			pg, err := Compute(times, flux, defaultParams())
			if err != nil {
				t.Fatalf("Compute failed: %v", err)
			}
			peak, power := pg.Peak()

			// The grid resolution near P scales as P^2/(oversample*baseline).
			tol := tt.period * tt.period / (5 * 26.0)
			if tol < 0.02 {
				tol = 0.02
			}
			if math.Abs(peak-tt.period) > 2*tol {
				t.Errorf("peak period = %f, want %f +/- %f", peak, tt.period, 2*tol)
			}
			if power <= 0 {
				t.Errorf("peak power = %f, want > 0", power)
			}
		})
	}
}

func TestCompute_PeriodsWithinWindow(t *testing.T) {
	times, flux := sineCurve(3.638, 0.01, 26)
	p := defaultParams()
	pg, err := Compute(times, flux, p)
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}
	for _, period := range pg.PeriodDays {
		if period < p.MinPeriodDays-1e-9 || period > p.MaxPeriodDays+1e-9 {
			t.Fatalf("grid period %f outside [%f, %f]", period, p.MinPeriodDays, p.MaxPeriodDays)
		}
	}
	// Ascending order
	for i := 1; i < len(pg.PeriodDays); i++ {
		if pg.PeriodDays[i] <= pg.PeriodDays[i-1] {
			t.Fatalf("grid not ascending at index %d", i)
		}
	}
}

func TestCompute_Errors(t *testing.T) {
	goodT, goodY := sineCurve(3.0, 0.01, 26)

	t.Run("too_few_samples", func(t *testing.T) {
		_, err := Compute(goodT[:4], goodY[:4], defaultParams())
		if !errors.Is(err, ErrTooFewSamples) {
			t.Errorf("expected ErrTooFewSamples, got %v", err)
		}
	})

	t.Run("zero_variance", func(t *testing.T) {
		flat := make([]float64, len(goodT))
		for i := range flat {
			flat[i] = 1.0
		}
		_, err := Compute(goodT, flat, defaultParams())
		if !errors.Is(err, ErrZeroVariance) {
			t.Errorf("expected ErrZeroVariance, got %v", err)
		}
	})

	t.Run("length_mismatch", func(t *testing.T) {
		if _, err := Compute(goodT, goodY[:8], defaultParams()); err == nil {
			t.Error("expected error for mismatched lengths")
		}
	})

	t.Run("inverted_window", func(t *testing.T) {
		p := defaultParams()
		p.MinPeriodDays, p.MaxPeriodDays = 15, 0.5
		if _, err := Compute(goodT, goodY, p); err == nil {
			t.Error("expected error for inverted period window")
		}
	})
}

func TestEstimatePeriod_StrongSignalIsSignificant(t *testing.T) {
	times, flux := sineCurve(3.638, 0.01, 26)
	est, err := EstimatePeriod(times, flux, defaultParams())
	if err != nil {
		t.Fatalf("EstimatePeriod failed: %v", err)
	}

	if math.Abs(est.PeriodDays-3.638) > 0.2 {
		t.Errorf("period = %f, want ~3.638", est.PeriodDays)
	}
	if !est.Significant {
		t.Errorf("strong sinusoid should be significant, FAP = %f", est.FAP)
	}
	if est.FAP >= 0.01 {
		t.Errorf("FAP = %f, want < 0.01", est.FAP)
	}
	// Accepted estimates stay inside the search window.
	if est.PeriodDays < 0.5 || est.PeriodDays > 15 {
		t.Errorf("period %f outside search window", est.PeriodDays)
	}
}

func TestEstimatePeriod_Deterministic(t *testing.T) {
	times, flux := sineCurve(2.5, 0.005, 26)
	p := defaultParams()

	a, err := EstimatePeriod(times, flux, p)
	if err != nil {
		t.Fatalf("first estimate failed: %v", err)
	}
	b, err := EstimatePeriod(times, flux, p)
	if err != nil {
		t.Fatalf("second estimate failed: %v", err)
	}

	if a.PeriodDays != b.PeriodDays || a.FAP != b.FAP {
		t.Errorf("same seed produced different results: %+v vs %+v", a, b)
	}
}

func TestEstimatePeriod_FAPInUnitInterval(t *testing.T) {
	times, flux := sineCurve(3.0, 0.0005, 26)
	est, err := EstimatePeriod(times, flux, defaultParams())
	if err != nil {
		t.Fatalf("EstimatePeriod failed: %v", err)
	}
	if est.FAP <= 0 || est.FAP > 1 {
		t.Errorf("FAP = %f, want in (0, 1]", est.FAP)
	}
	if est.Significant != (est.FAP < 0.01) {
		t.Errorf("Significant flag inconsistent with FAP %f", est.FAP)
	}
}
