package periodogram

import (
	"fmt"
	"math/rand"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// EstimatePeriod runs the full spectral estimate: periodogram, peak pick,
// and bootstrap false-alarm probability. The bootstrap shuffles the flux
// values over the fixed observation times, so the null distribution carries
// the real sampling window. The RNG is seeded from Params for reproducible
// catalogs.
func EstimatePeriod(t, y []float64, p Params) (*Estimate, error) {
	pg, err := Compute(t, y, p)
	if err != nil {
		return nil, err
	}
	period, power := pg.Peak()

	fap, err := bootstrapFAP(t, y, power, p)
	if err != nil {
		return nil, fmt.Errorf("bootstrap FAP: %w", err)
	}

	threshold := p.FAPThreshold
	if threshold <= 0 {
		threshold = 0.01
	}

	return &Estimate{
		PeriodDays:  period,
		Power:       power,
		FAP:         fap,
		Significant: fap < threshold,
	}, nil
}

// bootstrapFAP estimates the probability that pure noise with the same flux
// distribution and the same time sampling produces a peak at least as strong
// as the observed one. Uses the add-one estimator so a zero count still
// yields a nonzero probability.
func bootstrapFAP(t, y []float64, observedPower float64, p Params) (float64, error) {
	iters := p.BootstrapIterations
	if iters <= 0 {
		iters = 200
	}

	span := floats.Max(t) - floats.Min(t)
	rng := rand.New(rand.NewSource(p.Seed))

	shuffled := append([]float64(nil), y...)
	centered := make([]float64, len(y))

	exceed := 0
	for i := 0; i < iters; i++ {
		rng.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})

		mean, variance := stat.MeanVariance(shuffled, nil)
		if variance == 0 {
			return 0, ErrZeroVariance
		}
		for j, v := range shuffled {
			centered[j] = v - mean
		}

		if maxPower(t, centered, variance, p, span) >= observedPower {
			exceed++
		}
	}

	return float64(exceed+1) / float64(iters+1), nil
}
