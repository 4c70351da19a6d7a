package rotation

import "fmt"

// DecisionParams holds the ratio windows that classify the relationship
// between the autocorrelation and spectral periods. The ratio tested is
// ACF period / LS period, so a periodogram stuck on the first harmonic
// produces a ratio near 2.
type DecisionParams struct {
	HarmonicLow     float64
	HarmonicHigh    float64
	SubharmonicLow  float64
	SubharmonicHigh float64
}

// ChoosePeriod adopts a final period from the two estimates. acfPeriodDays
// of zero (or negative) means the autocorrelation method failed for this
// star, which yields FlagLSOnly.
func ChoosePeriod(lsPeriodDays, acfPeriodDays float64, p DecisionParams) (float64, Flag, error) {
	if lsPeriodDays <= 0 {
		return 0, 0, fmt.Errorf("spectral period must be positive, got %f", lsPeriodDays)
	}
	if acfPeriodDays <= 0 {
		return lsPeriodDays, FlagLSOnly, nil
	}

	ratio := acfPeriodDays / lsPeriodDays
	switch {
	case ratio > p.HarmonicLow && ratio < p.HarmonicHigh:
		// Periodogram found P/2; the ACF sees the full spot pattern.
		return acfPeriodDays, FlagHarmonicCorrected, nil
	case ratio > p.SubharmonicLow && ratio < p.SubharmonicHigh:
		return acfPeriodDays, FlagSubharmonicCorrected, nil
	default:
		return lsPeriodDays, FlagMatch, nil
	}
}
