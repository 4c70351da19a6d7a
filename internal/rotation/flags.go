// Package rotation combines the spectral and autocorrelation period
// estimates into a single adopted rotation period, and runs the batch
// pipeline over a stellar sample.
package rotation

import "fmt"

// Flag records how the two period methods related for a star and which one
// was adopted.
type Flag int

const (
	// FlagMatch means the two methods agreed; the spectral period stands.
	FlagMatch Flag = iota

	// FlagHarmonicCorrected means the periodogram locked onto the first
	// harmonic (half the true period); the autocorrelation period was
	// adopted instead.
	FlagHarmonicCorrected

	// FlagSubharmonicCorrected means the periodogram returned roughly twice
	// the autocorrelation period; the autocorrelation period was adopted.
	FlagSubharmonicCorrected

	// FlagLSOnly means the autocorrelation method failed and the spectral
	// period stands uncorroborated.
	FlagLSOnly
)

var flagNames = map[Flag]string{
	FlagMatch:                "Match",
	FlagHarmonicCorrected:    "Harmonic_Corrected",
	FlagSubharmonicCorrected: "Subharmonic_Corrected",
	FlagLSOnly:               "LS_Only",
}

func (f Flag) String() string {
	if s, ok := flagNames[f]; ok {
		return s
	}
	return fmt.Sprintf("Flag(%d)", int(f))
}

// Method names the estimator that supplied the final period for this flag.
func (f Flag) Method() string {
	switch f {
	case FlagHarmonicCorrected, FlagSubharmonicCorrected:
		return "ACF"
	default:
		return "LS"
	}
}

// ParseFlag converts a stored flag string back to a Flag.
func ParseFlag(s string) (Flag, error) {
	for f, name := range flagNames {
		if name == s {
			return f, nil
		}
	}
	return 0, fmt.Errorf("unknown rotation flag %q", s)
}
