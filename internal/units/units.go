// Package units provides shared constants and conversions for rotation periods
package units

// Unit constants
const (
	Days  = "days"
	Hours = "hours"
	UHz   = "uhz"
)

// ValidUnits contains all valid period unit values
var ValidUnits = []string{Days, Hours, UHz}

// IsValid checks if the given unit is in the list of valid units
func IsValid(unit string) bool {
	for _, validUnit := range ValidUnits {
		if unit == validUnit {
			return true
		}
	}
	return false
}

// GetValidUnitsString returns a comma-separated string of valid units for error messages
func GetValidUnitsString() string {
	return "days, hours, uhz"
}

// secondsPerDay is used for the microhertz conversion.
const secondsPerDay = 86400.0

// ConvertPeriod converts a period from days to the target units.
// The catalog and database store periods in days.
func ConvertPeriod(periodDays float64, targetUnits string) float64 {
	switch targetUnits {
	case Hours:
		return periodDays * 24.0
	case UHz:
		// period -> frequency in microhertz
		if periodDays == 0 {
			return 0
		}
		return 1e6 / (periodDays * secondsPerDay)
	case Days:
		return periodDays // no conversion needed
	default:
		return periodDays // default to days if unknown unit
	}
}

// PeriodToFrequency converts a period in days to a frequency in cycles per day.
func PeriodToFrequency(periodDays float64) float64 {
	if periodDays == 0 {
		return 0
	}
	return 1.0 / periodDays
}

// FrequencyToPeriod converts a frequency in cycles per day to a period in days.
func FrequencyToPeriod(freqPerDay float64) float64 {
	if freqPerDay == 0 {
		return 0
	}
	return 1.0 / freqPerDay
}
