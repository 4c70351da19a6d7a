package units

import (
	"math"
	"testing"
)

func TestConvertPeriod(t *testing.T) {
	tests := []struct {
		name       string
		periodDays float64
		units      string
		expected   float64
	}{
		{"1 day to hours", 1.0, Hours, 24.0},
		{"3.638 days to hours", 3.638, Hours, 87.312},
		{"1 day to uhz", 1.0, UHz, 11.574074},
		{"10 days to uhz", 10.0, UHz, 1.1574074},
		{"10 days to days", 10.0, Days, 10.0},
		{"unknown units default to days", 5.0, "unknown", 5.0},
		{"zero period to uhz", 0.0, UHz, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ConvertPeriod(tt.periodDays, tt.units)
			if math.Abs(result-tt.expected) > 0.0001 { // Allow small floating point differences
				t.Errorf("ConvertPeriod(%f, %s) = %f, want %f", tt.periodDays, tt.units, result, tt.expected)
			}
		})
	}
}

func TestIsValid(t *testing.T) {
	tests := []struct {
		name     string
		unit     string
		expected bool
	}{
		{"valid days", Days, true},
		{"valid hours", Hours, true},
		{"valid uhz", UHz, true},
		{"invalid unit", "invalid", false},
		{"empty string", "", false},
		{"case sensitive", "Days", false},
		{"case sensitive", "HOURS", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := IsValid(tt.unit)
			if result != tt.expected {
				t.Errorf("IsValid(%s) = %v, want %v", tt.unit, result, tt.expected)
			}
		})
	}
}

func TestPeriodFrequencyRoundTrip(t *testing.T) {
	periods := []float64{0.5, 1.0, 3.638, 15.0}
	for _, p := range periods {
		f := PeriodToFrequency(p)
		back := FrequencyToPeriod(f)
		if math.Abs(back-p) > 1e-12 {
			t.Errorf("round trip for %f days gave %f", p, back)
		}
	}

	if PeriodToFrequency(0) != 0 {
		t.Errorf("PeriodToFrequency(0) should be 0")
	}
	if FrequencyToPeriod(0) != 0 {
		t.Errorf("FrequencyToPeriod(0) should be 0")
	}
}

func TestGetValidUnitsString(t *testing.T) {
	if GetValidUnitsString() != "days, hours, uhz" {
		t.Errorf("unexpected valid units string: %s", GetValidUnitsString())
	}
}
