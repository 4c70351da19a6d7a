package rotation

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/stellar-data/rotation.report/internal/catalog"
	"github.com/stellar-data/rotation.report/internal/lightcurve"
)

func defaultDecisionParams() DecisionParams {
	return DecisionParams{
		HarmonicLow:     1.8,
		HarmonicHigh:    2.2,
		SubharmonicLow:  0.45,
		SubharmonicHigh: 0.55,
	}
}

func TestChoosePeriod(t *testing.T) {
	tests := []struct {
		name       string
		lsPeriod   float64
		acfPeriod  float64
		wantPeriod float64
		wantFlag   Flag
	}{
		{"agreement", 3.64, 3.70, 3.64, FlagMatch},
		{"harmonic_corrected", 5.0, 10.0, 10.0, FlagHarmonicCorrected},
		{"just_inside_harmonic_low", 5.0, 9.05, 9.05, FlagHarmonicCorrected},
		{"just_inside_harmonic_high", 5.0, 10.95, 10.95, FlagHarmonicCorrected},
		// The windows are open intervals: a ratio exactly on a boundary is
		// not a correction.
		{"harmonic_low_boundary", 5.0, 9.0, 5.0, FlagMatch},
		{"harmonic_high_boundary", 5.0, 11.0, 5.0, FlagMatch},
		{"just_outside_harmonic", 5.0, 11.5, 5.0, FlagMatch},
		{"subharmonic_corrected", 8.0, 4.0, 4.0, FlagSubharmonicCorrected},
		{"just_inside_subharmonic", 10.0, 4.6, 4.6, FlagSubharmonicCorrected},
		{"subharmonic_low_boundary", 10.0, 4.5, 10.0, FlagMatch},
		{"subharmonic_high_boundary", 10.0, 5.5, 10.0, FlagMatch},
		{"acf_failed", 3.64, 0, 3.64, FlagLSOnly},
		{"unrelated_periods", 2.0, 7.0, 2.0, FlagMatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			period, flag, err := ChoosePeriod(tt.lsPeriod, tt.acfPeriod, defaultDecisionParams())
			if err != nil {
				t.Fatalf("ChoosePeriod failed: %v", err)
			}
			if period != tt.wantPeriod {
				t.Errorf("period = %f, want %f", period, tt.wantPeriod)
			}
			if flag != tt.wantFlag {
				t.Errorf("flag = %s, want %s", flag, tt.wantFlag)
			}
		})
	}
}

func TestChoosePeriod_RejectsBadLSPeriod(t *testing.T) {
	if _, _, err := ChoosePeriod(0, 3.0, defaultDecisionParams()); err == nil {
		t.Error("expected error for non-positive spectral period")
	}
}

func TestFlagStrings(t *testing.T) {
	tests := []struct {
		flag Flag
		want string
	}{
		{FlagMatch, "Match"},
		{FlagHarmonicCorrected, "Harmonic_Corrected"},
		{FlagSubharmonicCorrected, "Subharmonic_Corrected"},
		{FlagLSOnly, "LS_Only"},
	}
	for _, tt := range tests {
		if got := tt.flag.String(); got != tt.want {
			t.Errorf("%d.String() = %q, want %q", tt.flag, got, tt.want)
		}
		parsed, err := ParseFlag(tt.want)
		if err != nil || parsed != tt.flag {
			t.Errorf("ParseFlag(%q) = %v, %v", tt.want, parsed, err)
		}
	}
	if _, err := ParseFlag("Bogus"); err == nil {
		t.Error("expected error for unknown flag string")
	}
}

// sineCurve builds a spot-modulated light curve sampled every 30 minutes
// over ~26 days, in raw (unnormalized) flux.
func sineCurve(periodDays, relAmplitude float64) *lightcurve.LightCurve {
	lc := &lightcurve.LightCurve{}
	step := 0.5 / 24.0
	for x := 0.0; x < 26; x += step {
		lc.Time = append(lc.Time, x)
		lc.Flux = append(lc.Flux, 1500*(1.0+relAmplitude*math.Sin(2*math.Pi*x/periodDays)))
	}
	return lc
}

func TestAnalyzeStar(t *testing.T) {
	p := NewPipeline(nil)
	star := catalog.Star{TICID: 445493624, Teff: 3400, Logg: 4.75, Tmag: 10.1}

	res, err := p.AnalyzeStar(star, sineCurve(3.638, 0.01))
	if err != nil {
		t.Fatalf("AnalyzeStar failed: %v", err)
	}
	if math.Abs(res.FinalPeriod-3.638) > 0.25 {
		t.Errorf("final period = %f, want ~3.638", res.FinalPeriod)
	}
	if res.Flag != FlagMatch {
		t.Errorf("flag = %s, want Match", res.Flag)
	}
	if !res.LSSignificant {
		t.Errorf("strong sinusoid should clear the FAP gate, FAP = %f", res.LSFAP)
	}
	if res.TICID != star.TICID || res.Teff != star.Teff {
		t.Error("star metadata not carried into result")
	}
}

func TestAnalyzeStar_QuietStarStillMeasured(t *testing.T) {
	p := NewPipeline(nil)
	star := catalog.Star{TICID: 9}

	// Amplitude well below the variability cut: the star still gets a
	// catalog row, the cut only suppresses diagnostic plots downstream.
	res, err := p.AnalyzeStar(star, sineCurve(3.0, 0.0001))
	if err != nil {
		t.Fatalf("AnalyzeStar failed on a quiet star: %v", err)
	}
	if res.Variability >= 0.0015 {
		t.Fatalf("variability = %f, expected below the default cut", res.Variability)
	}
	if math.Abs(res.FinalPeriod-3.0) > 0.25 {
		t.Errorf("final period = %f, want ~3.0", res.FinalPeriod)
	}
}

func writeLightCurveFile(t *testing.T, dir string, tic int64, lc *lightcurve.LightCurve) {
	t.Helper()
	name := fmt.Sprintf("tess2019006130736-s0007-%016d-0131-s_lc.csv", tic)
	var sb strings.Builder
	sb.WriteString("time,flux\n")
	for i := range lc.Time {
		fmt.Fprintf(&sb, "%.6f,%.6f\n", lc.Time[i], lc.Flux[i])
	}
	if err := os.WriteFile(filepath.Join(dir, name), []byte(sb.String()), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestRunBatch(t *testing.T) {
	dir := t.TempDir()
	writeLightCurveFile(t, dir, 101, sineCurve(3.638, 0.01))
	writeLightCurveFile(t, dir, 102, sineCurve(7.2, 0.008))
	writeLightCurveFile(t, dir, 103, sineCurve(2.0, 0.0001)) // quiet
	writeLightCurveFile(t, dir, 999, sineCurve(5.0, 0.01))   // not in sample

	// A file with no TIC in the name is recorded as skipped.
	if err := os.WriteFile(filepath.Join(dir, "notes.csv"), []byte("time,flux\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	sample := []catalog.Star{
		{TICID: 101, Teff: 3300, Logg: 4.8, Tmag: 10},
		{TICID: 102, Teff: 3600, Logg: 4.6, Tmag: 11},
		{TICID: 103, Teff: 3100, Logg: 4.9, Tmag: 12},
	}

	batch, err := NewPipeline(nil).RunBatch(dir, sample)
	if err != nil {
		t.Fatalf("RunBatch failed: %v", err)
	}
	// The quiet star is tallied but still measured.
	if len(batch.Results) != 3 {
		t.Fatalf("got %d results, want 3", len(batch.Results))
	}
	if batch.Quiet != 1 {
		t.Errorf("quiet count = %d, want 1", batch.Quiet)
	}
	quietInResults := false
	for _, r := range batch.Results {
		if r.TICID == 103 {
			quietInResults = true
		}
	}
	if !quietInResults {
		t.Error("quiet star missing from the results catalog")
	}
	if len(batch.Skipped) != 1 {
		t.Errorf("skipped = %v, want exactly the TIC-less file", batch.Skipped)
	}
	if batch.RunID == "" {
		t.Error("batch has no run ID")
	}

	total := 0
	for _, n := range batch.FlagCounts {
		total += n
	}
	if total != len(batch.Results) {
		t.Errorf("flag counts sum to %d, want %d", total, len(batch.Results))
	}
}

func TestResultsCSV_RoundTrip(t *testing.T) {
	in := []Result{
		{
			TICID: 101, Teff: 3300, Logg: 4.8, Tmag: 10.5,
			LSPeriodDays: 3.6401, LSPower: 412.2, LSFAP: 0.00498,
			ACFPeriodDays: 3.6667, FinalPeriod: 3.6401,
			Flag: FlagMatch, Variability: 0.0071,
		},
		{
			TICID: 102, Teff: 3600, Logg: 4.6, Tmag: 11.1,
			LSPeriodDays: 5.0, LSPower: 300.0, LSFAP: 0.00498,
			ACFPeriodDays: 0, FinalPeriod: 5.0,
			Flag: FlagLSOnly, Variability: 0.004,
		},
	}

	var sb strings.Builder
	if err := WriteResultsCSV(&sb, in); err != nil {
		t.Fatalf("WriteResultsCSV failed: %v", err)
	}
	// Failed ACF must round-trip as an empty cell.
	if strings.Contains(sb.String(), "LS_Only") && !strings.Contains(sb.String(), ",,5.0000") {
		t.Errorf("failed ACF not written as empty cell:\n%s", sb.String())
	}

	out, err := ReadResultsCSV(strings.NewReader(sb.String()))
	if err != nil {
		t.Fatalf("ReadResultsCSV failed: %v", err)
	}
	// Fields round-trip exactly except LSSignificant, which the table does
	// not carry.
	want := append([]Result(nil), in...)
	for i := range want {
		want[i].LSSignificant = false
	}
	if diff := cmp.Diff(want, out); diff != "" {
		t.Errorf("results did not round-trip (-want +got):\n%s", diff)
	}
	if out[1].ACFPeriodDays != 0 {
		t.Errorf("empty ACF cell parsed as %f, want 0", out[1].ACFPeriodDays)
	}
}

func TestReadResultsCSV_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"missing_column", "TIC_ID,Flag\n1,Match\n"},
		{"bad_flag", strings.Join(resultColumns, ",") + "\n1,3300,4.8,10,3.6,400,0.005,,3.6,Wrong,0.007\n"},
		{"bad_tic", strings.Join(resultColumns, ",") + "\nx,3300,4.8,10,3.6,400,0.005,,3.6,Match,0.007\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ReadResultsCSV(strings.NewReader(tt.input)); err == nil {
				t.Errorf("expected error for %s", tt.name)
			}
		})
	}
}
