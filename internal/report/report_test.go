package report

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stellar-data/rotation.report/internal/rotation"
	"github.com/stellar-data/rotation.report/internal/stats"
)

func testResults() []rotation.Result {
	rng := rand.New(rand.NewSource(7))
	out := make([]rotation.Result, 40)
	for i := range out {
		period := 0.5 + 14*rng.Float64()
		out[i] = rotation.Result{
			TICID:        int64(1000 + i),
			FinalPeriod:  period,
			LSPeriodDays: period,
			Flag:         rotation.Flag(i % 4),
		}
	}
	return out
}

func periods(results []rotation.Result, from, to int) []float64 {
	var out []float64
	for _, r := range results[from:to] {
		out = append(out, r.FinalPeriod)
	}
	return out
}

func TestRender(t *testing.T) {
	results := testResults()
	single := periods(results, 0, 12)
	multi := periods(results, 12, 20)

	cmp, err := stats.Compare("single", single, "multi", multi)
	if err != nil {
		t.Fatalf("Compare failed: %v", err)
	}

	var sb strings.Builder
	err = Render(&sb, &Input{
		Title:      "rotation batch",
		Results:    results,
		Single:     single,
		Multi:      multi,
		Comparison: cmp,
	})
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	html := sb.String()
	for _, want := range []string{
		"Rotation period distribution",
		"Harmonic decision flags",
		"Harmonic_Corrected",
		"single (n=12) vs multi (n=8)",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("report missing %q", want)
		}
	}
}

func TestRender_WithoutComparison(t *testing.T) {
	var sb strings.Builder
	err := Render(&sb, &Input{Title: "no hosts", Results: testResults()})
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if !strings.Contains(sb.String(), "Rotation period distribution") {
		t.Error("report missing the period histogram")
	}
}

func TestRender_NoResults(t *testing.T) {
	var sb strings.Builder
	if err := Render(&sb, &Input{Title: "empty"}); err == nil {
		t.Error("expected error for empty results")
	}
}

func TestHistogramBins(t *testing.T) {
	labels, counts := histogramBins(1.0, []float64{0.5, 1.2, 1.7, 3.4})
	if len(labels) != 4 {
		t.Fatalf("got %d bins, want 4 (0..3)", len(labels))
	}
	want := []int{1, 2, 0, 1}
	for i, w := range want {
		if counts[0][i] != w {
			t.Errorf("bin %d count = %d, want %d", i, counts[0][i], w)
		}
	}

	labels, _ = histogramBins(1.0)
	if labels != nil {
		t.Error("empty input should yield no bins")
	}
}
