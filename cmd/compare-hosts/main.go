// Package main compares the rotation-period distributions of single- and
// multi-planet hosts with two-sample KS and Anderson-Darling tests, and
// renders the HTML summary report.
package main

import (
	"encoding/json"
	"flag"
	"log"
	"os"

	"github.com/stellar-data/rotation.report/internal/catalog"
	"github.com/stellar-data/rotation.report/internal/config"
	"github.com/stellar-data/rotation.report/internal/report"
	"github.com/stellar-data/rotation.report/internal/rotation"
	"github.com/stellar-data/rotation.report/internal/stats"
)

// Config holds the comparison settings.
type Config struct {
	ResultsPath string
	HostsPath   string
	ReportPath  string
	OutputJSON  string
	TuningPath  string
	Alpha       float64
}

// ComparisonExport is the JSON export of the test outcomes.
type ComparisonExport struct {
	SingleCount     int     `json:"single_count"`
	MultiCount      int     `json:"multi_count"`
	SingleMedian    float64 `json:"single_median_days"`
	MultiMedian     float64 `json:"multi_median_days"`
	KSStatistic     float64 `json:"ks_statistic"`
	KSPValue        float64 `json:"ks_p_value"`
	ADStatistic     float64 `json:"ad_statistic"`
	ADPValue        float64 `json:"ad_p_value"`
	Distinguishable bool    `json:"distinguishable"`
}

func main() {
	cfg := parseFlags()

	if cfg.ResultsPath == "" {
		log.Fatal("results CSV is required (-results)")
	}
	if cfg.HostsPath == "" {
		log.Fatal("planet-host CSV is required (-hosts)")
	}

	results, err := rotation.ReadResultsCSVFile(cfg.ResultsPath)
	if err != nil {
		log.Fatalf("Failed to read results: %v", err)
	}
	hosts, err := catalog.ReadHostsCSVFile(cfg.HostsPath)
	if err != nil {
		log.Fatalf("Failed to read hosts: %v", err)
	}

	single, multi := splitByMultiplicity(results, hosts)
	log.Printf("Hosts with measured periods: %d single, %d multi", len(single), len(multi))

	tuning := loadTuning(cfg.TuningPath)
	if n := tuning.GetMatchSampleSize(); len(single) > n && len(multi) <= n {
		// Size-match the larger sample so neither test is dominated by it.
		single = stats.MatchedControl(single, n, tuning.GetSeed())
		log.Printf("Single-host sample size-matched down to %d", len(single))
	}

	cmp, err := stats.Compare("single hosts", single, "multi hosts", multi)
	if err != nil {
		log.Fatalf("Comparison failed: %v", err)
	}
	printComparison(cmp, cfg.Alpha)

	if cfg.ReportPath != "" {
		in := &report.Input{
			Title:      "Single vs multi planet hosts",
			Results:    results,
			Single:     single,
			Multi:      multi,
			Comparison: cmp,
		}
		if err := report.RenderFile(cfg.ReportPath, in); err != nil {
			log.Fatalf("Failed to render report: %v", err)
		}
		log.Printf("Report written to: %s", cfg.ReportPath)
	}

	if cfg.OutputJSON != "" {
		if err := exportJSON(cmp, cfg.Alpha, cfg.OutputJSON); err != nil {
			log.Printf("Warning: failed to export JSON: %v", err)
		} else {
			log.Printf("Results exported to: %s", cfg.OutputJSON)
		}
	}
}

func parseFlags() Config {
	cfg := Config{}

	flag.StringVar(&cfg.ResultsPath, "results", "", "Results CSV from rotation-batch")
	flag.StringVar(&cfg.HostsPath, "hosts", "", "Planet-host CSV (TIC_ID,N_Planets)")
	flag.StringVar(&cfg.ReportPath, "report", "report.html", "Output HTML report path (skipped when empty)")
	flag.StringVar(&cfg.OutputJSON, "json", "", "Output JSON path for the test results")
	flag.StringVar(&cfg.TuningPath, "config", "", "Tuning config JSON (defaults applied when empty)")
	flag.Float64Var(&cfg.Alpha, "alpha", 0.05, "Significance level for the verdict")

	flag.Parse()

	return cfg
}

func loadTuning(path string) *config.TuningConfig {
	if path == "" {
		return config.MustLoadDefaultConfig()
	}
	tuning, err := config.LoadTuningConfig(path)
	if err != nil {
		log.Fatalf("Failed to load tuning config: %v", err)
	}
	return tuning
}

// splitByMultiplicity matches measured periods to the host table and splits
// them into single- and multi-planet groups.
func splitByMultiplicity(results []rotation.Result, hosts []catalog.Host) (single, multi []float64) {
	multiplicity := make(map[int64]int, len(hosts))
	for _, h := range hosts {
		multiplicity[h.TICID] = h.Planets
	}
	for _, r := range results {
		n, ok := multiplicity[r.TICID]
		if !ok {
			continue
		}
		if n >= 2 {
			multi = append(multi, r.FinalPeriod)
		} else {
			single = append(single, r.FinalPeriod)
		}
	}
	return single, multi
}

func printComparison(c *stats.Comparison, alpha float64) {
	log.Printf("%s: n=%d, median %.3f d", c.NameA, c.NA, c.MedianA)
	log.Printf("%s: n=%d, median %.3f d", c.NameB, c.NB, c.MedianB)
	log.Printf("KS:               D=%.4f  p=%.4f", c.KS.Statistic, c.KS.PValue)
	log.Printf("Anderson-Darling: A2=%.4f p=%.4f", c.AD.Statistic, c.AD.PValue)
	if c.Distinguishable(alpha) {
		log.Printf("Distributions differ at alpha=%.2f", alpha)
	} else {
		log.Printf("No significant difference at alpha=%.2f", alpha)
	}
}

func exportJSON(c *stats.Comparison, alpha float64, path string) error {
	out := ComparisonExport{
		SingleCount:     c.NA,
		MultiCount:      c.NB,
		SingleMedian:    c.MedianA,
		MultiMedian:     c.MedianB,
		KSStatistic:     c.KS.Statistic,
		KSPValue:        c.KS.PValue,
		ADStatistic:     c.AD.Statistic,
		ADPValue:        c.AD.PValue,
		Distinguishable: c.Distinguishable(alpha),
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
