// Package main validates the pipeline against a benchmark rotator: it runs
// the full analysis on one light curve and compares the adopted period with
// a reference value from the literature, writing the diagnostic plots and an
// optional JSON summary.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"

	"github.com/stellar-data/rotation.report/internal/catalog"
	"github.com/stellar-data/rotation.report/internal/config"
	"github.com/stellar-data/rotation.report/internal/lightcurve"
	"github.com/stellar-data/rotation.report/internal/periodogram"
	"github.com/stellar-data/rotation.report/internal/plotting"
	"github.com/stellar-data/rotation.report/internal/rotation"
	"github.com/stellar-data/rotation.report/internal/units"
)

// Config holds the validation settings. The defaults target the benchmark
// star TIC 445493624 with its published 3.638-day period.
type Config struct {
	LightCurvePath  string
	ReferencePeriod float64
	TIC             int64
	OutputDir       string
	TuningPath      string
	OutputJSON      string
	Tolerance       float64
	Units           string
}

// ValidationResult is the JSON export of a validation run.
type ValidationResult struct {
	TIC             int64   `json:"tic_id"`
	ReferencePeriod float64 `json:"reference_period_days"`
	LSPeriod        float64 `json:"ls_period_days"`
	LSFAP           float64 `json:"ls_fap"`
	ACFPeriod       float64 `json:"acf_period_days,omitempty"`
	FinalPeriod     float64 `json:"final_period_days"`
	Flag            string  `json:"flag"`
	Method          string  `json:"method"`
	RelativeError   float64 `json:"relative_error"`
	Passed          bool    `json:"passed"`
}

func main() {
	cfg := parseFlags()

	if cfg.LightCurvePath == "" {
		log.Fatal("light-curve CSV is required (-lc)")
	}
	if cfg.OutputDir != "" {
		if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
			log.Fatalf("Failed to create output directory: %v", err)
		}
	}

	tuning := loadTuning(cfg.TuningPath)

	result, err := runValidation(cfg, tuning)
	if err != nil {
		log.Fatalf("Validation failed: %v", err)
	}

	printResult(result, cfg.Units)

	if cfg.OutputJSON != "" {
		path := cfg.OutputJSON
		if cfg.OutputDir != "" {
			path = filepath.Join(cfg.OutputDir, cfg.OutputJSON)
		}
		if err := exportJSON(result, path); err != nil {
			log.Printf("Warning: failed to export JSON: %v", err)
		} else {
			log.Printf("Results exported to: %s", path)
		}
	}

	if !result.Passed {
		os.Exit(1)
	}
}

func parseFlags() Config {
	cfg := Config{}

	flag.StringVar(&cfg.LightCurvePath, "lc", "", "Path to light-curve CSV")
	flag.Float64Var(&cfg.ReferencePeriod, "ref", 3.638, "Reference period in days")
	flag.Int64Var(&cfg.TIC, "tic", 445493624, "TIC identifier (taken from the filename when 0)")
	flag.StringVar(&cfg.OutputDir, "output", "", "Output directory for plots and JSON")
	flag.StringVar(&cfg.TuningPath, "config", "", "Tuning config JSON (defaults applied when empty)")
	flag.StringVar(&cfg.OutputJSON, "json", "", "Output JSON filename (e.g. validation.json)")
	flag.Float64Var(&cfg.Tolerance, "tol", 0.1, "Maximum relative period error to pass")
	flag.StringVar(&cfg.Units, "units", units.Days, "Units for the printed period ("+units.GetValidUnitsString()+")")

	flag.Parse()

	if !units.IsValid(cfg.Units) {
		log.Fatalf("Invalid units %q; valid units are: %s", cfg.Units, units.GetValidUnitsString())
	}

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

func runValidation(cfg Config, tuning *config.TuningConfig) (*ValidationResult, error) {
	tic := cfg.TIC
	if tic == 0 {
		id, err := catalog.TICFromFilename(filepath.Base(cfg.LightCurvePath))
		if err != nil {
			return nil, err
		}
		tic = id
	}
	log.Printf("Validating TIC %d against reference period %.3f d", tic, cfg.ReferencePeriod)

	lc, err := lightcurve.ReadCSVFile(cfg.LightCurvePath)
	if err != nil {
		return nil, err
	}

	pipeline := rotation.NewPipeline(tuning)
	res, err := pipeline.AnalyzeStar(catalog.Star{TICID: tic}, lc)
	if err != nil {
		return nil, err
	}

	relErr := math.Abs(res.FinalPeriod-cfg.ReferencePeriod) / cfg.ReferencePeriod

	if cfg.OutputDir != "" {
		if res.Variability < tuning.GetVariabilityCut() {
			log.Printf("Variability %.5f below plot cut %.5f; skipping plots",
				res.Variability, tuning.GetVariabilityCut())
		} else if err := writePlots(cfg, tuning, tic, lc, res); err != nil {
			log.Printf("Warning: plot generation failed: %v", err)
		}
	}

	return &ValidationResult{
		TIC:             tic,
		ReferencePeriod: cfg.ReferencePeriod,
		LSPeriod:        res.LSPeriodDays,
		LSFAP:           res.LSFAP,
		ACFPeriod:       res.ACFPeriodDays,
		FinalPeriod:     res.FinalPeriod,
		Flag:            res.Flag.String(),
		Method:          res.Flag.Method(),
		RelativeError:   relErr,
		Passed:          relErr <= cfg.Tolerance,
	}, nil
}

func writePlots(cfg Config, tuning *config.TuningConfig, tic int64, lc *lightcurve.LightCurve, res *rotation.Result) error {
	normalized, err := lc.Clean().Normalize()
	if err != nil {
		return err
	}
	binned, err := normalized.Bin(tuning.GetBinHours())
	if err != nil {
		return err
	}

	title := fmt.Sprintf("TIC %d", tic)
	prefix := filepath.Join(cfg.OutputDir, fmt.Sprintf("tic%d", tic))

	if err := plotting.SaveLightCurve(binned, title, prefix+"_lc.png"); err != nil {
		return err
	}

	pg, err := periodogram.Compute(binned.Time, binned.Flux, periodogram.Params{
		MinPeriodDays: tuning.GetMinPeriodDays(),
		MaxPeriodDays: tuning.GetMaxPeriodDays(),
		Oversample:    tuning.GetOversample(),
	})
	if err != nil {
		return err
	}
	if err := plotting.SavePeriodogram(pg, res.LSPeriodDays, cfg.ReferencePeriod, title, prefix+"_pgram.png"); err != nil {
		return err
	}

	return plotting.SaveFoldPair(binned, res.FinalPeriod, 40, title, prefix+"_fold.png")
}

func printResult(r *ValidationResult, unit string) {
	log.Printf("LS period:    %.4f d (FAP %.4f)", r.LSPeriod, r.LSFAP)
	if r.ACFPeriod > 0 {
		log.Printf("ACF period:   %.4f d", r.ACFPeriod)
	} else {
		log.Printf("ACF period:   not detected")
	}
	log.Printf("Final period: %.4f %s [%s, from %s]",
		units.ConvertPeriod(r.FinalPeriod, unit), unit, r.Flag, r.Method)
	log.Printf("Reference:    %.4f d (relative error %.2f%%)", r.ReferencePeriod, 100*r.RelativeError)
	if r.Passed {
		log.Printf("PASS")
	} else {
		log.Printf("FAIL: relative error exceeds tolerance")
	}
}

func exportJSON(r *ValidationResult, path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
