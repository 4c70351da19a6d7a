// Package main inspects a finished batch: it prints the decision-flag tally
// and renders the per-star diagnostic plots (light curve, periodogram, phase
// folds) for every corrected or uncorroborated star, plus a seeded random
// control sample of agreeing stars.
package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"

	"github.com/stellar-data/rotation.report/internal/catalog"
	"github.com/stellar-data/rotation.report/internal/config"
	"github.com/stellar-data/rotation.report/internal/lightcurve"
	"github.com/stellar-data/rotation.report/internal/periodogram"
	"github.com/stellar-data/rotation.report/internal/plotting"
	"github.com/stellar-data/rotation.report/internal/rotation"
)

// Config holds the inspection settings.
type Config struct {
	ResultsPath   string
	LightCurveDir string
	OutputDir     string
	TuningPath    string
	All           bool
}

func main() {
	cfg := parseFlags()

	if cfg.ResultsPath == "" {
		log.Fatal("results CSV is required (-results)")
	}

	results, err := rotation.ReadResultsCSVFile(cfg.ResultsPath)
	if err != nil {
		log.Fatalf("Failed to read results: %v", err)
	}
	printTally(results)

	if cfg.LightCurveDir == "" || cfg.OutputDir == "" {
		return
	}
	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		log.Fatalf("Failed to create output directory: %v", err)
	}

	tuning := loadTuning(cfg.TuningPath)
	selected := results
	if !cfg.All {
		selected = selectForPlotting(results, tuning.GetMatchSampleSize(), tuning.GetSeed())
	}

	plotted := 0
	for _, res := range selected {
		if res.Variability < tuning.GetVariabilityCut() {
			continue // too quiet for the folds to show anything
		}
		if err := plotStar(cfg, tuning, res); err != nil {
			log.Printf("Warning: TIC %d plots failed: %v", res.TICID, err)
			continue
		}
		plotted++
	}
	log.Printf("Diagnostic plots for %d stars written to: %s", plotted, cfg.OutputDir)
}

// selectForPlotting keeps every corrected or uncorroborated star and a
// seeded random draw of matchControl agreeing stars as a visual control.
func selectForPlotting(results []rotation.Result, matchControl int, seed int64) []rotation.Result {
	var selected, matches []rotation.Result
	for _, r := range results {
		if r.Flag == rotation.FlagMatch {
			matches = append(matches, r)
		} else {
			selected = append(selected, r)
		}
	}
	if matchControl >= len(matches) {
		return append(selected, matches...)
	}
	rng := rand.New(rand.NewSource(seed))
	for _, i := range rng.Perm(len(matches))[:matchControl] {
		selected = append(selected, matches[i])
	}
	return selected
}

func parseFlags() Config {
	cfg := Config{}

	flag.StringVar(&cfg.ResultsPath, "results", "", "Results CSV from rotation-batch")
	flag.StringVar(&cfg.LightCurveDir, "lc-dir", "", "Directory of light-curve CSV files (enables plots)")
	flag.StringVar(&cfg.OutputDir, "output", "", "Output directory for diagnostic plots")
	flag.StringVar(&cfg.TuningPath, "config", "", "Tuning config JSON (defaults applied when empty)")
	flag.BoolVar(&cfg.All, "all", false, "Plot every star, not just corrected ones")

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

func printTally(results []rotation.Result) {
	tally := make(map[rotation.Flag]int)
	for _, r := range results {
		tally[r.Flag]++
	}
	log.Printf("%d results", len(results))
	for _, f := range []rotation.Flag{
		rotation.FlagMatch,
		rotation.FlagHarmonicCorrected,
		rotation.FlagSubharmonicCorrected,
		rotation.FlagLSOnly,
	} {
		log.Printf("  %-22s %d", f.String()+":", tally[f])
	}
}

// plotStar re-reads the star's light curve and renders the full diagnostic
// set so a corrected period can be checked by eye.
func plotStar(cfg Config, tuning *config.TuningConfig, res rotation.Result) error {
	path, err := findLightCurve(cfg.LightCurveDir, res.TICID)
	if err != nil {
		return err
	}
	lc, err := lightcurve.ReadCSVFile(path)
	if err != nil {
		return err
	}
	normalized, err := lc.Clean().Normalize()
	if err != nil {
		return err
	}
	binned, err := normalized.Bin(tuning.GetBinHours())
	if err != nil {
		return err
	}

	title := fmt.Sprintf("TIC %d [%s]", res.TICID, res.Flag)
	prefix := filepath.Join(cfg.OutputDir, fmt.Sprintf("tic%d", res.TICID))

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
	if err := plotting.SavePeriodogram(pg, res.LSPeriodDays, res.FinalPeriod, title, prefix+"_pgram.png"); err != nil {
		return err
	}

	return plotting.SaveFoldPair(binned, res.FinalPeriod, 40, title, prefix+"_fold.png")
}

func findLightCurve(dir string, tic int64) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if id, err := catalog.TICFromFilename(e.Name()); err == nil && id == tic {
			return filepath.Join(dir, e.Name()), nil
		}
	}
	return "", fmt.Errorf("no light curve for TIC %d in %s", tic, dir)
}
