// Package main builds the M-dwarf analysis sample: it applies the
// temperature and surface-gravity cuts to a TIC catalog export, keeps the
// brightest survivors, and writes the sample table the batch tool consumes.
package main

import (
	"flag"
	"log"

	"github.com/stellar-data/rotation.report/internal/catalog"
	"github.com/stellar-data/rotation.report/internal/config"
	"github.com/stellar-data/rotation.report/internal/rotationdb"
)

// Config holds the sample-builder settings.
type Config struct {
	CatalogPath   string
	OutputPath    string
	TuningPath    string
	LightCurveDir string
	DBPath        string
	MigrationsDir string
	MaxStars      int
}

func main() {
	cfg := parseFlags()

	if cfg.CatalogPath == "" {
		log.Fatal("catalog CSV is required (-catalog)")
	}
	if cfg.OutputPath == "" {
		log.Fatal("output path is required (-out)")
	}

	tuning := loadTuning(cfg.TuningPath)

	stars, err := catalog.ReadCSVFile(cfg.CatalogPath)
	if err != nil {
		log.Fatalf("Failed to read catalog: %v", err)
	}
	log.Printf("Catalog: %d stars", len(stars))

	maxStars := tuning.GetMaxStars()
	if cfg.MaxStars > 0 {
		maxStars = cfg.MaxStars
	}

	cuts := catalog.Cuts{
		TeffMinK: tuning.GetTeffMinK(),
		TeffMaxK: tuning.GetTeffMaxK(),
		LoggMin:  tuning.GetLoggMin(),
		MaxStars: maxStars,
	}
	sample, err := catalog.Filter(stars, cuts)
	if err != nil {
		log.Fatalf("Sample selection failed: %v", err)
	}
	log.Printf("Sample: %d stars (Teff %.0f-%.0f K, logg >= %.1f, cap %d)",
		len(sample), cuts.TeffMinK, cuts.TeffMaxK, cuts.LoggMin, maxStars)

	if cfg.LightCurveDir != "" {
		observed, err := catalog.ObservedTICs(cfg.LightCurveDir)
		if err != nil {
			log.Fatalf("Failed to scan light-curve directory: %v", err)
		}
		before := len(sample)
		sample = catalog.RestrictToObserved(sample, observed)
		log.Printf("Observed: %d of %d sample stars have a light curve in %s",
			len(sample), before, cfg.LightCurveDir)
	}
	if len(sample) == 0 {
		log.Print("No stars passed the cuts; writing an empty sample")
	}

	if err := catalog.WriteCSVFile(cfg.OutputPath, sample); err != nil {
		log.Fatalf("Failed to write sample: %v", err)
	}
	log.Printf("Sample written to: %s", cfg.OutputPath)

	if cfg.DBPath != "" {
		if err := storeSample(cfg, sample); err != nil {
			log.Fatalf("Failed to store sample: %v", err)
		}
		log.Printf("Sample stored in %s", cfg.DBPath)
	}
}

func storeSample(cfg Config, sample []catalog.Star) error {
	db, err := rotationdb.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.MigrateUp(cfg.MigrationsDir); err != nil {
		return err
	}
	return db.UpsertStars(sample)
}

func parseFlags() Config {
	cfg := Config{}

	flag.StringVar(&cfg.CatalogPath, "catalog", "", "Path to TIC catalog CSV")
	flag.StringVar(&cfg.OutputPath, "out", "sample.csv", "Output sample CSV path")
	flag.StringVar(&cfg.TuningPath, "config", "", "Tuning config JSON (defaults applied when empty)")
	flag.StringVar(&cfg.LightCurveDir, "lc-dir", "", "Restrict the sample to stars with a light curve here")
	flag.StringVar(&cfg.DBPath, "db", "", "SQLite archive to store the sample in (skipped when empty)")
	flag.StringVar(&cfg.MigrationsDir, "migrations", "migrations", "Migrations directory for the archive")
	flag.IntVar(&cfg.MaxStars, "max", 0, "Override the sample size cap")

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
