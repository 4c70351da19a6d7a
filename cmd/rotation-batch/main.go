// Package main runs the rotation-period pipeline over a full sample: every
// light curve in the input directory that matches a sample star is analyzed,
// and the results land in a CSV table and optionally the SQLite archive.
package main

import (
	"flag"
	"log"
	"os"
	"time"

	"github.com/stellar-data/rotation.report/internal/catalog"
	"github.com/stellar-data/rotation.report/internal/config"
	"github.com/stellar-data/rotation.report/internal/rotation"
	"github.com/stellar-data/rotation.report/internal/rotationdb"
)

// Config holds the batch-run settings.
type Config struct {
	SamplePath    string
	LightCurveDir string
	OutputPath    string
	TuningPath    string
	DBPath        string
	MigrationsDir string
}

func main() {
	cfg := parseFlags()

	if cfg.SamplePath == "" {
		log.Fatal("sample CSV is required (-sample)")
	}
	if cfg.LightCurveDir == "" {
		log.Fatal("light-curve directory is required (-lc-dir)")
	}
	if _, err := os.Stat(cfg.LightCurveDir); os.IsNotExist(err) {
		log.Fatalf("Light-curve directory not found: %s", cfg.LightCurveDir)
	}

	tuning := loadTuning(cfg.TuningPath)

	sample, err := catalog.ReadCSVFile(cfg.SamplePath)
	if err != nil {
		log.Fatalf("Failed to read sample: %v", err)
	}

	batch, err := rotation.NewPipeline(tuning).RunBatch(cfg.LightCurveDir, sample)
	if err != nil {
		log.Fatalf("Batch run failed: %v", err)
	}
	printSummary(batch)

	if cfg.OutputPath != "" {
		if err := rotation.WriteResultsCSVFile(cfg.OutputPath, batch.Results); err != nil {
			log.Fatalf("Failed to write results: %v", err)
		}
		log.Printf("Results written to: %s", cfg.OutputPath)
	}

	if cfg.DBPath != "" {
		if err := archiveBatch(cfg, batch); err != nil {
			log.Fatalf("Failed to archive batch: %v", err)
		}
		log.Printf("Run %s archived in %s", batch.RunID, cfg.DBPath)
	}
}

func parseFlags() Config {
	cfg := Config{}

	flag.StringVar(&cfg.SamplePath, "sample", "", "Sample CSV from build-sample")
	flag.StringVar(&cfg.LightCurveDir, "lc-dir", "", "Directory of light-curve CSV files")
	flag.StringVar(&cfg.OutputPath, "out", "results.csv", "Output results CSV path")
	flag.StringVar(&cfg.TuningPath, "config", "", "Tuning config JSON (defaults applied when empty)")
	flag.StringVar(&cfg.DBPath, "db", "", "SQLite archive path (skipped when empty)")
	flag.StringVar(&cfg.MigrationsDir, "migrations", "migrations", "Migrations directory for the archive")

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

func archiveBatch(cfg Config, batch *rotation.BatchResult) error {
	db, err := rotationdb.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.MigrateUp(cfg.MigrationsDir); err != nil {
		return err
	}
	return db.RecordBatch(batch)
}

func printSummary(batch *rotation.BatchResult) {
	log.Printf("Run %s finished in %s", batch.RunID, batch.Duration.Round(time.Millisecond))
	log.Printf("  measured: %d", len(batch.Results))
	log.Printf("  quiet:    %d", batch.Quiet)
	log.Printf("  skipped:  %d", len(batch.Skipped))
	for flag, n := range batch.FlagCounts {
		log.Printf("  %-22s %d", flag.String()+":", n)
	}
}
