// Package main administers the rotation archive: schema migrations, the run
// log, planet-host imports, and exporting stored results back to CSV.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/stellar-data/rotation.report/internal/catalog"
	"github.com/stellar-data/rotation.report/internal/rotation"
	"github.com/stellar-data/rotation.report/internal/rotationdb"
)

const usage = `Usage: rotation-db [flags] <command> [args]

Commands:
  migrate up            apply all pending migrations
  migrate down          roll back the most recent migration
  migrate status        print the current schema version
  migrate force <n>     force the schema version (dirty-state recovery)
  runs                  list archived runs
  hosts <hosts.csv>     replace the planet-host table
  export [run-id]       write stored results as CSV to stdout (latest run
                        when no id is given)
`

// Config holds the archive-admin settings.
type Config struct {
	DBPath        string
	MigrationsDir string
}

func main() {
	cfg := Config{}
	flag.StringVar(&cfg.DBPath, "db", "rotation.db", "SQLite archive path")
	flag.StringVar(&cfg.MigrationsDir, "migrations", "migrations", "Migrations directory")
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	db, err := rotationdb.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open archive: %v", err)
	}
	defer db.Close()

	if err := dispatch(db, cfg, args); err != nil {
		log.Fatalf("%v", err)
	}
}

func dispatch(db *rotationdb.DB, cfg Config, args []string) error {
	switch args[0] {
	case "migrate":
		return runMigrate(db, cfg, args[1:])
	case "runs":
		return listRuns(db)
	case "hosts":
		if len(args) < 2 {
			return fmt.Errorf("hosts requires a CSV path")
		}
		return importHosts(db, cfg, args[1])
	case "export":
		runID := ""
		if len(args) > 1 {
			runID = args[1]
		}
		return exportResults(db, runID)
	default:
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func runMigrate(db *rotationdb.DB, cfg Config, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("migrate requires a subcommand: up, down, status, force")
	}
	switch args[0] {
	case "up":
		if err := db.MigrateUp(cfg.MigrationsDir); err != nil {
			return err
		}
		log.Printf("Migrations applied")
		return nil
	case "down":
		if err := db.MigrateDown(cfg.MigrationsDir); err != nil {
			return err
		}
		log.Printf("Rolled back one migration")
		return nil
	case "status":
		version, dirty, err := db.MigrateVersion(cfg.MigrationsDir)
		if err != nil {
			return err
		}
		latest, err := rotationdb.LatestMigrationVersion(cfg.MigrationsDir)
		if err != nil {
			return err
		}
		log.Printf("Schema version: %d (latest %d, dirty=%v)", version, latest, dirty)
		return nil
	case "force":
		if len(args) < 2 {
			return fmt.Errorf("migrate force requires a version")
		}
		version, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("bad version %q", args[1])
		}
		if err := db.MigrateForce(cfg.MigrationsDir, version); err != nil {
			return err
		}
		log.Printf("Schema version forced to %d", version)
		return nil
	default:
		return fmt.Errorf("unknown migrate subcommand %q", args[0])
	}
}

func listRuns(db *rotationdb.DB) error {
	runs, err := db.ListRuns()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		log.Printf("Archive is empty")
		return nil
	}
	for _, r := range runs {
		log.Printf("%s  kind=%s measured=%d quiet=%d skipped=%d",
			r.RunID, r.Kind, r.Measured, r.Quiet, r.Skipped)
	}
	return nil
}

func importHosts(db *rotationdb.DB, cfg Config, path string) error {
	if err := db.CheckSchema(cfg.MigrationsDir); err != nil {
		return err
	}
	hosts, err := catalog.ReadHostsCSVFile(path)
	if err != nil {
		return err
	}
	if err := db.ReplaceHosts(hosts); err != nil {
		return err
	}
	log.Printf("Imported %d planet hosts", len(hosts))
	return nil
}

func exportResults(db *rotationdb.DB, runID string) error {
	var results []rotation.Result
	var err error
	if runID == "" {
		results, err = db.LatestResults()
	} else {
		results, err = db.ResultsForRun(runID)
	}
	if err != nil {
		return err
	}
	if len(results) == 0 {
		return fmt.Errorf("no stored results")
	}
	return rotation.WriteResultsCSV(os.Stdout, results)
}
