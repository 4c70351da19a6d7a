package rotationdb

import (
	"database/sql"
	"fmt"

	"github.com/stellar-data/rotation.report/internal/catalog"
	"github.com/stellar-data/rotation.report/internal/rotation"
)

// RecordBatch stores a completed pipeline run and all of its results in one
// transaction.
func (db *DB) RecordBatch(batch *rotation.BatchResult) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin batch insert: %w", err)
	}
	defer tx.Rollback()

	kind := batch.Kind
	if kind == "" {
		kind = "batch"
	}
	_, err = tx.Exec(`
		INSERT INTO analysis_runs (run_id, kind, params, started_at, duration_ms, measured, quiet, skipped)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		batch.RunID, kind, batch.ParamsJSON, batch.StartedAt.UTC(),
		batch.Duration.Milliseconds(), len(batch.Results), batch.Quiet, len(batch.Skipped))
	if err != nil {
		return fmt.Errorf("insert run %s: %w", batch.RunID, err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO rotation_results
			(run_id, tic_id, teff, logg, tmag, ls_period, ls_power, ls_fap,
			 acf_period, final_period, flag, variability)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare result insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range batch.Results {
		acfPeriod := sql.NullFloat64{Float64: r.ACFPeriodDays, Valid: r.ACFPeriodDays > 0}
		_, err := stmt.Exec(batch.RunID, r.TICID, r.Teff, r.Logg, r.Tmag,
			r.LSPeriodDays, r.LSPower, r.LSFAP, acfPeriod,
			r.FinalPeriod, r.Flag.String(), r.Variability)
		if err != nil {
			return fmt.Errorf("insert result for TIC %d: %w", r.TICID, err)
		}
	}

	return tx.Commit()
}

// ResultsForRun returns the stored results of one run, ordered by TIC.
func (db *DB) ResultsForRun(runID string) ([]rotation.Result, error) {
	rows, err := db.Query(`
		SELECT tic_id, teff, logg, tmag, ls_period, ls_power, ls_fap,
		       acf_period, final_period, flag, variability
		FROM rotation_results
		WHERE run_id = ?
		ORDER BY tic_id`, runID)
	if err != nil {
		return nil, fmt.Errorf("query results for run %s: %w", runID, err)
	}
	defer rows.Close()
	return scanResults(rows)
}

// LatestResults returns the results of the most recent run, or an empty
// slice when the archive is empty.
func (db *DB) LatestResults() ([]rotation.Result, error) {
	var runID string
	err := db.QueryRow(`
		SELECT run_id FROM analysis_runs
		ORDER BY started_at DESC LIMIT 1`).Scan(&runID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find latest run: %w", err)
	}
	return db.ResultsForRun(runID)
}

func scanResults(rows *sql.Rows) ([]rotation.Result, error) {
	var results []rotation.Result
	for rows.Next() {
		var r rotation.Result
		var acfPeriod sql.NullFloat64
		var flag string
		err := rows.Scan(&r.TICID, &r.Teff, &r.Logg, &r.Tmag,
			&r.LSPeriodDays, &r.LSPower, &r.LSFAP,
			&acfPeriod, &r.FinalPeriod, &flag, &r.Variability)
		if err != nil {
			return nil, fmt.Errorf("scan result row: %w", err)
		}
		if acfPeriod.Valid {
			r.ACFPeriodDays = acfPeriod.Float64
		}
		r.Flag, err = rotation.ParseFlag(flag)
		if err != nil {
			return nil, fmt.Errorf("stored flag: %w", err)
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

// RunInfo is one row of the run log.
type RunInfo struct {
	RunID    string
	Kind     string
	Measured int
	Quiet    int
	Skipped  int
}

// ListRuns returns the run log, newest first.
func (db *DB) ListRuns() ([]RunInfo, error) {
	rows, err := db.Query(`
		SELECT run_id, kind, measured, quiet, skipped
		FROM analysis_runs
		ORDER BY started_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []RunInfo
	for rows.Next() {
		var ri RunInfo
		if err := rows.Scan(&ri.RunID, &ri.Kind, &ri.Measured, &ri.Quiet, &ri.Skipped); err != nil {
			return nil, fmt.Errorf("scan run row: %w", err)
		}
		runs = append(runs, ri)
	}
	return runs, rows.Err()
}

// UpsertStars stores or refreshes the sample stars.
func (db *DB) UpsertStars(stars []catalog.Star) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin star upsert: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO stars (tic_id, teff, logg, tmag, sector)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(tic_id) DO UPDATE SET
			teff = excluded.teff,
			logg = excluded.logg,
			tmag = excluded.tmag,
			sector = excluded.sector`)
	if err != nil {
		return fmt.Errorf("prepare star upsert: %w", err)
	}
	defer stmt.Close()

	for _, s := range stars {
		if _, err := stmt.Exec(s.TICID, s.Teff, s.Logg, s.Tmag, s.Sector); err != nil {
			return fmt.Errorf("upsert star TIC %d: %w", s.TICID, err)
		}
	}
	return tx.Commit()
}

// SampleStars returns the stored sample, brightest first.
func (db *DB) SampleStars() ([]catalog.Star, error) {
	rows, err := db.Query(`
		SELECT tic_id, teff, logg, tmag, sector
		FROM stars ORDER BY tmag`)
	if err != nil {
		return nil, fmt.Errorf("query stars: %w", err)
	}
	defer rows.Close()

	var stars []catalog.Star
	for rows.Next() {
		var s catalog.Star
		if err := rows.Scan(&s.TICID, &s.Teff, &s.Logg, &s.Tmag, &s.Sector); err != nil {
			return nil, fmt.Errorf("scan star row: %w", err)
		}
		stars = append(stars, s)
	}
	return stars, rows.Err()
}

// FlagCounts tallies stored results by decision flag for one run.
func (db *DB) FlagCounts(runID string) (map[rotation.Flag]int, error) {
	rows, err := db.Query(`
		SELECT flag, COUNT(*) FROM rotation_results
		WHERE run_id = ?
		GROUP BY flag`, runID)
	if err != nil {
		return nil, fmt.Errorf("query flag counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[rotation.Flag]int)
	for rows.Next() {
		var name string
		var n int
		if err := rows.Scan(&name, &n); err != nil {
			return nil, fmt.Errorf("scan flag count: %w", err)
		}
		flag, err := rotation.ParseFlag(name)
		if err != nil {
			return nil, fmt.Errorf("stored flag: %w", err)
		}
		counts[flag] = n
	}
	return counts, rows.Err()
}

// ReplaceHosts replaces the planet-host table with the given list.
func (db *DB) ReplaceHosts(hosts []catalog.Host) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin host replace: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM planet_hosts`); err != nil {
		return fmt.Errorf("clear planet hosts: %w", err)
	}
	stmt, err := tx.Prepare(`INSERT INTO planet_hosts (tic_id, n_planets) VALUES (?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare host insert: %w", err)
	}
	defer stmt.Close()

	for _, h := range hosts {
		if _, err := stmt.Exec(h.TICID, h.Planets); err != nil {
			return fmt.Errorf("insert host TIC %d: %w", h.TICID, err)
		}
	}
	return tx.Commit()
}

// HostPeriods returns the adopted periods of planet hosts in one run, split
// by multiplicity.
func (db *DB) HostPeriods(runID string) (single, multi []float64, err error) {
	rows, err := db.Query(`
		SELECT r.final_period, h.n_planets
		FROM rotation_results r
		JOIN planet_hosts h ON h.tic_id = r.tic_id
		WHERE r.run_id = ?
		ORDER BY r.tic_id`, runID)
	if err != nil {
		return nil, nil, fmt.Errorf("query host periods: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var period float64
		var planets int
		if err := rows.Scan(&period, &planets); err != nil {
			return nil, nil, fmt.Errorf("scan host period: %w", err)
		}
		if planets >= 2 {
			multi = append(multi, period)
		} else {
			single = append(single, period)
		}
	}
	return single, multi, rows.Err()
}
