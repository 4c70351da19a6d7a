package rotationdb

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stellar-data/rotation.report/internal/catalog"
	"github.com/stellar-data/rotation.report/internal/rotation"
)

const migrationsDir = "../../migrations"

func setupTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err, "open test DB")
	t.Cleanup(func() { db.Close() })

	require.NoError(t, db.MigrateUp(migrationsDir), "MigrateUp")
	return db
}

func testBatch() *rotation.BatchResult {
	return &rotation.BatchResult{
		RunID:     "run-test-1",
		StartedAt: time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC),
		Duration:  90 * time.Second,
		Results: []rotation.Result{
			{
				TICID: 101, Teff: 3300, Logg: 4.8, Tmag: 10.5,
				LSPeriodDays: 3.64, LSPower: 400, LSFAP: 0.005,
				ACFPeriodDays: 3.67, FinalPeriod: 3.64,
				Flag: rotation.FlagMatch, Variability: 0.007,
			},
			{
				TICID: 102, Teff: 3600, Logg: 4.6, Tmag: 11.1,
				LSPeriodDays: 5.0, LSPower: 300, LSFAP: 0.005,
				ACFPeriodDays: 10.0, FinalPeriod: 10.0,
				Flag: rotation.FlagHarmonicCorrected, Variability: 0.004,
			},
			{
				TICID: 103, Teff: 3100, Logg: 4.9, Tmag: 12.0,
				LSPeriodDays: 2.2, LSPower: 150, LSFAP: 0.02,
				ACFPeriodDays: 0, FinalPeriod: 2.2,
				Flag: rotation.FlagLSOnly, Variability: 0.003,
			},
		},
		FlagCounts: map[rotation.Flag]int{
			rotation.FlagMatch:             1,
			rotation.FlagHarmonicCorrected: 1,
			rotation.FlagLSOnly:            1,
		},
		Quiet: 2,
	}
}

func TestMigrateUpDown(t *testing.T) {
	db := setupTestDB(t)

	version, dirty, err := db.MigrateVersion(migrationsDir)
	require.NoError(t, err)
	assert.False(t, dirty, "fresh migration left database dirty")

	latest, err := LatestMigrationVersion(migrationsDir)
	require.NoError(t, err)
	assert.Equal(t, latest, version, "not migrated to the latest version")
	assert.NoError(t, db.CheckSchema(migrationsDir))

	require.NoError(t, db.MigrateDown(migrationsDir))
	assert.Error(t, db.CheckSchema(migrationsDir),
		"CheckSchema should fail after rolling back a migration")
}

func TestRecordBatchAndQuery(t *testing.T) {
	db := setupTestDB(t)
	batch := testBatch()

	require.NoError(t, db.RecordBatch(batch))

	results, err := db.ResultsForRun(batch.RunID)
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, rotation.FlagHarmonicCorrected, results[1].Flag, "flag round trip")
	// A failed ACF is stored as NULL and read back as zero.
	assert.Zero(t, results[2].ACFPeriodDays)

	latest, err := db.LatestResults()
	require.NoError(t, err)
	assert.Len(t, latest, 3)

	runs, err := db.ListRuns()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, 3, runs[0].Measured)
	assert.Equal(t, 2, runs[0].Quiet)

	counts, err := db.FlagCounts(batch.RunID)
	require.NoError(t, err)
	assert.Equal(t, 1, counts[rotation.FlagMatch])
	assert.Equal(t, 1, counts[rotation.FlagLSOnly])
}

func TestRecordBatch_DuplicateRunRejected(t *testing.T) {
	db := setupTestDB(t)
	batch := testBatch()

	require.NoError(t, db.RecordBatch(batch))
	assert.Error(t, db.RecordBatch(batch), "duplicate run ID should be rejected")

	// The failed transaction must not leave partial rows behind.
	results, err := db.ResultsForRun(batch.RunID)
	require.NoError(t, err)
	assert.Len(t, results, 3)
}

func TestHostPeriods(t *testing.T) {
	db := setupTestDB(t)
	batch := testBatch()
	require.NoError(t, db.RecordBatch(batch))

	hosts := []catalog.Host{
		{TICID: 101, Planets: 1},
		{TICID: 102, Planets: 3},
		{TICID: 999, Planets: 2}, // not in the results
	}
	require.NoError(t, db.ReplaceHosts(hosts))

	single, multi, err := db.HostPeriods(batch.RunID)
	require.NoError(t, err)
	assert.Equal(t, []float64{3.64}, single)
	assert.Equal(t, []float64{10.0}, multi)

	// Replacing again with a smaller list fully clears the old rows.
	require.NoError(t, db.ReplaceHosts(hosts[:1]))
	_, multi, err = db.HostPeriods(batch.RunID)
	require.NoError(t, err)
	assert.Empty(t, multi, "stale multi-host rows survived replace")
}

func TestUpsertStars(t *testing.T) {
	db := setupTestDB(t)

	stars := []catalog.Star{
		{TICID: 101, Teff: 3300, Logg: 4.8, Tmag: 10.5, Sector: 18},
		{TICID: 102, Teff: 3600, Logg: 4.6, Tmag: 11.1, Sector: 18},
	}
	require.NoError(t, db.UpsertStars(stars))

	// Re-upserting with revised values updates in place.
	stars[1].Tmag = 9.9
	require.NoError(t, db.UpsertStars(stars[1:]))

	stored, err := db.SampleStars()
	require.NoError(t, err)
	require.Len(t, stored, 2)
	// Brightest (lowest Tmag) first.
	assert.Equal(t, int64(102), stored[0].TICID)
	assert.Equal(t, 9.9, stored[0].Tmag)
	assert.Equal(t, 18, stored[1].Sector)
}

func TestLatestResults_EmptyArchive(t *testing.T) {
	db := setupTestDB(t)
	results, err := db.LatestResults()
	require.NoError(t, err)
	assert.Nil(t, results)
}
