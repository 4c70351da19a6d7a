// Package rotationdb persists analysis runs, per-star rotation results, and
// the planet-host table in SQLite, so repeated batches accumulate into one
// queryable archive.
package rotationdb

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// DB wraps the SQLite handle with the rotation-archive operations.
type DB struct {
	*sql.DB
}

// Open opens (or creates) the archive at path. The schema is managed by
// migrations; callers that expect tables must run MigrateUp first.
func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open archive %s: %w", path, err)
	}

	// SQLite allows one writer; the pipeline writes in a single goroutine
	// but the busy timeout keeps concurrent readers from erroring out.
	if _, err := db.Exec(`PRAGMA busy_timeout = 5000; PRAGMA foreign_keys = ON;`); err != nil {
		db.Close()
		return nil, fmt.Errorf("set pragmas: %w", err)
	}

	return &DB{db}, nil
}
