// Package store persists segmentation run results to a SQLite database so
// parameter sweeps can be compared after the fact
package store

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// Store is a SQLite database holding segmentation runs, their per frame
// statistics and ground truth evaluations
type Store struct {
	db   *sql.DB
	path string
}

// New opens the database at the given path, creating it and its schema when
// missing
func New(dbPath string) (*Store, error) {

	db, err := sql.Open("sqlite", dbPath)

	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// runMigrations executes all database migrations
func (s *Store) runMigrations() error {

	migrations := []string{
		// runs table, one row per segmentation run with its parameters
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			sequence TEXT NOT NULL,
			sample_count INTEGER NOT NULL,
			radius INTEGER NOT NULL,
			min_matches INTEGER NOT NULL,
			subsample_factor INTEGER NOT NULL,
			training_frames INTEGER NOT NULL,
			seed INTEGER NOT NULL,
			started_at DATETIME NOT NULL,
			finished_at DATETIME
		)`,

		// per frame segmentation statistics
		`CREATE TABLE IF NOT EXISTS frame_stats (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			frame_index INTEGER NOT NULL,
			foreground_px INTEGER NOT NULL,
			foreground_ratio REAL NOT NULL,
			region_count INTEGER NOT NULL DEFAULT 0
		)`,

		// ground truth evaluation results, one row per evaluated mask
		`CREATE TABLE IF NOT EXISTS evaluations (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			frame_index INTEGER NOT NULL,
			true_positive INTEGER NOT NULL,
			false_positive INTEGER NOT NULL,
			true_negative INTEGER NOT NULL,
			false_negative INTEGER NOT NULL,
			precision REAL NOT NULL,
			recall REAL NOT NULL,
			specificity REAL NOT NULL,
			f_measure REAL NOT NULL,
			accuracy REAL NOT NULL
		)`,

		`CREATE INDEX IF NOT EXISTS idx_frame_stats_run
			ON frame_stats(run_id, frame_index)`,
	}

	for i, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i, err)
		}
	}

	return nil
}
