package database

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// DB wraps sql.DB with additional methods
type DB struct {
	*sql.DB
}

// New creates a new database connection
func New(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("database open failed: %w", err)
	}

	// Overlapping ticks may write concurrently; a single connection
	// serializes them and keeps the pragmas below in effect.
	db.SetMaxOpenConns(1)

	// Enable WAL mode for better concurrent access
	db.Exec("PRAGMA journal_mode=WAL")
	db.Exec("PRAGMA synchronous=NORMAL")
	db.Exec("PRAGMA foreign_keys=ON")

	return &DB{db}, nil
}

// InitSchema creates all necessary tables
func (db *DB) InitSchema() error {
	schema := `
    CREATE TABLE IF NOT EXISTS results (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        run_id TEXT NOT NULL,
        time DATETIME NOT NULL,
        type TEXT NOT NULL,
        summary TEXT NOT NULL,
        is_successful BOOLEAN NOT NULL,
        data TEXT NOT NULL
    );

    CREATE INDEX IF NOT EXISTS idx_results_time ON results(time);
    CREATE INDEX IF NOT EXISTS idx_results_type_time ON results(type, time);

    -- one row per target of every successful ping fan-out
    CREATE TABLE IF NOT EXISTS ping_samples (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        result_id INTEGER NOT NULL REFERENCES results(id) ON DELETE CASCADE,
        time DATETIME NOT NULL,
        target TEXT NOT NULL,
        alive BOOLEAN NOT NULL,
        rtt_ms REAL,
        packet_loss REAL
    );

    CREATE INDEX IF NOT EXISTS idx_samples_target_time ON ping_samples(target, time);
    `

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("schema creation failed: %w", err)
	}

	return nil
}
