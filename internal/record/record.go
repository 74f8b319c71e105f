// Package record stores headless run summaries in a SQLite database.
package record

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// RunSummary is one completed headless run.
type RunSummary struct {
	ID           string    `db:"id"`
	CreatedAt    time.Time `db:"created_at"`
	Seed         int64     `db:"seed"`
	Ticks        int       `db:"ticks"`
	Roads        int       `db:"roads"`
	Buildings    int       `db:"buildings"`
	Ignited      int       `db:"ignited"`
	Extinguished int       `db:"extinguished"`
	Destroyed    int       `db:"destroyed"`
	Score        int       `db:"score"`
}

// DB wraps a SQLite connection for run summary storage.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		created_at TIMESTAMP NOT NULL,
		seed INTEGER NOT NULL,
		ticks INTEGER NOT NULL,
		roads INTEGER NOT NULL,
		buildings INTEGER NOT NULL,
		ignited INTEGER NOT NULL,
		extinguished INTEGER NOT NULL,
		destroyed INTEGER NOT NULL,
		score INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_seed ON runs(seed);
	CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// Insert stores a run summary. An empty ID or zero CreatedAt is filled in.
func (db *DB) Insert(r *RunSummary) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}

	_, err := db.conn.Exec(`INSERT INTO runs
		(id, created_at, seed, ticks, roads, buildings,
		 ignited, extinguished, destroyed, score)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.CreatedAt, r.Seed, r.Ticks, r.Roads, r.Buildings,
		r.Ignited, r.Extinguished, r.Destroyed, r.Score,
	)
	if err != nil {
		return fmt.Errorf("insert run %s: %w", r.ID, err)
	}
	return nil
}

// ListRecent returns the most recent N runs, newest first.
func (db *DB) ListRecent(limit int) ([]RunSummary, error) {
	var runs []RunSummary
	err := db.conn.Select(&runs,
		`SELECT id, created_at, seed, ticks, roads, buildings,
		        ignited, extinguished, destroyed, score
		 FROM runs ORDER BY created_at DESC, id DESC LIMIT ?`,
		limit,
	)
	return runs, err
}

// BySeed returns all runs recorded for a given seed, newest first.
func (db *DB) BySeed(seed int64) ([]RunSummary, error) {
	var runs []RunSummary
	err := db.conn.Select(&runs,
		`SELECT id, created_at, seed, ticks, roads, buildings,
		        ignited, extinguished, destroyed, score
		 FROM runs WHERE seed = ? ORDER BY created_at DESC, id DESC`,
		seed,
	)
	return runs, err
}
