// Package store persists mastery records and the append-only event
// history. It speaks to SQLite (the default, a single local file) or
// Postgres through the same sqlx repositories; the schema below is the
// portable subset both accept.
package store

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/jmoiron/sqlx"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"

	// Postgres driver.
	_ "github.com/lib/pq"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

var bindOnce sync.Once

// Store holds the database handle and provides access to repositories.
type Store struct {
	db     *sqlx.DB
	driver string
	seq    *sequenceCounter
}

// Open connects to the database named by driver and dsn, applies
// driver tuning, and runs migration. driver is DriverSQLite or
// DriverPostgres.
func Open(driver, dsn string) (*Store, error) {
	// sqlx doesn't know the modernc driver name out of the box.
	bindOnce.Do(func() { sqlx.BindDriver(DriverSQLite, sqlx.QUESTION) })

	switch driver {
	case DriverSQLite, DriverPostgres:
	default:
		return nil, fmt.Errorf("unsupported driver %q", driver)
	}

	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if driver == DriverSQLite {
		if err := applyPragmas(db); err != nil {
			db.Close()
			return nil, fmt.Errorf("apply pragmas: %w", err)
		}
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	seq, err := newSequenceCounter(db)
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db, driver: driver, seq: seq}, nil
}

// DB returns the underlying handle for raw queries.
func (s *Store) DB() *sqlx.DB {
	return s.db
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// MasteryRepo returns the tile record repository backed by this store.
func (s *Store) MasteryRepo() *MasteryRepo {
	return &MasteryRepo{db: s.db}
}

// Events returns the append-only event log backed by this store.
func (s *Store) Events() *EventLog {
	return &EventLog{db: s.db, seq: s.seq}
}

// applyPragmas configures SQLite for single-user local use.
func applyPragmas(db *sqlx.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

// migrate creates the schema. Timestamps are RFC 3339 TEXT so the same
// statements run on both backends.
func migrate(db *sqlx.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS mastery_tiles (
			learner_id          TEXT NOT NULL,
			tile_id             TEXT NOT NULL,
			last_reviewed_at    TEXT NOT NULL,
			interval_days       INTEGER NOT NULL,
			ease_factor         REAL NOT NULL,
			consecutive_correct INTEGER NOT NULL,
			state               TEXT NOT NULL,
			version             BIGINT NOT NULL,
			PRIMARY KEY (learner_id, tile_id)
		)`,
		`CREATE TABLE IF NOT EXISTS events (
			seq        BIGINT PRIMARY KEY,
			event_id   TEXT NOT NULL UNIQUE,
			event_type TEXT NOT NULL,
			learner_id TEXT NOT NULL,
			tile_id    TEXT NOT NULL,
			payload    TEXT NOT NULL,
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS events_learner_type
			ON events (learner_id, event_type)`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
	}
	return nil
}

// DefaultDBPath resolves the SQLite file path in priority order:
// 1. FOGMAP_DB environment variable
// 2. $XDG_DATA_HOME/fogmap/fogmap.db
// 3. ~/.local/share/fogmap/fogmap.db
func DefaultDBPath() (string, error) {
	if p := os.Getenv("FOGMAP_DB"); p != "" {
		return p, EnsureDir(p)
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	p := filepath.Join(dataHome, "fogmap", "fogmap.db")
	return p, EnsureDir(p)
}

// EnsureDir creates the parent directory of path if it doesn't exist.
func EnsureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0o755)
}
