// Package history provides SQLite-backed storage for past run records.
//
// One row per run, keyed by the content-addressed record hash so the
// same record is never stored twice (idempotent inserts). Reads come
// back in a deterministic order: created_at, then hash COLLATE BINARY.
//
// Database configuration:
//   - WAL mode: concurrent reads during writes
//   - synchronous=NORMAL: balance durability/performance
//   - busy_timeout=5000: wait for locks up to 5 seconds
//   - foreign_keys=ON
package history

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// Store provides durable storage for run history.
type Store struct {
	db *sql.DB
}

// Open creates or opens a SQLite database at the given path, applying
// required pragmas and the schema. Idempotent - safe to call on an
// existing database.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite supports one writer at a time; a single connection avoids
	// SQLITE_BUSY errors.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}

	return nil
}

// Run is one recorded execution.
type Run struct {
	// Hash is the content-addressed record identity (primary key).
	Hash string

	// Backend is the backend that executed the circuit.
	Backend string

	// Shots and Seed reproduce the execution.
	Shots int
	Seed  int64

	// Status is the terminal job state reported by the backend.
	Status string

	// Record is the canonical JSON serialization of the output record.
	Record string

	// CreatedAt is a unix timestamp, informational only - ordering
	// ties are broken by hash.
	CreatedAt int64
}

// Insert records a run. Uses ON CONFLICT(hash) DO NOTHING for
// idempotency: re-recording an identical record is a no-op. Returns
// whether a new row was inserted.
func (s *Store) Insert(ctx context.Context, run Run) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (hash, backend, shots, seed, status, record, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(hash) DO NOTHING
	`,
		run.Hash,
		run.Backend,
		run.Shots,
		run.Seed,
		run.Status,
		run.Record,
		run.CreatedAt,
	)
	if err != nil {
		return false, fmt.Errorf("insert run: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("insert run: %w", err)
	}
	return n > 0, nil
}

// List returns all recorded runs with deterministic ordering.
func (s *Store) List(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT hash, backend, shots, seed, status, record, created_at
		FROM runs
		ORDER BY created_at ASC, hash COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		if err := rows.Scan(&run.Hash, &run.Backend, &run.Shots, &run.Seed, &run.Status, &run.Record, &run.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}

	if runs == nil {
		runs = []Run{}
	}
	return runs, nil
}

// Get returns the run with the given record hash.
func (s *Store) Get(ctx context.Context, hash string) (Run, error) {
	var run Run
	err := s.db.QueryRowContext(ctx, `
		SELECT hash, backend, shots, seed, status, record, created_at
		FROM runs
		WHERE hash = ?
	`, hash).Scan(&run.Hash, &run.Backend, &run.Shots, &run.Seed, &run.Status, &run.Record, &run.CreatedAt)
	if err != nil {
		return Run{}, fmt.Errorf("get run %s: %w", hash, err)
	}
	return run, nil
}
