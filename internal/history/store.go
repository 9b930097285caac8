// Package history persists a ledger of past discovery runs so operators can
// audit what was discovered in which input directory and when.
package history

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// Run is one recorded discovery run.
type Run struct {
	ID            int64
	RunID         string
	InputDir      string
	Signature     string
	InputTypes    string
	SampleCount   int
	ExcludedCount int
	Success       bool
	Detail        string
	CreatedAt     time.Time
}

// Store manages the SQLite database holding the discovery-run ledger.
type Store struct {
	db     *sql.DB
	dbPath string
}

// NewStore opens (creating if necessary) the ledger database at dbPath.
// Parent directories are created for file-based databases; ":memory:" is
// supported for tests.
func NewStore(dbPath string) (*Store, error) {
	if dbPath != ":memory:" {
		dir := filepath.Dir(dbPath)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// busy_timeout first so subsequent statements wait on locks held by a
	// concurrent run preparation instead of failing.
	pragmas := []string{
		"PRAGMA busy_timeout=5000",
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("set %s: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return &Store{db: db, dbPath: dbPath}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// RecordRun appends one discovery run to the ledger and returns its row id.
func (s *Store) RecordRun(ctx context.Context, run Run) (int64, error) {
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO discovery_runs
			(run_id, input_dir, signature, input_types, sample_count, excluded_count, success, detail)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.RunID, run.InputDir, run.Signature, run.InputTypes,
		run.SampleCount, run.ExcludedCount, run.Success, run.Detail,
	)
	if err != nil {
		return 0, fmt.Errorf("record run: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("get run id: %w", err)
	}
	return id, nil
}

// RecentRuns returns up to limit runs, newest first.
func (s *Store) RecentRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, run_id, input_dir, signature, input_types,
		       sample_count, excluded_count, success, detail, created_at
		FROM discovery_runs
		ORDER BY id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		if err := rows.Scan(
			&run.ID, &run.RunID, &run.InputDir, &run.Signature, &run.InputTypes,
			&run.SampleCount, &run.ExcludedCount, &run.Success, &run.Detail, &run.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// RunsForInputDir returns all recorded runs for one input directory, newest
// first.
func (s *Store) RunsForInputDir(ctx context.Context, inputDir string) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, run_id, input_dir, signature, input_types,
		       sample_count, excluded_count, success, detail, created_at
		FROM discovery_runs
		WHERE input_dir = ?
		ORDER BY id DESC`, inputDir)
	if err != nil {
		return nil, fmt.Errorf("query runs for %s: %w", inputDir, err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		if err := rows.Scan(
			&run.ID, &run.RunID, &run.InputDir, &run.Signature, &run.InputTypes,
			&run.SampleCount, &run.ExcludedCount, &run.Success, &run.Detail, &run.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}
