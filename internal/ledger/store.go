package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"chipgen/internal/pipeline"
)

// Run statuses.
const (
	StatusRunning   = "running"
	StatusSucceeded = "succeeded"
	StatusFailed    = "failed"
)

// timeLayout has a fixed width so stored timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// ErrRunNotFound is returned when a run id is unknown.
var ErrRunNotFound = errors.New("run not found")

var _ pipeline.Recorder = (*Store)(nil)

// Store persists run history in SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Run is a stored run.
type Run struct {
	ID         string
	Input      string
	Manifest   string
	OutputRoot string
	Total      int
	Status     string
	Error      string
	Rows       int
	StartedAt  time.Time
	FinishedAt time.Time
}

// Open initializes or connects to the ledger database at path and applies migrations.
func Open(ctx context.Context, path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create ledger directory: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// Pragmas are per connection; a single connection keeps them in force.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.ExecContext(ctx, pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.applyMigrations(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Path returns the database location.
func (s *Store) Path() string {
	return s.path
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// BeginRun inserts a running entry for run.
func (s *Store) BeginRun(ctx context.Context, run pipeline.RunInfo) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, input_path, manifest_path, output_root, series_total, status, started_at)
         VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Input, run.Manifest, run.OutputRoot, run.Total, StatusRunning,
		run.StartedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// RecordArtifact stores the digest of one generated file.
func (s *Store) RecordArtifact(ctx context.Context, runID string, artifact pipeline.Artifact) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO artifacts (run_id, row_number, team, filename, path, sha256)
         VALUES (?, ?, ?, ?, ?, ?)`,
		runID, artifact.Row, artifact.Team, artifact.Filename, artifact.Path, artifact.Digest,
	)
	if err != nil {
		return fmt.Errorf("insert artifact: %w", err)
	}
	return nil
}

// FinishRun marks the run succeeded or failed.
func (s *Store) FinishRun(ctx context.Context, runID string, rows int, runErr error) error {
	status := StatusSucceeded
	var message sql.NullString
	if runErr != nil {
		status = StatusFailed
		message = sql.NullString{String: runErr.Error(), Valid: true}
	}
	// The run context may already be cancelled; the outcome must still be stored.
	res, err := s.db.ExecContext(context.WithoutCancel(ctx),
		`UPDATE runs SET status = ?, error_message = ?, rows = ?, finished_at = ? WHERE id = ?`,
		status, message, rows, time.Now().UTC().Format(timeLayout), runID,
	)
	if err != nil {
		return fmt.Errorf("update run: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	return nil
}

// ListRuns returns the most recent runs first. limit <= 0 returns all runs.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	query := `SELECT id, input_path, manifest_path, output_root, series_total, status,
                     error_message, rows, started_at, finished_at
              FROM runs ORDER BY started_at DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Artifacts returns the files recorded for runID in row order.
func (s *Store) Artifacts(ctx context.Context, runID string) ([]pipeline.Artifact, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT row_number, team, filename, path, sha256 FROM artifacts WHERE run_id = ? ORDER BY row_number`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("query artifacts: %w", err)
	}
	defer rows.Close()

	var out []pipeline.Artifact
	for rows.Next() {
		var a pipeline.Artifact
		if err := rows.Scan(&a.Row, &a.Team, &a.Filename, &a.Path, &a.Digest); err != nil {
			return nil, fmt.Errorf("scan artifact: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (Run, error) {
	var (
		run              Run
		errMsg, finished sql.NullString
		started          string
	)
	if err := row.Scan(&run.ID, &run.Input, &run.Manifest, &run.OutputRoot, &run.Total, &run.Status,
		&errMsg, &run.Rows, &started, &finished); err != nil {
		return Run{}, fmt.Errorf("scan run: %w", err)
	}
	run.Error = errMsg.String
	run.StartedAt = parseTime(started)
	if finished.Valid {
		run.FinishedAt = parseTime(finished.String)
	}
	return run, nil
}

func parseTime(value string) time.Time {
	ts, err := time.Parse(timeLayout, value)
	if err != nil {
		return time.Time{}
	}
	return ts
}
