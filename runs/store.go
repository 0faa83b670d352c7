// Package runs keeps a SQLite ledger of pipeline runs and the records that
// failed during each one.
package runs

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// ErrRunNotFound is returned when no run has the requested ID.
var ErrRunNotFound = errors.New("run not found")

// Run statuses.
const (
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// RunStore manages the run ledger using SQLite.
type RunStore struct {
	db *sql.DB
}

// Run is one execution of the scrape pipeline.
type Run struct {
	RunID      uuid.UUID  `json:"run_id"`
	IndexURL   string     `json:"index_url"`
	Status     string     `json:"status"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
	Records    int        `json:"records"`
	Enriched   int        `json:"enriched"`
	Skipped    int        `json:"skipped"`
	Failed     int        `json:"failed"`
	Error      *string    `json:"error,omitempty"`
	Failures   []Failure  `json:"failures,omitempty"`
}

// Failure is a record whose enrichment failed during a run.
type Failure struct {
	Index int    `json:"index"`
	Title string `json:"title"`
	URL   string `json:"url"`
	Error string `json:"error"`
}

// NewRunStore opens (creating if needed) the ledger at dbPath.
func NewRunStore(dbPath string) (*RunStore, error) {
	if dir := filepath.Dir(dbPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create ledger directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &RunStore{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// initSchema creates the ledger tables if they don't exist.
func (s *RunStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		run_id TEXT PRIMARY KEY,
		index_url TEXT NOT NULL,
		status TEXT NOT NULL,
		started_at TEXT NOT NULL,
		finished_at TEXT,
		records INTEGER DEFAULT 0,
		enriched INTEGER DEFAULT 0,
		skipped INTEGER DEFAULT 0,
		failed INTEGER DEFAULT 0,
		error TEXT
	);

	CREATE TABLE IF NOT EXISTS run_failures (
		run_id TEXT NOT NULL REFERENCES runs(run_id),
		record_index INTEGER NOT NULL,
		title TEXT NOT NULL,
		url TEXT NOT NULL,
		error TEXT NOT NULL
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *RunStore) Close() error {
	return s.db.Close()
}

// StartRun records a new run in the running state.
func (s *RunStore) StartRun(indexURL string) (*Run, error) {
	run := &Run{
		RunID:     uuid.New(),
		IndexURL:  indexURL,
		Status:    StatusRunning,
		StartedAt: time.Now(),
	}

	query := `
		INSERT INTO runs (run_id, index_url, status, started_at)
		VALUES (?, ?, ?, ?)
	`

	_, err := s.db.Exec(query,
		run.RunID.String(),
		run.IndexURL,
		run.Status,
		formatTime(&run.StartedAt),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert run: %w", err)
	}

	return run, nil
}

// FinishRun stores the final counts, status and failures of a run. If the
// run has no finish time, the current time is used.
func (s *RunStore) FinishRun(run *Run) error {
	if run.FinishedAt == nil {
		now := time.Now()
		run.FinishedAt = &now
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		UPDATE runs
		SET status = ?, finished_at = ?, records = ?, enriched = ?,
		    skipped = ?, failed = ?, error = ?
		WHERE run_id = ?
	`

	result, err := tx.Exec(query,
		run.Status,
		formatTime(run.FinishedAt),
		run.Records,
		run.Enriched,
		run.Skipped,
		run.Failed,
		run.Error,
		run.RunID.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to update run: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrRunNotFound
	}

	for _, failure := range run.Failures {
		_, err := tx.Exec(
			"INSERT INTO run_failures (run_id, record_index, title, url, error) VALUES (?, ?, ?, ?, ?)",
			run.RunID.String(), failure.Index, failure.Title, failure.URL, failure.Error,
		)
		if err != nil {
			return fmt.Errorf("failed to insert failure: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit run: %w", err)
	}

	return nil
}

// GetRun retrieves a run and its failures by ID.
func (s *RunStore) GetRun(runID uuid.UUID) (*Run, error) {
	query := `
		SELECT run_id, index_url, status, started_at, finished_at,
		       records, enriched, skipped, failed, error
		FROM runs
		WHERE run_id = ?
	`

	run, err := scanRun(s.db.QueryRow(query, runID.String()))
	if err == sql.ErrNoRows {
		return nil, ErrRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query run: %w", err)
	}

	failures, err := s.listFailures(runID)
	if err != nil {
		return nil, err
	}
	run.Failures = failures

	return run, nil
}

// ListRuns returns the most recent runs first, without their failures. A
// limit of zero returns every run.
func (s *RunStore) ListRuns(limit int) ([]Run, error) {
	query := `
		SELECT run_id, index_url, status, started_at, finished_at,
		       records, enriched, skipped, failed, error
		FROM runs
		ORDER BY started_at DESC
	`
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, *run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating runs: %w", err)
	}

	return runs, nil
}

// listFailures returns the failures recorded for a run in record order.
func (s *RunStore) listFailures(runID uuid.UUID) ([]Failure, error) {
	rows, err := s.db.Query(
		"SELECT record_index, title, url, error FROM run_failures WHERE run_id = ? ORDER BY record_index",
		runID.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query failures: %w", err)
	}
	defer rows.Close()

	var failures []Failure
	for rows.Next() {
		var f Failure
		if err := rows.Scan(&f.Index, &f.Title, &f.URL, &f.Error); err != nil {
			return nil, fmt.Errorf("failed to scan failure: %w", err)
		}
		failures = append(failures, f)
	}

	return failures, rows.Err()
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (*Run, error) {
	var run Run
	var runIDStr, startedAtStr string
	var finishedAtStr, errorStr sql.NullString

	err := row.Scan(
		&runIDStr, &run.IndexURL, &run.Status, &startedAtStr, &finishedAtStr,
		&run.Records, &run.Enriched, &run.Skipped, &run.Failed, &errorStr,
	)
	if err != nil {
		return nil, err
	}

	runID, err := uuid.Parse(runIDStr)
	if err != nil {
		return nil, fmt.Errorf("invalid run_id %q: %w", runIDStr, err)
	}
	run.RunID = runID
	run.StartedAt = parseTime(startedAtStr)
	if finishedAtStr.Valid {
		t := parseTime(finishedAtStr.String)
		run.FinishedAt = &t
	}
	if errorStr.Valid {
		run.Error = &errorStr.String
	}

	return &run, nil
}

// timeLayout is fixed width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) time.Time {
	// Try RFC3339Nano first, fall back to RFC3339 for compatibility
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		t, _ = time.Parse(time.RFC3339, s)
	}
	return t.Truncate(0)
}
