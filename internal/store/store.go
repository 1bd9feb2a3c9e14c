// Package store keeps a run history in SQLite: one row per generation or
// translation run, one row per LLM request made during it. The pipeline
// itself resumes from output files on disk; the store is bookkeeping for
// cost and failure analysis.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"
	_ "modernc.org/sqlite"
)

// Run kinds.
const (
	KindGeneration  = "generation"
	KindTranslation = "translation"
)

// Run statuses.
const (
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

type Store struct {
	db *sql.DB
}

func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}

	return s, nil
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		kind TEXT NOT NULL,
		source TEXT NOT NULL,
		language TEXT NOT NULL,
		model TEXT NOT NULL,
		status TEXT DEFAULT 'running',
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		finished_at TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS run_requests (
		run_id TEXT NOT NULL,
		item_key TEXT NOT NULL,
		latency_ms INTEGER,
		error TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (run_id, item_key),
		FOREIGN KEY (run_id) REFERENCES runs(id)
	);

	CREATE INDEX IF NOT EXISTS idx_requests_run ON run_requests(run_id);
	CREATE INDEX IF NOT EXISTS idx_runs_kind ON runs(kind);
	`

	_, err := s.db.Exec(schema)
	return err
}

// StartRun records the beginning of a batch and returns its ID.
// source names the dataset or file the batch operates on.
func (s *Store) StartRun(ctx context.Context, kind, source, language, model string) (string, error) {
	id := uuid.New().String()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, kind, source, language, model) VALUES (?, ?, ?, ?, ?)`,
		id, kind, source, language, model)
	return id, err
}

// FinishRun marks a run completed or failed.
func (s *Store) FinishRun(ctx context.Context, runID, status string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE runs SET status = ?, finished_at = ? WHERE id = ?`,
		status, time.Now(), runID)
	return err
}

// LogRequest records the outcome of one LLM request within a run. errMsg is
// empty on success.
func (s *Store) LogRequest(ctx context.Context, runID, itemKey string, latency time.Duration, errMsg string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO run_requests (run_id, item_key, latency_ms, error) VALUES (?, ?, ?, ?)`,
		runID, normalizeKey(itemKey), latency.Milliseconds(), errMsg)
	return err
}

// RunEntry is a row from the runs table plus its request tallies.
type RunEntry struct {
	ID        string
	Kind      string
	Source    string
	Language  string
	Model     string
	Status    string
	Requests  int
	Failed    int
	CreatedAt time.Time
}

// ListRuns returns recorded runs, most recent first.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]RunEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT r.id, r.kind, r.source, r.language, r.model, r.status,
			COUNT(q.run_id),
			COALESCE(SUM(CASE WHEN q.error != '' THEN 1 ELSE 0 END), 0),
			r.created_at
		FROM runs r
		LEFT JOIN run_requests q ON q.run_id = r.id
		GROUP BY r.id
		ORDER BY r.created_at DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []RunEntry
	for rows.Next() {
		var e RunEntry
		if err := rows.Scan(&e.ID, &e.Kind, &e.Source, &e.Language, &e.Model, &e.Status,
			&e.Requests, &e.Failed, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Stats summarises all recorded activity.
type Stats struct {
	TotalRuns      int
	CompletedRuns  int
	FailedRuns     int
	TotalRequests  int
	FailedRequests int
	AvgLatencyMs   int
}

// Stats returns aggregate counters across every run.
func (s *Store) Stats(ctx context.Context) (*Stats, error) {
	stats := &Stats{}

	err := s.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN status = 'completed' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status = 'failed' THEN 1 ELSE 0 END), 0)
		FROM runs`).Scan(&stats.TotalRuns, &stats.CompletedRuns, &stats.FailedRuns)
	if err != nil {
		return nil, err
	}

	err = s.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN error != '' THEN 1 ELSE 0 END), 0),
			CAST(COALESCE(AVG(latency_ms), 0) AS INTEGER)
		FROM run_requests`).Scan(&stats.TotalRequests, &stats.FailedRequests, &stats.AvgLatencyMs)
	if err != nil {
		return nil, err
	}

	return stats, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// normalizeKey trims whitespace and applies Unicode NFC normalization so the
// same item key always maps to the same row.
func normalizeKey(key string) string {
	return norm.NFC.String(strings.TrimSpace(key))
}
