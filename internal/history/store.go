package history

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"visionforge/internal/config"
	"visionforge/internal/render"
)

// Job is one recorded render attempt.
type Job struct {
	ID         int64
	InputPath  string
	OutputPath string
	Status     string
	Progress   int
	Error      string
	StartedAt  time.Time
	FinishedAt time.Time
}

// Store keeps a durable journal of render jobs backed by SQLite. The live
// render state stays volatile; the journal only records outcomes for
// inspection after the fact.
type Store struct {
	db   *sql.DB
	path string
}

const schema = `
CREATE TABLE IF NOT EXISTS render_jobs (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    input_path TEXT NOT NULL,
    output_path TEXT NOT NULL,
    status TEXT NOT NULL,
    progress INTEGER NOT NULL DEFAULT 0,
    error TEXT NOT NULL DEFAULT '',
    started_at TEXT NOT NULL,
    finished_at TEXT NOT NULL DEFAULT ''
);
`

// Open initializes or connects to the history database under the log
// directory.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := filepath.Join(cfg.Paths.LogDir, "history.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &Store{db: db, path: dbPath}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// RecordStart inserts a new in-flight job row and returns its id.
func (s *Store) RecordStart(ctx context.Context, inputPath, outputPath string) (int64, error) {
	timestamp := time.Now().UTC().Format(time.RFC3339Nano)
	res, err := s.db.ExecContext(
		ctx,
		`INSERT INTO render_jobs (input_path, output_path, status, started_at) VALUES (?, ?, ?, ?)`,
		inputPath,
		outputPath,
		string(render.StatusRendering),
		timestamp,
	)
	if err != nil {
		return 0, fmt.Errorf("insert render job: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}
	return id, nil
}

// RecordFinish stamps the terminal state onto an in-flight job row.
func (s *Store) RecordFinish(ctx context.Context, id int64, state render.State) error {
	timestamp := time.Now().UTC().Format(time.RFC3339Nano)
	_, err := s.db.ExecContext(
		ctx,
		`UPDATE render_jobs SET status = ?, progress = ?, error = ?, finished_at = ? WHERE id = ?`,
		string(state.Status),
		state.Progress,
		state.Error,
		timestamp,
		id,
	)
	if err != nil {
		return fmt.Errorf("update render job %d: %w", id, err)
	}
	return nil
}

// List returns the most recent jobs, newest first.
func (s *Store) List(ctx context.Context, limit int) ([]Job, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT id, input_path, output_path, status, progress, error, started_at, finished_at
         FROM render_jobs ORDER BY id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list render jobs: %w", err)
	}
	defer rows.Close()

	var jobs []Job
	for rows.Next() {
		var (
			job        Job
			startedAt  string
			finishedAt string
		)
		if err := rows.Scan(&job.ID, &job.InputPath, &job.OutputPath, &job.Status, &job.Progress, &job.Error, &startedAt, &finishedAt); err != nil {
			return nil, fmt.Errorf("scan render job: %w", err)
		}
		job.StartedAt = parseTimestamp(startedAt)
		job.FinishedAt = parseTimestamp(finishedAt)
		jobs = append(jobs, job)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate render jobs: %w", err)
	}
	return jobs, nil
}

func parseTimestamp(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	parsed, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}
	}
	return parsed
}

var _ render.Journal = (*Store)(nil)
