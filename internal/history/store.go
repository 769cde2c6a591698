package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// Kind names the command that produced a run.
type Kind string

const (
	KindSync  Kind = "sync"
	KindAudio Kind = "audio"
)

// Outcome summarizes how a run ended.
type Outcome string

const (
	OutcomeOK      Outcome = "ok"
	OutcomeNoop    Outcome = "noop"
	OutcomeAborted Outcome = "aborted"
	OutcomeFailed  Outcome = "failed"
)

// Run is one recorded sync or audio invocation.
type Run struct {
	ID           string
	Kind         Kind
	Outcome      Outcome
	DryRun       bool
	StartedAt    time.Time
	FinishedAt   time.Time
	FeedItems    int
	Added        int
	Skipped      int
	Warnings     int
	Downloaded   int
	FilesWritten int
	Message      string
}

// Duration returns how long the run took.
func (r Run) Duration() time.Duration {
	if r.FinishedAt.Before(r.StartedAt) {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// Store persists run history in SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the history database at path.
func Open(path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("history database path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure history directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
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

	store := &Store{db: db, path: path}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Path returns the database file location.
func (s *Store) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Record inserts a finished run. Runs are immutable once written.
func (s *Store) Record(ctx context.Context, run Run) error {
	if strings.TrimSpace(run.ID) == "" {
		return errors.New("run id is required")
	}
	if run.Kind == "" {
		return errors.New("run kind is required")
	}
	if run.Outcome == "" {
		run.Outcome = OutcomeOK
	}
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO runs (
            id, kind, outcome, dry_run, started_at, finished_at,
            feed_items, added, skipped, warnings, downloaded, files_written, message
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID,
		string(run.Kind),
		string(run.Outcome),
		boolToInt(run.DryRun),
		unixNanos(run.StartedAt),
		unixNanos(run.FinishedAt),
		run.FeedItems,
		run.Added,
		run.Skipped,
		run.Warnings,
		run.Downloaded,
		run.FilesWritten,
		nullableString(run.Message),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// List returns the most recent runs first. A non-positive limit returns all runs.
func (s *Store) List(ctx context.Context, limit int) ([]Run, error) {
	query := `SELECT id, kind, outcome, dry_run, started_at, finished_at,
        feed_items, added, skipped, warnings, downloaded, files_written, message
        FROM runs ORDER BY started_at DESC, id`
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
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
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (Run, error) {
	var (
		run        Run
		kind       string
		outcome    string
		dryRun     int
		startedAt  int64
		finishedAt int64
		message    sql.NullString
	)
	if err := row.Scan(
		&run.ID,
		&kind,
		&outcome,
		&dryRun,
		&startedAt,
		&finishedAt,
		&run.FeedItems,
		&run.Added,
		&run.Skipped,
		&run.Warnings,
		&run.Downloaded,
		&run.FilesWritten,
		&message,
	); err != nil {
		return Run{}, fmt.Errorf("scan run: %w", err)
	}
	run.Kind = Kind(kind)
	run.Outcome = Outcome(outcome)
	run.DryRun = dryRun != 0
	run.StartedAt = fromUnixNanos(startedAt)
	run.FinishedAt = fromUnixNanos(finishedAt)
	if message.Valid {
		run.Message = message.String
	}
	return run, nil
}

// Times are stored as Unix nanoseconds so ORDER BY is chronological. The
// zero time is stored as 0.
func unixNanos(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixNano()
}

func fromUnixNanos(n int64) time.Time {
	if n == 0 {
		return time.Time{}
	}
	return time.Unix(0, n).UTC()
}

func nullableString(value string) any {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return value
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}
