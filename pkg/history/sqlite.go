package history

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver
)

// SQLiteStore persists run records in a SQLite database. It uses a
// write-ahead log for concurrent read performance and keeps its
// statements prepared across runs.
type SQLiteStore struct {
	db        *sql.DB
	mu        sync.Mutex
	closeOnce sync.Once

	saveStmt *sql.Stmt
	listStmt *sql.Stmt
}

const sqliteBusyTimeout = 5 * time.Second

// NewSQLiteStore opens (and if needed creates) the database at path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite path cannot be empty")
	}

	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_busy_timeout=%d&_synchronous=NORMAL",
		path, int(sqliteBusyTimeout.Milliseconds()))
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	// SQLite only supports a single writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	s := &SQLiteStore{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize history schema: %w", err)
	}
	if err := s.prepareStatements(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to prepare history statements: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		started_at INTEGER NOT NULL,
		finished_at INTEGER NOT NULL,
		dry_run INTEGER NOT NULL,
		budget_bytes INTEGER NOT NULL,
		candidate_bytes INTEGER NOT NULL,
		planned INTEGER NOT NULL,
		deleted INTEGER NOT NULL,
		failed INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);
	`

	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteStore) prepareStatements() error {
	var err error

	s.saveStmt, err = s.db.Prepare(`
		INSERT INTO runs (id, started_at, finished_at, dry_run, budget_bytes, candidate_bytes, planned, deleted, failed)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare save statement: %w", err)
	}

	s.listStmt, err = s.db.Prepare(`
		SELECT id, started_at, finished_at, dry_run, budget_bytes, candidate_bytes, planned, deleted, failed
		FROM runs
		ORDER BY started_at DESC
		LIMIT ?
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare list statement: %w", err)
	}

	return nil
}

// SaveRun persists one run record.
func (s *SQLiteStore) SaveRun(ctx context.Context, rec RunRecord) error {
	if rec.ID == uuid.Nil {
		return fmt.Errorf("run record needs an ID")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.saveStmt.ExecContext(ctx,
		rec.ID.String(),
		rec.StartedAt.UnixMilli(),
		rec.FinishedAt.UnixMilli(),
		boolToInt(rec.DryRun),
		rec.BudgetBytes,
		rec.CandidateBytes,
		rec.Planned,
		rec.Deleted,
		rec.Failed,
	)
	if err != nil {
		return fmt.Errorf("failed to save run record: %w", err)
	}
	return nil
}

// ListRuns returns the most recent runs, newest first.
func (s *SQLiteStore) ListRuns(ctx context.Context, limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = -1 // SQLite treats a negative LIMIT as unbounded
	}

	rows, err := s.listStmt.QueryContext(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list run records: %w", err)
	}
	defer rows.Close()

	var records []RunRecord
	for rows.Next() {
		var (
			id         string
			startedAt  int64
			finishedAt int64
			dryRun     int
		)
		var rec RunRecord
		if err := rows.Scan(&id, &startedAt, &finishedAt, &dryRun,
			&rec.BudgetBytes, &rec.CandidateBytes,
			&rec.Planned, &rec.Deleted, &rec.Failed); err != nil {
			return nil, fmt.Errorf("failed to scan run record: %w", err)
		}
		rec.ID, err = uuid.Parse(id)
		if err != nil {
			return nil, fmt.Errorf("corrupt run id %q: %w", id, err)
		}
		rec.StartedAt = time.UnixMilli(startedAt).UTC()
		rec.FinishedAt = time.UnixMilli(finishedAt).UTC()
		rec.DryRun = dryRun != 0
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Close closes the prepared statements and the database.
func (s *SQLiteStore) Close() error {
	var err error
	s.closeOnce.Do(func() {
		if s.saveStmt != nil {
			s.saveStmt.Close()
		}
		if s.listStmt != nil {
			s.listStmt.Close()
		}
		err = s.db.Close()
	})
	return err
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
