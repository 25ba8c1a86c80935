package recorder

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/rpgo/fincalc/internal/calculation"
	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists runs to a SQLite database.
type SQLiteRecorder struct {
	db     *sql.DB
	mu     sync.Mutex
	logger calculation.Logger
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string, logger calculation.Logger) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db, logger: orNop(logger)}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	r.logger.Infof("sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id                TEXT PRIMARY KEY,
			created_at        INTEGER NOT NULL,
			name              TEXT NOT NULL,
			kind              TEXT NOT NULL,
			query             TEXT NOT NULL,
			final_balance     TEXT NOT NULL,
			total_contributed TEXT NOT NULL,
			total_growth      TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at)`,
	}
	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordRun(ctx context.Context, run *Run) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.ExecContext(ctx, `INSERT INTO runs
		(id, created_at, name, kind, query, final_balance, total_contributed, total_growth)
		VALUES (?,?,?,?,?,?,?,?)`,
		run.ID.String(), run.CreatedAt.UnixNano(), run.Name, string(run.Kind), run.Query,
		run.FinalBalance.String(), run.TotalContributed.String(), run.TotalGrowth.String(),
	)
	return err
}

// Runs returns the most recent runs first.
func (r *SQLiteRecorder) Runs(ctx context.Context, limit int) ([]Run, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, created_at, name, kind, query, final_balance, total_contributed, total_growth
		FROM runs ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			run                          Run
			created                      int64
			kind, final, contrib, growth string
		)
		if err := rows.Scan(&run.ID, &created, &run.Name, &kind, &run.Query, &final, &contrib, &growth); err != nil {
			return nil, err
		}
		run.CreatedAt = time.Unix(0, created).UTC()
		if err := fillRun(&run, kind, final, contrib, growth); err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

func (r *SQLiteRecorder) Close() error {
	r.logger.Infof("closing sqlite recorder")
	return r.db.Close()
}
