package recorder

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rpgo/fincalc/internal/calculation"
	"github.com/rpgo/fincalc/internal/domain"
)

// PostgresRecorder persists runs to PostgreSQL through a pgx pool.
type PostgresRecorder struct {
	pool   *pgxpool.Pool
	logger calculation.Logger
}

// NewPostgresRecorder connects to the database URL and creates the runs table.
func NewPostgresRecorder(ctx context.Context, dbURL string, logger calculation.Logger) (*PostgresRecorder, error) {
	cfg, err := pgxpool.ParseConfig(dbURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	r := &PostgresRecorder{pool: pool, logger: orNop(logger)}
	if err := r.migrate(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	r.logger.Infof("postgres recorder opened: %s", cfg.ConnConfig.Host)
	return r, nil
}

func (r *PostgresRecorder) migrate(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `CREATE TABLE IF NOT EXISTS fincalc_runs (
		id                UUID PRIMARY KEY,
		created_at        TIMESTAMPTZ NOT NULL,
		name              TEXT NOT NULL,
		kind              TEXT NOT NULL,
		query             TEXT NOT NULL,
		final_balance     TEXT NOT NULL,
		total_contributed TEXT NOT NULL,
		total_growth      TEXT NOT NULL
	)`)
	return err
}

func (r *PostgresRecorder) RecordRun(ctx context.Context, run *Run) error {
	_, err := r.pool.Exec(ctx, `INSERT INTO fincalc_runs
		(id, created_at, name, kind, query, final_balance, total_contributed, total_growth)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		run.ID.String(), run.CreatedAt, run.Name, string(run.Kind), run.Query,
		run.FinalBalance.String(), run.TotalContributed.String(), run.TotalGrowth.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}
	return nil
}

// Runs returns the most recent runs first.
func (r *PostgresRecorder) Runs(ctx context.Context, limit int) ([]Run, error) {
	rows, err := r.pool.Query(ctx, `SELECT id::text, created_at, name, kind, query, final_balance, total_contributed, total_growth
		FROM fincalc_runs ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			run                              Run
			id, kind, final, contrib, growth string
		)
		if err := rows.Scan(&id, &run.CreatedAt, &run.Name, &kind, &run.Query, &final, &contrib, &growth); err != nil {
			return nil, err
		}
		if err := run.ID.UnmarshalText([]byte(id)); err != nil {
			return nil, err
		}
		if err := fillRun(&run, kind, final, contrib, growth); err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

func (r *PostgresRecorder) Close() error {
	r.logger.Infof("closing postgres recorder")
	r.pool.Close()
	return nil
}

// fillRun decodes the text columns shared by both stores.
func fillRun(run *Run, kind, final, contrib, growth string) error {
	var err error
	run.Kind = domain.Kind(kind)
	if run.FinalBalance, err = parseAmount("final_balance", final); err != nil {
		return err
	}
	if run.TotalContributed, err = parseAmount("total_contributed", contrib); err != nil {
		return err
	}
	run.TotalGrowth, err = parseAmount("total_growth", growth)
	return err
}
