package recorder

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rpgo/fincalc/internal/calculation"
	"github.com/rpgo/fincalc/internal/config"
	"github.com/rpgo/fincalc/internal/domain"
	"github.com/shopspring/decimal"
)

// Run is one projected scenario as stored in the history.
type Run struct {
	ID               uuid.UUID
	CreatedAt        time.Time
	Name             string
	Kind             domain.Kind
	Query            string // the scenario as query parameters, replayable with `fincalc query`
	FinalBalance     decimal.Decimal
	TotalContributed decimal.Decimal
	TotalGrowth      decimal.Decimal
}

// Recorder persists projection runs for later review.
type Recorder interface {
	RecordRun(ctx context.Context, run *Run) error
	Runs(ctx context.Context, limit int) ([]Run, error)
	Close() error
}

// NewRun captures a finished projection.
func NewRun(name string, in domain.ScenarioInput, result *domain.ProjectionResult) (*Run, error) {
	query, err := config.EncodeQuery(in)
	if err != nil {
		return nil, fmt.Errorf("encode scenario %q: %w", name, err)
	}
	return &Run{
		ID:               uuid.New(),
		CreatedAt:        time.Now().UTC(),
		Name:             name,
		Kind:             in.Kind,
		Query:            query.Encode(),
		FinalBalance:     result.FinalBalance,
		TotalContributed: result.TotalContributed,
		TotalGrowth:      result.TotalGrowth,
	}, nil
}

// RecordComparison stores one run per projected scenario. Each run keeps
// the input as projected, so replaying its query reproduces the result.
func RecordComparison(ctx context.Context, r Recorder, cmp *domain.Comparison) error {
	for _, outcome := range cmp.Scenarios {
		run, err := NewRun(outcome.Name, outcome.Input, outcome.Result)
		if err != nil {
			return err
		}
		if err := r.RecordRun(ctx, run); err != nil {
			return fmt.Errorf("record %q: %w", outcome.Name, err)
		}
	}
	return nil
}

// Open picks a recorder from the DSN: empty or "none" records nothing,
// postgres:// and postgresql:// URLs use Postgres, anything else is a
// SQLite file path with an optional "sqlite:" prefix. A nil logger logs
// nothing.
func Open(ctx context.Context, dsn string, logger calculation.Logger) (Recorder, error) {
	dsn = strings.TrimSpace(dsn)
	switch {
	case dsn == "" || dsn == "none":
		return NewNoopRecorder(), nil
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return NewPostgresRecorder(ctx, dsn, logger)
	default:
		return NewSQLiteRecorder(strings.TrimPrefix(dsn, "sqlite:"), logger)
	}
}

func orNop(logger calculation.Logger) calculation.Logger {
	if logger == nil {
		return calculation.NopLogger{}
	}
	return logger
}

func parseAmount(column, s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("column %s: %w", column, err)
	}
	return d, nil
}
