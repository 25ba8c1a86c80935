package recorder

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"github.com/rpgo/fincalc/internal/calculation"
	"github.com/rpgo/fincalc/internal/config"
	"github.com/rpgo/fincalc/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func sampleRun(t *testing.T, name string) *Run {
	t.Helper()
	in := domain.NewSIP(domain.AccumulationInput{
		Contribution: d("10000"), AnnualRate: d("0.12"), Frequency: domain.Monthly, Years: 10,
	})
	result, err := calculation.NewEngine().Project(in)
	require.NoError(t, err)
	run, err := NewRun(name, in, result)
	require.NoError(t, err)
	return run
}

func TestNewRun(t *testing.T) {
	run := sampleRun(t, "Equity SIP")
	assert.Equal(t, domain.KindSIP, run.Kind)
	assert.False(t, run.CreatedAt.IsZero())
	assert.InDelta(t, 2323390.76, run.FinalBalance.InexactFloat64(), 0.01)

	values, err := url.ParseQuery(run.Query)
	require.NoError(t, err)
	replayed, err := config.ParseQuery(values)
	require.NoError(t, err)
	assert.True(t, replayed.Accumulation.Contribution.Equal(d("10000")))

	_, err = NewRun("broken", domain.ScenarioInput{Kind: domain.KindSIP}, &domain.ProjectionResult{})
	assert.ErrorIs(t, err, domain.ErrMissingVariant)
}

func TestNoopRecorder(t *testing.T) {
	r := NewNoopRecorder()
	ctx := context.Background()
	assert.NoError(t, r.RecordRun(ctx, sampleRun(t, "x")))
	runs, err := r.Runs(ctx, 10)
	assert.NoError(t, err)
	assert.Empty(t, runs)
	assert.NoError(t, r.Close())
}

func TestSQLiteRecorderRoundTrip(t *testing.T) {
	ctx := context.Background()
	r, err := NewSQLiteRecorder(filepath.Join(t.TempDir(), "runs.db"), nil)
	require.NoError(t, err)
	defer r.Close()

	first := sampleRun(t, "first")
	second := sampleRun(t, "second")
	second.CreatedAt = first.CreatedAt.Add(1)
	require.NoError(t, r.RecordRun(ctx, first))
	require.NoError(t, r.RecordRun(ctx, second))

	runs, err := r.Runs(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "second", runs[0].Name, "newest first")
	assert.Equal(t, first.ID, runs[1].ID)
	assert.True(t, runs[1].FinalBalance.Equal(first.FinalBalance), "amounts are stored exactly")
	assert.True(t, runs[1].CreatedAt.Equal(first.CreatedAt))
	assert.Equal(t, first.Query, runs[1].Query)

	limited, err := r.Runs(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	assert.Error(t, r.RecordRun(ctx, first), "duplicate id")
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	r, err := Open(ctx, "", nil)
	require.NoError(t, err)
	assert.IsType(t, &NoopRecorder{}, r)

	r, err = Open(ctx, "none", nil)
	require.NoError(t, err)
	assert.IsType(t, &NoopRecorder{}, r)

	path := filepath.Join(t.TempDir(), "history.db")
	r, err = Open(ctx, "sqlite:"+path, nil)
	require.NoError(t, err)
	assert.IsType(t, &SQLiteRecorder{}, r)
	require.NoError(t, r.Close())
	_, err = os.Stat(path)
	assert.NoError(t, err)

	_, err = Open(ctx, "postgres://%zz", nil)
	assert.Error(t, err)
}

func TestRecordComparison(t *testing.T) {
	ctx := context.Background()
	cfg := config.NewInputParser().CreateExampleConfiguration()
	engine := calculation.NewEngine()
	cmp, err := engine.RunScenarios(ctx, cfg)
	require.NoError(t, err)

	r, err := NewSQLiteRecorder(filepath.Join(t.TempDir(), "runs.db"), nil)
	require.NoError(t, err)
	defer r.Close()

	require.NoError(t, RecordComparison(ctx, r, cmp))
	runs, err := r.Runs(ctx, 100)
	require.NoError(t, err)
	assert.Len(t, runs, len(cfg.Scenarios))

	broken := &domain.Comparison{Scenarios: []domain.ScenarioOutcome{{Name: "x", Result: &domain.ProjectionResult{}}}}
	assert.Error(t, RecordComparison(ctx, r, broken))
}

func TestRecordedQueryReplaysDefaultInflation(t *testing.T) {
	ctx := context.Background()
	cfg := config.NewInputParser().CreateExampleConfiguration()
	engine := calculation.NewEngine()
	cmp, err := engine.RunScenarios(ctx, cfg)
	require.NoError(t, err)

	r, err := NewSQLiteRecorder(filepath.Join(t.TempDir(), "runs.db"), nil)
	require.NoError(t, err)
	defer r.Close()
	require.NoError(t, RecordComparison(ctx, r, cmp))

	runs, err := r.Runs(ctx, 100)
	require.NoError(t, err)
	byName := map[string]Run{}
	for _, run := range runs {
		byName[run.Name] = run
	}

	for _, outcome := range cmp.Scenarios {
		if outcome.Result.RealBalance == nil {
			continue
		}
		t.Run(outcome.Name, func(t *testing.T) {
			run, ok := byName[outcome.Name]
			require.True(t, ok)
			values, err := url.ParseQuery(run.Query)
			require.NoError(t, err)
			assert.Equal(t, "6", values.Get("inflation"))

			in, err := config.ParseQuery(values)
			require.NoError(t, err)
			replayed, err := engine.Project(in)
			require.NoError(t, err)
			assert.True(t, replayed.FinalBalance.Equal(outcome.Result.FinalBalance))
			require.NotNil(t, replayed.RealBalance)
			assert.True(t, replayed.RealBalance.Equal(*outcome.Result.RealBalance))
		})
	}
}

type capturingLogger struct {
	calculation.NopLogger
	info []string
}

func (c *capturingLogger) Infof(format string, args ...any) {
	c.info = append(c.info, fmt.Sprintf(format, args...))
}

func TestRecorderLogsThroughInjectedLogger(t *testing.T) {
	var std bytes.Buffer
	log.SetOutput(&std)
	defer log.SetOutput(os.Stderr)

	logger := &capturingLogger{}
	r, err := Open(context.Background(), filepath.Join(t.TempDir(), "runs.db"), logger)
	require.NoError(t, err)
	require.NoError(t, r.Close())

	require.Len(t, logger.info, 2)
	assert.Contains(t, logger.info[0], "sqlite recorder opened")
	assert.Equal(t, "closing sqlite recorder", logger.info[1])
	assert.Empty(t, std.String())
}

func TestPostgresRecorder(t *testing.T) {
	dsn := os.Getenv("FINCALC_TEST_POSTGRES")
	if dsn == "" {
		t.Skip("FINCALC_TEST_POSTGRES not set")
	}
	ctx := context.Background()
	r, err := NewPostgresRecorder(ctx, dsn, nil)
	require.NoError(t, err)
	defer r.Close()

	run := sampleRun(t, "postgres")
	require.NoError(t, r.RecordRun(ctx, run))
	runs, err := r.Runs(ctx, 50)
	require.NoError(t, err)

	var found bool
	for _, got := range runs {
		if got.ID == run.ID {
			found = true
			assert.True(t, got.FinalBalance.Equal(run.FinalBalance))
		}
	}
	assert.True(t, found)
}
