package calculation

import (
	"context"
	"fmt"

	"github.com/rpgo/fincalc/internal/domain"
)

// Engine dispatches scenarios to the calculator for their kind. It holds no
// state between calls apart from its configuration.
type Engine struct {
	TaxCalc *TaxComparator
	Debug   bool // Enable debug output for each projection
	Logger  Logger
}

// NewEngine creates an engine with the default tax rules
func NewEngine() *Engine {
	return &Engine{
		TaxCalc: NewTaxComparator(),
		Logger:  NopLogger{},
	}
}

// NewEngineWithRules creates an engine with configured tax rules
func NewEngineWithRules(rules *domain.TaxRules) *Engine {
	return &Engine{
		TaxCalc: NewTaxComparatorWithRules(rules),
		Logger:  NopLogger{},
	}
}

// SetLogger sets the logger for the engine. If nil is provided, a no-op logger is used.
func (e *Engine) SetLogger(l Logger) {
	if l == nil {
		e.Logger = NopLogger{}
		return
	}
	e.Logger = l
}

// Project runs a single scenario.
func (e *Engine) Project(in domain.ScenarioInput) (*domain.ProjectionResult, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	var (
		result *domain.ProjectionResult
		err    error
	)
	switch in.Kind {
	case domain.KindSIP, domain.KindRD:
		result, err = projectAccumulation(in.Accumulation)
	case domain.KindLumpsum, domain.KindFD:
		result, err = projectLumpsum(in.Lumpsum)
	case domain.KindSWP:
		result, err = projectWithdrawal(in.Withdrawal)
	case domain.KindGoal:
		result = projectGoal(in.Goal)
	case domain.KindEMI:
		result = projectLoan(in.Loan)
	case domain.KindIncomeTax:
		result = e.TaxCalc.projectTax(in.Tax)
	case domain.KindPPF:
		result = projectPPF(in.PPF)
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownKind, in.Kind)
	}
	if err != nil {
		return nil, fmt.Errorf("%s projection: %w", in.Kind, err)
	}
	result.Kind = in.Kind

	if e.Debug {
		e.Logger.Debugf("%s: contributed=%s growth=%s final=%s snapshots=%d",
			in.Kind, result.TotalContributed.StringFixed(2), result.TotalGrowth.StringFixed(2),
			result.FinalBalance.StringFixed(2), len(result.Snapshots))
		if result.IsExhausted() {
			e.Logger.Debugf("%s: corpus exhausted after %s years", in.Kind, result.ExhaustedAt.String())
		}
	}
	return result, nil
}

// RunScenarios projects every scenario in the configuration and ranks the
// results. Scenarios without their own inflation use the configured default.
func (e *Engine) RunScenarios(ctx context.Context, config *domain.Configuration) (*domain.Comparison, error) {
	outcomes := make([]domain.ScenarioOutcome, 0, len(config.Scenarios))

	for i, scenario := range config.Scenarios {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		name := scenario.Name
		if name == "" {
			name = fmt.Sprintf("scenario %d", i+1)
		}
		input := config.Assumptions.Apply(scenario.ScenarioInput)
		result, err := e.Project(input)
		if err != nil {
			return nil, fmt.Errorf("scenario %q: %w", name, err)
		}
		e.Logger.Infof("projected %q (%s): final %s", name, scenario.Kind, result.FinalBalance.StringFixed(2))
		outcomes = append(outcomes, domain.ScenarioOutcome{Name: name, Kind: scenario.Kind, Input: input, Result: result})
	}

	comparison := &domain.Comparison{
		Scenarios:   outcomes,
		Assumptions: config.Assumptions.Describe(),
	}
	comparison.BestByFinalBalance, comparison.BestByRealBalance = rankOutcomes(outcomes)
	return comparison, nil
}
