package calculation

import (
	"fmt"

	"github.com/rpgo/fincalc/internal/domain"
	"github.com/shopspring/decimal"
)

// accumulationConfig parameterizes every periodic-contribution product.
// SIP, RD, the inflation-adjusted pass and the goal projection all run
// through accumulate with different settings.
type accumulationConfig struct {
	contribution   decimal.Decimal
	initial        decimal.Decimal
	annualRate     decimal.Decimal
	periodsPerYear int
	periods        int
	stepUp         domain.StepUp
}

type accumulation struct {
	snapshots   []domain.PeriodSnapshot
	contributed decimal.Decimal
	growth      decimal.Decimal
	balance     decimal.Decimal
}

// accumulate invests the contribution at the start of every period and then
// credits one period of growth. The initial lump sum, if any, is invested at
// period zero. One snapshot is recorded per year; a trailing part-year gets
// its own snapshot. The step-up applies after each completed year.
func accumulate(cfg accumulationConfig) accumulation {
	rate := periodicRate(cfg.annualRate, cfg.periodsPerYear)
	amount := nonNegative(cfg.contribution)

	acc := accumulation{
		balance:     cfg.initial,
		contributed: zero,
		growth:      zero,
	}
	if cfg.periods <= 0 {
		acc.contributed = cfg.initial
		return acc
	}

	opening := zero
	yearContributed := cfg.initial
	yearGrowth := zero
	year := 0

	for p := 1; p <= cfg.periods; p++ {
		acc.balance = acc.balance.Add(amount)
		yearContributed = yearContributed.Add(amount)

		interest := acc.balance.Mul(rate).Round(balancePrecision)
		acc.balance = nonNegative(acc.balance.Add(interest))
		yearGrowth = yearGrowth.Add(interest)

		yearEnd := p%cfg.periodsPerYear == 0
		if !yearEnd && p != cfg.periods {
			continue
		}

		year++
		acc.contributed = acc.contributed.Add(yearContributed)
		acc.growth = acc.growth.Add(yearGrowth)
		acc.snapshots = append(acc.snapshots, domain.PeriodSnapshot{
			Period:                year,
			Opening:               opening,
			Contributed:           yearContributed,
			Withdrawn:             zero,
			Growth:                yearGrowth,
			Closing:               acc.balance,
			CumulativeContributed: acc.contributed,
			CumulativeWithdrawn:   zero,
			CumulativeGrowth:      acc.growth,
		})

		opening = acc.balance
		yearContributed = zero
		yearGrowth = zero
		if yearEnd {
			amount = nonNegative(cfg.stepUp.Apply(amount)).Round(balancePrecision)
		}
	}
	return acc
}

// projectAccumulation runs SIP and RD scenarios.
func projectAccumulation(in *domain.AccumulationInput) (*domain.ProjectionResult, error) {
	switch in.Frequency {
	case domain.Monthly, domain.Quarterly, domain.HalfYearly:
	default:
		return nil, fmt.Errorf("%w for periodic contributions: %s (use monthly, quarterly or half-yearly)",
			domain.ErrUnsupportedFrequency, in.Frequency)
	}

	cfg := accumulationConfig{
		contribution:   in.Contribution,
		initial:        nonNegative(in.InitialInvestment),
		annualRate:     in.AnnualRate,
		periodsPerYear: int(in.Frequency),
		periods:        max(in.Years, 0) * int(in.Frequency),
		stepUp:         in.StepUp,
	}
	nominal := accumulate(cfg)

	result := &domain.ProjectionResult{
		TotalContributed: nominal.contributed,
		TotalWithdrawn:   zero,
		TotalGrowth:      nominal.growth,
		FinalBalance:     nominal.balance,
		Snapshots:        nominal.snapshots,
	}
	if in.TaxRate.IsPositive() {
		result.PostTaxBalance = decimalPtr(taxGain(nominal.balance, nominal.contributed, in.TaxRate))
	}
	if !in.Inflation.IsZero() {
		realCfg := cfg
		realCfg.annualRate = fisherRate(in.AnnualRate, in.Inflation)
		result.RealBalance = decimalPtr(accumulate(realCfg).balance)
	}
	return result, nil
}
