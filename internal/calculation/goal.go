package calculation

import (
	"github.com/rpgo/fincalc/internal/domain"
	"github.com/shopspring/decimal"
)

// RequiredMonthlyContribution solves the start-of-month SIP for a future
// value: FV * r / (((1+r)^n - 1) * (1+r)), or FV/n at a zero rate.
func RequiredMonthlyContribution(target, annualRate decimal.Decimal, months int) decimal.Decimal {
	if months <= 0 || !target.IsPositive() {
		return zero
	}
	r := periodicRate(annualRate, 12)
	if r.IsZero() {
		return target.Div(decimal.NewFromInt(int64(months))).Round(balancePrecision)
	}
	growth := compound(r, months).Sub(one).Mul(one.Add(r))
	return target.Mul(r).Div(growth).Round(balancePrecision)
}

// projectGoal inflates the target over the horizon, solves for the monthly
// contribution and projects that contribution forward.
func projectGoal(in *domain.GoalInput) *domain.ProjectionResult {
	target := nonNegative(in.Target)
	inflated := target
	if !in.Inflation.IsZero() {
		inflated = target.Mul(compoundYears(in.Inflation, in.Months)).Round(balancePrecision)
	}
	monthly := RequiredMonthlyContribution(inflated, in.AnnualRate, in.Months)

	acc := accumulate(accumulationConfig{
		contribution:   monthly,
		initial:        zero,
		annualRate:     in.AnnualRate,
		periodsPerYear: int(domain.Monthly),
		periods:        max(in.Months, 0),
	})

	return &domain.ProjectionResult{
		TotalContributed: acc.contributed,
		TotalWithdrawn:   zero,
		TotalGrowth:      acc.growth,
		FinalBalance:     acc.balance,
		Snapshots:        acc.snapshots,
		Goal: &domain.GoalSummary{
			Target:              target,
			InflatedTarget:      inflated,
			MonthlyContribution: monthly,
			Months:              in.Months,
		},
	}
}
