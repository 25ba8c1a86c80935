package calculation

import (
	"fmt"

	"github.com/rpgo/fincalc/internal/domain"
)

// projectLumpsum grows a single deposit for whole years. Compounding defaults
// to yearly; an FD may compound quarterly or more often.
func projectLumpsum(in *domain.LumpsumInput) (*domain.ProjectionResult, error) {
	m := in.Compounding
	if m == 0 {
		m = domain.Yearly
	}
	if !m.Valid() {
		return nil, fmt.Errorf("%w for compounding: %s", domain.ErrUnsupportedFrequency, m)
	}

	principal := nonNegative(in.Principal)
	years := max(in.Years, 0)
	yearFactor := compound(periodicRate(in.AnnualRate, int(m)), int(m))

	result := &domain.ProjectionResult{
		TotalContributed: principal,
		TotalWithdrawn:   zero,
		TotalGrowth:      zero,
		FinalBalance:     principal,
	}

	balance := principal
	for year := 1; year <= years; year++ {
		opening := balance
		balance = nonNegative(balance.Mul(yearFactor).Round(balancePrecision))
		growth := balance.Sub(opening)
		result.TotalGrowth = result.TotalGrowth.Add(growth)

		contributed := zero
		if year == 1 {
			contributed = principal
			opening = zero
		}
		result.Snapshots = append(result.Snapshots, domain.PeriodSnapshot{
			Period:                year,
			Opening:               opening,
			Contributed:           contributed,
			Withdrawn:             zero,
			Growth:                growth,
			Closing:               balance,
			CumulativeContributed: principal,
			CumulativeWithdrawn:   zero,
			CumulativeGrowth:      result.TotalGrowth,
		})
	}
	result.FinalBalance = balance

	headline := balance
	if in.TaxRate.IsPositive() {
		headline = taxGain(balance, principal, in.TaxRate)
		result.PostTaxBalance = decimalPtr(headline)
	}
	if !in.Inflation.IsZero() {
		result.RealBalance = decimalPtr(deflate(headline, in.Inflation, years))
	}
	return result, nil
}
