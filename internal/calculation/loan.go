package calculation

import (
	"github.com/rpgo/fincalc/internal/domain"
	"github.com/shopspring/decimal"
)

// settleTolerance is the residual below which a loan is treated as repaid;
// the residual is folded into that month's principal.
var settleTolerance = decimal.New(1, -2)

// EMI returns the equated monthly instalment for a loan:
// P * r * (1+r)^n / ((1+r)^n - 1), or P/n when the rate is zero.
func EMI(principal, annualRate decimal.Decimal, months int) decimal.Decimal {
	if months <= 0 || !principal.IsPositive() {
		return zero
	}
	return newLoanTerms(annualRate, months).emi(principal)
}

// loanTerms holds the monthly rate of a loan and the precision its schedule
// is carried at. An error in an early month grows by up to (1+r)^n before
// the last month, so the precision widens by the digits of that factor.
type loanTerms struct {
	rate      decimal.Decimal
	months    int
	growth    decimal.Decimal
	precision int32
}

func newLoanTerms(annualRate decimal.Decimal, months int) loanTerms {
	r := periodicRate(annualRate, 12)
	growth := compound(r, months)
	return loanTerms{
		rate:      r,
		months:    months,
		growth:    growth,
		precision: balancePrecision + int32(len(growth.Truncate(0).String())),
	}
}

func (t loanTerms) emi(principal decimal.Decimal) decimal.Decimal {
	n := decimal.NewFromInt(int64(t.months))
	if t.rate.IsZero() {
		return principal.DivRound(n, t.precision)
	}
	return principal.Mul(t.rate).Mul(t.growth).DivRound(t.growth.Sub(one), t.precision)
}

type amortization struct {
	rows          []domain.AmortizationRow
	totalInterest decimal.Decimal
	totalPayment  decimal.Decimal
	totalPrepaid  decimal.Decimal
}

// prepaymentFor returns the scheduled extra payment for a month, before
// capping at the outstanding balance.
func prepaymentFor(p domain.Prepayment, month int) decimal.Decimal {
	if !p.Amount.IsPositive() {
		return zero
	}
	switch p.Mode {
	case domain.PrepaymentRecurring:
		if p.EveryMonths > 0 && month%p.EveryMonths == 0 {
			return p.Amount
		}
	case domain.PrepaymentOneTime:
		if month == p.AtMonth {
			return p.Amount
		}
	}
	return zero
}

// amortize runs the loan month by month until the balance is cleared. The
// nominal last month settles whatever principal remains, so no schedule
// outlives its term.
func amortize(principal, emi decimal.Decimal, terms loanTerms, prepay domain.Prepayment) amortization {
	out := amortization{totalInterest: zero, totalPayment: zero, totalPrepaid: zero}

	balance := principal
	for month := 1; month <= terms.months && balance.IsPositive(); month++ {
		opening := balance
		interest := balance.Mul(terms.rate).Round(terms.precision)
		principalPaid := decimal.Min(nonNegative(emi.Sub(interest)), balance)
		if month == terms.months {
			principalPaid = balance
		}
		balance = balance.Sub(principalPaid)

		extra := decimal.Min(prepaymentFor(prepay, month), balance)
		balance = balance.Sub(extra)

		if balance.LessThan(settleTolerance) {
			principalPaid = principalPaid.Add(balance)
			balance = zero
		}

		payment := interest.Add(principalPaid)
		out.totalInterest = out.totalInterest.Add(interest)
		out.totalPayment = out.totalPayment.Add(payment).Add(extra)
		out.totalPrepaid = out.totalPrepaid.Add(extra)
		out.rows = append(out.rows, domain.AmortizationRow{
			Month:      month,
			Opening:    opening,
			Payment:    payment,
			Interest:   interest,
			Principal:  principalPaid,
			Prepayment: extra,
			Closing:    balance,
		})
	}
	return out
}

// projectLoan builds the amortization schedule and compares it with the
// schedule without prepayments.
func projectLoan(in *domain.LoanInput) *domain.ProjectionResult {
	principal := nonNegative(in.Principal)
	emi := EMI(principal, in.AnnualRate, in.Months)
	terms := newLoanTerms(in.AnnualRate, in.Months)

	actual := amortize(principal, emi, terms, in.Prepayment)
	baseline := actual
	if in.Prepayment.Mode != domain.PrepaymentNone && in.Prepayment.Amount.IsPositive() {
		baseline = amortize(principal, emi, terms, domain.Prepayment{})
	}

	summary := &domain.LoanSummary{
		EMI:              emi,
		NominalMonths:    in.Months,
		MonthsNeeded:     len(actual.rows),
		TotalInterest:    actual.totalInterest,
		TotalPayment:     actual.totalPayment,
		TotalPrepaid:     actual.totalPrepaid,
		BaselineInterest: baseline.totalInterest,
		InterestSaved:    nonNegative(baseline.totalInterest.Sub(actual.totalInterest)),
		Schedule:         actual.rows,
	}

	result := &domain.ProjectionResult{
		TotalContributed: actual.totalPayment,
		TotalWithdrawn:   zero,
		TotalGrowth:      actual.totalInterest,
		FinalBalance:     principal,
		Loan:             summary,
	}

	paid := zero
	interest := zero
	for _, row := range actual.rows {
		paid = paid.Add(row.Payment).Add(row.Prepayment)
		interest = interest.Add(row.Interest)
		result.Snapshots = append(result.Snapshots, domain.PeriodSnapshot{
			Period:                row.Month,
			Opening:               row.Opening,
			Contributed:           row.Payment.Add(row.Prepayment),
			Withdrawn:             zero,
			Growth:                row.Interest,
			Closing:               row.Closing,
			CumulativeContributed: paid,
			CumulativeWithdrawn:   zero,
			CumulativeGrowth:      interest,
		})
		result.FinalBalance = row.Closing
	}
	return result
}
