package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PeriodSnapshot is one row of a projection: a year for savings products,
// a month for loans.
//
// For asset products Closing = Opening + Contributed - Withdrawn + Growth.
// For loans Opening/Closing are outstanding principal, Contributed is the
// payment made and Growth the interest charged.
type PeriodSnapshot struct {
	Period      int             `json:"period"`
	Label       string          `json:"label,omitempty"`
	Opening     decimal.Decimal `json:"opening"`
	Contributed decimal.Decimal `json:"contributed"`
	Withdrawn   decimal.Decimal `json:"withdrawn"`
	Growth      decimal.Decimal `json:"growth"`
	Closing     decimal.Decimal `json:"closing"`

	CumulativeContributed decimal.Decimal `json:"cumulative_contributed"`
	CumulativeWithdrawn   decimal.Decimal `json:"cumulative_withdrawn"`
	CumulativeGrowth      decimal.Decimal `json:"cumulative_growth"`
}

// ProjectionResult is the complete output of one scenario projection
type ProjectionResult struct {
	Kind             Kind             `json:"kind"`
	TotalContributed decimal.Decimal  `json:"total_contributed"`
	TotalWithdrawn   decimal.Decimal  `json:"total_withdrawn"`
	TotalGrowth      decimal.Decimal  `json:"total_growth"`
	FinalBalance     decimal.Decimal  `json:"final_balance"`
	PostTaxBalance   *decimal.Decimal `json:"post_tax_balance,omitempty"`
	RealBalance      *decimal.Decimal `json:"real_balance,omitempty"`
	ExhaustedAt      *decimal.Decimal `json:"exhausted_at_years,omitempty"`
	Snapshots        []PeriodSnapshot `json:"snapshots"`

	Loan *LoanSummary   `json:"loan,omitempty"`
	Tax  *TaxComparison `json:"tax,omitempty"`
	Goal *GoalSummary   `json:"goal,omitempty"`
	PPF  *PPFSummary    `json:"ppf,omitempty"`
}

// IsExhausted reports whether a withdrawal plan ran the corpus down to zero.
func (r *ProjectionResult) IsExhausted() bool {
	return r.ExhaustedAt != nil
}

// HeadlineBalance is the figure a comparison ranks on: the real balance
// when one was computed, else the post-tax balance, else the final balance.
func (r *ProjectionResult) HeadlineBalance() decimal.Decimal {
	if r.RealBalance != nil {
		return *r.RealBalance
	}
	if r.PostTaxBalance != nil {
		return *r.PostTaxBalance
	}
	return r.FinalBalance
}

// AmortizationRow is one month of a loan schedule
type AmortizationRow struct {
	Month      int             `json:"month"`
	Opening    decimal.Decimal `json:"opening"`
	Payment    decimal.Decimal `json:"payment"`
	Interest   decimal.Decimal `json:"interest"`
	Principal  decimal.Decimal `json:"principal"`
	Prepayment decimal.Decimal `json:"prepayment"`
	Closing    decimal.Decimal `json:"closing"`
}

// LoanSummary carries the EMI-specific outputs
type LoanSummary struct {
	EMI              decimal.Decimal   `json:"emi"`
	NominalMonths    int               `json:"nominal_months"`
	MonthsNeeded     int               `json:"months_needed"`
	TotalInterest    decimal.Decimal   `json:"total_interest"`
	TotalPayment     decimal.Decimal   `json:"total_payment"`
	TotalPrepaid     decimal.Decimal   `json:"total_prepaid"`
	BaselineInterest decimal.Decimal   `json:"baseline_interest"`
	InterestSaved    decimal.Decimal   `json:"interest_saved"`
	Schedule         []AmortizationRow `json:"schedule"`
}

// MonthsSaved is the reduction in tenure achieved by prepaying.
func (l *LoanSummary) MonthsSaved() int {
	if l.MonthsNeeded >= l.NominalMonths {
		return 0
	}
	return l.NominalMonths - l.MonthsNeeded
}

// GoalSummary carries the goal solver outputs
type GoalSummary struct {
	Target              decimal.Decimal `json:"target"`
	InflatedTarget      decimal.Decimal `json:"inflated_target"`
	MonthlyContribution decimal.Decimal `json:"monthly_contribution"`
	Months              int             `json:"months"`
}

// PPFSummary carries the PPF tenure breakdown
type PPFSummary struct {
	LockInYears    int           `json:"lock_in_years"`
	ExtensionYears int           `json:"extension_years"`
	TotalYears     int           `json:"total_years"`
	ExtensionMode  ExtensionMode `json:"extension_mode"`
	MaturityDate   *time.Time    `json:"maturity_date,omitempty"`
}
