package calculation

import (
	"testing"

	"github.com/rpgo/fincalc/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEMI(t *testing.T) {
	tests := []struct {
		name      string
		principal string
		rate      string
		months    int
		want      string
	}{
		{"home loan 20L at 8.5% for 10 years", "2000000", "0.085", 120, "24797.14"},
		{"personal loan 1L at 12% for 1 year", "100000", "0.12", 12, "8884.88"},
		{"interest free", "120000", "0", 12, "10000"},
		{"no tenure", "100000", "0.1", 0, "0"},
		{"no principal", "0", "0.1", 12, "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertNear(t, d(tt.want), EMI(d(tt.principal), d(tt.rate), tt.months), "0.01")
		})
	}
}

func TestEMIHomeLoanBenchmark(t *testing.T) {
	// Published calculators quote about 24,791 for this loan; the exact
	// annuity formula gives 24,797.14.
	emi := EMI(d("2000000"), d("0.085"), 120)
	assertNear(t, d("24791"), emi, "10")
}

func TestProjectLoanWithoutPrepayment(t *testing.T) {
	result := projectLoan(&domain.LoanInput{Principal: d("2000000"), AnnualRate: d("0.085"), Months: 120})
	loan := result.Loan
	require.NotNil(t, loan)

	assert.Equal(t, 120, loan.MonthsNeeded)
	assert.Equal(t, 0, loan.MonthsSaved())
	assert.Len(t, loan.Schedule, 120)
	assert.Len(t, result.Snapshots, 120)
	assertNear(t, d("975656.53"), loan.TotalInterest, "0.01")

	// emi * n == total payment, and total payment - principal == total interest
	assertNear(t, loan.EMI.Mul(d("120")), loan.TotalPayment, "0.01")
	assert.True(t, loan.TotalPayment.Sub(d("2000000")).Equal(loan.TotalInterest))
	assert.True(t, loan.InterestSaved.IsZero())
	assert.True(t, loan.TotalPrepaid.IsZero())
	assert.True(t, result.FinalBalance.IsZero())
}

func TestProjectLoanPaymentIdentityAcrossInputs(t *testing.T) {
	tests := []struct {
		principal, rate string
		months          int
	}{
		{"500000", "0.095", 60},
		{"3500000", "0.0725", 240},
		{"75000", "0.18", 18},
		{"120000", "0", 12},
		{"100", "0.24", 600},
		{"2000000", "0.36", 600},
		{"500000", "0.6", 600},
		{"10000000", "0.75", 360},
		{"50000", "1", 480},
		{"1000", "1", 600},
	}

	for _, tt := range tests {
		t.Run(tt.principal+"@"+tt.rate, func(t *testing.T) {
			result := projectLoan(&domain.LoanInput{Principal: d(tt.principal), AnnualRate: d(tt.rate), Months: tt.months})
			loan := result.Loan
			require.NotNil(t, loan)

			assert.Equal(t, tt.months, loan.MonthsNeeded)
			assertNear(t, loan.EMI.Mul(decimal.NewFromInt(int64(tt.months))), loan.TotalPayment, "0.01")
			assert.True(t, loan.TotalPayment.Sub(d(tt.principal)).Equal(loan.TotalInterest))
			assert.True(t, result.FinalBalance.IsZero())
			for _, row := range loan.Schedule {
				require.False(t, row.Closing.IsNegative(), "month %d", row.Month)
			}
		})
	}
}

func TestProjectLoanPrepayment(t *testing.T) {
	tests := []struct {
		name         string
		prepayment   domain.Prepayment
		wantMonths   int
		wantInterest string
		wantPrepaid  string
	}{
		{
			name:         "50k every 12 months",
			prepayment:   domain.Prepayment{Mode: domain.PrepaymentRecurring, Amount: d("50000"), EveryMonths: 12},
			wantMonths:   96,
			wantInterest: "777829.42",
			wantPrepaid:  "397304.20",
		},
		{
			name:         "5L once in month 12",
			prepayment:   domain.Prepayment{Mode: domain.PrepaymentOneTime, Amount: d("500000"), AtMonth: 12},
			wantMonths:   83,
			wantInterest: "537482.53",
			wantPrepaid:  "500000",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := projectLoan(&domain.LoanInput{
				Principal: d("2000000"), AnnualRate: d("0.085"), Months: 120, Prepayment: tt.prepayment,
			})
			loan := result.Loan
			assert.Equal(t, tt.wantMonths, loan.MonthsNeeded)
			assert.Equal(t, 120-tt.wantMonths, loan.MonthsSaved())
			assertNear(t, d(tt.wantInterest), loan.TotalInterest, "0.01")
			assertNear(t, d(tt.wantPrepaid), loan.TotalPrepaid, "0.01")
			assertNear(t, d("975656.53"), loan.BaselineInterest, "0.01")
			assert.True(t, loan.InterestSaved.Equal(loan.BaselineInterest.Sub(loan.TotalInterest)))
			assert.True(t, loan.TotalPayment.Sub(d("2000000")).Equal(loan.TotalInterest))

			last := loan.Schedule[len(loan.Schedule)-1]
			assert.True(t, last.Closing.IsZero())
			for _, row := range loan.Schedule {
				assert.False(t, row.Closing.IsNegative(), "month %d", row.Month)
			}
		})
	}
}

func TestProjectLoanDegeneratePrepaymentIsSkipped(t *testing.T) {
	for _, p := range []domain.Prepayment{
		{Mode: domain.PrepaymentRecurring, Amount: d("0"), EveryMonths: 12},
		{Mode: domain.PrepaymentRecurring, Amount: d("10000"), EveryMonths: 0},
		{Mode: domain.PrepaymentOneTime, Amount: d("10000"), AtMonth: 500},
	} {
		result := projectLoan(&domain.LoanInput{Principal: d("100000"), AnnualRate: d("0.12"), Months: 12, Prepayment: p})
		assert.Equal(t, 12, result.Loan.MonthsNeeded)
		assert.True(t, result.Loan.TotalPrepaid.IsZero())
	}
}

func TestProjectLoanPrepaymentCappedAtBalance(t *testing.T) {
	result := projectLoan(&domain.LoanInput{
		Principal: d("100000"), AnnualRate: d("0.12"), Months: 12,
		Prepayment: domain.Prepayment{Mode: domain.PrepaymentOneTime, Amount: d("1000000"), AtMonth: 2},
	})
	loan := result.Loan
	assert.Equal(t, 2, loan.MonthsNeeded)
	assert.True(t, loan.TotalPrepaid.LessThan(d("100000")))
	assert.True(t, loan.Schedule[1].Closing.IsZero())
}

func TestProjectLoanSnapshotsTrackOutstanding(t *testing.T) {
	result := projectLoan(&domain.LoanInput{Principal: d("100000"), AnnualRate: d("0.12"), Months: 12})
	first := result.Snapshots[0]
	assert.True(t, first.Opening.Equal(d("100000")))
	assert.True(t, first.Growth.Equal(d("1000")))
	for i := 1; i < len(result.Snapshots); i++ {
		assert.True(t, result.Snapshots[i].Opening.Equal(result.Snapshots[i-1].Closing))
		assert.True(t, result.Snapshots[i].CumulativeContributed.GreaterThan(result.Snapshots[i-1].CumulativeContributed))
	}
}
