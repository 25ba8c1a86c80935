package calculation

import (
	"time"

	"github.com/rpgo/fincalc/internal/domain"
	"github.com/rpgo/fincalc/pkg/dateutil"
)

const (
	ppfLockInYears        = 15
	ppfExtensionBlockSize = 5
	ppfMaxExtensionBlocks = 4
)

// projectPPF accumulates a PPF account. The yearly deposit is made at the
// start of the financial year and interest is credited on the opening
// balance plus that deposit. After the lock-in the account may be extended
// in five-year blocks, with or without fresh deposits.
func projectPPF(in *domain.PPFInput) *domain.ProjectionResult {
	blocks := min(max(in.ExtensionBlocks, 0), ppfMaxExtensionBlocks)
	mode := in.ExtensionMode
	if mode == "" {
		mode = domain.ExtensionContinue
	}
	extensionYears := blocks * ppfExtensionBlockSize
	totalYears := ppfLockInYears + extensionYears
	deposit := nonNegative(in.YearlyContribution)

	summary := &domain.PPFSummary{
		LockInYears:    ppfLockInYears,
		ExtensionYears: extensionYears,
		TotalYears:     totalYears,
		ExtensionMode:  mode,
	}
	result := &domain.ProjectionResult{
		TotalContributed: zero,
		TotalWithdrawn:   zero,
		TotalGrowth:      zero,
		PPF:              summary,
	}

	balance := zero
	for year := 1; year <= totalYears; year++ {
		contribution := deposit
		if year > ppfLockInYears && mode == domain.ExtensionFreeze {
			contribution = zero
		}
		opening := balance
		interest := opening.Add(contribution).Mul(in.AnnualRate).Round(balancePrecision)
		balance = nonNegative(opening.Add(contribution).Add(interest))

		result.TotalContributed = result.TotalContributed.Add(contribution)
		result.TotalGrowth = result.TotalGrowth.Add(interest)
		result.Snapshots = append(result.Snapshots, domain.PeriodSnapshot{
			Period:                year,
			Label:                 ppfYearLabel(in.StartDate, year),
			Opening:               opening,
			Contributed:           contribution,
			Withdrawn:             zero,
			Growth:                interest,
			Closing:               balance,
			CumulativeContributed: result.TotalContributed,
			CumulativeWithdrawn:   zero,
			CumulativeGrowth:      result.TotalGrowth,
		})
	}
	result.FinalBalance = balance

	if in.StartDate != nil {
		maturity := dateutil.MaturityAfterFinancialYears(*in.StartDate, totalYears)
		summary.MaturityDate = &maturity
	}
	if !in.Inflation.IsZero() {
		result.RealBalance = decimalPtr(deflate(balance, in.Inflation, totalYears))
	}
	return result
}

func ppfYearLabel(start *time.Time, year int) string {
	if start == nil {
		return ""
	}
	return dateutil.FinancialYearLabel(dateutil.AddYears(*start, year-1))
}
