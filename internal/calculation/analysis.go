package calculation

import (
	"github.com/rpgo/fincalc/internal/domain"
	"github.com/shopspring/decimal"
)

// rankable reports whether a kind produces a balance that can be compared
// with other investments. Loans, tax and goals answer different questions.
func rankable(k domain.Kind) bool {
	switch k {
	case domain.KindSIP, domain.KindRD, domain.KindLumpsum, domain.KindFD, domain.KindSWP, domain.KindPPF:
		return true
	}
	return false
}

// rankOutcomes names the investment with the highest final balance and the
// one with the highest inflation-adjusted balance. Ties go to the earlier
// scenario; either name is empty when nothing qualifies.
func rankOutcomes(outcomes []domain.ScenarioOutcome) (bestFinal, bestReal string) {
	var topFinal, topReal decimal.Decimal
	for _, o := range outcomes {
		if o.Result == nil || !rankable(o.Kind) {
			continue
		}
		if bestFinal == "" || o.Result.FinalBalance.GreaterThan(topFinal) {
			bestFinal = o.Name
			topFinal = o.Result.FinalBalance
		}
		if o.Result.RealBalance == nil {
			continue
		}
		if bestReal == "" || o.Result.HeadlineBalance().GreaterThan(topReal) {
			bestReal = o.Name
			topReal = o.Result.HeadlineBalance()
		}
	}
	return bestFinal, bestReal
}
