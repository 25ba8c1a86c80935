package output

import (
	"sort"

	"github.com/rpgo/fincalc/internal/domain"
	"github.com/shopspring/decimal"
)

// Recommendation encapsulates the selection result of the best scenario.
type Recommendation struct {
	ScenarioName string
	RealTerms    bool // ranked on inflation-adjusted balance
	Balance      decimal.Decimal
	RunnerUp     string
	Lead         decimal.Decimal
	// LeadPercentage is Lead relative to the runner-up, as a fraction.
	LeadPercentage decimal.Decimal
}

// investment reports whether a kind ends in a balance comparable across scenarios.
func investment(k domain.Kind) bool {
	switch k {
	case domain.KindSIP, domain.KindRD, domain.KindLumpsum, domain.KindFD, domain.KindSWP, domain.KindPPF:
		return true
	}
	return false
}

// AnalyzeScenarios explains the comparison's pick: the best scenario in real
// terms when inflation was modelled, else by final balance, and its lead
// over the next best investment.
func AnalyzeScenarios(results *domain.Comparison) Recommendation {
	realTerms := results.BestByRealBalance != ""
	best := results.BestByFinalBalance
	if realTerms {
		best = results.BestByRealBalance
	}
	if best == "" {
		return Recommendation{}
	}

	type ranked struct {
		name    string
		balance decimal.Decimal
	}
	var ranks []ranked
	for _, o := range results.Scenarios {
		if o.Result == nil || !investment(o.Kind) {
			continue
		}
		switch {
		case !realTerms:
			ranks = append(ranks, ranked{o.Name, o.Result.FinalBalance})
		case o.Result.RealBalance != nil:
			ranks = append(ranks, ranked{o.Name, o.Result.HeadlineBalance()})
		}
	}
	sort.SliceStable(ranks, func(i, j int) bool { return ranks[i].balance.GreaterThan(ranks[j].balance) })

	rec := Recommendation{ScenarioName: best, RealTerms: realTerms}
	for i, r := range ranks {
		if r.name != best {
			continue
		}
		rec.Balance = r.balance
		next := 1
		if i > 0 {
			next = 0
		}
		if len(ranks) > 1 {
			runnerUp := ranks[next]
			rec.RunnerUp = runnerUp.name
			rec.Lead = r.balance.Sub(runnerUp.balance)
			if !runnerUp.balance.IsZero() {
				rec.LeadPercentage = rec.Lead.Div(runnerUp.balance)
			}
		}
		break
	}
	return rec
}

// assumptionsFor returns the assumptions recorded on the comparison, or the
// engine's defaults when none were recorded.
func assumptionsFor(results *domain.Comparison) []string {
	if len(results.Assumptions) > 0 {
		return results.Assumptions
	}
	return domain.Assumptions{}.Describe()
}
