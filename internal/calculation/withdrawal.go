package calculation

import (
	"fmt"

	"github.com/rpgo/fincalc/internal/domain"
	"github.com/shopspring/decimal"
)

type corpusState int

const (
	stateAccumulating corpusState = iota
	stateExhausted
)

// projectWithdrawal simulates a systematic withdrawal plan. Each period the
// balance earns rate/frequency and then pays out the smaller of the balance
// and the requested withdrawal. Once the corpus hits zero it stays there:
// no further interest or withdrawals are applied.
func projectWithdrawal(in *domain.WithdrawalInput) (*domain.ProjectionResult, error) {
	if !in.Frequency.Valid() {
		return nil, fmt.Errorf("%w for withdrawals: %s", domain.ErrUnsupportedFrequency, in.Frequency)
	}

	freq := int(in.Frequency)
	rate := periodicRate(in.AnnualRate, freq)
	corpus := nonNegative(in.Corpus)
	years := max(in.Years, 0)
	amount := nonNegative(in.Withdrawal)

	result := &domain.ProjectionResult{
		TotalContributed: corpus,
		TotalWithdrawn:   zero,
		TotalGrowth:      zero,
	}

	state := stateAccumulating
	if !corpus.IsPositive() {
		state = stateExhausted
		result.ExhaustedAt = decimalPtr(zero)
	}

	balance := corpus
	period := 0
	for year := 1; year <= years; year++ {
		opening := balance
		contributed := zero
		if year == 1 {
			opening = zero
			contributed = corpus
		}
		yearWithdrawn := zero
		yearGrowth := zero

		for sub := 0; sub < freq; sub++ {
			period++
			if state == stateExhausted {
				continue
			}
			interest := balance.Mul(rate).Round(balancePrecision)
			balance = balance.Add(interest)
			yearGrowth = yearGrowth.Add(interest)

			paid := decimal.Min(balance, amount)
			balance = balance.Sub(paid)
			yearWithdrawn = yearWithdrawn.Add(paid)

			if !balance.IsPositive() {
				balance = zero
				state = stateExhausted
				result.ExhaustedAt = decimalPtr(decimal.NewFromInt(int64(period)).
					Div(decimal.NewFromInt(int64(freq))).Round(4))
			}
		}

		result.TotalWithdrawn = result.TotalWithdrawn.Add(yearWithdrawn)
		result.TotalGrowth = result.TotalGrowth.Add(yearGrowth)
		result.Snapshots = append(result.Snapshots, domain.PeriodSnapshot{
			Period:                year,
			Opening:               opening,
			Contributed:           contributed,
			Withdrawn:             yearWithdrawn,
			Growth:                yearGrowth,
			Closing:               balance,
			CumulativeContributed: corpus,
			CumulativeWithdrawn:   result.TotalWithdrawn,
			CumulativeGrowth:      result.TotalGrowth,
		})

		amount = nonNegative(in.StepUp.Apply(amount)).Round(balancePrecision)
	}

	result.FinalBalance = balance
	if !in.Inflation.IsZero() {
		result.RealBalance = decimalPtr(deflate(balance, in.Inflation, years))
	}
	return result, nil
}
