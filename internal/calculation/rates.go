package calculation

import (
	"math"

	"github.com/shopspring/decimal"
)

// balancePrecision is the number of decimal places carried between periods.
// Without it every multiplication widens the operands and long monthly
// schedules accumulate thousands of digits.
const balancePrecision int32 = 10

var (
	zero    = decimal.Zero
	one     = decimal.NewFromInt(1)
	hundred = decimal.NewFromInt(100)
)

// periodicRate splits an annual rate evenly across periodsPerYear.
func periodicRate(annualRate decimal.Decimal, periodsPerYear int) decimal.Decimal {
	if periodsPerYear <= 1 {
		return annualRate
	}
	return annualRate.Div(decimal.NewFromInt(int64(periodsPerYear)))
}

// compound returns (1+rate)^periods for a whole number of periods.
func compound(rate decimal.Decimal, periods int) decimal.Decimal {
	factor := one
	base := one.Add(rate)
	for i := 0; i < periods; i++ {
		factor = factor.Mul(base).Round(2 * balancePrecision)
	}
	return factor
}

// compoundYears returns (1+rate)^(months/12). Whole years are compounded
// exactly; a trailing part-year uses a float power.
func compoundYears(rate decimal.Decimal, months int) decimal.Decimal {
	factor := compound(rate, months/12)
	if rem := months % 12; rem != 0 {
		part := math.Pow(one.Add(rate).InexactFloat64(), float64(rem)/12)
		factor = factor.Mul(decimal.NewFromFloat(part)).Round(2 * balancePrecision)
	}
	return factor
}

// fisherRate converts a nominal rate to a real rate: ((1+r)/(1+i)) - 1.
func fisherRate(rate, inflation decimal.Decimal) decimal.Decimal {
	return one.Add(rate).Div(one.Add(inflation)).Sub(one)
}

// deflate expresses a nominal amount in today's money.
func deflate(amount, inflation decimal.Decimal, years int) decimal.Decimal {
	return amount.Div(compound(inflation, years)).Round(balancePrecision)
}

// taxGain applies a flat rate to the gain only; losses are not taxed.
func taxGain(final, invested, taxRate decimal.Decimal) decimal.Decimal {
	gain := final.Sub(invested)
	if !gain.IsPositive() {
		return final
	}
	return final.Sub(gain.Mul(taxRate)).Round(balancePrecision)
}

// nonNegative clamps an amount at zero.
func nonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return zero
	}
	return d
}

func decimalPtr(d decimal.Decimal) *decimal.Decimal {
	return &d
}
