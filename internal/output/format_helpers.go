package output

import (
	"strconv"

	money "github.com/rpgo/fincalc/pkg/decimal"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// FormatCurrency formats an amount in rupees with Indian digit grouping.
func FormatCurrency(amount decimal.Decimal) string {
	return money.NewMoneyFromDecimal(amount).Format()
}

// FormatCompact renders large amounts in lakh or crore units.
func FormatCompact(amount decimal.Decimal) string {
	return money.NewMoneyFromDecimal(amount).Compact()
}

// FormatPercentage formats a fraction (0.12) as a percentage (12.00%).
func FormatPercentage(rate decimal.Decimal) string {
	return rate.Mul(hundred).StringFixed(2) + "%"
}

// formatOptional renders a nil balance as "-".
func formatOptional(amount *decimal.Decimal) string {
	if amount == nil {
		return "-"
	}
	return FormatCurrency(*amount)
}

// plainAmount renders an amount in paise without grouping or symbol.
func plainAmount(amount decimal.Decimal) string {
	return money.NewMoneyFromDecimal(amount).String()
}

// plainOptional is formatOptional for machine-readable output.
func plainOptional(amount *decimal.Decimal) string {
	if amount == nil {
		return ""
	}
	return plainAmount(*amount)
}

func intToString(i int) string { return strconv.Itoa(i) }
