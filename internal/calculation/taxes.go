package calculation

import (
	"github.com/rpgo/fincalc/internal/domain"
	"github.com/rpgo/fincalc/pkg/dateutil"
	"github.com/shopspring/decimal"
)

// TAX CALCULATION ASSUMPTIONS:
//
// 1. Default rules are those for FY 2024-25 (AY 2025-26)
//    - Old regime: standard deduction 50,000, rebate up to 5,00,000 taxable
//    - New regime: standard deduction 75,000, rebate up to 7,00,000 taxable
//
// 2. Old-regime deductions are capped: 80C 1,50,000, home-loan interest
//    2,00,000, NPS 50,000. "Other" deductions are taken as claimed.
//
// 3. Health and education cess of 4% applies to tax after rebate.
//
// 4. Surcharge and marginal relief are not modelled.

func inr(n int64) decimal.Decimal { return decimal.NewFromInt(n) }

func pct(p float64) decimal.Decimal { return decimal.NewFromFloat(p / 100) }

// DefaultTaxRules returns the built-in FY 2024-25 rules.
func DefaultTaxRules() domain.TaxRules {
	return domain.TaxRules{
		AssessmentYear: "2025-26",
		CessRate:       decimalPtr(pct(4)),
		Caps: domain.DeductionCaps{
			Section80C:       decimalPtr(inr(150000)),
			HomeLoanInterest: decimalPtr(inr(200000)),
			NPS:              decimalPtr(inr(50000)),
		},
		Old: domain.RegimeRules{
			StandardDeduction: inr(50000),
			RebateThreshold:   inr(500000),
			AllowDeductions:   true,
			Slabs: []domain.TaxSlab{
				{Min: zero, Max: inr(250000), Rate: zero},
				{Min: inr(250000), Max: inr(500000), Rate: pct(5)},
				{Min: inr(500000), Max: inr(1000000), Rate: pct(20)},
				{Min: inr(1000000), Max: zero, Rate: pct(30)},
			},
			SeniorSlabs: []domain.TaxSlab{
				{Min: zero, Max: inr(300000), Rate: zero},
				{Min: inr(300000), Max: inr(500000), Rate: pct(5)},
				{Min: inr(500000), Max: inr(1000000), Rate: pct(20)},
				{Min: inr(1000000), Max: zero, Rate: pct(30)},
			},
			SuperSeniorSlabs: []domain.TaxSlab{
				{Min: zero, Max: inr(500000), Rate: zero},
				{Min: inr(500000), Max: inr(1000000), Rate: pct(20)},
				{Min: inr(1000000), Max: zero, Rate: pct(30)},
			},
		},
		New: domain.RegimeRules{
			StandardDeduction: inr(75000),
			RebateThreshold:   inr(700000),
			Slabs: []domain.TaxSlab{
				{Min: zero, Max: inr(300000), Rate: zero},
				{Min: inr(300000), Max: inr(700000), Rate: pct(5)},
				{Min: inr(700000), Max: inr(1000000), Rate: pct(10)},
				{Min: inr(1000000), Max: inr(1200000), Rate: pct(15)},
				{Min: inr(1200000), Max: inr(1500000), Rate: pct(20)},
				{Min: inr(1500000), Max: zero, Rate: pct(30)},
			},
		},
	}
}

// TaxComparator computes income tax under both regimes
type TaxComparator struct {
	Rules domain.TaxRules
}

// NewTaxComparator creates a comparator with the default rules
func NewTaxComparator() *TaxComparator {
	return &TaxComparator{Rules: DefaultTaxRules()}
}

// NewTaxComparatorWithRules creates a comparator from configured rules.
// Anything the configuration leaves empty falls back to the defaults.
func NewTaxComparatorWithRules(rules *domain.TaxRules) *TaxComparator {
	if rules == nil {
		return NewTaxComparator()
	}
	defaults := DefaultTaxRules()
	merged := *rules
	if merged.AssessmentYear == "" {
		merged.AssessmentYear = defaults.AssessmentYear
	}
	if merged.CessRate == nil {
		merged.CessRate = defaults.CessRate
	}
	if merged.Caps.Section80C == nil {
		merged.Caps.Section80C = defaults.Caps.Section80C
	}
	if merged.Caps.HomeLoanInterest == nil {
		merged.Caps.HomeLoanInterest = defaults.Caps.HomeLoanInterest
	}
	if merged.Caps.NPS == nil {
		merged.Caps.NPS = defaults.Caps.NPS
	}
	if len(merged.Old.Slabs) == 0 {
		merged.Old = defaults.Old
	}
	if len(merged.New.Slabs) == 0 {
		merged.New = defaults.New
	}
	return &TaxComparator{Rules: merged}
}

// ProfileForAge maps an age to the old-regime slab profile.
func ProfileForAge(age int) domain.TaxProfile {
	switch {
	case age >= 80:
		return domain.ProfileSuperSenior
	case age >= 60:
		return domain.ProfileSenior
	default:
		return domain.ProfileRegular
	}
}

// profileFor resolves the taxpayer profile. A birth date wins over a stated
// age and is measured at the end of the assessment financial year.
func profileFor(in *domain.TaxInput) domain.TaxProfile {
	age := in.Age
	if in.BirthDate != nil {
		age = dateutil.AgeAtFinancialYearEnd(*in.BirthDate, in.AssessedAt())
	}
	return ProfileForAge(age)
}

// slabTax sums rate * overlap(income, [Min, Max)) over the slabs.
func slabTax(income decimal.Decimal, slabs []domain.TaxSlab) decimal.Decimal {
	total := zero
	for _, slab := range slabs {
		if income.LessThanOrEqual(slab.Min) {
			break
		}
		upper := income
		if slab.Max.IsPositive() {
			upper = decimal.Min(income, slab.Max)
		}
		inSlab := upper.Sub(slab.Min)
		if inSlab.IsPositive() {
			total = total.Add(inSlab.Mul(slab.Rate))
		}
	}
	return total
}

// Deductions returns the old-regime deduction total after caps, excluding
// the standard deduction.
func (tc *TaxComparator) Deductions(d domain.Deductions) decimal.Decimal {
	caps := tc.Rules.Caps
	return capped(d.Section80C, caps.Section80C).
		Add(capped(d.HomeLoanInterest, caps.HomeLoanInterest)).
		Add(capped(d.NPS, caps.NPS)).
		Add(nonNegative(d.Other))
}

// capped limits a claim to its cap; an unset cap does not limit it.
func capped(claim decimal.Decimal, limit *decimal.Decimal) decimal.Decimal {
	claim = nonNegative(claim)
	if limit == nil {
		return claim
	}
	return decimal.Min(claim, *limit)
}

// Calculate computes the liability under one regime.
func (tc *TaxComparator) Calculate(regime domain.Regime, in *domain.TaxInput) domain.RegimeTax {
	rules := tc.Rules.New
	if regime == domain.RegimeOld {
		rules = tc.Rules.Old
	}
	profile := profileFor(in)
	gross := nonNegative(in.GrossSalary)

	deductions := rules.StandardDeduction
	if rules.AllowDeductions {
		deductions = deductions.Add(tc.Deductions(in.Deductions))
	}
	taxable := nonNegative(gross.Sub(deductions))

	slabs := rules.Slabs
	if regime == domain.RegimeOld {
		slabs = rules.SlabsFor(profile)
	}
	base := slabTax(taxable, slabs).Round(2)

	rebate := zero
	if taxable.LessThanOrEqual(rules.RebateThreshold) {
		rebate = base
	}
	afterRebate := base.Sub(rebate)
	cess := zero
	if tc.Rules.CessRate != nil {
		cess = afterRebate.Mul(*tc.Rules.CessRate).Round(2)
	}

	return domain.RegimeTax{
		Regime:        regime,
		Profile:       profile,
		GrossIncome:   gross,
		Deductions:    deductions,
		TaxableIncome: taxable,
		SlabTax:       base,
		Rebate:        rebate,
		Cess:          cess,
		Total:         afterRebate.Add(cess),
	}
}

// Compare computes both regimes and names the cheaper one.
func (tc *TaxComparator) Compare(in *domain.TaxInput) domain.TaxComparison {
	oldTax := tc.Calculate(domain.RegimeOld, in)
	newTax := tc.Calculate(domain.RegimeNew, in)

	cmp := domain.TaxComparison{Old: oldTax, New: newTax, Cheaper: "equal", Savings: zero}
	switch {
	case oldTax.Total.LessThan(newTax.Total):
		cmp.Cheaper = string(domain.RegimeOld)
		cmp.Savings = newTax.Total.Sub(oldTax.Total)
	case newTax.Total.LessThan(oldTax.Total):
		cmp.Cheaper = string(domain.RegimeNew)
		cmp.Savings = oldTax.Total.Sub(newTax.Total)
	}
	return cmp
}

// projectTax wraps the comparison in a projection result. The headline
// balance is the lower of the two liabilities.
func (tc *TaxComparator) projectTax(in *domain.TaxInput) *domain.ProjectionResult {
	cmp := tc.Compare(in)
	return &domain.ProjectionResult{
		TotalContributed: zero,
		TotalWithdrawn:   zero,
		TotalGrowth:      zero,
		FinalBalance:     decimal.Min(cmp.Old.Total, cmp.New.Total),
		Tax:              &cmp,
	}
}
