package domain

import "github.com/shopspring/decimal"

// Regime names an income tax regime
type Regime string

const (
	RegimeOld Regime = "old"
	RegimeNew Regime = "new"
)

// TaxProfile is the age band that selects the old-regime slab set
type TaxProfile string

const (
	ProfileRegular     TaxProfile = "regular"
	ProfileSenior      TaxProfile = "senior"
	ProfileSuperSenior TaxProfile = "super_senior"
)

// TaxSlab taxes the part of income in [Min, Max) at Rate. A zero Max means
// the slab is unbounded.
type TaxSlab struct {
	Min  decimal.Decimal `yaml:"min" json:"min"`
	Max  decimal.Decimal `yaml:"max" json:"max"`
	Rate decimal.Decimal `yaml:"rate" json:"rate"`
}

// RegimeRules holds one regime's deduction and slab parameters.
// SeniorSlabs and SuperSeniorSlabs fall back to Slabs when empty.
type RegimeRules struct {
	StandardDeduction decimal.Decimal `yaml:"standard_deduction" json:"standard_deduction"`
	RebateThreshold   decimal.Decimal `yaml:"rebate_threshold" json:"rebate_threshold"`
	AllowDeductions   bool            `yaml:"allow_deductions" json:"allow_deductions"`
	Slabs             []TaxSlab       `yaml:"slabs" json:"slabs"`
	SeniorSlabs       []TaxSlab       `yaml:"senior_slabs,omitempty" json:"senior_slabs,omitempty"`
	SuperSeniorSlabs  []TaxSlab       `yaml:"super_senior_slabs,omitempty" json:"super_senior_slabs,omitempty"`
}

// SlabsFor returns the slab set for a profile.
func (r RegimeRules) SlabsFor(p TaxProfile) []TaxSlab {
	switch p {
	case ProfileSuperSenior:
		if len(r.SuperSeniorSlabs) > 0 {
			return r.SuperSeniorSlabs
		}
		fallthrough
	case ProfileSenior:
		if len(r.SeniorSlabs) > 0 {
			return r.SeniorSlabs
		}
	}
	return r.Slabs
}

// DeductionCaps are the statutory ceilings on old-regime deductions. A nil
// cap is unset; a zero cap disallows the deduction.
type DeductionCaps struct {
	Section80C       *decimal.Decimal `yaml:"section_80c,omitempty" json:"section_80c,omitempty"`
	HomeLoanInterest *decimal.Decimal `yaml:"home_loan_interest,omitempty" json:"home_loan_interest,omitempty"`
	NPS              *decimal.Decimal `yaml:"nps,omitempty" json:"nps,omitempty"`
}

// TaxRules configures the regime comparator
type TaxRules struct {
	AssessmentYear string           `yaml:"assessment_year,omitempty" json:"assessment_year,omitempty"`
	CessRate       *decimal.Decimal `yaml:"cess_rate,omitempty" json:"cess_rate,omitempty"`
	Caps           DeductionCaps    `yaml:"caps,omitempty" json:"caps"`
	Old            RegimeRules      `yaml:"old" json:"old"`
	New            RegimeRules      `yaml:"new" json:"new"`
}

// RegimeTax is the computed liability under one regime
type RegimeTax struct {
	Regime        Regime          `json:"regime"`
	Profile       TaxProfile      `json:"profile"`
	GrossIncome   decimal.Decimal `json:"gross_income"`
	Deductions    decimal.Decimal `json:"deductions"`
	TaxableIncome decimal.Decimal `json:"taxable_income"`
	SlabTax       decimal.Decimal `json:"slab_tax"`
	Rebate        decimal.Decimal `json:"rebate"`
	Cess          decimal.Decimal `json:"cess"`
	Total         decimal.Decimal `json:"total"`
}

// TaxComparison reports both regimes and the cheaper one. Cheaper is
// "equal" when the totals match.
type TaxComparison struct {
	Old     RegimeTax       `json:"old"`
	New     RegimeTax       `json:"new"`
	Cheaper string          `json:"cheaper"`
	Savings decimal.Decimal `json:"savings"`
}
