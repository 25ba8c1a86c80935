package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rpgo/fincalc/pkg/dateutil"
	"github.com/shopspring/decimal"
)

var (
	ErrUnknownKind          = errors.New("unknown scenario kind")
	ErrMissingVariant       = errors.New("scenario parameters missing")
	ErrAmbiguousVariant     = errors.New("scenario carries parameters for more than one calculator")
	ErrUnsupportedFrequency = errors.New("unsupported frequency")
)

// Kind identifies which calculator a scenario targets
type Kind string

const (
	KindSIP       Kind = "sip"
	KindLumpsum   Kind = "lumpsum"
	KindRD        Kind = "rd"
	KindFD        Kind = "fd"
	KindSWP       Kind = "swp"
	KindGoal      Kind = "goal"
	KindEMI       Kind = "emi"
	KindIncomeTax Kind = "income_tax"
	KindPPF       Kind = "ppf"
)

// AllKinds lists every supported calculator in display order.
var AllKinds = []Kind{KindSIP, KindLumpsum, KindRD, KindFD, KindSWP, KindGoal, KindEMI, KindIncomeTax, KindPPF}

// ParseKind resolves a kind name case-insensitively.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	if k == "tax" {
		k = KindIncomeTax
	}
	for _, known := range AllKinds {
		if k == known {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// Frequency is the number of contribution or withdrawal periods per year
type Frequency int

const (
	Yearly     Frequency = 1
	HalfYearly Frequency = 2
	Quarterly  Frequency = 4
	Monthly    Frequency = 12
)

var frequencyNames = map[Frequency]string{
	Yearly:     "yearly",
	HalfYearly: "half-yearly",
	Quarterly:  "quarterly",
	Monthly:    "monthly",
}

// ParseFrequency accepts either a name (monthly, quarterly, half-yearly,
// yearly) or the period count (12, 4, 2, 1).
func ParseFrequency(s string) (Frequency, error) {
	n := strings.ToLower(strings.TrimSpace(s))
	switch n {
	case "annual", "annually":
		return Yearly, nil
	case "half_yearly", "halfyearly", "semi-annual":
		return HalfYearly, nil
	}
	for f, name := range frequencyNames {
		if n == name {
			return f, nil
		}
	}
	if v, err := strconv.Atoi(n); err == nil && Frequency(v).Valid() {
		return Frequency(v), nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnsupportedFrequency, s)
}

// Valid reports whether f is one of the four supported frequencies.
func (f Frequency) Valid() bool {
	_, ok := frequencyNames[f]
	return ok
}

func (f Frequency) String() string {
	if name, ok := frequencyNames[f]; ok {
		return name
	}
	return strconv.Itoa(int(f))
}

func (f Frequency) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

func (f *Frequency) UnmarshalText(text []byte) error {
	parsed, err := ParseFrequency(string(text))
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

// UnmarshalJSON accepts both "monthly" and 12.
func (f *Frequency) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "null" {
		return nil
	}
	return f.UnmarshalText([]byte(s))
}

// StepUpMode selects how an annual step-up is applied
type StepUpMode string

const (
	StepUpNone     StepUpMode = ""
	StepUpPercent  StepUpMode = "percent"
	StepUpAbsolute StepUpMode = "absolute"
)

// StepUp is an annual increase applied to a periodic amount.
// In percent mode Value is a fraction (0.10 = 10%).
type StepUp struct {
	Mode  StepUpMode      `yaml:"mode,omitempty" json:"mode,omitempty"`
	Value decimal.Decimal `yaml:"value,omitempty" json:"value"`
}

// Apply returns the amount for the following year.
func (s StepUp) Apply(amount decimal.Decimal) decimal.Decimal {
	switch s.Mode {
	case StepUpPercent:
		return amount.Mul(decimal.NewFromInt(1).Add(s.Value))
	case StepUpAbsolute:
		return amount.Add(s.Value)
	default:
		return amount
	}
}

// IsSet reports whether the step-up changes anything.
func (s StepUp) IsSet() bool {
	return s.Mode != StepUpNone && !s.Value.IsZero()
}

// AccumulationInput drives SIP and RD projections
type AccumulationInput struct {
	Contribution      decimal.Decimal `yaml:"contribution" json:"contribution"`
	InitialInvestment decimal.Decimal `yaml:"initial_investment,omitempty" json:"initial_investment"`
	AnnualRate        decimal.Decimal `yaml:"annual_rate" json:"annual_rate"`
	Frequency         Frequency       `yaml:"frequency" json:"frequency"`
	Years             int             `yaml:"years" json:"years"`
	StepUp            StepUp          `yaml:"step_up,omitempty" json:"step_up"`
	Inflation         decimal.Decimal `yaml:"inflation,omitempty" json:"inflation"`
	TaxRate           decimal.Decimal `yaml:"tax_rate,omitempty" json:"tax_rate"`
}

// LumpsumInput drives lumpsum and FD projections
type LumpsumInput struct {
	Principal   decimal.Decimal `yaml:"principal" json:"principal"`
	AnnualRate  decimal.Decimal `yaml:"annual_rate" json:"annual_rate"`
	Years       int             `yaml:"years" json:"years"`
	Compounding Frequency       `yaml:"compounding,omitempty" json:"compounding,omitempty"`
	Inflation   decimal.Decimal `yaml:"inflation,omitempty" json:"inflation"`
	TaxRate     decimal.Decimal `yaml:"tax_rate,omitempty" json:"tax_rate"`
}

// WithdrawalInput drives SWP projections
type WithdrawalInput struct {
	Corpus     decimal.Decimal `yaml:"corpus" json:"corpus"`
	Withdrawal decimal.Decimal `yaml:"withdrawal" json:"withdrawal"`
	AnnualRate decimal.Decimal `yaml:"annual_rate" json:"annual_rate"`
	Frequency  Frequency       `yaml:"frequency" json:"frequency"`
	Years      int             `yaml:"years" json:"years"`
	StepUp     StepUp          `yaml:"step_up,omitempty" json:"step_up"`
	Inflation  decimal.Decimal `yaml:"inflation,omitempty" json:"inflation"`
}

// GoalInput drives the required-contribution solver
type GoalInput struct {
	Target     decimal.Decimal `yaml:"target" json:"target"`
	AnnualRate decimal.Decimal `yaml:"annual_rate" json:"annual_rate"`
	Months     int             `yaml:"months" json:"months"`
	Inflation  decimal.Decimal `yaml:"inflation,omitempty" json:"inflation"`
}

// PrepaymentMode selects the loan prepayment schedule
type PrepaymentMode string

const (
	PrepaymentNone      PrepaymentMode = ""
	PrepaymentRecurring PrepaymentMode = "recurring"
	PrepaymentOneTime   PrepaymentMode = "one_time"
)

// Prepayment describes extra principal paid on top of the EMI
type Prepayment struct {
	Mode        PrepaymentMode  `yaml:"mode,omitempty" json:"mode,omitempty"`
	Amount      decimal.Decimal `yaml:"amount,omitempty" json:"amount"`
	EveryMonths int             `yaml:"every_months,omitempty" json:"every_months,omitempty"`
	AtMonth     int             `yaml:"at_month,omitempty" json:"at_month,omitempty"`
}

// LoanInput drives the EMI amortization simulator
type LoanInput struct {
	Principal  decimal.Decimal `yaml:"principal" json:"principal"`
	AnnualRate decimal.Decimal `yaml:"annual_rate" json:"annual_rate"`
	Months     int             `yaml:"months" json:"months"`
	Prepayment Prepayment      `yaml:"prepayment,omitempty" json:"prepayment"`
}

// Deductions are the old-regime deduction claims before caps are applied
type Deductions struct {
	Section80C       decimal.Decimal `yaml:"section_80c,omitempty" json:"section_80c"`
	HomeLoanInterest decimal.Decimal `yaml:"home_loan_interest,omitempty" json:"home_loan_interest"`
	NPS              decimal.Decimal `yaml:"nps,omitempty" json:"nps"`
	Other            decimal.Decimal `yaml:"other,omitempty" json:"other"`
}

// TaxInput drives the regime comparator. BirthDate, when present, takes
// precedence over Age.
type TaxInput struct {
	GrossSalary    decimal.Decimal `yaml:"gross_salary" json:"gross_salary"`
	Deductions     Deductions      `yaml:"deductions,omitempty" json:"deductions"`
	Age            int             `yaml:"age,omitempty" json:"age,omitempty"`
	BirthDate      *time.Time      `yaml:"birth_date,omitempty" json:"birth_date,omitempty"`
	AssessmentDate *time.Time      `yaml:"assessment_date,omitempty" json:"assessment_date,omitempty"`
}

// AssessedAt is the date the taxpayer's age is judged at: the assessment
// date when given, else today.
func (in *TaxInput) AssessedAt() time.Time {
	if in.AssessmentDate != nil {
		return *in.AssessmentDate
	}
	return dateutil.Now()
}

// ExtensionMode controls contributions during PPF extension blocks
type ExtensionMode string

const (
	ExtensionContinue ExtensionMode = "continue"
	ExtensionFreeze   ExtensionMode = "freeze"
)

// PPFInput drives the PPF lock-in accumulator
type PPFInput struct {
	YearlyContribution decimal.Decimal `yaml:"yearly_contribution" json:"yearly_contribution"`
	AnnualRate         decimal.Decimal `yaml:"annual_rate" json:"annual_rate"`
	ExtensionBlocks    int             `yaml:"extension_blocks,omitempty" json:"extension_blocks,omitempty"`
	ExtensionMode      ExtensionMode   `yaml:"extension_mode,omitempty" json:"extension_mode,omitempty"`
	Inflation          decimal.Decimal `yaml:"inflation,omitempty" json:"inflation"`
	StartDate          *time.Time      `yaml:"start_date,omitempty" json:"start_date,omitempty"`
}

// ScenarioInput is a tagged union: Kind selects which one of the parameter
// blocks is read. SIP and RD share Accumulation; lumpsum and FD share Lumpsum.
type ScenarioInput struct {
	Kind         Kind               `yaml:"kind" json:"kind"`
	Accumulation *AccumulationInput `yaml:"accumulation,omitempty" json:"accumulation,omitempty"`
	Lumpsum      *LumpsumInput      `yaml:"lumpsum,omitempty" json:"lumpsum,omitempty"`
	Withdrawal   *WithdrawalInput   `yaml:"withdrawal,omitempty" json:"withdrawal,omitempty"`
	Goal         *GoalInput         `yaml:"goal,omitempty" json:"goal,omitempty"`
	Loan         *LoanInput         `yaml:"loan,omitempty" json:"loan,omitempty"`
	Tax          *TaxInput          `yaml:"tax,omitempty" json:"tax,omitempty"`
	PPF          *PPFInput          `yaml:"ppf,omitempty" json:"ppf,omitempty"`
}

func NewSIP(in AccumulationInput) ScenarioInput {
	return ScenarioInput{Kind: KindSIP, Accumulation: &in}
}

func NewRD(in AccumulationInput) ScenarioInput {
	return ScenarioInput{Kind: KindRD, Accumulation: &in}
}

func NewLumpsum(in LumpsumInput) ScenarioInput {
	return ScenarioInput{Kind: KindLumpsum, Lumpsum: &in}
}

func NewFD(in LumpsumInput) ScenarioInput {
	return ScenarioInput{Kind: KindFD, Lumpsum: &in}
}

func NewSWP(in WithdrawalInput) ScenarioInput {
	return ScenarioInput{Kind: KindSWP, Withdrawal: &in}
}

func NewGoal(in GoalInput) ScenarioInput {
	return ScenarioInput{Kind: KindGoal, Goal: &in}
}

func NewEMI(in LoanInput) ScenarioInput {
	return ScenarioInput{Kind: KindEMI, Loan: &in}
}

func NewIncomeTax(in TaxInput) ScenarioInput {
	return ScenarioInput{Kind: KindIncomeTax, Tax: &in}
}

func NewPPF(in PPFInput) ScenarioInput {
	return ScenarioInput{Kind: KindPPF, PPF: &in}
}

// Validate checks the union is well formed: a known kind with exactly its own
// parameter block set. Numeric ranges are checked by the config layer.
func (s ScenarioInput) Validate() error {
	if _, err := ParseKind(string(s.Kind)); err != nil {
		return err
	}
	if !s.hasVariantFor(s.Kind) {
		return fmt.Errorf("%w for kind %q", ErrMissingVariant, s.Kind)
	}
	if s.variantCount() > 1 {
		return fmt.Errorf("%w (kind %q)", ErrAmbiguousVariant, s.Kind)
	}
	return nil
}

func (s ScenarioInput) hasVariantFor(k Kind) bool {
	switch k {
	case KindSIP, KindRD:
		return s.Accumulation != nil
	case KindLumpsum, KindFD:
		return s.Lumpsum != nil
	case KindSWP:
		return s.Withdrawal != nil
	case KindGoal:
		return s.Goal != nil
	case KindEMI:
		return s.Loan != nil
	case KindIncomeTax:
		return s.Tax != nil
	case KindPPF:
		return s.PPF != nil
	}
	return false
}

func (s ScenarioInput) variantCount() int {
	n := 0
	for _, set := range []bool{
		s.Accumulation != nil, s.Lumpsum != nil, s.Withdrawal != nil,
		s.Goal != nil, s.Loan != nil, s.Tax != nil, s.PPF != nil,
	} {
		if set {
			n++
		}
	}
	return n
}
