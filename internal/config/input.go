package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hjson/hjson-go/v4"
	"github.com/rpgo/fincalc/internal/domain"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// File formats understood by Parse
const (
	FormatYAML  = "yaml"
	FormatHJSON = "hjson"
)

const (
	maxYears         = 100
	maxLoanMonths    = 600
	maxGoalMonths    = 1200
	maxTaxpayerAge   = 130
	maxPPFExtensions = 4
)

var (
	minRate       = decimal.NewFromFloat(-0.5)
	maxRate       = decimal.NewFromInt(1)
	minInflation  = decimal.NewFromFloat(-0.10)
	maxInflation  = decimal.NewFromFloat(0.20)
	minPPFDeposit = decimal.NewFromInt(500)
	maxPPFDeposit = decimal.NewFromInt(150000)
)

// InputParser handles parsing of scenario files
type InputParser struct{}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{}
}

// FormatForPath picks the decoder from the file extension. JSON is read
// with the HJSON decoder, which accepts plain JSON as well.
func FormatForPath(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".hjson", ".json":
		return FormatHJSON
	default:
		return FormatYAML
	}
}

// LoadFromFile loads configuration from a YAML, HJSON or JSON file
func (ip *InputParser) LoadFromFile(filename string) (*domain.Configuration, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return ip.Parse(data, FormatForPath(filename))
}

// Parse decodes and validates a configuration document
func (ip *InputParser) Parse(data []byte, format string) (*domain.Configuration, error) {
	var config domain.Configuration
	switch format {
	case FormatHJSON:
		if err := decodeHJSON(data, &config); err != nil {
			return nil, err
		}
	case FormatYAML, "":
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown configuration format %q", format)
	}

	if err := ip.ValidateConfiguration(&config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &config, nil
}

// decodeHJSON converts HJSON to standard JSON and decodes that, so the
// domain types' JSON unmarshalers apply.
func decodeHJSON(data []byte, out *domain.Configuration) error {
	var generic interface{}
	if err := hjson.Unmarshal(data, &generic); err != nil {
		return fmt.Errorf("failed to parse HJSON: %w", err)
	}
	normalized, err := json.Marshal(generic)
	if err != nil {
		return fmt.Errorf("failed to normalize HJSON: %w", err)
	}
	if err := json.Unmarshal(normalized, out); err != nil {
		return fmt.Errorf("failed to decode configuration: %w", err)
	}
	return nil
}

// ValidateConfiguration validates the loaded configuration
func (ip *InputParser) ValidateConfiguration(config *domain.Configuration) error {
	if len(config.Scenarios) == 0 {
		return fmt.Errorf("no scenarios provided")
	}

	if err := validateInflation("assumptions.inflation", config.Assumptions.Inflation); err != nil {
		return err
	}

	if config.TaxRules != nil {
		if err := validateTaxRules(config.TaxRules); err != nil {
			return fmt.Errorf("tax rules validation failed: %w", err)
		}
	}

	seen := make(map[string]bool, len(config.Scenarios))
	for i, scenario := range config.Scenarios {
		if scenario.Name == "" {
			return fmt.Errorf("scenario %d: name is required", i)
		}
		if seen[scenario.Name] {
			return fmt.Errorf("scenario %d: duplicate name %q", i, scenario.Name)
		}
		seen[scenario.Name] = true

		if err := ip.ValidateScenario(scenario.ScenarioInput); err != nil {
			return fmt.Errorf("scenario %q validation failed: %w", scenario.Name, err)
		}
	}
	return nil
}

// ValidateScenario checks the numeric contract of a single scenario. The
// engine assumes these ranges hold.
func (ip *InputParser) ValidateScenario(s domain.ScenarioInput) error {
	if err := s.Validate(); err != nil {
		return err
	}

	switch s.Kind {
	case domain.KindSIP, domain.KindRD:
		return validateAccumulation(s.Accumulation)
	case domain.KindLumpsum, domain.KindFD:
		return validateLumpsum(s.Lumpsum)
	case domain.KindSWP:
		return validateWithdrawal(s.Withdrawal)
	case domain.KindGoal:
		return validateGoal(s.Goal)
	case domain.KindEMI:
		return validateLoan(s.Loan)
	case domain.KindIncomeTax:
		return validateTax(s.Tax)
	case domain.KindPPF:
		return validatePPF(s.PPF)
	}
	return nil
}

func validateAccumulation(in *domain.AccumulationInput) error {
	if !in.Contribution.IsPositive() {
		return fmt.Errorf("contribution must be positive")
	}
	if in.InitialInvestment.IsNegative() {
		return fmt.Errorf("initial investment cannot be negative")
	}
	switch in.Frequency {
	case domain.Monthly, domain.Quarterly, domain.HalfYearly:
	default:
		return fmt.Errorf("%w: contributions must be monthly, quarterly or half-yearly, got %s",
			domain.ErrUnsupportedFrequency, in.Frequency)
	}
	if err := validateYears(in.Years, 0); err != nil {
		return err
	}
	if err := validateRate("annual rate", in.AnnualRate); err != nil {
		return err
	}
	if err := validateStepUp(in.StepUp); err != nil {
		return err
	}
	if err := validateInflation("inflation", in.Inflation); err != nil {
		return err
	}
	return validateFraction("tax rate", in.TaxRate)
}

func validateLumpsum(in *domain.LumpsumInput) error {
	if !in.Principal.IsPositive() {
		return fmt.Errorf("principal must be positive")
	}
	if in.Compounding != 0 && !in.Compounding.Valid() {
		return fmt.Errorf("%w: compounding %s", domain.ErrUnsupportedFrequency, in.Compounding)
	}
	if err := validateYears(in.Years, 0); err != nil {
		return err
	}
	if err := validateRate("annual rate", in.AnnualRate); err != nil {
		return err
	}
	if err := validateInflation("inflation", in.Inflation); err != nil {
		return err
	}
	return validateFraction("tax rate", in.TaxRate)
}

func validateWithdrawal(in *domain.WithdrawalInput) error {
	if in.Corpus.IsNegative() {
		return fmt.Errorf("corpus cannot be negative")
	}
	if !in.Withdrawal.IsPositive() {
		return fmt.Errorf("withdrawal must be positive")
	}
	if !in.Frequency.Valid() {
		return fmt.Errorf("%w: withdrawals %s", domain.ErrUnsupportedFrequency, in.Frequency)
	}
	if err := validateYears(in.Years, 1); err != nil {
		return err
	}
	if err := validateRate("annual rate", in.AnnualRate); err != nil {
		return err
	}
	if err := validateStepUp(in.StepUp); err != nil {
		return err
	}
	return validateInflation("inflation", in.Inflation)
}

func validateGoal(in *domain.GoalInput) error {
	if !in.Target.IsPositive() {
		return fmt.Errorf("target must be positive")
	}
	if in.Months < 1 || in.Months > maxGoalMonths {
		return fmt.Errorf("months must be between 1 and %d", maxGoalMonths)
	}
	if in.AnnualRate.IsNegative() {
		return fmt.Errorf("annual rate cannot be negative for a goal")
	}
	if err := validateRate("annual rate", in.AnnualRate); err != nil {
		return err
	}
	return validateInflation("inflation", in.Inflation)
}

func validateLoan(in *domain.LoanInput) error {
	if !in.Principal.IsPositive() {
		return fmt.Errorf("principal must be positive")
	}
	if in.Months < 1 || in.Months > maxLoanMonths {
		return fmt.Errorf("months must be between 1 and %d", maxLoanMonths)
	}
	if in.AnnualRate.IsNegative() || in.AnnualRate.GreaterThan(maxRate) {
		return fmt.Errorf("annual rate must be between 0 and 100%%")
	}

	p := in.Prepayment
	if p.Amount.IsNegative() {
		return fmt.Errorf("prepayment amount cannot be negative")
	}
	switch p.Mode {
	case domain.PrepaymentNone:
	case domain.PrepaymentRecurring:
		if p.EveryMonths < 1 {
			return fmt.Errorf("recurring prepayment needs every_months of at least 1")
		}
	case domain.PrepaymentOneTime:
		if p.AtMonth < 1 || p.AtMonth > in.Months {
			return fmt.Errorf("one-time prepayment month must be between 1 and %d", in.Months)
		}
	default:
		return fmt.Errorf("prepayment mode must be 'recurring' or 'one_time', got %q", p.Mode)
	}
	return nil
}

func validateTax(in *domain.TaxInput) error {
	if in.GrossSalary.IsNegative() {
		return fmt.Errorf("gross salary cannot be negative")
	}
	d := in.Deductions
	for name, v := range map[string]decimal.Decimal{
		"section 80C": d.Section80C, "home loan interest": d.HomeLoanInterest, "NPS": d.NPS, "other deductions": d.Other,
	} {
		if v.IsNegative() {
			return fmt.Errorf("%s cannot be negative", name)
		}
	}
	if in.Age < 0 || in.Age > maxTaxpayerAge {
		return fmt.Errorf("age must be between 0 and %d", maxTaxpayerAge)
	}
	if in.BirthDate != nil {
		if in.BirthDate.After(in.AssessedAt()) {
			return fmt.Errorf("birth date cannot be after the assessment date")
		}
	}
	return nil
}

func validatePPF(in *domain.PPFInput) error {
	if in.YearlyContribution.LessThan(minPPFDeposit) || in.YearlyContribution.GreaterThan(maxPPFDeposit) {
		return fmt.Errorf("yearly contribution must be between %s and %s", minPPFDeposit, maxPPFDeposit)
	}
	if in.AnnualRate.IsNegative() {
		return fmt.Errorf("annual rate cannot be negative")
	}
	if err := validateRate("annual rate", in.AnnualRate); err != nil {
		return err
	}
	if in.ExtensionBlocks < 0 || in.ExtensionBlocks > maxPPFExtensions {
		return fmt.Errorf("extension blocks must be between 0 and %d", maxPPFExtensions)
	}
	switch in.ExtensionMode {
	case "", domain.ExtensionContinue, domain.ExtensionFreeze:
	default:
		return fmt.Errorf("extension mode must be 'continue' or 'freeze', got %q", in.ExtensionMode)
	}
	return validateInflation("inflation", in.Inflation)
}

func validateTaxRules(rules *domain.TaxRules) error {
	if rules.CessRate != nil {
		if err := validateFraction("cess rate", *rules.CessRate); err != nil {
			return err
		}
	}
	caps := []struct {
		name  string
		value *decimal.Decimal
	}{
		{"80C cap", rules.Caps.Section80C},
		{"home loan interest cap", rules.Caps.HomeLoanInterest},
		{"NPS cap", rules.Caps.NPS},
	}
	for _, c := range caps {
		if c.value != nil && c.value.IsNegative() {
			return fmt.Errorf("%s cannot be negative", c.name)
		}
	}
	for regime, r := range map[string]domain.RegimeRules{"old": rules.Old, "new": rules.New} {
		for _, set := range [][]domain.TaxSlab{r.Slabs, r.SeniorSlabs, r.SuperSeniorSlabs} {
			if err := validateSlabs(set); err != nil {
				return fmt.Errorf("%s regime: %w", regime, err)
			}
		}
	}
	return nil
}

// validateSlabs requires contiguous, ascending slabs with only the last one
// left open-ended.
func validateSlabs(slabs []domain.TaxSlab) error {
	for i, s := range slabs {
		if err := validateFraction("slab rate", s.Rate); err != nil {
			return err
		}
		last := i == len(slabs)-1
		if s.Max.IsZero() && !last {
			return fmt.Errorf("slab %d: only the last slab may be open-ended", i)
		}
		if !s.Max.IsZero() && s.Max.LessThanOrEqual(s.Min) {
			return fmt.Errorf("slab %d: max must exceed min", i)
		}
		if i > 0 && !s.Min.Equal(slabs[i-1].Max) {
			return fmt.Errorf("slab %d: min %s does not continue from %s", i, s.Min, slabs[i-1].Max)
		}
	}
	return nil
}

func validateYears(years, lowest int) error {
	if years < lowest || years > maxYears {
		return fmt.Errorf("years must be between %d and %d", lowest, maxYears)
	}
	return nil
}

func validateRate(name string, rate decimal.Decimal) error {
	if rate.LessThan(minRate) || rate.GreaterThan(maxRate) {
		return fmt.Errorf("%s must be between -50%% and 100%%, got %s%%", name, percent(rate))
	}
	return nil
}

func validateInflation(name string, rate decimal.Decimal) error {
	if rate.LessThan(minInflation) || rate.GreaterThan(maxInflation) {
		return fmt.Errorf("%s must be between -10%% and 20%%, got %s%%", name, percent(rate))
	}
	return nil
}

func validateFraction(name string, v decimal.Decimal) error {
	if v.IsNegative() || v.GreaterThan(decimal.NewFromInt(1)) {
		return fmt.Errorf("%s must be between 0 and 1", name)
	}
	return nil
}

func validateStepUp(s domain.StepUp) error {
	switch s.Mode {
	case domain.StepUpNone, domain.StepUpPercent, domain.StepUpAbsolute:
	default:
		return fmt.Errorf("step-up mode must be 'percent' or 'absolute', got %q", s.Mode)
	}
	if s.Value.IsNegative() {
		return fmt.Errorf("step-up value cannot be negative")
	}
	if s.Mode == domain.StepUpPercent && s.Value.GreaterThan(decimal.NewFromInt(1)) {
		return fmt.Errorf("percentage step-up cannot exceed 100%%")
	}
	return nil
}

func percent(rate decimal.Decimal) string {
	return rate.Mul(decimal.NewFromInt(100)).StringFixed(2)
}

// SaveConfiguration writes a configuration as YAML
func (ip *InputParser) SaveConfiguration(config *domain.Configuration, filename string) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to encode configuration: %w", err)
	}
	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", filename, err)
	}
	return nil
}

// CreateExampleConfiguration creates an example configuration with one
// scenario of every kind
func (ip *InputParser) CreateExampleConfiguration() *domain.Configuration {
	ppfStart, _ := time.Parse("2006-01-02", "2025-04-01")
	dec := decimal.RequireFromString

	return &domain.Configuration{
		Assumptions: domain.Assumptions{Inflation: dec("0.06")},
		Scenarios: []domain.NamedScenario{
			{Name: "Equity SIP", ScenarioInput: domain.NewSIP(domain.AccumulationInput{
				Contribution: dec("10000"),
				AnnualRate:   dec("0.12"),
				Frequency:    domain.Monthly,
				Years:        10,
				StepUp:       domain.StepUp{Mode: domain.StepUpPercent, Value: dec("0.10")},
				TaxRate:      dec("0.10"),
			})},
			{Name: "Bank RD", ScenarioInput: domain.NewRD(domain.AccumulationInput{
				Contribution: dec("10000"),
				AnnualRate:   dec("0.07"),
				Frequency:    domain.Monthly,
				Years:        10,
				TaxRate:      dec("0.30"),
			})},
			{Name: "Index fund lumpsum", ScenarioInput: domain.NewLumpsum(domain.LumpsumInput{
				Principal:  dec("1200000"),
				AnnualRate: dec("0.12"),
				Years:      10,
				TaxRate:    dec("0.10"),
			})},
			{Name: "Bank FD", ScenarioInput: domain.NewFD(domain.LumpsumInput{
				Principal:   dec("1200000"),
				AnnualRate:  dec("0.07"),
				Years:       10,
				Compounding: domain.Quarterly,
				TaxRate:     dec("0.30"),
			})},
			{Name: "PPF", ScenarioInput: domain.NewPPF(domain.PPFInput{
				YearlyContribution: dec("150000"),
				AnnualRate:         dec("0.071"),
				ExtensionBlocks:    1,
				ExtensionMode:      domain.ExtensionContinue,
				StartDate:          &ppfStart,
			})},
			{Name: "Retirement SWP", ScenarioInput: domain.NewSWP(domain.WithdrawalInput{
				Corpus:     dec("5000000"),
				Withdrawal: dec("30000"),
				AnnualRate: dec("0.08"),
				Frequency:  domain.Monthly,
				Years:      25,
				StepUp:     domain.StepUp{Mode: domain.StepUpPercent, Value: dec("0.05")},
			})},
			{Name: "Child education goal", ScenarioInput: domain.NewGoal(domain.GoalInput{
				Target:     dec("2500000"),
				AnnualRate: dec("0.12"),
				Months:     180,
				Inflation:  dec("0.08"),
			})},
			{Name: "Home loan", ScenarioInput: domain.NewEMI(domain.LoanInput{
				Principal:  dec("2000000"),
				AnnualRate: dec("0.085"),
				Months:     120,
				Prepayment: domain.Prepayment{Mode: domain.PrepaymentRecurring, Amount: dec("50000"), EveryMonths: 12},
			})},
			{Name: "Salary tax", ScenarioInput: domain.NewIncomeTax(domain.TaxInput{
				GrossSalary: dec("1500000"),
				Age:         35,
				Deductions: domain.Deductions{
					Section80C:       dec("150000"),
					HomeLoanInterest: dec("200000"),
					NPS:              dec("50000"),
				},
			})},
		},
	}
}
