package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// NamedScenario is a scenario entry in a configuration file
type NamedScenario struct {
	Name          string `yaml:"name" json:"name"`
	ScenarioInput `yaml:",inline"`
}

// Assumptions apply to every scenario that does not override them
type Assumptions struct {
	// Inflation is used by scenarios that leave their own inflation unset.
	Inflation decimal.Decimal `yaml:"inflation,omitempty" json:"inflation"`
}

// Apply returns a copy of the input with the default inflation filled in
// where the scenario sets none. The input itself is never modified.
func (a Assumptions) Apply(in ScenarioInput) ScenarioInput {
	if a.Inflation.IsZero() {
		return in
	}
	switch {
	case in.Accumulation != nil && in.Accumulation.Inflation.IsZero():
		v := *in.Accumulation
		v.Inflation = a.Inflation
		in.Accumulation = &v
	case in.Lumpsum != nil && in.Lumpsum.Inflation.IsZero():
		v := *in.Lumpsum
		v.Inflation = a.Inflation
		in.Lumpsum = &v
	case in.Withdrawal != nil && in.Withdrawal.Inflation.IsZero():
		v := *in.Withdrawal
		v.Inflation = a.Inflation
		in.Withdrawal = &v
	case in.PPF != nil && in.PPF.Inflation.IsZero():
		v := *in.PPF
		v.Inflation = a.Inflation
		in.PPF = &v
	}
	return in
}

// Configuration is the top level of a scenario file
type Configuration struct {
	Assumptions Assumptions     `yaml:"assumptions,omitempty" json:"assumptions"`
	TaxRules    *TaxRules       `yaml:"tax_rules,omitempty" json:"tax_rules,omitempty"`
	Scenarios   []NamedScenario `yaml:"scenarios" json:"scenarios"`
}

// Describe lists the modelling assumptions shown in reports
func (a Assumptions) Describe() []string {
	lines := []string{
		"Contributions are invested at the start of each period (annuity-due)",
		"Step-ups apply once per completed year",
		"Gains are taxed once, at maturity, at the flat slab rate given",
	}
	if !a.Inflation.IsZero() {
		lines = append(lines, fmt.Sprintf("Default inflation: %s%% annually", a.Inflation.Mul(decimal.NewFromInt(100)).StringFixed(2)))
	}
	return lines
}

// ScenarioOutcome pairs a named scenario with its projection
type ScenarioOutcome struct {
	Name string `json:"name"`
	Kind Kind   `json:"kind"`
	// Input is the scenario as projected, with configured defaults applied.
	Input  ScenarioInput     `json:"input"`
	Result *ProjectionResult `json:"result"`
}

// Comparison is the result of projecting every scenario in a configuration
type Comparison struct {
	Scenarios          []ScenarioOutcome `json:"scenarios"`
	BestByFinalBalance string            `json:"best_by_final_balance,omitempty"`
	BestByRealBalance  string            `json:"best_by_real_balance,omitempty"`
	Assumptions        []string          `json:"assumptions"`
}
