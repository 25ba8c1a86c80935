package domain

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestParseKind(t *testing.T) {
	k, err := ParseKind(" SIP ")
	require.NoError(t, err)
	assert.Equal(t, KindSIP, k)

	k, err = ParseKind("tax")
	require.NoError(t, err)
	assert.Equal(t, KindIncomeTax, k)

	_, err = ParseKind("quiz")
	assert.True(t, errors.Is(err, ErrUnknownKind))
}

func TestParseFrequency(t *testing.T) {
	testCases := []struct {
		in   string
		want Frequency
	}{
		{"monthly", Monthly},
		{"12", Monthly},
		{"Quarterly", Quarterly},
		{"half-yearly", HalfYearly},
		{"2", HalfYearly},
		{"annual", Yearly},
		{"yearly", Yearly},
	}
	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseFrequency(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}

	_, err := ParseFrequency("6")
	assert.True(t, errors.Is(err, ErrUnsupportedFrequency))
	assert.Equal(t, "monthly", Monthly.String())
	assert.Equal(t, "7", Frequency(7).String())
}

func TestStepUpApply(t *testing.T) {
	base := decimal.NewFromInt(10000)

	pct := StepUp{Mode: StepUpPercent, Value: decimal.NewFromFloat(0.10)}
	assert.True(t, pct.Apply(base).Equal(decimal.NewFromInt(11000)))
	assert.True(t, pct.IsSet())

	abs := StepUp{Mode: StepUpAbsolute, Value: decimal.NewFromInt(500)}
	assert.True(t, abs.Apply(base).Equal(decimal.NewFromInt(10500)))

	none := StepUp{}
	assert.True(t, none.Apply(base).Equal(base))
	assert.False(t, none.IsSet())
}

func TestScenarioInputValidate(t *testing.T) {
	sip := NewSIP(AccumulationInput{Contribution: decimal.NewFromInt(1000)})
	assert.NoError(t, sip.Validate())

	rd := NewRD(AccumulationInput{})
	assert.NoError(t, rd.Validate())

	missing := ScenarioInput{Kind: KindEMI}
	assert.True(t, errors.Is(missing.Validate(), ErrMissingVariant))

	wrong := ScenarioInput{Kind: KindFD, Accumulation: &AccumulationInput{}}
	assert.True(t, errors.Is(wrong.Validate(), ErrMissingVariant))

	both := NewLumpsum(LumpsumInput{})
	both.Loan = &LoanInput{}
	assert.True(t, errors.Is(both.Validate(), ErrAmbiguousVariant))

	unknown := ScenarioInput{Kind: "crypto"}
	assert.True(t, errors.Is(unknown.Validate(), ErrUnknownKind))
}

func TestNamedScenarioYAML(t *testing.T) {
	doc := `
name: Retirement SIP
kind: sip
accumulation:
  contribution: 10000
  annual_rate: 0.12
  frequency: monthly
  years: 10
  step_up:
    mode: percent
    value: 0.1
`
	var ns NamedScenario
	require.NoError(t, yaml.Unmarshal([]byte(doc), &ns))
	assert.Equal(t, "Retirement SIP", ns.Name)
	assert.Equal(t, KindSIP, ns.Kind)
	require.NotNil(t, ns.Accumulation)
	assert.Equal(t, Monthly, ns.Accumulation.Frequency)
	assert.True(t, ns.Accumulation.AnnualRate.Equal(decimal.NewFromFloat(0.12)))
	assert.Equal(t, StepUpPercent, ns.Accumulation.StepUp.Mode)
	assert.NoError(t, ns.Validate())

	out, err := yaml.Marshal(ns)
	require.NoError(t, err)
	assert.Contains(t, string(out), "frequency: monthly")
}

func TestRegimeRulesSlabsFor(t *testing.T) {
	regular := []TaxSlab{{Rate: decimal.NewFromFloat(0.05)}}
	senior := []TaxSlab{{Rate: decimal.NewFromFloat(0.10)}}
	r := RegimeRules{Slabs: regular, SeniorSlabs: senior}

	assert.Equal(t, regular, r.SlabsFor(ProfileRegular))
	assert.Equal(t, senior, r.SlabsFor(ProfileSenior))
	assert.Equal(t, senior, r.SlabsFor(ProfileSuperSenior))

	flat := RegimeRules{Slabs: regular}
	assert.Equal(t, regular, flat.SlabsFor(ProfileSuperSenior))
}

func TestHeadlineBalance(t *testing.T) {
	final := decimal.NewFromInt(100)
	postTax := decimal.NewFromInt(90)
	realBal := decimal.NewFromInt(60)

	r := &ProjectionResult{FinalBalance: final}
	assert.True(t, r.HeadlineBalance().Equal(final))
	r.PostTaxBalance = &postTax
	assert.True(t, r.HeadlineBalance().Equal(postTax))
	r.RealBalance = &realBal
	assert.True(t, r.HeadlineBalance().Equal(realBal))
	assert.False(t, r.IsExhausted())
}

func TestLoanSummaryMonthsSaved(t *testing.T) {
	assert.Equal(t, 20, (&LoanSummary{NominalMonths: 120, MonthsNeeded: 100}).MonthsSaved())
	assert.Equal(t, 0, (&LoanSummary{NominalMonths: 120, MonthsNeeded: 120}).MonthsSaved())
}

func TestAssumptionsApply(t *testing.T) {
	a := Assumptions{Inflation: decimal.RequireFromString("0.06")}
	own := decimal.RequireFromString("0.04")

	sip := NewSIP(AccumulationInput{Contribution: decimal.NewFromInt(1000), Years: 1})
	applied := a.Apply(sip)
	assert.True(t, applied.Accumulation.Inflation.Equal(a.Inflation))
	assert.True(t, sip.Accumulation.Inflation.IsZero(), "input is not modified")

	fd := NewFD(LumpsumInput{Principal: decimal.NewFromInt(1000), Years: 1, Inflation: own})
	assert.True(t, a.Apply(fd).Lumpsum.Inflation.Equal(own), "own rate wins")

	loan := NewEMI(LoanInput{Principal: decimal.NewFromInt(1000), Months: 12})
	assert.Equal(t, loan, a.Apply(loan))

	assert.Equal(t, sip, Assumptions{}.Apply(sip))
}
