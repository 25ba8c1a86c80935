package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rpgo/fincalc/internal/domain"
	"github.com/shopspring/decimal"
)

// Query keys. Rates, inflation, tax and percentage step-ups are written as
// percentages (rate=12 means 12%); amounts are plain rupees.
const (
	keyType          = "type"
	keyAmount        = "amount"
	keyRate          = "rate"
	keyPeriod        = "period"
	keyMonths        = "months"
	keyFrequency     = "frequency"
	keyIncrease      = "increase"
	keyIncreaseType  = "increase_type"
	keyInflation     = "inflation"
	keyTax           = "tax"
	keyInitial       = "initial"
	keyCompounding   = "compounding"
	keyCorpus        = "corpus"
	keyPrepay        = "prepay"
	keyPrepayType    = "prepay_type"
	keyPrepayEvery   = "prepay_every"
	keyPrepayMonth   = "prepay_month"
	keySalary        = "salary"
	key80C           = "c80"
	keyHomeLoan      = "home_loan"
	keyNPS           = "nps"
	keyOther         = "other"
	keyAge           = "age"
	keyExtension     = "extension"
	keyExtensionMode = "extension_mode"
	keyStart         = "start"
)

const queryDateLayout = "2006-01-02"

var hundred = decimal.NewFromInt(100)

// EncodeQuery flattens a scenario into shareable query parameters
func EncodeQuery(s domain.ScenarioInput) (url.Values, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	v := url.Values{}
	v.Set(keyType, string(s.Kind))

	switch s.Kind {
	case domain.KindSIP, domain.KindRD:
		in := s.Accumulation
		v.Set(keyAmount, in.Contribution.String())
		setPercent(v, keyRate, in.AnnualRate)
		v.Set(keyPeriod, strconv.Itoa(in.Years))
		v.Set(keyFrequency, in.Frequency.String())
		setDecimal(v, keyInitial, in.InitialInvestment)
		setStepUp(v, in.StepUp)
		setPercent(v, keyInflation, in.Inflation)
		setPercent(v, keyTax, in.TaxRate)
	case domain.KindLumpsum, domain.KindFD:
		in := s.Lumpsum
		v.Set(keyAmount, in.Principal.String())
		setPercent(v, keyRate, in.AnnualRate)
		v.Set(keyPeriod, strconv.Itoa(in.Years))
		if in.Compounding != 0 {
			v.Set(keyCompounding, in.Compounding.String())
		}
		setPercent(v, keyInflation, in.Inflation)
		setPercent(v, keyTax, in.TaxRate)
	case domain.KindSWP:
		in := s.Withdrawal
		v.Set(keyCorpus, in.Corpus.String())
		v.Set(keyAmount, in.Withdrawal.String())
		setPercent(v, keyRate, in.AnnualRate)
		v.Set(keyPeriod, strconv.Itoa(in.Years))
		v.Set(keyFrequency, in.Frequency.String())
		setStepUp(v, in.StepUp)
		setPercent(v, keyInflation, in.Inflation)
	case domain.KindGoal:
		in := s.Goal
		v.Set(keyAmount, in.Target.String())
		setPercent(v, keyRate, in.AnnualRate)
		v.Set(keyMonths, strconv.Itoa(in.Months))
		setPercent(v, keyInflation, in.Inflation)
	case domain.KindEMI:
		in := s.Loan
		v.Set(keyAmount, in.Principal.String())
		setPercent(v, keyRate, in.AnnualRate)
		v.Set(keyMonths, strconv.Itoa(in.Months))
		if p := in.Prepayment; p.Mode != domain.PrepaymentNone {
			v.Set(keyPrepayType, string(p.Mode))
			v.Set(keyPrepay, p.Amount.String())
			if p.EveryMonths > 0 {
				v.Set(keyPrepayEvery, strconv.Itoa(p.EveryMonths))
			}
			if p.AtMonth > 0 {
				v.Set(keyPrepayMonth, strconv.Itoa(p.AtMonth))
			}
		}
	case domain.KindIncomeTax:
		in := s.Tax
		v.Set(keySalary, in.GrossSalary.String())
		setDecimal(v, key80C, in.Deductions.Section80C)
		setDecimal(v, keyHomeLoan, in.Deductions.HomeLoanInterest)
		setDecimal(v, keyNPS, in.Deductions.NPS)
		setDecimal(v, keyOther, in.Deductions.Other)
		if in.Age > 0 {
			v.Set(keyAge, strconv.Itoa(in.Age))
		}
	case domain.KindPPF:
		in := s.PPF
		v.Set(keyAmount, in.YearlyContribution.String())
		setPercent(v, keyRate, in.AnnualRate)
		if in.ExtensionBlocks > 0 {
			v.Set(keyExtension, strconv.Itoa(in.ExtensionBlocks))
		}
		if in.ExtensionMode != "" {
			v.Set(keyExtensionMode, string(in.ExtensionMode))
		}
		setPercent(v, keyInflation, in.Inflation)
		if in.StartDate != nil {
			v.Set(keyStart, in.StartDate.Format(queryDateLayout))
		}
	}
	return v, nil
}

// ParseQuery rebuilds a scenario from query parameters. Missing optional
// keys take their zero value; missing required keys are an error.
func ParseQuery(v url.Values) (domain.ScenarioInput, error) {
	kind, err := domain.ParseKind(v.Get(keyType))
	if err != nil {
		return domain.ScenarioInput{}, err
	}
	q := queryReader{values: v}

	var s domain.ScenarioInput
	switch kind {
	case domain.KindSIP, domain.KindRD:
		in := domain.AccumulationInput{
			Contribution:      q.amount(keyAmount, true),
			AnnualRate:        q.percent(keyRate, true),
			Years:             q.integer(keyPeriod, true),
			Frequency:         q.frequency(keyFrequency, domain.Monthly),
			InitialInvestment: q.amount(keyInitial, false),
			StepUp:            q.stepUp(),
			Inflation:         q.percent(keyInflation, false),
			TaxRate:           q.percent(keyTax, false),
		}
		if kind == domain.KindRD {
			s = domain.NewRD(in)
		} else {
			s = domain.NewSIP(in)
		}
	case domain.KindLumpsum, domain.KindFD:
		in := domain.LumpsumInput{
			Principal:   q.amount(keyAmount, true),
			AnnualRate:  q.percent(keyRate, true),
			Years:       q.integer(keyPeriod, true),
			Compounding: q.frequency(keyCompounding, 0),
			Inflation:   q.percent(keyInflation, false),
			TaxRate:     q.percent(keyTax, false),
		}
		if kind == domain.KindFD {
			s = domain.NewFD(in)
		} else {
			s = domain.NewLumpsum(in)
		}
	case domain.KindSWP:
		s = domain.NewSWP(domain.WithdrawalInput{
			Corpus:     q.amount(keyCorpus, true),
			Withdrawal: q.amount(keyAmount, true),
			AnnualRate: q.percent(keyRate, true),
			Years:      q.integer(keyPeriod, true),
			Frequency:  q.frequency(keyFrequency, domain.Monthly),
			StepUp:     q.stepUp(),
			Inflation:  q.percent(keyInflation, false),
		})
	case domain.KindGoal:
		s = domain.NewGoal(domain.GoalInput{
			Target:     q.amount(keyAmount, true),
			AnnualRate: q.percent(keyRate, true),
			Months:     q.months(),
			Inflation:  q.percent(keyInflation, false),
		})
	case domain.KindEMI:
		s = domain.NewEMI(domain.LoanInput{
			Principal:  q.amount(keyAmount, true),
			AnnualRate: q.percent(keyRate, true),
			Months:     q.months(),
			Prepayment: domain.Prepayment{
				Mode:        domain.PrepaymentMode(v.Get(keyPrepayType)),
				Amount:      q.amount(keyPrepay, false),
				EveryMonths: q.integer(keyPrepayEvery, false),
				AtMonth:     q.integer(keyPrepayMonth, false),
			},
		})
	case domain.KindIncomeTax:
		s = domain.NewIncomeTax(domain.TaxInput{
			GrossSalary: q.amount(keySalary, true),
			Deductions: domain.Deductions{
				Section80C:       q.amount(key80C, false),
				HomeLoanInterest: q.amount(keyHomeLoan, false),
				NPS:              q.amount(keyNPS, false),
				Other:            q.amount(keyOther, false),
			},
			Age: q.integer(keyAge, false),
		})
	case domain.KindPPF:
		s = domain.NewPPF(domain.PPFInput{
			YearlyContribution: q.amount(keyAmount, true),
			AnnualRate:         q.percent(keyRate, true),
			ExtensionBlocks:    q.integer(keyExtension, false),
			ExtensionMode:      domain.ExtensionMode(v.Get(keyExtensionMode)),
			Inflation:          q.percent(keyInflation, false),
			StartDate:          q.date(keyStart),
		})
	}

	if q.err != nil {
		return domain.ScenarioInput{}, q.err
	}
	return s, nil
}

func setDecimal(v url.Values, key string, d decimal.Decimal) {
	if !d.IsZero() {
		v.Set(key, d.String())
	}
}

func setPercent(v url.Values, key string, rate decimal.Decimal) {
	if !rate.IsZero() || key == keyRate {
		v.Set(key, rate.Mul(hundred).String())
	}
}

func setStepUp(v url.Values, s domain.StepUp) {
	if !s.IsSet() {
		return
	}
	v.Set(keyIncreaseType, string(s.Mode))
	if s.Mode == domain.StepUpPercent {
		v.Set(keyIncrease, s.Value.Mul(hundred).String())
		return
	}
	v.Set(keyIncrease, s.Value.String())
}

// queryReader keeps the first error so callers can read every field and
// check once.
type queryReader struct {
	values url.Values
	err    error
}

func (q *queryReader) raw(key string, required bool) (string, bool) {
	s := strings.TrimSpace(q.values.Get(key))
	if s == "" {
		if required && q.err == nil {
			q.err = fmt.Errorf("query parameter %q is required", key)
		}
		return "", false
	}
	return s, true
}

func (q *queryReader) fail(key, value string, err error) {
	if q.err == nil {
		q.err = fmt.Errorf("query parameter %q=%q: %w", key, value, err)
	}
}

func (q *queryReader) amount(key string, required bool) decimal.Decimal {
	s, ok := q.raw(key, required)
	if !ok {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		q.fail(key, s, err)
		return decimal.Zero
	}
	return d
}

func (q *queryReader) percent(key string, required bool) decimal.Decimal {
	return q.amount(key, required).Div(hundred)
}

func (q *queryReader) integer(key string, required bool) int {
	s, ok := q.raw(key, required)
	if !ok {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		q.fail(key, s, err)
	}
	return n
}

func (q *queryReader) frequency(key string, fallback domain.Frequency) domain.Frequency {
	s, ok := q.raw(key, false)
	if !ok {
		return fallback
	}
	f, err := domain.ParseFrequency(s)
	if err != nil {
		q.fail(key, s, err)
	}
	return f
}

// months reads the tenure from months=, falling back to period= in years.
func (q *queryReader) months() int {
	if _, ok := q.raw(keyMonths, false); ok {
		return q.integer(keyMonths, true)
	}
	return q.integer(keyPeriod, true) * 12
}

func (q *queryReader) stepUp() domain.StepUp {
	value := q.amount(keyIncrease, false)
	if value.IsZero() {
		return domain.StepUp{}
	}
	mode := domain.StepUpMode(q.values.Get(keyIncreaseType))
	switch mode {
	case domain.StepUpAbsolute:
		return domain.StepUp{Mode: mode, Value: value}
	case domain.StepUpPercent, "":
		return domain.StepUp{Mode: domain.StepUpPercent, Value: value.Div(hundred)}
	default:
		q.fail(keyIncreaseType, string(mode), fmt.Errorf("expected percent or absolute"))
		return domain.StepUp{}
	}
}

func (q *queryReader) date(key string) *time.Time {
	s, ok := q.raw(key, false)
	if !ok {
		return nil
	}
	t, err := time.Parse(queryDateLayout, s)
	if err != nil {
		q.fail(key, s, err)
		return nil
	}
	return &t
}
