package output

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/rpgo/fincalc/internal/domain"
	"github.com/shopspring/decimal"
)

// ConsoleFormatter renders the detailed console report: every scenario with
// its yearly table and product-specific breakdown.
type ConsoleFormatter struct{}

func (c ConsoleFormatter) Name() string      { return "console" }
func (c ConsoleFormatter) Extension() string { return "txt" }

func (c ConsoleFormatter) Format(results *domain.Comparison) ([]byte, error) {
	var buf bytes.Buffer
	rule := strings.Repeat("=", 81)

	fmt.Fprintln(&buf, rule)
	fmt.Fprintln(&buf, "FINANCIAL PROJECTION REPORT")
	fmt.Fprintln(&buf, rule)
	fmt.Fprintln(&buf)
	fmt.Fprintln(&buf, "KEY ASSUMPTIONS:")
	for _, a := range assumptionsFor(results) {
		fmt.Fprintf(&buf, "• %s\n", a)
	}
	fmt.Fprintln(&buf)

	for i, sc := range results.Scenarios {
		fmt.Fprintf(&buf, "SCENARIO %d: %s (%s)\n", i+1, sc.Name, kindTitle(sc.Kind))
		fmt.Fprintln(&buf, strings.Repeat("=", 50))
		if sc.Result == nil {
			fmt.Fprintln(&buf, "  (no result)")
			fmt.Fprintln(&buf)
			continue
		}
		writeScenarioDetail(&buf, sc.Kind, sc.Result)
		fmt.Fprintln(&buf)
	}

	rec := AnalyzeScenarios(results)
	if rec.ScenarioName != "" {
		fmt.Fprintln(&buf, "SUMMARY & RECOMMENDATIONS")
		fmt.Fprintln(&buf, "=========================")
		writeRecommendation(&buf, rec)
	}
	return buf.Bytes(), nil
}

func writeRecommendation(buf *bytes.Buffer, rec Recommendation) {
	basis := "final balance"
	if rec.RealTerms {
		basis = "inflation-adjusted balance"
	}
	fmt.Fprintf(buf, "Best scenario by %s: %s (%s)\n", basis, rec.ScenarioName, FormatCurrency(rec.Balance))
	if rec.RunnerUp != "" {
		fmt.Fprintf(buf, "Lead over %s: %s (%s)\n", rec.RunnerUp, FormatCurrency(rec.Lead), FormatPercentage(rec.LeadPercentage))
	}
}

func writeScenarioDetail(buf *bytes.Buffer, kind domain.Kind, r *domain.ProjectionResult) {
	switch {
	case r.Loan != nil:
		writeLoan(buf, r.Loan)
		return
	case r.Tax != nil:
		writeTax(buf, r.Tax)
		return
	}

	if r.Goal != nil {
		g := r.Goal
		fmt.Fprintf(buf, "  Target:                  %s\n", FormatCurrency(g.Target))
		if !g.InflatedTarget.Equal(g.Target) {
			fmt.Fprintf(buf, "  Inflated target:         %s\n", FormatCurrency(g.InflatedTarget))
		}
		fmt.Fprintf(buf, "  Required monthly SIP:    %s for %d months\n", FormatCurrency(g.MonthlyContribution), g.Months)
	}
	if r.PPF != nil {
		p := r.PPF
		fmt.Fprintf(buf, "  Tenure:                  %d years (%d lock-in + %d extension, %s)\n",
			p.TotalYears, p.LockInYears, p.ExtensionYears, p.ExtensionMode)
		if p.MaturityDate != nil {
			fmt.Fprintf(buf, "  Maturity date:           %s\n", p.MaturityDate.Format("02 Jan 2006"))
		}
	}

	fmt.Fprintf(buf, "  Total contributed:       %s\n", FormatCurrency(r.TotalContributed))
	if kind == domain.KindSWP {
		fmt.Fprintf(buf, "  Total withdrawn:         %s\n", FormatCurrency(r.TotalWithdrawn))
	}
	fmt.Fprintf(buf, "  Total growth:            %s\n", FormatCurrency(r.TotalGrowth))
	fmt.Fprintf(buf, "  Final balance:           %s (%s)\n", FormatCurrency(r.FinalBalance), FormatCompact(r.FinalBalance))
	if r.PostTaxBalance != nil {
		fmt.Fprintf(buf, "  After tax:               %s\n", FormatCurrency(*r.PostTaxBalance))
	}
	if r.RealBalance != nil {
		fmt.Fprintf(buf, "  In today's money:        %s\n", FormatCurrency(*r.RealBalance))
	}
	if r.IsExhausted() {
		fmt.Fprintf(buf, "  Corpus exhausted after:  %s years\n", r.ExhaustedAt.StringFixed(2))
	}

	if len(r.Snapshots) == 0 {
		return
	}
	fmt.Fprintln(buf)
	fmt.Fprintf(buf, "  %-12s %18s %18s %18s %18s %18s\n", "YEAR", "OPENING", "CONTRIBUTED", "WITHDRAWN", "GROWTH", "CLOSING")
	fmt.Fprintln(buf, "  "+strings.Repeat("-", 117))
	for _, s := range r.Snapshots {
		fmt.Fprintf(buf, "  %-12s %18s %18s %18s %18s %18s\n", periodLabel(s),
			FormatCurrency(s.Opening), FormatCurrency(s.Contributed), FormatCurrency(s.Withdrawn),
			FormatCurrency(s.Growth), FormatCurrency(s.Closing))
	}
}

func writeLoan(buf *bytes.Buffer, l *domain.LoanSummary) {
	fmt.Fprintf(buf, "  Monthly EMI:             %s\n", FormatCurrency(l.EMI))
	fmt.Fprintf(buf, "  Tenure:                  %d months", l.MonthsNeeded)
	if saved := l.MonthsSaved(); saved > 0 {
		fmt.Fprintf(buf, " (%d months saved)", saved)
	}
	fmt.Fprintln(buf)
	fmt.Fprintf(buf, "  Total interest:          %s\n", FormatCurrency(l.TotalInterest))
	fmt.Fprintf(buf, "  Total paid:              %s\n", FormatCurrency(l.TotalPayment))
	if l.TotalPrepaid.IsPositive() {
		fmt.Fprintf(buf, "  Prepaid:                 %s\n", FormatCurrency(l.TotalPrepaid))
		fmt.Fprintf(buf, "  Interest saved:          %s\n", FormatCurrency(l.InterestSaved))
	}

	fmt.Fprintln(buf)
	fmt.Fprintf(buf, "  %-6s %18s %18s %18s %18s\n", "YEAR", "PAID", "INTEREST", "PRINCIPAL", "OUTSTANDING")
	fmt.Fprintln(buf, "  "+strings.Repeat("-", 82))
	for _, y := range loanYears(l.Schedule) {
		fmt.Fprintf(buf, "  %-6d %18s %18s %18s %18s\n", y.year,
			FormatCurrency(y.paid), FormatCurrency(y.interest), FormatCurrency(y.principal), FormatCurrency(y.closing))
	}
}

func writeTax(buf *bytes.Buffer, t *domain.TaxComparison) {
	fmt.Fprintf(buf, "  %-22s %18s %18s\n", "", "OLD REGIME", "NEW REGIME")
	fmt.Fprintln(buf, "  "+strings.Repeat("-", 60))
	line := func(label string, pick func(domain.RegimeTax) string) {
		fmt.Fprintf(buf, "  %-22s %18s %18s\n", label, pick(t.Old), pick(t.New))
	}
	line("Gross income", func(r domain.RegimeTax) string { return FormatCurrency(r.GrossIncome) })
	line("Deductions", func(r domain.RegimeTax) string { return FormatCurrency(r.Deductions) })
	line("Taxable income", func(r domain.RegimeTax) string { return FormatCurrency(r.TaxableIncome) })
	line("Slab tax", func(r domain.RegimeTax) string { return FormatCurrency(r.SlabTax) })
	line("Rebate", func(r domain.RegimeTax) string { return FormatCurrency(r.Rebate) })
	line("Cess", func(r domain.RegimeTax) string { return FormatCurrency(r.Cess) })
	line("TOTAL TAX", func(r domain.RegimeTax) string { return FormatCurrency(r.Total) })
	fmt.Fprintln(buf)
	fmt.Fprintln(buf, "  "+taxVerdict(t))
}

func taxVerdict(t *domain.TaxComparison) string {
	if t.Cheaper == "equal" {
		return "Both regimes cost the same."
	}
	return fmt.Sprintf("The %s regime is cheaper by %s.", t.Cheaper, FormatCurrency(t.Savings))
}

// loanYear rolls twelve schedule rows into one line.
type loanYear struct {
	year                               int
	paid, interest, principal, closing decimal.Decimal
}

func loanYears(schedule []domain.AmortizationRow) []loanYear {
	var years []loanYear
	for _, row := range schedule {
		y := (row.Month-1)/12 + 1
		if len(years) == 0 || years[len(years)-1].year != y {
			years = append(years, loanYear{year: y})
		}
		cur := &years[len(years)-1]
		cur.paid = cur.paid.Add(row.Payment).Add(row.Prepayment)
		cur.interest = cur.interest.Add(row.Interest)
		cur.principal = cur.principal.Add(row.Principal).Add(row.Prepayment)
		cur.closing = row.Closing
	}
	return years
}

func periodLabel(s domain.PeriodSnapshot) string {
	if s.Label != "" {
		return s.Label
	}
	return intToString(s.Period)
}

var kindTitles = map[domain.Kind]string{
	domain.KindSIP:       "SIP",
	domain.KindRD:        "Recurring deposit",
	domain.KindLumpsum:   "Lumpsum",
	domain.KindFD:        "Fixed deposit",
	domain.KindSWP:       "Systematic withdrawal",
	domain.KindGoal:      "Goal planner",
	domain.KindEMI:       "Loan EMI",
	domain.KindIncomeTax: "Income tax",
	domain.KindPPF:       "PPF",
}

func kindTitle(k domain.Kind) string {
	if t, ok := kindTitles[k]; ok {
		return t
	}
	return string(k)
}

// ConsoleLiteFormatter provides a concise one-line-per-scenario summary.
type ConsoleLiteFormatter struct{}

func (c ConsoleLiteFormatter) Name() string      { return "console-lite" }
func (c ConsoleLiteFormatter) Extension() string { return "txt" }

func (c ConsoleLiteFormatter) Format(results *domain.Comparison) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintln(&buf, "SCENARIO SUMMARY")
	fmt.Fprintln(&buf, "================================")
	for _, sc := range results.Scenarios {
		if sc.Result == nil {
			continue
		}
		r := sc.Result
		switch {
		case r.Loan != nil:
			fmt.Fprintf(&buf, "%s: EMI=%s Interest=%s Months=%d\n", sc.Name,
				FormatCurrency(r.Loan.EMI), FormatCurrency(r.Loan.TotalInterest), r.Loan.MonthsNeeded)
		case r.Tax != nil:
			fmt.Fprintf(&buf, "%s: Old=%s New=%s Cheaper=%s\n", sc.Name,
				FormatCurrency(r.Tax.Old.Total), FormatCurrency(r.Tax.New.Total), r.Tax.Cheaper)
		case r.Goal != nil:
			fmt.Fprintf(&buf, "%s: Monthly=%s Target=%s\n", sc.Name,
				FormatCurrency(r.Goal.MonthlyContribution), FormatCurrency(r.Goal.InflatedTarget))
		default:
			fmt.Fprintf(&buf, "%s: Final=%s Contributed=%s Real=%s\n", sc.Name,
				FormatCurrency(r.FinalBalance), FormatCurrency(r.TotalContributed), formatOptional(r.RealBalance))
		}
	}
	if rec := AnalyzeScenarios(results); rec.ScenarioName != "" {
		fmt.Fprintln(&buf)
		fmt.Fprintf(&buf, "Recommended: %s (lead %s / %s)\n", rec.ScenarioName, FormatCurrency(rec.Lead), FormatPercentage(rec.LeadPercentage))
	}
	return buf.Bytes(), nil
}
