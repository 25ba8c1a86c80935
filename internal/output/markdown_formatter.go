package output

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/rpgo/fincalc/internal/domain"
)

// MarkdownFormatter renders the comparison as a GitHub-flavoured Markdown
// report. The HTML formatter is built on top of it.
type MarkdownFormatter struct{}

func (m MarkdownFormatter) Name() string      { return "markdown" }
func (m MarkdownFormatter) Extension() string { return "md" }

func (m MarkdownFormatter) Format(results *domain.Comparison) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintln(&buf, "# Financial Projection Report")
	fmt.Fprintln(&buf)

	fmt.Fprintln(&buf, "## Key Assumptions")
	fmt.Fprintln(&buf)
	for _, a := range assumptionsFor(results) {
		fmt.Fprintf(&buf, "- %s\n", a)
	}
	fmt.Fprintln(&buf)

	fmt.Fprintln(&buf, "## Scenario Summary")
	fmt.Fprintln(&buf)
	fmt.Fprintln(&buf, "| Scenario | Kind | Contributed | Final balance | After tax | Real value |")
	fmt.Fprintln(&buf, "|---|---|---:|---:|---:|---:|")
	for _, sc := range results.Scenarios {
		if sc.Result == nil {
			continue
		}
		r := sc.Result
		fmt.Fprintf(&buf, "| %s | %s | %s | %s | %s | %s |\n", escapeCell(sc.Name), kindTitle(sc.Kind),
			FormatCurrency(r.TotalContributed), FormatCurrency(r.FinalBalance),
			formatOptional(r.PostTaxBalance), formatOptional(r.RealBalance))
	}
	fmt.Fprintln(&buf)

	if rec := AnalyzeScenarios(results); rec.ScenarioName != "" {
		fmt.Fprintln(&buf, "## Recommendation")
		fmt.Fprintln(&buf)
		basis := "final balance"
		if rec.RealTerms {
			basis = "inflation-adjusted balance"
		}
		fmt.Fprintf(&buf, "**%s** leads on %s with %s.", escapeCell(rec.ScenarioName), basis, FormatCurrency(rec.Balance))
		if rec.RunnerUp != "" {
			fmt.Fprintf(&buf, " It is ahead of %s by %s (%s).", escapeCell(rec.RunnerUp), FormatCurrency(rec.Lead), FormatPercentage(rec.LeadPercentage))
		}
		fmt.Fprintln(&buf)
		fmt.Fprintln(&buf)
	}

	for _, sc := range results.Scenarios {
		if sc.Result == nil {
			continue
		}
		fmt.Fprintf(&buf, "## %s\n\n", escapeCell(sc.Name))
		writeMarkdownDetail(&buf, sc.Result)
	}
	return buf.Bytes(), nil
}

func writeMarkdownDetail(buf *bytes.Buffer, r *domain.ProjectionResult) {
	switch {
	case r.Loan != nil:
		l := r.Loan
		fmt.Fprintf(buf, "- Monthly EMI: %s\n", FormatCurrency(l.EMI))
		fmt.Fprintf(buf, "- Tenure: %d months\n", l.MonthsNeeded)
		fmt.Fprintf(buf, "- Total interest: %s\n", FormatCurrency(l.TotalInterest))
		if l.TotalPrepaid.IsPositive() {
			fmt.Fprintf(buf, "- Interest saved by prepaying %s: %s (%d months)\n",
				FormatCurrency(l.TotalPrepaid), FormatCurrency(l.InterestSaved), l.MonthsSaved())
		}
		fmt.Fprintln(buf)
		fmt.Fprintln(buf, "| Year | Paid | Interest | Principal | Outstanding |")
		fmt.Fprintln(buf, "|---:|---:|---:|---:|---:|")
		for _, y := range loanYears(l.Schedule) {
			fmt.Fprintf(buf, "| %d | %s | %s | %s | %s |\n", y.year,
				FormatCurrency(y.paid), FormatCurrency(y.interest), FormatCurrency(y.principal), FormatCurrency(y.closing))
		}
		fmt.Fprintln(buf)
		return
	case r.Tax != nil:
		t := r.Tax
		fmt.Fprintln(buf, "| | Old regime | New regime |")
		fmt.Fprintln(buf, "|---|---:|---:|")
		fmt.Fprintf(buf, "| Taxable income | %s | %s |\n", FormatCurrency(t.Old.TaxableIncome), FormatCurrency(t.New.TaxableIncome))
		fmt.Fprintf(buf, "| Rebate | %s | %s |\n", FormatCurrency(t.Old.Rebate), FormatCurrency(t.New.Rebate))
		fmt.Fprintf(buf, "| Cess | %s | %s |\n", FormatCurrency(t.Old.Cess), FormatCurrency(t.New.Cess))
		fmt.Fprintf(buf, "| **Total tax** | %s | %s |\n", FormatCurrency(t.Old.Total), FormatCurrency(t.New.Total))
		fmt.Fprintln(buf)
		fmt.Fprintln(buf, taxVerdict(t))
		fmt.Fprintln(buf)
		return
	}

	if g := r.Goal; g != nil {
		fmt.Fprintf(buf, "Invest **%s** a month for %d months to reach %s.\n\n",
			FormatCurrency(g.MonthlyContribution), g.Months, FormatCurrency(g.InflatedTarget))
	}
	if r.IsExhausted() {
		fmt.Fprintf(buf, "Corpus exhausted after %s years.\n\n", r.ExhaustedAt.StringFixed(2))
	}
	fmt.Fprintln(buf, "| Year | Opening | Contributed | Withdrawn | Growth | Closing |")
	fmt.Fprintln(buf, "|---|---:|---:|---:|---:|---:|")
	for _, s := range r.Snapshots {
		fmt.Fprintf(buf, "| %s | %s | %s | %s | %s | %s |\n", periodLabel(s),
			FormatCurrency(s.Opening), FormatCurrency(s.Contributed), FormatCurrency(s.Withdrawn),
			FormatCurrency(s.Growth), FormatCurrency(s.Closing))
	}
	fmt.Fprintln(buf)
}

var cellEscaper = strings.NewReplacer("|", `\|`, "\n", " ")

func escapeCell(s string) string { return cellEscaper.Replace(s) }
