package output

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rpgo/fincalc/internal/calculation"
	"github.com/rpgo/fincalc/internal/config"
	"github.com/rpgo/fincalc/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func ptr(s string) *decimal.Decimal {
	v := d(s)
	return &v
}

func buildTestComparison() *domain.Comparison {
	return &domain.Comparison{
		Scenarios: []domain.ScenarioOutcome{
			{Name: "Equity SIP", Kind: domain.KindSIP, Result: &domain.ProjectionResult{
				Kind: domain.KindSIP, TotalContributed: d("240000"), TotalGrowth: d("90000"), FinalBalance: d("330000"),
				RealBalance: ptr("250000"),
				Snapshots: []domain.PeriodSnapshot{
					{Period: 1, Contributed: d("120000"), Growth: d("8000"), Closing: d("128000")},
					{Period: 2, Opening: d("128000"), Contributed: d("120000"), Growth: d("82000"), Closing: d("330000")},
				},
			}},
			{Name: "Bank FD", Kind: domain.KindFD, Result: &domain.ProjectionResult{
				Kind: domain.KindFD, TotalContributed: d("300000"), TotalGrowth: d("45000"), FinalBalance: d("345000"),
				PostTaxBalance: ptr("331500"), RealBalance: ptr("240000"),
				Snapshots: []domain.PeriodSnapshot{
					{Period: 1, Contributed: d("300000"), Growth: d("21000"), Closing: d("321000")},
					{Period: 2, Opening: d("321000"), Growth: d("24000"), Closing: d("345000")},
				},
			}},
			{Name: "Home loan", Kind: domain.KindEMI, Result: &domain.ProjectionResult{
				Kind: domain.KindEMI, FinalBalance: d("0"),
				Loan: &domain.LoanSummary{
					EMI: d("8884.88"), NominalMonths: 12, MonthsNeeded: 12, TotalInterest: d("6618.55"), TotalPayment: d("106618.55"),
					Schedule: []domain.AmortizationRow{
						{Month: 1, Opening: d("100000"), Payment: d("8884.88"), Interest: d("1000"), Principal: d("7884.88"), Closing: d("92115.12")},
						{Month: 12, Opening: d("8797"), Payment: d("8884.97"), Interest: d("87.97"), Principal: d("8797"), Closing: d("0")},
					},
				},
			}},
			{Name: "Salary | FY25", Kind: domain.KindIncomeTax, Result: &domain.ProjectionResult{
				Kind: domain.KindIncomeTax, FinalBalance: d("44200"),
				Tax: &domain.TaxComparison{
					Old:     domain.RegimeTax{Regime: domain.RegimeOld, Total: d("75400")},
					New:     domain.RegimeTax{Regime: domain.RegimeNew, Total: d("44200")},
					Cheaper: "new", Savings: d("31200"),
				},
			}},
		},
		BestByFinalBalance: "Bank FD",
		BestByRealBalance:  "Equity SIP",
		Assumptions:        []string{"Default inflation: 6.00% annually"},
	}
}

func TestFormatHelpers(t *testing.T) {
	assert.Equal(t, "₹23,23,390.76", FormatCurrency(d("2323390.76")))
	assert.Equal(t, "-₹1,500.00", FormatCurrency(d("-1500")))
	assert.Equal(t, "₹23.23 L", FormatCompact(d("2323390.76")))
	assert.Equal(t, "₹1.20 Cr", FormatCompact(d("12000000")))
	assert.Equal(t, "12.00%", FormatPercentage(d("0.12")))
	assert.Equal(t, "-", formatOptional(nil))
	assert.Equal(t, "", plainOptional(nil))
	assert.Equal(t, "10.50", plainOptional(ptr("10.5")))
	assert.Equal(t, "24797.14", plainAmount(d("24797.137774902180000000")))
}

func TestRegistry(t *testing.T) {
	assert.Equal(t, []string{"console", "console-lite", "csv", "detailed-csv", "html", "json", "markdown"}, AvailableFormatterNames())

	tests := []struct {
		alias string
		want  string
	}{
		{"console-verbose", "console"},
		{"  Verbose ", "console"},
		{"summary", "console-lite"},
		{"csv-detailed", "detailed-csv"},
		{"md", "markdown"},
		{"JSON", "json"},
	}
	for _, tt := range tests {
		t.Run(tt.alias, func(t *testing.T) {
			f := GetFormatterByName(tt.alias)
			require.NotNil(t, f)
			assert.Equal(t, tt.want, f.Name())
		})
	}
	assert.Nil(t, GetFormatterByName("pdf"))
}

func TestRenderUnknownFormat(t *testing.T) {
	_, err := Render(buildTestComparison(), "definitely-not-a-format")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
	assert.Contains(t, err.Error(), "Try one of:")
	assert.Contains(t, err.Error(), "markdown")
}

func TestFormatterFunc(t *testing.T) {
	f := FormatterFunc{ID: "names", Ext: "txt", F: func(c *domain.Comparison) ([]byte, error) {
		return []byte(c.BestByFinalBalance), nil
	}}
	out, err := f.Format(buildTestComparison())
	require.NoError(t, err)
	assert.Equal(t, "Bank FD", string(out))
	assert.Equal(t, "txt", f.Extension())
}

func TestConsoleFormatter(t *testing.T) {
	out, err := ConsoleFormatter{}.Format(buildTestComparison())
	require.NoError(t, err)
	content := string(out)

	assert.True(t, strings.HasPrefix(content, strings.Repeat("=", 81)+"\nFINANCIAL PROJECTION REPORT"))
	assert.Contains(t, content, "• Default inflation: 6.00% annually")
	assert.Contains(t, content, "SCENARIO 1: Equity SIP (SIP)")
	assert.Contains(t, content, "₹3,30,000.00 (₹3.30 L)")
	assert.Contains(t, content, "After tax:               ₹3,31,500.00")
	assert.Contains(t, content, "Monthly EMI:             ₹8,884.88")
	assert.Contains(t, content, "The new regime is cheaper by ₹31,200.00.")
	assert.Contains(t, content, "Best scenario by inflation-adjusted balance: Equity SIP (₹2,50,000.00)")
	assert.Contains(t, content, "Lead over Bank FD: ₹10,000.00 (4.17%)")
}

func TestConsoleLiteFormatter(t *testing.T) {
	out, err := ConsoleLiteFormatter{}.Format(buildTestComparison())
	require.NoError(t, err)
	content := string(out)
	assert.Contains(t, content, "Equity SIP: Final=₹3,30,000.00")
	assert.Contains(t, content, "Home loan: EMI=₹8,884.88")
	assert.Contains(t, content, "Cheaper=new")
	assert.Contains(t, content, "Recommended: Equity SIP")
}

func TestCSVSummarizerKeepsConfigurationOrder(t *testing.T) {
	out, err := CSVSummarizer{}.Format(buildTestComparison())
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	require.Len(t, lines, 5, "header plus four scenarios")
	assert.True(t, strings.HasPrefix(lines[0], "Scenario,Kind,TotalContributed"))
	assert.Equal(t, "Equity SIP,sip,240000.00,0.00,90000.00,330000.00,,250000.00,,real", lines[1])
	assert.Equal(t, "Bank FD,fd,300000.00,0.00,45000.00,345000.00,331500.00,240000.00,,final", lines[2])
	assert.True(t, strings.HasPrefix(lines[4], `"Salary | FY25",income_tax`) || strings.HasPrefix(lines[4], "Salary | FY25,income_tax"))
}

func TestCSVDetailedExporter(t *testing.T) {
	out, err := CSVDetailedExporter{}.Format(buildTestComparison())
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	// two SIP years and two FD years; loan and tax carry no snapshots here
	require.Len(t, lines, 5)
	assert.Equal(t, "Equity SIP,sip,1,,0.00,120000.00,0.00,8000.00,128000.00,0.00,0.00,0.00", lines[1])
}

func TestJSONFormatter(t *testing.T) {
	out, err := JSONFormatter{}.Format(buildTestComparison())
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.Equal(t, "Bank FD", decoded["best_by_final_balance"])
	assert.Equal(t, "Equity SIP", decoded["best_by_real_balance"])
	assert.Len(t, decoded["scenarios"], 4)
}

func TestMarkdownFormatter(t *testing.T) {
	out, err := MarkdownFormatter{}.Format(buildTestComparison())
	require.NoError(t, err)
	content := string(out)
	assert.True(t, strings.HasPrefix(content, "# Financial Projection Report\n"))
	assert.Contains(t, content, "| Equity SIP | SIP | ₹2,40,000.00 | ₹3,30,000.00 | - | ₹2,50,000.00 |")
	assert.Contains(t, content, `## Salary \| FY25`)
	assert.Contains(t, content, "| **Total tax** | ₹75,400.00 | ₹44,200.00 |")
	assert.Contains(t, content, "**Equity SIP** leads on inflation-adjusted balance with ₹2,50,000.00.")
	assert.NotContains(t, content, "leads by")
}

func TestHTMLFormatter(t *testing.T) {
	cmp := buildTestComparison()
	cmp.Scenarios[0].Name = "Equity <b>SIP</b>"
	cmp.BestByRealBalance = cmp.Scenarios[0].Name

	out, err := HTMLFormatter{}.Format(cmp)
	require.NoError(t, err)
	content := string(out)
	assert.True(t, strings.HasPrefix(content, "<!DOCTYPE html>"))
	assert.Contains(t, content, "<h1>Financial Projection Report</h1>")
	assert.Contains(t, content, "<h2>Key Assumptions</h2>")
	assert.Contains(t, content, "<table>")
	assert.Contains(t, content, "₹3,30,000.00")
	assert.NotContains(t, content, "<b>SIP</b>", "raw HTML in names is not rendered")
}

func TestAnalyzeScenarios(t *testing.T) {
	rec := AnalyzeScenarios(buildTestComparison())
	assert.Equal(t, "Equity SIP", rec.ScenarioName)
	assert.True(t, rec.RealTerms)
	assert.True(t, rec.Balance.Equal(d("250000")))
	assert.Equal(t, "Bank FD", rec.RunnerUp)
	assert.True(t, rec.Lead.Equal(d("10000")))

	finalOnly := buildTestComparison()
	finalOnly.BestByRealBalance = ""
	rec = AnalyzeScenarios(finalOnly)
	assert.Equal(t, "Bank FD", rec.ScenarioName)
	assert.False(t, rec.RealTerms)
	assert.Equal(t, "Equity SIP", rec.RunnerUp)
	assert.True(t, rec.Lead.Equal(d("15000")))

	assert.Empty(t, AnalyzeScenarios(&domain.Comparison{}).ScenarioName)
}

func TestAssumptionsFallBackToEngineDefaults(t *testing.T) {
	out, err := ConsoleFormatter{}.Format(&domain.Comparison{})
	require.NoError(t, err)
	assert.Contains(t, string(out), "annuity-due")
}

func TestGenerateReport(t *testing.T) {
	now = func() time.Time { return time.Date(2025, 4, 1, 9, 30, 0, 0, time.UTC) }
	t.Cleanup(func() { now = time.Now })
	dir := t.TempDir()

	written, err := GenerateReport(buildTestComparison(), "md", dir)
	require.NoError(t, err)
	require.Equal(t, []string{filepath.Join(dir, "fincalc_markdown_20250401_093000.md")}, written)

	written, err = GenerateReport(buildTestComparison(), "all", dir)
	require.NoError(t, err)
	assert.Len(t, written, len(AvailableFormatterNames()))
	for _, path := range written {
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Positive(t, info.Size(), path)
	}

	_, err = GenerateReport(buildTestComparison(), "pdf", dir)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestWriteFormattedToPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")
	got, err := WriteFormatted(JSONFormatter{}, buildTestComparison(), path)
	require.NoError(t, err)
	assert.Equal(t, path, got)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, json.Valid(data))
}

// The example configuration end to end: engine output through the console report.
func TestExampleConfigurationReport(t *testing.T) {
	cfg := config.NewInputParser().CreateExampleConfiguration()
	cmp, err := calculation.NewEngine().RunScenarios(context.Background(), cfg)
	require.NoError(t, err)

	out, err := Render(cmp, "console")
	require.NoError(t, err)
	content := string(out)
	assert.Contains(t, content, "SCENARIO 4: Bank FD (Fixed deposit)")
	assert.Contains(t, content, "Final balance:           ₹24,01,916.81")
	assert.Contains(t, content, "Best scenario by inflation-adjusted balance: PPF")
	assert.Contains(t, content, "FY 2025-26")
}
