package output

import (
	"bytes"
	"encoding/csv"

	"github.com/rpgo/fincalc/internal/domain"
)

// CSVSummarizer implements the simple summary CSV output (one row per scenario).
// Rows keep configuration order so the file lines up with the input.
type CSVSummarizer struct{}

func (c CSVSummarizer) Name() string      { return "csv" }
func (c CSVSummarizer) Extension() string { return "csv" }

func (c CSVSummarizer) Format(results *domain.Comparison) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"Scenario", "Kind", "TotalContributed", "TotalWithdrawn", "TotalGrowth", "FinalBalance", "PostTaxBalance", "RealBalance", "ExhaustedAtYears", "Best"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, sc := range results.Scenarios {
		if sc.Result == nil {
			continue
		}
		r := sc.Result
		exhausted := ""
		if r.ExhaustedAt != nil {
			exhausted = r.ExhaustedAt.StringFixed(4)
		}
		row := []string{
			sc.Name,
			string(sc.Kind),
			plainAmount(r.TotalContributed),
			plainAmount(r.TotalWithdrawn),
			plainAmount(r.TotalGrowth),
			plainAmount(r.FinalBalance),
			plainOptional(r.PostTaxBalance),
			plainOptional(r.RealBalance),
			exhausted,
			bestMarker(results, sc.Name),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

// bestMarker tags the scenarios the comparison picked.
func bestMarker(results *domain.Comparison, name string) string {
	switch {
	case name == results.BestByFinalBalance && name == results.BestByRealBalance:
		return "final+real"
	case name == results.BestByFinalBalance:
		return "final"
	case name == results.BestByRealBalance:
		return "real"
	}
	return ""
}
