package output

import (
	"bytes"
	"encoding/csv"

	"github.com/rpgo/fincalc/internal/domain"
)

// CSVDetailedExporter provides raw per-period projection detail per scenario.
// Loans export their monthly snapshots; every other kind one row per year.
type CSVDetailedExporter struct{}

func (c CSVDetailedExporter) Name() string      { return "detailed-csv" }
func (c CSVDetailedExporter) Extension() string { return "csv" }

func (c CSVDetailedExporter) Format(results *domain.Comparison) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"Scenario", "Kind", "Period", "Label", "Opening", "Contributed", "Withdrawn", "Growth", "Closing", "CumulativeContributed", "CumulativeWithdrawn", "CumulativeGrowth"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, sc := range results.Scenarios {
		if sc.Result == nil {
			continue
		}
		for _, s := range sc.Result.Snapshots {
			row := []string{
				sc.Name,
				string(sc.Kind),
				intToString(s.Period),
				s.Label,
				plainAmount(s.Opening),
				plainAmount(s.Contributed),
				plainAmount(s.Withdrawn),
				plainAmount(s.Growth),
				plainAmount(s.Closing),
				plainAmount(s.CumulativeContributed),
				plainAmount(s.CumulativeWithdrawn),
				plainAmount(s.CumulativeGrowth),
			}
			if err := w.Write(row); err != nil {
				return nil, err
			}
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
