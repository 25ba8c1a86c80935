package output

import (
	"encoding/json"

	"github.com/rpgo/fincalc/internal/domain"
)

// JSONFormatter serializes the scenario comparison as pretty-printed JSON.
type JSONFormatter struct{}

func (j JSONFormatter) Name() string      { return "json" }
func (j JSONFormatter) Extension() string { return "json" }

func (j JSONFormatter) Format(results *domain.Comparison) ([]byte, error) {
	return json.MarshalIndent(results, "", "  ")
}
