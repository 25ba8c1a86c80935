package output

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rpgo/fincalc/internal/domain"
)

// now is replaced in tests to pin report file names.
var now = time.Now

// Render formats results with the named formatter.
func Render(results *domain.Comparison, format string) ([]byte, error) {
	f := GetFormatterByName(format)
	if f == nil {
		return nil, unsupported(format)
	}
	return f.Format(results)
}

// WriteFormatted runs a formatter and writes the output to path. An empty
// path writes a timestamped file in the working directory.
func WriteFormatted(f Formatter, results *domain.Comparison, path string) (string, error) {
	data, err := f.Format(results)
	if err != nil {
		return "", err
	}
	if path == "" {
		path = reportFilename(f)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}

// GenerateReport writes one report, or one file per formatter when format
// is "all", into dir. It returns the files written.
func GenerateReport(results *domain.Comparison, format, dir string) ([]string, error) {
	var formatters []Formatter
	if NormalizeFormatName(format) == "all" {
		formatters = builtInFormatters
	} else {
		f := GetFormatterByName(format)
		if f == nil {
			return nil, unsupported(format)
		}
		formatters = []Formatter{f}
	}

	var written []string
	for _, f := range formatters {
		path, err := WriteFormatted(f, results, filepath.Join(dir, reportFilename(f)))
		if err != nil {
			return written, err
		}
		written = append(written, path)
	}
	return written, nil
}

func reportFilename(f Formatter) string {
	return fmt.Sprintf("fincalc_%s_%s.%s", f.Name(), now().Format("20060102_150405"), f.Extension())
}

// unsupported enriches the error with available formatters and aliases.
func unsupported(format string) error {
	return fmt.Errorf("%w: %q. Try one of: %s (aliases: %s)", ErrUnsupportedFormat, format,
		strings.Join(AvailableFormatterNames(), ", "), strings.Join(AvailableFormatAliases(), ", "))
}
