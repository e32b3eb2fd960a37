package snapshot

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/cerradowatch/fire-risk-chat/internal/domain"
)

// WriteFile writes rows as a snapshot CSV at path, creating parent
// directories as needed. Used by the mock generator and round-trip tests.
func WriteFile(path string, rows []domain.ForecastRow) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create snapshot dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create snapshot: %w", err)
	}
	defer f.Close()

	if err := Write(f, rows); err != nil {
		return fmt.Errorf("write snapshot %s: %w", path, err)
	}
	return f.Close()
}

// Write writes rows as snapshot CSV to w.
func Write(w io.Writer, rows []domain.ForecastRow) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(expectedHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, row := range rows {
		actual := ""
		absErr := ""
		if row.Actual != nil {
			actual = formatFloat(*row.Actual)
			absErr = formatFloat(*row.AbsoluteError())
		}
		record := []string{
			row.Region,
			row.Period.String(),
			actual,
			formatFloat(row.Predicted),
			absErr,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write record: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
