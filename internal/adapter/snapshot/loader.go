// Package snapshot loads the forecast table from the prediction snapshot CSV
// exported by the modelling pipeline. The file has a fixed header:
//
//	estado,ano_mes,focos_next,predicted_focos_next,erro_absoluto
//
// estado is a UF code or state name, ano_mes is "YYYY-MM", focos_next is the
// observed count (empty for future months), predicted_focos_next is the model
// output, and erro_absoluto is derived and ignored on load.
package snapshot

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/cerradowatch/fire-risk-chat/internal/domain"
)

var expectedHeader = []string{"estado", "ano_mes", "focos_next", "predicted_focos_next", "erro_absoluto"}

// Loader reads prediction snapshots into a ForecastTable.
type Loader struct {
	regions *domain.RegionDirectory
	logger  *slog.Logger
}

// NewLoader creates a snapshot loader. Region spellings in the file are
// canonicalized through regions.
func NewLoader(regions *domain.RegionDirectory, logger *slog.Logger) *Loader {
	return &Loader{regions: regions, logger: logger}
}

// LoadFile reads the snapshot at path.
func (l *Loader) LoadFile(path string) (*domain.ForecastTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open snapshot: %w", err)
	}
	defer f.Close()

	table, err := l.Load(f)
	if err != nil {
		return nil, fmt.Errorf("load snapshot %s: %w", path, err)
	}
	return table, nil
}

// Load parses snapshot CSV from r. Malformed rows are logged and skipped; a
// bad header or unreadable stream fails the whole load.
func (l *Loader) Load(r io.Reader) (*domain.ForecastTable, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if err := checkHeader(header); err != nil {
		return nil, err
	}

	var rows []domain.ForecastRow
	skipped := 0
	for line := 2; ; line++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read record: %w", err)
		}

		row, err := l.parseRecord(record)
		if err != nil {
			l.logger.Warn("skipping snapshot row", "line", line, "error", err)
			skipped++
			continue
		}
		rows = append(rows, row)
	}

	if skipped > 0 {
		l.logger.Warn("snapshot loaded with skipped rows", "loaded", len(rows), "skipped", skipped)
	}
	return domain.NewForecastTable(rows), nil
}

func checkHeader(header []string) error {
	if len(header) != len(expectedHeader) {
		return fmt.Errorf("unexpected header %v", header)
	}
	for i, col := range expectedHeader {
		if strings.TrimSpace(strings.ToLower(header[i])) != col {
			return fmt.Errorf("unexpected header column %q (want %q)", header[i], col)
		}
	}
	return nil
}

func (l *Loader) parseRecord(record []string) (domain.ForecastRow, error) {
	if len(record) != len(expectedHeader) {
		return domain.ForecastRow{}, fmt.Errorf("want %d fields, got %d", len(expectedHeader), len(record))
	}

	region, ok := l.regions.Canonical(record[0])
	if !ok {
		return domain.ForecastRow{}, fmt.Errorf("unknown state %q", record[0])
	}

	period, err := domain.ParsePeriod(strings.TrimSpace(record[1]))
	if err != nil {
		return domain.ForecastRow{}, err
	}

	predicted, err := strconv.ParseFloat(strings.TrimSpace(record[3]), 64)
	if err != nil {
		return domain.ForecastRow{}, fmt.Errorf("bad predicted value %q: %w", record[3], err)
	}
	if predicted < 0 {
		return domain.ForecastRow{}, fmt.Errorf("negative predicted value %q", record[3])
	}

	row := domain.ForecastRow{Region: region, Period: period, Predicted: predicted}

	// focos_next is empty for months that have not happened yet.
	if actualStr := strings.TrimSpace(record[2]); actualStr != "" {
		actual, err := strconv.ParseFloat(actualStr, 64)
		if err != nil {
			return domain.ForecastRow{}, fmt.Errorf("bad actual value %q: %w", record[2], err)
		}
		row.Actual = &actual
	}

	return row, nil
}
