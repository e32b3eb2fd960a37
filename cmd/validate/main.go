// Command validate performs integrity checks on a prediction snapshot CSV:
// header and row structure, agreement between the raw file and the loaded
// forecast table, derived absolute-error consistency, and state/month
// coverage. It is run against generated fixtures before they are committed.
//
// Usage:
//
//	go run ./cmd/validate -snapshot data/predictions_snapshot.csv
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/cerradowatch/fire-risk-chat/internal/adapter/snapshot"
	"github.com/cerradowatch/fire-risk-chat/internal/domain"
)

var expectedHeader = []string{"estado", "ano_mes", "focos_next", "predicted_focos_next", "erro_absoluto"}

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	snapshotPath := flag.String("snapshot", "", "path to the prediction snapshot CSV")
	flag.Parse()

	if *snapshotPath == "" {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(*snapshotPath); code != 0 {
		os.Exit(code)
	}
}

func run(path string) int {
	fmt.Println("=== Prediction Snapshot Integrity Validation ===")
	fmt.Println()

	raw, err := loadRaw(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: read snapshot: %v\n", err)
		return 1
	}

	regions := domain.NewRegionDirectory()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	table, err := snapshot.NewLoader(regions, logger).LoadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load snapshot: %v\n", err)
		return 1
	}

	phases := []*phase{
		validateStructure(raw, regions),
		validateLoaderAgreement(raw, regions, table),
		validateDerivedError(raw, regions),
		validateCoverage(table, regions),
	}

	fmt.Println()
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	fmt.Println()
	fmt.Printf("Rows: %d in file, %d loaded into the table\n", len(raw.rows), table.Len())

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

// ── Data loading ──

// rawRow is one data row of the snapshot, untouched by the loader.
type rawRow struct {
	lineNum int
	fields  []string
}

type rawSnapshot struct {
	header []string
	rows   []rawRow
}

func loadRaw(path string) (rawSnapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return rawSnapshot{}, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true
	r.FieldsPerRecord = -1
	all, err := r.ReadAll()
	if err != nil {
		return rawSnapshot{}, err
	}
	if len(all) == 0 {
		return rawSnapshot{}, fmt.Errorf("empty file %s", path)
	}

	snap := rawSnapshot{header: all[0]}
	for i, fields := range all[1:] {
		snap.rows = append(snap.rows, rawRow{lineNum: i + 2, fields: fields})
	}
	return snap, nil
}

// parseRow applies the loader's row rules, returning every violation instead
// of skipping.
func parseRow(row rawRow, regions *domain.RegionDirectory) (domain.ForecastRow, error) {
	if len(row.fields) != len(expectedHeader) {
		return domain.ForecastRow{}, fmt.Errorf("want %d fields, got %d", len(expectedHeader), len(row.fields))
	}

	region, ok := regions.Canonical(row.fields[0])
	if !ok {
		return domain.ForecastRow{}, fmt.Errorf("unknown state %q", row.fields[0])
	}
	period, err := domain.ParsePeriod(strings.TrimSpace(row.fields[1]))
	if err != nil {
		return domain.ForecastRow{}, err
	}
	predicted, err := strconv.ParseFloat(strings.TrimSpace(row.fields[3]), 64)
	if err != nil {
		return domain.ForecastRow{}, fmt.Errorf("bad predicted value %q: %w", row.fields[3], err)
	}
	if predicted < 0 {
		return domain.ForecastRow{}, fmt.Errorf("negative predicted value %q", row.fields[3])
	}

	parsed := domain.ForecastRow{Region: region, Period: period, Predicted: predicted}
	if actualStr := strings.TrimSpace(row.fields[2]); actualStr != "" {
		actual, err := strconv.ParseFloat(actualStr, 64)
		if err != nil {
			return domain.ForecastRow{}, fmt.Errorf("bad actual value %q: %w", row.fields[2], err)
		}
		parsed.Actual = &actual
	}
	return parsed, nil
}

// ── Phase 1: File Structure ──
// Validates the header and that every row parses under the loader's rules.

func validateStructure(raw rawSnapshot, regions *domain.RegionDirectory) *phase {
	p := &phase{name: "Phase 1: File Structure (header, rows)"}

	if len(raw.header) != len(expectedHeader) {
		p.errorf("header has %d columns, want %d: %v", len(raw.header), len(expectedHeader), raw.header)
	} else {
		for i, col := range expectedHeader {
			if strings.TrimSpace(strings.ToLower(raw.header[i])) != col {
				p.errorf("header column %d is %q, want %q", i, raw.header[i], col)
			}
		}
	}

	if len(raw.rows) == 0 {
		p.errorf("no data rows")
	}
	for _, row := range raw.rows {
		if _, err := parseRow(row, regions); err != nil {
			p.errorf("line %d: %v", row.lineNum, err)
		}
	}
	return p
}

// ── Phase 2: Loader Agreement ──
// Validates that the loaded table holds exactly the parseable rows, honoring
// first-wins on duplicate (state, month) keys.

func validateLoaderAgreement(raw rawSnapshot, regions *domain.RegionDirectory, table *domain.ForecastTable) *phase {
	p := &phase{name: "Phase 2: Loader Agreement (file vs table)"}

	// First occurrence per (state, month) is the one the table must carry.
	firstWins := map[string]domain.ForecastRow{}
	lines := map[string]int{}
	dupeCount := 0
	for _, row := range raw.rows {
		parsed, err := parseRow(row, regions)
		if err != nil {
			continue
		}
		key := parsed.Region + "|" + parsed.Period.String()
		if _, seen := firstWins[key]; seen {
			dupeCount++
			continue
		}
		firstWins[key] = parsed
		lines[key] = row.lineNum
	}

	if dupeCount > 0 {
		fmt.Printf("  Note: %d duplicate (state, month) row(s), first occurrence wins\n", dupeCount)
	}

	if len(firstWins) != table.Len() {
		p.errorf("table has %d rows, file has %d distinct parseable rows", table.Len(), len(firstWins))
	}

	for key, expected := range firstWins {
		got, ok := table.Lookup(expected.Region, expected.Period)
		if !ok {
			p.errorf("line %d: (%s, %s) missing from the table", lines[key], expected.Region, expected.Period)
			continue
		}
		if !floatEq(got.Predicted, expected.Predicted) {
			p.errorf("line %d: (%s, %s) predicted: file %g, table %g",
				lines[key], expected.Region, expected.Period, expected.Predicted, got.Predicted)
		}
		if !ptrFloatEq(got.Actual, expected.Actual) {
			p.errorf("line %d: (%s, %s) actual mismatch", lines[key], expected.Region, expected.Period)
		}
	}
	return p
}

// ── Phase 3: Derived Error ──
// Validates the erro_absoluto column against |focos_next - predicted|.

func validateDerivedError(raw rawSnapshot, regions *domain.RegionDirectory) *phase {
	p := &phase{name: "Phase 3: Derived Error (erro_absoluto)"}

	for _, row := range raw.rows {
		parsed, err := parseRow(row, regions)
		if err != nil {
			continue
		}
		errStr := strings.TrimSpace(row.fields[4])

		if parsed.Actual == nil {
			if errStr != "" {
				p.errorf("line %d: erro_absoluto is %q but focos_next is empty", row.lineNum, errStr)
			}
			continue
		}
		if errStr == "" {
			p.errorf("line %d: focos_next present but erro_absoluto is empty", row.lineNum)
			continue
		}
		stated, err := strconv.ParseFloat(errStr, 64)
		if err != nil {
			p.errorf("line %d: bad erro_absoluto %q: %v", row.lineNum, errStr, err)
			continue
		}
		if derived := parsed.AbsoluteError(); !floatEq(stated, *derived) {
			p.errorf("line %d: erro_absoluto is %g, want %g", row.lineNum, stated, *derived)
		}
	}
	return p
}

// ── Phase 4: Coverage ──
// Validates that every month covers all 27 states and that months form a
// gapless sequence, as the fixture generator produces.

func validateCoverage(table *domain.ForecastTable, regions *domain.RegionDirectory) *phase {
	p := &phase{name: "Phase 4: Coverage (states per month)"}

	periods := table.Periods()
	if len(periods) == 0 {
		p.errorf("table is empty")
		return p
	}
	for i := 1; i < len(periods); i++ {
		if periods[i] != periods[i-1].Next() {
			p.errorf("gap between %s and %s", periods[i-1], periods[i])
		}
	}

	codes := regions.Codes()
	for _, period := range periods {
		present := map[string]bool{}
		for _, row := range table.RowsForPeriod(period) {
			present[row.Region] = true
		}
		for _, code := range codes {
			if !present[code] {
				p.errorf("%s: no row for %s", period, code)
			}
		}
	}
	return p
}

// ── Helpers ──

func floatEq(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func ptrFloatEq(a, b *float64) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return floatEq(*a, *b)
}
