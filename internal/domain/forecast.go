package domain

import (
	"fmt"
	"math"
	"sort"
)

// Period identifies one forecast time bucket: a calendar year and a month in 1..12.
type Period struct {
	Year  int
	Month int
}

// ParsePeriod parses the canonical "YYYY-MM" form.
func ParsePeriod(s string) (Period, error) {
	var y, m int
	if _, err := fmt.Sscanf(s, "%d-%d", &y, &m); err != nil {
		return Period{}, fmt.Errorf("parse period %q: %w", s, err)
	}
	p := Period{Year: y, Month: m}
	if !p.Valid() {
		return Period{}, fmt.Errorf("parse period %q: month out of range", s)
	}
	return p, nil
}

// Valid reports whether the month is in 1..12 and the year is positive.
func (p Period) Valid() bool {
	return p.Year > 0 && p.Month >= 1 && p.Month <= 12
}

// String renders the canonical "YYYY-MM" form.
func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, p.Month)
}

// AddMonths advances the period by n months (n >= 0) using integer month
// arithmetic, rolling over year boundaries exactly: 2025-12 + 1 = 2026-01.
func (p Period) AddMonths(n int) Period {
	total := p.Year*12 + (p.Month - 1) + n
	return Period{Year: total / 12, Month: total%12 + 1}
}

// Next returns the period one month after p.
func (p Period) Next() Period {
	return p.AddMonths(1)
}

// Before reports whether p is chronologically before o.
func (p Period) Before(o Period) bool {
	if p.Year != o.Year {
		return p.Year < o.Year
	}
	return p.Month < o.Month
}

// ForecastRow is one immutable (region, period) fact: the predicted spot count
// and, for past periods, the observed count.
type ForecastRow struct {
	Region    string // canonical UF code, e.g. "MT"
	Period    Period
	Predicted float64  // non-negative
	Actual    *float64 // nil for future periods
}

// AbsoluteError returns |predicted - actual|, or nil when no actual value exists.
func (r ForecastRow) AbsoluteError() *float64 {
	if r.Actual == nil {
		return nil
	}
	e := math.Abs(r.Predicted - *r.Actual)
	return &e
}

type rowKey struct {
	region string
	period Period
}

// ForecastTable is a read-only, load-ordered collection of forecast rows with
// derived period and region indices. It is built once by the snapshot adapter
// and shared across queries without locking; nothing mutates it afterwards.
type ForecastTable struct {
	rows     []ForecastRow
	byPeriod map[Period][]int
	byRegion map[string][]int
	index    map[rowKey]int
	latest   Period
	hasRows  bool
}

// NewForecastTable builds a table from rows. At most one row is kept per
// (region, period); later duplicates are dropped, preserving load order.
func NewForecastTable(rows []ForecastRow) *ForecastTable {
	t := &ForecastTable{
		byPeriod: make(map[Period][]int),
		byRegion: make(map[string][]int),
		index:    make(map[rowKey]int),
	}
	for _, row := range rows {
		key := rowKey{region: row.Region, period: row.Period}
		if _, dup := t.index[key]; dup {
			continue
		}
		i := len(t.rows)
		t.rows = append(t.rows, row)
		t.index[key] = i
		t.byPeriod[row.Period] = append(t.byPeriod[row.Period], i)
		t.byRegion[row.Region] = append(t.byRegion[row.Region], i)
		if !t.hasRows || t.latest.Before(row.Period) {
			t.latest = row.Period
			t.hasRows = true
		}
	}
	return t
}

// Len returns the number of rows.
func (t *ForecastTable) Len() int {
	return len(t.rows)
}

// Empty reports whether the table holds no rows.
func (t *ForecastTable) Empty() bool {
	return len(t.rows) == 0
}

// Lookup returns the row for (region, p), if present.
func (t *ForecastTable) Lookup(region string, p Period) (ForecastRow, bool) {
	i, ok := t.index[rowKey{region: region, period: p}]
	if !ok {
		return ForecastRow{}, false
	}
	return t.rows[i], true
}

// RowsForPeriod returns all rows for p in load order.
func (t *ForecastTable) RowsForPeriod(p Period) []ForecastRow {
	idx := t.byPeriod[p]
	rows := make([]ForecastRow, len(idx))
	for i, j := range idx {
		rows[i] = t.rows[j]
	}
	return rows
}

// RowsForRegion returns all rows for a region in load order.
func (t *ForecastTable) RowsForRegion(region string) []ForecastRow {
	idx := t.byRegion[region]
	rows := make([]ForecastRow, len(idx))
	for i, j := range idx {
		rows[i] = t.rows[j]
	}
	return rows
}

// LatestPeriod returns the most recent period present in the table.
func (t *ForecastTable) LatestPeriod() (Period, bool) {
	return t.latest, t.hasRows
}

// LatestRowForRegion returns the region's row with the most recent period.
func (t *ForecastTable) LatestRowForRegion(region string) (ForecastRow, bool) {
	var best ForecastRow
	found := false
	for _, i := range t.byRegion[region] {
		row := t.rows[i]
		if !found || best.Period.Before(row.Period) {
			best = row
			found = true
		}
	}
	return best, found
}

// Periods returns the distinct periods present, sorted ascending.
func (t *ForecastTable) Periods() []Period {
	ps := make([]Period, 0, len(t.byPeriod))
	for p := range t.byPeriod {
		ps = append(ps, p)
	}
	sort.Slice(ps, func(i, j int) bool { return ps[i].Before(ps[j]) })
	return ps
}

// RegionMean returns the mean predicted value across the region's rows.
func (t *ForecastTable) RegionMean(region string) (float64, bool) {
	return meanPredicted(t.rows, t.byRegion[region])
}

// OverallMean returns the mean predicted value across the whole table. It is
// the dataset-wide fallback passed to the on-demand predictor when a region
// has no history at all.
func (t *ForecastTable) OverallMean() (float64, bool) {
	if len(t.rows) == 0 {
		return 0, false
	}
	sum := 0.0
	for _, row := range t.rows {
		sum += row.Predicted
	}
	return sum / float64(len(t.rows)), true
}

func meanPredicted(rows []ForecastRow, idx []int) (float64, bool) {
	if len(idx) == 0 {
		return 0, false
	}
	sum := 0.0
	for _, i := range idx {
		sum += rows[i].Predicted
	}
	return sum / float64(len(idx)), true
}
