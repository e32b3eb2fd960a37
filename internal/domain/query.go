package domain

import (
	"context"
	"sort"
)

// ResultKind tags a QueryResult variant.
type ResultKind int

const (
	// ResultNotFound carries a NotFoundReason instead of data.
	ResultNotFound ResultKind = iota
	// ResultRanking holds per-period rankings of regions by predicted value.
	ResultRanking
	// ResultSingleValue holds one region/period forecast, recorded or estimated.
	ResultSingleValue
	// ResultRangeTotal holds a region's predicted sum over a period range.
	ResultRangeTotal
	// ResultGrowthList holds per-region percent changes between the two
	// latest periods.
	ResultGrowthList
)

// NotFoundReason distinguishes the apology the formatter renders.
type NotFoundReason int

const (
	// ReasonEmptyTable: no forecast rows are loaded at all.
	ReasonEmptyTable NotFoundReason = iota
	// ReasonPeriodMissing: a ranking was asked for a period absent from the table.
	ReasonPeriodMissing
	// ReasonRegionPeriodMissing: no row and no estimate for a valid region/period.
	ReasonRegionPeriodMissing
	// ReasonRangeEmpty: a region range sum matched zero periods.
	ReasonRangeEmpty
	// ReasonRegionMissing: the region has no rows at all.
	ReasonRegionMissing
	// ReasonNotEnoughPeriods: growth needs at least two distinct periods.
	ReasonNotEnoughPeriods
	// ReasonNotUnderstood: the question matched no intent rule.
	ReasonNotUnderstood
)

// RankEntry is one (region, predicted value) pair of a ranking.
type RankEntry struct {
	Region string
	Value  float64
}

// PeriodRanking is the ranking for one period. Missing marks a period with no
// rows; in a range request each period fails independently.
type PeriodRanking struct {
	Period  Period
	Entries []RankEntry
	Missing bool
}

// GrowthEntry is one region's percent change between the two latest periods
// (0.5 means +50%).
type GrowthEntry struct {
	Region string
	Pct    float64
}

// QueryResult is the tagged outcome of executing an Intent. Only the fields
// of the tagged variant are meaningful.
type QueryResult struct {
	Kind ResultKind

	// ResultRanking
	Rankings []PeriodRanking

	// ResultSingleValue
	Region    string
	Period    Period
	Predicted float64
	Actual    *float64
	Estimated bool // true when the value came from the on-demand predictor
	// LatestFallback marks a reply answered from the region's latest row
	// because the question named no month.
	LatestFallback bool

	// ResultRangeTotal
	Total float64

	// ResultGrowthList
	Growth         []GrowthEntry
	GrowthLatest   Period
	GrowthPrevious Period

	// ResultNotFound
	Reason    NotFoundReason
	Latest    Period // latest period available, for period-missing apologies
	HasLatest bool
}

// growthListSize caps the growth ranking, mirroring the default top count.
const growthListSize = 5

// QueryEngine executes intents against an immutable forecast table. Execution
// is a pure function of (intent, table) except for the optional on-demand
// predictor consulted on single-period region misses.
type QueryEngine struct {
	table     *ForecastTable
	predictor Predictor // may be nil
}

// NewQueryEngine builds an engine over table. predictor may be nil, in which
// case the estimate fallback degrades to NotFound.
func NewQueryEngine(table *ForecastTable, predictor Predictor) *QueryEngine {
	return &QueryEngine{table: table, predictor: predictor}
}

// Execute runs one intent and returns its tagged result. It never fails:
// every miss is a ResultNotFound value.
func (e *QueryEngine) Execute(ctx context.Context, intent Intent) QueryResult {
	if e.table.Empty() {
		return e.notFound(ReasonEmptyTable)
	}

	switch intent.Kind {
	case IntentTopRegions:
		return e.topRegions(intent.Count, intent.Ref)
	case IntentRegionRisk:
		return e.regionRisk(ctx, intent.Region, intent.Ref)
	case IntentGrowthTrend:
		return e.growthTrend()
	default:
		// A resolved month without a recognizable state is a data miss, not
		// a comprehension failure.
		if intent.Ref.Kind != RefUnresolved {
			return e.notFound(ReasonRegionPeriodMissing)
		}
		return e.notFound(ReasonNotUnderstood)
	}
}

func (e *QueryEngine) notFound(reason NotFoundReason) QueryResult {
	latest, ok := e.table.LatestPeriod()
	return QueryResult{Kind: ResultNotFound, Reason: reason, Latest: latest, HasLatest: ok}
}

func (e *QueryEngine) topRegions(count int, ref PeriodRef) QueryResult {
	switch ref.Kind {
	case RefSingle:
		p := ref.Periods[0]
		ranking, ok := e.rankPeriod(p, count)
		if !ok {
			r := e.notFound(ReasonPeriodMissing)
			r.Period = p
			return r
		}
		return QueryResult{Kind: ResultRanking, Rankings: []PeriodRanking{ranking}}

	case RefRange:
		// Each period resolves or fails on its own; one missing month does
		// not sink the rest of the range.
		rankings := make([]PeriodRanking, 0, len(ref.Periods))
		for _, p := range ref.Periods {
			ranking, ok := e.rankPeriod(p, count)
			if !ok {
				ranking = PeriodRanking{Period: p, Missing: true}
			}
			rankings = append(rankings, ranking)
		}
		return QueryResult{Kind: ResultRanking, Rankings: rankings}

	default:
		// No period in the question: rank the latest available month.
		latest, _ := e.table.LatestPeriod()
		ranking, _ := e.rankPeriod(latest, count)
		return QueryResult{Kind: ResultRanking, Rankings: []PeriodRanking{ranking}}
	}
}

// rankPeriod ranks a period's rows descending by predicted value, ties broken
// by region code ascending, truncated to count. ok is false when the period
// has no rows.
func (e *QueryEngine) rankPeriod(p Period, count int) (PeriodRanking, bool) {
	rows := e.table.RowsForPeriod(p)
	if len(rows) == 0 {
		return PeriodRanking{}, false
	}
	entries := make([]RankEntry, len(rows))
	for i, row := range rows {
		entries[i] = RankEntry{Region: row.Region, Value: row.Predicted}
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Value != entries[j].Value {
			return entries[i].Value > entries[j].Value
		}
		return entries[i].Region < entries[j].Region
	})
	if len(entries) > count {
		entries = entries[:count]
	}
	return PeriodRanking{Period: p, Entries: entries}, true
}

func (e *QueryEngine) regionRisk(ctx context.Context, region string, ref PeriodRef) QueryResult {
	switch ref.Kind {
	case RefSingle:
		p := ref.Periods[0]
		if row, ok := e.table.Lookup(region, p); ok {
			return QueryResult{
				Kind:      ResultSingleValue,
				Region:    region,
				Period:    p,
				Predicted: row.Predicted,
				Actual:    row.Actual,
			}
		}
		return e.estimate(ctx, region, p)

	case RefRange:
		// Sum whatever rows exist; absent months are skipped, not failed.
		total := 0.0
		matched := 0
		for _, p := range ref.Periods {
			if row, ok := e.table.Lookup(region, p); ok {
				total += row.Predicted
				matched++
			}
		}
		if matched == 0 {
			return e.notFound(ReasonRangeEmpty)
		}
		return QueryResult{Kind: ResultRangeTotal, Region: region, Total: total}

	default:
		row, ok := e.table.LatestRowForRegion(region)
		if !ok {
			return e.notFound(ReasonRegionMissing)
		}
		return QueryResult{
			Kind:           ResultSingleValue,
			Region:         region,
			Period:         row.Period,
			Predicted:      row.Predicted,
			Actual:         row.Actual,
			LatestFallback: true,
		}
	}
}

// estimate asks the on-demand predictor for a (region, period) with no
// recorded row. The reply is tagged Estimated so the formatter reports it as
// a generated value, never as a recorded one. A nil or failing predictor
// degrades to NotFound.
func (e *QueryEngine) estimate(ctx context.Context, region string, p Period) QueryResult {
	if e.predictor == nil {
		return e.notFound(ReasonRegionPeriodMissing)
	}
	mean, ok := e.table.RegionMean(region)
	if !ok {
		// No history for the region at all: fall back to the dataset-wide
		// mean, preserved from the original system as a labelled degraded path.
		mean, _ = e.table.OverallMean()
	}
	predicted, err := e.predictor.Predict(ctx, region, p, mean)
	if err != nil {
		return e.notFound(ReasonRegionPeriodMissing)
	}
	return QueryResult{
		Kind:      ResultSingleValue,
		Region:    region,
		Period:    p,
		Predicted: predicted,
		Estimated: true,
	}
}

func (e *QueryEngine) growthTrend() QueryResult {
	periods := e.table.Periods()
	if len(periods) < 2 {
		return e.notFound(ReasonNotEnoughPeriods)
	}
	latest := periods[len(periods)-1]
	previous := periods[len(periods)-2]

	var entries []GrowthEntry
	for _, row := range e.table.RowsForPeriod(previous) {
		// Regions absent from either period are excluded, as are zero
		// previous values (no division by zero or missing denominators).
		if row.Predicted == 0 {
			continue
		}
		current, ok := e.table.Lookup(row.Region, latest)
		if !ok {
			continue
		}
		entries = append(entries, GrowthEntry{
			Region: row.Region,
			Pct:    (current.Predicted - row.Predicted) / row.Predicted,
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Pct != entries[j].Pct {
			return entries[i].Pct > entries[j].Pct
		}
		return entries[i].Region < entries[j].Region
	})
	if len(entries) > growthListSize {
		entries = entries[:growthListSize]
	}
	return QueryResult{
		Kind:           ResultGrowthList,
		Growth:         entries,
		GrowthLatest:   latest,
		GrowthPrevious: previous,
	}
}
