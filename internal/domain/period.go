package domain

import (
	"regexp"
	"strconv"
)

// RefKind tags a PeriodRef variant.
type RefKind int

const (
	// RefUnresolved means no temporal reference was found in the text.
	RefUnresolved RefKind = iota
	// RefSingle references exactly one period.
	RefSingle
	// RefRange references a contiguous, chronologically increasing run of periods.
	RefRange
)

// PeriodRef is the resolved temporal scope of a question.
type PeriodRef struct {
	Kind    RefKind
	Periods []Period
}

// SinglePeriod builds a single-period reference.
func SinglePeriod(p Period) PeriodRef {
	return PeriodRef{Kind: RefSingle, Periods: []Period{p}}
}

// PeriodRange builds a range reference from an ordered contiguous run.
func PeriodRange(ps []Period) PeriodRef {
	return PeriodRef{Kind: RefRange, Periods: ps}
}

// UnresolvedPeriod builds the no-reference value.
func UnresolvedPeriod() PeriodRef {
	return PeriodRef{Kind: RefUnresolved}
}

// Single returns the referenced period when Kind is RefSingle.
func (r PeriodRef) Single() (Period, bool) {
	if r.Kind != RefSingle || len(r.Periods) != 1 {
		return Period{}, false
	}
	return r.Periods[0], true
}

// monthsByAbbrev maps the first three letters of a folded Portuguese month
// name to its number. Full names reduce to the same prefix.
var monthsByAbbrev = map[string]int{
	"jan": 1, "fev": 2, "mar": 3, "abr": 4, "mai": 5, "jun": 6,
	"jul": 7, "ago": 8, "set": 9, "out": 10, "nov": 11, "dez": 12,
}

// The matchers below run against folded text, so accented forms ("março",
// "próximos") are already reduced to their plain spellings.
var (
	explicitPeriodRe = regexp.MustCompile(`(\d{4})[-/](\d{1,2})`)
	monthNameRe      = regexp.MustCompile(`\b(jan(?:eiro)?|fev(?:ereiro)?|mar(?:co)?|abr(?:il)?|mai(?:o)?|jun(?:ho)?|jul(?:ho)?|ago(?:sto)?|set(?:embro)?|out(?:ubro)?|nov(?:embro)?|dez(?:embro)?)\s+(?:de\s+)?(\d{4})\b`)
	nextNMonthsRe    = regexp.MustCompile(`proximos?\s+(\d+)\s+mes|next\s+(\d+)\s+month`)
	nextMonthRe      = regexp.MustCompile(`proximo\s+mes|\bnext\s+month\b`)
)

// ResolvePeriodRef extracts a temporal reference from text. Patterns are tried
// in fixed priority order with early exit; relative patterns are anchored at
// latest, the most recent period present in the forecast table. When a
// relative pattern matches but no latest period is available (hasLatest
// false), the reference resolves to Unresolved rather than guessing.
func ResolvePeriodRef(text string, latest Period, hasLatest bool) PeriodRef {
	folded := foldText(text)

	// 1. Explicit "YYYY-MM" / "YYYY/MM".
	if m := explicitPeriodRe.FindStringSubmatch(folded); m != nil {
		year, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		if p := (Period{Year: year, Month: month}); p.Valid() {
			return SinglePeriod(p)
		}
	}

	// 2. Portuguese month name or 3-letter abbreviation plus 4-digit year.
	if m := monthNameRe.FindStringSubmatch(folded); m != nil {
		month, ok := monthsByAbbrev[m[1][:3]]
		year, _ := strconv.Atoi(m[2])
		if ok {
			if p := (Period{Year: year, Month: month}); p.Valid() {
				return SinglePeriod(p)
			}
		}
	}

	// 3. "próximos N meses" / "next N months": N consecutive periods starting
	// the month after latest.
	if m := nextNMonthsRe.FindStringSubmatch(folded); m != nil {
		digits := m[1]
		if digits == "" {
			digits = m[2]
		}
		n, _ := strconv.Atoi(digits)
		if !hasLatest || n < 1 {
			return UnresolvedPeriod()
		}
		ps := make([]Period, n)
		for i := range ps {
			ps[i] = latest.AddMonths(i + 1)
		}
		return PeriodRange(ps)
	}

	// 4. "próximo mês" (singular).
	if nextMonthRe.MatchString(folded) {
		if !hasLatest {
			return UnresolvedPeriod()
		}
		return SinglePeriod(latest.Next())
	}

	return UnresolvedPeriod()
}
