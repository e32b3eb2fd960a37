package domain

import (
	"regexp"
	"strconv"
	"strings"
)

// IntentKind tags an Intent variant. The set is closed.
type IntentKind int

const (
	// IntentUnknown is the fallback for text no rule matched.
	IntentUnknown IntentKind = iota
	// IntentHelp asks for usage examples.
	IntentHelp
	// IntentTopRegions asks for a ranking of states by predicted value.
	IntentTopRegions
	// IntentRegionRisk asks for one state's forecast.
	IntentRegionRisk
	// IntentGrowthTrend asks which states grew most between the two latest periods.
	IntentGrowthTrend
)

// String returns a stable label, used for metrics and chat-log entries.
func (k IntentKind) String() string {
	switch k {
	case IntentHelp:
		return "help"
	case IntentTopRegions:
		return "top_regions"
	case IntentRegionRisk:
		return "region_risk"
	case IntentGrowthTrend:
		return "growth_trend"
	default:
		return "unknown"
	}
}

// Intent is the classified purpose of one question. Count is only meaningful
// for IntentTopRegions, Region only for IntentRegionRisk.
type Intent struct {
	Kind   IntentKind
	Count  int
	Region string
	Ref    PeriodRef
}

// DefaultTopCount is the ranking size used when the question has no "top N".
const DefaultTopCount = 5

var (
	helpRe = regexp.MustCompile(`\b(ajuda|como usar|o que posso perguntar|exemplos)\b`)
	topNRe = regexp.MustCompile(`top\s+(\d+)`)
)

// growthKeywords trigger IntentGrowthTrend; "cresc" also covers inflections
// like "cresceu" and "crescendo".
var growthKeywords = []string{"crescimento", "maior aumento", "cresc"}

// ClassifyIntent combines the raw text with the region and period resolutions
// into one Intent. Rules run in order with early exit; ranking and help use
// strong lexical cues and are checked before the fuzzier region signal so a
// state named inside a ranking question does not flip the intent.
func ClassifyIntent(text string, region string, regionOK bool, ref PeriodRef) Intent {
	folded := foldText(text)

	if helpRe.MatchString(folded) {
		return Intent{Kind: IntentHelp}
	}

	if strings.Contains(folded, "top") && strings.Contains(folded, "estado") {
		count := DefaultTopCount
		if m := topNRe.FindStringSubmatch(folded); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
				count = n
			}
		}
		return Intent{Kind: IntentTopRegions, Count: count, Ref: ref}
	}

	if regionOK {
		return Intent{Kind: IntentRegionRisk, Region: region, Ref: ref}
	}

	for _, kw := range growthKeywords {
		if strings.Contains(folded, kw) {
			return Intent{Kind: IntentGrowthTrend}
		}
	}

	// Unknown keeps the period resolution: a question naming a valid month
	// but no recognizable state is answered differently from pure gibberish.
	return Intent{Kind: IntentUnknown, Ref: ref}
}
