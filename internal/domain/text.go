package domain

import (
	"strings"
	"unicode"

	"github.com/xrash/smetrics"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// FuzzyMatchThreshold is the minimum normalized similarity ratio for the
// fuzzy region match to accept a candidate.
const FuzzyMatchThreshold = 0.8

// accentFolder strips combining diacritical marks: "São Paulo" -> "Sao Paulo".
var accentFolder = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// foldText lowercases s and removes accents, producing the canonical form all
// matchers operate on. Input and directory entries are folded the same way, so
// "março"/"marco" and "Pará"/"para" compare equal.
func foldText(s string) string {
	folded, _, err := transform.String(accentFolder, strings.ToLower(s))
	if err != nil {
		return strings.ToLower(s)
	}
	return folded
}

// similarityRatio returns a normalized edit-distance ratio in [0,1].
// With substitution cost 2, 1 - distance/(len(a)+len(b)) is the classic
// indel ratio (two strings with no common characters score 0, equal strings 1).
func similarityRatio(a, b string) float64 {
	if len(a)+len(b) == 0 {
		return 0
	}
	d := smetrics.WagnerFischer(a, b, 1, 1, 2)
	return 1 - float64(d)/float64(len(a)+len(b))
}
