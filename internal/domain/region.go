package domain

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

func isNotLetter(r rune) bool { return !unicode.IsLetter(r) }

// regionNames maps each canonical UF code to its full name.
var regionNames = map[string]string{
	"AC": "Acre", "AL": "Alagoas", "AP": "Amapá", "AM": "Amazonas",
	"BA": "Bahia", "CE": "Ceará", "DF": "Distrito Federal",
	"ES": "Espírito Santo", "GO": "Goiás", "MA": "Maranhão",
	"MT": "Mato Grosso", "MS": "Mato Grosso do Sul", "MG": "Minas Gerais",
	"PA": "Pará", "PB": "Paraíba", "PR": "Paraná", "PE": "Pernambuco",
	"PI": "Piauí", "RJ": "Rio de Janeiro", "RN": "Rio Grande do Norte",
	"RS": "Rio Grande do Sul", "RO": "Rondônia", "RR": "Roraima",
	"SC": "Santa Catarina", "SP": "São Paulo", "SE": "Sergipe",
	"TO": "Tocantins",
}

// regionAliases maps alternative spellings to codes: capitals and colloquial
// nicknames. Unaccented variants of the full names are generated at build
// time; see NewRegionDirectory.
var regionAliases = map[string]string{
	"sampa":           "SP",
	"floripa":         "SC",
	"brasilia":        "DF",
	"capital federal": "DF",
	"belem":           "PA",
	"manaus":          "AM",
	"cuiaba":          "MT",
	"campo grande":    "MS",
}

type nameEntry struct {
	key  string
	code string
}

// RegionDirectory resolves free text to a canonical UF code. It is built once
// at startup and never mutated.
type RegionDirectory struct {
	names   map[string]string // code -> full name
	byName  []nameEntry       // lower-cased full names (accents kept), longest first
	byAlias []nameEntry       // folded aliases, longest first
	fuzzy   []nameEntry       // folded full names, code ascending
}

// NewRegionDirectory builds the directory from the static UF tables. The name
// layer keeps accents, and unaccented spellings of accented names go through
// the alias layer instead, with one exclusion: unaccented "para" is the most
// common Portuguese preposition, so only "Pará", the PA code, or the belem
// alias reach that state.
func NewRegionDirectory() *RegionDirectory {
	d := &RegionDirectory{names: regionNames}
	for code, name := range regionNames {
		lowered := strings.ToLower(name)
		folded := foldText(name)
		d.byName = append(d.byName, nameEntry{key: lowered, code: code})
		if folded != lowered && folded != "para" {
			d.byAlias = append(d.byAlias, nameEntry{key: folded, code: code})
		}
		d.fuzzy = append(d.fuzzy, nameEntry{key: folded, code: code})
	}
	for alias, code := range regionAliases {
		d.byAlias = append(d.byAlias, nameEntry{key: foldText(alias), code: code})
	}
	sortLongestFirst(d.byName)
	sortLongestFirst(d.byAlias)
	sort.Slice(d.fuzzy, func(i, j int) bool { return d.fuzzy[i].code < d.fuzzy[j].code })
	return d
}

// sortLongestFirst orders entries by descending folded length, ties by code
// ascending, so containment checks are deterministic and the most specific
// name wins ("mato grosso do sul" before "mato grosso").
func sortLongestFirst(entries []nameEntry) {
	sort.Slice(entries, func(i, j int) bool {
		if len(entries[i].key) != len(entries[j].key) {
			return len(entries[i].key) > len(entries[j].key)
		}
		return entries[i].code < entries[j].code
	})
}

// containsWord reports whether needle occurs in haystack bounded by
// non-letters on both sides, so short names never fire inside longer words
// ("acre" in "massacre").
func containsWord(haystack, needle string) bool {
	for start := 0; ; start++ {
		i := strings.Index(haystack[start:], needle)
		if i < 0 {
			return false
		}
		start += i
		end := start + len(needle)
		before, _ := utf8.DecodeLastRuneInString(haystack[:start])
		after, _ := utf8.DecodeRuneInString(haystack[end:])
		if (start == 0 || !unicode.IsLetter(before)) &&
			(end == len(haystack) || !unicode.IsLetter(after)) {
			return true
		}
	}
}

// Resolve extracts a UF code from free text. The layered matching order is
// documented in the package comment; it returns false when no layer matches.
func (d *RegionDirectory) Resolve(text string) (string, bool) {
	lowered := strings.ToLower(text)
	folded := foldText(text)

	// 1. Two-letter whole-word codes. Only known codes are accepted, so common
	// two-letter words like "no" or "os" never resolve.
	for _, tok := range strings.FieldsFunc(text, isNotLetter) {
		if utf8.RuneCountInString(tok) != 2 {
			continue
		}
		code := strings.ToUpper(tok)
		if _, ok := d.names[code]; ok {
			return code, true
		}
	}

	// 2. Full-name containment. Accents are kept on this layer: matching on
	// folded text would read the preposition "para" as Pará.
	for _, e := range d.byName {
		if containsWord(lowered, e.key) {
			return e.code, true
		}
	}

	// 3. Alias containment on folded text.
	for _, e := range d.byAlias {
		if containsWord(folded, e.key) {
			return e.code, true
		}
	}

	// 4. Single fuzzy pass over full names. Iteration is code-ascending and
	// only a strictly better ratio replaces the candidate, keeping ties
	// deterministic.
	bestRatio := 0.0
	bestCode := ""
	for _, e := range d.fuzzy {
		if r := similarityRatio(folded, e.key); r > bestRatio {
			bestRatio = r
			bestCode = e.code
		}
	}
	if bestRatio >= FuzzyMatchThreshold {
		return bestCode, true
	}
	return "", false
}

// Canonical maps an exact code, full name, or alias to its code. Unlike
// Resolve it requires whole-string equality (after folding); the snapshot
// loader uses it to normalize the region column.
func (d *RegionDirectory) Canonical(s string) (string, bool) {
	trimmed := strings.TrimSpace(s)
	code := strings.ToUpper(trimmed)
	if _, ok := d.names[code]; ok {
		return code, true
	}
	lowered := strings.ToLower(trimmed)
	for _, e := range d.byName {
		if e.key == lowered {
			return e.code, true
		}
	}
	// A whole-cell value has no surrounding prose, so unaccented full names
	// are unambiguous here even though Resolve rejects bare "para".
	folded := foldText(trimmed)
	for _, e := range d.fuzzy {
		if e.key == folded {
			return e.code, true
		}
	}
	for _, e := range d.byAlias {
		if e.key == folded {
			return e.code, true
		}
	}
	return "", false
}

// FullName returns the full name for a canonical code.
func (d *RegionDirectory) FullName(code string) (string, bool) {
	name, ok := d.names[code]
	return name, ok
}

// Codes returns all canonical codes, sorted ascending.
func (d *RegionDirectory) Codes() []string {
	codes := make([]string, 0, len(d.names))
	for code := range d.names {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}
