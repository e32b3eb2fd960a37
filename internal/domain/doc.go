// Package domain implements the rule-based interpreter for questions about
// monthly wildfire-risk forecasts ("focos de queimadas") per Brazilian state.
//
// # Data Source
//
// Forecast rows originate from the INPE burning-spot archive
// (https://dataserver-coids.inpe.br/queimadas/), aggregated upstream into one
// row per (state, month) with a predicted spot count and, for past months, the
// observed count. The interpreter never loads or validates that file; it
// receives an already-built read-only ForecastTable from the snapshot adapter.
//
// # Region Resolution
//
// The 27 federative units (UFs) are addressed by two-letter code ("MT"), full
// name ("Mato Grosso"), or alias spellings without accents ("sao paulo").
// Resolution tries, in order, stopping at the first hit:
//
//  1. Two-letter whole-word tokens that are known UF codes. Every two-letter
//     token is checked, so filler words like "no" or "os" never shadow a code
//     appearing later in the sentence.
//  2. Full-name containment, case-insensitive but accent-preserving, bounded
//     by word breaks. Names are tried longest first so "Mato Grosso do Sul"
//     wins over "Mato Grosso"; remaining ties break by canonical code
//     ascending. Accents matter on this layer because folded "pará" is the
//     preposition "para".
//  3. Alias containment on accent-folded text, same ordering. Unaccented
//     spellings of accented names live here, except bare "para": Pará is
//     reachable only by its accented name, the PA code, or the belem alias.
//  4. A single fuzzy pass: the whole input is compared against each full name
//     with a normalized edit-distance ratio; the best candidate wins only when
//     its ratio reaches FuzzyMatchThreshold.
//
// # Temporal References
//
// Period references are matched in fixed priority order:
//
//	"2025-06" or "2025/06"          -> that single month
//	"março 2025", "mar de 2025"     -> that single month (pt month names,
//	                                   full or 3-letter, accents optional)
//	"próximos 3 meses"              -> range of 3 months after the latest
//	                                   period present in the table
//	"próximo mês"                   -> the single month after the latest period
//
// Relative references need the table's latest period; with an empty table they
// resolve to Unresolved. Month arithmetic is integer year*12+month math, so
// ranges roll over year boundaries exactly (2025-12 -> 2026-01).
//
// # Intents
//
// Classification is an ordered rule list with early exit: help keywords, then
// ranking ("top" + "estado"), then a resolved region, then growth keywords,
// else Unknown. Ranking and help cues are strong and checked before the
// fuzzier region signal so that a state name inside a ranking question does
// not hijack the intent.
//
// Every failure mode is data: the query engine returns tagged QueryResult
// values (including NotFound reasons) and the formatter maps each variant to
// exactly one Portuguese reply. Nothing in this package performs I/O.
package domain
