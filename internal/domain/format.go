package domain

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// ptBR renders numbers with Brazilian grouping and decimal separators
// ("12.345" focos, "50,0%" growth).
var ptBR = message.NewPrinter(language.BrazilianPortuguese)

// Formatter renders QueryResults as Portuguese chat replies. Output is fully
// deterministic: the same result always produces the same string.
type Formatter struct {
	regions *RegionDirectory
}

// NewFormatter builds a formatter that resolves region codes to full names
// through regions.
func NewFormatter(regions *RegionDirectory) *Formatter {
	return &Formatter{regions: regions}
}

// HelpText is the canned reply for help intents. It works even before any
// forecast data is loaded.
func (f *Formatter) HelpText() string {
	return "Você pode perguntar, por exemplo:\n" +
		"- 'Top 5 estados para 2025-06'\n" +
		"- 'Qual o risco no MT 2025-06?'\n" +
		"- 'Top 3 estados próximos 2 meses'\n" +
		"- 'Mostre a previsão para Pará 2025-12'"
}

// Format renders one result. Intent kind is only consulted for the help
// short-circuit; everything else follows the result tag.
func (f *Formatter) Format(intent Intent, result QueryResult) string {
	if intent.Kind == IntentHelp {
		return f.HelpText()
	}

	switch result.Kind {
	case ResultRanking:
		return f.formatRanking(result)
	case ResultSingleValue:
		return f.formatSingleValue(result)
	case ResultRangeTotal:
		return f.formatRangeTotal(result)
	case ResultGrowthList:
		return f.formatGrowth(result)
	default:
		return f.formatNotFound(result)
	}
}

// regionName resolves a code to its full name, falling back to the code
// itself for anything the directory does not know.
func (f *Formatter) regionName(code string) string {
	if name, ok := f.regions.FullName(code); ok {
		return name
	}
	return code
}

// focos renders a predicted count the way the dashboard always did: as a
// whole number of fire spots, grouped pt-BR style.
func focos(v float64) string {
	return ptBR.Sprintf("%d", int(v))
}

func (f *Formatter) formatRanking(result QueryResult) string {
	if len(result.Rankings) == 1 {
		r := result.Rankings[0]
		parts := make([]string, len(r.Entries))
		for i, e := range r.Entries {
			parts[i] = fmt.Sprintf("%s: %s focos", f.regionName(e.Region), focos(e.Value))
		}
		return fmt.Sprintf("Top %d previstos para %s: %s.",
			len(r.Entries), r.Period, strings.Join(parts, "; "))
	}

	// Range replies stay compact: one clause per month, missing months
	// called out inline.
	clauses := make([]string, len(result.Rankings))
	for i, r := range result.Rankings {
		if r.Missing {
			clauses[i] = fmt.Sprintf("%s: sem dados", r.Period)
			continue
		}
		parts := make([]string, len(r.Entries))
		for j, e := range r.Entries {
			parts[j] = fmt.Sprintf("%s (%s)", f.regionName(e.Region), focos(e.Value))
		}
		clauses[i] = fmt.Sprintf("%s: %s", r.Period, strings.Join(parts, "; "))
	}
	return strings.Join(clauses, " | ")
}

func (f *Formatter) formatSingleValue(result QueryResult) string {
	if result.Estimated {
		return fmt.Sprintf("Previsão (gerada on-demand) para %s %s: %s focos.",
			result.Region, result.Period, focos(result.Predicted))
	}
	template := "Previsão para %s (%s): %s focos."
	if result.LatestFallback {
		// The question named no month, so the reply says which month it is
		// answering about.
		template = "Última previsão disponível para %s (%s): %s focos."
	}
	reply := fmt.Sprintf(template,
		f.regionName(result.Region), result.Period, focos(result.Predicted))
	if result.Actual != nil {
		reply += fmt.Sprintf(" Valor real: %s.", focos(*result.Actual))
	}
	return reply
}

func (f *Formatter) formatRangeTotal(result QueryResult) string {
	return fmt.Sprintf("Soma de previsões para %s nos meses solicitados: %s focos.",
		f.regionName(result.Region), focos(result.Total))
}

func (f *Formatter) formatGrowth(result QueryResult) string {
	parts := make([]string, len(result.Growth))
	for i, e := range result.Growth {
		parts[i] = ptBR.Sprintf("%s: %.1f%%", f.regionName(e.Region), e.Pct*100)
	}
	return fmt.Sprintf("Top %d estados por aumento percentual (último vs anterior): %s.",
		len(result.Growth), strings.Join(parts, "; "))
}

func (f *Formatter) formatNotFound(result QueryResult) string {
	switch result.Reason {
	case ReasonEmptyTable:
		return "Ainda não há dados de previsão carregados. Tente novamente mais tarde."
	case ReasonPeriodMissing:
		if result.HasLatest {
			return fmt.Sprintf("Não há previsões para %s. Último mês disponível: %s.",
				result.Period, result.Latest)
		}
		return fmt.Sprintf("Não há previsões para %s.", result.Period)
	case ReasonRegionPeriodMissing:
		return "Não encontrei previsão para esse estado/mês."
	case ReasonRangeEmpty:
		return "Sem previsões para esse intervalo."
	case ReasonRegionMissing:
		return "Sem dados para esse estado."
	case ReasonNotEnoughPeriods:
		return "Não há meses suficientes para calcular crescimento."
	default:
		return "Desculpe, não entendi. Exemplos válidos: 'Top 5 estados para 2025-06', " +
			"'Qual o risco no MT 2025-06?', 'ajuda'."
	}
}
