package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatterRanking(t *testing.T) {
	f := NewFormatter(NewRegionDirectory())

	t.Run("single period", func(t *testing.T) {
		result := QueryResult{
			Kind: ResultRanking,
			Rankings: []PeriodRanking{{
				Period: Period{2025, 6},
				Entries: []RankEntry{
					{Region: "MT", Value: 12345},
					{Region: "PA", Value: 1100},
				},
			}},
		}
		reply := f.Format(Intent{Kind: IntentTopRegions}, result)

		assert.Equal(t, "Top 2 previstos para 2025-06: Mato Grosso: 12.345 focos; Pará: 1.100 focos.", reply)
	})

	t.Run("range with missing month", func(t *testing.T) {
		result := QueryResult{
			Kind: ResultRanking,
			Rankings: []PeriodRanking{
				{
					Period:  Period{2026, 1},
					Entries: []RankEntry{{Region: "MT", Value: 1500}},
				},
				{Period: Period{2026, 2}, Missing: true},
			},
		}
		reply := f.Format(Intent{Kind: IntentTopRegions}, result)

		assert.Equal(t, "2026-01: Mato Grosso (1.500) | 2026-02: sem dados", reply)
	})
}

func TestFormatterSingleValue(t *testing.T) {
	f := NewFormatter(NewRegionDirectory())

	t.Run("recorded with actual", func(t *testing.T) {
		result := QueryResult{
			Kind:      ResultSingleValue,
			Region:    "MT",
			Period:    Period{2025, 5},
			Predicted: 900,
			Actual:    floatPtr(950),
		}
		reply := f.Format(Intent{Kind: IntentRegionRisk}, result)

		assert.Equal(t, "Previsão para Mato Grosso (2025-05): 900 focos. Valor real: 950.", reply)
	})

	t.Run("recorded without actual", func(t *testing.T) {
		result := QueryResult{
			Kind:      ResultSingleValue,
			Region:    "PA",
			Period:    Period{2025, 6},
			Predicted: 1100,
		}
		reply := f.Format(Intent{Kind: IntentRegionRisk}, result)

		assert.Equal(t, "Previsão para Pará (2025-06): 1.100 focos.", reply)
	})

	t.Run("latest fallback is labelled", func(t *testing.T) {
		result := QueryResult{
			Kind:           ResultSingleValue,
			Region:         "TO",
			Period:         Period{2025, 6},
			Predicted:      300,
			LatestFallback: true,
		}
		reply := f.Format(Intent{Kind: IntentRegionRisk}, result)

		assert.Equal(t, "Última previsão disponível para Tocantins (2025-06): 300 focos.", reply)
	})

	t.Run("estimated is labelled", func(t *testing.T) {
		result := QueryResult{
			Kind:      ResultSingleValue,
			Region:    "MT",
			Period:    Period{2025, 12},
			Predicted: 1500,
			Estimated: true,
		}
		reply := f.Format(Intent{Kind: IntentRegionRisk}, result)

		assert.Equal(t, "Previsão (gerada on-demand) para MT 2025-12: 1.500 focos.", reply)
	})
}

func TestFormatterRangeTotal(t *testing.T) {
	f := NewFormatter(NewRegionDirectory())
	result := QueryResult{Kind: ResultRangeTotal, Region: "MT", Total: 2100}
	reply := f.Format(Intent{Kind: IntentRegionRisk}, result)

	assert.Equal(t, "Soma de previsões para Mato Grosso nos meses solicitados: 2.100 focos.", reply)
}

func TestFormatterGrowth(t *testing.T) {
	f := NewFormatter(NewRegionDirectory())
	result := QueryResult{
		Kind: ResultGrowthList,
		Growth: []GrowthEntry{
			{Region: "MT", Pct: 0.5},
			{Region: "PA", Pct: -0.125},
		},
		GrowthLatest:   Period{2025, 6},
		GrowthPrevious: Period{2025, 5},
	}
	reply := f.Format(Intent{Kind: IntentGrowthTrend}, result)

	assert.Equal(t,
		"Top 2 estados por aumento percentual (último vs anterior): Mato Grosso: 50,0%; Pará: -12,5%.",
		reply)
}

func TestFormatterNotFound(t *testing.T) {
	f := NewFormatter(NewRegionDirectory())

	tests := []struct {
		name   string
		result QueryResult
		want   string
	}{
		{
			"empty table",
			QueryResult{Kind: ResultNotFound, Reason: ReasonEmptyTable},
			"Ainda não há dados de previsão carregados. Tente novamente mais tarde.",
		},
		{
			"period missing with latest",
			QueryResult{
				Kind: ResultNotFound, Reason: ReasonPeriodMissing,
				Period: Period{2030, 1}, Latest: Period{2025, 6}, HasLatest: true,
			},
			"Não há previsões para 2030-01. Último mês disponível: 2025-06.",
		},
		{
			"region period missing",
			QueryResult{Kind: ResultNotFound, Reason: ReasonRegionPeriodMissing},
			"Não encontrei previsão para esse estado/mês.",
		},
		{
			"range empty",
			QueryResult{Kind: ResultNotFound, Reason: ReasonRangeEmpty},
			"Sem previsões para esse intervalo.",
		},
		{
			"region missing",
			QueryResult{Kind: ResultNotFound, Reason: ReasonRegionMissing},
			"Sem dados para esse estado.",
		},
		{
			"not enough periods",
			QueryResult{Kind: ResultNotFound, Reason: ReasonNotEnoughPeriods},
			"Não há meses suficientes para calcular crescimento.",
		},
		{
			"not understood",
			QueryResult{Kind: ResultNotFound, Reason: ReasonNotUnderstood},
			"Desculpe, não entendi. Exemplos válidos: 'Top 5 estados para 2025-06', 'Qual o risco no MT 2025-06?', 'ajuda'.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, f.Format(Intent{}, tt.result))
		})
	}
}

func TestFormatterHelp(t *testing.T) {
	f := NewFormatter(NewRegionDirectory())
	reply := f.Format(Intent{Kind: IntentHelp}, QueryResult{})

	assert.Contains(t, reply, "Você pode perguntar")
	assert.Contains(t, reply, "Top 5 estados para 2025-06")
	assert.Contains(t, reply, "Qual o risco no MT 2025-06?")
}
