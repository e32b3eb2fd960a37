package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyIntent(t *testing.T) {
	latest := Period{Year: 2025, Month: 12}
	june := SinglePeriod(Period{Year: 2025, Month: 6})

	t.Run("help", func(t *testing.T) {
		intent := ClassifyIntent("ajuda", "", false, UnresolvedPeriod())
		assert.Equal(t, IntentHelp, intent.Kind)
	})

	t.Run("help phrase", func(t *testing.T) {
		intent := ClassifyIntent("como usar este chat?", "", false, UnresolvedPeriod())
		assert.Equal(t, IntentHelp, intent.Kind)
	})

	t.Run("top with count", func(t *testing.T) {
		intent := ClassifyIntent("Top 3 estados para 2025-06", "PA", true, june)
		assert.Equal(t, IntentTopRegions, intent.Kind)
		assert.Equal(t, 3, intent.Count)
		assert.Equal(t, june, intent.Ref)
	})

	t.Run("top without count defaults", func(t *testing.T) {
		intent := ClassifyIntent("quais os top estados em 2025-06?", "", false, june)
		assert.Equal(t, IntentTopRegions, intent.Kind)
		assert.Equal(t, DefaultTopCount, intent.Count)
	})

	t.Run("ranking beats region signal", func(t *testing.T) {
		// A state mentioned inside a ranking question must not flip the
		// intent to a single-state lookup.
		intent := ClassifyIntent("top 5 estados como o MT em 2025-06", "MT", true, june)
		assert.Equal(t, IntentTopRegions, intent.Kind)
	})

	t.Run("region risk", func(t *testing.T) {
		intent := ClassifyIntent("Qual o risco no MT 2025-06?", "MT", true, june)
		assert.Equal(t, IntentRegionRisk, intent.Kind)
		assert.Equal(t, "MT", intent.Region)
		assert.Equal(t, june, intent.Ref)
	})

	t.Run("growth", func(t *testing.T) {
		intent := ClassifyIntent("quais estados tiveram maior crescimento?", "", false, UnresolvedPeriod())
		assert.Equal(t, IntentGrowthTrend, intent.Kind)
	})

	t.Run("growth inflection", func(t *testing.T) {
		intent := ClassifyIntent("onde o fogo mais cresceu?", "", false, UnresolvedPeriod())
		assert.Equal(t, IntentGrowthTrend, intent.Kind)
	})

	t.Run("region beats growth", func(t *testing.T) {
		// When a state resolves, the single-state rule fires before the
		// growth keywords.
		intent := ClassifyIntent("o MT teve crescimento?", "MT", true, UnresolvedPeriod())
		assert.Equal(t, IntentRegionRisk, intent.Kind)
	})

	t.Run("unknown", func(t *testing.T) {
		intent := ClassifyIntent("bom dia", "", false, UnresolvedPeriod())
		assert.Equal(t, IntentUnknown, intent.Kind)
	})

	t.Run("top with range", func(t *testing.T) {
		ref := ResolvePeriodRef("top 3 estados próximos 2 meses", latest, true)
		intent := ClassifyIntent("top 3 estados próximos 2 meses", "", false, ref)
		assert.Equal(t, IntentTopRegions, intent.Kind)
		assert.Equal(t, 3, intent.Count)
		assert.Equal(t, RefRange, intent.Ref.Kind)
	})
}

func TestIntentKindString(t *testing.T) {
	assert.Equal(t, "help", IntentHelp.String())
	assert.Equal(t, "top_regions", IntentTopRegions.String())
	assert.Equal(t, "region_risk", IntentRegionRisk.String())
	assert.Equal(t, "growth_trend", IntentGrowthTrend.String())
	assert.Equal(t, "unknown", IntentUnknown.String())
}
