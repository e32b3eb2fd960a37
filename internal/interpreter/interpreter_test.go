package interpreter

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cerradowatch/fire-risk-chat/internal/domain"
	"github.com/cerradowatch/fire-risk-chat/internal/observability"
)

func floatPtr(v float64) *float64 { return &v }

func testTable() *domain.ForecastTable {
	return domain.NewForecastTable([]domain.ForecastRow{
		{Region: "MT", Period: domain.Period{Year: 2025, Month: 5}, Predicted: 900, Actual: floatPtr(950)},
		{Region: "PA", Period: domain.Period{Year: 2025, Month: 5}, Predicted: 800, Actual: floatPtr(700)},
		{Region: "MT", Period: domain.Period{Year: 2025, Month: 6}, Predicted: 1200},
		{Region: "PA", Period: domain.Period{Year: 2025, Month: 6}, Predicted: 1100},
		{Region: "TO", Period: domain.Period{Year: 2025, Month: 6}, Predicted: 300},
	})
}

type recordingChatLog struct {
	entries []domain.ChatEntry
	err     error
}

func (r *recordingChatLog) Append(_ context.Context, entry domain.ChatEntry) error {
	if r.err != nil {
		return r.err
	}
	r.entries = append(r.entries, entry)
	return nil
}

func newTestInterpreter(table *domain.ForecastTable, chatlog ChatLogger) *Interpreter {
	logger := slog.New(slog.DiscardHandler)
	return New(table, nil, chatlog, logger, observability.NewMetricsForTesting())
}

func TestInterpreterAnswer(t *testing.T) {
	ctx := context.Background()
	interp := newTestInterpreter(testTable(), nil)

	t.Run("ranking question", func(t *testing.T) {
		reply := interp.Answer(ctx, "Top 3 estados para 2025-06")
		assert.Equal(t, "Top 3 previstos para 2025-06: Mato Grosso: 1.200 focos; Pará: 1.100 focos; Tocantins: 300 focos.", reply)
	})

	t.Run("ranking without period uses latest month", func(t *testing.T) {
		reply := interp.Answer(ctx, "top 2 estados")
		assert.Equal(t, "Top 2 previstos para 2025-06: Mato Grosso: 1.200 focos; Pará: 1.100 focos.", reply)
	})

	t.Run("state question", func(t *testing.T) {
		reply := interp.Answer(ctx, "Qual o risco no MT 2025-05?")
		assert.Equal(t, "Previsão para Mato Grosso (2025-05): 900 focos. Valor real: 950.", reply)
	})

	t.Run("state by full name", func(t *testing.T) {
		reply := interp.Answer(ctx, "Mostre a previsão para o Pará em junho de 2025")
		assert.Equal(t, "Previsão para Pará (2025-06): 1.100 focos.", reply)
	})

	t.Run("state without period uses its latest row", func(t *testing.T) {
		reply := interp.Answer(ctx, "como está o TO?")
		assert.Equal(t, "Última previsão disponível para Tocantins (2025-06): 300 focos.", reply)
	})

	t.Run("preposition para never answers with Pará", func(t *testing.T) {
		for _, question := range []string{
			"qual a previsão para 2025-06?",
			"previsão para Narnia 2025-06",
		} {
			reply := interp.Answer(ctx, question)
			assert.Equal(t, "Não encontrei previsão para esse estado/mês.", reply, "question %q", question)
		}
		reply := interp.Answer(ctx, "qual o risco para o próximo mês?")
		assert.NotContains(t, reply, "Pará")
	})

	t.Run("next months ranking", func(t *testing.T) {
		reply := interp.Answer(ctx, "top 2 estados próximos 2 meses")
		assert.Equal(t, "2025-07: sem dados | 2025-08: sem dados", reply)
	})

	t.Run("growth question", func(t *testing.T) {
		reply := interp.Answer(ctx, "quais estados tiveram maior crescimento?")
		assert.Contains(t, reply, "aumento percentual")
		assert.Contains(t, reply, "Mato Grosso")
	})

	t.Run("help", func(t *testing.T) {
		reply := interp.Answer(ctx, "ajuda")
		assert.Contains(t, reply, "Você pode perguntar")
	})

	t.Run("unknown question apologizes", func(t *testing.T) {
		reply := interp.Answer(ctx, "bom dia")
		assert.Contains(t, reply, "Desculpe, não entendi")
	})

	t.Run("unknown state with a valid month gets the data apology", func(t *testing.T) {
		reply := interp.Answer(ctx, "risco em atlantida 2025-06")
		assert.Equal(t, "Não encontrei previsão para esse estado/mês.", reply)
	})

	t.Run("missing period names the latest month", func(t *testing.T) {
		reply := interp.Answer(ctx, "top 5 estados em 2030-01")
		assert.Equal(t, "Não há previsões para 2030-01. Último mês disponível: 2025-06.", reply)
	})

	t.Run("same question same reply", func(t *testing.T) {
		question := "Top 3 estados para 2025-06"
		assert.Equal(t, interp.Answer(ctx, question), interp.Answer(ctx, question))
	})
}

func TestInterpreterEmptyTable(t *testing.T) {
	ctx := context.Background()
	interp := newTestInterpreter(domain.NewForecastTable(nil), nil)

	t.Run("help still works", func(t *testing.T) {
		reply := interp.Answer(ctx, "ajuda")
		assert.Contains(t, reply, "Você pode perguntar")
	})

	t.Run("data question reports missing data", func(t *testing.T) {
		reply := interp.Answer(ctx, "top 5 estados")
		assert.Equal(t, "Ainda não há dados de previsão carregados. Tente novamente mais tarde.", reply)
	})

	t.Run("not ready", func(t *testing.T) {
		require.Error(t, interp.CheckReadiness(ctx))
	})
}

func TestInterpreterChatLog(t *testing.T) {
	ctx := context.Background()

	t.Run("records the exchange", func(t *testing.T) {
		frozen := clockwork.NewFakeClockAt(time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC))
		domain.SetClock(frozen)
		defer domain.SetClock(nil)

		sink := &recordingChatLog{}
		interp := newTestInterpreter(testTable(), sink)

		reply := interp.Answer(ctx, "Qual o risco no MT 2025-05?")

		require.Len(t, sink.entries, 1)
		entry := sink.entries[0]
		assert.Equal(t, "Qual o risco no MT 2025-05?", entry.Question)
		assert.Equal(t, reply, entry.Answer)
		assert.Equal(t, "region_risk", entry.Intent)
		assert.Equal(t, frozen.Now().UTC(), entry.AskedAt)
	})

	t.Run("sink failure does not affect the reply", func(t *testing.T) {
		sink := &recordingChatLog{err: errors.New("disk full")}
		interp := newTestInterpreter(testTable(), sink)

		reply := interp.Answer(ctx, "Qual o risco no MT 2025-05?")
		assert.Equal(t, "Previsão para Mato Grosso (2025-05): 900 focos. Valor real: 950.", reply)
	})
}

func TestInterpreterReadiness(t *testing.T) {
	interp := newTestInterpreter(testTable(), nil)
	assert.NoError(t, interp.CheckReadiness(context.Background()))
}
