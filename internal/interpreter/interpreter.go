package interpreter

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/cerradowatch/fire-risk-chat/internal/domain"
	"github.com/cerradowatch/fire-risk-chat/internal/observability"
)

// ChatLogger persists one answered exchange. Implementations must tolerate
// concurrent calls; failures are reported, never propagated to the reply.
type ChatLogger interface {
	Append(ctx context.Context, entry domain.ChatEntry) error
}

// Interpreter answers free-text questions about the loaded wildfire forecast
// snapshot. It is safe for concurrent use: the table and directory are
// immutable, and the engine holds no mutable state.
type Interpreter struct {
	table     *domain.ForecastTable
	regions   *domain.RegionDirectory
	engine    *domain.QueryEngine
	formatter *domain.Formatter
	chatlog   ChatLogger // may be nil
	logger    *slog.Logger
	metrics   *observability.Metrics
}

// New creates an Interpreter over an immutable forecast table. predictor and
// chatlog may be nil, disabling on-demand estimates and chat persistence.
func New(table *domain.ForecastTable, predictor domain.Predictor, chatlog ChatLogger, logger *slog.Logger, metrics *observability.Metrics) *Interpreter {
	regions := domain.NewRegionDirectory()
	return &Interpreter{
		table:     table,
		regions:   regions,
		engine:    domain.NewQueryEngine(table, predictor),
		formatter: domain.NewFormatter(regions),
		chatlog:   chatlog,
		logger:    logger,
		metrics:   metrics,
	}
}

// CheckReadiness returns nil once forecast data is loaded, or an error
// describing why the service cannot answer data questions yet.
func (i *Interpreter) CheckReadiness(_ context.Context) error {
	if i.table.Empty() {
		return errors.New("no forecast rows loaded")
	}
	return nil
}

// Answer interprets one question and returns the reply. The same question
// against the same table always produces the same reply; answering never
// mutates any state beyond the chat log and metrics.
func (i *Interpreter) Answer(ctx context.Context, question string) string {
	start := time.Now()

	intent := i.classify(question)
	result := i.engine.Execute(ctx, intent)
	reply := i.formatter.Format(intent, result)

	i.metrics.QuestionsTotal.Inc()
	i.metrics.IntentTotal.WithLabelValues(intent.Kind.String()).Inc()
	i.metrics.AnswerDuration.Observe(time.Since(start).Seconds())

	i.logger.Debug("question answered",
		"intent", intent.Kind.String(),
		"duration", time.Since(start),
	)

	i.appendChatLog(ctx, question, reply, intent)

	return reply
}

// classify resolves the region and temporal reference from the raw text and
// combines them into an intent. Resolution failures are represented as absent
// signals, not errors.
func (i *Interpreter) classify(question string) domain.Intent {
	region, regionOK := i.regions.Resolve(question)
	latest, hasLatest := i.table.LatestPeriod()
	ref := domain.ResolvePeriodRef(question, latest, hasLatest)
	return domain.ClassifyIntent(question, region, regionOK, ref)
}

// appendChatLog persists the exchange best-effort. A failing sink produces a
// warning and a metric tick; the caller still gets the reply.
func (i *Interpreter) appendChatLog(ctx context.Context, question, reply string, intent domain.Intent) {
	if i.chatlog == nil {
		return
	}
	entry := domain.NewChatEntry(question, reply, intent.Kind)
	if err := i.chatlog.Append(ctx, entry); err != nil {
		i.metrics.ChatLogErrors.Inc()
		i.logger.Warn("chat log append failed", "error", err)
	}
}
