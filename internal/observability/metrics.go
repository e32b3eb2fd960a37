package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the chat service.
type Metrics struct {
	QuestionsTotal prometheus.Counter
	IntentTotal    *prometheus.CounterVec // labels: intent={help,top_regions,region_risk,growth_trend,unknown}
	AnswerDuration prometheus.Histogram
	SnapshotRows   prometheus.Gauge
	ChatLogErrors  prometheus.Counter

	// On-demand predictor metrics.
	PredictorRequests *prometheus.CounterVec // labels: outcome={success,error}
	PredictorCache    *prometheus.CounterVec // labels: result={hit,miss}
	PredictorEnabled  prometheus.Gauge
}

// NewMetrics creates and registers all chat metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		QuestionsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "fire_chat",
			Name:      "questions_total",
			Help:      "Total questions answered.",
		}),
		IntentTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fire_chat",
			Name:      "intent_total",
			Help:      "Questions by classified intent.",
		}, []string{"intent"}),
		AnswerDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "fire_chat",
			Name:      "answer_duration_seconds",
			Help:      "Duration of a complete question-to-reply cycle.",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}),
		SnapshotRows: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "fire_chat",
			Name:      "snapshot_rows",
			Help:      "Number of forecast rows loaded from the snapshot.",
		}),
		ChatLogErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "fire_chat",
			Name:      "chatlog_errors_total",
			Help:      "Total chat-log append failures.",
		}),
		PredictorRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fire_chat",
			Name:      "predictor_requests_total",
			Help:      "On-demand predictor requests by outcome.",
		}, []string{"outcome"}),
		PredictorCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fire_chat",
			Name:      "predictor_cache_total",
			Help:      "Predictor cache lookups by result.",
		}, []string{"result"}),
		PredictorEnabled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "fire_chat",
			Name:      "predictor_enabled",
			Help:      "1 when the on-demand predictor is enabled, 0 otherwise.",
		}),
	}

	prometheus.MustRegister(
		m.QuestionsTotal,
		m.IntentTotal,
		m.AnswerDuration,
		m.SnapshotRows,
		m.ChatLogErrors,
		m.PredictorRequests,
		m.PredictorCache,
		m.PredictorEnabled,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		QuestionsTotal:    prometheus.NewCounter(prometheus.CounterOpts{Namespace: "fire_chat", Name: "questions_total"}),
		IntentTotal:       prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "fire_chat", Name: "intent_total"}, []string{"intent"}),
		AnswerDuration:    prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "fire_chat", Name: "answer_duration_seconds"}),
		SnapshotRows:      prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "fire_chat", Name: "snapshot_rows"}),
		ChatLogErrors:     prometheus.NewCounter(prometheus.CounterOpts{Namespace: "fire_chat", Name: "chatlog_errors_total"}),
		PredictorRequests: prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "fire_chat", Name: "predictor_requests_total"}, []string{"outcome"}),
		PredictorCache:    prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "fire_chat", Name: "predictor_cache_total"}, []string{"result"}),
		PredictorEnabled:  prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "fire_chat", Name: "predictor_enabled"}),
	}
}
