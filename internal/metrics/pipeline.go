package metrics

import "github.com/prometheus/client_golang/prometheus"

// Pipeline Prometheus metrics.
var (
	PipelineStageDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "stylerank",
			Name:      "pipeline_stage_duration_seconds",
			Help:      "Duration of one pipeline stage over one batch",
			Buckets:   []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 5, 15, 60},
		},
		[]string{"stage"}, // attributes / embeddings / values / taste / rank
	)

	ListingsProcessedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "stylerank",
			Name:      "listings_processed_total",
			Help:      "Listings that entered the enrichment pipeline",
		},
	)

	ListingsSkippedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "stylerank",
			Name:      "listings_skipped_total",
			Help:      "Malformed or duplicate source records skipped at load",
		},
	)

	RankRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "stylerank",
			Name:      "rank_requests_total",
			Help:      "Ranking requests by mode and outcome",
		},
		[]string{"mode", "status"},
	)
)

var pipelineMetricsRegistered bool

// RegisterPipelineMetrics registers pipeline metrics. Must be called once
// from main.
func RegisterPipelineMetrics() {
	if pipelineMetricsRegistered {
		return
	}
	prometheus.MustRegister(PipelineStageDuration)
	prometheus.MustRegister(ListingsProcessedTotal)
	prometheus.MustRegister(ListingsSkippedTotal)
	prometheus.MustRegister(RankRequestsTotal)
	pipelineMetricsRegistered = true
}
