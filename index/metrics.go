package index

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	searchLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "lexresearch",
		Subsystem: "index",
		Name:      "search_duration_seconds",
		Help:      "Duration of hybrid searches",
		Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
	})

	searchMethodTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "lexresearch",
		Subsystem: "index",
		Name:      "search_method_total",
		Help:      "Searches by ranking method (hybrid, lexical_only, dense_only, none)",
	}, []string{"method"})

	queryEmbeddingErrors = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "lexresearch",
		Subsystem: "index",
		Name:      "query_embedding_errors_total",
		Help:      "Query embeddings that failed and fell back to lexical ranking",
	})

	buildDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "lexresearch",
		Subsystem: "index",
		Name:      "build_duration_seconds",
		Help:      "Duration of index bundle builds",
		Buckets:   prometheus.ExponentialBuckets(0.01, 4, 8),
	})
)
