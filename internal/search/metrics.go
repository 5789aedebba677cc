package search

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the service collectors.
type Metrics struct {
	QueriesCompiled *prometheus.CounterVec
	ParseFailures   *prometheus.CounterVec
	CompileDuration prometheus.Histogram
	SearchResults   prometheus.Histogram
}

func newMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		QueriesCompiled: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "aql",
			Name:      "queries_compiled_total",
			Help:      "Queries compiled, by result.",
		}, []string{"result"}),
		ParseFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "aql",
			Name:      "parse_failures_total",
			Help:      "Query parse failures, by error code.",
		}, []string{"code"}),
		CompileDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "aql",
			Name:      "compile_duration_seconds",
			Help:      "Time spent compiling uncached queries.",
			Buckets:   prometheus.ExponentialBuckets(0.00005, 4, 8),
		}),
		SearchResults: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "aql",
			Name:      "search_results",
			Help:      "Rows returned per search.",
			Buckets:   []float64{0, 1, 5, 25, 100, 250, 1000},
		}),
	}
	if reg != nil {
		reg.MustRegister(m.QueriesCompiled, m.ParseFailures, m.CompileDuration, m.SearchResults)
	}
	return m
}
