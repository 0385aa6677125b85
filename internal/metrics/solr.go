package metrics

import "github.com/prometheus/client_golang/prometheus"

// Solr transport and event Prometheus metrics.
var (
	SolrRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "solrsvc",
			Name:      "solr_requests_total",
			Help:      "Total number of requests sent to Solr",
		},
		[]string{"method", "path", "status"},
	)

	SolrRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "solrsvc",
			Name:      "solr_request_duration_seconds",
			Help:      "Solr request duration in seconds",
			Buckets:   []float64{.005, .01, .025, .05, .075, .1, .15, .2, .3, .5, .75, 1, 2, 5, 10},
		},
		[]string{"method", "path"},
	)

	SolrErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "solrsvc",
			Name:      "solr_errors_total",
			Help:      "Total Solr failures by kind",
		},
		[]string{"path", "error_type"}, // "network" / "status" / "decode"
	)

	EventsPublishedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "solrsvc",
			Name:      "events_published_total",
			Help:      "Total resource events published",
		},
		[]string{"sink", "event", "status"},
	)
)

var solrMetricsRegistered bool

// RegisterSolrMetrics registers Solr and event metrics. Must be called once from main.
func RegisterSolrMetrics() {
	if solrMetricsRegistered {
		return
	}
	prometheus.MustRegister(SolrRequestsTotal)
	prometheus.MustRegister(SolrRequestDuration)
	prometheus.MustRegister(SolrErrorsTotal)
	prometheus.MustRegister(EventsPublishedTotal)
	solrMetricsRegistered = true
}
