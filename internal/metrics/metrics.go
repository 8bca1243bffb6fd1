package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics bundles the service's Prometheus collectors. Each instance carries
// its own registry so the process owns exactly one set of collectors.
type Metrics struct {
	TransactionsTotal       *prometheus.CounterVec
	FailedTransactionsTotal prometheus.Counter
	RequestDuration         *prometheus.HistogramVec

	registry *prometheus.Registry
}

// New creates the collectors on a fresh registry
func New() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		TransactionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "transactions_total",
			Help: "Total number of transactions",
		}, []string{"txn_type"}),
		FailedTransactionsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "failed_transactions_total",
			Help: "Total number of rejected create requests",
		}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2},
		}, []string{"method", "path", "status"}),
		registry: registry,
	}
}

// Handler exposes the registry for the /metrics endpoint
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
