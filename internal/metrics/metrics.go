package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP
	RequestLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_requests_latency_seconds",
			Help:    "Latency of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	// Ledger
	TransactionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "point_transactions_total",
			Help: "Total successful point transactions",
		},
		[]string{"type"}, // CHARGE|USE
	)
	TransactionsFailed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "point_transactions_failed_total",
			Help: "Total rejected or failed point transactions",
		},
		[]string{"type", "reason"},
	)
	LockWait = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "point_lock_wait_seconds",
			Help:    "Time spent waiting for a per-user lock.",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
		},
	)
	LockRegistrySize = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "point_lock_registry_size",
			Help: "Number of per-user locks held by the registry",
		},
	)

	// Worker queue
	WorkerQueueDepth = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "worker_queue_depth",
			Help: "Current worker queue depth",
		},
	)

	initOnce sync.Once
)

// Handler serves the /metrics endpoint.
var Handler = promhttp.Handler

// Init registers every collector with the default registry. Safe to call more
// than once.
func Init() {
	initOnce.Do(func() {
		prometheus.MustRegister(
			RequestLatency,
			TransactionsTotal,
			TransactionsFailed,
			LockWait,
			LockRegistrySize,
			WorkerQueueDepth,
		)
	})
}
