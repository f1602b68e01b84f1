package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Query metrics
	Queries       *prometheus.CounterVec
	QueryDuration *prometheus.HistogramVec
	QueryErrors   *prometheus.CounterVec

	// Reconciliation metrics
	Reconciliations        *prometheus.CounterVec
	ReconcileDifference    prometheus.Histogram
	SuspiciousEntriesFound prometheus.Histogram

	// Ledger source metrics
	LedgerLoads        *prometheus.CounterVec
	LedgerLoadDuration *prometheus.HistogramVec
	LedgerEntries      prometheus.Histogram

	// Cache metrics
	CacheHits   prometheus.Counter
	CacheMisses prometheus.Counter
	CacheErrors *prometheus.CounterVec

	// Database metrics
	DBQueries  *prometheus.CounterVec
	DBDuration *prometheus.HistogramVec
	DBErrors   *prometheus.CounterVec

	// Authentication metrics
	AuthFailures *prometheus.CounterVec

	// Rate limiting metrics
	RateLimitHits prometheus.Counter
}

// New creates and registers all Prometheus metrics on the default registerer.
func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry creates all Prometheus metrics and registers them on reg.
func NewWithRegistry(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		// Query metrics
		Queries: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledgerstat_queries_total",
				Help: "Total analytics queries by kind",
			},
			[]string{"query"},
		),
		QueryDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ledgerstat_query_duration_seconds",
				Help:    "Duration of analytics queries, ledger load included",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"query"},
		),
		QueryErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledgerstat_query_errors_total",
				Help: "Total failed analytics queries by kind",
			},
			[]string{"query"},
		),

		// Reconciliation metrics
		Reconciliations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledgerstat_reconciliations_total",
				Help: "Total reconciliations by outcome",
			},
			[]string{"outcome"},
		),
		ReconcileDifference: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "ledgerstat_reconcile_difference",
			Help:    "Absolute difference between external and internal balance",
			Buckets: []float64{0.01, 1, 10, 100, 1000, 10000, 100000},
		}),
		SuspiciousEntriesFound: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "ledgerstat_suspicious_entries",
			Help:    "Suspicious entries returned per unbalanced reconciliation",
			Buckets: []float64{0, 1, 5, 10, 25, 50, 100},
		}),

		// Ledger source metrics
		LedgerLoads: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledgerstat_ledger_loads_total",
				Help: "Total ledger loads by source and status",
			},
			[]string{"source", "status"},
		),
		LedgerLoadDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ledgerstat_ledger_load_duration_seconds",
				Help:    "Duration of ledger loads by source",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"source"},
		),
		LedgerEntries: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "ledgerstat_ledger_entries",
			Help:    "Entries per loaded ledger",
			Buckets: prometheus.ExponentialBuckets(10, 4, 8),
		}),

		// Cache metrics
		CacheHits: factory.NewCounter(prometheus.CounterOpts{
			Name: "ledgerstat_cache_hits_total",
			Help: "Total ledger cache hits",
		}),
		CacheMisses: factory.NewCounter(prometheus.CounterOpts{
			Name: "ledgerstat_cache_misses_total",
			Help: "Total ledger cache misses",
		}),
		CacheErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledgerstat_cache_errors_total",
				Help: "Total ledger cache errors",
			},
			[]string{"operation"},
		),

		// Database metrics
		DBQueries: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledgerstat_db_queries_total",
				Help: "Total database queries",
			},
			[]string{"operation", "table"},
		),
		DBDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ledgerstat_db_query_duration_seconds",
				Help:    "Database query duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation", "table"},
		),
		DBErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledgerstat_db_errors_total",
				Help: "Total database errors",
			},
			[]string{"operation"},
		),

		// Authentication metrics
		AuthFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledgerstat_auth_failures_total",
				Help: "Total authentication failures",
			},
			[]string{"reason"},
		),

		// Rate limiting metrics
		RateLimitHits: factory.NewCounter(prometheus.CounterOpts{
			Name: "ledgerstat_rate_limit_hits_total",
			Help: "Total rate limit hits",
		}),
	}
}
