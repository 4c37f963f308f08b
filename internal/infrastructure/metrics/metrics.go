package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Voucher metrics
	VouchersCreated     *prometheus.CounterVec
	VoucherTransitions  *prometheus.CounterVec
	PostingFailures     *prometheus.CounterVec
	PostingDuration     *prometheus.HistogramVec
	LedgerLinesRecorded prometheus.Counter
	PennyAdjustments    prometheus.Counter

	// Report metrics
	ReportDuration *prometheus.HistogramVec

	// Account lookup metrics
	AccountCacheLookups *prometheus.CounterVec

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Database metrics
	DBRetries *prometheus.CounterVec

	// Redis metrics
	RedisErrors *prometheus.CounterVec

	// Authentication metrics
	AuthFailures *prometheus.CounterVec

	// Rate limiting metrics
	RateLimitHits prometheus.Counter

	// Audit and event metrics
	AuditLogsCreated *prometheus.CounterVec
	EventsPublished  *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics on the default registerer
func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

// NewWithRegisterer creates all metrics on reg.
func NewWithRegisterer(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		VouchersCreated: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "erpledger_vouchers_created_total",
				Help: "Total number of vouchers created by type",
			},
			[]string{"type"},
		),
		VoucherTransitions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "erpledger_voucher_transitions_total",
				Help: "Total voucher status transitions by target status",
			},
			[]string{"status"},
		),
		PostingFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "erpledger_posting_failures_total",
				Help: "Total failed voucher operations by operation and error kind",
			},
			[]string{"operation", "kind"},
		),
		PostingDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "erpledger_posting_duration_seconds",
				Help:    "Duration of voucher operations",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		LedgerLinesRecorded: factory.NewCounter(prometheus.CounterOpts{
			Name: "erpledger_ledger_lines_recorded_total",
			Help: "Total number of ledger lines made visible to reporting",
		}),
		PennyAdjustments: factory.NewCounter(prometheus.CounterOpts{
			Name: "erpledger_penny_adjustments_total",
			Help: "Total number of opening balance lines corrected for rounding drift",
		}),

		ReportDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "erpledger_report_duration_seconds",
				Help:    "Duration of ledger report queries",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"report"},
		),

		AccountCacheLookups: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "erpledger_account_cache_lookups_total",
				Help: "Account cache lookups by result",
			},
			[]string{"result"},
		),

		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "erpledger_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "erpledger_http_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),

		DBRetries: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "erpledger_db_retries_total",
				Help: "Total retried database operations",
			},
			[]string{"operation"},
		),

		RedisErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "erpledger_redis_errors_total",
				Help: "Total Redis errors",
			},
			[]string{"operation"},
		),

		AuthFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "erpledger_auth_failures_total",
				Help: "Total authentication failures",
			},
			[]string{"reason"},
		),

		RateLimitHits: factory.NewCounter(prometheus.CounterOpts{
			Name: "erpledger_rate_limit_hits_total",
			Help: "Total rate limit hits",
		}),

		AuditLogsCreated: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "erpledger_audit_logs_total",
				Help: "Total audit logs created",
			},
			[]string{"action", "status"},
		),
		EventsPublished: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "erpledger_events_published_total",
				Help: "Total outbox events handed to the publisher",
			},
			[]string{"event_type", "status"},
		),
	}
}
