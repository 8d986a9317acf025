package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Synchronization metrics
	SnapshotsApplied *prometheus.CounterVec
	LedgerSize       *prometheus.GaugeVec

	// Mutation metrics
	Mutations *prometheus.CounterVec

	// Undo metrics
	UndoInstalled prometheus.Counter
	UndoInvoked   prometheus.Counter
	UndoExpired   prometheus.Counter

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
}

// New creates all metrics and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		SnapshotsApplied: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "financify_snapshots_applied_total",
			Help: "Number of remote snapshots applied to local ledgers",
		}, []string{"user_id"}),
		LedgerSize: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "financify_ledger_transactions",
			Help: "Number of transactions in the local ledger",
		}, []string{"user_id"}),
		Mutations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "financify_mutations_total",
			Help: "Number of mutation requests by kind and outcome",
		}, []string{"kind", "outcome"}),
		UndoInstalled: factory.NewCounter(prometheus.CounterOpts{
			Name: "financify_undo_installed_total",
			Help: "Number of undo records installed",
		}),
		UndoInvoked: factory.NewCounter(prometheus.CounterOpts{
			Name: "financify_undo_invoked_total",
			Help: "Number of successful undo invocations",
		}),
		UndoExpired: factory.NewCounter(prometheus.CounterOpts{
			Name: "financify_undo_expired_total",
			Help: "Number of undo records that expired unused",
		}),
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "financify_http_requests_total",
			Help: "Number of HTTP requests",
		}, []string{"method", "path", "status"}),
		HTTPDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "financify_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),
	}
}
