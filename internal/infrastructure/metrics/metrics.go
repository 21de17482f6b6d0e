package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/rocksti/pagafacil/internal/domain"
)

const namespace = "pagafacil"

// Metrics holds all Prometheus metrics. It implements usecase.Recorder.
type Metrics struct {
	// Account metrics
	AccountsRegistered prometheus.Counter
	StatusChanges      *prometheus.CounterVec
	ImportedAccounts   prometheus.Counter
	ImportBatches      prometheus.Counter

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
	HTTPInFlight prometheus.Gauge

	// Rate limiting metrics
	RateLimitHits *prometheus.CounterVec
}

// New creates all metrics and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		AccountsRegistered: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "accounts_registered_total",
			Help:      "Total number of accounts registered one by one",
		}),
		StatusChanges: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "account_status_changes_total",
				Help:      "Total number of status changes by target status",
			},
			[]string{"status"},
		),
		ImportedAccounts: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "accounts_imported_total",
			Help:      "Total number of accounts created by CSV import",
		}),
		ImportBatches: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "import_batches_total",
			Help:      "Total number of committed CSV imports",
		}),

		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "route"},
		),
		HTTPInFlight: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_requests_in_flight",
			Help:      "Number of HTTP requests currently being processed",
		}),

		RateLimitHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "rate_limit_hits_total",
				Help:      "Requests rejected by the rate limiter",
			},
			[]string{"route"},
		),
	}
}

func (m *Metrics) AccountRegistered() {
	m.AccountsRegistered.Inc()
}

func (m *Metrics) StatusChanged(status domain.Status) {
	m.StatusChanges.WithLabelValues(string(status)).Inc()
}

// AccountsImported counts one committed batch of count accounts.
func (m *Metrics) AccountsImported(count int) {
	m.ImportBatches.Inc()
	m.ImportedAccounts.Add(float64(count))
}
