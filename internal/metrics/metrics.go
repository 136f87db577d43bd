// Package metrics holds the Prometheus collectors for the trash lifecycle and
// the HTTP layer. A nil *Metrics is valid and records nothing.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Result label values.
const (
	ResultSuccess = "success"
	ResultError   = "error"
)

// Metrics provides observability for the trash lifecycle and HTTP API.
type Metrics struct {
	// Lifecycle operations by operation, entity kind and result
	TrashOperations *prometheus.CounterVec

	// Rows permanently removed, by table (dependents and roots)
	RowsPurged *prometheus.CounterVec

	// Lifecycle operation latency
	OperationDuration *prometheus.HistogramVec

	// HTTP requests by method, route pattern and status code
	HTTPRequests *prometheus.CounterVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		TrashOperations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "caseflow_trash_operations_total",
			Help: "Total trash lifecycle operations by operation, kind and result",
		}, []string{"operation", "kind", "result"}),

		RowsPurged: f.NewCounterVec(prometheus.CounterOpts{
			Name: "caseflow_trash_rows_purged_total",
			Help: "Total rows permanently removed by table",
		}, []string{"table"}),

		OperationDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "caseflow_trash_operation_duration_seconds",
			Help:    "Duration of trash lifecycle operations",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"operation"}),

		HTTPRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "caseflow_http_requests_total",
			Help: "Total HTTP requests by method, route and status",
		}, []string{"method", "route", "status"}),
	}
}

// ObserveOperation records one lifecycle operation and its duration.
func (m *Metrics) ObserveOperation(operation, kind string, err error, d time.Duration) {
	if m == nil {
		return
	}
	result := ResultSuccess
	if err != nil {
		result = ResultError
	}
	m.TrashOperations.WithLabelValues(operation, kind, result).Inc()
	m.OperationDuration.WithLabelValues(operation).Observe(d.Seconds())
}

// AddRowsPurged records rows removed from table.
func (m *Metrics) AddRowsPurged(table string, n int64) {
	if m != nil && n > 0 {
		m.RowsPurged.WithLabelValues(table).Add(float64(n))
	}
}

// IncrementHTTPRequest records a served HTTP request.
func (m *Metrics) IncrementHTTPRequest(method, route, status string) {
	if m != nil {
		m.HTTPRequests.WithLabelValues(method, route, status).Inc()
	}
}
