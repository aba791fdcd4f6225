// Package metrics defines the service's Prometheus instruments.
package metrics

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Formula evaluation outcomes.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// Metrics holds every instrument the service records.
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	ProductOperations *prometheus.CounterVec
	ColumnOperations  *prometheus.CounterVec

	FormulaEvaluations *prometheus.CounterVec

	StoreOperationDuration *prometheus.HistogramVec

	OutboxEvents *prometheus.CounterVec
}

// New registers the instruments on reg with every name prefixed by prefix.
// Pass prometheus.DefaultRegisterer in production and a fresh registry in tests.
func New(prefix string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    prefix + "_http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		),
		ProductOperations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_product_operations_total",
				Help: "Total number of product operations",
			},
			[]string{"operation"},
		),
		ColumnOperations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_column_operations_total",
				Help: "Total number of column operations",
			},
			[]string{"operation"},
		),
		FormulaEvaluations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_formula_evaluations_total",
				Help: "Total number of formula evaluations by outcome",
			},
			[]string{"outcome"},
		),
		StoreOperationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    prefix + "_store_operation_duration_seconds",
				Help:    "Duration of store operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		OutboxEvents: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_outbox_events_total",
				Help: "Total number of relayed outbox events by result",
			},
			[]string{"result"},
		),
	}
}

// RecordProductOperation increments the counter for product operations.
func (m *Metrics) RecordProductOperation(operation string) {
	m.ProductOperations.WithLabelValues(operation).Inc()
}

// RecordColumnOperation increments the counter for column operations.
func (m *Metrics) RecordColumnOperation(operation string) {
	m.ColumnOperations.WithLabelValues(operation).Inc()
}

// ObserveFormula records one evaluation outcome. Its signature matches
// formula.Observer.
func (m *Metrics) ObserveFormula(err error) {
	outcome := OutcomeOK
	if err != nil {
		outcome = OutcomeError
	}
	m.FormulaEvaluations.WithLabelValues(outcome).Inc()
}

// RecordOutboxEvents adds n relayed events with the given result.
func (m *Metrics) RecordOutboxEvents(result string, n int) {
	if n > 0 {
		m.OutboxEvents.WithLabelValues(result).Add(float64(n))
	}
}

// TrackStoreOperation returns a function that records the duration of a store
// operation started at the given time.
func (m *Metrics) TrackStoreOperation(operation string) func(startTime time.Time) {
	return func(startTime time.Time) {
		m.StoreOperationDuration.WithLabelValues(operation).Observe(time.Since(startTime).Seconds())
	}
}

// Middleware records request counts and durations per route.
func (m *Metrics) Middleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()

		err := next(c)

		status := c.Response().Status
		if err != nil {
			if he, ok := err.(*echo.HTTPError); ok {
				status = he.Code
			}
		}

		method := c.Request().Method
		path := c.Path()
		code := strconv.Itoa(status)

		m.HTTPRequestsTotal.WithLabelValues(method, path, code).Inc()
		m.HTTPRequestDuration.WithLabelValues(method, path, code).Observe(time.Since(start).Seconds())

		return err
	}
}
