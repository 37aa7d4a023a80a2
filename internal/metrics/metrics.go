package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Store operation outcomes
const (
	OutcomeOK         = "ok"
	OutcomeNotFound   = "not_found"
	OutcomeConstraint = "constraint"
	OutcomeError      = "error"
)

// Metrics holds the service collectors. A nil *Metrics is valid and records
// nothing.
type Metrics struct {
	HTTPRequests        *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	StoreOperations     *prometheus.CounterVec
	ValidationFailures  *prometheus.CounterVec
	CascadeDeletedItems prometheus.Counter
	RateLimited         *prometheus.CounterVec
}

// New registers the collectors on reg
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "shoppinglist_http_requests_total",
			Help: "Total number of HTTP requests by route and status",
		}, []string{"method", "route", "status"}),
		HTTPRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "shoppinglist_http_request_duration_seconds",
			Help:    "HTTP request latency by route",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		StoreOperations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "shoppinglist_store_operations_total",
			Help: "Store operations by name and outcome",
		}, []string{"operation", "outcome"}),
		ValidationFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "shoppinglist_validation_failures_total",
			Help: "Rejected request bodies by entity and first failing field",
		}, []string{"entity", "field"}),
		CascadeDeletedItems: factory.NewCounter(prometheus.CounterOpts{
			Name: "shoppinglist_cascade_deleted_items_total",
			Help: "Items removed by cascading list deletes",
		}),
		RateLimited: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "shoppinglist_rate_limited_requests_total",
			Help: "Requests rejected by a rate limiter",
		}, []string{"limiter"}),
	}
}

// ObserveRequest records one served HTTP request
func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// StoreOperation records the outcome of a store call
func (m *Metrics) StoreOperation(operation, outcome string) {
	if m == nil {
		return
	}
	m.StoreOperations.WithLabelValues(operation, outcome).Inc()
}

// ValidationFailure records a rejected body
func (m *Metrics) ValidationFailure(entity, field string) {
	if m == nil {
		return
	}
	m.ValidationFailures.WithLabelValues(entity, field).Inc()
}

// CascadeDeleted records items removed after a list delete
func (m *Metrics) CascadeDeleted(n int64) {
	if m == nil || n <= 0 {
		return
	}
	m.CascadeDeletedItems.Add(float64(n))
}

// RateLimitHit records a rejected request
func (m *Metrics) RateLimitHit(limiter string) {
	if m == nil {
		return
	}
	m.RateLimited.WithLabelValues(limiter).Inc()
}

// Handler serves the collectors registered on g in the Prometheus text format
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
