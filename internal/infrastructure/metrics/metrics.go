// Package metrics provides Prometheus collectors for Filmorate.
//
// Metrics Categories:
//   - Relation mutations: friend and like edges added/removed, by outcome
//   - Ranking queries: latency of popular/common/director queries
//   - Domain events: published events and handler latency
//   - Cache: popular films cache hits, misses and breaker state
//   - HTTP: request counts and latency by route pattern
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcomes of a relation mutation.
const (
	OutcomeApplied = "applied"
	OutcomeNoop    = "noop"
	OutcomeError   = "error"
)

var (
	// RelationMutationsTotal counts friend/like/director edge mutations.
	RelationMutationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "filmorate_relation_mutations_total",
			Help: "Total number of relation edge mutations",
		},
		[]string{"relation", "op", "outcome"},
	)

	// QueryDuration tracks ranking and intersection query latency.
	QueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "filmorate_query_duration_seconds",
			Help:    "Duration of graph and ranking queries in seconds",
			Buckets: []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		},
		[]string{"query"},
	)

	// EventsPublishedTotal counts domain events by type.
	EventsPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "filmorate_events_published_total",
			Help: "Total number of published domain events",
		},
		[]string{"event_type"},
	)

	// EventHandlerDuration tracks event handler latency.
	EventHandlerDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "filmorate_event_handler_duration_seconds",
			Help:    "Duration of domain event handlers in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"event_type", "status"},
	)

	// CacheRequestsTotal counts cache lookups by result (hit, miss, error).
	CacheRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "filmorate_cache_requests_total",
			Help: "Total number of cache lookups",
		},
		[]string{"cache", "result"},
	)

	// CircuitBreakerState exposes breaker state: 0 closed, 1 half-open, 2 open.
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "filmorate_circuit_breaker_state",
			Help: "Circuit breaker state (0 closed, 1 half-open, 2 open)",
		},
		[]string{"name"},
	)

	// CircuitBreakerTransitions counts breaker state changes.
	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "filmorate_circuit_breaker_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from", "to"},
	)

	// JournalWritesTotal counts persistence journal writes by result.
	JournalWritesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "filmorate_journal_writes_total",
			Help: "Total number of journal writes",
		},
		[]string{"op", "status"},
	)

	// HTTPRequestsTotal counts API requests.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "filmorate_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	// HTTPRequestDuration tracks API latency.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "filmorate_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)

// RecordMutation records the outcome of a relation mutation.
func RecordMutation(relation, op string, changed bool, err error) {
	outcome := OutcomeApplied
	switch {
	case err != nil:
		outcome = OutcomeError
	case !changed:
		outcome = OutcomeNoop
	}
	RelationMutationsTotal.WithLabelValues(relation, op, outcome).Inc()
}

// ObserveQuery records how long a query took since start.
func ObserveQuery(query string, start time.Time) {
	QueryDuration.WithLabelValues(query).Observe(time.Since(start).Seconds())
}

// RecordEventHandled records one handler execution.
func RecordEventHandled(eventType string, d time.Duration, ok bool) {
	status := "success"
	if !ok {
		status = "error"
	}
	EventHandlerDuration.WithLabelValues(eventType, status).Observe(d.Seconds())
}

// RecordJournalWrite records one journal write.
func RecordJournalWrite(op string, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	JournalWritesTotal.WithLabelValues(op, status).Inc()
}

// RecordCacheLookup records one cache lookup result (hit, miss, error, rejected).
func RecordCacheLookup(cache, result string) {
	CacheRequestsTotal.WithLabelValues(cache, result).Inc()
}
