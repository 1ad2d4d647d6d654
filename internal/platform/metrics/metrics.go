package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application. Consumers accept
// a nil *Metrics so tests can skip registration on the default registry.
type Metrics struct {
	RegistrationsTotal prometheus.Counter
	CardsGenerated     prometheus.Counter
	CardFailures       prometheus.Counter
	EntriesTotal       *prometheus.CounterVec
	DeparturesTotal    prometheus.Counter
	GateCacheHits      prometheus.Counter
	GateCacheMisses    prometheus.Counter
	RequestDuration    *prometheus.HistogramVec
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		RegistrationsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "gatepass_registrations_total",
			Help: "Total number of tourists registered",
		}),
		CardsGenerated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "gatepass_visitor_cards_generated_total",
			Help: "Total number of visitor cards rendered",
		}),
		CardFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "gatepass_visitor_card_failures_total",
			Help: "Total number of visitor card generation failures",
		}),
		EntriesTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "gatepass_entries_total",
			Help: "Total gate entries recorded, by entry type",
		}, []string{"entry_type"}),
		DeparturesTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "gatepass_departures_total",
			Help: "Total gate departures recorded",
		}),
		GateCacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "gatepass_gate_cache_hits_total",
			Help: "Event gate lookups served from cache",
		}),
		GateCacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "gatepass_gate_cache_misses_total",
			Help: "Event gate lookups that fell through to the store",
		}),
		RequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "gatepass_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "status"}),
	}
}

func (m *Metrics) RecordRegistration() {
	if m == nil {
		return
	}
	m.RegistrationsTotal.Inc()
}

func (m *Metrics) RecordCardGenerated() {
	if m == nil {
		return
	}
	m.CardsGenerated.Inc()
}

func (m *Metrics) RecordCardFailure() {
	if m == nil {
		return
	}
	m.CardFailures.Inc()
}

func (m *Metrics) RecordEntry(entryType string) {
	if m == nil {
		return
	}
	m.EntriesTotal.WithLabelValues(entryType).Inc()
}

func (m *Metrics) RecordDeparture() {
	if m == nil {
		return
	}
	m.DeparturesTotal.Inc()
}

func (m *Metrics) RecordGateCacheHit() {
	if m == nil {
		return
	}
	m.GateCacheHits.Inc()
}

func (m *Metrics) RecordGateCacheMiss() {
	if m == nil {
		return
	}
	m.GateCacheMisses.Inc()
}

func (m *Metrics) ObserveRequest(method, status string, seconds float64) {
	if m == nil {
		return
	}
	m.RequestDuration.WithLabelValues(method, status).Observe(seconds)
}
