package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Ingestion sources.
const (
	SourceHTTP  = "http"
	SourceKafka = "kafka"
)

// Metrics holds Prometheus metrics for event ingestion. Dispatch and channel
// metrics live with their packages.
type Metrics struct {
	EventsIngested *prometheus.CounterVec
	EventsRejected *prometheus.CounterVec
	EventsRelayed  *prometheus.CounterVec
}

// New creates and registers the ingestion metrics.
func New() *Metrics {
	return &Metrics{
		EventsIngested: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "bizsuite_events_ingested_total",
			Help: "Domain events accepted for notification dispatch",
		}, []string{"source"}),
		EventsRejected: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "bizsuite_events_rejected_total",
			Help: "Domain events refused at ingestion (malformed, unknown_type, unauthorized)",
		}, []string{"source", "reason"}),
		EventsRelayed: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "bizsuite_events_relayed_total",
			Help: "Domain events produced to the event bus, by result",
		}, []string{"result"}),
	}
}

// IncEventsIngested counts an accepted event.
func (m *Metrics) IncEventsIngested(source string) {
	if m == nil {
		return
	}
	m.EventsIngested.WithLabelValues(source).Inc()
}

// IncEventsRejected counts a refused event.
func (m *Metrics) IncEventsRejected(source, reason string) {
	if m == nil {
		return
	}
	m.EventsRejected.WithLabelValues(source, reason).Inc()
}

// IncEventsRelayed counts a produce attempt; result is "ok" or "error".
func (m *Metrics) IncEventsRelayed(result string) {
	if m == nil {
		return
	}
	m.EventsRelayed.WithLabelValues(result).Inc()
}
