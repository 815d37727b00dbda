package dispatcher

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"bizsuite/internal/notification/events"
	"bizsuite/internal/notification/models"
)

// Metrics holds Prometheus metrics for notification dispatch.
type Metrics struct {
	EventsReceived  *prometheus.CounterVec
	EventsDropped   *prometheus.CounterVec
	Outcomes        *prometheus.CounterVec
	QueueDepth      prometheus.Gauge
	ProcessDuration prometheus.Histogram
}

func NewMetrics() *Metrics {
	return &Metrics{
		EventsReceived: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "bizsuite_notification_events_received_total",
			Help: "Domain events handed to the notification dispatcher",
		}, []string{"event_type"}),
		EventsDropped: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "bizsuite_notification_events_dropped_total",
			Help: "Domain events dropped before processing (queue_full, closed)",
		}, []string{"reason"}),
		Outcomes: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "bizsuite_notification_outcomes_total",
			Help: "Per handler and channel dispatch outcomes",
		}, []string{"channel", "status"}),
		QueueDepth: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "bizsuite_notification_queue_depth",
			Help: "Events waiting for a dispatch worker",
		}),
		ProcessDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "bizsuite_notification_process_duration_seconds",
			Help:    "Time to process one event across all handlers",
			Buckets: []float64{.005, .01, .05, .1, .25, .5, 1, 2.5, 5, 10},
		}),
	}
}

func (m *Metrics) IncEventsReceived(t events.Type) {
	if m == nil {
		return
	}
	m.EventsReceived.WithLabelValues(string(t)).Inc()
}

func (m *Metrics) IncEventsDropped(reason string) {
	if m == nil {
		return
	}
	m.EventsDropped.WithLabelValues(reason).Inc()
}

func (m *Metrics) IncOutcome(ch models.Channel, status models.Status) {
	if m == nil {
		return
	}
	m.Outcomes.WithLabelValues(string(ch), string(status)).Inc()
}

func (m *Metrics) SetQueueDepth(n int) {
	if m == nil {
		return
	}
	m.QueueDepth.Set(float64(n))
}

func (m *Metrics) ObserveProcessDuration(d time.Duration) {
	if m == nil {
		return
	}
	m.ProcessDuration.Observe(d.Seconds())
}
