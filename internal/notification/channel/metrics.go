package channel

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"bizsuite/internal/notification/models"
)

// Metrics holds Prometheus metrics for outbound sends.
type Metrics struct {
	Sends          *prometheus.CounterVec
	SendLatency    *prometheus.HistogramVec
	BreakersOpened *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	return &Metrics{
		Sends: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "bizsuite_notification_channel_sends_total",
			Help: "Outbound notification sends by channel and result",
		}, []string{"channel", "result"}),
		SendLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "bizsuite_notification_channel_send_duration_seconds",
			Help:    "Latency of outbound notification sends",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10},
		}, []string{"channel"}),
		BreakersOpened: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "bizsuite_notification_channel_breaker_opened_total",
			Help: "Times a per-setting circuit breaker opened",
		}, []string{"channel"}),
	}
}

func (m *Metrics) IncSend(ch models.Channel, result string) {
	if m == nil {
		return
	}
	m.Sends.WithLabelValues(string(ch), result).Inc()
}

func (m *Metrics) ObserveSendLatency(ch models.Channel, d time.Duration) {
	if m == nil {
		return
	}
	m.SendLatency.WithLabelValues(string(ch)).Observe(d.Seconds())
}

func (m *Metrics) IncBreakerOpened(ch models.Channel) {
	if m == nil {
		return
	}
	m.BreakersOpened.WithLabelValues(string(ch)).Inc()
}
