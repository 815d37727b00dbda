package deliverylog

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus metrics for the delivery log.
type Metrics struct {
	Recorded        prometheus.Counter
	Sampled         prometheus.Counter
	Evicted         prometheus.Counter
	BreakerDropped  prometheus.Counter
	PersistFailures prometheus.Counter
	BreakerState    prometheus.Gauge
}

func NewMetrics() *Metrics {
	return &Metrics{
		Recorded: promauto.NewCounter(prometheus.CounterOpts{
			Name: "bizsuite_delivery_log_recorded_total",
			Help: "Delivery records persisted",
		}),
		Sampled: promauto.NewCounter(prometheus.CounterOpts{
			Name: "bizsuite_delivery_log_sampled_total",
			Help: "Outcomes not recorded because of sampling",
		}),
		Evicted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "bizsuite_delivery_log_evicted_total",
			Help: "Buffered records evicted because the buffer was full",
		}),
		BreakerDropped: promauto.NewCounter(prometheus.CounterOpts{
			Name: "bizsuite_delivery_log_circuit_breaker_dropped_total",
			Help: "Records dropped while the store circuit was open",
		}),
		PersistFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "bizsuite_delivery_log_persist_failures_total",
			Help: "Batches the store failed to persist",
		}),
		BreakerState: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "bizsuite_delivery_log_circuit_breaker_state",
			Help: "Store circuit breaker state (0=closed, 1=open)",
		}),
	}
}

func (m *Metrics) AddRecorded(n int) {
	if m == nil {
		return
	}
	m.Recorded.Add(float64(n))
}

func (m *Metrics) IncSampled() {
	if m == nil {
		return
	}
	m.Sampled.Inc()
}

func (m *Metrics) IncEvicted() {
	if m == nil {
		return
	}
	m.Evicted.Inc()
}

func (m *Metrics) AddBreakerDropped(n int) {
	if m == nil {
		return
	}
	m.BreakerDropped.Add(float64(n))
}

func (m *Metrics) IncPersistFailures() {
	if m == nil {
		return
	}
	m.PersistFailures.Inc()
}

func (m *Metrics) SetBreakerState(open bool) {
	if m == nil {
		return
	}
	if open {
		m.BreakerState.Set(1)
	} else {
		m.BreakerState.Set(0)
	}
}
