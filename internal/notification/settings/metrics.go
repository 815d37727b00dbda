package settings

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Cache lookup results.
const (
	cacheHit         = "hit"
	cacheNegativeHit = "negative_hit"
	cacheMiss        = "miss"
	cacheError       = "error"
)

// Metrics holds Prometheus metrics for the settings cache.
type Metrics struct {
	CacheRequests *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	return &Metrics{
		CacheRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "bizsuite_notification_settings_cache_requests_total",
			Help: "Notification settings cache lookups by result (hit, negative_hit, miss, error)",
		}, []string{"result"}),
	}
}

func (m *Metrics) IncCacheRequest(result string) {
	if m == nil {
		return
	}
	m.CacheRequests.WithLabelValues(result).Inc()
}
