package settings

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_IncCacheRequest(t *testing.T) {
	t.Run("nil metrics are a no-op", func(t *testing.T) {
		var m *Metrics
		assert.NotPanics(t, func() { m.IncCacheRequest(cacheHit) })
	})
	t.Run("counts by result", func(t *testing.T) {
		m := &Metrics{CacheRequests: prometheus.NewCounterVec(prometheus.CounterOpts{Name: "cache_requests_total"}, []string{"result"})}
		m.IncCacheRequest(cacheMiss)
		m.IncCacheRequest(cacheMiss)
		m.IncCacheRequest(cacheNegativeHit)
		assert.Equal(t, 2.0, testutil.ToFloat64(m.CacheRequests.WithLabelValues(cacheMiss)))
		assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheRequests.WithLabelValues(cacheNegativeHit)))
	})
}
