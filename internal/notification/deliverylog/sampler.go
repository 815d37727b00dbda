package deliverylog

import (
	"math/rand/v2"
	"sync"

	"bizsuite/internal/notification/models"
)

// Sampler decides per status whether an outcome is kept. Disabled outcomes
// are by far the most frequent and carry the least information.
type Sampler struct {
	mu           sync.RWMutex
	defaultRate  float64
	rateByStatus map[models.Status]float64
	random       func() float64
}

// NewSampler keeps everything except disabled outcomes, which are kept at
// disabledRate.
func NewSampler(disabledRate float64) *Sampler {
	s := &Sampler{
		defaultRate:  1,
		rateByStatus: make(map[models.Status]float64),
		random:       rand.Float64, //nolint:gosec // sampling doesn't need crypto rand
	}
	s.SetRate(models.StatusDisabled, disabledRate)
	return s
}

// Keep reports whether an outcome with status should be recorded.
func (s *Sampler) Keep(status models.Status) bool {
	rate := s.rateFor(status)
	switch {
	case rate <= 0:
		return false
	case rate >= 1:
		return true
	}
	return s.random() < rate
}

// SetRate overrides the rate for one status. Rates are clamped to [0, 1].
func (s *Sampler) SetRate(status models.Status, rate float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rateByStatus[status] = clamp(rate)
}

func (s *Sampler) rateFor(status models.Status) float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if rate, ok := s.rateByStatus[status]; ok {
		return rate
	}
	return s.defaultRate
}

func clamp(rate float64) float64 {
	if rate < 0 {
		return 0
	}
	if rate > 1 {
		return 1
	}
	return rate
}
