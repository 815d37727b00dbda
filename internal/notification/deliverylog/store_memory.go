package deliverylog

import (
	"context"
	"sync"

	id "bizsuite/pkg/domain"
)

// InMemoryStore keeps records per tenant, newest last.
type InMemoryStore struct {
	mu      sync.RWMutex
	records map[id.TenantID][]Record
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{records: make(map[id.TenantID][]Record)}
}

func (s *InMemoryStore) Append(_ context.Context, records []Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range records {
		s.records[r.TenantID] = append(s.records[r.TenantID], r)
	}
	return nil
}

// ListByTenant returns up to limit records, newest first.
func (s *InMemoryStore) ListByTenant(_ context.Context, tenantID id.TenantID, limit int) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	all := s.records[tenantID]
	out := make([]Record, 0, min(len(all), limit))
	for i := len(all) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, all[i])
	}
	return out, nil
}
