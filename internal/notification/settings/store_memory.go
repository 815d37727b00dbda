package settings

import (
	"context"
	"sync"

	"bizsuite/internal/notification/models"
	id "bizsuite/pkg/domain"
	"bizsuite/pkg/platform/sentinel"
)

type settingKey struct {
	tenantID id.TenantID
	channel  models.Channel
	key      models.Key
}

// InMemoryStore backs tests and local development.
type InMemoryStore struct {
	mu       sync.RWMutex
	settings map[settingKey]models.Setting
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{settings: make(map[settingKey]models.Setting)}
}

func (s *InMemoryStore) Get(_ context.Context, tenantID id.TenantID, channel models.Channel, key models.Key) (*models.Setting, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	setting, ok := s.settings[settingKey{tenantID, channel, key}]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &setting, nil
}

// Put inserts or replaces a setting.
func (s *InMemoryStore) Put(_ context.Context, setting models.Setting) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings[settingKey{setting.TenantID, setting.Channel, setting.Key}] = setting
	return nil
}

func (s *InMemoryStore) Delete(_ context.Context, tenantID id.TenantID, channel models.Channel, key models.Key) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.settings, settingKey{tenantID, channel, key})
	return nil
}
