package handlers

import (
	"context"
	"sync"

	id "bizsuite/pkg/domain"
)

// Entity names a related aggregate a handler may join to a display name.
type Entity string

const (
	EntityUser       Entity = "user"
	EntityEmployee   Entity = "employee"
	EntityBranch     Entity = "branch"
	EntityDepartment Entity = "department"
	EntityDealStage  Entity = "deal_stage"
	EntityLeadStage  Entity = "lead_stage"
	EntityTaskStage  Entity = "task_stage"
	EntityProject    Entity = "project"
	EntityCustomer   Entity = "customer"
	EntityVendor     Entity = "vendor"
	EntityWarehouse  Entity = "warehouse"
	EntityJob        Entity = "job"
)

// Lookup is the read-only port into other modules' read models. Name returns
// false when the entity does not exist for the tenant.
type Lookup interface {
	Name(ctx context.Context, tenantID id.TenantID, entity Entity, entityID string) (string, bool)
}

type lookupKey struct {
	tenantID id.TenantID
	entity   Entity
	entityID string
}

// InMemoryLookup serves tests and single-process development setups.
type InMemoryLookup struct {
	mu    sync.RWMutex
	names map[lookupKey]string
}

func NewInMemoryLookup() *InMemoryLookup {
	return &InMemoryLookup{names: make(map[lookupKey]string)}
}

// Set registers a display name.
func (l *InMemoryLookup) Set(tenantID id.TenantID, entity Entity, entityID, name string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.names[lookupKey{tenantID, entity, entityID}] = name
}

func (l *InMemoryLookup) Name(_ context.Context, tenantID id.TenantID, entity Entity, entityID string) (string, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	name, ok := l.names[lookupKey{tenantID, entity, entityID}]
	return name, ok
}
