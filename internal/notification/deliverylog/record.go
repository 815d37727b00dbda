// Package deliverylog keeps an operator-facing trail of dispatch outcomes.
//
// Recording is best effort: outcomes are buffered in memory, sampled by
// status, and flushed to a Store in batches by a background loop. A failing
// store trips a circuit breaker and batches are dropped until it recovers.
// Nothing here can slow down or fail a dispatch.
package deliverylog

import (
	"context"
	"time"

	"bizsuite/internal/notification/models"
	id "bizsuite/pkg/domain"
)

// Record is one persisted (event, key, channel) outcome.
type Record struct {
	EventID    id.EventID
	EventType  string
	TenantID   id.TenantID
	Key        models.Key
	Channel    models.Channel
	Status     models.Status
	Error      string
	RequestID  string
	RecordedAt time.Time
}

// Store persists delivery records.
type Store interface {
	Append(ctx context.Context, records []Record) error
	ListByTenant(ctx context.Context, tenantID id.TenantID, limit int) ([]Record, error)
}

func fromOutcome(o models.Outcome, requestID string, at time.Time) Record {
	r := Record{
		EventID:    o.EventID,
		EventType:  o.EventType,
		TenantID:   o.TenantID,
		Key:        o.Key,
		Channel:    o.Channel,
		Status:     o.Status,
		RequestID:  requestID,
		RecordedAt: at,
	}
	if o.Err != nil {
		r.Error = truncate(o.Err.Error(), maxErrorLen)
	}
	return r
}

const maxErrorLen = 512

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
