// Package settings resolves whether a tenant has enabled a notification on a
// channel and where it should be delivered.
package settings

import (
	"context"
	"errors"
	"log/slog"

	"bizsuite/internal/notification/models"
	id "bizsuite/pkg/domain"
	"bizsuite/pkg/platform/sentinel"
)

// Store is the tenant settings read model. Get returns sentinel.ErrNotFound
// when no row exists.
type Store interface {
	Get(ctx context.Context, tenantID id.TenantID, channel models.Channel, key models.Key) (*models.Setting, error)
}

// Resolver fails closed: any ambiguity resolves to "not enabled".
type Resolver struct {
	store  Store
	logger *slog.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLogger sets the logger used for store failures.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) {
		r.logger = logger
	}
}

// NewResolver creates a Resolver backed by store.
func NewResolver(store Store, opts ...Option) (*Resolver, error) {
	if store == nil {
		return nil, errors.New("settings store is required")
	}
	r := &Resolver{store: store}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Resolve returns the setting and true only when the tenant has explicitly
// enabled key on channel and supplied a destination. Missing rows, disabled
// rows and store errors all yield false.
func (r *Resolver) Resolve(ctx context.Context, tenantID id.TenantID, channel models.Channel, key models.Key) (models.Setting, bool) {
	if tenantID.IsNil() {
		return models.Setting{}, false
	}
	setting, err := r.store.Get(ctx, tenantID, channel, key)
	if err != nil {
		if !errors.Is(err, sentinel.ErrNotFound) && r.logger != nil {
			r.logger.WarnContext(ctx, "notification setting lookup failed",
				"tenant_id", tenantID,
				"channel", channel,
				"key", key,
				"error", err,
			)
		}
		return models.Setting{}, false
	}
	if setting == nil || !setting.Enabled {
		return models.Setting{}, false
	}
	if setting.Destination == "" {
		if r.logger != nil {
			r.logger.WarnContext(ctx, "notification enabled without destination",
				"tenant_id", tenantID,
				"channel", channel,
				"key", key,
			)
		}
		return models.Setting{}, false
	}
	return *setting, true
}
