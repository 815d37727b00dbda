package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"bizsuite/internal/notification/models"
	id "bizsuite/pkg/domain"
	"bizsuite/pkg/platform/secrets"
	"bizsuite/pkg/platform/sentinel"
)

const settingKeyPrefix = "notify:setting:"

// Writer is implemented by stores that accept admin writes.
type Writer interface {
	Put(ctx context.Context, setting models.Setting) error
	Delete(ctx context.Context, tenantID id.TenantID, channel models.Channel, key models.Key) error
}

// cachedSetting is the JSON value kept in Redis. Found=false caches absence so
// unconfigured tenants do not hit the database on every event.
type cachedSetting struct {
	Found       bool      `json:"found"`
	Enabled     bool      `json:"enabled,omitempty"`
	Destination string    `json:"destination,omitempty"`
	Credentials string    `json:"credentials,omitempty"`
	UpdatedAt   time.Time `json:"updated_at,omitempty"`
}

// RedisCache is a read-through cache in front of another Store. Redis errors
// degrade to reading the underlying store directly.
type RedisCache struct {
	client  *redis.Client
	next    Store
	ttl     time.Duration
	box     *secrets.Box
	logger  *slog.Logger
	metrics *Metrics
}

// RedisCacheOption configures a RedisCache.
type RedisCacheOption func(*RedisCache)

// WithCacheBox seals cached credentials.
func WithCacheBox(box *secrets.Box) RedisCacheOption {
	return func(c *RedisCache) {
		c.box = box
	}
}

func WithCacheMetrics(m *Metrics) RedisCacheOption {
	return func(c *RedisCache) {
		c.metrics = m
	}
}

func WithCacheLogger(logger *slog.Logger) RedisCacheOption {
	return func(c *RedisCache) {
		c.logger = logger
	}
}

func NewRedisCache(client *redis.Client, next Store, ttl time.Duration, opts ...RedisCacheOption) (*RedisCache, error) {
	if client == nil {
		return nil, errors.New("redis client is required")
	}
	if next == nil {
		return nil, errors.New("settings store is required")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("cache ttl must be positive, got %s", ttl)
	}
	c := &RedisCache{client: client, next: next, ttl: ttl}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c, nil
}

func (c *RedisCache) Get(ctx context.Context, tenantID id.TenantID, channel models.Channel, key models.Key) (*models.Setting, error) {
	cacheKey := settingCacheKey(tenantID, channel, key)

	raw, err := c.client.Get(ctx, cacheKey).Bytes()
	switch {
	case err == nil:
		if setting, found, decodeErr := c.decode(raw, tenantID, channel, key); decodeErr == nil {
			if !found {
				c.metrics.IncCacheRequest(cacheNegativeHit)
				return nil, sentinel.ErrNotFound
			}
			c.metrics.IncCacheRequest(cacheHit)
			return setting, nil
		}
		c.metrics.IncCacheRequest(cacheError)
	case errors.Is(err, redis.Nil):
		c.metrics.IncCacheRequest(cacheMiss)
	default:
		c.metrics.IncCacheRequest(cacheError)
		c.warn(ctx, "settings cache read failed", err)
	}

	setting, err := c.next.Get(ctx, tenantID, channel, key)
	if err != nil && !errors.Is(err, sentinel.ErrNotFound) {
		return nil, err
	}
	c.store(ctx, cacheKey, setting)
	if setting == nil {
		return nil, sentinel.ErrNotFound
	}
	return setting, nil
}

// Put writes through to the underlying store and evicts the cached entry.
func (c *RedisCache) Put(ctx context.Context, setting models.Setting) error {
	w, ok := c.next.(Writer)
	if !ok {
		return fmt.Errorf("%w: underlying settings store is read-only", sentinel.ErrInvalidState)
	}
	if err := w.Put(ctx, setting); err != nil {
		return err
	}
	return c.Invalidate(ctx, setting.TenantID, setting.Channel, setting.Key)
}

func (c *RedisCache) Delete(ctx context.Context, tenantID id.TenantID, channel models.Channel, key models.Key) error {
	w, ok := c.next.(Writer)
	if !ok {
		return fmt.Errorf("%w: underlying settings store is read-only", sentinel.ErrInvalidState)
	}
	if err := w.Delete(ctx, tenantID, channel, key); err != nil {
		return err
	}
	return c.Invalidate(ctx, tenantID, channel, key)
}

// Invalidate drops the cached entry so the next Get reads the store.
func (c *RedisCache) Invalidate(ctx context.Context, tenantID id.TenantID, channel models.Channel, key models.Key) error {
	if err := c.client.Del(ctx, settingCacheKey(tenantID, channel, key)).Err(); err != nil {
		return fmt.Errorf("invalidate notification setting: %w", err)
	}
	return nil
}

func (c *RedisCache) store(ctx context.Context, cacheKey string, setting *models.Setting) {
	entry := cachedSetting{}
	if setting != nil {
		credentials := setting.Credentials
		if c.box != nil {
			sealed, err := c.box.Seal(credentials)
			if err != nil {
				c.warn(ctx, "settings cache seal failed", err)
				return
			}
			credentials = sealed
		}
		entry = cachedSetting{
			Found:       true,
			Enabled:     setting.Enabled,
			Destination: setting.Destination,
			Credentials: credentials,
			UpdatedAt:   setting.UpdatedAt,
		}
	}
	raw, err := json.Marshal(entry)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, cacheKey, raw, c.ttl).Err(); err != nil {
		c.warn(ctx, "settings cache write failed", err)
	}
}

func (c *RedisCache) decode(raw []byte, tenantID id.TenantID, channel models.Channel, key models.Key) (*models.Setting, bool, error) {
	var entry cachedSetting
	if err := json.Unmarshal(raw, &entry); err != nil {
		return nil, false, err
	}
	if !entry.Found {
		return nil, false, nil
	}
	credentials := entry.Credentials
	if c.box != nil {
		plain, err := c.box.Open(credentials)
		if err != nil {
			return nil, false, err
		}
		credentials = plain
	}
	return &models.Setting{
		TenantID:    tenantID,
		Channel:     channel,
		Key:         key,
		Enabled:     entry.Enabled,
		Destination: entry.Destination,
		Credentials: credentials,
		UpdatedAt:   entry.UpdatedAt,
	}, true, nil
}

func (c *RedisCache) warn(ctx context.Context, msg string, err error) {
	if c.logger != nil {
		c.logger.WarnContext(ctx, msg, "error", err)
	}
}

func settingCacheKey(tenantID id.TenantID, channel models.Channel, key models.Key) string {
	return settingKeyPrefix + tenantID.String() + ":" + string(channel) + ":" + string(key)
}
