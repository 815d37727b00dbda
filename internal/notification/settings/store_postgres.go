package settings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"bizsuite/internal/notification/models"
	id "bizsuite/pkg/domain"
	"bizsuite/pkg/platform/secrets"
	"bizsuite/pkg/platform/sentinel"
)

// PostgresStore reads tenant_notification_settings. Credentials are sealed
// with the configured box; without one they are stored as given.
type PostgresStore struct {
	db  *sql.DB
	box *secrets.Box
}

// PostgresOption configures a PostgresStore.
type PostgresOption func(*PostgresStore)

// WithBox seals credentials at rest.
func WithBox(box *secrets.Box) PostgresOption {
	return func(s *PostgresStore) {
		s.box = box
	}
}

func NewPostgresStore(db *sql.DB, opts ...PostgresOption) *PostgresStore {
	s := &PostgresStore{db: db}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

func (s *PostgresStore) Get(ctx context.Context, tenantID id.TenantID, channel models.Channel, key models.Key) (*models.Setting, error) {
	query := `
		SELECT enabled, destination, credentials, updated_at
		FROM tenant_notification_settings
		WHERE tenant_id = $1 AND channel = $2 AND key = $3
	`
	setting := &models.Setting{TenantID: tenantID, Channel: channel, Key: key}
	var credentials string
	err := s.db.QueryRowContext(ctx, query, uuid.UUID(tenantID), string(channel), string(key)).
		Scan(&setting.Enabled, &setting.Destination, &credentials, &setting.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get notification setting: %w", err)
	}
	if setting.Credentials, err = s.open(credentials); err != nil {
		return nil, fmt.Errorf("open notification credentials: %w", err)
	}
	return setting, nil
}

// Put upserts a setting.
func (s *PostgresStore) Put(ctx context.Context, setting models.Setting) error {
	credentials, err := s.seal(setting.Credentials)
	if err != nil {
		return fmt.Errorf("seal notification credentials: %w", err)
	}
	query := `
		INSERT INTO tenant_notification_settings (tenant_id, channel, key, enabled, destination, credentials, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		ON CONFLICT (tenant_id, channel, key) DO UPDATE SET
			enabled = EXCLUDED.enabled,
			destination = EXCLUDED.destination,
			credentials = EXCLUDED.credentials,
			updated_at = EXCLUDED.updated_at
	`
	_, err = s.db.ExecContext(ctx, query,
		uuid.UUID(setting.TenantID),
		string(setting.Channel),
		string(setting.Key),
		setting.Enabled,
		setting.Destination,
		credentials,
	)
	if err != nil {
		return fmt.Errorf("put notification setting: %w", err)
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, tenantID id.TenantID, channel models.Channel, key models.Key) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM tenant_notification_settings
		WHERE tenant_id = $1 AND channel = $2 AND key = $3
	`, uuid.UUID(tenantID), string(channel), string(key))
	if err != nil {
		return fmt.Errorf("delete notification setting: %w", err)
	}
	return nil
}

func (s *PostgresStore) seal(plain string) (string, error) {
	if s.box == nil {
		return plain, nil
	}
	return s.box.Seal(plain)
}

func (s *PostgresStore) open(sealed string) (string, error) {
	if s.box == nil {
		return sealed, nil
	}
	return s.box.Open(sealed)
}
