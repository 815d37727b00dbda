package deliverylog

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"bizsuite/internal/notification/models"
	id "bizsuite/pkg/domain"
	txcontext "bizsuite/pkg/platform/tx"
)

// PostgresStore writes to notification_deliveries. A batch is inserted in
// one transaction, joining the caller's when ctx carries one.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Append(ctx context.Context, records []Record) error {
	if len(records) == 0 {
		return nil
	}
	return txcontext.Run(ctx, s.db, func(ctx context.Context) error {
		stmt, err := txcontext.Executor(ctx, s.db).PrepareContext(ctx, `
			INSERT INTO notification_deliveries
				(event_id, event_type, tenant_id, key, channel, status, error, request_id, recorded_at)
			VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), NULLIF($8, ''), $9)
		`)
		if err != nil {
			return fmt.Errorf("prepare delivery insert: %w", err)
		}
		defer stmt.Close()

		for _, r := range records {
			if _, err := stmt.ExecContext(ctx,
				uuid.UUID(r.EventID),
				r.EventType,
				uuid.UUID(r.TenantID),
				string(r.Key),
				string(r.Channel),
				string(r.Status),
				r.Error,
				r.RequestID,
				r.RecordedAt,
			); err != nil {
				return fmt.Errorf("insert delivery record: %w", err)
			}
		}
		return nil
	})
}

// ListByTenant returns up to limit records, newest first.
func (s *PostgresStore) ListByTenant(ctx context.Context, tenantID id.TenantID, limit int) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT event_id, event_type, key, channel, status,
		       COALESCE(error, ''), COALESCE(request_id, ''), recorded_at
		FROM notification_deliveries
		WHERE tenant_id = $1
		ORDER BY recorded_at DESC, id DESC
		LIMIT $2
	`, uuid.UUID(tenantID), limit)
	if err != nil {
		return nil, fmt.Errorf("list delivery records: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		r := Record{TenantID: tenantID}
		var eventID uuid.UUID
		var key, channel, status string
		if err := rows.Scan(&eventID, &r.EventType, &key, &channel, &status, &r.Error, &r.RequestID, &r.RecordedAt); err != nil {
			return nil, fmt.Errorf("scan delivery record: %w", err)
		}
		r.EventID = id.EventID(eventID)
		r.Key = models.Key(key)
		r.Channel = models.Channel(channel)
		r.Status = models.Status(status)
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate delivery records: %w", err)
	}
	return out, nil
}
