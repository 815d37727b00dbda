package template

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/lib/pq"

	"bizsuite/internal/notification/models"
)

// LoadPostgres overlays admin-edited templates from notification_templates on
// top of base. Rows naming an unsupported channel are skipped.
func LoadPostgres(ctx context.Context, db *sql.DB, base *Registry, logger *slog.Logger) (*Registry, error) {
	if db == nil {
		return base, nil
	}
	channels := make([]string, 0, len(models.Channels))
	for _, ch := range models.Channels {
		channels = append(channels, string(ch))
	}

	rows, err := db.QueryContext(ctx, `
		SELECT channel, key, body
		FROM notification_templates
		WHERE channel = ANY($1)
	`, pq.Array(channels))
	if err != nil {
		return nil, fmt.Errorf("query notification templates: %w", err)
	}
	defer rows.Close()

	overrides := map[models.Channel]Set{}
	loaded := 0
	for rows.Next() {
		var channel, key, body string
		if err := rows.Scan(&channel, &key, &body); err != nil {
			return nil, fmt.Errorf("scan notification template: %w", err)
		}
		ch, ok := models.ParseChannel(channel)
		if !ok {
			continue
		}
		if overrides[ch] == nil {
			overrides[ch] = Set{}
		}
		overrides[ch][models.Key(key)] = body
		loaded++
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate notification templates: %w", err)
	}
	if logger != nil {
		logger.InfoContext(ctx, "notification templates loaded", "overrides", loaded)
	}
	return base.Overlay(overrides), nil
}
