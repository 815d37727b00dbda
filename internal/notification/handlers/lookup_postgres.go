package handlers

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	id "bizsuite/pkg/domain"
)

// readModel names the table and display column backing an entity. Tables are
// owned by the business modules; only this whitelist is ever interpolated.
type readModel struct {
	table  string
	column string
}

var readModels = map[Entity]readModel{
	EntityUser:       {table: "users", column: "name"},
	EntityEmployee:   {table: "employees", column: "name"},
	EntityBranch:     {table: "branches", column: "name"},
	EntityDepartment: {table: "departments", column: "name"},
	EntityDealStage:  {table: "deal_stages", column: "name"},
	EntityLeadStage:  {table: "lead_stages", column: "name"},
	EntityTaskStage:  {table: "task_stages", column: "name"},
	EntityProject:    {table: "projects", column: "name"},
	EntityCustomer:   {table: "customers", column: "name"},
	EntityVendor:     {table: "vendors", column: "name"},
	EntityWarehouse:  {table: "warehouses", column: "name"},
	EntityJob:        {table: "jobs", column: "title"},
}

const defaultLookupTimeout = 2 * time.Second

// PostgresLookup resolves names from the business modules' tables. Every
// query is tenant scoped and bounded by a timeout.
type PostgresLookup struct {
	db      *sql.DB
	timeout time.Duration
	logger  *slog.Logger
}

// PostgresLookupOption configures a PostgresLookup.
type PostgresLookupOption func(*PostgresLookup)

func WithLookupTimeout(d time.Duration) PostgresLookupOption {
	return func(l *PostgresLookup) {
		if d > 0 {
			l.timeout = d
		}
	}
}

func WithLookupLogger(logger *slog.Logger) PostgresLookupOption {
	return func(l *PostgresLookup) {
		l.logger = logger
	}
}

func NewPostgresLookup(db *sql.DB, opts ...PostgresLookupOption) *PostgresLookup {
	l := &PostgresLookup{db: db, timeout: defaultLookupTimeout}
	for _, opt := range opts {
		if opt != nil {
			opt(l)
		}
	}
	return l
}

func (l *PostgresLookup) Name(ctx context.Context, tenantID id.TenantID, entity Entity, entityID string) (string, bool) {
	model, ok := readModels[entity]
	if !ok || entityID == "" {
		return "", false
	}
	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	query := fmt.Sprintf(`SELECT %s FROM %s WHERE tenant_id = $1 AND id::text = $2`, model.column, model.table)
	var name sql.NullString
	err := l.db.QueryRowContext(ctx, query, uuid.UUID(tenantID), entityID).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false
	}
	if err != nil {
		if l.logger != nil {
			l.logger.WarnContext(ctx, "read model lookup failed",
				"entity", entity,
				"tenant_id", tenantID,
				"error", err,
			)
		}
		return "", false
	}
	return name.String, name.Valid && name.String != ""
}
