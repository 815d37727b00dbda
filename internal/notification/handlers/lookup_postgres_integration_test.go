//go:build integration

package handlers_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"bizsuite/internal/notification/events"
	"bizsuite/internal/notification/handlers"
	"bizsuite/internal/notification/models"
	id "bizsuite/pkg/domain"
	"bizsuite/pkg/testutil/containers"
)

type PostgresLookupSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	lookup   *handlers.PostgresLookup
	tenant   id.TenantID
}

func TestPostgresLookupSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresLookupSuite))
}

func (s *PostgresLookupSuite) SetupSuite() {
	s.postgres = containers.GetManager().GetPostgres(s.T())
	s.lookup = handlers.NewPostgresLookup(s.postgres.DB)

	// Stand-in for the CRM module's table.
	_, err := s.postgres.DB.ExecContext(context.Background(), `
		CREATE TABLE IF NOT EXISTS deal_stages (
			id        BIGSERIAL PRIMARY KEY,
			tenant_id UUID NOT NULL,
			name      TEXT
		)
	`)
	s.Require().NoError(err)
}

func (s *PostgresLookupSuite) SetupTest() {
	ctx := context.Background()
	s.Require().NoError(s.postgres.TruncateTables(ctx, "deal_stages"))
	s.tenant = id.TenantID(uuid.New())
}

func (s *PostgresLookupSuite) insertStage(tenant id.TenantID, name string) string {
	var stageID string
	err := s.postgres.DB.QueryRowContext(context.Background(),
		`INSERT INTO deal_stages (tenant_id, name) VALUES ($1, $2) RETURNING id::text`,
		uuid.UUID(tenant), name).Scan(&stageID)
	s.Require().NoError(err)
	return stageID
}

func (s *PostgresLookupSuite) TestNameIsTenantScoped() {
	ctx := context.Background()
	stageID := s.insertStage(s.tenant, "Negotiation")

	name, ok := s.lookup.Name(ctx, s.tenant, handlers.EntityDealStage, stageID)
	s.True(ok)
	s.Equal("Negotiation", name)

	_, ok = s.lookup.Name(ctx, id.TenantID(uuid.New()), handlers.EntityDealStage, stageID)
	s.False(ok)
}

func (s *PostgresLookupSuite) TestMissingAndNullNamesFail() {
	ctx := context.Background()
	_, ok := s.lookup.Name(ctx, s.tenant, handlers.EntityDealStage, "999999")
	s.False(ok)

	var nullID string
	err := s.postgres.DB.QueryRowContext(ctx,
		`INSERT INTO deal_stages (tenant_id, name) VALUES ($1, NULL) RETURNING id::text`,
		uuid.UUID(s.tenant)).Scan(&nullID)
	s.Require().NoError(err)
	_, ok = s.lookup.Name(ctx, s.tenant, handlers.EntityDealStage, nullID)
	s.False(ok)
}

func (s *PostgresLookupSuite) TestMissingTableFailsClosed() {
	_, ok := s.lookup.Name(context.Background(), s.tenant, handlers.EntityWarehouse, "1")
	s.False(ok)
}

func (s *PostgresLookupSuite) TestDealMovedAgainstReadModel() {
	ctx := context.Background()
	from := s.insertStage(s.tenant, "Qualification")
	to := s.insertStage(s.tenant, "Won")

	var dealMoved handlers.Handler
	for _, h := range handlers.Defaults(s.lookup) {
		if h.Key() == models.KeyDealMoved {
			dealMoved = h
		}
	}
	s.Require().NotNil(dealMoved)

	vars, ok := dealMoved.Extract(ctx, events.New(s.tenant, events.DealMovedPayload{
		Deal: &events.Deal{Name: "Acme"}, OldStageID: from, NewStageID: to,
	}))
	s.True(ok)
	s.Equal("Won", vars["new_stage"])

	_, ok = dealMoved.Extract(ctx, events.New(s.tenant, events.DealMovedPayload{
		Deal: &events.Deal{Name: "Acme"}, OldStageID: from, NewStageID: "424242",
	}))
	s.False(ok)
}
