package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"bizsuite/internal/notification/deliverylog"
	"bizsuite/internal/notification/events"
	"bizsuite/internal/notification/events/mocks"
	"bizsuite/internal/notification/handler"
	"bizsuite/internal/notification/handlers"
	"bizsuite/internal/notification/models"
	"bizsuite/internal/notification/settings"
	"bizsuite/internal/notification/subscription"
	"bizsuite/internal/platform/ratelimit"
	"bizsuite/internal/platform/servicetoken"
	id "bizsuite/pkg/domain"
	"bizsuite/pkg/platform/sentinel"
	"bizsuite/pkg/testutil"
)

type HandlerSuite struct {
	suite.Suite
	ctrl      *gomock.Controller
	publisher *mocks.MockPublisher
	store     *settings.InMemoryStore
	delivered *deliverylog.InMemoryStore
	router    chi.Router
	tenantID  id.TenantID
	token     string
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.publisher = mocks.NewMockPublisher(s.ctrl)
	s.store = settings.NewInMemoryStore()
	s.delivered = deliverylog.NewInMemoryStore()
	s.tenantID = id.TenantID(uuid.New())

	tokens, err := servicetoken.New("test-key", "bizsuite")
	s.Require().NoError(err)
	s.token, err = tokens.Issue(s.tenantID, "crm", time.Hour)
	s.Require().NoError(err)

	table := subscription.NewTable(handlers.Defaults(handlers.NewInMemoryLookup())...).Freeze()
	h, err := handler.New(s.publisher, table, tokens,
		handler.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		handler.WithSettingsStore(s.store),
		handler.WithDeliveryLog(s.delivered),
	)
	s.Require().NoError(err)

	s.router = chi.NewRouter()
	h.Register(s.router)
}

func (s *HandlerSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *HandlerSuite) do(method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		s.Require().NoError(json.NewEncoder(&buf).Encode(b))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Authorization", "Bearer "+s.token)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *HandlerSuite) TestIngest_Accepted() {
	var published events.Event
	s.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Do(func(_ context.Context, ev events.Event) {
		published = ev
	})

	rec := s.do(http.MethodPost, "/internal/events", map[string]any{
		"type":    "employee.created",
		"payload": map[string]any{"employee": map[string]any{"name": "Jane Doe"}},
	})

	s.Require().Equal(http.StatusAccepted, rec.Code, rec.Body.String())
	var resp handler.IngestResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.Equal("accepted", resp.Status)
	s.Equal(published.ID.String(), resp.EventID)

	s.Equal(events.EmployeeCreated, published.Type)
	s.Equal(s.tenantID, published.TenantID, "tenant comes from the service token")
	s.False(published.OccurredAt.IsZero())
	payload, ok := published.Payload.(events.EmployeeCreatedPayload)
	s.Require().True(ok)
	s.Equal("Jane Doe", payload.Employee.Name)
}

func (s *HandlerSuite) TestIngest_KeepsProducerIdentity() {
	eventID := uuid.NewString()
	owner := id.TenantID(uuid.New())
	at := time.Date(2026, 5, 1, 9, 30, 0, 0, time.UTC)

	s.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Do(func(_ context.Context, ev events.Event) {
		s.Equal(eventID, ev.ID.String())
		s.Equal(owner, ev.OwnerTenantID)
		s.Equal(owner, ev.NotifyTenant())
		s.True(at.Equal(ev.OccurredAt))
	})

	rec := s.do(http.MethodPost, "/internal/events", map[string]any{
		"id":              eventID,
		"type":            "appointment.created",
		"owner_tenant_id": owner.String(),
		"occurred_at":     at,
		"payload":         map[string]any{"name": "Checkup", "date": "2026-05-02"},
	})
	s.Equal(http.StatusAccepted, rec.Code, rec.Body.String())
}

func (s *HandlerSuite) TestIngest_Rejected() {
	tests := []struct {
		name string
		body any
		want string
	}{
		{name: "not json", body: "{", want: "invalid request body"},
		{name: "missing type", body: map[string]any{"payload": map[string]any{}}, want: "Type failed required"},
		{name: "bad id", body: map[string]any{"id": "nope", "type": "deal.created"}, want: "ID failed uuid"},
		{name: "unknown type", body: map[string]any{"type": "spaceship.launched"}, want: "unknown event type"},
		{name: "payload shape", body: map[string]any{"type": "job.created", "payload": map[string]any{"positions": "many"}}, want: "malformed"},
		{
			name: "owner on an actor-owned type",
			body: map[string]any{"type": "deal.created", "owner_tenant_id": uuid.NewString(), "payload": map[string]any{}},
			want: "owner_tenant_id is not allowed",
		},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			rec := s.do(http.MethodPost, "/internal/events", tt.body)
			s.Equal(http.StatusBadRequest, rec.Code)
			s.Contains(rec.Body.String(), tt.want)
		})
	}
}

func (s *HandlerSuite) TestIngest_RequiresToken() {
	req := httptest.NewRequest(http.MethodPost, "/internal/events", bytes.NewBufferString(`{"type":"deal.created"}`))
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	s.Equal(http.StatusUnauthorized, rec.Code)
}

func (s *HandlerSuite) TestSubscriptions() {
	rec := s.do(http.MethodGet, "/internal/notifications/subscriptions", nil)
	s.Require().Equal(http.StatusOK, rec.Code)

	var body struct {
		Subscriptions []subscription.Subscription `json:"subscriptions"`
		Channels      []models.Channel            `json:"channels"`
	}
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
	s.ElementsMatch(models.Channels, body.Channels)
	for _, sub := range body.Subscriptions {
		if sub.EventType == events.EmployeeCreated {
			s.Equal([]models.Key{models.KeyNewEmployee, models.KeyNewTeacher}, sub.Keys)
			return
		}
	}
	s.Fail("employee.created is not listed")
}

func settingPath(ch models.Channel, key models.Key) string {
	return "/internal/notifications/settings/" + string(ch) + "/" + url.PathEscape(string(key))
}

func (s *HandlerSuite) TestSettings_Lifecycle() {
	path := settingPath(models.ChannelTelegram, models.KeyLeaveStatus)

	rec := s.do(http.MethodGet, path, nil)
	s.Equal(http.StatusNotFound, rec.Code)

	rec = s.do(http.MethodPut, path, handler.SettingRequest{Enabled: true, Destination: " -100123 ", Credentials: "bot-token"})
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	s.NotContains(rec.Body.String(), "bot-token")

	stored, err := s.store.Get(context.Background(), s.tenantID, models.ChannelTelegram, models.KeyLeaveStatus)
	s.Require().NoError(err)
	s.True(stored.Enabled)
	s.Equal("-100123", stored.Destination)
	s.Equal("bot-token", stored.Credentials)

	rec = s.do(http.MethodGet, path, nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	var got handler.SettingResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &got))
	s.Equal(models.KeyLeaveStatus, got.Key)
	s.True(got.HasCredentials)

	rec = s.do(http.MethodDelete, path, nil)
	s.Equal(http.StatusNoContent, rec.Code)
	_, err = s.store.Get(context.Background(), s.tenantID, models.ChannelTelegram, models.KeyLeaveStatus)
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *HandlerSuite) TestSettings_Validation() {
	s.Run("enabled needs a destination", func() {
		rec := s.do(http.MethodPut, settingPath(models.ChannelSlack, models.KeyNewDeal), handler.SettingRequest{Enabled: true})
		s.Equal(http.StatusBadRequest, rec.Code)
		s.Contains(rec.Body.String(), "Destination failed required_if")
	})

	s.Run("disabled may omit it", func() {
		rec := s.do(http.MethodPut, settingPath(models.ChannelSlack, models.KeyNewDeal), handler.SettingRequest{Enabled: false})
		s.Equal(http.StatusOK, rec.Code)
	})

	s.Run("unknown channel", func() {
		rec := s.do(http.MethodGet, "/internal/notifications/settings/fax/"+url.PathEscape("New Deal"), nil)
		s.Equal(http.StatusNotFound, rec.Code)
		s.Contains(rec.Body.String(), "unknown channel")
	})

	s.Run("unknown key", func() {
		rec := s.do(http.MethodGet, settingPath(models.ChannelSlack, "New Spaceship"), nil)
		s.Equal(http.StatusNotFound, rec.Code)
		s.Contains(rec.Body.String(), "unknown notification key")
	})
}

func (s *HandlerSuite) TestSettings_ScopedToTokenTenant() {
	other := id.TenantID(uuid.New())
	s.Require().NoError(s.store.Put(context.Background(), models.Setting{
		TenantID:    other,
		Channel:     models.ChannelSlack,
		Key:         models.KeyNewDeal,
		Enabled:     true,
		Destination: "https://hooks.slack.test/other",
	}))
	rec := s.do(http.MethodGet, settingPath(models.ChannelSlack, models.KeyNewDeal), nil)
	s.Equal(http.StatusNotFound, rec.Code)
}

func (s *HandlerSuite) TestDeliveries() {
	ctx := context.Background()
	s.Require().NoError(s.delivered.Append(ctx, []deliverylog.Record{
		{EventID: id.NewEventID(), EventType: "deal.created", TenantID: s.tenantID, Key: models.KeyNewDeal, Channel: models.ChannelSlack, Status: models.StatusSent},
		{EventID: id.NewEventID(), EventType: "deal.created", TenantID: id.TenantID(uuid.New()), Key: models.KeyNewDeal, Channel: models.ChannelSlack, Status: models.StatusSent},
		{EventID: id.NewEventID(), EventType: "lead.created", TenantID: s.tenantID, Key: models.KeyNewLead, Channel: models.ChannelTelegram, Status: models.StatusSendFailed, Error: "telegram: status 502"},
	}))

	s.Run("own tenant only, newest first", func() {
		rec := s.do(http.MethodGet, "/internal/notifications/deliveries", nil)
		s.Require().Equal(http.StatusOK, rec.Code)
		var body struct {
			Deliveries []handler.DeliveryResponse `json:"deliveries"`
		}
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
		s.Require().Len(body.Deliveries, 2)
		s.Equal(models.StatusSendFailed, body.Deliveries[0].Status)
		s.Equal("telegram: status 502", body.Deliveries[0].Error)
		s.Equal(models.KeyNewDeal, body.Deliveries[1].Key)
	})
	s.Run("limit", func() {
		rec := s.do(http.MethodGet, "/internal/notifications/deliveries?limit=1", nil)
		s.Require().Equal(http.StatusOK, rec.Code)
		s.Contains(rec.Body.String(), "lead.created")
		s.NotContains(rec.Body.String(), "deal.created")
	})
	s.Run("invalid limit", func() {
		rec := s.do(http.MethodGet, "/internal/notifications/deliveries?limit=-3", nil)
		s.Equal(http.StatusBadRequest, rec.Code)
	})
}

func TestIngest_RateLimitedPerTenant(t *testing.T) {
	ctrl := gomock.NewController(t)
	pub := mocks.NewMockPublisher(ctrl)
	pub.EXPECT().Publish(gomock.Any(), gomock.Any()).Times(1)

	tokens, err := servicetoken.New("test-key", "")
	if err != nil {
		t.Fatal(err)
	}
	table := subscription.NewTable(handlers.Defaults(handlers.NewInMemoryLookup())...).Freeze()
	h, err := handler.New(pub, table, tokens,
		handler.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		handler.WithIngestLimit(ratelimit.NewMemoryStore(), 1, time.Minute),
	)
	if err != nil {
		t.Fatal(err)
	}
	r := chi.NewRouter()
	h.Register(r)

	post := func(tenant id.TenantID) int {
		token, err := tokens.Issue(tenant, "crm", time.Hour)
		if err != nil {
			t.Fatal(err)
		}
		req := testutil.NewJSONRequest(t, http.MethodPost, "/internal/events", `{"type":"deal.created","payload":{}}`)
		return testutil.DoRequest(r, testutil.WithBearer(req, token)).Code
	}

	tenant := id.TenantID(uuid.New())
	if code := post(tenant); code != http.StatusAccepted {
		t.Fatalf("first request status = %d", code)
	}
	if code := post(tenant); code != http.StatusTooManyRequests {
		t.Fatalf("second request status = %d", code)
	}
}

func TestNew_Guards(t *testing.T) {
	ctrl := gomock.NewController(t)
	pub := mocks.NewMockPublisher(ctrl)
	table := subscription.NewTable()
	tokens, _ := servicetoken.New("k", "")

	cases := map[string]func() error{
		"event publisher is required": func() error {
			_, err := handler.New(nil, table, tokens)
			return err
		},
		"subscription table is required": func() error {
			_, err := handler.New(pub, nil, tokens)
			return err
		},
		"service token validator is required": func() error {
			_, err := handler.New(pub, table, nil)
			return err
		},
	}
	for want, build := range cases {
		err := build()
		if err == nil || err.Error() != want {
			t.Errorf("want %q, got %v", want, err)
		}
	}
}

func TestHealthz(t *testing.T) {
	r := chi.NewRouter()
	handler.RegisterOps(r, map[string]handler.HealthCheck{
		"postgres": func(context.Context) error { return nil },
		"redis":    func(context.Context) error { return errors.New("dial tcp: refused") },
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d", rec.Code)
	}
	var body struct {
		Status string            `json:"status"`
		Checks map[string]string `json:"checks"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Status != "degraded" || body.Checks["postgres"] != "ok" || body.Checks["redis"] != "down" {
		t.Errorf("unexpected health body %+v", body)
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("metrics status = %d", rec.Code)
	}
}
