// Package handler exposes notification ingestion and tenant settings over
// HTTP for business services that run outside this process.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"

	"bizsuite/internal/notification/deliverylog"
	"bizsuite/internal/notification/events"
	"bizsuite/internal/notification/models"
	"bizsuite/internal/notification/subscription"
	"bizsuite/internal/platform/logger"
	"bizsuite/internal/platform/metrics"
	"bizsuite/internal/platform/middleware"
	"bizsuite/internal/platform/ratelimit"
	id "bizsuite/pkg/domain"
	"bizsuite/pkg/platform/httputil"
	"bizsuite/pkg/platform/sentinel"
	"bizsuite/pkg/requestcontext"
)

// ErrOwnerNotAllowed rejects an owner override on an event type whose
// notification always belongs to the acting tenant.
var ErrOwnerNotAllowed = errors.New("owner_tenant_id is not allowed for this event type")

const (
	maxBodyBytes      = 1 << 20
	requestTimeout    = 10 * time.Second
	defaultDeliveries = 50
	maxDeliveries     = 500
)

// Subscriptions describes the frozen subscription table.
type Subscriptions interface {
	Subscriptions() []subscription.Subscription
	Keys() []models.Key
}

// SettingsStore is the read-write view of tenant settings.
type SettingsStore interface {
	Get(ctx context.Context, tenantID id.TenantID, channel models.Channel, key models.Key) (*models.Setting, error)
	Put(ctx context.Context, setting models.Setting) error
	Delete(ctx context.Context, tenantID id.TenantID, channel models.Channel, key models.Key) error
}

// DeliveryLog lists recorded dispatch outcomes.
type DeliveryLog interface {
	ListByTenant(ctx context.Context, tenantID id.TenantID, limit int) ([]deliverylog.Record, error)
}

// Handler serves the /internal routes.
type Handler struct {
	publisher     events.Publisher
	subscriptions Subscriptions
	tokens        middleware.TokenValidator
	settings      SettingsStore
	deliveries    DeliveryLog
	limiter       ratelimit.Limiter
	ingestLimit   int
	ingestWindow  time.Duration
	validate      *validator.Validate
	logger        *slog.Logger
	metrics       *metrics.Metrics
}

// Option configures a Handler.
type Option func(*Handler)

func WithLogger(logger *slog.Logger) Option {
	return func(h *Handler) {
		h.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(h *Handler) {
		h.metrics = m
	}
}

// WithSettingsStore enables the settings routes.
func WithSettingsStore(store SettingsStore) Option {
	return func(h *Handler) {
		h.settings = store
	}
}

// WithDeliveryLog enables the deliveries route.
func WithDeliveryLog(log DeliveryLog) Option {
	return func(h *Handler) {
		h.deliveries = log
	}
}

// WithIngestLimit caps events per tenant per window on POST /events.
func WithIngestLimit(limiter ratelimit.Limiter, limit int, window time.Duration) Option {
	return func(h *Handler) {
		h.limiter = limiter
		h.ingestLimit = limit
		h.ingestWindow = window
	}
}

func New(publisher events.Publisher, subscriptions Subscriptions, tokens middleware.TokenValidator, opts ...Option) (*Handler, error) {
	if publisher == nil {
		return nil, errors.New("event publisher is required")
	}
	if subscriptions == nil {
		return nil, errors.New("subscription table is required")
	}
	if tokens == nil {
		return nil, errors.New("service token validator is required")
	}
	h := &Handler{
		publisher:     publisher,
		subscriptions: subscriptions,
		tokens:        tokens,
		validate:      validator.New(validator.WithRequiredStructEnabled()),
		logger:        slog.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h, nil
}

// Register mounts the authenticated routes under /internal.
func (h *Handler) Register(r chi.Router) {
	r.Route("/internal", func(r chi.Router) {
		r.Use(chimw.Timeout(requestTimeout))
		r.Use(middleware.RequireServiceToken(h.tokens, h.logger))
		r.With(ratelimit.PerTenant(h.limiter, h.ingestLimit, h.ingestWindow, h.logger)).
			Post("/events", h.handleIngest)
		r.Get("/notifications/subscriptions", h.handleSubscriptions)
		if h.settings != nil {
			r.Get("/notifications/settings/{channel}/{key}", h.handleGetSetting)
			r.Put("/notifications/settings/{channel}/{key}", h.handlePutSetting)
			r.Delete("/notifications/settings/{channel}/{key}", h.handleDeleteSetting)
		}
		if h.deliveries != nil {
			r.Get("/notifications/deliveries", h.handleDeliveries)
		}
	})
}

// handleIngest accepts an event and hands it off; delivery happens after the
// response and its outcome is never reported to the caller.
func (h *Handler) handleIngest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx, h.logger)

	var req IngestRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		h.reject(ctx, w, "malformed", "invalid request body", err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.reject(ctx, w, "malformed", validationMessage(err), err)
		return
	}

	ev, err := toEvent(ctx, req)
	if err != nil {
		reason := "malformed"
		switch {
		case errors.Is(err, events.ErrUnknownType):
			reason = "unknown_type"
		case errors.Is(err, ErrOwnerNotAllowed):
			reason = "owner_not_allowed"
		}
		h.reject(ctx, w, reason, err.Error(), err)
		return
	}

	h.publisher.Publish(ctx, ev)
	h.metrics.IncEventsIngested(metrics.SourceHTTP)
	log.DebugContext(ctx, "domain event accepted",
		"event_id", ev.ID,
		"event_type", ev.Type,
		"service", requestcontext.ActorID(ctx),
	)
	httputil.WriteJSON(w, http.StatusAccepted, IngestResponse{EventID: ev.ID.String(), Status: "accepted"})
}

func toEvent(ctx context.Context, req IngestRequest) (events.Event, error) {
	t := events.Type(req.Type)
	payload, err := events.DecodePayload(t, req.Payload)
	if err != nil {
		return events.Event{}, err
	}
	ev := events.Event{
		Type:     t,
		TenantID: requestcontext.TenantID(ctx),
		Payload:  payload,
	}
	if req.ID != "" {
		if ev.ID, err = id.ParseEventID(req.ID); err != nil {
			return events.Event{}, err
		}
	}
	if req.OwnerTenantID != "" {
		if !events.AllowsOwner(t) {
			return events.Event{}, fmt.Errorf("%w: %s", ErrOwnerNotAllowed, t)
		}
		if ev.OwnerTenantID, err = id.ParseTenantID(req.OwnerTenantID); err != nil {
			return events.Event{}, err
		}
	}
	if req.OccurredAt != nil {
		ev.OccurredAt = req.OccurredAt.UTC()
	}
	return events.Stamp(ctx, ev), nil
}

func (h *Handler) reject(ctx context.Context, w http.ResponseWriter, reason, description string, err error) {
	h.metrics.IncEventsRejected(metrics.SourceHTTP, reason)
	logger.From(ctx, h.logger).WarnContext(ctx, "domain event rejected",
		"reason", reason,
		"service", requestcontext.ActorID(ctx),
		"error", err,
	)
	httputil.WriteError(w, httputil.CodeBadRequest, description)
}

func (h *Handler) handleSubscriptions(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"subscriptions": h.subscriptions.Subscriptions(),
		"channels":      models.Channels,
	})
}

func (h *Handler) handleGetSetting(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ch, key, ok := h.settingPath(w, r)
	if !ok {
		return
	}
	setting, err := h.settings.Get(ctx, requestcontext.TenantID(ctx), ch, key)
	if errors.Is(err, sentinel.ErrNotFound) {
		httputil.WriteError(w, httputil.CodeNotFound, "setting not configured")
		return
	}
	if err != nil {
		h.storeFailure(ctx, w, "read notification setting", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toSettingResponse(setting))
}

func (h *Handler) handlePutSetting(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ch, key, ok := h.settingPath(w, r)
	if !ok {
		return
	}
	var req SettingRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		httputil.WriteError(w, httputil.CodeBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httputil.WriteError(w, httputil.CodeBadRequest, validationMessage(err))
		return
	}

	setting := models.Setting{
		TenantID:    requestcontext.TenantID(ctx),
		Channel:     ch,
		Key:         key,
		Enabled:     req.Enabled,
		UpdatedAt:   requestcontext.Now(ctx),
		Destination: strings.TrimSpace(req.Destination),
		Credentials: req.Credentials,
	}
	if err := h.settings.Put(ctx, setting); err != nil {
		h.storeFailure(ctx, w, "write notification setting", err)
		return
	}
	logger.From(ctx, h.logger).InfoContext(ctx, "notification setting updated",
		"tenant_id", setting.TenantID,
		"channel", ch,
		"key", key,
		"enabled", setting.Enabled,
	)
	httputil.WriteJSON(w, http.StatusOK, toSettingResponse(&setting))
}

func (h *Handler) handleDeleteSetting(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ch, key, ok := h.settingPath(w, r)
	if !ok {
		return
	}
	if err := h.settings.Delete(ctx, requestcontext.TenantID(ctx), ch, key); err != nil && !errors.Is(err, sentinel.ErrNotFound) {
		h.storeFailure(ctx, w, "delete notification setting", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleDeliveries lists the calling tenant's most recent outcomes.
func (h *Handler) handleDeliveries(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	limit := defaultDeliveries
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			httputil.WriteError(w, httputil.CodeBadRequest, "limit must be a positive integer")
			return
		}
		limit = min(n, maxDeliveries)
	}
	records, err := h.deliveries.ListByTenant(ctx, requestcontext.TenantID(ctx), limit)
	if err != nil {
		logger.From(ctx, h.logger).ErrorContext(ctx, "list notification deliveries", "error", err)
		httputil.WriteError(w, httputil.CodeInternal, "")
		return
	}
	out := make([]DeliveryResponse, 0, len(records))
	for _, rec := range records {
		out = append(out, toDeliveryResponse(rec))
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"deliveries": out})
}

// settingPath parses {channel}/{key}. Keys may contain spaces and slashes, so
// the raw segment is unescaped.
func (h *Handler) settingPath(w http.ResponseWriter, r *http.Request) (models.Channel, models.Key, bool) {
	ch, ok := models.ParseChannel(chi.URLParam(r, "channel"))
	if !ok {
		httputil.WriteError(w, httputil.CodeNotFound, "unknown channel")
		return "", "", false
	}
	raw, err := url.PathUnescape(chi.URLParam(r, "key"))
	if err != nil {
		httputil.WriteError(w, httputil.CodeBadRequest, "invalid notification key")
		return "", "", false
	}
	key := models.Key(raw)
	if !slices.Contains(h.subscriptions.Keys(), key) {
		httputil.WriteError(w, httputil.CodeNotFound, "unknown notification key")
		return "", "", false
	}
	return ch, key, true
}

func (h *Handler) storeFailure(ctx context.Context, w http.ResponseWriter, msg string, err error) {
	logger.From(ctx, h.logger).ErrorContext(ctx, msg, "error", err)
	if errors.Is(err, sentinel.ErrUnavailable) {
		httputil.WriteError(w, httputil.CodeUnavailable, "settings store unavailable")
		return
	}
	httputil.WriteError(w, httputil.CodeInternal, "")
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "invalid request"
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
	}
	return strings.Join(fields, "; ")
}
