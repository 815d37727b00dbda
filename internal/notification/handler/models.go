package handler

import (
	"encoding/json"
	"time"

	"bizsuite/internal/notification/deliverylog"
	"bizsuite/internal/notification/models"
)

// IngestRequest is one domain event pushed by a business service. The acting
// tenant comes from the service token, never from the body.
type IngestRequest struct {
	ID            string          `json:"id" validate:"omitempty,uuid"`
	Type          string          `json:"type" validate:"required,max=64"`
	OwnerTenantID string          `json:"owner_tenant_id" validate:"omitempty,uuid"`
	OccurredAt    *time.Time      `json:"occurred_at"`
	Payload       json.RawMessage `json:"payload"`
}

type IngestResponse struct {
	EventID string `json:"event_id"`
	Status  string `json:"status"`
}

// SettingRequest enables or disables one notification key on one channel.
type SettingRequest struct {
	Enabled     bool   `json:"enabled"`
	Destination string `json:"destination" validate:"required_if=Enabled true,max=512"`
	Credentials string `json:"credentials" validate:"max=1024"`
}

// SettingResponse never echoes credentials back.
type SettingResponse struct {
	Channel        models.Channel `json:"channel"`
	Key            models.Key     `json:"key"`
	Enabled        bool           `json:"enabled"`
	Destination    string         `json:"destination"`
	HasCredentials bool           `json:"has_credentials"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

func toSettingResponse(s *models.Setting) SettingResponse {
	return SettingResponse{
		Channel:        s.Channel,
		Key:            s.Key,
		Enabled:        s.Enabled,
		Destination:    s.Destination,
		HasCredentials: s.Credentials != "",
		UpdatedAt:      s.UpdatedAt,
	}
}

type DeliveryResponse struct {
	EventID    string         `json:"event_id"`
	EventType  string         `json:"event_type"`
	Key        models.Key     `json:"key"`
	Channel    models.Channel `json:"channel"`
	Status     models.Status  `json:"status"`
	Error      string         `json:"error,omitempty"`
	RequestID  string         `json:"request_id,omitempty"`
	RecordedAt time.Time      `json:"recorded_at"`
}

func toDeliveryResponse(r deliverylog.Record) DeliveryResponse {
	return DeliveryResponse{
		EventID:    r.EventID.String(),
		EventType:  r.EventType,
		Key:        r.Key,
		Channel:    r.Channel,
		Status:     r.Status,
		Error:      r.Error,
		RequestID:  r.RequestID,
		RecordedAt: r.RecordedAt,
	}
}
