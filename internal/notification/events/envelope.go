package events

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"time"

	id "bizsuite/pkg/domain"
)

var (
	// ErrUnknownType is returned by Decode for a type outside the vocabulary.
	ErrUnknownType = errors.New("unknown event type")
	// ErrMalformed is returned by Decode when the envelope or payload cannot be parsed.
	ErrMalformed = errors.New("malformed event envelope")
	// ErrPayloadMismatch is returned by Encode when the payload belongs to another event type.
	ErrPayloadMismatch = errors.New("payload does not match event type")
)

// Envelope is the JSON wire form used on the event bus and the ingestion API.
type Envelope struct {
	ID            id.EventID      `json:"id"`
	Type          Type            `json:"type"`
	TenantID      id.TenantID     `json:"tenant_id"`
	OwnerTenantID id.TenantID     `json:"owner_tenant_id"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Payload       json.RawMessage `json:"payload"`
}

var payloadTypes = func() map[Type]reflect.Type {
	m := make(map[Type]reflect.Type, len(registered))
	for _, p := range registered {
		m[p.EventType()] = reflect.TypeOf(p)
	}
	return m
}()

// Known reports whether t is part of the vocabulary.
func Known(t Type) bool {
	_, ok := payloadTypes[t]
	return ok
}

// Encode serializes ev into its envelope form. The type must be known and a
// non-nil payload must be the one registered for it, so every record a
// publisher emits can be decoded on the other side.
func Encode(ev Event) ([]byte, error) {
	if !Known(ev.Type) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, ev.Type)
	}
	if ev.Payload != nil {
		p, ok := ev.Payload.(Payload)
		if !ok {
			return nil, fmt.Errorf("%w: %s carries %T", ErrPayloadMismatch, ev.Type, ev.Payload)
		}
		if p.EventType() != ev.Type {
			return nil, fmt.Errorf("%w: %s carries %s payload", ErrPayloadMismatch, ev.Type, p.EventType())
		}
	}
	raw, err := json.Marshal(ev.Payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", ev.Type, err)
	}
	env := Envelope{
		ID:            ev.ID,
		Type:          ev.Type,
		TenantID:      ev.TenantID,
		OwnerTenantID: ev.OwnerTenantID,
		OccurredAt:    ev.OccurredAt,
		Payload:       raw,
	}
	return json.Marshal(env)
}

// Decode parses an envelope and materializes its payload as the registered
// value type for the event type.
func Decode(data []byte) (Event, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return Event{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return env.Event()
}

// Event converts an already-parsed envelope into an Event.
func (env Envelope) Event() (Event, error) {
	payload, err := DecodePayload(env.Type, env.Payload)
	if err != nil {
		return Event{}, err
	}
	ev := Event{
		ID:            env.ID,
		Type:          env.Type,
		TenantID:      env.TenantID,
		OwnerTenantID: env.OwnerTenantID,
		OccurredAt:    env.OccurredAt,
		Payload:       payload,
	}
	if ev.ID.IsNil() {
		ev.ID = id.NewEventID()
	}
	if ev.OccurredAt.IsZero() {
		ev.OccurredAt = time.Now().UTC()
	}
	return ev, nil
}

// DecodePayload unmarshals raw into the payload struct registered for t.
// An empty or null payload yields the zero value.
func DecodePayload(t Type, raw json.RawMessage) (Payload, error) {
	rt, ok := payloadTypes[t]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, t)
	}
	ptr := reflect.New(rt)
	if len(raw) > 0 && string(raw) != "null" {
		if err := json.Unmarshal(raw, ptr.Interface()); err != nil {
			return nil, fmt.Errorf("%w: %s payload: %v", ErrMalformed, t, err)
		}
	}
	return ptr.Elem().Interface().(Payload), nil
}
