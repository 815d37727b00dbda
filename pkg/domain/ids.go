// Package domain holds the typed identifiers shared by every business module.
//
// Identifiers are UUID-backed named types so a tenant id can never be passed
// where an event id is expected. Construct them with the Parse* functions at
// trust boundaries (HTTP, Kafka); direct conversion skips validation.
package domain

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrInvalidID is returned (wrapped) by every Parse* function.
var ErrInvalidID = errors.New("invalid id")

// TenantID identifies an isolated customer organization (a company workspace).
type TenantID uuid.UUID

// EventID identifies a single published domain event.
type EventID uuid.UUID

// ParseTenantID validates external input and returns a TenantID.
func ParseTenantID(s string) (TenantID, error) {
	u, err := parseUUID("tenant_id", s)
	return TenantID(u), err
}

// ParseEventID validates external input and returns an EventID.
func ParseEventID(s string) (EventID, error) {
	u, err := parseUUID("event_id", s)
	return EventID(u), err
}

// NewEventID returns a fresh random event id.
func NewEventID() EventID { return EventID(uuid.New()) }

func (id TenantID) String() string { return uuid.UUID(id).String() }
func (id TenantID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }

func (id EventID) String() string { return uuid.UUID(id).String() }
func (id EventID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }

// MarshalText lets TenantID travel as a plain string in JSON and log attributes.
func (id TenantID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }

func (id *TenantID) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*id = TenantID(uuid.Nil)
		return nil
	}
	u, err := uuid.ParseBytes(b)
	if err != nil {
		return fmt.Errorf("%w: tenant_id: %v", ErrInvalidID, err)
	}
	*id = TenantID(u)
	return nil
}

func (id EventID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }

func (id *EventID) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*id = EventID(uuid.Nil)
		return nil
	}
	u, err := uuid.ParseBytes(b)
	if err != nil {
		return fmt.Errorf("%w: event_id: %v", ErrInvalidID, err)
	}
	*id = EventID(u)
	return nil
}

func parseUUID(field, s string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, fmt.Errorf("%w: %s cannot be empty", ErrInvalidID, field)
	}
	if len(s) > 64 {
		return uuid.Nil, fmt.Errorf("%w: %s is too long", ErrInvalidID, field)
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %s: %v", ErrInvalidID, field, err)
	}
	if u == uuid.Nil {
		return uuid.Nil, fmt.Errorf("%w: %s cannot be the nil uuid", ErrInvalidID, field)
	}
	return u, nil
}
