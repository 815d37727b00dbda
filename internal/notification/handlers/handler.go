// Package handlers turns domain events into the flat variable maps notification
// templates consume.
//
// Every handler is an instance of one generic type parameterized by payload.
// Extraction is pure apart from bounded read-model lookups and fails closed:
// when a required field or related entity is missing the handler reports
// ok=false and nothing is sent.
package handlers

import (
	"context"

	"bizsuite/internal/notification/events"
	"bizsuite/internal/notification/models"
	id "bizsuite/pkg/domain"
)

// Handler extracts the variables for one notification key from one event type.
type Handler interface {
	Key() models.Key
	EventType() events.Type
	// Variables lists the names Extract emits. It is the template contract.
	Variables() []string
	Extract(ctx context.Context, ev events.Event) (models.Vars, bool)
}

type extractFunc[P events.Payload] func(j joins, p P) (models.Vars, bool)

type handler[P events.Payload] struct {
	key       models.Key
	variables []string
	lookup    Lookup
	extract   extractFunc[P]
}

func newHandler[P events.Payload](key models.Key, lookup Lookup, variables []string, extract func(j joins, p P) (models.Vars, bool)) Handler {
	return &handler[P]{
		key:       key,
		variables: variables,
		lookup:    lookup,
		extract:   extract,
	}
}

func (h *handler[P]) Key() models.Key { return h.key }

func (h *handler[P]) EventType() events.Type {
	var zero P
	return zero.EventType()
}

func (h *handler[P]) Variables() []string {
	out := make([]string, len(h.variables))
	copy(out, h.variables)
	return out
}

func (h *handler[P]) Extract(ctx context.Context, ev events.Event) (models.Vars, bool) {
	p, ok := payloadAs[P](ev.Payload)
	if !ok {
		return nil, false
	}
	tenantID := ev.TenantID
	if tenantID.IsNil() {
		tenantID = ev.NotifyTenant()
	}
	vars, ok := h.extract(joins{ctx: ctx, tenantID: tenantID, lookup: h.lookup}, p)
	if !ok {
		return nil, false
	}
	return vars, true
}

// payloadAs accepts the payload by value or by non-nil pointer.
func payloadAs[P events.Payload](payload any) (P, bool) {
	switch v := payload.(type) {
	case P:
		return v, true
	case *P:
		if v != nil {
			return *v, true
		}
	}
	var zero P
	return zero, false
}

// joins resolves related entity ids to display names within one tenant.
type joins struct {
	ctx      context.Context
	tenantID id.TenantID
	lookup   Lookup
}

// required resolves entityID or reports false when it is blank or unknown.
func (j joins) required(entity Entity, entityID string) (string, bool) {
	if entityID == "" || j.lookup == nil {
		return "", false
	}
	name, ok := j.lookup.Name(j.ctx, j.tenantID, entity, entityID)
	if !ok || name == "" {
		return "", false
	}
	return name, true
}

// optional resolves entityID or returns "" when it is blank or unknown.
func (j joins) optional(entity Entity, entityID string) string {
	name, _ := j.required(entity, entityID)
	return name
}

// present reports whether every value is non-empty.
func present(values ...string) bool {
	for _, v := range values {
		if v == "" {
			return false
		}
	}
	return true
}
