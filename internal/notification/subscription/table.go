// Package subscription maps domain event types to the handlers that turn them
// into notifications.
package subscription

import (
	"fmt"
	"sort"
	"sync"

	"bizsuite/internal/notification/events"
	"bizsuite/internal/notification/handlers"
	"bizsuite/internal/notification/models"
)

// Table is built once at startup and read-only after Freeze. An event type
// may map to zero, one or many handlers; registration order is preserved.
type Table struct {
	mu       sync.RWMutex
	handlers map[events.Type][]handlers.Handler
	frozen   bool
}

// NewTable registers hs in order. The table stays open for Register until
// Freeze is called.
func NewTable(hs ...handlers.Handler) *Table {
	t := &Table{handlers: make(map[events.Type][]handlers.Handler)}
	for _, h := range hs {
		t.Register(h)
	}
	return t
}

// Register appends h under its event type. Registering after Freeze, or a
// second handler for the same (event type, key), is a wiring bug and panics.
func (t *Table) Register(h handlers.Handler) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.frozen {
		panic(fmt.Sprintf("subscription: register %q after freeze", h.Key()))
	}
	eventType := h.EventType()
	for _, existing := range t.handlers[eventType] {
		if existing.Key() == h.Key() {
			panic(fmt.Sprintf("subscription: duplicate handler %q for %s", h.Key(), eventType))
		}
	}
	t.handlers[eventType] = append(t.handlers[eventType], h)
}

// Freeze closes the table to further registration.
func (t *Table) Freeze() *Table {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.frozen = true
	return t
}

// HandlersFor returns the handlers for eventType in registration order. The
// returned slice is a copy.
func (t *Table) HandlersFor(eventType events.Type) []handlers.Handler {
	t.mu.RLock()
	defer t.mu.RUnlock()
	hs := t.handlers[eventType]
	if len(hs) == 0 {
		return nil
	}
	out := make([]handlers.Handler, len(hs))
	copy(out, hs)
	return out
}

// Subscriptions lists event type to notification keys, sorted by event type.
func (t *Table) Subscriptions() []Subscription {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]Subscription, 0, len(t.handlers))
	for eventType, hs := range t.handlers {
		sub := Subscription{EventType: eventType}
		for _, h := range hs {
			sub.Keys = append(sub.Keys, h.Key())
		}
		out = append(out, sub)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EventType < out[j].EventType })
	return out
}

// Keys returns every registered notification key once.
func (t *Table) Keys() []models.Key {
	t.mu.RLock()
	defer t.mu.RUnlock()
	seen := map[models.Key]bool{}
	var keys []models.Key
	for _, hs := range t.handlers {
		for _, h := range hs {
			if !seen[h.Key()] {
				seen[h.Key()] = true
				keys = append(keys, h.Key())
			}
		}
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// Subscription is one row of the table as exposed to operators.
type Subscription struct {
	EventType events.Type  `json:"event_type"`
	Keys      []models.Key `json:"keys"`
}
