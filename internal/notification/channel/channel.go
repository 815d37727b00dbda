// Package channel defines the outbound transport port and the shared guard
// (timeout and per-setting circuit breaker) its adapters run under.
package channel

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"bizsuite/internal/notification/models"
)

var (
	// ErrCircuitOpen is returned without a network call while a destination's
	// breaker is open.
	ErrCircuitOpen = errors.New("channel circuit open")
	// ErrMisconfigured is returned when a setting lacks what the channel needs.
	ErrMisconfigured = errors.New("channel setting incomplete")
	// ErrRejected wraps a non-success answer from the remote API.
	ErrRejected = errors.New("channel rejected message")
)

// Client delivers one rendered message. Implementations enforce their own
// bounded timeout and never retry.
type Client interface {
	Send(ctx context.Context, setting models.Setting, message string) error
}

// Registry maps channels to clients. It is populated at startup.
type Registry struct {
	mu      sync.RWMutex
	clients map[models.Channel]Client
}

func NewRegistry() *Registry {
	return &Registry{clients: make(map[models.Channel]Client)}
}

// Register binds client to ch, replacing any previous binding.
func (r *Registry) Register(ch models.Channel, client Client) *Registry {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clients[ch] = client
	return r
}

// Client returns the client for ch.
func (r *Registry) Client(ch models.Channel) (Client, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.clients[ch]
	return c, ok
}

// Channels lists registered channels in a stable order.
func (r *Registry) Channels() []models.Channel {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.Channel, 0, len(r.clients))
	for ch := range r.clients {
		out = append(out, ch)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Send looks up the setting's channel and delivers through it.
func (r *Registry) Send(ctx context.Context, setting models.Setting, message string) error {
	c, ok := r.Client(setting.Channel)
	if !ok {
		return fmt.Errorf("%w: no client for channel %q", ErrMisconfigured, setting.Channel)
	}
	return c.Send(ctx, setting, message)
}
