package channel

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"sync"
	"time"

	"bizsuite/internal/notification/models"
	"bizsuite/pkg/platform/circuit"
)

const defaultSendTimeout = 5 * time.Second

// Guard runs sends under a per-call timeout and a breaker per delivery
// identity: channel, tenant, destination and credentials. A revoked token or
// dead chat only trips the breaker of the setting that uses it.
type Guard struct {
	timeout     time.Duration
	breakerOpts []circuit.Option
	metrics     *Metrics

	mu       sync.Mutex
	breakers map[string]*circuit.Breaker
}

// GuardOption configures a Guard.
type GuardOption func(*Guard)

func WithTimeout(d time.Duration) GuardOption {
	return func(g *Guard) {
		if d > 0 {
			g.timeout = d
		}
	}
}

func WithBreakerOptions(opts ...circuit.Option) GuardOption {
	return func(g *Guard) {
		g.breakerOpts = append(g.breakerOpts, opts...)
	}
}

func WithMetrics(m *Metrics) GuardOption {
	return func(g *Guard) {
		g.metrics = m
	}
}

func NewGuard(opts ...GuardOption) *Guard {
	g := &Guard{
		timeout:  defaultSendTimeout,
		breakers: make(map[string]*circuit.Breaker),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}
	return g
}

// Timeout is the per-call bound applied by Do.
func (g *Guard) Timeout() time.Duration { return g.timeout }

// Do runs send for setting. Misconfiguration errors do not count against
// the breaker since retrying them cannot succeed either way.
func (g *Guard) Do(ctx context.Context, ch models.Channel, setting models.Setting, send func(ctx context.Context) error) error {
	breaker := g.breaker(breakerName(ch, setting))
	if !breaker.Allow() {
		g.metrics.IncSend(ch, "circuit_open")
		return ErrCircuitOpen
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	start := time.Now()
	err := send(ctx)
	g.metrics.ObserveSendLatency(ch, time.Since(start))

	if err != nil {
		if errors.Is(err, ErrMisconfigured) {
			g.metrics.IncSend(ch, "misconfigured")
			return err
		}
		g.metrics.IncSend(ch, "error")
		if _, change := breaker.RecordFailure(); change.Opened {
			g.metrics.IncBreakerOpened(ch)
		}
		return err
	}
	g.metrics.IncSend(ch, "ok")
	breaker.RecordSuccess()
	return nil
}

// breakerName never embeds the destination or credentials: webhook URLs and
// bot tokens are secrets.
func breakerName(ch models.Channel, setting models.Setting) string {
	h := sha256.New()
	h.Write([]byte(setting.Destination))
	h.Write([]byte{0})
	h.Write([]byte(setting.Credentials))
	return string(ch) + ":" + setting.TenantID.String() + ":" + hex.EncodeToString(h.Sum(nil)[:8])
}

func (g *Guard) breaker(name string) *circuit.Breaker {
	g.mu.Lock()
	defer g.mu.Unlock()
	b, ok := g.breakers[name]
	if !ok {
		b = circuit.New(name, g.breakerOpts...)
		g.breakers[name] = b
	}
	return b
}
