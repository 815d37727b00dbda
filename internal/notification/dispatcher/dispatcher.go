// Package dispatcher turns domain events into delivered notifications.
//
// Process is the synchronous single pass: look up handlers, and for each one
// resolve the tenant's enabled channels, extract variables once, then render
// and send per channel. Every skip point is silent and every failure is
// contained, so nothing ever reaches the publishing business operation.
//
// Dispatch is the fire-and-forget entry point business modules use. It hands
// the event to a bounded queue served by a worker pool and returns at once.
package dispatcher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"bizsuite/internal/notification/events"
	"bizsuite/internal/notification/handlers"
	"bizsuite/internal/notification/models"
	"bizsuite/internal/platform/logger"
	id "bizsuite/pkg/domain"
)

// ErrClosed is returned by Close when called twice.
var ErrClosed = errors.New("dispatcher closed")

// SubscriptionTable yields the handlers registered for an event type.
type SubscriptionTable interface {
	HandlersFor(eventType events.Type) []handlers.Handler
}

// Resolver reports whether a tenant enabled a key on a channel.
type Resolver interface {
	Resolve(ctx context.Context, tenantID id.TenantID, channel models.Channel, key models.Key) (models.Setting, bool)
}

// Renderer renders the template for a (channel, key) pair.
type Renderer interface {
	Render(channel models.Channel, key models.Key, vars models.Vars) (string, error)
}

// Sender delivers a rendered message for a resolved setting.
type Sender interface {
	Send(ctx context.Context, setting models.Setting, message string) error
}

// OutcomeRecorder receives the outcomes of every processed event. It must
// not block.
type OutcomeRecorder interface {
	Record(ctx context.Context, outcomes []models.Outcome)
}

const (
	defaultWorkers        = 8
	defaultQueueSize      = 1024
	defaultHandlerTimeout = 10 * time.Second
)

type job struct {
	ctx context.Context
	ev  events.Event
}

// Dispatcher is safe for concurrent use. Call Close to drain the queue.
type Dispatcher struct {
	table     SubscriptionTable
	resolver  Resolver
	templates Renderer
	sender    Sender

	channels       []models.Channel
	handlerTimeout time.Duration
	workers        int
	queueSize      int

	logger   *slog.Logger
	metrics  *Metrics
	tracer   trace.Tracer
	recorder OutcomeRecorder

	queue  chan job
	wg     sync.WaitGroup
	mu     sync.RWMutex
	closed bool
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

func WithLogger(logger *slog.Logger) Option {
	return func(d *Dispatcher) {
		d.logger = logger
	}
}

func WithMetrics(m *Metrics) Option {
	return func(d *Dispatcher) {
		d.metrics = m
	}
}

func WithTracer(t trace.Tracer) Option {
	return func(d *Dispatcher) {
		if t != nil {
			d.tracer = t
		}
	}
}

// WithOutcomeRecorder forwards outcomes to a delivery log.
func WithOutcomeRecorder(r OutcomeRecorder) Option {
	return func(d *Dispatcher) {
		d.recorder = r
	}
}

// WithChannels sets the channels consulted for every handler, in order.
func WithChannels(channels ...models.Channel) Option {
	return func(d *Dispatcher) {
		if len(channels) > 0 {
			d.channels = append([]models.Channel(nil), channels...)
		}
	}
}

// WithWorkers sets the number of goroutines draining the queue.
func WithWorkers(n int) Option {
	return func(d *Dispatcher) {
		if n > 0 {
			d.workers = n
		}
	}
}

// WithQueueSize bounds how many events may wait for a worker.
func WithQueueSize(n int) Option {
	return func(d *Dispatcher) {
		if n > 0 {
			d.queueSize = n
		}
	}
}

// WithHandlerTimeout bounds one handler's resolve, extract and send work.
func WithHandlerTimeout(timeout time.Duration) Option {
	return func(d *Dispatcher) {
		if timeout > 0 {
			d.handlerTimeout = timeout
		}
	}
}

// New builds a Dispatcher and starts its workers.
func New(table SubscriptionTable, resolver Resolver, templates Renderer, sender Sender, opts ...Option) (*Dispatcher, error) {
	if table == nil {
		return nil, errors.New("subscription table is required")
	}
	if resolver == nil {
		return nil, errors.New("settings resolver is required")
	}
	if templates == nil {
		return nil, errors.New("template registry is required")
	}
	if sender == nil {
		return nil, errors.New("channel sender is required")
	}
	d := &Dispatcher{
		table:          table,
		resolver:       resolver,
		templates:      templates,
		sender:         sender,
		channels:       append([]models.Channel(nil), models.Channels...),
		handlerTimeout: defaultHandlerTimeout,
		workers:        defaultWorkers,
		queueSize:      defaultQueueSize,
		logger:         slog.Default(),
		tracer:         otel.Tracer("bizsuite/notification/dispatcher"),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}

	d.queue = make(chan job, d.queueSize)
	for range d.workers {
		d.wg.Add(1)
		go d.worker()
	}
	return d, nil
}

// Publish implements events.Publisher.
func (d *Dispatcher) Publish(ctx context.Context, ev events.Event) {
	d.Dispatch(ctx, ev)
}

// Dispatch enqueues ev for background processing and returns immediately.
// The request's values (tenant, request id, trace) travel with the event but
// its cancellation does not, so delivery may finish after the response.
// A full queue drops the event.
func (d *Dispatcher) Dispatch(ctx context.Context, ev events.Event) {
	ev = events.Stamp(ctx, ev)
	d.metrics.IncEventsReceived(ev.Type)
	if len(d.table.HandlersFor(ev.Type)) == 0 {
		return
	}

	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		d.metrics.IncEventsDropped("closed")
		logger.From(ctx, d.logger).WarnContext(ctx, "notification dispatcher closed, dropping event",
			"event_id", ev.ID,
			"event_type", ev.Type,
		)
		return
	}
	select {
	case d.queue <- job{ctx: context.WithoutCancel(ctx), ev: ev}:
		d.metrics.SetQueueDepth(len(d.queue))
	default:
		d.metrics.IncEventsDropped("queue_full")
		logger.From(ctx, d.logger).WarnContext(ctx, "notification queue full, dropping event",
			"event_id", ev.ID,
			"event_type", ev.Type,
			"queue_size", d.queueSize,
		)
	}
}

// Close stops accepting events and waits until queued ones are processed or
// ctx expires.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return ErrClosed
	}
	d.closed = true
	close(d.queue)
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("drain notification queue: %w", ctx.Err())
	}
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()
	for j := range d.queue {
		d.metrics.SetQueueDepth(len(d.queue))
		d.Process(j.ctx, j.ev)
	}
}

// Process runs every handler for ev and returns their outcomes. Handlers run
// concurrently and independently; a failure or panic in one never affects
// another. Events with no handlers return nil.
func (d *Dispatcher) Process(ctx context.Context, ev events.Event) []models.Outcome {
	ev = events.Stamp(ctx, ev)
	hs := d.table.HandlersFor(ev.Type)
	if len(hs) == 0 {
		return nil
	}

	start := time.Now()
	tenantID := ev.NotifyTenant()
	ctx, span := d.tracer.Start(ctx, "notification.process", trace.WithAttributes(
		attribute.String("event.id", ev.ID.String()),
		attribute.String("event.type", string(ev.Type)),
		attribute.String("tenant.id", tenantID.String()),
		attribute.Int("handlers", len(hs)),
	))
	defer span.End()

	results := make([][]models.Outcome, len(hs))
	var g errgroup.Group
	for i, h := range hs {
		g.Go(func() error {
			results[i] = d.runHandler(ctx, ev, tenantID, h)
			return nil
		})
	}
	_ = g.Wait()

	var outcomes []models.Outcome
	sent := 0
	for _, rs := range results {
		for _, o := range rs {
			d.record(ctx, o)
			if o.Sent() {
				sent++
			}
			outcomes = append(outcomes, o)
		}
	}
	span.SetAttributes(attribute.Int("notifications.sent", sent))
	if d.recorder != nil && len(outcomes) > 0 {
		d.recorder.Record(ctx, outcomes)
	}
	d.metrics.ObserveProcessDuration(time.Since(start))
	return outcomes
}

// runHandler applies the per-handler algorithm. Variables are extracted once
// and only when at least one channel is enabled.
func (d *Dispatcher) runHandler(ctx context.Context, ev events.Event, tenantID id.TenantID, h handlers.Handler) (out []models.Outcome) {
	base := models.Outcome{
		EventID:   ev.ID,
		EventType: string(ev.Type),
		TenantID:  tenantID,
		Key:       h.Key(),
	}
	defer func() {
		if r := recover(); r != nil {
			o := base
			o.Status = models.StatusHandlerPanic
			o.Err = fmt.Errorf("handler panic: %v", r)
			logger.From(ctx, d.logger).ErrorContext(ctx, "notification handler panicked",
				"key", h.Key(),
				"event_type", ev.Type,
				"panic", r,
				"stack", string(debug.Stack()),
			)
			out = append(out, o)
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, d.handlerTimeout)
	defer cancel()

	var enabled []models.Setting
	for _, ch := range d.channels {
		setting, ok := d.resolver.Resolve(ctx, tenantID, ch, h.Key())
		if !ok {
			o := base
			o.Channel = ch
			o.Status = models.StatusDisabled
			out = append(out, o)
			continue
		}
		setting.Channel = ch
		enabled = append(enabled, setting)
	}
	if len(enabled) == 0 {
		return out
	}

	vars, ok := h.Extract(ctx, ev)
	if !ok {
		for _, setting := range enabled {
			o := base
			o.Channel = setting.Channel
			o.Status = models.StatusIncomplete
			out = append(out, o)
		}
		return out
	}

	delivered := make([]models.Outcome, len(enabled))
	var g errgroup.Group
	for i, setting := range enabled {
		g.Go(func() error {
			o := base
			o.Channel = setting.Channel
			delivered[i] = d.deliver(ctx, o, setting, vars)
			return nil
		})
	}
	_ = g.Wait()
	return append(out, delivered...)
}

func (d *Dispatcher) deliver(ctx context.Context, o models.Outcome, setting models.Setting, vars models.Vars) (result models.Outcome) {
	defer func() {
		if r := recover(); r != nil {
			result = o
			result.Status = models.StatusSendFailed
			result.Err = fmt.Errorf("channel client panic: %v", r)
		}
	}()

	message, err := d.templates.Render(setting.Channel, o.Key, vars)
	if err != nil {
		o.Status = models.StatusTemplateMissing
		o.Err = err
		return o
	}
	if err := d.sender.Send(ctx, setting, message); err != nil {
		o.Status = models.StatusSendFailed
		o.Err = err
		return o
	}
	o.Status = models.StatusSent
	return o
}

func (d *Dispatcher) record(ctx context.Context, o models.Outcome) {
	d.metrics.IncOutcome(o.Channel, o.Status)
	log := logger.From(ctx, d.logger)
	attrs := []any{
		"event_id", o.EventID,
		"event_type", o.EventType,
		"tenant_id", o.TenantID,
		"key", o.Key,
		"channel", o.Channel,
		"status", o.Status,
	}
	switch o.Status {
	case models.StatusSent:
		log.InfoContext(ctx, "notification sent", attrs...)
	case models.StatusSendFailed:
		log.WarnContext(ctx, "notification send failed", append(attrs, "error", o.Err)...)
	case models.StatusTemplateMissing:
		log.ErrorContext(ctx, "notification template missing", append(attrs, "error", o.Err)...)
	case models.StatusHandlerPanic:
		// already logged with the stack at recovery
	default:
		log.DebugContext(ctx, "notification skipped", attrs...)
	}
	if o.Err != nil {
		trace.SpanFromContext(ctx).SetStatus(codes.Error, string(o.Status))
	}
}
