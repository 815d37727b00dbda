package deliverylog

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"bizsuite/internal/notification/models"
	"bizsuite/internal/platform/logger"
	"bizsuite/pkg/platform/circuit"
	"bizsuite/pkg/requestcontext"
)

const (
	defaultBufferSize    = 10000
	defaultBatchSize     = 200
	defaultFlushInterval = 2 * time.Second
	defaultStoreTimeout  = 5 * time.Second
)

// Recorder buffers outcomes and flushes them to a Store. Record never blocks
// on the store; Run owns all store calls.
type Recorder struct {
	store   Store
	buffer  *ringBuffer
	sampler *Sampler
	breaker *circuit.Breaker
	logger  *slog.Logger
	metrics *Metrics
	ready   chan struct{}

	batchSize     int
	flushInterval time.Duration
	storeTimeout  time.Duration
	now           func() time.Time
}

// Option configures a Recorder.
type Option func(*Recorder)

func WithLogger(logger *slog.Logger) Option {
	return func(r *Recorder) {
		r.logger = logger
	}
}

func WithMetrics(m *Metrics) Option {
	return func(r *Recorder) {
		r.metrics = m
	}
}

func WithSampler(s *Sampler) Option {
	return func(r *Recorder) {
		if s != nil {
			r.sampler = s
		}
	}
}

func WithBreaker(b *circuit.Breaker) Option {
	return func(r *Recorder) {
		if b != nil {
			r.breaker = b
		}
	}
}

// WithBufferSize bounds how many records wait for a flush.
func WithBufferSize(n int) Option {
	return func(r *Recorder) {
		if n > 0 {
			r.buffer = newRingBuffer(n)
		}
	}
}

// WithBatchSize caps the records written per store call.
func WithBatchSize(n int) Option {
	return func(r *Recorder) {
		if n > 0 {
			r.batchSize = n
		}
	}
}

func WithFlushInterval(d time.Duration) Option {
	return func(r *Recorder) {
		if d > 0 {
			r.flushInterval = d
		}
	}
}

// New builds a Recorder. Without WithSampler every outcome is kept.
func New(store Store, opts ...Option) (*Recorder, error) {
	if store == nil {
		return nil, errors.New("delivery log store is required")
	}
	r := &Recorder{
		store:         store,
		buffer:        newRingBuffer(defaultBufferSize),
		sampler:       NewSampler(1),
		breaker:       circuit.New("delivery-log", circuit.WithFailureThreshold(3), circuit.WithCooldown(30*time.Second)),
		logger:        slog.Default(),
		ready:         make(chan struct{}, 1),
		batchSize:     defaultBatchSize,
		flushInterval: defaultFlushInterval,
		storeTimeout:  defaultStoreTimeout,
		now:           time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r, nil
}

// Record buffers the outcomes of one processed event.
func (r *Recorder) Record(ctx context.Context, outcomes []models.Outcome) {
	requestID := requestcontext.RequestID(ctx)
	at := r.now().UTC()
	for _, o := range outcomes {
		if !r.sampler.Keep(o.Status) {
			r.metrics.IncSampled()
			continue
		}
		if r.buffer.enqueue(fromOutcome(o, requestID, at)) {
			r.metrics.IncEvicted()
		}
	}
	if r.buffer.len() >= r.batchSize {
		select {
		case r.ready <- struct{}{}:
		default:
		}
	}
}

// Pending returns the number of buffered records.
func (r *Recorder) Pending() int {
	return r.buffer.len()
}

// Run flushes on every interval tick and whenever a full batch is waiting.
// On cancellation it performs a final flush detached from ctx.
func (r *Recorder) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.flushInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			r.Flush(context.WithoutCancel(ctx))
			return nil
		case <-ticker.C:
			r.Flush(ctx)
		case <-r.ready:
			r.Flush(ctx)
		}
	}
}

// Flush writes buffered records in batches until the buffer is empty or the
// store fails.
func (r *Recorder) Flush(ctx context.Context) {
	for {
		batch := r.buffer.dequeueBatch(r.batchSize)
		if len(batch) == 0 {
			return
		}
		if !r.persist(ctx, batch) {
			return
		}
	}
}

func (r *Recorder) persist(ctx context.Context, batch []Record) bool {
	log := logger.From(ctx, r.logger)
	if !r.breaker.Allow() {
		r.metrics.AddBreakerDropped(len(batch))
		return false
	}

	storeCtx, cancel := context.WithTimeout(ctx, r.storeTimeout)
	defer cancel()
	if err := r.store.Append(storeCtx, batch); err != nil {
		r.metrics.IncPersistFailures()
		r.metrics.AddBreakerDropped(len(batch))
		open, change := r.breaker.RecordFailure()
		if change.Opened {
			r.metrics.SetBreakerState(true)
			log.WarnContext(ctx, "delivery log store circuit opened", "error", err)
		} else if !open {
			log.WarnContext(ctx, "delivery log flush failed", "error", err, "records", len(batch))
		}
		return false
	}

	if _, change := r.breaker.RecordSuccess(); change.Closed {
		r.metrics.SetBreakerState(false)
		log.InfoContext(ctx, "delivery log store circuit closed")
	}
	r.metrics.AddRecorded(len(batch))
	return true
}
