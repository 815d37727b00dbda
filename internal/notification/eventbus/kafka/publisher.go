package kafka

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/twmb/franz-go/pkg/kgo"

	"bizsuite/internal/notification/events"
	"bizsuite/internal/platform/logger"
	"bizsuite/internal/platform/metrics"
	"bizsuite/pkg/requestcontext"
)

const (
	headerEventType = "event_type"
	headerRequestID = "request_id"
)

// Producer is the subset of *kgo.Client the publisher uses.
type Producer interface {
	Produce(ctx context.Context, r *kgo.Record, promise func(*kgo.Record, error))
	ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults
}

// Publisher relays events to the bus. It implements events.Publisher, so a
// business module can hand events to another process without knowing it.
type Publisher struct {
	producer Producer
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

// PublisherOption configures a Publisher.
type PublisherOption func(*Publisher)

func WithPublisherLogger(logger *slog.Logger) PublisherOption {
	return func(p *Publisher) {
		p.logger = logger
	}
}

func WithPublisherMetrics(m *metrics.Metrics) PublisherOption {
	return func(p *Publisher) {
		p.metrics = m
	}
}

func NewPublisher(producer Producer, opts ...PublisherOption) (*Publisher, error) {
	if producer == nil {
		return nil, errors.New("kafka producer is required")
	}
	p := &Publisher{
		producer: producer,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Publish produces ev asynchronously. Failures are logged and counted; the
// caller's operation has already committed and must not observe them.
func (p *Publisher) Publish(ctx context.Context, ev events.Event) {
	rec, err := record(ctx, ev)
	if err != nil {
		p.metrics.IncEventsRelayed("error")
		logger.From(ctx, p.logger).ErrorContext(ctx, "encode domain event",
			"event_type", ev.Type,
			"error", err,
		)
		return
	}
	log := logger.From(ctx, p.logger)
	p.producer.Produce(context.WithoutCancel(ctx), rec, func(_ *kgo.Record, err error) {
		if err != nil {
			p.metrics.IncEventsRelayed("error")
			log.Error("produce domain event",
				"event_id", ev.ID,
				"event_type", ev.Type,
				"error", err,
			)
			return
		}
		p.metrics.IncEventsRelayed("ok")
	})
}

// PublishSync produces ev and waits for the broker acknowledgement.
func (p *Publisher) PublishSync(ctx context.Context, ev events.Event) error {
	rec, err := record(ctx, ev)
	if err != nil {
		p.metrics.IncEventsRelayed("error")
		return err
	}
	if err := p.producer.ProduceSync(ctx, rec).FirstErr(); err != nil {
		p.metrics.IncEventsRelayed("error")
		return fmt.Errorf("produce event %s: %w", ev.ID, err)
	}
	p.metrics.IncEventsRelayed("ok")
	return nil
}

func record(ctx context.Context, ev events.Event) (*kgo.Record, error) {
	ev = events.Stamp(ctx, ev)
	value, err := events.Encode(ev)
	if err != nil {
		return nil, err
	}
	rec := &kgo.Record{
		Key:   []byte(ev.NotifyTenant().String()),
		Value: value,
		Headers: []kgo.RecordHeader{
			{Key: headerEventType, Value: []byte(ev.Type)},
		},
	}
	if reqID := requestcontext.RequestID(ctx); reqID != "" {
		rec.Headers = append(rec.Headers, kgo.RecordHeader{Key: headerRequestID, Value: []byte(reqID)})
	}
	return rec, nil
}
