package kafka

import (
	"context"
	"errors"
	"log/slog"

	"github.com/twmb/franz-go/pkg/kgo"
	"golang.org/x/sync/errgroup"

	"bizsuite/internal/notification/events"
	"bizsuite/internal/notification/models"
	"bizsuite/internal/platform/metrics"
	"bizsuite/pkg/requestcontext"
)

// Poller is the subset of *kgo.Client the consumer uses.
type Poller interface {
	PollFetches(ctx context.Context) kgo.Fetches
	CommitRecords(ctx context.Context, rs ...*kgo.Record) error
}

// Processor runs the notification pipeline for one event.
type Processor interface {
	Process(ctx context.Context, ev events.Event) []models.Outcome
}

// Consumer feeds bus records into a Processor.
type Consumer struct {
	poller    Poller
	processor Processor
	logger    *slog.Logger
	metrics   *metrics.Metrics
}

// ConsumerOption configures a Consumer.
type ConsumerOption func(*Consumer)

func WithConsumerLogger(logger *slog.Logger) ConsumerOption {
	return func(c *Consumer) {
		c.logger = logger
	}
}

func WithConsumerMetrics(m *metrics.Metrics) ConsumerOption {
	return func(c *Consumer) {
		c.metrics = m
	}
}

func NewConsumer(poller Poller, processor Processor, opts ...ConsumerOption) (*Consumer, error) {
	if poller == nil {
		return nil, errors.New("kafka poller is required")
	}
	if processor == nil {
		return nil, errors.New("event processor is required")
	}
	c := &Consumer{
		poller:    poller,
		processor: processor,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Run polls until ctx is cancelled or the client is closed. Each batch is
// committed first, then partitions are processed concurrently with records
// kept in order within a partition. A batch already committed is finished
// even if ctx is cancelled meanwhile.
func (c *Consumer) Run(ctx context.Context) error {
	for {
		fetches := c.poller.PollFetches(ctx)
		if fetches.IsClientClosed() || ctx.Err() != nil {
			return nil
		}
		fetches.EachError(func(topic string, partition int32, err error) {
			c.logger.WarnContext(ctx, "kafka fetch error",
				"topic", topic,
				"partition", partition,
				"error", err,
			)
		})

		var batch []*kgo.Record
		fetches.EachRecord(func(r *kgo.Record) {
			batch = append(batch, r)
		})
		if len(batch) == 0 {
			continue
		}
		if err := c.poller.CommitRecords(ctx, batch...); err != nil {
			// The batch is processed anyway; a rebalance may redeliver it.
			c.logger.ErrorContext(ctx, "commit kafka offsets",
				"records", len(batch),
				"error", err,
			)
		}

		work := context.WithoutCancel(ctx)
		var g errgroup.Group
		fetches.EachPartition(func(p kgo.FetchTopicPartition) {
			g.Go(func() error {
				for _, r := range p.Records {
					c.handle(work, r)
				}
				return nil
			})
		})
		_ = g.Wait()
	}
}

func (c *Consumer) handle(ctx context.Context, r *kgo.Record) {
	ev, err := events.Decode(r.Value)
	if err != nil {
		reason := "malformed"
		if errors.Is(err, events.ErrUnknownType) {
			reason = "unknown_type"
		}
		c.metrics.IncEventsRejected(metrics.SourceKafka, reason)
		c.logger.WarnContext(ctx, "skipping undecodable domain event",
			"topic", r.Topic,
			"partition", r.Partition,
			"offset", r.Offset,
			"reason", reason,
			"error", err,
		)
		return
	}
	for _, h := range r.Headers {
		if h.Key == headerRequestID {
			ctx = requestcontext.WithRequestID(ctx, string(h.Value))
		}
	}
	c.metrics.IncEventsIngested(metrics.SourceKafka)
	c.processor.Process(ctx, ev)
}
