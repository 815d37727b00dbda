package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/twmb/franz-go/pkg/kgo"
	"golang.org/x/sync/errgroup"

	"bizsuite/internal/notification"
	"bizsuite/internal/notification/channel"
	"bizsuite/internal/notification/channel/slack"
	"bizsuite/internal/notification/channel/telegram"
	"bizsuite/internal/notification/deliverylog"
	"bizsuite/internal/notification/dispatcher"
	"bizsuite/internal/notification/eventbus/kafka"
	"bizsuite/internal/notification/events"
	"bizsuite/internal/notification/handler"
	"bizsuite/internal/notification/handlers"
	"bizsuite/internal/notification/models"
	"bizsuite/internal/notification/settings"
	"bizsuite/internal/notification/subscription"
	"bizsuite/internal/notification/template"
	"bizsuite/internal/platform/config"
	"bizsuite/internal/platform/httpserver"
	"bizsuite/internal/platform/metrics"
	"bizsuite/internal/platform/middleware"
	"bizsuite/internal/platform/postgres"
	"bizsuite/internal/platform/ratelimit"
	redisplatform "bizsuite/internal/platform/redis"
	"bizsuite/internal/platform/servicetoken"
	"bizsuite/internal/platform/tracing"
	id "bizsuite/pkg/domain"
	"bizsuite/pkg/platform/circuit"
	"bizsuite/pkg/platform/middleware/metadata"
	"bizsuite/pkg/platform/middleware/requesttime"
	"bizsuite/pkg/platform/secrets"
)

type app struct {
	cfg    config.Config
	logger *slog.Logger

	db    *sql.DB
	redis *redisplatform.Client

	dispatcher *dispatcher.Dispatcher
	deliveries *deliverylog.Recorder
	producer   *kgo.Client
	consumer   *kgo.Client
	bus        *kafka.Consumer
	server     *http.Server
	tracing    tracing.Shutdown
}

// settingsStore is what the HTTP settings routes and the resolver share.
type settingsStore interface {
	settings.Store
	Put(ctx context.Context, setting models.Setting) error
	Delete(ctx context.Context, tenantID id.TenantID, channel models.Channel, key models.Key) error
}

func build(ctx context.Context, cfg config.Config, log *slog.Logger) (*app, error) {
	a := &app{cfg: cfg, logger: log}
	ready := false
	defer func() {
		if !ready {
			a.closeResources()
		}
	}()

	var err error
	if a.tracing, err = tracing.Setup(ctx, cfg.Tracing); err != nil {
		return nil, err
	}
	if a.db, err = postgres.Open(ctx, cfg.Postgres); err != nil {
		return nil, err
	}
	if a.db != nil {
		if err = postgres.Migrate(ctx, a.db); err != nil {
			return nil, err
		}
	}
	if a.redis, err = redisplatform.New(ctx, cfg.Redis); err != nil {
		return nil, err
	}

	store, err := a.buildSettingsStore()
	if err != nil {
		return nil, err
	}
	resolver, err := settings.NewResolver(store, settings.WithLogger(log))
	if err != nil {
		return nil, err
	}

	templates := template.NewDefaultRegistry()
	if templates, err = template.LoadPostgres(ctx, a.db, templates, log); err != nil {
		return nil, err
	}

	var lookup handlers.Lookup = handlers.NewInMemoryLookup()
	if a.db != nil {
		lookup = handlers.NewPostgresLookup(a.db, handlers.WithLookupLogger(log))
	}
	table := subscription.NewTable(handlers.Defaults(lookup)...).Freeze()

	channels, err := parseChannels(cfg.Notify.Channels)
	if err != nil {
		return nil, err
	}
	for _, p := range notification.CheckContracts(table, templates, channels) {
		log.Warn("notification template contract", "problem", p.Error())
	}

	guard := channel.NewGuard(
		channel.WithTimeout(cfg.Notify.SendTimeout),
		channel.WithBreakerOptions(
			circuit.WithFailureThreshold(cfg.Notify.BreakerFailures),
			circuit.WithCooldown(cfg.Notify.BreakerCooldown),
		),
		channel.WithMetrics(channel.NewMetrics()),
	)
	senders := channel.NewRegistry().
		Register(models.ChannelTelegram, telegram.New(
			telegram.WithBaseURL(cfg.Notify.TelegramBaseURL),
			telegram.WithGuard(guard),
		)).
		Register(models.ChannelSlack, slack.New(slack.WithGuard(guard)))

	var deliveryStore deliverylog.Store = deliverylog.NewInMemoryStore()
	if a.db != nil {
		deliveryStore = deliverylog.NewPostgresStore(a.db)
	}
	if a.deliveries, err = deliverylog.New(deliveryStore,
		deliverylog.WithLogger(log),
		deliverylog.WithMetrics(deliverylog.NewMetrics()),
		deliverylog.WithSampler(deliverylog.NewSampler(cfg.Notify.DeliveryLogDisabledRate)),
		deliverylog.WithBufferSize(cfg.Notify.DeliveryLogBuffer),
		deliverylog.WithFlushInterval(cfg.Notify.DeliveryLogFlush),
	); err != nil {
		return nil, err
	}

	a.dispatcher, err = dispatcher.New(table, resolver, templates, senders,
		dispatcher.WithLogger(log),
		dispatcher.WithMetrics(dispatcher.NewMetrics()),
		dispatcher.WithChannels(channels...),
		dispatcher.WithWorkers(cfg.Notify.Workers),
		dispatcher.WithQueueSize(cfg.Notify.QueueSize),
		dispatcher.WithHandlerTimeout(cfg.Notify.HandlerTimeout),
		dispatcher.WithOutcomeRecorder(a.deliveries),
	)
	if err != nil {
		return nil, err
	}

	ingestMetrics := metrics.New()
	var publisher events.Publisher = a.dispatcher
	if len(cfg.Kafka.Brokers) > 0 {
		if publisher, err = a.buildEventBus(ctx, ingestMetrics); err != nil {
			return nil, err
		}
	}

	tokens, err := servicetoken.New(cfg.Auth.ServiceTokenKey, cfg.Auth.Issuer)
	if err != nil {
		return nil, err
	}
	var limiter ratelimit.Limiter = ratelimit.NewMemoryStore()
	if a.redis != nil {
		limiter = ratelimit.NewRedisStore(a.redis.Client)
	}
	api, err := handler.New(publisher, table, tokens,
		handler.WithLogger(log),
		handler.WithMetrics(ingestMetrics),
		handler.WithSettingsStore(store),
		handler.WithDeliveryLog(deliveryStore),
		handler.WithIngestLimit(limiter, cfg.Auth.IngestRateLimit, cfg.Auth.IngestRateWindow),
	)
	if err != nil {
		return nil, err
	}

	router := chi.NewRouter()
	router.Use(middleware.Recovery(log))
	router.Use(middleware.RequestID)
	router.Use(metadata.ClientMetadata)
	router.Use(requesttime.Middleware)
	router.Use(middleware.Logger(log))
	handler.RegisterOps(router, a.healthChecks())
	api.Register(router)
	a.server = httpserver.New(cfg.Server.Addr, tracing.Handler(router, "bizsuite.http"))

	log.Info("notification pipeline ready",
		"channels", channels,
		"postgres", a.db != nil,
		"redis", a.redis != nil,
		"kafka", a.bus != nil,
		"event_types", len(table.Subscriptions()),
	)
	ready = true
	return a, nil
}

// buildSettingsStore picks Postgres or memory, seals credentials when a key
// is configured, and fronts the store with Redis when available.
func (a *app) buildSettingsStore() (settingsStore, error) {
	var box *secrets.Box
	if a.cfg.Notify.CredentialKey != "" {
		var err error
		if box, err = secrets.NewBox(a.cfg.Notify.CredentialKey); err != nil {
			return nil, err
		}
	} else if a.db != nil {
		a.logger.Warn("NOTIFY_CREDENTIAL_KEY not set, bot credentials are stored unsealed")
	}

	var store settingsStore = settings.NewInMemoryStore()
	if a.db != nil {
		store = settings.NewPostgresStore(a.db, settings.WithBox(box))
	}
	if a.redis == nil {
		return store, nil
	}
	return settings.NewRedisCache(a.redis.Client, store, a.cfg.Redis.SettingsTTL,
		settings.WithCacheBox(box),
		settings.WithCacheLogger(a.logger),
		settings.WithCacheMetrics(settings.NewMetrics()),
	)
}

// buildEventBus connects both directions: HTTP ingestion produces to the
// topic and the consumer feeds the dispatcher, so any replica may deliver.
func (a *app) buildEventBus(ctx context.Context, m *metrics.Metrics) (events.Publisher, error) {
	kcfg := kafka.Config{
		Brokers:     a.cfg.Kafka.Brokers,
		Topic:       a.cfg.Kafka.Topic,
		Group:       a.cfg.Kafka.ConsumerGroup,
		Partitions:  a.cfg.Kafka.Partitions,
		Replication: a.cfg.Kafka.Replication,
	}
	var err error
	if a.producer, err = kafka.NewProducerClient(kcfg); err != nil {
		return nil, err
	}
	if err = kafka.EnsureTopic(ctx, a.producer, kcfg); err != nil {
		return nil, err
	}
	if a.consumer, err = kafka.NewConsumerClient(kcfg); err != nil {
		return nil, err
	}
	if a.bus, err = kafka.NewConsumer(a.consumer, a.dispatcher,
		kafka.WithConsumerLogger(a.logger),
		kafka.WithConsumerMetrics(m),
	); err != nil {
		return nil, err
	}
	return kafka.NewPublisher(a.producer,
		kafka.WithPublisherLogger(a.logger),
		kafka.WithPublisherMetrics(m),
	)
}

func (a *app) healthChecks() map[string]handler.HealthCheck {
	checks := map[string]handler.HealthCheck{}
	if a.db != nil {
		checks["postgres"] = a.db.PingContext
	}
	if a.redis != nil {
		checks["redis"] = a.redis.Health
	}
	if a.producer != nil {
		checks["kafka"] = a.producer.Ping
	}
	return checks
}

// run serves until ctx is cancelled, then stops intake before draining the
// dispatch queue and flushing the delivery log.
func (a *app) run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.logger.Info("starting bizsuite notifications", "addr", a.cfg.Server.Addr)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	if a.bus != nil {
		g.Go(func() error {
			return a.bus.Run(gctx)
		})
	}
	g.Go(func() error {
		return a.deliveries.Run(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		return a.shutdown()
	})
	return g.Wait()
}

func (a *app) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()

	var errs []error
	if err := a.server.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("http shutdown: %w", err))
	}
	if a.producer != nil {
		if err := a.producer.Flush(ctx); err != nil {
			errs = append(errs, fmt.Errorf("flush kafka producer: %w", err))
		}
	}

	drainCtx, cancelDrain := context.WithTimeout(context.Background(), a.cfg.Notify.DrainTimeout)
	defer cancelDrain()
	if err := a.dispatcher.Close(drainCtx); err != nil {
		a.logger.Warn("notification queue not fully drained", "error", err)
	}
	a.deliveries.Flush(ctx)
	if err := a.tracing(ctx); err != nil {
		errs = append(errs, fmt.Errorf("flush traces: %w", err))
	}
	a.closeResources()
	return errors.Join(errs...)
}

// closeResources is safe on a partially built app.
func (a *app) closeResources() {
	if a.dispatcher != nil {
		_ = a.dispatcher.Close(context.Background())
	}
	if a.consumer != nil {
		a.consumer.Close()
	}
	if a.producer != nil {
		a.producer.Close()
	}
	if a.redis != nil {
		_ = a.redis.Close()
	}
	if a.db != nil {
		_ = a.db.Close()
	}
}

func parseChannels(names []string) ([]models.Channel, error) {
	if len(names) == 0 {
		return append([]models.Channel(nil), models.Channels...), nil
	}
	out := make([]models.Channel, 0, len(names))
	for _, name := range names {
		ch, ok := models.ParseChannel(name)
		if !ok {
			return nil, fmt.Errorf("unknown notification channel %q", name)
		}
		out = append(out, ch)
	}
	return out, nil
}
