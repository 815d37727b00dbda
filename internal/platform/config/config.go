package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	liststrings "bizsuite/pkg/platform/strings"
)

// Config is the full process configuration, grouped by concern.
type Config struct {
	Server   Server
	Postgres PostgresConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	Notify   NotifyConfig
	Auth     AuthConfig
	Tracing  TracingConfig
}

// Server captures HTTP server level configuration.
type Server struct {
	Addr            string
	ShutdownTimeout time.Duration
}

// PostgresConfig points at the database holding tenant notification settings,
// admin-edited templates and the module read models used for name lookups.
// An empty URL selects the in-memory stores.
type PostgresConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// RedisConfig configures the settings cache. An empty URL disables caching.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	SettingsTTL  time.Duration
}

// KafkaConfig enables the cross-process event bus. Empty Brokers keeps
// dispatch in-process only.
type KafkaConfig struct {
	Brokers       []string
	Topic         string
	ConsumerGroup string
	Partitions    int32
	Replication   int16
}

// NotifyConfig tunes the dispatcher and channel adapters.
type NotifyConfig struct {
	Workers         int
	QueueSize       int
	HandlerTimeout  time.Duration
	Channels        []string
	TelegramBaseURL string
	SendTimeout     time.Duration
	BreakerFailures int
	BreakerCooldown time.Duration
	CredentialKey   string
	DrainTimeout    time.Duration

	// Delivery log tuning. Disabled outcomes are sampled since every event
	// produces one per unconfigured (key, channel) pair.
	DeliveryLogBuffer       int
	DeliveryLogFlush        time.Duration
	DeliveryLogDisabledRate float64
}

// AuthConfig holds the HS256 key producers use to sign service tokens for
// the event ingestion endpoint.
type AuthConfig struct {
	ServiceTokenKey string
	Issuer          string

	// IngestRateLimit is events per tenant per IngestRateWindow; 0 disables.
	IngestRateLimit  int
	IngestRateWindow time.Duration
}

// TracingConfig enables OTLP/HTTP span export. An empty Endpoint keeps the
// no-op tracer.
type TracingConfig struct {
	Endpoint    string
	ServiceName string
	SampleRatio float64
}

// SettingsCacheTTL is the default lifetime of cached tenant settings.
var SettingsCacheTTL = 5 * time.Minute

// FromEnv builds a Config from environment variables so main stays lean.
// A .env file in the working directory is loaded first when present.
func FromEnv() Config {
	_ = godotenv.Load()

	return Config{
		Server: Server{
			Addr:            envString("BIZSUITE_ADDR", ":8080"),
			ShutdownTimeout: envDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Postgres: PostgresConfig{
			URL:             os.Getenv("DATABASE_URL"),
			MaxOpenConns:    envInt("DATABASE_MAX_OPEN_CONNS", 20),
			MaxIdleConns:    envInt("DATABASE_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: envDuration("DATABASE_CONN_MAX_LIFETIME", 30*time.Minute),
		},
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     envInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: envInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  envDuration("REDIS_DIAL_TIMEOUT", 2*time.Second),
			ReadTimeout:  envDuration("REDIS_READ_TIMEOUT", time.Second),
			WriteTimeout: envDuration("REDIS_WRITE_TIMEOUT", time.Second),
			SettingsTTL:  envDuration("REDIS_SETTINGS_TTL", SettingsCacheTTL),
		},
		Kafka: KafkaConfig{
			Brokers:       liststrings.SplitList(os.Getenv("KAFKA_BROKERS")),
			Topic:         envString("KAFKA_EVENTS_TOPIC", "bizsuite.domain-events"),
			ConsumerGroup: envString("KAFKA_CONSUMER_GROUP", "bizsuite-notifications"),
			Partitions:    int32(envInt("KAFKA_TOPIC_PARTITIONS", 6)),
			Replication:   int16(envInt("KAFKA_TOPIC_REPLICATION", 1)),
		},
		Notify: NotifyConfig{
			Workers:         envInt("NOTIFY_WORKERS", 8),
			QueueSize:       envInt("NOTIFY_QUEUE_SIZE", 1024),
			HandlerTimeout:  envDuration("NOTIFY_HANDLER_TIMEOUT", 5*time.Second),
			Channels:        liststrings.SplitList(envString("NOTIFY_CHANNELS", "telegram,slack")),
			TelegramBaseURL: envString("TELEGRAM_API_URL", "https://api.telegram.org"),
			SendTimeout:     envDuration("NOTIFY_SEND_TIMEOUT", 5*time.Second),
			BreakerFailures: envInt("NOTIFY_BREAKER_FAILURES", 5),
			BreakerCooldown: envDuration("NOTIFY_BREAKER_COOLDOWN", time.Minute),
			CredentialKey:   os.Getenv("NOTIFY_CREDENTIAL_KEY"),
			DrainTimeout:    envDuration("NOTIFY_DRAIN_TIMEOUT", 5*time.Second),

			DeliveryLogBuffer:       envInt("DELIVERY_LOG_BUFFER", 10000),
			DeliveryLogFlush:        envDuration("DELIVERY_LOG_FLUSH_INTERVAL", 2*time.Second),
			DeliveryLogDisabledRate: envFloat("DELIVERY_LOG_DISABLED_SAMPLE_RATE", 0.01),
		},
		Auth: AuthConfig{
			// Use a default for development - should be overridden in production
			ServiceTokenKey: envString("SERVICE_TOKEN_KEY", "dev-service-key-change-in-production"),
			Issuer:          envString("SERVICE_TOKEN_ISSUER", "bizsuite"),

			IngestRateLimit:  envInt("INGEST_RATE_LIMIT", 600),
			IngestRateWindow: envDuration("INGEST_RATE_WINDOW", time.Minute),
		},
		Tracing: TracingConfig{
			Endpoint:    os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
			ServiceName: envString("OTEL_SERVICE_NAME", "bizsuite-notifications"),
			SampleRatio: envFloat("OTEL_TRACES_SAMPLE_RATIO", 1),
		},
	}
}

func envString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func envFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}
