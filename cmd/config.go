package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	HTTPPort string `env:"HTTP_PORT, default=8082"`
	LogLevel string `env:"LOG_LEVEL, default=info"`
	// LogFormat is "json" or "text".
	LogFormat string `env:"LOG_FORMAT, default=json"`

	DBHost     string `env:"DB_HOST,     default=localhost"`
	DBPort     string `env:"DB_PORT,     default=5432"`
	DBUser     string `env:"DB_USER,     default=username"`
	DBPassword string `env:"DB_PASSWORD, default=secret"`
	DBName     string `env:"DB_NAME,     default=delivery"`
	DBSslMode  string `env:"DB_SSLMODE,  default=disable"`

	GeoServiceGrpcHost string        `env:"GEO_SERVICE_GRPC_HOST, default=localhost:5004"`
	GeoServiceTimeout  time.Duration `env:"GEO_SERVICE_TIMEOUT,   default=5s"`

	KafkaHost                 []string `env:"KAFKA_HOST,                   default=localhost:9092"`
	KafkaConsumerGroup        string   `env:"KAFKA_CONSUMER_GROUP,         default=DeliveryConsumerGroup"`
	KafkaBasketConfirmedTopic string   `env:"KAFKA_BASKET_CONFIRMED_TOPIC, default=basket.confirmed"`
	KafkaOrderChangedTopic    string   `env:"KAFKA_ORDER_CHANGED_TOPIC,    default=order.status.changed"`

	RedisAddr         string        `env:"REDIS_ADDR,          default=localhost:6379"`
	RedisDB           int           `env:"REDIS_DB,            default=0"`
	RedisProcessedTTL time.Duration `env:"REDIS_PROCESSED_TTL, default=24h"`

	OutboxBatchSize int `env:"OUTBOX_BATCH_SIZE, default=10"`

	OtelEndpoint   string `env:"OTEL_EXPORTER_ENDPOINT"`
	OtelInsecure   bool   `env:"OTEL_EXPORTER_INSECURE, default=true"`
	ServiceName    string `env:"SERVICE_NAME,           default=delivery"`
	ServiceVersion string `env:"SERVICE_VERSION,        default=dev"`
}

// LoadConfig reads an optional .env file and decodes the environment into Config.
// Variables already set in the environment win over the file.
func LoadConfig(ctx context.Context, envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load env file: %w", err)
	}
	return loadConfig(ctx, envconfig.OsLookuper())
}

func loadConfig(ctx context.Context, lookuper envconfig.Lookuper) (Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return Config{}, fmt.Errorf("process environment: %w", err)
	}
	return cfg, nil
}

// DSN renders the postgres connection string for gorm.
func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}

// SlogLevel maps LogLevel onto slog; unknown names mean info.
func (c Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}
