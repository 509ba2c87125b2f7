package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config is the whole service configuration, loaded from the environment.
type Config struct {
	HTTPPort        string        `envconfig:"HTTP_PORT" default:"8080"`
	RequestTimeout  time.Duration `envconfig:"REQUEST_TIMEOUT" default:"30s"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`

	JWTSecret string `envconfig:"JWT_SECRET" required:"true"`

	MongoURI string `envconfig:"MONGO_URI" default:"mongodb://localhost:27017"`
	MongoDB  string `envconfig:"MONGO_DB" default:"tire_shop"`

	RedisAddr     string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	RedisPassword string `envconfig:"REDIS_PASSWORD" default:""`

	PostgresHost     string `envconfig:"POSTGRES_HOST" default:"localhost"`
	PostgresPort     int    `envconfig:"POSTGRES_PORT" default:"5432"`
	PostgresUser     string `envconfig:"POSTGRES_USER" default:"postgres"`
	PostgresPassword string `envconfig:"POSTGRES_PASSWORD" default:"postgres"`
	PostgresDB       string `envconfig:"POSTGRES_DB" default:"tire_orders"`
	MigrationsPath   string `envconfig:"MIGRATIONS_PATH" default:"migrations"`

	KafkaBrokers []string `envconfig:"KAFKA_BROKERS" default:"localhost:9092"`

	QPayBaseURL string `envconfig:"QPAY_BASE_URL" required:"true"`
	QPayToken   string `envconfig:"QPAY_TOKEN" required:"true"`

	// How often an open checkout session asks the gateway about its invoice.
	PaymentPollInterval time.Duration `envconfig:"PAYMENT_POLL_INTERVAL" default:"3s"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return &cfg, nil
}
