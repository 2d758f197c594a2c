package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
)

type Config struct {
	AppName  string `env:"APP_NAME" envDefault:"railway-bff"`
	HTTPAddr string `env:"HTTP_ADDR" envDefault:":8080"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	StoreDriver string `env:"STORE_DRIVER" envDefault:"memory"`
	DatabaseDSN string `env:"DATABASE_DSN"`

	EventTransport     string   `env:"EVENT_TRANSPORT" envDefault:"gochannel"`
	RedisAddr          string   `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword      string   `env:"REDIS_PASSWORD"`
	RedisDB            int      `env:"REDIS_DB" envDefault:"0"`
	KafkaBrokers       []string `env:"KAFKA_BROKERS" envSeparator:"," envDefault:"localhost:9092"`
	KafkaConsumerGroup string   `env:"KAFKA_CONSUMER_GROUP" envDefault:"railway-bff"`

	// Zero desliga o cache da listagem de trens.
	TrainCacheTTL time.Duration `env:"TRAIN_CACHE_TTL" envDefault:"0s"`

	JWTSecret string `env:"JWT_SECRET,required,notEmpty"`
	JWTIssuer string `env:"JWT_ISSUER" envDefault:"railway-bff"`

	RequestTimeout  time.Duration `env:"REQUEST_TIMEOUT" envDefault:"10s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"5s"`

	ReleaseRetryAttempts uint          `env:"RELEASE_RETRY_ATTEMPTS" envDefault:"5"`
	ReleaseRetryBackoff  time.Duration `env:"RELEASE_RETRY_BACKOFF" envDefault:"50ms"`
}

// Load lê a configuração do ambiente do processo.
func Load() (Config, error) {
	return LoadFrom(env.ToMap(os.Environ()))
}

// LoadFrom lê a configuração de um mapa de variáveis.
func LoadFrom(environment map[string]string) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: environment}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error

	switch c.StoreDriver {
	case StoreMemory:
	case StorePostgres:
		if strings.TrimSpace(c.DatabaseDSN) == "" {
			errs = append(errs, errors.New("DATABASE_DSN is required when STORE_DRIVER=postgres"))
		}
	default:
		errs = append(errs, fmt.Errorf("STORE_DRIVER must be %q or %q, got %q", StoreMemory, StorePostgres, c.StoreDriver))
	}

	switch c.EventTransport {
	case "gochannel", "redis", "kafka":
	default:
		errs = append(errs, fmt.Errorf("EVENT_TRANSPORT must be gochannel, redis or kafka, got %q", c.EventTransport))
	}

	if c.TrainCacheTTL < 0 {
		errs = append(errs, errors.New("TRAIN_CACHE_TTL must not be negative"))
	}
	if c.RequestTimeout <= 0 {
		errs = append(errs, errors.New("REQUEST_TIMEOUT must be positive"))
	}
	if c.ReleaseRetryAttempts == 0 {
		errs = append(errs, errors.New("RELEASE_RETRY_ATTEMPTS must be at least 1"))
	}

	return errors.Join(errs...)
}

// UsesRedis informa se algum componente precisa de um cliente redis.
func (c Config) UsesRedis() bool {
	return c.EventTransport == "redis" || c.TrainCacheTTL > 0
}
