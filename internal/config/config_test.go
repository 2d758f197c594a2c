package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFrom_Defaults(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{"JWT_SECRET": "0123456789abcdef"})
	require.NoError(t, err)

	assert.Equal(t, "railway-bff", cfg.AppName)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, StoreMemory, cfg.StoreDriver)
	assert.Equal(t, "gochannel", cfg.EventTransport)
	assert.Equal(t, []string{"localhost:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
	assert.Equal(t, uint(5), cfg.ReleaseRetryAttempts)
	assert.Equal(t, 50*time.Millisecond, cfg.ReleaseRetryBackoff)
	assert.False(t, cfg.UsesRedis())
}

func TestLoadFrom_Overrides(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{
		"JWT_SECRET":      "0123456789abcdef",
		"STORE_DRIVER":    "postgres",
		"DATABASE_DSN":    "host=db user=railway dbname=railway sslmode=disable",
		"EVENT_TRANSPORT": "kafka",
		"KAFKA_BROKERS":   "k1:9092,k2:9092",
		"TRAIN_CACHE_TTL": "3s",
	})
	require.NoError(t, err)

	assert.Equal(t, StorePostgres, cfg.StoreDriver)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, 3*time.Second, cfg.TrainCacheTTL)
	assert.True(t, cfg.UsesRedis())
}

func TestLoadFrom_Rejects(t *testing.T) {
	tests := map[string]map[string]string{
		"missing secret":        {},
		"postgres without dsn":  {"JWT_SECRET": "0123456789abcdef", "STORE_DRIVER": "postgres"},
		"unknown driver":        {"JWT_SECRET": "0123456789abcdef", "STORE_DRIVER": "mongo"},
		"unknown transport":     {"JWT_SECRET": "0123456789abcdef", "EVENT_TRANSPORT": "nats"},
		"zero release attempts": {"JWT_SECRET": "0123456789abcdef", "RELEASE_RETRY_ATTEMPTS": "0"},
		"bad duration":          {"JWT_SECRET": "0123456789abcdef", "REQUEST_TIMEOUT": "soon"},
	}
	for name, vars := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := LoadFrom(vars)
			assert.Error(t, err)
		})
	}
}
