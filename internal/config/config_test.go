package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, DriverPostgres, cfg.DB.Driver)
	assert.Equal(t, 5432, cfg.DB.Port)
	assert.Equal(t, BrokerLog, cfg.Events.Broker)
	assert.Equal(t, time.Second, cfg.Events.PollInterval)
	assert.Equal(t, 100, cfg.Events.BatchSize)
	assert.Equal(t, 5, cfg.OrderCodeAttempts)
	assert.True(t, cfg.CartEnforceStock)
	assert.Equal(t, 30*time.Second, cfg.CatalogCacheTTL)
}

func TestLoad_RequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	assert.EqualError(t, err, "JWT_SECRET is required")
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("PORT", ":9000")
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("EVENTS_BROKER", "kafka")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("CART_ENFORCE_STOCK", "false")
	t.Setenv("OUTBOX_POLL_INTERVAL", "250ms")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.Addr())
	assert.Equal(t, DriverSQLite, cfg.DB.Driver)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Events.KafkaBrokers)
	assert.False(t, cfg.CartEnforceStock)
	assert.Equal(t, 250*time.Millisecond, cfg.Events.PollInterval)
}

func TestLoad_BrokerSpecificKeys(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")

	t.Setenv("EVENTS_BROKER", "kafka")
	_, err := Load()
	assert.EqualError(t, err, "KAFKA_BROKERS is required")

	t.Setenv("EVENTS_BROKER", "rabbitmq")
	_, err = Load()
	assert.EqualError(t, err, "RABBITMQ_URL is required")

	t.Setenv("EVENTS_BROKER", "carrier-pigeon")
	_, err = Load()
	assert.Error(t, err)
}

func TestLoad_MalformedNumber(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("POSTGRES_PORT", "abc")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "POSTGRES_PORT must be number")
}

func TestLoad_RejectsUnknownDriver(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("DB_DRIVER", "mysql")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_RejectsNonPositiveDurations(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")

	t.Setenv("OUTBOX_POLL_INTERVAL", "0s")
	_, err := Load()
	assert.EqualError(t, err, "OUTBOX_POLL_INTERVAL must be positive")

	t.Setenv("OUTBOX_POLL_INTERVAL", "1s")
	t.Setenv("CART_IDLE_TTL", "-1m")
	_, err = Load()
	assert.EqualError(t, err, "CART_IDLE_TTL must be positive")
}
