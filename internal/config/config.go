package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	BrokerNone     = "none"
	BrokerLog      = "log"
	BrokerKafka    = "kafka"
	BrokerRabbitMQ = "rabbitmq"

	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config holds the whole process configuration.
type Config struct {
	Port    string // HTTP port (8080)
	GoEnv   string // dev/prod
	LogMode string // dev/prod

	DB DBConfig

	JWTSecret string // HS256 key for session tokens

	RedisAddr       string // empty disables the catalog cache
	CatalogCacheTTL time.Duration

	Events EventsConfig

	OrderCodeAttempts int
	CartEnforceStock  bool
	CartIdleTTL       time.Duration
}

type DBConfig struct {
	Driver      string // postgres/sqlite
	DatabaseURL string // wins over the POSTGRES_* parts

	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string

	SQLitePath string

	MaxOpenConns int
	MaxIdleConns int
}

type EventsConfig struct {
	Broker string // none/log/kafka/rabbitmq

	KafkaBrokers []string
	KafkaTopic   string

	RabbitURL   string
	RabbitQueue string

	PollInterval time.Duration
	BatchSize    int
}

// Load reads the environment.
func Load() (Config, error) {
	var err error
	cfg := Config{
		Port:      getenv("PORT", "8080"),
		GoEnv:     getenv("GO_ENV", "dev"),
		LogMode:   getenv("LOG_MODE", "dev"),
		JWTSecret: os.Getenv("JWT_SECRET"),
		RedisAddr: os.Getenv("REDIS_ADDR"),
	}

	cfg.DB = DBConfig{
		Driver:      strings.ToLower(getenv("DB_DRIVER", DriverPostgres)),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		Host:        getenv("POSTGRES_HOST", "localhost"),
		User:        getenv("POSTGRES_USER", "postgres"),
		Password:    getenv("POSTGRES_PASSWORD", "postgres"),
		Name:        getenv("POSTGRES_DB", "orders"),
		SSLMode:     getenv("POSTGRES_SSLMODE", "disable"),
		SQLitePath:  getenv("SQLITE_PATH", "orders.db"),
	}
	if cfg.DB.Port, err = atoiOr("POSTGRES_PORT", 5432); err != nil {
		return Config{}, err
	}
	if cfg.DB.MaxOpenConns, err = atoiOr("DB_MAX_OPEN_CONNS", 10); err != nil {
		return Config{}, err
	}
	if cfg.DB.MaxIdleConns, err = atoiOr("DB_MAX_IDLE_CONNS", 5); err != nil {
		return Config{}, err
	}

	if cfg.CatalogCacheTTL, err = durationOr("CATALOG_CACHE_TTL", 30*time.Second); err != nil {
		return Config{}, err
	}

	cfg.Events = EventsConfig{
		Broker:       strings.ToLower(getenv("EVENTS_BROKER", BrokerLog)),
		KafkaBrokers: csv(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:   getenv("KAFKA_TOPIC", "orders.events"),
		RabbitURL:    os.Getenv("RABBITMQ_URL"),
		RabbitQueue:  getenv("RABBITMQ_QUEUE", "orders.events"),
	}
	if cfg.Events.PollInterval, err = durationOr("OUTBOX_POLL_INTERVAL", time.Second); err != nil {
		return Config{}, err
	}
	if cfg.Events.BatchSize, err = atoiOr("OUTBOX_BATCH", 100); err != nil {
		return Config{}, err
	}

	if cfg.OrderCodeAttempts, err = atoiOr("ORDER_CODE_ATTEMPTS", 5); err != nil {
		return Config{}, err
	}
	if cfg.CartEnforceStock, err = boolOr("CART_ENFORCE_STOCK", true); err != nil {
		return Config{}, err
	}
	if cfg.CartIdleTTL, err = durationOr("CART_IDLE_TTL", 2*time.Hour); err != nil {
		return Config{}, err
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}

	switch c.DB.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("DB_DRIVER must be %s or %s", DriverPostgres, DriverSQLite)
	}

	switch c.Events.Broker {
	case BrokerNone, BrokerLog:
	case BrokerKafka:
		if len(c.Events.KafkaBrokers) == 0 {
			return fmt.Errorf("KAFKA_BROKERS is required")
		}
	case BrokerRabbitMQ:
		if c.Events.RabbitURL == "" {
			return fmt.Errorf("RABBITMQ_URL is required")
		}
	default:
		return fmt.Errorf("EVENTS_BROKER must be one of none, log, kafka, rabbitmq")
	}

	if c.Events.PollInterval <= 0 {
		return fmt.Errorf("OUTBOX_POLL_INTERVAL must be positive")
	}
	if c.CartIdleTTL <= 0 {
		return fmt.Errorf("CART_IDLE_TTL must be positive")
	}
	if c.Events.BatchSize <= 0 {
		return fmt.Errorf("OUTBOX_BATCH must be positive")
	}
	if c.OrderCodeAttempts <= 0 {
		return fmt.Errorf("ORDER_CODE_ATTEMPTS must be positive")
	}
	return nil
}

// Addr is the listen address for the HTTP server.
func (c Config) Addr() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return ":" + c.Port
}

func getenv(key string, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func atoiOr(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be number: %w", key, err)
	}
	return i, nil
}

func durationOr(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be duration: %w", key, err)
	}
	return d, nil
}

func boolOr(key string, def bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s must be bool: %w", key, err)
	}
	return b, nil
}

func csv(v string) []string {
	if strings.TrimSpace(v) == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
