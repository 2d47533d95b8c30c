package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ordermgmt/internal/config"
	"ordermgmt/internal/domain/cart"
	"ordermgmt/internal/handler"
	"ordermgmt/internal/infra/cache"
	"ordermgmt/internal/infra/db"
	"ordermgmt/internal/infra/events"
	"ordermgmt/internal/infra/logger"
	infraRepo "ordermgmt/internal/infra/repository"
	"ordermgmt/internal/repository"
	"ordermgmt/internal/server"
	"ordermgmt/internal/usecase"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now()
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	//.env is optional; real env wins
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	//database
	gormDB, err := db.Connect(cfg.DB)
	if err != nil {
		return fmt.Errorf("db: %w", err)
	}
	if err := db.Migrate(gormDB); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	if sqlDB, err := gormDB.DB(); err == nil {
		defer sqlDB.Close()
	}

	//Repository
	productRepo := infraRepo.NewProductGormRepository(gormDB)
	outboxRepo := infraRepo.NewOutboxGormRepository(gormDB)
	txm := infraRepo.NewTxManagerGorm(gormDB)

	var catalog repository.CatalogReader = productRepo
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer rdb.Close()
		catalog = cache.NewCatalogCache(rdb, productRepo, cfg.CatalogCacheTTL, log)
		log.Info("catalog cache enabled", "redis", cfg.RedisAddr, "ttl", cfg.CatalogCacheTTL)
	}

	//Usecase
	var cartOpts []cart.Option
	if cfg.CartEnforceStock {
		cartOpts = append(cartOpts, cart.WithStockLimit())
	}
	carts := cart.NewRegistry(cartOpts...)

	orderUC := usecase.NewOrderUsecase(txm, usecase.NewOrderCodeGenerator(), realClock{}, log, cfg.OrderCodeAttempts)
	cartUC := usecase.NewCartUsecase(carts, catalog, orderUC)
	productUC := usecase.NewProductUsecase(catalog)

	//outbox relay
	pub, err := newPublisher(cfg.Events, log)
	if err != nil {
		return fmt.Errorf("publisher: %w", err)
	}
	if pub != nil {
		defer pub.Close()
		relay := events.NewRelay(outboxRepo, pub, log, cfg.Events.PollInterval, cfg.Events.BatchSize)
		go relay.Run(ctx)
	}

	go sweepCarts(ctx, carts, cfg.CartIdleTTL, log)

	//http
	e := server.New(server.Deps{
		Config:  cfg,
		Product: handler.NewProductHandler(productUC),
		Cart:    handler.NewCartHandler(cartUC),
		Order:   handler.NewOrderHandler(orderUC),
	}, log)

	return server.Start(ctx, e, cfg.Addr(), log)
}

// newPublisher returns nil when event delivery is switched off.
func newPublisher(cfg config.EventsConfig, log *logger.Logger) (events.Publisher, error) {
	switch cfg.Broker {
	case config.BrokerKafka:
		log.Info("publishing order events to kafka", "topic", cfg.KafkaTopic, "brokers", cfg.KafkaBrokers)
		return events.NewKafkaPublisher(cfg.KafkaTopic, cfg.KafkaBrokers...), nil
	case config.BrokerRabbitMQ:
		log.Info("publishing order events to rabbitmq", "queue", cfg.RabbitQueue)
		p, err := events.NewRabbitPublisher(cfg.RabbitURL, cfg.RabbitQueue)
		if err != nil {
			return nil, err
		}
		return p, nil
	case config.BrokerLog:
		return events.NewLogPublisher(log), nil
	default:
		log.Warn("order events are not published", "broker", cfg.Broker)
		return nil, nil
	}
}

func sweepCarts(ctx context.Context, carts *cart.Registry, idle time.Duration, log *logger.Logger) {
	if idle <= 0 {
		return
	}
	ticker := time.NewTicker(sweepInterval(idle))
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if n := carts.Sweep(idle); n > 0 {
				log.Debug("idle carts dropped", "count", n)
			}
		case <-ctx.Done():
			return
		}
	}
}

// sweepInterval checks four times per idle period, at most once a second.
func sweepInterval(idle time.Duration) time.Duration {
	if every := idle / 4; every > time.Second {
		return every
	}
	return time.Second
}
