// Package bootstrap monta armazenamento, cache e transporte de eventos a
// partir da configuração. É compartilhado pelo servidor e pelo seed.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/redis/go-redis/v9"

	bookingApp "github.com/mateusmacedo/go-railway/internal/booking/application"
	bookingDomain "github.com/mateusmacedo/go-railway/internal/booking/domain"
	bookingInfra "github.com/mateusmacedo/go-railway/internal/booking/infrastructure"
	"github.com/mateusmacedo/go-railway/internal/config"
	trainDomain "github.com/mateusmacedo/go-railway/internal/train/domain"
	trainInfra "github.com/mateusmacedo/go-railway/internal/train/infrastructure"
	pkgApp "github.com/mateusmacedo/go-railway/pkg/application"
	pkgDomain "github.com/mateusmacedo/go-railway/pkg/domain"
	gormAdapter "github.com/mateusmacedo/go-railway/pkg/infrastructure/gorm/adapter"
	"github.com/mateusmacedo/go-railway/pkg/infrastructure/messaging"
	redisAdapter "github.com/mateusmacedo/go-railway/pkg/infrastructure/redis/adapter"
	watermillAdapter "github.com/mateusmacedo/go-railway/pkg/infrastructure/watermill/adapter"
)

// Stores reúne os repositórios de um mesmo armazenamento. Trains pode ser a
// versão com cache; Ledger fala sempre direto com o armazenamento.
type Stores struct {
	Trains   trainDomain.TrainRepository
	Ledger   trainDomain.Ledger
	Bookings bookingDomain.BookingRepository
	Redis    redis.UniversalClient

	closers []func() error
}

func (s *Stores) Close() error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func OpenStores(ctx context.Context, cfg config.Config, logger pkgApp.AppLogger) (*Stores, error) {
	stores := &Stores{}

	switch cfg.StoreDriver {
	case config.StorePostgres:
		db, err := gormAdapter.OpenPostgres(cfg.DatabaseDSN, logger)
		if err != nil {
			return nil, err
		}
		if sqlDB, err := db.DB(); err == nil {
			stores.closers = append(stores.closers, sqlDB.Close)
		}

		trains, err := trainInfra.NewGormTrainRepository(db, logger)
		if err != nil {
			_ = stores.Close()
			return nil, fmt.Errorf("migrate trains: %w", err)
		}
		bookings, err := bookingInfra.NewGormBookingRepository(db, logger)
		if err != nil {
			_ = stores.Close()
			return nil, fmt.Errorf("migrate bookings: %w", err)
		}
		stores.Trains, stores.Ledger, stores.Bookings = trains, trains, bookings
	default:
		trains := trainInfra.NewInMemoryTrainRepository(logger)
		stores.Trains, stores.Ledger = trains, trains
		stores.Bookings = bookingInfra.NewInMemoryBookingRepository(logger)
	}

	if cfg.UsesRedis() {
		client, err := redisAdapter.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			_ = stores.Close()
			return nil, err
		}
		stores.Redis = client
		stores.closers = append(stores.closers, client.Close)
	}

	if cfg.TrainCacheTTL > 0 {
		cache := redisAdapter.NewRedisCache(stores.Redis, cfg.AppName+":")
		stores.Trains = trainInfra.NewCachedTrainRepository(stores.Trains, cache, cfg.TrainCacheTTL, logger)
		pkgApp.LogInfo(ctx, logger, "train list cache enabled", map[string]interface{}{"ttl": cfg.TrainCacheTTL.String()})
	}

	pkgApp.LogInfo(ctx, logger, "stores ready", map[string]interface{}{"driver": cfg.StoreDriver})
	return stores, nil
}

// EventBus é o barramento de eventos de reserva e o transporte por baixo dele.
type EventBus struct {
	Bus    *watermillAdapter.WatermillEventBus[pkgDomain.Event[bookingApp.BookingEventData], bookingApp.BookingEventData]
	pubSub *messaging.PubSub
}

// Close encerra as assinaturas antes do transporte.
func (e *EventBus) Close() error {
	return errors.Join(e.Bus.Close(), e.pubSub.Close())
}

func OpenEventBus(cfg config.Config, redisClient redis.UniversalClient, logger pkgApp.AppLogger) (*EventBus, error) {
	consumer, err := os.Hostname()
	if err != nil || consumer == "" {
		consumer = cfg.AppName
	}

	pubSub, err := messaging.NewPubSub(messaging.Options{
		Transport:          cfg.EventTransport,
		RedisClient:        redisClient,
		RedisConsumerGroup: cfg.AppName,
		RedisConsumer:      consumer,
		KafkaBrokers:       cfg.KafkaBrokers,
		KafkaConsumerGroup: cfg.KafkaConsumerGroup,
	}, watermillAdapter.NewWatermillLoggerAdapter(logger))
	if err != nil {
		return nil, err
	}

	bus := watermillAdapter.NewWatermillEventBus[pkgDomain.Event[bookingApp.BookingEventData], bookingApp.BookingEventData](
		pubSub.Publisher, pubSub.Subscriber, logger,
	)
	return &EventBus{Bus: bus, pubSub: pubSub}, nil
}
