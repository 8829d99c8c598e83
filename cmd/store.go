package cmd

import (
	"context"
	"fmt"

	"coinbot/config"
	"coinbot/database"
	"coinbot/domain/interfaces"
	"coinbot/repository"
	"coinbot/repository/memory"
	mongostore "coinbot/repository/mongo"
	redisstore "coinbot/repository/redis"

	log "github.com/sirupsen/logrus"
)

// openStore connects the configured ledger backend. The returned func releases it.
func openStore(ctx context.Context, cfg *config.Config) (interfaces.LedgerStore, func(), error) {
	switch cfg.StoreBackend {
	case config.StoreBackendPostgres:
		log.Info("Connecting to database...")
		db, err := database.NewConnection(ctx, cfg.GetDatabaseURL())
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		log.Info("Database connection established successfully")
		return repository.NewAccountRepository(db), db.Close, nil

	case config.StoreBackendMongo:
		client, err := mongostore.Connect(ctx, cfg.MongoURI)
		if err != nil {
			return nil, nil, err
		}
		store, err := mongostore.New(ctx, client, cfg.MongoDatabase, cfg.MongoCollection)
		if err != nil {
			_ = client.Disconnect(context.Background())
			return nil, nil, err
		}
		return store, func() {
			if err := client.Disconnect(context.Background()); err != nil {
				log.WithError(err).Error("Failed to disconnect from mongo")
			}
		}, nil

	case config.StoreBackendRedis:
		client, err := redisstore.Connect(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, nil, err
		}
		return redisstore.New(client), func() {
			if err := client.Close(); err != nil {
				log.WithError(err).Error("Failed to close redis client")
			}
		}, nil

	case config.StoreBackendMemory:
		log.Warn("Using in-memory ledger store, balances are lost on exit")
		return memory.New(), func() {}, nil

	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}
