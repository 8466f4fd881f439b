package main

import (
	"context"
	"fmt"
	"log/slog"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/pkordes/bootcamp-api/internal/config"
	"github.com/pkordes/bootcamp-api/internal/db"
	"github.com/pkordes/bootcamp-api/internal/geocode"
	"github.com/pkordes/bootcamp-api/internal/repo"
	"github.com/pkordes/bootcamp-api/internal/repo/mongorepo"
	"github.com/pkordes/bootcamp-api/internal/resilience"
)

// openStore connects the record store selected by cfg.StoreDriver and
// returns it with a function that releases its connections.
func openStore(ctx context.Context, cfg config.Config, log *slog.Logger) (repo.BootcampRepo, func(), error) {
	switch cfg.StoreDriver {
	case config.DriverMongo:
		client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
		if err != nil {
			return nil, nil, fmt.Errorf("connect mongo: %w", err)
		}
		closeFn := func() { _ = client.Disconnect(context.Background()) }
		if err := client.Ping(ctx, nil); err != nil {
			closeFn()
			return nil, nil, fmt.Errorf("ping mongo: %w", err)
		}
		database := client.Database(cfg.MongoDatabase)
		if err := mongorepo.EnsureIndexes(ctx, database); err != nil {
			closeFn()
			return nil, nil, err
		}
		log.Info("MongoDB connected", "database", cfg.MongoDatabase)
		return mongorepo.New(database), closeFn, nil

	default:
		applied, err := db.Migrate(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		pool, err := db.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		log.Info("database connection established", "migrations_applied", applied)
		return repo.NewBootcampRepo(pool), pool.Close, nil
	}
}

// newGeocoder stacks the provider client behind a circuit breaker and an
// in-memory cache.
func newGeocoder(cfg config.Geocoder) (geocode.Geocoder, func(), error) {
	provider, err := geocode.New(cfg.Provider, cfg.BaseURL, cfg.APIKey)
	if err != nil {
		return nil, nil, err
	}
	guarded := geocode.NewGuarded(provider, resilience.NewBreaker(cfg.BreakerMaxFailures, cfg.BreakerTimeout))
	cache, err := geocode.NewCache(guarded, cfg.CacheEntries, cfg.CacheTTL)
	if err != nil {
		return nil, nil, err
	}
	return cache, cache.Close, nil
}

// logStartup records the listening port and environment as separate attributes.
func logStartup(log *slog.Logger, cfg config.Config) {
	log.Info("Server running", "env", cfg.Env, "port", cfg.Port)
}
