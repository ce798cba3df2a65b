package bootstrap

import (
	"context"
	"fmt"

	"github.com/Domenick1991/tourledger/config"
	"github.com/Domenick1991/tourledger/internal/kvstore"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

// OpenBackend connects the store driver named in cfg. The returned func
// releases its connections.
func OpenBackend(ctx context.Context, cfg *config.Config) (kvstore.Backend, func(), error) {
	switch cfg.Store.Driver {
	case config.StoreDriverMemory:
		log.Warn("using in-memory store, reservations are lost on restart")
		return kvstore.NewMemoryBackend(), func() {}, nil

	case config.StoreDriverPostgres:
		pool, err := pgxpool.New(ctx, cfg.Database.DSN())
		if err != nil {
			return nil, nil, fmt.Errorf("connect postgres: %w", err)
		}
		backend := kvstore.NewPostgresBackend(pool, cfg.Store.KeyPrefix)
		if err := backend.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return backend, pool.Close, nil

	case config.StoreDriverRedis:
		backend := kvstore.NewRedisBackend(cfg.Redis, cfg.Store.KeyPrefix)
		if err := backend.Ping(ctx); err != nil {
			backend.Close()
			return nil, nil, fmt.Errorf("connect redis: %w", err)
		}
		return backend, func() { backend.Close() }, nil
	}
	return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
}
