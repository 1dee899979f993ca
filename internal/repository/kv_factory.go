package repository

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/noah-isme/school-portal/pkg/config"
	"github.com/noah-isme/school-portal/pkg/database"
	"github.com/noah-isme/school-portal/pkg/storage"
)

// OpenKVStore builds the backend selected by cfg.Store.Driver, wraps it with
// observe and, in async mode, with a write-behind queue.
func OpenKVStore(ctx context.Context, cfg *config.Config, observe WriteObserver, logger *zap.Logger) (KVStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	base, err := openBackend(ctx, cfg)
	if err != nil {
		return nil, err
	}
	store := Observe(base, observe)

	switch cfg.Store.WriteMode {
	case "", config.WriteModeSync:
		return store, nil
	case config.WriteModeAsync:
		return NewWriteBehindKV(ctx, store, cfg.Store.Retries, cfg.Store.RetryDelay, logger), nil
	default:
		_ = base.Close()
		return nil, fmt.Errorf("unknown store write mode %q", cfg.Store.WriteMode)
	}
}

func openBackend(ctx context.Context, cfg *config.Config) (KVStore, error) {
	switch cfg.Store.Driver {
	case "", config.DriverBolt:
		db, err := database.NewBolt(cfg.Store.Path, PortalBucket)
		if err != nil {
			return nil, err
		}
		return NewBoltKV(db), nil
	case config.DriverFile:
		files, err := storage.NewLocalStorage(cfg.Store.Path)
		if err != nil {
			return nil, err
		}
		return NewFileKV(files), nil
	case config.DriverRedis:
		client, err := database.NewRedis(cfg.Redis)
		if err != nil {
			return nil, err
		}
		return NewRedisKV(client), nil
	case config.DriverPostgres:
		db, err := database.NewPostgres(cfg.Database)
		if err != nil {
			return nil, err
		}
		kv := NewPostgresKV(db)
		if err := kv.EnsureSchema(ctx); err != nil {
			_ = db.Close()
			return nil, err
		}
		return kv, nil
	case config.DriverMemory:
		return NewMemoryKV(), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}
