// Package bootstrap wires the process-wide runtime dependencies.
package bootstrap

import (
	"context"
	"fmt"
	"time"

	"yatube/internal/cache"
	"yatube/internal/config"
	"yatube/internal/database"
	"yatube/internal/seed"
	"yatube/internal/storage"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Options control runtime initialization behavior.
type Options struct {
	SeedBuiltIns bool
}

// Runtime holds the connections shared by the server and the admin CLI.
type Runtime struct {
	DB     *gorm.DB
	Redis  *redis.Client
	Images storage.Store
}

// InitRuntime connects to the database, Redis and image storage, and
// optionally seeds the built-in groups. Redis is nil when unreachable.
func InitRuntime(ctx context.Context, cfg *config.Config, opts Options) (*Runtime, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	rt := &Runtime{
		DB:    db,
		Redis: cache.Connect(connectCtx, cfg.RedisURL),
	}

	rt.Images, err = storage.New(connectCtx, cfg)
	if err != nil {
		rt.Close()
		return nil, fmt.Errorf("image storage: %w", err)
	}

	if opts.SeedBuiltIns {
		if err := seed.Groups(db.WithContext(ctx)); err != nil {
			rt.Close()
			return nil, fmt.Errorf("failed to seed built-in groups: %w", err)
		}
	}

	return rt, nil
}

// Close releases the database and Redis connections.
func (rt *Runtime) Close() {
	if sqlDB, err := rt.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
	if rt.Redis != nil {
		_ = rt.Redis.Close()
	}
}
