package bootstrap

import (
	"context"
	"log/slog"

	"cedros-pay/internal/infra/cache"
	"cedros-pay/internal/pkg/config"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

var RedisModule = fx.Module("redis",
	fx.Provide(
		NewCartCache,
	),
)

// NewCartCache wires the Redis-backed cart cache when enabled; otherwise the
// store runs uncached behind a no-op.
func NewCartCache(lc fx.Lifecycle, cfg config.Config) cache.CartCache {
	if !cfg.Redis.Enabled {
		slog.Info("Redis disabled, cart cache is a no-op")
		return cache.NewNoopCache()
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return client.Ping(ctx).Err()
		},
		OnStop: func(_ context.Context) error {
			return client.Close()
		},
	})

	return cache.NewRedisCache(client, cfg.Cart.CacheTTL)
}
