package bootstrap

import (
	"context"

	"mesa-reserve/internal/infra/cache"
	"mesa-reserve/internal/pkg/config"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

var RedisModule = fx.Module("redis",
	fx.Provide(
		NewRedisClient,
		NewSlotCache,
	),
)

func NewRedisClient(lc fx.Lifecycle, cfg config.Config) (*redis.Client, error) {
	client, cleanup, err := cache.Connect(cfg.Redis)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			if cleanup != nil {
				cleanup()
			}
			return nil
		},
	})

	return client, nil
}

func NewSlotCache(client *redis.Client, cfg config.Config) *cache.SlotCache {
	return cache.NewSlotCache(client, cfg.Redis.SlotTTL)
}
