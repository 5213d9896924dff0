package app

import (
	"context"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/procurement-backend/internal/clients/redis"
	"github.com/yungbote/procurement-backend/internal/platform/logger"
)

type Clients struct {
	Redis *goredis.Client
}

func wireClients(ctx context.Context, log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")
	if !cfg.RedisEnabled {
		log.Info("REDIS_ADDR not set, rule cache disabled")
		return Clients{}, nil
	}
	rdb, err := redis.NewClient(ctx)
	if err != nil {
		return Clients{}, fmt.Errorf("init redis: %w", err)
	}
	return Clients{Redis: rdb}, nil
}

func (c Clients) Close() {
	if c.Redis != nil {
		_ = c.Redis.Close()
	}
}
