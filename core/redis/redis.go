package redis

import (
	"context"
	"fmt"
	"time"

	"tablebook/core/config"
	"tablebook/core/logger"

	goredis "github.com/redis/go-redis/v9"
)

// NewClient connects to Redis and verifies the connection
func NewClient(cfg config.RedisConfig) (*goredis.Client, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Error("Failed to ping redis", "addr", cfg.Addr, "error", err)
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	logger.Info("Redis initialized successfully", "addr", cfg.Addr, "db", cfg.DB)
	return client, nil
}
