package config

import (
	"fmt"

	"github.com/redis/go-redis/v9"
)

// InitRedis builds a pooled Redis client. Connections are dialed lazily, so
// an unreachable server is only reported on first use.
func InitRedis(cfg RedisConfig) (*redis.Client, error) {
	opts := &redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	}
	if cfg.URL != "" {
		parsed, err := redis.ParseURL(cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		opts = parsed
	}
	opts.DialTimeout = cfg.DialTimeout
	opts.ReadTimeout = cfg.ReadTimeout
	opts.WriteTimeout = cfg.WriteTimeout
	return redis.NewClient(opts), nil
}
