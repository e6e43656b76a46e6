package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/eduspace/course-server-go/pkg/config"
)

// Client defines the counter operations the rate limiter needs.
type Client interface {
	Increment(ctx context.Context, key string) (int64, error)
	Expire(ctx context.Context, key string, expiration time.Duration) error
	Enabled() bool
	Close() error
}

// RedisClient is a thin wrapper around the Redis client. When no address is
// configured it runs disabled and callers fall back to in-process state.
type RedisClient struct {
	client  *redis.Client
	enabled bool
}

// NewRedisClient connects to Redis, or returns a disabled client when no
// address is configured.
func NewRedisClient(cfg config.RedisConfig) (*RedisClient, error) {
	if cfg.Addr == "" {
		return &RedisClient{enabled: false}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisClient{client: client, enabled: true}, nil
}

// Enabled reports whether a Redis backend is available.
func (r *RedisClient) Enabled() bool {
	return r.enabled
}

// Increment atomically increments a counter key.
func (r *RedisClient) Increment(ctx context.Context, key string) (int64, error) {
	if !r.enabled {
		return 0, fmt.Errorf("cache not enabled")
	}
	return r.client.Incr(ctx, key).Result()
}

// Expire sets a TTL on a key.
func (r *RedisClient) Expire(ctx context.Context, key string, expiration time.Duration) error {
	if !r.enabled {
		return nil
	}
	return r.client.Expire(ctx, key, expiration).Err()
}

// Close releases the underlying connection.
func (r *RedisClient) Close() error {
	if !r.enabled {
		return nil
	}
	return r.client.Close()
}
