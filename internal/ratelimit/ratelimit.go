// Package ratelimit provides a fixed-window counter backed by Redis. Each key
// gets at most limit hits per window; the counter expires with the window so
// stale keys clean themselves up.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type Limiter interface {
	// Allow records a hit for key and reports whether it is still within the
	// limit. The first hit of a window starts the expiry clock.
	Allow(ctx context.Context, key string) (bool, error)
	// Reset clears the counter for key.
	Reset(ctx context.Context, key string) error
}

type redisLimiter struct {
	client *redis.Client
	prefix string
	limit  int64
	window time.Duration
}

func NewRedisLimiter(client *redis.Client, prefix string, limit int64, window time.Duration) Limiter {
	return &redisLimiter{
		client: client,
		prefix: prefix,
		limit:  limit,
		window: window,
	}
}

func (l *redisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	fullKey := l.prefix + ":" + key

	count, err := l.client.Incr(ctx, fullKey).Result()
	if err != nil {
		return false, fmt.Errorf("incrementing rate limit counter: %w", err)
	}
	if count == 1 {
		if err := l.client.Expire(ctx, fullKey, l.window).Err(); err != nil {
			return false, fmt.Errorf("setting rate limit expiry: %w", err)
		}
	}
	return count <= l.limit, nil
}

func (l *redisLimiter) Reset(ctx context.Context, key string) error {
	return l.client.Del(ctx, l.prefix+":"+key).Err()
}
