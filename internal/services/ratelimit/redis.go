package ratelimit

import (
	"context"
	"crypto/tls"
	"fmt"
	"time"

	"github.com/blart-ai/blart-server/internal/config"

	"github.com/redis/go-redis/v9"
)

func NewRedisClient(ctx context.Context, cfg *config.RedisConfig) (*redis.Client, error) {
	var tlsConfig *tls.Config
	if cfg.UseTLS {
		tlsConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}

	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Username:     cfg.Username,
		Password:     cfg.Password,
		DB:           cfg.DB,
		TLSConfig:    tlsConfig,
		DialTimeout:  10 * time.Second,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return client, nil
}

// RedisLimiter shares counters across server instances.
type RedisLimiter struct {
	client redis.Cmdable
	limit  int
	now    func() time.Time
}

func NewRedisLimiter(client redis.Cmdable, limit int) *RedisLimiter {
	return &RedisLimiter{client: client, limit: limit, now: time.Now}
}

func (l *RedisLimiter) Limit() int {
	return l.limit
}

func (l *RedisLimiter) Allow(ctx context.Context, subject string) (bool, error) {
	now := l.now()
	key := DayKey(now, subject)

	count, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to increment download counter: %w", err)
	}
	if count == 1 {
		if err := l.client.Expire(ctx, key, untilMidnight(now)).Err(); err != nil {
			return false, fmt.Errorf("failed to set download counter expiry: %w", err)
		}
	}

	return count <= int64(l.limit), nil
}
