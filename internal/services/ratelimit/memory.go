package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
)

type MemoryLimiter struct {
	mu    sync.Mutex
	cache *cache.Cache
	limit int
	now   func() time.Time
}

func NewMemoryLimiter(limit int) *MemoryLimiter {
	return &MemoryLimiter{
		cache: cache.New(24*time.Hour, time.Hour),
		limit: limit,
		now:   time.Now,
	}
}

func (l *MemoryLimiter) Limit() int {
	return l.limit
}

func (l *MemoryLimiter) Allow(ctx context.Context, subject string) (bool, error) {
	now := l.now()
	key := DayKey(now, subject)

	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.cache.Add(key, 1, untilMidnight(now)); err == nil {
		return l.limit >= 1, nil
	}

	count, err := l.cache.IncrementInt(key, 1)
	if err != nil {
		return false, err
	}
	return count <= l.limit, nil
}
