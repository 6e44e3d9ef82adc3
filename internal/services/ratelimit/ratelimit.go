package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/blart-ai/blart-server/internal/config"
)

const keyPrefix = "downloads"

// Limiter counts hits per subject per UTC day.
type Limiter interface {
	// Allow records one hit for subject and reports whether it is within the
	// daily limit.
	Allow(ctx context.Context, subject string) (bool, error)
	Limit() int
}

type LimitExceededError struct {
	Limit int
}

func (e *LimitExceededError) Error() string {
	return fmt.Sprintf("rate limit exceeded. Max %d downloads per day.", e.Limit)
}

// DayKey scopes subject to the UTC calendar day of now.
func DayKey(now time.Time, subject string) string {
	return fmt.Sprintf("%s:%s:%s", keyPrefix, now.UTC().Format(time.DateOnly), subject)
}

// untilMidnight is how long a counter created at now has to live.
func untilMidnight(now time.Time) time.Duration {
	now = now.UTC()
	midnight := time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, time.UTC)
	return midnight.Sub(now)
}

// NewLimiter returns a redis backed limiter when redis is configured and an
// in-process one otherwise.
func NewLimiter(ctx context.Context, cfg *config.Config) (Limiter, error) {
	limit := cfg.Downloads.DailyLimit
	if limit <= 0 {
		limit = config.DefaultDownloadDailyLimit
	}

	if cfg.Redis != nil && cfg.Redis.Addr != "" {
		client, err := NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		return NewRedisLimiter(client, limit), nil
	}

	return NewMemoryLimiter(limit), nil
}
