package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/blart-ai/blart-server/internal/config"
)

func TestDayKey(t *testing.T) {
	// 23:30 in Sydney is still the previous UTC day.
	sydney := time.FixedZone("AEDT", 11*60*60)
	now := time.Date(2026, 10, 19, 9, 30, 0, 0, sydney)

	if got := DayKey(now, "abc"); got != "downloads:2026-10-18:abc" {
		t.Errorf("DayKey() = %q", got)
	}
}

func TestUntilMidnight(t *testing.T) {
	now := time.Date(2026, 10, 18, 23, 0, 0, 0, time.UTC)
	if got := untilMidnight(now); got != time.Hour {
		t.Errorf("untilMidnight() = %v", got)
	}
}

func TestMemoryLimiter(t *testing.T) {
	ctx := context.Background()
	limiter := NewMemoryLimiter(3)
	day := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return day }

	for i := 1; i <= 3; i++ {
		ok, err := limiter.Allow(ctx, "ip-a")
		if err != nil || !ok {
			t.Fatalf("hit %d: ok = %v, err = %v", i, ok, err)
		}
	}
	if ok, _ := limiter.Allow(ctx, "ip-a"); ok {
		t.Error("fourth hit allowed")
	}
	if ok, _ := limiter.Allow(ctx, "ip-b"); !ok {
		t.Error("other subject blocked")
	}

	day = day.Add(24 * time.Hour)
	if ok, _ := limiter.Allow(ctx, "ip-a"); !ok {
		t.Error("counter not reset on the next day")
	}
}

func TestLimitExceededMessage(t *testing.T) {
	err := &LimitExceededError{Limit: 20}
	if err.Error() != "rate limit exceeded. Max 20 downloads per day." {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestNewLimiterDefaultsToMemory(t *testing.T) {
	limiter, err := NewLimiter(context.Background(), &config.Config{})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := limiter.(*MemoryLimiter); !ok {
		t.Errorf("limiter = %T, want *MemoryLimiter", limiter)
	}
	if limiter.Limit() != config.DefaultDownloadDailyLimit {
		t.Errorf("Limit() = %d", limiter.Limit())
	}
}
