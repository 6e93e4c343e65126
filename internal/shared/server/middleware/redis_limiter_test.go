package middleware

import (
	"context"
	"testing"
	"time"
)

func TestFixedWindowLength(t *testing.T) {
	now := time.Date(2026, time.January, 1, 0, 0, 45, 0, time.UTC)

	start, length := fixedWindow(now, RateLimitRule{Rate: 0.1, Burst: 3})
	if length != 30*time.Second {
		t.Fatalf("expected 30s window, got %s", length)
	}
	if !start.Equal(time.Date(2026, time.January, 1, 0, 0, 30, 0, time.UTC)) {
		t.Fatalf("unexpected window start %s", start)
	}

	_, length = fixedWindow(now, RateLimitRule{Rate: 100, Burst: 1})
	if length != time.Second {
		t.Fatalf("expected 1s minimum window, got %s", length)
	}
}

func TestRedisLimiterWithoutClientAllows(t *testing.T) {
	var l *RedisLimiter
	ok, wait := l.Allow(context.Background(), "k", RateLimitRule{Rate: 1, Burst: 1})
	if !ok || wait != 0 {
		t.Fatalf("nil limiter must allow")
	}
}
