package middleware

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/redis/go-redis/v9"

	"applycraft-backend/internal/shared/telemetry"
)

// RedisLimiter is a fixed-window limiter shared by every API instance. A rule
// allows Burst requests per window of Burst/Rate seconds. Redis failures fail open.
type RedisLimiter struct {
	client redis.Cmdable
	prefix string
	now    func() time.Time
}

// NewRedisLimiter builds a RedisLimiter using keys under prefix.
func NewRedisLimiter(client redis.Cmdable, prefix string) *RedisLimiter {
	if prefix == "" {
		prefix = "ratelimit"
	}
	return &RedisLimiter{client: client, prefix: prefix, now: time.Now}
}

// Allow counts the request in the current window.
func (l *RedisLimiter) Allow(ctx context.Context, key string, rule RateLimitRule) (bool, time.Duration) {
	if l == nil || l.client == nil || rule.Rate <= 0 || rule.Burst <= 0 {
		return true, 0
	}
	now := l.now()
	start, length := fixedWindow(now, rule)
	redisKey := fmt.Sprintf("%s:%s:%d", l.prefix, key, start.Unix())

	pipe := l.client.TxPipeline()
	incr := pipe.Incr(ctx, redisKey)
	pipe.Expire(ctx, redisKey, length+time.Second)
	if _, err := pipe.Exec(ctx); err != nil {
		telemetry.Warn("ratelimit.redis_failed", map[string]any{"key": key, "err": err})
		return true, 0
	}
	if incr.Val() > int64(rule.Burst) {
		return false, start.Add(length).Sub(now)
	}
	return true, 0
}

// fixedWindow returns the window containing now for the rule.
func fixedWindow(now time.Time, rule RateLimitRule) (time.Time, time.Duration) {
	seconds := math.Ceil(float64(rule.Burst) / rule.Rate)
	if seconds < 1 {
		seconds = 1
	}
	length := time.Duration(seconds) * time.Second
	return now.Truncate(length), length
}

var _ Limiter = (*RedisLimiter)(nil)
var _ Limiter = (*RateLimiter)(nil)
