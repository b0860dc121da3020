// Package ratelimiter implements Redis-backed token buckets and the per-user
// recommendation generation quota built on them.
package ratelimiter

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/fairyhunter13/ai-career-advisor/internal/adapter/observability"
	"github.com/fairyhunter13/ai-career-advisor/internal/domain"
)

// BucketConfig describes a token bucket. RefillRate is tokens per second.
type BucketConfig struct {
	Capacity   int64
	RefillRate float64
}

// NewBucketConfigPerHour returns a bucket that holds perHour tokens and
// refills them evenly over an hour.
func NewBucketConfigPerHour(perHour int) BucketConfig {
	if perHour <= 0 {
		return BucketConfig{}
	}
	return BucketConfig{
		Capacity:   int64(perHour),
		RefillRate: float64(perHour) / 3600.0,
	}
}

// Enabled reports whether the bucket limits anything.
func (c BucketConfig) Enabled() bool { return c.Capacity > 0 && c.RefillRate > 0 }

// RedisLuaLimiter evaluates token buckets atomically in Redis.
type RedisLuaLimiter struct {
	redis  redis.Scripter
	script *redis.Script
}

// NewRedisLuaLimiter returns nil when rdb is nil; a nil limiter allows everything.
func NewRedisLuaLimiter(rdb redis.Scripter) *RedisLuaLimiter {
	if rdb == nil {
		return nil
	}
	return &RedisLuaLimiter{redis: rdb, script: redis.NewScript(luaTokenBucketScript)}
}

// Redis truncates Lua numbers to integers, so the wait is returned in milliseconds.
const luaTokenBucketScript = `
local key = KEYS[1]
local capacity = tonumber(ARGV[1])
local refill_rate = tonumber(ARGV[2])
local now = tonumber(ARGV[3])
local cost = tonumber(ARGV[4])

local tokens = capacity
local last_refill = now

local data = redis.call("HMGET", key, "tokens", "last_refill")
if data[1] ~= false and data[1] ~= nil then
  tokens = tonumber(data[1])
end
if data[2] ~= false and data[2] ~= nil then
  last_refill = tonumber(data[2])
end

local delta = now - last_refill
if delta < 0 then
  delta = 0
end

tokens = math.min(capacity, tokens + delta * refill_rate)

local allowed = 0
local retry_after_ms = 0

if tokens >= cost then
  tokens = tokens - cost
  allowed = 1
else
  retry_after_ms = math.ceil((cost - tokens) / refill_rate * 1000)
end

redis.call("HSET", key, "tokens", tostring(tokens), "last_refill", tostring(now))
redis.call("EXPIRE", key, math.ceil(capacity / refill_rate) + 60)

return { allowed, retry_after_ms }
`

// Allow takes cost tokens from the bucket stored under key. It reports
// whether the tokens were available and, if not, how long until they are.
func (l *RedisLuaLimiter) Allow(ctx context.Context, key string, cfg BucketConfig, cost int64) (bool, time.Duration, error) {
	if l == nil || l.redis == nil || !cfg.Enabled() {
		return true, 0, nil
	}
	if cost <= 0 {
		cost = 1
	}

	nowSec := float64(time.Now().UnixNano()) / 1e9
	res, err := l.script.Run(ctx, l.redis, []string{"rate:" + key}, cfg.Capacity, cfg.RefillRate, nowSec, cost).Result()
	if err != nil {
		return true, 0, fmt.Errorf("op=ratelimiter.allow: %w", err)
	}

	vals, ok := res.([]interface{})
	if !ok || len(vals) < 2 {
		slog.Error("redis rate limiter unexpected script result", slog.String("key", key), slog.Any("result", res))
		return true, 0, nil
	}
	allowed := toInt64(vals[0]) == 1
	retryAfter := time.Duration(toInt64(vals[1])) * time.Millisecond
	return allowed, retryAfter, nil
}

// GenerationQuota caps how many recommendation runs a user may start per hour.
type GenerationQuota struct {
	limiter *RedisLuaLimiter
	bucket  BucketConfig
}

var _ domain.GenerationLimiter = (*GenerationQuota)(nil)

// NewGenerationQuota builds a quota of perHour runs per user. A nil client or
// non-positive perHour yields a quota that never rejects.
func NewGenerationQuota(rdb redis.Scripter, perHour int) *GenerationQuota {
	return &GenerationQuota{limiter: NewRedisLuaLimiter(rdb), bucket: NewBucketConfigPerHour(perHour)}
}

// Allow consumes one run for userID. It returns domain.ErrRateLimited and the
// wait until the next run when the quota is exhausted. Redis failures fail open.
func (q *GenerationQuota) Allow(ctx context.Context, userID string) (time.Duration, error) {
	if q == nil {
		return 0, nil
	}
	allowed, retryAfter, err := q.limiter.Allow(ctx, "generate:"+userID, q.bucket, 1)
	if err != nil {
		observability.LoggerFromContext(ctx).Warn("generation quota unavailable, allowing request",
			slog.String("user_id", userID), slog.Any("error", err))
		return 0, nil
	}
	if !allowed {
		observability.RecordQuotaRejected()
		return retryAfter, fmt.Errorf("op=ratelimiter.generation_quota: %w", domain.ErrRateLimited)
	}
	return 0, nil
}

func toInt64(v interface{}) int64 {
	switch t := v.(type) {
	case int64:
		return t
	case int:
		return int64(t)
	case float64:
		return int64(math.Round(t))
	default:
		return 0
	}
}
