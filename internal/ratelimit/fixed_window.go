// Package ratelimit implements per-key fixed-window request limits.
package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
)

// Limiter decides whether a key is within quota for the current window.
type Limiter interface {
	Allow(ctx context.Context, key string) bool
}

// fixedWindowScript increments and sets the window expiry in one round trip.
// A counter found without a TTL gets one, so no key outlives its window.
var fixedWindowScript = redis.NewScript(`
local count = redis.call("INCR", KEYS[1])
if count == 1 or redis.call("PTTL", KEYS[1]) == -1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return count
`)

func incrWithTTL(ctx context.Context, client redis.Scripter, key string, ttl time.Duration) (int64, error) {
	return fixedWindowScript.Run(ctx, client, []string{key}, ttl.Milliseconds()).Int64()
}

// RedisLimiter shares counters across API instances.
// On Redis failures it fails open: the public site stays reachable and the
// failure is logged.
type RedisLimiter struct {
	limit  int
	window time.Duration
	client redis.Scripter
	prefix string
	logger *slog.Logger
	now    func() time.Time
}

// NewRedisLimiter creates a Redis-backed limiter.
func NewRedisLimiter(client redis.Scripter, prefix string, limit int, window time.Duration, logger *slog.Logger) (*RedisLimiter, error) {
	if limit <= 0 || window <= 0 {
		return nil, errors.New("rate limiter requires positive limit and window")
	}
	if client == nil {
		return nil, errors.New("rate limiter redis client is required")
	}
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = "portfolio:ratelimit"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &RedisLimiter{limit: limit, window: window, client: client, prefix: prefix, logger: logger, now: time.Now}, nil
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) bool {
	slot := windowSlot(l.now(), l.window)
	redisKey := fmt.Sprintf("%s:%s:%d", l.prefix, normalizeKey(key), slot)

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	count, err := incrWithTTL(ctx, l.client, redisKey, l.window)
	if err != nil {
		l.logger.Warn("rate limiter unavailable, allowing request", slog.Any("error", err))
		return true
	}
	return count <= int64(l.limit)
}

// MemoryLimiter keeps counters in process, for single-instance deployments.
type MemoryLimiter struct {
	limit    int
	window   time.Duration
	counters *cache.Cache
	now      func() time.Time
}

// NewMemoryLimiter creates an in-process limiter.
func NewMemoryLimiter(limit int, window time.Duration) (*MemoryLimiter, error) {
	if limit <= 0 || window <= 0 {
		return nil, errors.New("rate limiter requires positive limit and window")
	}
	return &MemoryLimiter{
		limit:    limit,
		window:   window,
		counters: cache.New(window, 2*window),
		now:      time.Now,
	}, nil
}

func (l *MemoryLimiter) Allow(_ context.Context, key string) bool {
	k := fmt.Sprintf("%s:%d", normalizeKey(key), windowSlot(l.now(), l.window))
	// Add is a no-op when the counter exists; both calls are atomic in go-cache.
	_ = l.counters.Add(k, int64(0), l.window)
	count, err := l.counters.IncrementInt64(k, 1)
	if err != nil {
		// expired between Add and Increment
		l.counters.Set(k, int64(1), l.window)
		count = 1
	}
	return count <= int64(l.limit)
}

func windowSlot(now time.Time, window time.Duration) int64 {
	ms := window.Milliseconds()
	if ms <= 0 {
		return 0
	}
	return now.UTC().UnixMilli() / ms
}

func normalizeKey(key string) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return "unknown"
	}
	return key
}
