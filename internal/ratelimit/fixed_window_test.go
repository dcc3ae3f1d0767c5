package ratelimit

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestRedisLimiterBlocksAfterLimit(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	limiter, err := NewRedisLimiter(client, "test:ratelimit", 2, time.Minute, nil)
	if err != nil {
		t.Fatalf("new redis limiter: %v", err)
	}
	ctx := context.Background()

	if !limiter.Allow(ctx, "ip-1") {
		t.Fatalf("first request should pass")
	}
	if !limiter.Allow(ctx, "ip-1") {
		t.Fatalf("second request should pass")
	}
	if limiter.Allow(ctx, "ip-1") {
		t.Fatalf("third request should be blocked")
	}
	if !limiter.Allow(ctx, "ip-2") {
		t.Fatalf("other keys have their own window")
	}
}

func TestRedisLimiterSetsWindowTTL(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	limiter, err := NewRedisLimiter(client, "ttl", 5, time.Minute, nil)
	if err != nil {
		t.Fatalf("new redis limiter: %v", err)
	}
	fixed := time.Unix(1_700_000_000, 0)
	limiter.now = func() time.Time { return fixed }

	limiter.Allow(context.Background(), "ip-1")

	keys := mr.Keys()
	if len(keys) != 1 {
		t.Fatalf("expected one counter key got %v", keys)
	}
	if ttl := mr.TTL(keys[0]); ttl <= 0 || ttl > time.Minute {
		t.Fatalf("unexpected ttl %v", ttl)
	}
}

func TestRedisLimiterRestoresMissingTTL(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	limiter, err := NewRedisLimiter(client, "ttl", 5, time.Minute, nil)
	if err != nil {
		t.Fatalf("new redis limiter: %v", err)
	}
	fixed := time.Unix(1_700_000_000, 0)
	limiter.now = func() time.Time { return fixed }

	// a counter left behind without an expiry
	key := fmt.Sprintf("ttl:ip-1:%d", windowSlot(fixed, time.Minute))
	if err := mr.Set(key, "3"); err != nil {
		t.Fatalf("seed counter: %v", err)
	}
	if ttl := mr.TTL(key); ttl != 0 {
		t.Fatalf("seeded counter should have no ttl got %v", ttl)
	}

	if !limiter.Allow(context.Background(), "ip-1") {
		t.Fatalf("fourth request should pass")
	}
	if got, _ := mr.Get(key); got != "4" {
		t.Fatalf("expected counter 4 got %q", got)
	}
	if ttl := mr.TTL(key); ttl <= 0 || ttl > time.Minute {
		t.Fatalf("expected window ttl to be restored got %v", ttl)
	}
}

func TestRedisLimiterFailsOpen(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	limiter, err := NewRedisLimiter(client, "test:ratelimit", 1, time.Second, nil)
	if err != nil {
		t.Fatalf("new redis limiter: %v", err)
	}
	mr.Close()

	if !limiter.Allow(context.Background(), "ip-1") {
		t.Fatalf("limiter should fail open on redis errors")
	}
}

func TestNewRedisLimiterValidates(t *testing.T) {
	if _, err := NewRedisLimiter(nil, "", 1, time.Second, nil); err == nil {
		t.Fatalf("expected error for nil client")
	}
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"})
	if _, err := NewRedisLimiter(client, "", 0, time.Second, nil); err == nil {
		t.Fatalf("expected error for zero limit")
	}
}

func TestMemoryLimiterWindow(t *testing.T) {
	limiter, err := NewMemoryLimiter(100, 15*time.Minute)
	if err != nil {
		t.Fatalf("new memory limiter: %v", err)
	}
	now := time.Unix(1_700_000_000, 0)
	limiter.now = func() time.Time { return now }
	ctx := context.Background()

	for i := 0; i < 100; i++ {
		if !limiter.Allow(ctx, "10.0.0.1") {
			t.Fatalf("request %d should pass", i+1)
		}
	}
	if limiter.Allow(ctx, "10.0.0.1") {
		t.Fatalf("101st request should be blocked")
	}

	now = now.Add(15 * time.Minute)
	if !limiter.Allow(ctx, "10.0.0.1") {
		t.Fatalf("next window should reset the counter")
	}
}
