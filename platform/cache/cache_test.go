package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

type cachedPosition struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

func newTestCache(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisFromClient(client, "recruit:", time.Minute), mr
}

func TestRedisCacheRoundTrip(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	if err := c.Set(ctx, "position:1", cachedPosition{ID: "1", Title: "Backend Engineer"}); err != nil {
		t.Fatalf("set: %v", err)
	}
	if !mr.Exists("recruit:position:1") {
		t.Fatal("expected prefixed key in redis")
	}

	var got cachedPosition
	if err := c.Get(ctx, "position:1", &got); err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Title != "Backend Engineer" {
		t.Fatalf("unexpected value %+v", got)
	}
}

func TestRedisCacheMissAndExpiry(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	var got cachedPosition
	if err := c.Get(ctx, "position:missing", &got); !errors.Is(err, ErrMiss) {
		t.Fatalf("expected ErrMiss, got %v", err)
	}

	if err := c.Set(ctx, "position:2", cachedPosition{ID: "2"}); err != nil {
		t.Fatalf("set: %v", err)
	}
	mr.FastForward(2 * time.Minute)

	if err := c.Get(ctx, "position:2", &got); !errors.Is(err, ErrMiss) {
		t.Fatalf("expected expired key to miss, got %v", err)
	}
}

func TestRedisCacheDelete(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	_ = c.Set(ctx, "candidate:1", cachedPosition{ID: "1"})
	if err := c.Delete(ctx, "candidate:1", "candidate:unknown"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	var got cachedPosition
	if err := c.Get(ctx, "candidate:1", &got); !errors.Is(err, ErrMiss) {
		t.Fatalf("expected deleted key to miss, got %v", err)
	}
}

func TestNoopAlwaysMisses(t *testing.T) {
	var c Cache = Noop{}
	_ = c.Set(context.Background(), "k", 1)

	var v int
	if err := c.Get(context.Background(), "k", &v); !errors.Is(err, ErrMiss) {
		t.Fatalf("expected ErrMiss, got %v", err)
	}
}
