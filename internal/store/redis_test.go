package store

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func setupTestRedis(t *testing.T) (*Redis, func()) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := &Redis{rdb: rdb, logger: zap.NewNop()}

	return store, func() {
		rdb.Close()
		mr.Close()
	}
}

func TestRedisRoundTrip(t *testing.T) {
	store, cleanup := setupTestRedis(t)
	defer cleanup()
	ctx := context.Background()

	if err := store.Set(ctx, "notify:dnd", []byte(`{"enabled":true}`)); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	got, err := store.Get(ctx, "notify:dnd")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if string(got) != `{"enabled":true}` {
		t.Errorf("unexpected value: %s", got)
	}
}

func TestRedisMissingKey(t *testing.T) {
	store, cleanup := setupTestRedis(t)
	defer cleanup()

	if _, err := store.Get(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRedisRemove(t *testing.T) {
	store, cleanup := setupTestRedis(t)
	defer cleanup()
	ctx := context.Background()

	_ = store.Set(ctx, "notify:history", []byte(`[]`))
	if err := store.Remove(ctx, "notify:history"); err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	if _, err := store.Get(ctx, "notify:history"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after remove, got %v", err)
	}
}
