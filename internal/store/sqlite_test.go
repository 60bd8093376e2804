package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
)

func setupTestSQLite(t *testing.T) *SQLite {
	t.Helper()
	store, err := NewSQLite(filepath.Join(t.TempDir(), "notify.db"), zap.NewNop())
	if err != nil {
		t.Fatalf("failed to open sqlite store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSQLiteRoundTrip(t *testing.T) {
	store := setupTestSQLite(t)
	ctx := context.Background()

	if err := store.Set(ctx, "notify:settings", []byte(`{"max_notifications":5}`)); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	got, err := store.Get(ctx, "notify:settings")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if string(got) != `{"max_notifications":5}` {
		t.Errorf("unexpected value: %s", got)
	}
}

func TestSQLiteMissingKey(t *testing.T) {
	store := setupTestSQLite(t)

	if _, err := store.Get(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSQLiteOverwrite(t *testing.T) {
	store := setupTestSQLite(t)
	ctx := context.Background()

	_ = store.Set(ctx, "k", []byte("one"))
	if err := store.Set(ctx, "k", []byte("two")); err != nil {
		t.Fatalf("overwrite failed: %v", err)
	}

	got, err := store.Get(ctx, "k")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if string(got) != "two" {
		t.Errorf("expected two, got %s", got)
	}
}

func TestSQLiteRemove(t *testing.T) {
	store := setupTestSQLite(t)
	ctx := context.Background()

	_ = store.Set(ctx, "notify:history", []byte(`[]`))
	if err := store.Remove(ctx, "notify:history"); err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	if _, err := store.Get(ctx, "notify:history"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after remove, got %v", err)
	}
}

func TestSQLiteSurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notify.db")
	ctx := context.Background()

	first, err := NewSQLite(path, zap.NewNop())
	if err != nil {
		t.Fatalf("failed to open sqlite store: %v", err)
	}
	_ = first.Set(ctx, "notify:dnd", []byte(`{"enabled":true}`))
	if err := first.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	second, err := NewSQLite(path, zap.NewNop())
	if err != nil {
		t.Fatalf("failed to reopen sqlite store: %v", err)
	}
	defer second.Close()

	got, err := second.Get(ctx, "notify:dnd")
	if err != nil {
		t.Fatalf("get after reopen failed: %v", err)
	}
	if string(got) != `{"enabled":true}` {
		t.Errorf("unexpected value after reopen: %s", got)
	}
}
