package store

import (
	"context"
	"errors"
	"testing"
)

func TestMemoryRoundTrip(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	if err := m.Set(ctx, "notify:settings", []byte(`{"max":5}`)); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	got, err := m.Get(ctx, "notify:settings")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if string(got) != `{"max":5}` {
		t.Errorf("unexpected value: %s", got)
	}
}

func TestMemoryMissingKey(t *testing.T) {
	m := NewMemory()

	if _, err := m.Get(context.Background(), "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryOverwrite(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	_ = m.Set(ctx, "k", []byte("one"))
	_ = m.Set(ctx, "k", []byte("two"))

	got, err := m.Get(ctx, "k")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if string(got) != "two" {
		t.Errorf("expected two, got %s", got)
	}
}

func TestMemoryRemove(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	_ = m.Set(ctx, "k", []byte("v"))
	if err := m.Remove(ctx, "k"); err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	if _, err := m.Get(ctx, "k"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after remove, got %v", err)
	}

	// Removing a missing key is not an error
	if err := m.Remove(ctx, "k"); err != nil {
		t.Fatalf("second remove failed: %v", err)
	}
}

func TestMemoryReturnsCopies(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	original := []byte("immutable")
	_ = m.Set(ctx, "k", original)
	original[0] = 'X'

	got, _ := m.Get(ctx, "k")
	if string(got) != "immutable" {
		t.Errorf("stored value was mutated: %s", got)
	}

	got[0] = 'Y'
	again, _ := m.Get(ctx, "k")
	if string(again) != "immutable" {
		t.Errorf("returned value aliases storage: %s", again)
	}
}
