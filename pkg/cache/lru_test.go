package cache

import (
	"context"
	"testing"
	"time"
)

func TestLRUCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewLRUCache(2)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	data := []byte("svg")
	if err := c.Set(ctx, "a", data, 0); err != nil {
		t.Fatal(err)
	}
	data[0] = 'x'
	got, ok, _ := c.Get(ctx, "a")
	if !ok || string(got) != "svg" {
		t.Errorf("Get(a) = %q, %v; want stored copy", got, ok)
	}

	_ = c.Set(ctx, "b", []byte("b"), 0)
	_, _, _ = c.Get(ctx, "a")
	_ = c.Set(ctx, "c", []byte("c"), 0)
	if _, ok, _ := c.Get(ctx, "b"); ok {
		t.Error("least recently used entry should be evicted")
	}
	if c.Len() != 2 {
		t.Errorf("Len() = %d, want 2", c.Len())
	}

	_ = c.Delete(ctx, "a")
	if _, ok, _ := c.Get(ctx, "a"); ok {
		t.Error("deleted entry still present")
	}
}

func TestLRUCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, _ := NewLRUCache(0)
	now := time.Date(2024, 6, 4, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	_ = c.Set(ctx, "k", []byte("v"), time.Minute)
	if _, ok, _ := c.Get(ctx, "k"); !ok {
		t.Fatal("fresh entry missing")
	}
	now = now.Add(2 * time.Minute)
	if _, ok, _ := c.Get(ctx, "k"); ok {
		t.Error("expired entry should miss")
	}
	if c.Len() != 0 {
		t.Errorf("expired entry should be evicted, Len() = %d", c.Len())
	}
}
