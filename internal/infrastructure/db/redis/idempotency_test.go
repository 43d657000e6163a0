package redis

import (
	"context"
	"os"
	"testing"
	"time"
)

func setupTestRedis(t *testing.T) *IdempotencyStore {
	t.Helper()

	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	client, err := Connect(context.Background(), Config{Addr: addr, DB: 15, Timeout: time.Second})
	if err != nil {
		t.Skipf("Failed to connect to test redis: %v", err)
	}
	t.Cleanup(func() {
		_ = client.FlushDB(context.Background()).Err()
		_ = client.Close()
	})
	return NewIdempotencyStore(client, time.Minute)
}

func TestIdempotencyStore_KeyFormat(t *testing.T) {
	s := NewIdempotencyStore(nil, 0)

	if got := s.key("task", "abc"); got != "idem:task:abc" {
		t.Errorf("unexpected key %q", got)
	}
	if s.ttl != defaultIdempotencyTTL {
		t.Errorf("expected default ttl %v, got %v", defaultIdempotencyTTL, s.ttl)
	}
}

func TestIdempotencyStore_FirstWriterWins(t *testing.T) {
	s := setupTestRedis(t)
	ctx := context.Background()

	if _, ok, err := s.Lookup(ctx, "user", "k1"); err != nil || ok {
		t.Fatalf("expected miss, got ok=%v err=%v", ok, err)
	}

	if err := s.Remember(ctx, "user", "k1", 7); err != nil {
		t.Fatalf("Failed to remember: %v", err)
	}
	if err := s.Remember(ctx, "user", "k1", 8); err != nil {
		t.Fatalf("Failed to remember: %v", err)
	}

	id, ok, err := s.Lookup(ctx, "user", "k1")
	if err != nil || !ok || id != 7 {
		t.Errorf("expected id 7, got id=%d ok=%v err=%v", id, ok, err)
	}

	if _, ok, _ := s.Lookup(ctx, "task", "k1"); ok {
		t.Error("keys must be scoped per entity")
	}
}

func TestIdempotencyStore_ForgetFreesKey(t *testing.T) {
	s := setupTestRedis(t)
	ctx := context.Background()

	if err := s.Remember(ctx, "user", "k2", 7); err != nil {
		t.Fatalf("Failed to remember: %v", err)
	}
	if err := s.Forget(ctx, "user", "k2"); err != nil {
		t.Fatalf("Failed to forget: %v", err)
	}
	if _, ok, err := s.Lookup(ctx, "user", "k2"); err != nil || ok {
		t.Fatalf("expected miss after forget, got ok=%v err=%v", ok, err)
	}

	if err := s.Remember(ctx, "user", "k2", 9); err != nil {
		t.Fatalf("Failed to remember: %v", err)
	}
	if id, _, _ := s.Lookup(ctx, "user", "k2"); id != 9 {
		t.Errorf("expected the key to be reusable, got id %d", id)
	}
	if err := s.Forget(ctx, "user", "never-set"); err != nil {
		t.Errorf("forgetting a missing key must succeed, got %v", err)
	}
}
