package database

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"github.com/edgard/relaybot/internal/config"
)

func newTestRedisStore(t *testing.T, ttl time.Duration) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	srv := miniredis.RunT(t)
	s, err := NewRedisStore(context.Background(), config.RedisConfig{URL: "redis://" + srv.Addr() + "/0", TTL: ttl}, nil)
	if err != nil {
		t.Fatalf("NewRedisStore() error = %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s, srv
}

func TestRedisStoreGetSet(t *testing.T) {
	t.Parallel()
	s, srv := newTestRedisStore(t, 0)
	ctx := context.Background()

	if _, ok, err := s.Get(ctx, "42-900"); err != nil || ok {
		t.Fatalf("Get(missing) = ok %v, err %v", ok, err)
	}
	if err := s.Set(ctx, "42-900", 555); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	got, ok, err := s.Get(ctx, "42-900")
	if err != nil || !ok || got != 555 {
		t.Fatalf("Get() = %d, %v, %v; want 555, true, nil", got, ok, err)
	}

	// Entries are plain decimal strings so older deployments can share the keys.
	if raw, _ := srv.Get("42-900"); raw != "555" {
		t.Fatalf("raw value = %q, want %q", raw, "555")
	}
	if ttl := srv.TTL("42-900"); ttl != 0 {
		t.Fatalf("TTL = %v, want none", ttl)
	}
}

func TestRedisStoreTTL(t *testing.T) {
	t.Parallel()
	s, srv := newTestRedisStore(t, time.Hour)
	ctx := context.Background()

	if err := s.Set(ctx, "42-1", -100); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if ttl := srv.TTL("42-1"); ttl != time.Hour {
		t.Fatalf("TTL = %v, want 1h", ttl)
	}
	srv.FastForward(2 * time.Hour)
	if _, ok, err := s.Get(ctx, "42-1"); err != nil || ok {
		t.Fatalf("Get(expired) = ok %v, err %v", ok, err)
	}
}

func TestRedisStoreCorruptValue(t *testing.T) {
	t.Parallel()
	s, srv := newTestRedisStore(t, 0)

	if err := srv.Set("42-2", "not-a-number"); err != nil {
		t.Fatalf("miniredis Set() error = %v", err)
	}
	if _, _, err := s.Get(context.Background(), "42-2"); err == nil {
		t.Fatal("Get() error = nil, want parse error")
	}
}

func TestRedisStoreUnavailable(t *testing.T) {
	t.Parallel()
	s, srv := newTestRedisStore(t, 0)
	ctx := context.Background()

	if err := s.RunMaintenance(ctx); err != nil {
		t.Fatalf("RunMaintenance() error = %v", err)
	}
	srv.Close()
	if err := s.Ping(ctx); err == nil {
		t.Fatal("Ping() error = nil after server shutdown")
	}
	if err := s.Set(ctx, "42-3", 1); err == nil {
		t.Fatal("Set() error = nil after server shutdown")
	}
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	t.Parallel()
	if _, err := Open(context.Background(), config.StoreConfig{Driver: "memcached"}, nil); err == nil {
		t.Fatal("Open() error = nil, want unknown driver error")
	}
}
