package cache

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/friendsincode/onradio/internal/clock"
	"github.com/friendsincode/onradio/internal/models"
)

func TestDisabledCacheIsNoop(t *testing.T) {
	ctx := context.Background()
	c := Disabled(zerolog.Nop())

	if c.IsAvailable() {
		t.Fatal("disabled cache reports available")
	}
	if err := c.SetStationConfig(ctx, "radiouno", models.DefaultStation()); err != nil {
		t.Fatalf("SetStationConfig: %v", err)
	}
	if _, ok := c.GetStationConfig(ctx, "radiouno"); ok {
		t.Fatal("disabled cache returned a hit")
	}
	if err := c.SetStationList(ctx, []string{"a"}); err != nil {
		t.Fatalf("SetStationList: %v", err)
	}
	if _, ok := c.GetStationList(ctx); ok {
		t.Fatal("disabled cache returned a list")
	}
	if err := c.InvalidateStation(ctx, "radiouno"); err != nil {
		t.Fatalf("InvalidateStation: %v", err)
	}
	if err := c.FlushAll(ctx); err != nil {
		t.Fatalf("FlushAll: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestNewRequiresAddress(t *testing.T) {
	if _, err := New(Config{}, zerolog.Nop()); err == nil {
		t.Fatal("expected error for empty address")
	}
}

func TestBreakerReopensAfterRetryWindow(t *testing.T) {
	fake := clock.NewFake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	cfg := DefaultConfig()
	cfg.RedisAddr = "127.0.0.1:1"
	cfg.Clock = fake

	c, err := New(cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer c.Close()

	if c.IsAvailable() {
		t.Fatal("cache available without Redis")
	}

	fake.Advance(DefaultRetryAfter)
	if !c.IsAvailable() {
		t.Fatal("breaker still open after retry window")
	}

	// The retried call fails again and reopens the breaker.
	if _, ok := c.GetStationConfig(context.Background(), "radiouno"); ok {
		t.Fatal("unexpected hit")
	}
	if c.IsAvailable() {
		t.Fatal("breaker closed after a failed call")
	}
}

func TestInvalidationWhileOpenIsKept(t *testing.T) {
	ctx := context.Background()
	fake := clock.NewFake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	cfg := DefaultConfig()
	cfg.RedisAddr = "127.0.0.1:1"
	cfg.Clock = fake

	c, err := New(cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer c.Close()

	if err := c.InvalidateStation(ctx, "radiouno"); err != nil {
		t.Fatalf("InvalidateStation: %v", err)
	}
	if got := c.Pending(); got != 2 {
		t.Fatalf("pending=%d, want config and list keys", got)
	}

	// A read after the window must not be served before the queued
	// deletes go through. They fail here, so they stay queued.
	fake.Advance(DefaultRetryAfter)
	if _, ok := c.GetStationConfig(ctx, "radiouno"); ok {
		t.Fatal("unexpected hit")
	}
	if got := c.Pending(); got != 2 {
		t.Fatalf("pending=%d after failed replay", got)
	}
	if c.IsAvailable() {
		t.Fatal("breaker closed after a failed replay")
	}
}

func TestDisabledCacheQueuesNothing(t *testing.T) {
	c := Disabled(zerolog.Nop())
	_ = c.InvalidateStation(context.Background(), "radiouno")
	if c.Pending() != 0 {
		t.Fatal("disabled cache queued invalidations")
	}
}

func TestKeys(t *testing.T) {
	if KeyStationConfig+"radiouno" != "onradio:cache:station:radiouno" {
		t.Fatalf("unexpected key %q", KeyStationConfig+"radiouno")
	}
	if KeyStationList != "onradio:cache:stations" {
		t.Fatalf("unexpected key %q", KeyStationList)
	}
}
