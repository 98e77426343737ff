/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package cache keeps normalized station configurations and the radio list
// in Redis so public player pages do not hit the object store on every view.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/friendsincode/onradio/internal/clock"
	"github.com/friendsincode/onradio/internal/models"
	"github.com/friendsincode/onradio/internal/telemetry"
)

const (
	DefaultStationListTTL   = 5 * time.Minute
	DefaultStationConfigTTL = 10 * time.Minute
	DefaultRetryAfter       = 30 * time.Second
)

const (
	KeyPrefix        = "onradio:cache:"
	KeyStationList   = KeyPrefix + "stations"
	KeyStationConfig = KeyPrefix + "station:" // + tenant id
)

// Config contains cache configuration.
type Config struct {
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	StationListTTL   time.Duration
	StationConfigTTL time.Duration

	// RetryAfter is how long the cache stays bypassed after a Redis error.
	RetryAfter time.Duration

	Clock clock.Clock
}

// DefaultConfig returns default cache configuration.
func DefaultConfig() Config {
	return Config{
		RedisAddr:        "localhost:6379",
		StationListTTL:   DefaultStationListTTL,
		StationConfigTTL: DefaultStationConfigTTL,
		RetryAfter:       DefaultRetryAfter,
	}
}

// Cache is a Redis-backed cache that degrades to a no-op while Redis is
// failing. A failed call opens the breaker for RetryAfter; the next call
// after that is let through and closes it again on success.
type Cache struct {
	client *redis.Client
	logger zerolog.Logger
	cfg    Config
	clock  clock.Clock

	mu        sync.Mutex
	openUntil time.Time
	// pending holds keys whose invalidation could not reach Redis. They
	// are deleted before any other call once the breaker closes.
	pending map[string]struct{}
}

// New connects to Redis. An unreachable server is not fatal: the cache
// starts with its breaker open and retries later.
func New(cfg Config, logger zerolog.Logger) (*Cache, error) {
	if cfg.RedisAddr == "" {
		return nil, errors.New("cache: redis address required")
	}
	c := newCache(cfg, logger)
	c.client = redis.NewClient(&redis.Options{
		Addr:         cfg.RedisAddr,
		Password:     cfg.RedisPassword,
		DB:           cfg.RedisDB,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
		MaxRetries:   1,
		PoolSize:     10,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := c.client.Ping(ctx).Err(); err != nil {
		c.trip(err, "ping")
		return c, nil
	}

	c.logger.Info().Str("addr", cfg.RedisAddr).Msg("redis cache ready")
	return c, nil
}

// Disabled returns a cache that never stores anything.
func Disabled(logger zerolog.Logger) *Cache {
	return newCache(DefaultConfig(), logger)
}

func newCache(cfg Config, logger zerolog.Logger) *Cache {
	if cfg.RetryAfter <= 0 {
		cfg.RetryAfter = DefaultRetryAfter
	}
	if cfg.StationListTTL <= 0 {
		cfg.StationListTTL = DefaultStationListTTL
	}
	if cfg.StationConfigTTL <= 0 {
		cfg.StationConfigTTL = DefaultStationConfigTTL
	}
	clk := cfg.Clock
	if clk == nil {
		clk = clock.Real()
	}
	return &Cache{
		logger:  logger.With().Str("component", "cache").Logger(),
		cfg:     cfg,
		clock:   clk,
		pending: make(map[string]struct{}),
	}
}

// Close closes the Redis connection.
func (c *Cache) Close() error {
	if c.client == nil {
		return nil
	}
	return c.client.Close()
}

// IsAvailable reports whether calls currently reach Redis.
func (c *Cache) IsAvailable() bool {
	if c.client == nil {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.clock.Now().Before(c.openUntil)
}

func (c *Cache) trip(err error, op string) {
	c.mu.Lock()
	wasClosed := !c.clock.Now().Before(c.openUntil)
	c.openUntil = c.clock.Now().Add(c.cfg.RetryAfter)
	c.mu.Unlock()

	if wasClosed {
		c.logger.Warn().Err(err).Str("operation", op).Dur("retry_after", c.cfg.RetryAfter).Msg("redis unavailable, bypassing cache")
	}
}

// observe records a Redis call result and opens the breaker on failure.
func (c *Cache) observe(err error, op string) {
	if err == nil || errors.Is(err, redis.Nil) {
		return
	}
	telemetry.CacheRequestsTotal.WithLabelValues(op, "error").Inc()
	c.trip(err, op)
}

// ready reports whether a call may go to Redis, first replaying any
// invalidations missed while the breaker was open.
func (c *Cache) ready(ctx context.Context) bool {
	if !c.IsAvailable() {
		return false
	}

	c.mu.Lock()
	keys := make([]string, 0, len(c.pending))
	for k := range c.pending {
		keys = append(keys, k)
	}
	c.mu.Unlock()
	if len(keys) == 0 {
		return true
	}

	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.observe(err, "delete")
		return false
	}
	c.mu.Lock()
	for _, k := range keys {
		delete(c.pending, k)
	}
	c.mu.Unlock()
	c.logger.Info().Int("keys", len(keys)).Msg("replayed invalidations missed during redis outage")
	return true
}

func (c *Cache) queue(keys ...string) {
	c.mu.Lock()
	for _, k := range keys {
		c.pending[k] = struct{}{}
	}
	c.mu.Unlock()
}

// Pending returns how many invalidations are waiting for Redis.
func (c *Cache) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}

func (c *Cache) getJSON(ctx context.Context, key string, dest any) bool {
	if !c.ready(ctx) {
		return false
	}

	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			telemetry.CacheRequestsTotal.WithLabelValues("get", "miss").Inc()
		}
		c.observe(err, "get")
		return false
	}
	if err := json.Unmarshal(data, dest); err != nil {
		c.logger.Debug().Err(err).Str("key", key).Msg("dropping undecodable cache entry")
		_ = c.client.Del(ctx, key).Err()
		return false
	}
	telemetry.CacheRequestsTotal.WithLabelValues("get", "hit").Inc()
	return true
}

func (c *Cache) putJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	if !c.ready(ctx) {
		return nil
	}
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal cache value: %w", err)
	}
	err = c.client.Set(ctx, key, data, ttl).Err()
	c.observe(err, "set")
	return err
}

// del removes keys. While Redis is unreachable the keys are queued and
// removed once it is back, so a write made during an outage is never
// shadowed by an older entry.
func (c *Cache) del(ctx context.Context, keys ...string) error {
	if c.client == nil {
		return nil
	}
	if !c.ready(ctx) {
		c.queue(keys...)
		return nil
	}
	err := c.client.Del(ctx, keys...).Err()
	if err != nil {
		c.queue(keys...)
	}
	c.observe(err, "delete")
	return err
}

// GetStationConfig returns a cached, already normalized configuration.
func (c *Cache) GetStationConfig(ctx context.Context, tenant string) (models.StationConfig, bool) {
	var cfg models.StationConfig
	if !c.getJSON(ctx, KeyStationConfig+tenant, &cfg) {
		return models.StationConfig{}, false
	}
	return cfg, true
}

// SetStationConfig caches a tenant's configuration.
func (c *Cache) SetStationConfig(ctx context.Context, tenant string, cfg models.StationConfig) error {
	return c.putJSON(ctx, KeyStationConfig+tenant, cfg, c.cfg.StationConfigTTL)
}

// GetStationList returns the cached list of tenant ids.
func (c *Cache) GetStationList(ctx context.Context) ([]string, bool) {
	var ids []string
	if !c.getJSON(ctx, KeyStationList, &ids) {
		return nil, false
	}
	return ids, true
}

// SetStationList caches the list of tenant ids.
func (c *Cache) SetStationList(ctx context.Context, ids []string) error {
	return c.putJSON(ctx, KeyStationList, ids, c.cfg.StationListTTL)
}

// InvalidateStation drops a tenant's configuration and the radio list.
func (c *Cache) InvalidateStation(ctx context.Context, tenant string) error {
	c.logger.Debug().Str("tenant", tenant).Msg("invalidating station cache")
	return c.del(ctx, KeyStationConfig+tenant, KeyStationList)
}

// FlushAll removes every key under KeyPrefix.
func (c *Cache) FlushAll(ctx context.Context) error {
	if !c.ready(ctx) {
		return nil
	}
	iter := c.client.Scan(ctx, 0, KeyPrefix+"*", 100).Iterator()
	var batch []string
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == 100 {
			if err := c.del(ctx, batch...); err != nil {
				return err
			}
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		c.observe(err, "scan")
		return err
	}
	if len(batch) > 0 {
		return c.del(ctx, batch...)
	}
	return nil
}
