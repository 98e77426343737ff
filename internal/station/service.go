/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package station reads, writes and creates tenant configurations.
package station

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/friendsincode/onradio/internal/cache"
	"github.com/friendsincode/onradio/internal/events"
	"github.com/friendsincode/onradio/internal/layout"
	"github.com/friendsincode/onradio/internal/models"
	"github.com/friendsincode/onradio/internal/storage"
	"github.com/friendsincode/onradio/internal/telemetry"
	"github.com/friendsincode/onradio/internal/tenant"
)

var (
	ErrNotFound   = errors.New("radio not found")
	ErrConflict   = errors.New("radio already exists")
	ErrValidation = errors.New("validation failed")
	ErrCorrupt    = errors.New("stored configuration is not valid JSON")
)

const keySuffix = ".json"

// Cache is the part of the response cache the service reads and fills.
// *cache.Cache implements it.
type Cache interface {
	GetStationConfig(ctx context.Context, tenant string) (models.StationConfig, bool)
	SetStationConfig(ctx context.Context, tenant string, cfg models.StationConfig) error
	GetStationList(ctx context.Context) ([]string, bool)
	SetStationList(ctx context.Context, ids []string) error
	InvalidateStation(ctx context.Context, tenant string) error
}

// Service owns every station configuration document.
type Service struct {
	store  storage.ObjectStore
	cache  Cache
	bus    events.Broker
	group  singleflight.Group
	logger zerolog.Logger

	// genMu guards gens, the per-tenant write generation. A load only
	// fills the cache if no write happened since it started reading.
	genMu sync.Mutex
	gens  map[string]uint64
}

// NewService creates a station service. cache and bus may be nil.
func NewService(store storage.ObjectStore, c Cache, bus events.Broker, logger zerolog.Logger) *Service {
	logger = logger.With().Str("component", "station").Logger()
	if c == nil {
		c = cache.Disabled(logger)
	}
	return &Service{
		store:  store,
		cache:  c,
		bus:    bus,
		logger: logger,
		gens:   make(map[string]uint64),
	}
}

func objectKey(id string) string {
	return id + keySuffix
}

// Get loads and normalizes a tenant's configuration.
func (s *Service) Get(ctx context.Context, raw string) (models.StationConfig, error) {
	id := tenant.Sanitize(raw)

	ctx, span := telemetry.StartSpan(ctx, "station", "station.Get")
	defer span.End()
	telemetry.SetTenant(span, id)

	if cfg, ok := s.cache.GetStationConfig(ctx, id); ok {
		telemetry.ConfigReadsTotal.WithLabelValues("hit").Inc()
		return cfg, nil
	}

	v, err, _ := s.group.Do(id, func() (any, error) {
		return s.load(ctx, id)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return models.StationConfig{}, err
	}
	telemetry.ConfigReadsTotal.WithLabelValues("miss").Inc()
	return v.(models.StationConfig).Clone(), nil
}

func (s *Service) load(ctx context.Context, id string) (models.StationConfig, error) {
	gen := s.generation(id)
	data, err := s.store.Get(ctx, objectKey(id))
	if errors.Is(err, storage.ErrNotFound) {
		telemetry.ConfigReadsTotal.WithLabelValues("not_found").Inc()
		return models.StationConfig{}, fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	if err != nil {
		telemetry.ConfigReadsTotal.WithLabelValues("error").Inc()
		s.logger.Error().Err(err).Str("tenant", id).Msg("failed to read config")
		return models.StationConfig{}, fmt.Errorf("read config %s: %w", id, err)
	}

	var cfg models.StationConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		telemetry.ConfigReadsTotal.WithLabelValues("corrupt").Inc()
		s.logger.Error().Err(err).Str("tenant", id).Msg("stored config is malformed, leaving it for manual repair")
		return models.StationConfig{}, fmt.Errorf("%s: %w: %v", id, ErrCorrupt, err)
	}

	cfg = models.Normalize(cfg)
	s.cacheIfCurrent(ctx, id, gen, cfg)
	return cfg, nil
}

func (s *Service) generation(id string) uint64 {
	s.genMu.Lock()
	defer s.genMu.Unlock()
	return s.gens[id]
}

// cacheIfCurrent stores cfg unless a write to id happened after gen was
// read. The lock is held across the cache call so a concurrent write
// either sees the entry and invalidates it, or is seen here.
func (s *Service) cacheIfCurrent(ctx context.Context, id string, gen uint64, cfg models.StationConfig) {
	s.genMu.Lock()
	defer s.genMu.Unlock()
	if s.gens[id] != gen {
		s.logger.Debug().Str("tenant", id).Msg("config changed while loading, not caching")
		return
	}
	if err := s.cache.SetStationConfig(ctx, id, cfg); err != nil {
		s.logger.Debug().Err(err).Str("tenant", id).Msg("failed to cache config")
	}
}

// Raw returns the stored document exactly as persisted.
func (s *Service) Raw(ctx context.Context, raw string) ([]byte, error) {
	id := tenant.Sanitize(raw)
	data, err := s.store.Get(ctx, objectKey(id))
	if errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", id, err)
	}
	return data, nil
}

// Save replaces a tenant's configuration as a whole. It returns the
// normalized view of what was written.
func (s *Service) Save(ctx context.Context, raw string, cfg models.StationConfig) (models.StationConfig, error) {
	id := tenant.Sanitize(raw)

	if err := s.Validate(cfg); err != nil {
		telemetry.ConfigWritesTotal.WithLabelValues("save", "invalid").Inc()
		return models.StationConfig{}, err
	}
	if err := s.write(ctx, id, cfg, false); err != nil {
		telemetry.ConfigWritesTotal.WithLabelValues("save", "error").Inc()
		return models.StationConfig{}, err
	}
	telemetry.ConfigWritesTotal.WithLabelValues("save", "ok").Inc()

	s.invalidate(ctx, id)
	s.publish(events.EventConfigSaved, id)
	s.logger.Info().Str("tenant", id).Msg("config saved")
	return models.Normalize(cfg), nil
}

func (s *Service) write(ctx context.Context, id string, cfg models.StationConfig, create bool) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("encode config %s: %w", id, err)
	}
	if create {
		err = s.store.PutIfAbsent(ctx, objectKey(id), data)
	} else {
		err = s.store.Put(ctx, objectKey(id), data)
	}
	if errors.Is(err, storage.ErrExists) {
		return fmt.Errorf("%s: %w", id, ErrConflict)
	}
	if err != nil {
		s.logger.Error().Err(err).Str("tenant", id).Msg("failed to write config")
		return fmt.Errorf("write config %s: %w", id, err)
	}
	return nil
}

// List returns every tenant id, sorted.
func (s *Service) List(ctx context.Context) ([]string, error) {
	if ids, ok := s.cache.GetStationList(ctx); ok {
		return ids, nil
	}

	keys, err := s.store.List(ctx, "")
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list radios")
		return nil, fmt.Errorf("list radios: %w", err)
	}

	ids := make([]string, 0, len(keys))
	for _, key := range keys {
		id, ok := strings.CutSuffix(key, keySuffix)
		if !ok || !tenant.Valid(id) {
			continue
		}
		ids = append(ids, id)
	}
	sort.Strings(ids)

	if err := s.cache.SetStationList(ctx, ids); err != nil {
		s.logger.Debug().Err(err).Msg("failed to cache radio list")
	}
	return ids, nil
}

type createRequest struct {
	Name string `validate:"required"`
}

// Create registers a tenant named name by copying the default tenant's
// configuration. The stored stationName keeps name as typed.
func (s *Service) Create(ctx context.Context, name string) (string, error) {
	if err := configValidator.Struct(createRequest{Name: strings.TrimSpace(name)}); err != nil {
		return "", fmt.Errorf("name is required: %w", ErrValidation)
	}

	id := tenant.Sanitize(name)
	exists, err := s.store.Exists(ctx, objectKey(id))
	if err != nil {
		return "", fmt.Errorf("check radio %s: %w", id, err)
	}
	if exists {
		telemetry.ConfigWritesTotal.WithLabelValues("create", "conflict").Inc()
		return "", fmt.Errorf("%s: %w", id, ErrConflict)
	}

	base, err := s.Get(ctx, tenant.DefaultID)
	if errors.Is(err, ErrNotFound) {
		base = models.DefaultStation()
	} else if err != nil {
		return "", fmt.Errorf("read default config: %w", err)
	}
	base.StationName = name

	if err := s.write(ctx, id, base, true); err != nil {
		result := "error"
		if errors.Is(err, ErrConflict) {
			result = "conflict"
		}
		telemetry.ConfigWritesTotal.WithLabelValues("create", result).Inc()
		return "", err
	}
	telemetry.ConfigWritesTotal.WithLabelValues("create", "ok").Inc()

	s.invalidate(ctx, id)
	s.publish(events.EventTenantCreated, id)
	s.logger.Info().Str("tenant", id).Str("name", name).Msg("radio created")
	return id, nil
}

// SeedDefault writes the built-in default configuration when the default
// tenant does not exist yet.
func (s *Service) SeedDefault(ctx context.Context) error {
	err := s.write(ctx, tenant.DefaultID, models.DefaultStation(), true)
	if errors.Is(err, ErrConflict) {
		return nil
	}
	if err != nil {
		return err
	}
	s.invalidate(ctx, tenant.DefaultID)
	s.logger.Info().Msg("seeded default radio")
	return nil
}

// UpdateLayout applies edit to the tenant's effective layout and saves
// the result.
func (s *Service) UpdateLayout(ctx context.Context, raw string, edit func(models.PlayerLayout) (models.PlayerLayout, error)) (models.PlayerLayout, error) {
	cfg, err := s.Get(ctx, raw)
	if err != nil {
		return models.PlayerLayout{}, err
	}
	next, err := edit(layout.Effective(cfg))
	if err != nil {
		return models.PlayerLayout{}, err
	}
	cfg.Layout = &next
	if _, err := s.Save(ctx, raw, cfg); err != nil {
		return models.PlayerLayout{}, err
	}
	return next, nil
}

func (s *Service) invalidate(ctx context.Context, id string) {
	s.genMu.Lock()
	s.gens[id]++
	s.genMu.Unlock()

	if err := s.cache.InvalidateStation(ctx, id); err != nil {
		s.logger.Warn().Err(err).Str("tenant", id).Msg("failed to invalidate cache")
	}
}

func (s *Service) publish(eventType events.EventType, id string) {
	if s.bus == nil {
		return
	}
	s.bus.Publish(eventType, events.Payload{events.KeyTenant: id})
}

// RunCacheInvalidation drops cached entries when another instance writes
// a configuration. It returns when ctx is done.
func (s *Service) RunCacheInvalidation(ctx context.Context) {
	if s.bus == nil {
		return
	}
	saved := s.bus.Subscribe(events.EventConfigSaved)
	created := s.bus.Subscribe(events.EventTenantCreated)
	defer s.bus.Unsubscribe(events.EventConfigSaved, saved)
	defer s.bus.Unsubscribe(events.EventTenantCreated, created)

	for {
		select {
		case <-ctx.Done():
			return
		case p, ok := <-saved:
			if !ok {
				return
			}
			telemetry.CacheInvalidationsTotal.WithLabelValues(string(events.EventConfigSaved)).Inc()
			s.invalidate(ctx, p.Tenant())
		case p, ok := <-created:
			if !ok {
				return
			}
			telemetry.CacheInvalidationsTotal.WithLabelValues(string(events.EventTenantCreated)).Inc()
			s.invalidate(ctx, p.Tenant())
		}
	}
}
