/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package eventbus

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/friendsincode/onradio/internal/config"
	"github.com/friendsincode/onradio/internal/events"
)

// Bus is an event broker that holds connections needing release.
type Bus interface {
	events.Broker
	Close() error
}

type memoryBus struct {
	*events.Bus
}

func (memoryBus) Close() error { return nil }

// New builds the bus selected by cfg.EventBus.
func New(cfg *config.Config, logger zerolog.Logger) (Bus, error) {
	nodeID := NodeID(cfg.InstanceID)

	switch cfg.EventBus {
	case config.EventBusRedis:
		rc := DefaultRedisConfig()
		rc.Addr = cfg.RedisAddr
		rc.Password = cfg.RedisPassword
		rc.DB = cfg.RedisDB
		return NewRedisBus(rc, nodeID, logger)
	case config.EventBusNATS:
		nc := DefaultNATSConfig()
		if cfg.NATSURL != "" {
			nc.URL = cfg.NATSURL
		}
		return NewNATSBus(nc, nodeID, logger)
	case config.EventBusMemory, "":
		return memoryBus{events.NewBus()}, nil
	default:
		return nil, fmt.Errorf("unsupported event bus %q", cfg.EventBus)
	}
}
