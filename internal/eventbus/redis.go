/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package eventbus

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/friendsincode/onradio/internal/events"
)

// RedisConfig contains Redis connection configuration.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int

	// RetryInterval bounds how often a disconnected bus pings Redis again.
	RetryInterval time.Duration
}

// DefaultRedisConfig returns default Redis configuration.
func DefaultRedisConfig() RedisConfig {
	return RedisConfig{
		Addr:          "localhost:6379",
		RetryInterval: 30 * time.Second,
	}
}

// RedisBus fans events out to other instances over Redis pub/sub. Local
// subscribers always live on an in-process bus, so delivery on this node
// keeps working while Redis is down.
type RedisBus struct {
	client *redis.Client
	logger zerolog.Logger
	local  *events.Bus
	nodeID string
	retry  time.Duration

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu          sync.Mutex
	pubsub      *redis.PubSub
	online      bool
	lastAttempt time.Time
}

// NewRedisBus creates a Redis-backed event bus. An unreachable Redis is
// not an error: the bus starts local-only and reconnects on a later publish.
func NewRedisBus(cfg RedisConfig, nodeID string, logger zerolog.Logger) (*RedisBus, error) {
	if cfg.RetryInterval <= 0 {
		cfg.RetryInterval = DefaultRedisConfig().RetryInterval
	}
	ctx, cancel := context.WithCancel(context.Background())

	rb := &RedisBus{
		client: redis.NewClient(&redis.Options{
			Addr:         cfg.Addr,
			Password:     cfg.Password,
			DB:           cfg.DB,
			DialTimeout:  3 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		}),
		logger: logger.With().Str("component", "redis_bus").Logger(),
		local:  events.NewBus(),
		nodeID: nodeID,
		retry:  cfg.RetryInterval,
		ctx:    ctx,
		cancel: cancel,
	}

	rb.mu.Lock()
	err := rb.connectLocked()
	rb.mu.Unlock()
	if err != nil {
		rb.logger.Warn().Err(err).Msg("redis unreachable, delivering events locally only")
		return rb, nil
	}
	rb.logger.Info().Str("addr", cfg.Addr).Str("node_id", nodeID).Msg("redis event bus ready")
	return rb, nil
}

// connectLocked pings Redis and starts the pattern subscription once.
func (rb *RedisBus) connectLocked() error {
	rb.lastAttempt = time.Now()

	ctx, cancel := context.WithTimeout(rb.ctx, 3*time.Second)
	defer cancel()
	if err := rb.client.Ping(ctx).Err(); err != nil {
		return err
	}

	rb.online = true
	if rb.pubsub == nil {
		rb.pubsub = rb.client.PSubscribe(rb.ctx, SubjectPrefix+"*")
		rb.wg.Add(1)
		go rb.relay(rb.pubsub.Channel())
	}
	return nil
}

// relay delivers events published by other nodes to local subscribers.
func (rb *RedisBus) relay(ch <-chan *redis.Message) {
	defer rb.wg.Done()

	for {
		select {
		case <-rb.ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			m, err := unmarshalMessage([]byte(msg.Payload))
			if err != nil {
				rb.logger.Error().Err(err).Str("channel", msg.Channel).Msg("dropping malformed event")
				continue
			}
			if m.NodeID == rb.nodeID {
				continue
			}
			rb.local.Publish(eventTypeFromSubject(msg.Channel), m.Payload)
			rb.logger.Debug().
				Str("event_type", string(m.EventType)).
				Str("source_node", m.NodeID).
				Str("message_id", m.MessageID).
				Msg("relayed remote event")
		}
	}
}

// Subscribe registers a local subscriber.
func (rb *RedisBus) Subscribe(eventType events.EventType) events.Subscriber {
	return rb.local.Subscribe(eventType)
}

// Unsubscribe removes a local subscriber.
func (rb *RedisBus) Unsubscribe(eventType events.EventType, sub events.Subscriber) {
	rb.local.Unsubscribe(eventType, sub)
}

// Publish delivers locally and, when Redis is reachable, to every other
// instance.
func (rb *RedisBus) Publish(eventType events.EventType, payload events.Payload) {
	rb.local.Publish(eventType, payload)

	if !rb.ensureOnline() {
		return
	}

	data, err := marshalMessage(eventType, payload, rb.nodeID)
	if err != nil {
		rb.logger.Error().Err(err).Msg("failed to encode event")
		return
	}

	ctx, cancel := context.WithTimeout(rb.ctx, 2*time.Second)
	defer cancel()
	if err := rb.client.Publish(ctx, subject(eventType), data).Err(); err != nil {
		rb.logger.Warn().Err(err).Str("event_type", string(eventType)).Msg("redis publish failed, going local-only")
		rb.mu.Lock()
		rb.online = false
		rb.mu.Unlock()
	}
}

func (rb *RedisBus) ensureOnline() bool {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	if rb.online {
		return true
	}
	if time.Since(rb.lastAttempt) < rb.retry {
		return false
	}
	if err := rb.connectLocked(); err != nil {
		rb.logger.Debug().Err(err).Msg("redis still unreachable")
		return false
	}
	rb.logger.Info().Msg("reconnected to redis")
	return true
}

// Close stops the relay and closes the Redis connection.
func (rb *RedisBus) Close() error {
	rb.cancel()
	rb.mu.Lock()
	if rb.pubsub != nil {
		_ = rb.pubsub.Close()
	}
	rb.mu.Unlock()
	rb.wg.Wait()
	return rb.client.Close()
}
