/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package events

import "sync"

// EventType enumerates event categories.
type EventType string

const (
	// EventConfigSaved fires after a station configuration is replaced.
	EventConfigSaved EventType = "config.saved"
	// EventTenantCreated fires after a new station is created.
	EventTenantCreated EventType = "tenant.created"
	// EventAssetUploaded fires after an upload is stored.
	EventAssetUploaded EventType = "asset.uploaded"
)

// Payload keys shared by publishers and subscribers.
const (
	KeyTenant = "tenant"
	KeyURL    = "url"
)

// Payload generic event payload.
type Payload map[string]any

// Tenant returns the tenant id carried by the payload, if any.
func (p Payload) Tenant() string {
	s, _ := p[KeyTenant].(string)
	return s
}

// Subscriber receives event payloads.
type Subscriber chan Payload

// Broker is implemented by the in-process bus and the distributed buses.
type Broker interface {
	Subscribe(eventType EventType) Subscriber
	Publish(eventType EventType, payload Payload)
	Unsubscribe(eventType EventType, sub Subscriber)
}

// Bus implements a simple in-process pubsub.
type Bus struct {
	mu   sync.RWMutex
	subs map[EventType][]Subscriber
}

// NewBus creates an event bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[EventType][]Subscriber)}
}

// Subscribe registers a subscriber for event type.
func (b *Bus) Subscribe(eventType EventType) Subscriber {
	ch := make(Subscriber, 8)
	b.mu.Lock()
	b.subs[eventType] = append(b.subs[eventType], ch)
	b.mu.Unlock()
	return ch
}

// Publish sends payload to subscribers. Slow subscribers miss events
// rather than block the publisher. The read lock is held across the sends
// so Unsubscribe cannot close a channel mid-delivery.
func (b *Bus) Publish(eventType EventType, payload Payload) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, sub := range b.subs[eventType] {
		select {
		case sub <- payload:
		default:
		}
	}
}

// Unsubscribe removes the subscriber and closes its channel.
func (b *Bus) Unsubscribe(eventType EventType, sub Subscriber) {
	b.mu.Lock()
	defer b.mu.Unlock()
	subs := b.subs[eventType]
	for i, candidate := range subs {
		if candidate == sub {
			b.subs[eventType] = append(subs[:i], subs[i+1:]...)
			close(sub)
			return
		}
	}
}
