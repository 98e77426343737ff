/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package eventbus carries events between instances of the panel.
package eventbus

import (
	"crypto/rand"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/friendsincode/onradio/internal/events"
)

// SubjectPrefix namespaces event channels and subjects.
const SubjectPrefix = "onradio.events."

// message is the wire format shared by the Redis and NATS buses.
type message struct {
	EventType events.EventType `json:"event_type"`
	Payload   events.Payload   `json:"payload"`
	Timestamp time.Time        `json:"timestamp"`
	NodeID    string           `json:"node_id"`
	MessageID string           `json:"message_id"`
}

func subject(eventType events.EventType) string {
	return SubjectPrefix + string(eventType)
}

func eventTypeFromSubject(s string) events.EventType {
	return events.EventType(strings.TrimPrefix(s, SubjectPrefix))
}

func marshalMessage(eventType events.EventType, payload events.Payload, nodeID string) ([]byte, error) {
	return json.Marshal(message{
		EventType: eventType,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
		NodeID:    nodeID,
		MessageID: ulid.Make().String(),
	})
}

func unmarshalMessage(data []byte) (*message, error) {
	var msg message
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("unmarshal event message: %w", err)
	}
	return &msg, nil
}

// NodeID returns instanceID when set, otherwise hostname plus a ULID.
func NodeID(instanceID string) string {
	if instanceID != "" {
		return instanceID
	}
	host, err := os.Hostname()
	if err != nil || host == "" {
		host = "node"
	}
	return host + "-" + ulid.MustNew(ulid.Now(), rand.Reader).String()
}
