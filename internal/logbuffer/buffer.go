/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package logbuffer keeps the most recent log lines in memory so admins can
// read them without shell access.
package logbuffer

import (
	"encoding/json"
	"io"
	"sort"
	"strings"
	"sync"
	"time"
)

// DefaultCapacity is used when New is given a non-positive capacity.
const DefaultCapacity = 2000

// Entry is one parsed log line.
type Entry struct {
	Time      time.Time      `json:"time"`
	Level     string         `json:"level"`
	Message   string         `json:"message"`
	Component string         `json:"component,omitempty"`
	Tenant    string         `json:"tenant,omitempty"`
	Fields    map[string]any `json:"fields,omitempty"`
}

// Buffer is a ring of log entries safe for concurrent use.
type Buffer struct {
	mu      sync.RWMutex
	entries []Entry
	head    int
	count   int
}

// New creates a buffer holding at most capacity entries.
func New(capacity int) *Buffer {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Buffer{entries: make([]Entry, capacity)}
}

// Add appends e, evicting the oldest entry when full.
func (b *Buffer) Add(e Entry) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.entries[b.head] = e
	b.head = (b.head + 1) % len(b.entries)
	if b.count < len(b.entries) {
		b.count++
	}
}

// All returns every entry, oldest first.
func (b *Buffer) All() []Entry {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]Entry, b.count)
	start := 0
	if b.count == len(b.entries) {
		start = b.head
	}
	for i := range out {
		out[i] = b.entries[(start+i)%len(b.entries)]
	}
	return out
}

// Query filters entries. Empty fields match everything.
type Query struct {
	Level     string
	Component string
	Tenant    string
	Search    string // case-insensitive, message and component
	Limit     int
}

// Find returns matching entries, newest first.
func (b *Buffer) Find(q Query) []Entry {
	all := b.All()
	search := strings.ToLower(q.Search)

	var out []Entry
	for i := len(all) - 1; i >= 0; i-- {
		e := all[i]
		if q.Level != "" && e.Level != q.Level {
			continue
		}
		if q.Component != "" && e.Component != q.Component {
			continue
		}
		if q.Tenant != "" && e.Tenant != q.Tenant {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(e.Message), search) &&
			!strings.Contains(strings.ToLower(e.Component), search) {
			continue
		}
		out = append(out, e)
		if q.Limit > 0 && len(out) == q.Limit {
			break
		}
	}
	return out
}

// Components returns the sorted set of components seen.
func (b *Buffer) Components() []string {
	seen := make(map[string]bool)
	for _, e := range b.All() {
		if e.Component != "" {
			seen[e.Component] = true
		}
	}
	out := make([]string, 0, len(seen))
	for c := range seen {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// Writer is an io.Writer for zerolog that captures JSON lines into a
// buffer and forwards them to an optional next writer.
type Writer struct {
	buffer *Buffer
	next   io.Writer
	now    func() time.Time
}

// NewWriter creates a capturing writer.
func NewWriter(buffer *Buffer, next io.Writer) *Writer {
	return &Writer{buffer: buffer, next: next, now: time.Now}
}

// Write parses one zerolog line. Lines that are not JSON objects are
// forwarded but not captured.
func (w *Writer) Write(p []byte) (int, error) {
	var raw map[string]any
	if err := json.Unmarshal(p, &raw); err == nil {
		w.buffer.Add(w.parse(raw))
	}
	if w.next != nil {
		return w.next.Write(p)
	}
	return len(p), nil
}

func (w *Writer) parse(raw map[string]any) Entry {
	e := Entry{Time: w.now()}
	take := func(key string) string {
		s, _ := raw[key].(string)
		delete(raw, key)
		return s
	}
	e.Level = take("level")
	e.Message = take("message")
	e.Component = take("component")
	e.Tenant = take("tenant")

	switch ts := raw["time"].(type) {
	case float64:
		e.Time = time.Unix(int64(ts), 0)
	case string:
		if t, err := time.Parse(time.RFC3339, ts); err == nil {
			e.Time = t
		}
	}
	delete(raw, "time")

	if len(raw) > 0 {
		e.Fields = raw
	}
	return e
}
