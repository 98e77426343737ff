/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package tenant maps request hosts to stations and sanitizes tenant ids.
package tenant

import "strings"

// DefaultID is the reserved tenant used when an identifier sanitizes to nothing.
const DefaultID = "default"

// Sanitize strips every character outside [A-Za-z0-9-_]. An empty result
// falls back to DefaultID. Identifiers are case-sensitive.
func Sanitize(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '-', c == '_':
			b.WriteByte(c)
		}
	}
	if b.Len() == 0 {
		return DefaultID
	}
	return b.String()
}

// Valid reports whether id is already in sanitized form.
func Valid(id string) bool {
	return id != "" && Sanitize(id) == id
}
