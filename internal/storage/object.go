/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package storage provides the key/value object stores behind station
// configurations and uploaded assets.
package storage

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
)

var (
	ErrNotFound   = errors.New("object not found")
	ErrExists     = errors.New("object already exists")
	ErrInvalidKey = errors.New("invalid object key")
)

// ObjectStore abstracts object storage operations. Every Put replaces the
// whole object atomically: readers see the old or the new bytes, never a mix.
type ObjectStore interface {
	Put(ctx context.Context, key string, data []byte) error
	// PutIfAbsent writes key only when it does not exist yet, else ErrExists.
	PutIfAbsent(ctx context.Context, key string, data []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
	Exists(ctx context.Context, key string) (bool, error)
	// List returns the keys starting with prefix, sorted.
	List(ctx context.Context, prefix string) ([]string, error)
	Delete(ctx context.Context, key string) error
}

// ValidateKey rejects keys that could escape the store's root.
func ValidateKey(key string) error {
	if key == "" || strings.HasPrefix(key, "/") || strings.Contains(key, "\\") {
		return fmt.Errorf("%q: %w", key, ErrInvalidKey)
	}
	if path.Clean(key) != key {
		return fmt.Errorf("%q: %w", key, ErrInvalidKey)
	}
	for _, part := range strings.Split(key, "/") {
		if part == ".." || part == "." {
			return fmt.Errorf("%q: %w", key, ErrInvalidKey)
		}
	}
	return nil
}
