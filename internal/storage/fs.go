/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog"
)

const tempPrefix = ".tmp-"

// FilesystemStore keeps each object in a file under rootDir.
type FilesystemStore struct {
	rootDir string
	logger  zerolog.Logger
}

// NewFilesystemStore creates a store rooted at rootDir, creating the directory.
func NewFilesystemStore(rootDir string, logger zerolog.Logger) (*FilesystemStore, error) {
	if err := os.MkdirAll(rootDir, 0o755); err != nil {
		return nil, fmt.Errorf("create store root: %w", err)
	}
	return &FilesystemStore{rootDir: rootDir, logger: logger}, nil
}

// Root returns the directory objects are stored under.
func (s *FilesystemStore) Root() string {
	return s.rootDir
}

func (s *FilesystemStore) path(key string) (string, error) {
	if err := ValidateKey(key); err != nil {
		return "", err
	}
	return filepath.Join(s.rootDir, filepath.FromSlash(key)), nil
}

// writeTemp writes data to a synced temp file next to full.
func (s *FilesystemStore) writeTemp(full string, data []byte) (string, error) {
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("create directories: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(full), tempPrefix+"*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	name := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(name)
		return "", fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(name)
		return "", fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(name)
		return "", fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(name, 0o644); err != nil {
		os.Remove(name)
		return "", fmt.Errorf("chmod temp file: %w", err)
	}
	return name, nil
}

// Put replaces key through a temp file and rename.
func (s *FilesystemStore) Put(ctx context.Context, key string, data []byte) error {
	full, err := s.path(key)
	if err != nil {
		return err
	}
	tmp, err := s.writeTemp(full, data)
	if err != nil {
		return err
	}
	if err := os.Rename(tmp, full); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename into place: %w", err)
	}
	s.logger.Debug().Str("key", key).Int("bytes", len(data)).Msg("filesystem store: object written")
	return nil
}

// PutIfAbsent hard-links the temp file into place, which fails if key exists.
func (s *FilesystemStore) PutIfAbsent(ctx context.Context, key string, data []byte) error {
	full, err := s.path(key)
	if err != nil {
		return err
	}
	tmp, err := s.writeTemp(full, data)
	if err != nil {
		return err
	}
	defer os.Remove(tmp)

	if err := os.Link(tmp, full); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return fmt.Errorf("%s: %w", key, ErrExists)
		}
		return fmt.Errorf("link into place: %w", err)
	}
	s.logger.Debug().Str("key", key).Int("bytes", len(data)).Msg("filesystem store: object created")
	return nil
}

// Get reads key.
func (s *FilesystemStore) Get(ctx context.Context, key string) ([]byte, error) {
	full, err := s.path(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(full)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", key, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	return data, nil
}

// Exists reports whether key is stored.
func (s *FilesystemStore) Exists(ctx context.Context, key string) (bool, error) {
	full, err := s.path(key)
	if err != nil {
		return false, err
	}
	info, err := os.Stat(full)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("stat %s: %w", key, err)
	}
	return !info.IsDir(), nil
}

// List walks the root and returns matching keys with forward slashes.
func (s *FilesystemStore) List(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	err := filepath.WalkDir(s.rootDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || strings.HasPrefix(d.Name(), tempPrefix) {
			return nil
		}
		rel, err := filepath.Rel(s.rootDir, p)
		if err != nil {
			return err
		}
		key := filepath.ToSlash(rel)
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", s.rootDir, err)
	}
	sort.Strings(keys)
	return keys, nil
}

// Delete removes key; a missing key is not an error.
func (s *FilesystemStore) Delete(ctx context.Context, key string) error {
	full, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", key, err)
	}
	s.logger.Debug().Str("key", key).Msg("filesystem store: object deleted")
	return nil
}

// CheckAccess verifies the root directory exists and is a directory.
func (s *FilesystemStore) CheckAccess(ctx context.Context) error {
	info, err := os.Stat(s.rootDir)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("store root does not exist: %s", s.rootDir)
		}
		return fmt.Errorf("cannot access store root: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("store root is not a directory: %s", s.rootDir)
	}
	return nil
}
