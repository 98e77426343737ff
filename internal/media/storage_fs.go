/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package media

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/friendsincode/onradio/internal/storage"
)

// FilesystemStorage keeps uploads in a local directory served under urlPrefix.
type FilesystemStorage struct {
	store     *storage.FilesystemStore
	urlPrefix string
	logger    zerolog.Logger
}

// NewFilesystemStorage creates a filesystem-based upload backend.
func NewFilesystemStorage(rootDir, urlPrefix string, logger zerolog.Logger) (*FilesystemStorage, error) {
	store, err := storage.NewFilesystemStore(rootDir, logger)
	if err != nil {
		return nil, fmt.Errorf("upload directory: %w", err)
	}
	return &FilesystemStorage{
		store:     store,
		urlPrefix: strings.TrimSuffix(urlPrefix, "/"),
		logger:    logger,
	}, nil
}

// Root returns the directory uploads are written to.
func (fs *FilesystemStorage) Root() string {
	return fs.store.Root()
}

// Store writes an upload.
func (fs *FilesystemStorage) Store(ctx context.Context, name string, data []byte) error {
	return fs.store.Put(ctx, name, data)
}

// Delete removes an upload.
func (fs *FilesystemStorage) Delete(ctx context.Context, name string) error {
	return fs.store.Delete(ctx, name)
}

// List returns the names of all stored uploads.
func (fs *FilesystemStorage) List(ctx context.Context) ([]string, error) {
	return fs.store.List(ctx, "")
}

// URL returns the path the upload is served at.
func (fs *FilesystemStorage) URL(name string) string {
	return fs.urlPrefix + "/" + name
}

// CheckAccess verifies the upload directory is usable.
func (fs *FilesystemStorage) CheckAccess(ctx context.Context) error {
	return fs.store.CheckAccess(ctx)
}
