/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package media

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/friendsincode/onradio/internal/storage"
)

// S3Config configures the S3 upload backend.
type S3Config struct {
	storage.S3Config
	PublicBaseURL string // CDN or bucket URL uploads are served from
}

// S3Storage keeps uploads in an S3-compatible bucket.
type S3Storage struct {
	store         *storage.S3Store
	prefix        string
	publicBaseURL string
	logger        zerolog.Logger
}

// NewS3Storage creates an S3 upload backend.
func NewS3Storage(ctx context.Context, cfg S3Config, logger zerolog.Logger) (*S3Storage, error) {
	store, err := storage.NewS3Store(ctx, cfg.S3Config, logger)
	if err != nil {
		return nil, err
	}
	return &S3Storage{
		store:         store,
		prefix:        cfg.Prefix,
		publicBaseURL: strings.TrimSuffix(cfg.PublicBaseURL, "/"),
		logger:        logger,
	}, nil
}

// Store uploads the asset.
func (s *S3Storage) Store(ctx context.Context, name string, data []byte) error {
	return s.store.Put(ctx, name, data)
}

// Delete removes the asset.
func (s *S3Storage) Delete(ctx context.Context, name string) error {
	return s.store.Delete(ctx, name)
}

// List returns the names of all stored uploads.
func (s *S3Storage) List(ctx context.Context) ([]string, error) {
	return s.store.List(ctx, "")
}

// URL joins the public base URL and the object key.
func (s *S3Storage) URL(name string) string {
	return s.publicBaseURL + "/" + s.prefix + name
}

// CheckAccess verifies the bucket is reachable.
func (s *S3Storage) CheckAccess(ctx context.Context) error {
	return s.store.CheckAccess(ctx)
}
