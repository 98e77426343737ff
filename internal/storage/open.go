/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package storage

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/friendsincode/onradio/internal/config"
)

// AccessChecker is implemented by stores that can verify their backend is
// reachable.
type AccessChecker interface {
	CheckAccess(ctx context.Context) error
}

// Open returns the configuration store selected by cfg.StoreBackend.
func Open(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (ObjectStore, error) {
	switch cfg.StoreBackend {
	case config.StoreS3:
		store, err := NewS3Store(ctx, S3Config{
			Bucket:          cfg.S3Bucket,
			Region:          cfg.S3Region,
			Endpoint:        cfg.S3Endpoint,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
			UsePathStyle:    cfg.S3UsePathStyle,
			Prefix:          cfg.S3ConfigPrefix,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("open s3 config store: %w", err)
		}
		return store, nil
	case config.StoreFilesystem, "":
		store, err := NewFilesystemStore(cfg.DataDir, logger)
		if err != nil {
			return nil, fmt.Errorf("open config directory: %w", err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unsupported store backend %q", cfg.StoreBackend)
	}
}
