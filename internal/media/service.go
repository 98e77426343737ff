/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/friendsincode/onradio/internal/config"
	"github.com/friendsincode/onradio/internal/storage"
)

var (
	// ErrNoFile is returned when an upload carries no file.
	ErrNoFile = errors.New("no files received")
	// ErrTooLarge is returned when an upload exceeds the configured limit.
	ErrTooLarge = errors.New("file exceeds upload limit")
)

// Storage abstracts where uploaded assets are kept and how they are addressed.
type Storage interface {
	Store(ctx context.Context, name string, data []byte) error
	Delete(ctx context.Context, name string) error
	List(ctx context.Context) ([]string, error)
	URL(name string) string
	CheckAccess(ctx context.Context) error
}

// Service manages uploaded branding assets.
type Service struct {
	storage Storage
	maxSize int64
	now     func() time.Time
	logger  zerolog.Logger
}

// NewService creates a media service using filesystem or S3 storage based on config.
func NewService(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*Service, error) {
	var backend Storage

	if cfg.StoreBackend == config.StoreS3 {
		if cfg.S3AccessKeyID == "" || cfg.S3SecretAccessKey == "" {
			logger.Warn().Msg("S3 credentials not configured, using the default AWS credential chain")
		}
		s3Storage, err := NewS3Storage(ctx, S3Config{
			S3Config: storage.S3Config{
				Bucket:          cfg.S3Bucket,
				Region:          cfg.S3Region,
				Endpoint:        cfg.S3Endpoint,
				AccessKeyID:     cfg.S3AccessKeyID,
				SecretAccessKey: cfg.S3SecretAccessKey,
				UsePathStyle:    cfg.S3UsePathStyle,
				Prefix:          cfg.S3UploadPrefix,
			},
			PublicBaseURL: cfg.S3PublicBaseURL,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize S3 storage: %w", err)
		}
		backend = s3Storage
	} else {
		fsStorage, err := NewFilesystemStorage(cfg.UploadDir, cfg.UploadURLPrefix, logger)
		if err != nil {
			return nil, err
		}
		backend = fsStorage
	}

	return NewServiceWithStorage(backend, cfg.MaxUploadSizeBytes(), logger), nil
}

// NewServiceWithStorage wires a service to an explicit backend.
func NewServiceWithStorage(backend Storage, maxSize int64, logger zerolog.Logger) *Service {
	return &Service{
		storage: backend,
		maxSize: maxSize,
		now:     time.Now,
		logger:  logger,
	}
}

// Upload stores file under a timestamped name and returns its public URL.
func (s *Service) Upload(ctx context.Context, filename string, file io.Reader) (string, error) {
	if file == nil || strings.TrimSpace(filename) == "" {
		return "", ErrNoFile
	}

	limit := s.maxSize
	if limit <= 0 {
		limit = 20 * 1024 * 1024
	}
	data, err := io.ReadAll(io.LimitReader(file, limit+1))
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > limit {
		return "", ErrTooLarge
	}

	name := StoredName(s.now(), filename)
	if err := s.storage.Store(ctx, name, data); err != nil {
		s.logger.Error().Err(err).Str("filename", filename).Msg("upload store failed")
		return "", fmt.Errorf("store upload: %w", err)
	}

	url := s.storage.URL(name)
	s.logger.Info().
		Str("name", name).
		Int("bytes", len(data)).
		Str("url", url).
		Msg("upload stored")
	return url, nil
}

// Delete removes a stored upload by name.
func (s *Service) Delete(ctx context.Context, name string) error {
	if err := s.storage.Delete(ctx, name); err != nil {
		s.logger.Error().Err(err).Str("name", name).Msg("upload delete failed")
		return fmt.Errorf("delete upload: %w", err)
	}
	s.logger.Info().Str("name", name).Msg("upload deleted")
	return nil
}

// URL returns the public URL of a stored upload.
func (s *Service) URL(name string) string {
	return s.storage.URL(name)
}

// CheckStorageAccess verifies that the storage backend is accessible.
func (s *Service) CheckStorageAccess() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.storage.CheckAccess(ctx)
}

// StoredName builds `<unix-millis>_<base name>` with spaces replaced by
// underscores. Directory components of the client filename are dropped.
func StoredName(now time.Time, filename string) string {
	base := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	if base == "." || base == "/" || base == ".." {
		base = "file"
	}
	base = strings.ReplaceAll(base, " ", "_")
	return strconv.FormatInt(now.UnixMilli(), 10) + "_" + base
}
