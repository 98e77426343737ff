/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package media

import (
	"context"
	"fmt"
	"sort"

	"github.com/rs/zerolog"

	"github.com/friendsincode/onradio/internal/models"
)

// OrphanScanner finds uploads that no station configuration references.
type OrphanScanner struct {
	storage Storage
	logger  zerolog.Logger
}

// NewOrphanScanner creates a scanner over the upload backend.
func NewOrphanScanner(storage Storage, logger zerolog.Logger) *OrphanScanner {
	return &OrphanScanner{storage: storage, logger: logger}
}

// ScanResult summarises a scan.
type ScanResult struct {
	Total   int      `json:"total"`
	Orphans []string `json:"orphans"`
}

// ScanForOrphans lists stored uploads whose URL appears in none of configs.
func (s *OrphanScanner) ScanForOrphans(ctx context.Context, configs []models.StationConfig) (*ScanResult, error) {
	names, err := s.storage.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list uploads: %w", err)
	}

	referenced := make(map[string]struct{})
	for _, cfg := range configs {
		for _, u := range ReferencedURLs(cfg) {
			referenced[u] = struct{}{}
		}
	}

	result := &ScanResult{Total: len(names), Orphans: []string{}}
	for _, name := range names {
		if _, ok := referenced[s.storage.URL(name)]; !ok {
			result.Orphans = append(result.Orphans, name)
		}
	}
	sort.Strings(result.Orphans)

	s.logger.Info().
		Int("total", result.Total).
		Int("orphans", len(result.Orphans)).
		Msg("upload orphan scan complete")
	return result, nil
}

// ReferencedURLs returns every asset URL a configuration points at.
func ReferencedURLs(cfg models.StationConfig) []string {
	var urls []string
	add := func(u string) {
		if u != "" {
			urls = append(urls, u)
		}
	}
	add(cfg.Theme.LogoURL)
	add(cfg.Theme.BackgroundImageURL)
	for _, b := range cfg.Banners {
		add(b.ImageURL)
	}
	for _, p := range cfg.Programs {
		add(p.PhotoURL)
	}
	return urls
}

// Orphans scans the service's upload backend against configs.
func (s *Service) Orphans(ctx context.Context, configs []models.StationConfig) (*ScanResult, error) {
	return NewOrphanScanner(s.storage, s.logger).ScanForOrphans(ctx, configs)
}
