/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package player holds the per-session playback state machine and the
// banner and splash timers of the public player.
package player

import (
	"context"
	"fmt"
	"time"

	"github.com/friendsincode/onradio/internal/models"
)

// State is the playback state of a session.
type State int

const (
	Idle State = iota
	Paused
	Playing
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Paused:
		return "paused"
	case Playing:
		return "playing"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// MarshalText encodes the state by name.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Timing constants of the player.
const (
	DefaultVolume         = 0.7
	SplashDuration        = 2 * time.Second
	OverlayMinDelay       = 10 * time.Second
	OverlayDelayJitter    = 30 * time.Second
	OverlayInterval       = 60 * time.Second
	DefaultOverlayVisible = 10 * time.Second
)

// AudioOutput is where the stream actually plays: a browser audio element
// behind a socket, or a test double.
type AudioOutput interface {
	SetSource(url string)
	Play(ctx context.Context) error
	Pause()
	SetVolume(v float64)
}

// View is a point-in-time snapshot of a session.
type View struct {
	Tenant        string         `json:"tenant"`
	State         State          `json:"state"`
	Volume        float64        `json:"volume"`
	BannerIndex   int            `json:"bannerIndex"`
	OverlayIndex  int            `json:"overlayIndex"` // -1 when no overlay is visible
	Overlay       *models.Banner `json:"overlay,omitempty"`
	SplashVisible bool           `json:"splashVisible"`
}

func clampVolume(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
