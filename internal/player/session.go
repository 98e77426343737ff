/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package player

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/friendsincode/onradio/internal/clock"
	"github.com/friendsincode/onradio/internal/models"
)

// Options configures a Session. Zero values fall back to the wall clock,
// a time-seeded random source and a no-op logger.
type Options struct {
	Clock  clock.Clock
	Rand   *rand.Rand
	Logger *zerolog.Logger
}

// Session is one listener's player: playback state, volume and the banner
// and splash timers for the currently loaded station.
type Session struct {
	mu     sync.Mutex
	out    AudioOutput
	clock  clock.Clock
	rng    *rand.Rand
	logger zerolog.Logger

	tenant  string
	cfg     models.StationConfig
	loaded  bool
	state   State
	volume  float64
	closed  bool
	rotator *BannerRotator
	overlay *OverlayScheduler
	splash  *Splash

	subsMu  sync.Mutex
	subs    map[int]chan View
	nextSub int
}

// NewSession creates an idle session playing through out.
func NewSession(out AudioOutput, opts Options) *Session {
	s := &Session{
		out:    out,
		clock:  opts.Clock,
		rng:    opts.Rand,
		volume: DefaultVolume,
		subs:   make(map[int]chan View),
	}
	if s.clock == nil {
		s.clock = clock.Real()
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if opts.Logger != nil {
		s.logger = *opts.Logger
	} else {
		s.logger = zerolog.Nop()
	}
	s.splash = NewSplash(s.clock, s.notify)
	out.SetVolume(s.volume)
	return s
}

// Load switches the session to cfg, which must already be normalized.
// Every pending timer is cancelled before new ones are armed.
func (s *Session) Load(tenant string, cfg models.StationConfig) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.stopTimersLocked()

	s.tenant = tenant
	s.cfg = cfg
	s.loaded = true

	s.rotator = NewBannerRotator(s.clock, len(cfg.StandardBanners()), time.Duration(cfg.BannerRotationSeconds)*time.Second, s.notify)
	s.rotator.Start()
	s.overlay = NewOverlayScheduler(s.clock, s.rng, cfg.FullscreenBanners(), s.notify)
	s.overlay.Start()
	if cfg.IsCard() {
		s.splash.Show()
	}
	s.mu.Unlock()

	s.logger.Debug().Str("tenant", tenant).Msg("player session loaded")
	s.notify()
}

// ApplyIfCurrent loads cfg only when tag names the station the session is
// showing, so a response for a station the listener already left is dropped.
func (s *Session) ApplyIfCurrent(tag string, cfg models.StationConfig) bool {
	s.mu.Lock()
	current := s.tenant
	s.mu.Unlock()
	if tag != current {
		s.logger.Debug().Str("tag", tag).Str("tenant", current).Msg("discarding stale config")
		return false
	}
	s.Load(tag, cfg)
	return true
}

// Tenant returns the loaded station id.
func (s *Session) Tenant() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tenant
}

// TogglePlay starts or pauses playback. A failed start leaves the session
// paused; the failure is logged and the listener may press play again.
func (s *Session) TogglePlay(ctx context.Context) {
	s.mu.Lock()
	if !s.loaded || s.closed {
		s.mu.Unlock()
		return
	}
	if s.state == Playing {
		s.out.Pause()
		s.state = Paused
	} else {
		s.out.SetSource(s.cfg.StreamURL)
		if err := s.out.Play(ctx); err != nil {
			s.logger.Warn().Err(err).Str("tenant", s.tenant).Msg("playback failed")
			s.state = Paused
		} else {
			s.state = Playing
		}
	}
	s.mu.Unlock()
	s.notify()
}

// PlaybackFailed records a failure reported asynchronously by the output.
func (s *Session) PlaybackFailed(reason string) {
	s.mu.Lock()
	if s.state != Playing {
		s.mu.Unlock()
		return
	}
	s.state = Paused
	s.logger.Warn().Str("tenant", s.tenant).Str("reason", reason).Msg("playback failed")
	s.mu.Unlock()
	s.notify()
}

// SetVolume clamps v to [0,1] and applies it without touching playback state.
func (s *Session) SetVolume(v float64) {
	s.mu.Lock()
	s.volume = clampVolume(v)
	s.out.SetVolume(s.volume)
	s.mu.Unlock()
	s.notify()
}

// Dismiss hides the visible fullscreen banner.
func (s *Session) Dismiss() {
	s.mu.Lock()
	overlay := s.overlay
	s.mu.Unlock()
	if overlay != nil {
		overlay.Dismiss()
	}
}

// Snapshot returns the current view.
func (s *Session) Snapshot() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := View{
		Tenant:       s.tenant,
		State:        s.state,
		Volume:       s.volume,
		OverlayIndex: -1,
	}
	if s.rotator != nil {
		v.BannerIndex = s.rotator.Index()
	}
	if s.overlay != nil {
		v.OverlayIndex, v.Overlay = s.overlay.Current()
	}
	v.SplashVisible = s.splash.Visible()
	return v
}

// Subscribe returns a channel of views sent on every change, and a func
// that ends the subscription.
func (s *Session) Subscribe() (<-chan View, func()) {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	id := s.nextSub
	s.nextSub++
	ch := make(chan View, 8)
	s.subs[id] = ch
	return ch, func() {
		s.subsMu.Lock()
		defer s.subsMu.Unlock()
		if c, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(c)
		}
	}
}

// Close stops every timer and ends all subscriptions.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.stopTimersLocked()
	s.splash.Stop()
	s.mu.Unlock()

	s.subsMu.Lock()
	for id, ch := range s.subs {
		delete(s.subs, id)
		close(ch)
	}
	s.subsMu.Unlock()
}

func (s *Session) stopTimersLocked() {
	if s.rotator != nil {
		s.rotator.Stop()
	}
	if s.overlay != nil {
		s.overlay.Stop()
	}
}

// notify pushes the latest view to subscribers. A subscriber that lags
// loses its oldest pending view, never the newest.
func (s *Session) notify() {
	v := s.Snapshot()

	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- v:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- v:
			default:
			}
		}
	}
}
