/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package player

import (
	"sync"

	"github.com/friendsincode/onradio/internal/clock"
)

// Splash is the card template's intro screen. It shows at most once per session.
type Splash struct {
	mu       sync.Mutex
	clock    clock.Clock
	visible  bool
	shown    bool
	timer    clock.Timer
	onChange func()
}

// NewSplash creates a hidden splash.
func NewSplash(c clock.Clock, onChange func()) *Splash {
	return &Splash{clock: c, onChange: onChange}
}

// Show displays the splash for SplashDuration unless it was already shown.
func (s *Splash) Show() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.shown {
		return false
	}
	s.shown = true
	s.visible = true
	s.timer = s.clock.AfterFunc(SplashDuration, s.dismiss)
	return true
}

// Stop cancels the pending dismissal and hides the splash.
func (s *Splash) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.visible = false
}

// Visible reports whether the splash is on screen.
func (s *Splash) Visible() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.visible
}

func (s *Splash) dismiss() {
	s.mu.Lock()
	if !s.visible {
		s.mu.Unlock()
		return
	}
	s.visible = false
	s.timer = nil
	s.mu.Unlock()

	if s.onChange != nil {
		s.onChange()
	}
}
