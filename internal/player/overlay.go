/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package player

import (
	"math/rand"
	"sync"
	"time"

	"github.com/friendsincode/onradio/internal/clock"
	"github.com/friendsincode/onradio/internal/models"
)

// OverlayScheduler shows a random fullscreen banner after an initial random
// delay and then on a fixed interval.
type OverlayScheduler struct {
	mu       sync.Mutex
	clock    clock.Clock
	rng      *rand.Rand
	banners  []models.Banner
	current  int
	first    clock.Timer
	interval clock.Timer
	hide     clock.Timer
	gen      int
	shows    int
	onChange func()
}

// NewOverlayScheduler creates a stopped scheduler. rng must not be shared
// with other goroutines.
func NewOverlayScheduler(c clock.Clock, rng *rand.Rand, banners []models.Banner, onChange func()) *OverlayScheduler {
	return &OverlayScheduler{clock: c, rng: rng, banners: banners, current: -1, onChange: onChange}
}

// Start arms the first show and the recurring interval. It reports false
// when there are no banners to show.
func (o *OverlayScheduler) Start() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if len(o.banners) == 0 {
		return false
	}
	o.stopLocked()
	gen := o.gen

	delay := OverlayMinDelay + time.Duration(o.rng.Float64()*float64(OverlayDelayJitter))
	o.first = o.clock.AfterFunc(delay, func() { o.show(gen, false) })
	o.interval = o.clock.AfterFunc(OverlayInterval, func() { o.show(gen, true) })
	return true
}

// Stop cancels every pending timer and hides the overlay.
func (o *OverlayScheduler) Stop() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.stopLocked()
}

// Dismiss hides the visible overlay. The schedule keeps running.
func (o *OverlayScheduler) Dismiss() bool {
	o.mu.Lock()
	if o.current < 0 {
		o.mu.Unlock()
		return false
	}
	o.current = -1
	if o.hide != nil {
		o.hide.Stop()
		o.hide = nil
	}
	o.mu.Unlock()

	if o.onChange != nil {
		o.onChange()
	}
	return true
}

// Current returns the visible banner index, or -1 and nil.
func (o *OverlayScheduler) Current() (int, *models.Banner) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.current < 0 {
		return -1, nil
	}
	b := o.banners[o.current]
	return o.current, &b
}

func (o *OverlayScheduler) stopLocked() {
	o.gen++
	for _, t := range []clock.Timer{o.first, o.interval, o.hide} {
		if t != nil {
			t.Stop()
		}
	}
	o.first, o.interval, o.hide = nil, nil, nil
	o.current = -1
}

func (o *OverlayScheduler) show(gen int, recurring bool) {
	o.mu.Lock()
	if gen != o.gen {
		o.mu.Unlock()
		return
	}
	if recurring {
		o.interval = o.clock.AfterFunc(OverlayInterval, func() { o.show(gen, true) })
	}

	o.current = o.rng.Intn(len(o.banners))
	o.shows++
	show := o.shows
	visible := DefaultOverlayVisible
	if f := o.banners[o.current].Frequency; f > 0 {
		visible = time.Duration(f) * time.Second
	}
	if o.hide != nil {
		o.hide.Stop()
	}
	o.hide = o.clock.AfterFunc(visible, func() { o.hideShow(gen, show) })
	o.mu.Unlock()

	if o.onChange != nil {
		o.onChange()
	}
}

func (o *OverlayScheduler) hideShow(gen, show int) {
	o.mu.Lock()
	if gen != o.gen || show != o.shows || o.current < 0 {
		o.mu.Unlock()
		return
	}
	o.current = -1
	o.hide = nil
	o.mu.Unlock()

	if o.onChange != nil {
		o.onChange()
	}
}
