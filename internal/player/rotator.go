/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package player

import (
	"sync"
	"time"

	"github.com/friendsincode/onradio/internal/clock"
)

// BannerRotator advances the visible standard banner on a fixed interval.
type BannerRotator struct {
	mu       sync.Mutex
	clock    clock.Clock
	count    int
	interval time.Duration
	index    int
	timer    clock.Timer
	gen      int
	onChange func()
}

// NewBannerRotator creates a stopped rotator over count banners.
func NewBannerRotator(c clock.Clock, count int, interval time.Duration, onChange func()) *BannerRotator {
	return &BannerRotator{clock: c, count: count, interval: interval, onChange: onChange}
}

// Start arms the ticker. With no banners or a non-positive interval no
// timer is created and Start reports false.
func (r *BannerRotator) Start() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.count == 0 || r.interval <= 0 {
		return false
	}
	r.stopLocked()
	r.index = 0
	r.armLocked()
	return true
}

// Stop cancels the ticker. A tick already in flight is discarded.
func (r *BannerRotator) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stopLocked()
}

// Index returns the visible banner index.
func (r *BannerRotator) Index() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.index
}

func (r *BannerRotator) stopLocked() {
	r.gen++
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
}

func (r *BannerRotator) armLocked() {
	gen := r.gen
	r.timer = r.clock.AfterFunc(r.interval, func() { r.tick(gen) })
}

func (r *BannerRotator) tick(gen int) {
	r.mu.Lock()
	if gen != r.gen {
		r.mu.Unlock()
		return
	}
	r.index = (r.index + 1) % r.count
	r.armLocked()
	r.mu.Unlock()

	if r.onChange != nil {
		r.onChange()
	}
}
