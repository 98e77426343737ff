/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package layout

import (
	"sort"
	"strconv"

	"github.com/friendsincode/onradio/internal/models"
)

// DefaultGlobalSpacing is the gap between modules of the default layout.
const DefaultGlobalSpacing = 4

var defaultTypes = []models.ModuleType{
	models.ModuleLogo,
	models.ModuleTitle,
	models.ModuleSlogan,
	models.ModulePlayButton,
	models.ModuleVolume,
	models.ModuleSocialIcons,
	models.ModuleFooter,
}

// Default returns a fresh copy of the built-in seven module layout.
func Default() models.PlayerLayout {
	mods := make([]models.ModuleConfig, len(defaultTypes))
	for i, t := range defaultTypes {
		mods[i] = models.ModuleConfig{
			ID:       strconv.Itoa(i + 1),
			Type:     t,
			Enabled:  true,
			Order:    i,
			Settings: DefaultSettings(t),
		}
	}
	return models.PlayerLayout{Modules: mods, GlobalSpacing: DefaultGlobalSpacing}
}

// Reset is Default under the editor's name for it.
func Reset() models.PlayerLayout {
	return Default()
}

// Effective returns the station's layout or the default when none is stored.
func Effective(cfg models.StationConfig) models.PlayerLayout {
	if cfg.Layout == nil {
		return Default()
	}
	return cfg.Layout.Clone()
}

// Resolve returns the enabled modules of the station's layout in render
// order. The public player and the editor preview both render from it.
func Resolve(cfg models.StationConfig) []models.ModuleConfig {
	l := Effective(cfg)
	out := make([]models.ModuleConfig, 0, len(l.Modules))
	for _, m := range l.Modules {
		if m.Enabled {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}

// GlobalSpacing returns the module gap for the station's player.
func GlobalSpacing(cfg models.StationConfig) int {
	return Effective(cfg).GlobalSpacing
}
