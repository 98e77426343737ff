/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package models

// ModuleType identifies one presentation unit of the player.
type ModuleType string

const (
	ModuleLogo        ModuleType = "logo"
	ModuleTitle       ModuleType = "title"
	ModuleSlogan      ModuleType = "slogan"
	ModulePlayButton  ModuleType = "playButton"
	ModuleVolume      ModuleType = "volume"
	ModuleSocialIcons ModuleType = "socialIcons"
	ModuleBanner      ModuleType = "banner"
	ModuleFooter      ModuleType = "footer"
)

// ModuleSize is the four-step scale every module type maps to its own classes.
type ModuleSize string

const (
	SizeSM ModuleSize = "sm"
	SizeMD ModuleSize = "md"
	SizeLG ModuleSize = "lg"
	SizeXL ModuleSize = "xl"
)

// ModuleSpacing is kept for older layouts; margins replaced it.
type ModuleSpacing string

const (
	SpacingTight   ModuleSpacing = "tight"
	SpacingNormal  ModuleSpacing = "normal"
	SpacingRelaxed ModuleSpacing = "relaxed"
)

// ModuleAlignment aligns a module horizontally.
type ModuleAlignment string

const (
	AlignLeft   ModuleAlignment = "left"
	AlignCenter ModuleAlignment = "center"
	AlignRight  ModuleAlignment = "right"
)

// FontSize overrides the size-derived text scale of text modules.
type FontSize string

const (
	FontXS   FontSize = "xs"
	FontSM   FontSize = "sm"
	FontBase FontSize = "base"
	FontLG   FontSize = "lg"
	FontXL   FontSize = "xl"
	Font2XL  FontSize = "2xl"
	Font3XL  FontSize = "3xl"
)

// Margin bounds, in spacing units.
const (
	MinMargin = 0
	MaxMargin = 12
)

// ModuleSettings are the per-module presentation knobs.
type ModuleSettings struct {
	Size         ModuleSize      `json:"size"`
	Spacing      ModuleSpacing   `json:"spacing"`
	Alignment    ModuleAlignment `json:"alignment"`
	MarginTop    *int            `json:"marginTop,omitempty"`
	MarginBottom *int            `json:"marginBottom,omitempty"`
	FontSize     FontSize        `json:"fontSize,omitempty"`
}

// Top returns the top margin, 0 when unset.
func (s ModuleSettings) Top() int {
	if s.MarginTop == nil {
		return 0
	}
	return *s.MarginTop
}

// Bottom returns the bottom margin, 0 when unset.
func (s ModuleSettings) Bottom() int {
	if s.MarginBottom == nil {
		return 0
	}
	return *s.MarginBottom
}

// ModuleConfig is one entry of a player layout.
type ModuleConfig struct {
	ID       string         `json:"id"`
	Type     ModuleType     `json:"type"`
	Enabled  bool           `json:"enabled"`
	Order    int            `json:"order"`
	Settings ModuleSettings `json:"settings"`
}

// Clone returns a copy that shares no pointers with m.
func (m ModuleConfig) Clone() ModuleConfig {
	out := m
	if m.Settings.MarginTop != nil {
		out.Settings.MarginTop = IntPtr(*m.Settings.MarginTop)
	}
	if m.Settings.MarginBottom != nil {
		out.Settings.MarginBottom = IntPtr(*m.Settings.MarginBottom)
	}
	return out
}

// PlayerLayout is the declarative module list of a station's player.
type PlayerLayout struct {
	Modules       []ModuleConfig `json:"modules"`
	GlobalSpacing int            `json:"globalSpacing"`
}

// Clone returns a deep copy.
func (l PlayerLayout) Clone() PlayerLayout {
	out := PlayerLayout{GlobalSpacing: l.GlobalSpacing}
	if l.Modules != nil {
		out.Modules = make([]ModuleConfig, len(l.Modules))
		for i, m := range l.Modules {
			out.Modules[i] = m.Clone()
		}
	}
	return out
}

// IntPtr returns a pointer to v.
func IntPtr(v int) *int {
	return &v
}

// BoolPtr returns a pointer to v.
func BoolPtr(v bool) *bool {
	return &v
}
