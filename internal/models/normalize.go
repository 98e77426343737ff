/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package models

// DefaultBannerRotationSeconds applies when a config does not set a rotation interval.
const DefaultBannerRotationSeconds = 10

// DefaultBackgroundEffect is used for configs written before background effects existed.
func DefaultBackgroundEffect() BackgroundEffect {
	return BackgroundEffect{Blur: 0, Opacity: 1, Movement: false}
}

// Normalize fills every optional section of a possibly legacy config so
// consumers can rely on a complete shape. It returns a copy and is
// idempotent: Normalize(Normalize(c)) equals Normalize(c).
func Normalize(c StationConfig) StationConfig {
	out := c.Clone()
	if out.Social == nil {
		out.Social = []SocialLink{}
	}
	if out.Banners == nil {
		out.Banners = []Banner{}
	}
	if out.BannerRotationSeconds <= 0 {
		out.BannerRotationSeconds = DefaultBannerRotationSeconds
	}
	if out.Theme.BackgroundEffect == nil {
		effect := DefaultBackgroundEffect()
		out.Theme.BackgroundEffect = &effect
	}
	if out.Programs == nil {
		out.Programs = []Program{}
	}
	if out.Videos == nil {
		out.Videos = []Video{}
	}
	return out
}

// DefaultStation is the built-in configuration seeded as the "default"
// tenant, which new tenants are copied from.
func DefaultStation() StationConfig {
	return Normalize(StationConfig{
		StationName: "Nombre de la Radio",
		Slogan:      "Tu eslogan aquí",
		StreamURL:   "",
		Template:    TemplateClassic,
		FooterText:  "© 2025 Radio",
		Theme: Theme{
			PrimaryColor:    "#06b6d4",
			BackgroundColor: "#0f172a",
			TextColor:       "#ffffff",
			LogoURL:         "/placeholder-logo.png",
		},
	})
}
