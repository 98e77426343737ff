/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package models

import (
	"encoding/json"
	"fmt"
)

// Template selects the overall player style.
type Template string

const (
	TemplateClassic Template = "classic"
	TemplateCard    Template = "card"
)

// SocialPlatform identifies a social network link.
type SocialPlatform string

const (
	PlatformFacebook  SocialPlatform = "facebook"
	PlatformInstagram SocialPlatform = "instagram"
	PlatformWhatsApp  SocialPlatform = "whatsapp"
	PlatformTwitter   SocialPlatform = "twitter"
	PlatformYouTube   SocialPlatform = "youtube"
	PlatformWebsite   SocialPlatform = "website"
)

// BannerType distinguishes the rotating slot from the fullscreen overlay.
type BannerType string

const (
	BannerStandard   BannerType = "standard"
	BannerFullscreen BannerType = "fullscreen"
)

// ContentType selects the banner content source.
type ContentType string

const (
	ContentImage ContentType = "image"
	ContentHTML  ContentType = "html"
)

// StationConfig is the per-tenant configuration document.
type StationConfig struct {
	StationName           string        `json:"stationName"`
	Slogan                string        `json:"slogan"`
	StreamURL             string        `json:"streamUrl"`
	Theme                 Theme         `json:"theme"`
	Template              Template      `json:"template,omitempty"`
	SplashAuthor          string        `json:"splashAuthor,omitempty"`
	FooterText            string        `json:"footerText,omitempty"`
	CreditsText           string        `json:"creditsText,omitempty"`
	Social                []SocialLink  `json:"social"`
	Banners               []Banner      `json:"banners"`
	BannerRotationSeconds int           `json:"bannerRotationSeconds"`
	Programs              []Program     `json:"programs"`
	Videos                []Video       `json:"videos"`
	Layout                *PlayerLayout `json:"layout,omitempty"`

	// Extra keeps fields this version does not know so a full-replace save
	// round-trips them unchanged.
	Extra map[string]json.RawMessage `json:"-"`
}

// Theme holds branding colours and imagery.
type Theme struct {
	PrimaryColor       string            `json:"primaryColor"`
	BackgroundColor    string            `json:"backgroundColor"`
	TextColor          string            `json:"textColor"`
	LogoURL            string            `json:"logoUrl"`
	BackgroundImageURL string            `json:"backgroundImageUrl,omitempty"`
	BackgroundEffect   *BackgroundEffect `json:"backgroundEffect,omitempty"`
}

// BackgroundEffect controls the background image treatment.
type BackgroundEffect struct {
	Blur     float64 `json:"blur"`    // 0-20 px
	Opacity  float64 `json:"opacity"` // 0.0-1.0
	Movement bool    `json:"movement"`
	Gradient *bool   `json:"gradient,omitempty"` // nil means on
}

// GradientEnabled reports whether the gradient overlay is drawn.
// Only an explicit false turns it off.
func (t Theme) GradientEnabled() bool {
	if t.BackgroundEffect == nil || t.BackgroundEffect.Gradient == nil {
		return true
	}
	return *t.BackgroundEffect.Gradient
}

// SocialLink is one entry of the ordered social list.
type SocialLink struct {
	Platform SocialPlatform `json:"platform"`
	URL      string         `json:"url"`
	Active   bool           `json:"active"`
}

// Banner is a promotional unit, either rotating or fullscreen.
type Banner struct {
	ImageURL    string      `json:"imageUrl,omitempty"`
	URL         string      `json:"url,omitempty"`
	Type        BannerType  `json:"type,omitempty"`
	ContentType ContentType `json:"contentType,omitempty"`
	HTMLContent string      `json:"htmlContent,omitempty"`
	Frequency   int         `json:"frequency,omitempty"` // seconds a fullscreen banner stays visible
}

// Kind returns the banner type, treating an empty type as standard.
func (b Banner) Kind() BannerType {
	if b.Type == BannerFullscreen {
		return BannerFullscreen
	}
	return BannerStandard
}

// IsHTML reports whether htmlContent is the content source.
func (b Banner) IsHTML() bool {
	return b.ContentType == ContentHTML
}

// Source returns the effective content: the HTML body for html banners,
// the image URL otherwise.
func (b Banner) Source() string {
	if b.IsHTML() {
		return b.HTMLContent
	}
	return b.ImageURL
}

// StandardBanners returns the banners that rotate through the single slot.
func (c StationConfig) StandardBanners() []Banner {
	return filterBanners(c.Banners, BannerStandard)
}

// FullscreenBanners returns the banners shown as overlays.
func (c StationConfig) FullscreenBanners() []Banner {
	return filterBanners(c.Banners, BannerFullscreen)
}

func filterBanners(banners []Banner, kind BannerType) []Banner {
	out := make([]Banner, 0, len(banners))
	for _, b := range banners {
		if b.Kind() == kind {
			out = append(out, b)
		}
	}
	return out
}

// IsCard reports whether the card template is selected.
func (c StationConfig) IsCard() bool {
	return c.Template == TemplateCard
}

// Clone returns a deep copy.
func (c StationConfig) Clone() StationConfig {
	out := c
	out.Social = cloneSlice(c.Social)
	out.Banners = cloneSlice(c.Banners)
	out.Programs = cloneSlice(c.Programs)
	out.Videos = cloneSlice(c.Videos)
	if c.Theme.BackgroundEffect != nil {
		effect := *c.Theme.BackgroundEffect
		if effect.Gradient != nil {
			g := *effect.Gradient
			effect.Gradient = &g
		}
		out.Theme.BackgroundEffect = &effect
	}
	if c.Layout != nil {
		layout := c.Layout.Clone()
		out.Layout = &layout
	}
	if c.Extra != nil {
		out.Extra = make(map[string]json.RawMessage, len(c.Extra))
		for k, v := range c.Extra {
			out.Extra[k] = append(json.RawMessage(nil), v...)
		}
	}
	return out
}

func cloneSlice[T any](in []T) []T {
	if in == nil {
		return nil
	}
	return append(make([]T, 0, len(in)), in...)
}

// stationConfigAlias drops the custom (un)marshalers.
type stationConfigAlias StationConfig

var knownStationKeys = map[string]struct{}{
	"stationName": {}, "slogan": {}, "streamUrl": {}, "theme": {}, "template": {},
	"splashAuthor": {}, "footerText": {}, "creditsText": {}, "social": {}, "banners": {},
	"bannerRotationSeconds": {}, "programs": {}, "videos": {}, "layout": {},
}

// UnmarshalJSON decodes the document and keeps unknown keys in Extra.
func (c *StationConfig) UnmarshalJSON(data []byte) error {
	var alias stationConfigAlias
	if err := json.Unmarshal(data, &alias); err != nil {
		return err
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for key := range knownStationKeys {
		delete(raw, key)
	}
	if len(raw) > 0 {
		alias.Extra = raw
	} else {
		alias.Extra = nil
	}

	*c = StationConfig(alias)
	return nil
}

// MarshalJSON encodes the document, merging Extra back in.
func (c StationConfig) MarshalJSON() ([]byte, error) {
	data, err := json.Marshal(stationConfigAlias(c))
	if err != nil {
		return nil, err
	}
	if len(c.Extra) == 0 {
		return data, nil
	}

	var merged map[string]json.RawMessage
	if err := json.Unmarshal(data, &merged); err != nil {
		return nil, fmt.Errorf("merge extra fields: %w", err)
	}
	for key, val := range c.Extra {
		if _, known := knownStationKeys[key]; known {
			continue
		}
		merged[key] = val
	}
	return json.Marshal(merged)
}
