package models

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestNormalizeFillsMissingSections(t *testing.T) {
	var legacy StationConfig
	if err := json.Unmarshal([]byte(`{
		"stationName": "Radio Uno",
		"slogan": "La mejor",
		"streamUrl": "https://stream.example.com/live",
		"theme": {"primaryColor": "#f00", "backgroundColor": "#000", "textColor": "#fff", "logoUrl": "/l.png"}
	}`), &legacy); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	got := Normalize(legacy)

	if got.Social == nil || len(got.Social) != 0 {
		t.Fatalf("social=%v, want empty non-nil", got.Social)
	}
	if got.Banners == nil || len(got.Banners) != 0 {
		t.Fatalf("banners=%v, want empty non-nil", got.Banners)
	}
	if got.Programs == nil || got.Videos == nil {
		t.Fatal("expected programs and videos to be materialised")
	}
	if got.BannerRotationSeconds != 10 {
		t.Fatalf("bannerRotationSeconds=%d, want 10", got.BannerRotationSeconds)
	}
	effect := got.Theme.BackgroundEffect
	if effect == nil {
		t.Fatal("expected background effect")
	}
	if effect.Blur != 0 || effect.Opacity != 1 || effect.Movement {
		t.Fatalf("unexpected default effect %+v", *effect)
	}
	if !got.Theme.GradientEnabled() {
		t.Fatal("gradient should default to on")
	}
	if got.Layout != nil {
		t.Fatal("normalize must not invent a layout")
	}

	if legacy.Social != nil || legacy.Theme.BackgroundEffect != nil {
		t.Fatal("normalize mutated its input")
	}
}

func TestNormalizeIsIdempotent(t *testing.T) {
	inputs := map[string]StationConfig{
		"empty":  {},
		"legacy": {StationName: "A", BannerRotationSeconds: 0},
		"complete": {
			StationName:           "B",
			Social:                []SocialLink{{Platform: PlatformFacebook, URL: "https://fb.com/b", Active: true}},
			Banners:               []Banner{{Type: BannerStandard, ImageURL: "a.png"}},
			BannerRotationSeconds: 5,
			Theme: Theme{BackgroundEffect: &BackgroundEffect{
				Blur: 4, Opacity: 0.5, Movement: true, Gradient: BoolPtr(false),
			}},
			Programs: []Program{{ID: "p1", Title: "Mañanas", Days: "Lunes,Martes"}},
			Layout:   &PlayerLayout{GlobalSpacing: 2},
		},
	}

	for name, in := range inputs {
		t.Run(name, func(t *testing.T) {
			once := Normalize(in)
			twice := Normalize(once)
			if !reflect.DeepEqual(once, twice) {
				t.Fatalf("normalize not idempotent:\nonce=%+v\ntwice=%+v", once, twice)
			}
		})
	}
}

func TestNormalizeKeepsExplicitValues(t *testing.T) {
	in := StationConfig{
		BannerRotationSeconds: 5,
		Theme: Theme{BackgroundEffect: &BackgroundEffect{
			Blur: 8, Opacity: 0.3, Gradient: BoolPtr(false),
		}},
	}
	got := Normalize(in)
	if got.BannerRotationSeconds != 5 {
		t.Fatalf("bannerRotationSeconds=%d, want 5", got.BannerRotationSeconds)
	}
	if got.Theme.BackgroundEffect.Blur != 8 || got.Theme.BackgroundEffect.Opacity != 0.3 {
		t.Fatalf("background effect overwritten: %+v", *got.Theme.BackgroundEffect)
	}
	if got.Theme.GradientEnabled() {
		t.Fatal("explicit gradient=false must disable the overlay")
	}
}

func TestStationConfigRoundTripsUnknownFields(t *testing.T) {
	raw := []byte(`{"stationName":"X","theme":{"logoUrl":"/x.png"},"customField":{"a":1}}`)

	var cfg StationConfig
	if err := json.Unmarshal(raw, &cfg); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if _, ok := cfg.Extra["customField"]; !ok {
		t.Fatalf("expected customField in Extra, got %v", cfg.Extra)
	}

	out, err := json.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(out, &decoded); err != nil {
		t.Fatalf("unmarshal output: %v", err)
	}
	if _, ok := decoded["customField"]; !ok {
		t.Fatalf("customField lost on save: %s", out)
	}
	if decoded["stationName"] != "X" {
		t.Fatalf("stationName=%v", decoded["stationName"])
	}
}

func TestBannerSource(t *testing.T) {
	img := Banner{ContentType: ContentImage, ImageURL: "a.png", HTMLContent: "<b>x</b>"}
	if img.Source() != "a.png" {
		t.Fatalf("image banner source=%q", img.Source())
	}
	html := Banner{ContentType: ContentHTML, ImageURL: "a.png", HTMLContent: "<b>x</b>"}
	if html.Source() != "<b>x</b>" {
		t.Fatalf("html banner source=%q", html.Source())
	}
	if (Banner{}).Kind() != BannerStandard {
		t.Fatal("empty banner type should be standard")
	}
}

func TestStandardAndFullscreenBanners(t *testing.T) {
	cfg := StationConfig{Banners: []Banner{
		{Type: BannerStandard, ImageURL: "a.png"},
		{Type: BannerFullscreen, ImageURL: "f.png"},
		{ImageURL: "b.png"},
	}}
	if got := len(cfg.StandardBanners()); got != 2 {
		t.Fatalf("standard banners=%d, want 2", got)
	}
	if got := len(cfg.FullscreenBanners()); got != 1 {
		t.Fatalf("fullscreen banners=%d, want 1", got)
	}
}
