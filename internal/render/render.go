/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package render turns station configurations into player HTML.
package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"math"
	"net/url"
	"regexp"
	"strings"

	"github.com/friendsincode/onradio/internal/layout"
	"github.com/friendsincode/onradio/internal/models"
)

// PlaceholderLogo is served when a station has no logo.
const PlaceholderLogo = "/placeholder-logo.png"

// MaxSocialIcons is how many social links the socialIcons module shows.
const MaxSocialIcons = 4

// PlaybackState is the slice of player state that modules read.
type PlaybackState struct {
	Playing bool
	Volume  float64
}

// Options alter rendering without touching the configuration.
type Options struct {
	Preview bool // editor preview: controls are inert
}

// Renderer renders modules and pages from parsed templates.
type Renderer struct {
	templates *template.Template
}

// New parses every module and page template.
func New() (*Renderer, error) {
	funcMap := template.FuncMap{
		"safeHTML":    func(s string) template.HTML { return template.HTML(s) },
		"cssColor":    cssColor,
		"jsonMarshal": jsonMarshal,
		"lower":       strings.ToLower,
	}

	tmpl := template.New("").Funcs(funcMap)

	for moduleType, content := range moduleTemplates {
		if _, err := tmpl.New("module_" + string(moduleType)).Parse(content); err != nil {
			return nil, fmt.Errorf("parse module template %s: %w", moduleType, err)
		}
	}

	for name, content := range pageTemplates {
		if _, err := tmpl.New(name).Parse(content); err != nil {
			return nil, fmt.Errorf("parse page template %s: %w", name, err)
		}
	}

	return &Renderer{templates: tmpl}, nil
}

// MustNew is New for package initialisation and tests.
func MustNew() *Renderer {
	r, err := New()
	if err != nil {
		panic(err)
	}
	return r
}

type socialIcon struct {
	Platform models.SocialPlatform
	URL      string
	Glyph    string
}

type moduleData struct {
	Module        models.ModuleConfig
	Config        models.StationConfig
	Classes       Classes
	Playing       bool
	VolumePercent int
	Preview       bool
	Card          bool
	LogoURL       string
	ButtonStyle   template.CSS
	Social        []socialIcon
}

// RenderModule renders one module. The output depends only on its arguments;
// unknown module types render nothing.
func (r *Renderer) RenderModule(m models.ModuleConfig, cfg models.StationConfig, st PlaybackState, opt Options) (template.HTML, error) {
	if _, ok := moduleTemplates[m.Type]; !ok {
		return "", nil
	}

	data := moduleData{
		Module:        m,
		Config:        cfg,
		Classes:       ModuleClasses(m),
		Playing:       st.Playing,
		VolumePercent: VolumePercent(st.Volume),
		Preview:       opt.Preview,
		Card:          cfg.IsCard(),
		LogoURL:       LogoURL(cfg),
	}
	if !data.Card {
		if c := cssColor(cfg.Theme.PrimaryColor); c != "" {
			data.ButtonStyle = "background-color: " + c
		}
	}
	if m.Type == models.ModuleSocialIcons {
		data.Social = socialIcons(cfg.Social)
	}

	name := "module_" + string(m.Type)
	var buf bytes.Buffer
	if err := r.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("execute template %s: %w", name, err)
	}
	return template.HTML(buf.String()), nil
}

// RenderModules renders the resolved layout of cfg in order.
func (r *Renderer) RenderModules(cfg models.StationConfig, st PlaybackState, opt Options) ([]template.HTML, error) {
	mods := layout.Resolve(cfg)
	out := make([]template.HTML, 0, len(mods))
	for _, m := range mods {
		html, err := r.RenderModule(m, cfg, st, opt)
		if err != nil {
			return nil, err
		}
		out = append(out, html)
	}
	return out, nil
}

// VolumePercent converts a 0-1 volume to the slider's 0-100 value.
func VolumePercent(v float64) int {
	return int(math.Round(v * 100))
}

// LogoURL returns the station logo or the placeholder.
func LogoURL(cfg models.StationConfig) string {
	if cfg.Theme.LogoURL == "" {
		return PlaceholderLogo
	}
	return cfg.Theme.LogoURL
}

var glyphs = map[models.SocialPlatform]string{
	models.PlatformFacebook:  "facebook",
	models.PlatformInstagram: "instagram",
	models.PlatformWhatsApp:  "whatsapp",
	models.PlatformTwitter:   "x-twitter",
	models.PlatformYouTube:   "youtube",
	models.PlatformWebsite:   "globe",
}

func socialIcons(links []models.SocialLink) []socialIcon {
	if len(links) > MaxSocialIcons {
		links = links[:MaxSocialIcons]
	}
	out := make([]socialIcon, 0, len(links))
	for _, l := range links {
		glyph, ok := glyphs[l.Platform]
		if !ok {
			glyph = "globe"
		}
		out = append(out, socialIcon{Platform: l.Platform, URL: l.URL, Glyph: glyph})
	}
	return out
}

var colorPattern = regexp.MustCompile(`^(#[0-9a-fA-F]{3,8}|[a-zA-Z]{3,20}|rgba?\([0-9.,%\s]+\)|hsla?\([0-9.,%\s]+\))$`)

// cssColor passes through values that are plain CSS colours and drops anything else.
func cssColor(s string) template.CSS {
	s = strings.TrimSpace(s)
	if !colorPattern.MatchString(s) {
		return ""
	}
	return template.CSS(s)
}

// cssURL quotes a background image URL, or returns "" when it cannot be
// embedded safely.
func cssURL(raw string) template.CSS {
	if raw == "" || strings.ContainsAny(raw, "\"'()\\\n\r ") {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	if u.Scheme != "" && u.Scheme != "http" && u.Scheme != "https" {
		return ""
	}
	return template.CSS(`url("` + u.String() + `")`)
}

func jsonMarshal(v any) template.JS {
	if v == nil {
		return template.JS("null")
	}
	b, err := json.Marshal(v)
	if err != nil {
		return template.JS("null")
	}
	return template.JS(b)
}

// PlayerPage is everything the public player page needs.
type PlayerPage struct {
	Tenant  string
	Config  models.StationConfig
	State   PlaybackState
	Preview bool
	Live    bool // connect to the live session socket
}

type bannerView struct {
	Index int
	models.Banner
}

type videoView struct {
	Title   string
	URL     string
	EmbedID string
}

type playerData struct {
	Tenant          string
	Config          models.StationConfig
	Preview         bool
	Live            bool
	Modules         []template.HTML
	GlobalSpacing   int
	BackgroundColor template.CSS
	TextColor       template.CSS
	BackgroundImage template.CSS
	ImageStyle      template.CSS
	Gradient        bool
	Splash          bool
	LogoURL         string
	StandardBanners []bannerView
	Overlays        []bannerView
	RotationSeconds int
	Programs        []models.Program
	Weekdays        []string
	Videos          []videoView
	Volume          float64
}

// RenderPlayer writes the full public player page. Config must already be normalized.
func (r *Renderer) RenderPlayer(w io.Writer, page PlayerPage) error {
	cfg := page.Config
	modules, err := r.RenderModules(cfg, page.State, Options{Preview: page.Preview})
	if err != nil {
		return err
	}

	data := playerData{
		Tenant:          page.Tenant,
		Config:          cfg,
		Preview:         page.Preview,
		Live:            page.Live && !page.Preview,
		Modules:         modules,
		GlobalSpacing:   layout.GlobalSpacing(cfg),
		BackgroundColor: cssColor(cfg.Theme.BackgroundColor),
		TextColor:       cssColor(cfg.Theme.TextColor),
		BackgroundImage: cssURL(cfg.Theme.BackgroundImageURL),
		Gradient:        cfg.Theme.GradientEnabled(),
		Splash:          cfg.IsCard() && !page.Preview,
		LogoURL:         LogoURL(cfg),
		RotationSeconds: cfg.BannerRotationSeconds,
		Programs:        cfg.Programs,
		Weekdays:        models.Weekdays,
		Volume:          page.State.Volume,
	}
	if data.BackgroundColor == "" {
		data.BackgroundColor = "#000"
	}

	blur, opacity := 0.0, 1.0
	if e := cfg.Theme.BackgroundEffect; e != nil {
		blur = e.Blur
		if e.Opacity > 0 {
			opacity = e.Opacity
		}
	}
	data.ImageStyle = template.CSS(fmt.Sprintf("filter: blur(%gpx); opacity: %g", blur, opacity))

	for i, b := range cfg.StandardBanners() {
		data.StandardBanners = append(data.StandardBanners, bannerView{Index: i, Banner: b})
	}
	for i, b := range cfg.FullscreenBanners() {
		data.Overlays = append(data.Overlays, bannerView{Index: i, Banner: b})
	}
	for _, v := range cfg.Videos {
		id, _ := v.YouTubeID()
		data.Videos = append(data.Videos, videoView{Title: v.Title, URL: v.URL, EmbedID: id})
	}

	if err := r.templates.ExecuteTemplate(w, "player_page", data); err != nil {
		return fmt.Errorf("execute template player_page: %w", err)
	}
	return nil
}

// RenderNotFound writes the page shown for an unknown subdomain.
func (r *Renderer) RenderNotFound(w io.Writer, tenant string) error {
	if err := r.templates.ExecuteTemplate(w, "not_found", map[string]any{"Tenant": tenant}); err != nil {
		return fmt.Errorf("execute template not_found: %w", err)
	}
	return nil
}

// LoginPage is the data for the admin login form.
type LoginPage struct {
	Username string
	Error    string
}

// RenderLogin writes the admin login form.
func (r *Renderer) RenderLogin(w io.Writer, page LoginPage) error {
	if err := r.templates.ExecuteTemplate(w, "login", page); err != nil {
		return fmt.Errorf("execute template login: %w", err)
	}
	return nil
}

// AdminPage lists the tenants on the admin host.
type AdminPage struct {
	User       string
	Radios     []string
	BaseDomain string
}

// RenderAdmin writes the admin index.
func (r *Renderer) RenderAdmin(w io.Writer, page AdminPage) error {
	if err := r.templates.ExecuteTemplate(w, "admin_index", page); err != nil {
		return fmt.Errorf("execute template admin_index: %w", err)
	}
	return nil
}
