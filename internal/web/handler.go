/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package web serves the server-rendered pages: the public player, the
// admin login and index, uploaded assets and the live player socket.
package web

import (
	"bytes"
	"net"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/friendsincode/onradio/internal/auth"
	"github.com/friendsincode/onradio/internal/events"
	"github.com/friendsincode/onradio/internal/render"
	"github.com/friendsincode/onradio/internal/station"
)

// Options configures a Handler.
type Options struct {
	UploadDir  string // served under /uploads when set
	BaseDomain string
	Live       bool // player pages connect to /ws/player
}

// Handler provides web UI endpoints with server-rendered templates.
type Handler struct {
	stations *station.Service
	renderer *render.Renderer
	auth     *auth.Authenticator
	bus      events.Broker
	opts     Options
	logger   zerolog.Logger
}

// NewHandler creates a new web handler.
func NewHandler(stations *station.Service, renderer *render.Renderer, authn *auth.Authenticator, bus events.Broker, opts Options, logger zerolog.Logger) *Handler {
	return &Handler{
		stations: stations,
		renderer: renderer,
		auth:     authn,
		bus:      bus,
		opts:     opts,
		logger:   logger.With().Str("component", "web").Logger(),
	}
}

// Routes registers the page routes.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.AdminIndex)
	r.Get("/login", h.LoginPage)
	r.Post("/login", h.LoginSubmit)

	r.Get("/public-player/{subdomain}", h.PublicPlayer)
	r.Get("/ws/player/{subdomain}", h.PlayerWebSocket)

	if h.opts.UploadDir != "" {
		r.Handle("/uploads/*", http.StripPrefix("/uploads/", noListing(http.FileServer(http.Dir(h.opts.UploadDir)))))
	}
}

// noListing hides directory indexes of the upload tree.
func noListing(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "" || strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// writeHTML renders into a buffer first so a template error never leaves a
// half-written page behind.
func (h *Handler) writeHTML(w http.ResponseWriter, status int, render func(*bytes.Buffer) error) {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		h.logger.Error().Err(err).Msg("render page failed")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
