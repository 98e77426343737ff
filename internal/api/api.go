/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package api serves the JSON endpoints used by the admin editor and the
// public player.
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/friendsincode/onradio/internal/auth"
	"github.com/friendsincode/onradio/internal/events"
	"github.com/friendsincode/onradio/internal/logbuffer"
	"github.com/friendsincode/onradio/internal/media"
	"github.com/friendsincode/onradio/internal/render"
	"github.com/friendsincode/onradio/internal/station"
)

// Error messages returned to the editor.
const (
	msgRadioNotFound  = "Radio not found"
	msgReadFailed     = "Failed to read config"
	msgSaveFailed     = "Failed to save config"
	msgListFailed     = "Failed to list radios"
	msgCreateFailed   = "Failed to create radio"
	msgUploadFailed   = "Failed to upload file"
	msgNameRequired   = "Name is required"
	msgRadioExists    = "Radio already exists"
	msgNoFiles        = "No files received."
	msgInvalidJSON    = "Invalid JSON"
	msgFileTooLarge   = "File too large"
	msgBadCredentials = "Invalid credentials"
	msgTooManyLogins  = "Too many attempts"
)

// API exposes HTTP handlers.
type API struct {
	stations       *station.Service
	media          *media.Service
	auth           *auth.Authenticator
	renderer       *render.Renderer
	bus            events.Broker
	logs           *logbuffer.Buffer
	maxUploadBytes int64
	logger         zerolog.Logger
}

// New creates the API router wrapper.
func New(stations *station.Service, mediaSvc *media.Service, authn *auth.Authenticator, renderer *render.Renderer, bus events.Broker, maxUploadBytes int64, logger zerolog.Logger) *API {
	return &API{
		stations:       stations,
		media:          mediaSvc,
		auth:           authn,
		renderer:       renderer,
		bus:            bus,
		maxUploadBytes: maxUploadBytes,
		logger:         logger.With().Str("component", "api").Logger(),
	}
}

// Routes registers the /api tree. Session claims must already be on the
// request context (see auth.Middleware).
func (a *API) Routes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", a.handleLogin)
			r.Post("/logout", a.handleLogout)
			r.Get("/session", a.handleSession)
		})

		r.Get("/config", a.handleConfigGet)
		r.Get("/modules", a.handleModules)
		r.Post("/programs/days", a.handleProgramDays)

		r.Group(func(pr chi.Router) {
			pr.Use(auth.RequireSession)

			pr.Post("/config", a.handleConfigSave)
			pr.Put("/config", a.handleConfigSave)

			pr.Get("/radios", a.handleRadiosList)
			pr.Post("/radios", a.handleRadiosCreate)

			pr.Post("/upload", a.handleUpload)
			pr.Post("/preview", a.handlePreview)
			pr.Get("/logs", a.handleLogs)

			pr.Route("/layout", func(r chi.Router) {
				r.Post("/move", a.handleLayoutMove)
				r.Post("/toggle", a.handleLayoutToggle)
				r.Post("/reset", a.handleLayoutReset)
				r.Post("/modules", a.handleLayoutAdd)
				r.Patch("/modules/{id}", a.handleLayoutSettings)
				r.Delete("/modules/{id}", a.handleLayoutRemove)
			})
		})
	})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// decodeJSON reads a JSON body of at most 1 MiB into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidJSON)
		return false
	}
	return true
}

// stationStatus maps station errors to a status and message. fallback is
// used for IO failures.
func stationStatus(err error, fallback string) (int, string) {
	switch {
	case errors.Is(err, station.ErrNotFound):
		return http.StatusNotFound, msgRadioNotFound
	case errors.Is(err, station.ErrConflict):
		return http.StatusConflict, msgRadioExists
	case errors.Is(err, station.ErrValidation):
		return http.StatusBadRequest, err.Error()
	default:
		return http.StatusInternalServerError, fallback
	}
}
