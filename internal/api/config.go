/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package api

import (
	"bytes"
	"errors"
	"net/http"

	"github.com/friendsincode/onradio/internal/layout"
	"github.com/friendsincode/onradio/internal/models"
	"github.com/friendsincode/onradio/internal/render"
	"github.com/friendsincode/onradio/internal/station"
)

// handleConfigGet returns the normalized configuration of ?subdomain=,
// or of the default tenant when the parameter is missing.
func (a *API) handleConfigGet(w http.ResponseWriter, r *http.Request) {
	cfg, err := a.stations.Get(r.Context(), r.URL.Query().Get("subdomain"))
	if err != nil {
		status, msg := stationStatus(err, msgReadFailed)
		writeError(w, status, msg)
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

func (a *API) handleConfigSave(w http.ResponseWriter, r *http.Request) {
	var cfg models.StationConfig
	if !decodeJSON(w, r, &cfg) {
		return
	}

	saved, err := a.stations.Save(r.Context(), r.URL.Query().Get("subdomain"), cfg)
	if err != nil {
		status, msg := stationStatus(err, msgSaveFailed)
		writeError(w, status, msg)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "config": saved})
}

func (a *API) handleRadiosList(w http.ResponseWriter, r *http.Request) {
	ids, err := a.stations.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, msgListFailed)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"radios": ids})
}

type createRadioRequest struct {
	Name string `json:"name"`
}

func (a *API) handleRadiosCreate(w http.ResponseWriter, r *http.Request) {
	var req createRadioRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	id, err := a.stations.Create(r.Context(), req.Name)
	switch {
	case errors.Is(err, station.ErrValidation):
		writeError(w, http.StatusBadRequest, msgNameRequired)
	case err != nil:
		status, msg := stationStatus(err, msgCreateFailed)
		writeError(w, status, msg)
	default:
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "name": id})
	}
}

func (a *API) handleModules(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"modules": layout.Registry})
}

type programDaysRequest struct {
	Days string `json:"days"`
	Day  string `json:"day"`
}

func (a *API) handleProgramDays(w http.ResponseWriter, r *http.Request) {
	var req programDaysRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"days": models.ToggleDay(req.Days, req.Day)})
}

// handlePreview renders an unsaved configuration the way the editor's
// preview pane shows it.
func (a *API) handlePreview(w http.ResponseWriter, r *http.Request) {
	var cfg models.StationConfig
	if !decodeJSON(w, r, &cfg) {
		return
	}
	if err := a.stations.Validate(cfg); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var buf bytes.Buffer
	page := render.PlayerPage{
		Tenant:  r.URL.Query().Get("subdomain"),
		Config:  models.Normalize(cfg),
		State:   render.PlaybackState{Volume: 0.7},
		Preview: true,
	}
	if err := a.renderer.RenderPlayer(&buf, page); err != nil {
		a.logger.Error().Err(err).Msg("preview render failed")
		writeError(w, http.StatusInternalServerError, "Failed to render preview")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}
