/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/friendsincode/onradio/internal/layout"
	"github.com/friendsincode/onradio/internal/models"
)

type layoutEdit func(models.PlayerLayout) (models.PlayerLayout, error)

// editModules lifts a module-list operation to a layout edit.
func editModules(op func([]models.ModuleConfig) ([]models.ModuleConfig, error)) layoutEdit {
	return func(l models.PlayerLayout) (models.PlayerLayout, error) {
		mods, err := op(l.Modules)
		if err != nil {
			return l, err
		}
		l.Modules = mods
		return l, nil
	}
}

func (a *API) applyLayout(w http.ResponseWriter, r *http.Request, edit layoutEdit) {
	l, err := a.stations.UpdateLayout(r.Context(), r.URL.Query().Get("subdomain"), edit)
	if err != nil {
		status, msg := layoutStatus(err)
		writeError(w, status, msg)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

func layoutStatus(err error) (int, string) {
	switch {
	case errors.Is(err, layout.ErrRequiredModule):
		return http.StatusUnprocessableEntity, err.Error()
	case errors.Is(err, layout.ErrModuleNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, layout.ErrIndexOutOfRange),
		errors.Is(err, layout.ErrUnknownType),
		errors.Is(err, layout.ErrInvalidSettings),
		errors.Is(err, layout.ErrDuplicateID):
		return http.StatusBadRequest, err.Error()
	default:
		return stationStatus(err, msgSaveFailed)
	}
}

type moveRequest struct {
	From     *int   `json:"from"`
	To       *int   `json:"to"`
	ActiveID string `json:"activeId"`
	OverID   string `json:"overId"`
}

// handleLayoutMove accepts either indexes or the active/over ids a drag
// gesture reports.
func (a *API) handleLayoutMove(w http.ResponseWriter, r *http.Request) {
	var req moveRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	switch {
	case req.From != nil && req.To != nil:
		from, to := *req.From, *req.To
		a.applyLayout(w, r, editModules(func(m []models.ModuleConfig) ([]models.ModuleConfig, error) {
			return layout.Move(m, from, to)
		}))
	case req.ActiveID != "" && req.OverID != "":
		a.applyLayout(w, r, editModules(func(m []models.ModuleConfig) ([]models.ModuleConfig, error) {
			return layout.MoveByID(m, req.ActiveID, req.OverID)
		}))
	default:
		writeError(w, http.StatusBadRequest, "from/to or activeId/overId required")
	}
}

type moduleIDRequest struct {
	ID string `json:"id"`
}

func (a *API) handleLayoutToggle(w http.ResponseWriter, r *http.Request) {
	var req moduleIDRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	a.applyLayout(w, r, editModules(func(m []models.ModuleConfig) ([]models.ModuleConfig, error) {
		return layout.Toggle(m, req.ID)
	}))
}

func (a *API) handleLayoutSettings(w http.ResponseWriter, r *http.Request) {
	var patch layout.SettingsPatch
	if !decodeJSON(w, r, &patch) {
		return
	}
	id := chi.URLParam(r, "id")
	a.applyLayout(w, r, editModules(func(m []models.ModuleConfig) ([]models.ModuleConfig, error) {
		return layout.UpdateSettings(m, id, patch)
	}))
}

type addModuleRequest struct {
	Type models.ModuleType `json:"type"`
}

func (a *API) handleLayoutAdd(w http.ResponseWriter, r *http.Request) {
	var req addModuleRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	a.applyLayout(w, r, editModules(func(m []models.ModuleConfig) ([]models.ModuleConfig, error) {
		return layout.Add(m, req.Type)
	}))
}

func (a *API) handleLayoutRemove(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	a.applyLayout(w, r, editModules(func(m []models.ModuleConfig) ([]models.ModuleConfig, error) {
		return layout.Remove(m, id)
	}))
}

func (a *API) handleLayoutReset(w http.ResponseWriter, r *http.Request) {
	a.applyLayout(w, r, func(models.PlayerLayout) (models.PlayerLayout, error) {
		return layout.Reset(), nil
	})
}
