/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package web

import (
	"bytes"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/friendsincode/onradio/internal/player"
	"github.com/friendsincode/onradio/internal/render"
	"github.com/friendsincode/onradio/internal/station"
	"github.com/friendsincode/onradio/internal/tenant"
)

// PublicPlayer renders a station's player page. Unknown stations and
// unreadable configurations get the not-found page.
func (h *Handler) PublicPlayer(w http.ResponseWriter, r *http.Request) {
	id := tenant.Sanitize(chi.URLParam(r, "subdomain"))

	cfg, err := h.stations.Get(r.Context(), id)
	if err != nil {
		if !errors.Is(err, station.ErrNotFound) && !errors.Is(err, station.ErrCorrupt) {
			h.logger.Error().Err(err).Str("tenant", id).Msg("load station for player failed")
		}
		h.writeHTML(w, http.StatusNotFound, func(buf *bytes.Buffer) error {
			return h.renderer.RenderNotFound(buf, id)
		})
		return
	}

	page := render.PlayerPage{
		Tenant: id,
		Config: cfg,
		State:  render.PlaybackState{Volume: player.DefaultVolume},
		Live:   h.opts.Live,
	}
	h.writeHTML(w, http.StatusOK, func(buf *bytes.Buffer) error {
		return h.renderer.RenderPlayer(buf, page)
	})
}
