/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package web

import (
	"bytes"
	"net/http"

	"github.com/friendsincode/onradio/internal/auth"
	"github.com/friendsincode/onradio/internal/render"
)

// AdminIndex lists the stations for a signed-in admin.
func (h *Handler) AdminIndex(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	radios, err := h.stations.List(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("list stations failed")
		http.Error(w, "Failed to list radios", http.StatusInternalServerError)
		return
	}

	page := render.AdminPage{User: claims.Username, Radios: radios, BaseDomain: h.opts.BaseDomain}
	h.writeHTML(w, http.StatusOK, func(buf *bytes.Buffer) error {
		return h.renderer.RenderAdmin(buf, page)
	})
}
