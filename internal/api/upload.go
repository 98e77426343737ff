/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package api

import (
	"errors"
	"net/http"

	"github.com/friendsincode/onradio/internal/events"
	"github.com/friendsincode/onradio/internal/media"
	"github.com/friendsincode/onradio/internal/telemetry"
	"github.com/friendsincode/onradio/internal/tenant"
)

const multipartOverhead = 1 << 20

func (a *API) handleUpload(w http.ResponseWriter, r *http.Request) {
	limit := a.maxUploadBytes
	if limit <= 0 {
		limit = 20 << 20
	}
	r.Body = http.MaxBytesReader(w, r.Body, limit+multipartOverhead)

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			telemetry.UploadsTotal.WithLabelValues("too_large").Inc()
			writeError(w, http.StatusRequestEntityTooLarge, msgFileTooLarge)
			return
		}
		writeError(w, http.StatusBadRequest, msgNoFiles)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, msgNoFiles)
		return
	}
	defer file.Close()

	url, err := a.media.Upload(r.Context(), header.Filename, file)
	switch {
	case errors.Is(err, media.ErrNoFile):
		writeError(w, http.StatusBadRequest, msgNoFiles)
		return
	case errors.Is(err, media.ErrTooLarge):
		telemetry.UploadsTotal.WithLabelValues("too_large").Inc()
		writeError(w, http.StatusRequestEntityTooLarge, msgFileTooLarge)
		return
	case err != nil:
		telemetry.UploadsTotal.WithLabelValues("error").Inc()
		writeError(w, http.StatusInternalServerError, msgUploadFailed)
		return
	}

	telemetry.UploadsTotal.WithLabelValues("ok").Inc()
	telemetry.UploadBytes.Add(float64(header.Size))

	if a.bus != nil {
		payload := events.Payload{events.KeyURL: url}
		if sub := r.URL.Query().Get("subdomain"); sub != "" {
			payload[events.KeyTenant] = tenant.Sanitize(sub)
		}
		a.bus.Publish(events.EventAssetUploaded, payload)
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "url": url})
}
