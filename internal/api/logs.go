/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package api

import (
	"net/http"
	"strconv"

	"github.com/friendsincode/onradio/internal/logbuffer"
)

const defaultLogLimit = 200

// SetLogBuffer enables GET /api/logs.
func (a *API) SetLogBuffer(b *logbuffer.Buffer) {
	a.logs = b
}

func (a *API) handleLogs(w http.ResponseWriter, r *http.Request) {
	if a.logs == nil {
		writeError(w, http.StatusNotFound, "Log capture disabled")
		return
	}

	q := r.URL.Query()
	limit, err := strconv.Atoi(q.Get("limit"))
	if err != nil || limit <= 0 {
		limit = defaultLogLimit
	}

	entries := a.logs.Find(logbuffer.Query{
		Level:     q.Get("level"),
		Component: q.Get("component"),
		Tenant:    q.Get("tenant"),
		Search:    q.Get("q"),
		Limit:     limit,
	})
	writeJSON(w, http.StatusOK, map[string]any{
		"entries":    entries,
		"components": a.logs.Components(),
	})
}
