/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package api

import (
	"errors"
	"net"
	"net/http"
	"strings"

	"github.com/friendsincode/onradio/internal/auth"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func (a *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	token, err := a.auth.Login(clientIP(r), req.Username, req.Password)
	switch {
	case errors.Is(err, auth.ErrRateLimited):
		writeError(w, http.StatusTooManyRequests, msgTooManyLogins)
		return
	case errors.Is(err, auth.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, msgBadCredentials)
		return
	case err != nil:
		a.logger.Error().Err(err).Msg("issue session failed")
		writeError(w, http.StatusInternalServerError, "Login failed")
		return
	}

	a.auth.SetSessionCookie(w, token)
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "token": token})
}

// handleLogout clears the session. Browser form posts are redirected to
// the login page.
func (a *API) handleLogout(w http.ResponseWriter, r *http.Request) {
	a.auth.ClearSessionCookie(w)
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/x-www-form-urlencoded") {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (a *API) handleSession(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusOK, map[string]any{"authenticated": false})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"authenticated": true, "username": claims.Username})
}
