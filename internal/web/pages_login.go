/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package web

import (
	"bytes"
	"errors"
	"net/http"

	"github.com/friendsincode/onradio/internal/auth"
	"github.com/friendsincode/onradio/internal/render"
)

const (
	loginFailed      = "Usuario o contraseña incorrectos"
	loginRateLimited = "Demasiados intentos, probá de nuevo en un minuto"
)

// LoginPage renders the login form, or sends a signed-in admin home.
func (h *Handler) LoginPage(w http.ResponseWriter, r *http.Request) {
	if _, ok := auth.ClaimsFromContext(r.Context()); ok {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}
	h.writeHTML(w, http.StatusOK, func(buf *bytes.Buffer) error {
		return h.renderer.RenderLogin(buf, render.LoginPage{})
	})
}

// LoginSubmit handles the login form post.
func (h *Handler) LoginSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	username := r.PostFormValue("username")

	token, err := h.auth.Login(clientIP(r), username, r.PostFormValue("password"))
	if err != nil {
		status, msg := http.StatusUnauthorized, loginFailed
		switch {
		case errors.Is(err, auth.ErrRateLimited):
			status, msg = http.StatusTooManyRequests, loginRateLimited
		case !errors.Is(err, auth.ErrInvalidCredentials):
			h.logger.Error().Err(err).Msg("login failed")
			status = http.StatusInternalServerError
		}
		h.writeHTML(w, status, func(buf *bytes.Buffer) error {
			return h.renderer.RenderLogin(buf, render.LoginPage{Username: username, Error: msg})
		})
		return
	}

	h.auth.SetSessionCookie(w, token)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
