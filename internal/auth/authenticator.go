/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package auth

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/friendsincode/onradio/internal/telemetry"
)

// CookieName is the session cookie set on a successful login.
const CookieName = "onradio_session"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrRateLimited        = errors.New("too many login attempts")
)

// Options configures an Authenticator.
type Options struct {
	Username      string
	PasswordHash  string
	SigningKey    []byte
	SessionTTL    time.Duration
	RatePerMinute int
	SecureCookies bool
}

// Authenticator checks admin credentials and issues session cookies.
type Authenticator struct {
	opts   Options
	logger zerolog.Logger

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

// NewAuthenticator creates an authenticator.
func NewAuthenticator(opts Options, logger zerolog.Logger) *Authenticator {
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = 24 * time.Hour
	}
	if opts.RatePerMinute <= 0 {
		opts.RatePerMinute = 10
	}
	logger = logger.With().Str("component", "auth").Logger()
	if opts.PasswordHash == "" {
		logger.Warn().Msg("no admin password hash configured, logins are disabled; run `onradio hash-password`")
	}
	return &Authenticator{
		opts:     opts,
		logger:   logger,
		limiters: make(map[string]*rate.Limiter),
	}
}

func (a *Authenticator) limiter(key string) *rate.Limiter {
	a.mu.Lock()
	defer a.mu.Unlock()
	l, ok := a.limiters[key]
	if !ok {
		l = rate.NewLimiter(rate.Every(time.Minute/time.Duration(a.opts.RatePerMinute)), a.opts.RatePerMinute)
		a.limiters[key] = l
	}
	return l
}

// Login verifies credentials for a client and returns a session token.
func (a *Authenticator) Login(client, username, password string) (string, error) {
	if !a.limiter(client).Allow() {
		telemetry.LoginAttemptsTotal.WithLabelValues("rate_limited").Inc()
		a.logger.Warn().Str("client", client).Msg("login rate limited")
		return "", ErrRateLimited
	}

	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(a.opts.Username)) == 1
	passOK := a.opts.PasswordHash != "" && CheckPassword(a.opts.PasswordHash, password)
	if !userOK || !passOK {
		telemetry.LoginAttemptsTotal.WithLabelValues("invalid").Inc()
		a.logger.Info().Str("client", client).Str("username", username).Msg("login failed")
		return "", ErrInvalidCredentials
	}

	token, err := Issue(a.opts.SigningKey, username, a.opts.SessionTTL)
	if err != nil {
		return "", err
	}
	telemetry.LoginAttemptsTotal.WithLabelValues("success").Inc()
	a.logger.Info().Str("username", username).Msg("admin logged in")
	return token, nil
}

// SetSessionCookie stores token in the session cookie.
func (a *Authenticator) SetSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(a.opts.SessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   a.opts.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionCookie expires the session cookie.
func (a *Authenticator) ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   a.opts.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

// Claims returns the session carried by r, from the cookie or a Bearer header.
func (a *Authenticator) Claims(r *http.Request) (*Claims, bool) {
	token := extractToken(r)
	if token == "" {
		return nil, false
	}
	claims, err := Parse(a.opts.SigningKey, token)
	if err != nil {
		return nil, false
	}
	return claims, true
}

// Authenticated reports whether r carries a valid session.
func (a *Authenticator) Authenticated(r *http.Request) bool {
	_, ok := a.Claims(r)
	return ok
}
