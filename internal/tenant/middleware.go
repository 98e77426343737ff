/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package tenant

import (
	"context"
	"net/http"
	"strings"

	"github.com/rs/zerolog"
)

type ctxKey struct{}

// WithDecision stores the routing decision on ctx.
func WithDecision(ctx context.Context, d RoutingDecision) context.Context {
	return context.WithValue(ctx, ctxKey{}, d)
}

// FromContext returns the routing decision made for the request.
func FromContext(ctx context.Context) (RoutingDecision, bool) {
	d, ok := ctx.Value(ctxKey{}).(RoutingDecision)
	return d, ok
}

// AuthCheck reports whether a request carries a valid admin session.
type AuthCheck func(r *http.Request) bool

// Middleware routes every request by host. It must run before the router
// matches a route so rewrites take effect.
func Middleware(resolver *Resolver, authenticated AuthCheck, logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			decision := resolver.Resolve(r.Host, r.URL.Path)

			switch decision.Kind {
			case Rewrite:
				logger.Debug().Str("host", r.Host).Str("tenant", decision.Tenant).Msg("rewriting tenant root to player")
				r.URL.Path = decision.Path
				r.URL.RawPath = ""
			case AdminApp:
				if decision.Gated && (authenticated == nil || !authenticated(r)) {
					if strings.HasPrefix(r.URL.Path, "/api/") {
						w.Header().Set("Content-Type", "application/json")
						w.WriteHeader(http.StatusUnauthorized)
						_, _ = w.Write([]byte(`{"error":"unauthorized"}`))
						return
					}
					http.Redirect(w, r, "/login", http.StatusFound)
					return
				}
			}

			next.ServeHTTP(w, r.WithContext(WithDecision(r.Context(), decision)))
		})
	}
}
