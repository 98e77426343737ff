/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package tenant

import "strings"

// PublicPlayerPrefix is the internal route serving a station's player.
const PublicPlayerPrefix = "/public-player/"

// Kind is the outcome of routing a request by host.
type Kind int

const (
	// AdminApp serves the admin panel, possibly behind the login gate.
	AdminApp Kind = iota
	// PublicPlayer passes a tenant request through unchanged.
	PublicPlayer
	// Rewrite serves the tenant's player in place of the requested path.
	Rewrite
)

func (k Kind) String() string {
	switch k {
	case AdminApp:
		return "admin"
	case PublicPlayer:
		return "public_player"
	case Rewrite:
		return "rewrite"
	default:
		return "unknown"
	}
}

// RoutingDecision is produced once per request and consumed by later stages.
type RoutingDecision struct {
	Kind   Kind
	Tenant string // set for PublicPlayer and Rewrite
	Path   string // rewritten path for Rewrite, original path otherwise
	Gated  bool   // admin request that needs an authenticated session
}

// Config describes the host layout of a deployment.
type Config struct {
	AdminHost   string // e.g. panelpro.onradio.com.ar, or localhost:3000 in development
	BaseDomain  string // e.g. onradio.com.ar
	AdminLabel  string // e.g. panelpro
	Development bool
}

// Resolver decides how a request is routed from its host and path.
type Resolver struct {
	cfg Config
}

// NewResolver creates a resolver for cfg.
func NewResolver(cfg Config) *Resolver {
	return &Resolver{cfg: cfg}
}

// Resolve routes a request. Tenant hosts are never gated; every other
// host is treated as the admin app.
func (r *Resolver) Resolve(host, path string) RoutingDecision {
	if path == "" {
		path = "/"
	}

	if sub := r.Subdomain(host); sub != "" {
		id := Sanitize(sub)
		if path == "/" {
			return RoutingDecision{Kind: Rewrite, Tenant: id, Path: PublicPlayerPrefix + id}
		}
		return RoutingDecision{Kind: PublicPlayer, Tenant: id, Path: path}
	}

	return RoutingDecision{Kind: AdminApp, Path: path, Gated: !IsPublicPath(path)}
}

// IsAdminHost reports whether host is (or contains) the admin host.
func (r *Resolver) IsAdminHost(host string) bool {
	admin := r.cfg.AdminHost
	return admin != "" && (host == admin || strings.Contains(host, admin))
}

// Subdomain extracts the tenant label from host, or "" when the host does
// not address a station.
func (r *Resolver) Subdomain(host string) string {
	var sub string

	base := r.cfg.BaseDomain
	if !r.IsAdminHost(host) && base != "" && strings.Contains(host, "."+base) {
		label := strings.Split(strings.Replace(host, "."+base, "", 1), ".")[0]
		if label != "" && label != "www" && label != host && label != r.cfg.AdminLabel {
			sub = label
		}
	}

	// test.localhost:3000 style hosts for local work.
	if r.cfg.Development && strings.Contains(host, ".localhost") && !strings.HasPrefix(host, "localhost") {
		sub = strings.Split(host, ".")[0]
	}

	return sub
}

var publicPrefixes = []string{
	"/api/auth",
	"/_next",
	"/static",
	"/favicon.ico",
	"/public-player",
	"/uploads",
	"/healthz",
	"/metrics",
	"/ws/player",
}

// IsPublicPath reports whether an admin-host path is reachable without a session.
func IsPublicPath(path string) bool {
	if path == "/login" {
		return true
	}
	for _, prefix := range publicPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}
