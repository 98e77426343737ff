/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/friendsincode/onradio/internal/api"
	"github.com/friendsincode/onradio/internal/auth"
	"github.com/friendsincode/onradio/internal/cache"
	"github.com/friendsincode/onradio/internal/config"
	"github.com/friendsincode/onradio/internal/eventbus"
	"github.com/friendsincode/onradio/internal/logbuffer"
	"github.com/friendsincode/onradio/internal/media"
	"github.com/friendsincode/onradio/internal/render"
	"github.com/friendsincode/onradio/internal/station"
	"github.com/friendsincode/onradio/internal/storage"
	"github.com/friendsincode/onradio/internal/telemetry"
	"github.com/friendsincode/onradio/internal/tenant"
	"github.com/friendsincode/onradio/internal/version"
	"github.com/friendsincode/onradio/internal/web"
)

// Server bundles HTTP and supporting services.
type Server struct {
	cfg        *config.Config
	logger     zerolog.Logger
	router     chi.Router
	httpServer *http.Server
	closers    []func() error

	store      storage.ObjectStore
	cache      *cache.Cache
	bus        eventbus.Bus
	logBuffer  *logbuffer.Buffer
	stations   *station.Service
	media      *media.Service
	auth       *auth.Authenticator
	resolver   *tenant.Resolver
	api        *api.API
	webHandler *web.Handler

	bgCancel context.CancelFunc
	bgWG     sync.WaitGroup
}

// New wires every service and the router. logBuf may be nil.
func New(cfg *config.Config, logBuf *logbuffer.Buffer, logger zerolog.Logger) (*Server, error) {
	for _, warn := range cfg.LegacyEnvWarnings {
		logger.Warn().Msg(warn)
	}

	srv := &Server{
		cfg:       cfg,
		logger:    logger,
		logBuffer: logBuf,
	}

	if err := srv.initDependencies(); err != nil {
		_ = srv.Close()
		return nil, err
	}

	srv.router = srv.buildRouter()
	srv.startBackgroundWorkers()

	addr := fmt.Sprintf("%s:%d", cfg.HTTPBind, cfg.HTTPPort)
	srv.httpServer = &http.Server{
		Addr:              addr,
		Handler:           srv.router,
		ReadHeaderTimeout: 15 * time.Second,
		// Player sockets are long lived; handlers manage their own deadlines.
		WriteTimeout: 0,
		IdleTimeout:  60 * time.Second,
	}

	return srv, nil
}

func (s *Server) initDependencies() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	store, err := storage.Open(ctx, s.cfg, s.logger)
	if err != nil {
		return err
	}
	s.store = store

	if s.cfg.CacheEnabled {
		cc := cache.DefaultConfig()
		cc.RedisAddr = s.cfg.RedisAddr
		cc.RedisPassword = s.cfg.RedisPassword
		cc.RedisDB = s.cfg.RedisDB
		c, err := cache.New(cc, s.logger)
		if err != nil {
			return fmt.Errorf("init cache: %w", err)
		}
		s.cache = c
		s.DeferClose(c.Close)
	} else {
		s.cache = cache.Disabled(s.logger)
	}

	bus, err := eventbus.New(s.cfg, s.logger)
	if err != nil {
		return fmt.Errorf("init event bus: %w", err)
	}
	s.bus = bus
	s.DeferClose(bus.Close)

	s.stations = station.NewService(s.store, s.cache, s.bus, s.logger)
	if err := s.stations.SeedDefault(ctx); err != nil {
		return fmt.Errorf("seed default station: %w", err)
	}

	mediaSvc, err := media.NewService(ctx, s.cfg, s.logger)
	if err != nil {
		return fmt.Errorf("init media service: %w", err)
	}
	s.media = mediaSvc

	s.auth = auth.NewAuthenticator(auth.Options{
		Username:      s.cfg.AdminUser,
		PasswordHash:  s.cfg.AdminPasswordHash,
		SigningKey:    []byte(s.cfg.JWTSigningKey),
		SessionTTL:    s.cfg.SessionTTL,
		RatePerMinute: s.cfg.LoginRatePerMinute,
		SecureCookies: s.cfg.SecureCookies,
	}, s.logger)

	s.resolver = tenant.NewResolver(tenant.Config{
		AdminHost:   s.cfg.AdminHost,
		BaseDomain:  s.cfg.BaseDomain,
		AdminLabel:  s.cfg.AdminLabel,
		Development: s.cfg.Development(),
	})

	renderer, err := render.New()
	if err != nil {
		return fmt.Errorf("load templates: %w", err)
	}

	s.api = api.New(s.stations, s.media, s.auth, renderer, s.bus, s.cfg.MaxUploadSizeBytes(), s.logger)
	if s.logBuffer != nil {
		s.api.SetLogBuffer(s.logBuffer)
	}

	uploadDir := ""
	if s.cfg.StoreBackend != config.StoreS3 {
		uploadDir = s.cfg.UploadDir
	}
	s.webHandler = web.NewHandler(s.stations, renderer, s.auth, s.bus, web.Options{
		UploadDir:  uploadDir,
		BaseDomain: s.cfg.BaseDomain,
		Live:       true,
	}, s.logger)

	return nil
}

func (s *Server) buildRouter() chi.Router {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(securityHeadersMiddleware)
	router.Use(telemetry.TracingMiddleware("onradio"))
	router.Use(telemetry.MetricsMiddleware)
	// Skip timeout for player sockets and uploads.
	router.Use(func(next http.Handler) http.Handler {
		timeout := middleware.Timeout(60 * time.Second)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Upgrade") == "websocket" || r.URL.Path == "/api/upload" {
				next.ServeHTTP(w, r)
				return
			}
			timeout(next).ServeHTTP(w, r)
		})
	})
	// Host routing must run before route matching so tenant rewrites apply.
	router.Use(tenant.Middleware(s.resolver, s.auth.Authenticated, s.logger))
	router.Use(auth.Middleware(s.auth))

	router.Get("/healthz", s.handleHealth)
	router.Handle("/metrics", telemetry.Handler())

	s.api.Routes(router)
	s.webHandler.Routes(router)

	return router
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status, code := "ok", http.StatusOK
	if checker, ok := s.store.(storage.AccessChecker); ok {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()
		if err := checker.CheckAccess(ctx); err != nil {
			s.logger.Warn().Err(err).Msg("health check: config store unreachable")
			status, code = "degraded", http.StatusServiceUnavailable
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status":  status,
		"version": version.Version,
	})
}

func securityHeadersMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		frameAncestors := "'none'"
		xFrameOptions := "DENY"
		if isEmbeddablePath(r.URL.Path) {
			// The editor shows the player in a same-origin iframe.
			frameAncestors = "'self'"
			xFrameOptions = "SAMEORIGIN"
		}
		w.Header().Set("X-Frame-Options", xFrameOptions)
		w.Header().Set("Content-Security-Policy", "default-src 'self' 'unsafe-inline' data: blob: https: http:; connect-src 'self' ws: wss: https:; frame-ancestors "+frameAncestors+"; base-uri 'self'")

		if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
			w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}

		next.ServeHTTP(w, r)
	})
}

func isEmbeddablePath(path string) bool {
	return path == "/api/preview" || strings.HasPrefix(path, tenant.PublicPlayerPrefix)
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// HTTPServer returns the configured HTTP server.
func (s *Server) HTTPServer() *http.Server {
	return s.httpServer
}

// Close releases owned resources in reverse order.
func (s *Server) Close() error {
	s.stopBackgroundWorkers()
	var firstErr error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	s.closers = nil
	return firstErr
}

// DeferClose registers a cleanup hook.
func (s *Server) DeferClose(fn func() error) {
	s.closers = append(s.closers, fn)
}

func (s *Server) startBackgroundWorkers() {
	ctx, cancel := context.WithCancel(context.Background())
	s.bgCancel = cancel

	if s.cfg.CacheEnabled {
		s.bgWG.Add(1)
		go func() {
			defer s.bgWG.Done()
			s.stations.RunCacheInvalidation(ctx)
		}()
	}
}

func (s *Server) stopBackgroundWorkers() {
	if s.bgCancel == nil {
		return
	}
	s.bgCancel()
	s.bgWG.Wait()
	s.bgCancel = nil
}
