/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package telemetry

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// APIRequestDuration tracks HTTP request latency.
	APIRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "onradio_api_request_duration_seconds",
		Help:    "HTTP request latency by method, route and status.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "endpoint", "status"})

	APIRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "onradio_api_requests_total",
		Help: "HTTP requests by method, route and status.",
	}, []string{"method", "endpoint", "status"})

	APIActiveConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "onradio_api_active_connections",
		Help: "In-flight HTTP requests.",
	})

	// ConfigReadsTotal counts station config reads by result
	// (hit, miss, not_found, corrupt, error).
	ConfigReadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "onradio_config_reads_total",
		Help: "Station configuration reads by result.",
	}, []string{"result"})

	ConfigWritesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "onradio_config_writes_total",
		Help: "Station configuration writes by operation and result.",
	}, []string{"operation", "result"})

	UploadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "onradio_uploads_total",
		Help: "Asset uploads by result.",
	}, []string{"result"})

	UploadBytes = promauto.NewCounter(prometheus.CounterOpts{
		Name: "onradio_upload_bytes_total",
		Help: "Bytes accepted by the upload endpoint.",
	})

	PlayerSessionsActive = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "onradio_player_sessions_active",
		Help: "Connected live player sockets per tenant.",
	}, []string{"tenant"})

	LoginAttemptsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "onradio_login_attempts_total",
		Help: "Admin login attempts by result (success, invalid, rate_limited).",
	}, []string{"result"})

	// CacheRequestsTotal counts Redis cache calls by operation and result
	// (hit, miss, error).
	CacheRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "onradio_cache_requests_total",
		Help: "Redis cache calls by operation and result.",
	}, []string{"operation", "result"})

	CacheInvalidationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "onradio_cache_invalidations_total",
		Help: "Cache invalidations triggered by events.",
	}, []string{"event"})
)

// Handler exposes the metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
