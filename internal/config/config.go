/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// StoreBackend selects where station configuration documents live.
type StoreBackend string

const (
	StoreFilesystem StoreBackend = "fs"
	StoreS3         StoreBackend = "s3"
)

// EventBusBackend selects how events travel between instances.
type EventBusBackend string

const (
	EventBusMemory EventBusBackend = "memory"
	EventBusRedis  EventBusBackend = "redis"
	EventBusNATS   EventBusBackend = "nats"
)

const (
	defaultProductionAdminHost  = "panelpro.onradio.com.ar"
	defaultDevelopmentAdminHost = "localhost:3000"
)

// Config covers process level configuration read from environment variables.
type Config struct {
	Environment     string
	HTTPBind        string
	HTTPPort        int
	AdminHost       string // Host serving the admin panel; radio hosts are everything else under BaseDomain
	BaseDomain      string
	AdminLabel      string // Leftmost label of the admin host, never treated as a tenant
	DataDir         string
	UploadDir       string
	UploadURLPrefix string
	MaxUploadSizeMB int
	StoreBackend    StoreBackend

	// S3 object storage (configs and uploads)
	S3AccessKeyID     string
	S3SecretAccessKey string
	S3Region          string
	S3Bucket          string
	S3Endpoint        string // For S3-compatible services (MinIO, R2, ...)
	S3PublicBaseURL   string
	S3UsePathStyle    bool
	S3ConfigPrefix    string
	S3UploadPrefix    string

	// Admin session
	JWTSigningKey      string
	AdminUser          string
	AdminPasswordHash  string // bcrypt
	SessionTTL         time.Duration
	LoginRatePerMinute int
	SecureCookies      bool

	// Cache and multi-instance
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CacheEnabled  bool
	EventBus      EventBusBackend
	NATSURL       string
	InstanceID    string

	// Tracing
	TracingEnabled    bool
	OTLPEndpoint      string
	TracingSampleRate float64

	LegacyEnvWarnings []string
}

// Load reads environment variables, applies defaults, and validates the result.
func Load() (*Config, error) {
	env := getEnvAny([]string{"ONRADIO_ENV", "NODE_ENV"}, "development")
	if !IsProduction(env) {
		// A missing .env is normal outside local development.
		_ = godotenv.Load()
		env = getEnvAny([]string{"ONRADIO_ENV", "NODE_ENV"}, "development")
	}

	defaultAdminHost := defaultDevelopmentAdminHost
	if IsProduction(env) {
		defaultAdminHost = defaultProductionAdminHost
	}

	cfg := &Config{
		Environment:     env,
		HTTPBind:        getEnvAny([]string{"ONRADIO_HTTP_BIND"}, "0.0.0.0"),
		HTTPPort:        getEnvIntAny([]string{"ONRADIO_HTTP_PORT", "PORT"}, 3000),
		AdminHost:       getEnvAny([]string{"ONRADIO_ADMIN_HOST"}, defaultAdminHost),
		BaseDomain:      getEnvAny([]string{"ONRADIO_BASE_DOMAIN"}, "onradio.com.ar"),
		AdminLabel:      getEnvAny([]string{"ONRADIO_ADMIN_LABEL"}, "panelpro"),
		DataDir:         getEnvAny([]string{"ONRADIO_DATA_DIR"}, "data/radios"),
		UploadDir:       getEnvAny([]string{"ONRADIO_UPLOAD_DIR"}, "public/uploads"),
		UploadURLPrefix: getEnvAny([]string{"ONRADIO_UPLOAD_URL_PREFIX"}, "/uploads"),
		MaxUploadSizeMB: getEnvIntAny([]string{"ONRADIO_MAX_UPLOAD_SIZE_MB"}, 20),
		StoreBackend:    StoreBackend(getEnvAny([]string{"ONRADIO_STORE_BACKEND"}, string(StoreFilesystem))),

		S3AccessKeyID:     getEnvAny([]string{"ONRADIO_S3_ACCESS_KEY_ID", "AWS_ACCESS_KEY_ID"}, ""),
		S3SecretAccessKey: getEnvAny([]string{"ONRADIO_S3_SECRET_ACCESS_KEY", "AWS_SECRET_ACCESS_KEY"}, ""),
		S3Region:          getEnvAny([]string{"ONRADIO_S3_REGION", "AWS_REGION"}, "us-east-1"),
		S3Bucket:          getEnvAny([]string{"ONRADIO_S3_BUCKET", "S3_BUCKET"}, ""),
		S3Endpoint:        getEnvAny([]string{"ONRADIO_S3_ENDPOINT", "S3_ENDPOINT"}, ""),
		S3PublicBaseURL:   getEnvAny([]string{"ONRADIO_S3_PUBLIC_BASE_URL", "S3_PUBLIC_BASE_URL"}, ""),
		S3UsePathStyle:    getEnvBoolAny([]string{"ONRADIO_S3_USE_PATH_STYLE", "S3_USE_PATH_STYLE"}, false),
		S3ConfigPrefix:    getEnvAny([]string{"ONRADIO_S3_CONFIG_PREFIX"}, "radios/"),
		S3UploadPrefix:    getEnvAny([]string{"ONRADIO_S3_UPLOAD_PREFIX"}, "uploads/"),

		JWTSigningKey:      getEnvAny([]string{"ONRADIO_JWT_SIGNING_KEY", "NEXTAUTH_SECRET"}, ""),
		AdminUser:          getEnvAny([]string{"ONRADIO_ADMIN_USER"}, "admin"),
		AdminPasswordHash:  getEnvAny([]string{"ONRADIO_ADMIN_PASSWORD_HASH"}, ""),
		SessionTTL:         time.Duration(getEnvIntAny([]string{"ONRADIO_SESSION_TTL_HOURS"}, 24)) * time.Hour,
		LoginRatePerMinute: getEnvIntAny([]string{"ONRADIO_LOGIN_RATE_PER_MINUTE"}, 10),
		SecureCookies:      getEnvBoolAny([]string{"ONRADIO_SECURE_COOKIES"}, IsProduction(env)),

		RedisAddr:     getEnvAny([]string{"ONRADIO_REDIS_ADDR", "REDIS_ADDR"}, "localhost:6379"),
		RedisPassword: getEnvAny([]string{"ONRADIO_REDIS_PASSWORD", "REDIS_PASSWORD"}, ""),
		RedisDB:       getEnvIntAny([]string{"ONRADIO_REDIS_DB", "REDIS_DB"}, 0),
		CacheEnabled:  getEnvBoolAny([]string{"ONRADIO_CACHE_ENABLED"}, false),
		EventBus:      EventBusBackend(getEnvAny([]string{"ONRADIO_EVENTBUS"}, string(EventBusMemory))),
		NATSURL:       getEnvAny([]string{"ONRADIO_NATS_URL", "NATS_URL"}, "nats://localhost:4222"),
		InstanceID:    getEnvAny([]string{"ONRADIO_INSTANCE_ID"}, ""),

		TracingEnabled:    getEnvBoolAny([]string{"ONRADIO_TRACING_ENABLED"}, false),
		OTLPEndpoint:      getEnvAny([]string{"ONRADIO_OTLP_ENDPOINT"}, "localhost:4317"),
		TracingSampleRate: getEnvFloatAny([]string{"ONRADIO_TRACING_SAMPLE_RATE"}, 1.0),
	}

	if cfg.StoreBackend != StoreFilesystem && cfg.StoreBackend != StoreS3 {
		return nil, fmt.Errorf("unsupported store backend %q", cfg.StoreBackend)
	}
	if cfg.StoreBackend == StoreS3 && cfg.S3Bucket == "" {
		return nil, fmt.Errorf("ONRADIO_S3_BUCKET must be provided when ONRADIO_STORE_BACKEND=s3")
	}

	switch cfg.EventBus {
	case EventBusMemory, EventBusRedis, EventBusNATS:
	default:
		return nil, fmt.Errorf("unsupported event bus %q", cfg.EventBus)
	}

	if cfg.HTTPPort <= 0 || cfg.HTTPPort > 65535 {
		return nil, fmt.Errorf("invalid http port %d", cfg.HTTPPort)
	}

	if IsProduction(cfg.Environment) {
		if cfg.JWTSigningKey == "" {
			return nil, fmt.Errorf("ONRADIO_JWT_SIGNING_KEY must be provided in production")
		}
		if cfg.AdminPasswordHash == "" {
			return nil, fmt.Errorf("ONRADIO_ADMIN_PASSWORD_HASH must be provided in production")
		}
	}
	if cfg.JWTSigningKey == "" {
		cfg.JWTSigningKey = "onradio-development-key"
	}

	cfg.LegacyEnvWarnings = detectLegacyEnvWarnings()

	return cfg, nil
}

// IsProduction reports whether env names a production deployment.
func IsProduction(env string) bool {
	return strings.EqualFold(strings.TrimSpace(env), "production")
}

// Development reports whether the development routing rules apply.
func (c *Config) Development() bool {
	return c != nil && !IsProduction(c.Environment)
}

// MaxUploadSizeBytes returns the configured upload limit in bytes.
// A value of 0 means "not configured" and callers should use endpoint defaults.
func (c *Config) MaxUploadSizeBytes() int64 {
	if c == nil || c.MaxUploadSizeMB <= 0 {
		return 0
	}
	return int64(c.MaxUploadSizeMB) * 1024 * 1024
}

func detectLegacyEnvWarnings() []string {
	legacy := map[string]string{
		"NODE_ENV":        "use ONRADIO_ENV",
		"PORT":            "use ONRADIO_HTTP_PORT",
		"NEXTAUTH_SECRET": "use ONRADIO_JWT_SIGNING_KEY",
	}

	warnings := make([]string, 0, len(legacy))
	for key, recommendation := range legacy {
		if os.Getenv(key) != "" {
			warnings = append(warnings, fmt.Sprintf("legacy env key %s is set; %s", key, recommendation))
		}
	}
	return warnings
}

// getEnvAny returns the first non-empty environment variable value from keys, or def if none set.
func getEnvAny(keys []string, def string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return def
}

// getEnvIntAny returns the first set integer environment variable value from keys, or def.
func getEnvIntAny(keys []string, def int) int {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			if parsed, err := strconv.Atoi(v); err == nil {
				return parsed
			}
		}
	}
	return def
}

// getEnvBoolAny returns the first set boolean environment variable value from keys, or def.
func getEnvBoolAny(keys []string, def bool) bool {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			v = strings.ToLower(strings.TrimSpace(v))
			if v == "true" || v == "1" || v == "yes" {
				return true
			}
			if v == "false" || v == "0" || v == "no" {
				return false
			}
		}
	}
	return def
}

// getEnvFloatAny returns the first set float environment variable value from keys, or def.
func getEnvFloatAny(keys []string, def float64) float64 {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			if parsed, err := strconv.ParseFloat(v, 64); err == nil {
				return parsed
			}
		}
	}
	return def
}
