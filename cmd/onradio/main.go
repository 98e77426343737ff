/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/friendsincode/onradio/internal/config"
	"github.com/friendsincode/onradio/internal/logbuffer"
	"github.com/friendsincode/onradio/internal/logging"
	"github.com/friendsincode/onradio/internal/server"
	"github.com/friendsincode/onradio/internal/station"
	"github.com/friendsincode/onradio/internal/storage"
	"github.com/friendsincode/onradio/internal/telemetry"
	"github.com/friendsincode/onradio/internal/version"
)

var (
	logger zerolog.Logger
	cfg    *config.Config
)

var rootCmd = &cobra.Command{
	Use:           "onradio",
	Short:         "OnRadio - multi-tenant web radio players",
	Long:          "OnRadio serves a public player for every radio station under its own subdomain, plus the admin panel used to configure them.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the OnRadio server",
	Long:  "Start the HTTP server for the admin panel, the public players and the JSON API",
	RunE:  runServe,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print build information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), version.Get())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd, versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig loads configuration (called by commands that need it)
func loadConfig() error {
	return loadConfigWithLogs(nil)
}

func loadConfigWithLogs(buf *logbuffer.Buffer) error {
	var err error
	cfg, err = config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if buf != nil {
		logger = logging.SetupWithWriter(cfg.Environment, logbuffer.NewWriter(buf, nil))
	} else {
		logger = logging.Setup(cfg.Environment)
	}
	return nil
}

// openStations opens the configured store for offline commands.
func openStations(ctx context.Context) (*station.Service, error) {
	store, err := storage.Open(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	return station.NewService(store, nil, nil, logger), nil
}

func runServe(cmd *cobra.Command, args []string) error {
	logs := logbuffer.New(logbuffer.DefaultCapacity)
	if err := loadConfigWithLogs(logs); err != nil {
		return err
	}

	logger.Info().Str("version", version.Version).Msg("OnRadio starting")

	tracerProvider, err := telemetry.InitTracer(context.Background(), telemetry.TracerConfig{
		ServiceName:    "onradio",
		ServiceVersion: version.Version,
		OTLPEndpoint:   cfg.OTLPEndpoint,
		Enabled:        cfg.TracingEnabled,
		SampleRate:     cfg.TracingSampleRate,
	}, logger)
	if err != nil {
		return fmt.Errorf("initialize tracer: %w", err)
	}
	defer func() {
		if err := tracerProvider.Shutdown(context.Background()); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown tracer provider")
		}
	}()

	srv, err := server.New(cfg, logs, logger)
	if err != nil {
		return fmt.Errorf("initialize server: %w", err)
	}

	httpServer := srv.HTTPServer()
	serveErr := make(chan error, 1)

	go func() {
		logger.Info().Str("addr", httpServer.Addr).Str("admin_host", cfg.AdminHost).Msg("HTTP server listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	var runErr error
	select {
	case <-quit:
	case err := <-serveErr:
		runErr = fmt.Errorf("http server: %w", err)
	}

	logger.Info().Msg("shutting down gracefully...")

	timeoutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(timeoutCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}

	if err := srv.Close(); err != nil {
		logger.Error().Err(err).Msg("shutdown cleanup failed")
	}

	logger.Info().Msg("OnRadio stopped")
	return runErr
}
