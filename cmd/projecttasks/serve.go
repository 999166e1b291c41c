// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 ProjectTasks Contributors

package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/projecttasks/projecttasks/internal/auth"
	authpg "github.com/projecttasks/projecttasks/internal/auth/postgres"
	"github.com/projecttasks/projecttasks/internal/config"
	"github.com/projecttasks/projecttasks/internal/httpapi"
	"github.com/projecttasks/projecttasks/internal/logging"
	"github.com/projecttasks/projecttasks/internal/observability"
	"github.com/projecttasks/projecttasks/internal/store"
	"github.com/projecttasks/projecttasks/internal/tracker"
	trackerpg "github.com/projecttasks/projecttasks/internal/tracker/postgres"
)

const shutdownTimeout = 5 * time.Second

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		Long: `Start the HTTP API server. Requires DATABASE_URL and TOKEN_SECRET
in the environment; everything else comes from flags or the config file.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configFile, cmd.Flags())
			if err != nil {
				return err
			}
			return runServe(cmd.Context(), cfg, cmd)
		},
	}

	cmd.Flags().String("addr", config.DefaultAddr, "API listen address")
	cmd.Flags().String("metrics-addr", config.DefaultMetricsAddr, "metrics/health HTTP address (empty = disabled)")
	cmd.Flags().String("log-format", config.DefaultLogFormat, "log format (json or text)")
	cmd.Flags().Int64("token-ttl-ms", config.DefaultTokenTTLms, "session token lifetime in milliseconds")

	return cmd
}

func runServe(ctx context.Context, cfg config.Config, cmd *cobra.Command) error {
	if cfg.Database.URL == "" {
		return oops.Code("CONFIG_INVALID").Errorf("DATABASE_URL environment variable is required")
	}
	if cfg.Auth.TokenSecret == "" {
		return oops.Code("CONFIG_INVALID").Errorf("TOKEN_SECRET environment variable is required")
	}

	logging.SetDefault("projecttasks", version, cfg.Server.LogFormat)
	logger := slog.Default()

	slog.Info("starting server",
		"addr", cfg.Server.Addr,
		"log_format", cfg.Server.LogFormat,
	)

	st, err := store.Connect(ctx, cfg.Database.URL)
	if err != nil {
		return err
	}
	defer st.Close()

	slog.Info("connected to database")

	tokens, err := auth.NewTokenService(cfg.Auth.TokenSecret, cfg.Auth.TokenTTL())
	if err != nil {
		return err
	}

	authSvc, err := auth.NewServiceWithLogger(
		authpg.NewUserRepository(st.Pool()),
		auth.NewArgon2idHasher(),
		tokens,
		logger,
	)
	if err != nil {
		return err
	}

	trackerSvc, err := tracker.NewServiceWithLogger(
		trackerpg.NewProjectRepository(st.Pool()),
		trackerpg.NewTaskRepository(st.Pool()),
		logger,
	)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Start observability server if configured
	var obsServer *observability.Server
	var metrics *observability.Metrics
	if cfg.Server.MetricsAddr != "" {
		obsServer = observability.NewServer(cfg.Server.MetricsAddr, st.Ping)
		metrics = obsServer.Metrics()
		obsErrChan, obsErr := obsServer.Start()
		if obsErr != nil {
			return obsErr
		}
		go monitorServerErrors(ctx, cancel, obsErrChan, "observability")
	}

	apiServer, err := httpapi.NewServer(
		cfg.Server.Addr,
		authSvc,
		trackerSvc,
		metrics,
		cfg.Server.AllowedOrigins,
		logger,
	)
	if err != nil {
		return err
	}

	apiErrChan, err := apiServer.Start()
	if err != nil {
		stopObservability(obsServer)
		return err
	}
	go monitorServerErrors(ctx, cancel, apiErrChan, "api")

	// Handle signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	cmd.Println("Server started")
	slog.Info("server ready", "addr", apiServer.Addr())

	select {
	case sig := <-sigChan:
		slog.Info("received shutdown signal", "signal", sig)
	case <-ctx.Done():
		slog.Info("context cancelled, shutting down")
	}

	slog.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := apiServer.Stop(shutdownCtx); err != nil {
		slog.Warn("error stopping api server", "error", err)
	}
	if obsServer != nil {
		if err := obsServer.Stop(shutdownCtx); err != nil {
			slog.Warn("error stopping observability server", "error", err)
		}
	}

	slog.Info("shutdown complete")
	return nil
}

// stopObservability stops the observability server during startup cleanup.
func stopObservability(obsServer *observability.Server) {
	if obsServer == nil {
		return
	}
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := obsServer.Stop(shutdownCtx); err != nil {
		slog.Warn("failed to stop observability server during cleanup", "error", err)
	}
}

// monitorServerErrors monitors a server's error channel and cancels the context on error.
// It exits when either an error is received, the channel is closed, or the context is cancelled.
func monitorServerErrors(ctx context.Context, cancel context.CancelFunc, errCh <-chan error, serverName string) {
	select {
	case err, ok := <-errCh:
		if !ok {
			// Channel closed, server stopped gracefully
			return
		}
		if err != nil {
			slog.Error("server error, triggering shutdown",
				"server", serverName,
				"error", err,
			)
			cancel()
		}
	case <-ctx.Done():
	}
}
