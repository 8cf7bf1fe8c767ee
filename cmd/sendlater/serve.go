// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sendlater Contributors

package main

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/sendlater/sendlater/internal/auth"
	authpg "github.com/sendlater/sendlater/internal/auth/postgres"
	"github.com/sendlater/sendlater/internal/config"
	"github.com/sendlater/sendlater/internal/logging"
	"github.com/sendlater/sendlater/internal/mail"
	mailpg "github.com/sendlater/sendlater/internal/mail/postgres"
	"github.com/sendlater/sendlater/internal/observability"
	"github.com/sendlater/sendlater/internal/store"
	"github.com/sendlater/sendlater/internal/web"
)

// shutdownTimeout bounds graceful shutdown of the HTTP servers.
const shutdownTimeout = 10 * time.Second

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the sendlater API server",
		Long: `Start the HTTP API server together with the metrics/health
endpoint. Configuration comes from the --config file with flag overrides.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configFile, cmd.Flags())
			if err != nil {
				return err
			}
			return runServe(cmd.Context(), cfg)
		},
	}

	// Flag names mirror config keys so posflag can overlay them.
	cmd.Flags().String("http.addr", config.DefaultHTTPAddr, "API listen address")
	cmd.Flags().String("metrics.addr", config.DefaultMetricsAddr, "metrics/health HTTP address (empty = disabled)")
	cmd.Flags().String("database.url", "", "PostgreSQL connection string")
	cmd.Flags().String("log.format", config.DefaultLogFormat, "log format (json or text)")

	return cmd
}

func runServe(ctx context.Context, cfg *config.Config) error {
	logging.SetDefault("sendlater", version, cfg.Log.Format)
	logger := slog.Default()

	logger.Info("starting sendlater",
		"http_addr", cfg.HTTP.Addr,
		"metrics_addr", cfg.Metrics.Addr,
		"log_format", cfg.Log.Format,
	)

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := store.NewPool(ctx, cfg.Database.URL)
	if err != nil {
		return err
	}
	defer pool.Close()
	logger.Info("connected to database")

	tokens, err := auth.NewTokenSource()
	if err != nil {
		return err
	}

	authSvc, err := auth.NewServiceWithLogger(
		authpg.NewAccountRepository(pool),
		authpg.NewSessionRepository(pool),
		auth.NewArgon2idHasher(),
		tokens,
		logger,
	)
	if err != nil {
		return err
	}

	mailSvc, err := mail.NewServiceWithLogger(mailpg.NewEmailRepository(pool), logger)
	if err != nil {
		return err
	}

	// Observability server is optional; without it the API runs
	// uninstrumented.
	var metrics *observability.Metrics
	var obsErrCh <-chan error
	var obsServer *observability.Server
	if cfg.Metrics.Addr != "" {
		obsServer = observability.NewServer(cfg.Metrics.Addr, func() bool {
			return pool.Ping(ctx) == nil
		})
		metrics = obsServer.Metrics()
		obsErrCh, err = obsServer.Start()
		if err != nil {
			return err
		}
	}

	apiServer, err := web.NewServer(cfg.HTTP.Addr, authSvc, mailSvc, logger, metrics)
	if err != nil {
		return err
	}
	apiErrCh, err := apiServer.Start()
	if err != nil {
		return err
	}

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case serveErr := <-apiErrCh:
		if serveErr != nil {
			return oops.With("component", "api").Wrap(serveErr)
		}
	case serveErr := <-obsErrCh:
		if serveErr != nil {
			return oops.With("component", "observability").Wrap(serveErr)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := apiServer.Stop(shutdownCtx); err != nil {
		return err
	}
	if obsServer != nil {
		if err := obsServer.Stop(shutdownCtx); err != nil {
			return err
		}
	}

	logger.Info("sendlater stopped")
	return nil
}
