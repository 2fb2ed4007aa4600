package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"time"

	"salesdash/internal/config"
	"salesdash/internal/middleware"
	"salesdash/internal/observability"
	"salesdash/internal/server"
	"salesdash/internal/services"
)

const datasetLoadTimeout = 60 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.Logger)
	slog.SetDefault(logger)

	logger.Info("starting application",
		"version", "1.0.0",
		"dataset", cfg.Dataset.File,
		"default_metric", cfg.Analytics.DefaultMetric,
	)

	analytics := services.NewAnalytics(logger)

	ctx, cancel := context.WithTimeout(context.Background(), datasetLoadTimeout)
	defer cancel()

	if err := analytics.LoadFile(ctx, cfg.Dataset.File); err != nil {
		logger.Error("dataset load failed", "error", err, "reason", loadFailureReason(err))
		os.Exit(1)
	}

	srv := server.NewServer(analytics, cfg.Analytics, logger)

	rateLimiter := middleware.NewRateLimiter(cfg.Security)

	middlewareChain := middleware.Chain(
		middleware.Recovery(logger),
		middleware.RequestID(),
		middleware.Logger(logger),
		middleware.Tracing(),
		middleware.SecurityHeaders(),
		middleware.CORS(cfg.Security),
		middleware.TrustedProxy(cfg.Security),
		middleware.RateLimit(rateLimiter, logger),
	)

	httpServer := &http.Server{
		Addr:         cfg.Address(),
		Handler:      middlewareChain(srv),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	gracefulServer := server.NewGracefulServer(httpServer, logger, cfg)

	gracefulServer.RegisterShutdownHook(func(ctx context.Context) error {
		logger.Info("shutting down analytics service")
		return nil
	})

	if err := gracefulServer.ListenAndServe(); err != nil {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}

	logger.Info("application stopped gracefully")
}

// loadFailureReason maps the classified loader errors to the wording the
// operator sees. Any of them means no data is available; there is no
// retry.
func loadFailureReason(err error) string {
	switch {
	case errors.Is(err, services.ErrFileNotFound):
		return "file not found"
	case errors.Is(err, services.ErrEmptyFile):
		return "file is empty"
	case errors.Is(err, services.ErrMalformed):
		return "file is malformed"
	default:
		return "unknown"
	}
}
