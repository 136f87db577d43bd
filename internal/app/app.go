package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"github.com/heartmarshall/caseflow-backend/internal/config"
	"github.com/heartmarshall/caseflow-backend/internal/metrics"
	"github.com/heartmarshall/caseflow-backend/internal/transport/middleware"
	"github.com/heartmarshall/caseflow-backend/internal/transport/rest"
)

// Run is the HTTP server entry point. It loads configuration, connects to
// the database, builds the router and serves until ctx is cancelled or the
// process receives SIGINT/SIGTERM.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log, "server")

	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
		slog.String("auth_mode", cfg.Auth.Mode),
	)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	startupCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	svcs, err := NewServices(startupCtx, cfg, logger, m)
	if err != nil {
		return err
	}
	defer svcs.Close()

	// The JWKS refresher lives as long as ctx, not the startup deadline.
	validator, err := NewTokenValidator(ctx, cfg.Auth, logger)
	if err != nil {
		return err
	}

	limiter := middleware.NewRateLimiter(cfg.RateLimit.CleanupInterval)
	defer limiter.Stop()

	health := rest.NewHealthHandler(BuildVersion(),
		rest.Probe{Name: "database", Check: svcs.Pool.Ping},
	)

	router := rest.NewRouter(rest.RouterDeps{
		Logger:    logger,
		Trash:     rest.NewTrashHandler(svcs.Trash, logger),
		Summary:   rest.NewSummaryHandler(svcs.Summary, logger),
		Health:    health,
		Validator: validator,
		Metrics:   m,
		Gatherer:  reg,
		Limiter:   limiter,
		CORS:      cfg.CORS,
		RateLimit: cfg.RateLimit,
	})

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelWarn),
	}

	logger.Info("server configured",
		slog.String("address", srv.Addr),
		slog.Any("probes", health.ProbeNames()),
		slog.Int("destructive_per_minute", cfg.RateLimit.DestructivePerMinute),
	)

	return Serve(ctx, srv, cfg.Server.ShutdownTimeout, logger)
}

// Serve runs srv until ctx is cancelled, the server fails, or a shutdown
// signal arrives, then drains in-flight requests within shutdownTimeout.
func Serve(ctx context.Context, srv *http.Server, shutdownTimeout time.Duration, logger *slog.Logger) error {
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting HTTP server", slog.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("context cancelled, initiating shutdown")
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http server shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("server stopped with error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("server stopped")
	return nil
}
