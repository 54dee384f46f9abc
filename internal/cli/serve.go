package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gdg-garage/itinerary-api/internal/auth"
	"github.com/gdg-garage/itinerary-api/internal/config"
	"github.com/gdg-garage/itinerary-api/internal/handlers"
	"github.com/gdg-garage/itinerary-api/internal/metrics"
	"github.com/gdg-garage/itinerary-api/internal/middleware"
	"github.com/gdg-garage/itinerary-api/internal/notifier"
	"github.com/gdg-garage/itinerary-api/internal/trips"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

const shutdownTimeout = 30 * time.Second

// newHandler wires every component of the API onto a chi router.
func newHandler(cfg *config.Config, db *gorm.DB, logger *slog.Logger) (http.Handler, error) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	collector := metrics.NewCollector(reg)

	n, err := notifier.New(cfg)
	if err != nil {
		return nil, err
	}
	if n == nil {
		logger.Info("discord notifications disabled")
	}
	if !cfg.DiscordLoginEnabled() {
		logger.Info("discord login disabled")
	}

	var metricsHandler http.Handler
	if cfg.MetricsEnabled {
		metricsHandler = metrics.Handler(reg)
	}

	r := chi.NewRouter()
	handlers.RegisterRoutes(r, cfg, handlers.Handlers{
		Auth:        auth.NewAuthHandler(cfg, db, collector),
		Trips:       handlers.NewTripHandler(db, trips.NewStore(db, logger), collector, n, logger),
		Catalog:     handlers.NewCatalogHandler(db),
		RateLimiter: middleware.NewRateLimiter(cfg.AuthRatePerMinute),
		Metrics:     metricsHandler,
		Logger:      logger,
	})
	return r, nil
}

func newServeCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := e.cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}

			db, closeDB, err := connect(e)
			if err != nil {
				return err
			}
			defer closeDB()

			handler, err := newHandler(e.cfg, db, e.logger)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, e.logger, &http.Server{
				Addr:         ":" + e.cfg.Port,
				Handler:      handler,
				ReadTimeout:  15 * time.Second,
				WriteTimeout: 15 * time.Second,
				IdleTimeout:  60 * time.Second,
			})
		},
	}
}

// serve runs srv until ctx is cancelled, then shuts it down gracefully.
func serve(ctx context.Context, logger *slog.Logger, srv *http.Server) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("API server starting", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listening on %s: %w", srv.Addr, err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		logger.Info("shutting down API server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}
		logger.Info("API server stopped gracefully")
		return nil
	})

	return g.Wait()
}
