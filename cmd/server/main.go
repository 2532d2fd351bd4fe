package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/maxviazov/squad-manager-service/internal/config"
	"github.com/maxviazov/squad-manager-service/internal/handler"
	"github.com/maxviazov/squad-manager-service/internal/logger"
	"github.com/maxviazov/squad-manager-service/internal/repository"
	"github.com/maxviazov/squad-manager-service/internal/repository/local"
	"github.com/maxviazov/squad-manager-service/internal/repository/postgres"
	"github.com/maxviazov/squad-manager-service/internal/service"
	"github.com/maxviazov/squad-manager-service/pkg/metrics"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
)

func main() {
	// .env is optional; real env vars win
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("⚠️ .env not loaded: %v", err)
	}

	// Load application config
	cfg, err := config.LoadOptional("config.yaml")
	if err != nil {
		log.Fatalf("❌ Config loading failed: %v", err)
	}

	// Initialize logger
	appLogger, err := logger.New(&cfg.Logger)
	if err != nil {
		log.Fatalf("❌ Logger initialization failed: %v", err)
	}
	zlog.Logger = appLogger
	appLogger.Info().Msg("✅ Logger initialized successfully")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStore(ctx, cfg, &appLogger)
	if err != nil {
		appLogger.Fatal().Err(err).Str("driver", cfg.Store.Driver).Msg("❌ Store initialization failed")
	}
	defer func() {
		if cerr := store.Close(); cerr != nil {
			appLogger.Warn().Err(cerr).Msg("store close failed")
		}
	}()
	appLogger.Info().Str("driver", cfg.Store.Driver).Msg("Store ready")

	m := metrics.NewManager(metrics.WithRuntimeMetrics(true))
	svcs := handler.Services{
		Players:    service.NewPlayerService(store, store, appLogger),
		Formations: service.NewFormationService(store, store, appLogger),
		Rivals:     service.NewRivalService(store, store, appLogger),
		Matches:    service.NewMatchService(store, store, m, appLogger),
		Plans:      service.NewMatchPlanService(store, store, appLogger),
		Insights:   service.NewInsightService(store, store, appLogger),
		Dashboard:  service.NewDashboardService(store, appLogger),
	}

	if cfg.App.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := handler.NewRouter(handler.RouterConfig{
		Logger:      appLogger,
		Metrics:     m,
		CORSOrigins: cfg.HTTP.CORSOrigins,
	}, store, svcs)

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		appLogger.Info().Str("addr", srv.Addr).Msg("🚀 Service started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		appLogger.Info().Msg("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			appLogger.Error().Err(err).Msg("http server failed")
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error().Err(err).Msg("graceful shutdown failed")
		return
	}
	appLogger.Info().Msg("server stopped")
}

// openStore builds the configured record store driver. The postgres driver is migrated on start.
func openStore(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) (repository.Driver, error) {
	switch cfg.Store.Driver {
	case config.DriverMemory:
		return local.NewMemory(), nil
	case config.DriverFile:
		return local.NewFile(cfg.Store.Path)
	case config.DriverPostgres:
		pool, err := postgres.NewPool(ctx, cfg.Postgres, logger)
		if err != nil {
			return nil, err
		}
		if err := postgres.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
		return postgres.NewStore(pool), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}
