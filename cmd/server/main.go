package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/tutorlane/slotengine/internal/app"
	"github.com/tutorlane/slotengine/internal/config"
	"github.com/tutorlane/slotengine/internal/repository"
	"github.com/tutorlane/slotengine/internal/server"
	"github.com/tutorlane/slotengine/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.DBDSN)
	if err != nil {
		logger.Fatal("Failed to create connection pool", zap.Error(err))
	}
	defer pool.Close()

	migrator, err := app.NewMigrator(pool, cfg.MigrationsDir)
	if err != nil {
		logger.Fatal("Failed to create migrator", zap.Error(err))
	}
	if err := migrator.Run(ctx); err != nil {
		logger.Fatal("Failed to apply migrations", zap.Error(err))
	}
	migrator.Close()

	templateRepo := repository.NewTemplateRepository(pool)
	profileRepo := repository.NewProfileRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)

	availabilityService := service.NewAvailabilityService(templateRepo, profileRepo, bookingRepo, logger, cfg.MinLeadTime)
	bookingService := service.NewBookingService(bookingRepo, templateRepo, profileRepo, logger, cfg.MinLeadTime)

	sweeper := app.NewSweeper(bookingService, cfg.SweepInterval, cfg.PendingTTL, logger)
	sweeper.Start(ctx)
	defer sweeper.Stop()

	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      server.New(availabilityService, bookingService, logger).Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		logger.Info("Starting HTTP server",
			zap.String("addr", cfg.HTTPAddr),
			zap.String("environment", cfg.Environment),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", zap.Error(err))
	}
}
