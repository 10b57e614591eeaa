package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/athtracker/athtracker-backend/internal/api"
	"github.com/athtracker/athtracker-backend/internal/catalog"
	"github.com/athtracker/athtracker-backend/internal/config"
	"github.com/athtracker/athtracker-backend/internal/logging"
	"github.com/athtracker/athtracker-backend/internal/scheduler"
	"github.com/athtracker/athtracker-backend/internal/service"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logging.New("info", os.Stderr).Fatalf("Failed to load configuration: %v", err)
	}
	logger := logging.New(cfg.Log.Level, os.Stdout)

	// Open the catalog store
	store, err := catalog.Open(cfg)
	if err != nil {
		logger.Fatalf("Failed to open catalog: %v", err)
	}
	defer store.Close()

	logger.WithField("backend", store.Backend).Info("Catalog opened")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Create services
	systemService := service.NewSystemService(store.Ping)
	refreshService := service.NewRefreshService(
		store.Store,
		catalog.NewBackupWriter(cfg.Catalog.BackupDir),
		service.NewEngine(cfg, logger),
		logger,
	)

	// Scheduled refreshes are optional
	if cfg.Refresh.Schedule != "" {
		sched, err := scheduler.New(
			scheduler.WithSpec(cfg.Refresh.Schedule),
			scheduler.WithContext(ctx),
			scheduler.WithLogger(logger),
			scheduler.WithHandler(func(ctx context.Context) error {
				_, err := refreshService.Refresh(ctx, true)
				return err
			}),
		)
		if err != nil {
			logger.Fatalf("Failed to create scheduler: %v", err)
		}
		if err := sched.Start(); err != nil {
			logger.Fatalf("Failed to start scheduler: %v", err)
		}
		defer sched.Stop()
	}

	// Create router
	router := api.NewRouter(systemService, refreshService, cfg, logger)

	// Create HTTP server. A refresh over a large catalog can take a while,
	// so the write timeout is generous.
	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Infof("Starting server on %s", cfg.Server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	cancel()

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatalf("Server forced to shutdown: %v", err)
	}

	logger.Info("Server exited")
}
