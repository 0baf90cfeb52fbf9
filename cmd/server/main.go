// Package main is the entry point for the back-office API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"backoffice/internal/app"
	"backoffice/internal/config"
	v1 "backoffice/internal/infrastructure/http/v1"
	"backoffice/internal/infrastructure/metrics"
	"backoffice/internal/infrastructure/storage/memory"
	"backoffice/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.App.LogLevel,
		Development: cfg.IsDevelopment(),
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	logger.SetDefault(log)

	ctx := context.Background()
	log.Infow("starting backoffice server", "storage", cfg.App.Storage, "env", cfg.App.Environment)

	backend, err := openBackend(ctx, cfg, log)
	if err != nil {
		log.Fatalw("failed to open storage", "error", err)
	}
	defer backend.Close()

	services, err := app.NewServices(backend, cfg.Business)
	if err != nil {
		log.Fatalw("failed to build services", "error", err)
	}

	if store, ok := backend.TxManager.(*memory.Store); ok && os.Getenv("SEED_DEMO_DATA") == "true" {
		if err := app.SeedDemo(ctx, app.MemoryCatalog{Store: store}, services.Inventory, store); err != nil {
			log.Fatalw("failed to seed demo data", "error", err)
		}
		log.Info("demo data loaded")
	}

	router := v1.NewRouter(v1.RouterConfig{
		Logger:     log,
		Metrics:    metrics.New(),
		Storage:    cfg.App.Storage,
		DB:         backend.Pinger,
		Orders:     services.Orders,
		Invoices:   services.Invoices,
		Returns:    services.Returns,
		Receptions: services.Receptions,
		Inventory:  services.Inventory,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Infow("server starting", "port", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}

func openBackend(ctx context.Context, cfg *config.Config, log *logger.Logger) (*app.Backend, error) {
	switch cfg.App.Storage {
	case config.StorageMemory:
		return app.NewMemoryBackend(memory.NewStore(), log), nil
	case config.StoragePostgres:
		return app.NewPostgresBackend(ctx, cfg, log)
	}
	return nil, fmt.Errorf("unknown storage %q", cfg.App.Storage)
}
