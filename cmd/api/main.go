package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jwebster45206/battle-tree/internal/config"
	"github.com/jwebster45206/battle-tree/internal/handlers"
	"github.com/jwebster45206/battle-tree/internal/logger"
	"github.com/jwebster45206/battle-tree/internal/middleware"
	internalstorage "github.com/jwebster45206/battle-tree/internal/storage"
	"github.com/jwebster45206/battle-tree/pkg/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	log := logger.Setup(cfg)

	log.Info("Starting Battle Tree API",
		"port", cfg.Port,
		"environment", cfg.Environment,
		"storage_backend", cfg.StorageBackend,
		"data_dir", cfg.DataDir)

	store, err := openStorage(cfg, log)
	if err != nil {
		log.Error("Failed to connect to storage", "error", err, "backend", cfg.StorageBackend)
		os.Exit(1)
	}
	log.Info("Storage connection established successfully")

	mux := http.NewServeMux()

	healthHandler := handlers.NewHealthHandler(store, log)
	mux.Handle("/health", healthHandler)

	projectHandler := handlers.NewProjectHandler(log, store)
	mux.Handle("/v1/projects", projectHandler)
	mux.Handle("/v1/projects/", projectHandler)

	rosterHandler := handlers.NewRosterHandler(log, store)
	mux.Handle("/v1/rosters", rosterHandler)
	mux.Handle("/v1/rosters/", rosterHandler)

	handler := middleware.Chain(mux, middleware.Recover, middleware.RequestID, middleware.Logger)
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("Server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Server is shutting down...")

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
	}

	if err := store.Close(); err != nil {
		log.Error("Error closing storage connection", "error", err)
	}

	log.Info("Server exited")
}

// openStorage connects the configured backend and waits until it answers
func openStorage(cfg *config.Config, log *slog.Logger) (storage.Storage, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	switch cfg.StorageBackend {
	case config.BackendSQLite:
		s, err := internalstorage.NewSQLiteStorage(cfg.SQLitePath, cfg.DataDir, log)
		if err != nil {
			return nil, err
		}
		if err := s.Ping(ctx); err != nil {
			_ = s.Close()
			return nil, err
		}
		return s, nil
	default:
		r, err := internalstorage.NewRedisStorage(cfg.RedisURL, cfg.DataDir, cfg.ProjectTTL, log)
		if err != nil {
			return nil, err
		}
		if err := r.WaitForConnection(ctx); err != nil {
			_ = r.Close()
			return nil, err
		}
		return r, nil
	}
}
