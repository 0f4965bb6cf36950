package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/Lixing-Zhang/fruit-service/internal/app"
	"github.com/Lixing-Zhang/fruit-service/internal/config"
	"github.com/Lixing-Zhang/fruit-service/internal/repository"
	"github.com/Lixing-Zhang/fruit-service/internal/seed"
	"github.com/Lixing-Zhang/fruit-service/internal/service"
	"github.com/Lixing-Zhang/fruit-service/pkg/logger"
)

func main() {
	// A .env file is optional; real environment variables win
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Failed to read .env file: %v\n", err)
		os.Exit(1)
	}

	// Load configuration from environment
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize structured logger
	log := logger.New(cfg.LogLevel)
	slog.SetDefault(log)

	log.Info("starting fruit api server",
		"port", cfg.Server.Port,
		"host", cfg.Server.Host,
		"log_level", cfg.LogLevel,
		"db_driver", cfg.Database.Driver,
		"auth_enabled", cfg.Auth.Enabled(),
	)

	// Initialize storage
	ctx := context.Background()
	repo, err := repository.Open(ctx, cfg.Database, log)
	if err != nil {
		log.Error("failed to open storage", "error", err)
		os.Exit(1)
	}

	// Load seed fruits into an empty store
	if len(cfg.Seed.Sources) > 0 {
		log.Info("loading seed data...", "sources", len(cfg.Seed.Sources))

		seedCtx, cancel := context.WithTimeout(ctx, cfg.Seed.Timeout)
		fruits, err := seed.NewLoader(cfg.Seed.Timeout).Load(seedCtx, cfg.Seed.Sources)
		if err == nil {
			var created int
			created, err = seed.Apply(seedCtx, service.NewFruitService(repo), fruits)
			log.Info("seed data applied", "parsed", len(fruits), "created", created)
		}
		cancel()

		if err != nil {
			log.Error("failed to seed fruits", "error", err)
			_ = repo.Close()
			os.Exit(1)
		}
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	// Create HTTP server
	addr := cfg.Server.Addr()
	srv := &http.Server{
		Addr:         addr,
		Handler:      app.NewRouter(cfg, repo, reg, log),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in a goroutine
	go func() {
		log.Info("server listening", "address", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server failed to start", "error", err)
			_ = repo.Close()
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	exitCode := 0
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", "error", err)
		exitCode = 1
	}

	if err := repo.Close(); err != nil {
		log.Error("failed to close storage", "error", err)
		exitCode = 1
	}

	if exitCode != 0 {
		os.Exit(exitCode)
	}
	log.Info("server stopped gracefully")
}
