// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package main is the entry point for the FabricAI backend server.
// It loads configuration, connects to services, sets up routing, and starts
// the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"fabricai/internal/ai"
	"fabricai/internal/cache"
	"fabricai/internal/config"
	"fabricai/internal/database"
	"fabricai/internal/handlers"
	"fabricai/internal/router"
	"fabricai/internal/session"
	"fabricai/internal/storage"
	"fabricai/internal/store"
)

func main() {
	// Optional .env for local development; real deployments use the
	// environment directly.
	godotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
	)

	// Connect to PostgreSQL.
	db, err := database.Connect(cfg.DSN())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Run pending migrations.
	if err := database.Migrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Install the default fabric catalog. Store data wins; defaults only
	// fill gaps, so this runs on every startup.
	if err := database.SeedCatalog(db); err != nil {
		slog.Error("failed to seed catalog", "error", err)
		os.Exit(1)
	}

	// Seed the development admin account (dev only).
	if cfg.IsDev() {
		if err := database.SeedAdmin(db); err != nil {
			slog.Error("failed to seed admin user", "error", err)
			os.Exit(1)
		}
	}

	// Connect to Valkey (sessions + stats cache).
	valkeyClient, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	if err != nil {
		slog.Error("failed to connect to valkey", "error", err)
		os.Exit(1)
	}
	defer valkeyClient.Close()

	// In non-development environments, mark session cookies as Secure.
	secureCookies := !cfg.IsDev()
	sessionStore := session.NewStore(valkeyClient, secureCookies)
	statsCache := cache.NewStatsCache(valkeyClient, cache.DefaultStatsTTL)

	// Initialize data stores.
	userStore := store.NewUserStore(db)
	fabricStore := store.NewFabricStore(db)
	colorStore := store.NewColorStore(db)
	folderStore := store.NewFolderStore(db)
	imageStore := store.NewImageStore(db)
	usageStore := store.NewUsageStore(db)

	// Connect to S3-compatible object storage (optional; the gateway works
	// without it, but catalog and gallery uploads are disabled).
	var storageClient *storage.Client
	if cfg.HasStorage() {
		storageClient, err = storage.New(
			cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey,
			cfg.S3Bucket, cfg.S3PublicURL,
		)
		if err != nil {
			slog.Error("failed to initialize S3 storage", "error", err)
			os.Exit(1)
		}
		slog.Info("s3 storage connected", "endpoint", cfg.S3Endpoint, "bucket", cfg.S3Bucket)
	} else {
		slog.Warn("s3 storage not configured; image uploads disabled")
	}

	// The Gemini image-edit provider holds the server default key; requests
	// may override it per-call.
	provider := ai.NewGemini(ai.GeminiConfig{
		APIKey:  cfg.GoogleAPIKey,
		Model:   cfg.GeminiModel,
		BaseURL: cfg.GeminiBaseURL,
	})

	if cfg.GoogleAPIKey == "" {
		slog.Warn("GOOGLE_API_KEY not set; generations require a caller-supplied key")
	}
	if cfg.AdminServiceKey == "" {
		slog.Warn("ADMIN_SERVICE_KEY not set; user management endpoints disabled")
	}

	// Create handler groups with their dependencies.
	h := router.Handlers{
		Generate: handlers.NewGenerate(provider, usageStore, userStore, cfg.GoogleAPIKey),
		Catalog:  handlers.NewCatalog(fabricStore, colorStore, storageClient),
		Gallery:  handlers.NewGallery(folderStore, imageStore, storageClient),
		Users:    handlers.NewUsers(userStore, cfg.AdminServiceKey),
		Usage:    handlers.NewUsage(usageStore, statsCache),
		Auth:     handlers.NewAuth(sessionStore, userStore),
	}

	r := router.New(sessionStore, h)

	// WriteTimeout must exceed the provider latency budget (120s HTTP
	// timeout plus retry backoff).
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 150 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}
