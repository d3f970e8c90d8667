package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"boom-blog/internal/auth"
	"boom-blog/internal/config"
	"boom-blog/internal/database"
	"boom-blog/internal/engine"
	"boom-blog/internal/handlers"
	"boom-blog/internal/storage"
	"boom-blog/internal/utils"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	logger := utils.NewLogger(os.Stderr, cfg.Debug)
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("Server stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := database.Open(cfg.Database.Type, cfg.Database.URI, logger)
	if err != nil {
		return err
	}
	defer store.Close(context.Background())

	if err := store.InitializeTables(ctx); err != nil {
		return err
	}

	tokens, err := auth.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL, cfg.Auth.RefreshTokenTTL)
	if err != nil {
		return err
	}
	metrics := utils.NewMetricsCollector()
	blogEngine := engine.NewEngine(store, tokens, metrics, logger)

	if cfg.Auth.AdminEmail != "" {
		if _, err := blogEngine.EnsureAdmin(ctx, cfg.Auth.AdminEmail, cfg.Auth.AdminPassword); err != nil {
			return err
		}
	}

	images, err := storage.NewLocalImageStore(cfg.Server.UploadDir, logger)
	if err != nil {
		return err
	}

	server := handlers.NewServer(blogEngine, images, store, metrics, logger, cfg.Auth.CookieSecure)
	httpServer := &http.Server{
		Addr: cfg.Addr(),
		Handler: server.Routes(handlers.RouteOptions{
			MetricsEnabled: cfg.Server.MetricsEnabled,
			UploadDir:      images.Dir(),
			AllowedOrigins: cfg.AllowedOrigins,
		}),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting server", "addr", httpServer.Addr, "db", cfg.Database.Type, "metrics", cfg.Server.MetricsEnabled)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}
