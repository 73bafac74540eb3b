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
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/panelprofits/symbology/internal/application"
	"github.com/panelprofits/symbology/internal/infrastructure/config"
	"github.com/panelprofits/symbology/internal/infrastructure/store"
	httpHandler "github.com/panelprofits/symbology/internal/interfaces/http"
	"github.com/panelprofits/symbology/internal/symbology"
)

// setupLogger configures and returns a structured logger with source information
func setupLogger(level slog.Level) *slog.Logger {
	opts := &slog.HandlerOptions{
		AddSource: true,
		Level:     level,
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, opts))
	slog.SetDefault(logger)
	return logger
}

// initializeStore opens the configured store and loads its symbols into a
// fresh registry.
func initializeStore(ctx context.Context, cfg *config.Config) (*store.Store, *application.SymbolService, error) {
	st, err := store.Open(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open store: %w", err)
	}

	generator := symbology.NewGenerator(symbology.NewRegistry())
	symbolService := application.NewSymbolService(st.Assets, generator, st.Ledger)

	added, err := symbolService.Hydrate(ctx)
	if err != nil {
		_ = st.Close()
		return nil, nil, fmt.Errorf("failed to hydrate registry: %w", err)
	}
	slog.Info("Registry hydrated", "symbols", added)

	return st, symbolService, nil
}

// buildServer creates and configures the HTTP server with all routes and handlers
func buildServer(cfg *config.Config, symbolService httpHandler.SymbolService, migrator httpHandler.NomenclatureMigrator) *http.Server {
	router := gin.Default()
	handler := httpHandler.NewHandler(symbolService, migrator)
	httpHandler.SetupRoutes(router, handler)

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%s", cfg.ServerHost, cfg.ServerPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return server
}

// App wraps the application components for easier testing
type App struct {
	Server        *http.Server
	Refresher     *application.RegistryRefresher
	Store         *store.Store
	CancelContext context.CancelFunc
}

// Shutdown gracefully shuts down the application
func (a *App) Shutdown(ctx context.Context) error {
	slog.Info("Shutting down application...")

	if a.Refresher != nil {
		a.Refresher.Stop()
	}
	a.CancelContext()

	if err := a.Server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	if a.Store != nil {
		if err := a.Store.Close(); err != nil {
			return fmt.Errorf("store close error: %w", err)
		}
	}

	return nil
}

// run contains the main application logic without os.Exit calls
// This makes it testeable
func run() error {
	setupLogger(slog.LevelInfo)

	if err := godotenv.Load(); err != nil {
		slog.Warn("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	setupLogger(cfg.SlogLevel())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	st, symbolService, err := initializeStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("store initialization failed: %w", err)
	}

	migrator := application.NewNomenclatureMigrator(
		st.Assets,
		symbolService.Registry(),
		st.Ledger,
		application.WithBatchSize(cfg.MigrationBatchSize),
	)

	app := &App{
		Server:        buildServer(cfg, symbolService, migrator),
		Store:         st,
		CancelContext: cancel,
	}

	if cfg.RegistryRefreshInterval > 0 {
		app.Refresher = application.NewRegistryRefresher(symbolService, cfg.RegistryRefreshInterval)
		go app.Refresher.Start(ctx)
	}

	// Start server in goroutine
	serverErrors := make(chan error, 1)
	go func() {
		slog.Info("Server starting", "host", cfg.ServerHost, "port", cfg.ServerPort)
		if err := app.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrors <- err
		}
	}()

	// Wait for termination signal or server error
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		_ = st.Close()
		return fmt.Errorf("server error: %w", err)
	case <-quit:
		slog.Info("Received shutdown signal")
	}

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := app.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}

	slog.Info("Server exited gracefully")
	return nil
}

func main() {
	if err := run(); err != nil {
		slog.Error("Application error", "error", err)
		os.Exit(1)
	}
}
