package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/jo-hoe/gobeautify/internal/backend"
	"github.com/jo-hoe/gobeautify/internal/core"
	"github.com/jo-hoe/gobeautify/internal/frontend"
	"github.com/jo-hoe/gobeautify/internal/logging"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		configFlag, err := cmd.Flags().GetString("config")
		if err != nil {
			return fmt.Errorf("failed to get config: %w", err)
		}

		configPath := resolveConfigPath(configFlag)
		config, err := core.LoadConfig(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config from %q: %w", configPath, err)
		}
		// config.LogLevel already carries the GOBEAUTIFY_LOGLEVEL override
		slog.SetDefault(logging.CreateLogger(os.Stderr, logging.LevelFromString(config.LogLevel)))
		slog.Debug("read config", "path", configPath, "port", config.Port, "database", config.Database.Type)

		return serve(cmd.Context(), config)
	},
}

func init() {
	serveCmd.Flags().String("config", "", "path to the YAML config file (defaults to CONFIG_PATH or ./config.yaml)")
	rootCmd.AddCommand(serveCmd)
}

// resolveConfigPath prefers the flag, then CONFIG_PATH, then ./config.yaml if present.
// An empty result means defaults plus environment overrides only.
func resolveConfigPath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if configPath := os.Getenv("CONFIG_PATH"); configPath != "" {
		return configPath
	}

	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}
	defaultPath := filepath.Join(cwd, "config.yaml")
	if _, err := os.Stat(defaultPath); err != nil {
		return ""
	}
	return defaultPath
}

func serve(ctx context.Context, config *core.ServiceConfig) error {
	if ctx == nil {
		ctx = context.Background()
	}

	databaseService, err := core.OpenDatabase(ctx, config)
	if err != nil {
		return err
	}
	coreService, err := core.NewCoreService(config, databaseService)
	if err != nil {
		if cerr := databaseService.Close(); cerr != nil {
			slog.Error("failed to close database", "error", cerr)
		}
		return err
	}

	server := backend.NewServer()
	backend.NewAPIService(coreService).SetRoutes(server)
	frontend.NewFrontendService(config).SetRoutes(server)

	portString := fmt.Sprintf(":%d", config.Port)

	// Start HTTP server in a goroutine to allow graceful shutdown
	serverErr := make(chan error, 1)
	go func() {
		slog.Info("starting server", "port", config.Port)
		if err := server.Start(portString); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(quit)

	var runErr error
	select {
	case sig := <-quit:
		slog.Info("shutdown signal received", "signal", sig.String())
	case err, ok := <-serverErr:
		if ok {
			runErr = fmt.Errorf("http server error: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
	}
	if err := coreService.Close(); err != nil {
		slog.Error("core service close error", "error", err)
	}
	return runErr
}
