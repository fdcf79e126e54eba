// Command service runs the startup toolkit HTTP API.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/jsamuelsen/startup-toolkit/internal/adapters/http"
	"github.com/jsamuelsen/startup-toolkit/internal/adapters/http/handlers"
	"github.com/jsamuelsen/startup-toolkit/internal/platform/config"
	"github.com/jsamuelsen/startup-toolkit/internal/platform/logging"
	"github.com/jsamuelsen/startup-toolkit/internal/platform/telemetry"
)

// Set with -ldflags "-X main.Version=... -X main.Commit=... -X main.BuildTime=...".
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "startup-toolkit:", err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	profile := os.Getenv("APP_ENVIRONMENT")
	if profile == "" {
		profile = "local"
	}

	cfg, err := config.Load(profile)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := newLogger(cfg)
	logging.SetDefault(logger)
	logger.Info("starting",
		slog.String("profile", profile),
		slog.String("version", Version),
		slog.String("commit", Commit),
		slog.String("storage", cfg.Storage.Driver),
		slog.Bool("regulatory_feed", cfg.Services.RegulatoryFeed.Enabled),
	)

	tel, err := telemetry.New(ctx, &telemetry.Config{
		Enabled:      cfg.Telemetry.Enabled,
		Endpoint:     cfg.Telemetry.Endpoint,
		ServiceName:  cfg.Telemetry.ServiceName,
		Version:      cfg.App.Version,
		Environment:  cfg.App.Environment,
		SamplingRate: cfg.Telemetry.SamplingRate,
	})
	if err != nil {
		return fmt.Errorf("starting telemetry: %w", err)
	}
	defer func() {
		if err := tel.Shutdown(context.WithoutCancel(ctx)); err != nil {
			logger.Error("flushing telemetry", slog.Any("error", err))
		}
	}()

	tk, err := build(ctx, cfg, logger, prometheus.DefaultRegisterer)
	if err != nil {
		return err
	}
	defer tk.close()

	health := handlers.NewHealthHandler(tk.health, handlers.NewBuildInfo(Version, Commit, BuildTime))
	routes := http.NewDefaultRouterConfig(logger, &cfg.App, &cfg.Auth, health, tk.handlers...)
	routes.DefaultWorkspace = cfg.Tools.DefaultWorkspace

	server := http.New(&cfg.Server, logger)
	http.SetupRouter(server.Engine(), routes)

	return serve(ctx, server, cfg.Server, logger)
}

func newLogger(cfg *config.Config) *slog.Logger {
	f := cfg.Log.File

	return logging.New(&logging.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Service: cfg.App.Name,
		Version: cfg.App.Version,
		File: logging.FileConfig{
			Enabled:    f.Enabled,
			Path:       f.Path,
			MaxSizeMB:  f.MaxSizeMB,
			MaxBackups: f.MaxBackups,
			MaxAgeDays: f.MaxAgeDays,
			Compress:   f.Compress,
		},
	})
}

// serve runs server until ctx is cancelled, then drains in-flight requests
// within the configured shutdown timeout.
func serve(ctx context.Context, server *http.Server, cfg config.ServerConfig, logger *slog.Logger) error {
	stopped := server.Start()

	select {
	case err, ok := <-stopped:
		if ok && err != nil {
			return err
		}

		return errors.New("server stopped unexpectedly")
	case <-ctx.Done():
	}

	logger.Info("shutting down", slog.Duration("timeout", cfg.ShutdownTimeout))

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("draining requests: %w", err)
	}
	logger.Info("stopped")

	return nil
}
