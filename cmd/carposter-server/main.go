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

	"github.com/joho/godotenv"
	"github.com/use-agent/carposter/api"
	"github.com/use-agent/carposter/api/handler"
	"github.com/use-agent/carposter/config"
	"github.com/use-agent/carposter/pipeline"
	"github.com/use-agent/carposter/telemetry"
)

func main() {
	// ── 1. Load configuration ───────────────────────────────────────
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintln(os.Stderr, "failed to read .env:", err)
	}
	cfg := config.Load()

	// ── 2. Initialise structured logging and tracing ────────────────
	initLogger(cfg.Log)
	slog.Info("carposter server starting",
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
		"mode", cfg.Server.Mode,
		"catalog", cfg.Catalog.BaseURL,
		"auth", cfg.Auth.Enabled,
		"max_jobs", cfg.Server.MaxJobs,
	)

	tel, err := telemetry.Setup(context.Background(), "carposter-server", telemetry.Config{
		GrpcEndpoint: cfg.Telemetry.GrpcEndpoint,
		HttpEndpoint: cfg.Telemetry.HttpEndpoint,
	})
	if err != nil {
		slog.Warn("tracing disabled", "error", err)
	}

	// ── 3. One pipeline per request; each owns its browser ─────────
	jobs := handler.NewJobs(func() (handler.Runner, error) {
		return pipeline.New(cfg)
	}, cfg.Server.MaxJobs)

	// ── 4. Setup router and start HTTP server ──────────────────────
	router := api.NewRouter(cfg, jobs, time.Now())
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		slog.Info("HTTP server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server error", "error", err)
			os.Exit(1)
		}
	}()

	// ── 5. Graceful shutdown ────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig.String(), "active_jobs", jobs.Active())

	// Poster jobs drive a browser, so allow longer than a plain API.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("HTTP server forced shutdown", "error", err)
	} else {
		slog.Info("HTTP server drained gracefully")
	}
	if err := tel.Shutdown(ctx); err != nil {
		slog.Warn("tracer shutdown", "error", err)
	}

	slog.Info("carposter server stopped")
}

// initLogger configures slog based on the LogConfig.
func initLogger(cfg config.LogConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	slog.SetDefault(slog.New(handler))
}
