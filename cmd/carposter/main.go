package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/use-agent/carposter/config"
	"github.com/use-agent/carposter/telemetry"
)

func main() {
	// A missing .env is fine; the environment alone is enough.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(config.Load()).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// setup installs the logger and tracer for one command run.
func setup(ctx context.Context, cfg *config.Config, verbose bool) func() {
	lc := cfg.Log
	if verbose {
		lc.Level = "debug"
	}
	initLogger(lc)

	tel, err := telemetry.Setup(ctx, "carposter", telemetry.Config{
		GrpcEndpoint: cfg.Telemetry.GrpcEndpoint,
		HttpEndpoint: cfg.Telemetry.HttpEndpoint,
	})
	if err != nil {
		slog.Warn("tracing disabled", "error", err)
		return func() {}
	}
	return func() {
		if err := tel.Shutdown(context.Background()); err != nil {
			slog.Warn("tracer shutdown", "error", err)
		}
	}
}

// initLogger configures slog based on the LogConfig. The CLI logs to
// stderr so stdout stays clean for --json.
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
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	slog.SetDefault(slog.New(handler))
}
