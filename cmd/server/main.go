package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"github.com/socialchef/snapchef/internal/api"
	"github.com/socialchef/snapchef/internal/config"
	"github.com/socialchef/snapchef/internal/httpclient"
	"github.com/socialchef/snapchef/internal/logger"
	"github.com/socialchef/snapchef/internal/metrics"
	"github.com/socialchef/snapchef/internal/secrets"
	"github.com/socialchef/snapchef/internal/sentry"
	"github.com/socialchef/snapchef/internal/services/gemini"
	"github.com/socialchef/snapchef/internal/services/recipe"
	"github.com/socialchef/snapchef/internal/telemetry"
)

func main() {
	defer sentry.Recover()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger with OTel support
	slog.SetDefault(logger.New(cfg.Env))

	// Initialize telemetry
	if cfg.OtelExporterOTLPEndpoint != "" {
		shutdown, err := telemetry.InitTelemetry(ctx, cfg.ServiceName, cfg.ServiceVersion, cfg.Env,
			cfg.OtelExporterOTLPEndpoint, cfg.OTLPHeaders())
		if err != nil {
			slog.Warn("Failed to init telemetry", "error", err)
		} else {
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(shutdownCtx); err != nil {
					slog.Warn("Telemetry shutdown failed", "error", err)
				}
			}()
		}
	}

	// Initialize Sentry
	if err := sentry.Init(cfg.SentryDSN, cfg.Env, cfg.ServiceName, cfg.ServiceVersion); err != nil {
		slog.Warn("Failed to init Sentry", "error", err)
	} else if cfg.SentryDSN != "" {
		defer sentry.Flush(2 * time.Second)
	}

	// Initialize business metrics
	if err := metrics.Init(); err != nil {
		slog.Warn("Failed to init business metrics", "error", err)
	}

	// The API key is resolved per request, so a missing key does not stop startup.
	resolver := secrets.Default(cfg.SecretsFile)
	clientFactory := gemini.NewFactory(gemini.Options{
		HTTPClient: httpclient.NewInstrumentedClient(cfg.Generation.RequestTimeout),
		BaseURL:    cfg.Generation.BaseURL,
	})

	orchestrator, err := recipe.NewFromConfig(cfg.Generation, resolver, clientFactory)
	if err != nil {
		log.Fatalf("Failed to create recipe orchestrator: %v", err)
	}

	apiServer := api.NewServer(cfg, orchestrator)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           api.NewRouter(apiServer),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("Starting server",
			"port", cfg.Port,
			"models", orchestrator.Models(),
			"auth_enabled", cfg.APIJWTSecret != "",
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down server...")

	// In-flight generations get the full upstream timeout to finish.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Generation.RequestTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Graceful shutdown failed", "error", err)
	}
}
