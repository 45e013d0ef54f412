// Command server is the entry point for the Stream-X API.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/RahulLalwani5726/Stream-X/internal/bootstrap"
	"github.com/RahulLalwani5726/Stream-X/internal/config"
	"github.com/RahulLalwani5726/Stream-X/internal/middleware"
	"github.com/RahulLalwani5726/Stream-X/internal/observability"
	"github.com/RahulLalwani5726/Stream-X/internal/server"
)

// @title Stream-X API
// @version 1.0
// @description Video sharing, tweets and threaded comments.

// @host localhost:8000
// @BasePath /api/v1
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fatal("failed to load configuration", err)
	}
	observability.SetLogger(middleware.Logger)

	shutdownTracing, err := observability.InitTracing(observability.TracingConfig{
		ServiceName:    "streamx-api",
		ServiceVersion: "1.0",
		Environment:    cfg.Env,
		Enabled:        cfg.TracingEnabled,
		Exporter:       cfg.TracingExporter,
		OTLPEndpoint:   cfg.OTLPEndpoint,
		SamplerRatio:   cfg.TracingSampler,
	})
	if err != nil {
		fatal("failed to initialize tracing", err)
	}

	startCtx, cancelStart := context.WithTimeout(context.Background(), 30*time.Second)
	rt, err := bootstrap.InitRuntime(startCtx, cfg, bootstrap.Options{})
	cancelStart()
	if err != nil {
		fatal("failed to initialize runtime", err)
	}

	srv, err := server.NewServer(cfg, rt)
	if err != nil {
		fatal("failed to create server", err)
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		middleware.Logger.Info("shutting down server")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			middleware.Logger.Error("server shutdown error", slog.String("error", err.Error()))
		}
		if err := rt.Close(ctx); err != nil {
			middleware.Logger.Error("runtime shutdown error", slog.String("error", err.Error()))
		}
		if err := shutdownTracing(ctx); err != nil {
			middleware.Logger.Error("tracer shutdown error", slog.String("error", err.Error()))
		}
	}()

	if err := srv.Start(); err != nil {
		fatal("server stopped", err)
	}
}

func fatal(msg string, err error) {
	middleware.Logger.Error(msg, slog.String("error", err.Error()))
	os.Exit(1)
}
