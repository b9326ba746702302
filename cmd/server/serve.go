package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"okr-tracker-api/internal/assistant"
	"okr-tracker-api/internal/auth"
	"okr-tracker-api/internal/handlers"
	"okr-tracker-api/internal/metrics"
	"okr-tracker-api/internal/realtime"
	"okr-tracker-api/internal/routes"
	"okr-tracker-api/internal/service"
	"okr-tracker-api/internal/tracing"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const serviceName = "okr-tracker-api"

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return a.serve(ctx)
		},
	}
}

func (a *app) serve(ctx context.Context) error {
	cfg, log := a.cfg, a.logger
	if cfg.Environment != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	shutdownTracing, err := tracing.Init(ctx, log, cfg.OTLPEndpoint, serviceName, cfg.Environment)
	if err != nil {
		return fmt.Errorf("initializing tracing: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(shutdownCtx); err != nil {
			log.Warn("tracing shutdown failed", slog.String("error", err.Error()))
		}
	}()

	st, err := a.openStore(ctx)
	if err != nil {
		return err
	}

	tokens, err := auth.NewTokens(auth.TokenConfig{
		Secret:   []byte(cfg.JWTSecret),
		Issuer:   cfg.JWTIssuer,
		Audience: cfg.JWTAudience,
		TTL:      cfg.TokenTTL,
	})
	if err != nil {
		return err
	}
	sessions := auth.NewSessions(tokens)
	hub := realtime.NewHub(log)
	ready := map[string]handlers.Pinger{"database": st}

	var publisher realtime.Publisher = realtime.NewLocalPublisher(hub)
	var redisPub *realtime.RedisPublisher
	if cfg.RedisURL != "" {
		redisPub, err = realtime.NewRedisPublisher(ctx, cfg.RedisURL, hub, log)
		if err != nil {
			return err
		}
		defer redisPub.Close()
		publisher = redisPub
		ready["redis"] = redisPub
		log.Info("redis connected, change events fan out across instances")
	}

	bot := assistant.New(assistant.NewCompleter(assistant.Config{
		APIKey:   cfg.Assistant.APIKey,
		Model:    cfg.Assistant.Model,
		Endpoint: cfg.Assistant.Endpoint,
		Timeout:  cfg.Assistant.Timeout,
	}), metrics.ObserveAssistantCall).WithLogger(log)
	if cfg.Assistant.APIKey == "" {
		log.Warn("assistant disabled: ASSISTANT_API_KEY not set")
	}

	svc := service.New(st, service.Options{
		SnapshotTTL: cfg.SnapshotTTL,
		Sessions:    sessions,
		Publisher:   publisher,
		Assistant:   bot,
		Logger:      log,
	})

	if redisPub != nil {
		// writes on other instances make our snapshot stale
		redisPub.OnReceive(func(realtime.Event) { svc.Invalidate() })
		go func() {
			if err := redisPub.Relay(ctx); err != nil {
				log.Error("event relay stopped", slog.String("error", err.Error()))
			}
		}()
	}

	router := routes.SetupRoutes(routes.Deps{
		Handler:            handlers.New(svc, hub, log),
		Sessions:           sessions,
		Logger:             log,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		Ready:              ready,
	})

	// No write timeout: websocket connections and assistant calls outlive it.
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:           otelhttp.NewHandler(router, serviceName),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server starting", slog.Int("port", cfg.ServerPort), slog.String("environment", cfg.Environment))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutdown signal received")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	log.Info("server stopped")
	return nil
}
