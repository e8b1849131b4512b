// cmd/api/main.go
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

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/ammerola/stockscan/internal/bootstrap"
	"github.com/ammerola/stockscan/internal/core/ports"
	"github.com/ammerola/stockscan/internal/core/services"
	"github.com/ammerola/stockscan/internal/handlers"
	"github.com/ammerola/stockscan/internal/handlers/middleware"
	"github.com/ammerola/stockscan/internal/pkg/config"
	"github.com/ammerola/stockscan/internal/pkg/logger"
)

// Build information injected at compile time
var (
	Version   = "dev"
	BuildTime = "unknown"
	GoVersion = "unknown"
)

func main() {
	slogger := logger.SetupLogger("info", "json")

	slogger.Info("starting stockscan api",
		slog.String("version", Version),
		slog.String("build_time", BuildTime),
		slog.String("go_version", GoVersion),
	)

	cfg, err := config.Load(slogger)
	if err != nil {
		slogger.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slogger = logger.SetupLogger(cfg.App.LogLevel, cfg.App.LogFormat)
	slogger.Info("configuration loaded",
		slog.String("environment", cfg.App.Environment),
		slog.String("backend", cfg.Store.Backend),
		slog.String("log_level", cfg.App.LogLevel),
	)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	deps, err := initializeDependencies(ctx, cfg, slogger)
	if err != nil {
		slogger.Error("failed to initialize dependencies", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer deps.cleanup(slogger)

	server := setupHTTPServer(ctx, cfg, deps, slogger)

	serverErrors := make(chan error, 1)
	go func() {
		slogger.Info("starting HTTP server", slog.String("address", cfg.GetServerAddress()))
		serverErrors <- server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slogger.Error("server error", slog.String("error", err.Error()))
		}
	case sig := <-shutdown:
		slogger.Info("shutdown signal received", slog.String("signal", sig.String()))

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.GracefulTimeout)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slogger.Error("failed to gracefully shutdown server", slog.String("error", err.Error()))
			server.Close()
		}

		slogger.Info("server shutdown complete")
	}
}

// dependencies holds all application dependencies
type dependencies struct {
	backend        *bootstrap.Backend
	redisClient    *redis.Client
	asynqClient    *asynq.Client
	asynqInspector *asynq.Inspector
	repository     *services.Repository
	routes         *handlers.Routes
}

func (d *dependencies) cleanup(logger *slog.Logger) {
	if d.asynqClient != nil {
		if err := d.asynqClient.Close(); err != nil {
			logger.Error("failed to close Asynq client", slog.String("error", err.Error()))
		}
	}
	if d.asynqInspector != nil {
		d.asynqInspector.Close()
	}
	if d.redisClient != nil {
		d.redisClient.Close()
	}
	if d.backend != nil {
		if err := d.backend.Close(); err != nil {
			logger.Error("failed to close inventory store", slog.String("error", err.Error()))
		}
	}
}

func initializeDependencies(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*dependencies, error) {
	deps := &dependencies{}

	backend, err := bootstrap.NewBackend(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize inventory store: %w", err)
	}
	deps.backend = backend

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	if err := backend.Store.Ping(pingCtx); err != nil {
		logger.Warn("inventory store is not reachable yet", slog.String("error", err.Error()))
	}
	cancel()

	deps.repository = bootstrap.NewRepository(backend.Store, cfg, logger)
	resolver := services.NewResolver(deps.repository, logger)

	// Spreadsheet imports go through the worker when the queue is reachable
	var (
		enqueuer  ports.TaskEnqueuer
		inspector handlers.TaskInspector
		queues    handlers.QueueInspector
	)
	redisClient := bootstrap.NewRedisClient(cfg)
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Warn("redis unavailable, spreadsheet imports run inline",
			slog.String("address", cfg.GetRedisAddr()),
			slog.String("error", err.Error()))
		redisClient.Close()
	} else {
		deps.redisClient = redisClient

		asynqRedisOpt := asynq.RedisClientOpt{
			Addr:     cfg.Asynq.RedisAddr,
			Password: cfg.Asynq.RedisPassword,
			DB:       cfg.Asynq.RedisDB,
		}
		deps.asynqClient = asynq.NewClient(asynqRedisOpt)
		deps.asynqInspector = asynq.NewInspector(asynqRedisOpt)

		enqueuer = deps.asynqClient
		inspector = deps.asynqInspector
		queues = deps.asynqInspector
	}

	maxFileSize := int64(cfg.Security.MaxUploadSizeMB) << 20

	deps.routes = &handlers.Routes{
		Inventory: handlers.NewInventoryHandler(deps.repository, resolver, logger),
		Export:    handlers.NewExportHandler(deps.repository, logger),
		Import:    handlers.NewImportHandler(deps.repository, enqueuer, inspector, maxFileSize, logger),
		Dashboard: handlers.NewDashboardHandler(deps.repository, logger),
		Health:    handlers.NewHealthHandler(backend.Store, deps.redisClient, queues, cfg, logger),
	}

	logger.Info("all dependencies initialized successfully",
		slog.Bool("remote_store", backend.Store.Remote()),
		slog.Bool("background_imports", enqueuer != nil))
	return deps, nil
}

func setupHTTPServer(ctx context.Context, cfg *config.Config, deps *dependencies, logger *slog.Logger) *http.Server {
	mux := http.NewServeMux()
	deps.routes.Register(mux)

	var handler http.Handler = mux

	// Innermost first
	if cfg.Server.RequestTimeout > 0 {
		handler = middleware.Timeout(cfg.Server.RequestTimeout)(handler)
	}
	handler = middleware.Compression(handler)
	handler = middleware.Recovery(logger)(handler)
	handler = middleware.Logger(logger)(handler)
	handler = middleware.RequestID(cfg.Security.RequestIDHeader)(handler)

	if cfg.Security.RateLimitRequests > 0 {
		handler = middleware.RateLimit(ctx, cfg.Security.RateLimitRequests, cfg.Security.RateLimitDuration)(handler)
	}

	if len(cfg.Security.AllowedOrigins) > 0 {
		handler = middleware.CORS(cfg.Security.AllowedOrigins)(handler)
	}

	if cfg.IsProduction() {
		handler = middleware.SecureHeaders(handler)
	}

	return &http.Server{
		Addr:           cfg.GetServerAddress(),
		Handler:        handler,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
		ErrorLog:       slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}
}
