// cmd/scan/main.go
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/ammerola/stockscan/internal/adapters/scanner"
	"github.com/ammerola/stockscan/internal/bootstrap"
	"github.com/ammerola/stockscan/internal/core/services"
	"github.com/ammerola/stockscan/internal/pkg/config"
	"github.com/ammerola/stockscan/internal/pkg/logger"
)

func main() {
	// Logs go to stderr; stdout carries one JSON outcome per scan
	slogger := logger.New(logger.Options{Level: "warn", Format: "text", Output: os.Stderr})

	cfg, err := config.Load(slogger)
	if err != nil {
		slogger.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slogger = logger.New(logger.Options{
		Level:       cfg.App.LogLevel,
		Format:      "text",
		Output:      os.Stderr,
		ServiceName: "stockscan-scan",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	backend, err := bootstrap.NewBackend(ctx, cfg, slogger)
	if err != nil {
		slogger.Error("failed to initialize inventory store", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer backend.Close()

	repo := bootstrap.NewRepository(backend.Store, cfg, slogger)
	resolver := services.NewResolver(repo, slogger)
	detector := scanner.NewLineDetector(os.Stdin, slogger)
	defer detector.Close()

	s := newSession(detector, resolver, os.Stdout, slogger)
	if err := s.Run(ctx); err != nil {
		slogger.Error("scan session ended", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
