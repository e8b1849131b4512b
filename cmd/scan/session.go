// cmd/scan/session.go
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/ammerola/stockscan/internal/core/domain"
	"github.com/ammerola/stockscan/internal/core/ports"
)

// event is one line of session output
type event struct {
	Input      string               `json:"input"`
	Resolution *domain.Resolution   `json:"resolution,omitempty"`
	Sale       *domain.StockRemoval `json:"sale,omitempty"`
	Error      string               `json:"error,omitempty"`
}

// session resolves scanned codes until the device closes. A line of the form
// "sell <item id> <quantity>" records a sale instead.
type session struct {
	detector ports.CodeDetector
	resolver ports.InventoryResolver
	out      *json.Encoder
	logger   *slog.Logger
}

func newSession(detector ports.CodeDetector, resolver ports.InventoryResolver, out io.Writer, logger *slog.Logger) *session {
	return &session{
		detector: detector,
		resolver: resolver,
		out:      json.NewEncoder(out),
		logger:   logger.With(slog.String("component", "scan_session")),
	}
}

// Run returns nil when the device is exhausted or ctx is cancelled
func (s *session) Run(ctx context.Context) error {
	for {
		input, err := s.detector.Detect(ctx)
		switch {
		case err == nil:
		case errors.Is(err, ports.ErrNoCodeFound):
			continue
		case errors.Is(err, ports.ErrDeviceUnavailable), errors.Is(err, context.Canceled):
			s.logger.Debug("scan input closed", slog.String("reason", err.Error()))
			return nil
		default:
			return fmt.Errorf("failed to read scan: %w", err)
		}

		if err := s.out.Encode(s.handle(ctx, input)); err != nil {
			return fmt.Errorf("failed to write outcome: %w", err)
		}
	}
}

func (s *session) handle(ctx context.Context, input string) event {
	ev := event{Input: input}

	if fields := strings.Fields(input); len(fields) > 0 && strings.EqualFold(fields[0], "sell") {
		if len(fields) != 3 {
			ev.Error = "usage: sell <item id> <quantity>"
			return ev
		}
		qty, ok := domain.ParsePositiveQuantity(fields[2])
		if !ok {
			ev.Sale = &domain.StockRemoval{Status: domain.RemovalInvalidQuantity}
			return ev
		}
		outcome, err := s.resolver.Sell(ctx, fields[1], qty)
		if err != nil {
			s.logger.WarnContext(ctx, "sale failed", slog.String("error", err.Error()))
			ev.Error = err.Error()
			return ev
		}
		ev.Sale = &outcome
		return ev
	}

	res, err := s.resolver.ResolveCode(ctx, input)
	if err != nil {
		s.logger.WarnContext(ctx, "resolve failed",
			slog.String("code", input),
			slog.String("error", err.Error()))
		ev.Error = err.Error()
		return ev
	}
	ev.Resolution = &res
	return ev
}
