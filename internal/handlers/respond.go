// internal/handlers/respond.go
package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/ammerola/stockscan/internal/core/domain"
)

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error string `json:"error"`
}

func respondJSON(w http.ResponseWriter, logger *slog.Logger, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode JSON response",
			slog.String("error", err.Error()))
	}
}

func respondError(w http.ResponseWriter, logger *slog.Logger, status int, message string) {
	respondJSON(w, logger, status, ErrorResponse{Error: message})
}

// statusForError maps repository and domain errors onto HTTP statuses
func statusForError(err error) int {
	switch {
	case domain.IsValidationError(err):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusBadGateway
	case errors.Is(err, domain.ErrVersionConflict):
		return http.StatusConflict
	case domain.IsStoreError(err):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// respondServiceError logs err and writes the mapped status. Client errors
// carry the error text; server errors carry message.
func respondServiceError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error, message string) {
	status := statusForError(err)
	if status >= http.StatusInternalServerError || status == http.StatusConflict {
		logger.ErrorContext(r.Context(), message,
			slog.Int("status", status),
			slog.String("error", err.Error()))
	}

	switch status {
	case http.StatusBadRequest:
		respondError(w, logger, status, err.Error())
	case http.StatusBadGateway:
		respondError(w, logger, status, "Inventory store rejected the credentials")
	case http.StatusConflict:
		respondError(w, logger, status, "Inventory was changed by another client, retry the request")
	case http.StatusServiceUnavailable:
		respondError(w, logger, status, "Inventory store is unavailable")
	default:
		respondError(w, logger, status, message)
	}
}

func decodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	return dec.Decode(dst)
}
