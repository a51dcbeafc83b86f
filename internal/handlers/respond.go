package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/jwebster45206/battle-tree/internal/session"
	"github.com/jwebster45206/battle-tree/pkg/tree"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, logger *slog.Logger, status int, v any) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, logger *slog.Logger, status int, msg string) {
	writeJSON(w, logger, status, ErrorResponse{Error: msg})
}

// statusFor maps editing errors onto HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, tree.ErrMissingReference):
		return http.StatusNotFound
	case errors.Is(err, tree.ErrDuplicateKey):
		return http.StatusConflict
	case errors.Is(err, tree.ErrProtectedEntity):
		return http.StatusForbidden
	case errors.Is(err, session.ErrInvalidInput),
		errors.Is(err, session.ErrSlotDisabled),
		errors.Is(err, tree.ErrCycle):
		return http.StatusBadRequest
	case errors.Is(err, session.ErrNoTrainer):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}
