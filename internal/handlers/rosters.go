package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/jwebster45206/battle-tree/internal/logger"
	"github.com/jwebster45206/battle-tree/pkg/storage"
)

type RosterHandler struct {
	log     *slog.Logger
	storage storage.Storage
}

func NewRosterHandler(log *slog.Logger, storage storage.Storage) *RosterHandler {
	return &RosterHandler{
		log:     log,
		storage: storage,
	}
}

// ServeHTTP lists roster files at /v1/rosters and returns one at /v1/rosters/{filename}
func (h *RosterHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if r.Method != http.MethodGet {
		writeError(w, h.log, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	filename := strings.Trim(strings.TrimPrefix(r.URL.Path, "/v1/rosters"), "/")
	if filename == "" {
		names, err := h.storage.ListRosters(r.Context())
		if err != nil {
			logger.WithError(h.log, err).Error("Failed to list rosters")
			writeError(w, h.log, http.StatusInternalServerError, "Failed to list rosters")
			return
		}
		writeJSON(w, h.log, http.StatusOK, names)
		return
	}

	if strings.Contains(filename, "..") || strings.Contains(filename, "/") {
		writeError(w, h.log, http.StatusBadRequest, "Invalid filename")
		return
	}

	f, err := h.storage.GetRoster(r.Context(), filename)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			writeError(w, h.log, http.StatusNotFound, "Roster not found")
			return
		}
		logger.WithError(h.log, err).Error("Failed to get roster", "filename", filename)
		writeError(w, h.log, http.StatusInternalServerError, "Failed to retrieve roster")
		return
	}
	writeJSON(w, h.log, http.StatusOK, f)
}
