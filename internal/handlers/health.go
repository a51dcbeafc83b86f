package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/jwebster45206/battle-tree/internal/logger"
	"github.com/jwebster45206/battle-tree/pkg/storage"
)

const (
	statusUp   = "up"
	statusDown = "down"
)

// HealthResponse reports whether the API can reach its project store
type HealthResponse struct {
	Status    string                     `json:"status"`
	CheckedAt time.Time                  `json:"checked_at"`
	Service   string                     `json:"service"`
	Checks    map[string]ComponentHealth `json:"checks"`
}

type ComponentHealth struct {
	Status    string  `json:"status"`
	LatencyMS float64 `json:"latency_ms"`
	Error     string  `json:"error,omitempty"`
}

type HealthHandler struct {
	storage storage.Storage
	logger  *slog.Logger
	timeout time.Duration
}

func NewHealthHandler(storage storage.Storage, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		storage: storage,
		logger:  logger,
		timeout: 2 * time.Second,
	}
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	store := h.pingStorage(r.Context())
	resp := HealthResponse{
		Status:    statusUp,
		CheckedAt: time.Now().UTC(),
		Service:   "battle-tree",
		Checks:    map[string]ComponentHealth{"storage": store},
	}

	code := http.StatusOK
	if store.Status != statusUp {
		resp.Status = statusDown
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, h.logger, code, resp)
}

func (h *HealthHandler) pingStorage(ctx context.Context) ComponentHealth {
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	start := time.Now()
	err := h.storage.Ping(ctx)
	check := ComponentHealth{
		Status:    statusUp,
		LatencyMS: float64(time.Since(start).Microseconds()) / 1000,
	}
	if err != nil {
		logger.WithError(h.logger, err).Warn("Storage ping failed")
		check.Status = statusDown
		check.Error = err.Error()
	}
	return check
}
