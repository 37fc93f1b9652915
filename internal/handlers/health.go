package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/bobmcallan/dart-portal/internal/common"
)

// HealthHandler handles health check requests.
type HealthHandler struct {
	logger *common.Logger
	count  func(ctx context.Context) (int64, error)
}

// NewHealthHandler creates a new health handler. count reports the size of
// the company directory; nil skips the storage check.
func NewHealthHandler(logger *common.Logger, count func(ctx context.Context) (int64, error)) *HealthHandler {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	return &HealthHandler{logger: logger, count: count}
}

// ServeHTTP handles GET /api/health.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	if h.count == nil {
		WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	n, err := h.count(ctx)
	if err != nil {
		h.logger.Warn().Err(err).Msg("health check: storage unavailable")
		WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "down"})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"companies": n,
	})
}
