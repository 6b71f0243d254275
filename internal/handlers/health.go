package handlers

import (
	"context"
	"errors"
	"io/fs"
	"net/http"
	"os"
	"time"

	"clinica-ia/internal/database"
	"clinica-ia/internal/dto"
	"clinica-ia/internal/utils"
)

const readinessTimeout = 3 * time.Second

// HealthHandler handles health check related requests
type HealthHandler struct {
	db        database.Pinger
	modelPath string
}

// NewHealthHandler creates a new HealthHandler instance.
// db may be nil when no database is configured.
func NewHealthHandler(db database.Pinger, modelPath string) *HealthHandler {
	return &HealthHandler{db: db, modelPath: modelPath}
}

// HealthCheck handles basic health check
// @Summary Health check
// @Description Liveness probe for the recommendation service. Always returns {"status":"ok"}.
// @Tags recommendation
// @Produce json
// @Success 200 {object} dto.HealthResponse
// @Failure 405 {string} string "Method Not Allowed"
// @Router /health [get]
func (h *HealthHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSONResponse(w, http.StatusOK, dto.HealthResponse{Status: dto.StatusOK})
}

// LivenessCheck handles process liveness check
// @Summary Liveness probe
// @Tags ops
// @Produce json
// @Success 200 {object} dto.HealthResponse
// @Router /livez [get]
func (h *HealthHandler) LivenessCheck(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSONResponse(w, http.StatusOK, dto.HealthResponse{Status: dto.StatusAlive})
}

// ReadinessCheck handles readiness check (database connectivity and model artifact)
// @Summary Readiness probe
// @Description Reports database connectivity and whether the configured model artifact exists.
// @Tags ops
// @Produce json
// @Success 200 {object} dto.HealthResponse
// @Failure 503 {object} dto.HealthResponse
// @Router /readyz [get]
func (h *HealthHandler) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	details := map[string]any{
		"model": h.modelStatus(),
	}

	if h.db == nil {
		details["db"] = "disabled"
	} else {
		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		if err := h.db.Ping(ctx); err != nil {
			details["db"] = err.Error()
			utils.WriteJSONResponse(w, http.StatusServiceUnavailable, dto.HealthResponse{
				Status:  dto.StatusDegraded,
				Details: details,
			})
			return
		}
		details["db"] = "ok"
	}

	utils.WriteJSONResponse(w, http.StatusOK, dto.HealthResponse{
		Status:  dto.StatusReady,
		Details: details,
	})
}

func (h *HealthHandler) modelStatus() string {
	info, err := os.Stat(h.modelPath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return "missing"
	case err != nil:
		return "unreadable"
	case info.IsDir():
		return "invalid"
	default:
		return "present"
	}
}
