package dto

// Health statuses reported by the probe endpoints
const (
	StatusOK       = "ok"
	StatusAlive    = "alive"
	StatusReady    = "ready"
	StatusDegraded = "degraded"
)

// HealthResponse represents the response structure for health checks
type HealthResponse struct {
	Status  string `json:"status" example:"ok"`
	Details any    `json:"details,omitempty"`
}
