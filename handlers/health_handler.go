package handlers

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/upb/storefront-platform/repositories/postgres"
	"github.com/upb/storefront-platform/utils"
)

// ServiceHealthHandler handles health endpoints for the internal services
type ServiceHealthHandler struct {
	service string
	db      *postgres.DB
	logger  *zap.Logger
}

// NewServiceHealthHandler creates a new ServiceHealthHandler
func NewServiceHealthHandler(service string, db *postgres.DB, logger *zap.Logger) *ServiceHealthHandler {
	return &ServiceHealthHandler{
		service: service,
		db:      db,
		logger:  logger,
	}
}

// ServiceHealthResponse represents the readiness check response
type ServiceHealthResponse struct {
	Status    string            `json:"status"`
	Service   string            `json:"service"`
	Timestamp string            `json:"timestamp"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// HandleHealth handles GET /health. Always 200 while the process runs.
func (h *ServiceHealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	_ = utils.WriteOK(w, ServiceHealthResponse{
		Status:    "ok",
		Service:   h.service,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// HandleReadiness handles GET /health/ready and verifies the database.
func (h *ServiceHealthHandler) HandleReadiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	checks := make(map[string]string)
	status := "ok"
	httpStatus := http.StatusOK

	if err := h.db.HealthCheck(ctx); err != nil {
		h.logger.Warn("database health check failed", zap.Error(err))
		checks["database"] = "unhealthy"
		status = "unhealthy"
		httpStatus = http.StatusServiceUnavailable
	} else {
		checks["database"] = "healthy"
	}

	response := ServiceHealthResponse{
		Status:    status,
		Service:   h.service,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
	}

	if err := utils.WriteJSON(w, httpStatus, utils.SuccessResponse{Data: response}); err != nil {
		h.logger.Error("failed to write readiness response", zap.Error(err))
	}
}
