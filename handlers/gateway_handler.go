package handlers

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/upb/storefront-platform/middleware"
	"github.com/upb/storefront-platform/utils"
)

// GatewayHandler handles the gateway's own endpoints
type GatewayHandler struct {
	logger *zap.Logger
}

// NewGatewayHandler creates a new GatewayHandler
func NewGatewayHandler(logger *zap.Logger) *GatewayHandler {
	return &GatewayHandler{logger: logger}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string `json:"status"`
	Service   string `json:"service"`
	Timestamp string `json:"timestamp"`
}

// HandleHealth handles GET /health. Public, no authentication.
func (h *GatewayHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	_ = utils.WriteOK(w, HealthResponse{
		Status:    "ok",
		Service:   "api-gateway",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// MeResponse is the derived identity of the caller, the end-to-end probe of
// the whole authentication pipeline.
type MeResponse struct {
	User   MeUser   `json:"user"`
	Tenant MeTenant `json:"tenant"`
}

// MeUser is the user part of MeResponse
type MeUser struct {
	ID   string `json:"id"`
	Role string `json:"role,omitempty"`
}

// MeTenant is the tenant part of MeResponse
type MeTenant struct {
	ID        string `json:"id"`
	Subdomain string `json:"subdomain,omitempty"`
}

// HandleMe handles GET /me. Requires authentication; the guard has already
// attached user and tenant to the request context.
func (h *GatewayHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user := middleware.GetUserFromContext(ctx)
	tenant := middleware.GetTenantFromContext(ctx)
	if user == nil || tenant == nil {
		// Only reachable if the route was wired without the guard.
		h.logger.Error("identity missing on authenticated route")
		_ = utils.WriteUnauthorized(w, "Authentication required")
		return
	}

	_ = utils.WriteOK(w, MeResponse{
		User: MeUser{
			ID:   user.UserID,
			Role: user.Role,
		},
		Tenant: MeTenant{
			ID:        tenant.TenantID,
			Subdomain: tenant.Subdomain,
		},
	})
}
