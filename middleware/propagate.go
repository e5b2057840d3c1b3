package middleware

import (
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/upb/storefront-platform/auth"
)

// IdentityPropagator copies the request-scoped identity into the internal
// headers consumed by downstream services. It runs after the Guard, just
// before the request is proxied.
type IdentityPropagator struct {
	logger *zap.Logger
}

// NewIdentityPropagator creates a new IdentityPropagator
func NewIdentityPropagator(logger *zap.Logger) *IdentityPropagator {
	return &IdentityPropagator{logger: logger}
}

// Propagate strips any inbound identity headers, then sets them from the
// authenticated user and tenant when both are present. Anonymous requests
// are forwarded without identity headers.
func (p *IdentityPropagator) Propagate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		// External callers must never be able to smuggle these in.
		auth.StripHeaders(r.Header)

		user := GetUserFromContext(ctx)
		tenant := GetTenantFromContext(ctx)
		if user != nil && tenant != nil {
			identity := auth.Identity{
				TenantID: tenant.TenantID,
				UserID:   user.UserID,
				Role:     user.Role,
			}
			identity.SetHeaders(r.Header)

			p.logger.Debug("identity headers set",
				zap.String("request_id", chimw.GetReqID(ctx)),
				zap.String("tenant_id", tenant.TenantID),
				zap.String("user_id", user.UserID))
		}

		next.ServeHTTP(w, r)
	})
}
