package middleware

import (
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/upb/storefront-platform/auth"
	"github.com/upb/storefront-platform/utils"
)

// InternalIdentity reconstructs the caller identity on an internal service
// from the headers the gateway propagated. The headers are trusted because
// only the gateway can reach these services; requests without them are
// treated as anonymous and rejected.
type InternalIdentity struct {
	logger *zap.Logger
}

// NewInternalIdentity creates a new InternalIdentity middleware
func NewInternalIdentity(logger *zap.Logger) *InternalIdentity {
	return &InternalIdentity{logger: logger}
}

// Require rejects requests without identity headers and stores the identity
// in the request context for handlers.
func (m *InternalIdentity) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		identity, ok := auth.IdentityFromHeaders(r.Header)
		if !ok {
			m.logger.Warn("request without identity headers",
				zap.String("request_id", chimw.GetReqID(ctx)),
				zap.String("path", r.URL.Path))
			_ = utils.WriteUnauthorized(w, "Identity headers required")
			return
		}

		next.ServeHTTP(w, r.WithContext(WithIdentity(ctx, identity)))
	})
}

// RequireRole additionally requires the propagated role to match one of the
// given roles. Wire it after Require.
func (m *InternalIdentity) RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			identity, ok := GetIdentityFromContext(ctx)
			if !ok {
				_ = utils.WriteUnauthorized(w, "Identity headers required")
				return
			}

			if !hasAnyRole(identity.Role, roles) {
				m.logger.Warn("insufficient role on internal request",
					zap.String("request_id", chimw.GetReqID(ctx)),
					zap.String("role", identity.Role),
					zap.Strings("required_roles", roles))
				_ = utils.WriteForbidden(w, "Insufficient permissions")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
