package middleware

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"

	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/upb/storefront-platform/auth"
	"github.com/upb/storefront-platform/routemeta"
	"github.com/upb/storefront-platform/utils"
)

// bearerPrefix is the only accepted Authorization scheme. The scheme token
// is matched case-sensitively.
const bearerPrefix = "Bearer "

// TokenVerifier verifies a bearer token and returns its claims.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*auth.VerifiedClaims, error)
}

// Guard authenticates every inbound request according to the route's
// registered annotation: public routes pass through untouched, everything
// else requires a verified token with organization membership and, when the
// annotation lists roles, one of those roles.
type Guard struct {
	registry *routemeta.Registry
	verifier TokenVerifier
	logger   *zap.Logger
}

// NewGuard creates a new Guard
func NewGuard(registry *routemeta.Registry, verifier TokenVerifier, logger *zap.Logger) *Guard {
	return &Guard{
		registry: registry,
		verifier: verifier,
		logger:   logger,
	}
}

// Authorize returns the middleware enforcing the annotation registered for
// routeKey. Wire it per route (or per group) during router setup.
func (g *Guard) Authorize(routeKey string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			requestID := chimw.GetReqID(ctx)

			ann := g.registry.Resolve(routeKey)
			if ann.Public {
				// Anonymous outcome: no identity attached, nothing verified.
				next.ServeHTTP(w, r)
				return
			}

			token, ok := bearerToken(r)
			if !ok {
				g.logger.Warn("missing bearer token",
					zap.String("request_id", requestID),
					zap.String("route", routeKey))
				g.deny(w, auth.ErrMissingToken)
				return
			}

			claims, err := g.verifier.Verify(ctx, token)
			if err != nil {
				// Collapse every verification failure, including provider
				// errors, so clients cannot probe token validity.
				g.logger.Warn("token verification failed",
					zap.String("request_id", requestID),
					zap.String("route", routeKey),
					zap.Error(err))
				g.deny(w, auth.ErrInvalidToken)
				return
			}

			user := auth.NewUserFromClaims(claims)
			if user.TenantID == "" {
				g.logger.Warn("verified user has no organization",
					zap.String("request_id", requestID),
					zap.String("user_id", user.UserID))
				g.deny(w, auth.ErrNoTenant)
				return
			}

			tenant := &auth.TenantContext{
				TenantID:  user.TenantID,
				Subdomain: subdomainFromHost(r.Host),
			}

			if len(ann.Roles) > 0 && !hasAnyRole(user.Role, ann.Roles) {
				g.logger.Warn("insufficient role",
					zap.String("request_id", requestID),
					zap.String("user_id", user.UserID),
					zap.String("role", user.Role),
					zap.Strings("required_roles", ann.Roles))
				g.deny(w, auth.ErrForbidden)
				return
			}

			ctx = WithUser(ctx, &user)
			ctx = WithTenant(ctx, tenant)

			g.logger.Debug("request authenticated",
				zap.String("request_id", requestID),
				zap.String("user_id", user.UserID),
				zap.String("tenant_id", tenant.TenantID))

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// deny maps the auth error taxonomy to client responses. Everything is a
// 401 except a failed role check.
func (g *Guard) deny(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, auth.ErrForbidden):
		_ = utils.WriteForbidden(w, "Insufficient permissions")
	case errors.Is(err, auth.ErrMissingToken):
		_ = utils.WriteUnauthorized(w, "Missing or invalid authorization")
	case errors.Is(err, auth.ErrNoTenant):
		_ = utils.WriteUnauthorized(w, "Organization membership required")
	default:
		_ = utils.WriteUnauthorized(w, "Invalid or expired token")
	}
}

// bearerToken extracts the token from the Authorization header. Only the
// exact "Bearer " scheme is accepted.
func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	token, found := strings.CutPrefix(header, bearerPrefix)
	if !found || token == "" {
		return "", false
	}
	return token, true
}

// subdomainFromHost parses the leading label from hosts with more than two
// labels ("shop.example.com" -> "shop", "example.com" -> ""). The value is
// client-controlled and is never used for authorization.
func subdomainFromHost(host string) string {
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	parts := strings.Split(host, ".")
	if len(parts) > 2 {
		return parts[0]
	}
	return ""
}

// hasAnyRole reports whether role is one of the required roles (OR semantics).
func hasAnyRole(role string, required []string) bool {
	for _, r := range required {
		if role == r {
			return true
		}
	}
	return false
}
