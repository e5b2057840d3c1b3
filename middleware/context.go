package middleware

import (
	"context"

	"github.com/upb/storefront-platform/auth"
)

// Context key type to avoid collisions
type contextKey string

const (
	// UserKey is the context key for the authenticated user
	UserKey contextKey = "authenticated_user"

	// TenantKey is the context key for the tenant context
	TenantKey contextKey = "tenant_context"

	// IdentityKey is the context key for the propagated identity on
	// internal services
	IdentityKey contextKey = "internal_identity"
)

// GetUserFromContext retrieves the authenticated user from context.
// Returns nil on public/anonymous requests.
func GetUserFromContext(ctx context.Context) *auth.AuthenticatedUser {
	if val := ctx.Value(UserKey); val != nil {
		if user, ok := val.(*auth.AuthenticatedUser); ok {
			return user
		}
	}
	return nil
}

// WithUser adds the authenticated user to the context
func WithUser(ctx context.Context, user *auth.AuthenticatedUser) context.Context {
	return context.WithValue(ctx, UserKey, user)
}

// GetTenantFromContext retrieves the tenant context from context.
// Returns nil on public/anonymous requests.
func GetTenantFromContext(ctx context.Context) *auth.TenantContext {
	if val := ctx.Value(TenantKey); val != nil {
		if tenant, ok := val.(*auth.TenantContext); ok {
			return tenant
		}
	}
	return nil
}

// WithTenant adds the tenant context to the context
func WithTenant(ctx context.Context, tenant *auth.TenantContext) context.Context {
	return context.WithValue(ctx, TenantKey, tenant)
}

// GetIdentityFromContext retrieves the propagated identity on an internal
// service. Returns the zero Identity and false when the request carried no
// identity headers.
func GetIdentityFromContext(ctx context.Context) (auth.Identity, bool) {
	if val := ctx.Value(IdentityKey); val != nil {
		if id, ok := val.(auth.Identity); ok {
			return id, true
		}
	}
	return auth.Identity{}, false
}

// WithIdentity adds the propagated identity to the context
func WithIdentity(ctx context.Context, id auth.Identity) context.Context {
	return context.WithValue(ctx, IdentityKey, id)
}
