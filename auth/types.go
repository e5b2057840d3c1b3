package auth

// Package auth holds the identity types shared by the api-gateway and the
// internal services. The gateway derives them from verified Clerk tokens;
// the services reconstruct them from the propagated internal headers.

// RolePrefix namespaces roles derived from Clerk organization membership so
// other role sources added later cannot collide with them.
const RolePrefix = "org:"

// Organization roles as they appear after namespacing.
const (
	RoleAdmin  = RolePrefix + "admin"
	RoleMember = RolePrefix + "member"
)

// OrgClaims is the organization sub-claim carried in Clerk v2 session tokens
// under the "o" key.
type OrgClaims struct {
	ID          string `json:"id"`
	Slug        string `json:"slg"`
	Role        string `json:"rol"` // role without the "org:" prefix
	Permissions string `json:"per,omitempty"`
}

// VerifiedClaims is the decoded payload of a successfully verified token.
// Raw preserves the full claim set for downstream inspection.
type VerifiedClaims struct {
	Subject string
	Org     *OrgClaims
	Raw     map[string]interface{}
}

// AuthenticatedUser is derived from VerifiedClaims once per request.
// TenantID is empty exactly when the token carried no organization claim.
type AuthenticatedUser struct {
	UserID        string
	TenantID      string
	Role          string
	SessionClaims map[string]interface{}
}

// TenantContext is the tenant scope of the current request. Subdomain comes
// from the request Host header, so it is client-controlled and must never be
// used for authorization decisions.
type TenantContext struct {
	TenantID  string
	Subdomain string
}

// NewUserFromClaims derives the request-scoped user from verified claims.
func NewUserFromClaims(claims *VerifiedClaims) AuthenticatedUser {
	user := AuthenticatedUser{
		UserID:        claims.Subject,
		SessionClaims: claims.Raw,
	}
	if claims.Org != nil {
		user.TenantID = claims.Org.ID
		if claims.Org.Role != "" {
			user.Role = RolePrefix + claims.Org.Role
		}
	}
	return user
}
