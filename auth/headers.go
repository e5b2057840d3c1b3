package auth

import "net/http"

// Internal identity headers. The gateway sets them on requests proxied to
// internal services; they are trustworthy only because the network prevents
// external callers from reaching those services directly.
const (
	HeaderTenantID = "X-Tenant-ID"
	HeaderUserID   = "X-User-ID"
	HeaderUserRole = "X-User-Role"
)

// Identity is the minimal caller context an internal service receives from
// the gateway.
type Identity struct {
	TenantID string
	UserID   string
	Role     string
}

// IdentityFromHeaders reconstructs the caller identity from the internal
// headers. ok is false when tenant or user is missing, in which case the
// request must be treated as anonymous.
func IdentityFromHeaders(h http.Header) (Identity, bool) {
	id := Identity{
		TenantID: h.Get(HeaderTenantID),
		UserID:   h.Get(HeaderUserID),
		Role:     h.Get(HeaderUserRole),
	}
	if id.TenantID == "" || id.UserID == "" {
		return Identity{}, false
	}
	return id, true
}

// SetHeaders writes the identity onto an outgoing request's headers.
func (id Identity) SetHeaders(h http.Header) {
	h.Set(HeaderTenantID, id.TenantID)
	h.Set(HeaderUserID, id.UserID)
	if id.Role != "" {
		h.Set(HeaderUserRole, id.Role)
	}
}

// StripHeaders removes any inbound identity headers so external callers can
// never smuggle a forged identity past the gateway.
func StripHeaders(h http.Header) {
	h.Del(HeaderTenantID)
	h.Del(HeaderUserID)
	h.Del(HeaderUserRole)
}
