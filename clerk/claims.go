package clerk

import (
	"github.com/golang-jwt/jwt/v5"

	"github.com/upb/storefront-platform/auth"
)

// sessionClaims is the typed shape of a Clerk v2 session token. Organization
// membership, when present, lives under the "o" claim.
type sessionClaims struct {
	jwt.RegisteredClaims
	Org *auth.OrgClaims `json:"o,omitempty"`

	// Clerk session metadata, kept for completeness; the gateway only acts
	// on sub and o.
	AuthorizedParty string `json:"azp,omitempty"`
	SessionID       string `json:"sid,omitempty"`
}

// rawClaims re-decodes the token payload into a generic map so the full
// claim set can travel with the derived user. The token has already been
// verified by the time this runs, so unverified parsing is safe here.
func rawClaims(tokenString string) map[string]interface{} {
	parser := jwt.NewParser(jwt.WithoutClaimsValidation())

	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(tokenString, claims); err != nil {
		return nil
	}
	return claims
}
