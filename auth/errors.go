package auth

import "errors"

var (
	// ErrMissingToken is returned when a non-public route receives no bearer token.
	ErrMissingToken = errors.New("missing bearer token")

	// ErrInvalidToken covers every verification failure: malformed, expired,
	// bad signature, unreachable provider. Kept deliberately coarse so clients
	// cannot probe which sub-reason occurred.
	ErrInvalidToken = errors.New("invalid token")

	// ErrNoTenant is returned when a verified token carries no organization
	// membership on a route that requires one.
	ErrNoTenant = errors.New("organization membership required")

	// ErrForbidden is returned when the user's role is not in the route's
	// required role set.
	ErrForbidden = errors.New("insufficient role")
)
