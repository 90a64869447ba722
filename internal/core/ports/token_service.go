package ports

import "time"

// TokenClaims is the identity snapshot embedded in a signed token.
// Only the identity fields are trusted after verification; the role
// name is re-read from the registry on every request.
type TokenClaims struct {
	UserID   string
	Username string
	RoleName string
}

// TokenService mints and verifies signed, time-limited credentials.
type TokenService interface {
	// Mint produces a signed token embedding the claims and an expiry.
	// Pure function of inputs, signing secret and current time.
	Mint(userID, username, roleName string) (string, error)
	// Verify checks signature and expiry. All-or-nothing: a failure
	// yields domain.ErrInvalidToken or domain.ErrTokenExpired and no
	// partial claims.
	Verify(token string) (*TokenClaims, error)
	// TTL reports the lifetime applied to minted tokens.
	TTL() time.Duration
}
