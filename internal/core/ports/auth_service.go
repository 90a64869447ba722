package ports

import (
	"context"

	"github.com/accesskeep/accesskeep/internal/core/domain"
)

// AuthService implements login and identity resolution.
type AuthService interface {
	// Login checks the credentials and returns a freshly minted token.
	// Unknown username and wrong password are indistinguishable to the
	// caller: both yield domain.ErrInvalidCredentials.
	Login(ctx context.Context, username, password string) (string, *domain.User, error)
	// Authenticate verifies a token and resolves the caller's current
	// role and permissions from the live registry, never from the
	// snapshot embedded in the token.
	Authenticate(ctx context.Context, token string) (*domain.Principal, error)
}
