package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/accesskeep/accesskeep/internal/core/domain"
	"github.com/accesskeep/accesskeep/internal/core/ports"
)

// AuthService implements login and per-request identity resolution.
type AuthService struct {
	users  ports.UserRepository
	roles  ports.RoleRepository
	tokens ports.TokenService
	logger zerolog.Logger
}

func NewAuthService(users ports.UserRepository, roles ports.RoleRepository, tokens ports.TokenService, logger zerolog.Logger) *AuthService {
	return &AuthService{users: users, roles: roles, tokens: tokens, logger: logger}
}

func (s *AuthService) Login(ctx context.Context, username, password string) (string, *domain.User, error) {
	if username == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		// Unknown user and bad password are indistinguishable so the
		// login form never leaks which usernames exist.
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	role, err := s.roles.FindByID(ctx, user.RoleID)
	if err != nil {
		return "", nil, err
	}

	token, err := s.tokens.Mint(user.ID, user.Username, role.Name)
	if err != nil {
		return "", nil, err
	}

	s.logger.Info().Str("username", user.Username).Str("role", role.Name).Msg("login succeeded")
	return token, user, nil
}

// Authenticate verifies the token and reloads the caller's current role
// and permission set from the registry. The token's embedded role name
// is only a snapshot; authorization decisions always use the live data,
// so a permission revocation takes effect on the holder's next request.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*domain.Principal, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return nil, err
	}

	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}

	role, err := s.roles.FindByID(ctx, user.RoleID)
	if err != nil {
		return nil, err
	}

	return &domain.Principal{
		UserID:      user.ID,
		Username:    user.Username,
		RoleID:      role.ID,
		RoleName:    role.Name,
		Permissions: role.Permissions,
	}, nil
}
