package ports

import (
	"context"
	"time"

	"github.com/accesskeep/accesskeep/internal/core/domain"
)

// CreateUserInput carries all data needed to create a new user.
type CreateUserInput struct {
	Username string
	Email    string
	Password string
	RoleID   string
}

// UpdateUserInput carries the updatable user fields. Empty fields are
// left unchanged.
type UpdateUserInput struct {
	Username string
	Email    string
	Password string
	RoleID   string
}

// UserSummary is the lightweight view used in list responses.
type UserSummary struct {
	ID        string
	Username  string
	Email     string
	RoleName  string
	CreatedBy string
	CreatedAt time.Time
}

// ListUsersResult is returned by List.
type ListUsersResult struct {
	Users      []UserSummary
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// UserDetail is the full user view including resolved permissions.
type UserDetail struct {
	User        *domain.User
	RoleName    string
	Permissions []*domain.Permission
}

// UserService defines use-case operations for user management. Every
// mutation takes the acting principal so the privilege-escalation guard
// can be applied against the target's role.
type UserService interface {
	List(ctx context.Context, page, limit int) (*ListUsersResult, error)
	Get(ctx context.Context, id string) (*UserDetail, error)
	Create(ctx context.Context, actor domain.Principal, in CreateUserInput) (*domain.User, error)
	Update(ctx context.Context, actor domain.Principal, id string, in UpdateUserInput) (*domain.User, error)
	Delete(ctx context.Context, actor domain.Principal, id string) error
}
