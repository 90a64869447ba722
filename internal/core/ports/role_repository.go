package ports

import (
	"context"

	"github.com/accesskeep/accesskeep/internal/core/domain"
)

// RoleRepository defines persistence operations for roles.
type RoleRepository interface {
	Create(ctx context.Context, role *domain.Role) (*domain.Role, error)
	FindByID(ctx context.Context, id string) (*domain.Role, error)
	FindByName(ctx context.Context, name string) (*domain.Role, error)
	List(ctx context.Context) ([]*domain.Role, error)
	Update(ctx context.Context, role *domain.Role) (*domain.Role, error)
	// DeleteIfUnused removes the role only when no user references it.
	// The membership count and the delete must be observed atomically
	// relative to concurrent user-role reassignment; a role that still
	// has members yields domain.ErrRoleInUse.
	DeleteIfUnused(ctx context.Context, id string) error
}
