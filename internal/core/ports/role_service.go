package ports

import (
	"context"

	"github.com/accesskeep/accesskeep/internal/core/domain"
)

// CreateRoleInput carries all data needed to create a new role.
type CreateRoleInput struct {
	Name          string
	Description   string
	PermissionIDs []string
}

// UpdateRoleInput carries the updatable role fields. A nil
// PermissionIDs leaves the permission set unchanged.
type UpdateRoleInput struct {
	Name          string
	Description   string
	PermissionIDs []string
}

// RoleSummary is a role together with its live member count.
type RoleSummary struct {
	Role        *domain.Role
	MemberCount int64
}

// RoleDetail is the full role view including resolved permissions.
type RoleDetail struct {
	Role        *domain.Role
	Permissions []*domain.Permission
	MemberCount int64
}

// RoleService defines use-case operations for role management.
type RoleService interface {
	List(ctx context.Context) ([]RoleSummary, error)
	Get(ctx context.Context, id string) (*RoleDetail, error)
	Create(ctx context.Context, in CreateRoleInput) (*domain.Role, error)
	Update(ctx context.Context, id string, in UpdateRoleInput) (*domain.Role, error)
	Delete(ctx context.Context, id string) error
}
