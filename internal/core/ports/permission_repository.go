package ports

import (
	"context"

	"github.com/accesskeep/accesskeep/internal/core/domain"
)

// PermissionRepository defines read operations over the permission
// registry. Permissions are seed data; there are no write operations.
type PermissionRepository interface {
	List(ctx context.Context) ([]*domain.Permission, error)
	FindByName(ctx context.Context, name string) (*domain.Permission, error)
	// FindByIDs resolves the given ids, ignoring unknown ones. Callers
	// that need strict validation compare result length to input length.
	FindByIDs(ctx context.Context, ids []string) ([]*domain.Permission, error)
}
