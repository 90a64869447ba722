package ports

import (
	"context"

	"github.com/accesskeep/accesskeep/internal/core/domain"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// List returns a page of users ordered by creation time (newest
	// first) and the total user count.
	List(ctx context.Context, page, limit int) ([]*domain.User, int64, error)
	Update(ctx context.Context, user *domain.User) (*domain.User, error)
	Delete(ctx context.Context, id string) error
	// CountByRole returns the number of users referencing the role.
	CountByRole(ctx context.Context, roleID string) (int64, error)
}
