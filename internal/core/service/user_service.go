package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/accesskeep/accesskeep/internal/core/domain"
	"github.com/accesskeep/accesskeep/internal/core/ports"
)

const (
	defaultPageLimit = 10
	maxPageLimit     = 100
)

// UserService implements user management with the privilege-escalation
// guard applied inside every mutation.
type UserService struct {
	users  ports.UserRepository
	roles  ports.RoleRepository
	perms  ports.PermissionRepository
	logger zerolog.Logger
}

func NewUserService(users ports.UserRepository, roles ports.RoleRepository, perms ports.PermissionRepository, logger zerolog.Logger) *UserService {
	return &UserService{users: users, roles: roles, perms: perms, logger: logger}
}

func (s *UserService) List(ctx context.Context, page, limit int) (*ports.ListUsersResult, error) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	users, total, err := s.users.List(ctx, page, limit)
	if err != nil {
		return nil, err
	}

	roleNames, err := s.roleNameIndex(ctx)
	if err != nil {
		return nil, err
	}

	summaries := make([]ports.UserSummary, 0, len(users))
	for _, u := range users {
		summaries = append(summaries, ports.UserSummary{
			ID:        u.ID,
			Username:  u.Username,
			Email:     u.Email,
			RoleName:  roleNames[u.RoleID],
			CreatedBy: u.CreatedBy,
			CreatedAt: u.CreatedAt,
		})
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return &ports.ListUsersResult{
		Users:      summaries,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}, nil
}

func (s *UserService) Get(ctx context.Context, id string) (*ports.UserDetail, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	role, err := s.roles.FindByID(ctx, user.RoleID)
	if err != nil {
		return nil, err
	}

	perms, err := s.perms.FindByIDs(ctx, role.Permissions.IDs())
	if err != nil {
		return nil, err
	}

	return &ports.UserDetail{User: user, RoleName: role.Name, Permissions: perms}, nil
}

func (s *UserService) Create(ctx context.Context, actor domain.Principal, in ports.CreateUserInput) (*domain.User, error) {
	if err := s.checkUsernameFree(ctx, in.Username); err != nil {
		return nil, err
	}
	if err := s.checkEmailFree(ctx, in.Email); err != nil {
		return nil, err
	}

	role, err := s.roles.FindByID(ctx, in.RoleID)
	if err != nil {
		if errors.Is(err, domain.ErrRoleNotFound) {
			return nil, fmt.Errorf("%w: role does not exist", domain.ErrValidation)
		}
		return nil, err
	}

	if err := domain.CanActOn(actor.RoleName, role.Name, domain.ActionCreate); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: string(hash),
		RoleID:       role.ID,
		CreatedBy:    actor.UserID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("username", created.Username).Str("role", role.Name).Str("created_by", actor.Username).Msg("user created")
	return created, nil
}

func (s *UserService) Update(ctx context.Context, actor domain.Principal, id string, in ports.UpdateUserInput) (*domain.User, error) {
	current, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	currentRole, err := s.roles.FindByID(ctx, current.RoleID)
	if err != nil {
		return nil, err
	}

	if err := domain.CanActOn(actor.RoleName, currentRole.Name, domain.ActionEdit); err != nil {
		return nil, err
	}

	if in.RoleID != "" && in.RoleID != current.RoleID {
		targetRole, err := s.roles.FindByID(ctx, in.RoleID)
		if err != nil {
			if errors.Is(err, domain.ErrRoleNotFound) {
				return nil, fmt.Errorf("%w: role does not exist", domain.ErrValidation)
			}
			return nil, err
		}
		if err := domain.CanActOn(actor.RoleName, targetRole.Name, domain.ActionEdit); err != nil {
			return nil, err
		}
		current.RoleID = targetRole.ID
	}

	if in.Username != "" && in.Username != current.Username {
		if err := s.checkUsernameFree(ctx, in.Username); err != nil {
			return nil, err
		}
		current.Username = in.Username
	}

	if in.Email != "" && in.Email != current.Email {
		if err := s.checkEmailFree(ctx, in.Email); err != nil {
			return nil, err
		}
		current.Email = in.Email
	}

	if in.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		current.PasswordHash = string(hash)
	}

	current.UpdatedBy = actor.UserID
	current.UpdatedAt = time.Now().UTC()

	updated, err := s.users.Update(ctx, current)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("username", updated.Username).Str("updated_by", actor.Username).Msg("user updated")
	return updated, nil
}

func (s *UserService) Delete(ctx context.Context, actor domain.Principal, id string) error {
	target, err := s.users.FindByID(ctx, id)
	if err != nil {
		return err
	}

	targetRole, err := s.roles.FindByID(ctx, target.RoleID)
	if err != nil {
		return err
	}

	// Gate order matters so each denial names the rule that fired:
	// categorical superadmin protection, then the identity gate, then
	// the rank ceiling. The identity gate must run before CanActOn
	// because an actor always shares their own rank.
	if targetRole.Name == domain.RoleSuperadmin {
		return domain.ErrSuperadminUndeletable
	}
	if target.ID == actor.UserID {
		return domain.ErrSelfDeletion
	}
	if err := domain.CanActOn(actor.RoleName, targetRole.Name, domain.ActionDelete); err != nil {
		return err
	}

	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info().Str("username", target.Username).Str("deleted_by", actor.Username).Msg("user deleted")
	return nil
}

func (s *UserService) checkUsernameFree(ctx context.Context, username string) error {
	_, err := s.users.FindByUsername(ctx, username)
	if err == nil {
		return domain.ErrUsernameTaken
	}
	if errors.Is(err, domain.ErrUserNotFound) {
		return nil
	}
	return err
}

func (s *UserService) checkEmailFree(ctx context.Context, email string) error {
	_, err := s.users.FindByEmail(ctx, email)
	if err == nil {
		return domain.ErrEmailTaken
	}
	if errors.Is(err, domain.ErrUserNotFound) {
		return nil
	}
	return err
}

func (s *UserService) roleNameIndex(ctx context.Context) (map[string]string, error) {
	roles, err := s.roles.List(ctx)
	if err != nil {
		return nil, err
	}
	idx := make(map[string]string, len(roles))
	for _, r := range roles {
		idx[r.ID] = r.Name
	}
	return idx, nil
}
