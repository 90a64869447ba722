package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/accesskeep/accesskeep/internal/core/domain"
	"github.com/accesskeep/accesskeep/internal/core/ports"
)

// RoleService implements role management. System role definitions are
// immutable and a role can never be deleted while users reference it.
type RoleService struct {
	roles  ports.RoleRepository
	users  ports.UserRepository
	perms  ports.PermissionRepository
	logger zerolog.Logger
}

func NewRoleService(roles ports.RoleRepository, users ports.UserRepository, perms ports.PermissionRepository, logger zerolog.Logger) *RoleService {
	return &RoleService{roles: roles, users: users, perms: perms, logger: logger}
}

func (s *RoleService) List(ctx context.Context) ([]ports.RoleSummary, error) {
	roles, err := s.roles.List(ctx)
	if err != nil {
		return nil, err
	}

	summaries := make([]ports.RoleSummary, 0, len(roles))
	for _, r := range roles {
		count, err := s.users.CountByRole(ctx, r.ID)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, ports.RoleSummary{Role: r, MemberCount: count})
	}
	return summaries, nil
}

func (s *RoleService) Get(ctx context.Context, id string) (*ports.RoleDetail, error) {
	role, err := s.roles.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	perms, err := s.perms.FindByIDs(ctx, role.Permissions.IDs())
	if err != nil {
		return nil, err
	}

	count, err := s.users.CountByRole(ctx, role.ID)
	if err != nil {
		return nil, err
	}

	return &ports.RoleDetail{Role: role, Permissions: perms, MemberCount: count}, nil
}

func (s *RoleService) Create(ctx context.Context, in ports.CreateRoleInput) (*domain.Role, error) {
	name := strings.ToLower(strings.TrimSpace(in.Name))
	if err := s.checkNameFree(ctx, name); err != nil {
		return nil, err
	}

	set, err := s.validatedSet(ctx, in.PermissionIDs)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	role := &domain.Role{
		Name:        name,
		Description: in.Description,
		Permissions: set,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	created, err := s.roles.Create(ctx, role)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("role", created.Name).Int("permissions", set.Len()).Msg("role created")
	return created, nil
}

func (s *RoleService) Update(ctx context.Context, id string, in ports.UpdateRoleInput) (*domain.Role, error) {
	current, err := s.roles.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if domain.IsSystemRole(current.Name) {
		return nil, domain.ErrSystemRoleImmutable
	}

	if in.Name != "" {
		name := strings.ToLower(strings.TrimSpace(in.Name))
		if name != current.Name {
			if err := s.checkNameFree(ctx, name); err != nil {
				return nil, err
			}
			current.Name = name
		}
	}

	if in.Description != "" {
		current.Description = in.Description
	}

	if in.PermissionIDs != nil {
		set, err := s.validatedSet(ctx, in.PermissionIDs)
		if err != nil {
			return nil, err
		}
		current.Permissions = set
	}

	current.UpdatedAt = time.Now().UTC()

	updated, err := s.roles.Update(ctx, current)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("role", updated.Name).Msg("role updated")
	return updated, nil
}

// Delete removes a role. The membership check runs inside the
// repository's transaction boundary so a concurrent user-role
// reassignment cannot slip past it.
func (s *RoleService) Delete(ctx context.Context, id string) error {
	role, err := s.roles.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if domain.IsSystemRole(role.Name) {
		return domain.ErrSystemRoleImmutable
	}

	if err := s.roles.DeleteIfUnused(ctx, id); err != nil {
		return err
	}

	s.logger.Info().Str("role", role.Name).Msg("role deleted")
	return nil
}

func (s *RoleService) checkNameFree(ctx context.Context, name string) error {
	if name == "" {
		return fmt.Errorf("%w: role name is required", domain.ErrValidation)
	}
	_, err := s.roles.FindByName(ctx, name)
	if err == nil {
		return domain.ErrRoleExists
	}
	if errors.Is(err, domain.ErrRoleNotFound) {
		return nil
	}
	return err
}

// validatedSet checks every supplied permission id against the registry
// before it is stored; an unknown id fails the whole write.
func (s *RoleService) validatedSet(ctx context.Context, ids []string) (domain.PermissionSet, error) {
	set := domain.NewPermissionSet(ids...)
	if set.Len() == 0 {
		return set, nil
	}

	found, err := s.perms.FindByIDs(ctx, set.IDs())
	if err != nil {
		return nil, err
	}
	if len(found) != set.Len() {
		return nil, fmt.Errorf("%w: unknown permission id", domain.ErrValidation)
	}
	return set, nil
}
