package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/accesskeep/accesskeep/internal/core/domain"
)

// stubStore is a map-backed implementation of the user, role and
// permission repositories sharing one mutex, so DeleteIfUnused observes
// the membership count and the delete atomically like the real
// transactional repository does.
type stubStore struct {
	mu    sync.Mutex
	seq   int
	users map[string]*domain.User
	roles map[string]*domain.Role
	perms map[string]*domain.Permission
}

func newStubStore() *stubStore {
	return &stubStore{
		users: make(map[string]*domain.User),
		roles: make(map[string]*domain.Role),
		perms: make(map[string]*domain.Permission),
	}
}

func (s *stubStore) nextID(prefix string) string {
	s.seq++
	return fmt.Sprintf("%s%d", prefix, s.seq)
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func cloneRole(r *domain.Role) *domain.Role {
	if r == nil {
		return nil
	}
	clone := *r
	clone.Permissions = domain.NewPermissionSet(r.Permissions.IDs()...)
	return &clone
}

// --- seeding helpers ---

func (s *stubStore) addPermission(name string) *domain.Permission {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := &domain.Permission{ID: s.nextID("p"), Name: name, Description: name}
	s.perms[p.ID] = p
	return p
}

func (s *stubStore) addRole(name string, permIDs ...string) *domain.Role {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now().UTC()
	r := &domain.Role{
		ID:          s.nextID("r"),
		Name:        name,
		Description: name,
		Permissions: domain.NewPermissionSet(permIDs...),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.roles[r.ID] = r
	return cloneRole(r)
}

func (s *stubStore) addUser(username, password, roleID string) *domain.User {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now().UTC()
	u := &domain.User{
		ID:           s.nextID("u"),
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: string(hash),
		RoleID:       roleID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	s.users[u.ID] = u
	return cloneUser(u)
}

// --- UserRepository ---

func (s *stubStore) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Username == user.Username {
			return nil, domain.ErrUsernameTaken
		}
		if u.Email == user.Email {
			return nil, domain.ErrEmailTaken
		}
	}
	created := cloneUser(user)
	created.ID = s.nextID("u")
	s.users[created.ID] = cloneUser(created)
	return created, nil
}

func (s *stubStore) FindByID(_ context.Context, id string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[id]; ok {
		return cloneUser(u), nil
	}
	return nil, domain.ErrUserNotFound
}

func (s *stubStore) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Username == username {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (s *stubStore) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (s *stubStore) List(_ context.Context, page, limit int) ([]*domain.User, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	all := make([]*domain.User, 0, len(s.users))
	for _, u := range s.users {
		all = append(all, cloneUser(u))
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID > all[j].ID })

	start := (page - 1) * limit
	if start >= len(all) {
		return nil, int64(len(all)), nil
	}
	end := start + limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], int64(len(all)), nil
}

func (s *stubStore) Update(_ context.Context, user *domain.User) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[user.ID]; !ok {
		return nil, domain.ErrUserNotFound
	}
	for id, u := range s.users {
		if id == user.ID {
			continue
		}
		if u.Username == user.Username {
			return nil, domain.ErrUsernameTaken
		}
		if u.Email == user.Email {
			return nil, domain.ErrEmailTaken
		}
	}
	s.users[user.ID] = cloneUser(user)
	return cloneUser(user), nil
}

func (s *stubStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(s.users, id)
	return nil
}

func (s *stubStore) CountByRole(_ context.Context, roleID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.countByRoleLocked(roleID), nil
}

func (s *stubStore) countByRoleLocked(roleID string) int64 {
	var n int64
	for _, u := range s.users {
		if u.RoleID == roleID {
			n++
		}
	}
	return n
}

// --- RoleRepository ---

func (s *stubStore) CreateRole(_ context.Context, role *domain.Role) (*domain.Role, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.roles {
		if r.Name == role.Name {
			return nil, domain.ErrRoleExists
		}
	}
	created := cloneRole(role)
	created.ID = s.nextID("r")
	s.roles[created.ID] = cloneRole(created)
	return created, nil
}

func (s *stubStore) FindRoleByID(_ context.Context, id string) (*domain.Role, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r, ok := s.roles[id]; ok {
		return cloneRole(r), nil
	}
	return nil, domain.ErrRoleNotFound
}

func (s *stubStore) FindRoleByName(_ context.Context, name string) (*domain.Role, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.roles {
		if r.Name == name {
			return cloneRole(r), nil
		}
	}
	return nil, domain.ErrRoleNotFound
}

func (s *stubStore) ListRoles(_ context.Context) ([]*domain.Role, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	all := make([]*domain.Role, 0, len(s.roles))
	for _, r := range s.roles {
		all = append(all, cloneRole(r))
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return all, nil
}

func (s *stubStore) UpdateRole(_ context.Context, role *domain.Role) (*domain.Role, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.roles[role.ID]; !ok {
		return nil, domain.ErrRoleNotFound
	}
	for id, r := range s.roles {
		if id != role.ID && r.Name == role.Name {
			return nil, domain.ErrRoleExists
		}
	}
	s.roles[role.ID] = cloneRole(role)
	return cloneRole(role), nil
}

func (s *stubStore) DeleteRoleIfUnused(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.roles[id]; !ok {
		return domain.ErrRoleNotFound
	}
	if s.countByRoleLocked(id) > 0 {
		return domain.ErrRoleInUse
	}
	delete(s.roles, id)
	return nil
}

// --- PermissionRepository ---

func (s *stubStore) ListPermissions(_ context.Context) ([]*domain.Permission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	all := make([]*domain.Permission, 0, len(s.perms))
	for _, p := range s.perms {
		clone := *p
		all = append(all, &clone)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	return all, nil
}

func (s *stubStore) FindPermissionByName(_ context.Context, name string) (*domain.Permission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.perms {
		if p.Name == name {
			clone := *p
			return &clone, nil
		}
	}
	return nil, domain.ErrPermissionNotFound
}

func (s *stubStore) FindPermissionsByIDs(_ context.Context, ids []string) ([]*domain.Permission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*domain.Permission
	for _, id := range ids {
		if p, ok := s.perms[id]; ok {
			clone := *p
			out = append(out, &clone)
		}
	}
	return out, nil
}

// Facades so one stubStore also serves the role and permission ports;
// its user methods satisfy ports.UserRepository directly.

type stubRoleRepo struct{ *stubStore }

func (r stubRoleRepo) Create(ctx context.Context, role *domain.Role) (*domain.Role, error) {
	return r.CreateRole(ctx, role)
}

func (r stubRoleRepo) FindByID(ctx context.Context, id string) (*domain.Role, error) {
	return r.FindRoleByID(ctx, id)
}

func (r stubRoleRepo) FindByName(ctx context.Context, name string) (*domain.Role, error) {
	return r.FindRoleByName(ctx, name)
}

func (r stubRoleRepo) List(ctx context.Context) ([]*domain.Role, error) {
	return r.ListRoles(ctx)
}

func (r stubRoleRepo) Update(ctx context.Context, role *domain.Role) (*domain.Role, error) {
	return r.UpdateRole(ctx, role)
}

func (r stubRoleRepo) DeleteIfUnused(ctx context.Context, id string) error {
	return r.DeleteRoleIfUnused(ctx, id)
}

type stubPermRepo struct{ *stubStore }

func (r stubPermRepo) List(ctx context.Context) ([]*domain.Permission, error) {
	return r.ListPermissions(ctx)
}

func (r stubPermRepo) FindByName(ctx context.Context, name string) (*domain.Permission, error) {
	return r.FindPermissionByName(ctx, name)
}

func (r stubPermRepo) FindByIDs(ctx context.Context, ids []string) ([]*domain.Permission, error) {
	return r.FindPermissionsByIDs(ctx, ids)
}
