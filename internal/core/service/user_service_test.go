package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/accesskeep/accesskeep/internal/core/domain"
	"github.com/accesskeep/accesskeep/internal/core/ports"
)

type userFixture struct {
	svc   *UserService
	store *stubStore

	superadminRole *domain.Role
	adminRole      *domain.Role
	userRole       *domain.Role

	root  *domain.User
	admin *domain.User
	bob   *domain.User
}

func newUserFixture(t *testing.T) *userFixture {
	t.Helper()
	store := newStubStore()
	f := &userFixture{
		svc:   NewUserService(store, stubRoleRepo{store}, stubPermRepo{store}, zerolog.Nop()),
		store: store,
	}
	view := store.addPermission(domain.PermViewUser)
	f.superadminRole = store.addRole(domain.RoleSuperadmin, view.ID)
	f.adminRole = store.addRole(domain.RoleAdmin, view.ID)
	f.userRole = store.addRole(domain.RoleUser, view.ID)
	f.root = store.addUser("root", "rootpass", f.superadminRole.ID)
	f.admin = store.addUser("alice", "adminpass", f.adminRole.ID)
	f.bob = store.addUser("bob", "userpass", f.userRole.ID)
	return f
}

func principal(u *domain.User, r *domain.Role) domain.Principal {
	return domain.Principal{
		UserID:   u.ID,
		Username: u.Username,
		RoleID:   r.ID,
		RoleName: r.Name,
	}
}

func (f *userFixture) asRoot() domain.Principal  { return principal(f.root, f.superadminRole) }
func (f *userFixture) asAdmin() domain.Principal { return principal(f.admin, f.adminRole) }

func TestCreateUser(t *testing.T) {
	f := newUserFixture(t)

	created, err := f.svc.Create(context.Background(), f.asAdmin(), ports.CreateUserInput{
		Username: "carol",
		Email:    "carol@example.com",
		Password: "secret123",
		RoleID:   f.userRole.ID,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.CreatedBy != f.admin.ID {
		t.Errorf("CreatedBy = %s, want %s", created.CreatedBy, f.admin.ID)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(created.PasswordHash), []byte("secret123")); err != nil {
		t.Error("stored hash does not match password")
	}
}

// An admin must not be able to mint an account above or at their own
// rank; a failed attempt leaves no row behind.
func TestCreateUserRankCeiling(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()

	for _, roleID := range []string{f.superadminRole.ID, f.adminRole.ID} {
		_, err := f.svc.Create(ctx, f.asAdmin(), ports.CreateUserInput{
			Username: "mallory",
			Email:    "mallory@example.com",
			Password: "secret123",
			RoleID:   roleID,
		})
		if !errors.Is(err, domain.ErrRankCeiling) {
			t.Errorf("role %s: err = %v, want ErrRankCeiling", roleID, err)
		}
		if _, ferr := f.store.FindByUsername(ctx, "mallory"); !errors.Is(ferr, domain.ErrUserNotFound) {
			t.Error("denied create left a user behind")
		}
	}

	// A superadmin is outside the ceiling.
	if _, err := f.svc.Create(ctx, f.asRoot(), ports.CreateUserInput{
		Username: "second",
		Email:    "second@example.com",
		Password: "secret123",
		RoleID:   f.adminRole.ID,
	}); err != nil {
		t.Errorf("superadmin creating admin: %v", err)
	}
}

func TestCreateUserConflicts(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, f.asAdmin(), ports.CreateUserInput{
		Username: "bob",
		Email:    "fresh@example.com",
		Password: "secret123",
		RoleID:   f.userRole.ID,
	})
	if !errors.Is(err, domain.ErrUsernameTaken) {
		t.Errorf("duplicate username: err = %v, want ErrUsernameTaken", err)
	}

	_, err = f.svc.Create(ctx, f.asAdmin(), ports.CreateUserInput{
		Username: "fresh",
		Email:    "bob@example.com",
		Password: "secret123",
		RoleID:   f.userRole.ID,
	})
	if !errors.Is(err, domain.ErrEmailTaken) {
		t.Errorf("duplicate email: err = %v, want ErrEmailTaken", err)
	}

	_, err = f.svc.Create(ctx, f.asAdmin(), ports.CreateUserInput{
		Username: "fresh",
		Email:    "fresh@example.com",
		Password: "secret123",
		RoleID:   "missing",
	})
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("unknown role: err = %v, want ErrValidation", err)
	}
}

func TestUpdateUserGuards(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()

	// Editing a peer admin is blocked by the rank ceiling.
	other, err := f.svc.Create(ctx, f.asRoot(), ports.CreateUserInput{
		Username: "dave",
		Email:    "dave@example.com",
		Password: "secret123",
		RoleID:   f.adminRole.ID,
	})
	if err != nil {
		t.Fatalf("seed admin: %v", err)
	}
	if _, err := f.svc.Update(ctx, f.asAdmin(), other.ID, ports.UpdateUserInput{Email: "new@example.com"}); !errors.Is(err, domain.ErrRankCeiling) {
		t.Errorf("admin edits admin: err = %v, want ErrRankCeiling", err)
	}

	// Promoting a regular user to admin rank is blocked the same way.
	if _, err := f.svc.Update(ctx, f.asAdmin(), f.bob.ID, ports.UpdateUserInput{RoleID: f.adminRole.ID}); !errors.Is(err, domain.ErrRankCeiling) {
		t.Errorf("admin promotes user to admin: err = %v, want ErrRankCeiling", err)
	}

	updated, err := f.svc.Update(ctx, f.asAdmin(), f.bob.ID, ports.UpdateUserInput{Email: "bob2@example.com"})
	if err != nil {
		t.Fatalf("admin edits user: %v", err)
	}
	if updated.Email != "bob2@example.com" || updated.UpdatedBy != f.admin.ID {
		t.Errorf("updated = %+v", updated)
	}
}

func TestDeleteUserGuards(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()

	if err := f.svc.Delete(ctx, f.asAdmin(), f.root.ID); !errors.Is(err, domain.ErrSuperadminUndeletable) {
		t.Errorf("admin deletes superadmin: err = %v, want ErrSuperadminUndeletable", err)
	}
	if err := f.svc.Delete(ctx, f.asRoot(), f.root.ID); !errors.Is(err, domain.ErrSuperadminUndeletable) {
		t.Errorf("superadmin deletes superadmin: err = %v, want ErrSuperadminUndeletable", err)
	}
	if err := f.svc.Delete(ctx, f.asAdmin(), f.admin.ID); !errors.Is(err, domain.ErrSelfDeletion) {
		t.Errorf("admin self deletion: err = %v, want ErrSelfDeletion", err)
	}
	// The identity gate fires at every rank, not just for admins.
	if err := f.svc.Delete(ctx, principal(f.bob, f.userRole), f.bob.ID); !errors.Is(err, domain.ErrSelfDeletion) {
		t.Errorf("user self deletion: err = %v, want ErrSelfDeletion", err)
	}

	// A peer admin is still blocked by the rank ceiling.
	peer, err := f.svc.Create(ctx, f.asRoot(), ports.CreateUserInput{
		Username: "erin",
		Email:    "erin@example.com",
		Password: "secret123",
		RoleID:   f.adminRole.ID,
	})
	if err != nil {
		t.Fatalf("seed peer admin: %v", err)
	}
	if err := f.svc.Delete(ctx, f.asAdmin(), peer.ID); !errors.Is(err, domain.ErrRankCeiling) {
		t.Errorf("admin deletes peer admin: err = %v, want ErrRankCeiling", err)
	}

	if err := f.svc.Delete(ctx, f.asAdmin(), f.bob.ID); err != nil {
		t.Fatalf("admin deletes user: %v", err)
	}
	if _, err := f.store.FindByID(ctx, f.bob.ID); !errors.Is(err, domain.ErrUserNotFound) {
		t.Error("deleted user still present")
	}
}

func TestListUsersPagination(t *testing.T) {
	f := newUserFixture(t)

	res, err := f.svc.List(context.Background(), 0, 2)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if res.Page != 1 || res.Limit != 2 {
		t.Errorf("page/limit normalized to %d/%d", res.Page, res.Limit)
	}
	if res.Total != 3 || res.TotalPages != 2 || len(res.Users) != 2 {
		t.Errorf("total=%d pages=%d len=%d", res.Total, res.TotalPages, len(res.Users))
	}
	for _, u := range res.Users {
		if u.RoleName == "" {
			t.Errorf("user %s missing role name", u.Username)
		}
	}
}

func TestGetUserResolvesRole(t *testing.T) {
	f := newUserFixture(t)

	detail, err := f.svc.Get(context.Background(), f.bob.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if detail.RoleName != domain.RoleUser {
		t.Errorf("RoleName = %s", detail.RoleName)
	}
	if len(detail.Permissions) != 1 || detail.Permissions[0].Name != domain.PermViewUser {
		t.Errorf("Permissions = %+v", detail.Permissions)
	}
}
