package domain

import (
	"errors"
	"testing"
)

func TestCanActOn_AdminRankCeiling(t *testing.T) {
	cases := []struct {
		name       string
		actor      string
		target     string
		action     Action
		wantErr    error
		wantDenied bool
	}{
		{"admin deletes user", RoleAdmin, RoleUser, ActionDelete, nil, false},
		{"admin creates user", RoleAdmin, RoleUser, ActionCreate, nil, false},
		{"admin edits custom role holder", RoleAdmin, "auditor", ActionEdit, nil, false},
		{"admin deletes admin", RoleAdmin, RoleAdmin, ActionDelete, ErrRankCeiling, true},
		{"admin creates superadmin", RoleAdmin, RoleSuperadmin, ActionCreate, ErrRankCeiling, true},
		{"admin edits superadmin", RoleAdmin, RoleSuperadmin, ActionEdit, ErrRankCeiling, true},
		{"admin deletes superadmin", RoleAdmin, RoleSuperadmin, ActionDelete, ErrSuperadminUndeletable, true},
		{"user edits user", RoleUser, RoleUser, ActionEdit, ErrRankCeiling, true},
		{"superadmin edits admin", RoleSuperadmin, RoleAdmin, ActionEdit, nil, false},
		{"superadmin creates superadmin", RoleSuperadmin, RoleSuperadmin, ActionCreate, nil, false},
		{"superadmin deletes superadmin", RoleSuperadmin, RoleSuperadmin, ActionDelete, ErrSuperadminUndeletable, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := CanActOn(tc.actor, tc.target, tc.action)
			if tc.wantDenied {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("expected %v, got %v", tc.wantErr, err)
				}
				if !errors.Is(err, ErrForbidden) {
					t.Fatalf("denial %v does not wrap ErrForbidden", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("expected allow, got %v", err)
			}
		})
	}
}

func TestIsSystemRole(t *testing.T) {
	for _, name := range []string{RoleSuperadmin, RoleAdmin, RoleUser} {
		if !IsSystemRole(name) {
			t.Fatalf("%s should be a system role", name)
		}
	}
	if IsSystemRole("auditor") {
		t.Fatalf("custom role flagged as system role")
	}
}

func TestPermissionSet(t *testing.T) {
	s := NewPermissionSet("p1", "p2", "p2", "")
	if s.Len() != 2 {
		t.Fatalf("expected 2 members, got %d", s.Len())
	}
	if !s.Contains("p1") || s.Contains("p3") {
		t.Fatalf("membership wrong: %v", s.IDs())
	}

	s.Add("p3")
	if !s.Contains("p3") {
		t.Fatalf("Add did not insert")
	}

	u := NewPermissionSet("p4").Union(s)
	if u.Len() != 4 {
		t.Fatalf("union expected 4 members, got %d", u.Len())
	}

	ids := u.IDs()
	for i := 1; i < len(ids); i++ {
		if ids[i-1] >= ids[i] {
			t.Fatalf("IDs not sorted: %v", ids)
		}
	}
}
