package domain

import "sort"

// Permission is an atomic, named capability checked independently of
// role. Permissions are seed data, not user-editable.
type Permission struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Seed permission names. These are the stable identifiers used in code
// when gating handlers.
const (
	PermViewUser         = "view_user"
	PermAddUser          = "add_user"
	PermEditUser         = "edit_user"
	PermDeleteUser       = "delete_user"
	PermAddRole          = "add_role"
	PermEditRole         = "edit_role"
	PermAssignPermToRole = "add_permissions_to_role"
)

// PermissionSet is an explicit set of permission ids with defined
// membership and union operations.
type PermissionSet map[string]struct{}

// NewPermissionSet builds a set from the given permission ids,
// discarding duplicates and empty ids.
func NewPermissionSet(ids ...string) PermissionSet {
	s := make(PermissionSet, len(ids))
	for _, id := range ids {
		if id != "" {
			s[id] = struct{}{}
		}
	}
	return s
}

// Contains reports whether id is a member of the set.
func (s PermissionSet) Contains(id string) bool {
	_, ok := s[id]
	return ok
}

// Add inserts id into the set.
func (s PermissionSet) Add(id string) {
	if id != "" {
		s[id] = struct{}{}
	}
}

// Union returns a new set containing the members of both sets.
func (s PermissionSet) Union(other PermissionSet) PermissionSet {
	out := make(PermissionSet, len(s)+len(other))
	for id := range s {
		out[id] = struct{}{}
	}
	for id := range other {
		out[id] = struct{}{}
	}
	return out
}

// IDs returns the members in sorted order for stable serialization.
func (s PermissionSet) IDs() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Len returns the number of members.
func (s PermissionSet) Len() int {
	return len(s)
}
