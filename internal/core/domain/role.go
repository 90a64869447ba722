package domain

import "time"

// System role names. Seeded at startup, immutable and non-deletable.
const (
	RoleSuperadmin = "superadmin"
	RoleAdmin      = "admin"
	RoleUser       = "user"
)

// Role is a named bundle of permissions assigned to exactly one user at
// a time (per user).
type Role struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Permissions PermissionSet `json:"-"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// IsSystemRole reports whether name identifies one of the three seeded
// roles whose definitions may never be edited or deleted.
func IsSystemRole(name string) bool {
	switch name {
	case RoleSuperadmin, RoleAdmin, RoleUser:
		return true
	}
	return false
}

// roleRank orders roles by privilege tier. Custom roles share the
// baseline tier with "user": they can never manage peers or above.
func roleRank(name string) int {
	switch name {
	case RoleSuperadmin:
		return 3
	case RoleAdmin:
		return 2
	default:
		return 1
	}
}
