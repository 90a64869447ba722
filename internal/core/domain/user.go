package domain

import "time"

// User models an authenticated actor in the system. Every user carries
// exactly one role reference; role⇄permission resolution always goes
// through the live registry, never through data cached on the user.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	RoleID       string    `json:"role_id"`
	CreatedBy    string    `json:"created_by,omitempty"`
	UpdatedBy    string    `json:"updated_by,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Principal is the resolved identity attached to a request after the
// authentication middleware has verified the token and reloaded the
// user's current role and permissions from the registry.
type Principal struct {
	UserID      string
	Username    string
	RoleID      string
	RoleName    string
	Permissions PermissionSet
}
