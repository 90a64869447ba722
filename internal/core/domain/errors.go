package domain

import (
	"errors"
	"fmt"
)

// Credential / token errors. Both token failures are terminal for the
// request: the middleware clears the session and sends the caller back
// to login without distinguishing them in user-facing messaging.
var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token expired")
)

// Not-found errors.
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrRoleNotFound       = errors.New("role not found")
	ErrPermissionNotFound = errors.New("permission not found")
)

// Conflict errors (unique constraints and referential integrity).
var (
	ErrUsernameTaken = errors.New("username already exists")
	ErrEmailTaken    = errors.New("email already exists")
	ErrRoleExists    = errors.New("role name already exists")
	ErrRoleInUse     = errors.New("cannot delete a role that is assigned to users")
)

// ErrValidation marks malformed input rejected before any store access.
var ErrValidation = errors.New("validation failed")

// ErrForbidden is the base class for every authorization denial.
// Rule-specific denials wrap it so callers can match the class with
// errors.Is(err, ErrForbidden) while the message names the rule.
var ErrForbidden = errors.New("forbidden")

var (
	ErrPermissionDenied      = fmt.Errorf("%w: you do not have permission to access this resource", ErrForbidden)
	ErrSystemRoleImmutable   = fmt.Errorf("%w: system roles cannot be modified or deleted", ErrForbidden)
	ErrRankCeiling           = fmt.Errorf("%w: you cannot manage users with this role", ErrForbidden)
	ErrSuperadminUndeletable = fmt.Errorf("%w: superadmin users cannot be deleted", ErrForbidden)
	ErrSelfDeletion          = fmt.Errorf("%w: you cannot delete your own account", ErrForbidden)
)
