package handler

import "time"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// messageResponse is the envelope for mutation acknowledgements.
type messageResponse struct {
	Message string `json:"message"`
}

// --- Auth ---

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type userResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	RoleID    string    `json:"role_id"`
	CreatedBy string    `json:"created_by,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type loginResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

// --- Users ---

// Usernames are alphanumeric, 3-30 characters; passwords at least 6.
type createUserRequest struct {
	Username string `json:"username" validate:"required,alphanum,min=3,max=30"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	RoleID   string `json:"role_id"  validate:"required"`
}

type updateUserRequest struct {
	Username string `json:"username" validate:"omitempty,alphanum,min=3,max=30"`
	Email    string `json:"email"    validate:"omitempty,email"`
	Password string `json:"password" validate:"omitempty,min=6"`
	RoleID   string `json:"role_id"  validate:"omitempty"`
}

type userSummaryResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	RoleName  string    `json:"role_name"`
	CreatedBy string    `json:"created_by,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type paginationResponse struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"total_pages"`
}

type listUsersResponse struct {
	Data       []userSummaryResponse `json:"data"`
	Pagination paginationResponse    `json:"pagination"`
}

type userDetailResponse struct {
	ID          string               `json:"id"`
	Username    string               `json:"username"`
	Email       string               `json:"email"`
	RoleName    string               `json:"role_name"`
	Permissions []permissionResponse `json:"permissions"`
	CreatedBy   string               `json:"created_by,omitempty"`
	UpdatedBy   string               `json:"updated_by,omitempty"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
}

// --- Roles ---

type createRoleRequest struct {
	Name          string   `json:"name"        validate:"required,min=3,max=50"`
	Description   string   `json:"description" validate:"omitempty,max=255"`
	PermissionIDs []string `json:"permission_ids"`
}

type updateRoleRequest struct {
	Name          string   `json:"name"        validate:"omitempty,min=3,max=50"`
	Description   string   `json:"description" validate:"omitempty,max=255"`
	PermissionIDs []string `json:"permission_ids"`
}

type roleResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Permissions []string  `json:"permissions"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type roleSummaryResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	MemberCount int64     `json:"member_count"`
	CreatedAt   time.Time `json:"created_at"`
}

type roleDetailResponse struct {
	ID          string               `json:"id"`
	Name        string               `json:"name"`
	Description string               `json:"description"`
	Permissions []permissionResponse `json:"permissions"`
	MemberCount int64                `json:"member_count"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
}

// --- Permissions ---

type permissionResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}
