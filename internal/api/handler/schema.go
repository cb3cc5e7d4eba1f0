package handler

import "time"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// messageResponse wraps mutations that return no body beyond a confirmation.
type messageResponse struct {
	Message string `json:"message"`
}

// --- Auth ---

type registerRequest struct {
	Email     string `json:"email"      validate:"required,email"`
	Password  string `json:"password"   validate:"required,min=6"`
	FirstName string `json:"first_name" validate:"required,min=2,max=50"`
	LastName  string `json:"last_name"  validate:"required,min=2,max=50"`
	RoleID    string `json:"role_id,omitempty"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// --- Users ---

type updateUserRequest struct {
	Email     *string `json:"email,omitempty"      validate:"omitempty,email"`
	FirstName *string `json:"first_name,omitempty" validate:"omitempty,min=2,max=50"`
	LastName  *string `json:"last_name,omitempty"  validate:"omitempty,min=2,max=50"`
	RoleID    *string `json:"role_id,omitempty"`
	IsActive  *bool   `json:"is_active,omitempty"`
}

// userView is the wire shape of a user joined with its role name.
type userView struct {
	ID        string     `json:"id"`
	Email     string     `json:"email"`
	FirstName string     `json:"first_name"`
	LastName  string     `json:"last_name"`
	IsActive  bool       `json:"is_active"`
	LastLogin *time.Time `json:"last_login,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	Role      string     `json:"role,omitempty"`
}

// --- Roles ---

type roleRequest struct {
	Name        string   `json:"name"        validate:"required,min=2,max=50"`
	Description string   `json:"description" validate:"omitempty,max=255"`
	Permissions []string `json:"permissions" validate:"required"`
}

// --- Posts ---

type postRequest struct {
	Title   string `json:"title"   validate:"required,min=5,max=255"`
	Content string `json:"content" validate:"required,min=10"`
	Status  string `json:"status"  validate:"omitempty,oneof=draft published"`
}

type publishRequest struct {
	Publish bool `json:"publish"`
}
