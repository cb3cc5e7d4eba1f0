package domain

import "time"

// User models an account in the system. A user holds at most one role;
// RoleID is nil for users created while no default role existed.
type User struct {
	ID           string     `json:"id"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	FirstName    string     `json:"first_name"`
	LastName     string     `json:"last_name"`
	RoleID       *string    `json:"role_id,omitempty"`
	IsActive     bool       `json:"is_active"`
	LastLogin    *time.Time `json:"last_login,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// Identity is the resolved authenticated actor: the user record joined with
// its role name and permission set. The authentication middleware attaches it
// to the request context; it is never mutated afterwards.
type Identity struct {
	User        User
	RoleName    string
	Permissions []string
}

// HasPermission reports whether the identity's permission set contains the
// exact permission string. No wildcard or prefix semantics.
func (i Identity) HasPermission(permission string) bool {
	for _, p := range i.Permissions {
		if p == permission {
			return true
		}
	}
	return false
}
