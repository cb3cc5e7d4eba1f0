package domain

import "time"

// DefaultRoleName is assigned on registration when no role is requested.
const DefaultRoleName = "user"

// Role groups a set of permission strings under a unique name.
// Permissions are opaque dotted tokens (e.g. "posts.update") compared by
// exact string equality.
type Role struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Permissions []string  `json:"permissions"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// RoleWithUserCount is the admin listing view: a role plus the number of
// users currently assigned to it.
type RoleWithUserCount struct {
	Role
	UserCount int64 `json:"user_count"`
}
