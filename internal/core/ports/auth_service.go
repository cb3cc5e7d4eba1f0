package ports

import (
	"context"

	"github.com/contentkit/publishing-api/internal/core/domain"
)

// RegisterInput carries the data needed to create an account.
type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	// RoleID optionally assigns a role at registration. When empty the role
	// named "user" is looked up as the default.
	RoleID string
}

// LoginInput carries login credentials.
type LoginInput struct {
	Email    string
	Password string
}

// UserSummary is the redacted user view returned by auth operations.
// It never carries the password hash. Role and Permissions are populated on
// login and current-user lookups, not on registration.
type UserSummary struct {
	ID          string   `json:"id"`
	Email       string   `json:"email"`
	FirstName   string   `json:"first_name"`
	LastName    string   `json:"last_name"`
	Role        string   `json:"role,omitempty"`
	Permissions []string `json:"permissions,omitempty"`
}

// AuthResult is returned by Register and Login: a bearer token plus the
// redacted user summary.
type AuthResult struct {
	Token string
	User  UserSummary
}

// AuthService orchestrates registration and login.
type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, input LoginInput) (*AuthResult, error)
	// CurrentUser shapes the authenticated identity into its redacted summary.
	CurrentUser(identity domain.Identity) UserSummary
}
