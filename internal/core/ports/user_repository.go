package ports

import (
	"context"

	"github.com/contentkit/publishing-api/internal/core/domain"
)

// UpdateUserFields carries the admin-editable user fields. Nil pointers mean
// "leave unchanged".
type UpdateUserFields struct {
	Email     *string
	FirstName *string
	LastName  *string
	RoleID    *string
	IsActive  *bool
}

// HasChanges reports whether at least one field is set.
func (f UpdateUserFields) HasChanges() bool {
	return f.Email != nil || f.FirstName != nil || f.LastName != nil || f.RoleID != nil || f.IsActive != nil
}

// ListUsersFilter carries pagination and search parameters for the user listing.
type ListUsersFilter struct {
	Search string // optional: partial match on first name, last name, or email
	Page   int    // 1-based
	Limit  int
}

// UserRepository defines persistence operations for users. Lookups that
// return a domain.Identity join the user with its role name and permission
// set; users without a role resolve to an empty permission set.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// FindActiveByEmailWithRole resolves login lookups: only active users match.
	FindActiveByEmailWithRole(ctx context.Context, email string) (*domain.Identity, error)
	// FindActiveByIDWithRole resolves token subjects on every protected request.
	FindActiveByIDWithRole(ctx context.Context, id string) (*domain.Identity, error)
	FindByIDWithRole(ctx context.Context, id string) (*domain.Identity, error)
	// Create persists a new user. The store's unique email constraint is the
	// authoritative duplicate guard; violations surface as domain.ErrUserExists.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	Update(ctx context.Context, id string, fields UpdateUserFields) (*domain.User, error)
	UpdateLastLogin(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter ListUsersFilter) ([]*domain.Identity, int64, error)
}
