package ports

import (
	"context"

	"github.com/contentkit/publishing-api/internal/core/domain"
)

// ListUsersInput carries the query parameters for the admin user listing.
type ListUsersInput struct {
	Page   int
	Limit  int
	Search string
}

// ListUsersResult is one page of users joined with their role names.
type ListUsersResult struct {
	Users      []*domain.Identity
	Pagination Pagination
}

// UserService defines the administrative user operations.
type UserService interface {
	ListUsers(ctx context.Context, input ListUsersInput) (*ListUsersResult, error)
	GetUser(ctx context.Context, id string) (*domain.Identity, error)
	UpdateUser(ctx context.Context, id string, fields UpdateUserFields) (*domain.User, error)
	// DeleteUser removes a user. requesterID guards against self-deletion.
	DeleteUser(ctx context.Context, id, requesterID string) error
}
