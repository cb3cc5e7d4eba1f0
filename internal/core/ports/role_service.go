package ports

import (
	"context"

	"github.com/contentkit/publishing-api/internal/core/domain"
)

// CreateRoleInput carries the data for a new role.
type CreateRoleInput struct {
	Name        string
	Description string
	Permissions []string
}

// RoleService defines role management operations.
type RoleService interface {
	ListRoles(ctx context.Context) ([]*domain.RoleWithUserCount, error)
	GetRole(ctx context.Context, id string) (*domain.Role, error)
	CreateRole(ctx context.Context, input CreateRoleInput) (*domain.Role, error)
	UpdateRole(ctx context.Context, id string, fields UpdateRoleFields) (*domain.Role, error)
	// DeleteRole fails with domain.ErrRoleInUse while users reference the role.
	DeleteRole(ctx context.Context, id string) error
}
