package ports

import (
	"context"

	"github.com/contentkit/publishing-api/internal/core/domain"
)

// UpdateRoleFields carries the editable role fields for a full update.
type UpdateRoleFields struct {
	Name        string
	Description string
	Permissions []string
}

// RoleRepository defines persistence operations for roles. The store's unique
// name constraint is the authoritative guard; violations surface as
// domain.ErrRoleExists.
type RoleRepository interface {
	FindByID(ctx context.Context, id string) (*domain.Role, error)
	FindByName(ctx context.Context, name string) (*domain.Role, error)
	FindAllWithUserCount(ctx context.Context) ([]*domain.RoleWithUserCount, error)
	Create(ctx context.Context, role *domain.Role) (*domain.Role, error)
	Update(ctx context.Context, id string, fields UpdateRoleFields) (*domain.Role, error)
	Delete(ctx context.Context, id string) error
	// UserCount returns the number of users currently assigned to the role.
	UserCount(ctx context.Context, id string) (int64, error)
}
