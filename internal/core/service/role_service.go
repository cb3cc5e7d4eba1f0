package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/contentkit/publishing-api/internal/core/domain"
	"github.com/contentkit/publishing-api/internal/core/ports"
)

// RoleService implements role management.
type RoleService struct {
	roles ports.RoleRepository
	log   zerolog.Logger
}

func NewRoleService(roles ports.RoleRepository, log zerolog.Logger) *RoleService {
	return &RoleService{roles: roles, log: log}
}

func (s *RoleService) ListRoles(ctx context.Context) ([]*domain.RoleWithUserCount, error) {
	return s.roles.FindAllWithUserCount(ctx)
}

func (s *RoleService) GetRole(ctx context.Context, id string) (*domain.Role, error) {
	return s.roles.FindByID(ctx, id)
}

func (s *RoleService) CreateRole(ctx context.Context, input ports.CreateRoleInput) (*domain.Role, error) {
	role, err := s.roles.Create(ctx, &domain.Role{
		Name:        input.Name,
		Description: input.Description,
		Permissions: input.Permissions,
	})
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("role_id", role.ID).Str("name", role.Name).Msg("role created")
	return role, nil
}

func (s *RoleService) UpdateRole(ctx context.Context, id string, fields ports.UpdateRoleFields) (*domain.Role, error) {
	return s.roles.Update(ctx, id, fields)
}

// DeleteRole removes a role unless users still reference it.
func (s *RoleService) DeleteRole(ctx context.Context, id string) error {
	count, err := s.roles.UserCount(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return domain.ErrRoleInUse
	}
	if err := s.roles.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Str("role_id", id).Msg("role deleted")
	return nil
}
