package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/contentkit/publishing-api/internal/core/domain"
	"github.com/contentkit/publishing-api/internal/core/ports"
)

const (
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100
)

// UserService implements administrative user operations.
type UserService struct {
	users ports.UserRepository
	log   zerolog.Logger
}

func NewUserService(users ports.UserRepository, log zerolog.Logger) *UserService {
	return &UserService{users: users, log: log}
}

func (s *UserService) ListUsers(ctx context.Context, input ports.ListUsersInput) (*ports.ListUsersResult, error) {
	page, limit := normalizePage(input.Page, input.Limit)

	users, total, err := s.users.List(ctx, ports.ListUsersFilter{
		Search: input.Search,
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		return nil, err
	}

	return &ports.ListUsersResult{
		Users:      users,
		Pagination: ports.NewPagination(page, limit, total),
	}, nil
}

func (s *UserService) GetUser(ctx context.Context, id string) (*domain.Identity, error) {
	return s.users.FindByIDWithRole(ctx, id)
}

func (s *UserService) UpdateUser(ctx context.Context, id string, fields ports.UpdateUserFields) (*domain.User, error) {
	if !fields.HasChanges() {
		return nil, domain.ErrNoFieldsToUpdate
	}

	if _, err := s.users.FindByIDWithRole(ctx, id); err != nil {
		return nil, err
	}

	user, err := s.users.Update(ctx, id, fields)
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("user_id", id).Msg("user updated")
	return user, nil
}

// DeleteUser removes a user. The caller's permission has already been checked
// by the authorization gate; the self-deletion guard fires after it.
func (s *UserService) DeleteUser(ctx context.Context, id, requesterID string) error {
	if id == requesterID {
		return domain.ErrSelfDeletion
	}
	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Str("user_id", id).Msg("user deleted")
	return nil
}

// normalizePage applies listing defaults and the page-size cap.
func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = defaultPage
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return page, limit
}
