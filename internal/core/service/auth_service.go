package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/contentkit/publishing-api/internal/auth"
	"github.com/contentkit/publishing-api/internal/core/domain"
	"github.com/contentkit/publishing-api/internal/core/ports"
)

// LoginThrottle abstracts the failed-login limiter (Redis). Implementations
// must be best-effort: a throttle backend outage never blocks a valid login.
type LoginThrottle interface {
	// Allow reports whether another attempt for key is permitted right now.
	Allow(ctx context.Context, key string) bool
	RecordFailure(ctx context.Context, key string)
	Reset(ctx context.Context, key string)
}

// AuthService implements registration and login.
type AuthService struct {
	users    ports.UserRepository
	roles    ports.RoleRepository
	hasher   *auth.PasswordHasher
	tokens   *auth.TokenService
	throttle LoginThrottle // optional
	log      zerolog.Logger
}

func NewAuthService(
	users ports.UserRepository,
	roles ports.RoleRepository,
	hasher *auth.PasswordHasher,
	tokens *auth.TokenService,
	throttle LoginThrottle,
	log zerolog.Logger,
) *AuthService {
	return &AuthService{
		users:    users,
		roles:    roles,
		hasher:   hasher,
		tokens:   tokens,
		throttle: throttle,
		log:      log,
	}
}

// Register creates an account, assigns the default "user" role when none is
// requested, and issues a token for the new user.
//
// The duplicate-email pre-check is an optimization; the store's unique index
// is the authoritative guard and Create surfaces concurrent duplicates as
// domain.ErrUserExists.
func (s *AuthService) Register(ctx context.Context, input ports.RegisterInput) (*ports.AuthResult, error) {
	_, err := s.users.FindByEmail(ctx, input.Email)
	if err == nil {
		return nil, domain.ErrUserExists
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	roleID := s.resolveRoleID(ctx, input.RoleID)

	user, err := s.users.Create(ctx, &domain.User{
		Email:        input.Email,
		PasswordHash: hash,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		RoleID:       roleID,
		IsActive:     true,
	})
	if err != nil {
		return nil, err
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", user.ID).Str("email", user.Email).Msg("user registered")

	return &ports.AuthResult{
		Token: token,
		User: ports.UserSummary{
			ID:        user.ID,
			Email:     user.Email,
			FirstName: user.FirstName,
			LastName:  user.LastName,
		},
	}, nil
}

// resolveRoleID returns the requested role id, or the default "user" role's
// id when none was requested. When the default role cannot be found the user
// is created without a role — no fallback is synthesized.
func (s *AuthService) resolveRoleID(ctx context.Context, requested string) *string {
	if requested != "" {
		return &requested
	}
	role, err := s.roles.FindByName(ctx, domain.DefaultRoleName)
	if err != nil {
		s.log.Debug().Err(err).Msg("default role lookup failed, creating user without role")
		return nil
	}
	return &role.ID
}

// Login verifies credentials and issues a token. Unknown email, inactive
// account, and wrong password all fail with domain.ErrInvalidCredentials so
// callers cannot enumerate accounts.
func (s *AuthService) Login(ctx context.Context, input ports.LoginInput) (*ports.AuthResult, error) {
	if s.throttle != nil && !s.throttle.Allow(ctx, input.Email) {
		return nil, domain.ErrTooManyAttempts
	}

	identity, err := s.users.FindActiveByEmailWithRole(ctx, input.Email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.recordFailure(ctx, input.Email)
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !s.hasher.Verify(input.Password, identity.User.PasswordHash) {
		s.recordFailure(ctx, input.Email)
		return nil, domain.ErrInvalidCredentials
	}

	// Advisory bookkeeping: a failed last-login write must not fail the login.
	if err := s.users.UpdateLastLogin(ctx, identity.User.ID); err != nil {
		s.log.Warn().Err(err).Str("user_id", identity.User.ID).Msg("last login update failed")
	}

	if s.throttle != nil {
		s.throttle.Reset(ctx, input.Email)
	}

	token, err := s.tokens.Issue(identity.User.ID)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", identity.User.ID).Msg("user logged in")

	return &ports.AuthResult{
		Token: token,
		User:  s.CurrentUser(*identity),
	}, nil
}

// CurrentUser shapes an authenticated identity into its redacted summary.
func (s *AuthService) CurrentUser(identity domain.Identity) ports.UserSummary {
	permissions := identity.Permissions
	if permissions == nil {
		permissions = []string{}
	}
	return ports.UserSummary{
		ID:          identity.User.ID,
		Email:       identity.User.Email,
		FirstName:   identity.User.FirstName,
		LastName:    identity.User.LastName,
		Role:        identity.RoleName,
		Permissions: permissions,
	}
}

func (s *AuthService) recordFailure(ctx context.Context, email string) {
	if s.throttle != nil {
		s.throttle.RecordFailure(ctx, email)
	}
}
