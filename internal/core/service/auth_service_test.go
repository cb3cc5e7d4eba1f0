package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/contentkit/publishing-api/internal/auth"
	"github.com/contentkit/publishing-api/internal/core/domain"
	"github.com/contentkit/publishing-api/internal/core/ports"
)

// stubUserRepo is an in-memory UserRepository keyed by email.
type stubUserRepo struct {
	mu         sync.Mutex
	users      map[string]*domain.User // by email
	roles      map[string]*domain.Role // by id
	nextID     int
	lastLogins map[string]time.Time
	// failLastLogin makes UpdateLastLogin return an error.
	failLastLogin bool
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{
		users:      make(map[string]*domain.User),
		roles:      make(map[string]*domain.Role),
		lastLogins: make(map[string]time.Time),
	}
}

func (r *stubUserRepo) addRole(role *domain.Role) {
	r.roles[role.ID] = role
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[email]; ok {
		clone := *u
		return &clone, nil
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) identity(u *domain.User) *domain.Identity {
	id := &domain.Identity{User: *u, Permissions: []string{}}
	if u.RoleID != nil {
		if role, ok := r.roles[*u.RoleID]; ok {
			id.RoleName = role.Name
			id.Permissions = role.Permissions
		}
	}
	return id
}

func (r *stubUserRepo) FindActiveByEmailWithRole(_ context.Context, email string) (*domain.Identity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[email]
	if !ok || !u.IsActive {
		return nil, domain.ErrUserNotFound
	}
	return r.identity(u), nil
}

func (r *stubUserRepo) FindActiveByIDWithRole(_ context.Context, id string) (*domain.Identity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ID == id && u.IsActive {
			return r.identity(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByIDWithRole(_ context.Context, id string) (*domain.Identity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ID == id {
			return r.identity(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.users[user.Email]; exists {
		return nil, domain.ErrUserExists
	}
	clone := *user
	r.nextID++
	clone.ID = fmt.Sprintf("user-%d", r.nextID)
	clone.CreatedAt = time.Now().UTC()
	clone.UpdatedAt = clone.CreatedAt
	r.users[clone.Email] = &clone
	out := clone
	return &out, nil
}

func (r *stubUserRepo) Update(_ context.Context, id string, fields ports.UpdateUserFields) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ID == id {
			if fields.Email != nil {
				delete(r.users, u.Email)
				u.Email = *fields.Email
				r.users[u.Email] = u
			}
			if fields.FirstName != nil {
				u.FirstName = *fields.FirstName
			}
			if fields.LastName != nil {
				u.LastName = *fields.LastName
			}
			if fields.RoleID != nil {
				u.RoleID = fields.RoleID
			}
			if fields.IsActive != nil {
				u.IsActive = *fields.IsActive
			}
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) UpdateLastLogin(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failLastLogin {
		return errors.New("store unavailable")
	}
	r.lastLogins[id] = time.Now().UTC()
	return nil
}

func (r *stubUserRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for email, u := range r.users {
		if u.ID == id {
			delete(r.users, email)
			return nil
		}
	}
	return domain.ErrUserNotFound
}

func (r *stubUserRepo) List(_ context.Context, filter ports.ListUsersFilter) ([]*domain.Identity, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Identity
	for _, u := range r.users {
		out = append(out, r.identity(u))
	}
	return out, int64(len(out)), nil
}

// stubRoleRepo is an in-memory RoleRepository keyed by name.
type stubRoleRepo struct {
	roles      map[string]*domain.Role // by name
	userCounts map[string]int64        // by role id
	findErr    error
}

func newStubRoleRepo() *stubRoleRepo {
	return &stubRoleRepo{
		roles:      make(map[string]*domain.Role),
		userCounts: make(map[string]int64),
	}
}

func (r *stubRoleRepo) FindByID(_ context.Context, id string) (*domain.Role, error) {
	for _, role := range r.roles {
		if role.ID == id {
			return role, nil
		}
	}
	return nil, domain.ErrRoleNotFound
}

func (r *stubRoleRepo) FindByName(_ context.Context, name string) (*domain.Role, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	if role, ok := r.roles[name]; ok {
		return role, nil
	}
	return nil, domain.ErrRoleNotFound
}

func (r *stubRoleRepo) FindAllWithUserCount(_ context.Context) ([]*domain.RoleWithUserCount, error) {
	var out []*domain.RoleWithUserCount
	for _, role := range r.roles {
		out = append(out, &domain.RoleWithUserCount{Role: *role, UserCount: r.userCounts[role.ID]})
	}
	return out, nil
}

func (r *stubRoleRepo) Create(_ context.Context, role *domain.Role) (*domain.Role, error) {
	if _, exists := r.roles[role.Name]; exists {
		return nil, domain.ErrRoleExists
	}
	clone := *role
	clone.ID = "role-" + role.Name
	r.roles[role.Name] = &clone
	return &clone, nil
}

func (r *stubRoleRepo) Update(_ context.Context, id string, fields ports.UpdateRoleFields) (*domain.Role, error) {
	for name, role := range r.roles {
		if role.ID == id {
			delete(r.roles, name)
			role.Name = fields.Name
			role.Description = fields.Description
			role.Permissions = fields.Permissions
			r.roles[role.Name] = role
			return role, nil
		}
	}
	return nil, domain.ErrRoleNotFound
}

func (r *stubRoleRepo) Delete(_ context.Context, id string) error {
	for name, role := range r.roles {
		if role.ID == id {
			delete(r.roles, name)
			return nil
		}
	}
	return domain.ErrRoleNotFound
}

func (r *stubRoleRepo) UserCount(_ context.Context, id string) (int64, error) {
	return r.userCounts[id], nil
}

func seedDefaultRole(users *stubUserRepo, roles *stubRoleRepo) {
	role := &domain.Role{ID: "role-user", Name: "user", Permissions: []string{"posts.read"}}
	roles.roles["user"] = role
	users.addRole(role)
}

func newAuthService(users *stubUserRepo, roles *stubRoleRepo, throttle LoginThrottle) *AuthService {
	hasher := auth.NewPasswordHasher(4)
	tokens := auth.NewTokenService("test-secret", time.Hour)
	return NewAuthService(users, roles, hasher, tokens, throttle, zerolog.Nop())
}

func TestAuthService_Register_DefaultRole(t *testing.T) {
	users := newStubUserRepo()
	roles := newStubRoleRepo()
	seedDefaultRole(users, roles)
	svc := newAuthService(users, roles, nil)

	result, err := svc.Register(context.Background(), ports.RegisterInput{
		Email: "alice@example.com", Password: "secret1", FirstName: "Alice", LastName: "Smith",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if result.Token == "" {
		t.Fatalf("expected a token")
	}
	if result.User.Email != "alice@example.com" {
		t.Fatalf("unexpected summary: %+v", result.User)
	}

	stored, _ := users.FindByEmail(context.Background(), "alice@example.com")
	if stored.PasswordHash == "secret1" || stored.PasswordHash == "" {
		t.Fatalf("password must be stored hashed")
	}
	if stored.RoleID == nil || *stored.RoleID != "role-user" {
		t.Fatalf("expected default role assignment, got %v", stored.RoleID)
	}

	// The issued token must resolve back to the new user.
	tokens := auth.NewTokenService("test-secret", time.Hour)
	subject, err := tokens.Verify(result.Token)
	if err != nil || subject != stored.ID {
		t.Fatalf("token subject = %q (%v), want %q", subject, err, stored.ID)
	}
}

func TestAuthService_Register_ExplicitRole(t *testing.T) {
	users := newStubUserRepo()
	roles := newStubRoleRepo()
	svc := newAuthService(users, roles, nil)

	if _, err := svc.Register(context.Background(), ports.RegisterInput{
		Email: "bob@example.com", Password: "secret1", FirstName: "Bob", LastName: "Jones", RoleID: "role-editor",
	}); err != nil {
		t.Fatalf("register: %v", err)
	}

	stored, _ := users.FindByEmail(context.Background(), "bob@example.com")
	if stored.RoleID == nil || *stored.RoleID != "role-editor" {
		t.Fatalf("expected explicit role assignment, got %v", stored.RoleID)
	}
}

func TestAuthService_Register_NoDefaultRole(t *testing.T) {
	users := newStubUserRepo()
	roles := newStubRoleRepo() // no "user" role seeded
	svc := newAuthService(users, roles, nil)

	if _, err := svc.Register(context.Background(), ports.RegisterInput{
		Email: "carol@example.com", Password: "secret1", FirstName: "Carol", LastName: "King",
	}); err != nil {
		t.Fatalf("register: %v", err)
	}

	stored, _ := users.FindByEmail(context.Background(), "carol@example.com")
	if stored.RoleID != nil {
		t.Fatalf("expected no role when default lookup fails, got %v", *stored.RoleID)
	}
}

func TestAuthService_Register_Duplicate(t *testing.T) {
	users := newStubUserRepo()
	roles := newStubRoleRepo()
	svc := newAuthService(users, roles, nil)

	input := ports.RegisterInput{Email: "dup@example.com", Password: "secret1", FirstName: "D", LastName: "U"}
	if _, err := svc.Register(context.Background(), input); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if _, err := svc.Register(context.Background(), input); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	users := newStubUserRepo()
	roles := newStubRoleRepo()
	seedDefaultRole(users, roles)
	svc := newAuthService(users, roles, nil)

	if _, err := svc.Register(context.Background(), ports.RegisterInput{
		Email: "alice@example.com", Password: "secret1", FirstName: "Alice", LastName: "Smith",
	}); err != nil {
		t.Fatalf("register: %v", err)
	}

	result, err := svc.Login(context.Background(), ports.LoginInput{Email: "alice@example.com", Password: "secret1"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if result.Token == "" {
		t.Fatalf("expected a token")
	}
	if result.User.Role != "user" {
		t.Fatalf("expected role name in summary, got %q", result.User.Role)
	}
	if len(result.User.Permissions) != 1 || result.User.Permissions[0] != "posts.read" {
		t.Fatalf("unexpected permissions: %v", result.User.Permissions)
	}
	if len(users.lastLogins) != 1 {
		t.Fatalf("expected last login to be recorded")
	}
}

func TestAuthService_Login_IndistinguishableFailures(t *testing.T) {
	users := newStubUserRepo()
	roles := newStubRoleRepo()
	svc := newAuthService(users, roles, nil)

	if _, err := svc.Register(context.Background(), ports.RegisterInput{
		Email: "dave@example.com", Password: "goodpass", FirstName: "Dave", LastName: "Lee",
	}); err != nil {
		t.Fatalf("register: %v", err)
	}

	_, wrongPass := svc.Login(context.Background(), ports.LoginInput{Email: "dave@example.com", Password: "badpass"})
	_, unknown := svc.Login(context.Background(), ports.LoginInput{Email: "ghost@example.com", Password: "anything"})

	if !errors.Is(wrongPass, domain.ErrInvalidCredentials) {
		t.Fatalf("wrong password: expected ErrInvalidCredentials, got %v", wrongPass)
	}
	if !errors.Is(unknown, domain.ErrInvalidCredentials) {
		t.Fatalf("unknown email: expected ErrInvalidCredentials, got %v", unknown)
	}
	if wrongPass.Error() != unknown.Error() {
		t.Fatalf("failure messages must be identical: %q vs %q", wrongPass, unknown)
	}
}

func TestAuthService_Login_InactiveUser(t *testing.T) {
	users := newStubUserRepo()
	roles := newStubRoleRepo()
	svc := newAuthService(users, roles, nil)

	if _, err := svc.Register(context.Background(), ports.RegisterInput{
		Email: "eve@example.com", Password: "secret1", FirstName: "Eve", LastName: "Moss",
	}); err != nil {
		t.Fatalf("register: %v", err)
	}
	users.users["eve@example.com"].IsActive = false

	if _, err := svc.Login(context.Background(), ports.LoginInput{Email: "eve@example.com", Password: "secret1"}); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for inactive user, got %v", err)
	}
}

func TestAuthService_Login_LastLoginFailureIsAdvisory(t *testing.T) {
	users := newStubUserRepo()
	roles := newStubRoleRepo()
	svc := newAuthService(users, roles, nil)

	if _, err := svc.Register(context.Background(), ports.RegisterInput{
		Email: "fred@example.com", Password: "secret1", FirstName: "Fred", LastName: "Hale",
	}); err != nil {
		t.Fatalf("register: %v", err)
	}
	users.failLastLogin = true

	result, err := svc.Login(context.Background(), ports.LoginInput{Email: "fred@example.com", Password: "secret1"})
	if err != nil {
		t.Fatalf("login must succeed despite last-login failure, got %v", err)
	}
	if result.Token == "" {
		t.Fatalf("expected a token")
	}
}

// stubThrottle counts failures per key and blocks after a fixed limit.
type stubThrottle struct {
	failures map[string]int
	limit    int
}

func (s *stubThrottle) Allow(_ context.Context, key string) bool {
	return s.failures[key] < s.limit
}

func (s *stubThrottle) RecordFailure(_ context.Context, key string) {
	s.failures[key]++
}

func (s *stubThrottle) Reset(_ context.Context, key string) {
	delete(s.failures, key)
}

func TestAuthService_Login_Throttled(t *testing.T) {
	users := newStubUserRepo()
	roles := newStubRoleRepo()
	throttle := &stubThrottle{failures: make(map[string]int), limit: 2}
	svc := newAuthService(users, roles, throttle)

	if _, err := svc.Register(context.Background(), ports.RegisterInput{
		Email: "gina@example.com", Password: "secret1", FirstName: "Gina", LastName: "Ray",
	}); err != nil {
		t.Fatalf("register: %v", err)
	}

	for i := 0; i < 2; i++ {
		if _, err := svc.Login(context.Background(), ports.LoginInput{Email: "gina@example.com", Password: "wrong"}); !errors.Is(err, domain.ErrInvalidCredentials) {
			t.Fatalf("attempt %d: expected ErrInvalidCredentials, got %v", i, err)
		}
	}

	if _, err := svc.Login(context.Background(), ports.LoginInput{Email: "gina@example.com", Password: "secret1"}); !errors.Is(err, domain.ErrTooManyAttempts) {
		t.Fatalf("expected ErrTooManyAttempts, got %v", err)
	}
}
