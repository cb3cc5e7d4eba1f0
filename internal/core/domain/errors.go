package domain

import "errors"

var (
	// ErrInvalidCredentials covers unknown email, inactive account, and wrong
	// password alike — callers must not be able to tell them apart.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserExists         = errors.New("user already exists with this email")
	ErrUserNotFound       = errors.New("user not found")
	ErrSelfDeletion       = errors.New("cannot delete your own account")
	ErrNoFieldsToUpdate   = errors.New("no valid fields to update")
	ErrTooManyAttempts    = errors.New("too many login attempts")

	ErrRoleNotFound = errors.New("role not found")
	ErrRoleExists   = errors.New("role name already exists")
	ErrRoleInUse    = errors.New("cannot delete role with assigned users")

	ErrPostNotFound = errors.New("post not found")
	// ErrNotOwner is returned when a caller tries to modify a post they do not
	// own without the corresponding override permission.
	ErrNotOwner = errors.New("you can only modify your own posts")

	ErrForbidden = errors.New("access forbidden")
)
