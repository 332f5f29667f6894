// Package domain defines the core user domain entities and types.
package domain

import (
	"time"

	authDomain "github.com/allisson/useradmin/internal/auth/domain"
	"github.com/allisson/useradmin/internal/errors"
)

// Status is the lifecycle state of a user account.
type Status int

const (
	// StatusInactive users may not log in.
	StatusInactive Status = 0

	// StatusCreated is the state of a freshly registered user.
	StatusCreated Status = 1

	// StatusVerified users have confirmed their email address.
	StatusVerified Status = 2
)

// User represents a user in the system
type User struct {
	ID        int64
	FirstName string
	LastName  string
	Email     string
	Password  string
	Status    Status
	RoleID    int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive reports whether the user may authenticate.
func (u *User) IsActive() bool {
	return u.Status != StatusInactive
}

// Snapshot returns the copy of the user sealed into tokens.
func (u *User) Snapshot() authDomain.UserSnapshot {
	return authDomain.UserSnapshot{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Status:    int(u.Status),
		RoleID:    u.RoleID,
	}
}

// Domain-specific errors for user operations.
var (
	// ErrUserNotFound indicates the requested user does not exist.
	ErrUserNotFound = errors.Wrap(errors.ErrNotFound, "user not found")

	// ErrUserAlreadyExists indicates a user with the same email already exists.
	ErrUserAlreadyExists = errors.Wrap(errors.ErrConflict, "user already exists")

	// ErrRoleNotFound indicates the requested role does not exist.
	ErrRoleNotFound = errors.Wrap(errors.ErrNotFound, "role not found")

	// ErrPasswordMismatch indicates the current password supplied for a change is wrong.
	ErrPasswordMismatch = errors.Wrap(errors.ErrInvalidInput, "current password does not match")

	// ErrInvalidVerificationCode covers unknown emails, inactive users and wrong codes alike.
	ErrInvalidVerificationCode = errors.Wrap(errors.ErrInvalidInput, "invalid verification code")

	// ErrUserAlreadyVerified indicates the user has already confirmed their email address.
	ErrUserAlreadyVerified = errors.Wrap(errors.ErrConflict, "user already verified")

	// ErrRoleAlreadyExists indicates a role with the same name already exists.
	ErrRoleAlreadyExists = errors.Wrap(errors.ErrConflict, "role already exists")

	// ErrRoleInUse indicates the role is still assigned to at least one user.
	ErrRoleInUse = errors.Wrap(errors.ErrConflict, "role is assigned to users")

	// ErrRoleProtected indicates the role backs the admin allow-list or sign-up and cannot be deleted.
	ErrRoleProtected = errors.Wrap(errors.ErrConflict, "role is protected")

	// ErrPermissionNotFound indicates the requested permission does not exist.
	ErrPermissionNotFound = errors.Wrap(errors.ErrNotFound, "permission not found")

	// ErrPermissionAlreadyExists indicates a permission with the same name already exists.
	ErrPermissionAlreadyExists = errors.Wrap(errors.ErrConflict, "permission already exists")
)
