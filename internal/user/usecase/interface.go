// Package usecase implements the user business logic and orchestrates user domain operations.
package usecase

import (
	"context"

	authDomain "github.com/allisson/useradmin/internal/auth/domain"
	"github.com/allisson/useradmin/internal/user/domain"
)

// RegisterUserInput contains the input data for user registration
type RegisterUserInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string //nolint:gosec // plaintext only in transit, never stored
}

// ChangePasswordInput contains the current and the new password of a user.
type ChangePasswordInput struct {
	OldPassword string //nolint:gosec // plaintext only in transit, never stored
	NewPassword string //nolint:gosec // plaintext only in transit, never stored
}

// UserRepository defines user persistence operations.
// Implementations must support transaction-aware operations via context propagation.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	UpdateRole(ctx context.Context, id int64, roleID int64) error
}

// RoleRepository defines read access to roles and their capabilities.
type RoleRepository interface {
	// Get returns ErrRoleNotFound if the role does not exist.
	Get(ctx context.Context, id int64) (*domain.Role, error)

	GetCapabilities(ctx context.Context, roleID int64) ([]authDomain.Capability, error)
}

// UseCase defines the interface for user business logic operations
type UseCase interface {
	// Register validates the input, hashes the password and stores a new user with the default role.
	Register(ctx context.Context, input RegisterUserInput) (*domain.User, error)

	// Get retrieves a user by ID. Returns ErrUserNotFound if the user does not exist.
	Get(ctx context.Context, id int64) (*domain.User, error)

	// GetByEmail retrieves a user by email (case-insensitive).
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// ChangePassword verifies the current password and stores the hash of the new one.
	// Returns ErrPasswordMismatch when the current password is wrong.
	ChangePassword(ctx context.Context, id int64, input ChangePasswordInput) (*domain.User, error)

	// UpdateRole assigns an existing role to a user and returns the updated user.
	UpdateRole(ctx context.Context, id int64, roleID int64) (*domain.User, error)
}

// RoleInput names a role to create or rename.
type RoleInput struct {
	Name string
}

// PermissionInput names a permission to create or rename.
type PermissionInput struct {
	Name string
}

// VerifyUserInput carries the code mailed to a user at sign-up.
type VerifyUserInput struct {
	Email string
	Code  string
}

// PermissionPage is one page of the permission catalog.
type PermissionPage struct {
	Permissions []*domain.Permission
	TotalCount  int64
	PageNum     int
	PageSize    int
}

// RoleManagementRepository extends RoleRepository with write access.
type RoleManagementRepository interface {
	RoleRepository

	List(ctx context.Context) ([]*domain.Role, error)
	Create(ctx context.Context, role *domain.Role) error
	Rename(ctx context.Context, id int64, name string) error

	// Delete returns ErrRoleInUse while users still hold the role.
	Delete(ctx context.Context, id int64) error

	// SetPermissions replaces the role's grants. Callers run it inside a transaction.
	SetPermissions(ctx context.Context, roleID int64, permissionIDs []int64) error
}

// PermissionRepository defines persistence of the permission catalog.
type PermissionRepository interface {
	List(ctx context.Context, offset, limit int) ([]*domain.Permission, error)
	Count(ctx context.Context) (int64, error)
	Get(ctx context.Context, id int64) (*domain.Permission, error)
	Create(ctx context.Context, permission *domain.Permission) error
	Rename(ctx context.Context, id int64, name string) error
	Delete(ctx context.Context, id int64) error
}

// VerificationRepository stores pending sign-up verification codes.
type VerificationRepository interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	SetVerificationCode(ctx context.Context, id int64, codeHash string) error

	// GetVerificationCode returns an empty string when no code is pending.
	GetVerificationCode(ctx context.Context, id int64) (string, error)

	MarkVerified(ctx context.Context, id int64) error
}

// CapabilityCache drops memoized role capabilities.
type CapabilityCache interface {
	Invalidate(roleID int64)
	InvalidateAll()
}

// VerificationNotifier delivers a verification code to a user.
type VerificationNotifier interface {
	NotifyVerification(ctx context.Context, user *domain.User, code string) error
}

// RoleUseCase manages roles and the permissions they grant.
type RoleUseCase interface {
	List(ctx context.Context) ([]*domain.Role, error)
	Get(ctx context.Context, id int64) (*domain.Role, error)
	Create(ctx context.Context, input RoleInput) (*domain.Role, error)
	Rename(ctx context.Context, id int64, input RoleInput) (*domain.Role, error)

	// Delete refuses the admin role and the sign-up default role with ErrRoleProtected.
	Delete(ctx context.Context, id int64) error

	// SetPermissions replaces the role's grants and drops its cached capabilities.
	SetPermissions(ctx context.Context, id int64, permissionIDs []int64) (*domain.Role, error)
}

// PermissionUseCase manages the permission catalog.
type PermissionUseCase interface {
	List(ctx context.Context, pageNum, pageSize int) (*PermissionPage, error)
	Get(ctx context.Context, id int64) (*domain.Permission, error)
	Create(ctx context.Context, input PermissionInput) (*domain.Permission, error)
	Rename(ctx context.Context, id int64, input PermissionInput) (*domain.Permission, error)
	Delete(ctx context.Context, id int64) error
}

// VerificationUseCase issues and checks sign-up verification codes.
type VerificationUseCase interface {
	// Issue stores a fresh code for the user and hands it to the notifier.
	Issue(ctx context.Context, user *domain.User) error

	// Verify moves a Created user to Verified. Unknown emails, inactive users and wrong codes
	// all return ErrInvalidVerificationCode.
	Verify(ctx context.Context, input VerifyUserInput) (*domain.User, error)
}
