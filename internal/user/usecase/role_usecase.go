package usecase

import (
	"context"
	"slices"

	validation "github.com/jellydator/validation"

	"github.com/allisson/useradmin/internal/database"
	apperrors "github.com/allisson/useradmin/internal/errors"
	"github.com/allisson/useradmin/internal/user/domain"
	appValidation "github.com/allisson/useradmin/internal/validation"
)

// nameRules apply to role and permission names.
var nameRules = []validation.Rule{
	validation.Required.Error("name is required"),
	appValidation.NoWhitespace,
	validation.Length(1, 64).Error("name must be between 1 and 64 characters"),
}

func validateRoleInput(input RoleInput) error {
	err := validation.ValidateStruct(&input, validation.Field(&input.Name, nameRules...))
	return appValidation.WrapValidationError(err)
}

// roleUseCase handles role management
type roleUseCase struct {
	txManager        database.TxManager
	roleRepo         RoleManagementRepository
	capabilityCache  CapabilityCache
	protectedRoleIDs []int64
}

// NewRoleUseCase creates a RoleUseCase. Roles in protectedRoleIDs cannot be deleted.
func NewRoleUseCase(
	txManager database.TxManager,
	roleRepo RoleManagementRepository,
	capabilityCache CapabilityCache,
	protectedRoleIDs ...int64,
) RoleUseCase {
	return &roleUseCase{
		txManager:        txManager,
		roleRepo:         roleRepo,
		capabilityCache:  capabilityCache,
		protectedRoleIDs: protectedRoleIDs,
	}
}

// List returns every role with its capabilities.
func (uc *roleUseCase) List(ctx context.Context) ([]*domain.Role, error) {
	return uc.roleRepo.List(ctx)
}

// Get retrieves a role with its capabilities.
func (uc *roleUseCase) Get(ctx context.Context, id int64) (*domain.Role, error) {
	return uc.roleRepo.Get(ctx, id)
}

// Create stores a role without permissions.
func (uc *roleUseCase) Create(ctx context.Context, input RoleInput) (*domain.Role, error) {
	if err := validateRoleInput(input); err != nil {
		return nil, err
	}

	role := &domain.Role{Name: input.Name}
	if err := uc.roleRepo.Create(ctx, role); err != nil {
		return nil, err
	}
	return role, nil
}

// Rename changes the name of a role.
func (uc *roleUseCase) Rename(ctx context.Context, id int64, input RoleInput) (*domain.Role, error) {
	if err := validateRoleInput(input); err != nil {
		return nil, err
	}

	var role *domain.Role
	err := uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		if err := uc.roleRepo.Rename(ctx, id, input.Name); err != nil {
			return err
		}

		updated, err := uc.roleRepo.Get(ctx, id)
		if err != nil {
			return err
		}
		role = updated
		return nil
	})
	if err != nil {
		return nil, err
	}

	return role, nil
}

// Delete removes an unprotected role that no user holds.
func (uc *roleUseCase) Delete(ctx context.Context, id int64) error {
	if slices.Contains(uc.protectedRoleIDs, id) {
		return domain.ErrRoleProtected
	}

	if err := uc.roleRepo.Delete(ctx, id); err != nil {
		return err
	}

	uc.capabilityCache.Invalidate(id)
	return nil
}

// SetPermissions replaces the permissions granted to a role.
func (uc *roleUseCase) SetPermissions(ctx context.Context, id int64, permissionIDs []int64) (*domain.Role, error) {
	ids := slices.Clone(permissionIDs)
	slices.Sort(ids)
	ids = slices.Compact(ids)
	if len(ids) > 0 && ids[0] <= 0 {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "permission ids must be positive")
	}

	var role *domain.Role
	err := uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		if err := uc.roleRepo.SetPermissions(ctx, id, ids); err != nil {
			return err
		}

		updated, err := uc.roleRepo.Get(ctx, id)
		if err != nil {
			return err
		}
		role = updated
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Invalidated after commit so a concurrent load cannot cache the old grants.
	uc.capabilityCache.Invalidate(id)
	return role, nil
}
