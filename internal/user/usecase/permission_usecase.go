package usecase

import (
	"context"

	validation "github.com/jellydator/validation"

	"github.com/allisson/useradmin/internal/database"
	apperrors "github.com/allisson/useradmin/internal/errors"
	"github.com/allisson/useradmin/internal/user/domain"
	appValidation "github.com/allisson/useradmin/internal/validation"
)

// MaxPermissionPageSize bounds a permission listing page.
const MaxPermissionPageSize = 100

func validatePermissionInput(input PermissionInput) error {
	err := validation.ValidateStruct(&input, validation.Field(&input.Name, nameRules...))
	return appValidation.WrapValidationError(err)
}

// permissionUseCase handles the permission catalog
type permissionUseCase struct {
	txManager       database.TxManager
	permissionRepo  PermissionRepository
	capabilityCache CapabilityCache
}

// NewPermissionUseCase creates a PermissionUseCase.
func NewPermissionUseCase(
	txManager database.TxManager,
	permissionRepo PermissionRepository,
	capabilityCache CapabilityCache,
) PermissionUseCase {
	return &permissionUseCase{
		txManager:       txManager,
		permissionRepo:  permissionRepo,
		capabilityCache: capabilityCache,
	}
}

// List returns page pageNum (1-based) of the catalog.
func (uc *permissionUseCase) List(ctx context.Context, pageNum, pageSize int) (*PermissionPage, error) {
	if pageNum < 1 {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "page number must be at least 1")
	}
	if pageSize < 1 || pageSize > MaxPermissionPageSize {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "page size must be between 1 and 100")
	}

	permissions, err := uc.permissionRepo.List(ctx, (pageNum-1)*pageSize, pageSize)
	if err != nil {
		return nil, err
	}

	total, err := uc.permissionRepo.Count(ctx)
	if err != nil {
		return nil, err
	}

	return &PermissionPage{
		Permissions: permissions,
		TotalCount:  total,
		PageNum:     pageNum,
		PageSize:    pageSize,
	}, nil
}

// Get retrieves a permission by id.
func (uc *permissionUseCase) Get(ctx context.Context, id int64) (*domain.Permission, error) {
	return uc.permissionRepo.Get(ctx, id)
}

// Create adds a permission to the catalog.
func (uc *permissionUseCase) Create(ctx context.Context, input PermissionInput) (*domain.Permission, error) {
	if err := validatePermissionInput(input); err != nil {
		return nil, err
	}

	permission := &domain.Permission{Name: input.Name}
	if err := uc.permissionRepo.Create(ctx, permission); err != nil {
		return nil, err
	}
	return permission, nil
}

// Rename changes the capability a permission grants to every role holding it.
func (uc *permissionUseCase) Rename(
	ctx context.Context,
	id int64,
	input PermissionInput,
) (*domain.Permission, error) {
	if err := validatePermissionInput(input); err != nil {
		return nil, err
	}

	var permission *domain.Permission
	err := uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		if err := uc.permissionRepo.Rename(ctx, id, input.Name); err != nil {
			return err
		}

		updated, err := uc.permissionRepo.Get(ctx, id)
		if err != nil {
			return err
		}
		permission = updated
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.capabilityCache.InvalidateAll()
	return permission, nil
}

// Delete removes a permission and revokes it from every role.
func (uc *permissionUseCase) Delete(ctx context.Context, id int64) error {
	if err := uc.permissionRepo.Delete(ctx, id); err != nil {
		return err
	}

	uc.capabilityCache.InvalidateAll()
	return nil
}
