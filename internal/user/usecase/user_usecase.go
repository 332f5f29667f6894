package usecase

import (
	"context"
	"strings"

	validation "github.com/jellydator/validation"

	authService "github.com/allisson/useradmin/internal/auth/service"
	"github.com/allisson/useradmin/internal/database"
	apperrors "github.com/allisson/useradmin/internal/errors"
	"github.com/allisson/useradmin/internal/user/domain"
	appValidation "github.com/allisson/useradmin/internal/validation"
)

// passwordRule is the strength policy applied to every new password.
var passwordRule = appValidation.PasswordStrength{
	MinLength:     8,
	RequireUpper:  true,
	RequireLower:  true,
	RequireNumber: true,
}

// userUseCase handles user-related business logic
type userUseCase struct {
	txManager       database.TxManager
	userRepo        UserRepository
	roleRepo        RoleRepository
	passwordService authService.PasswordService
	defaultRoleID   int64
}

// NewUserUseCase creates a new UseCase. New users are assigned defaultRoleID.
func NewUserUseCase(
	txManager database.TxManager,
	userRepo UserRepository,
	roleRepo RoleRepository,
	passwordService authService.PasswordService,
	defaultRoleID int64,
) UseCase {
	return &userUseCase{
		txManager:       txManager,
		userRepo:        userRepo,
		roleRepo:        roleRepo,
		passwordService: passwordService,
		defaultRoleID:   defaultRoleID,
	}
}

// validateRegisterUserInput validates the registration input using jellydator/validation
func validateRegisterUserInput(input RegisterUserInput) error {
	err := validation.ValidateStruct(&input,
		validation.Field(&input.FirstName,
			validation.Required.Error("first name is required"),
			appValidation.NotBlank,
			validation.Length(1, 255).Error("first name must be between 1 and 255 characters"),
		),
		validation.Field(&input.LastName,
			validation.Length(0, 255).Error("last name must be at most 255 characters"),
		),
		validation.Field(&input.Email,
			validation.Required.Error("email is required"),
			appValidation.NotBlank,
			appValidation.Email,
			validation.Length(5, 255).Error("email must be between 5 and 255 characters"),
		),
		validation.Field(&input.Password,
			validation.Required.Error("password is required"),
			validation.Length(8, 128).Error("password must be between 8 and 128 characters"),
			passwordRule,
		),
	)
	return appValidation.WrapValidationError(err)
}

func validateChangePasswordInput(input ChangePasswordInput) error {
	err := validation.ValidateStruct(&input,
		validation.Field(&input.OldPassword, validation.Required.Error("old password is required")),
		validation.Field(&input.NewPassword,
			validation.Required.Error("new password is required"),
			validation.Length(8, 128).Error("new password must be between 8 and 128 characters"),
			passwordRule,
		),
	)
	return appValidation.WrapValidationError(err)
}

// Register registers a new user with the default role.
func (uc *userUseCase) Register(ctx context.Context, input RegisterUserInput) (*domain.User, error) {
	if err := validateRegisterUserInput(input); err != nil {
		return nil, err
	}

	hashedPassword, err := uc.passwordService.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		FirstName: strings.TrimSpace(input.FirstName),
		LastName:  strings.TrimSpace(input.LastName),
		Email:     normalizeEmail(input.Email),
		Password:  hashedPassword,
		Status:    domain.StatusCreated,
		RoleID:    uc.defaultRoleID,
	}

	// Repository returns ErrUserAlreadyExists on duplicate email
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// Get retrieves a user by ID
func (uc *userUseCase) Get(ctx context.Context, id int64) (*domain.User, error) {
	return uc.userRepo.GetByID(ctx, id)
}

// GetByEmail retrieves a user by email
func (uc *userUseCase) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return uc.userRepo.GetByEmail(ctx, normalizeEmail(email))
}

// ChangePassword replaces the password of a user after checking the current one.
func (uc *userUseCase) ChangePassword(
	ctx context.Context,
	id int64,
	input ChangePasswordInput,
) (*domain.User, error) {
	if err := validateChangePasswordInput(input); err != nil {
		return nil, err
	}

	var user *domain.User
	err := uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		current, err := uc.userRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}

		if !uc.passwordService.ComparePassword(input.OldPassword, current.Password) {
			return domain.ErrPasswordMismatch
		}

		hashedPassword, err := uc.passwordService.HashPassword(input.NewPassword)
		if err != nil {
			return err
		}

		if err := uc.userRepo.UpdatePassword(ctx, id, hashedPassword); err != nil {
			return err
		}

		current.Password = hashedPassword
		user = current
		return nil
	})
	if err != nil {
		return nil, err
	}

	return user, nil
}

// UpdateRole assigns roleID to the user identified by id.
func (uc *userUseCase) UpdateRole(ctx context.Context, id int64, roleID int64) (*domain.User, error) {
	if roleID <= 0 {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "role id must be positive")
	}

	var user *domain.User
	err := uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		if _, err := uc.roleRepo.Get(ctx, roleID); err != nil {
			return err
		}

		if err := uc.userRepo.UpdateRole(ctx, id, roleID); err != nil {
			return err
		}

		updated, err := uc.userRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		user = updated
		return nil
	})
	if err != nil {
		return nil, err
	}

	return user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
