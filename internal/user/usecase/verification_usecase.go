package usecase

import (
	"context"
	"crypto/rand"
	"errors"

	validation "github.com/jellydator/validation"

	authService "github.com/allisson/useradmin/internal/auth/service"
	"github.com/allisson/useradmin/internal/database"
	"github.com/allisson/useradmin/internal/user/domain"
	appValidation "github.com/allisson/useradmin/internal/validation"
)

// verificationUseCase handles sign-up verification codes
type verificationUseCase struct {
	txManager       database.TxManager
	userRepo        VerificationRepository
	passwordService authService.PasswordService
	notifier        VerificationNotifier
}

// NewVerificationUseCase creates a VerificationUseCase. Codes are stored hashed with passwordService.
func NewVerificationUseCase(
	txManager database.TxManager,
	userRepo VerificationRepository,
	passwordService authService.PasswordService,
	notifier VerificationNotifier,
) VerificationUseCase {
	return &verificationUseCase{
		txManager:       txManager,
		userRepo:        userRepo,
		passwordService: passwordService,
		notifier:        notifier,
	}
}

func validateVerifyUserInput(input VerifyUserInput) error {
	err := validation.ValidateStruct(&input,
		validation.Field(&input.Email,
			validation.Required.Error("email is required"),
			appValidation.NotBlank,
		),
		validation.Field(&input.Code,
			validation.Required.Error("verification code is required"),
		),
	)
	return appValidation.WrapValidationError(err)
}

// Issue replaces any pending code of user and delivers the new one.
func (uc *verificationUseCase) Issue(ctx context.Context, user *domain.User) error {
	code := rand.Text()

	hashedCode, err := uc.passwordService.HashPassword(code)
	if err != nil {
		return err
	}

	if err := uc.userRepo.SetVerificationCode(ctx, user.ID, hashedCode); err != nil {
		return err
	}

	return uc.notifier.NotifyVerification(ctx, user, code)
}

// Verify checks the code and marks the user verified.
func (uc *verificationUseCase) Verify(ctx context.Context, input VerifyUserInput) (*domain.User, error) {
	if err := validateVerifyUserInput(input); err != nil {
		return nil, err
	}

	var user *domain.User
	err := uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		current, err := uc.userRepo.GetByEmail(ctx, normalizeEmail(input.Email))
		if err != nil {
			if errors.Is(err, domain.ErrUserNotFound) {
				return domain.ErrInvalidVerificationCode
			}
			return err
		}

		if !current.IsActive() {
			return domain.ErrInvalidVerificationCode
		}
		if current.Status == domain.StatusVerified {
			return domain.ErrUserAlreadyVerified
		}

		hashedCode, err := uc.userRepo.GetVerificationCode(ctx, current.ID)
		if err != nil {
			return err
		}
		if hashedCode == "" || !uc.passwordService.ComparePassword(input.Code, hashedCode) {
			return domain.ErrInvalidVerificationCode
		}

		if err := uc.userRepo.MarkVerified(ctx, current.ID); err != nil {
			return err
		}

		current.Status = domain.StatusVerified
		user = current
		return nil
	})
	if err != nil {
		return nil, err
	}

	return user, nil
}
