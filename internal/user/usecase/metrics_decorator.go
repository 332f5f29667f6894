package usecase

import (
	"context"
	"time"

	"github.com/allisson/useradmin/internal/metrics"
	"github.com/allisson/useradmin/internal/user/domain"
)

// userUseCaseWithMetrics decorates UseCase with metrics instrumentation.
type userUseCaseWithMetrics struct {
	next    UseCase
	metrics metrics.BusinessMetrics
}

// NewUserUseCaseWithMetrics wraps a UseCase with metrics recording.
func NewUserUseCaseWithMetrics(useCase UseCase, m metrics.BusinessMetrics) UseCase {
	return &userUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (u *userUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	u.metrics.RecordOperation(ctx, "users", operation, status)
	u.metrics.RecordDuration(ctx, "users", operation, time.Since(start), status)
}

// Register records metrics for user registration.
func (u *userUseCaseWithMetrics) Register(ctx context.Context, input RegisterUserInput) (*domain.User, error) {
	start := time.Now()
	user, err := u.next.Register(ctx, input)
	u.record(ctx, "user_register", start, err)
	return user, err
}

// Get records metrics for user retrieval.
func (u *userUseCaseWithMetrics) Get(ctx context.Context, id int64) (*domain.User, error) {
	start := time.Now()
	user, err := u.next.Get(ctx, id)
	u.record(ctx, "user_get", start, err)
	return user, err
}

// GetByEmail records metrics for user retrieval by email.
func (u *userUseCaseWithMetrics) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	start := time.Now()
	user, err := u.next.GetByEmail(ctx, email)
	u.record(ctx, "user_get_by_email", start, err)
	return user, err
}

// ChangePassword records metrics for password changes.
func (u *userUseCaseWithMetrics) ChangePassword(
	ctx context.Context,
	id int64,
	input ChangePasswordInput,
) (*domain.User, error) {
	start := time.Now()
	user, err := u.next.ChangePassword(ctx, id, input)
	u.record(ctx, "user_change_password", start, err)
	return user, err
}

// UpdateRole records metrics for role assignment.
func (u *userUseCaseWithMetrics) UpdateRole(ctx context.Context, id int64, roleID int64) (*domain.User, error) {
	start := time.Now()
	user, err := u.next.UpdateRole(ctx, id, roleID)
	u.record(ctx, "user_update_role", start, err)
	return user, err
}
