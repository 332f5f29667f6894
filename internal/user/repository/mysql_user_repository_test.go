package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allisson/useradmin/internal/user/domain"
)

func TestMySQLUserRepository_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_UsesLastInsertID", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewMySQLUserRepository(db)

		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users")).
			WithArgs("Jane", "Doe", "jane@example.com", "hash", domain.StatusCreated, domain.UserRoleID,
				sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(11, 1))

		user := &domain.User{
			FirstName: "Jane",
			LastName:  "Doe",
			Email:     "jane@example.com",
			Password:  "hash",
			Status:    domain.StatusCreated,
			RoleID:    domain.UserRoleID,
		}
		require.NoError(t, repo.Create(ctx, user))
		assert.Equal(t, int64(11), user.ID)
		assert.False(t, user.CreatedAt.IsZero())
		assert.Equal(t, user.CreatedAt, user.UpdatedAt)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Error_DuplicateEmail", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewMySQLUserRepository(db)

		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users")).
			WillReturnError(errors.New("Error 1062 (23000): Duplicate entry 'jane@example.com' for key 'users.email'"))

		assert.ErrorIs(t, repo.Create(ctx, &domain.User{Email: "jane@example.com"}), domain.ErrUserAlreadyExists)
	})

	t.Run("Error_UnknownRole", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewMySQLUserRepository(db)

		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users")).
			WillReturnError(errors.New("Error 1452 (23000): Cannot add or update a child row: a foreign key constraint fails"))

		assert.ErrorIs(t, repo.Create(ctx, &domain.User{Email: "jane@example.com"}), domain.ErrRoleNotFound)
	})
}

func TestMySQLUserRepository_GetByEmail(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC()

	t.Run("Success", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewMySQLUserRepository(db)

		mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE email = ?")).
			WithArgs("jane@example.com").
			WillReturnRows(sqlmock.NewRows(userRowColumns).
				AddRow(3, "Jane", "", "jane@example.com", "hash", 0, 3, now, now))

		user, err := repo.GetByEmail(ctx, "jane@example.com")
		require.NoError(t, err)
		assert.Equal(t, int64(3), user.ID)
		assert.False(t, user.IsActive())
	})

	t.Run("Error_NotFound", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewMySQLUserRepository(db)

		mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE id = ?")).
			WillReturnRows(sqlmock.NewRows(userRowColumns))

		_, err := repo.GetByID(ctx, 3)
		assert.ErrorIs(t, err, domain.ErrUserNotFound)
	})
}

func TestMySQLUserRepository_Updates(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_UpdatePassword", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewMySQLUserRepository(db)

		mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET password = ?")).
			WithArgs("new-hash", sqlmock.AnyArg(), int64(3)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.UpdatePassword(ctx, 3, "new-hash"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Success_UpdateRole", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewMySQLUserRepository(db)

		mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET role_id = ?")).
			WithArgs(domain.GuestRoleID, sqlmock.AnyArg(), int64(3)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.UpdateRole(ctx, 3, domain.GuestRoleID))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Error_UpdateRoleMissingUser", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewMySQLUserRepository(db)

		mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET role_id = ?")).
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.UpdateRole(ctx, 3, domain.GuestRoleID), domain.ErrUserNotFound)
	})
}

func TestMySQLUserRepository_Verification(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_SetVerificationCode", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewMySQLUserRepository(db)

		mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET verification_code = ?")).
			WithArgs("code-hash", sqlmock.AnyArg(), int64(3)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.SetVerificationCode(ctx, 3, "code-hash"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Success_GetVerificationCode", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewMySQLUserRepository(db)

		mock.ExpectQuery(regexp.QuoteMeta("SELECT verification_code FROM users WHERE id = ?")).
			WithArgs(int64(3)).
			WillReturnRows(sqlmock.NewRows([]string{"verification_code"}).AddRow("code-hash"))

		code, err := repo.GetVerificationCode(ctx, 3)
		require.NoError(t, err)
		assert.Equal(t, "code-hash", code)
	})

	t.Run("Error_MarkVerifiedMissingUser", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewMySQLUserRepository(db)

		mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET status = ?")).
			WithArgs(domain.StatusVerified, sqlmock.AnyArg(), int64(3)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.MarkVerified(ctx, 3), domain.ErrUserNotFound)
	})
}
