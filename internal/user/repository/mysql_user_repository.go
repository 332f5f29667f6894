package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/allisson/useradmin/internal/database"
	"github.com/allisson/useradmin/internal/user/domain"

	apperrors "github.com/allisson/useradmin/internal/errors"
)

// timeNow returns the current time truncated to the precision of a MySQL DATETIME(6) column.
var timeNow = func() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

// MySQLUserRepository handles user persistence for MySQL
type MySQLUserRepository struct {
	db *sql.DB
}

// NewMySQLUserRepository creates a new MySQLUserRepository
func NewMySQLUserRepository(db *sql.DB) *MySQLUserRepository {
	return &MySQLUserRepository{
		db: db,
	}
}

// Create inserts a new user and fills in its generated ID and timestamps.
func (r *MySQLUserRepository) Create(ctx context.Context, user *domain.User) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO users (first_name, last_name, email, password, status, role_id, created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	now := timeNow()
	result, err := querier.ExecContext(
		ctx, query, user.FirstName, user.LastName, user.Email, user.Password, user.Status, user.RoleID, now, now,
	)
	if err != nil {
		// Check for unique constraint violation (duplicate email)
		if isMySQLUniqueViolation(err) {
			return domain.ErrUserAlreadyExists
		}
		if isMySQLForeignKeyViolation(err) {
			return domain.ErrRoleNotFound
		}
		return apperrors.Wrap(err, "failed to create user")
	}

	id, err := result.LastInsertId()
	if err != nil {
		return apperrors.Wrap(err, "failed to get user id")
	}

	user.ID = id
	user.CreatedAt = now
	user.UpdatedAt = now
	return nil
}

// GetByID retrieves a user by ID
func (r *MySQLUserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + userColumns + ` FROM users WHERE id = ?`

	user, err := scanUser(querier.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to get user by id")
	}
	return user, nil
}

// GetByEmail retrieves a user by email
func (r *MySQLUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + userColumns + ` FROM users WHERE email = ?`

	user, err := scanUser(querier.QueryRowContext(ctx, query, email))
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to get user by email")
	}
	return user, nil
}

// UpdatePassword replaces the stored password hash of a user.
func (r *MySQLUserRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE users SET password = ?, updated_at = ? WHERE id = ?`

	result, err := querier.ExecContext(ctx, query, passwordHash, timeNow(), id)
	if err != nil {
		return apperrors.Wrap(err, "failed to update user password")
	}
	return checkRowsAffected(result)
}

// UpdateRole assigns a role to a user.
func (r *MySQLUserRepository) UpdateRole(ctx context.Context, id int64, roleID int64) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE users SET role_id = ?, updated_at = ? WHERE id = ?`

	result, err := querier.ExecContext(ctx, query, roleID, timeNow(), id)
	if err != nil {
		if isMySQLForeignKeyViolation(err) {
			return domain.ErrRoleNotFound
		}
		return apperrors.Wrap(err, "failed to update user role")
	}
	return checkRowsAffected(result)
}

// SetVerificationCode stores the hash of the user's pending verification code.
func (r *MySQLUserRepository) SetVerificationCode(ctx context.Context, id int64, codeHash string) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE users SET verification_code = ?, updated_at = ? WHERE id = ?`

	result, err := querier.ExecContext(ctx, query, codeHash, timeNow(), id)
	if err != nil {
		return apperrors.Wrap(err, "failed to set verification code")
	}
	return checkRowsAffected(result)
}

// GetVerificationCode returns the stored code hash, or an empty string when none is pending.
func (r *MySQLUserRepository) GetVerificationCode(ctx context.Context, id int64) (string, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT verification_code FROM users WHERE id = ?`

	return scanVerificationCode(querier.QueryRowContext(ctx, query, id))
}

// MarkVerified moves the user to the verified status and clears the pending code.
func (r *MySQLUserRepository) MarkVerified(ctx context.Context, id int64) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE users SET status = ?, verification_code = NULL, updated_at = ? WHERE id = ?`

	result, err := querier.ExecContext(ctx, query, domain.StatusVerified, timeNow(), id)
	if err != nil {
		return apperrors.Wrap(err, "failed to mark user verified")
	}
	return checkRowsAffected(result)
}

// isMySQLUniqueViolation checks if the error is a MySQL unique constraint violation
func isMySQLUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	errMsg := strings.ToLower(err.Error())
	// MySQL: "Error 1062: Duplicate entry"
	return strings.Contains(errMsg, "duplicate entry") || strings.Contains(errMsg, "1062")
}

// isMySQLForeignKeyViolation checks if the error is a MySQL foreign key violation (1452)
func isMySQLForeignKeyViolation(err error) bool {
	if err == nil {
		return false
	}
	errMsg := strings.ToLower(err.Error())
	return strings.Contains(errMsg, "foreign key constraint fails") || strings.Contains(errMsg, "1452")
}
