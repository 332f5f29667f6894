// Package repository provides data persistence implementations for user entities.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/allisson/useradmin/internal/database"
	"github.com/allisson/useradmin/internal/user/domain"

	apperrors "github.com/allisson/useradmin/internal/errors"
)

const userColumns = `id, first_name, last_name, email, password, status, role_id, created_at, updated_at`

// PostgreSQLUserRepository handles user persistence for PostgreSQL
type PostgreSQLUserRepository struct {
	db *sql.DB
}

// NewPostgreSQLUserRepository creates a new PostgreSQLUserRepository
func NewPostgreSQLUserRepository(db *sql.DB) *PostgreSQLUserRepository {
	return &PostgreSQLUserRepository{
		db: db,
	}
}

// Create inserts a new user and fills in its generated ID and timestamps.
func (r *PostgreSQLUserRepository) Create(ctx context.Context, user *domain.User) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO users (first_name, last_name, email, password, status, role_id, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
			  RETURNING id, created_at, updated_at`

	err := querier.QueryRowContext(
		ctx, query, user.FirstName, user.LastName, user.Email, user.Password, user.Status, user.RoleID,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		// Check for unique constraint violation (duplicate email)
		if isPostgreSQLUniqueViolation(err) {
			return domain.ErrUserAlreadyExists
		}
		if isPostgreSQLForeignKeyViolation(err) {
			return domain.ErrRoleNotFound
		}
		return apperrors.Wrap(err, "failed to create user")
	}
	return nil
}

// GetByID retrieves a user by ID
func (r *PostgreSQLUserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(querier.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to get user by id")
	}
	return user, nil
}

// GetByEmail retrieves a user by email
func (r *PostgreSQLUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	user, err := scanUser(querier.QueryRowContext(ctx, query, email))
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to get user by email")
	}
	return user, nil
}

// UpdatePassword replaces the stored password hash of a user.
func (r *PostgreSQLUserRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE users SET password = $1, updated_at = NOW() WHERE id = $2`

	result, err := querier.ExecContext(ctx, query, passwordHash, id)
	if err != nil {
		return apperrors.Wrap(err, "failed to update user password")
	}
	return checkRowsAffected(result)
}

// UpdateRole assigns a role to a user.
func (r *PostgreSQLUserRepository) UpdateRole(ctx context.Context, id int64, roleID int64) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE users SET role_id = $1, updated_at = NOW() WHERE id = $2`

	result, err := querier.ExecContext(ctx, query, roleID, id)
	if err != nil {
		if isPostgreSQLForeignKeyViolation(err) {
			return domain.ErrRoleNotFound
		}
		return apperrors.Wrap(err, "failed to update user role")
	}
	return checkRowsAffected(result)
}

// SetVerificationCode stores the hash of the user's pending verification code.
func (r *PostgreSQLUserRepository) SetVerificationCode(ctx context.Context, id int64, codeHash string) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE users SET verification_code = $1, updated_at = NOW() WHERE id = $2`

	result, err := querier.ExecContext(ctx, query, codeHash, id)
	if err != nil {
		return apperrors.Wrap(err, "failed to set verification code")
	}
	return checkRowsAffected(result)
}

// GetVerificationCode returns the stored code hash, or an empty string when none is pending.
func (r *PostgreSQLUserRepository) GetVerificationCode(ctx context.Context, id int64) (string, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT verification_code FROM users WHERE id = $1`

	return scanVerificationCode(querier.QueryRowContext(ctx, query, id))
}

// MarkVerified moves the user to the verified status and clears the pending code.
func (r *PostgreSQLUserRepository) MarkVerified(ctx context.Context, id int64) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE users SET status = $1, verification_code = NULL, updated_at = NOW() WHERE id = $2`

	result, err := querier.ExecContext(ctx, query, domain.StatusVerified, id)
	if err != nil {
		return apperrors.Wrap(err, "failed to mark user verified")
	}
	return checkRowsAffected(result)
}

// isPostgreSQLUniqueViolation checks if the error is a PostgreSQL unique constraint violation
func isPostgreSQLUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	errMsg := strings.ToLower(err.Error())
	// PostgreSQL: "duplicate key value violates unique constraint" or "pq: duplicate key"
	return strings.Contains(errMsg, "duplicate key") || strings.Contains(errMsg, "unique constraint")
}

// isPostgreSQLForeignKeyViolation checks if the error is a PostgreSQL foreign key violation
func isPostgreSQLForeignKeyViolation(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(strings.ToLower(err.Error()), "foreign key constraint")
}

// rowScanner is implemented by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanUser scans a row selected with userColumns.
func scanUser(row rowScanner) (*domain.User, error) {
	var user domain.User
	err := row.Scan(
		&user.ID,
		&user.FirstName,
		&user.LastName,
		&user.Email,
		&user.Password,
		&user.Status,
		&user.RoleID,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// scanVerificationCode reads a nullable verification_code column.
func scanVerificationCode(row rowScanner) (string, error) {
	var code sql.NullString
	if err := row.Scan(&code); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", domain.ErrUserNotFound
		}
		return "", apperrors.Wrap(err, "failed to get verification code")
	}
	return code.String, nil
}

// checkRowsAffected maps an update that touched no row to ErrUserNotFound.
func checkRowsAffected(result sql.Result) error {
	return requireRowsAffected(result, domain.ErrUserNotFound)
}

// requireRowsAffected returns notFound when the statement touched no row.
func requireRowsAffected(result sql.Result, notFound error) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get affected rows")
	}
	if rows == 0 {
		return notFound
	}
	return nil
}
