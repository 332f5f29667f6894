package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/allisson/useradmin/internal/database"
	"github.com/allisson/useradmin/internal/user/domain"

	apperrors "github.com/allisson/useradmin/internal/errors"
)

// PermissionRepository manages the permission catalog on PostgreSQL or MySQL.
type PermissionRepository struct {
	dialect
	db *sql.DB
}

// NewPostgreSQLPermissionRepository creates a PermissionRepository for PostgreSQL.
func NewPostgreSQLPermissionRepository(db *sql.DB) *PermissionRepository {
	return &PermissionRepository{dialect: postgreSQLDialect, db: db}
}

// NewMySQLPermissionRepository creates a PermissionRepository for MySQL.
func NewMySQLPermissionRepository(db *sql.DB) *PermissionRepository {
	return &PermissionRepository{dialect: mySQLDialect, db: db}
}

// List returns a page of permissions ordered by id.
func (r *PermissionRepository) List(ctx context.Context, offset, limit int) ([]*domain.Permission, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, name, created_at FROM permissions ORDER BY id LIMIT ` + r.placeholder(1) +
		` OFFSET ` + r.placeholder(2)

	rows, err := querier.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list permissions")
	}
	defer func() {
		_ = rows.Close()
	}()

	permissions := make([]*domain.Permission, 0)
	for rows.Next() {
		var permission domain.Permission
		if err := rows.Scan(&permission.ID, &permission.Name, &permission.CreatedAt); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan permission")
		}
		permissions = append(permissions, &permission)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate permissions")
	}

	return permissions, nil
}

// Count returns the number of permissions.
func (r *PermissionRepository) Count(ctx context.Context) (int64, error) {
	querier := database.GetTx(ctx, r.db)

	var count int64
	if err := querier.QueryRowContext(ctx, `SELECT COUNT(*) FROM permissions`).Scan(&count); err != nil {
		return 0, apperrors.Wrap(err, "failed to count permissions")
	}
	return count, nil
}

// Get retrieves a permission by id.
func (r *PermissionRepository) Get(ctx context.Context, id int64) (*domain.Permission, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, name, created_at FROM permissions WHERE id = ` + r.placeholder(1)

	var permission domain.Permission
	err := querier.QueryRowContext(ctx, query, id).Scan(&permission.ID, &permission.Name, &permission.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrPermissionNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get permission")
	}
	return &permission, nil
}

// Create inserts a permission. Returns ErrPermissionAlreadyExists if the name is taken.
func (r *PermissionRepository) Create(ctx context.Context, permission *domain.Permission) error {
	querier := database.GetTx(ctx, r.db)

	now := timeNow()
	query := `INSERT INTO permissions (name, created_at) VALUES (` + r.placeholders(1, 2) + `)`

	id, err := r.insertID(ctx, querier, query, permission.Name, now)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrPermissionAlreadyExists
		}
		return apperrors.Wrap(err, "failed to create permission")
	}

	permission.ID = id
	permission.CreatedAt = now
	return nil
}

// Rename changes a permission's name, which changes the capability every holder is granted.
func (r *PermissionRepository) Rename(ctx context.Context, id int64, name string) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE permissions SET name = ` + r.placeholder(1) + ` WHERE id = ` + r.placeholder(2)

	result, err := querier.ExecContext(ctx, query, name, id)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrPermissionAlreadyExists
		}
		return apperrors.Wrap(err, "failed to rename permission")
	}
	return requireRowsAffected(result, domain.ErrPermissionNotFound)
}

// Delete removes a permission. Grants referencing it cascade.
func (r *PermissionRepository) Delete(ctx context.Context, id int64) error {
	querier := database.GetTx(ctx, r.db)

	result, err := querier.ExecContext(ctx, `DELETE FROM permissions WHERE id = `+r.placeholder(1), id)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete permission")
	}
	return requireRowsAffected(result, domain.ErrPermissionNotFound)
}
