package repository

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"

	authDomain "github.com/allisson/useradmin/internal/auth/domain"
	"github.com/allisson/useradmin/internal/database"
	"github.com/allisson/useradmin/internal/user/domain"

	apperrors "github.com/allisson/useradmin/internal/errors"
)

// dialect renders the driver specific parts of otherwise shared SQL.
type dialect struct {
	placeholder func(n int) string
	returning   bool
}

var (
	postgreSQLDialect = dialect{placeholder: func(n int) string { return "$" + strconv.Itoa(n) }, returning: true}
	mySQLDialect      = dialect{placeholder: func(int) string { return "?" }}
)

// placeholders renders count placeholders starting at from, comma separated.
func (d dialect) placeholders(from, count int) string {
	parts := make([]string, count)
	for i := range parts {
		parts[i] = d.placeholder(from + i)
	}
	return strings.Join(parts, ", ")
}

// insertID runs an INSERT and returns the generated id.
func (d dialect) insertID(ctx context.Context, querier database.Querier, query string, args ...any) (int64, error) {
	if d.returning {
		var id int64
		err := querier.QueryRowContext(ctx, query+" RETURNING id", args...).Scan(&id)
		return id, err
	}
	result, err := querier.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// RoleRepository manages roles and their capabilities. The same SQL runs on PostgreSQL and MySQL
// once placeholders are rendered for the driver.
type RoleRepository struct {
	dialect
	db *sql.DB
}

// NewPostgreSQLRoleRepository creates a RoleRepository for PostgreSQL.
func NewPostgreSQLRoleRepository(db *sql.DB) *RoleRepository {
	return &RoleRepository{dialect: postgreSQLDialect, db: db}
}

// NewMySQLRoleRepository creates a RoleRepository for MySQL.
func NewMySQLRoleRepository(db *sql.DB) *RoleRepository {
	return &RoleRepository{dialect: mySQLDialect, db: db}
}

// Get retrieves a role and its capabilities. Returns ErrRoleNotFound if the role does not exist.
func (r *RoleRepository) Get(ctx context.Context, id int64) (*domain.Role, error) {
	querier := database.GetTx(ctx, r.db)

	var role domain.Role
	query := `SELECT id, name, created_at, updated_at FROM user_roles WHERE id = ` + r.placeholder(1)
	row := querier.QueryRowContext(ctx, query, id)
	if err := row.Scan(&role.ID, &role.Name, &role.CreatedAt, &role.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrRoleNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get role")
	}

	capabilities, err := r.GetCapabilities(ctx, id)
	if err != nil {
		return nil, err
	}
	role.Capabilities = capabilities

	return &role, nil
}

// GetCapabilities returns the capabilities granted to a role, sorted by name.
// An unknown role has no capabilities.
func (r *RoleRepository) GetCapabilities(ctx context.Context, roleID int64) ([]authDomain.Capability, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT p.name FROM permissions p
			  INNER JOIN role_permissions rp ON rp.permission_id = p.id
			  WHERE rp.role_id = ` + r.placeholder(1) + `
			  ORDER BY p.name`

	rows, err := querier.QueryContext(ctx, query, roleID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list role capabilities")
	}
	defer func() {
		_ = rows.Close()
	}()

	capabilities := make([]authDomain.Capability, 0)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan role capability")
		}
		capabilities = append(capabilities, authDomain.Capability(name))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate role capabilities")
	}

	return capabilities, nil
}

// List returns every role with its capabilities, ordered by id.
func (r *RoleRepository) List(ctx context.Context) ([]*domain.Role, error) {
	querier := database.GetTx(ctx, r.db)

	rows, err := querier.QueryContext(ctx, `SELECT id, name, created_at, updated_at FROM user_roles ORDER BY id`)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list roles")
	}
	defer func() {
		_ = rows.Close()
	}()

	roles := make([]*domain.Role, 0)
	byID := make(map[int64]*domain.Role)
	for rows.Next() {
		role := &domain.Role{Capabilities: make([]authDomain.Capability, 0)}
		if err := rows.Scan(&role.ID, &role.Name, &role.CreatedAt, &role.UpdatedAt); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan role")
		}
		roles = append(roles, role)
		byID[role.ID] = role
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate roles")
	}

	grants, err := querier.QueryContext(ctx, `SELECT rp.role_id, p.name FROM role_permissions rp
			  INNER JOIN permissions p ON p.id = rp.permission_id
			  ORDER BY rp.role_id, p.name`)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list role capabilities")
	}
	defer func() {
		_ = grants.Close()
	}()

	for grants.Next() {
		var roleID int64
		var name string
		if err := grants.Scan(&roleID, &name); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan role capability")
		}
		if role, ok := byID[roleID]; ok {
			role.Capabilities = append(role.Capabilities, authDomain.Capability(name))
		}
	}
	if err := grants.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate role capabilities")
	}

	return roles, nil
}

// Create inserts a role and fills its generated fields.
// Returns ErrRoleAlreadyExists if the name is taken.
func (r *RoleRepository) Create(ctx context.Context, role *domain.Role) error {
	querier := database.GetTx(ctx, r.db)

	now := timeNow()
	query := `INSERT INTO user_roles (name, created_at, updated_at) VALUES (` + r.placeholders(1, 3) + `)`

	id, err := r.insertID(ctx, querier, query, role.Name, now, now)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrRoleAlreadyExists
		}
		return apperrors.Wrap(err, "failed to create role")
	}

	role.ID = id
	role.CreatedAt = now
	role.UpdatedAt = now
	return nil
}

// Rename changes a role's name.
func (r *RoleRepository) Rename(ctx context.Context, id int64, name string) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE user_roles SET name = ` + r.placeholder(1) + `, updated_at = ` + r.placeholder(2) +
		` WHERE id = ` + r.placeholder(3)

	result, err := querier.ExecContext(ctx, query, name, timeNow(), id)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrRoleAlreadyExists
		}
		return apperrors.Wrap(err, "failed to rename role")
	}
	return requireRowsAffected(result, domain.ErrRoleNotFound)
}

// Delete removes a role and its grants. Returns ErrRoleInUse while users still hold the role.
func (r *RoleRepository) Delete(ctx context.Context, id int64) error {
	querier := database.GetTx(ctx, r.db)

	query := `DELETE FROM user_roles WHERE id = ` + r.placeholder(1)

	result, err := querier.ExecContext(ctx, query, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrRoleInUse
		}
		return apperrors.Wrap(err, "failed to delete role")
	}
	return requireRowsAffected(result, domain.ErrRoleNotFound)
}

// SetPermissions replaces the permissions granted to a role. It issues several statements
// and must run inside a transaction.
func (r *RoleRepository) SetPermissions(ctx context.Context, roleID int64, permissionIDs []int64) error {
	querier := database.GetTx(ctx, r.db)

	touch := `UPDATE user_roles SET updated_at = ` + r.placeholder(1) + ` WHERE id = ` + r.placeholder(2)
	result, err := querier.ExecContext(ctx, touch, timeNow(), roleID)
	if err != nil {
		return apperrors.Wrap(err, "failed to update role")
	}
	if err := requireRowsAffected(result, domain.ErrRoleNotFound); err != nil {
		return err
	}

	revoke := `DELETE FROM role_permissions WHERE role_id = ` + r.placeholder(1)
	if _, err := querier.ExecContext(ctx, revoke, roleID); err != nil {
		return apperrors.Wrap(err, "failed to clear role permissions")
	}

	grant := `INSERT INTO role_permissions (role_id, permission_id) VALUES (` + r.placeholders(1, 2) + `)`
	for _, permissionID := range permissionIDs {
		if _, err := querier.ExecContext(ctx, grant, roleID, permissionID); err != nil {
			if isForeignKeyViolation(err) {
				return domain.ErrPermissionNotFound
			}
			return apperrors.Wrap(err, "failed to grant role permission")
		}
	}

	return nil
}

// isUniqueViolation matches unique constraint errors from either driver.
func isUniqueViolation(err error) bool {
	return isPostgreSQLUniqueViolation(err) || isMySQLUniqueViolation(err)
}

// isForeignKeyViolation matches foreign key errors from either driver.
func isForeignKeyViolation(err error) bool {
	return isPostgreSQLForeignKeyViolation(err) || isMySQLForeignKeyViolation(err)
}
