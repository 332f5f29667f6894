// Package dto provides data transfer objects for the user HTTP layer.
package dto

import (
	validation "github.com/jellydator/validation"

	appValidation "github.com/allisson/useradmin/internal/validation"
)

// RegisterUserRequest represents the API request for user registration
type RegisterUserRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Password  string `json:"password"` //nolint:gosec // request payload
}

// Validate checks the request shape. Password strength is enforced by the use case.
func (r *RegisterUserRequest) Validate() error {
	err := validation.ValidateStruct(r,
		validation.Field(&r.FirstName,
			validation.Required.Error("first name is required"),
			appValidation.NotBlank,
		),
		validation.Field(&r.Email,
			validation.Required.Error("email is required"),
			appValidation.Email,
		),
		validation.Field(&r.Password,
			validation.Required.Error("password is required"),
		),
	)
	return appValidation.WrapValidationError(err)
}

// ChangePasswordRequest represents the API request for changing the caller's password
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password"` //nolint:gosec // request payload
	NewPassword string `json:"new_password"` //nolint:gosec // request payload
}

// Validate checks that both passwords are present and differ.
func (r *ChangePasswordRequest) Validate() error {
	err := validation.ValidateStruct(r,
		validation.Field(&r.OldPassword, validation.Required.Error("old password is required")),
		validation.Field(&r.NewPassword,
			validation.Required.Error("new password is required"),
			validation.NotIn(r.OldPassword).Error("new password must differ from the old password"),
		),
	)
	return appValidation.WrapValidationError(err)
}

// RoleRequest represents the API request for creating or renaming a role
type RoleRequest struct {
	Name string `json:"name"`
}

// Validate checks the role name.
func (r *RoleRequest) Validate() error {
	err := validation.ValidateStruct(r,
		validation.Field(&r.Name,
			validation.Required.Error("name is required"),
			appValidation.NoWhitespace,
		),
	)
	return appValidation.WrapValidationError(err)
}

// SetRolePermissionsRequest replaces the permissions of a role. An empty list revokes all of them.
type SetRolePermissionsRequest struct {
	PermissionIDs []int64 `json:"permission_ids"`
}

// Validate checks that the permission list is present.
func (r *SetRolePermissionsRequest) Validate() error {
	err := validation.ValidateStruct(r,
		validation.Field(&r.PermissionIDs, validation.NotNil.Error("permission ids are required")),
	)
	return appValidation.WrapValidationError(err)
}

// PermissionRequest represents the API request for creating or renaming a permission
type PermissionRequest struct {
	Name string `json:"name"`
}

// Validate checks the permission name.
func (r *PermissionRequest) Validate() error {
	err := validation.ValidateStruct(r,
		validation.Field(&r.Name,
			validation.Required.Error("name is required"),
			appValidation.NoWhitespace,
		),
	)
	return appValidation.WrapValidationError(err)
}
