package dto

import (
	"github.com/allisson/useradmin/internal/user/domain"
	"github.com/allisson/useradmin/internal/user/usecase"
)

// ToRegisterUserInput converts a RegisterUserRequest DTO to a RegisterUserInput use case input
func ToRegisterUserInput(req RegisterUserRequest) usecase.RegisterUserInput {
	return usecase.RegisterUserInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
	}
}

// ToChangePasswordInput converts a ChangePasswordRequest DTO to a use case input
func ToChangePasswordInput(req ChangePasswordRequest) usecase.ChangePasswordInput {
	return usecase.ChangePasswordInput{
		OldPassword: req.OldPassword,
		NewPassword: req.NewPassword,
	}
}

// ToUserResponse converts a domain User model to a UserResponse DTO
// This enforces the boundary between internal domain models and external API contracts
func ToUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Email:     user.Email,
		Status:    int(user.Status),
		RoleID:    user.RoleID,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

// ToRoleInput converts a RoleRequest DTO to a use case input
func ToRoleInput(req RoleRequest) usecase.RoleInput {
	return usecase.RoleInput{Name: req.Name}
}

// ToPermissionInput converts a PermissionRequest DTO to a use case input
func ToPermissionInput(req PermissionRequest) usecase.PermissionInput {
	return usecase.PermissionInput{Name: req.Name}
}

// ToRoleResponse converts a domain Role to a RoleResponse DTO
func ToRoleResponse(role *domain.Role) RoleResponse {
	capabilities := make([]string, 0, len(role.Capabilities))
	for _, capability := range role.Capabilities {
		capabilities = append(capabilities, string(capability))
	}
	return RoleResponse{
		ID:           role.ID,
		Name:         role.Name,
		Capabilities: capabilities,
		CreatedAt:    role.CreatedAt,
		UpdatedAt:    role.UpdatedAt,
	}
}

// ToRoleListResponse converts a slice of roles to a RoleListResponse DTO
func ToRoleListResponse(roles []*domain.Role) RoleListResponse {
	response := RoleListResponse{Roles: make([]RoleResponse, 0, len(roles))}
	for _, role := range roles {
		response.Roles = append(response.Roles, ToRoleResponse(role))
	}
	return response
}

// ToPermissionResponse converts a domain Permission to a PermissionResponse DTO
func ToPermissionResponse(permission *domain.Permission) PermissionResponse {
	return PermissionResponse{
		ID:        permission.ID,
		Name:      permission.Name,
		CreatedAt: permission.CreatedAt,
	}
}

// ToPermissionListResponse converts a PermissionPage to a PermissionListResponse DTO
func ToPermissionListResponse(page *usecase.PermissionPage) PermissionListResponse {
	response := PermissionListResponse{
		Permissions: make([]PermissionResponse, 0, len(page.Permissions)),
		TotalCount:  page.TotalCount,
		PageNum:     page.PageNum,
		PageSize:    page.PageSize,
	}
	for _, permission := range page.Permissions {
		response.Permissions = append(response.Permissions, ToPermissionResponse(permission))
	}
	return response
}
