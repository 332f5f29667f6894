package dto

import (
	"time"
)

// UserResponse represents a user in API responses (excludes the password hash).
type UserResponse struct {
	ID        int64     `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	Status    int       `json:"status"`
	RoleID    int64     `json:"role_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RoleResponse represents a role and the capabilities it grants.
type RoleResponse struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Capabilities []string  `json:"capabilities"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// RoleListResponse wraps the role listing.
type RoleListResponse struct {
	Roles []RoleResponse `json:"roles"`
}

// PermissionResponse represents a permission in API responses.
type PermissionResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// PermissionListResponse is one page of the permission catalog.
type PermissionListResponse struct {
	Permissions []PermissionResponse `json:"permissions"`
	TotalCount  int64                `json:"total_count"`
	PageNum     int                  `json:"page_num"`
	PageSize    int                  `json:"page_size"`
}
