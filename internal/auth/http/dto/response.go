package dto

import (
	"time"

	userDTO "github.com/allisson/useradmin/internal/user/http/dto"
)

// TokenResponse contains a freshly minted token.
// SECURITY: The token is only returned once and must be saved securely.
type TokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// SignUpResponse contains the created user and a token for it.
type SignUpResponse struct {
	User      userDTO.UserResponse `json:"user"`
	Token     string               `json:"token"`
	ExpiresAt time.Time            `json:"expires_at"`
}

// LogoutResponse reports the outcome of a logout.
type LogoutResponse struct {
	Success bool `json:"success"`
}
