// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	validation "github.com/jellydator/validation"

	customValidation "github.com/allisson/useradmin/internal/validation"
)

// LoginRequest contains the credentials presented at login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"` //nolint:gosec // request payload
}

// Validate checks if the login request is valid.
func (r *LoginRequest) Validate() error {
	err := validation.ValidateStruct(r,
		validation.Field(&r.Email,
			validation.Required.Error("email is required"),
			customValidation.NotBlank,
		),
		validation.Field(&r.Password,
			validation.Required.Error("password is required"),
		),
	)
	return customValidation.WrapValidationError(err)
}

// VerifySignUpRequest carries the code mailed at sign-up.
type VerifySignUpRequest struct {
	Email            string `json:"email"`
	VerificationCode string `json:"verification_code"`
}

// Validate checks if the verification request is valid.
func (r *VerifySignUpRequest) Validate() error {
	err := validation.ValidateStruct(r,
		validation.Field(&r.Email,
			validation.Required.Error("email is required"),
			customValidation.NotBlank,
		),
		validation.Field(&r.VerificationCode,
			validation.Required.Error("verification code is required"),
			customValidation.NoWhitespace,
		),
	)
	return customValidation.WrapValidationError(err)
}
