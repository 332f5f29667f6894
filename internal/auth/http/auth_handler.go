package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	authDomain "github.com/allisson/useradmin/internal/auth/domain"
	"github.com/allisson/useradmin/internal/auth/http/dto"
	authUseCase "github.com/allisson/useradmin/internal/auth/usecase"
	"github.com/allisson/useradmin/internal/gate"
	"github.com/allisson/useradmin/internal/httputil"
	userDTO "github.com/allisson/useradmin/internal/user/http/dto"
	userUseCase "github.com/allisson/useradmin/internal/user/usecase"
)

// AuthHandler handles sign-up, verification, login, logout and password change requests.
type AuthHandler struct {
	userUseCase         userUseCase.UseCase
	verificationUseCase userUseCase.VerificationUseCase
	authenticator       authUseCase.Authenticator
	logger              *slog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(
	userUseCase userUseCase.UseCase,
	verificationUseCase userUseCase.VerificationUseCase,
	authenticator authUseCase.Authenticator,
	logger *slog.Logger,
) *AuthHandler {
	return &AuthHandler{
		userUseCase:         userUseCase,
		verificationUseCase: verificationUseCase,
		authenticator:       authenticator,
		logger:              logger,
	}
}

// SignUpHandler registers a user, sends it a verification code and returns it together with a token.
// POST /v1/auth/sign-up - No authentication required.
//
// A failed code delivery is logged and does not fail the sign-up.
func (h *AuthHandler) SignUpHandler(c *gin.Context) {
	var req userDTO.RegisterUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	user, err := h.userUseCase.Register(c.Request.Context(), userDTO.ToRegisterUserInput(req))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	if err := h.verificationUseCase.Issue(c.Request.Context(), user); err != nil {
		h.logger.Error("verification code delivery failed",
			slog.Int64("user_id", user.ID),
			slog.Any("error", err))
	}

	output, err := h.authenticator.Mint(c.Request.Context(), user.Snapshot())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.SignUpResponse{
		User:      userDTO.ToUserResponse(user),
		Token:     output.Token,
		ExpiresAt: output.ExpiresAt,
	})
}

// VerifySignUpHandler confirms a user's email address with the code sent at sign-up.
// POST /v1/auth/sign-up/verify - No authentication required.
func (h *AuthHandler) VerifySignUpHandler(c *gin.Context) {
	var req dto.VerifySignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	user, err := h.verificationUseCase.Verify(c.Request.Context(), userUseCase.VerifyUserInput{
		Email: req.Email,
		Code:  req.VerificationCode,
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, userDTO.ToUserResponse(user))
}

// LoginHandler exchanges an email and password for a token.
// POST /v1/auth/login - No authentication required.
//
// Unknown emails and wrong passwords both answer 401.
func (h *AuthHandler) LoginHandler(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	output, err := h.authenticator.Issue(c.Request.Context(), &authDomain.IssueTokenInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.TokenResponse{
		Token:     output.Token,
		ExpiresAt: output.ExpiresAt,
	})
}

// LogoutHandler revokes the token the request authenticated with.
// POST /v1/auth/logout - Requires authentication.
//
// The response reports success even when the revocation write fails; the failure is logged.
func (h *AuthHandler) LogoutHandler(c *gin.Context) {
	principal, ok := gate.GetPrincipal(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, authDomain.ErrMissingCredential, h.logger)
		return
	}

	if err := h.authenticator.Revoke(c.Request.Context(), principal); err != nil {
		h.logger.Error("logout revocation failed",
			slog.Int64("user_id", principal.User.ID),
			slog.Any("error", err))
	}

	c.JSON(http.StatusOK, dto.LogoutResponse{Success: true})
}

// ChangePasswordHandler changes the caller's password, revokes the presented token and
// returns a new one.
// POST /v1/auth/password - Requires authentication.
func (h *AuthHandler) ChangePasswordHandler(c *gin.Context) {
	principal, ok := gate.GetPrincipal(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, authDomain.ErrMissingCredential, h.logger)
		return
	}

	var req userDTO.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	user, err := h.userUseCase.ChangePassword(
		c.Request.Context(),
		principal.User.ID,
		userDTO.ToChangePasswordInput(req),
	)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	if err := h.authenticator.Revoke(c.Request.Context(), principal); err != nil {
		h.logger.Error("password change revocation failed",
			slog.Int64("user_id", principal.User.ID),
			slog.Any("error", err))
	}

	output, err := h.authenticator.Mint(c.Request.Context(), user.Snapshot())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.TokenResponse{
		Token:     output.Token,
		ExpiresAt: output.ExpiresAt,
	})
}
