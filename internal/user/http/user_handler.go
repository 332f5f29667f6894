// Package http provides HTTP handlers for user-related operations.
package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	authDomain "github.com/allisson/useradmin/internal/auth/domain"
	"github.com/allisson/useradmin/internal/gate"
	"github.com/allisson/useradmin/internal/httputil"
	"github.com/allisson/useradmin/internal/user/http/dto"
	"github.com/allisson/useradmin/internal/user/usecase"
)

// UserHandler handles user-related HTTP requests
type UserHandler struct {
	userUseCase usecase.UseCase
	logger      *slog.Logger
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userUseCase usecase.UseCase, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		userUseCase: userUseCase,
		logger:      logger,
	}
}

// GetMeHandler returns the current record of the authenticated user.
// GET /v1/users/me - Requires authentication.
func (h *UserHandler) GetMeHandler(c *gin.Context) {
	principal, ok := gate.GetPrincipal(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, authDomain.ErrMissingCredential, h.logger)
		return
	}

	user, err := h.userUseCase.Get(c.Request.Context(), principal.User.ID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserResponse(user))
}

// GetHandler returns a user by ID.
// GET /v1/users/:id - Requires the users:read capability.
func (h *UserHandler) GetHandler(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	user, err := h.userUseCase.Get(c.Request.Context(), id)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserResponse(user))
}

// UpdateRoleHandler assigns a role to a user.
// PATCH /v1/users/:id/role/:role_id - Admin only.
func (h *UserHandler) UpdateRoleHandler(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	roleID, err := parseID(c.Param("role_id"))
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	user, err := h.userUseCase.UpdateRole(c.Request.Context(), id, roleID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserResponse(user))
}

// parseID parses a positive integer path parameter.
func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("invalid id: must be a positive integer")
	}
	return id, nil
}
