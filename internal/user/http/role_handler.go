package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/allisson/useradmin/internal/httputil"
	"github.com/allisson/useradmin/internal/user/http/dto"
	"github.com/allisson/useradmin/internal/user/usecase"
)

// RoleHandler handles role management requests. Every route is admin only.
type RoleHandler struct {
	roleUseCase usecase.RoleUseCase
	logger      *slog.Logger
}

// NewRoleHandler creates a new RoleHandler
func NewRoleHandler(roleUseCase usecase.RoleUseCase, logger *slog.Logger) *RoleHandler {
	return &RoleHandler{
		roleUseCase: roleUseCase,
		logger:      logger,
	}
}

// ListHandler returns every role.
// GET /v1/roles
func (h *RoleHandler) ListHandler(c *gin.Context) {
	roles, err := h.roleUseCase.List(c.Request.Context())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.ToRoleListResponse(roles))
}

// CreateHandler creates a role without permissions.
// POST /v1/roles
func (h *RoleHandler) CreateHandler(c *gin.Context) {
	var req dto.RoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	role, err := h.roleUseCase.Create(c.Request.Context(), dto.ToRoleInput(req))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.ToRoleResponse(role))
}

// GetHandler returns a role with its capabilities.
// GET /v1/roles/:id
func (h *RoleHandler) GetHandler(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	role, err := h.roleUseCase.Get(c.Request.Context(), id)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.ToRoleResponse(role))
}

// UpdateHandler renames a role.
// PUT /v1/roles/:id
func (h *RoleHandler) UpdateHandler(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	var req dto.RoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	role, err := h.roleUseCase.Rename(c.Request.Context(), id, dto.ToRoleInput(req))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.ToRoleResponse(role))
}

// DeleteHandler removes a role.
// DELETE /v1/roles/:id
func (h *RoleHandler) DeleteHandler(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := h.roleUseCase.Delete(c.Request.Context(), id); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Status(http.StatusNoContent)
}

// SetPermissionsHandler replaces the permissions granted to a role.
// PUT /v1/roles/:id/permissions
func (h *RoleHandler) SetPermissionsHandler(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	var req dto.SetRolePermissionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	role, err := h.roleUseCase.SetPermissions(c.Request.Context(), id, req.PermissionIDs)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.ToRoleResponse(role))
}
