package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/allisson/useradmin/internal/httputil"
	"github.com/allisson/useradmin/internal/user/http/dto"
	"github.com/allisson/useradmin/internal/user/usecase"
)

const defaultPermissionPageSize = 20

// PermissionHandler handles permission catalog requests. Every route is admin only.
type PermissionHandler struct {
	permissionUseCase usecase.PermissionUseCase
	logger            *slog.Logger
}

// NewPermissionHandler creates a new PermissionHandler
func NewPermissionHandler(permissionUseCase usecase.PermissionUseCase, logger *slog.Logger) *PermissionHandler {
	return &PermissionHandler{
		permissionUseCase: permissionUseCase,
		logger:            logger,
	}
}

// ListHandler returns a page of permissions.
// GET /v1/permissions?page_num=1&page_size=20
func (h *PermissionHandler) ListHandler(c *gin.Context) {
	pageNum, err := parseQueryInt(c, "page_num", 1)
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	pageSize, err := parseQueryInt(c, "page_size", defaultPermissionPageSize)
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	page, err := h.permissionUseCase.List(c.Request.Context(), pageNum, pageSize)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.ToPermissionListResponse(page))
}

// CreateHandler adds a permission to the catalog.
// POST /v1/permissions
func (h *PermissionHandler) CreateHandler(c *gin.Context) {
	var req dto.PermissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	permission, err := h.permissionUseCase.Create(c.Request.Context(), dto.ToPermissionInput(req))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.ToPermissionResponse(permission))
}

// GetHandler returns a permission by ID.
// GET /v1/permissions/:id
func (h *PermissionHandler) GetHandler(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	permission, err := h.permissionUseCase.Get(c.Request.Context(), id)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.ToPermissionResponse(permission))
}

// UpdateHandler renames a permission.
// PUT /v1/permissions/:id
func (h *PermissionHandler) UpdateHandler(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	var req dto.PermissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	permission, err := h.permissionUseCase.Rename(c.Request.Context(), id, dto.ToPermissionInput(req))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.ToPermissionResponse(permission))
}

// DeleteHandler removes a permission and revokes it from every role.
// DELETE /v1/permissions/:id
func (h *PermissionHandler) DeleteHandler(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := h.permissionUseCase.Delete(c.Request.Context(), id); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Status(http.StatusNoContent)
}

// parseQueryInt reads an optional integer query parameter.
func parseQueryInt(c *gin.Context, key string, fallback int) (int, error) {
	raw, ok := c.GetQuery(key)
	if !ok {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.New("invalid " + key + ": must be an integer")
	}
	return value, nil
}
