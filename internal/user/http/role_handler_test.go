package http

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	authDomain "github.com/allisson/useradmin/internal/auth/domain"
	"github.com/allisson/useradmin/internal/user/domain"
	"github.com/allisson/useradmin/internal/user/http/dto"
	"github.com/allisson/useradmin/internal/user/usecase"
)

// MockRoleUseCase is a mock implementation of usecase.RoleUseCase
type MockRoleUseCase struct {
	mock.Mock
}

func (m *MockRoleUseCase) List(ctx context.Context) ([]*domain.Role, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Role), args.Error(1)
}

func (m *MockRoleUseCase) Get(ctx context.Context, id int64) (*domain.Role, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Role), args.Error(1)
}

func (m *MockRoleUseCase) Create(ctx context.Context, input usecase.RoleInput) (*domain.Role, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Role), args.Error(1)
}

func (m *MockRoleUseCase) Rename(ctx context.Context, id int64, input usecase.RoleInput) (*domain.Role, error) {
	args := m.Called(ctx, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Role), args.Error(1)
}

func (m *MockRoleUseCase) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRoleUseCase) SetPermissions(ctx context.Context, id int64, permissionIDs []int64) (*domain.Role, error) {
	args := m.Called(ctx, id, permissionIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Role), args.Error(1)
}

func setupRoleRouter(t *testing.T) (*gin.Engine, *MockRoleUseCase) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	uc := &MockRoleUseCase{}
	handler := NewRoleHandler(uc, slog.New(slog.NewTextHandler(io.Discard, nil)))

	router := gin.New()
	router.GET("/v1/roles", handler.ListHandler)
	router.POST("/v1/roles", handler.CreateHandler)
	router.GET("/v1/roles/:id", handler.GetHandler)
	router.PUT("/v1/roles/:id", handler.UpdateHandler)
	router.DELETE("/v1/roles/:id", handler.DeleteHandler)
	router.PUT("/v1/roles/:id/permissions", handler.SetPermissionsHandler)
	return router, uc
}

func serveJSON(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRoleHandler_ListHandler(t *testing.T) {
	router, uc := setupRoleRouter(t)
	uc.On("List", mock.Anything).Return([]*domain.Role{
		{ID: 1, Name: "admin", Capabilities: []authDomain.Capability{authDomain.RolesWriteCapability}},
		{ID: 3, Name: "guest"},
	}, nil)

	w := serveJSON(router, http.MethodGet, "/v1/roles", "")

	assert.Equal(t, http.StatusOK, w.Code)
	var resp dto.RoleListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Roles, 2)
	assert.Equal(t, []string{"roles:write"}, resp.Roles[0].Capabilities)
	assert.Equal(t, []string{}, resp.Roles[1].Capabilities)
}

func TestRoleHandler_CreateHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		router, uc := setupRoleRouter(t)
		uc.On("Create", mock.Anything, usecase.RoleInput{Name: "auditor"}).
			Return(&domain.Role{ID: 4, Name: "auditor"}, nil)

		w := serveJSON(router, http.MethodPost, "/v1/roles", `{"name":"auditor"}`)

		assert.Equal(t, http.StatusCreated, w.Code)
		var resp dto.RoleResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, int64(4), resp.ID)
	})

	t.Run("Error_PaddedName", func(t *testing.T) {
		router, uc := setupRoleRouter(t)

		w := serveJSON(router, http.MethodPost, "/v1/roles", `{"name":"auditor "}`)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		uc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Error_Duplicate", func(t *testing.T) {
		router, uc := setupRoleRouter(t)
		uc.On("Create", mock.Anything, mock.Anything).Return(nil, domain.ErrRoleAlreadyExists)

		w := serveJSON(router, http.MethodPost, "/v1/roles", `{"name":"admin"}`)
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("Error_MalformedJSON", func(t *testing.T) {
		router, _ := setupRoleRouter(t)

		w := serveJSON(router, http.MethodPost, "/v1/roles", `{"name":`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestRoleHandler_UpdateHandler(t *testing.T) {
	router, uc := setupRoleRouter(t)
	uc.On("Rename", mock.Anything, int64(4), usecase.RoleInput{Name: "auditors"}).
		Return(&domain.Role{ID: 4, Name: "auditors"}, nil)

	w := serveJSON(router, http.MethodPut, "/v1/roles/4", `{"name":"auditors"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"name":"auditors"`)
}

func TestRoleHandler_DeleteHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		router, uc := setupRoleRouter(t)
		uc.On("Delete", mock.Anything, int64(4)).Return(nil)

		w := serveJSON(router, http.MethodDelete, "/v1/roles/4", "")
		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("Error_Protected", func(t *testing.T) {
		router, uc := setupRoleRouter(t)
		uc.On("Delete", mock.Anything, domain.AdminRoleID).Return(domain.ErrRoleProtected)

		w := serveJSON(router, http.MethodDelete, "/v1/roles/1", "")
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("Error_InvalidID", func(t *testing.T) {
		router, _ := setupRoleRouter(t)

		w := serveJSON(router, http.MethodDelete, "/v1/roles/x", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestRoleHandler_SetPermissionsHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		router, uc := setupRoleRouter(t)
		uc.On("SetPermissions", mock.Anything, domain.GuestRoleID, []int64{1}).Return(&domain.Role{
			ID:           domain.GuestRoleID,
			Name:         "guest",
			Capabilities: []authDomain.Capability{authDomain.UsersReadCapability},
		}, nil)

		w := serveJSON(router, http.MethodPut, "/v1/roles/3/permissions", `{"permission_ids":[1]}`)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"capabilities":["users:read"]`)
	})

	t.Run("Error_MissingList", func(t *testing.T) {
		router, uc := setupRoleRouter(t)

		w := serveJSON(router, http.MethodPut, "/v1/roles/3/permissions", `{}`)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		uc.AssertNotCalled(t, "SetPermissions", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Error_UnknownPermission", func(t *testing.T) {
		router, uc := setupRoleRouter(t)
		uc.On("SetPermissions", mock.Anything, domain.GuestRoleID, []int64{99}).
			Return(nil, domain.ErrPermissionNotFound)

		w := serveJSON(router, http.MethodPut, "/v1/roles/3/permissions", `{"permission_ids":[99]}`)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
