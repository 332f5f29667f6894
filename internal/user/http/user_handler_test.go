package http

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	authDomain "github.com/allisson/useradmin/internal/auth/domain"
	"github.com/allisson/useradmin/internal/gate"
	"github.com/allisson/useradmin/internal/user/domain"
	"github.com/allisson/useradmin/internal/user/http/dto"
	"github.com/allisson/useradmin/internal/user/usecase"
)

// MockUserUseCase is a mock implementation of usecase.UseCase
type MockUserUseCase struct {
	mock.Mock
}

func (m *MockUserUseCase) Register(ctx context.Context, input usecase.RegisterUserInput) (*domain.User, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserUseCase) Get(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserUseCase) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserUseCase) ChangePassword(
	ctx context.Context,
	id int64,
	input usecase.ChangePasswordInput,
) (*domain.User, error) {
	args := m.Called(ctx, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserUseCase) UpdateRole(ctx context.Context, id int64, roleID int64) (*domain.User, error) {
	args := m.Called(ctx, id, roleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func setupTestHandler(t *testing.T) (*UserHandler, *MockUserUseCase) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	uc := &MockUserUseCase{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewUserHandler(uc, logger), uc
}

// withPrincipal installs a principal the way the gate middleware does.
func withPrincipal(userID int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal := &authDomain.Principal{User: authDomain.UserSnapshot{ID: userID, RoleID: domain.UserRoleID}}
		c.Request = c.Request.WithContext(gate.WithPrincipal(c.Request.Context(), principal))
		c.Next()
	}
}

func TestUserHandler_GetMeHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		handler, uc := setupTestHandler(t)
		uc.On("Get", mock.Anything, int64(4)).Return(&domain.User{ID: 4, Email: "jane@example.com"}, nil)

		router := gin.New()
		router.GET("/v1/users/me", withPrincipal(4), handler.GetMeHandler)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/users/me", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		var resp dto.UserResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, int64(4), resp.ID)
		assert.NotContains(t, w.Body.String(), "password")
	})

	t.Run("Error_NoPrincipal", func(t *testing.T) {
		handler, _ := setupTestHandler(t)

		router := gin.New()
		router.GET("/v1/users/me", handler.GetMeHandler)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/users/me", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestUserHandler_GetHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		handler, uc := setupTestHandler(t)
		uc.On("Get", mock.Anything, int64(9)).Return(&domain.User{ID: 9}, nil)

		router := gin.New()
		router.GET("/v1/users/:id", handler.GetHandler)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/users/9", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Error_NotFound", func(t *testing.T) {
		handler, uc := setupTestHandler(t)
		uc.On("Get", mock.Anything, int64(9)).Return(nil, domain.ErrUserNotFound)

		router := gin.New()
		router.GET("/v1/users/:id", handler.GetHandler)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/users/9", nil))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Error_InvalidID", func(t *testing.T) {
		handler, _ := setupTestHandler(t)

		router := gin.New()
		router.GET("/v1/users/:id", handler.GetHandler)

		for _, path := range []string{"/v1/users/abc", "/v1/users/0", "/v1/users/-3"} {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
			assert.Equal(t, http.StatusBadRequest, w.Code, path)
		}
	})
}

func TestUserHandler_UpdateRoleHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		handler, uc := setupTestHandler(t)
		uc.On("UpdateRole", mock.Anything, int64(9), domain.AdminRoleID).
			Return(&domain.User{ID: 9, RoleID: domain.AdminRoleID}, nil)

		router := gin.New()
		router.PATCH("/v1/users/:id/role/:role_id", handler.UpdateRoleHandler)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPatch, "/v1/users/9/role/1", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		var resp dto.UserResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, domain.AdminRoleID, resp.RoleID)
	})

	t.Run("Error_RoleNotFound", func(t *testing.T) {
		handler, uc := setupTestHandler(t)
		uc.On("UpdateRole", mock.Anything, int64(9), int64(42)).Return(nil, domain.ErrRoleNotFound)

		router := gin.New()
		router.PATCH("/v1/users/:id/role/:role_id", handler.UpdateRoleHandler)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPatch, "/v1/users/9/role/42", nil))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Error_InvalidRoleID", func(t *testing.T) {
		handler, _ := setupTestHandler(t)

		router := gin.New()
		router.PATCH("/v1/users/:id/role/:role_id", handler.UpdateRoleHandler)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPatch, "/v1/users/9/role/admin", nil))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
