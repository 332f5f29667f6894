package usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	authDomain "github.com/allisson/useradmin/internal/auth/domain"
	apperrors "github.com/allisson/useradmin/internal/errors"
)

func principalWithRole(roleID int64) *authDomain.Principal {
	return &authDomain.Principal{
		User:      authDomain.UserSnapshot{ID: 1, RoleID: roleID},
		ExpiresAt: time.Now().Add(time.Hour),
	}
}

func TestAuthorizer_Authorize(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	resolver := StaticCapabilities{
		1: {authDomain.UsersReadCapability, authDomain.UsersWriteCapability, authDomain.RolesWriteCapability},
		2: {authDomain.UsersReadCapability},
	}
	authorizer := NewAuthorizer(resolver, logger)

	tests := []struct {
		name      string
		principal *authDomain.Principal
		policy    authDomain.Policy
		expectErr error
	}{
		{"Success_AdminAllowList", principalWithRole(1), authDomain.AllowRoles(1), nil},
		{"Error_UserNotInAllowList", principalWithRole(2), authDomain.AllowRoles(1), authDomain.ErrInsufficientRole},
		{"Error_AbsentRole", principalWithRole(0), authDomain.Policy{}, authDomain.ErrInsufficientRole},
		{"Error_NilPrincipal", nil, authDomain.AllowRoles(1), authDomain.ErrInsufficientRole},
		{"Success_CapabilityAny", principalWithRole(2), authDomain.RequireAny(authDomain.UsersReadCapability), nil},
		{
			"Error_CapabilityAllMissingOne",
			principalWithRole(2),
			authDomain.RequireAll(authDomain.UsersReadCapability, authDomain.UsersWriteCapability),
			authDomain.ErrInsufficientRole,
		},
		{"Error_UnknownRoleHasNoCapabilities", principalWithRole(9), authDomain.RequireAny(authDomain.UsersReadCapability), authDomain.ErrInsufficientRole},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := authorizer.Authorize(ctx, tt.principal, tt.policy)
			if tt.expectErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.expectErr)
			assert.ErrorIs(t, err, apperrors.ErrForbidden)
		})
	}
}

func TestAuthorizer_SkipsResolverForRoleOnlyPolicy(t *testing.T) {
	resolver := &MockCapabilityResolver{}
	authorizer := NewAuthorizer(resolver, slog.New(slog.NewTextHandler(io.Discard, nil)))

	require.NoError(t, authorizer.Authorize(context.Background(), principalWithRole(1), authDomain.AllowRoles(1)))
	resolver.AssertNotCalled(t, "GetCapabilities", mock.Anything, mock.Anything)
}

func TestAuthorizer_ResolverFailureDenies(t *testing.T) {
	ctx := context.Background()
	resolver := &MockCapabilityResolver{}
	resolver.On("GetCapabilities", ctx, int64(2)).Return(nil, errors.New("db down"))
	authorizer := NewAuthorizer(resolver, slog.New(slog.NewTextHandler(io.Discard, nil)))

	err := authorizer.Authorize(ctx, principalWithRole(2), authDomain.RequireAny(authDomain.UsersReadCapability))
	assert.ErrorIs(t, err, authDomain.ErrCapabilitiesUnavailable)
	assert.Equal(t, authDomain.ReasonUnavailable, authDomain.ReasonOf(err))
}

func TestCachedCapabilityResolver(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_LoadsOncePerRole", func(t *testing.T) {
		next := &MockCapabilityResolver{}
		next.On("GetCapabilities", ctx, int64(2)).
			Return([]authDomain.Capability{authDomain.UsersReadCapability}, nil).Once()
		resolver := NewCachedCapabilityResolver(next, time.Minute)

		for range 3 {
			caps, err := resolver.GetCapabilities(ctx, 2)
			require.NoError(t, err)
			assert.Equal(t, []authDomain.Capability{authDomain.UsersReadCapability}, caps)
		}
		next.AssertNumberOfCalls(t, "GetCapabilities", 1)
	})

	t.Run("Success_InvalidateReloads", func(t *testing.T) {
		next := &MockCapabilityResolver{}
		next.On("GetCapabilities", ctx, int64(2)).Return([]authDomain.Capability{}, nil)
		resolver := NewCachedCapabilityResolver(next, time.Minute)

		_, err := resolver.GetCapabilities(ctx, 2)
		require.NoError(t, err)
		resolver.Invalidate(2)
		_, err = resolver.GetCapabilities(ctx, 2)
		require.NoError(t, err)
		next.AssertNumberOfCalls(t, "GetCapabilities", 2)
	})

	t.Run("Success_InvalidateAllReloadsEveryRole", func(t *testing.T) {
		next := &MockCapabilityResolver{}
		next.On("GetCapabilities", ctx, int64(1)).Return([]authDomain.Capability{}, nil)
		next.On("GetCapabilities", ctx, int64(2)).Return([]authDomain.Capability{}, nil)
		resolver := NewCachedCapabilityResolver(next, time.Minute)

		for _, roleID := range []int64{1, 2} {
			_, err := resolver.GetCapabilities(ctx, roleID)
			require.NoError(t, err)
		}
		resolver.InvalidateAll()
		for _, roleID := range []int64{1, 2} {
			_, err := resolver.GetCapabilities(ctx, roleID)
			require.NoError(t, err)
		}
		next.AssertNumberOfCalls(t, "GetCapabilities", 4)
	})

	t.Run("Error_NotCached", func(t *testing.T) {
		next := &MockCapabilityResolver{}
		next.On("GetCapabilities", ctx, int64(2)).Return(nil, errors.New("db down"))
		resolver := NewCachedCapabilityResolver(next, time.Minute)

		_, err := resolver.GetCapabilities(ctx, 2)
		assert.Error(t, err)
		_, err = resolver.GetCapabilities(ctx, 2)
		assert.Error(t, err)
		next.AssertNumberOfCalls(t, "GetCapabilities", 2)
	})
}
