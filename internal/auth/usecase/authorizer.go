package usecase

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/patrickmn/go-cache"

	authDomain "github.com/allisson/useradmin/internal/auth/domain"
	apperrors "github.com/allisson/useradmin/internal/errors"
)

// authorizer implements Authorizer over a CapabilityResolver.
type authorizer struct {
	resolver CapabilityResolver
	logger   *slog.Logger
}

// NewAuthorizer creates an Authorizer. Capabilities are resolved only for policies that require them.
func NewAuthorizer(resolver CapabilityResolver, logger *slog.Logger) Authorizer {
	return &authorizer{
		resolver: resolver,
		logger:   logger,
	}
}

// Authorize evaluates policy for principal.
func (a *authorizer) Authorize(
	ctx context.Context,
	principal *authDomain.Principal,
	policy authDomain.Policy,
) error {
	if principal == nil || principal.User.RoleID <= 0 {
		return authDomain.ErrInsufficientRole
	}

	var granted []authDomain.Capability
	if policy.NeedsCapabilities() {
		caps, err := a.resolver.GetCapabilities(ctx, principal.User.RoleID)
		if err != nil {
			a.logger.Error("failed to resolve role capabilities",
				slog.Int64("role_id", principal.User.RoleID),
				slog.Any("error", err))
			return apperrors.Wrap(authDomain.ErrCapabilitiesUnavailable, err.Error())
		}
		granted = caps
	}

	if !policy.Allows(principal, granted) {
		return authDomain.ErrInsufficientRole
	}
	return nil
}

// CachedCapabilityResolver memoizes a CapabilityResolver per role for a fixed TTL.
type CachedCapabilityResolver struct {
	next  CapabilityResolver
	cache *cache.Cache
}

// NewCachedCapabilityResolver wraps next with an in-process cache.
func NewCachedCapabilityResolver(next CapabilityResolver, ttl time.Duration) *CachedCapabilityResolver {
	return &CachedCapabilityResolver{
		next:  next,
		cache: cache.New(ttl, 2*ttl),
	}
}

// GetCapabilities returns the cached set for roleID, loading it on a miss. Errors are not cached.
func (r *CachedCapabilityResolver) GetCapabilities(
	ctx context.Context,
	roleID int64,
) ([]authDomain.Capability, error) {
	key := strconv.FormatInt(roleID, 10)
	if cached, found := r.cache.Get(key); found {
		return cached.([]authDomain.Capability), nil
	}

	caps, err := r.next.GetCapabilities(ctx, roleID)
	if err != nil {
		return nil, err
	}

	r.cache.SetDefault(key, caps)
	return caps, nil
}

// Invalidate drops the cached set for roleID.
func (r *CachedCapabilityResolver) Invalidate(roleID int64) {
	r.cache.Delete(strconv.FormatInt(roleID, 10))
}

// InvalidateAll drops every cached set.
func (r *CachedCapabilityResolver) InvalidateAll() {
	r.cache.Flush()
}

// StaticCapabilities is a fixed role to capability mapping.
type StaticCapabilities map[int64][]authDomain.Capability

// GetCapabilities returns the capabilities listed for roleID.
func (s StaticCapabilities) GetCapabilities(_ context.Context, roleID int64) ([]authDomain.Capability, error) {
	return s[roleID], nil
}
