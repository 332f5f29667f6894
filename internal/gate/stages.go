package gate

import (
	"context"
	"strings"

	authDomain "github.com/allisson/useradmin/internal/auth/domain"
	authUseCase "github.com/allisson/useradmin/internal/auth/usecase"
	apperrors "github.com/allisson/useradmin/internal/errors"
	"github.com/allisson/useradmin/internal/ratelimit"
)

// Stage names used in decisions, logs and metrics.
const (
	RateLimitStageName    = "rate_limit"
	AuthenticateStageName = "authenticate"
	AuthorizeStageName    = "authorize"
)

// RateLimit returns a stage admitting requests according to limiter, keyed by client ID.
// A limiter error rejects the request.
func RateLimit(limiter ratelimit.Limiter) Stage {
	return &rateLimitStage{limiter: limiter}
}

type rateLimitStage struct {
	limiter ratelimit.Limiter
}

func (s *rateLimitStage) Name() string { return RateLimitStageName }

func (s *rateLimitStage) Evaluate(ctx context.Context, req Request, _ *authDomain.Principal) Decision {
	result, err := s.limiter.Allow(ctx, req.ClientID)
	if err != nil {
		return Decision{Err: apperrors.Wrap(authDomain.ErrRateLimiterUnavailable, err.Error())}
	}
	if !result.Allowed {
		return Decision{Err: authDomain.ErrRateLimited, RetryAfter: result.RetryAfter}
	}
	return Decision{}
}

// Authenticate returns a stage resolving the bearer credential into a principal.
func Authenticate(authenticator authUseCase.Authenticator) Stage {
	return &authenticateStage{authenticator: authenticator}
}

type authenticateStage struct {
	authenticator authUseCase.Authenticator
}

func (s *authenticateStage) Name() string { return AuthenticateStageName }

func (s *authenticateStage) Evaluate(ctx context.Context, req Request, _ *authDomain.Principal) Decision {
	token, err := BearerToken(req.Authorization)
	if err != nil {
		return Decision{Err: err}
	}

	principal, err := s.authenticator.Authenticate(ctx, token)
	if err != nil {
		return Decision{Err: err}
	}
	return Decision{Principal: principal}
}

// Authorize returns a stage checking the authenticated principal against policy.
// It must run after Authenticate; without a principal the request is rejected as unauthenticated.
func Authorize(authorizer authUseCase.Authorizer, policy authDomain.Policy) Stage {
	return &authorizeStage{authorizer: authorizer, policy: policy}
}

type authorizeStage struct {
	authorizer authUseCase.Authorizer
	policy     authDomain.Policy
}

func (s *authorizeStage) Name() string { return AuthorizeStageName }

func (s *authorizeStage) Evaluate(
	ctx context.Context,
	_ Request,
	principal *authDomain.Principal,
) Decision {
	if principal == nil {
		return Decision{Err: authDomain.ErrMissingCredential}
	}
	if err := s.authorizer.Authorize(ctx, principal, s.policy); err != nil {
		return Decision{Err: err}
	}
	return Decision{}
}

// BearerToken extracts the token from an Authorization header value.
// The scheme is matched case-insensitively; a missing header, another scheme or an empty token
// returns ErrMissingCredential.
func BearerToken(header string) (string, error) {
	const bearerPrefix = "bearer "
	if len(header) < len(bearerPrefix) || !strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
		return "", authDomain.ErrMissingCredential
	}

	token := strings.TrimSpace(header[len(bearerPrefix):])
	if token == "" {
		return "", authDomain.ErrMissingCredential
	}
	return token, nil
}
