package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	authDomain "github.com/allisson/useradmin/internal/auth/domain"
	authService "github.com/allisson/useradmin/internal/auth/service"
	"github.com/allisson/useradmin/internal/config"
	apperrors "github.com/allisson/useradmin/internal/errors"
	"github.com/allisson/useradmin/internal/revocation"
	userDomain "github.com/allisson/useradmin/internal/user/domain"
)

// Option configures an Authenticator.
type Option func(*authenticator)

// WithClock replaces the wall clock used for minting and expiry checks.
func WithClock(clock func() time.Time) Option {
	return func(a *authenticator) {
		a.now = clock
	}
}

// authenticator implements Authenticator with a stateless token codec and a revocation store.
type authenticator struct {
	tokenExpiration   time.Duration
	revocationTimeout time.Duration
	userFinder        UserFinder
	passwordService   authService.PasswordService
	codec             authService.TokenCodec
	tokenService      authService.TokenService
	store             revocation.Store
	logger            *slog.Logger
	now               func() time.Time
}

// NewAuthenticator creates an Authenticator using the token lifetime and revocation lookup
// timeout from cfg.
func NewAuthenticator(
	cfg *config.Config,
	userFinder UserFinder,
	passwordService authService.PasswordService,
	codec authService.TokenCodec,
	tokenService authService.TokenService,
	store revocation.Store,
	logger *slog.Logger,
	opts ...Option,
) Authenticator {
	a := &authenticator{
		tokenExpiration:   cfg.AuthTokenExpiration,
		revocationTimeout: cfg.RevocationLookupTimeout,
		userFinder:        userFinder,
		passwordService:   passwordService,
		codec:             codec,
		tokenService:      tokenService,
		store:             store,
		logger:            logger,
		now:               time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Issue authenticates a user by email and password and mints a new token.
func (a *authenticator) Issue(
	ctx context.Context,
	input *authDomain.IssueTokenInput,
) (*authDomain.IssueTokenOutput, error) {
	user, err := a.userFinder.GetByEmail(ctx, input.Email)
	if err != nil {
		// If user not found, return generic error to prevent enumeration
		if errors.Is(err, userDomain.ErrUserNotFound) {
			return nil, authDomain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !a.passwordService.ComparePassword(input.Password, user.Password) {
		return nil, authDomain.ErrInvalidCredentials
	}

	if !user.IsActive() {
		return nil, authDomain.ErrUserInactive
	}

	return a.Mint(ctx, user.Snapshot())
}

// Mint seals the snapshot with an expiry one token lifetime from now.
func (a *authenticator) Mint(
	_ context.Context,
	snapshot authDomain.UserSnapshot,
) (*authDomain.IssueTokenOutput, error) {
	expiresAt := a.now().UTC().Add(a.tokenExpiration).Truncate(time.Second)

	token, err := a.codec.Seal(authDomain.Claims{
		ID:        uuid.Must(uuid.NewV7()).String(),
		User:      snapshot,
		ExpiresAt: expiresAt,
	})
	if err != nil {
		return nil, err
	}

	return &authDomain.IssueTokenOutput{
		Token:     token,
		ExpiresAt: expiresAt,
	}, nil
}

// Authenticate validates a raw token and returns the principal it carries.
func (a *authenticator) Authenticate(ctx context.Context, rawToken string) (*authDomain.Principal, error) {
	if rawToken == "" {
		return nil, authDomain.ErrMissingCredential
	}

	claims, err := a.codec.Unseal(rawToken)
	if err != nil {
		if errors.Is(err, authDomain.ErrInvalidToken) {
			return nil, err
		}
		return nil, apperrors.Wrap(authDomain.ErrMalformedToken, err.Error())
	}

	if claims.IsExpired(a.now()) {
		return nil, authDomain.ErrTokenExpired
	}

	revoked, err := a.isRevoked(ctx, rawToken)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, authDomain.ErrTokenRevoked
	}

	return &authDomain.Principal{
		TokenID:   claims.ID,
		User:      claims.User,
		ExpiresAt: claims.ExpiresAt,
		Token:     rawToken,
	}, nil
}

// isRevoked looks the token fingerprint up in the revocation store within the lookup timeout.
func (a *authenticator) isRevoked(ctx context.Context, rawToken string) (bool, error) {
	lookupCtx, cancel := context.WithTimeout(ctx, a.revocationTimeout)
	defer cancel()

	_, err := a.store.Get(lookupCtx, a.tokenService.HashToken(rawToken))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, revocation.ErrNotFound):
		return false, nil
	default:
		a.logger.Warn("revocation lookup failed",
			slog.Duration("timeout", a.revocationTimeout),
			slog.Any("error", err))
		return false, apperrors.Wrap(authDomain.ErrRevocationUnavailable, err.Error())
	}
}

// Revoke writes a revocation entry living exactly as long as the token would have.
func (a *authenticator) Revoke(ctx context.Context, principal *authDomain.Principal) error {
	if principal == nil || principal.Token == "" {
		return authDomain.ErrMissingCredential
	}

	ttl := principal.Claims().RemainingLifetime(a.now())
	if ttl <= 0 {
		return nil
	}

	err := a.store.Put(ctx, a.tokenService.HashToken(principal.Token), revocation.RevokedValue, ttl)
	if err != nil {
		a.logger.Error("failed to write revocation entry",
			slog.Int64("user_id", principal.User.ID),
			slog.Any("error", err))
		return apperrors.Wrap(apperrors.ErrUnavailable, err.Error())
	}

	return nil
}
