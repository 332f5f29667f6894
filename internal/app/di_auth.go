package app

import (
	"fmt"
	"time"

	authHTTP "github.com/allisson/useradmin/internal/auth/http"
	authService "github.com/allisson/useradmin/internal/auth/service"
	authUseCase "github.com/allisson/useradmin/internal/auth/usecase"
	"github.com/allisson/useradmin/internal/gate"
	"github.com/allisson/useradmin/internal/http"
	"github.com/allisson/useradmin/internal/ratelimit"
	"github.com/allisson/useradmin/internal/revocation"
)

const (
	backendRedis  = "redis"
	backendMemory = "memory"

	memoryStoreCleanupInterval = 10 * time.Minute
)

// KMSService returns the KMS service used to decrypt the token signing secret.
func (c *Container) KMSService() authService.KMSService {
	c.kmsServiceInit.Do(func() {
		c.kmsService = authService.NewKMSService()
	})
	return c.kmsService
}

// PasswordService returns the Argon2id password service.
func (c *Container) PasswordService() authService.PasswordService {
	c.passwordServiceInit.Do(func() {
		c.passwordService = authService.NewPasswordService()
	})
	return c.passwordService
}

// TokenCodec returns the codec that seals and unseals bearer tokens.
func (c *Container) TokenCodec() (authService.TokenCodec, error) {
	var err error
	c.tokenCodecInit.Do(func() {
		c.tokenCodec, err = c.initTokenCodec()
		if err != nil {
			c.initErrors["tokenCodec"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["tokenCodec"]; exists {
		return nil, storedErr
	}
	return c.tokenCodec, nil
}

// TokenService returns the service that fingerprints tokens for revocation keys.
func (c *Container) TokenService() (authService.TokenService, error) {
	var err error
	c.tokenServiceInit.Do(func() {
		c.tokenService, err = c.initTokenService()
		if err != nil {
			c.initErrors["tokenService"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["tokenService"]; exists {
		return nil, storedErr
	}
	return c.tokenService, nil
}

// RevocationStore returns the revocation store selected by REVOCATION_BACKEND.
func (c *Container) RevocationStore() (revocation.Store, error) {
	var err error
	c.revocationStoreInit.Do(func() {
		c.revocationStore, err = c.initRevocationStore()
		if err != nil {
			c.initErrors["revocationStore"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["revocationStore"]; exists {
		return nil, storedErr
	}
	return c.revocationStore, nil
}

// RateLimiter returns the per-client limiter selected by RATE_LIMIT_BACKEND.
func (c *Container) RateLimiter() (ratelimit.Limiter, error) {
	var err error
	c.rateLimiterInit.Do(func() {
		c.rateLimiter, err = c.initRateLimiter()
		if err != nil {
			c.initErrors["rateLimiter"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["rateLimiter"]; exists {
		return nil, storedErr
	}
	return c.rateLimiter, nil
}

// SlidingWindow returns the in-process limiter whose idle clients need reaping.
// It returns nil when the limiter is disabled or kept in Redis.
func (c *Container) SlidingWindow() (*ratelimit.SlidingWindow, error) {
	if _, err := c.RateLimiter(); err != nil {
		return nil, err
	}
	return c.slidingWindow, nil
}

// CapabilityResolver returns the cached role capability resolver.
func (c *Container) CapabilityResolver() (authUseCase.CapabilityResolver, error) {
	var err error
	c.capabilityResolverInit.Do(func() {
		c.capabilityResolver, err = c.initCapabilityResolver()
		if err != nil {
			c.initErrors["capabilityResolver"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["capabilityResolver"]; exists {
		return nil, storedErr
	}
	return c.capabilityResolver, nil
}

// Authenticator returns the authenticator that issues, verifies and revokes tokens.
func (c *Container) Authenticator() (authUseCase.Authenticator, error) {
	var err error
	c.authenticatorInit.Do(func() {
		c.authenticator, err = c.initAuthenticator()
		if err != nil {
			c.initErrors["authenticator"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["authenticator"]; exists {
		return nil, storedErr
	}
	return c.authenticator, nil
}

// Authorizer returns the role and capability authorizer.
func (c *Container) Authorizer() (authUseCase.Authorizer, error) {
	var err error
	c.authorizerInit.Do(func() {
		c.authorizer, err = c.initAuthorizer()
		if err != nil {
			c.initErrors["authorizer"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["authorizer"]; exists {
		return nil, storedErr
	}
	return c.authorizer, nil
}

// Gates returns the gate pipelines shared by all routes.
func (c *Container) Gates() (*http.Gates, error) {
	var err error
	c.gatesInit.Do(func() {
		c.gates, err = c.initGates()
		if err != nil {
			c.initErrors["gates"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["gates"]; exists {
		return nil, storedErr
	}
	return c.gates, nil
}

// AuthHandler returns the HTTP handler for the auth endpoints.
func (c *Container) AuthHandler() (*authHTTP.AuthHandler, error) {
	var err error
	c.authHandlerInit.Do(func() {
		c.authHandler, err = c.initAuthHandler()
		if err != nil {
			c.initErrors["authHandler"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["authHandler"]; exists {
		return nil, storedErr
	}
	return c.authHandler, nil
}

// signingSecret loads the configured secret, decrypting it through KMS when a key URI is set.
func (c *Container) signingSecret() ([]byte, error) {
	return authService.LoadSigningSecret(
		c.ctx,
		c.KMSService(),
		c.config.AuthTokenSecret,
		c.config.AuthTokenSecretKMSKeyURI,
	)
}

// initTokenCodec creates the token codec from the signing secret.
func (c *Container) initTokenCodec() (authService.TokenCodec, error) {
	secret, err := c.signingSecret()
	if err != nil {
		return nil, fmt.Errorf("failed to load signing secret for token codec: %w", err)
	}

	codec, err := authService.NewTokenCodec(secret)
	if err != nil {
		return nil, fmt.Errorf("failed to create token codec: %w", err)
	}
	return codec, nil
}

// initTokenService creates the token fingerprint service from the signing secret.
func (c *Container) initTokenService() (authService.TokenService, error) {
	secret, err := c.signingSecret()
	if err != nil {
		return nil, fmt.Errorf("failed to load signing secret for token service: %w", err)
	}

	tokenService, err := authService.NewTokenService(secret)
	if err != nil {
		return nil, fmt.Errorf("failed to create token service: %w", err)
	}
	return tokenService, nil
}

// initRevocationStore creates the revocation store for the configured backend.
func (c *Container) initRevocationStore() (revocation.Store, error) {
	switch c.config.RevocationBackend {
	case backendRedis:
		client, err := c.RedisClient()
		if err != nil {
			return nil, fmt.Errorf("failed to get redis client for revocation store: %w", err)
		}
		return revocation.NewRedisStore(client, c.config.RedisPrefix), nil
	case backendMemory:
		c.Logger().Warn("using in-memory revocation store, revocations are not shared between replicas")
		return revocation.NewMemoryStore(memoryStoreCleanupInterval), nil
	default:
		return nil, fmt.Errorf("unsupported revocation backend: %s", c.config.RevocationBackend)
	}
}

// initRateLimiter creates the per-client limiter for the configured backend.
// It returns a nil limiter when rate limiting is disabled.
func (c *Container) initRateLimiter() (ratelimit.Limiter, error) {
	if !c.config.RateLimitEnabled {
		return nil, nil
	}

	switch c.config.RateLimitBackend {
	case backendMemory:
		c.slidingWindow = ratelimit.NewSlidingWindow(
			c.config.RateLimitMaxRequests,
			c.config.RateLimitWindow,
			nil,
		)
		return c.slidingWindow, nil
	case backendRedis:
		client, err := c.RedisClient()
		if err != nil {
			return nil, fmt.Errorf("failed to get redis client for rate limiter: %w", err)
		}
		return ratelimit.NewRedisSlidingWindow(
			client,
			c.config.RedisPrefix,
			c.config.RateLimitMaxRequests,
			c.config.RateLimitWindow,
			nil,
		), nil
	default:
		return nil, fmt.Errorf("unsupported rate limit backend: %s", c.config.RateLimitBackend)
	}
}

// initCapabilityResolver caches the role repository's capability lookups.
func (c *Container) initCapabilityResolver() (authUseCase.CapabilityResolver, error) {
	roleRepo, err := c.RoleRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get role repository for capability resolver: %w", err)
	}
	return authUseCase.NewCachedCapabilityResolver(roleRepo, c.config.CapabilityCacheTTL), nil
}

// initAuthenticator creates the authenticator with all its dependencies.
func (c *Container) initAuthenticator() (authUseCase.Authenticator, error) {
	userRepo, err := c.UserRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get user repository for authenticator: %w", err)
	}

	codec, err := c.TokenCodec()
	if err != nil {
		return nil, fmt.Errorf("failed to get token codec for authenticator: %w", err)
	}

	tokenService, err := c.TokenService()
	if err != nil {
		return nil, fmt.Errorf("failed to get token service for authenticator: %w", err)
	}

	store, err := c.RevocationStore()
	if err != nil {
		return nil, fmt.Errorf("failed to get revocation store for authenticator: %w", err)
	}

	baseAuthenticator := authUseCase.NewAuthenticator(
		c.config,
		userRepo,
		c.PasswordService(),
		codec,
		tokenService,
		store,
		c.Logger(),
	)

	// Wrap with metrics if enabled
	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for authenticator: %w", err)
		}
		return authUseCase.NewAuthenticatorWithMetrics(baseAuthenticator, businessMetrics), nil
	}

	return baseAuthenticator, nil
}

// initAuthorizer creates the authorizer over the capability resolver.
func (c *Container) initAuthorizer() (authUseCase.Authorizer, error) {
	resolver, err := c.CapabilityResolver()
	if err != nil {
		return nil, fmt.Errorf("failed to get capability resolver for authorizer: %w", err)
	}
	return authUseCase.NewAuthorizer(resolver, c.Logger()), nil
}

// initGates assembles the public and authenticated pipelines. The rate limit stage is left
// out when rate limiting is disabled.
func (c *Container) initGates() (*http.Gates, error) {
	limiter, err := c.RateLimiter()
	if err != nil {
		return nil, fmt.Errorf("failed to get rate limiter for gates: %w", err)
	}

	authenticator, err := c.Authenticator()
	if err != nil {
		return nil, fmt.Errorf("failed to get authenticator for gates: %w", err)
	}

	authorizer, err := c.Authorizer()
	if err != nil {
		return nil, fmt.Errorf("failed to get authorizer for gates: %w", err)
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for gates: %w", err)
	}

	var stages []gate.Stage
	if limiter != nil {
		stages = append(stages, gate.RateLimit(limiter))
	}

	public := gate.NewPipeline(businessMetrics, c.Logger(), stages...)

	return &http.Gates{
		Public:        public,
		Authenticated: public.With(gate.Authenticate(authenticator)),
		Authorizer:    authorizer,
	}, nil
}

// initAuthHandler creates the auth HTTP handler with all its dependencies.
func (c *Container) initAuthHandler() (*authHTTP.AuthHandler, error) {
	userUseCase, err := c.UserUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get user use case for auth handler: %w", err)
	}

	authenticator, err := c.Authenticator()
	if err != nil {
		return nil, fmt.Errorf("failed to get authenticator for auth handler: %w", err)
	}

	verificationUseCase, err := c.VerificationUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get verification use case for auth handler: %w", err)
	}

	return authHTTP.NewAuthHandler(userUseCase, verificationUseCase, authenticator, c.Logger()), nil
}
