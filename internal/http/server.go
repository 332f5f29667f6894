// Package http provides the HTTP server, its router and the health endpoints.
package http

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	authDomain "github.com/allisson/useradmin/internal/auth/domain"
	authHTTP "github.com/allisson/useradmin/internal/auth/http"
	authUseCase "github.com/allisson/useradmin/internal/auth/usecase"
	"github.com/allisson/useradmin/internal/config"
	"github.com/allisson/useradmin/internal/gate"
	"github.com/allisson/useradmin/internal/metrics"
	"github.com/allisson/useradmin/internal/revocation"
	userHTTP "github.com/allisson/useradmin/internal/user/http"
)

// readinessTimeout bounds each dependency check of the readiness endpoint.
const readinessTimeout = 2 * time.Second

// Server represents the HTTP server
type Server struct {
	db     *sql.DB
	store  revocation.Store
	server *http.Server
	router *gin.Engine
	logger *slog.Logger
}

// NewServer creates a new HTTP server. SetupRouter must be called before Start.
func NewServer(
	db *sql.DB,
	store revocation.Store,
	host string,
	port int,
	logger *slog.Logger,
) *Server {
	return &Server{
		db:     db,
		store:  store,
		logger: logger,
		server: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", host, port),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}
}

// Gates holds the pipelines guarding the API routes.
type Gates struct {
	// Public guards unauthenticated routes. It carries only the rate limit stage.
	Public *gate.Pipeline
	// Authenticated guards routes that need a principal: rate limit then authenticate.
	Authenticated *gate.Pipeline
	// Authorizer backs the per-route authorization stages.
	Authorizer authUseCase.Authorizer
}

// Handlers groups the API handlers mounted by SetupRouter.
type Handlers struct {
	Auth       *authHTTP.AuthHandler
	User       *userHTTP.UserHandler
	Role       *userHTTP.RoleHandler
	Permission *userHTTP.PermissionHandler
}

// SetupRouter configures the Gin router with all routes and middleware.
// ctx bounds background work owned by the router, such as the login limiter's sweeper.
func (s *Server) SetupRouter(
	ctx context.Context,
	cfg *config.Config,
	handlers Handlers,
	gates Gates,
	metricsProvider *metrics.Provider,
) {
	router := gin.New()

	// Forwarding headers only count when the direct peer is a configured proxy; otherwise
	// ClientIP is the transport source address.
	if err := router.SetTrustedProxies(trustedProxies(cfg.TrustedProxies)); err != nil {
		s.logger.Error("invalid trusted proxies, forwarding headers are ignored", slog.Any("error", err))
		_ = router.SetTrustedProxies(nil)
	}

	router.Use(gin.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(CustomLoggerMiddleware(s.logger))

	if corsMiddleware := createCORSMiddleware(cfg.CORSEnabled, cfg.CORSAllowOrigins, s.logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	if metricsProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(metricsProvider.MeterProvider(), cfg.MetricsNamespace))
	}

	router.GET("/health", s.healthHandler)
	router.GET("/ready", s.readinessHandler)

	publicGate := authHTTP.GateMiddleware(gates.Public, s.logger)
	authenticatedGate := authHTTP.GateMiddleware(gates.Authenticated, s.logger)
	readUsersGate := authHTTP.GateMiddleware(
		gates.Authenticated.With(gate.Authorize(
			gates.Authorizer,
			authDomain.RequireAny(authDomain.UsersReadCapability),
		)),
		s.logger,
	)
	adminGate := authHTTP.GateMiddleware(
		gates.Authenticated.With(gate.Authorize(gates.Authorizer, authDomain.AllowRoles(cfg.AdminRoleID))),
		s.logger,
	)

	credentialHandlers := []gin.HandlerFunc{publicGate}
	if cfg.RateLimitLoginEnabled {
		credentialHandlers = append(credentialHandlers, authHTTP.LoginRateLimitMiddleware(
			ctx,
			cfg.RateLimitLoginRequestsPerSec,
			cfg.RateLimitLoginBurst,
			s.logger,
		))
	}

	authHandler := handlers.Auth
	userHandler := handlers.User
	roleHandler := handlers.Role
	permissionHandler := handlers.Permission

	v1 := router.Group("/v1")
	{
		auth := v1.Group("/auth")
		{
			credentials := auth.Group("", credentialHandlers...)
			credentials.POST("/sign-up", authHandler.SignUpHandler)
			credentials.POST("/sign-up/verify", authHandler.VerifySignUpHandler)
			credentials.POST("/login", authHandler.LoginHandler)

			auth.POST("/logout", authenticatedGate, authHandler.LogoutHandler)
			auth.POST("/password", authenticatedGate, authHandler.ChangePasswordHandler)
		}

		users := v1.Group("/users")
		{
			users.GET("/me", authenticatedGate, userHandler.GetMeHandler)
			users.GET("/:id", readUsersGate, userHandler.GetHandler)
			users.PATCH("/:id/role/:role_id", adminGate, userHandler.UpdateRoleHandler)
		}

		roles := v1.Group("/roles", adminGate)
		{
			roles.GET("", roleHandler.ListHandler)
			roles.POST("", roleHandler.CreateHandler)
			roles.GET("/:id", roleHandler.GetHandler)
			roles.PUT("/:id", roleHandler.UpdateHandler)
			roles.DELETE("/:id", roleHandler.DeleteHandler)
			roles.PUT("/:id/permissions", roleHandler.SetPermissionsHandler)
		}

		permissions := v1.Group("/permissions", adminGate)
		{
			permissions.GET("", permissionHandler.ListHandler)
			permissions.POST("", permissionHandler.CreateHandler)
			permissions.GET("/:id", permissionHandler.GetHandler)
			permissions.PUT("/:id", permissionHandler.UpdateHandler)
			permissions.DELETE("/:id", permissionHandler.DeleteHandler)
		}
	}

	s.router = router
}

// trustedProxies drops blank entries from a comma-split list. No entries means no proxy is trusted.
func trustedProxies(entries []string) []string {
	var proxies []string
	for _, entry := range entries {
		if trimmed := strings.TrimSpace(entry); trimmed != "" {
			proxies = append(proxies, trimmed)
		}
	}
	return proxies
}

// GetHandler returns the http.Handler for testing purposes.
func (s *Server) GetHandler() http.Handler {
	return s.router
}

// Start starts the HTTP server
func (s *Server) Start(ctx context.Context) error {
	if s.router == nil {
		return fmt.Errorf("router not configured")
	}
	s.server.Handler = s.router

	s.logger.Info("starting http server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}

// healthHandler reports liveness.
func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// readinessHandler reports whether the database and the revocation store are reachable.
func (s *Server) readinessHandler(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), readinessTimeout)
	defer cancel()

	components := gin.H{
		"database":         "ok",
		"revocation_store": "ok",
	}
	ready := true

	if s.db == nil || s.db.PingContext(ctx) != nil {
		components["database"] = "error"
		ready = false
	}

	if s.store == nil || s.store.Ping(ctx) != nil {
		components["revocation_store"] = "error"
		ready = false
	}

	if !ready {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "components": components})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ready", "components": components})
}
