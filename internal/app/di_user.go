package app

import (
	"errors"
	"fmt"

	userDomain "github.com/allisson/useradmin/internal/user/domain"
	userHTTP "github.com/allisson/useradmin/internal/user/http"
	userRepository "github.com/allisson/useradmin/internal/user/repository"
	userService "github.com/allisson/useradmin/internal/user/service"
	userUseCase "github.com/allisson/useradmin/internal/user/usecase"
)

// UserRepository returns the user repository instance.
func (c *Container) UserRepository() (userUseCase.UserRepository, error) {
	var err error
	c.userRepoInit.Do(func() {
		c.userRepo, err = c.initUserRepository()
		if err != nil {
			c.initErrors["userRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["userRepo"]; exists {
		return nil, storedErr
	}
	return c.userRepo, nil
}

// RoleRepository returns the role repository instance.
func (c *Container) RoleRepository() (userUseCase.RoleManagementRepository, error) {
	var err error
	c.roleRepoInit.Do(func() {
		c.roleRepo, err = c.initRoleRepository()
		if err != nil {
			c.initErrors["roleRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["roleRepo"]; exists {
		return nil, storedErr
	}
	return c.roleRepo, nil
}

// PermissionRepository returns the permission repository instance.
func (c *Container) PermissionRepository() (userUseCase.PermissionRepository, error) {
	var err error
	c.permissionRepoInit.Do(func() {
		c.permissionRepo, err = c.initPermissionRepository()
		if err != nil {
			c.initErrors["permissionRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["permissionRepo"]; exists {
		return nil, storedErr
	}
	return c.permissionRepo, nil
}

// VerificationRepository returns the repository holding pending verification codes.
func (c *Container) VerificationRepository() (userUseCase.VerificationRepository, error) {
	var err error
	c.verificationRepoInit.Do(func() {
		c.verificationRepo, err = c.initVerificationRepository()
		if err != nil {
			c.initErrors["verificationRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["verificationRepo"]; exists {
		return nil, storedErr
	}
	return c.verificationRepo, nil
}

// VerificationNotifier returns the notifier that delivers verification codes.
func (c *Container) VerificationNotifier() userUseCase.VerificationNotifier {
	c.verificationNotifierInit.Do(func() {
		c.verificationNotifier = c.initVerificationNotifier()
	})
	return c.verificationNotifier
}

// UserUseCase returns the user use case instance.
func (c *Container) UserUseCase() (userUseCase.UseCase, error) {
	var err error
	c.userUseCaseInit.Do(func() {
		c.userUseCase, err = c.initUserUseCase()
		if err != nil {
			c.initErrors["userUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["userUseCase"]; exists {
		return nil, storedErr
	}
	return c.userUseCase, nil
}

// UserHandler returns the HTTP handler for the user endpoints.
func (c *Container) UserHandler() (*userHTTP.UserHandler, error) {
	var err error
	c.userHandlerInit.Do(func() {
		c.userHandler, err = c.initUserHandler()
		if err != nil {
			c.initErrors["userHandler"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["userHandler"]; exists {
		return nil, storedErr
	}
	return c.userHandler, nil
}

// RoleUseCase returns the role management use case instance.
func (c *Container) RoleUseCase() (userUseCase.RoleUseCase, error) {
	var err error
	c.roleUseCaseInit.Do(func() {
		c.roleUseCase, err = c.initRoleUseCase()
		if err != nil {
			c.initErrors["roleUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["roleUseCase"]; exists {
		return nil, storedErr
	}
	return c.roleUseCase, nil
}

// PermissionUseCase returns the permission management use case instance.
func (c *Container) PermissionUseCase() (userUseCase.PermissionUseCase, error) {
	var err error
	c.permissionUseCaseInit.Do(func() {
		c.permissionUseCase, err = c.initPermissionUseCase()
		if err != nil {
			c.initErrors["permissionUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["permissionUseCase"]; exists {
		return nil, storedErr
	}
	return c.permissionUseCase, nil
}

// VerificationUseCase returns the sign-up verification use case instance.
func (c *Container) VerificationUseCase() (userUseCase.VerificationUseCase, error) {
	var err error
	c.verificationUseCaseInit.Do(func() {
		c.verificationUseCase, err = c.initVerificationUseCase()
		if err != nil {
			c.initErrors["verificationUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["verificationUseCase"]; exists {
		return nil, storedErr
	}
	return c.verificationUseCase, nil
}

// RoleHandler returns the HTTP handler for the role endpoints.
func (c *Container) RoleHandler() (*userHTTP.RoleHandler, error) {
	var err error
	c.roleHandlerInit.Do(func() {
		c.roleHandler, err = c.initRoleHandler()
		if err != nil {
			c.initErrors["roleHandler"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["roleHandler"]; exists {
		return nil, storedErr
	}
	return c.roleHandler, nil
}

// PermissionHandler returns the HTTP handler for the permission endpoints.
func (c *Container) PermissionHandler() (*userHTTP.PermissionHandler, error) {
	var err error
	c.permissionHandlerInit.Do(func() {
		c.permissionHandler, err = c.initPermissionHandler()
		if err != nil {
			c.initErrors["permissionHandler"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["permissionHandler"]; exists {
		return nil, storedErr
	}
	return c.permissionHandler, nil
}

// initUserRepository creates the user repository instance.
func (c *Container) initUserRepository() (userUseCase.UserRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for user repository: %w", err)
	}

	// Select the appropriate repository based on the database driver
	switch c.config.DBDriver {
	case "mysql":
		return userRepository.NewMySQLUserRepository(db), nil
	case "postgres":
		return userRepository.NewPostgreSQLUserRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initRoleRepository creates the role repository instance.
func (c *Container) initRoleRepository() (userUseCase.RoleManagementRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for role repository: %w", err)
	}

	switch c.config.DBDriver {
	case "mysql":
		return userRepository.NewMySQLRoleRepository(db), nil
	case "postgres":
		return userRepository.NewPostgreSQLRoleRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initPermissionRepository creates the permission repository instance.
func (c *Container) initPermissionRepository() (userUseCase.PermissionRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for permission repository: %w", err)
	}

	switch c.config.DBDriver {
	case "mysql":
		return userRepository.NewMySQLPermissionRepository(db), nil
	case "postgres":
		return userRepository.NewPostgreSQLPermissionRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initVerificationRepository creates the verification code repository instance.
func (c *Container) initVerificationRepository() (userUseCase.VerificationRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for verification repository: %w", err)
	}

	switch c.config.DBDriver {
	case "mysql":
		return userRepository.NewMySQLUserRepository(db), nil
	case "postgres":
		return userRepository.NewPostgreSQLUserRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initVerificationNotifier mails codes when an SMTP relay is configured and logs them otherwise.
func (c *Container) initVerificationNotifier() userUseCase.VerificationNotifier {
	if c.config.SMTPHost == "" {
		return userService.NewLogNotifier(c.Logger())
	}
	return userService.NewSMTPNotifier(
		c.config.SMTPHost,
		c.config.SMTPPort,
		c.config.SMTPUsername,
		c.config.SMTPPassword,
		c.config.SMTPFrom,
		c.Logger(),
	)
}

// initUserUseCase creates the user use case with all its dependencies.
// Self-registered users receive the regular user role.
func (c *Container) initUserUseCase() (userUseCase.UseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for user use case: %w", err)
	}

	userRepo, err := c.UserRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get user repository for user use case: %w", err)
	}

	roleRepo, err := c.RoleRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get role repository for user use case: %w", err)
	}

	baseUseCase := userUseCase.NewUserUseCase(
		txManager,
		userRepo,
		roleRepo,
		c.PasswordService(),
		userDomain.UserRoleID,
	)

	// Wrap with metrics if enabled
	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for user use case: %w", err)
		}
		return userUseCase.NewUserUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}

// initUserHandler creates the user HTTP handler.
func (c *Container) initUserHandler() (*userHTTP.UserHandler, error) {
	userUseCase, err := c.UserUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get user use case for user handler: %w", err)
	}

	return userHTTP.NewUserHandler(userUseCase, c.Logger()), nil
}

// capabilityCache returns the invalidation side of the capability resolver.
func (c *Container) capabilityCache() (userUseCase.CapabilityCache, error) {
	resolver, err := c.CapabilityResolver()
	if err != nil {
		return nil, err
	}
	cache, ok := resolver.(userUseCase.CapabilityCache)
	if !ok {
		return nil, errors.New("capability resolver does not support invalidation")
	}
	return cache, nil
}

// initRoleUseCase creates the role use case. The admin role and the sign-up role cannot be deleted.
func (c *Container) initRoleUseCase() (userUseCase.RoleUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for role use case: %w", err)
	}

	roleRepo, err := c.RoleRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get role repository for role use case: %w", err)
	}

	cache, err := c.capabilityCache()
	if err != nil {
		return nil, fmt.Errorf("failed to get capability cache for role use case: %w", err)
	}

	return userUseCase.NewRoleUseCase(txManager, roleRepo, cache, c.config.AdminRoleID, userDomain.UserRoleID), nil
}

// initPermissionUseCase creates the permission use case.
func (c *Container) initPermissionUseCase() (userUseCase.PermissionUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for permission use case: %w", err)
	}

	permissionRepo, err := c.PermissionRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get permission repository for permission use case: %w", err)
	}

	cache, err := c.capabilityCache()
	if err != nil {
		return nil, fmt.Errorf("failed to get capability cache for permission use case: %w", err)
	}

	return userUseCase.NewPermissionUseCase(txManager, permissionRepo, cache), nil
}

// initVerificationUseCase creates the sign-up verification use case.
func (c *Container) initVerificationUseCase() (userUseCase.VerificationUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for verification use case: %w", err)
	}

	verificationRepo, err := c.VerificationRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get verification repository for verification use case: %w", err)
	}

	return userUseCase.NewVerificationUseCase(
		txManager,
		verificationRepo,
		c.PasswordService(),
		c.VerificationNotifier(),
	), nil
}

// initRoleHandler creates the role HTTP handler.
func (c *Container) initRoleHandler() (*userHTTP.RoleHandler, error) {
	roleUseCase, err := c.RoleUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get role use case for role handler: %w", err)
	}

	return userHTTP.NewRoleHandler(roleUseCase, c.Logger()), nil
}

// initPermissionHandler creates the permission HTTP handler.
func (c *Container) initPermissionHandler() (*userHTTP.PermissionHandler, error) {
	permissionUseCase, err := c.PermissionUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get permission use case for permission handler: %w", err)
	}

	return userHTTP.NewPermissionHandler(permissionUseCase, c.Logger()), nil
}
