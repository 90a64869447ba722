package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/accesskeep/accesskeep/internal/api/handler"
	"github.com/accesskeep/accesskeep/internal/api/middleware"
	"github.com/accesskeep/accesskeep/internal/api/session"
	"github.com/accesskeep/accesskeep/internal/core/domain"
	"github.com/accesskeep/accesskeep/internal/core/service"
	mongodb "github.com/accesskeep/accesskeep/internal/infrastructure/db/mongo"
	redisdb "github.com/accesskeep/accesskeep/internal/infrastructure/db/redis"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(db *mongo.Database, rdb *redis.Client, jwtSecret string, tokenTTL time.Duration, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("accesskeep"))

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(db)
	roleRepo := mongodb.NewRoleRepository(db)
	permRepo := mongodb.NewPermissionRepository(db)

	tokenService := service.NewTokenService(jwtSecret, tokenTTL)
	sessions := session.NewBinder(redisdb.NewSessionStore(rdb), tokenService.TTL())

	authService := service.NewAuthService(userRepo, roleRepo, tokenService, log)
	userService := service.NewUserService(userRepo, roleRepo, permRepo, log)
	roleService := service.NewRoleService(roleRepo, userRepo, permRepo, log)

	authHandler := handler.NewAuthHandler(authService, sessions)
	userHandler := handler.NewUserHandler(userService)
	roleHandler := handler.NewRoleHandler(roleService)
	permHandler := handler.NewPermissionHandler(permRepo)

	authn := middleware.Authenticate(authService, sessions)
	require := func(perm string) echo.MiddlewareFunc {
		return middleware.RequirePermission(permRepo, perm)
	}

	// --- Auth routes ---
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/logout", authHandler.Logout, authn)

	// --- User management ---
	users := e.Group("/users", authn)
	users.GET("", userHandler.List, require(domain.PermViewUser))
	users.POST("", userHandler.Create, require(domain.PermAddUser))
	users.GET("/:id", userHandler.Get, require(domain.PermViewUser))
	users.PUT("/:id", userHandler.Update, require(domain.PermEditUser))
	users.DELETE("/:id", userHandler.Delete, require(domain.PermDeleteUser))

	// --- Role management ---
	roles := e.Group("/roles", authn)
	roles.GET("", roleHandler.List, require(domain.PermAddRole))
	roles.POST("", roleHandler.Create, require(domain.PermAddRole))
	roles.GET("/:id", roleHandler.Get, require(domain.PermAddRole))
	roles.PUT("/:id", roleHandler.Update, require(domain.PermEditRole))
	roles.DELETE("/:id", roleHandler.Delete, require(domain.PermEditRole))

	// --- Permission registry (read-only) ---
	e.GET("/permissions", permHandler.List, authn, require(domain.PermAssignPermToRole))

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
