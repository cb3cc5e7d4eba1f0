package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/contentkit/publishing-api/internal/api/handler"
	"github.com/contentkit/publishing-api/internal/api/middleware"
	"github.com/contentkit/publishing-api/internal/auth"
	"github.com/contentkit/publishing-api/internal/core/service"
	"github.com/contentkit/publishing-api/internal/infrastructure/config"
	mongodb "github.com/contentkit/publishing-api/internal/infrastructure/db/mongo"
	redisdb "github.com/contentkit/publishing-api/internal/infrastructure/db/redis"
	"github.com/contentkit/publishing-api/internal/infrastructure/http/handlers"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(cfg *config.Config, db *mongo.Database, rdb *redis.Client, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log, cfg.IsDevelopment())

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("publishing"))

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(db)
	roleRepo := mongodb.NewRoleRepository(db)
	postRepo := mongodb.NewPostRepository(db)

	hasher := auth.NewPasswordHasher(cfg.BcryptCost)
	tokens := auth.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	throttle := redisdb.NewLoginLimiter(rdb)

	authService := service.NewAuthService(userRepo, roleRepo, hasher, tokens, throttle, log)
	userService := service.NewUserService(userRepo, log)
	roleService := service.NewRoleService(roleRepo, log)
	postService := service.NewPostService(postRepo, log)

	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	roleHandler := handler.NewRoleHandler(roleService)
	postHandler := handler.NewPostHandler(postService)

	authenticated := middleware.Authenticate(tokens, userRepo)

	// --- Auth routes ---
	authGroup := e.Group("/auth")
	authGroup.POST("/register", authHandler.Register)
	authGroup.POST("/login", authHandler.Login)
	authGroup.GET("/me", authHandler.Me, authenticated)

	// --- Post routes ---
	posts := e.Group("/posts", authenticated)
	posts.GET("", postHandler.List, middleware.Authorize("posts.read"))
	posts.GET("/my/posts", postHandler.ListMine, middleware.Authorize("posts.read"))
	posts.GET("/:id", postHandler.Get, middleware.Authorize("posts.read"))
	posts.POST("", postHandler.Create, middleware.Authorize("posts.create"))
	posts.PUT("/:id", postHandler.Update, middleware.Authorize("posts.update"))
	posts.PATCH("/:id/publish", postHandler.TogglePublish, middleware.Authorize("posts.publish"))
	posts.DELETE("/:id", postHandler.Delete, middleware.Authorize("posts.delete"))

	// --- User routes ---
	users := e.Group("/users", authenticated)
	users.GET("", userHandler.List, middleware.Authorize("users.read"))
	users.GET("/:id", userHandler.Get, middleware.Authorize("users.read"))
	users.PUT("/:id", userHandler.Update, middleware.Authorize("users.update"))
	users.DELETE("/:id", userHandler.Delete, middleware.Authorize("users.delete"))

	// --- Role routes ---
	roles := e.Group("/roles", authenticated)
	roles.GET("", roleHandler.List, middleware.Authorize("roles.read"))
	roles.GET("/:id", roleHandler.Get, middleware.Authorize("roles.read"))
	roles.POST("", roleHandler.Create, middleware.Authorize("roles.create"))
	roles.PUT("/:id", roleHandler.Update, middleware.Authorize("roles.update"))
	roles.DELETE("/:id", roleHandler.Delete, middleware.Authorize("roles.delete"))

	// --- Observability and docs ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Health probes (no auth required) ---
	healthHandler := handlers.NewHealthHandler(db, rdb)
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthHandler.Readiness)

	return e
}
