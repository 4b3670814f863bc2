package main

import (
	"log"
	"net/http"

	"github.com/Aghostraa/abcr-platform/internal/auth"
	"github.com/Aghostraa/abcr-platform/internal/config"
	"github.com/Aghostraa/abcr-platform/internal/constants"
	"github.com/Aghostraa/abcr-platform/internal/database"
	"github.com/Aghostraa/abcr-platform/internal/handlers"
	"github.com/Aghostraa/abcr-platform/internal/middleware"
	"github.com/Aghostraa/abcr-platform/internal/models"
	"github.com/Aghostraa/abcr-platform/internal/repository"
	"github.com/Aghostraa/abcr-platform/internal/services"
	"github.com/gin-contrib/sessions"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	if err := database.AddIndexes(database.GetDB()); err != nil {
		log.Fatalf("Failed to add indexes: %v", err)
	}

	// Initialize Gin router
	r := gin.Default()

	// Setup session middleware with Redis
	redisAddr := cfg.RedisHost + ":" + cfg.RedisPort
	store, err := redisStore.NewStore(
		10,        // Redis pool size
		"tcp",     // network type
		redisAddr, // Redis address from config
		"",        // username (empty for default user)
		"",        // password (empty = no password)
		[]byte(cfg.SessionSecret), // authentication key
	)
	if err != nil {
		log.Fatalf("Failed to create Redis store: %v", err)
	}
	isProduction := cfg.GinMode == "release"
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   isProduction,
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions(constants.SessionCookieName, store))

	// Identity provider
	provider := auth.NewProvider(cfg)

	// Repositories
	db := database.GetDB()
	userRepo := repository.NewUserRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	refRepo := repository.NewReferenceRepository(db)
	roleStore := repository.NewRoleStore(db)

	// Services
	authService := services.NewAuthService(provider, userRepo, roleStore)
	taskService := services.NewTaskService(taskRepo)
	userService := services.NewUserService(userRepo, roleStore)

	// Handlers
	authHandler := handlers.NewAuthHandler(provider, authService)
	taskHandler := handlers.NewTaskHandler(taskService)
	userHandler := handlers.NewUserHandler(userService)
	refHandler := handlers.NewReferenceHandler(refRepo)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Club platform API is running",
		})
	})

	// Prometheus metrics
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public)
		authRoutes := api.Group("/auth")
		{
			authRoutes.GET("/login", authHandler.Login)
			authRoutes.GET("/callback", authHandler.Callback)
			authRoutes.POST("/logout", authHandler.Logout)
		}

		// Everything below requires a session; the role is resolved once per
		// request and carried in the context.
		protected := api.Group("")
		protected.Use(middleware.RequireAuth(), middleware.ResolveRole(roleStore))
		{
			protected.GET("/auth/me", authHandler.Me)

			protected.GET("/tasks", taskHandler.ListTasks)
			protected.GET("/tasks/action", taskHandler.PerformAction)
			protected.POST("/tasks/action", taskHandler.PerformAction)
			protected.POST("/tasks", middleware.RequireRole(models.RoleManager, models.RoleAdmin), taskHandler.CreateTask)
			protected.PATCH("/tasks", middleware.RequireRole(models.RoleManager, models.RoleAdmin), taskHandler.OverrideTask)

			protected.GET("/projects", refHandler.ListProjects)
			protected.GET("/categories", refHandler.ListCategories)

			admin := protected.Group("/users", middleware.RequireRole(models.RoleAdmin))
			{
				admin.GET("", userHandler.ListUsers)
				admin.PUT("/role", userHandler.SetRole)
				admin.PATCH("/role", userHandler.SetRoleByEmail)
			}
		}
	}

	// Start server
	log.Printf("Server starting on %s", cfg.HTTPAddr)
	if err := r.Run(cfg.HTTPAddr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
