package main

import (
	"log"

	"github.com/gin-contrib/sessions"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"

	"projectdesk/internal/config"
	"projectdesk/internal/constants"
	"projectdesk/internal/database"
	"projectdesk/internal/handlers"
	"projectdesk/internal/middleware"
	"projectdesk/internal/repository"
	"projectdesk/internal/services"
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

	// Seed the bootstrap admin on an empty database
	if err := database.SeedAdmin(cfg); err != nil {
		log.Fatalf("Failed to seed admin account: %v", err)
	}

	// Initialize Gin router
	r := gin.Default()

	// Setup session middleware with Redis
	redisAddr := cfg.RedisHost + ":" + cfg.RedisPort
	store, err := redisStore.NewStore(
		10,                        // Redis pool size
		"tcp",                     // network type
		redisAddr,                 // Redis address from config
		"",                        // password (empty = no password)
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
		SameSite: 2, // SameSite=Lax
	})
	r.Use(sessions.Sessions(constants.SessionCookieName, store))

	// Initialize repositories
	db := database.GetDB()
	accountRepo := repository.NewAccountRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	workerRepo := repository.NewWorkerRepository(db)

	// Initialize services
	authService := services.NewAuthService(accountRepo)
	accessService := services.NewAccessService(projectRepo, taskRepo)
	projectService := services.NewProjectService(projectRepo, taskRepo)
	taskService := services.NewTaskService(taskRepo, projectRepo, accountRepo)
	workerService := services.NewWorkerService(workerRepo, accountRepo)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	projectHandler := handlers.NewProjectHandler(projectService, accessService)
	taskHandler := handlers.NewTaskHandler(taskService, accessService)
	workerHandler := handlers.NewWorkerHandler(workerService)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Projectdesk API is running",
		})
	})

	// API routes
	api := r.Group("/api")
	{
		// Auth routes
		auth := api.Group("/auth")
		{
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", middleware.RequireAuth(), authHandler.GetCurrentUser)
		}

		// Project routes: reads are policy-checked per identity, writes admin-only
		projects := api.Group("/projects")
		projects.Use(middleware.RequireAuth())
		{
			projects.GET("", projectHandler.ListProjects)
			projects.GET("/:id", projectHandler.GetProject)
			projects.POST("", middleware.RequireAdmin(), projectHandler.CreateProject)
			projects.PUT("/:id", middleware.RequireAdmin(), projectHandler.UpdateProject)
			projects.DELETE("/:id", middleware.RequireAdmin(), projectHandler.DeleteProject)
		}

		// Task routes: same shape as projects
		tasks := api.Group("/tasks")
		tasks.Use(middleware.RequireAuth())
		{
			tasks.GET("", taskHandler.ListTasks)
			tasks.GET("/:id", taskHandler.GetTask)
			tasks.POST("", middleware.RequireAdmin(), taskHandler.CreateTask)
			tasks.PUT("/:id", middleware.RequireAdmin(), taskHandler.UpdateTask)
			tasks.DELETE("/:id", middleware.RequireAdmin(), taskHandler.DeleteTask)
		}

		// Worker routes: the entire group is admin-only
		workers := api.Group("/workers")
		workers.Use(middleware.RequireAuth(), middleware.RequireAdmin())
		{
			workers.GET("", workerHandler.ListWorkers)
			workers.GET("/:id", workerHandler.GetWorker)
			workers.POST("", workerHandler.CreateWorker)
			workers.PUT("/:id", workerHandler.UpdateWorker)
			workers.DELETE("/:id", workerHandler.DeleteWorker)
		}
	}

	// Start server
	log.Printf("Server starting on :%s", cfg.ServerPort)
	if err := r.Run(":" + cfg.ServerPort); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
