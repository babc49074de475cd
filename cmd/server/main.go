package main

import (
	"log/slog"
	"os"

	"github.com/gin-contrib/sessions"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/teamtrackhq/teamtrack-api/internal/config"
	"github.com/teamtrackhq/teamtrack-api/internal/constants"
	"github.com/teamtrackhq/teamtrack-api/internal/database"
	"github.com/teamtrackhq/teamtrack-api/internal/handlers"
	"github.com/teamtrackhq/teamtrack-api/internal/middleware"
	"github.com/teamtrackhq/teamtrack-api/internal/repository"
	"github.com/teamtrackhq/teamtrack-api/internal/scheduler"
	"github.com/teamtrackhq/teamtrack-api/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}

	// Run migrations
	if err := database.Migrate(); err != nil {
		logger.Error("failed to run migrations", slog.Any("error", err))
		os.Exit(1)
	}

	// Initialize Gin router
	r := gin.Default()

	// Setup session middleware with Redis
	redisAddr := cfg.RedisHost + ":" + cfg.RedisPort
	store, err := redisStore.NewStore(
		10,
		"tcp",
		redisAddr,
		"", // username (empty for default user)
		"", // password (empty = no password)
		[]byte(cfg.SessionSecret),
	)
	if err != nil {
		logger.Error("failed to create redis store", slog.Any("error", err))
		os.Exit(1)
	}
	isProduction := cfg.GinMode == "release"
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   constants.SessionMaxAge,
		HttpOnly: true,
		Secure:   isProduction,
		SameSite: 2, // SameSite=Lax
	})
	r.Use(sessions.Sessions(constants.SessionCookieName, store))

	// Initialize repositories
	db := database.GetDB()
	userRepo := repository.NewUserRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	notifRepo := repository.NewNotificationRepository(db)

	// Initialize services
	notifier := services.NewNotificationService(notifRepo, userRepo, logger)
	authService := services.NewAuthService(userRepo, notifier)
	userService := services.NewUserService(userRepo, taskRepo, notifRepo, notifier)
	taskService := services.NewTaskService(taskRepo, userRepo, notifier)
	commentService := services.NewCommentService(commentRepo, taskRepo)
	inboxService := services.NewInboxService(notifRepo)
	dashboardService := services.NewDashboardService(taskRepo, userRepo)
	overdueService := services.NewOverdueService(taskRepo, notifRepo, notifier, logger)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService, userService)
	userHandler := handlers.NewUserHandler(userService)
	taskHandler := handlers.NewTaskHandler(taskService)
	commentHandler := handlers.NewCommentHandler(commentService)
	notificationHandler := handlers.NewNotificationHandler(inboxService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService, overdueService)
	metaHandler := handlers.NewMetaHandler(userRepo, taskRepo)

	// Start the overdue sweep scheduler
	sched := scheduler.New(overdueService, logger)
	if err := sched.Start(cfg.SweepSchedule); err != nil {
		logger.Error("failed to start scheduler", slog.Any("error", err))
		os.Exit(1)
	}
	defer sched.Stop()

	// Health and metrics endpoints
	r.GET("/health", metaHandler.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", middleware.RequireAuth(userRepo), authHandler.Me)
		}

		protected := api.Group("")
		protected.Use(middleware.RequireAuth(userRepo))
		{
			// Self-service profile
			protected.GET("/users/profile", userHandler.Profile)
			protected.PUT("/users/profile", userHandler.UpdateProfile)

			// Task routes
			tasks := protected.Group("/tasks")
			{
				tasks.GET("", taskHandler.List)
				tasks.POST("", taskHandler.Create)
				tasks.GET("/my-tasks", taskHandler.MyTasks)
				tasks.GET("/:id", taskHandler.Show)
				tasks.PUT("/:id", taskHandler.Update)
				tasks.DELETE("/:id", taskHandler.Delete)

				tasks.GET("/:id/comments", commentHandler.List)
				tasks.POST("/:id/comments", commentHandler.Create)
				tasks.PUT("/:id/comments/:commentId", commentHandler.Update)
				tasks.DELETE("/:id/comments/:commentId", commentHandler.Delete)
			}

			// Notification inbox
			notifications := protected.Group("/notifications")
			{
				notifications.GET("", notificationHandler.List)
				notifications.GET("/unread-count", notificationHandler.UnreadCount)
				notifications.POST("/mark-as-read", notificationHandler.MarkRead)
				notifications.POST("/mark-as-unread", notificationHandler.MarkUnread)
				notifications.POST("/mark-all-read", notificationHandler.MarkAllRead)
				notifications.DELETE("", notificationHandler.Delete)
				notifications.GET("/admin", middleware.RequireAdmin(), notificationHandler.AdminFeed)
			}

			// Team members for assignment pickers
			protected.GET("/users/team-members", userHandler.TeamMembers)

			// Utility endpoints
			utils := protected.Group("/utils")
			{
				utils.GET("/task-statuses", metaHandler.TaskStatuses)
				utils.GET("/user-roles", metaHandler.UserRoles)
				utils.GET("/system-stats", middleware.RequireAdmin(), metaHandler.SystemStats)
			}

			// Admin-only routes
			admin := protected.Group("")
			admin.Use(middleware.RequireAdmin())
			{
				admin.GET("/users", userHandler.List)
				admin.POST("/users", userHandler.Create)
				admin.GET("/users/:id", userHandler.Show)
				admin.PUT("/users/:id", userHandler.Update)
				admin.DELETE("/users/:id", userHandler.Delete)

				admin.GET("/admin/dashboard", dashboardHandler.Dashboard)
				admin.GET("/admin/analytics", dashboardHandler.Analytics)
				admin.POST("/admin/overdue-sweep", dashboardHandler.RunOverdueSweep)
			}
		}
	}

	// Start server
	logger.Info("server starting", slog.String("addr", cfg.ServerAddr))
	if err := r.Run(cfg.ServerAddr); err != nil {
		logger.Error("server exited", slog.Any("error", err))
		os.Exit(1)
	}
}
