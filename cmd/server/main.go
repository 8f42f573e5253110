package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	activityapp "github.com/pmo/backend/internal/application/activity"
	attachmentapp "github.com/pmo/backend/internal/application/attachment"
	identityapp "github.com/pmo/backend/internal/application/identity"
	notificationapp "github.com/pmo/backend/internal/application/notification"
	projectapp "github.com/pmo/backend/internal/application/project"
	tagapp "github.com/pmo/backend/internal/application/tag"
	taskapp "github.com/pmo/backend/internal/application/task"
	teamapp "github.com/pmo/backend/internal/application/team"
	timelogapp "github.com/pmo/backend/internal/application/timelog"
	"github.com/pmo/backend/internal/domain/authz"
	"github.com/pmo/backend/internal/infrastructure/auth"
	"github.com/pmo/backend/internal/infrastructure/cache"
	"github.com/pmo/backend/internal/infrastructure/config"
	"github.com/pmo/backend/internal/infrastructure/event"
	"github.com/pmo/backend/internal/infrastructure/logger"
	"github.com/pmo/backend/internal/infrastructure/persistence"
	"github.com/pmo/backend/internal/infrastructure/scheduler"
	"github.com/pmo/backend/internal/infrastructure/storage"
	"github.com/pmo/backend/internal/interfaces/http/handler"
	"github.com/pmo/backend/internal/interfaces/http/middleware"
	"github.com/pmo/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	_ "github.com/pmo/backend/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

//	@title			PMO Backend API
//	@version		1.0
//	@description	Project management backend API - projects, tasks, teams, time tracking and notifications

//	@contact.name	API Support
//	@contact.url	https://github.com/pmo/backend
//	@contact.email	support@pmo.example.com

//	@license.name	Apache 2.0
//	@license.url	http://www.apache.org/licenses/LICENSE-2.0.html

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

//	@externalDocs.description	OpenAPI
//	@externalDocs.url			https://swagger.io/resources/open-api/

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting PMO Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Initialize repositories
	userRepo := persistence.NewGormUserRepository(db.DB)
	projectRepo := persistence.NewGormProjectRepository(db.DB)
	taskRepo := persistence.NewGormTaskRepository(db.DB)
	teamRepo := persistence.NewGormTeamRepository(db.DB)
	tagRepo := persistence.NewGormTagRepository(db.DB)
	timeLogRepo := persistence.NewGormTimeLogRepository(db.DB)
	attachmentRepo := persistence.NewGormAttachmentRepository(db.DB)
	notificationRepo := persistence.NewGormNotificationRepository(db.DB)
	activityLogRepo := persistence.NewGormActivityLogRepository(db.DB)

	// Authorization evaluator shared by the application services
	evaluator := authz.NewEvaluator(projectRepo, taskRepo, teamRepo)

	// Credential infrastructure
	hasher := auth.NewPasswordHasher(cfg.Argon2)
	tokens := auth.NewTokenService(cfg.JWT)

	// Unread-count cache (Redis when enabled, in-memory otherwise)
	counterFactory := cache.NewFactory(cfg.Redis, cache.WithLogger(log))
	counter, err := counterFactory.CreateCounter()
	if err != nil {
		log.Fatal("Failed to initialize unread-count cache", zap.Error(err))
	}

	// Attachment blob store (local disk or S3, per config)
	blobs, err := storage.New(context.Background(), cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize blob storage", zap.Error(err))
	}

	// Initialize event bus
	eventBus := event.NewInMemoryEventBus(log)

	// Initialize application services
	authService := identityapp.NewAuthService(userRepo, hasher, tokens, log)
	projectService := projectapp.NewProjectService(projectRepo, userRepo, evaluator, eventBus, log)
	taskService := taskapp.NewTaskService(taskRepo, evaluator, eventBus, log)
	teamService := teamapp.NewTeamService(teamRepo, userRepo, evaluator, eventBus, log)
	tagService := tagapp.NewTagService(tagRepo, eventBus, log)
	timeLogService := timelogapp.NewTimeLogService(timeLogRepo, eventBus, log)
	attachmentService := attachmentapp.NewAttachmentService(attachmentRepo, taskRepo, blobs, eventBus, log)
	notificationService := notificationapp.NewNotificationService(notificationRepo, counter, evaluator, log, cfg.Redis.TTL)
	activityService := activityapp.NewActivityService(activityLogRepo, log)

	// Register event handlers for cross-context integration
	// Task and project events -> notifications for the affected users
	notifier := notificationapp.NewNotifier(notificationService)
	eventBus.Subscribe(notifier)

	// All domain events -> activity timeline entries
	recorder := activityapp.NewRecorder(activityLogRepo, log)
	eventBus.Subscribe(recorder)

	log.Info("Event handlers registered",
		zap.Strings("notifier_events", notifier.EventTypes()),
		zap.String("activity_recorder", "all events"),
	)

	// Start event bus
	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	// Initialize due-soon scanner (if enabled)
	if cfg.Scheduler.Enabled {
		runner := scheduler.NewRunner(cfg.Scheduler.ScanInterval, cfg.Scheduler.JobTimeout, log)
		runner.Register(notificationapp.NewDueSoonScanner(taskRepo, notificationService, counter, cfg.Scheduler.DueSoonWindow, log))
		if err := runner.Start(context.Background()); err != nil {
			log.Fatal("Failed to start scheduler", zap.Error(err))
		}
		defer func() {
			stopCtx, stopCancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer stopCancel()
			if err := runner.Stop(stopCtx); err != nil {
				log.Error("Error stopping scheduler", zap.Error(err))
			}
		}()
		log.Info("Due-soon scanning enabled",
			zap.Duration("window", cfg.Scheduler.DueSoonWindow),
		)
	}

	// Initialize HTTP handlers
	authHandler := handler.NewAuthHandler(authService)
	projectHandler := handler.NewProjectHandler(projectService)
	taskHandler := handler.NewTaskHandler(taskService)
	teamHandler := handler.NewTeamHandler(teamService)
	tagHandler := handler.NewTagHandler(tagService)
	timeLogHandler := handler.NewTimeLogHandler(timeLogService)
	attachmentHandler := handler.NewAttachmentHandler(attachmentService)
	notificationHandler := handler.NewNotificationHandler(notificationService)
	activityHandler := handler.NewActivityHandler(activityService)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Report binding failures by JSON field name
	middleware.SetupValidator()

	// Initialize router with custom middleware
	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Apply middleware stack in order:
	// 1. RequestID - Generate/propagate request ID
	// 2. Recovery - Catch panics
	// 3. Logger - Log requests
	// 4. Security - Add security headers
	// 5. CORS - Handle cross-origin requests
	// 6. BodyLimit - Limit request body size
	// 7. RateLimit - Apply rate limiting (if enabled)
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	// Configure CORS from config
	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	// Body size limit
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	// Rate limiting (if enabled)
	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler(db, log))

	// Swagger documentation endpoint
	if cfg.Swagger.Enabled {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// Setup API routes using router
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	// Apply authentication middleware to API routes
	// Configure skip paths for public endpoints
	authConfig := middleware.AuthConfig{
		Tokens: tokens,
		SkipPaths: []string{
			"/api/v1/auth/register",
			"/api/v1/auth/login",
			"/api/v1/ping",
		},
		SkipPathPrefixes: []string{
			"/swagger",
		},
		Logger: log,
	}
	r.Use(middleware.AuthWithConfig(authConfig))

	// Auth domain (registration, login, current user)
	authRoutes := router.NewDomainGroup("auth", "/auth")
	authRoutes.POST("/register", authHandler.Register)
	authRoutes.POST("/login", authHandler.Login)
	authRoutes.GET("/me", authHandler.Me)

	// Project domain (projects, membership, milestone rollup)
	projectRoutes := router.NewDomainGroup("projects", "/projects")
	projectRoutes.GET("", projectHandler.List)
	projectRoutes.POST("", projectHandler.Create)
	projectRoutes.GET("/:id", projectHandler.GetByID)
	projectRoutes.PUT("/:id", projectHandler.Update)
	projectRoutes.DELETE("/:id", projectHandler.Delete)
	projectRoutes.GET("/:id/tasks", taskHandler.ListByProject)
	projectRoutes.GET("/:id/milestones", projectHandler.ListMilestones)
	projectRoutes.GET("/:id/members", projectHandler.ListMembers)
	projectRoutes.POST("/:id/members", projectHandler.AddMember)
	projectRoutes.DELETE("/:id/members/:user_id", projectHandler.RemoveMember)

	// Task domain (tasks plus their tag, time-log and attachment subresources)
	taskRoutes := router.NewDomainGroup("tasks", "/tasks")
	taskRoutes.GET("", taskHandler.List)
	taskRoutes.POST("", taskHandler.Create)
	taskRoutes.GET("/:id", taskHandler.GetByID)
	taskRoutes.PUT("/:id", taskHandler.Update)
	taskRoutes.DELETE("/:id", taskHandler.Delete)
	taskRoutes.GET("/:id/tags", tagHandler.ListByTask)
	taskRoutes.PUT("/:id/tags", tagHandler.SetTaskTags)
	taskRoutes.POST("/:id/tags/:tag_id", tagHandler.AddTagToTask)
	taskRoutes.DELETE("/:id/tags/:tag_id", tagHandler.RemoveTagFromTask)
	taskRoutes.GET("/:id/time-logs", timeLogHandler.ListByTask)
	taskRoutes.GET("/:id/attachments", attachmentHandler.ListByTask)
	taskRoutes.POST("/:id/attachments", attachmentHandler.Upload)

	// Team domain (teams and membership)
	teamRoutes := router.NewDomainGroup("teams", "/teams")
	teamRoutes.GET("", teamHandler.List)
	teamRoutes.POST("", teamHandler.Create)
	teamRoutes.GET("/:id", teamHandler.GetByID)
	teamRoutes.PUT("/:id", teamHandler.Update)
	teamRoutes.DELETE("/:id", teamHandler.Delete)
	teamRoutes.GET("/:id/members", teamHandler.ListMembers)
	teamRoutes.POST("/:id/members", teamHandler.AddMember)

	// Tag domain (shared labels)
	tagRoutes := router.NewDomainGroup("tags", "/tags")
	tagRoutes.GET("", tagHandler.List)
	tagRoutes.POST("", tagHandler.Create)
	tagRoutes.GET("/:id", tagHandler.GetByID)
	tagRoutes.PUT("/:id", tagHandler.Update)
	tagRoutes.DELETE("/:id", tagHandler.Delete)

	// Time tracking domain
	timeLogRoutes := router.NewDomainGroup("time-logs", "/time-logs")
	timeLogRoutes.GET("", timeLogHandler.ListMine)
	timeLogRoutes.POST("", timeLogHandler.Create)
	timeLogRoutes.GET("/:id", timeLogHandler.GetByID)
	timeLogRoutes.PUT("/:id", timeLogHandler.Update)
	timeLogRoutes.DELETE("/:id", timeLogHandler.Delete)

	// Per-user time log listing (admin or self)
	userRoutes := router.NewDomainGroup("users", "/users")
	userRoutes.GET("/:user_id/time-logs", timeLogHandler.ListByUser)

	// Attachment content (download and delete by attachment id)
	attachmentRoutes := router.NewDomainGroup("attachments", "/attachments")
	attachmentRoutes.GET("/:id", attachmentHandler.Download)
	attachmentRoutes.DELETE("/:id", attachmentHandler.Delete)

	// Activity timeline
	activityRoutes := router.NewDomainGroup("activities", "/activities")
	activityRoutes.GET("", activityHandler.List)

	// Notification domain
	notificationRoutes := router.NewDomainGroup("notifications", "/notifications")
	notificationRoutes.GET("", notificationHandler.List)
	notificationRoutes.GET("/unread-count", notificationHandler.UnreadCount)
	notificationRoutes.PUT("/read-all", notificationHandler.MarkAllRead)
	notificationRoutes.PUT("/:id/read", notificationHandler.MarkRead)
	notificationRoutes.DELETE("/:id", notificationHandler.Delete)

	// Register all domain groups
	r.Register(authRoutes).
		Register(projectRoutes).
		Register(taskRoutes).
		Register(teamRoutes).
		Register(tagRoutes).
		Register(timeLogRoutes).
		Register(userRoutes).
		Register(attachmentRoutes).
		Register(activityRoutes).
		Register(notificationRoutes)

	// Setup routes
	r.Setup()

	// Also keep a simple ping at root API level for basic health checks
	engine.GET("/api/v1/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// healthHandler returns a handler for health check endpoints
func healthHandler(db *persistence.Database, _ *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLog := logger.GetGinLogger(c)
		if err := db.Ping(); err != nil {
			reqLog.Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}
