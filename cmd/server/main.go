package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	credentialapp "github.com/ticketflow/backend/internal/application/credential"
	identityapp "github.com/ticketflow/backend/internal/application/identity"
	ticketapp "github.com/ticketflow/backend/internal/application/ticket"
	"github.com/ticketflow/backend/internal/infrastructure/auth"
	"github.com/ticketflow/backend/internal/infrastructure/config"
	"github.com/ticketflow/backend/internal/infrastructure/jira"
	"github.com/ticketflow/backend/internal/infrastructure/llm"
	"github.com/ticketflow/backend/internal/infrastructure/logger"
	"github.com/ticketflow/backend/internal/infrastructure/persistence"
	"github.com/ticketflow/backend/internal/interfaces/http/handler"
	"github.com/ticketflow/backend/internal/interfaces/http/middleware"
	"github.com/ticketflow/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting ticketflow backend",
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
	modelCredRepo := persistence.NewGormModelCredentialRepository(db.DB)
	jiraCredRepo := persistence.NewGormJiraCredentialRepository(db.DB)
	projectConfigRepo := persistence.NewGormProjectConfigRepository(db.DB)

	// Token blacklist: Redis in production, in-memory fallback elsewhere
	var blacklist auth.TokenBlacklist
	redisBlacklist, err := auth.NewRedisTokenBlacklist(auth.RedisTokenBlacklistConfig{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		if cfg.App.Env == "production" {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		log.Warn("Redis unavailable, using in-memory token blacklist", zap.Error(err))
		blacklist = auth.NewMemoryTokenBlacklist()
	} else {
		blacklist = redisBlacklist
		log.Info("Redis token blacklist connected")
	}

	// Vendor clients. Per-user secrets are passed per call, never stored here.
	llmClient := llm.NewClient(cfg.LLM.BaseURL, cfg.LLM.RequestTimeout)
	jiraClient := jira.NewClient(cfg.Jira.RequestTimeout)

	// Application services
	jwtService := auth.NewJWTService(cfg.JWT)
	authService := identityapp.NewAuthService(userRepo, jwtService, blacklist, log)
	credentialService := credentialapp.NewService(modelCredRepo, jiraCredRepo, log)
	projectConfigService := credentialapp.NewProjectConfigService(jiraCredRepo, projectConfigRepo, jiraClient, log)
	generatorService := ticketapp.NewGeneratorService(modelCredRepo, llmClient, log)
	publisherService := ticketapp.NewPublisherService(jiraCredRepo, jiraClient, log)

	// HTTP handlers
	authHandler := handler.NewAuthHandler(authService)
	credentialHandler := handler.NewCredentialHandler(credentialService, projectConfigService)
	ticketHandler := handler.NewTicketHandler(generatorService, publisherService)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Report JSON field names in validation errors
	middleware.SetupValidator()

	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Middleware stack: request ID, recovery, request logging, CORS, body
	// limit, then rate limiting
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	engine.Use(middleware.CORSWithConfig(corsConfig))

	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	// Health check endpoint (outside API versioning, no auth)
	engine.GET("/health", healthHandler(db))

	// Setup API routes
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	jwtConfig := middleware.JWTMiddlewareConfig{
		JWTService:     jwtService,
		TokenBlacklist: blacklist,
		SkipPaths: []string{
			"/api/v1/auth/register",
			"/api/v1/auth/login",
			"/api/v1/auth/refresh",
		},
		Logger: log,
	}
	r.Use(middleware.JWTAuthMiddlewareWithConfig(jwtConfig))

	// Auth routes (register/login/refresh are public via skip paths)
	authRoutes := router.NewDomainGroup("auth", "/auth")
	authRoutes.POST("/register", authHandler.Register)
	authRoutes.POST("/login", authHandler.Login)
	authRoutes.POST("/refresh", authHandler.RefreshToken)
	authRoutes.POST("/logout", authHandler.Logout)

	// Stored vendor credentials
	credentialRoutes := router.NewDomainGroup("credentials", "/credentials")
	credentialRoutes.POST("/model", credentialHandler.SaveModelCredential)
	credentialRoutes.GET("/model", credentialHandler.ListModelCredentials)
	credentialRoutes.DELETE("/model/:id", credentialHandler.DeleteModelCredential)
	credentialRoutes.PUT("/jira", credentialHandler.SaveJiraCredential)
	credentialRoutes.GET("/jira", credentialHandler.GetJiraCredential)
	credentialRoutes.DELETE("/jira", credentialHandler.DeleteJiraCredential)
	credentialRoutes.GET("/jira/project-config", credentialHandler.GetProjectConfig)

	// Document processing and publishing pipeline
	documentRoutes := router.NewDomainGroup("documents", "/documents")
	documentRoutes.POST("/process", ticketHandler.ProcessDocument)

	ticketRoutes := router.NewDomainGroup("tickets", "/tickets")
	ticketRoutes.POST("/publish", ticketHandler.Publish)

	r.Register(authRoutes).
		Register(credentialRoutes).
		Register(documentRoutes).
		Register(ticketRoutes)

	r.Setup()

	// Create HTTP server with config
	srv := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      engine,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
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
func healthHandler(db *persistence.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLog := logger.FromGin(c)
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
