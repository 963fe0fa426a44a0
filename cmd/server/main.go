package main

import (
	"log"

	"github.com/gin-gonic/gin"

	"github.com/anonrelay/backend/config"
	"github.com/anonrelay/backend/internal/auth"
	"github.com/anonrelay/backend/internal/cache"
	"github.com/anonrelay/backend/internal/database"
	"github.com/anonrelay/backend/internal/handlers"
	"github.com/anonrelay/backend/internal/middleware"
	"github.com/anonrelay/backend/internal/notify"
	"github.com/anonrelay/backend/internal/profanity"
	"github.com/anonrelay/backend/internal/queue"
	"github.com/anonrelay/backend/internal/registry"
	"github.com/anonrelay/backend/internal/repository"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Connect to database
	db, err := database.NewPostgresDB(cfg.GetDSN())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Run migrations
	log.Println("Running database migrations...")
	if err := database.RunMigrations(db.DB); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Migrations completed successfully")

	// Connect to Redis
	redis, err := cache.NewRedisClient(cfg.GetRedisAddr(), cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		log.Printf("Warning: Failed to connect to Redis: %v", err)
		log.Println("Running without Redis - events and traffic counters will be limited")
		redis = nil
	} else {
		defer redis.Close()
	}

	// Initialize services
	jwtService := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpiryHours)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	modRepo := repository.NewModerationRepository(db)
	lexRepo := repository.NewLexiconRepository(db)

	// Initialize domain services
	matcher, err := profanity.NewMatcher(lexRepo, cfg.Moderation.SeverityThreshold)
	if err != nil {
		log.Fatalf("Failed to initialize profanity matcher: %v", err)
	}

	reg, err := registry.New(userRepo, matcher,
		cfg.Moderation.NameMinLen, cfg.Moderation.NameMaxLen, cfg.Moderation.ProfileCacheSize)
	if err != nil {
		log.Fatalf("Failed to initialize user registry: %v", err)
	}

	modQueue := queue.New(modRepo,
		cfg.Moderation.QueueCeiling, cfg.Moderation.SubmitterQuota, cfg.Moderation.RetentionDays)

	sessions := registry.NewSessions()

	// Initialize handlers
	submissionHandler := handlers.NewSubmissionHandler(matcher, reg, modQueue, sessions, redis, cfg.Channel.ID)
	queueHandler := handlers.NewQueueHandler(modQueue, reg, redis, cfg.Channel.ID)
	profileHandler := handlers.NewProfileHandler(reg, sessions)
	lexiconHandler := handlers.NewLexiconHandler(matcher)
	statsHandler := handlers.NewStatsHandler(modQueue, reg, redis)

	// Initialize reviewer event stream (only if Redis is available)
	var notifyHandler *notify.Handler
	if redis != nil {
		hub := notify.NewHub(redis)
		go hub.Run()
		notifyHandler = notify.NewHandler(hub, jwtService, cfg.IsAdmin)
	}

	// Initialize rate limiter
	rateLimiter := middleware.NewRateLimiter(cfg.API.RateLimitMessagesPerSec)
	rateLimiter.Cleanup()

	// Setup Gin router
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Reviewer event stream (only if Redis is available)
	if notifyHandler != nil {
		router.GET("/ws/review", notifyHandler.HandleWebSocket)
	}

	// Protected routes
	api := router.Group("/api/v1")
	api.Use(middleware.AuthMiddleware(jwtService))
	{
		// Submission routes
		api.POST("/screen", submissionHandler.Screen)
		api.POST("/submissions", middleware.RateLimitMiddleware(rateLimiter), submissionHandler.Submit)

		// Profile routes
		api.GET("/me", profileHandler.GetMe)
		api.POST("/me/display-name", profileHandler.SetDisplayName)
		api.POST("/me/display-name/session", profileHandler.BeginNameSession)
		api.DELETE("/me/display-name/session", profileHandler.CancelNameSession)

		// Admin routes
		admin := api.Group("/")
		admin.Use(middleware.AdminOnly(cfg.Moderation.AdminIDs))
		{
			// Review queue
			admin.GET("/queue", queueHandler.ListPending)
			admin.POST("/queue/:id/decision", queueHandler.Decide)
			admin.POST("/queue/decide-all", queueHandler.DecideAll)
			admin.POST("/queue/purge", queueHandler.Purge)

			// User management
			admin.POST("/users/:id/ban", profileHandler.Ban)
			admin.DELETE("/users/:id/ban", profileHandler.Unban)

			// Lexicon management
			admin.GET("/lexicon/:language", lexiconHandler.ListWords)
			admin.POST("/lexicon/:language/words", lexiconHandler.AddWord)
			admin.DELETE("/lexicon/:language/words/:word", lexiconHandler.RemoveWord)

			// Stats
			admin.GET("/stats", statsHandler.GetStats)
		}
	}

	// Start server
	log.Printf("Server starting on port %s", cfg.Server.Port)
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
