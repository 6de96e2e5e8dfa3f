package main

import (
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"artist-marketplace-server/config"
	"artist-marketplace-server/database"
	"artist-marketplace-server/jobs"
	"artist-marketplace-server/middleware"
	"artist-marketplace-server/routes"
	"artist-marketplace-server/services"
	ws "artist-marketplace-server/websocket"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	// Load configuration
	config.Load()

	// Initialize database (runs migrations)
	if err := database.Initialize(); err != nil {
		log.Fatal("Failed to initialize database:", err)
	}

	// Optional demo data
	if os.Getenv("SEED_DEMO_DATA") == "true" {
		if err := seedDemoUsers(); err != nil {
			log.Printf("⚠️ Demo data seeding failed: %v", err)
		}
	}

	// Set Gin mode
	if config.AppConfig.Server.GinMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create router
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// Disable automatic redirects for trailing slashes
	router.RedirectTrailingSlash = false
	router.RedirectFixedPath = false

	// Security middleware stack
	router.Use(middleware.SecurityHeadersMiddleware())
	router.Use(middleware.InputValidationMiddleware())
	router.Use(middleware.RateLimitMiddleware())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.AuditLogMiddleware())

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Artist Marketplace Server is running",
			"time":    time.Now().UTC(),
		})
	})

	// Presence tracking and the websocket hub
	presence := services.NewPresenceService()
	hub := ws.NewHub(presence)
	go hub.Run()

	// Wire route handler services
	routes.Init(hub, presence)

	// API routes
	api := router.Group("/api/v1")
	{
		// Auth routes get stricter rate limiting
		authBase := api.Group("")
		authBase.Use(middleware.AuthRateLimitMiddleware())
		routes.RegisterAuthRoutes(authBase)

		routes.RegisterBookingRoutes(api)
		routes.RegisterPaymentRoutes(api)
		routes.RegisterNotificationRoutes(api)
		routes.RegisterChatRoutes(api)
		routes.RegisterArtistRoutes(api)
		routes.RegisterReviewRoutes(api)
		routes.RegisterAdminRoutes(api)
	}

	// Background jobs
	completionJob := jobs.NewCompletionJob(services.NewNotificationService(hub))
	completionJob.Start()
	defer completionJob.Stop()

	// Periodic cleanup of expired refresh tokens
	go func() {
		jwtService := services.NewJWTService()
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()
		for range ticker.C {
			if err := jwtService.CleanupExpiredTokens(); err != nil {
				log.Printf("⚠️ Token cleanup failed: %v", err)
			}
		}
	}()

	port := config.AppConfig.Server.Port
	log.Printf("🚀 Artist Marketplace Server listening on port %s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
