package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"sharppicks/internal/auth"
	"sharppicks/internal/config"
	"sharppicks/internal/database"
	"sharppicks/internal/espn"
	"sharppicks/internal/handlers"
	"sharppicks/internal/hub"
	"sharppicks/internal/jobs"
	"sharppicks/internal/odds"
	"sharppicks/internal/openai"
	"sharppicks/internal/pickcache"
	"sharppicks/internal/services"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize JWT
	auth.InitJWT(cfg.App.JWTSecret)

	// Connect to database
	if err := database.Connect(cfg.GetDSN()); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.AutoMigrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Data sources
	feed := espn.NewClient()
	aiClient := openai.NewClient(cfg.OpenAI.APIKey, cfg.OpenAI.Model)
	oddsStore := odds.NewStore(cfg.Data.OddsDir)
	pickCache := pickcache.NewCache(cfg.Data.PicksDir)

	// Admin alert fan-out
	alertHub := hub.NewHub()
	hubCtx, hubCancel := context.WithCancel(context.Background())
	defer hubCancel()
	go alertHub.Run(hubCtx)

	// Initialize services
	authService := services.NewAuthService(database.GetDB(), cfg.App.DefaultParlayLimit)
	userService := services.NewUserService(database.GetDB())
	quotaService := services.NewQuotaService(database.GetDB())
	notificationService := services.NewNotificationService(database.GetDB(), alertHub)
	predictorService := services.NewPredictorService(aiClient, feed, oddsStore, pickCache, cfg.App.ScheduleLookaheadDays)
	parlayService := services.NewParlayService(predictorService, oddsStore)
	requestService := services.NewRequestService(database.GetDB(), quotaService, notificationService, predictorService)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService, userService)
	picksHandler := handlers.NewPicksHandler(predictorService, parlayService, oddsStore, pickCache)
	requestHandler := handlers.NewRequestHandler(requestService, userService)
	notificationHandler := handlers.NewNotificationHandler(notificationService, alertHub)
	userHandler := handlers.NewUserHandler(database.GetDB())

	// Start the data refresh scheduler (also warms the caches)
	cronService := jobs.SetupCron(oddsStore, pickCache)
	defer cronService.Stop()
	log.Println("Data refresh scheduler started")

	// Set up Gin router
	router := gin.Default()

	// CORS middleware
	allowedOrigins := []string{
		"http://localhost:3000",
		"http://localhost:5173", // Vite dev server
		"http://127.0.0.1:3000",
		"http://127.0.0.1:5173",
	}
	if cfg.App.FrontendURL != "" {
		allowedOrigins = append(allowedOrigins, cfg.App.FrontendURL)
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// Public auth routes
	authRoutes := router.Group("/auth")
	{
		authRoutes.POST("/register", authHandler.Register)
		authRoutes.POST("/login", authHandler.Login)
	}

	authProtected := router.Group("/auth")
	authProtected.Use(auth.AuthMiddleware())
	{
		authProtected.GET("/me", authHandler.GetMe)
		authProtected.POST("/logout", authHandler.Logout)
	}

	// Protected API routes
	api := router.Group("/api")
	api.Use(auth.AuthMiddleware())
	{
		// Recommendations
		api.GET("/best-pick/:sport", picksHandler.GetBestPick)
		api.GET("/upcoming-games/:sport", picksHandler.GetUpcomingGames)
		api.GET("/todays-games/:sport", picksHandler.GetTodaysGames)
		api.POST("/analyze-game", picksHandler.AnalyzeGame)
		api.POST("/generate-parlay", picksHandler.GenerateParlay)

		// Pick requests
		api.POST("/request-pick", requestHandler.Submit)

		// Notifications
		api.GET("/notifications", notificationHandler.ListForUser)
		api.POST("/notifications/:id/read", notificationHandler.MarkRead)
	}

	// Admin routes (protected + admin only)
	admin := router.Group("/api/admin")
	admin.Use(auth.AuthMiddleware())
	admin.Use(userHandler.AdminMiddleware())
	{
		// Request queue
		admin.GET("/requests", requestHandler.List)
		admin.POST("/requests/:id/fulfill", requestHandler.Fulfill)
		admin.POST("/requests/:id/reject", requestHandler.Reject)

		// User management
		admin.GET("/users", userHandler.ListUsers)
		admin.POST("/users", userHandler.CreateUser)
		admin.GET("/users/:id", userHandler.GetUser)
		admin.PUT("/users/:id/membership", userHandler.UpdateMembership)
		admin.PUT("/users/:id/parlay-limit", userHandler.UpdateParlayLimit)
		admin.PUT("/users/:id/active", userHandler.SetActive)
		admin.POST("/users/:id/reset-limits", userHandler.ResetLimits)
		admin.DELETE("/users/:id", userHandler.DeleteUser)

		// Alerts
		admin.GET("/alerts", notificationHandler.ListAlerts)
		admin.POST("/alerts/:id/read", notificationHandler.MarkAlertRead)
		admin.DELETE("/alerts", notificationHandler.ClearAlerts)

		// Data refresh
		admin.POST("/reload", picksHandler.Reload)
	}

	// Live admin alert feed
	router.GET("/ws/admin/alerts", auth.AuthMiddleware(), userHandler.AdminMiddleware(), notificationHandler.AlertFeed)

	// Create HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Server starting on port %s", cfg.Server.Port)
		log.Printf("Health check: http://localhost:%s/health", cfg.Server.Port)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	// Graceful shutdown with 5 second timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}
