package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"user_auth_api/internal/config"
	"user_auth_api/internal/handler"
	"user_auth_api/internal/mailer"
	"user_auth_api/internal/middleware"
	"user_auth_api/internal/repository"
	"user_auth_api/internal/service"
	"user_auth_api/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found or error loading, relying on environment variables")
	}

	// --- Configuration ---
	dbCfg, err := config.LoadDBConfig()
	if err != nil {
		log.Fatalf("Failed to load DB config: %v", err)
	}

	appCfg, err := config.LoadAppConfig()
	if err != nil {
		log.Fatalf("Failed to load app config: %v", err)
	}

	// --- Database Connection ---
	dbPool, err := config.ConnectDB(dbCfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer dbPool.Close()

	// --- Auto Migration ---
	if err := config.AutoMigrate(dbPool); err != nil {
		log.Fatalf("Failed to auto-migrate database: %v", err)
	}

	// --- Initialize Utilities ---
	jwtUtil := utils.NewJWTUtil(appCfg.JWTSecret, appCfg.JWTExpiration)
	smtpMailer := mailer.NewSMTPMailer(appCfg.SMTPHost, appCfg.SMTPPort, appCfg.SMTPUser, appCfg.SMTPPassword, appCfg.EmailFrom)

	// --- Initialize Repositories ---
	userRepo := repository.NewUserRepository(dbPool)
	historyRepo := repository.NewTokenHistoryRepository(dbPool)

	// --- Initialize Services ---
	authService := service.NewAuthService(userRepo, historyRepo, jwtUtil)
	resetService := service.NewPasswordResetService(userRepo, historyRepo, smtpMailer, appCfg.ResetBaseURL, appCfg.ResetCodeTTL, appCfg.ResetCooldown)
	profileService := service.NewProfileService(userRepo, historyRepo)
	historyService := service.NewTokenHistoryService(userRepo, historyRepo)

	// --- Initialize Handlers ---
	authHandler := handler.NewAuthHandler(authService, resetService)
	profileHandler := handler.NewProfileHandler(profileService)
	historyHandler := handler.NewTokenHistoryHandler(historyService)

	// --- Setup Gin Router ---
	// gin.SetMode(gin.ReleaseMode) // Uncomment for production
	router := gin.Default()

	// Simple CORS middleware (allow all for development)
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, PATCH, DELETE")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})

	// --- Initialize Middlewares ---
	jwtAuthMW := middleware.JWTAuthMiddleware(jwtUtil)
	adminRoleMW := middleware.AdminMiddleware()

	// --- Register Routes ---
	apiGroup := router.Group("/api/v1")
	authHandler.RegisterAuthRoutes(apiGroup, jwtAuthMW)
	profileHandler.RegisterProfileRoutes(apiGroup, jwtAuthMW)
	historyHandler.RegisterTokenHistoryRoutes(apiGroup, jwtAuthMW, adminRoleMW)

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		if err := dbPool.Ping(context.Background()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error", "db": "unhealthy"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "db": "healthy"})
	})

	// --- Start Server ---
	srv := &http.Server{
		Addr:    ":" + appCfg.ServerPort,
		Handler: router,
	}

	go func() {
		log.Printf("Server starting on port %s", appCfg.ServerPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
