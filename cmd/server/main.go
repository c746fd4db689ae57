package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/lattice-hq/sentinel/internal/admin"
	"github.com/lattice-hq/sentinel/internal/auth"
	"github.com/lattice-hq/sentinel/internal/config"
	"github.com/lattice-hq/sentinel/internal/crypto"
	"github.com/lattice-hq/sentinel/internal/database"
	"github.com/lattice-hq/sentinel/internal/dex"
	"github.com/lattice-hq/sentinel/internal/events"
	"github.com/lattice-hq/sentinel/internal/middleware"
	"github.com/lattice-hq/sentinel/internal/profile"
	"github.com/lattice-hq/sentinel/internal/token"
	"github.com/lattice-hq/sentinel/internal/user"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Initialize logger
	var logger *zap.Logger
	if cfg.IsDevelopment() {
		logger, _ = zap.NewDevelopment()
	} else {
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting Sentinel", zap.String("env", cfg.Env))

	// Connect to PostgreSQL
	db, err := database.NewPostgresDB(cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to PostgreSQL", zap.Error(err))
	}
	defer db.Close()
	logger.Info("Connected to PostgreSQL")

	// Connect to Redis
	redisClient, err := database.NewRedisClient(cfg.RedisURL)
	if err != nil {
		logger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()
	logger.Info("Connected to Redis")

	// Event publisher on Redis streams
	publisher, err := events.NewRedisPublisher(redisClient.Client, logger)
	if err != nil {
		logger.Fatal("Failed to create event publisher", zap.Error(err))
	}
	defer publisher.Close()

	// Crypto primitives
	hasher := crypto.NewHasher(crypto.HashParams{
		TimeCost:    cfg.Hash.TimeCost,
		MemoryKiB:   cfg.Hash.MemoryKiB,
		Parallelism: cfg.Hash.Parallelism,
	})
	fieldCipher, err := crypto.NewFieldCipher(cfg.CipherSecret)
	if err != nil {
		logger.Fatal("Failed to create field cipher", zap.Error(err))
	}

	// Token classes and services
	classes := cfg.Token.Classes()
	tokenService := token.NewService()

	userRepo := user.NewRepository(db.DB)
	adminRepo := admin.NewRepository(db.DB)

	authService := auth.NewService(userRepo, tokenService, hasher, classes, publisher, logger)
	adminService := admin.NewService(adminRepo, userRepo, tokenService, hasher, classes)
	profileService := profile.NewService(userRepo, fieldCipher, logger)

	// BSC quote service
	dexClient, err := dex.NewClient(cfg.Blockchain)
	if err != nil {
		logger.Fatal("Failed to create BSC client", zap.Error(err))
	}
	defer dexClient.Close()
	dexService := dex.NewService(dexClient, redisClient.Client, cfg.Blockchain, logger)

	// Initialize handlers
	authHandler := auth.NewHandler(authService)
	adminHandler := admin.NewHandler(adminService)
	profileHandler := profile.NewHandler(profileService)
	dexHandler := dex.NewHandler(dexService, cfg.Blockchain.QuoteStreamPeriod, logger)

	// Set up Gin router
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	allowedOrigins := middleware.ParseAllowedOrigins(cfg.CORS.AllowedOrigins)
	router.Use(middleware.CORS(allowedOrigins))
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.Recovery(logger))
	router.Use(middleware.Logger(logger))
	router.Use(middleware.Metrics())

	// Public routes
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")

	// Auth routes
	authGroup := api.Group("/auth")
	{
		authGroup.POST("/sign-up", authHandler.SignUp)
		authGroup.POST("/sign-in", middleware.SignInMetrics("user"), authHandler.SignIn)
		authGroup.POST("/refresh", authHandler.Refresh)
		authGroup.POST("/password/send-code", authHandler.SendResetCode)
		authGroup.POST("/password/verify-code", authHandler.VerifyResetCode)
		authGroup.POST("/password/reset", authHandler.ResetPassword)

		authGroup.POST("/web-token",
			middleware.Auth(logger, tokenService, classes.UserAccess),
			authHandler.WebToken,
		)
	}

	// Admin routes
	adminGroup := api.Group("/admin")
	{
		adminGroup.POST("/sign-in", middleware.SignInMetrics("admin"), adminHandler.SignIn)

		guarded := adminGroup.Group("")
		guarded.Use(middleware.Auth(logger, tokenService, classes.AdminAccess))
		{
			guarded.PUT("/users/:id/ban", adminHandler.BanUser)
			guarded.DELETE("/users/:id/ban", adminHandler.UnbanUser)
		}
	}

	// Profile routes (user access token required)
	profileGroup := api.Group("/profile")
	profileGroup.Use(middleware.Auth(logger, tokenService, classes.UserAccess))
	{
		profileGroup.GET("", profileHandler.Get)
		profileGroup.PUT("", profileHandler.Update)
	}

	// DEX quote routes
	dexGroup := api.Group("/dex")
	{
		dexGroup.GET("/bsc/:token", dexHandler.Quote)
		dexGroup.GET("/bsc/:token/stream", dexHandler.Stream)
	}

	// Create HTTP server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Starting server", zap.String("port", cfg.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Graceful shutdown with 5 second timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server stopped")
}
