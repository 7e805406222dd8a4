package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront-backend/configs"
	"storefront-backend/internal/handlers"
	"storefront-backend/internal/middleware"
	"storefront-backend/internal/models"
	"storefront-backend/internal/repositories"
	"storefront-backend/internal/services"
	"storefront-backend/pkg/auth"
	"storefront-backend/pkg/cache"
	"storefront-backend/pkg/database"
	"storefront-backend/pkg/logger"
	"storefront-backend/pkg/messaging"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	config := configs.LoadConfig()

	zlog, err := logger.New(config.Server.Mode)
	if err != nil {
		log.Fatal("Failed to initialise logger:", err)
	}
	defer zlog.Sync()

	// Set Gin mode
	gin.SetMode(config.Server.Mode)

	// Initialize database connections
	db, err := database.NewDatabase(
		config.Database.PostgresURL,
		config.Database.MongoURL,
		config.Database.MongoDBName,
		config.Server.Mode != gin.ReleaseMode,
		zlog,
	)
	if err != nil {
		zlog.Fatal("failed to connect to databases", zap.Error(err))
	}
	defer db.Close()

	// Auto-migrate PostgreSQL tables
	if err := db.AutoMigrate(&models.Order{}, &models.AdminUser{}); err != nil {
		zlog.Fatal("failed to migrate database", zap.Error(err))
	}

	// Initialize Redis cache
	redisCache, err := cache.NewRedisCache(config.Redis.URL, config.Redis.Password, config.Redis.DB, zlog)
	if err != nil {
		zlog.Fatal("failed to connect to Redis", zap.Error(err))
	}
	defer redisCache.Close()

	// Initialize Kafka
	kafkaProducer := messaging.NewKafkaProducer(config.Kafka.Brokers, zlog)
	defer kafkaProducer.Close()
	orderNotifier := messaging.NewKafkaOrderNotifier(kafkaProducer, config.Kafka.OrderTopic)

	jwtManager := auth.NewJWTManager(config.JWT.SecretKey, config.JWT.ExpiryHours, config.JWT.RefreshExpiryDays)

	// Initialize repositories
	cartRepo := repositories.NewRedisCartRepository(redisCache, config.Cart.PersistTTL)
	orderRepo := repositories.NewOrderRepository(db.Postgres)
	adminRepo := repositories.NewAdminRepository(db.Postgres)
	productRepo := repositories.NewProductRepository(db.MongoDB)

	// Cart sessions: one store per session, idle stores evicted from memory
	cartSessions := services.NewCartSessions(cartRepo, zlog)
	janitor := services.NewCartJanitor(cartSessions, config.Cart.JanitorInterval, config.Cart.SessionIdleTimeout, zlog)
	janitor.Start()
	defer janitor.Stop()

	// Initialize services
	productService := services.NewProductService(productRepo, redisCache, zlog)
	cartService := services.NewCartService(cartSessions, productService, zlog)
	checkoutService := services.NewCheckoutService(cartSessions, orderRepo, orderNotifier, zlog)
	adminService := services.NewAdminService(adminRepo, jwtManager, redisCache, zlog)
	sessionService := services.NewSessionService(jwtManager)

	bootstrapCtx, cancelBootstrap := context.WithTimeout(context.Background(), 10*time.Second)
	if err := adminService.EnsureBootstrapAdmin(bootstrapCtx, config.Admin.BootstrapName, config.Admin.BootstrapEmail, config.Admin.BootstrapPassword); err != nil {
		zlog.Error("failed to bootstrap admin account", zap.Error(err))
	}
	cancelBootstrap()

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtManager)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(adminService, sessionService)
	productHandler := handlers.NewProductHandler(productService)
	cartHandler := handlers.NewCartHandler(cartService, checkoutService)
	orderHandler := handlers.NewOrderHandler(checkoutService)

	// Initialize Gin router
	router := gin.New()

	// Global middleware
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.LoggerMiddleware(zlog))
	router.Use(middleware.RecoveryMiddleware(zlog))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "storefront-backend",
		})
	})

	// API routes
	api := router.Group("/api/v1")

	// Register routes
	authHandler.RegisterRoutes(api, authMiddleware)
	productHandler.RegisterRoutes(api, authMiddleware)
	cartHandler.RegisterRoutes(api, authMiddleware)
	orderHandler.RegisterRoutes(api, authMiddleware)

	srv := &http.Server{
		Addr:    ":" + config.Server.Port,
		Handler: router,
	}

	go func() {
		zlog.Info("server starting", zap.String("port", config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zlog.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zlog.Error("server forced to shutdown", zap.Error(err))
	}
}
