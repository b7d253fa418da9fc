package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/voyagehub/booking-backend/internal/cache"
	"github.com/voyagehub/booking-backend/internal/config"
	"github.com/voyagehub/booking-backend/internal/database"
	"github.com/voyagehub/booking-backend/internal/handlers"
	"github.com/voyagehub/booking-backend/internal/middleware"
	"github.com/voyagehub/booking-backend/internal/notify"
	"github.com/voyagehub/booking-backend/internal/services"
	"github.com/voyagehub/booking-backend/pkg/jwt"
)

var (
	version   = "1.0.0"
	buildTime = "unknown"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	logger.Info("Starting VoyageHub Booking Backend")
	logger.Infof("Version: %s, Build Time: %s", version, buildTime)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	logLevel, err := logrus.ParseLevel(cfg.Server.LogLevel)
	if err != nil {
		logger.Warn("Invalid log level, using INFO")
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize database connection
	logger.Info("Connecting to database...")
	db, err := database.NewConnection(cfg.Database)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	logger.Info("Database connection established")

	store := database.NewStore(db)

	// Initialize notification transport
	var publisher services.EventPublisher
	if cfg.Kafka.Enabled {
		producer := notify.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.NotificationsTopic)
		defer producer.Close()
		publisher = producer
		logger.Infof("Kafka producer initialized for topic %s", cfg.Kafka.NotificationsTopic)
	} else {
		logger.Warn("Kafka disabled, notifications will be recorded but not dispatched")
	}

	// Initialize inventory cache
	var redisCache *cache.RedisCache
	if cfg.Redis.Enabled {
		redisCache = cache.NewRedisCache(cfg.Redis)
		defer redisCache.Close()
		logger.Infof("Redis cache initialized at %s", cfg.Redis.Addr)
	} else {
		logger.Warn("Redis disabled, inventory reads go straight to the database")
	}

	// Initialize services
	logger.Info("Initializing services...")
	jwtService := jwt.NewService(cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry)
	notificationService := services.NewNotificationService(store, publisher, logger)
	auditService := services.NewAuditService(store)
	inventoryService := services.NewInventoryService(store, redisCache, logger)
	bookingService := services.NewBookingService(store, notificationService, cfg.Booking, logger)
	paymentService := services.NewPaymentService(store, notificationService, cfg.Booking, logger)

	// Initialize handlers
	bookingHandler := handlers.NewBookingHandler(bookingService, logger)
	paymentHandler := handlers.NewPaymentHandler(paymentService, logger)
	inventoryHandler := handlers.NewInventoryHandler(inventoryService, auditService, logger)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger(logger))

	corsConfig := cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     cfg.CORS.AllowedMethods,
		AllowHeaders:     cfg.CORS.AllowedHeaders,
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	router.Use(cors.New(corsConfig))

	// Health check endpoint
	router.GET("/health", healthCheckHandler(db))

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Inventory catalog (reads are public)
		inventory := v1.Group("/inventory")
		{
			inventory.GET("", inventoryHandler.SearchInventory)
			inventory.GET("/:item_id", inventoryHandler.GetInventoryItem)

			inventoryAdmin := inventory.Group("")
			inventoryAdmin.Use(middleware.AuthMiddleware(jwtService), middleware.RequireRole("admin"))
			{
				inventoryAdmin.POST("", inventoryHandler.CreateInventoryItem)
				inventoryAdmin.PATCH("/:item_id/availability", inventoryHandler.SetInventoryAvailability)
			}
		}

		// Booking routes (all protected)
		bookings := v1.Group("/bookings")
		bookings.Use(middleware.AuthMiddleware(jwtService))
		{
			bookings.POST("", bookingHandler.CreateBooking)
			bookings.GET("", bookingHandler.ListBookings)
			bookings.GET("/:booking_id", bookingHandler.GetBooking)
			bookings.PATCH("/:booking_id/status", bookingHandler.UpdateBookingStatus)
			bookings.POST("/:booking_id/cancel", bookingHandler.CancelBooking)
			bookings.GET("/:booking_id/audit", bookingHandler.GetBookingAuditTrail)
			bookings.GET("/:booking_id/payments", paymentHandler.GetBookingPayments)
		}

		// Payment routes (all protected)
		payments := v1.Group("/payments")
		payments.Use(middleware.AuthMiddleware(jwtService))
		{
			payments.POST("", paymentHandler.ProcessPayment)
			payments.GET("/:payment_id", paymentHandler.GetPayment)
			payments.PATCH("/:payment_id/status", paymentHandler.UpdatePaymentStatus)
			payments.POST("/:payment_id/refund", paymentHandler.RefundPayment)
		}
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Infof("Server starting on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Errorf("Server forced to shutdown: %v", err)
	}

	logger.Info("Server exited successfully")
}

// requestLogger middleware for logging HTTP requests
func requestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		fields := logrus.Fields{
			"status":     c.Writer.Status(),
			"method":     c.Request.Method,
			"path":       path,
			"query":      query,
			"ip":         c.ClientIP(),
			"latency_ms": time.Since(start).Milliseconds(),
			"user_agent": c.Request.UserAgent(),
		}

		if userCtx, exists := middleware.GetUserContext(c); exists {
			fields["user_id"] = userCtx.UserID
		}

		entry := logger.WithFields(fields)

		switch {
		case len(c.Errors) > 0:
			for i, err := range c.Errors {
				entry = entry.WithField(fmt.Sprintf("error_%d", i), err.Error())
			}
			entry.Error("Request failed with errors")
		case c.Writer.Status() >= 500:
			entry.Error("Request completed with server error")
		case c.Writer.Status() >= 400:
			entry.Warn("Request completed with client error")
		default:
			entry.Info("Request completed")
		}
	}
}

// healthCheckHandler reports service and database health
func healthCheckHandler(db interface{ Ping() error }) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "unhealthy",
				"error":  "database unreachable",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": version,
		})
	}
}
