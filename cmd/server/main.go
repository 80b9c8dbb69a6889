package main

import (
	"context"                                 // context package is needed for Redis operations
	"log"                                     // log package is needed for logging
	"regional_ecommerce/internal/api"         // Custom package for API handlers
	"regional_ecommerce/internal/config"      // Custom package for configuration
	"regional_ecommerce/internal/middleware"  // Custom package for middleware
	"regional_ecommerce/internal/service"     // Custom package for core services

	// For loading .env files
	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logrus for structured logging
	"gorm.io/driver/mysql"         // MySQL driver for GORM
	"gorm.io/gorm"                 // GORM ORM library
)

// Main function to set up and run the server
func main() {
	cfg := config.LoadConfig() // Load configuration

	// Setup logger
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	// Setup Data Source Name (DSN) and connect to the database
	dsn := cfg.DBUser + ":" + cfg.DBPassword + "@tcp(" + cfg.DBHost + ":" + cfg.DBPort + ")/" + cfg.DBName + "?parseTime=true"
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err) // Fatal error if DB connection fails
	}

	// Setup Redis client
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr, // Redis server address
		Password: cfg.RedisPass, // Redis password
		DB:       cfg.RedisDB,   // Redis database number
	})

	// Test Redis connection
	_, err = redisClient.Ping(context.Background()).Result()
	if err != nil {
		logrus.Fatalf("failed to connect to Redis: %v", err)
	}

	// Set Mode to Release if in production
	if cfg.IsProd {
		gin.SetMode(gin.ReleaseMode)
	}

	// Core services over the shared store
	cartService := service.NewCartService(db, cfg.TaxRate)
	checkoutService := service.NewCheckoutService(db, cfg.TaxRate)
	orderService := service.NewOrderService(db)
	catalogService := service.NewCatalogService(db)

	// Setup Gin
	r := gin.Default() // Gin router instance

	// Set trusted proxies for Gin
	if err := r.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		logrus.Fatalf("failed to set trusted proxies: %v", err)
	}

	// Auth routes
	r.POST("/auth/register", api.RegisterHandler(db, cfg.JWTSecret)) // Registration endpoint
	r.POST("/auth/login", api.LoginHandler(db, cfg.JWTSecret))       // Login endpoint

	// Public catalog routes
	r.GET("/products", api.ListProductsHandler(catalogService, redisClient)) // Browse products endpoint
	r.GET("/products/search", api.SearchProductsHandler(catalogService))     // Search products endpoint

	// Customer routes (protected by JWT)
	authGroup := r.Group("")
	// Protect routes with JWT middleware and inject Redis client into context
	authGroup.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret), func(c *gin.Context) {
		c.Set("redisClient", redisClient)
		c.Next()
	})
	authGroup.POST("/cart", api.AddToCartHandler(cartService))              // Add to cart endpoint
	authGroup.GET("/cart", api.ViewCartHandler(cartService))                // View cart endpoint
	authGroup.PUT("/cart/:id", api.UpdateCartItemHandler(cartService))      // Update cart line endpoint
	authGroup.DELETE("/cart/:id", api.RemoveCartItemHandler(cartService))   // Remove cart line endpoint
	authGroup.DELETE("/cart", api.ClearCartHandler(cartService))            // Clear cart endpoint
	authGroup.POST("/checkout", api.CheckoutHandler(checkoutService))       // Checkout endpoint
	authGroup.GET("/orders", api.ListOrdersHandler(orderService, redisClient)) // Order history endpoint
	authGroup.GET("/orders/:id", api.OrderDetailsHandler(orderService))     // Order details endpoint

	// Merchant routes (protected, merchants only)
	merchantGroup := r.Group("/merchant")
	// Protect merchant routes with JWT and MerchantOnly middleware
	merchantGroup.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret), middleware.MerchantOnlyMiddleware(db), func(c *gin.Context) {
		c.Set("redisClient", redisClient)
		c.Next()
	})
	merchantGroup.POST("/business", api.CreateBusinessHandler(catalogService))          // Create business endpoint
	merchantGroup.GET("/business", api.MyBusinessHandler(catalogService))               // Get business endpoint
	merchantGroup.POST("/products", api.CreateProductHandler(catalogService))           // Create product endpoint
	merchantGroup.PUT("/products/:id", api.UpdateProductHandler(catalogService))        // Update product endpoint
	merchantGroup.DELETE("/products/:id", api.DeactivateProductHandler(catalogService)) // Deactivate product endpoint
	merchantGroup.GET("/orders", api.MerchantOrdersHandler(orderService))               // Merchant orders endpoint
	merchantGroup.GET("/orders/:id", api.MerchantOrderDetailsHandler(orderService))     // Merchant order details endpoint
	merchantGroup.PUT("/orders/:id/status", api.UpdateOrderStatusHandler(orderService)) // Update order status endpoint

	log.Println("Server running on " + cfg.AppPort) // Log server start
	r.Run(":" + cfg.AppPort)                        // Start the server on port cfg.AppPort
}
