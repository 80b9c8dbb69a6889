package api

import (
	"context"  // Context for Redis operations
	"net/http" // HTTP status codes
	"time"     // Time durations

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client

	"regional_ecommerce/internal/service" // Core services
	"regional_ecommerce/internal/utils"   // Utility functions
)

// ListProductsHandler returns every active product, cached for 60 seconds
func ListProductsHandler(catalog *service.CatalogService, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := context.Background() // Context for Redis operations
		var cached []service.ProductView
		found, err := utils.GetCache(ctx, rdb, utils.CatalogKey, &cached) // Try the cache first
		if err == nil && found {
			// Return cached catalog
			c.JSON(http.StatusOK, gin.H{"products": cached, "cached": true})
			return
		}
		// If not cached, fetch from the store
		products, err := catalog.ListProducts()
		if err != nil {
			respondServiceError(c, err)
			return
		}
		_ = utils.SetCache(ctx, rdb, utils.CatalogKey, products, 60*time.Second) // Cache for 60 seconds
		c.JSON(http.StatusOK, gin.H{"products": products, "cached": false})
	}
}

// SearchProductsHandler returns active products matching ?q= by name or category
func SearchProductsHandler(catalog *service.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		products, err := catalog.SearchProducts(c.Query("q")) // Search by query string
		if err != nil {
			respondServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"products": products})
	}
}

// invalidateCatalogCache drops the cached catalog listing after a mutation
func invalidateCatalogCache(c *gin.Context) {
	if rdb, ok := c.MustGet("redisClient").(*redis.Client); ok {
		_ = utils.DeleteCache(context.Background(), rdb, utils.CatalogKey)
	}
}
