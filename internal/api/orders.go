package api

import (
	"context"  // Context for Redis operations
	"net/http" // HTTP status codes
	"strconv"  // String conversion
	"time"     // Time durations

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client

	"regional_ecommerce/internal/service" // Core services
	"regional_ecommerce/internal/utils"   // Utility functions
)

// ListOrdersHandler returns the caller's order history, cached for 60 seconds
func ListOrdersHandler(orders *service.OrderService, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := identityFromContext(c) // Get identity from context
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		ctx := context.Background()               // Context for Redis operations
		cacheKey := utils.OrderListKey(id.UserID) // Cache key for this user
		var cached []service.OrderSummary
		found, err := utils.GetCache(ctx, rdb, cacheKey, &cached) // Try the cache first
		if err == nil && found {
			// Return cached order history
			c.JSON(http.StatusOK, gin.H{"orders": cached, "cached": true})
			return
		}
		// If not cached, fetch from the store
		summaries, err := orders.List(id)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		_ = utils.SetCache(ctx, rdb, cacheKey, summaries, 60*time.Second) // Cache for 60 seconds
		c.JSON(http.StatusOK, gin.H{"orders": summaries, "cached": false})
	}
}

// OrderDetailsHandler returns one of the caller's orders with its line items
func OrderDetailsHandler(orders *service.OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := identityFromContext(c) // Get identity from context
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		orderID, err := strconv.ParseUint(c.Param("id"), 10, 64) // Parse the order ID
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID"})
			return
		}
		// Foreign orders come back as not found, never forbidden
		details, err := orders.Details(id, uint(orderID))
		if err != nil {
			respondServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, details)
	}
}
