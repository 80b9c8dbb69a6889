package api

import (
	"context"  // Context for Redis operations
	"net/http" // HTTP status codes
	"strconv"  // String conversion

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client

	"regional_ecommerce/internal/service" // Core services
	"regional_ecommerce/internal/utils"   // Utility functions
)

// Request struct for adding a product to the cart
type AddToCartRequest struct {
	ProductID uint `json:"product_id" binding:"required"` // Product to add
	Quantity  int  `json:"quantity" binding:"required"`   // Units to add
}

// Request struct for updating a cart line
type UpdateCartItemRequest struct {
	Quantity int `json:"quantity"` // New quantity; zero or less removes the line
}

// Request struct for checkout
type CheckoutRequest struct {
	ShippingAddress string `json:"shipping_address" binding:"required"` // Delivery address
}

// AddToCartHandler puts a product into the caller's cart
func AddToCartHandler(cart *service.CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := identityFromContext(c) // Get identity from context
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		var req AddToCartRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		// Delegate to the cart service
		if err := cart.Add(id, req.ProductID, req.Quantity); err != nil {
			respondServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Item added to cart"})
	}
}

// ViewCartHandler returns the caller's cart with subtotal, tax, and total
func ViewCartHandler(cart *service.CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := identityFromContext(c) // Get identity from context
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		view, err := cart.View(id) // Fetch the cart snapshot
		if err != nil {
			respondServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, view)
	}
}

// UpdateCartItemHandler changes the quantity of one cart line
func UpdateCartItemHandler(cart *service.CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := identityFromContext(c) // Get identity from context
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		itemID, err := strconv.ParseUint(c.Param("id"), 10, 64) // Parse the cart line ID
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid cart item ID"})
			return
		}
		var req UpdateCartItemRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		// Delegate to the cart service; non-positive quantities remove the line
		if err := cart.Update(id, uint(itemID), req.Quantity); err != nil {
			respondServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Cart updated"})
	}
}

// RemoveCartItemHandler deletes one cart line
func RemoveCartItemHandler(cart *service.CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := identityFromContext(c) // Get identity from context
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		itemID, err := strconv.ParseUint(c.Param("id"), 10, 64) // Parse the cart line ID
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid cart item ID"})
			return
		}
		// Delegate to the cart service
		if err := cart.Remove(id, uint(itemID)); err != nil {
			respondServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Item removed from cart"})
	}
}

// ClearCartHandler deletes every cart line owned by the caller
func ClearCartHandler(cart *service.CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := identityFromContext(c) // Get identity from context
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		// Clearing an empty cart succeeds as a no-op
		if err := cart.Clear(id); err != nil {
			respondServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Cart cleared"})
	}
}

// CheckoutHandler converts the caller's cart into an order
func CheckoutHandler(checkout *service.CheckoutService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := identityFromContext(c) // Get identity from context
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		var req CheckoutRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Shipping address is required"})
			return
		}
		// Run the atomic cart-to-order conversion
		summary, err := checkout.Checkout(id, req.ShippingAddress)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		// Checkout changed stock levels and the caller's order history, so
		// drop both caches
		if rdb, ok := c.MustGet("redisClient").(*redis.Client); ok {
			ctx := context.Background()
			_ = utils.DeleteCache(ctx, rdb, utils.CatalogKey)
			_ = utils.DeleteCache(ctx, rdb, utils.OrderListKey(id.UserID))
		}
		c.JSON(http.StatusCreated, gin.H{"order": summary})
	}
}
