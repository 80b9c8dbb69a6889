package api

import (
	"context"  // Context for Redis operations
	"net/http" // HTTP status codes
	"strconv"  // String conversion

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client

	"regional_ecommerce/internal/domain"  // Domain models
	"regional_ecommerce/internal/service" // Core services
	"regional_ecommerce/internal/utils"   // Utility functions
)

// Request struct for creating a business
type CreateBusinessRequest struct {
	Name         string `json:"name" binding:"required"` // Business name
	Description  string `json:"description"`             // Free-form description
	ContactEmail string `json:"contact_email"`           // Public contact address
}

// Request struct for updating an order's status
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"` // New status label
}

// CreateBusinessHandler registers the caller's business
func CreateBusinessHandler(catalog *service.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := identityFromContext(c) // Get identity from context
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		var req CreateBusinessRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		// One business per merchant
		business, err := catalog.CreateBusiness(id, req.Name, req.Description, req.ContactEmail)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"business": business})
	}
}

// MyBusinessHandler returns the caller's business
func MyBusinessHandler(catalog *service.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := identityFromContext(c) // Get identity from context
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		business, err := catalog.MyBusiness(id) // Fetch the business
		if err != nil {
			respondServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"business": business})
	}
}

// CreateProductHandler adds a product to the caller's catalog
func CreateProductHandler(catalog *service.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := identityFromContext(c) // Get identity from context
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		var input service.ProductInput // Bind JSON request to the service input
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		product, err := catalog.CreateProduct(id, input) // Create under the caller's business
		if err != nil {
			respondServiceError(c, err)
			return
		}
		invalidateCatalogCache(c) // The public listing changed
		c.JSON(http.StatusCreated, gin.H{"product": product})
	}
}

// UpdateProductHandler rewrites a product in the caller's catalog
func UpdateProductHandler(catalog *service.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := identityFromContext(c) // Get identity from context
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		productID, err := strconv.ParseUint(c.Param("id"), 10, 64) // Parse the product ID
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
			return
		}
		var input service.ProductInput // Bind JSON request to the service input
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		product, err := catalog.UpdateProduct(id, uint(productID), input) // Scoped to the caller's business
		if err != nil {
			respondServiceError(c, err)
			return
		}
		invalidateCatalogCache(c) // The public listing changed
		c.JSON(http.StatusOK, gin.H{"product": product})
	}
}

// DeactivateProductHandler hides a product from browsing and new cart adds
func DeactivateProductHandler(catalog *service.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := identityFromContext(c) // Get identity from context
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		productID, err := strconv.ParseUint(c.Param("id"), 10, 64) // Parse the product ID
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
			return
		}
		// Soft-disable so historical order items keep resolving
		if err := catalog.DeactivateProduct(id, uint(productID)); err != nil {
			respondServiceError(c, err)
			return
		}
		invalidateCatalogCache(c) // The public listing changed
		c.JSON(http.StatusOK, gin.H{"message": "Product deactivated"})
	}
}

// MerchantOrdersHandler lists the orders intersecting the caller's catalog
func MerchantOrdersHandler(orders *service.OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := identityFromContext(c) // Get identity from context
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		businessID, err := strconv.ParseUint(c.Query("business_id"), 10, 64) // Parse the business ID
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid business ID"})
			return
		}
		// Only orders containing at least one of the business's products
		summaries, err := orders.MerchantOrders(id, uint(businessID))
		if err != nil {
			respondServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"orders": summaries})
	}
}

// MerchantOrderDetailsHandler returns the caller's slice of one order
func MerchantOrderDetailsHandler(orders *service.OrderService) gin.HandlerFunc {
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
		businessID, err := strconv.ParseUint(c.Query("business_id"), 10, 64) // Parse the business ID
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid business ID"})
			return
		}
		// Only the line items belonging to this business, with the partial total
		details, err := orders.MerchantOrderDetails(id, uint(orderID), uint(businessID))
		if err != nil {
			respondServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, details)
	}
}

// UpdateOrderStatusHandler overwrites an order's status
func UpdateOrderStatusHandler(orders *service.OrderService) gin.HandlerFunc {
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
		var req UpdateStatusRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Status is required"})
			return
		}
		// Authorization happens in the service: the caller's business must
		// have a product in the order
		change, err := orders.UpdateStatus(id, uint(orderID), domain.OrderStatus(req.Status))
		if err != nil {
			respondServiceError(c, err)
			return
		}
		// The buyer's cached order history still shows the old status, so
		// drop their key
		if rdb, ok := c.MustGet("redisClient").(*redis.Client); ok {
			_ = utils.DeleteCache(context.Background(), rdb, utils.OrderListKey(change.CustomerID))
		}
		c.JSON(http.StatusOK, gin.H{"order_id": change.OrderID, "from": change.From, "to": change.To})
	}
}
