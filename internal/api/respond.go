package api

import (
	"errors"   // Error inspection
	"net/http" // HTTP status codes

	"github.com/gin-gonic/gin" // Gin web framework

	"regional_ecommerce/internal/domain"  // Domain models
	"regional_ecommerce/internal/service" // Core services
)

// identityFromContext rebuilds the service Identity from what the JWT
// middleware stored in the gin context.
func identityFromContext(c *gin.Context) (service.Identity, bool) {
	userID, exists := c.Get("userID") // Get userID from context
	if !exists {
		return service.Identity{}, false
	}
	role, _ := c.Get("userRole") // Role claim, may be absent on old tokens
	roleStr, _ := role.(string)
	return service.Identity{
		UserID: userID.(uint),
		Role:   domain.UserRole(roleStr),
	}, true
}

// respondServiceError maps a service error onto an HTTP status and JSON body
func respondServiceError(c *gin.Context, err error) {
	var stockErr *service.InsufficientStockError
	var checkoutErr *service.CheckoutValidationError
	switch {
	case errors.Is(err, service.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrProductUnavailable):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidQuantity),
		errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, service.ErrEmptyCart),
		errors.Is(err, service.ErrBusinessExists):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.As(err, &stockErr):
		// Carry the available amount so the client can adjust the quantity
		c.JSON(http.StatusConflict, gin.H{"error": stockErr.Error(), "available": stockErr.Available})
	case errors.As(err, &checkoutErr):
		// Every failing cart line is reported at once
		c.JSON(http.StatusConflict, gin.H{"error": "checkout validation failed", "reasons": checkoutErr.Reasons})
	default:
		// Persistence failures are surfaced generically; the unit of work was
		// already rolled back by the service
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong. Please try again."})
	}
}
