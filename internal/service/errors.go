package service

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors returned by the services. Handlers map these onto HTTP
// statuses; the messages are safe to show to end users.
var (
	ErrUnauthorized       = errors.New("not logged in")                     // No authenticated identity
	ErrForbidden          = errors.New("merchant access required")          // Authenticated but not allowed
	ErrNotFound           = errors.New("not found")                         // Absent or not owned by the caller
	ErrInvalidQuantity    = errors.New("quantity must be a positive number") // Non-positive or malformed quantity
	ErrInvalidInput       = errors.New("invalid input")                     // Other malformed input
	ErrProductUnavailable = errors.New("product not found or unavailable")  // Missing or inactive product
	ErrEmptyCart          = errors.New("your cart is empty")                // Checkout with nothing in the cart
	ErrBusinessExists     = errors.New("you already have a business")       // Second business for one merchant
)

// InsufficientStockError is returned when a requested quantity exceeds what a
// product has in stock. Available carries the current stock so callers can
// report it.
type InsufficientStockError struct {
	Available int // Units currently in stock
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("not enough stock. Available: %d", e.Available)
}

// CheckoutValidationError aggregates every cart line that failed revalidation
// during checkout. If any line fails, no order is created at all.
type CheckoutValidationError struct {
	Reasons []string // One human-readable reason per failing line
}

func (e *CheckoutValidationError) Error() string {
	return "checkout failed: " + strings.Join(e.Reasons, "; ")
}
