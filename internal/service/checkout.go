package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus" // Logging library
	"gorm.io/gorm"               // GORM ORM library
	"gorm.io/gorm/clause"        // Row locking clause for checkout

	"regional_ecommerce/internal/domain" // Domain models
)

// OrderSummary is a detached snapshot of an order header.
type OrderSummary struct {
	OrderID     uint               `json:"order_id"`     // Order ID
	TotalAmount float64            `json:"total_amount"` // Tax-inclusive total
	Status      domain.OrderStatus `json:"status"`       // Current status
	CreatedAt   time.Time          `json:"created_at"`   // Checkout timestamp
}

// CheckoutService converts a cart into an immutable order.
type CheckoutService struct {
	db      *gorm.DB // Persistent store
	taxRate float64  // Configured sales tax fraction
}

// NewCheckoutService builds a CheckoutService over the given store.
func NewCheckoutService(db *gorm.DB, taxRate float64) *CheckoutService {
	return &CheckoutService{db: db, taxRate: taxRate}
}

// Checkout atomically converts the caller's cart into an order. Every cart
// line is revalidated against current product state inside the transaction;
// if any line fails, the whole operation aborts with the aggregated reasons
// and nothing is written. On success the order and its items are created,
// stock is decremented, and the cart is emptied, all in one transaction.
func (s *CheckoutService) Checkout(id Identity, shippingAddress string) (OrderSummary, error) {
	if !id.Authenticated() {
		return OrderSummary{}, ErrUnauthorized
	}
	var summary OrderSummary
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var items []domain.CartItem
		if err := tx.Where("user_id = ?", id.UserID).Order("id").Find(&items).Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return ErrEmptyCart
		}

		// Revalidate every line against current product state. All failures
		// are collected so the customer sees every problem at once.
		type pricedLine struct {
			item    domain.CartItem
			product domain.Product
		}
		var reasons []string
		lines := make([]pricedLine, 0, len(items))
		subtotal := 0.0
		for _, item := range items {
			var product domain.Product
			if err := s.lockProduct(tx).First(&product, item.ProductID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					reasons = append(reasons, fmt.Sprintf("product #%d is no longer available", item.ProductID))
					continue
				}
				return err
			}
			if !product.IsActive {
				reasons = append(reasons, fmt.Sprintf("%s is no longer available", product.Name))
				continue
			}
			if product.StockQuantity < item.Quantity {
				reasons = append(reasons, fmt.Sprintf("%s has only %d available", product.Name, product.StockQuantity))
				continue
			}
			subtotal += product.Price * float64(item.Quantity)
			lines = append(lines, pricedLine{item: item, product: product})
		}
		if len(reasons) > 0 {
			// Returning the error rolls back the transaction, so no partial
			// order exists
			return &CheckoutValidationError{Reasons: reasons}
		}

		// Create the order with the tax-inclusive total
		order := domain.Order{
			UserID:          id.UserID,
			TotalAmount:     Round2(subtotal * (1 + s.taxRate)),
			Status:          domain.OrderStatusPending,
			ShippingAddress: shippingAddress,
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}
		// One order item per cart line, snapshotting the price at this
		// moment, and deduct the stock
		for _, l := range lines {
			orderItem := domain.OrderItem{
				OrderID:     order.ID,
				ProductID:   l.product.ID,
				Quantity:    l.item.Quantity,
				PriceAtTime: l.product.Price,
			}
			if err := tx.Create(&orderItem).Error; err != nil {
				return err
			}
			if err := tx.Model(&domain.Product{}).Where("id = ?", l.product.ID).
				Update("stock_quantity", gorm.Expr("stock_quantity - ?", l.item.Quantity)).Error; err != nil {
				return err
			}
		}
		// The cart is fully consumed
		if err := tx.Where("user_id = ?", id.UserID).Delete(&domain.CartItem{}).Error; err != nil {
			return err
		}
		summary = OrderSummary{
			OrderID:     order.ID,
			TotalAmount: order.TotalAmount,
			Status:      order.Status,
			CreatedAt:   order.CreatedAt,
		}
		return nil
	})
	if err != nil {
		// Storage failures and validation failures alike arrive here with
		// the transaction already rolled back
		logrus.WithFields(logrus.Fields{
			"user_id": id.UserID,
			"error":   err.Error(),
		}).Warn("Checkout failed")
		return OrderSummary{}, err
	}
	// Log the successful checkout
	logrus.WithFields(logrus.Fields{
		"user_id":      id.UserID,
		"order_id":     summary.OrderID,
		"total_amount": summary.TotalAmount,
	}).Info("Checkout completed")
	return summary, nil
}

// lockProduct adds SELECT ... FOR UPDATE on dialects that support it, so two
// concurrent checkouts cannot both pass stock validation against stale
// counts. SQLite serializes writers on its own and rejects the clause.
func (s *CheckoutService) lockProduct(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}
