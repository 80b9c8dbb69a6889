package service

import (
	"errors"
	"time"

	"github.com/sirupsen/logrus" // Logging library
	"gorm.io/gorm"               // GORM ORM library

	"regional_ecommerce/internal/domain" // Domain models
)

// OrderLine is one order item joined with its product name.
type OrderLine struct {
	ProductID   uint    `json:"product_id"`    // Referenced product ID
	Name        string  `json:"name"`          // Product name at query time
	Quantity    int     `json:"quantity"`      // Units bought
	PriceAtTime float64 `json:"price_at_time"` // Unit price snapshotted at checkout
	LineTotal   float64 `json:"line_total"`    // PriceAtTime * Quantity
}

// OrderDetails is a customer's full view of one of their orders.
type OrderDetails struct {
	OrderSummary
	ShippingAddress string      `json:"shipping_address"` // Delivery address
	Lines           []OrderLine `json:"lines"`            // All line items
}

// MerchantOrderDetails is a merchant's partial view of an order: only the
// line items belonging to their business, with the merchant's partial total.
// The order's grand total may include other merchants' items and is not
// exposed here.
type MerchantOrderDetails struct {
	OrderID       uint               `json:"order_id"`       // Order ID
	Status        domain.OrderStatus `json:"status"`         // Current status
	CreatedAt     time.Time          `json:"created_at"`     // Checkout timestamp
	Lines         []OrderLine        `json:"lines"`          // Only this business's items
	MerchantTotal float64            `json:"merchant_total"` // Sum over this business's items, before tax
}

// StatusChange records a status transition applied to an order. CustomerID
// identifies the buyer so callers can drop any per-user state keyed on them.
type StatusChange struct {
	OrderID    uint               `json:"order_id"` // Order ID
	CustomerID uint               `json:"-"`        // Buyer of the order, not exposed to merchants
	From       domain.OrderStatus `json:"from"`     // Status before the update
	To         domain.OrderStatus `json:"to"`       // Status after the update
}

// OrderService answers scoped order queries and applies merchant status
// updates.
type OrderService struct {
	db *gorm.DB // Persistent store
}

// NewOrderService builds an OrderService over the given store.
func NewOrderService(db *gorm.DB) *OrderService {
	return &OrderService{db: db}
}

// List returns the caller's own orders, newest first.
func (s *OrderService) List(id Identity) ([]OrderSummary, error) {
	if !id.Authenticated() {
		return nil, ErrUnauthorized
	}
	var summaries []OrderSummary
	err := s.db.Table("orders").
		Select("orders.id AS order_id, orders.total_amount, orders.status, orders.created_at").
		Where("orders.user_id = ?", id.UserID).
		Order("orders.created_at DESC, orders.id DESC").
		Scan(&summaries).Error
	return summaries, err
}

// Details returns one of the caller's orders with its line items. An order
// belonging to another user is reported as not found, never as forbidden, so
// order IDs leak no existence information.
func (s *OrderService) Details(id Identity, orderID uint) (OrderDetails, error) {
	if !id.Authenticated() {
		return OrderDetails{}, ErrUnauthorized
	}
	var order domain.Order
	if err := s.db.Where("id = ? AND user_id = ?", orderID, id.UserID).First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return OrderDetails{}, ErrNotFound
		}
		return OrderDetails{}, err
	}
	lines, err := s.orderLines(orderID, 0)
	if err != nil {
		return OrderDetails{}, err
	}
	return OrderDetails{
		OrderSummary: OrderSummary{
			OrderID:     order.ID,
			TotalAmount: order.TotalAmount,
			Status:      order.Status,
			CreatedAt:   order.CreatedAt,
		},
		ShippingAddress: order.ShippingAddress,
		Lines:           lines,
	}, nil
}

// MerchantOrders returns the distinct orders containing at least one item
// from the given business's catalog. The caller must own the business.
func (s *OrderService) MerchantOrders(id Identity, businessID uint) ([]OrderSummary, error) {
	if err := s.requireBusinessOwner(id, businessID); err != nil {
		return nil, err
	}
	var summaries []OrderSummary
	err := s.db.Table("orders").
		Select("DISTINCT orders.id AS order_id, orders.total_amount, orders.status, orders.created_at").
		Joins("JOIN order_items ON order_items.order_id = orders.id").
		Joins("JOIN products ON products.id = order_items.product_id").
		Where("products.business_id = ?", businessID).
		Order("orders.created_at DESC, orders.id DESC").
		Scan(&summaries).Error
	return summaries, err
}

// MerchantOrderDetails returns the subset of an order's items that belong to
// the given business, with the merchant's partial total. Orders with no
// overlap with the catalog are reported as not found.
func (s *OrderService) MerchantOrderDetails(id Identity, orderID, businessID uint) (MerchantOrderDetails, error) {
	if err := s.requireBusinessOwner(id, businessID); err != nil {
		return MerchantOrderDetails{}, err
	}
	var order domain.Order
	if err := s.db.First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return MerchantOrderDetails{}, ErrNotFound
		}
		return MerchantOrderDetails{}, err
	}
	lines, err := s.orderLines(orderID, businessID)
	if err != nil {
		return MerchantOrderDetails{}, err
	}
	if len(lines) == 0 {
		return MerchantOrderDetails{}, ErrNotFound
	}
	details := MerchantOrderDetails{
		OrderID:   order.ID,
		Status:    order.Status,
		CreatedAt: order.CreatedAt,
		Lines:     lines,
	}
	for _, l := range lines {
		details.MerchantTotal += l.LineTotal
	}
	details.MerchantTotal = Round2(details.MerchantTotal)
	return details, nil
}

// UpdateStatus overwrites an order's status. The caller must be a merchant
// whose business owns at least one product in the order. No transition graph
// is enforced: any status can replace any other, including moves like
// delivered back to pending.
func (s *OrderService) UpdateStatus(id Identity, orderID uint, newStatus domain.OrderStatus) (StatusChange, error) {
	if !id.Authenticated() {
		return StatusChange{}, ErrUnauthorized
	}
	if !domain.ValidOrderStatus(newStatus) {
		return StatusChange{}, ErrInvalidInput
	}
	// The caller must own a business
	var business domain.Business
	if err := s.db.Where("owner_id = ?", id.UserID).First(&business).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return StatusChange{}, ErrForbidden
		}
		return StatusChange{}, err
	}
	var order domain.Order
	if err := s.db.First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return StatusChange{}, ErrNotFound
		}
		return StatusChange{}, err
	}
	// The order must contain at least one of the business's products
	var overlap int64
	err := s.db.Table("order_items").
		Joins("JOIN products ON products.id = order_items.product_id").
		Where("order_items.order_id = ? AND products.business_id = ?", orderID, business.ID).
		Count(&overlap).Error
	if err != nil {
		return StatusChange{}, err
	}
	if overlap == 0 {
		return StatusChange{}, ErrForbidden
	}
	change := StatusChange{OrderID: order.ID, CustomerID: order.UserID, From: order.Status, To: newStatus}
	if err := s.db.Model(&order).Update("status", newStatus).Error; err != nil {
		return StatusChange{}, err
	}
	// Log the status transition
	logrus.WithFields(logrus.Fields{
		"order_id":    order.ID,
		"business_id": business.ID,
		"from":        change.From,
		"to":          change.To,
	}).Info("Order status updated")
	return change, nil
}

// requireBusinessOwner checks that the identity owns the business.
func (s *OrderService) requireBusinessOwner(id Identity, businessID uint) error {
	if !id.Authenticated() {
		return ErrUnauthorized
	}
	var business domain.Business
	if err := s.db.First(&business, businessID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrForbidden
		}
		return err
	}
	if business.OwnerID != id.UserID {
		return ErrForbidden
	}
	return nil
}

// orderLines loads an order's items joined with product names. A zero
// businessID loads every line; otherwise lines are restricted to that
// business's products.
func (s *OrderService) orderLines(orderID, businessID uint) ([]OrderLine, error) {
	q := s.db.Table("order_items").
		Select("order_items.product_id, products.name, order_items.quantity, order_items.price_at_time").
		Joins("JOIN products ON products.id = order_items.product_id").
		Where("order_items.order_id = ?", orderID).
		Order("order_items.id")
	if businessID != 0 {
		q = q.Where("products.business_id = ?", businessID)
	}
	var lines []OrderLine
	if err := q.Scan(&lines).Error; err != nil {
		return nil, err
	}
	for i := range lines {
		lines[i].LineTotal = Round2(lines[i].PriceAtTime * float64(lines[i].Quantity))
	}
	return lines, nil
}
