package domain

import "time"

// OrderStatus is a free-form label on an order. Any status can be set from any
// other status via the merchant status update, there is no enforced transition
// graph.
type OrderStatus string

// Order statuses
const (
	OrderStatusPending   OrderStatus = "pending"   // Created at checkout, awaiting payment
	OrderStatusPaid      OrderStatus = "paid"      // Payment received
	OrderStatusShipped   OrderStatus = "shipped"   // Handed to the carrier
	OrderStatusDelivered OrderStatus = "delivered" // Received by the customer
	OrderStatusCancelled OrderStatus = "cancelled" // Cancelled by a merchant
)

// ValidOrderStatus reports whether s is one of the known statuses.
func ValidOrderStatus(s OrderStatus) bool {
	switch s {
	case OrderStatusPending, OrderStatusPaid, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// Order Model
type Order struct {
	ID              uint        `gorm:"primaryKey"`       // Primary key
	UserID          uint        `gorm:"index;not null"`   // Foreign key to the buying User
	TotalAmount     float64     `gorm:"not null"`         // Tax-inclusive total, fixed at checkout
	Status          OrderStatus `gorm:"size:20;default:pending"` // Only mutable field, set by authorized merchants
	ShippingAddress string      `gorm:"type:text"`        // Delivery address captured at checkout
	CreatedAt       time.Time   // Timestamp of checkout
	Items           []OrderItem `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"` // Line items, deleted with the order
}
