package domain

// OrderItem Model. Rows are written once at checkout and never updated;
// PriceAtTime keeps the historical order total correct even if the product
// price changes later.
type OrderItem struct {
	ID          uint    `gorm:"primaryKey"`     // Primary key
	OrderID     uint    `gorm:"index;not null"` // Foreign key to the owning Order
	ProductID   uint    `gorm:"index;not null"` // Foreign key to the referenced Product
	Quantity    int     `gorm:"not null"`       // Units bought
	PriceAtTime float64 `gorm:"not null"`       // Unit price at the moment of checkout
}
