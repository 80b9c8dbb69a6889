package domain

// CartItem Model
type CartItem struct {
	ID        uint `gorm:"primaryKey"`     // Primary key
	UserID    uint `gorm:"index;not null"` // Foreign key to the owning User
	ProductID uint `gorm:"index;not null"` // Foreign key to the referenced Product
	Quantity  int  `gorm:"not null"`       // Requested units, always positive
}
