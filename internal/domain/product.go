package domain

// Product Model
type Product struct {
	ID            uint    `gorm:"primaryKey"`        // Primary key
	BusinessID    uint    `gorm:"index;not null"`    // Foreign key to the owning Business
	Name          string  `gorm:"size:100;not null"` // Product name
	Description   string  `gorm:"type:text"`         // Free-form description
	Price         float64 `gorm:"not null"`          // Unit price, must be positive on creation
	StockQuantity int     `gorm:"not null;default:0"` // Units in stock, never negative
	Category      string  `gorm:"size:50;index"`      // Category used for browsing and search
	IsActive      bool    `gorm:"not null;default:true"` // Inactive products are hidden and cannot be bought
}
