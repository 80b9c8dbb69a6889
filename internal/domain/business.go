package domain

// Business Model
type Business struct {
	ID           uint      `gorm:"primaryKey"`          // Primary key
	OwnerID      uint      `gorm:"uniqueIndex;not null"` // Foreign key to the merchant User, one business per merchant
	Name         string    `gorm:"size:100;not null"`    // Business name
	Description  string    `gorm:"type:text"`            // Free-form description
	ContactEmail string    `gorm:"size:100"`             // Public contact address
	Products     []Product `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"` // Catalog, deleted with the business
}
