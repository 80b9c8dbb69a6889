package domain

import "time"

// UserRole distinguishes shoppers from business owners
type UserRole string

// User roles
const (
	RoleCustomer UserRole = "customer" // Regular customer
	RoleMerchant UserRole = "merchant" // Business owner
)

// User Model
type User struct {
	ID           uint       `gorm:"primaryKey"`               // Primary key
	Username     string     `gorm:"size:50;unique;not null"`  // Unique username
	Email        string     `gorm:"size:100;unique;not null"` // Unique email address
	PasswordHash string     `gorm:"size:128;not null"`        // Bcrypt password hash
	Role         UserRole   `gorm:"size:20;default:customer"` // Role: customer or merchant
	CreatedAt    time.Time  // Timestamp of registration
	Business     *Business  `gorm:"foreignKey:OwnerID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"` // One-to-one relationship with Business (merchants only)
	CartItems    []CartItem `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`                    // Pending cart lines, deleted with the user
	Orders       []Order    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`                    // Order history, deleted with the user
}
