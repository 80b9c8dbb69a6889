// Package service implements the transactional core of the platform: cart
// mutation, checkout, and order query/status logic. Every operation takes an
// explicit Identity and returns plain value snapshots detached from any
// database session.
package service

import "regional_ecommerce/internal/domain"

// Identity is the authenticated caller of an operation. A zero UserID means
// the caller is not authenticated.
type Identity struct {
	UserID uint            // Authenticated user ID
	Role   domain.UserRole // Role claimed by the identity provider
}

// Authenticated reports whether the identity belongs to a logged-in user.
func (id Identity) Authenticated() bool {
	return id.UserID != 0
}

// IsMerchant reports whether the identity belongs to a merchant.
func (id Identity) IsMerchant() bool {
	return id.Authenticated() && id.Role == domain.RoleMerchant
}
