package service

import (
	"errors"

	"github.com/sirupsen/logrus" // Logging library
	"gorm.io/gorm"               // GORM ORM library

	"regional_ecommerce/internal/domain" // Domain models
)

// CartLine is one cart row joined with the live product it references.
type CartLine struct {
	CartItemID uint    `json:"cart_item_id"` // Cart row ID
	ProductID  uint    `json:"product_id"`   // Referenced product ID
	Name       string  `json:"name"`         // Product name
	UnitPrice  float64 `json:"unit_price"`   // Current product price
	Quantity   int     `json:"quantity"`     // Requested units
	LineTotal  float64 `json:"line_total"`   // UnitPrice * Quantity
}

// CartView is a detached snapshot of a user's cart with totals applied.
type CartView struct {
	Lines    []CartLine `json:"lines"`    // Cart rows in insertion order
	Subtotal float64    `json:"subtotal"` // Sum of line totals before tax
	Tax      float64    `json:"tax"`      // Subtotal * tax rate
	Total    float64    `json:"total"`    // Subtotal + Tax
}

// CartService mutates a customer's pending cart against live stock.
type CartService struct {
	db      *gorm.DB // Persistent store
	taxRate float64  // Configured sales tax fraction
}

// NewCartService builds a CartService over the given store.
func NewCartService(db *gorm.DB, taxRate float64) *CartService {
	return &CartService{db: db, taxRate: taxRate}
}

// Add puts quantity units of a product into the caller's cart. If the product
// is already in the cart the quantities are summed, and the combined quantity
// is re-checked against stock before anything is written.
func (s *CartService) Add(id Identity, productID uint, quantity int) error {
	if !id.Authenticated() {
		return ErrUnauthorized
	}
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	// Product must exist and be active
	var product domain.Product
	if err := s.db.Where("id = ? AND is_active = ?", productID, true).First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProductUnavailable
		}
		return err
	}
	// Requested quantity must not exceed stock
	if product.StockQuantity < quantity {
		return &InsufficientStockError{Available: product.StockQuantity}
	}
	// If the product is already in the cart, sum the quantities
	var item domain.CartItem
	err := s.db.Where("user_id = ? AND product_id = ?", id.UserID, productID).First(&item).Error
	switch {
	case err == nil:
		newQuantity := item.Quantity + quantity
		// The combined quantity is re-checked against stock
		if newQuantity > product.StockQuantity {
			return &InsufficientStockError{Available: product.StockQuantity}
		}
		if err := s.db.Model(&item).Update("quantity", newQuantity).Error; err != nil {
			return err
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		item = domain.CartItem{UserID: id.UserID, ProductID: productID, Quantity: quantity}
		if err := s.db.Create(&item).Error; err != nil {
			return err
		}
	default:
		return err
	}
	// Log the cart mutation
	logrus.WithFields(logrus.Fields{
		"user_id":    id.UserID,
		"product_id": productID,
		"quantity":   quantity,
	}).Info("Item added to cart")
	return nil
}

// Update sets the quantity of a cart row owned by the caller. A non-positive
// quantity removes the row instead.
func (s *CartService) Update(id Identity, cartItemID uint, quantity int) error {
	if !id.Authenticated() {
		return ErrUnauthorized
	}
	if quantity <= 0 {
		return s.Remove(id, cartItemID)
	}
	// The row must belong to the caller
	var item domain.CartItem
	if err := s.db.Where("id = ? AND user_id = ?", cartItemID, id.UserID).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	// New quantity must not exceed current stock
	var product domain.Product
	if err := s.db.First(&product, item.ProductID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProductUnavailable
		}
		return err
	}
	if quantity > product.StockQuantity {
		return &InsufficientStockError{Available: product.StockQuantity}
	}
	return s.db.Model(&item).Update("quantity", quantity).Error
}

// Remove deletes a cart row owned by the caller.
func (s *CartService) Remove(id Identity, cartItemID uint) error {
	if !id.Authenticated() {
		return ErrUnauthorized
	}
	var item domain.CartItem
	if err := s.db.Where("id = ? AND user_id = ?", cartItemID, id.UserID).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return s.db.Delete(&item).Error
}

// Clear deletes every cart row owned by the caller. Clearing an empty cart is
// a no-op, not an error.
func (s *CartService) Clear(id Identity) error {
	if !id.Authenticated() {
		return ErrUnauthorized
	}
	return s.db.Where("user_id = ?", id.UserID).Delete(&domain.CartItem{}).Error
}

// View returns the caller's cart joined with product names and prices, plus
// subtotal, tax, and grand total. An empty cart yields an empty view.
func (s *CartService) View(id Identity) (CartView, error) {
	if !id.Authenticated() {
		return CartView{}, ErrUnauthorized
	}
	var lines []CartLine
	err := s.db.Table("cart_items").
		Select("cart_items.id AS cart_item_id, cart_items.product_id, products.name, products.price AS unit_price, cart_items.quantity").
		Joins("JOIN products ON products.id = cart_items.product_id").
		Where("cart_items.user_id = ?", id.UserID).
		Order("cart_items.id").
		Scan(&lines).Error
	if err != nil {
		return CartView{}, err
	}
	// Totals are taxed on the raw subtotal, the same computation checkout
	// uses, so the previewed total always matches the charged amount
	view := CartView{Lines: lines}
	subtotal := 0.0
	for i := range view.Lines {
		raw := view.Lines[i].UnitPrice * float64(view.Lines[i].Quantity)
		view.Lines[i].LineTotal = Round2(raw)
		subtotal += raw
	}
	view.Subtotal = Round2(subtotal)
	view.Tax = Round2(subtotal * s.taxRate)
	view.Total = Round2(subtotal * (1 + s.taxRate))
	return view, nil
}
