package service

import (
	"errors"
	"strings"

	"github.com/sirupsen/logrus" // Logging library
	"gorm.io/gorm"               // GORM ORM library

	"regional_ecommerce/internal/domain" // Domain models
)

// ProductView is a detached snapshot of one catalog entry.
type ProductView struct {
	ProductID     uint    `json:"product_id"`     // Product ID
	Name          string  `json:"name"`           // Product name
	Description   string  `json:"description"`    // Free-form description
	Price         float64 `json:"price"`          // Unit price
	StockQuantity int     `json:"stock_quantity"` // Units in stock
	Category      string  `json:"category"`       // Browsing category
	BusinessName  string  `json:"business_name"`  // Selling business
}

// ProductInput carries the fields a merchant sets on a product.
type ProductInput struct {
	Name          string  `json:"name"`           // Product name, required
	Description   string  `json:"description"`    // Free-form description
	Price         float64 `json:"price"`          // Unit price, must be positive
	StockQuantity int     `json:"stock_quantity"` // Units in stock, never negative
	Category      string  `json:"category"`       // Browsing category
}

// BusinessView is a detached snapshot of a merchant's business.
type BusinessView struct {
	BusinessID   uint   `json:"business_id"`   // Business ID
	Name         string `json:"name"`          // Business name
	Description  string `json:"description"`   // Free-form description
	ContactEmail string `json:"contact_email"` // Public contact address
}

// CatalogService handles product browsing for everyone and business/product
// management for merchants.
type CatalogService struct {
	db *gorm.DB // Persistent store
}

// NewCatalogService builds a CatalogService over the given store.
func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{db: db}
}

// ListProducts returns every active product ordered by category then name.
func (s *CatalogService) ListProducts() ([]ProductView, error) {
	var products []ProductView
	err := s.db.Table("products").
		Select("products.id AS product_id, products.name, products.description, products.price, products.stock_quantity, products.category, businesses.name AS business_name").
		Joins("JOIN businesses ON businesses.id = products.business_id").
		Where("products.is_active = ?", true).
		Order("products.category, products.name").
		Scan(&products).Error
	return products, err
}

// SearchProducts returns active products whose name or category contains the
// query, case-insensitively.
func (s *CatalogService) SearchProducts(query string) ([]ProductView, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return s.ListProducts()
	}
	pattern := "%" + strings.ToLower(query) + "%"
	var products []ProductView
	err := s.db.Table("products").
		Select("products.id AS product_id, products.name, products.description, products.price, products.stock_quantity, products.category, businesses.name AS business_name").
		Joins("JOIN businesses ON businesses.id = products.business_id").
		Where("products.is_active = ?", true).
		Where("LOWER(products.name) LIKE ? OR LOWER(products.category) LIKE ?", pattern, pattern).
		Order("products.category, products.name").
		Scan(&products).Error
	return products, err
}

// CreateBusiness registers the caller's business. Merchants own exactly one
// business; a second create is rejected.
func (s *CatalogService) CreateBusiness(id Identity, name, description, contactEmail string) (BusinessView, error) {
	if !id.Authenticated() {
		return BusinessView{}, ErrUnauthorized
	}
	if !id.IsMerchant() {
		return BusinessView{}, ErrForbidden
	}
	if strings.TrimSpace(name) == "" {
		return BusinessView{}, ErrInvalidInput
	}
	var existing domain.Business
	if err := s.db.Where("owner_id = ?", id.UserID).First(&existing).Error; err == nil {
		return BusinessView{}, ErrBusinessExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return BusinessView{}, err
	}
	business := domain.Business{
		OwnerID:      id.UserID,
		Name:         name,
		Description:  description,
		ContactEmail: contactEmail,
	}
	if err := s.db.Create(&business).Error; err != nil {
		return BusinessView{}, err
	}
	logrus.WithFields(logrus.Fields{
		"owner_id":    id.UserID,
		"business_id": business.ID,
	}).Info("Business created")
	return businessView(business), nil
}

// MyBusiness returns the caller's business.
func (s *CatalogService) MyBusiness(id Identity) (BusinessView, error) {
	if !id.Authenticated() {
		return BusinessView{}, ErrUnauthorized
	}
	var business domain.Business
	if err := s.db.Where("owner_id = ?", id.UserID).First(&business).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return BusinessView{}, ErrNotFound
		}
		return BusinessView{}, err
	}
	return businessView(business), nil
}

// CreateProduct adds a product to the caller's business.
func (s *CatalogService) CreateProduct(id Identity, input ProductInput) (ProductView, error) {
	business, err := s.callerBusiness(id)
	if err != nil {
		return ProductView{}, err
	}
	if strings.TrimSpace(input.Name) == "" || input.Price <= 0 || input.StockQuantity < 0 {
		return ProductView{}, ErrInvalidInput
	}
	product := domain.Product{
		BusinessID:    business.ID,
		Name:          input.Name,
		Description:   input.Description,
		Price:         Round2(input.Price), // Prices are stored in whole cents
		StockQuantity: input.StockQuantity,
		Category:      input.Category,
		IsActive:      true,
	}
	if err := s.db.Create(&product).Error; err != nil {
		return ProductView{}, err
	}
	logrus.WithFields(logrus.Fields{
		"business_id": business.ID,
		"product_id":  product.ID,
	}).Info("Product created")
	return productView(product, business.Name), nil
}

// UpdateProduct rewrites the mutable fields of a product in the caller's
// catalog. Products outside the caller's business are reported as not found.
func (s *CatalogService) UpdateProduct(id Identity, productID uint, input ProductInput) (ProductView, error) {
	business, err := s.callerBusiness(id)
	if err != nil {
		return ProductView{}, err
	}
	if strings.TrimSpace(input.Name) == "" || input.Price <= 0 || input.StockQuantity < 0 {
		return ProductView{}, ErrInvalidInput
	}
	var product domain.Product
	if err := s.db.Where("id = ? AND business_id = ?", productID, business.ID).First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ProductView{}, ErrNotFound
		}
		return ProductView{}, err
	}
	updates := map[string]any{
		"name":           input.Name,
		"description":    input.Description,
		"price":          Round2(input.Price), // Prices are stored in whole cents
		"stock_quantity": input.StockQuantity,
		"category":       input.Category,
	}
	if err := s.db.Model(&product).Updates(updates).Error; err != nil {
		return ProductView{}, err
	}
	return productView(product, business.Name), nil
}

// DeactivateProduct hides a product from browsing and blocks new cart adds.
// The row stays so historical order items keep resolving to a name.
func (s *CatalogService) DeactivateProduct(id Identity, productID uint) error {
	business, err := s.callerBusiness(id)
	if err != nil {
		return err
	}
	var product domain.Product
	if err := s.db.Where("id = ? AND business_id = ?", productID, business.ID).First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if err := s.db.Model(&product).Update("is_active", false).Error; err != nil {
		return err
	}
	logrus.WithFields(logrus.Fields{
		"business_id": business.ID,
		"product_id":  product.ID,
	}).Info("Product deactivated")
	return nil
}

// callerBusiness loads the caller's business or rejects the call.
func (s *CatalogService) callerBusiness(id Identity) (domain.Business, error) {
	if !id.Authenticated() {
		return domain.Business{}, ErrUnauthorized
	}
	if !id.IsMerchant() {
		return domain.Business{}, ErrForbidden
	}
	var business domain.Business
	if err := s.db.Where("owner_id = ?", id.UserID).First(&business).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Business{}, ErrForbidden
		}
		return domain.Business{}, err
	}
	return business, nil
}

func businessView(b domain.Business) BusinessView {
	return BusinessView{
		BusinessID:   b.ID,
		Name:         b.Name,
		Description:  b.Description,
		ContactEmail: b.ContactEmail,
	}
}

func productView(p domain.Product, businessName string) ProductView {
	return ProductView{
		ProductID:     p.ID,
		Name:          p.Name,
		Description:   p.Description,
		Price:         p.Price,
		StockQuantity: p.StockQuantity,
		Category:      p.Category,
		BusinessName:  businessName,
	}
}
