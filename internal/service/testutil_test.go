package service

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"regional_ecommerce/internal/domain"
)

// testTaxRate matches the production default so the documented totals hold.
const testTaxRate = 0.08

// newTestDB opens an isolated in-memory database migrated with the full
// schema. Each test gets its own database, named after the test so the
// shared-cache connections of one test never see another's rows.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&domain.User{},
		&domain.Business{},
		&domain.Product{},
		&domain.CartItem{},
		&domain.Order{},
		&domain.OrderItem{},
	))
	return db
}

// seedCustomer inserts a customer and returns their identity.
func seedCustomer(t *testing.T, db *gorm.DB, username string) Identity {
	t.Helper()
	user := domain.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
		Role:         domain.RoleCustomer,
	}
	require.NoError(t, db.Create(&user).Error)
	return Identity{UserID: user.ID, Role: user.Role}
}

// seedMerchant inserts a merchant with a business and returns the identity
// and the business.
func seedMerchant(t *testing.T, db *gorm.DB, username, businessName string) (Identity, domain.Business) {
	t.Helper()
	user := domain.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
		Role:         domain.RoleMerchant,
	}
	require.NoError(t, db.Create(&user).Error)
	business := domain.Business{OwnerID: user.ID, Name: businessName}
	require.NoError(t, db.Create(&business).Error)
	return Identity{UserID: user.ID, Role: user.Role}, business
}

// seedProduct inserts an active product under the business.
func seedProduct(t *testing.T, db *gorm.DB, businessID uint, name string, price float64, stock int) domain.Product {
	t.Helper()
	product := domain.Product{
		BusinessID:    businessID,
		Name:          name,
		Price:         price,
		StockQuantity: stock,
		Category:      "general",
		IsActive:      true,
	}
	require.NoError(t, db.Create(&product).Error)
	return product
}

// productStock reads a product's current stock.
func productStock(t *testing.T, db *gorm.DB, productID uint) int {
	t.Helper()
	var product domain.Product
	require.NoError(t, db.First(&product, productID).Error)
	return product.StockQuantity
}

// countRows counts rows of a model matching the condition.
func countRows(t *testing.T, db *gorm.DB, model any, query string, args ...any) int64 {
	t.Helper()
	var n int64
	q := db.Model(model)
	if query != "" {
		q = q.Where(query, args...)
	}
	require.NoError(t, q.Count(&n).Error)
	return n
}
