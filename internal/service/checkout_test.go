package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"regional_ecommerce/internal/domain"
)

func TestCheckoutSuccess(t *testing.T) {
	db := newTestDB(t)
	cart := NewCartService(db, testTaxRate)
	checkout := NewCheckoutService(db, testTaxRate)
	_, business := seedMerchant(t, db, "seller", "Corner Store")
	customer := seedCustomer(t, db, "alice")

	product := seedProduct(t, db, business.ID, "Radio", 10.00, 5)
	require.NoError(t, cart.Add(customer, product.ID, 5))

	summary, err := checkout.Checkout(customer, "12 Market Street")
	require.NoError(t, err)

	// Order header
	assert.Equal(t, domain.OrderStatusPending, summary.Status)
	assert.InDelta(t, 54.00, summary.TotalAmount, 0.001) // 50.00 + 8% tax
	require.NotZero(t, summary.OrderID)

	// Stock drained to zero, cart emptied
	assert.Equal(t, 0, productStock(t, db, product.ID))
	assert.EqualValues(t, 0, countRows(t, db, &domain.CartItem{}, "user_id = ?", customer.UserID))

	// One order item snapshotting the price
	var item domain.OrderItem
	require.NoError(t, db.Where("order_id = ?", summary.OrderID).First(&item).Error)
	assert.Equal(t, 5, item.Quantity)
	assert.InDelta(t, 10.00, item.PriceAtTime, 0.001)

	var order domain.Order
	require.NoError(t, db.First(&order, summary.OrderID).Error)
	assert.Equal(t, "12 Market Street", order.ShippingAddress)
}

func TestCheckoutEmptyCart(t *testing.T) {
	db := newTestDB(t)
	checkout := NewCheckoutService(db, testTaxRate)
	customer := seedCustomer(t, db, "alice")

	_, err := checkout.Checkout(customer, "12 Market Street")
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestCheckoutRequiresAuthentication(t *testing.T) {
	db := newTestDB(t)
	checkout := NewCheckoutService(db, testTaxRate)
	_, err := checkout.Checkout(Identity{}, "12 Market Street")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestCheckoutAllOrNothing(t *testing.T) {
	db := newTestDB(t)
	cart := NewCartService(db, testTaxRate)
	checkout := NewCheckoutService(db, testTaxRate)
	_, business := seedMerchant(t, db, "seller", "Corner Store")
	customer := seedCustomer(t, db, "alice")

	good := seedProduct(t, db, business.ID, "Kettle", 15.00, 10)
	scarce := seedProduct(t, db, business.ID, "Teapot", 25.00, 4)
	fading := seedProduct(t, db, business.ID, "Tray", 9.00, 8)
	require.NoError(t, cart.Add(customer, good.ID, 2))
	require.NoError(t, cart.Add(customer, scarce.ID, 4))
	require.NoError(t, cart.Add(customer, fading.ID, 1))

	// The world moves between add and checkout: stock shrinks under one
	// line and another product is deactivated
	require.NoError(t, db.Model(&scarce).Update("stock_quantity", 1).Error)
	require.NoError(t, db.Model(&fading).Update("is_active", false).Error)

	_, err := checkout.Checkout(customer, "12 Market Street")
	var valErr *CheckoutValidationError
	require.True(t, errors.As(err, &valErr))
	// Every failing line is reported in one shot
	require.Len(t, valErr.Reasons, 2)
	assert.Contains(t, valErr.Reasons, "Teapot has only 1 available")
	assert.Contains(t, valErr.Reasons, "Tray is no longer available")

	// Nothing was written: no orders, no order items, untouched stock,
	// cart intact
	assert.EqualValues(t, 0, countRows(t, db, &domain.Order{}, ""))
	assert.EqualValues(t, 0, countRows(t, db, &domain.OrderItem{}, ""))
	assert.Equal(t, 10, productStock(t, db, good.ID))
	assert.Equal(t, 1, productStock(t, db, scarce.ID))
	assert.EqualValues(t, 3, countRows(t, db, &domain.CartItem{}, "user_id = ?", customer.UserID))
}

func TestCheckoutSnapshotsPrice(t *testing.T) {
	db := newTestDB(t)
	cart := NewCartService(db, testTaxRate)
	checkout := NewCheckoutService(db, testTaxRate)
	_, business := seedMerchant(t, db, "seller", "Corner Store")
	customer := seedCustomer(t, db, "alice")

	product := seedProduct(t, db, business.ID, "Clock", 30.00, 10)
	require.NoError(t, cart.Add(customer, product.ID, 1))
	summary, err := checkout.Checkout(customer, "12 Market Street")
	require.NoError(t, err)

	// A later price change must not alter the historical order
	require.NoError(t, db.Model(&product).Update("price", 99.00).Error)

	var item domain.OrderItem
	require.NoError(t, db.Where("order_id = ?", summary.OrderID).First(&item).Error)
	assert.InDelta(t, 30.00, item.PriceAtTime, 0.001)

	var order domain.Order
	require.NoError(t, db.First(&order, summary.OrderID).Error)
	assert.InDelta(t, 32.40, order.TotalAmount, 0.001)
}

func TestStockNeverNegative(t *testing.T) {
	db := newTestDB(t)
	cart := NewCartService(db, testTaxRate)
	checkout := NewCheckoutService(db, testTaxRate)
	_, business := seedMerchant(t, db, "seller", "Corner Store")
	alice := seedCustomer(t, db, "alice")
	bob := seedCustomer(t, db, "bob")

	product := seedProduct(t, db, business.ID, "Lantern", 12.00, 5)

	// Both customers want the same scarce product
	require.NoError(t, cart.Add(alice, product.ID, 4))
	require.NoError(t, cart.Add(bob, product.ID, 3))

	// Alice checks out first and takes 4 of the 5
	_, err := checkout.Checkout(alice, "12 Market Street")
	require.NoError(t, err)
	require.Equal(t, 1, productStock(t, db, product.ID))

	// Bob's line now exceeds stock, so his checkout aborts instead of
	// driving stock negative
	_, err = checkout.Checkout(bob, "9 Harbor Road")
	var valErr *CheckoutValidationError
	require.True(t, errors.As(err, &valErr))
	assert.Contains(t, valErr.Reasons, "Lantern has only 1 available")
	assert.Equal(t, 1, productStock(t, db, product.ID))
	assert.GreaterOrEqual(t, productStock(t, db, product.ID), 0)
}

func TestCheckoutMultiMerchantOrder(t *testing.T) {
	db := newTestDB(t)
	cart := NewCartService(db, testTaxRate)
	checkout := NewCheckoutService(db, testTaxRate)
	_, shopA := seedMerchant(t, db, "seller_a", "Shop A")
	_, shopB := seedMerchant(t, db, "seller_b", "Shop B")
	customer := seedCustomer(t, db, "alice")

	fromA := seedProduct(t, db, shopA.ID, "Rug", 40.00, 3)
	fromB := seedProduct(t, db, shopB.ID, "Vase", 18.00, 6)
	require.NoError(t, cart.Add(customer, fromA.ID, 1))
	require.NoError(t, cart.Add(customer, fromB.ID, 2))

	summary, err := checkout.Checkout(customer, "12 Market Street")
	require.NoError(t, err)

	// One order spanning both merchants' items
	assert.EqualValues(t, 2, countRows(t, db, &domain.OrderItem{}, "order_id = ?", summary.OrderID))
	assert.InDelta(t, 82.08, summary.TotalAmount, 0.001) // (40 + 36) * 1.08
	assert.Equal(t, 2, productStock(t, db, fromA.ID))
	assert.Equal(t, 4, productStock(t, db, fromB.ID))
}
