package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"regional_ecommerce/internal/domain"
)

func TestCartAdd(t *testing.T) {
	db := newTestDB(t)
	cart := NewCartService(db, testTaxRate)
	_, business := seedMerchant(t, db, "seller", "Corner Store")
	customer := seedCustomer(t, db, "alice")

	t.Run("requires authentication", func(t *testing.T) {
		product := seedProduct(t, db, business.ID, "Soap", 3.50, 10)
		err := cart.Add(Identity{}, product.ID, 1)
		assert.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		product := seedProduct(t, db, business.ID, "Towel", 8.00, 10)
		assert.ErrorIs(t, cart.Add(customer, product.ID, 0), ErrInvalidQuantity)
		assert.ErrorIs(t, cart.Add(customer, product.ID, -2), ErrInvalidQuantity)
	})

	t.Run("rejects missing or inactive product", func(t *testing.T) {
		assert.ErrorIs(t, cart.Add(customer, 99999, 1), ErrProductUnavailable)
		product := seedProduct(t, db, business.ID, "Old Lamp", 20.00, 5)
		require.NoError(t, db.Model(&product).Update("is_active", false).Error)
		assert.ErrorIs(t, cart.Add(customer, product.ID, 1), ErrProductUnavailable)
	})

	t.Run("reports available stock when quantity is too high", func(t *testing.T) {
		product := seedProduct(t, db, business.ID, "Candle", 4.00, 3)
		err := cart.Add(customer, product.ID, 5)
		var stockErr *InsufficientStockError
		require.True(t, errors.As(err, &stockErr))
		assert.Equal(t, 3, stockErr.Available)
		// No cart row was created
		assert.EqualValues(t, 0, countRows(t, db, &domain.CartItem{}, "product_id = ?", product.ID))
	})

	t.Run("sums quantities for a repeated product", func(t *testing.T) {
		product := seedProduct(t, db, business.ID, "Notebook", 2.50, 10)
		require.NoError(t, cart.Add(customer, product.ID, 3))
		require.NoError(t, cart.Add(customer, product.ID, 4))
		var item domain.CartItem
		require.NoError(t, db.Where("user_id = ? AND product_id = ?", customer.UserID, product.ID).First(&item).Error)
		assert.Equal(t, 7, item.Quantity)
		// Still one row for the product
		assert.EqualValues(t, 1, countRows(t, db, &domain.CartItem{}, "user_id = ? AND product_id = ?", customer.UserID, product.ID))
	})

	t.Run("re-checks the combined quantity against stock", func(t *testing.T) {
		product := seedProduct(t, db, business.ID, "Mug", 6.00, 5)
		require.NoError(t, cart.Add(customer, product.ID, 4))
		err := cart.Add(customer, product.ID, 3)
		var stockErr *InsufficientStockError
		require.True(t, errors.As(err, &stockErr))
		assert.Equal(t, 5, stockErr.Available)
		// The existing row keeps its quantity
		var item domain.CartItem
		require.NoError(t, db.Where("user_id = ? AND product_id = ?", customer.UserID, product.ID).First(&item).Error)
		assert.Equal(t, 4, item.Quantity)
	})

	t.Run("adding never touches stock", func(t *testing.T) {
		product := seedProduct(t, db, business.ID, "Pen", 1.20, 9)
		require.NoError(t, cart.Add(customer, product.ID, 5))
		assert.Equal(t, 9, productStock(t, db, product.ID))
	})
}

func TestCartUpdateAndRemove(t *testing.T) {
	db := newTestDB(t)
	cart := NewCartService(db, testTaxRate)
	_, business := seedMerchant(t, db, "seller", "Corner Store")
	customer := seedCustomer(t, db, "alice")
	stranger := seedCustomer(t, db, "mallory")

	product := seedProduct(t, db, business.ID, "Notebook", 2.50, 10)
	require.NoError(t, cart.Add(customer, product.ID, 2))
	var item domain.CartItem
	require.NoError(t, db.Where("user_id = ?", customer.UserID).First(&item).Error)

	t.Run("updates quantity in place", func(t *testing.T) {
		require.NoError(t, cart.Update(customer, item.ID, 6))
		var got domain.CartItem
		require.NoError(t, db.First(&got, item.ID).Error)
		assert.Equal(t, 6, got.Quantity)
	})

	t.Run("rejects quantities over stock", func(t *testing.T) {
		err := cart.Update(customer, item.ID, 11)
		var stockErr *InsufficientStockError
		require.True(t, errors.As(err, &stockErr))
		assert.Equal(t, 10, stockErr.Available)
	})

	t.Run("hides other users' rows", func(t *testing.T) {
		assert.ErrorIs(t, cart.Update(stranger, item.ID, 1), ErrNotFound)
		assert.ErrorIs(t, cart.Remove(stranger, item.ID), ErrNotFound)
	})

	t.Run("zero quantity removes the row", func(t *testing.T) {
		require.NoError(t, cart.Update(customer, item.ID, 0))
		assert.EqualValues(t, 0, countRows(t, db, &domain.CartItem{}, "id = ?", item.ID))
	})

	t.Run("add then remove leaves no trace", func(t *testing.T) {
		before := productStock(t, db, product.ID)
		require.NoError(t, cart.Add(customer, product.ID, 3))
		var added domain.CartItem
		require.NoError(t, db.Where("user_id = ? AND product_id = ?", customer.UserID, product.ID).First(&added).Error)
		require.NoError(t, cart.Remove(customer, added.ID))
		assert.Equal(t, before, productStock(t, db, product.ID))
		assert.EqualValues(t, 0, countRows(t, db, &domain.CartItem{}, "user_id = ?", customer.UserID))
	})

	t.Run("clear always succeeds", func(t *testing.T) {
		require.NoError(t, cart.Add(customer, product.ID, 1))
		require.NoError(t, cart.Clear(customer))
		assert.EqualValues(t, 0, countRows(t, db, &domain.CartItem{}, "user_id = ?", customer.UserID))
		// Clearing an already empty cart is a no-op
		require.NoError(t, cart.Clear(customer))
	})
}

func TestCartView(t *testing.T) {
	db := newTestDB(t)
	cart := NewCartService(db, testTaxRate)
	_, business := seedMerchant(t, db, "seller", "Corner Store")
	customer := seedCustomer(t, db, "alice")

	t.Run("empty cart is an empty view, not an error", func(t *testing.T) {
		view, err := cart.View(customer)
		require.NoError(t, err)
		assert.Empty(t, view.Lines)
		assert.Zero(t, view.Total)
	})

	t.Run("previewed total matches the charged total", func(t *testing.T) {
		// A price with more than two decimals must not make the preview and
		// the checkout disagree by a cent: both tax the same raw subtotal
		odd := domain.Product{BusinessID: business.ID, Name: "Odd Bolt", Price: 3.335, StockQuantity: 9, IsActive: true}
		require.NoError(t, db.Create(&odd).Error)
		require.NoError(t, cart.Add(customer, odd.ID, 3))

		view, err := cart.View(customer)
		require.NoError(t, err)

		checkout := NewCheckoutService(db, testTaxRate)
		summary, err := checkout.Checkout(customer, "12 Market Street")
		require.NoError(t, err)
		assert.InDelta(t, view.Total, summary.TotalAmount, 0.0001)
	})

	t.Run("computes subtotal, tax, and total", func(t *testing.T) {
		product := seedProduct(t, db, business.ID, "Mug", 10.00, 10)
		require.NoError(t, cart.Add(customer, product.ID, 2))

		view, err := cart.View(customer)
		require.NoError(t, err)
		require.Len(t, view.Lines, 1)
		assert.Equal(t, "Mug", view.Lines[0].Name)
		assert.Equal(t, 2, view.Lines[0].Quantity)
		assert.InDelta(t, 20.00, view.Subtotal, 0.001)
		assert.InDelta(t, 1.60, view.Tax, 0.001)
		assert.InDelta(t, 21.60, view.Total, 0.001)
	})
}
