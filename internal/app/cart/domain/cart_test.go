package domain

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pricing "github.com/light-bringer/cart-pricing-service/internal/app/pricing/domain"
)

var now = time.Date(2025, 3, 20, 10, 0, 0, 0, time.UTC)

// unitPricer charges a flat unit price per product.
func unitPricer(units map[string]int64) ItemPricer {
	return func(productID string, quantity int64) (*pricing.Money, error) {
		unit, ok := units[productID]
		if !ok {
			return nil, ErrProductNotFound
		}
		return pricing.MustMoney(unit*quantity, 1), nil
	}
}

var prices = unitPricer(map[string]int64{"p-1": 100, "p-2": 30, "p-3": 25})

func newCart(t *testing.T) *Cart {
	t.Helper()
	c, err := NewCart("cart-1", "customer-1", now)
	require.NoError(t, err)
	c.Changes().Clear()
	c.ClearEvents()
	return c
}

func TestNewCart(t *testing.T) {
	t.Run("valid cart", func(t *testing.T) {
		c, err := NewCart("cart-1", "customer-1", now)
		require.NoError(t, err)

		assert.Equal(t, StatusCreated, c.Status())
		assert.True(t, c.TotalPrice().IsZero())
		assert.Equal(t, 0, c.ItemCount())
		assert.Nil(t, c.CheckoutAt())
		assert.True(t, c.OwnedBy("customer-1"))
		assert.True(t, c.Changes().Dirty(FieldStatus))

		require.Len(t, c.DomainEvents(), 1)
		assert.Equal(t, "cart.created", c.DomainEvents()[0].EventType())
		assert.Equal(t, "cart-1", c.DomainEvents()[0].AggregateID())
	})

	t.Run("empty customer", func(t *testing.T) {
		_, err := NewCart("cart-1", "", now)
		assert.ErrorIs(t, err, ErrEmptyCustomerID)
	})
}

func TestCart_AddItem(t *testing.T) {
	t.Run("new line moves cart to building", func(t *testing.T) {
		c := newCart(t)

		item, err := c.AddItem("item-1", "p-1", 2, prices, now)
		require.NoError(t, err)

		assert.Equal(t, "item-1", item.ID())
		assert.Equal(t, int64(2), item.Quantity())
		assert.Equal(t, "200.00", item.CalculatedPrice().String())
		assert.Equal(t, StatusBuilding, c.Status())
		assert.Equal(t, "200.00", c.TotalPrice().String())
		assert.Equal(t, []string{"item-1"}, c.Changes().AddedItems())
		assert.True(t, c.Changes().Dirty(FieldStatus))
	})

	t.Run("same product merges into existing line", func(t *testing.T) {
		c := newCart(t)
		_, err := c.AddItem("item-1", "p-1", 2, prices, now)
		require.NoError(t, err)
		c.Changes().Clear()

		var priced int64
		counting := func(productID string, quantity int64) (*pricing.Money, error) {
			priced = quantity
			return prices(productID, quantity)
		}

		item, err := c.AddItem("item-2", "p-1", 3, counting, now)
		require.NoError(t, err)

		assert.Equal(t, "item-1", item.ID())
		assert.Equal(t, int64(5), priced, "merged quantity is repriced")
		assert.Equal(t, 1, c.ItemCount())
		assert.Equal(t, "500.00", c.TotalPrice().String())
		assert.Empty(t, c.Changes().AddedItems())
		assert.Equal(t, []string{"item-1"}, c.Changes().UpdatedItems())
	})

	t.Run("invalid quantity", func(t *testing.T) {
		c := newCart(t)
		_, err := c.AddItem("item-1", "p-1", 0, prices, now)
		assert.ErrorIs(t, err, ErrInvalidQuantity)
	})

	t.Run("pricing failure leaves cart untouched", func(t *testing.T) {
		c := newCart(t)
		_, err := c.AddItem("item-1", "unknown", 1, prices, now)

		assert.ErrorIs(t, err, ErrProductNotFound)
		assert.Equal(t, 0, c.ItemCount())
		assert.Equal(t, StatusCreated, c.Status())
		assert.False(t, c.Changes().HasChanges())
		assert.Empty(t, c.DomainEvents())
	})
}

func TestCart_UpdateItemQuantity(t *testing.T) {
	c := newCart(t)
	_, err := c.AddItem("item-1", "p-2", 1, prices, now)
	require.NoError(t, err)
	c.ClearEvents()

	require.NoError(t, c.UpdateItemQuantity("item-1", 4, prices, now))

	item, ok := c.Item("item-1")
	require.True(t, ok)
	assert.Equal(t, int64(4), item.Quantity())
	assert.Equal(t, "120.00", c.TotalPrice().String())

	require.Len(t, c.DomainEvents(), 1)
	updated, ok := c.DomainEvents()[0].(*CartItemUpdatedEvent)
	require.True(t, ok)
	assert.Equal(t, int64(1), updated.OldQuantity)
	assert.Equal(t, int64(4), updated.NewQuantity)

	assert.ErrorIs(t, c.UpdateItemQuantity("missing", 1, prices, now), ErrItemNotFound)
	assert.ErrorIs(t, c.UpdateItemQuantity("item-1", 0, prices, now), ErrInvalidQuantity)
}

func TestCart_RemoveItem(t *testing.T) {
	c := newCart(t)
	_, err := c.AddItem("item-1", "p-1", 1, prices, now)
	require.NoError(t, err)
	_, err = c.AddItem("item-2", "p-2", 1, prices, now)
	require.NoError(t, err)
	c.Changes().Clear()

	require.NoError(t, c.RemoveItem("item-1", now))

	assert.Equal(t, 1, c.ItemCount())
	assert.Equal(t, "30.00", c.TotalPrice().String())
	assert.Equal(t, []string{"item-1"}, c.Changes().RemovedItems())
	assert.ErrorIs(t, c.RemoveItem("item-1", now), ErrItemNotFound)
}

func TestCart_Clear(t *testing.T) {
	c := newCart(t)
	_, err := c.AddItem("item-1", "p-1", 1, prices, now)
	require.NoError(t, err)
	_, err = c.AddItem("item-2", "p-2", 1, prices, now)
	require.NoError(t, err)
	c.Changes().Clear()
	c.ClearEvents()

	require.NoError(t, c.Clear(now))

	assert.Equal(t, 0, c.ItemCount())
	assert.True(t, c.TotalPrice().IsZero())
	assert.Equal(t, StatusBuilding, c.Status())
	assert.Equal(t, []string{"item-1", "item-2"}, c.Changes().RemovedItems())

	cleared, ok := c.DomainEvents()[0].(*CartClearedEvent)
	require.True(t, ok)
	assert.Equal(t, 2, cleared.RemovedItems)
}

func TestCart_Checkout(t *testing.T) {
	checkoutAt := time.Date(2025, 3, 28, 15, 0, 0, 0, time.UTC)

	t.Run("reprices every item and freezes the cart", func(t *testing.T) {
		c := newCart(t)
		_, err := c.AddItem("item-1", "p-1", 2, prices, now)
		require.NoError(t, err)
		_, err = c.AddItem("item-2", "p-3", 4, prices, now)
		require.NoError(t, err)
		c.Changes().Clear()
		c.ClearEvents()

		discounted := unitPricer(map[string]int64{"p-1": 90, "p-3": 20})
		result, err := c.Checkout(checkoutAt, discounted)
		require.NoError(t, err)

		assert.Equal(t, "300.00", result.PreviousTotal.String())
		assert.Equal(t, "260.00", result.NewTotal.String())
		require.Len(t, result.Items, 2)
		assert.Equal(t, "200.00", result.Items[0].OldPrice.String())
		assert.Equal(t, "180.00", result.Items[0].NewPrice.String())

		assert.Equal(t, StatusCheckout, c.Status())
		require.NotNil(t, c.CheckoutAt())
		assert.Equal(t, checkoutAt, *c.CheckoutAt())
		assert.Equal(t, "260.00", c.TotalPrice().String())
		assert.True(t, c.Changes().Dirty(FieldCheckoutAt))
		assert.Equal(t, []string{"item-1", "item-2"}, c.Changes().UpdatedItems())

		require.Len(t, c.DomainEvents(), 1)
		assert.Equal(t, "cart.checked_out", c.DomainEvents()[0].EventType())
	})

	t.Run("empty cart", func(t *testing.T) {
		c := newCart(t)
		_, err := c.Checkout(checkoutAt, prices)
		assert.ErrorIs(t, err, ErrCartEmpty)
	})

	t.Run("any pricing failure leaves the cart untouched", func(t *testing.T) {
		c := newCart(t)
		_, err := c.AddItem("item-1", "p-1", 2, prices, now)
		require.NoError(t, err)
		_, err = c.AddItem("item-2", "p-2", 1, prices, now)
		require.NoError(t, err)
		c.Changes().Clear()

		boom := errors.New("boom")
		failSecond := func(productID string, quantity int64) (*pricing.Money, error) {
			if productID == "p-2" {
				return nil, boom
			}
			return pricing.MustMoney(1, 1), nil
		}

		_, err = c.Checkout(checkoutAt, failSecond)
		assert.ErrorIs(t, err, boom)

		assert.Equal(t, StatusBuilding, c.Status())
		assert.Nil(t, c.CheckoutAt())
		assert.Equal(t, "230.00", c.TotalPrice().String())
		item, _ := c.Item("item-1")
		assert.Equal(t, "200.00", item.CalculatedPrice().String())
		assert.False(t, c.Changes().HasChanges())
	})

	t.Run("checked out cart rejects every modification", func(t *testing.T) {
		c := newCart(t)
		_, err := c.AddItem("item-1", "p-1", 1, prices, now)
		require.NoError(t, err)
		_, err = c.Checkout(checkoutAt, prices)
		require.NoError(t, err)

		_, err = c.AddItem("item-2", "p-2", 1, prices, now)
		assert.ErrorIs(t, err, ErrCartCheckedOut)
		assert.ErrorIs(t, c.UpdateItemQuantity("item-1", 3, prices, now), ErrCartCheckedOut)
		assert.ErrorIs(t, c.RemoveItem("item-1", now), ErrCartCheckedOut)
		assert.ErrorIs(t, c.Clear(now), ErrCartCheckedOut)
		_, err = c.Checkout(checkoutAt, prices)
		assert.ErrorIs(t, err, ErrCartCheckedOut)
	})
}

func TestCart_TotalIsSumOfItemPrices(t *testing.T) {
	c := newCart(t)
	for i, productID := range []string{"p-1", "p-2", "p-3", "p-1"} {
		_, err := c.AddItem("item-"+productID, productID, int64(i+1), prices, now)
		require.NoError(t, err)

		sum := pricing.Zero()
		for _, item := range c.Items() {
			sum = sum.Add(item.CalculatedPrice())
		}
		assert.True(t, sum.Equals(c.TotalPrice()))
	}
}

func TestCheckedOutEvent_JSON(t *testing.T) {
	event := &CartCheckedOutEvent{
		CartID:        "cart-1",
		PreviousTotal: pricing.MustMoney(300, 1),
		NewTotal:      pricing.MustMoney(5201, 20),
		Items: []RepricedItem{
			{ItemID: "item-1", OldPrice: pricing.MustMoney(300, 1), NewPrice: pricing.MustMoney(5201, 20)},
		},
	}

	data, err := json.Marshal(event)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"new_total":"260.05"`)
	assert.Contains(t, string(data), `"old_price":"300"`)
}

func TestReconstructCart(t *testing.T) {
	checkoutAt := now.Add(time.Hour)
	items := []*CartItem{ReconstructCartItem("item-1", "p-1", 3, pricing.MustMoney(300, 1))}

	c := ReconstructCart("cart-1", "customer-1", StatusCheckout, items, pricing.MustMoney(300, 1), &checkoutAt, 7, now, now)

	assert.Equal(t, int64(7), c.Version())
	assert.True(t, c.IsCheckedOut())
	assert.False(t, c.Changes().HasChanges())
	assert.Empty(t, c.DomainEvents())
	assert.False(t, c.OwnedBy("someone-else"))
}
