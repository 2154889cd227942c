package repo

import (
	"math/big"
	"testing"
	"time"

	"cloud.google.com/go/spanner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/light-bringer/cart-pricing-service/internal/app/cart/domain"
	pricing "github.com/light-bringer/cart-pricing-service/internal/app/pricing/domain"
	"github.com/light-bringer/cart-pricing-service/internal/models/m_cart"
	"github.com/light-bringer/cart-pricing-service/internal/models/m_cart_item"
)

var now = time.Date(2025, 3, 20, 10, 0, 0, 0, time.UTC)

func flatPricer(productID string, quantity int64) (*pricing.Money, error) {
	return pricing.MustMoney(10*quantity, 1), nil
}

func loadedCart(t *testing.T) *domain.Cart {
	t.Helper()
	items := []*domain.CartItem{
		domain.ReconstructCartItem("item-1", "p-1", 2, pricing.MustMoney(20, 1)),
		domain.ReconstructCartItem("item-2", "p-2", 1, pricing.MustMoney(10, 1)),
	}
	return domain.ReconstructCart("cart-1", "customer-1", domain.StatusBuilding, items, pricing.MustMoney(30, 1), nil, 4, now, now)
}

func TestCartRepo_InsertMuts(t *testing.T) {
	repository := &CartRepo{carts: m_cart.NewModel(), cartItems: m_cart_item.NewModel()}

	cart, err := domain.NewCart("cart-1", "customer-1", now)
	require.NoError(t, err)

	muts := repository.InsertMuts(cart)
	assert.Len(t, muts, 1)

	values := repository.carts.InsertValues(cartToData(cart))
	assert.Equal(t, "customer-1", values[m_cart.CustomerID])
	assert.Equal(t, "created", values[m_cart.Status])
	assert.Equal(t, int64(1), values[m_cart.Version])
	assert.Equal(t, spanner.CommitTimestamp, values[m_cart.CreatedAt])
	assert.Equal(t, spanner.NullTime{}, values[m_cart.CheckoutAt])
}

func TestCartRepo_UpdateMuts(t *testing.T) {
	repository := &CartRepo{carts: m_cart.NewModel(), cartItems: m_cart_item.NewModel()}

	t.Run("no changes", func(t *testing.T) {
		assert.Nil(t, repository.UpdateMuts(loadedCart(t)))
	})

	t.Run("item changes write parent row first and bump version", func(t *testing.T) {
		cart := loadedCart(t)
		_, err := cart.AddItem("item-3", "p-3", 1, flatPricer, now)
		require.NoError(t, err)
		require.NoError(t, cart.UpdateItemQuantity("item-1", 5, flatPricer, now))
		require.NoError(t, cart.RemoveItem("item-2", now))

		muts := repository.UpdateMuts(cart)
		// cart row + insert + update + delete
		assert.Len(t, muts, 4)

		values := repository.updateValues(cart)
		assert.Equal(t, int64(5), values[m_cart.Version])
		total, ok := values[m_cart.TotalPrice].(*big.Rat)
		require.True(t, ok)
		assert.Equal(t, "60", total.RatString())
		assert.NotContains(t, values, m_cart.Status, "status unchanged")
	})

	t.Run("checkout writes status and timestamp", func(t *testing.T) {
		cart := loadedCart(t)
		at := now.Add(time.Hour)
		_, err := cart.Checkout(at, flatPricer)
		require.NoError(t, err)

		values := repository.updateValues(cart)
		assert.Equal(t, "checkout", values[m_cart.Status])
		assert.Equal(t, at, values[m_cart.CheckoutAt])
		// cart row + two repriced items
		assert.Len(t, repository.UpdateMuts(cart), 3)
	})
}

func TestCartRepo_VersionGuard(t *testing.T) {
	repository := &CartRepo{}
	guard := repository.VersionGuard(loadedCart(t))

	assert.Equal(t, m_cart.TableName, guard.Table)
	assert.Equal(t, spanner.Key{"cart-1"}, guard.Key)
	assert.Equal(t, m_cart.Version, guard.VersionColumn)
	assert.Equal(t, int64(4), guard.ExpectedVersion)
}

func TestDataToDomain(t *testing.T) {
	data := &m_cart.Data{
		CartID:     "cart-1",
		CustomerID: "customer-1",
		Status:     "checkout",
		CheckoutAt: spanner.NullTime{Time: now, Valid: true},
		Version:    3,
	}
	data.TotalPrice.SetFrac64(5201, 20)

	item := &m_cart_item.Data{CartID: "cart-1", ItemID: "item-1", ProductID: "p-1", Quantity: 2}
	item.CalculatedPrice.SetFrac64(5201, 20)

	cart := dataToDomain(data, []*m_cart_item.Data{item})

	assert.True(t, cart.IsCheckedOut())
	require.NotNil(t, cart.CheckoutAt())
	assert.Equal(t, now, *cart.CheckoutAt())
	assert.Equal(t, "260.05", cart.TotalPrice().String())
	require.Equal(t, 1, cart.ItemCount())
	assert.Equal(t, "260.05", cart.Items()[0].CalculatedPrice().String())
	assert.Equal(t, int64(3), cart.Version())
}
