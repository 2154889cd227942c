package add_item

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/light-bringer/cart-pricing-service/internal/app/cart/contracts/contractstest"
	"github.com/light-bringer/cart-pricing-service/internal/app/cart/domain"
	pricingtest "github.com/light-bringer/cart-pricing-service/internal/app/pricing/contracts/contractstest"
	pricing "github.com/light-bringer/cart-pricing-service/internal/app/pricing/domain"
	"github.com/light-bringer/cart-pricing-service/internal/app/pricing/domain/services"
	"github.com/light-bringer/cart-pricing-service/internal/pkg/clock"
	"github.com/light-bringer/cart-pricing-service/internal/pkg/committer"
)

var (
	opened      = time.Date(2025, 3, 18, 9, 0, 0, 0, time.UTC)
	ordinaryDay = time.Date(2025, 3, 21, 12, 0, 0, 0, time.UTC)
	lastFriday  = time.Date(2025, 3, 28, 12, 0, 0, 0, time.UTC)
)

type fixture struct {
	store      *contractstest.Store
	clock      *clock.MockClock
	interactor *Interactor
	cartID     string
}

func setup(t *testing.T) *fixture {
	t.Helper()

	valve, err := pricing.NewProduct("valve", "Valve", pricing.CategorySpareParts, pricing.MustMoney(40, 1))
	require.NoError(t, err)
	panel, err := pricing.NewProduct("panel", "Panel", pricing.CategoryPhotovoltaic, pricing.MustMoney(100, 1))
	require.NoError(t, err)

	store := contractstest.NewStore()
	cart, err := domain.NewCart("cart-1", "customer-1", opened)
	require.NoError(t, err)
	store.Put(cart)

	clk := clock.NewMockClock(ordinaryDay)
	return &fixture{
		store:  store,
		clock:  clk,
		cartID: cart.ID(),
		interactor: NewInteractor(
			store,
			pricingtest.NewProducts(valve, panel),
			services.NewDefaultPriceCalculator(),
			store.Outbox(),
			store,
			clk,
		),
	}
}

func (f *fixture) add(t *testing.T, productID string, quantity int64) *Response {
	t.Helper()
	resp, err := f.interactor.Execute(context.Background(), &Request{
		CustomerID: "customer-1",
		CartID:     f.cartID,
		ProductID:  productID,
		Quantity:   quantity,
	})
	require.NoError(t, err)
	return resp
}

func TestInteractor_Execute(t *testing.T) {
	t.Run("locks the price of the day", func(t *testing.T) {
		f := setup(t)

		resp := f.add(t, "valve", 11)

		assert.Equal(t, "418.00", resp.CalculatedPrice.String())
		assert.Equal(t, "418.00", resp.CartTotal.String())

		cart, err := f.store.GetByID(context.Background(), f.cartID)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusBuilding, cart.Status())
		assert.Equal(t, int64(2), cart.Version())
		require.Equal(t, 1, cart.ItemCount())
		assert.Equal(t, resp.ItemID, cart.Items()[0].ID())

		assert.Equal(t, []string{"cart.item_added"}, f.store.EventTypes())
	})

	t.Run("one-shot price on the last Friday", func(t *testing.T) {
		f := setup(t)
		f.clock.Set(lastFriday)

		resp := f.add(t, "valve", 11)

		assert.Equal(t, "275.00", resp.CalculatedPrice.String())
	})

	t.Run("same product merges and reprices the line", func(t *testing.T) {
		f := setup(t)

		first := f.add(t, "valve", 6)
		second := f.add(t, "valve", 5)

		assert.Equal(t, first.ItemID, second.ItemID)
		assert.Equal(t, int64(11), second.Quantity)
		assert.Equal(t, "418.00", second.CalculatedPrice.String())

		var payload domain.CartItemAddedEvent
		require.NoError(t, f.store.PayloadOf("cart.item_added", &payload))
		assert.Equal(t, "valve", payload.ProductID)
	})

	t.Run("lines are priced independently", func(t *testing.T) {
		f := setup(t)

		f.add(t, "valve", 11)
		resp := f.add(t, "panel", 6)

		assert.Equal(t, "500.00", resp.CalculatedPrice.String())
		assert.Equal(t, "918.00", resp.CartTotal.String())
	})

	t.Run("rejections", func(t *testing.T) {
		tests := []struct {
			name string
			req  Request
			want error
		}{
			{"missing cart", Request{CustomerID: "customer-1", ProductID: "valve", Quantity: 1}, domain.ErrMissingCartID},
			{"zero quantity", Request{CustomerID: "customer-1", CartID: "cart-1", ProductID: "valve"}, domain.ErrInvalidQuantity},
			{"unknown cart", Request{CustomerID: "customer-1", CartID: "nope", ProductID: "valve", Quantity: 1}, domain.ErrCartNotFound},
			{"other customer's cart", Request{CustomerID: "customer-2", CartID: "cart-1", ProductID: "valve", Quantity: 1}, domain.ErrCartNotFound},
			{"unknown product", Request{CustomerID: "customer-1", CartID: "cart-1", ProductID: "nope", Quantity: 1}, domain.ErrProductNotFound},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				f := setup(t)
				_, err := f.interactor.Execute(context.Background(), &tt.req)
				assert.ErrorIs(t, err, tt.want)
				assert.Equal(t, 0, f.store.AppliedPlans())
			})
		}
	})

	t.Run("checked out cart is frozen", func(t *testing.T) {
		f := setup(t)
		items := []*domain.CartItem{domain.ReconstructCartItem("item-1", "valve", 1, pricing.MustMoney(40, 1))}
		at := ordinaryDay
		f.store.Put(domain.ReconstructCart("cart-1", "customer-1", domain.StatusCheckout, items, pricing.MustMoney(40, 1), &at, 3, opened, at))

		_, err := f.interactor.Execute(context.Background(), &Request{CustomerID: "customer-1", CartID: "cart-1", ProductID: "valve", Quantity: 1})
		assert.ErrorIs(t, err, domain.ErrCartCheckedOut)
	})

	t.Run("concurrent modification aborts", func(t *testing.T) {
		f := setup(t)
		f.store.BeforeApply = func() { f.store.BumpVersion(f.cartID) }

		_, err := f.interactor.Execute(context.Background(), &Request{CustomerID: "customer-1", CartID: f.cartID, ProductID: "valve", Quantity: 1})
		assert.ErrorIs(t, err, committer.ErrOptimisticLockConflict)

		cart, err := f.store.GetByID(context.Background(), f.cartID)
		require.NoError(t, err)
		assert.Equal(t, 0, cart.ItemCount())
		assert.Empty(t, f.store.Events())
	})
}
