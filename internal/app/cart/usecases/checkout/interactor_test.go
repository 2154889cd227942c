package checkout

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/light-bringer/cart-pricing-service/internal/app/cart/contracts/contractstest"
	"github.com/light-bringer/cart-pricing-service/internal/app/cart/domain"
	pricingtest "github.com/light-bringer/cart-pricing-service/internal/app/pricing/contracts/contractstest"
	pricing "github.com/light-bringer/cart-pricing-service/internal/app/pricing/domain"
	"github.com/light-bringer/cart-pricing-service/internal/app/pricing/domain/services"
	"github.com/light-bringer/cart-pricing-service/internal/pkg/clock"
	"github.com/light-bringer/cart-pricing-service/internal/pkg/committer"
)

var (
	addedOn    = time.Date(2025, 3, 21, 12, 0, 0, 0, time.UTC)
	lastFriday = time.Date(2025, 3, 28, 16, 30, 0, 0, time.UTC)
)

type fixture struct {
	store      *contractstest.Store
	products   *pricingtest.Products
	logs       *observer.ObservedLogs
	interactor *Interactor
}

// setup stores a cart whose prices were locked on an ordinary Friday and
// checks it out on the last Friday of the month.
func setup(t *testing.T) *fixture {
	t.Helper()

	valve, err := pricing.NewProduct("valve", "Valve", pricing.CategorySpareParts, pricing.MustMoney(100, 1))
	require.NoError(t, err)
	panel, err := pricing.NewProduct("panel", "Panel", pricing.CategoryPhotovoltaic, pricing.MustMoney(100, 1))
	require.NoError(t, err)

	items := []*domain.CartItem{
		domain.ReconstructCartItem("item-1", "valve", 30, pricing.MustMoney(2700, 1)),
		domain.ReconstructCartItem("item-2", "panel", 6, pricing.MustMoney(500, 1)),
	}
	store := contractstest.NewStore()
	store.Put(domain.ReconstructCart("cart-1", "customer-1", domain.StatusBuilding, items, pricing.MustMoney(3200, 1), nil, 5, addedOn, addedOn))

	core, logs := observer.New(zapcore.InfoLevel)
	products := pricingtest.NewProducts(valve, panel)

	return &fixture{
		store:    store,
		products: products,
		logs:     logs,
		interactor: NewInteractor(
			store,
			products,
			services.NewDefaultPriceCalculator(),
			store.Outbox(),
			store.PriceHistory(),
			store,
			clock.NewMockClock(lastFriday),
			zap.New(core),
		),
	}
}

func (f *fixture) checkout() (*Response, error) {
	return f.interactor.Execute(context.Background(), &Request{CustomerID: "customer-1", CartID: "cart-1"})
}

func TestInteractor_Execute(t *testing.T) {
	t.Run("reprices every line at the checkout instant", func(t *testing.T) {
		f := setup(t)

		resp, err := f.checkout()
		require.NoError(t, err)

		assert.Equal(t, lastFriday, resp.CheckoutAt)
		assert.Equal(t, "3200.00", resp.PreviousTotal.String())
		assert.Equal(t, "1250.00", resp.NewTotal.String())
		require.Len(t, resp.Items, 2)
		assert.Equal(t, "2700.00", resp.Items[0].OldPrice.String())
		assert.Equal(t, "750.00", resp.Items[0].NewPrice.String())
		assert.Equal(t, "500.00", resp.Items[1].NewPrice.String())

		cart, err := f.store.GetByID(context.Background(), "cart-1")
		require.NoError(t, err)
		assert.Equal(t, domain.StatusCheckout, cart.Status())
		require.NotNil(t, cart.CheckoutAt())
		assert.Equal(t, lastFriday, *cart.CheckoutAt())
		assert.Equal(t, "1250.00", cart.TotalPrice().String())
		assert.Equal(t, int64(6), cart.Version())
	})

	t.Run("writes price history and the checkout event", func(t *testing.T) {
		f := setup(t)

		_, err := f.checkout()
		require.NoError(t, err)

		history, err := f.store.PriceHistory().GetByCartID(context.Background(), "cart-1")
		require.NoError(t, err)
		require.Len(t, history, 2)
		assert.Equal(t, "item-1", history[0].ItemID)
		assert.Equal(t, "2700.00", history[0].OldPrice.String())
		assert.Equal(t, "750.00", history[0].NewPrice.String())
		assert.Equal(t, "checkout", history[0].Reason)
		assert.Equal(t, lastFriday, history[0].ChangedAt)

		assert.Equal(t, []string{"cart.checked_out"}, f.store.EventTypes())
		var payload domain.CartCheckedOutEvent
		require.NoError(t, f.store.PayloadOf("cart.checked_out", &payload))
		assert.Equal(t, "1250.00", payload.NewTotal.String())
		assert.Len(t, payload.Items, 2)

		entries := f.logs.FilterMessage("cart checked out").All()
		require.Len(t, entries, 1)
		assert.Equal(t, "1250.00", entries[0].ContextMap()["new_total"])
	})

	t.Run("second checkout is rejected", func(t *testing.T) {
		f := setup(t)

		_, err := f.checkout()
		require.NoError(t, err)

		_, err = f.checkout()
		assert.ErrorIs(t, err, domain.ErrCartCheckedOut)
		assert.Equal(t, 1, f.store.AppliedPlans())
	})

	t.Run("empty cart", func(t *testing.T) {
		f := setup(t)
		f.store.Put(domain.ReconstructCart("cart-1", "customer-1", domain.StatusCreated, nil, nil, nil, 1, addedOn, addedOn))

		_, err := f.checkout()
		assert.ErrorIs(t, err, domain.ErrCartEmpty)
	})

	t.Run("a product missing from the catalogue aborts the checkout", func(t *testing.T) {
		f := setup(t)
		valve, err := f.products.GetByID(context.Background(), "valve")
		require.NoError(t, err)
		f.interactor.products = pricingtest.NewProducts(valve)

		_, err = f.checkout()
		assert.ErrorIs(t, err, domain.ErrProductNotFound)

		cart, err := f.store.GetByID(context.Background(), "cart-1")
		require.NoError(t, err)
		assert.Equal(t, domain.StatusBuilding, cart.Status())
		assert.Equal(t, "3200.00", cart.TotalPrice().String())
		assert.Equal(t, int64(5), cart.Version())
		assert.Empty(t, f.store.Events())
	})

	t.Run("concurrent modification aborts the whole plan", func(t *testing.T) {
		f := setup(t)
		f.store.BeforeApply = func() { f.store.BumpVersion("cart-1") }

		_, err := f.checkout()
		assert.ErrorIs(t, err, committer.ErrOptimisticLockConflict)

		cart, err := f.store.GetByID(context.Background(), "cart-1")
		require.NoError(t, err)
		assert.False(t, cart.IsCheckedOut())

		history, err := f.store.PriceHistory().GetByCartID(context.Background(), "cart-1")
		require.NoError(t, err)
		assert.Empty(t, history)
		assert.Empty(t, f.store.Events())
		assert.Equal(t, 1, f.logs.FilterMessage("checkout aborted").Len())
	})

	t.Run("other customer's cart", func(t *testing.T) {
		f := setup(t)

		_, err := f.interactor.Execute(context.Background(), &Request{CustomerID: "customer-2", CartID: "cart-1"})
		assert.ErrorIs(t, err, domain.ErrCartNotFound)
	})
}
