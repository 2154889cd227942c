package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/light-bringer/cart-pricing-service/internal/app/cart/contracts/contractstest"
	"github.com/light-bringer/cart-pricing-service/internal/app/cart/queries/get_cart"
	"github.com/light-bringer/cart-pricing-service/internal/app/cart/queries/list_carts"
	"github.com/light-bringer/cart-pricing-service/internal/app/cart/queries/list_events"
	"github.com/light-bringer/cart-pricing-service/internal/app/cart/usecases/add_item"
	"github.com/light-bringer/cart-pricing-service/internal/app/cart/usecases/checkout"
	"github.com/light-bringer/cart-pricing-service/internal/app/cart/usecases/clear_cart"
	"github.com/light-bringer/cart-pricing-service/internal/app/cart/usecases/create_cart"
	"github.com/light-bringer/cart-pricing-service/internal/app/cart/usecases/remove_item"
	"github.com/light-bringer/cart-pricing-service/internal/app/cart/usecases/update_item"
	pricingtest "github.com/light-bringer/cart-pricing-service/internal/app/pricing/contracts/contractstest"
	pricing "github.com/light-bringer/cart-pricing-service/internal/app/pricing/domain"
	"github.com/light-bringer/cart-pricing-service/internal/app/pricing/domain/services"
	"github.com/light-bringer/cart-pricing-service/internal/app/pricing/queries/get_promotions"
	"github.com/light-bringer/cart-pricing-service/internal/app/pricing/queries/list_products"
	"github.com/light-bringer/cart-pricing-service/internal/app/pricing/queries/quote"
	"github.com/light-bringer/cart-pricing-service/internal/models/m_outbox"
	"github.com/light-bringer/cart-pricing-service/internal/pkg/clock"
)

var (
	ordinaryDay = time.Date(2025, 3, 21, 12, 0, 0, 0, time.UTC)
	lastFriday  = time.Date(2025, 3, 28, 12, 0, 0, 0, time.UTC)
)

type stubEvents struct {
	rows []*m_outbox.Data
	req  *list_events.Request
}

func (s *stubEvents) ListEvents(_ context.Context, req *list_events.Request) ([]*m_outbox.Data, int64, error) {
	s.req = req
	return s.rows, int64(len(s.rows)), nil
}

type testServer struct {
	handler http.Handler
	clock   *clock.MockClock
	store   *contractstest.Store
	events  *stubEvents
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	valve, err := pricing.NewProduct("valve", "Valve", pricing.CategorySpareParts, pricing.MustMoney(100, 1))
	require.NoError(t, err)
	panel, err := pricing.NewProduct("panel", "Panel", pricing.CategoryPhotovoltaic, pricing.MustMoney(100, 1))
	require.NoError(t, err)
	fridge, err := pricing.NewProduct("fridge", "Fridge", pricing.CategoryRefrigeration, pricing.MustMoney(40, 1))
	require.NoError(t, err)

	store := contractstest.NewStore()
	products := pricingtest.NewProducts(valve, panel, fridge)
	clk := clock.NewMockClock(ordinaryDay)
	calc := services.NewDefaultPriceCalculator()
	explainer := services.NewPromotionExplainer(calc)
	catalog := services.NewPromotionCatalog(calc)
	logger := zap.NewNop()
	events := &stubEvents{}

	cart := NewCartHandler(
		create_cart.NewInteractor(store, store.Outbox(), store, clk),
		add_item.NewInteractor(store, products, calc, store.Outbox(), store, clk),
		update_item.NewInteractor(store, products, calc, store.Outbox(), store, clk),
		remove_item.NewInteractor(store, store.Outbox(), store, clk),
		clear_cart.NewInteractor(store, store.Outbox(), store, clk),
		checkout.NewInteractor(store, products, calc, store.Outbox(), store.PriceHistory(), store, clk, logger),
		get_cart.NewQuery(store, store.PriceHistory(), products, explainer, clk),
		list_carts.NewQuery(store),
		logger,
	)
	catalogHandler := NewCatalogHandler(
		list_products.NewQuery(products, catalog, clk),
		get_promotions.NewQuery(catalog, clk),
		quote.NewQuery(products, explainer, clk),
		time.UTC,
		logger,
	)

	return &testServer{
		handler: NewRouter(cart, catalogHandler, NewEventsHandler(list_events.NewQuery(events), logger), logger),
		clock:   clk,
		store:   store,
		events:  events,
	}
}

func (s *testServer) do(t *testing.T, method, path, customer string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if customer != "" {
		req.Header.Set("X-Customer-ID", customer)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func (s *testServer) createCart(t *testing.T, customer string) string {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/api/v1/carts", customer, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[CartDTO](t, rec).CartID
}

func TestCartLifecycle(t *testing.T) {
	s := newTestServer(t)

	cartID := s.createCart(t, "alice")

	rec := s.do(t, http.MethodPost, "/api/v1/carts/"+cartID+"/items", "alice", AddItemRequest{ProductID: "valve", Quantity: 30})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	cart := decode[CartDTO](t, rec)
	assert.Equal(t, "building", cart.Status)
	assert.Equal(t, "2700.00", cart.TotalPrice)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, "spare_parts", cart.Items[0].Category)
	require.NotNil(t, cart.Items[0].Pricing)
	assert.Equal(t, "10.00", cart.Items[0].Pricing.SavedPercentage)

	rec = s.do(t, http.MethodPost, "/api/v1/carts/"+cartID+"/items", "alice", AddItemRequest{ProductID: "panel", Quantity: 6})
	require.Equal(t, http.StatusCreated, rec.Code)
	cart = decode[CartDTO](t, rec)
	assert.Equal(t, "3200.00", cart.TotalPrice)
	assert.Equal(t, "3600.00", cart.Summary.OriginalTotal)
	assert.Equal(t, "400.00", cart.Summary.SavedAmount)
	assert.Equal(t, "11.11", cart.Summary.SavedPercentage)

	panelID := cart.Items[1].ItemID
	rec = s.do(t, http.MethodPatch, "/api/v1/carts/"+cartID+"/items/"+panelID, "alice", UpdateItemRequest{Quantity: 5})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "3100.00", decode[CartDTO](t, rec).TotalPrice)

	s.clock.Set(lastFriday)
	rec = s.do(t, http.MethodGet, "/api/v1/carts/"+cartID, "alice", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	cart = decode[CartDTO](t, rec)
	assert.Equal(t, "3100.00", cart.TotalPrice)
	assert.Equal(t, "2700.00", cart.Items[0].CalculatedPrice)
	assert.Equal(t, "750.00", cart.Items[0].Pricing.DiscountedTotal)
	assert.True(t, cart.Items[0].PriceChanged)
	assert.False(t, cart.Items[1].PriceChanged)
	assert.Equal(t, "1150.00", cart.Summary.DiscountedTotal)

	rec = s.do(t, http.MethodPost, "/api/v1/carts/"+cartID+"/checkout", "alice", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	out := decode[CheckoutResponse](t, rec)
	assert.Equal(t, "checkout", out.Status)
	assert.Equal(t, "3100.00", out.PreviousTotal)
	assert.Equal(t, "1150.00", out.TotalPrice)

	rec = s.do(t, http.MethodGet, "/api/v1/carts/"+cartID, "alice", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	cart = decode[CartDTO](t, rec)
	require.NotNil(t, cart.CheckoutAt)
	assert.Equal(t, "2025-03-28T12:00:00Z", *cart.CheckoutAt)
	assert.Equal(t, "one_shot", cart.Items[0].Pricing.Mode)
	assert.Len(t, cart.PriceHistory, 2)

	rec = s.do(t, http.MethodPost, "/api/v1/carts/"+cartID+"/items", "alice", AddItemRequest{ProductID: "valve", Quantity: 1})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/v1/carts/"+cartID+"/checkout", "alice", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	assert.Equal(t, []string{
		"cart.created", "cart.item_added", "cart.item_added", "cart.item_updated", "cart.checked_out",
	}, s.store.EventTypes())
}

func TestCartEndpoints_Errors(t *testing.T) {
	s := newTestServer(t)
	cartID := s.createCart(t, "alice")

	tests := []struct {
		name     string
		method   string
		path     string
		customer string
		body     interface{}
		want     int
	}{
		{"missing customer header", http.MethodGet, "/api/v1/carts/" + cartID, "", nil, http.StatusUnauthorized},
		{"someone else's cart", http.MethodGet, "/api/v1/carts/" + cartID, "bob", nil, http.StatusNotFound},
		{"unknown cart", http.MethodGet, "/api/v1/carts/nope", "alice", nil, http.StatusNotFound},
		{"unknown product", http.MethodPost, "/api/v1/carts/" + cartID + "/items", "alice", AddItemRequest{ProductID: "nope", Quantity: 1}, http.StatusNotFound},
		{"zero quantity", http.MethodPost, "/api/v1/carts/" + cartID + "/items", "alice", AddItemRequest{ProductID: "valve"}, http.StatusBadRequest},
		{"unknown field", http.MethodPost, "/api/v1/carts/" + cartID + "/items", "alice", map[string]interface{}{"sku": "valve"}, http.StatusBadRequest},
		{"unknown item", http.MethodDelete, "/api/v1/carts/" + cartID + "/items/nope", "alice", nil, http.StatusNotFound},
		{"empty checkout", http.MethodPost, "/api/v1/carts/" + cartID + "/checkout", "alice", nil, http.StatusUnprocessableEntity},
		{"bad status filter", http.MethodGet, "/api/v1/carts?status=paid", "alice", nil, http.StatusBadRequest},
		{"bad page size", http.MethodGet, "/api/v1/carts?page_size=-1", "alice", nil, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(t, tt.method, tt.path, tt.customer, tt.body)
			assert.Equal(t, tt.want, rec.Code, rec.Body.String())
			assert.NotEmpty(t, decode[ErrorResponse](t, rec).Error)
		})
	}
}

func TestClearAndListCarts(t *testing.T) {
	s := newTestServer(t)
	first := s.createCart(t, "alice")
	s.clock.Advance(time.Hour)
	second := s.createCart(t, "alice")
	s.createCart(t, "bob")

	rec := s.do(t, http.MethodPost, "/api/v1/carts/"+first+"/items", "alice", AddItemRequest{ProductID: "fridge", Quantity: 2})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = s.do(t, http.MethodDelete, "/api/v1/carts/"+first+"/items", "alice", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	cleared := decode[CartDTO](t, rec)
	assert.Empty(t, cleared.Items)
	assert.Equal(t, "0.00", cleared.TotalPrice)

	rec = s.do(t, http.MethodGet, "/api/v1/carts", "alice", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[ListCartsResponse](t, rec)
	assert.Equal(t, int64(2), list.TotalCount)
	require.Len(t, list.Carts, 2)
	assert.Equal(t, second, list.Carts[0].CartID)
	assert.Equal(t, first, list.Carts[1].CartID)
}

func TestCatalogEndpoints(t *testing.T) {
	s := newTestServer(t)

	t.Run("products with badges", func(t *testing.T) {
		rec := s.do(t, http.MethodGet, "/api/v1/products?category=3", "", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		out := decode[ListProductsResponse](t, rec)
		require.Len(t, out.Products, 1)
		assert.Equal(t, "panel", out.Products[0].ProductID)
		assert.Equal(t, "100.00", out.Products[0].BasePrice)
		require.NotEmpty(t, out.Products[0].Badges)
		assert.Equal(t, "4+1 FREE", out.Products[0].Badges[0].Title)
	})

	t.Run("promotions outside the last Friday", func(t *testing.T) {
		rec := s.do(t, http.MethodGet, "/api/v1/promotions", "", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		out := decode[PromotionsResponse](t, rec)
		assert.False(t, out.OneShot.Active)
		assert.Equal(t, "2025-03-28", out.OneShot.NextLastFriday)
		assert.Equal(t, "25.00", out.OneShot.SpecialPrice)
		require.NotEmpty(t, out.QuantityDiscounts)
		assert.Equal(t, int64(10), out.QuantityDiscounts[0].Threshold)
	})

	t.Run("quote on a given day", func(t *testing.T) {
		rec := s.do(t, http.MethodPost, "/api/v1/quote", "", QuoteRequest{ProductID: "valve", Quantity: 30, AsOf: "2025-03-28"})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		out := decode[QuoteResponse](t, rec)
		assert.Equal(t, "750.00", out.Total)
		assert.Equal(t, "one_shot", out.Pricing.Mode)
		assert.NotEmpty(t, out.Narrative)
	})

	t.Run("quote rejections", func(t *testing.T) {
		rec := s.do(t, http.MethodPost, "/api/v1/quote", "", QuoteRequest{ProductID: "valve", Quantity: 1, AsOf: "next friday"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		rec = s.do(t, http.MethodPost, "/api/v1/quote", "", QuoteRequest{ProductID: "valve"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		rec = s.do(t, http.MethodPost, "/api/v1/quote", "", QuoteRequest{Quantity: 1})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestEventsEndpoint(t *testing.T) {
	s := newTestServer(t)
	s.events.rows = []*m_outbox.Data{{
		EventID:     "e-1",
		EventType:   "cart.created",
		AggregateID: "cart-1",
		Status:      m_outbox.StatusPending,
		CreatedAt:   ordinaryDay,
	}}

	rec := s.do(t, http.MethodGet, "/api/v1/events?event_type=cart.created&limit=5000", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	out := decode[ListEventsResponse](t, rec)
	assert.Equal(t, int64(1), out.TotalCount)
	require.Len(t, out.Events, 1)
	assert.Equal(t, "e-1", out.Events[0].EventID)
	assert.Nil(t, out.Events[0].ProcessedAt)

	require.NotNil(t, s.events.req.EventType)
	assert.Equal(t, "cart.created", *s.events.req.EventType)
	assert.Equal(t, 1000, s.events.req.Limit)

	rec = s.do(t, http.MethodPost, "/api/v1/events", "", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
