package get_cart

import (
	"context"
	"fmt"
	"time"

	"github.com/light-bringer/cart-pricing-service/internal/app/cart/contracts"
	"github.com/light-bringer/cart-pricing-service/internal/app/cart/domain"
	pricingcontracts "github.com/light-bringer/cart-pricing-service/internal/app/pricing/contracts"
	pricing "github.com/light-bringer/cart-pricing-service/internal/app/pricing/domain"
	"github.com/light-bringer/cart-pricing-service/internal/app/pricing/domain/services"
	"github.com/light-bringer/cart-pricing-service/internal/pkg/clock"
)

// Request identifies the cart to show.
type Request struct {
	CustomerID string
	CartID     string
}

// Line is a cart item with its promotion breakdown. Item.CalculatedPrice is
// the price locked when the item was last written; Breakdown is evaluated at
// the response's PricedAt. On an open cart the two differ when the promotion
// in force has changed since, and Repriced reports that checkout would
// replace the locked price with Breakdown.DiscountedTotal. Product and
// Breakdown are nil when the product is no longer in the catalogue.
type Line struct {
	Item      *domain.CartItem
	Product   *pricing.Product
	Breakdown *pricing.PriceResult
	Repriced  bool
}

// Response is a cart with per-line breakdowns evaluated at PricedAt.
type Response struct {
	Cart     *domain.Cart
	PricedAt time.Time
	Lines    []Line
	Summary  *pricing.Summary
	// History holds the price changes recorded at checkout.
	History []contracts.PriceHistoryRecord
}

// Query handles the get cart query use case.
type Query struct {
	carts     contracts.CartRepository
	history   contracts.PriceHistoryRepository
	products  pricingcontracts.ProductRepository
	explainer *services.PromotionExplainer
	clock     clock.Clock
}

// NewQuery creates a new get cart query.
func NewQuery(
	carts contracts.CartRepository,
	history contracts.PriceHistoryRepository,
	products pricingcontracts.ProductRepository,
	explainer *services.PromotionExplainer,
	clk clock.Clock,
) *Query {
	return &Query{
		carts:     carts,
		history:   history,
		products:  products,
		explainer: explainer,
		clock:     clk,
	}
}

// Execute loads the cart and explains each line. A checked-out cart is
// explained as of its checkout instant, so the breakdown matches the
// locked prices; an open cart is explained as of now.
func (q *Query) Execute(ctx context.Context, req *Request) (*Response, error) {
	if req.CartID == "" {
		return nil, domain.ErrMissingCartID
	}

	cart, err := q.carts.GetByID(ctx, req.CartID)
	if err != nil {
		return nil, err
	}
	if !cart.OwnedBy(req.CustomerID) {
		return nil, domain.ErrCartNotFound
	}

	pricedAt := q.clock.Now()
	if at := cart.CheckoutAt(); cart.IsCheckedOut() && at != nil {
		pricedAt = *at
	}

	items := cart.Items()
	ids := make([]string, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ProductID())
	}
	products := map[string]*pricing.Product{}
	if len(ids) > 0 {
		if products, err = q.products.GetByIDs(ctx, ids); err != nil {
			return nil, fmt.Errorf("failed to load products: %w", err)
		}
	}

	lines := make([]Line, 0, len(items))
	results := make([]*pricing.PriceResult, 0, len(items))
	for _, item := range items {
		line := Line{Item: item, Product: products[item.ProductID()]}
		if line.Product != nil {
			breakdown, err := q.explainer.Explain(line.Product, item.Quantity(), pricedAt)
			if err != nil {
				return nil, fmt.Errorf("failed to explain item %s: %w", item.ID(), err)
			}
			line.Breakdown = breakdown
			line.Repriced = !breakdown.DiscountedTotal.Equals(item.CalculatedPrice())
			results = append(results, breakdown)
		}
		lines = append(lines, line)
	}

	resp := &Response{
		Cart:     cart,
		PricedAt: pricedAt,
		Lines:    lines,
		Summary:  pricing.Summarize(results),
	}

	if cart.IsCheckedOut() {
		if resp.History, err = q.history.GetByCartID(ctx, cart.ID()); err != nil {
			return nil, err
		}
	}

	return resp, nil
}
