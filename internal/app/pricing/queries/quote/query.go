package quote

import (
	"context"
	"fmt"
	"time"

	"github.com/light-bringer/cart-pricing-service/internal/app/pricing/contracts"
	"github.com/light-bringer/cart-pricing-service/internal/app/pricing/domain"
	"github.com/light-bringer/cart-pricing-service/internal/app/pricing/domain/services"
	"github.com/light-bringer/cart-pricing-service/internal/pkg/clock"
)

// Request prices a product without a cart. AsOf defaults to now.
type Request struct {
	ProductID string
	Quantity  int64
	AsOf      *time.Time
}

// Response is the explained price of the requested line.
type Response struct {
	Product   *domain.Product
	AsOf      time.Time
	Result    *domain.PriceResult
	Narrative string
}

// Query handles price quotes.
type Query struct {
	products  contracts.ProductRepository
	explainer *services.PromotionExplainer
	clock     clock.Clock
}

// NewQuery creates a new quote query.
func NewQuery(products contracts.ProductRepository, explainer *services.PromotionExplainer, clk clock.Clock) *Query {
	return &Query{
		products:  products,
		explainer: explainer,
		clock:     clk,
	}
}

// Execute loads the product and explains its price on the as-of day.
func (q *Query) Execute(ctx context.Context, req *Request) (*Response, error) {
	if req.ProductID == "" {
		return nil, fmt.Errorf("product ID is required")
	}
	if req.Quantity < 1 {
		return nil, domain.ErrInvalidQuantity
	}

	product, err := q.products.GetByID(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}

	asOf := q.clock.Now()
	if req.AsOf != nil {
		asOf = *req.AsOf
	}

	result, err := q.explainer.Explain(product, req.Quantity, asOf)
	if err != nil {
		return nil, err
	}

	return &Response{
		Product:   product,
		AsOf:      asOf,
		Result:    result,
		Narrative: services.Narrate(result),
	}, nil
}
