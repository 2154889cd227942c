package list_products

import (
	"context"

	"github.com/light-bringer/cart-pricing-service/internal/app/pricing/contracts"
	"github.com/light-bringer/cart-pricing-service/internal/app/pricing/domain"
	"github.com/light-bringer/cart-pricing-service/internal/app/pricing/domain/services"
	"github.com/light-bringer/cart-pricing-service/internal/pkg/clock"
)

// Request contains filtering and pagination parameters.
type Request struct {
	Category domain.Category
	PageSize int
	Offset   int
}

// Listing is a product with the promotion badges it shows today.
type Listing struct {
	Product *domain.Product
	Badges  []services.Badge
}

// Response is one page of listings.
type Response struct {
	Products   []Listing
	TotalCount int64
}

// Query handles the list products query use case.
type Query struct {
	products contracts.ProductRepository
	catalog  *services.PromotionCatalog
	clock    clock.Clock
}

// NewQuery creates a new list products query.
func NewQuery(products contracts.ProductRepository, catalog *services.PromotionCatalog, clk clock.Clock) *Query {
	return &Query{
		products: products,
		catalog:  catalog,
		clock:    clk,
	}
}

// Execute lists products with badges evaluated at the current time.
func (q *Query) Execute(ctx context.Context, req *Request) (*Response, error) {
	if req.Category != 0 && !req.Category.IsValid() {
		return nil, domain.ErrInvalidProduct
	}

	products, total, err := q.products.List(ctx, contracts.ProductFilter{
		Category: req.Category,
		PageSize: req.PageSize,
		Offset:   req.Offset,
	})
	if err != nil {
		return nil, err
	}

	now := q.clock.Now()
	listings := make([]Listing, 0, len(products))
	for _, p := range products {
		listings = append(listings, Listing{
			Product: p,
			Badges:  q.catalog.ProductBadges(p, now),
		})
	}

	return &Response{Products: listings, TotalCount: total}, nil
}
