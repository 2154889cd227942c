package get_promotions

import (
	"github.com/light-bringer/cart-pricing-service/internal/app/pricing/domain/services"
	"github.com/light-bringer/cart-pricing-service/internal/pkg/clock"
)

// Query returns the promotions in force today.
type Query struct {
	catalog *services.PromotionCatalog
	clock   clock.Clock
}

// NewQuery creates a new get promotions query.
func NewQuery(catalog *services.PromotionCatalog, clk clock.Clock) *Query {
	return &Query{catalog: catalog, clock: clk}
}

// Execute returns the active promotion catalogue.
func (q *Query) Execute() *services.ActivePromotions {
	return q.catalog.ActivePromotions(q.clock.Now())
}
