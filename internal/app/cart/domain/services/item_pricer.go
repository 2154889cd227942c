package services

import (
	"fmt"
	"time"

	"github.com/light-bringer/cart-pricing-service/internal/app/cart/domain"
	pricing "github.com/light-bringer/cart-pricing-service/internal/app/pricing/domain"
	pricingservices "github.com/light-bringer/cart-pricing-service/internal/app/pricing/domain/services"
)

// Calculator computes a line total; *pricingservices.PriceCalculator implements it.
type Calculator interface {
	ComputeTotal(product *pricing.Product, quantity int64, asOf time.Time) (*pricing.Money, error)
}

var _ Calculator = (*pricingservices.PriceCalculator)(nil)

// CatalogPricer prices cart lines from preloaded products, all on the same
// as-of day. Lines whose product is not in products fail with ErrProductNotFound.
func CatalogPricer(calc Calculator, products map[string]*pricing.Product, asOf time.Time) domain.ItemPricer {
	return func(productID string, quantity int64) (*pricing.Money, error) {
		product, ok := products[productID]
		if !ok {
			return nil, fmt.Errorf("%w: %s", domain.ErrProductNotFound, productID)
		}
		return calc.ComputeTotal(product, quantity, asOf)
	}
}
