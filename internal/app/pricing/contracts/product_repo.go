package contracts

import (
	"context"

	"github.com/light-bringer/cart-pricing-service/internal/app/pricing/domain"
)

// ProductFilter defines filtering options for listing products.
type ProductFilter struct {
	Category domain.Category // zero means any category
	PageSize int
	Offset   int
}

// ProductRepository reads the product catalogue.
type ProductRepository interface {
	// GetByID returns ErrProductNotFound when the product does not exist.
	GetByID(ctx context.Context, productID string) (*domain.Product, error)

	// GetByIDs loads several products at once. Missing IDs are absent from the map.
	GetByIDs(ctx context.Context, productIDs []string) (map[string]*domain.Product, error)

	// List returns products ordered by name.
	List(ctx context.Context, filter ProductFilter) ([]*domain.Product, int64, error)
}
