package contracts

import (
	"context"
	"time"

	pricing "github.com/light-bringer/cart-pricing-service/internal/app/pricing/domain"
)

// CartSummaryDTO is a cart row for listings.
type CartSummaryDTO struct {
	CartID     string
	CustomerID string
	Status     string
	TotalPrice *pricing.Money
	ItemCount  int64
	CheckoutAt *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// CartFilter defines filtering options for listing carts.
type CartFilter struct {
	CustomerID string
	Status     string
	PageSize   int
	Offset     int
}

// CartListResult contains one page of carts.
type CartListResult struct {
	Carts      []*CartSummaryDTO
	TotalCount int64
}

// ReadModel defines the interface for cart queries.
// Read models can bypass the domain layer for performance.
type ReadModel interface {
	// ListCarts returns a customer's carts, newest first.
	ListCarts(ctx context.Context, filter *CartFilter) (*CartListResult, error)
}
