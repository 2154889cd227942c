package m_cart

import (
	"math/big"
	"time"

	"cloud.google.com/go/spanner"
)

// Data represents the database model for the carts table.
type Data struct {
	CartID     string           `spanner:"cart_id"`
	CustomerID string           `spanner:"customer_id"`
	Status     string           `spanner:"status"`
	TotalPrice big.Rat          `spanner:"total_price"`
	CheckoutAt spanner.NullTime `spanner:"checkout_at"`
	Version    int64            `spanner:"version"`
	CreatedAt  time.Time        `spanner:"created_at"`
	UpdatedAt  time.Time        `spanner:"updated_at"`
}
