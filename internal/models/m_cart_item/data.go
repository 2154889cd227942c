package m_cart_item

import (
	"math/big"
	"time"
)

// Data represents the database model for the cart_items table.
type Data struct {
	CartID          string    `spanner:"cart_id"`
	ItemID          string    `spanner:"item_id"`
	ProductID       string    `spanner:"product_id"`
	Quantity        int64     `spanner:"quantity"`
	CalculatedPrice big.Rat   `spanner:"calculated_price"`
	CreatedAt       time.Time `spanner:"created_at"`
	UpdatedAt       time.Time `spanner:"updated_at"`
}
