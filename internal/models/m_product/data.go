package m_product

import (
	"math/big"
	"time"
)

// Data represents the database model for the products table.
// base_price is a NUMERIC column and maps to big.Rat.
type Data struct {
	ProductID  string    `spanner:"product_id"`
	Name       string    `spanner:"name"`
	CategoryID int64     `spanner:"category_id"`
	BasePrice  big.Rat   `spanner:"base_price"`
	CreatedAt  time.Time `spanner:"created_at"`
	UpdatedAt  time.Time `spanner:"updated_at"`
}
