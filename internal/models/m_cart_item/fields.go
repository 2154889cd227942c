package m_cart_item

// Field name constants for the cart_items table (interleaved in carts).
const (
	TableName = "cart_items"

	CartID          = "cart_id"
	ItemID          = "item_id"
	ProductID       = "product_id"
	Quantity        = "quantity"
	CalculatedPrice = "calculated_price"
	CreatedAt       = "created_at"
	UpdatedAt       = "updated_at"
)

// Columns lists every cart_items column in table order.
var Columns = []string{
	CartID,
	ItemID,
	ProductID,
	Quantity,
	CalculatedPrice,
	CreatedAt,
	UpdatedAt,
}
